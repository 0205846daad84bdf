package fixedwing

import (
	"fmt"
	"math"
)

// AerodynamicCoefficients are the whole-vehicle coefficients at one flight state, referenced
// to Vehicle.Sref.
type AerodynamicCoefficients struct {
	CL            float64
	CD            float64
	CDi           float64 // induced
	CD0           float64 // parasite, including the increment
	Lift          float64 // N
	Drag          float64 // N
	AngleOfAttack float64 // radians
	LiftSlope     float64 // per radian, main wing
	Oswald        float64
}

// Aerodynamics supplies the coefficients needed to trim the vehicle. Implementations must be
// pure functions of their arguments.
type Aerodynamics interface {
	Evaluate(state FlightState, vehicle *Vehicle) (AerodynamicCoefficients, error)
}

// FidelityZero is a component drag build-up with a required-lift closure: the lift equals the
// weight component normal to the flight path.
type FidelityZero struct {
	DragCoefficientIncrement float64 // e.g. landing gear, referenced to Sref
	SpanEfficiency           float64 // Oswald factor, estimated from the main wing when zero
}

// Evaluate implements Aerodynamics.
func (fz FidelityZero) Evaluate(state FlightState, vehicle *Vehicle) (AerodynamicCoefficients, error) {
	if state.Mach >= 0.9 {
		return AerodynamicCoefficients{}, fmt.Errorf("aerodynamics: Mach %.3f: %w", state.Mach, errOutOfDomain)
	}
	wing := vehicle.MainWing()
	if wing == nil {
		return AerodynamicCoefficients{}, &ConfigError{vehicle.Tag, "Surfaces", 0, "a main wing is required"}
	}
	S := vehicle.Sref()
	q := state.DynamicPressure
	if !(q > 0) {
		return AerodynamicCoefficients{}, fmt.Errorf("aerodynamics: dynamic pressure %g: %w", q, errOutOfDomain)
	}
	var ac AerodynamicCoefficients
	ac.CL = state.Weight() * math.Cos(state.FlightPathAngle) / (q * S)

	cond := state.Conditions
	M := state.Mach
	reynolds := func(length float64) float64 {
		return cond.Density * state.AirSpeed * length / cond.DynamicViscosity
	}
	for _, s := range vehicle.Surfaces {
		Cf := skinFriction(reynolds(s.Planform.MeanAeroChord), M)
		ff := wingFormFactor(s.ThicknessToChord, s.QuarterChordSweep, M)
		ac.CD0 += Cf * ff * s.Wetted() / S
	}
	if f := vehicle.Fuselage; f != nil {
		Cf := skinFriction(reynolds(f.Lengths.Total), M)
		ac.CD0 += Cf * fuselageFormFactor(f.FinenessRatio()) * f.Wetted() / S
	}
	ac.CD0 += fz.DragCoefficientIncrement

	AR := wing.Planform.AspectRatio
	ac.Oswald = fz.SpanEfficiency
	if ac.Oswald == 0 {
		ac.Oswald = oswaldRaymer(AR, wing.QuarterChordSweep)
	}
	ac.CDi = ac.CL * ac.CL / (math.Pi * ac.Oswald * AR)
	ac.CD = ac.CD0 + ac.CDi

	ac.LiftSlope = liftSlope(AR, wing.QuarterChordSweep, M)
	ac.AngleOfAttack = ac.CL / ac.LiftSlope
	ac.Lift = ac.CL * q * S
	ac.Drag = ac.CD * q * S
	if !finite(ac.CL, ac.CD) {
		return ac, fmt.Errorf("aerodynamics: non-finite coefficients CL=%g CD=%g: %w", ac.CL, ac.CD, errOutOfDomain)
	}
	return ac, nil
}

// skinFriction is the turbulent flat plate friction coefficient with a compressibility correction.
func skinFriction(re, mach float64) float64 {
	return 0.455 / math.Pow(math.Log10(re), 2.58) * math.Pow(1+0.144*mach*mach, -0.65)
}

// wingFormFactor accounts for thickness and sweep, valid in subsonic flow.
func wingFormFactor(tc, sweep, mach float64) float64 {
	const C = 1.1
	cs2 := math.Pow(math.Cos(sweep), 2)
	m2 := 1 - mach*mach*cs2
	return 1 + 2*C*tc*cs2/math.Sqrt(m2) + C*C*cs2*tc*tc*(1+5*cs2)/(2*m2)
}

func fuselageFormFactor(fineness float64) float64 {
	return 1 + 60/math.Pow(fineness, 3) + fineness/400
}

// oswaldRaymer is Raymer's span efficiency estimate, clipped to [0.5, 0.95].
func oswaldRaymer(AR, sweep float64) float64 {
	var e float64
	if sweep < 30*Degree {
		e = 1.78*(1-0.045*math.Pow(AR, 0.68)) - 0.64
	} else {
		e = 4.61*(1-0.045*math.Pow(AR, 0.68))*math.Pow(math.Cos(sweep), 0.15) - 3.1
	}
	return math.Min(math.Max(e, 0.5), 0.95)
}

// liftSlope is the DATCOM (Helmbold) finite wing lift curve slope, per radian.
func liftSlope(AR, sweep, mach float64) float64 {
	const κ = 0.95
	β2 := 1 - mach*mach
	t := math.Tan(sweep)
	return 2 * math.Pi * AR / (2 + math.Sqrt(AR*AR*β2/(κ*κ)*(1+t*t/β2)+4))
}
