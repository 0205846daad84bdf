package fixedwing

import (
	"fmt"
	"math"
)

const (
	// DefaultBladeStations is the number of radial stations used by the design and the analysis.
	DefaultBladeStations = 20
	inflowTolerance      = 1e-10
	inflowMaxIterations  = 200
)

// Blade is the chord and pitch distribution produced by Propeller.Design. Pitch angles are
// measured from the rotor plane, in radians.
type Blade struct {
	Radius []float64
	Chord  []float64
	Twist  []float64
	Cl     []float64
	// Performance predicted by the design method at the design point.
	DesignThrust     float64
	DesignTorque     float64
	DesignPower      float64
	DesignEfficiency float64
	Iterations       int
}

// Propeller is a fixed pitch propeller. The blade is sized once by Design and is then read-only.
type Propeller struct {
	Tag                   string
	Blades                int
	TipRadius             float64
	HubRadius             float64
	Origin                [3]float64
	DesignPower           float64
	DesignAltitude        float64
	DesignAngularVelocity float64
	DesignFreestream      float64
	DesignCl              float64
	Stations              int // radial stations, DefaultBladeStations when zero
	Airfoils              []Airfoil
	PolarStations         []int // index into Airfoils for each radial station, all zero when empty
	Blade                 *Blade
}

// PropellerPerformance is the output of a blade element momentum analysis.
type PropellerPerformance struct {
	Thrust            float64
	Torque            float64
	Power             float64
	Efficiency        float64
	AdvanceRatio      float64
	ThrustCoefficient float64
	PowerCoefficient  float64
	TipMach           float64
}

func (p *Propeller) stations() int {
	if p.Stations > 0 {
		return p.Stations
	}
	return DefaultBladeStations
}

// Validate checks the geometric and design inputs. It does not require a designed blade.
func (p *Propeller) Validate() error {
	if p.Blades < 1 {
		return &ConfigError{p.Tag, "Blades", float64(p.Blades), "at least one blade is required"}
	}
	if !(p.TipRadius > 0) {
		return &GeometryError{p.Tag, "TipRadius", p.TipRadius, "radius must be positive"}
	}
	if p.HubRadius < 0 || p.HubRadius >= p.TipRadius {
		return &GeometryError{p.Tag, "HubRadius", p.HubRadius, fmt.Sprintf("hub radius must be in [0, tip radius %g)", p.TipRadius)}
	}
	for _, d := range []struct {
		field string
		value float64
	}{
		{"DesignPower", p.DesignPower},
		{"DesignAngularVelocity", p.DesignAngularVelocity},
		{"DesignFreestream", p.DesignFreestream},
		{"DesignCl", p.DesignCl},
	} {
		if !(d.value > 0) {
			return &ConfigError{p.Tag, d.field, d.value, "design value must be positive"}
		}
	}
	if len(p.Airfoils) == 0 {
		return &ConfigError{p.Tag, "Airfoils", 0, "at least one airfoil is required"}
	}
	for i := range p.Airfoils {
		if err := p.Airfoils[i].Validate(); err != nil {
			return err
		}
	}
	if len(p.PolarStations) > 0 {
		if len(p.PolarStations) != p.stations() {
			return &ConfigError{p.Tag, "PolarStations", float64(len(p.PolarStations)), fmt.Sprintf("expected one airfoil index per station (%d)", p.stations())}
		}
		for i, idx := range p.PolarStations {
			if idx < 0 || idx >= len(p.Airfoils) {
				return &ConfigError{p.Tag, fmt.Sprintf("PolarStations[%d]", i), float64(idx), "unknown airfoil"}
			}
		}
	}
	return nil
}

// airfoil returns the airfoil of the i-th radial station.
func (p *Propeller) airfoil(i int) *Airfoil {
	if len(p.PolarStations) == 0 {
		return &p.Airfoils[0]
	}
	return &p.Airfoils[p.PolarStations[i]]
}

// Evaluate runs a blade element momentum analysis of the designed blade at the given shaft
// speed (rad/s) and freestream velocity (m/s).
func (p *Propeller) Evaluate(omega, velocity float64, atmo AtmosphereConditions) (PropellerPerformance, error) {
	if p.Blade == nil {
		return PropellerPerformance{}, &ConfigError{p.Tag, "Blade", 0, "propeller has not been designed"}
	}
	if !(omega > 0) || !(velocity > 0) {
		return PropellerPerformance{}, fmt.Errorf("propeller %s: ω=%g rad/s V=%g m/s: %w", p.Tag, omega, velocity, errOutOfDomain)
	}
	B := float64(p.Blades)
	R, Rh := p.TipRadius, p.HubRadius
	n := len(p.Blade.Radius)
	dr := (R - Rh) / float64(n)
	rho, mu := atmo.Density, atmo.DynamicViscosity

	var thrust, torque float64
	for i := 0; i < n; i++ {
		r, c, β := p.Blade.Radius[i], p.Blade.Chord[i], p.Blade.Twist[i]
		ωr := omega * r
		// The section Reynolds number is taken at the uninduced velocity.
		polar := p.airfoil(i).At(rho * math.Hypot(velocity, ωr) * c / mu)
		σ := B * c / (2 * math.Pi * r)
		induction := func(φ float64) (a, ap, cn, ct float64) {
			sφ, cφ := math.Sin(φ), math.Cos(φ)
			cl, cd := polar.Coefficients(β - φ)
			cn = cl*cφ - cd*sφ
			ct = cl*sφ + cd*cφ
			F := prandtl(B/2*(R-r)/(r*sφ))
			if Rh > 0 {
				F *= prandtl(B / 2 * (r - Rh) / (Rh * sφ))
			}
			F = math.Max(F, 1e-4)
			k := math.Min(σ*cn/(4*F*sφ*sφ), 0.9)
			kp := math.Max(σ*ct/(4*F*sφ*cφ), -0.5)
			return k / (1 - k), kp / (1 + kp), cn, ct
		}
		residual := func(φ float64) float64 {
			a, ap, _, _ := induction(φ)
			return math.Sin(φ)/(1+a) - velocity/ωr*math.Cos(φ)/(1-ap)
		}
		φ0 := math.Atan2(velocity, ωr)
		lo, hi := φ0, math.Pi/2-1e-6
		if residual(φ0) > 0 {
			lo, hi = 1e-6, φ0
		}
		φ, ok := bisect(residual, lo, hi, inflowTolerance, inflowMaxIterations)
		if !ok {
			return PropellerPerformance{}, fmt.Errorf("propeller %s: no inflow angle at r=%.4fm: %w", p.Tag, r, errOutOfDomain)
		}
		a, _, cn, ct := induction(φ)
		W := velocity * (1 + a) / math.Sin(φ)
		q := 0.5 * rho * W * W * B * c
		thrust += q * cn * dr
		torque += q * ct * r * dr
	}

	perf := PropellerPerformance{Thrust: thrust, Torque: torque, Power: torque * omega}
	rps := omega / (2 * math.Pi)
	D := 2 * R
	perf.AdvanceRatio = velocity / (rps * D)
	perf.ThrustCoefficient = thrust / (rho * rps * rps * math.Pow(D, 4))
	perf.PowerCoefficient = perf.Power / (rho * math.Pow(rps, 3) * math.Pow(D, 5))
	if perf.Power > 0 {
		perf.Efficiency = thrust * velocity / perf.Power
	}
	perf.TipMach = math.Hypot(velocity, omega*R) / atmo.SpeedOfSound
	if !finite(perf.Thrust, perf.Power) {
		return perf, fmt.Errorf("propeller %s: non-finite performance: %w", p.Tag, errOutOfDomain)
	}
	return perf, nil
}

// prandtl is the loss factor 2/π·acos(exp(-f)).
func prandtl(f float64) float64 {
	return 2 / math.Pi * math.Acos(math.Exp(-f))
}
