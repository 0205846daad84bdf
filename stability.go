package fixedwing

import (
	"fmt"
	"math"
)

// StabilityCoefficients are the static longitudinal stability derivatives at one point.
type StabilityCoefficients struct {
	CmAlpha      float64 // per radian
	StaticMargin float64 // fraction of the main wing MAC
	NeutralPoint float64 // x, m
}

// Stability is an optional analysis stage run at each converged control point.
type Stability interface {
	Evaluate(state FlightState, vehicle *Vehicle, aero AerodynamicCoefficients) (StabilityCoefficients, error)
}

// StabilityZero estimates the neutral point from the horizontal tail volume.
type StabilityZero struct{}

// Evaluate implements Stability.
func (StabilityZero) Evaluate(state FlightState, vehicle *Vehicle, aero AerodynamicCoefficients) (StabilityCoefficients, error) {
	wing := vehicle.MainWing()
	var tail *LiftingSurface
	for _, s := range vehicle.Surfaces {
		if s.Role == HorizontalTail {
			tail = s
			break
		}
	}
	if wing == nil || tail == nil {
		return StabilityCoefficients{}, &ConfigError{vehicle.Tag, "Surfaces", float64(len(vehicle.Surfaces)), "a main wing and a horizontal tail are required"}
	}
	wp, tp := wing.Planform, tail.Planform
	xw := wing.Origin[0] + wp.MACLeadingEdge + wp.MeanAeroChord/4
	xh := tail.Origin[0] + tp.MACLeadingEdge + tp.MeanAeroChord/4

	aw := liftSlope(wp.AspectRatio, wing.QuarterChordSweep, state.Mach)
	ah := liftSlope(tp.AspectRatio, tail.QuarterChordSweep, state.Mach)
	downwash := 2 * aw / (math.Pi * wp.AspectRatio)
	η := tail.DynamicPressureRatio
	if η == 0 {
		η = 1
	}
	tailTerm := η * ah * (1 - downwash) * tail.Area() / vehicle.Sref()
	total := aw + tailTerm
	xnp := (aw*xw + tailTerm*xh) / total

	xcg := vehicle.Mass.CenterOfGravity[0]
	if vehicle.Mass.CenterOfGravity == [3]float64{} {
		xcg = xw
	}
	sm := (xnp - xcg) / wp.MeanAeroChord
	sc := StabilityCoefficients{CmAlpha: -total * sm, StaticMargin: sm, NeutralPoint: xnp}
	if !finite(sc.CmAlpha, sc.StaticMargin) {
		return sc, fmt.Errorf("stability: non-finite derivatives: %w", errOutOfDomain)
	}
	return sc, nil
}
