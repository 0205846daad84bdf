package fixedwing

import "fmt"

// Names of the unknowns the built-in network exposes to the solver.
const (
	UnknownThrottle        = "throttle"
	UnknownAngularVelocity = "angular_velocity"
)

// Unknown is one control the solver iterates on at every control point. Scale is the nominal
// magnitude of the unknown, so that the solver works on quantities of order one.
type Unknown struct {
	Name  string
	Seed  float64
	Scale float64
}

// PropulsionOutput is the state of the whole network at one control point. Residuals are the
// network closure conditions, already normalized.
type PropulsionOutput struct {
	Thrust       float64
	Torque       float64
	ShaftPower   float64 // absorbed by the propellers
	EnginePower  float64 // delivered by the engines
	FuelFlow     float64 // kg/s
	Efficiency   float64
	AdvanceRatio float64
	TipMach      float64
	Residuals    []float64
}

// Propulsion is a network of engines and thrusters. Evaluate must be a pure function of
// its inputs: the solver calls it concurrently while building Jacobians.
type Propulsion interface {
	Unknowns() []Unknown
	Evaluate(controls []float64, state FlightState) (PropulsionOutput, error)
	Validate() error
}

// InternalCombustionPropeller is NumberOfEngines identical engine and fixed pitch propeller pairs.
type InternalCombustionPropeller struct {
	Tag                 string
	NumberOfEngines     int
	IdenticalPropellers bool
	Engine              Engine
	Propeller           Propeller
}

// Unknowns implements Propulsion: a throttle and a shaft speed per control point.
func (n *InternalCombustionPropeller) Unknowns() []Unknown {
	return []Unknown{
		{Name: UnknownThrottle, Seed: 1, Scale: 1},
		{Name: UnknownAngularVelocity, Seed: n.Engine.RatedSpeed, Scale: n.Engine.RatedSpeed},
	}
}

// Validate implements Propulsion.
func (n *InternalCombustionPropeller) Validate() error {
	if n.NumberOfEngines < 1 {
		return &ConfigError{n.Tag, "NumberOfEngines", float64(n.NumberOfEngines), "at least one engine is required"}
	}
	if !n.IdenticalPropellers {
		return &ConfigError{n.Tag, "IdenticalPropellers", 0, "only identical engine and propeller pairs are supported"}
	}
	if err := n.Engine.Validate(); err != nil {
		return err
	}
	if err := n.Propeller.Validate(); err != nil {
		return err
	}
	if n.Propeller.DesignPower > n.Engine.SeaLevelPower {
		return &ConfigError{n.Propeller.Tag, "DesignPower", n.Propeller.DesignPower, fmt.Sprintf("exceeds the rated power of %s (%g W)", n.Engine.Tag, n.Engine.SeaLevelPower)}
	}
	if n.Propeller.Blade == nil {
		return &ConfigError{n.Propeller.Tag, "Blade", 0, "propeller has not been designed"}
	}
	return nil
}

// Evaluate implements Propulsion. controls are the throttle and the shaft speed in rad/s.
func (n *InternalCombustionPropeller) Evaluate(controls []float64, state FlightState) (PropulsionOutput, error) {
	if len(controls) != 2 {
		return PropulsionOutput{}, fmt.Errorf("%s: expected 2 controls, got %d", n.Tag, len(controls))
	}
	throttle, omega := controls[0], controls[1]
	eng, err := n.Engine.Evaluate(throttle, state.Altitude, state.Atmosphere)
	if err != nil {
		return PropulsionOutput{}, err
	}
	prop, err := n.Propeller.Evaluate(omega, state.AirSpeed, state.Conditions)
	if err != nil {
		return PropulsionOutput{}, err
	}
	count := float64(n.NumberOfEngines)
	return PropulsionOutput{
		Thrust:       count * prop.Thrust,
		Torque:       count * prop.Torque,
		ShaftPower:   count * prop.Power,
		EnginePower:  count * eng.Power,
		FuelFlow:     count * eng.FuelFlow,
		Efficiency:   prop.Efficiency,
		AdvanceRatio: prop.AdvanceRatio,
		TipMach:      prop.TipMach,
		Residuals:    []float64{(eng.Power - prop.Power) / n.Engine.SeaLevelPower},
	}, nil
}

// RatedPower returns the total sea level power of the network.
func (n *InternalCombustionPropeller) RatedPower() float64 {
	return float64(n.NumberOfEngines) * n.Engine.SeaLevelPower
}
