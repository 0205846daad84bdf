package fixedwing

import "fmt"

// State is what flows from one segment to the next.
type State struct {
	Time     float64 // s since the start of the mission
	Distance float64 // m flown since the start of the mission
	Altitude float64 // m
	Mass     float64 // kg
}

func (s State) String() string {
	return fmt.Sprintf("t=%.1fs x=%.1fm h=%.1fm m=%.3fkg", s.Time, s.Distance, s.Altitude, s.Mass)
}

// FlightState is the condition at one control point, as seen by the analysis providers.
type FlightState struct {
	Time            float64
	Distance        float64
	Altitude        float64
	AirSpeed        float64 // true airspeed, m/s
	Mass            float64
	FlightPathAngle float64 // radians, positive climbing
	Conditions      AtmosphereConditions
	DynamicPressure float64
	Mach            float64
	// Atmosphere is the model the conditions were drawn from. Providers needing another
	// altitude (e.g. an engine above its flat rate altitude) query it.
	Atmosphere Atmosphere
}

// Weight returns m·g0 in N.
func (fs FlightState) Weight() float64 {
	return fs.Mass * g0
}

// newFlightState fills in the freestream quantities at the given altitude and airspeed.
func newFlightState(atmo Atmosphere, altitude, airspeed, mass, gamma float64) (FlightState, error) {
	cond, err := atmo.Evaluate(altitude)
	if err != nil {
		return FlightState{}, err
	}
	return FlightState{
		Altitude:        altitude,
		AirSpeed:        airspeed,
		Mass:            mass,
		FlightPathAngle: gamma,
		Conditions:      cond,
		DynamicPressure: 0.5 * cond.Density * airspeed * airspeed,
		Mach:            airspeed / cond.SpeedOfSound,
		Atmosphere:      atmo,
	}, nil
}
