package fixedwing

import (
	"fmt"
	"math"
)

// Engine is a normally aspirated piston engine with a Gagg & Ferrar power lapse.
type Engine struct {
	Tag              string
	SeaLevelPower    float64 // W
	RatedSpeed       float64 // rad/s
	FlatRateAltitude float64 // m, full sea level power is available up to this altitude
	PSFC             float64 // kg/J, see LbPerHpHr
}

// EngineOutput is the engine state at one throttle setting.
type EngineOutput struct {
	AvailablePower float64
	Power          float64
	FuelFlow       float64 // kg/s
}

func (e *Engine) String() string {
	return fmt.Sprintf("%s: %.1f hp @ %.0f rpm", e.Tag, e.SeaLevelPower/Horsepower, e.RatedSpeed/RPM)
}

// Validate checks the engine ratings.
func (e *Engine) Validate() error {
	if !(e.SeaLevelPower > 0) {
		return &ConfigError{e.Tag, "SeaLevelPower", e.SeaLevelPower, "rated power must be positive"}
	}
	if !(e.RatedSpeed > 0) {
		return &ConfigError{e.Tag, "RatedSpeed", e.RatedSpeed, "rated speed must be positive"}
	}
	if e.PSFC < 0 {
		return &ConfigError{e.Tag, "PSFC", e.PSFC, "fuel consumption must not be negative"}
	}
	if e.FlatRateAltitude < 0 {
		return &ConfigError{e.Tag, "FlatRateAltitude", e.FlatRateAltitude, "flat rate altitude must not be negative"}
	}
	return nil
}

// Available returns the power available at full throttle at the given altitude. Above the flat
// rate altitude the density ratio is taken at the altitude in excess of it.
func (e *Engine) Available(altitude float64, atmo Atmosphere) (float64, error) {
	if altitude <= e.FlatRateAltitude {
		return e.SeaLevelPower, nil
	}
	cond, err := atmo.Evaluate(math.Max(altitude-e.FlatRateAltitude, 0))
	if err != nil {
		return 0, err
	}
	σ := cond.Density / seaLevelDensity
	return e.SeaLevelPower * (σ - 0.117) / 0.883, nil
}

// Evaluate returns the shaft power and fuel flow at the given throttle setting.
func (e *Engine) Evaluate(throttle, altitude float64, atmo Atmosphere) (EngineOutput, error) {
	avail, err := e.Available(altitude, atmo)
	if err != nil {
		return EngineOutput{}, err
	}
	power := math.Max(throttle*avail, 0)
	return EngineOutput{AvailablePower: avail, Power: power, FuelFlow: power * e.PSFC}, nil
}
