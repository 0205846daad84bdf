package fixedwing

import "math"

// Unit conversions. Multiplying a value expressed in the named unit by the
// constant yields the SI value used everywhere inside this package.
const (
	Meter        = 1.0
	Feet         = 0.3048
	Inch         = 0.0254
	NauticalMile = 1852.0
	Pound        = 0.45359237 // mass, kg
	Second       = 1.0
	Minute       = 60.0
	Hour         = 3600.0
	Knot         = NauticalMile / Hour
	MPH          = 1609.344 / Hour
	Horsepower   = 745.69987158227022
	RPM          = 2 * math.Pi / 60
	Degree       = math.Pi / 180
	// LbPerHpHr converts a power specific fuel consumption in lb/(hp·h) to kg/J.
	LbPerHpHr = Pound / (Horsepower * Hour)
)

const (
	g0                = 9.80665 // m/s^2
	seaLevelDensity   = 1.225   // kg/m^3, used by the Gagg & Ferrar engine lapse
	gasConstantAir    = 287.05287
	heatCapacityRatio = 1.4
)
