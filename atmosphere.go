package fixedwing

import (
	"fmt"
	"math"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
)

// AtmosphereConditions are the freestream properties at one altitude, SI.
type AtmosphereConditions struct {
	Altitude         float64
	Density          float64
	Temperature      float64
	Pressure         float64
	SpeedOfSound     float64
	DynamicViscosity float64
}

// KinematicViscosity returns μ/ρ.
func (c AtmosphereConditions) KinematicViscosity() float64 {
	return c.DynamicViscosity / c.Density
}

func (c AtmosphereConditions) String() string {
	return fmt.Sprintf("h=%.1fm ρ=%.5fkg/m^3 T=%.2fK p=%.1fPa a=%.2fm/s", c.Altitude, c.Density, c.Temperature, c.Pressure, c.SpeedOfSound)
}

// Atmosphere is a pure function of the geometric altitude.
type Atmosphere interface {
	Evaluate(altitude float64) (AtmosphereConditions, error)
}

const (
	earthRadius1976 = 6356766.0   // m, for geopotential altitude
	gMR1976         = 0.034163195 // g0·M/R*, K/m
	topOfModel1976  = 84852.0     // m geopotential
)

// Layer bases (m geopotential), lapse rates (K/m) and base pressures (Pa).
var (
	layerBase1976     = []float64{0, 11000, 20000, 32000, 47000, 51000, 71000, topOfModel1976}
	layerLapse1976    = []float64{-0.0065, 0, 0.001, 0.0028, 0, -0.0028, -0.002, 0}
	layerPressure1976 = []float64{101325, 22632.06, 5474.889, 868.0187, 110.9063, 66.93887, 3.956420, 0.3733836}
	layerTemp1976     = func() []float64 {
		temps := make([]float64, len(layerBase1976))
		temps[0] = 288.15
		for i := 1; i < len(temps); i++ {
			temps[i] = temps[i-1] + layerLapse1976[i-1]*(layerBase1976[i]-layerBase1976[i-1])
		}
		return temps
	}()
)

// USStandard1976 is the U.S. Standard Atmosphere 1976 below 86 km geometric altitude.
// TemperatureDeviation offsets the temperature without changing the pressure profile.
type USStandard1976 struct {
	TemperatureDeviation float64
}

// Evaluate implements Atmosphere.
func (a USStandard1976) Evaluate(altitude float64) (AtmosphereConditions, error) {
	if !finite(altitude) {
		return AtmosphereConditions{}, fmt.Errorf("atmosphere: altitude %g: %w", altitude, errOutOfDomain)
	}
	H := earthRadius1976 * altitude / (earthRadius1976 + altitude)
	if H < -5000 || H > topOfModel1976 {
		return AtmosphereConditions{}, fmt.Errorf("atmosphere: geopotential altitude %.1fm outside [-5000, %.0f]: %w", H, topOfModel1976, errOutOfDomain)
	}
	i := sort.SearchFloat64s(layerBase1976, H)
	if i == len(layerBase1976) || layerBase1976[i] > H {
		i--
	}
	if i < 0 {
		i = 0
	}
	Tb, Pb, L := layerTemp1976[i], layerPressure1976[i], layerLapse1976[i]
	dH := H - layerBase1976[i]
	T := Tb + L*dH
	var p float64
	if L == 0 {
		p = Pb * math.Exp(-gMR1976*dH/Tb)
	} else {
		p = Pb * math.Pow(Tb/T, gMR1976/L)
	}
	T += a.TemperatureDeviation
	rho := p / (gasConstantAir * T)
	return AtmosphereConditions{
		Altitude:         altitude,
		Density:          rho,
		Temperature:      T,
		Pressure:         p,
		SpeedOfSound:     math.Sqrt(heatCapacityRatio * gasConstantAir * T),
		DynamicViscosity: sutherland(T),
	}, nil
}

// sutherland returns the dynamic viscosity of air in Pa·s.
func sutherland(T float64) float64 {
	return 1.458e-6 * math.Pow(T, 1.5) / (T + 110.4)
}

// CachedAtmosphere memoizes another atmosphere model. It is safe for concurrent use.
type CachedAtmosphere struct {
	model Atmosphere
	cache *lru.Cache[float64, AtmosphereConditions]
}

// NewCachedAtmosphere wraps model with an LRU of the given size.
func NewCachedAtmosphere(model Atmosphere, size int) (*CachedAtmosphere, error) {
	cache, err := lru.New[float64, AtmosphereConditions](size)
	if err != nil {
		return nil, err
	}
	return &CachedAtmosphere{model: model, cache: cache}, nil
}

// Evaluate implements Atmosphere. Errors are not cached.
func (c *CachedAtmosphere) Evaluate(altitude float64) (AtmosphereConditions, error) {
	if cond, ok := c.cache.Get(altitude); ok {
		return cond, nil
	}
	cond, err := c.model.Evaluate(altitude)
	if err != nil {
		return cond, err
	}
	c.cache.Add(altitude, cond)
	return cond, nil
}

// Len returns the number of cached altitudes.
func (c *CachedAtmosphere) Len() int {
	return c.cache.Len()
}
