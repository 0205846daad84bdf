package fixedwing

import (
	"fmt"
	"math"
	"sort"
)

// AirfoilPolar is a parabolic drag polar with a linear lift curve, valid at one Reynolds number.
//
//	cl = LiftSlope·(α - ZeroLiftAlpha), clipped to [ClMin, ClMax]
//	cd = Cd0 + K·(cl - ClMinDrag)²
type AirfoilPolar struct {
	Reynolds      float64
	LiftSlope     float64 // per radian
	ZeroLiftAlpha float64 // radians
	ClMax, ClMin  float64
	Cd0           float64
	K             float64
	ClMinDrag     float64
}

// Airfoil is a set of polars sorted by increasing Reynolds number. Coefficients are
// interpolated linearly in log(Re) between polars and held constant outside of the set.
type Airfoil struct {
	Tag    string
	Polars []AirfoilPolar
}

// Validate checks the polar set.
func (a *Airfoil) Validate() error {
	if len(a.Polars) == 0 {
		return &ConfigError{a.Tag, "Polars", 0, "at least one polar is required"}
	}
	for i, p := range a.Polars {
		if !(p.Reynolds > 0) {
			return &ConfigError{a.Tag, fmt.Sprintf("Polars[%d].Reynolds", i), p.Reynolds, "Reynolds number must be positive"}
		}
		if i > 0 && !(p.Reynolds > a.Polars[i-1].Reynolds) {
			return &ConfigError{a.Tag, fmt.Sprintf("Polars[%d].Reynolds", i), p.Reynolds, "polars must be sorted by increasing Reynolds number"}
		}
		if !(p.LiftSlope > 0) {
			return &ConfigError{a.Tag, fmt.Sprintf("Polars[%d].LiftSlope", i), p.LiftSlope, "lift slope must be positive"}
		}
		if !(p.ClMax > p.ClMin) {
			return &ConfigError{a.Tag, fmt.Sprintf("Polars[%d].ClMax", i), p.ClMax, "maximum lift must exceed minimum lift"}
		}
	}
	return nil
}

// At returns the polar interpolated at the given Reynolds number.
func (a *Airfoil) At(re float64) AirfoilPolar {
	n := len(a.Polars)
	if re <= a.Polars[0].Reynolds || n == 1 {
		return a.Polars[0]
	}
	if re >= a.Polars[n-1].Reynolds {
		return a.Polars[n-1]
	}
	i := sort.Search(n, func(i int) bool { return a.Polars[i].Reynolds >= re })
	lo, hi := a.Polars[i-1], a.Polars[i]
	w := (math.Log(re) - math.Log(lo.Reynolds)) / (math.Log(hi.Reynolds) - math.Log(lo.Reynolds))
	lerp := func(x, y float64) float64 { return x + w*(y-x) }
	return AirfoilPolar{
		Reynolds:      re,
		LiftSlope:     lerp(lo.LiftSlope, hi.LiftSlope),
		ZeroLiftAlpha: lerp(lo.ZeroLiftAlpha, hi.ZeroLiftAlpha),
		ClMax:         lerp(lo.ClMax, hi.ClMax),
		ClMin:         lerp(lo.ClMin, hi.ClMin),
		Cd0:           lerp(lo.Cd0, hi.Cd0),
		K:             lerp(lo.K, hi.K),
		ClMinDrag:     lerp(lo.ClMinDrag, hi.ClMinDrag),
	}
}

// Coefficients returns the section lift and drag coefficients at the angle of attack α.
// Past stall the lift is held at its limit and a flat-plate drag term is added.
func (p AirfoilPolar) Coefficients(α float64) (cl, cd float64) {
	cl = p.LiftSlope * (α - p.ZeroLiftAlpha)
	var stall float64
	switch {
	case cl > p.ClMax:
		stall = α - (p.ZeroLiftAlpha + p.ClMax/p.LiftSlope)
		cl = p.ClMax
	case cl < p.ClMin:
		stall = α - (p.ZeroLiftAlpha + p.ClMin/p.LiftSlope)
		cl = p.ClMin
	}
	cd = p.Drag(cl) + 2*math.Pow(math.Sin(stall), 2)
	return cl, cd
}

// Alpha returns the angle of attack producing cl on the linear part of the lift curve.
func (p AirfoilPolar) Alpha(cl float64) float64 {
	return p.ZeroLiftAlpha + cl/p.LiftSlope
}

// Drag returns the profile drag coefficient at cl, ignoring stall.
func (p AirfoilPolar) Drag(cl float64) float64 {
	return p.Cd0 + p.K*math.Pow(cl-p.ClMinDrag, 2)
}

// NACA4412 returns polars fitted to the NACA 4412 section at five Reynolds numbers
// from 5e4 to 1e6.
func NACA4412() Airfoil {
	return Airfoil{
		Tag: "NACA_4412",
		Polars: []AirfoilPolar{
			{Reynolds: 5e4, LiftSlope: 5.30, ZeroLiftAlpha: -3.5 * Degree, ClMax: 1.10, ClMin: -0.60, Cd0: 0.0200, K: 0.0120, ClMinDrag: 0.50},
			{Reynolds: 1e5, LiftSlope: 5.60, ZeroLiftAlpha: -3.8 * Degree, ClMax: 1.25, ClMin: -0.70, Cd0: 0.0130, K: 0.0100, ClMinDrag: 0.50},
			{Reynolds: 2e5, LiftSlope: 5.80, ZeroLiftAlpha: -4.0 * Degree, ClMax: 1.40, ClMin: -0.80, Cd0: 0.0095, K: 0.0090, ClMinDrag: 0.45},
			{Reynolds: 5e5, LiftSlope: 6.00, ZeroLiftAlpha: -4.1 * Degree, ClMax: 1.55, ClMin: -0.85, Cd0: 0.0075, K: 0.0080, ClMinDrag: 0.40},
			{Reynolds: 1e6, LiftSlope: 6.10, ZeroLiftAlpha: -4.2 * Degree, ClMax: 1.60, ClMin: -0.90, Cd0: 0.0065, K: 0.0075, ClMinDrag: 0.40},
		},
	}
}
