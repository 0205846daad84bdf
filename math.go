package fixedwing

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/integrate"
)

const (
	fractionε = 1e-12
)

// sign returns the sign of a given number.
func sign(v float64) float64 {
	if scalar.EqualWithinAbs(v, 0, 1e-12) {
		return 1
	}
	return v / math.Abs(v)
}

// linspace returns n evenly spaced samples over [a, b].
func linspace(a, b float64, n int) []float64 {
	return floats.Span(make([]float64, n), a, b)
}

// trapz integrates y(x) with the trapezoidal rule. x must be increasing.
func trapz(x, y []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	return integrate.Trapezoidal(x, y)
}

// infNorm returns the infinity norm of v, or +Inf if any component is not finite.
func infNorm(v []float64) float64 {
	for _, val := range v {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return math.Inf(1)
		}
	}
	return floats.Norm(v, math.Inf(1))
}

// finite returns whether every value is neither NaN nor infinite.
func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// bisect finds a root of f in [lo, hi]. f(lo) and f(hi) must have opposite signs.
func bisect(f func(float64) float64, lo, hi, tol float64, maxIter int) (float64, bool) {
	flo, fhi := f(lo), f(hi)
	if flo == 0 {
		return lo, true
	}
	if fhi == 0 {
		return hi, true
	}
	if sign(flo) == sign(fhi) {
		return math.NaN(), false
	}
	for i := 0; i < maxIter && hi-lo > tol; i++ {
		mid := 0.5 * (lo + hi)
		fmid := f(mid)
		if fmid == 0 {
			return mid, true
		}
		if sign(fmid) == sign(flo) {
			lo, flo = mid, fmid
		} else {
			hi = mid
		}
	}
	return 0.5 * (lo + hi), true
}

// ellipsePerimeter is Ramanujan's second approximation for semi-axes a and b.
func ellipsePerimeter(a, b float64) float64 {
	if a+b == 0 {
		return 0
	}
	h := math.Pow(a-b, 2) / math.Pow(a+b, 2)
	return math.Pi * (a + b) * (1 + 3*h/(10+math.Sqrt(4-3*h)))
}
