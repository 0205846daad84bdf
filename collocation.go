package fixedwing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Collocation holds the Chebyshev-Gauss-Lobatto nodes of a segment on the normalized
// interval [0, 1] with the matching spectral differentiation and integration operators.
type Collocation struct {
	N     int
	Nodes []float64
	D     *mat.Dense // d/ds
	I     *mat.Dense // ∫_0^s ds, first row is zero
}

// NewCollocation builds the operators for n nodes, both ends included.
func NewCollocation(n int) (*Collocation, error) {
	if n < 2 {
		return nil, &ConfigError{"collocation", "ControlPoints", float64(n), "at least two control points are required"}
	}
	x := make([]float64, n)
	nodes := make([]float64, n)
	for j := range x {
		x[j] = math.Cos(math.Pi * float64(j) / float64(n-1))
		nodes[j] = (1 - x[j]) / 2
	}
	c := func(i int) float64 {
		v := 1.0
		if i == 0 || i == n-1 {
			v = 2
		}
		if i%2 == 1 {
			v = -v
		}
		return v
	}
	D := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		var diag float64
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			// ds = -dx/2 so the derivative in s is -2 times the one in x.
			v := -2 * c(i) / c(j) / (x[i] - x[j])
			D.Set(i, j, v)
			diag -= v
		}
		D.Set(i, i, diag)
	}

	var inv mat.Dense
	if err := inv.Inverse(D.Slice(1, n, 1, n)); err != nil {
		if _, ill := err.(mat.Condition); !ill {
			return nil, fmt.Errorf("collocation: inverting the differentiation matrix: %w", err)
		}
	}
	I := mat.NewDense(n, n, nil)
	I.Slice(1, n, 1, n).(*mat.Dense).Copy(&inv)
	return &Collocation{N: n, Nodes: nodes, D: D, I: I}, nil
}

// Integrate returns the cumulative integral of f over a segment of the given length.
func (c *Collocation) Integrate(f []float64, length float64) []float64 {
	var out mat.VecDense
	out.MulVec(c.I, mat.NewVecDense(c.N, f))
	out.ScaleVec(length, &out)
	return out.RawVector().Data
}

// Differentiate returns the derivative of f over a segment of the given length.
func (c *Collocation) Differentiate(f []float64, length float64) []float64 {
	var out mat.VecDense
	out.MulVec(c.D, mat.NewVecDense(c.N, f))
	out.ScaleVec(1/length, &out)
	return out.RawVector().Data
}
