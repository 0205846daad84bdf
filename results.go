package fixedwing

import "fmt"

// StabilityResults are only present for segments that ran the stability stage.
type StabilityResults struct {
	CmAlpha      []float64
	StaticMargin []float64
	NeutralPoint []float64
}

// SegmentResults holds one converged segment. Every per point slice is ordered by control point.
type SegmentResults struct {
	Tag          string
	Kind         SegmentKind
	Initial      State
	Final        State
	Iterations   int
	ResidualNorm float64

	UnknownNames []string
	Unknowns     [][]float64 // [unknown][point], SI units

	Time                []float64
	Distance            []float64
	Altitude            []float64
	AirSpeed            []float64
	Mass                []float64
	Thrust              []float64
	Drag                []float64
	Lift                []float64
	CL                  []float64
	CD                  []float64
	CDi                 []float64
	CD0                 []float64
	FuelFlow            []float64
	ShaftPower          []float64
	EnginePower         []float64
	PropellerEfficiency []float64
	AdvanceRatio        []float64
	TipMach             []float64
	AngleOfAttack       []float64
	DynamicPressure     []float64
	Mach                []float64
	Residual            []float64 // largest residual magnitude at each point

	Stability *StabilityResults
}

// Unknown returns the converged values of the named unknown, or nil.
func (sr *SegmentResults) Unknown(name string) []float64 {
	for k, n := range sr.UnknownNames {
		if n == name {
			return sr.Unknowns[k]
		}
	}
	return nil
}

// Throttle is a shortcut for Unknown(UnknownThrottle).
func (sr *SegmentResults) Throttle() []float64 {
	return sr.Unknown(UnknownThrottle)
}

// Points returns the number of control points.
func (sr *SegmentResults) Points() int {
	return len(sr.Time)
}

// Duration returns the segment duration in seconds.
func (sr *SegmentResults) Duration() float64 {
	return sr.Final.Time - sr.Initial.Time
}

// FuelBurned returns the fuel mass used over the segment.
func (sr *SegmentResults) FuelBurned() float64 {
	return sr.Initial.Mass - sr.Final.Mass
}

func (sr *SegmentResults) String() string {
	return fmt.Sprintf("%s: %d points, %.1fs, fuel=%.3fkg, ‖r‖∞=%.3e in %d iterations", sr.Tag, sr.Points(), sr.Duration(), sr.FuelBurned(), sr.ResidualNorm, sr.Iterations)
}

// Results are produced once per mission evaluation and are read-only afterwards.
type Results struct {
	Mission  string
	Vehicle  string
	Segments []*SegmentResults // in flight order
	Final    State
}

// Segment returns the results of the segment with the given tag.
func (r *Results) Segment(tag string) (*SegmentResults, bool) {
	for _, sr := range r.Segments {
		if sr.Tag == tag {
			return sr, true
		}
	}
	return nil, false
}
