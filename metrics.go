package fixedwing

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// SolverMetrics are the Prometheus collectors updated by Mission.Evaluate. A nil
// *SolverMetrics is valid and records nothing.
type SolverMetrics struct {
	SegmentsSolved      prometheus.Counter
	SegmentsFailed      prometheus.Counter
	NewtonIterations    prometheus.Histogram
	ResidualEvaluations prometheus.Counter
}

// NewSolverMetrics registers the solver collectors against reg, the default registry when nil.
// Collectors already registered by a previous call are reused.
func NewSolverMetrics(reg prometheus.Registerer) (*SolverMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	solved, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fixedwing_segments_solved_total",
		Help: "Mission segments whose residuals converged.",
	}))
	if err != nil {
		return nil, err
	}
	failed, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fixedwing_segments_failed_total",
		Help: "Mission segments that stopped a mission evaluation.",
	}))
	if err != nil {
		return nil, err
	}
	evals, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fixedwing_residual_evaluations_total",
		Help: "Evaluations of a segment residual system, Jacobian columns included.",
	}))
	if err != nil {
		return nil, err
	}
	iters := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fixedwing_newton_iterations",
		Help:    "Newton iterations needed per segment.",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34, 50},
	})
	if err := reg.Register(iters); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(prometheus.Histogram)
		if !ok {
			return nil, fmt.Errorf("collector fixedwing_newton_iterations already registered with incompatible type")
		}
		iters = existing
	}
	return &SolverMetrics{SegmentsSolved: solved, SegmentsFailed: failed, NewtonIterations: iters, ResidualEvaluations: evals}, nil
}

func registerCounter(reg prometheus.Registerer, c prometheus.Counter) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(prometheus.Counter)
		if !ok {
			return nil, fmt.Errorf("collector %s already registered with incompatible type", c.Desc())
		}
		return existing, nil
	}
	return c, nil
}

func (m *SolverMetrics) solved(iterations int) {
	if m == nil {
		return
	}
	m.SegmentsSolved.Inc()
	m.NewtonIterations.Observe(float64(iterations))
}

func (m *SolverMetrics) failed(iterations int) {
	if m == nil {
		return
	}
	m.SegmentsFailed.Inc()
	m.NewtonIterations.Observe(float64(iterations))
}

func (m *SolverMetrics) evaluated() {
	if m == nil {
		return
	}
	m.ResidualEvaluations.Inc()
}
