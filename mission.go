package fixedwing

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	kitlog "github.com/go-kit/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/fwsizing/fixedwing"

// Analyses are the providers consulted at every control point. Stability is optional.
type Analyses struct {
	Aerodynamics Aerodynamics
	Atmosphere   Atmosphere
	Stability    Stability
}

// Mission is an ordered list of segments flown by one vehicle.
type Mission struct {
	Tag      string
	Vehicle  *Vehicle
	Analyses Analyses
	Segments []*Segment
	Initial  State // Mass defaults to the vehicle takeoff mass when zero
	Solver   SolverConfig
	Metrics  *SolverMetrics // optional
	Tracer   trace.Tracer   // the global provider's tracer when nil
	logger   kitlog.Logger
}

// NewLogger returns a logfmt logger tagged with the mission name, writing to w (stdout when nil).
func NewLogger(w io.Writer, mission string) kitlog.Logger {
	if w == nil {
		w = os.Stdout
	}
	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(w))
	return kitlog.With(klog, "mission", mission)
}

// NewMission returns a mission with the default solver configuration. A nil logger discards
// all messages.
func NewMission(tag string, vehicle *Vehicle, analyses Analyses, logger kitlog.Logger) *Mission {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Mission{Tag: tag, Vehicle: vehicle, Analyses: analyses, Solver: DefaultSolverConfig(), logger: logger}
}

// AppendSegment validates the segment and adds it at the end of the mission.
func (m *Mission) AppendSegment(s *Segment) error {
	for _, other := range m.Segments {
		if other.Tag == s.Tag {
			return &ConfigError{m.Tag, "Segments", float64(len(m.Segments)), fmt.Sprintf("duplicate segment tag %q", s.Tag)}
		}
	}
	if err := s.Validate(); err != nil {
		return err
	}
	m.Segments = append(m.Segments, s)
	return nil
}

func (m *Mission) validate() error {
	if m.Vehicle == nil {
		return &ConfigError{m.Tag, "Vehicle", 0, "a vehicle is required"}
	}
	if m.Analyses.Aerodynamics == nil || m.Analyses.Atmosphere == nil {
		return &ConfigError{m.Tag, "Analyses", 0, "aerodynamics and atmosphere providers are required"}
	}
	if len(m.Segments) == 0 {
		return &ConfigError{m.Tag, "Segments", 0, "at least one segment is required"}
	}
	if err := m.Solver.Validate(); err != nil {
		return err
	}
	if err := m.Vehicle.Process(); err != nil {
		return err
	}
	if err := m.Vehicle.Validate(); err != nil {
		return err
	}
	for _, s := range m.Segments {
		if err := s.Validate(); err != nil {
			return err
		}
		if s.Vehicle != nil {
			if err := s.Vehicle.Process(); err != nil {
				return err
			}
			if err := s.Vehicle.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Evaluate flies every segment in order, each starting exactly where the previous one ended.
// When a segment fails, the results of the segments already flown are returned with the error.
func (m *Mission) Evaluate(ctx context.Context) (*Results, error) {
	tracer := m.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	ctx, span := tracer.Start(ctx, "mission.evaluate", trace.WithAttributes(
		attribute.String("mission", m.Tag),
		attribute.Int("segments", len(m.Segments)),
	))
	defer span.End()

	if err := m.validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		m.logger.Log("level", "critical", "subsys", "mission", "err", err)
		return nil, err
	}

	results := &Results{Mission: m.Tag, Vehicle: m.Vehicle.Tag}
	state := m.Initial
	if state.Mass == 0 {
		state.Mass = m.Vehicle.Mass.Takeoff
	}
	results.Final = state
	collocations := make(map[int]*Collocation)
	start := time.Now()
	m.logger.Log("level", "info", "subsys", "mission", "status", "started", "vehicle", m.Vehicle.Tag, "state", state)

	for _, seg := range m.Segments {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			return results, err
		}
		sr, err := m.evaluateSegment(ctx, tracer, seg, state, collocations)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			m.logger.Log("level", "critical", "subsys", "solver", "segment", seg.Tag, "err", err)
			return results, err
		}
		results.Segments = append(results.Segments, sr)
		state = sr.Final
		results.Final = state
		m.logger.Log("level", "info", "subsys", "solver", "segment", seg.Tag, "iterations", sr.Iterations, "‖r‖∞", sr.ResidualNorm, "duration(h)", sr.Duration()/Hour, "fuel(kg)", sr.FuelBurned())
		if state.Mass < m.Vehicle.Mass.MaxZeroFuel {
			m.logger.Log("level", "critical", "subsys", "prop", "segment", seg.Tag, "mass(kg)", state.Mass, "fuel(kg)", state.Mass-m.Vehicle.Mass.MaxZeroFuel)
		}
	}
	m.logger.Log("level", "notice", "subsys", "mission", "status", "finished", "elapsed", time.Since(start), "fuel(kg)", results.Segments[0].Initial.Mass-state.Mass)
	return results, nil
}

func (m *Mission) evaluateSegment(ctx context.Context, tracer trace.Tracer, seg *Segment, start State, collocations map[int]*Collocation) (*SegmentResults, error) {
	n := seg.ControlPoints
	if n == 0 {
		n = m.Solver.ControlPoints
	}
	_, span := tracer.Start(ctx, "segment.solve", trace.WithAttributes(
		attribute.String("segment", seg.Tag),
		attribute.String("kind", seg.Kind.String()),
		attribute.Int("control_points", n),
	))
	defer span.End()

	vehicle := m.Vehicle
	if seg.Vehicle != nil {
		vehicle = seg.Vehicle
	}
	prof, err := seg.profile(start)
	if err != nil {
		m.Metrics.failed(0)
		return nil, &SegmentError{Segment: seg.Tag, Err: err}
	}
	col, ok := collocations[n]
	if !ok {
		if col, err = NewCollocation(n); err != nil {
			m.Metrics.failed(0)
			return nil, &SegmentError{Segment: seg.Tag, Err: err}
		}
		collocations[n] = col
	}
	ss := &segmentSolver{
		seg:      seg,
		vehicle:  vehicle,
		analyses: m.Analyses,
		start:    start,
		prof:     prof,
		col:      col,
		unknowns: vehicle.Network.Unknowns(),
		cfg:      m.Solver,
		metrics:  m.Metrics,
	}
	sr, err := ss.solve()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("iterations", sr.Iterations), attribute.Float64("residual", sr.ResidualNorm))
	return sr, nil
}
