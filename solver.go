package fixedwing

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// SolverConfig controls the Newton iteration of every segment.
type SolverConfig struct {
	Tolerance          float64 // on the infinity norm of the normalized residuals
	MaxIterations      int
	ControlPoints      int // used by segments which do not set their own
	JacobianStep       float64
	ConcurrentJacobian bool
	MaxBacktracks      int
}

// DefaultSolverConfig returns the configuration used when none is given.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		Tolerance:     1e-8,
		MaxIterations: 50,
		ControlPoints: 16,
		JacobianStep:  1e-6,
		MaxBacktracks: 20,
	}
}

// Validate checks the solver settings.
func (c SolverConfig) Validate() error {
	if !(c.Tolerance > 0) {
		return &ConfigError{"solver", "Tolerance", c.Tolerance, "tolerance must be positive"}
	}
	if c.MaxIterations < 1 {
		return &ConfigError{"solver", "MaxIterations", float64(c.MaxIterations), "at least one iteration is required"}
	}
	if c.ControlPoints < 2 {
		return &ConfigError{"solver", "ControlPoints", float64(c.ControlPoints), "at least two control points are required"}
	}
	if !(c.JacobianStep > 0) {
		return &ConfigError{"solver", "JacobianStep", c.JacobianStep, "finite difference step must be positive"}
	}
	return nil
}

// pointEval is everything computed at one control point.
type pointEval struct {
	state    FlightState
	controls []float64
	prop     PropulsionOutput
	aero     AerodynamicCoefficients
}

// segmentSolver solves the residuals of every control point of a segment as one system.
// The unknown vector is laid out unknown-major: x[k*N+i] is unknown k at point i, divided by
// its scale.
type segmentSolver struct {
	seg      *Segment
	vehicle  *Vehicle
	analyses Analyses
	start    State
	prof     profile
	col      *Collocation
	unknowns []Unknown
	cfg      SolverConfig
	metrics  *SolverMetrics

	mu     sync.Mutex
	fatal  error
	domain error // last out of domain evaluation
}

func (ss *segmentSolver) size() int {
	return len(ss.unknowns) * ss.col.N
}

// seed returns the initial guess, uniform over the segment.
func (ss *segmentSolver) seed() []float64 {
	N := ss.col.N
	x := make([]float64, ss.size())
	for k, u := range ss.unknowns {
		v := u.Seed
		if s, ok := ss.seg.Seeds[u.Name]; ok {
			v = s
		}
		for i := 0; i < N; i++ {
			x[k*N+i] = v / u.Scale
		}
	}
	return x
}

// evaluate fills r with the residuals at x. Propulsion is evaluated first at every point since
// the fuel flow history sets the mass, which the aerodynamics need.
func (ss *segmentSolver) evaluate(x, r []float64) ([]pointEval, error) {
	N, nu := ss.col.N, len(ss.unknowns)
	points := make([]pointEval, N)
	fuel := make([]float64, N)
	for i, s := range ss.col.Nodes {
		controls := make([]float64, nu)
		for k, u := range ss.unknowns {
			controls[k] = x[k*N+i] * u.Scale
		}
		fs, err := newFlightState(ss.analyses.Atmosphere, ss.prof.altitude(s), ss.seg.AirSpeed, ss.start.Mass, ss.prof.gamma)
		if err != nil {
			return nil, err
		}
		fs.Time = ss.start.Time + s*ss.prof.duration
		fs.Distance = ss.start.Distance + s*ss.prof.distance
		out, err := ss.vehicle.Network.Evaluate(controls, fs)
		if err != nil {
			return nil, err
		}
		if len(out.Residuals) != nu-1 {
			return nil, &ConfigError{ss.seg.Tag, "Network", float64(len(out.Residuals)), fmt.Sprintf("network returned %d residuals for %d unknowns", len(out.Residuals), nu)}
		}
		points[i] = pointEval{state: fs, controls: controls, prop: out}
		fuel[i] = out.FuelFlow
	}
	burned := ss.col.Integrate(fuel, ss.prof.duration)
	for i := range points {
		p := &points[i]
		p.state.Mass = ss.start.Mass - burned[i]
		aero, err := ss.analyses.Aerodynamics.Evaluate(p.state, ss.vehicle)
		if err != nil {
			return nil, err
		}
		p.aero = aero
		W := p.state.Weight()
		r[i] = (p.prop.Thrust - aero.Drag - W*math.Sin(p.state.FlightPathAngle)) / W
		for k, res := range p.prop.Residuals {
			r[(k+1)*N+i] = res
		}
	}
	return points, nil
}

// residuals is the function handed to the Jacobian. Out of domain evaluations read as infinite
// residuals so that the line search backs off; any other failure stops the solve.
func (ss *segmentSolver) residuals(r, x []float64) {
	ss.metrics.evaluated()
	if _, err := ss.evaluate(x, r); err != nil {
		fill := math.Inf(1)
		ss.mu.Lock()
		if !errors.Is(err, errOutOfDomain) {
			if ss.fatal == nil {
				ss.fatal = err
			}
			fill = math.NaN()
		} else {
			ss.domain = err
		}
		ss.mu.Unlock()
		for i := range r {
			r[i] = fill
		}
	}
}

func (ss *segmentSolver) fatalErr() error {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.fatal
}

// domainErr returns and clears the last out of domain error.
func (ss *segmentSolver) domainErr() error {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	err := ss.domain
	ss.domain = nil
	return err
}

// failure builds the error returned for a segment which did not converge.
func (ss *segmentSolver) failure(r []float64, iterations int, cause error) *SegmentError {
	worst, worstVal := 0, -1.0
	for i, v := range r {
		a := math.Abs(v)
		if math.IsNaN(a) {
			a = math.Inf(1)
		}
		if a > worstVal {
			worst, worstVal = i, a
		}
	}
	return &SegmentError{
		Segment:      ss.seg.Tag,
		ControlPoint: worst % ss.col.N,
		Residual:     infNorm(r),
		Iterations:   iterations,
		Err:          cause,
	}
}

// solve runs a damped Newton iteration with a central difference Jacobian.
func (ss *segmentSolver) solve() (*SegmentResults, error) {
	n := ss.size()
	x := ss.seed()
	r := make([]float64, n)
	ss.residuals(r, x)
	if err := ss.fatalErr(); err != nil {
		ss.metrics.failed(0)
		return nil, ss.failure(r, 0, err)
	}
	norm := infNorm(r)
	if err := ss.domainErr(); err != nil && math.IsInf(norm, 1) {
		ss.metrics.failed(0)
		return nil, ss.failure(r, 0, err)
	}

	J := mat.NewDense(n, n, nil)
	settings := &fd.JacobianSettings{Formula: fd.Central, Step: ss.cfg.JacobianStep, Concurrent: ss.cfg.ConcurrentJacobian}
	xt, rt := make([]float64, n), make([]float64, n)
	iter := 0
	for !(norm < ss.cfg.Tolerance) {
		if iter >= ss.cfg.MaxIterations {
			ss.metrics.failed(iter)
			return nil, ss.failure(r, iter, ErrNonConvergent)
		}
		iter++
		fd.Jacobian(J, ss.residuals, x, settings)
		if err := ss.fatalErr(); err != nil {
			ss.metrics.failed(iter)
			return nil, ss.failure(r, iter, err)
		}
		if !finite(J.RawMatrix().Data...) {
			ss.metrics.failed(iter)
			if err := ss.domainErr(); err != nil {
				return nil, ss.failure(r, iter, fmt.Errorf("%w: non-finite Jacobian: %w", ErrNonConvergent, err))
			}
			return nil, ss.failure(r, iter, fmt.Errorf("%w: non-finite Jacobian", ErrNonConvergent))
		}
		rhs := mat.NewVecDense(n, nil)
		rhs.ScaleVec(-1, mat.NewVecDense(n, r))
		var dx mat.VecDense
		if err := dx.SolveVec(J, rhs); err != nil {
			if _, ill := err.(mat.Condition); !ill {
				ss.metrics.failed(iter)
				return nil, ss.failure(r, iter, fmt.Errorf("%w: %v", ErrNonConvergent, err))
			}
		}
		step := dx.RawVector().Data
		ss.domainErr()
		accepted := false
		for b, λ := 0, 1.0; b <= ss.cfg.MaxBacktracks; b, λ = b+1, λ/2 {
			floats.AddScaledTo(xt, x, λ, step)
			ss.residuals(rt, xt)
			if err := ss.fatalErr(); err != nil {
				ss.metrics.failed(iter)
				return nil, ss.failure(r, iter, err)
			}
			if nt := infNorm(rt); nt < norm {
				copy(x, xt)
				copy(r, rt)
				norm = nt
				accepted = true
				break
			}
		}
		if !accepted {
			ss.metrics.failed(iter)
			if err := ss.domainErr(); err != nil {
				return nil, ss.failure(r, iter, fmt.Errorf("%w: line search stalled: %w", ErrNonConvergent, err))
			}
			return nil, ss.failure(r, iter, fmt.Errorf("%w: line search stalled", ErrNonConvergent))
		}
	}

	points, err := ss.evaluate(x, r)
	if err != nil {
		ss.metrics.failed(iter)
		return nil, ss.failure(r, iter, err)
	}
	sr, err := ss.results(points, r, iter, norm)
	if err != nil {
		ss.metrics.failed(iter)
		return nil, err
	}
	ss.metrics.solved(iter)
	return sr, nil
}

// results collects the converged points and runs the stability stage unless skipped.
func (ss *segmentSolver) results(points []pointEval, r []float64, iterations int, norm float64) (*SegmentResults, error) {
	N := ss.col.N
	sr := &SegmentResults{
		Tag:          ss.seg.Tag,
		Kind:         ss.seg.Kind,
		Initial:      ss.start,
		Iterations:   iterations,
		ResidualNorm: norm,
		UnknownNames: make([]string, len(ss.unknowns)),
		Unknowns:     make([][]float64, len(ss.unknowns)),
	}
	for k, u := range ss.unknowns {
		sr.UnknownNames[k] = u.Name
		sr.Unknowns[k] = make([]float64, N)
		for i, p := range points {
			sr.Unknowns[k][i] = p.controls[k]
		}
	}
	for i, p := range points {
		fs, prop, aero := p.state, p.prop, p.aero
		sr.Time = append(sr.Time, fs.Time)
		sr.Distance = append(sr.Distance, fs.Distance)
		sr.Altitude = append(sr.Altitude, fs.Altitude)
		sr.AirSpeed = append(sr.AirSpeed, fs.AirSpeed)
		sr.Mass = append(sr.Mass, fs.Mass)
		sr.DynamicPressure = append(sr.DynamicPressure, fs.DynamicPressure)
		sr.Mach = append(sr.Mach, fs.Mach)
		sr.Thrust = append(sr.Thrust, prop.Thrust)
		sr.FuelFlow = append(sr.FuelFlow, prop.FuelFlow)
		sr.ShaftPower = append(sr.ShaftPower, prop.ShaftPower)
		sr.EnginePower = append(sr.EnginePower, prop.EnginePower)
		sr.PropellerEfficiency = append(sr.PropellerEfficiency, prop.Efficiency)
		sr.AdvanceRatio = append(sr.AdvanceRatio, prop.AdvanceRatio)
		sr.TipMach = append(sr.TipMach, prop.TipMach)
		sr.Drag = append(sr.Drag, aero.Drag)
		sr.Lift = append(sr.Lift, aero.Lift)
		sr.CL = append(sr.CL, aero.CL)
		sr.CD = append(sr.CD, aero.CD)
		sr.CDi = append(sr.CDi, aero.CDi)
		sr.CD0 = append(sr.CD0, aero.CD0)
		sr.AngleOfAttack = append(sr.AngleOfAttack, aero.AngleOfAttack)
		var worst float64
		for k := range ss.unknowns {
			worst = math.Max(worst, math.Abs(r[k*N+i]))
		}
		sr.Residual = append(sr.Residual, worst)
	}
	last := points[N-1].state
	sr.Final = State{Time: last.Time, Distance: last.Distance, Altitude: last.Altitude, Mass: last.Mass}

	if ss.seg.SkipStability || ss.analyses.Stability == nil {
		return sr, nil
	}
	stab := &StabilityResults{}
	for i, p := range points {
		sc, err := ss.analyses.Stability.Evaluate(p.state, ss.vehicle, p.aero)
		if err != nil {
			return nil, &SegmentError{Segment: ss.seg.Tag, ControlPoint: i, Residual: norm, Iterations: iterations, Err: fmt.Errorf("stability: %w", err)}
		}
		stab.CmAlpha = append(stab.CmAlpha, sc.CmAlpha)
		stab.StaticMargin = append(stab.StaticMargin, sc.StaticMargin)
		stab.NeutralPoint = append(stab.NeutralPoint, sc.NeutralPoint)
	}
	sr.Stability = stab
	return sr, nil
}
