package fixedwing

import (
	"errors"
	"fmt"
)

var (
	// ErrGeometry is wrapped by every geometry validation failure.
	ErrGeometry = errors.New("geometry validation error")
	// ErrPropellerDesign is returned when the propeller sizing iteration exceeds its bound.
	ErrPropellerDesign = errors.New("propeller design did not converge")
	// ErrNonConvergent is returned when a segment's residuals cannot be driven below tolerance.
	ErrNonConvergent = errors.New("non-convergent segment")
	// ErrConfiguration is wrapped by inconsistent vehicle, network or mission settings.
	ErrConfiguration = errors.New("configuration inconsistency")

	// errOutOfDomain flags a provider evaluation outside of its valid range (e.g. a negative
	// shaft speed while line searching). The solver treats it as an infinite residual.
	errOutOfDomain = errors.New("evaluation outside of model domain")
)

// GeometryError describes an invalid geometric input.
type GeometryError struct {
	Component string
	Field     string
	Value     float64
	Reason    string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("%s: %s.%s=%g: %s", ErrGeometry, e.Component, e.Field, e.Value, e.Reason)
}

// Unwrap allows errors.Is(err, ErrGeometry).
func (e *GeometryError) Unwrap() error {
	return ErrGeometry
}

// ConfigError describes a configuration inconsistency.
type ConfigError struct {
	Component string
	Field     string
	Value     float64
	Reason    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s.%s=%g: %s", ErrConfiguration, e.Component, e.Field, e.Value, e.Reason)
}

// Unwrap allows errors.Is(err, ErrConfiguration).
func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

// DesignError is returned by Propeller.Design when the induction iteration does not settle.
type DesignError struct {
	Propeller  string
	Iterations int
	Residual   float64
}

func (e *DesignError) Error() string {
	return fmt.Sprintf("%s: %s after %d iterations (|Δζ|=%g)", ErrPropellerDesign, e.Propeller, e.Iterations, e.Residual)
}

// Unwrap allows errors.Is(err, ErrPropellerDesign).
func (e *DesignError) Unwrap() error {
	return ErrPropellerDesign
}

// SegmentError reports which segment, and which control point within it, stopped a mission.
type SegmentError struct {
	Segment      string
	ControlPoint int
	Residual     float64
	Iterations   int
	Err          error
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("segment %q failed at control point %d after %d iterations (‖r‖∞=%g): %s", e.Segment, e.ControlPoint, e.Iterations, e.Residual, e.Err)
}

// Unwrap returns the underlying cause, ErrNonConvergent when the iteration cap was hit.
func (e *SegmentError) Unwrap() error {
	return e.Err
}
