package fixedwing

import (
	"fmt"
	"math"
)

// SegmentKind is the flight condition type of a segment.
type SegmentKind uint8

const (
	// CruiseConstantSpeedConstantAltitude flies level at a fixed true airspeed.
	CruiseConstantSpeedConstantAltitude SegmentKind = iota + 1
	// ClimbConstantSpeedConstantRate climbs at a fixed true airspeed and rate of climb, from the
	// altitude the previous segment ended at to AltitudeEnd.
	ClimbConstantSpeedConstantRate
)

func (k SegmentKind) String() string {
	switch k {
	case CruiseConstantSpeedConstantAltitude:
		return "cruise_constant_speed_constant_altitude"
	case ClimbConstantSpeedConstantRate:
		return "climb_constant_speed_constant_rate"
	}
	return fmt.Sprintf("segment_kind(%d)", uint8(k))
}

// Segment is one leg of a mission. Segments do not know about their neighbors.
type Segment struct {
	Tag      string
	Kind     SegmentKind
	AirSpeed float64 // true airspeed, m/s
	// Cruise, at the altitude the previous segment ended at when Altitude is nil
	Altitude *float64
	Distance float64 // takes precedence over Duration
	Duration float64
	// Climb
	AltitudeEnd float64
	ClimbRate   float64

	ControlPoints int                // solver default when zero
	Seeds         map[string]float64 // per unknown, network default when missing
	SkipStability bool
	Vehicle       *Vehicle // configuration flown on this segment, the mission vehicle when nil
}

// Validate checks the segment on its own. Checks depending on the incoming state happen in profile.
func (s *Segment) Validate() error {
	if !(s.AirSpeed > 0) {
		return &ConfigError{s.Tag, "AirSpeed", s.AirSpeed, "airspeed must be positive"}
	}
	if s.ControlPoints != 0 && s.ControlPoints < 2 {
		return &ConfigError{s.Tag, "ControlPoints", float64(s.ControlPoints), "at least two control points are required"}
	}
	switch s.Kind {
	case CruiseConstantSpeedConstantAltitude:
		if !(s.Distance > 0) && !(s.Duration > 0) {
			return &ConfigError{s.Tag, "Distance", s.Distance, "a positive distance or duration is required"}
		}
	case ClimbConstantSpeedConstantRate:
		if !(s.ClimbRate > 0) || s.ClimbRate >= s.AirSpeed {
			return &ConfigError{s.Tag, "ClimbRate", s.ClimbRate, "climb rate must be in (0, airspeed)"}
		}
	default:
		return &ConfigError{s.Tag, "Kind", float64(s.Kind), "unknown segment kind"}
	}
	return nil
}

// Float64 returns a pointer to v, for the optional segment fields.
func Float64(v float64) *float64 {
	return &v
}

// profile is the prescribed trajectory of a segment, parametrized by s in [0, 1].
type profile struct {
	duration float64
	distance float64
	gamma    float64
	altitude func(s float64) float64
}

func (s *Segment) profile(start State) (profile, error) {
	switch s.Kind {
	case CruiseConstantSpeedConstantAltitude:
		duration := s.Duration
		if s.Distance > 0 {
			duration = s.Distance / s.AirSpeed
		}
		h := start.Altitude
		if s.Altitude != nil {
			h = *s.Altitude
		}
		return profile{duration: duration, distance: s.AirSpeed * duration, altitude: func(float64) float64 { return h }}, nil
	case ClimbConstantSpeedConstantRate:
		h0, h1 := start.Altitude, s.AltitudeEnd
		if !(h1 > h0) {
			return profile{}, &ConfigError{s.Tag, "AltitudeEnd", h1, fmt.Sprintf("must be above the starting altitude %g m", h0)}
		}
		γ := math.Asin(s.ClimbRate / s.AirSpeed)
		duration := (h1 - h0) / s.ClimbRate
		return profile{
			duration: duration,
			distance: s.AirSpeed * math.Cos(γ) * duration,
			gamma:    γ,
			altitude: func(x float64) float64 { return h0 + x*(h1-h0) },
		}, nil
	}
	return profile{}, &ConfigError{s.Tag, "Kind", float64(s.Kind), "unknown segment kind"}
}
