package fixedwing

import (
	"fmt"

	"github.com/brunoga/deep"
)

// MassProperties are in kg and meters.
type MassProperties struct {
	MaxTakeoff      float64
	Takeoff         float64
	MaxZeroFuel     float64
	CenterOfGravity [3]float64 // all zero means at the main wing quarter MAC
}

// FuelBudget returns the usable fuel mass at takeoff.
func (m MassProperties) FuelBudget() float64 {
	return m.Takeoff - m.MaxZeroFuel
}

// Envelope is the structural load envelope.
type Envelope struct {
	UltimateLoad float64
	LimitLoad    float64
}

// Vehicle is the complete parametric aircraft. It must not be modified once a mission started
// evaluating it; use Config to derive variants.
type Vehicle struct {
	Tag           string
	ReferenceArea float64 // m^2, the main wing area when zero
	Passengers    int
	Mass          MassProperties
	Envelope      Envelope
	Fuselage      *Fuselage
	Surfaces      []*LiftingSurface
	Network       Propulsion
}

// NewVehicle returns an empty vehicle.
func NewVehicle(tag string) *Vehicle {
	return &Vehicle{Tag: tag}
}

func (v *Vehicle) String() string {
	return fmt.Sprintf("%s (%d surfaces, MTOW=%.1fkg, Sref=%.3fm^2)", v.Tag, len(v.Surfaces), v.Mass.MaxTakeoff, v.Sref())
}

// AppendSurface processes the surface and adds it to the vehicle. Tags must be unique.
func (v *Vehicle) AppendSurface(s *LiftingSurface) error {
	if _, exists := v.Surface(s.Tag); exists {
		return &ConfigError{v.Tag, "Surfaces", float64(len(v.Surfaces)), fmt.Sprintf("duplicate surface tag %q", s.Tag)}
	}
	if err := s.Process(); err != nil {
		return err
	}
	v.Surfaces = append(v.Surfaces, s)
	return nil
}

// SetFuselage processes the fuselage and attaches it to the vehicle.
func (v *Vehicle) SetFuselage(f *Fuselage) error {
	if err := f.Process(); err != nil {
		return err
	}
	v.Fuselage = f
	return nil
}

// SetNetwork attaches the propulsion network. It is validated with the rest of the vehicle.
func (v *Vehicle) SetNetwork(p Propulsion) {
	v.Network = p
}

// Surface returns the surface with the given tag.
func (v *Vehicle) Surface(tag string) (*LiftingSurface, bool) {
	for _, s := range v.Surfaces {
		if s.Tag == tag {
			return s, true
		}
	}
	return nil, false
}

// MainWing returns the first surface with the MainWing role, or nil.
func (v *Vehicle) MainWing() *LiftingSurface {
	for _, s := range v.Surfaces {
		if s.Role == MainWing {
			return s
		}
	}
	return nil
}

// Sref returns the aerodynamic reference area.
func (v *Vehicle) Sref() float64 {
	if v.ReferenceArea > 0 {
		return v.ReferenceArea
	}
	if w := v.MainWing(); w != nil {
		return w.Area()
	}
	return 0
}

// Process recomputes the derived geometry of every component whose stations changed.
func (v *Vehicle) Process() error {
	for _, s := range v.Surfaces {
		if _, err := s.Geometry(); err != nil {
			return err
		}
	}
	if v.Fuselage != nil && v.Fuselage.Stale() {
		if err := v.Fuselage.Process(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks that the vehicle is complete and consistent. Derived geometry must be current.
func (v *Vehicle) Validate() error {
	if v.Fuselage == nil {
		return &ConfigError{v.Tag, "Fuselage", 0, "a fuselage is required"}
	}
	if v.Fuselage.Stale() {
		return &GeometryError{v.Fuselage.Tag, "Loft", 0, "stations changed since the loft was built"}
	}
	if v.MainWing() == nil {
		return &ConfigError{v.Tag, "Surfaces", float64(len(v.Surfaces)), "a main wing is required"}
	}
	for _, s := range v.Surfaces {
		if s.Stale() {
			return &GeometryError{s.Tag, "Planform", 0, "stations changed since the planform was computed"}
		}
	}
	if !(v.Sref() > 0) {
		return &GeometryError{v.Tag, "ReferenceArea", v.Sref(), "reference area must be positive"}
	}
	if !(v.Mass.Takeoff > 0) {
		return &ConfigError{v.Tag, "Mass.Takeoff", v.Mass.Takeoff, "takeoff mass must be positive"}
	}
	if v.Mass.MaxTakeoff > 0 && v.Mass.Takeoff > v.Mass.MaxTakeoff {
		return &ConfigError{v.Tag, "Mass.Takeoff", v.Mass.Takeoff, fmt.Sprintf("exceeds the maximum takeoff mass (%g kg)", v.Mass.MaxTakeoff)}
	}
	if v.Mass.MaxZeroFuel < 0 || v.Mass.MaxZeroFuel > v.Mass.Takeoff {
		return &ConfigError{v.Tag, "Mass.MaxZeroFuel", v.Mass.MaxZeroFuel, "must be in [0, takeoff mass]"}
	}
	if v.Network == nil {
		return &ConfigError{v.Tag, "Network", 0, "a propulsion network is required"}
	}
	return v.Network.Validate()
}

// Config returns an independent deep copy of the vehicle under a new tag.
func (v *Vehicle) Config(tag string) (*Vehicle, error) {
	cfg, err := deep.Copy(v)
	if err != nil {
		return nil, fmt.Errorf("copying %s: %w", v.Tag, err)
	}
	cfg.Tag = tag
	return cfg, nil
}
