package vsp

import "github.com/fwsizing/fixedwing"

// Model is the parametric description handed to the lofting tool. Lengths are in meters and
// angles in radians.
type Model struct {
	Vehicle    string      `json:"vehicle"`
	Components []Component `json:"components"`
}

// Component is one named component of the model.
type Component struct {
	Name      string            `json:"name"`
	Type      string            `json:"type"` // wing, fuselage or propeller
	Origin    [3]float64        `json:"origin"`
	Symmetric bool              `json:"symmetric,omitempty"`
	Vertical  bool              `json:"vertical,omitempty"`
	Span      float64           `json:"span,omitempty"`
	RootChord float64           `json:"root_chord,omitempty"`
	Length    float64           `json:"length,omitempty"`
	Radius    float64           `json:"radius,omitempty"`
	Blades    int               `json:"blades,omitempty"`
	Wing      []WingSection     `json:"wing_sections,omitempty"`
	Fuselage  []FuselageSection `json:"fuselage_sections,omitempty"`
	Blade     []BladeSection    `json:"blade_sections,omitempty"`
}

// WingSection is a spanwise station.
type WingSection struct {
	Tag              string  `json:"tag"`
	PercentSpan      float64 `json:"percent_span"`
	Chord            float64 `json:"chord"`
	Twist            float64 `json:"twist"`
	Dihedral         float64 `json:"dihedral"`
	Sweep            float64 `json:"sweep"`
	ThicknessToChord float64 `json:"thickness_to_chord"`
}

// FuselageSection is an elliptic cross-section.
type FuselageSection struct {
	Tag    string  `json:"tag"`
	X      float64 `json:"x"`
	Z      float64 `json:"z"`
	Height float64 `json:"height"`
	Width  float64 `json:"width"`
}

// BladeSection is a radial propeller station.
type BladeSection struct {
	Radius float64 `json:"radius"`
	Chord  float64 `json:"chord"`
	Twist  float64 `json:"twist"`
}

// Describe returns the model of a vehicle. It does not modify the vehicle.
func Describe(v *fixedwing.Vehicle) Model {
	m := Model{Vehicle: v.Tag}
	for _, s := range v.Surfaces {
		c := Component{
			Name:      s.Tag,
			Type:      "wing",
			Origin:    s.Origin,
			Symmetric: s.Symmetric,
			Vertical:  s.Vertical,
			Span:      s.ProjectedSpan,
			RootChord: s.RootChord,
		}
		for _, sec := range s.Planform.Sections {
			c.Wing = append(c.Wing, WingSection{
				Tag:              sec.Tag,
				PercentSpan:      sec.Y / s.Planform.Sections[len(s.Planform.Sections)-1].Y,
				Chord:            sec.Chord,
				Twist:            sec.Twist,
				Dihedral:         sec.Dihedral,
				Sweep:            sec.QuarterChordSweep,
				ThicknessToChord: sec.ThicknessToChord,
			})
		}
		m.Components = append(m.Components, c)
	}
	if f := v.Fuselage; f != nil {
		c := Component{Name: f.Tag, Type: "fuselage", Length: f.Lengths.Total}
		for _, sec := range f.Loft.Sections {
			c.Fuselage = append(c.Fuselage, FuselageSection{Tag: sec.Tag, X: sec.X, Z: sec.Z, Height: sec.Height, Width: sec.Width})
		}
		m.Components = append(m.Components, c)
	}
	if n, ok := v.Network.(*fixedwing.InternalCombustionPropeller); ok {
		p := n.Propeller
		c := Component{Name: p.Tag, Type: "propeller", Origin: p.Origin, Radius: p.TipRadius, Blades: p.Blades}
		if p.Blade != nil {
			for i := range p.Blade.Radius {
				c.Blade = append(c.Blade, BladeSection{Radius: p.Blade.Radius[i], Chord: p.Blade.Chord[i], Twist: p.Blade.Twist[i]})
			}
		}
		m.Components = append(m.Components, c)
	}
	return m
}
