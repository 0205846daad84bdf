package fixedwing

import (
	"fmt"
	"math"
	"slices"
)

// SurfaceRole classifies a lifting surface.
type SurfaceRole uint8

const (
	// MainWing is the primary lifting surface.
	MainWing SurfaceRole = iota + 1
	// HorizontalTail is the horizontal stabilizer.
	HorizontalTail
	// VerticalTail is the vertical stabilizer.
	VerticalTail
)

func (r SurfaceRole) String() string {
	switch r {
	case MainWing:
		return "main_wing"
	case HorizontalTail:
		return "horizontal_tail"
	case VerticalTail:
		return "vertical_tail"
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// LiftingSurface is any wing-like surface. Angles are in radians, lengths in meters.
// Planform is derived from the stations by Process and must not be edited directly.
type LiftingSurface struct {
	Tag                  string
	Role                 SurfaceRole
	Vertical             bool
	Symmetric            bool
	TTail                bool
	HighLift             bool
	ProjectedSpan        float64
	RootChord            float64
	TipChord             float64 // only used when no stations are given
	RootTwist, TipTwist  float64 // only used when no stations are given
	Dihedral             float64 // only used when no stations are given
	QuarterChordSweep    float64
	ThicknessToChord     float64
	DynamicPressureRatio float64
	Origin               [3]float64
	ReferenceArea        float64 // declared area; 0 uses the planform area
	WettedArea           float64 // measured wetted area (e.g. read back from a CAD tool); 0 uses the planform estimate
	Stations             []WingStation
	Planform             Planform
}

// Section is a resolved wing station in the surface frame.
type Section struct {
	Tag               string
	Y                 float64 // spanwise (or vertical for fins) distance from the root
	Z                 float64
	XLE               float64 // leading edge, aft of the root leading edge
	Chord             float64
	Twist             float64
	Dihedral          float64
	QuarterChordSweep float64
	ThicknessToChord  float64
}

// Panel is the trapezoid between two consecutive sections.
type Panel struct {
	Span          float64
	RootChord     float64
	TipChord      float64
	Area          float64 // one side only
	WettedArea    float64 // one side only
	MeanAeroChord float64
	Sweep         float64
	Dihedral      float64
}

// Planform holds the geometry derived from a station list.
type Planform struct {
	Span            float64
	ReferenceArea   float64
	WettedArea      float64
	AspectRatio     float64
	Taper           float64
	MeanAeroChord   float64
	MACLeadingEdge  float64 // x of the MAC leading edge, aft of the root leading edge
	MACSpanLocation float64
	TipTrailingEdge float64 // x of the tip trailing edge
	Sections        []Section
	Panels          []Panel
	Input           []WingStation // stations the planform was derived from
	inputs          planformInputs
}

// planformInputs are the scalar inputs a planform was derived from.
type planformInputs struct {
	rootChord, projectedSpan float64
	symmetric                bool
}

// stations returns the explicit stations, or a root/tip pair built from the scalar inputs.
func (s *LiftingSurface) stations() []WingStation {
	if len(s.Stations) > 0 {
		return s.Stations
	}
	tipPct := 0.0
	if s.RootChord > 0 {
		tipPct = s.TipChord / s.RootChord
	}
	return []WingStation{
		{Tag: "root", PercentSpan: 0, RootChordPercent: 1, Twist: s.RootTwist, Dihedral: s.Dihedral, QuarterChordSweep: s.QuarterChordSweep, ThicknessToChord: s.ThicknessToChord},
		{Tag: "tip", PercentSpan: 1, RootChordPercent: tipPct, Twist: s.TipTwist, Dihedral: s.Dihedral, QuarterChordSweep: s.QuarterChordSweep, ThicknessToChord: s.ThicknessToChord},
	}
}

// Process validates the surface and recomputes its planform.
func (s *LiftingSurface) Process() error {
	if !(s.ProjectedSpan > 0) {
		return &GeometryError{s.Tag, "ProjectedSpan", s.ProjectedSpan, "span must be positive"}
	}
	if !(s.RootChord > 0) {
		return &GeometryError{s.Tag, "RootChord", s.RootChord, "chord must be positive"}
	}
	if s.ReferenceArea < 0 {
		return &GeometryError{s.Tag, "ReferenceArea", s.ReferenceArea, "area must not be negative"}
	}
	if s.Role < MainWing || s.Role > VerticalTail {
		return &ConfigError{s.Tag, "Role", float64(s.Role), "unknown surface role"}
	}
	stations := s.stations()
	pf, err := ComputePlanform(s.Tag, stations, s.RootChord, s.ProjectedSpan, s.Symmetric)
	if err != nil {
		return err
	}
	s.Planform = pf
	return nil
}

// Stale returns whether the stations, span, root chord or symmetry changed since the planform
// was last computed.
func (s *LiftingSurface) Stale() bool {
	if len(s.Planform.Sections) == 0 {
		return true
	}
	in := planformInputs{rootChord: s.RootChord, projectedSpan: s.ProjectedSpan, symmetric: s.Symmetric}
	return s.Planform.inputs != in || !slices.Equal(s.Planform.Input, s.stations())
}

// Geometry returns the planform, recomputing it first when the stations changed.
func (s *LiftingSurface) Geometry() (Planform, error) {
	if s.Stale() {
		if err := s.Process(); err != nil {
			return Planform{}, err
		}
	}
	return s.Planform, nil
}

// Area returns the declared reference area if set, the planform area otherwise.
func (s *LiftingSurface) Area() float64 {
	if s.ReferenceArea > 0 {
		return s.ReferenceArea
	}
	return s.Planform.ReferenceArea
}

// Wetted returns the measured wetted area if known, the planform estimate otherwise.
func (s *LiftingSurface) Wetted() float64 {
	if s.WettedArea > 0 {
		return s.WettedArea
	}
	return s.Planform.WettedArea
}

// ComputePlanform integrates a station list into a planform. The station list is validated
// before any integration happens. Symmetric surfaces have their areas and span mirrored.
func ComputePlanform(tag string, stations []WingStation, rootChord, projectedSpan float64, symmetric bool) (Planform, error) {
	if err := ValidateWingStations(tag, stations); err != nil {
		return Planform{}, err
	}
	semispan := projectedSpan
	mirror := 1.0
	if symmetric {
		semispan /= 2
		mirror = 2
	}

	sections := make([]Section, len(stations))
	for i, st := range stations {
		sec := Section{
			Tag:               st.Tag,
			Chord:             st.RootChordPercent * rootChord,
			Twist:             st.Twist,
			Dihedral:          st.Dihedral,
			QuarterChordSweep: st.QuarterChordSweep,
			ThicknessToChord:  st.ThicknessToChord,
		}
		if i > 0 {
			prev := sections[i-1]
			dy := (st.PercentSpan - stations[i-1].PercentSpan) * semispan
			// The quarter chord line is swept by the inboard station's outboard sweep.
			xqc := prev.XLE + prev.Chord/4 + dy*math.Tan(prev.QuarterChordSweep)
			sec.XLE = xqc - sec.Chord/4
			sec.Y = prev.Y + dy
			sec.Z = prev.Z + dy*math.Tan(prev.Dihedral)
		}
		sections[i] = sec
	}

	pf := Planform{
		Sections: sections,
		Input:    slices.Clone(stations),
		inputs:   planformInputs{rootChord: rootChord, projectedSpan: projectedSpan, symmetric: symmetric},
	}
	var area, wetted, macArea, macXArea, macYArea float64
	pf.Panels = make([]Panel, len(sections)-1)
	for i := 0; i < len(sections)-1; i++ {
		in, out := sections[i], sections[i+1]
		span := out.Y - in.Y
		cr, ct := in.Chord, out.Chord
		pArea := span * (cr + ct) / 2
		mac := 2.0 / 3.0 * (cr + ct - cr*ct/(cr+ct))
		// Spanwise location of the panel MAC, measured from the panel root.
		yMAC := span / 3 * (cr + 2*ct) / (cr + ct)
		xMAC := in.XLE + (out.XLE-in.XLE)*yMAC/span
		tc := (in.ThicknessToChord + out.ThicknessToChord) / 2
		pWet := wettedFromReference(tc, pArea)
		pf.Panels[i] = Panel{
			Span:          span,
			RootChord:     cr,
			TipChord:      ct,
			Area:          pArea,
			WettedArea:    pWet,
			MeanAeroChord: mac,
			Sweep:         in.QuarterChordSweep,
			Dihedral:      in.Dihedral,
		}
		area += pArea
		wetted += pWet
		macArea += mac * pArea
		macXArea += xMAC * pArea
		macYArea += (in.Y + yMAC) * pArea
	}
	last := sections[len(sections)-1]
	pf.Span = last.Y * mirror
	pf.ReferenceArea = area * mirror
	pf.WettedArea = wetted * mirror
	pf.MeanAeroChord = macArea / area
	pf.MACLeadingEdge = macXArea / area
	pf.MACSpanLocation = macYArea / area
	pf.AspectRatio = pf.Span * pf.Span / pf.ReferenceArea
	pf.Taper = last.Chord / sections[0].Chord
	pf.TipTrailingEdge = last.XLE + last.Chord
	return pf, nil
}

// wettedFromReference is the exposed-area to wetted-area rule for thin and thick sections.
func wettedFromReference(tc, area float64) float64 {
	if tc < 0.05 {
		return 2.003 * area
	}
	return (1.977 + 0.52*tc) * area
}
