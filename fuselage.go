package fixedwing

import (
	"math"
	"slices"
)

// FuselageLengths are the longitudinal dimensions of a fuselage, in meters.
// Structure is derived by Process as Total - Empennage.
type FuselageLengths struct {
	Total, Nose, Cabin, Empennage float64
	Structure                     float64
}

// FuselageHeights are the characteristic heights of a fuselage, in meters.
type FuselageHeights struct {
	Maximum                float64
	AtQuarterLength        float64
	AtThreeQuarterLength   float64
	AtWingRootQuarterChord float64
}

// Fuselage is the body of the vehicle.
type Fuselage struct {
	Tag               string
	Lengths           FuselageLengths
	Fineness          struct{ Nose, Tail float64 }
	Width             float64
	Heights           FuselageHeights
	EffectiveDiameter float64 // 0 uses the larger of the width and the maximum height
	// WettedArea, FrontProjectedArea, Volume and InternalVolume are user inputs. When left at
	// zero, the accessors fall back to the loft or to the width and maximum height.
	WettedArea         float64
	FrontProjectedArea float64
	Volume             float64
	InternalVolume     float64
	SeatsAbreast       int
	SeatPitch          float64
	CoachSeats         int
	Stations           []FuselageStation
	Loft               Loft
}

// LoftSection is a fuselage station placed in the body frame.
type LoftSection struct {
	Tag    string
	X, Z   float64
	Height float64
	Width  float64
	Area   float64 // elliptic cross-section area
}

// Loft is the longitudinal description of a fuselage built from its stations.
// Only visualization and export consumers read the sections.
type Loft struct {
	Sections   []LoftSection
	WettedArea float64
	Volume     float64
	MaxArea    float64
	Input      []FuselageStation
	Length     float64 // total length the stations were scaled by
}

// Process validates the fuselage and builds its loft.
func (f *Fuselage) Process() error {
	if !(f.Lengths.Total > 0) {
		return &GeometryError{f.Tag, "Lengths.Total", f.Lengths.Total, "length must be positive"}
	}
	if f.Lengths.Empennage < 0 || f.Lengths.Empennage >= f.Lengths.Total {
		return &GeometryError{f.Tag, "Lengths.Empennage", f.Lengths.Empennage, "empennage length must be in [0, total length)"}
	}
	if f.Width < 0 || f.Heights.Maximum < 0 {
		return &GeometryError{f.Tag, "Width", f.Width, "cross-section dimensions must not be negative"}
	}
	loft, err := ComputeLoft(f.Tag, f.Stations, f.Lengths.Total)
	if err != nil {
		return err
	}
	f.Loft = loft
	f.Lengths.Structure = f.Lengths.Total - f.Lengths.Empennage
	return nil
}

// Stale returns whether the stations or the total length changed since the loft was last built.
func (f *Fuselage) Stale() bool {
	return len(f.Loft.Sections) == 0 || f.Loft.Length != f.Lengths.Total || !slices.Equal(f.Loft.Input, f.Stations)
}

// Diameter returns the effective diameter if set, the larger cross-section dimension otherwise.
func (f *Fuselage) Diameter() float64 {
	if f.EffectiveDiameter > 0 {
		return f.EffectiveDiameter
	}
	return math.Max(f.Width, f.Heights.Maximum)
}

// FrontalArea returns the front projected area if set, width times maximum height otherwise.
func (f *Fuselage) FrontalArea() float64 {
	if f.FrontProjectedArea > 0 {
		return f.FrontProjectedArea
	}
	return f.Width * f.Heights.Maximum
}

// Wetted returns the user wetted area if set, the loft estimate otherwise.
func (f *Fuselage) Wetted() float64 {
	if f.WettedArea > 0 {
		return f.WettedArea
	}
	return f.Loft.WettedArea
}

// EnclosedVolume returns the user volume if set, the loft estimate otherwise.
func (f *Fuselage) EnclosedVolume() float64 {
	if f.Volume > 0 {
		return f.Volume
	}
	return f.Loft.Volume
}

// FinenessRatio is the total length over the effective diameter.
func (f *Fuselage) FinenessRatio() float64 {
	d := f.Diameter()
	if d == 0 {
		return math.Inf(1)
	}
	return f.Lengths.Total / d
}

// ComputeLoft places each station along the body and integrates the volume and the
// wetted area with the trapezoidal rule. Sections are elliptic.
func ComputeLoft(tag string, stations []FuselageStation, length float64) (Loft, error) {
	if err := ValidateFuselageStations(tag, stations); err != nil {
		return Loft{}, err
	}
	loft := Loft{Sections: make([]LoftSection, len(stations)), Input: slices.Clone(stations), Length: length}
	xs := make([]float64, len(stations))
	areas := make([]float64, len(stations))
	perimeters := make([]float64, len(stations))
	for i, st := range stations {
		sec := LoftSection{
			Tag:    st.Tag,
			X:      st.PercentX * length,
			Z:      st.PercentZ * length,
			Height: st.Height,
			Width:  st.Width,
			Area:   math.Pi / 4 * st.Height * st.Width,
		}
		loft.Sections[i] = sec
		xs[i] = sec.X
		areas[i] = sec.Area
		perimeters[i] = ellipsePerimeter(st.Width/2, st.Height/2)
		loft.MaxArea = math.Max(loft.MaxArea, sec.Area)
	}
	loft.Volume = trapz(xs, areas)
	loft.WettedArea = trapz(xs, perimeters)
	return loft, nil
}
