package fixedwing

import (
	"fmt"

	"gonum.org/v1/gonum/floats/scalar"
)

// WingStation is a spanwise break of a lifting surface. Angles are in radians.
type WingStation struct {
	Tag               string
	PercentSpan       float64 // fraction of the semispan from the root
	RootChordPercent  float64 // local chord as a fraction of the root chord
	Twist             float64
	Dihedral          float64 // outboard of this station
	QuarterChordSweep float64 // outboard of this station
	ThicknessToChord  float64
}

// FuselageStation is a lofted cross-section of a fuselage.
type FuselageStation struct {
	Tag      string
	PercentX float64 // fraction of the total length from the nose
	PercentZ float64 // vertical offset as a fraction of the total length
	Height   float64
	Width    float64
}

// validateFractions checks the ordering invariant shared by all station lists:
// at least two stations, the first at 0, strictly increasing, and the last at 1.
func validateFractions(component string, fractions []float64) error {
	if len(fractions) < 2 {
		return &GeometryError{component, "stations", float64(len(fractions)), "at least two stations are required"}
	}
	if !scalar.EqualWithinAbs(fractions[0], 0, fractionε) {
		return &GeometryError{component, "stations[0]", fractions[0], "first station must be at fraction 0"}
	}
	for i := 1; i < len(fractions); i++ {
		if !(fractions[i] > fractions[i-1]) {
			return &GeometryError{component, fmt.Sprintf("stations[%d]", i), fractions[i], "non-monotonic station order"}
		}
	}
	last := len(fractions) - 1
	if !scalar.EqualWithinAbs(fractions[last], 1, fractionε) {
		return &GeometryError{component, fmt.Sprintf("stations[%d]", last), fractions[last], "last station must be at fraction 1"}
	}
	return nil
}

// ValidateWingStations checks the ordering and the local chord of each station.
func ValidateWingStations(component string, stations []WingStation) error {
	fractions := make([]float64, len(stations))
	for i, st := range stations {
		fractions[i] = st.PercentSpan
	}
	if err := validateFractions(component, fractions); err != nil {
		return err
	}
	for i, st := range stations {
		if !(st.RootChordPercent > 0) {
			return &GeometryError{component, fmt.Sprintf("stations[%d].RootChordPercent", i), st.RootChordPercent, "chord must be positive"}
		}
		if st.ThicknessToChord < 0 || st.ThicknessToChord >= 1 {
			return &GeometryError{component, fmt.Sprintf("stations[%d].ThicknessToChord", i), st.ThicknessToChord, "thickness ratio must be in [0, 1)"}
		}
	}
	return nil
}

// ValidateFuselageStations checks the ordering and the section dimensions of each station.
// Zero height or width is allowed so that pointed noses and tails can be described.
func ValidateFuselageStations(component string, stations []FuselageStation) error {
	fractions := make([]float64, len(stations))
	for i, st := range stations {
		fractions[i] = st.PercentX
	}
	if err := validateFractions(component, fractions); err != nil {
		return err
	}
	for i, st := range stations {
		if st.Height < 0 {
			return &GeometryError{component, fmt.Sprintf("stations[%d].Height", i), st.Height, "height must not be negative"}
		}
		if st.Width < 0 {
			return &GeometryError{component, fmt.Sprintf("stations[%d].Width", i), st.Width, "width must not be negative"}
		}
	}
	return nil
}
