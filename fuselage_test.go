package fixedwing

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestLoftCylinder(t *testing.T) {
	const (
		L = 6.0
		d = 1.5
	)
	loft, err := ComputeLoft("tube", []FuselageStation{
		{Tag: "front", PercentX: 0, Height: d, Width: d},
		{Tag: "mid", PercentX: 0.5, Height: d, Width: d},
		{Tag: "back", PercentX: 1, Height: d, Width: d},
	}, L)
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(loft.Volume, math.Pi/4*d*d*L, 1e-12) {
		t.Fatalf("V=%f", loft.Volume)
	}
	if !scalar.EqualWithinAbs(loft.WettedArea, math.Pi*d*L, 1e-12) {
		t.Fatalf("Swet=%f", loft.WettedArea)
	}
	if !scalar.EqualWithinAbs(loft.MaxArea, math.Pi/4*d*d, 1e-12) || loft.Sections[1].X != L/2 {
		t.Fatalf("max area %f, mid section at %f", loft.MaxArea, loft.Sections[1].X)
	}
}

func TestLoftCone(t *testing.T) {
	// Trapezoidal integration of a linear area profile over-estimates the cone volume.
	loft, err := ComputeLoft("cone", []FuselageStation{{PercentX: 0}, {PercentX: 1, Height: 2, Width: 2}}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if exact := math.Pi * 3 / 3; !(loft.Volume > exact) {
		t.Fatalf("V=%f should exceed the exact %f with two stations", loft.Volume, exact)
	}
	if !scalar.EqualWithinAbs(loft.WettedArea, math.Pi*2*3/2, 1e-12) {
		t.Fatalf("Swet=%f", loft.WettedArea)
	}
}

func TestFuselageProcess(t *testing.T) {
	f := &Fuselage{
		Tag:      "body",
		Lengths:  FuselageLengths{Total: 7, Empennage: 2.5},
		Width:    1.1,
		Heights:  FuselageHeights{Maximum: 1.3},
		Stations: []FuselageStation{{PercentX: 0}, {PercentX: 0.3, Height: 1.3, Width: 1.1}, {PercentX: 1}},
	}
	if !f.Stale() {
		t.Fatal("unprocessed fuselage should be stale")
	}
	if err := f.Process(); err != nil {
		t.Fatal(err)
	}
	if f.Lengths.Structure != 4.5 {
		t.Fatalf("structure length=%f", f.Lengths.Structure)
	}
	if !scalar.EqualWithinAbs(f.FrontalArea(), 1.1*1.3, 1e-12) || f.Diameter() != 1.3 {
		t.Fatalf("front area %f, diameter %f", f.FrontalArea(), f.Diameter())
	}
	if f.FrontProjectedArea != 0 || f.EffectiveDiameter != 0 {
		t.Fatal("derived values were written into the inputs")
	}
	f.Width, f.Heights.Maximum = 1.2, 1.5
	if !scalar.EqualWithinAbs(f.FrontalArea(), 1.2*1.5, 1e-12) || f.Diameter() != 1.5 {
		t.Fatalf("front area %f and diameter %f ignore the new cross-section", f.FrontalArea(), f.Diameter())
	}
	f.Width, f.Heights.Maximum = 1.1, 1.3
	if f.Wetted() != f.Loft.WettedArea || f.EnclosedVolume() != f.Loft.Volume {
		t.Fatal("loft estimates not used")
	}
	f.WettedArea, f.Volume = 20, 5
	if f.Wetted() != 20 || f.EnclosedVolume() != 5 {
		t.Fatal("user values not used")
	}
	if !scalar.EqualWithinAbs(f.FinenessRatio(), 7/1.3, 1e-12) {
		t.Fatalf("fineness=%f", f.FinenessRatio())
	}
	f.Stations[1].Height = 1.4
	if !f.Stale() {
		t.Fatal("edited stations should make the loft stale")
	}
	if err := f.Process(); err != nil {
		t.Fatal(err)
	}
	volume := f.Loft.Volume
	f.Lengths.Total = 14
	if !f.Stale() {
		t.Fatal("a new length should make the loft stale")
	}
	if err := f.Process(); err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinRel(f.Loft.Volume, 2*volume, 1e-12) || f.Lengths.Structure != 11.5 {
		t.Fatalf("volume %f (was %f), structure %f after doubling the length", f.Loft.Volume, volume, f.Lengths.Structure)
	}
	f.Lengths.Empennage = f.Lengths.Total
	if err := f.Process(); !errors.Is(err, ErrGeometry) {
		t.Fatalf("empennage as long as the fuselage accepted: %v", err)
	}
}
