package fixedwing

import (
	"errors"
	"testing"
)

// testVehicle is a small trainer-sized vehicle flown by the fake network.
func testVehicle(t *testing.T, network Propulsion) *Vehicle {
	t.Helper()
	v := NewVehicle("trainer")
	v.Mass = MassProperties{MaxTakeoff: 1000, Takeoff: 1000, MaxZeroFuel: 900}
	wing := &LiftingSurface{Tag: "wing", Role: MainWing, Symmetric: true, ProjectedSpan: 10, RootChord: 1.2, TipChord: 0.8, ThicknessToChord: 0.12, Origin: [3]float64{2, 0, 0}}
	htail := &LiftingSurface{Tag: "htail", Role: HorizontalTail, Symmetric: true, ProjectedSpan: 3, RootChord: 0.6, TipChord: 0.6, ThicknessToChord: 0.1, Origin: [3]float64{6, 0, 0}}
	for _, s := range []*LiftingSurface{wing, htail} {
		if err := v.AppendSurface(s); err != nil {
			t.Fatalf("appending %s: %s", s.Tag, err)
		}
	}
	fus := &Fuselage{
		Tag:     "fuselage",
		Lengths: FuselageLengths{Total: 7, Nose: 1, Cabin: 3, Empennage: 3},
		Width:   1,
		Heights: FuselageHeights{Maximum: 1.2},
		Stations: []FuselageStation{
			{Tag: "nose", PercentX: 0},
			{Tag: "cabin", PercentX: 0.4, Height: 1.2, Width: 1},
			{Tag: "tail", PercentX: 1, Height: 0.2, Width: 0.2},
		},
	}
	if err := v.SetFuselage(fus); err != nil {
		t.Fatalf("fuselage: %s", err)
	}
	v.SetNetwork(network)
	if err := v.Validate(); err != nil {
		t.Fatalf("vehicle: %s", err)
	}
	return v
}

func TestVehicleDuplicateSurface(t *testing.T) {
	v := testVehicle(t, &linearThrust{MaxThrust: 5000})
	err := v.AppendSurface(&LiftingSurface{Tag: "wing", Role: MainWing, ProjectedSpan: 1, RootChord: 1})
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected a configuration error, got %v", err)
	}
	if len(v.Surfaces) != 2 {
		t.Fatalf("duplicate surface was added: %d surfaces", len(v.Surfaces))
	}
}

func TestVehicleValidate(t *testing.T) {
	v := testVehicle(t, &linearThrust{MaxThrust: 5000})
	if sref := v.Sref(); sref != v.MainWing().Planform.ReferenceArea {
		t.Fatalf("Sref=%f should default to the main wing area", sref)
	}
	v.Network = nil
	if err := v.Validate(); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("missing network accepted: %v", err)
	}
	v.SetNetwork(&linearThrust{MaxThrust: 5000})
	v.Mass.Takeoff = 1200
	if err := v.Validate(); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("takeoff above MTOW accepted: %v", err)
	}
	v.Mass.Takeoff = 1000
	v.Mass.MaxZeroFuel = 1100
	if err := v.Validate(); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("zero fuel mass above takeoff accepted: %v", err)
	}
	v.Mass.MaxZeroFuel = 900
	if fuel := v.Mass.FuelBudget(); fuel != 100 {
		t.Fatalf("fuel budget=%f", fuel)
	}
}

func TestVehicleStaleGeometry(t *testing.T) {
	v := testVehicle(t, &linearThrust{MaxThrust: 5000})
	w := v.MainWing()
	before := w.Planform.ReferenceArea
	w.TipChord = 0.4
	if err := v.Validate(); !errors.Is(err, ErrGeometry) {
		t.Fatalf("stale planform accepted: %v", err)
	}
	if err := v.Process(); err != nil {
		t.Fatal(err)
	}
	if err := v.Validate(); err != nil {
		t.Fatalf("processed vehicle rejected: %s", err)
	}
	if !(w.Planform.ReferenceArea < before) {
		t.Fatalf("area did not shrink with the tip chord: %f >= %f", w.Planform.ReferenceArea, before)
	}
}

func TestVehicleConfig(t *testing.T) {
	v := testVehicle(t, &linearThrust{MaxThrust: 5000})
	cruise, err := v.Config("cruise")
	if err != nil {
		t.Fatal(err)
	}
	if cruise.Tag != "cruise" || v.Tag != "trainer" {
		t.Fatalf("tags: %s / %s", cruise.Tag, v.Tag)
	}
	cruise.Surfaces[0].ProjectedSpan = 20
	cruise.Fuselage.Stations[1].Height = 3
	cruise.Mass.Takeoff = 950
	cruise.Network.(*linearThrust).MaxThrust = 1
	if v.Surfaces[0].ProjectedSpan != 10 {
		t.Fatal("surface shared with the configuration")
	}
	if v.Fuselage.Stations[1].Height != 1.2 {
		t.Fatal("fuselage stations shared with the configuration")
	}
	if v.Mass.Takeoff != 1000 {
		t.Fatal("mass shared with the configuration")
	}
	if v.Network.(*linearThrust).MaxThrust != 5000 {
		t.Fatal("network shared with the configuration")
	}
}
