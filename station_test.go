package fixedwing

import (
	"errors"
	"strings"
	"testing"
)

func TestWingStationOrder(t *testing.T) {
	var stations []WingStation
	for _, pct := range []float64{0, 0.5, 0.3, 1} {
		stations = append(stations, WingStation{PercentSpan: pct, RootChordPercent: 1})
	}
	err := ValidateWingStations("wing", stations)
	if !errors.Is(err, ErrGeometry) {
		t.Fatalf("expected a geometry error, got %v", err)
	}
	if !strings.Contains(err.Error(), "non-monotonic station order") {
		t.Fatalf("unexpected reason: %s", err)
	}
	var geoErr *GeometryError
	if !errors.As(err, &geoErr) || geoErr.Field != "stations[2]" || geoErr.Value != 0.3 {
		t.Fatalf("wrong station reported: %+v", geoErr)
	}
}

func TestWingStationBounds(t *testing.T) {
	for name, stations := range map[string][]WingStation{
		"single":     {{PercentSpan: 0, RootChordPercent: 1}},
		"late root":  {{PercentSpan: 0.1, RootChordPercent: 1}, {PercentSpan: 1, RootChordPercent: 1}},
		"short tip":  {{PercentSpan: 0, RootChordPercent: 1}, {PercentSpan: 0.9, RootChordPercent: 1}},
		"repeated":   {{PercentSpan: 0, RootChordPercent: 1}, {PercentSpan: 0, RootChordPercent: 1}, {PercentSpan: 1, RootChordPercent: 1}},
		"zero chord": {{PercentSpan: 0, RootChordPercent: 1}, {PercentSpan: 1, RootChordPercent: 0}},
		"thick":      {{PercentSpan: 0, RootChordPercent: 1, ThicknessToChord: 1.2}, {PercentSpan: 1, RootChordPercent: 1}},
	} {
		if err := ValidateWingStations("wing", stations); !errors.Is(err, ErrGeometry) {
			t.Fatalf("%s: expected a geometry error, got %v", name, err)
		}
	}
}

func TestFuselageStations(t *testing.T) {
	ok := []FuselageStation{{PercentX: 0}, {PercentX: 0.5, Height: 1, Width: 1}, {PercentX: 1}}
	if err := ValidateFuselageStations("fuselage", ok); err != nil {
		t.Fatalf("pointed nose and tail rejected: %s", err)
	}
	ok[1].Height = -1
	if err := ValidateFuselageStations("fuselage", ok); !errors.Is(err, ErrGeometry) {
		t.Fatalf("negative height accepted: %v", err)
	}
	ok[1].Height, ok[1].PercentX = 1, 1.5
	if err := ValidateFuselageStations("fuselage", ok); !errors.Is(err, ErrGeometry) {
		t.Fatalf("unordered stations accepted: %v", err)
	}
}
