package vsp

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwsizing/fixedwing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVehicle(t *testing.T) *fixedwing.Vehicle {
	t.Helper()
	v := fixedwing.NewVehicle("test vehicle")
	require.NoError(t, v.AppendSurface(&fixedwing.LiftingSurface{Tag: "main_wing", Role: fixedwing.MainWing, Symmetric: true, ProjectedSpan: 10, RootChord: 1.5, TipChord: 1, ThicknessToChord: 0.12}))
	require.NoError(t, v.SetFuselage(&fixedwing.Fuselage{
		Tag:      "fuselage",
		Lengths:  fixedwing.FuselageLengths{Total: 7, Empennage: 3},
		Width:    1,
		Heights:  fixedwing.FuselageHeights{Maximum: 1.2},
		Stations: []fixedwing.FuselageStation{{PercentX: 0}, {PercentX: 0.4, Height: 1.2, Width: 1}, {PercentX: 1}},
	}))
	return v
}

const compGeom = `CompGeom report
Total Theo Area, 52.0
Name, Theo_Area, Wet_Area, Theo_Vol, Wet_Vol
main_wing, 30.5, 29.9, 1.25, 1.2
fuselage, 21.0, 20.4, 4.9, 4.8

Totals, 51.5
`

func TestReadCompGeom(t *testing.T) {
	m, err := ReadCompGeom(strings.NewReader(compGeom))
	require.NoError(t, err)
	require.Len(t, m, 2)
	assert.Equal(t, Measurement{Name: "main_wing", TheoreticalArea: 30.5, WettedArea: 29.9, TheoreticalVolume: 1.25, WettedVolume: 1.2}, m["main_wing"])
	assert.Equal(t, 4.9, m["fuselage"].TheoreticalVolume)

	_, err = ReadCompGeom(strings.NewReader("nothing to see\n"))
	assert.Error(t, err)
	_, err = ReadCompGeom(strings.NewReader("Name, Theo_Area, Wet_Area, Theo_Vol, Wet_Vol\nwing, 1, two, 3, 4\n"))
	assert.ErrorContains(t, err, "Wet_Area")
}

func TestMerge(t *testing.T) {
	v := testVehicle(t)
	v.Fuselage.WettedArea = 18
	m, err := ReadCompGeom(strings.NewReader(compGeom))
	require.NoError(t, err)
	filled := Merge(v, m)
	assert.ElementsMatch(t, []string{"main_wing.WettedArea", "fuselage.Volume"}, filled)
	assert.Equal(t, 29.9, v.MainWing().Wetted())
	assert.Equal(t, 18.0, v.Fuselage.Wetted(), "user value replaced")
	assert.Equal(t, 4.9, v.Fuselage.EnclosedVolume())
	assert.Empty(t, Merge(v, m), "merging twice should not change anything")
}

func TestSessionLifecycle(t *testing.T) {
	s, err := Open(context.Background(), Config{})
	require.NoError(t, err)
	dir := s.Dir()
	assert.DirExists(t, dir)

	v := testVehicle(t)
	path, err := s.Write(v)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "test_vehicle.vsp.json"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var model Model
	require.NoError(t, json.Unmarshal(data, &model))
	assert.Equal(t, "test vehicle", model.Vehicle)
	require.Len(t, model.Components, 2)
	assert.Equal(t, "wing", model.Components[0].Type)
	assert.Len(t, model.Components[0].Wing, 2)
	assert.Equal(t, 1.0, model.Components[0].Wing[1].PercentSpan)
	assert.Equal(t, "fuselage", model.Components[1].Type)
	assert.Len(t, model.Components[1].Fuselage, 3)

	assert.ErrorIs(t, s.Run(context.Background()), ErrNoCommand)
	_, err = s.ReadMeasurements()
	assert.Error(t, err, "no report was produced")

	require.NoError(t, s.Close())
	assert.NoDirExists(t, dir)
	assert.NoError(t, s.Close())
	_, err = s.Write(v)
	assert.True(t, errors.Is(err, ErrClosed))
	_, err = s.ReadMeasurements()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSessionWorkDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "models")
	s, err := Open(context.Background(), Config{WorkDir: dir})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, MeasurementsFile), []byte(compGeom), 0o644))
	m, err := s.ReadMeasurements()
	require.NoError(t, err)
	assert.Len(t, m, 2)
	require.NoError(t, s.Close())
	assert.DirExists(t, dir, "a caller provided directory must be kept")

	_, err = Open(context.Background(), Config{Command: "surely-not-a-lofting-tool-in-path"})
	assert.Error(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Open(ctx, Config{})
	assert.ErrorIs(t, err, context.Canceled)
}
