package fixedwing

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResults() *Results {
	sr := &SegmentResults{
		Tag:          "cruise",
		Kind:         CruiseConstantSpeedConstantAltitude,
		Initial:      State{Mass: 1000, Altitude: 1500},
		Final:        State{Time: 100, Distance: 6000, Altitude: 1500, Mass: 999},
		Iterations:   3,
		ResidualNorm: 1e-12,
		UnknownNames: []string{UnknownThrottle, UnknownAngularVelocity},
		Unknowns:     [][]float64{{0.8, 0.79}, {250, 249}},
	}
	series := []*[]float64{&sr.Time, &sr.Distance, &sr.Altitude, &sr.AirSpeed, &sr.Mass, &sr.Thrust, &sr.Drag,
		&sr.Lift, &sr.CL, &sr.CD, &sr.CDi, &sr.CD0, &sr.FuelFlow, &sr.ShaftPower, &sr.EnginePower,
		&sr.PropellerEfficiency, &sr.AdvanceRatio, &sr.TipMach, &sr.AngleOfAttack, &sr.DynamicPressure,
		&sr.Mach, &sr.Residual}
	for k, s := range series {
		*s = []float64{float64(k), float64(k) + 0.5}
	}
	return &Results{Mission: "test", Vehicle: "trainer", Segments: []*SegmentResults{sr}, Final: sr.Final}
}

func TestExportConfig(t *testing.T) {
	assert.True(t, ExportConfig{}.IsUseless())
	assert.False(t, ExportConfig{Archive: true}.IsUseless())
	conf := ExportConfig{OutputDir: "out"}
	assert.Equal(t, filepath.Join("out", "mission.csv"), conf.Path("mission", "csv"))
	conf.Timestamp = true
	stamped := conf.Path("mission", "csv")
	assert.True(t, strings.HasPrefix(stamped, filepath.Join("out", "mission-")), stamped)
	assert.True(t, strings.HasSuffix(stamped, ".csv"), stamped)
}

func TestWriteCSV(t *testing.T) {
	r := testResults()
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, r.Segments[0]))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	header := rows[0]
	assert.Equal(t, []string{"time(s)", "distance(m)", "altitude(m)", "airspeed(m/s)", "mass(kg)", "throttle", "angular_velocity", "thrust(N)"}, header[:8])
	assert.Equal(t, "residual", header[len(header)-1])
	assert.Equal(t, "0.79", rows[2][5])
	for _, row := range rows {
		assert.Len(t, row, len(header))
	}

	r.Segments[0].Stability = &StabilityResults{CmAlpha: []float64{-1, -1.1}, StaticMargin: []float64{0.1, 0.11}, NeutralPoint: []float64{2, 2}}
	buf.Reset()
	require.NoError(t, WriteCSV(&buf, r.Segments[0]))
	header, err = csv.NewReader(&buf).Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"cm_alpha", "static_margin", "neutral_point(m)"}, header[len(header)-3:])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, testResults()))
	out := buf.String()
	// Keys keep the export order.
	assert.Less(t, strings.Index(out, `"mission"`), strings.Index(out, `"segments"`))
	assert.Less(t, strings.Index(out, `"time(s)"`), strings.Index(out, `"mass(kg)"`))
	assert.Less(t, strings.Index(out, `"mass(kg)"`), strings.Index(out, `"throttle"`))
	var decoded struct {
		Mission  string
		Segments map[string]map[string]any
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "test", decoded.Mission)
	require.Contains(t, decoded.Segments, "cruise")
	assert.Equal(t, CruiseConstantSpeedConstantAltitude.String(), decoded.Segments["cruise"]["kind"])
	assert.Equal(t, []any{0.8, 0.79}, decoded.Segments["cruise"]["throttle"])
}

func TestArchiveRoundTrip(t *testing.T) {
	r := testResults()
	r.Segments[0].Stability = &StabilityResults{CmAlpha: []float64{-1, -1.1}, StaticMargin: []float64{0.1, 0.11}, NeutralPoint: []float64{2, 2}}
	path := filepath.Join(t.TempDir(), "results.msgpack.zst")
	require.NoError(t, ExportFile(path, func(w io.Writer) error { return SaveArchive(w, r) }))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	loaded, err := LoadArchive(f)
	require.NoError(t, err)
	assert.Equal(t, r, loaded)
	assert.InDelta(t, 1.0, loaded.Segments[0].FuelBurned(), 1e-12)

	_, err = LoadArchive(strings.NewReader("not an archive"))
	assert.Error(t, err)
}
