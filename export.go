package fixedwing

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/iancoleman/orderedmap"
	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// ExportConfig configures the exporting of mission results.
type ExportConfig struct {
	Filename  string
	OutputDir string
	AsCSV     bool // one file per segment
	AsJSON    bool
	Archive   bool // msgpack + zstd, reloadable with LoadArchive
	Timestamp bool
}

// IsUseless returns whether this config doesn't actually do anything.
func (c ExportConfig) IsUseless() bool {
	return !c.AsCSV && !c.AsJSON && !c.Archive
}

// Path returns the output file path for the given name and extension.
func (c ExportConfig) Path(name, ext string) string {
	if c.Timestamp {
		t := time.Now()
		name = fmt.Sprintf("%s-%d-%02d-%02dT%02d.%02d.%02d", name, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	}
	return filepath.Join(c.OutputDir, name+"."+ext)
}

// columns returns the per point series of a segment, in export order. Stability columns are only
// present when the stage ran.
func (sr *SegmentResults) columns() ([]string, [][]float64) {
	names := []string{"time(s)", "distance(m)", "altitude(m)", "airspeed(m/s)", "mass(kg)"}
	cols := [][]float64{sr.Time, sr.Distance, sr.Altitude, sr.AirSpeed, sr.Mass}
	for k, n := range sr.UnknownNames {
		names = append(names, n)
		cols = append(cols, sr.Unknowns[k])
	}
	names = append(names, "thrust(N)", "drag(N)", "lift(N)", "CL", "CD", "CDi", "CD0",
		"fuel_flow(kg/s)", "shaft_power(W)", "engine_power(W)", "propeller_efficiency", "advance_ratio",
		"tip_mach", "alpha(rad)", "dynamic_pressure(Pa)", "mach", "residual")
	cols = append(cols, sr.Thrust, sr.Drag, sr.Lift, sr.CL, sr.CD, sr.CDi, sr.CD0,
		sr.FuelFlow, sr.ShaftPower, sr.EnginePower, sr.PropellerEfficiency, sr.AdvanceRatio,
		sr.TipMach, sr.AngleOfAttack, sr.DynamicPressure, sr.Mach, sr.Residual)
	if st := sr.Stability; st != nil {
		names = append(names, "cm_alpha", "static_margin", "neutral_point(m)")
		cols = append(cols, st.CmAlpha, st.StaticMargin, st.NeutralPoint)
	}
	return names, cols
}

// WriteCSV writes one row per control point.
func WriteCSV(w io.Writer, sr *SegmentResults) error {
	names, cols := sr.columns()
	cw := csv.NewWriter(w)
	if err := cw.Write(names); err != nil {
		return err
	}
	row := make([]string, len(cols))
	for i := 0; i < sr.Points(); i++ {
		for c, col := range cols {
			row[c] = strconv.FormatFloat(col[i], 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the results with segments and columns in flight and export order.
func WriteJSON(w io.Writer, r *Results) error {
	root := orderedmap.New()
	root.Set("mission", r.Mission)
	root.Set("vehicle", r.Vehicle)
	segments := orderedmap.New()
	for _, sr := range r.Segments {
		seg := orderedmap.New()
		seg.Set("kind", sr.Kind.String())
		seg.Set("iterations", sr.Iterations)
		seg.Set("residual_norm", sr.ResidualNorm)
		names, cols := sr.columns()
		for c, name := range names {
			seg.Set(name, cols[c])
		}
		segments.Set(sr.Tag, seg)
	}
	root.Set("segments", segments)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(root)
}

// SaveArchive writes the results as zstd compressed msgpack.
func SaveArchive(w io.Writer, r *Results) error {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	defer zw.Close()
	if err := msgpack.NewEncoder(zw).Encode(r); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to close zstd writer: %w", err)
	}
	return nil
}

// LoadArchive reads results written by SaveArchive.
func LoadArchive(rd io.Reader) (*Results, error) {
	zr, err := zstd.NewReader(rd)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer zr.Close()
	var r Results
	if err := msgpack.NewDecoder(zr).Decode(&r); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}
	return &r, nil
}

// ExportFile creates path and hands it to write. Files are closed even when write fails.
func ExportFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
