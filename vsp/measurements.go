package vsp

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fwsizing/fixedwing"
)

// Measurement is one CompGeom row, SI units.
type Measurement struct {
	Name              string
	TheoreticalArea   float64
	WettedArea        float64
	TheoreticalVolume float64
	WettedVolume      float64
}

// Measurements are keyed by component name.
type Measurements map[string]Measurement

var compGeomHeader = []string{"Name", "Theo_Area", "Wet_Area", "Theo_Vol", "Wet_Vol"}

// ReadCompGeom parses the component table of a CompGeom report. Lines before the table header
// are skipped and the table ends at the first blank or short line.
func ReadCompGeom(r io.Reader) (Measurements, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	m := make(Measurements)
	inTable := false
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("vsp: %w", err)
		}
		if !inTable {
			inTable = isHeader(rec)
			continue
		}
		if len(rec) < len(compGeomHeader) || strings.TrimSpace(rec[0]) == "" {
			break
		}
		meas := Measurement{Name: strings.TrimSpace(rec[0])}
		vals := make([]float64, 4)
		for i := range vals {
			if vals[i], err = strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 64); err != nil {
				return nil, fmt.Errorf("vsp: %s column %s: %w", meas.Name, compGeomHeader[i+1], err)
			}
		}
		meas.TheoreticalArea, meas.WettedArea, meas.TheoreticalVolume, meas.WettedVolume = vals[0], vals[1], vals[2], vals[3]
		m[meas.Name] = meas
	}
	if !inTable {
		return nil, errors.New("vsp: no component table in CompGeom report")
	}
	return m, nil
}

func isHeader(rec []string) bool {
	if len(rec) < len(compGeomHeader) {
		return false
	}
	for i, h := range compGeomHeader {
		if strings.TrimSpace(rec[i]) != h {
			return false
		}
	}
	return true
}

// Merge copies measured wetted areas and volumes into the fields the user left unset and returns
// the names of the fields it filled. Set values are never replaced.
func Merge(v *fixedwing.Vehicle, m Measurements) []string {
	var filled []string
	for _, s := range v.Surfaces {
		meas, ok := m[s.Tag]
		if ok && s.WettedArea == 0 && meas.WettedArea > 0 {
			s.WettedArea = meas.WettedArea
			filled = append(filled, s.Tag+".WettedArea")
		}
	}
	if f := v.Fuselage; f != nil {
		if meas, ok := m[f.Tag]; ok {
			if f.WettedArea == 0 && meas.WettedArea > 0 {
				f.WettedArea = meas.WettedArea
				filled = append(filled, f.Tag+".WettedArea")
			}
			if f.Volume == 0 && meas.TheoreticalVolume > 0 {
				f.Volume = meas.TheoreticalVolume
				filled = append(filled, f.Tag+".Volume")
			}
		}
	}
	return filled
}
