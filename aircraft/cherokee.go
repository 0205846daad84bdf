// Package aircraft holds complete vehicle and mission descriptions.
package aircraft

import (
	"math"

	"github.com/fwsizing/fixedwing"
	kitlog "github.com/go-kit/log"
)

// CherokeeTag is the tag of the Piper Cherokee 180 vehicle.
const CherokeeTag = "Piper Cherokee 180"

// GearDragIncrement is the drag coefficient of the fixed landing gear (wheels and struts, with a
// 1.4 interference factor) referenced to sref.
func GearDragIncrement(sref float64) float64 {
	mainWheelWidth, mainWheelHeight := 4*fixedwing.Inch, 12*fixedwing.Inch
	noseWheelWidth, noseWheelHeight := 4*fixedwing.Inch, 10*fixedwing.Inch
	wheels := 2*mainWheelWidth*mainWheelHeight + noseWheelWidth*noseWheelHeight

	mainStrutHeight, mainStrutLength := 2*fixedwing.Inch, 24*fixedwing.Inch
	noseStrutHeight, noseStrutWidth := 12*fixedwing.Inch, 2*fixedwing.Inch
	struts := 2*mainStrutHeight*mainStrutLength + noseStrutHeight*noseStrutWidth
	return 1.4 * (wheels + struts) / sref
}

// Cherokee builds the Piper Cherokee 180 and designs its propeller in atmo.
func Cherokee(atmo fixedwing.Atmosphere, logger kitlog.Logger) (*fixedwing.Vehicle, error) {
	const (
		ft  = fixedwing.Feet
		in  = fixedwing.Inch
		deg = fixedwing.Degree
	)
	v := fixedwing.NewVehicle(CherokeeTag)
	v.Mass = fixedwing.MassProperties{
		MaxTakeoff:  2400 * fixedwing.Pound,
		Takeoff:     2400 * fixedwing.Pound,
		MaxZeroFuel: 1310 * fixedwing.Pound,
	}
	v.Envelope = fixedwing.Envelope{UltimateLoad: 5.7, LimitLoad: 3.8}
	v.ReferenceArea = 160 * ft * ft
	v.Passengers = 4

	wing := &fixedwing.LiftingSurface{
		Tag:                  "main_wing",
		Role:                 fixedwing.MainWing,
		Symmetric:            true,
		ProjectedSpan:        30 * ft,
		RootChord:            75 * in,
		TipChord:             63 * in,
		ReferenceArea:        160 * ft * ft,
		ThicknessToChord:     0.15,
		DynamicPressureRatio: 1,
		Origin:               [3]float64{4.809 * ft, 1.832 * ft, -1.145 * ft},
		Stations: []fixedwing.WingStation{
			{Tag: "root", PercentSpan: 0, RootChordPercent: 1, Dihedral: 6.08233 * deg, QuarterChordSweep: 26.565 * deg, ThicknessToChord: 0.15},
			{Tag: "break", PercentSpan: 0.1, RootChordPercent: 0.84, Dihedral: 6.08233 * deg, ThicknessToChord: 0.15},
			{Tag: "tip", PercentSpan: 1, RootChordPercent: 0.84, Dihedral: 6.08233 * deg, QuarterChordSweep: 26.565 * deg, ThicknessToChord: 0.15},
		},
	}
	vtail := &fixedwing.LiftingSurface{
		Tag:                  "vertical_stabilizer",
		Role:                 fixedwing.VerticalTail,
		Vertical:             true,
		ProjectedSpan:        3.8931292 * ft,
		RootChord:            4.12326 * ft,
		TipChord:             1.83256 * ft,
		ReferenceArea:        11.57 * ft * ft,
		QuarterChordSweep:    30 * deg,
		ThicknessToChord:     0.08,
		DynamicPressureRatio: 1,
		Origin:               [3]float64{18.3256 * ft, 0, 0.45814 * ft},
	}
	htail := &fixedwing.LiftingSurface{
		Tag:                  "horizontal_stabilizer",
		Role:                 fixedwing.HorizontalTail,
		Symmetric:            true,
		ProjectedSpan:        10 * ft,
		RootChord:            30 * in,
		TipChord:             30 * in,
		ReferenceArea:        25 * ft * ft,
		ThicknessToChord:     0.1,
		DynamicPressureRatio: 1,
		Origin:               [3]float64{20.83969 * ft, 0, 0},
	}
	for _, s := range []*fixedwing.LiftingSurface{wing, vtail, htail} {
		if err := v.AppendSurface(s); err != nil {
			return nil, err
		}
	}

	fus := &fixedwing.Fuselage{
		Tag:               "fuselage",
		Width:             3.6641216 * ft,
		Lengths:           fixedwing.FuselageLengths{Total: 23*ft + 7.83*in, Nose: 4.809 * ft, Cabin: 7*ft + 4*in, Empennage: 13.464 * ft},
		EffectiveDiameter: 3.664 * ft,
		WettedArea:        20,
		SeatsAbreast:      2,
		SeatPitch:         30 * in,
		CoachSeats:        4,
		Heights: fixedwing.FuselageHeights{
			Maximum:                3.893 * ft,
			AtQuarterLength:        3.435 * ft,
			AtThreeQuarterLength:   2.29 * ft,
			AtWingRootQuarterChord: 3.664 * ft,
		},
		Stations: []fixedwing.FuselageStation{
			{Tag: "segment_0", PercentX: 0, PercentZ: 0, Height: 0, Width: 0},
			{Tag: "segment_1", PercentX: 0.0485, PercentZ: 0, Height: 1.145 * ft, Width: 1.145 * ft},
			{Tag: "segment_2", PercentX: 0.0525, PercentZ: 0, Height: 1.145 * ft, Width: 2.2519 * ft},
			{Tag: "segment_3", PercentX: 0.097, PercentZ: -0.015, Height: 2.061 * ft, Width: 3.664 * ft},
			{Tag: "segment_4", PercentX: 0.206, PercentZ: -0.0153, Height: 2.519 * ft, Width: 3.664 * ft},
			{Tag: "segment_5", PercentX: 0.2886, PercentZ: 0.0103, Height: 3.893 * ft, Width: 3.664 * ft},
			{Tag: "segment_6", PercentX: 0.494, PercentZ: 0.0103, Height: 3.664 * ft, Width: 3.664 * ft},
			{Tag: "segment_7", PercentX: 0.587, PercentZ: 0.0103, Height: 3.206 * ft, Width: 2.977 * ft},
			{Tag: "segment_8", PercentX: 1, PercentZ: 0, Height: 0.916 * ft, Width: 0},
		},
	}
	fus.Fineness.Nose, fus.Fineness.Tail = 1.3125, 3.0967
	L, h := fus.Lengths.Total, fus.Heights.Maximum
	fus.Volume = 0.4 * L * (math.Pi / 4) * h * h
	fus.InternalVolume = 0.3 * L * (math.Pi / 4) * h * h
	if err := v.SetFuselage(fus); err != nil {
		return nil, err
	}

	engine := fixedwing.Engine{
		Tag:              "engine",
		SeaLevelPower:    180 * fixedwing.Horsepower,
		RatedSpeed:       2700 * fixedwing.RPM,
		FlatRateAltitude: 0,
		PSFC:             0.5 * fixedwing.LbPerHpHr,
	}
	prop := fixedwing.Propeller{
		Tag:                   "propeller",
		Blades:                2,
		Origin:                [3]float64{5 * in, 0, 0},
		TipRadius:             38 * in,
		HubRadius:             4 * in,
		DesignFreestream:      141 * fixedwing.MPH,
		DesignAngularVelocity: 2620 * fixedwing.RPM,
		DesignCl:              0.6,
		DesignPower:           0.75 * engine.SeaLevelPower,
		DesignAltitude:        9300 * ft,
		Airfoils:              []fixedwing.Airfoil{fixedwing.NACA4412()},
	}
	if err := prop.Design(atmo, logger); err != nil {
		return nil, err
	}
	v.SetNetwork(&fixedwing.InternalCombustionPropeller{
		Tag:                 "internal_combustion",
		NumberOfEngines:     1,
		IdenticalPropellers: true,
		Engine:              engine,
		Propeller:           prop,
	})
	return v, v.Validate()
}

// CherokeeAnalyses returns the providers flown with the Cherokee: the gear drag increment is
// added to the component build-up.
func CherokeeAnalyses(v *fixedwing.Vehicle, atmo fixedwing.Atmosphere) fixedwing.Analyses {
	return fixedwing.Analyses{
		Aerodynamics: fixedwing.FidelityZero{DragCoefficientIncrement: GearDragIncrement(v.Sref())},
		Atmosphere:   atmo,
		Stability:    fixedwing.StabilityZero{},
	}
}

// CherokeeMission is a single 100 nmi cruise at 9000 ft and 116 kt, flown in the "cruise"
// configuration with the stability stage skipped.
func CherokeeMission(v *fixedwing.Vehicle, analyses fixedwing.Analyses, logger kitlog.Logger) (*fixedwing.Mission, error) {
	cruise, err := v.Config("cruise")
	if err != nil {
		return nil, err
	}
	m := fixedwing.NewMission("the_mission", v, analyses, logger)
	err = m.AppendSegment(&fixedwing.Segment{
		Tag:           "cruise",
		Kind:          fixedwing.CruiseConstantSpeedConstantAltitude,
		Altitude:      fixedwing.Float64(9000 * fixedwing.Feet),
		AirSpeed:      116 * fixedwing.Knot,
		Distance:      100 * fixedwing.NauticalMile,
		ControlPoints: 16,
		Seeds: map[string]float64{
			fixedwing.UnknownThrottle:        1.0,
			fixedwing.UnknownAngularVelocity: 2600 * fixedwing.RPM,
		},
		SkipStability: true,
		Vehicle:       cruise,
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}
