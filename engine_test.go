package fixedwing

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func testEngine() Engine {
	return Engine{Tag: "O-360", SeaLevelPower: 180 * Horsepower, RatedSpeed: 2700 * RPM, PSFC: 0.5 * LbPerHpHr}
}

func TestEngineLapse(t *testing.T) {
	e := testEngine()
	atmo := USStandard1976{}
	if p, err := e.Available(0, atmo); err != nil || p != e.SeaLevelPower {
		t.Fatalf("sea level power %f (%v)", p, err)
	}
	cond, _ := atmo.Evaluate(9000 * Feet)
	σ := cond.Density / seaLevelDensity
	p, err := e.Available(9000*Feet, atmo)
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(p, e.SeaLevelPower*(σ-0.117)/0.883, 1e-9) || !(p < e.SeaLevelPower) {
		t.Fatalf("power at 9000ft %f", p)
	}
	e.FlatRateAltitude = 5000 * Feet
	if flat, _ := e.Available(4000*Feet, atmo); flat != e.SeaLevelPower {
		t.Fatalf("flat rated engine lapsed below its flat rate altitude: %f", flat)
	}
	if above, _ := e.Available(9000*Feet, atmo); !(above > p) {
		t.Fatal("flat rating should improve power above its altitude")
	}
}

func TestEngineThrottle(t *testing.T) {
	e := testEngine()
	out, err := e.Evaluate(0.5, 0, USStandard1976{})
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(out.Power, e.SeaLevelPower/2, 1e-9) || out.AvailablePower != e.SeaLevelPower {
		t.Fatalf("P=%f available=%f", out.Power, out.AvailablePower)
	}
	// 90 hp at 0.5 lb/hp/h is 45 lb/h.
	if !scalar.EqualWithinAbs(out.FuelFlow*Hour/Pound, 45, 1e-9) {
		t.Fatalf("fuel flow %f lb/h", out.FuelFlow*Hour/Pound)
	}
	if out, _ := e.Evaluate(-0.2, 0, USStandard1976{}); out.Power != 0 || out.FuelFlow != 0 {
		t.Fatal("negative throttle produced power")
	}
	e.SeaLevelPower = 0
	if err := e.Validate(); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("engine without power accepted: %v", err)
	}
}

func TestNetworkValidate(t *testing.T) {
	n := &InternalCombustionPropeller{Tag: "ice", NumberOfEngines: 1, IdenticalPropellers: true, Engine: testEngine(), Propeller: testPropeller()}
	if err := n.Validate(); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("undesigned propeller accepted: %v", err)
	}
	if err := n.Propeller.Design(USStandard1976{}, nil); err != nil {
		t.Fatal(err)
	}
	if err := n.Validate(); err != nil {
		t.Fatal(err)
	}
	n.Propeller.DesignPower = 2 * n.Engine.SeaLevelPower
	if err := n.Validate(); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("propeller designed above the engine rating accepted: %v", err)
	}
	n.Propeller.DesignPower = 0.75 * n.Engine.SeaLevelPower
	n.IdenticalPropellers = false
	if err := n.Validate(); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("non identical propellers accepted: %v", err)
	}
}

func TestNetworkEvaluate(t *testing.T) {
	n := &InternalCombustionPropeller{Tag: "ice", NumberOfEngines: 1, IdenticalPropellers: true, Engine: testEngine(), Propeller: testPropeller()}
	atmo := USStandard1976{}
	if err := n.Propeller.Design(atmo, nil); err != nil {
		t.Fatal(err)
	}
	fs, err := newFlightState(atmo, 9000*Feet, 116*Knot, 1000, 0)
	if err != nil {
		t.Fatal(err)
	}
	controls := []float64{0.8, 2500 * RPM}
	single, err := n.Evaluate(controls, fs)
	if err != nil {
		t.Fatal(err)
	}
	if len(single.Residuals) != len(n.Unknowns())-1 {
		t.Fatalf("%d residuals for %d unknowns", len(single.Residuals), len(n.Unknowns()))
	}
	if r := (single.EnginePower - single.ShaftPower) / n.Engine.SeaLevelPower; !scalar.EqualWithinAbs(single.Residuals[0], r, 1e-12) {
		t.Fatalf("power residual %f expected %f", single.Residuals[0], r)
	}
	n.NumberOfEngines = 2
	twin, err := n.Evaluate(controls, fs)
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(twin.Thrust, 2*single.Thrust, 1e-9) || !scalar.EqualWithinAbs(twin.FuelFlow, 2*single.FuelFlow, 1e-12) {
		t.Fatal("twin network should double thrust and fuel flow")
	}
	if twin.Residuals[0] != single.Residuals[0] {
		t.Fatal("the power balance is per engine")
	}
	if n.RatedPower() != 2*n.Engine.SeaLevelPower {
		t.Fatalf("rated power %f", n.RatedPower())
	}
	if _, err := n.Evaluate([]float64{1}, fs); err == nil {
		t.Fatal("missing control accepted")
	}
}
