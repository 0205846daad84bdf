package fixedwing

import (
	"math"

	kitlog "github.com/go-kit/log"
)

const (
	designTolerance     = 1e-6
	designMaxIterations = 100
)

// Design sizes the blade for minimum induced loss at the design point (Adkins & Liebeck,
// power specified). The chord and pitch distributions are stored in p.Blade.
func (p *Propeller) Design(atmo Atmosphere, logger kitlog.Logger) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	cond, err := atmo.Evaluate(p.DesignAltitude)
	if err != nil {
		return err
	}
	blade, err := p.design(cond, designTolerance, designMaxIterations)
	if err != nil {
		logger.Log("level", "error", "subsys", "propdesign", "propeller", p.Tag, "err", err)
		return err
	}
	p.Blade = blade
	logger.Log("level", "info", "subsys", "propdesign", "propeller", p.Tag, "iterations", blade.Iterations, "thrust(N)", blade.DesignThrust, "η", blade.DesignEfficiency)
	return nil
}

func (p *Propeller) design(cond AtmosphereConditions, tol float64, maxIter int) (*Blade, error) {
	B := float64(p.Blades)
	R := p.TipRadius
	V := p.DesignFreestream
	omega := p.DesignAngularVelocity
	P := p.DesignPower
	Cl := p.DesignCl
	rho, mu := cond.Density, cond.DynamicViscosity

	n := p.stations()
	λ := V / (omega * R)
	χh := p.HubRadius / R
	dχ := (1 - χh) / float64(n)
	χ := make([]float64, n)
	for i := range χ {
		χ[i] = χh + (float64(i)+0.5)*dχ
	}

	var (
		ζ, Δ   float64
		chord  = make([]float64, n)
		twist  = make([]float64, n)
		I1, I2 = make([]float64, n), make([]float64, n)
		J1, J2 = make([]float64, n), make([]float64, n)
	)
	Pc := 2 * P / (rho * V * V * V * math.Pi * R * R)
	iter := 0
	for iter < maxIter {
		iter++
		φt := math.Atan(λ * (1 + ζ/2))
		for i, c := range χ {
			F := prandtl(B / 2 * (1 - c) / math.Sin(φt))
			φ := math.Atan(math.Tan(φt) / c)
			x := c / λ
			G := F * x * math.Cos(φ) * math.Sin(φ)
			Wc := 4 * math.Pi * λ * G * V * R * ζ / (Cl * B)
			polar := p.airfoil(i).At(rho * Wc / mu)
			ε := polar.Drag(Cl) / Cl
			a := ζ / 2 * math.Pow(math.Cos(φ), 2) * (1 - ε*math.Tan(φ))
			W := V * (1 + a) / math.Sin(φ)
			chord[i] = Wc / W
			twist[i] = polar.Alpha(Cl) + φ

			I1[i] = 4 * c * G * (1 - ε*math.Tan(φ))
			I2[i] = λ * (I1[i] / (2 * c)) * (1 + ε/math.Tan(φ)) * math.Sin(φ) * math.Cos(φ)
			J1[i] = 4 * c * G * (1 + ε/math.Tan(φ))
			J2[i] = J1[i] / 2 * (1 - ε*math.Tan(φ)) * math.Pow(math.Cos(φ), 2)
		}
		i1, i2 := trapz(χ, I1), trapz(χ, I2)
		j1, j2 := trapz(χ, J1), trapz(χ, J2)
		h := j1 / (2 * j2)
		ζNew := -h + math.Sqrt(h*h+Pc/j2)
		Δ = math.Abs(ζNew - ζ)
		ζ = ζNew
		if !finite(ζ) {
			break
		}
		if Δ < tol {
			Tc := i1*ζ - i2*ζ*ζ
			blade := &Blade{
				Radius:           make([]float64, n),
				Chord:            chord,
				Twist:            twist,
				Cl:               make([]float64, n),
				DesignThrust:     Tc * rho * V * V * math.Pi * R * R / 2,
				DesignTorque:     P / omega,
				DesignPower:      P,
				DesignEfficiency: Tc / Pc,
				Iterations:       iter,
			}
			for i, c := range χ {
				blade.Radius[i] = c * R
				blade.Cl[i] = Cl
			}
			return blade, nil
		}
	}
	return nil, &DesignError{Propeller: p.Tag, Iterations: iter, Residual: Δ}
}
