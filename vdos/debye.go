package vdos

import (
	"fmt"
	"math"
)

const (
	hbarSI       = 1.054571817e-34 // J*s
	kBoltzmannSI = 1.380649e-23    // J/K
	amuToKg      = 1.66053906660e-27
)

var errInvalidDebyeParams = fmt.Errorf("vdos: debye temperature, mass, and temperature must be positive")

// DebyeTemperatureMSD returns the isotropic mean-square displacement
// (Angstrom^2) of an atom of mass elementMassAMU at temperature
// temperatureK, bound in a Debye solid with Debye temperature debyeK.
// This is the standard closed-form Debye model, used when only a
// Debye temperature is available rather than a full phonon spectrum
// (spec.md's VDOS-Debye dynamic info variant):
//
//	<u^2> = (3*hbar^2)/(M*kB*ThetaD) * [1/4 + (T/ThetaD)^2 * D1(ThetaD/T)]
//
// where D1 is the order-1 Debye integral.
func DebyeTemperatureMSD(debyeK, elementMassAMU, temperatureK float64) (float64, error) {
	if debyeK <= 0 || elementMassAMU <= 0 || temperatureK < 0 {
		return 0, errInvalidDebyeParams
	}
	reduced := 0.25
	if temperatureK > 0 {
		x := debyeK / temperatureK
		d1 := debyeD1(x)
		ratio := temperatureK / debyeK
		reduced += ratio * ratio * d1
	}
	prefactor := 3 * hbarSI * hbarSI / (elementMassAMU * amuToKg * kBoltzmannSI * debyeK)
	return prefactor * reduced * 1e20, nil // m^2 -> Angstrom^2
}

// DebyeSpectrum builds the idealized quadratic density of states a
// VDOS-Debye dynamic info stands for (spec.md's "idealised quadratic
// DOS parameterised by Debye temperature"): Density(E) proportional to
// E^2 on [0, kB*ThetaD], the standard Debye approximation, regularized
// to the same point density Regularize would give a measured spectrum
// at this vdoslux.
func DebyeSpectrum(debyeK float64, vdoslux int) (*Grid, error) {
	if debyeK <= 0 {
		return nil, fmt.Errorf("vdos: debye temperature must be positive")
	}
	n := pointCountForLux(vdoslux)
	emax := kBoltzmannEV * debyeK
	egrid := make([]float64, n)
	density := make([]float64, n)
	for i := range egrid {
		e := emax * float64(i+1) / float64(n)
		egrid[i] = e
		density[i] = e * e
	}
	g := &Grid{EGrid: egrid, Density: density}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return Regularize(g, vdoslux)
}

// debyeD1 evaluates the order-1 Debye integral D1(x) = (1/x) *
// integral_0^x t/(e^t-1) dt via the trapezoid rule on a fixed
// subdivision. x<=0 (T=+Inf) returns 0.
func debyeD1(x float64) float64 {
	if x <= 0 || math.IsInf(x, 0) {
		return 0
	}
	const steps = 200
	h := x / float64(steps)
	sum := 0.5 * (debyeIntegrand(0) + debyeIntegrand(x))
	for i := 1; i < steps; i++ {
		sum += debyeIntegrand(float64(i) * h)
	}
	return (sum * h) / x
}

func debyeIntegrand(t float64) float64 {
	if t == 0 {
		return 1 // limit of t/(e^t-1) as t->0
	}
	return t / (math.Exp(t) - 1)
}
