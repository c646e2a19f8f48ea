package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// neutronWavenumberConstEVAa2 converts an energy in eV to a neutron wavenumber
// squared in inverse-Angstrom^2 via k^2 = E/neutronWavenumberConst,
// the inverse of the de Broglie relation used in elastic_pcbragg.go
// (k = 2*pi/lambda, E = h^2/(2*m*lambda^2)).
const neutronWavenumberConstEVAa2 = neutronWavelengthConstEVAa2 / (4 * math.Pi * math.Pi)

func wavenumberSquared(energyEV float64) float64 {
	return energyEV / neutronWavenumberConstEVAa2
}

// IncoherentElasticComponent is one element's contribution: its
// composition-weighted bound incoherent cross section and mean-square
// displacement.
type IncoherentElasticComponent struct {
	WeightedXS float64 // composition-fraction * bound incoherent XS, barn
	MSD        float64 // Angstrom^2
}

// IncoherentElastic is the composition-weighted, Debye-Waller-
// suppressed incoherent elastic process (spec.md §4.6). Unlike
// PCBragg this is isotropic: the suppression factor below is the
// standard angle-averaged incoherent-elastic formula (as used for
// non-lattice-fixed scatterers, e.g. NJOY's THERMR incoherent-elastic
// treatment), not a per-plane calculation.
type IncoherentElastic struct {
	Components []IncoherentElasticComponent
}

func (p *IncoherentElastic) CrossSectionIsotropic(energyEV float64) (float64, error) {
	k2 := wavenumberSquared(energyEV)
	total := 0.0
	for _, c := range p.Components {
		total += c.WeightedXS * debyeWallerSuppression(k2, c.MSD)
	}
	return total, nil
}

func (p *IncoherentElastic) CrossSectionOriented(_ r3.Vec, energyEV float64) (float64, error) {
	return p.CrossSectionIsotropic(energyEV)
}

func (p *IncoherentElastic) Domain() (float64, float64) { return 0, math.Inf(1) }

// debyeWallerSuppression is (1-exp(-4*k^2*msd))/(4*k^2*msd), the
// angle-averaged Debye-Waller factor over all elastic scattering
// angles at fixed |k|, with the small-argument limit taken at msd=0
// (rigid scatterer, no suppression).
func debyeWallerSuppression(k2, msd float64) float64 {
	x := 4 * k2 * msd
	if x < 1e-8 {
		return 1 - x/2
	}
	return (1 - math.Exp(-x)) / x
}

func (p *IncoherentElastic) SampleScatter(dir r3.Vec, energyEV float64, rng RNG) (r3.Vec, float64, error) {
	return isotropicDirection(rng), energyEV, nil
}
