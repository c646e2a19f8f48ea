package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// neutronEnergy2200EV is the kinetic energy (eV) of a neutron travelling
// at 2200 m/s, the standard reference speed atomdb absorption cross
// sections are quoted at (spec.md §3).
const neutronEnergy2200EV = 0.0253

// Absorption is the composition-weighted 1/v capture process (spec.md
// §3's "2200 m/s absorption cross section"): cross section scales as
// 1/v away from the 2200 m/s reference point, the standard behavior for
// a non-resonant absorber. SampleScatter reports capture by zeroing the
// outgoing energy; a transport code checking for E==0 treats that as
// the neutron having been absorbed rather than scattered.
type Absorption struct {
	XS2200 float64 // barn, composition-weighted sum of AbsorptionXS
}

func (a *Absorption) Domain() (float64, float64) { return 0, math.Inf(1) }

func (a *Absorption) CrossSectionIsotropic(energyEV float64) (float64, error) {
	if energyEV <= 0 {
		return 0, nil
	}
	return a.XS2200 * math.Sqrt(neutronEnergy2200EV/energyEV), nil
}

func (a *Absorption) CrossSectionOriented(_ r3.Vec, energyEV float64) (float64, error) {
	return a.CrossSectionIsotropic(energyEV)
}

func (a *Absorption) SampleScatter(dir r3.Vec, _ float64, _ RNG) (r3.Vec, float64, error) {
	return dir, 0, nil
}
