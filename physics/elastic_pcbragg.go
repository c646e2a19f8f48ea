package physics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/vmishra-uu/ncrystal"
)

// neutronWavelengthConstEVAa2 is the neutron energy<->wavelength
// relation's constant in eV*Angstrom^2: lambda(Aa) =
// sqrt(neutronWavelengthConstEVAa2/E(eV)) (the standard
// non-relativistic neutron de Broglie relation). The familiar textbook
// form of this constant, 81.8042, is quoted for E in meV
// (E[meV]*lambda^2[Aa^2]=81.8042); Process.CrossSectionIsotropic's
// energy argument is eV (process.go), so the constant used here is
// that same relation rescaled by 1e-3 to E in eV.
const neutronWavelengthConstEVAa2 = 0.081804209

func wavelengthFromEnergy(energyEV float64) float64 {
	return math.Sqrt(neutronWavelengthConstEVAa2 / energyEV)
}

func energyFromWavelength(lambdaAa float64) float64 {
	return neutronWavelengthConstEVAa2 / (lambdaAa * lambdaAa)
}

// plane is one Bragg-active reflection family reduced to the
// quantities PCBragg needs.
type plane struct {
	dSpacing     float64
	weight       float64 // |F|^2 * multiplicity, barn
	cumulativeUp float64 // running weight sum, sorted by dSpacing descending
}

// PCBragg is the powder-averaged coherent-elastic Bragg process
// (spec.md §4.6): sigma(lambda) = (lambda^2/(2*Vcell)) * sum_i
// |F_i|^2*mult_i over planes with 2d_i >= lambda.
type PCBragg struct {
	cellVolume float64 // Angstrom^3
	planes     []plane // sorted by dSpacing descending
}

// NewPCBragg builds a PCBragg process from an Info's HKL list and cell
// volume.
func NewPCBragg(hkls []ncrystal.HKLInfo, cellVolume float64) *PCBragg {
	ps := make([]plane, len(hkls))
	for i, h := range hkls {
		ps[i] = plane{dSpacing: h.DSpacing, weight: h.FSquared * float64(h.Multiplicity)}
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].dSpacing > ps[j].dSpacing })
	running := 0.0
	for i := range ps {
		running += ps[i].weight
		ps[i].cumulativeUp = running
	}
	return &PCBragg{cellVolume: cellVolume, planes: ps}
}

// activeWeight returns the total |F|^2*mult over planes with 2d>=lambda,
// exploiting the dSpacing-descending order (those planes are a prefix).
func (p *PCBragg) activeWeight(lambda float64) (total float64, nActive int) {
	dMin := lambda / 2
	n := sort.Search(len(p.planes), func(i int) bool { return p.planes[i].dSpacing < dMin })
	if n == 0 {
		return 0, 0
	}
	return p.planes[n-1].cumulativeUp, n
}

func (p *PCBragg) CrossSectionIsotropic(energyEV float64) (float64, error) {
	if energyEV <= 0 {
		return 0, nil
	}
	lambda := wavelengthFromEnergy(energyEV)
	total, _ := p.activeWeight(lambda)
	if total <= 0 {
		return 0, nil
	}
	return (lambda * lambda / (2 * p.cellVolume)) * total, nil
}

func (p *PCBragg) CrossSectionOriented(_ r3.Vec, energyEV float64) (float64, error) {
	return p.CrossSectionIsotropic(energyEV)
}

func (p *PCBragg) Domain() (float64, float64) { return 0, math.Inf(1) }

// SampleScatter picks an active plane weighted by |F|^2*mult, then
// returns an isotropically rotated outgoing direction on the
// Debye-Scherrer cone of half-angle 2*theta_Bragg about the incident
// direction.
func (p *PCBragg) SampleScatter(dir r3.Vec, energyEV float64, rng RNG) (r3.Vec, float64, error) {
	lambda := wavelengthFromEnergy(energyEV)
	total, n := p.activeWeight(lambda)
	if total <= 0 || n == 0 {
		return dir, energyEV, nil
	}
	u := rng.Float64() * total
	i := sort.Search(n, func(i int) bool { return p.planes[i].cumulativeUp >= u })
	if i >= n {
		i = n - 1
	}
	sinTheta := lambda / (2 * p.planes[i].dSpacing)
	if sinTheta > 1 {
		sinTheta = 1
	}
	twoTheta := 2 * math.Asin(sinTheta)

	axis := orthogonalTo(dir)
	azimuth := 2 * math.Pi * rng.Float64()
	coneAxis := rotateAboutAxis(axis, dir, azimuth)
	outDir := rotateAboutAxis(dir, coneAxis, twoTheta)
	return outDir, energyEV, nil // elastic: energy unchanged
}
