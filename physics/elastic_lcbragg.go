package physics

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/spatial/r3"
)

// LCBragg is the layered-crystal coherent-elastic process (spec.md
// §4.6): identical to SCBragg except the crystal is taken to be
// uniformly rotated about a preferred axis (LCAxis, crystal frame),
// so the cross section is averaged over that rotation.
// LCMode==0 integrates the average numerically with fixed-order
// Gauss-Legendre quadrature; LCMode==n>0 instead averages n discrete
// sample orientations, matching spec.md §4.3's `lcmode` parameter.
type LCBragg struct {
	CellVolume    float64
	NAtoms        int
	Mosaic        *GaussMosaic
	ToLab         func(r3.Vec) r3.Vec // crystal frame -> lab frame, before the lcaxis spin
	LCAxisCrystal r3.Vec              // unit vector, crystal frame
	SCCutoff      float64
	Planes        []scPlane
	Fallback      *PCBragg
	LCMode        int
}

func (p *LCBragg) Domain() (float64, float64) { return 0, math.Inf(1) }

func (p *LCBragg) CrossSectionIsotropic(float64) (float64, error) {
	return 0, errNotIsotropic("LCBragg")
}

func (p *LCBragg) CrossSectionOriented(dir r3.Vec, energyEV float64) (float64, error) {
	lambda := wavelengthFromEnergy(energyEV)
	total := 0.0
	for _, pl := range p.Planes {
		total += p.averagedCrossSectionForPlane(pl, dir, lambda)
	}
	if p.Fallback != nil {
		fb, err := p.Fallback.CrossSectionIsotropic(energyEV)
		if err != nil {
			return 0, err
		}
		total += fb
	}
	return total, nil
}

// averagedCrossSectionForPlane averages crossSectionForPlane-style
// reflectivity over a full rotation about the lab-frame lcaxis.
func (p *LCBragg) averagedCrossSectionForPlane(pl scPlane, dir r3.Vec, lambda float64) float64 {
	labAxis := p.ToLab(p.LCAxisCrystal)
	labAxis = r3.Scale(1/r3.Norm(labAxis), labAxis)
	normal0 := p.ToLab(pl.normalCrystal)

	ratio := lambda / (2 * pl.dSpacing)
	if ratio > 1 {
		return 0
	}
	thetaB := math.Asin(ratio)
	xsfact := pl.fSquared * float64(pl.multiplicity) / (p.CellVolume * float64(p.NAtoms))
	prefactor := lambda * lambda * lambda * xsfact / math.Sin(2*thetaB)

	valueAt := func(phi float64) float64 {
		normal := rotateAboutAxis(normal0, labAxis, phi)
		delta := minAngularDeviation(dir, normal, thetaB)
		return prefactor * p.Mosaic.Profile(delta)
	}

	if p.LCMode <= 0 {
		return quad.Fixed(valueAt, 0, 2*math.Pi, 32, quad.Legendre{}, 0) / (2 * math.Pi)
	}
	n := p.LCMode
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += valueAt(2 * math.Pi * float64(i) / float64(n))
	}
	return sum / float64(n)
}

func (p *LCBragg) SampleScatter(dir r3.Vec, energyEV float64, rng RNG) (r3.Vec, float64, error) {
	lambda := wavelengthFromEnergy(energyEV)
	xs := make([]float64, len(p.Planes))
	total := 0.0
	for i, pl := range p.Planes {
		xs[i] = p.averagedCrossSectionForPlane(pl, dir, lambda)
		total += xs[i]
	}
	fbXS := 0.0
	if p.Fallback != nil {
		if v, err := p.Fallback.CrossSectionIsotropic(energyEV); err == nil {
			fbXS = v
		}
	}
	total += fbXS
	if total <= 0 {
		return dir, energyEV, nil
	}
	u := rng.Float64() * total
	acc := 0.0
	for i, v := range xs {
		acc += v
		if u <= acc {
			return p.reflectOffSampledOrientation(dir, p.Planes[i], rng), energyEV, nil
		}
	}
	if p.Fallback != nil {
		return p.Fallback.SampleScatter(dir, energyEV, rng)
	}
	return dir, energyEV, nil
}

// reflectOffSampledOrientation draws a uniformly random spin angle
// about lcaxis (approximating the chosen plane's instantaneous
// orientation) and reflects dir off that plane's normal.
func (p *LCBragg) reflectOffSampledOrientation(dir r3.Vec, pl scPlane, rng RNG) r3.Vec {
	labAxis := p.ToLab(p.LCAxisCrystal)
	labAxis = r3.Scale(1/r3.Norm(labAxis), labAxis)
	normal := rotateAboutAxis(p.ToLab(pl.normalCrystal), labAxis, 2*math.Pi*rng.Float64())
	if r3.Dot(dir, normal) > 0 {
		normal = r3.Scale(-1, normal)
	}
	d := r3.Dot(dir, normal)
	return r3.Sub(dir, r3.Scale(2*d, normal))
}
