// Package physics implements the elastic and inelastic scattering
// processes a Process tree is built from once a MatCfg has selected a
// material's Info (spec.md §4.6, §4.7): PCBragg, SCBragg, LCBragg and
// incoherent-elastic for the elastic side; sterile, free-gas and
// S(alpha,beta)-kernel sampling for the inelastic side; and Composite
// to sum several of these into the single Process a transport code
// calls cross_section/sample_scatter on.
package physics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// RNG is the minimal random source a sampling call needs; *math/rand.Rand
// satisfies it. Per spec.md §5 the engine holds no RNG state of its own
// — every call is handed one explicitly by the caller.
type RNG interface {
	Float64() float64
}

// Process is what a transport code calls (spec.md §6): cross sections
// in barn, sampled outgoing direction/energy in eV.
type Process interface {
	// CrossSectionIsotropic is valid for powders and other orientation-
	// independent processes; oriented processes return an error.
	CrossSectionIsotropic(energyEV float64) (float64, error)
	// CrossSectionOriented is valid for all processes; powders ignore
	// direction.
	CrossSectionOriented(dir r3.Vec, energyEV float64) (float64, error)
	SampleScatter(dir r3.Vec, energyEV float64, rng RNG) (outDir r3.Vec, outEnergyEV float64, err error)
	// Domain returns the energy range outside which cross_section is
	// defined to be zero.
	Domain() (eLow, eHigh float64)
}

// Composite sums several Processes into one, for a material with e.g.
// both coherent-elastic and an inelastic kernel active simultaneously.
// Sampling picks one component weighted by its cross section at the
// call's (direction, energy), then delegates.
type Composite struct {
	Components []Process
}

func (c *Composite) CrossSectionIsotropic(e float64) (float64, error) {
	total := 0.0
	for _, p := range c.Components {
		xs, err := p.CrossSectionIsotropic(e)
		if err != nil {
			return 0, err
		}
		total += xs
	}
	return total, nil
}

func (c *Composite) CrossSectionOriented(dir r3.Vec, e float64) (float64, error) {
	total := 0.0
	for _, p := range c.Components {
		xs, err := p.CrossSectionOriented(dir, e)
		if err != nil {
			return 0, err
		}
		total += xs
	}
	return total, nil
}

func (c *Composite) SampleScatter(dir r3.Vec, e float64, rng RNG) (r3.Vec, float64, error) {
	if len(c.Components) == 0 {
		return dir, e, fmt.Errorf("physics: composite has no components")
	}
	xs := make([]float64, len(c.Components))
	total := 0.0
	for i, p := range c.Components {
		v, err := p.CrossSectionOriented(dir, e)
		if err != nil {
			return dir, e, err
		}
		xs[i] = v
		total += v
	}
	if total <= 0 {
		return dir, e, fmt.Errorf("physics: composite has zero total cross section at this energy")
	}
	u := rng.Float64() * total
	acc := 0.0
	for i, v := range xs {
		acc += v
		if u <= acc {
			return c.Components[i].SampleScatter(dir, e, rng)
		}
	}
	return c.Components[len(c.Components)-1].SampleScatter(dir, e, rng)
}

func (c *Composite) Domain() (float64, float64) {
	lo, hi := 0.0, math.Inf(1)
	for _, p := range c.Components {
		l, h := p.Domain()
		if l > lo {
			lo = l
		}
		if h < hi {
			hi = h
		}
	}
	return lo, hi
}

// errNotIsotropic is the error an oriented process returns from
// CrossSectionIsotropic, the method its geometry doesn't support
// (spec.md §6: oriented vs isotropic calls are distinct entry points).
func errNotIsotropic(name string) error {
	return fmt.Errorf("physics: %s is an oriented process; call CrossSectionOriented", name)
}

// isotropicDirection draws a uniformly random direction on the unit
// sphere, used by IncoherentElastic's and FreeGas's direction sampling.
func isotropicDirection(rng RNG) r3.Vec {
	cosTheta := 2*rng.Float64() - 1
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * rng.Float64()
	return r3.Vec{X: sinTheta * math.Cos(phi), Y: sinTheta * math.Sin(phi), Z: cosTheta}
}

// rotateAboutAxis rotates v by angle radians about the unit axis, via
// Rodrigues' formula.
func rotateAboutAxis(v, axis r3.Vec, angle float64) r3.Vec {
	cosA, sinA := math.Cos(angle), math.Sin(angle)
	term1 := r3.Scale(cosA, v)
	term2 := r3.Scale(sinA, r3.Cross(axis, v))
	term3 := r3.Scale(r3.Dot(axis, v)*(1-cosA), axis)
	return r3.Add(term1, r3.Add(term2, term3))
}

// orthogonalTo returns an arbitrary unit vector orthogonal to v.
func orthogonalTo(v r3.Vec) r3.Vec {
	var a r3.Vec
	if math.Abs(v.X) < 0.9 {
		a = r3.Vec{X: 1}
	} else {
		a = r3.Vec{Y: 1}
	}
	perp := r3.Sub(a, r3.Scale(r3.Dot(a, v), v))
	return r3.Scale(1/r3.Norm(perp), perp)
}
