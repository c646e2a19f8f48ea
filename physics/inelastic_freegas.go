package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// FreeGas is the ideal-gas inelastic kernel for an atom of mass
// elementMassAMU at temperature TemperatureK (spec.md §4.7): the
// classical free-gas scattering law, as used for light, weakly-bound
// scatterers when no measured S(alpha,beta) is available.
type FreeGas struct {
	BoundXS        float64 // barn
	ElementMassAMU float64
	TemperatureK   float64
}

const (
	boltzmannEVPerK = 8.617333e-5
	neutronMassAMU  = 1.00866491588
)

// a is the standard dimensionless free-gas parameter A*E/(kT), A the
// mass ratio target/neutron.
func (g *FreeGas) massRatio() float64 { return g.ElementMassAMU / neutronMassAMU }

func (g *FreeGas) a(energyEV float64) float64 {
	kT := boltzmannEVPerK * g.TemperatureK
	return g.massRatio() * energyEV / kT
}

// CrossSectionIsotropic implements the classical free-gas total cross
// section (the Szuma-Whittemore formula used by general-purpose Monte
// Carlo free-gas treatments):
//
//	sigma(E) = sigma_b/2 * [ (1+1/(2a))*erf(sqrt(a)) + exp(-a)/sqrt(pi*a) ]
func (g *FreeGas) CrossSectionIsotropic(energyEV float64) (float64, error) {
	if energyEV <= 0 {
		return 0, nil
	}
	a := g.a(energyEV)
	sqrtA := math.Sqrt(a)
	erfTerm := (1 + 1/(2*a)) * math.Erf(sqrtA)
	expTerm := math.Exp(-a) / math.Sqrt(math.Pi*a)
	return g.BoundXS / 2 * (erfTerm + expTerm), nil
}

func (g *FreeGas) CrossSectionOriented(_ r3.Vec, energyEV float64) (float64, error) {
	return g.CrossSectionIsotropic(energyEV)
}

func (g *FreeGas) Domain() (float64, float64) { return 0, math.Inf(1) }

// SampleScatter implements the classical free-gas sampling algorithm:
// draw a target velocity from the Maxwell-Boltzmann distribution,
// biased by the relative speed via rejection, then perform elastic
// two-body kinematics in the lab frame.
func (g *FreeGas) SampleScatter(dir r3.Vec, energyEV float64, rng RNG) (r3.Vec, float64, error) {
	vn := math.Sqrt(2 * energyEV / neutronMassAMU) // speed, in energy/mass^(1/2) units; ratios only matter below
	A := g.massRatio()
	beta := math.Sqrt(A * boltzmannEVPerK * g.TemperatureK) // target speed scale: m*v^2/2=kT equivalent in neutron-mass units, scaled by 1/sqrt(A) below
	// target velocity magnitude is sampled in units where the neutron's
	// own thermal speed scale is 1; see targetSpeed for the rejection
	// loop.
	vt := targetSpeed(rng, vn, beta)
	targetDir := isotropicDirection(rng)

	vRel := r3.Sub(r3.Scale(vn, dir), r3.Scale(vt, targetDir))
	speedRel := r3.Norm(vRel)
	if speedRel == 0 {
		return dir, energyEV, nil
	}

	outRelDir := isotropicDirection(rng)

	// Elastic scattering in the CM frame: the relative speed is
	// preserved, only its direction is randomized (outRelDir). Convert
	// back to the lab-frame neutron velocity.
	vnOut := r3.Add(r3.Scale(1/(1+A), r3.Add(r3.Scale(A, r3.Scale(vn, dir)), r3.Scale(vt, targetDir))),
		r3.Scale(A/(1+A), r3.Scale(speedRel, outRelDir)))

	outSpeed := r3.Norm(vnOut)
	outDir := r3.Scale(1/outSpeed, vnOut)
	outEnergy := 0.5 * neutronMassAMU * outSpeed * outSpeed
	return outDir, outEnergy, nil
}

// targetSpeed draws a Maxwellian target speed weighted by the
// neutron-target relative speed, via rejection sampling against the
// envelope max(vn, v), the standard free-gas target-velocity sampling
// scheme (e.g. as described in the MCNP theory manual's free-gas
// treatment).
func targetSpeed(rng RNG, vn, beta float64) float64 {
	for attempt := 0; attempt < 1000; attempt++ {
		x := -math.Log(rng.Float64())
		y := -math.Log(rng.Float64())
		v := beta * math.Sqrt(x+y)
		cosTheta := 2*rng.Float64() - 1
		relSpeed := math.Sqrt(vn*vn + v*v - 2*vn*v*cosTheta)
		if rng.Float64()*(vn+v) <= relSpeed {
			return v
		}
	}
	return beta
}
