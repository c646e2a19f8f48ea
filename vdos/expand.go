package vdos

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/vmishra-uu/ncrystal/sab"
)

const kBoltzmannEV = 8.617333e-5 // eV/K

// ExpandToSAB turns a regularized phonon density of states into an
// inelastic scattering kernel on the caller's alpha/beta grids, via the
// incoherent-approximation phonon expansion:
//
//	S_scaled(alpha,beta) = exp(-alpha*lambda) * sum_{n=1}^{nmax} alpha^n/n! * Pn(beta)
//
// where P is the one-phonon weight function derived from the
// regularized DOS (symmetric in beta by construction), Pn is its n-fold
// self-convolution, and lambda is P's total integral over beta. The
// n=0 term (the elastic, phonon-less channel) is deliberately excluded:
// that mass belongs to the separate incoherent-elastic/Bragg processes
// in the physics package, not to this dynamic info's inelastic kernel.
// Increasing nmax — driven by vdoslux — captures higher multi-phonon
// orders at the cost of more convolution work.
func ExpandToSAB(g *Grid, temperature, elementMass float64, alphaGrid, betaGrid []float64, vdoslux int) (*sab.RawKernel, error) {
	if temperature <= 0 {
		return nil, fmt.Errorf("vdos: temperature must be positive")
	}
	if elementMass <= 0 {
		return nil, fmt.Errorf("vdos: element mass must be positive")
	}
	kT := kBoltzmannEV * temperature

	p, dbeta, err := oneBoundaryWeight(g, kT)
	if err != nil {
		return nil, err
	}
	lambda := floats.Sum(p) * dbeta
	if lambda <= 0 {
		return nil, fmt.Errorf("vdos: one-phonon weight integrates to zero")
	}

	nmax := 2 + vdoslux
	terms := make([][]float64, nmax)
	terms[0] = p
	for n := 1; n < nmax; n++ {
		terms[n] = selfConvolve(terms[n-1], p, dbeta)
	}

	s := make([]float64, len(alphaGrid)*len(betaGrid))
	for ib, beta := range betaGrid {
		pn := make([]float64, nmax)
		for n := 0; n < nmax; n++ {
			pn[n] = interpOnGrid(terms[n], dbeta, beta)
		}
		for ia, alpha := range alphaGrid {
			acc := 0.0
			term := 1.0
			fact := 1.0
			for n := 1; n <= nmax; n++ {
				term *= alpha
				fact *= float64(n)
				acc += term / fact * pn[n-1]
			}
			s[ib*len(alphaGrid)+ia] = math.Exp(-alpha*lambda) * acc
		}
	}

	return &sab.RawKernel{
		Format:      sab.ScaledSAB,
		AlphaGrid:   alphaGrid,
		BetaGrid:    betaGrid,
		S:           s,
		Temperature: temperature,
		ElementMass: elementMass,
	}, nil
}

// oneBoundaryWeight builds the symmetric one-phonon weight function P
// on a uniform beta grid spanning [-betaMax,betaMax], where betaMax
// matches g's upper energy edge divided by kT. P(beta) = rho(beta) /
// (2*sinh(beta/2)), with rho(beta) the DOS reexpressed per unit beta
// (rho(beta) = Density(E=beta*kT) * kT); the beta->0 limit is set to 0,
// matching a Debye-like DOS that vanishes quadratically at E=0.
func oneBoundaryWeight(g *Grid, kT float64) (p []float64, dbeta float64, err error) {
	n := len(g.EGrid)
	emax := g.EGrid[n-1]
	betaMax := emax / kT
	if betaMax <= 0 {
		return nil, 0, fmt.Errorf("vdos: degenerate energy grid")
	}
	dbeta = betaMax / float64(n-1)
	half := n - 1
	full := 2*half + 1
	p = make([]float64, full)
	for i := 0; i < full; i++ {
		beta := float64(i-half) * dbeta
		ab := math.Abs(beta)
		if ab < 1e-9 {
			continue
		}
		e := ab * kT
		dens := interpLinear(g.EGrid, g.Density, e)
		rhoBeta := dens * kT
		p[i] = rhoBeta / (2 * math.Sinh(ab/2))
	}
	return p, dbeta, nil
}

// selfConvolve computes the discrete convolution of two equal-length
// arrays centered on their midpoint index, scaled by dbeta so the
// result approximates the continuous convolution integral. Values that
// would land outside the array are truncated rather than wrapped,
// which loses a small amount of high-order tail mass for large n — an
// accepted simplification given the expansion is already bounded by
// nmax.
func selfConvolve(a, b []float64, dbeta float64) []float64 {
	n := len(a)
	half := n / 2
	out := make([]float64, n)
	for k := 0; k < n; k++ {
		sum := 0.0
		for i := 0; i < n; i++ {
			j := k - i + half
			if j < 0 || j >= n {
				continue
			}
			sum += a[i] * b[j]
		}
		out[k] = sum * dbeta
	}
	return out
}

// interpOnGrid linearly interpolates arr, whose index i corresponds to
// beta = (i-len(arr)/2)*dbeta, at an arbitrary beta, clamping outside
// the covered range.
func interpOnGrid(arr []float64, dbeta, beta float64) float64 {
	n := len(arr)
	half := n / 2
	idx := beta/dbeta + float64(half)
	if idx <= 0 {
		return arr[0]
	}
	if idx >= float64(n-1) {
		return arr[n-1]
	}
	i := int(idx)
	frac := idx - float64(i)
	return arr[i] + frac*(arr[i+1]-arr[i])
}
