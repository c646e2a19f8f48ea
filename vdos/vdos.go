// Package vdos regularizes tabulated phonon density-of-states spectra
// and expands them into S(alpha,beta) scattering kernels (spec.md §4,
// "VDOS Expansion"), for feeding into the sab package's canonical
// representation.
package vdos

import (
	"fmt"
	"math"
)

// Grid is a phonon density-of-states spectrum: Density[i] is the
// fraction of vibrational modes per unit energy at EGrid[i] (eV). A
// Grid returned by Regularize has an integral over EGrid of 1; FromSpec
// does not normalize.
type Grid struct {
	EGrid   []float64
	Density []float64
}

// FromSpec builds a Grid from an NCMAT @DYNINFO vdos_egrid/vdos_density
// pair, expanding the two-number [Emin,Emax] shorthand into a uniform
// grid matching vdos_density's length.
func FromSpec(egrid, density []float64) (*Grid, error) {
	if len(egrid) == 2 {
		n := len(density)
		if n < 2 {
			return nil, fmt.Errorf("vdos: [Emin,Emax] form needs at least 2 density points")
		}
		emin, emax := egrid[0], egrid[1]
		full := make([]float64, n)
		for i := range full {
			full[i] = emin + (emax-emin)*float64(i)/float64(n-1)
		}
		egrid = full
	}
	g := &Grid{EGrid: egrid, Density: density}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Validate checks the grid invariants: strictly ascending non-negative
// energies, matching lengths, finite non-negative density.
func (g *Grid) Validate() error {
	if len(g.EGrid) != len(g.Density) {
		return fmt.Errorf("vdos: egrid/density length mismatch (%d vs %d)", len(g.EGrid), len(g.Density))
	}
	if len(g.EGrid) < 2 {
		return fmt.Errorf("vdos: grid needs at least 2 points")
	}
	if g.EGrid[0] < 0 {
		return fmt.Errorf("vdos: egrid must be >=0")
	}
	for i := 1; i < len(g.EGrid); i++ {
		if g.EGrid[i] <= g.EGrid[i-1] {
			return fmt.Errorf("vdos: egrid must be strictly ascending")
		}
	}
	for _, v := range g.Density {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("vdos: density values must be finite and >=0")
		}
	}
	return nil
}

// Regularize resamples g onto a uniform grid whose point count is
// controlled by vdoslux (spec.md §4.3's VDOS-expansion quality knob:
// higher means finer), then renormalizes the integral to 1 via the
// trapezoid rule. The lower edge is nudged away from exactly zero,
// matching the physical expectation that a Debye-like spectrum carries
// no weight at E=0.
func Regularize(g *Grid, vdoslux int) (*Grid, error) {
	if vdoslux < 0 || vdoslux > 5 {
		return nil, fmt.Errorf("vdos: vdoslux must be in [0,5]")
	}
	n := pointCountForLux(vdoslux)
	emin, emax := g.EGrid[0], g.EGrid[len(g.EGrid)-1]
	if emax <= emin {
		return nil, fmt.Errorf("vdos: degenerate energy range")
	}
	if emin <= 0 {
		emin = (emax - emin) / float64(n) / 100
	}

	out := &Grid{EGrid: make([]float64, n), Density: make([]float64, n)}
	for i := 0; i < n; i++ {
		e := emin + (emax-emin)*float64(i)/float64(n-1)
		out.EGrid[i] = e
		out.Density[i] = interpLinear(g.EGrid, g.Density, e)
	}
	integral := trapz(out.EGrid, out.Density)
	if integral <= 0 {
		return nil, fmt.Errorf("vdos: density integrates to zero")
	}
	for i := range out.Density {
		out.Density[i] /= integral
	}
	return out, nil
}

func pointCountForLux(vdoslux int) int { return 50 + 50*vdoslux }

func interpLinear(x, y []float64, target float64) float64 {
	n := len(x)
	if target <= x[0] {
		return y[0]
	}
	if target >= x[n-1] {
		return y[n-1]
	}
	i := 0
	for i < n-2 && x[i+1] < target {
		i++
	}
	frac := (target - x[i]) / (x[i+1] - x[i])
	return y[i] + frac*(y[i+1]-y[i])
}

func trapz(x, y []float64) float64 {
	sum := 0.0
	for i := 1; i < len(x); i++ {
		sum += 0.5 * (y[i] + y[i-1]) * (x[i] - x[i-1])
	}
	return sum
}
