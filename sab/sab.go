// Package sab implements the canonical S(alpha,beta) scattering-kernel
// representation: normalization from the wire formats an NCMAT file may
// use, the kinematically active alpha/beta range, and the tailed
// log-linear breakdown used to sample an energy transfer (spec.md
// §3, §4.5).
package sab

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// Format is the wire representation an input kernel may arrive in,
// mirroring ScatKnlData::KnlType in NCSABUtils.cc (SQW is recognized
// but unsupported — see ErrSQWUnsupported).
type Format int

const (
	// SAB is the canonical, unscaled form: S(alpha,beta) itself.
	SAB Format = iota
	// ScaledSAB is S(alpha,beta)*exp(beta/2), over the full beta range.
	ScaledSAB
	// ScaledSymSAB is ScaledSAB given only for beta>=0, implicitly
	// symmetric (S(alpha,-beta)=S(alpha,beta) before unscaling).
	ScaledSymSAB
	// SQW is S(q,omega); conversion is explicitly unimplemented.
	SQW
)

// ErrSQWUnsupported is returned by Normalize for SQW input, matching
// NCSABUtils.cc's own unfinished, commented-out conversion path.
var ErrSQWUnsupported = fmt.Errorf("sab: S(q,omega) input is not yet supported")

// RawKernel is an as-specified kernel before normalization.
type RawKernel struct {
	Format       Format
	AlphaGrid    []float64 // strictly ascending, >=0
	BetaGrid     []float64 // strictly ascending; half-grid (>=0) if Format==ScaledSymSAB
	S            []float64 // row-major, |AlphaGrid| inner, len == |AlphaGrid|*|BetaGrid|
	Temperature  float64   // K
	BoundXS      float64   // barn
	ElementMass  float64   // amu
	SuggestedEmax float64  // eV; 0 if not specified
}

// SABData is the canonical, normalized kernel (spec.md §3): strictly
// increasing alpha/beta grids, dense non-negative S table, in a form
// satisfying detailed balance S(a,-b) = S(a,b)*exp(b). The table is
// stored as a sparse.DenseArray shaped [|BetaGrid|, |AlphaGrid|] — the
// teacher's own dense-grid-table type (its PDE solver's cell-variable
// storage), reused here for a kernel table instead of a spatial grid.
type SABData struct {
	AlphaGrid     []float64
	BetaGrid      []float64
	S             *sparse.DenseArray // shape [|BetaGrid|, |AlphaGrid|]
	Temperature   float64
	BoundXS       float64
	ElementMass   float64
	SuggestedEmax float64
}

// AtIdx returns S at the grid point (ia, ib).
func (d *SABData) AtIdx(ia, ib int) float64 { return d.S.Get(ib, ia) }

func (d *SABData) setIdx(ia, ib int, v float64) { d.S.Set(v, ib, ia) }

// Validate checks the invariants from spec.md §3.
func (d *SABData) Validate() error {
	if len(d.AlphaGrid) < 2 || len(d.BetaGrid) < 2 {
		return fmt.Errorf("sab: alpha and beta grids must each have at least 2 points")
	}
	if !strictlyAscending(d.AlphaGrid) || !strictlyAscending(d.BetaGrid) {
		return fmt.Errorf("sab: alpha and beta grids must be strictly ascending")
	}
	shape := d.S.GetShape()
	if len(shape) != 2 || shape[0] != len(d.BetaGrid) || shape[1] != len(d.AlphaGrid) {
		return fmt.Errorf("sab: S table shape %v does not match [|beta|,|alpha|]=[%d,%d]", shape, len(d.BetaGrid), len(d.AlphaGrid))
	}
	for _, v := range d.S.Elements {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("sab: S values must be finite and >=0")
		}
	}
	return nil
}

func strictlyAscending(v []float64) bool {
	for i := 1; i < len(v); i++ {
		if v[i] <= v[i-1] {
			return false
		}
	}
	return true
}

// Normalize converts a RawKernel into canonical SABData, mirroring
// NCSABUtils.cc's transformKernelToStdFormat: ScaledSymSAB is mirrored
// to a full beta range, then ScaledSAB is unscaled via
// S = S_scaled*exp(-beta/2), falling back to a log-space evaluation
// when that factor would overflow.
func Normalize(in RawKernel) (*SABData, error) {
	alpha, beta, s := in.AlphaGrid, in.BetaGrid, in.S

	if in.Format == ScaledSymSAB {
		var err error
		beta, s, err = expandBetaAndSABToAllBetas(beta, alpha, s)
		if err != nil {
			return nil, err
		}
	}

	switch in.Format {
	case ScaledSymSAB, ScaledSAB:
		unscaled, err := unscale(alpha, beta, s)
		if err != nil {
			return nil, err
		}
		s = unscaled
	case SQW:
		return nil, ErrSQWUnsupported
	case SAB:
		// already canonical
	default:
		return nil, fmt.Errorf("sab: unrecognized kernel format %d", in.Format)
	}

	dense := &sparse.DenseArray{Elements: s, Shape: []int{len(beta), len(alpha)}}
	dense.Fix()

	out := &SABData{
		AlphaGrid:     alpha,
		BetaGrid:      beta,
		S:             dense,
		Temperature:   in.Temperature,
		BoundXS:       in.BoundXS,
		ElementMass:   in.ElementMass,
		SuggestedEmax: in.SuggestedEmax,
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// expandBetaAndSABToAllBetas mirrors a half-beta-grid (beta[0]==0, all
// other entries >0) and its S table into the full symmetric range,
// using S(alpha,-beta) := S(alpha,beta) (pre-unscaling symmetry).
func expandBetaAndSABToAllBetas(halfBeta, alpha, sHalf []float64) ([]float64, []float64, error) {
	if len(halfBeta) == 0 || halfBeta[0] != 0.0 {
		return nil, nil, fmt.Errorf("sab: scaled-symmetric kernel's beta grid must start at 0")
	}
	nAlpha := len(alpha)
	nBetaOld := len(halfBeta)
	nBetaPositive := nBetaOld - 1
	nBetaNew := nBetaPositive*2 + 1
	if nBetaOld*nAlpha != len(sHalf) {
		return nil, nil, fmt.Errorf("sab: half-beta S table size mismatch")
	}

	fullBeta := make([]float64, nBetaNew)
	for i, v := range halfBeta {
		fullBeta[nBetaPositive-i] = -v
	}
	fullBeta[nBetaPositive] = 0.0
	for i := 1; i < nBetaOld; i++ {
		fullBeta[nBetaPositive+i] = halfBeta[i]
	}

	fullS := make([]float64, nAlpha*nBetaNew)
	for i := 0; i < nBetaPositive; i++ {
		srcRow := (nBetaPositive - i) * nAlpha
		copy(fullS[i*nAlpha:(i+1)*nAlpha], sHalf[srcRow:srcRow+nAlpha])
	}
	copy(fullS[nBetaPositive*nAlpha:], sHalf)
	return fullBeta, fullS, nil
}

// unscale converts S_scaled(alpha,beta) to S(alpha,beta) = S_scaled *
// exp(-beta/2), switching to a log-space evaluation when exp(-beta/2)
// would overflow double precision (the 700.0 threshold matches
// NCSABUtils.cc's own choice, just below math.Exp's ~709.78 overflow
// point).
func unscale(alpha, beta, s []float64) ([]float64, error) {
	nAlpha := len(alpha)
	out := make([]float64, len(s))
	copy(out, s)
	for ib, b := range beta {
		row := out[ib*nAlpha : (ib+1)*nAlpha]
		exparg := -0.5 * b
		if exparg < 700.0 {
			expfact := math.Exp(exparg)
			for i := range row {
				row[i] *= expfact
			}
			continue
		}
		for i, v := range row {
			if v == 0.0 {
				continue
			}
			combined := exparg + math.Log(v)
			if combined >= 700.0 {
				return nil, fmt.Errorf("sab: overflow unscaling S(alpha,beta) at beta=%g, S_scaled=%g", b, v)
			}
			row[i] = math.Exp(combined)
		}
	}
	return out, nil
}

// sumFloats delegates to gonum for summation of large S/weight arrays.
// Nothing in this module calls it at present.
func sumFloats(v []float64) float64 { return floats.Sum(v) }
