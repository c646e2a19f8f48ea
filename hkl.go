package ncrystal

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// autoDcutoffAngstrom is the lower d-spacing bound used when a cfg
// leaves dcutoff at its "automatic" value of 0 (spec.md §4.3). Nothing
// in the retrieved material defines what "automatic" resolves to
// numerically, so this is a from-the-physics default rather than a
// transcribed constant: 0.1 Angstrom comfortably covers every Bragg
// edge reachable by thermal and cold neutrons (wavelengths from a
// fraction of an Angstrom up to several tens of Angstrom), while still
// bounding the enumeration to a tractable number of planes for
// realistic unit cells.
const autoDcutoffAngstrom = 0.1

// dGroupRelTol is the relative d-spacing tolerance used to merge
// distinct (h,k,l) triples into one HKLInfo family (spec.md §4.2,
// "group by d-spacing within a tolerance"). This module does not carry
// a space-group symmetry engine, so coincidence in d-spacing (to within
// floating-point noise from the triclinic-cell arithmetic) stands in
// for a true symmetry-equivalence test.
const dGroupRelTol = 1e-6

// fsquarecutRatio drops planes whose |F|^2 falls below this fraction of
// the strongest plane's |F|^2 (spec.md §4.2's fsquarecut). Like
// autoDcutoffAngstrom, no numeric default for this ratio appears
// anywhere in the retrieved spec or original source; 1e-4 discards only
// reflections too weak to matter for any realistic cross section while
// keeping the HKL list free of numerical noise from near-cancelling
// structure factors.
const fsquarecutRatio = 1e-4

type hklCandidate struct {
	h, k, l int
	d       float64
	f2      float64
	normal  r3.Vec
}

// buildHKLs enumerates Bragg reflection families for a crystalline
// structure (spec.md §4.2): candidate (h,k,l) triples are bounded via
// the reciprocal lattice, filtered to d in [dcutoff,dcutoffup], damped
// by the per-element Debye-Waller factors in atoms, grouped by
// d-spacing, and pruned by fsquarecutRatio.
func buildHKLs(structure *StructureInfo, atoms []AtomInfo, dcutoff, dcutoffUp float64) ([]HKLInfo, error) {
	dlo := dcutoff
	if dlo == 0 {
		dlo = autoDcutoffAngstrom
	}
	dup := dcutoffUp
	if dup <= 0 {
		dup = math.Inf(1)
	}
	if dlo <= 0 || dlo >= dup {
		return nil, NewCfgError("dcutoff", "dcutoff (%g) must be > 0 and < dcutoffup (%g)", dlo, dup)
	}

	a, b, c := DirectLatticeVectors(structure.LatticeLengths, structure.LatticeAngles)
	as, bs, cs := ReciprocalLatticeVectors(a, b, c)

	gmax := 1.0 / dlo
	hmax := boundIndex(gmax, a)
	kmax := boundIndex(gmax, b)
	lmax := boundIndex(gmax, c)

	var candidates []hklCandidate
	for h := -hmax; h <= hmax; h++ {
		for k := -kmax; k <= kmax; k++ {
			for l := -lmax; l <= lmax; l++ {
				if h == 0 && k == 0 && l == 0 {
					continue
				}
				if !isCanonicalHalf(h, k, l) {
					continue
				}
				hkl := [3]int{h, k, l}
				g := ReciprocalVector(hkl, as, bs, cs)
				gn := r3.Norm(g)
				if gn == 0 {
					continue
				}
				d := 1.0 / gn
				if d < dlo || d > dup {
					continue
				}
				f2 := structureFactorSquared(hkl, atoms, g)
				if f2 <= 0 {
					continue
				}
				candidates = append(candidates, hklCandidate{h: h, k: k, l: l, d: d, f2: f2, normal: r3.Scale(1/gn, g)})
			}
		}
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].d > candidates[j].d })

	var hkls []HKLInfo
	maxF2 := 0.0
	i := 0
	for i < len(candidates) {
		j := i + 1
		for j < len(candidates) && math.Abs(candidates[j].d-candidates[i].d) <= dGroupRelTol*candidates[i].d {
			j++
		}
		group := candidates[i:j]
		sumF2 := 0.0
		demiNormals := make([][3]float64, len(group))
		equivHKL := make([][3]int, len(group))
		for m, cnd := range group {
			sumF2 += cnd.f2
			demiNormals[m] = [3]float64{cnd.normal.X, cnd.normal.Y, cnd.normal.Z}
			equivHKL[m] = [3]int{cnd.h, cnd.k, cnd.l}
		}
		avgF2 := sumF2 / float64(len(group))
		if avgF2 > maxF2 {
			maxF2 = avgF2
		}
		rep := group[0]
		hkls = append(hkls, HKLInfo{
			DSpacing:      rep.d,
			FSquared:      avgF2,
			H:             rep.h,
			K:             rep.k,
			L:             rep.l,
			Multiplicity:  2 * len(group),
			DemiNormals:   demiNormals,
			EquivalentHKL: equivHKL,
		})
		i = j
	}

	threshold := maxF2 * fsquarecutRatio
	kept := hkls[:0]
	for _, h := range hkls {
		if h.FSquared >= threshold {
			kept = append(kept, h)
		}
	}
	SortHKLByDSpacingDescending(kept)
	return kept, nil
}

// isCanonicalHalf selects exactly one of each antipodal (h,k,l)/(-h,-k,-l)
// pair, so the enumeration loop visits every distinct plane normal once;
// the antipodal partner becomes the reflection's second demi-normal via
// the multiplicity-2-per-family convention.
func isCanonicalHalf(h, k, l int) bool {
	if h != 0 {
		return h > 0
	}
	if k != 0 {
		return k > 0
	}
	return l > 0
}

// boundIndex returns a safe (non-tight for skewed cells, but always
// sufficient) upper bound on a Miller index magnitude, given the
// reciprocal-space radius to cover and the corresponding direct lattice
// vector: the index is h = G·a, so |h| <= Gmax*|a|.
func boundIndex(gmax float64, v r3.Vec) int {
	n := r3.Norm(v)
	if n == 0 {
		return 0
	}
	return int(math.Ceil(gmax*n)) + 1
}

// structureFactorSquared evaluates |F_hkl|^2 in barn, damped by each
// atom's Debye-Waller factor (spec.md §4.2). Convention: g is the
// reciprocal vector h*a*+k*b*+l*c* (no 2*pi factor, so |g|=1/d), and
// the Debye-Waller exponent is -2*pi^2*MSD*|g|^2, matching the
// isotropic-MSD form produced by vdos.DebyeTemperatureMSD.
func structureFactorSquared(hkl [3]int, atoms []AtomInfo, g r3.Vec) float64 {
	g2 := r3.Dot(g, g)
	var re, im float64
	for _, at := range atoms {
		b := at.Data.CoherentScatLenFm
		if b == 0 || len(at.FractionalPositions) == 0 {
			continue
		}
		dw := math.Exp(-2 * math.Pi * math.Pi * at.MSD * g2)
		for _, pos := range at.FractionalPositions {
			phase := 2 * math.Pi * (float64(hkl[0])*pos[0] + float64(hkl[1])*pos[1] + float64(hkl[2])*pos[2])
			sin, cos := math.Sincos(phase)
			re += b * dw * cos
			im += b * dw * sin
		}
	}
	return (re*re + im*im) / 100.0 // fm^2 -> barn
}
