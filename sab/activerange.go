package sab

import "math"

// AlphaRange is a half-open index range [Low,Upp) into an AlphaGrid; an
// empty range has Low >= Upp.
type AlphaRange struct {
	Low, Upp int
}

func (r AlphaRange) Empty() bool { return r.Low >= r.Upp }

// alphaLimits returns the kinematically accessible [alow,aupp] for one
// beta at a given incident-energy-over-kT ratio, per the standard
// alpha(theta) relation alpha = 2*ekinDivKT + beta - 2*sqrt(ekinDivKT*
// (ekinDivKT+beta))*cos(theta): the extrema at cos(theta)=+-1 give
// alow/aupp below. Only valid when ekinDivKT+beta >= 0.
func alphaLimits(ekinDivKT, beta float64) (alow, aupp float64) {
	s1 := math.Sqrt(ekinDivKT)
	s2 := math.Sqrt(ekinDivKT + beta)
	alow = (s1 - s2) * (s1 - s2)
	aupp = (s1 + s2) * (s1 + s2)
	return
}

// ActiveRanges1D computes, for each beta grid point, the index range
// into AlphaGrid that is kinematically accessible at incident energy
// ekinDivKT (=Ei/kT), mirroring NCSABUtils.cc's activeGridRanges. The
// returned slice has one entry per beta grid point starting at
// ibetaLow; betas before ibetaLow have no accessible alpha range at
// all (not even an empty placeholder).
func ActiveRanges1D(data *SABData, ekinDivKT float64) (ranges []AlphaRange, ibetaLow int) {
	alpha := data.AlphaGrid
	na := len(alpha)
	front, back := alpha[0], alpha[na-1]

	for ib, b := range data.BetaGrid {
		if b <= -ekinDivKT {
			if len(ranges) == 0 {
				ibetaLow = ib + 1
			} else {
				ranges = append(ranges, AlphaRange{na, na})
			}
			continue
		}
		alow, aupp := alphaLimits(ekinDivKT, b)
		if back <= alow || front >= aupp || aupp < alow {
			if len(ranges) == 0 {
				ibetaLow = ib + 1
			} else {
				ranges = append(ranges, AlphaRange{na, na})
			}
			continue
		}
		lo := lowerBoundIdx(alpha, alow)
		up := upperBoundIdx(alpha, aupp)
		if up < lo {
			up = lo
		}
		ranges = append(ranges, AlphaRange{lo, up})
	}
	return ranges, ibetaLow
}

// lowerBoundIdx returns the largest index i such that alpha[i] <= x
// (clamped to 0).
func lowerBoundIdx(grid []float64, x float64) int {
	i := 0
	for i < len(grid)-1 && grid[i+1] <= x {
		i++
	}
	return i
}

// upperBoundIdx returns the smallest index i such that alpha[i] >= x
// (clamped to len(grid)-1).
func upperBoundIdx(grid []float64, x float64) int {
	i := len(grid) - 1
	for i > 0 && grid[i-1] >= x {
		i--
	}
	return i
}

// ActiveCells computes the 2D active-cell alpha ranges, one per beta
// *cell* (between consecutive beta grid points), mirroring
// NCSABUtils.cc's activeGridCells. A cell's alpha range is the union of
// its two bounding 1D ranges, widened to include alpha index 0 whenever
// the cell straddles beta=0 — the mandatory "beta=0 cells always reach
// the lowest alpha" rule, since the kinematic curve's slope changes
// sign there.
func ActiveCells(data *SABData, ekinDivKT float64) (cells []AlphaRange, ibetaLowCell int) {
	ranges1d, ibetaLow1d := ActiveRanges1D(data, ekinDivKT)
	if len(ranges1d) == 0 {
		return nil, len(data.BetaGrid)
	}
	na := len(data.AlphaGrid)
	ibetaLowCell = ibetaLow1d

	straddlesZero := func(ib int) bool {
		return data.BetaGrid[ib] <= 0.0 && data.BetaGrid[ib+1] >= 0.0
	}

	if ibetaLow1d > 0 {
		ibetaLowCell--
		first := ranges1d[0]
		if straddlesZero(ibetaLowCell) {
			first.Low = 0
		}
		cells = append(cells, first)
	}

	for i := 0; i+1 < len(ranges1d); i++ {
		r0, r1 := ranges1d[i], ranges1d[i+1]
		var cell AlphaRange
		switch {
		case r0.Empty() && r1.Empty():
			cell = AlphaRange{na, na}
		case r0.Empty():
			cell = r1
		case r1.Empty():
			cell = r0
		default:
			cell = AlphaRange{min(r0.Low, r1.Low), max(r0.Upp, r1.Upp)}
		}
		ibeta := ibetaLow1d + i
		if ibeta+1 < len(data.BetaGrid) && straddlesZero(ibeta) {
			cell.Low = 0
		}
		cells = append(cells, cell)
	}
	return cells, ibetaLowCell
}
