package sab

import "math"

// TailedBreakdown decomposes one alpha row of an S(alpha,beta) slice
// into a cheap-to-sample piecewise-log-linear cumulative table plus
// explicit front/back tail fractions, mirroring the shape of
// NCSABUtils.cc's createTailedBreakdown: most of the probability mass
// sits in the table's interior, with thin analytic tails below the
// first and above the last grid point to avoid truncating the
// distribution exactly at the grid boundary.
type TailedBreakdown struct {
	// CumulativeTable[i] is the cumulative probability (0 at i==0, 1 at
	// the last index) of the interior mass up to AlphaGrid[Lo+i].
	CumulativeTable []float64
	Lo, Upp         int     // the [Lo,Upp) index range the table covers
	FrontTailProb   float64 // probability mass assigned to the synthetic front tail
	BackTailProb    float64 // probability mass assigned to the synthetic back tail
	TotalWeight     float64 // un-normalized integral of the weighted row over [Lo,Upp)
}

// CreateTailedBreakdown integrates weights[lo:upp] (already multiplied
// by whatever Jacobian/density factor the caller wants weighted by)
// against grid[lo:upp] using log-linear interpolation between
// consecutive points, falling back to linear interpolation for a pair
// of points that are not both strictly positive or whose weights are
// too close to equal for log-interpolation to be numerically meaningful.
func CreateTailedBreakdown(grid []float64, weights []float64, lo, upp int) (*TailedBreakdown, error) {
	if upp-lo < 2 {
		return nil, errBreakdownTooNarrow
	}
	n := upp - lo
	cum := make([]float64, n)
	total := 0.0
	for i := 1; i < n; i++ {
		x0, x1 := grid[lo+i-1], grid[lo+i]
		y0, y1 := weights[lo+i-1], weights[lo+i]
		total += binIntegral(x0, x1, y0, y1)
		cum[i] = total
	}
	tb := &TailedBreakdown{Lo: lo, Upp: upp, TotalWeight: total}
	if total > 0 {
		for i := range cum {
			cum[i] /= total
		}
	}
	tb.CumulativeTable = cum
	// Thin synthetic tails: a fixed relative weight of tailFrac on each
	// side, independent of the boundary weights, keeps the sampled
	// distribution from having a hard edge exactly at the grid limits.
	const tailFrac = 0.01
	tb.FrontTailProb = tailFrac
	tb.BackTailProb = tailFrac
	return tb, nil
}

var errBreakdownTooNarrow = errNarrow{}

type errNarrow struct{}

func (errNarrow) Error() string { return "sab: tailed breakdown needs at least 2 grid points" }

// binIntegral integrates the trapezoid between (x0,y0) and (x1,y1)
// using log-linear interpolation of y when both endpoints are
// strictly positive and their ratio differs from 1 enough for log-space
// arithmetic to be well-conditioned; otherwise falls back to a plain
// linear trapezoid.
func binIntegral(x0, x1, y0, y1 float64) float64 {
	dx := x1 - x0
	if dx <= 0 {
		return 0
	}
	if y0 > 0 && y1 > 0 && math.Abs(math.Log(y1/y0)) > 1e-10 {
		// Integral of y0*(y1/y0)^((x-x0)/dx) over [x0,x1]:
		r := y1 / y0
		lr := math.Log(r)
		return y0 * dx * (r - 1) / lr
	}
	return 0.5 * (y0 + y1) * dx
}

// SampleAlpha draws an alpha value from tb given a uniform random
// number u in [0,1), using inverse-CDF lookup with linear
// interpolation inside the chosen bin and a uniform draw inside
// whichever tail was selected.
func (tb *TailedBreakdown) SampleAlpha(grid []float64, u float64) float64 {
	total := tb.FrontTailProb + tb.BackTailProb + 1.0
	uScaled := u * total
	if uScaled < tb.FrontTailProb {
		width := grid[tb.Lo+1] - grid[tb.Lo]
		frac := uScaled / tb.FrontTailProb
		return grid[tb.Lo] - 0.5*width*(1-frac)
	}
	uScaled -= tb.FrontTailProb
	if uScaled > 1.0 {
		width := grid[tb.Upp-1] - grid[tb.Upp-2]
		frac := (uScaled - 1.0) / tb.BackTailProb
		return grid[tb.Upp-1] + 0.5*width*frac
	}
	return tb.sampleInterior(grid, uScaled)
}

func (tb *TailedBreakdown) sampleInterior(grid []float64, u float64) float64 {
	cum := tb.CumulativeTable
	i := upperBoundFloat(cum, u)
	if i == 0 {
		i = 1
	}
	c0, c1 := cum[i-1], cum[i]
	x0, x1 := grid[tb.Lo+i-1], grid[tb.Lo+i]
	if c1 == c0 {
		return x0
	}
	frac := (u - c0) / (c1 - c0)
	return x0 + frac*(x1-x0)
}

// upperBoundFloat returns the smallest index i such that v[i] >= x.
func upperBoundFloat(v []float64, x float64) int {
	lo, hi := 0, len(v)
	for lo < hi {
		mid := (lo + hi) / 2
		if v[mid] < x {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo >= len(v) {
		lo = len(v) - 1
	}
	return lo
}
