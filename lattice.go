package ncrystal

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// DirectLatticeVectors returns the unit cell's three edge vectors in a
// standard Cartesian frame (a along x; b in the xy-plane; c completing
// the triclinic cell), the conventional crystallographic placement used
// by NCMatCfg/NCInfo's structure builder.
func DirectLatticeVectors(lengths, anglesDeg [3]float64) (a, b, c r3.Vec) {
	la, lb, lc := lengths[0], lengths[1], lengths[2]
	toRad := math.Pi / 180.0
	alpha, beta, gamma := anglesDeg[0]*toRad, anglesDeg[1]*toRad, anglesDeg[2]*toRad

	a = r3.Vec{X: la}
	b = r3.Vec{X: lb * math.Cos(gamma), Y: lb * math.Sin(gamma)}

	cx := lc * math.Cos(beta)
	cy := lc * (math.Cos(alpha) - math.Cos(beta)*math.Cos(gamma)) / math.Sin(gamma)
	czSq := lc*lc - cx*cx - cy*cy
	if czSq < 0 {
		czSq = 0
	}
	cz := math.Sqrt(czSq)
	c = r3.Vec{X: cx, Y: cy, Z: cz}
	return
}

// ReciprocalLatticeVectors returns a*,b*,c* in the crystallographic
// convention (no 2*pi factor): a* = (b x c)/V, so that d_hkl =
// 1/|h*a*+k*b*+l*c*|.
func ReciprocalLatticeVectors(a, b, c r3.Vec) (as, bs, cs r3.Vec) {
	v := r3.Dot(a, r3.Cross(b, c))
	as = r3.Scale(1/v, r3.Cross(b, c))
	bs = r3.Scale(1/v, r3.Cross(c, a))
	cs = r3.Scale(1/v, r3.Cross(a, b))
	return
}

// ReciprocalVector returns h*as+k*bs+l*cs.
func ReciprocalVector(hkl [3]int, as, bs, cs r3.Vec) r3.Vec {
	return r3.Add(r3.Scale(float64(hkl[0]), as), r3.Add(r3.Scale(float64(hkl[1]), bs), r3.Scale(float64(hkl[2]), cs)))
}

// DSpacing returns 1/|G_hkl|, the standard crystallographic d-spacing.
func DSpacing(hkl [3]int, as, bs, cs r3.Vec) float64 {
	g := ReciprocalVector(hkl, as, bs, cs)
	n := r3.Norm(g)
	if n == 0 {
		return math.Inf(1)
	}
	return 1 / n
}

// DirectVector returns h*a+k*b+l*c for a plain (non-hkl) crystal-frame
// direction given in lattice-vector coordinates.
func DirectVector(v [3]float64, a, b, c r3.Vec) r3.Vec {
	return r3.Add(r3.Scale(v[0], a), r3.Add(r3.Scale(v[1], b), r3.Scale(v[2], c)))
}

// ReciprocalVectorF is ReciprocalVector for a direction given as
// non-integer (h,k,l)-style reciprocal-lattice coordinates, as accepted
// by MatCfg's dir1/dir2 "@crystal_hkl:" orientation syntax.
func ReciprocalVectorF(v [3]float64, as, bs, cs r3.Vec) r3.Vec {
	return r3.Add(r3.Scale(v[0], as), r3.Add(r3.Scale(v[1], bs), r3.Scale(v[2], cs)))
}
