package physics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func toVec(v [3]float64) r3.Vec { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }

// OrientationRotation builds the crystal-frame-to-lab-frame rotation
// implied by two (crystal-direction, lab-direction) pairs, per spec.md
// §4.3's `dir1`/`dir2` orientation grammar: crys1 maps exactly to lab1;
// crys2 determines the rotation about that axis, mapped to lab2 as
// closely as the two frames' geometry allows. Returns an error if
// either pair's vectors are parallel (underdetermined) or if the
// angle between crys1/crys2 and lab1/lab2 differs by more than dirtol
// radians (over-determined and inconsistent).
func OrientationRotation(crys1, lab1, crys2, lab2 r3.Vec, dirtol float64) (func(r3.Vec) r3.Vec, error) {
	n1 := r3.Norm(crys1)
	n2 := r3.Norm(crys2)
	m1 := r3.Norm(lab1)
	m2 := r3.Norm(lab2)
	if n1 == 0 || n2 == 0 || m1 == 0 || m2 == 0 {
		return nil, fmt.Errorf("physics: orientation vectors must be nonzero")
	}
	c1, c2 := r3.Scale(1/n1, crys1), r3.Scale(1/n2, crys2)
	l1, l2 := r3.Scale(1/m1, lab1), r3.Scale(1/m2, lab2)

	angleCrys := math.Acos(clamp(r3.Dot(c1, c2), -1, 1))
	angleLab := math.Acos(clamp(r3.Dot(l1, l2), -1, 1))
	if math.Sin(angleCrys) < 1e-12 || math.Sin(angleLab) < 1e-12 {
		return nil, fmt.Errorf("physics: orientation vectors must not be parallel")
	}
	if math.Abs(angleCrys-angleLab) > dirtol {
		return nil, fmt.Errorf("physics: dir1/dir2 angle mismatch %.6g exceeds dirtol %.6g", math.Abs(angleCrys-angleLab), dirtol)
	}

	// Build an orthonormal frame from each pair (Gram-Schmidt), then
	// the rotation is the basis-change matrix between the two frames.
	crysE1 := c1
	crysE2raw := r3.Sub(c2, r3.Scale(r3.Dot(c2, crysE1), crysE1))
	crysE2 := r3.Scale(1/r3.Norm(crysE2raw), crysE2raw)
	crysE3 := r3.Cross(crysE1, crysE2)

	labE1 := l1
	labE2raw := r3.Sub(l2, r3.Scale(r3.Dot(l2, labE1), labE1))
	labE2 := r3.Scale(1/r3.Norm(labE2raw), labE2raw)
	labE3 := r3.Cross(labE1, labE2)

	rotate := func(v r3.Vec) r3.Vec {
		// express v in the crystal orthonormal basis, then rebuild in
		// the lab orthonormal basis with matching coefficients.
		a := r3.Dot(v, crysE1)
		b := r3.Dot(v, crysE2)
		c := r3.Dot(v, crysE3)
		return r3.Add(r3.Scale(a, labE1), r3.Add(r3.Scale(b, labE2), r3.Scale(c, labE3)))
	}
	return rotate, nil
}
