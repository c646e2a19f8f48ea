package ncrystal

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func approxEqual(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestDirectLatticeVectorsCubic(t *testing.T) {
	a, b, c := DirectLatticeVectors([3]float64{4.0, 4.0, 4.0}, [3]float64{90, 90, 90})
	if !approxEqual(r3.Norm(a), 4.0, 1e-9) || !approxEqual(r3.Norm(b), 4.0, 1e-9) || !approxEqual(r3.Norm(c), 4.0, 1e-9) {
		t.Fatalf("unexpected edge lengths: a=%v b=%v c=%v", a, b, c)
	}
	if !approxEqual(r3.Dot(a, b), 0, 1e-9) || !approxEqual(r3.Dot(a, c), 0, 1e-9) || !approxEqual(r3.Dot(b, c), 0, 1e-9) {
		t.Fatalf("expected orthogonal edges for a cubic cell")
	}
}

func TestReciprocalLatticeVectorsCubic(t *testing.T) {
	a, b, c := DirectLatticeVectors([3]float64{4.0, 4.0, 4.0}, [3]float64{90, 90, 90})
	as, bs, cs := ReciprocalLatticeVectors(a, b, c)
	want := 1.0 / 4.0
	if !approxEqual(r3.Norm(as), want, 1e-9) || !approxEqual(r3.Norm(bs), want, 1e-9) || !approxEqual(r3.Norm(cs), want, 1e-9) {
		t.Fatalf("expected reciprocal vector magnitude 1/a=%v, got as=%v bs=%v cs=%v", want, as, bs, cs)
	}
}

func TestDSpacingCubic100(t *testing.T) {
	a, b, c := DirectLatticeVectors([3]float64{4.0, 4.0, 4.0}, [3]float64{90, 90, 90})
	as, bs, cs := ReciprocalLatticeVectors(a, b, c)
	d := DSpacing([3]int{1, 0, 0}, as, bs, cs)
	if !approxEqual(d, 4.0, 1e-9) {
		t.Fatalf("expected d(100)=4.0 for a cubic cell with a=4, got %v", d)
	}
}

func TestDSpacingCubic111(t *testing.T) {
	a, b, c := DirectLatticeVectors([3]float64{4.0, 4.0, 4.0}, [3]float64{90, 90, 90})
	as, bs, cs := ReciprocalLatticeVectors(a, b, c)
	d := DSpacing([3]int{1, 1, 1}, as, bs, cs)
	want := 4.0 / math.Sqrt(3)
	if !approxEqual(d, want, 1e-9) {
		t.Fatalf("expected d(111)=a/sqrt(3)=%v, got %v", want, d)
	}
}

func TestReciprocalVectorFMatchesIntegerCase(t *testing.T) {
	a, b, c := DirectLatticeVectors([3]float64{4.0, 5.0, 6.0}, [3]float64{90, 95, 90})
	as, bs, cs := ReciprocalLatticeVectors(a, b, c)
	intForm := ReciprocalVector([3]int{1, 2, -1}, as, bs, cs)
	floatForm := ReciprocalVectorF([3]float64{1.0, 2.0, -1.0}, as, bs, cs)
	if !approxEqual(r3.Norm(r3.Sub(intForm, floatForm)), 0, 1e-9) {
		t.Fatalf("expected ReciprocalVectorF to match ReciprocalVector at integer coordinates: %v vs %v", intForm, floatForm)
	}
}

func TestCellVolumeCubic(t *testing.T) {
	v := CellVolume([3]float64{2.0, 2.0, 2.0}, [3]float64{90, 90, 90})
	if !approxEqual(v, 8.0, 1e-9) {
		t.Fatalf("expected cubic cell volume 8.0, got %v", v)
	}
}
