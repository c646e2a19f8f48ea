package physics

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ctessum/sparse"
	"github.com/vmishra-uu/ncrystal/sab"
)

func approxEqual(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestGaussMosaicProfileNormalizes(t *testing.T) {
	gm := NewGaussMosaic(0.01, false, 1e-3)
	// Integrate the profile numerically over its truncated support; it
	// should come out close to 1.
	const n = 4000
	step := 2 * gm.TruncAngle / float64(n)
	total := 0.0
	for i := 0; i < n; i++ {
		x := -gm.TruncAngle + step*float64(i)
		total += gm.Profile(x) * step
	}
	if !approxEqual(total, 1.0, 1e-2) {
		t.Fatalf("mosaic profile integral = %g, want ~1", total)
	}
}

func TestGaussMosaicProfileZeroBeyondTruncation(t *testing.T) {
	gm := NewGaussMosaic(0.01, false, 1e-3)
	if gm.Profile(gm.TruncAngle*2) != 0 {
		t.Fatalf("profile should vanish beyond TruncAngle")
	}
}

func TestPCBraggCrossSectionVanishesBelowThreshold(t *testing.T) {
	hkls := []testHKL{{dSpacing: 2.0, fSquared: 1.0, multiplicity: 6}}
	pc := newTestPCBragg(hkls, 100.0)
	xs, err := pc.CrossSectionIsotropic(1e-6) // huge wavelength, no plane reachable
	if err != nil {
		t.Fatal(err)
	}
	if xs != 0 {
		t.Fatalf("expected zero cross section below the Bragg edge, got %g", xs)
	}
}

func TestPCBraggNonzeroAtThermalEnergy(t *testing.T) {
	// A thermal neutron (~25 meV, 0.025 eV) has a wavelength around 1.8
	// Aa; an aluminum-scale d-spacing of 2.0 Aa should still be Bragg-
	// active at that wavelength (2d=4.0 >= lambda), so the cross section
	// must not collapse to zero the way it would if the energy<->
	// wavelength constant were mistakenly in meV units.
	hkls := []testHKL{{dSpacing: 2.0, fSquared: 1.0, multiplicity: 6}}
	pc := newTestPCBragg(hkls, 100.0)
	xs, err := pc.CrossSectionIsotropic(0.025)
	if err != nil {
		t.Fatal(err)
	}
	if xs <= 0 {
		t.Fatalf("expected nonzero cross section at thermal energy, got %g", xs)
	}
}

func TestIncoherentElasticSuppressesWithMSD(t *testing.T) {
	low := IncoherentElastic{Components: []IncoherentElasticComponent{{WeightedXS: 1.0, MSD: 0.001}}}
	high := IncoherentElastic{Components: []IncoherentElasticComponent{{WeightedXS: 1.0, MSD: 0.1}}}
	e := 0.025
	xsLow, err := low.CrossSectionIsotropic(e)
	if err != nil {
		t.Fatal(err)
	}
	xsHigh, err := high.CrossSectionIsotropic(e)
	if err != nil {
		t.Fatal(err)
	}
	if xsHigh >= xsLow {
		t.Fatalf("larger MSD should suppress the cross section more: low=%g high=%g", xsLow, xsHigh)
	}
}

func TestFreeGasCrossSectionDecreasesTowardBoundXSWithEnergy(t *testing.T) {
	g := &FreeGas{BoundXS: 4.0, ElementMassAMU: 27.0, TemperatureK: 293.0}
	xsLow, err := g.CrossSectionIsotropic(1e-4) // eV, near thermal
	if err != nil {
		t.Fatal(err)
	}
	xsHigh, err := g.CrossSectionIsotropic(10.0) // eV, far above kT
	if err != nil {
		t.Fatal(err)
	}
	if xsHigh >= xsLow {
		t.Fatalf("free-gas cross section should fall off with energy: xsLow=%g xsHigh=%g", xsLow, xsHigh)
	}
	if xsHigh <= 0 || xsHigh > g.BoundXS {
		t.Fatalf("high-energy free-gas cross section %g should be a finite fraction of BoundXS=%g", xsHigh, g.BoundXS)
	}
}

func TestFreeGasSampleScatterConservesEnergyMagnitudeOrder(t *testing.T) {
	g := &FreeGas{BoundXS: 4.0, ElementMassAMU: 27.0, TemperatureK: 293.0}
	rng := rand.New(rand.NewSource(1))
	dir := r3.Vec{X: 0, Y: 0, Z: 1}
	outDir, outE, err := g.SampleScatter(dir, 0.025, rng)
	if err != nil {
		t.Fatal(err)
	}
	if outE <= 0 {
		t.Fatalf("outgoing energy must be positive, got %g", outE)
	}
	if n := r3.Norm(outDir); !approxEqual(n, 1.0, 1e-9) {
		t.Fatalf("outgoing direction must be a unit vector, got norm %g", n)
	}
}

func TestStrerileHasZeroCrossSection(t *testing.T) {
	s := &Sterile{}
	xs, err := s.CrossSectionIsotropic(1.0)
	if err != nil {
		t.Fatal(err)
	}
	if xs != 0 {
		t.Fatalf("sterile process must have zero cross section, got %g", xs)
	}
}

func TestCompositeSumsCrossSections(t *testing.T) {
	c := &Composite{Components: []Process{&Sterile{}, &FreeGas{BoundXS: 2.0, ElementMassAMU: 1.0, TemperatureK: 293}}}
	xs, err := c.CrossSectionIsotropic(0.025)
	if err != nil {
		t.Fatal(err)
	}
	expected, _ := c.Components[1].CrossSectionIsotropic(0.025)
	if !approxEqual(xs, expected, 1e-9) {
		t.Fatalf("composite cross section = %g, want %g", xs, expected)
	}
}

func TestCompositeSampleScatterRejectsEmpty(t *testing.T) {
	c := &Composite{}
	_, _, err := c.SampleScatter(r3.Vec{Z: 1}, 1.0, rand.New(rand.NewSource(1)))
	if err == nil {
		t.Fatal("expected an error sampling an empty composite")
	}
}

func TestOrientationRotationMapsPrimaryAxis(t *testing.T) {
	crys1 := r3.Vec{X: 1}
	crys2 := r3.Vec{Y: 1}
	lab1 := r3.Vec{Z: 1}
	lab2 := r3.Vec{X: 1}
	rot, err := OrientationRotation(crys1, lab1, crys2, lab2, 1e-3)
	if err != nil {
		t.Fatal(err)
	}
	out := rot(crys1)
	if !approxEqual(r3.Norm(r3.Sub(out, lab1)), 0, 1e-9) {
		t.Fatalf("rotate(crys1) = %v, want %v", out, lab1)
	}
}

func TestOrientationRotationRejectsParallelVectors(t *testing.T) {
	crys1 := r3.Vec{X: 1}
	crys2 := r3.Vec{X: 2}
	lab1 := r3.Vec{Z: 1}
	lab2 := r3.Vec{X: 1}
	_, err := OrientationRotation(crys1, lab1, crys2, lab2, 1e-3)
	if err == nil {
		t.Fatal("expected an error for parallel crystal-frame directions")
	}
}

func TestSKernelCrossSectionIsNonNegative(t *testing.T) {
	data := syntheticSABData()
	sk := &SKernel{Data: data, BoundXS: 4.0, ElementMassAMU: 27.0}
	for _, e := range []float64{0.001, 0.01, 0.025, 0.1, 1.0} {
		xs, err := sk.CrossSectionIsotropic(e)
		if err != nil {
			t.Fatal(err)
		}
		if xs < 0 {
			t.Fatalf("cross section must be >=0 at E=%g, got %g", e, xs)
		}
	}
}

func TestSKernelSampleScatterProducesFiniteOutgoingState(t *testing.T) {
	data := syntheticSABData()
	sk := &SKernel{Data: data, BoundXS: 4.0, ElementMassAMU: 27.0}
	rng := rand.New(rand.NewSource(7))
	dir := r3.Vec{X: 0, Y: 0, Z: 1}
	for i := 0; i < 20; i++ {
		outDir, outE, err := sk.SampleScatter(dir, 0.05, rng)
		if err != nil {
			t.Fatal(err)
		}
		if math.IsNaN(outE) || outE <= 0 {
			t.Fatalf("outgoing energy must be finite and positive, got %g", outE)
		}
		if n := r3.Norm(outDir); !approxEqual(n, 1.0, 1e-6) {
			t.Fatalf("outgoing direction must be a unit vector, got norm %g", n)
		}
	}
}

// syntheticSABData builds a small, smooth, detailed-balance-consistent
// S(alpha,beta) table for exercising SKernel without depending on the
// vdos/ncmat packages.
func syntheticSABData() *sab.SABData {
	alpha := []float64{0.01, 0.1, 0.5, 1, 2, 4, 8}
	beta := []float64{-4, -2, -1, -0.5, 0, 0.5, 1, 2, 4}
	s := make([]float64, len(alpha)*len(beta))
	for ib, b := range beta {
		for ia, a := range alpha {
			base := math.Exp(-a) * math.Exp(-0.5*b*b)
			if b < 0 {
				base *= math.Exp(b) // crude detailed-balance-like asymmetry
			}
			s[ib*len(alpha)+ia] = base
		}
	}
	dense := &sparse.DenseArray{Elements: s, Shape: []int{len(beta), len(alpha)}}
	dense.Fix()
	return &sab.SABData{
		AlphaGrid:     alpha,
		BetaGrid:      beta,
		S:             dense,
		Temperature:   293.0,
		BoundXS:       4.0,
		ElementMass:   27.0,
		SuggestedEmax: 5.0,
	}
}

// testHKL/newTestPCBragg/minimal ncrystal.HKLInfo stand-in so this test
// file does not need to import the root package.
type testHKL struct {
	dSpacing     float64
	fSquared     float64
	multiplicity int
}

func newTestPCBragg(hkls []testHKL, cellVolume float64) *PCBragg {
	planes := make([]plane, len(hkls))
	upTo := 0.0
	for i, h := range hkls {
		w := h.fSquared * float64(h.multiplicity)
		upTo += w
		planes[i] = plane{dSpacing: h.dSpacing, weight: w, cumulativeUp: upTo}
	}
	return &PCBragg{cellVolume: cellVolume, planes: planes}
}
