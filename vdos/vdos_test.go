package vdos

import (
	"math"
	"testing"

	"github.com/vmishra-uu/ncrystal/sab"
)

func debyeLikeGrid(t *testing.T) *Grid {
	t.Helper()
	n := 40
	emax := 30.0 // eV
	egrid := make([]float64, n)
	density := make([]float64, n)
	for i := range egrid {
		e := emax * float64(i+1) / float64(n)
		egrid[i] = e
		density[i] = e * e // quadratic Debye-like shape
	}
	g, err := FromSpec(egrid, density)
	if err != nil {
		t.Fatalf("FromSpec: %v", err)
	}
	return g
}

func TestFromSpecExpandsTwoPointForm(t *testing.T) {
	density := make([]float64, 10)
	for i := range density {
		density[i] = 1.0
	}
	g, err := FromSpec([]float64{0, 10}, density)
	if err != nil {
		t.Fatalf("FromSpec: %v", err)
	}
	if len(g.EGrid) != 10 {
		t.Fatalf("expected expanded egrid length 10, got %d", len(g.EGrid))
	}
	if g.EGrid[0] != 0 || g.EGrid[9] != 10 {
		t.Fatalf("unexpected egrid bounds: %v", g.EGrid)
	}
}

func TestRegularizeNormalizesIntegral(t *testing.T) {
	g := debyeLikeGrid(t)
	reg, err := Regularize(g, 2)
	if err != nil {
		t.Fatalf("Regularize: %v", err)
	}
	integral := trapz(reg.EGrid, reg.Density)
	if math.Abs(integral-1.0) > 1e-6 {
		t.Fatalf("expected normalized integral ~1, got %v", integral)
	}
	if reg.EGrid[0] <= 0 {
		t.Fatalf("expected regularized grid to start strictly above zero")
	}
}

func TestRegularizeRejectsBadLux(t *testing.T) {
	g := debyeLikeGrid(t)
	if _, err := Regularize(g, 6); err == nil {
		t.Fatalf("expected error for vdoslux out of [0,5]")
	}
}

func TestExpandToSABSatisfiesDetailedBalance(t *testing.T) {
	g := debyeLikeGrid(t)
	reg, err := Regularize(g, 1)
	if err != nil {
		t.Fatalf("Regularize: %v", err)
	}
	alpha := []float64{0.5, 1.0, 2.0}
	beta := []float64{-3, -1, 0, 1, 3}
	raw, err := ExpandToSAB(reg, 300.0, 27.0, alpha, beta, 1)
	if err != nil {
		t.Fatalf("ExpandToSAB: %v", err)
	}
	if raw.Format != sab.ScaledSAB {
		t.Fatalf("expected ScaledSAB format, got %v", raw.Format)
	}
	na := len(alpha)
	// scaled kernel must be symmetric in beta: S_scaled(a,b) == S_scaled(a,-b)
	for ia := range alpha {
		vNeg := raw.S[0*na+ia] // beta=-3
		vPos := raw.S[4*na+ia] // beta=3
		if math.Abs(vNeg-vPos) > 1e-9*math.Max(1, math.Abs(vNeg)) {
			t.Fatalf("expected scaled kernel symmetric in beta, got %v vs %v", vNeg, vPos)
		}
	}
}

func TestDebyeTemperatureMSDIncreasesWithTemperature(t *testing.T) {
	low, err := DebyeTemperatureMSD(400.0, 27.0, 50.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	high, err := DebyeTemperatureMSD(400.0, 27.0, 500.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !(high > low) {
		t.Fatalf("expected MSD to increase with temperature: low=%v high=%v", low, high)
	}
	if low <= 0 {
		t.Fatalf("expected positive zero-point MSD, got %v", low)
	}
}

func TestDebyeTemperatureMSDRejectsNonPositiveParams(t *testing.T) {
	if _, err := DebyeTemperatureMSD(0, 27.0, 300.0); err == nil {
		t.Fatalf("expected error for zero debye temperature")
	}
	if _, err := DebyeTemperatureMSD(400.0, -1.0, 300.0); err == nil {
		t.Fatalf("expected error for negative mass")
	}
}
