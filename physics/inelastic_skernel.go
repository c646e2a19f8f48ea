package physics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/vmishra-uu/ncrystal/sab"
)

// SKernel is the explicit S(alpha,beta)-kernel inelastic process
// (spec.md §4.7): cross section from the SAB engine's active-range
// integral times the bound cross section, and sampling by drawing a
// beta cell then an alpha value by inverse-CDF on the active region.
type SKernel struct {
	Data           *sab.SABData
	BoundXS        float64 // barn
	ElementMassAMU float64
}

func (p *SKernel) kT() float64 { return boltzmannEVPerK * p.Data.Temperature }

func (p *SKernel) Domain() (float64, float64) { return 0, p.Data.SuggestedEmax }

func (p *SKernel) CrossSectionIsotropic(energyEV float64) (float64, error) {
	if energyEV <= 0 {
		return 0, nil
	}
	kT := p.kT()
	cells, ibetaLow := sab.ActiveCells(p.Data, energyEV/kT)
	integral := p.integrateActiveRegion(cells, ibetaLow)
	// sigma(E) = sigma_b * (kT/4E) * integral S(alpha,beta) dalpha dbeta
	// over the kinematically active region — the standard relation
	// between the double-differential S(alpha,beta) kernel and the
	// total cross section (spec.md §4.7).
	return p.BoundXS * kT / (4 * energyEV) * integral, nil
}

func (p *SKernel) CrossSectionOriented(_ r3.Vec, energyEV float64) (float64, error) {
	return p.CrossSectionIsotropic(energyEV)
}

// integrateActiveRegion double-integrates S over the active cells via
// the trapezoid rule in both alpha and beta.
func (p *SKernel) integrateActiveRegion(cells []sab.AlphaRange, ibetaLow int) float64 {
	alpha, beta := p.Data.AlphaGrid, p.Data.BetaGrid
	total := 0.0
	for i, cell := range cells {
		if cell.Empty() {
			continue
		}
		ib := ibetaLow + i
		if ib+1 >= len(beta) {
			continue
		}
		dBeta := beta[ib+1] - beta[ib]
		row := 0.0
		for ia := cell.Low; ia+1 < cell.Upp; ia++ {
			dAlpha := alpha[ia+1] - alpha[ia]
			avgLo := 0.5 * (p.Data.AtIdx(ia, ib) + p.Data.AtIdx(ia+1, ib))
			avgUp := 0.5 * (p.Data.AtIdx(ia, ib+1) + p.Data.AtIdx(ia+1, ib+1))
			row += dAlpha * 0.5 * (avgLo + avgUp)
		}
		total += row * dBeta
	}
	return total
}

func (p *SKernel) SampleScatter(dir r3.Vec, energyEV float64, rng RNG) (r3.Vec, float64, error) {
	kT := p.kT()
	alpha, beta := p.Data.AlphaGrid, p.Data.BetaGrid
	cells, ibetaLow := sab.ActiveCells(p.Data, energyEV/kT)

	weights := make([]float64, len(cells))
	total := 0.0
	for i, cell := range cells {
		if cell.Empty() {
			continue
		}
		ib := ibetaLow + i
		if ib+1 >= len(beta) {
			continue
		}
		w := 0.0
		for ia := cell.Low; ia+1 < cell.Upp; ia++ {
			dAlpha := alpha[ia+1] - alpha[ia]
			avg := 0.25 * (p.Data.AtIdx(ia, ib) + p.Data.AtIdx(ia+1, ib) + p.Data.AtIdx(ia, ib+1) + p.Data.AtIdx(ia+1, ib+1))
			w += dAlpha * avg
		}
		w *= beta[ib+1] - beta[ib]
		weights[i] = w
		total += w
	}
	if total <= 0 {
		return dir, energyEV, fmt.Errorf("physics: no accessible scattering at this energy")
	}

	u := rng.Float64() * total
	acc, chosen := 0.0, len(weights)-1
	for i, w := range weights {
		acc += w
		if u <= acc {
			chosen = i
			break
		}
	}
	cell := cells[chosen]
	ib := ibetaLow + chosen
	betaSample := beta[ib] + (beta[ib+1]-beta[ib])*rng.Float64()

	rowFull := make([]float64, len(alpha))
	for ia := cell.Low; ia < cell.Upp; ia++ {
		rowFull[ia] = p.Data.AtIdx(ia, ib)
	}
	var alphaSample float64
	if tb, err := sab.CreateTailedBreakdown(alpha, rowFull, cell.Low, cell.Upp); err == nil {
		alphaSample = tb.SampleAlpha(alpha, rng.Float64())
	} else {
		// Narrow region (spec.md §4.5): integrate front-to-back
		// directly by drawing uniformly across the single span.
		alphaSample = alpha[cell.Low] + (alpha[cell.Upp-1]-alpha[cell.Low])*rng.Float64()
	}

	outEnergy := energyEV + betaSample*kT
	if outEnergy <= 0 {
		outEnergy = 1e-6
	}
	A := p.ElementMassAMU / neutronMassAMU
	mu := (energyEV + outEnergy - alphaSample*A*kT) / (2 * math.Sqrt(energyEV*outEnergy))
	mu = clamp(mu, -1, 1)

	axis := orthogonalTo(dir)
	azimuth := 2 * math.Pi * rng.Float64()
	spunAxis := rotateAboutAxis(axis, dir, azimuth)
	outDir := rotateAboutAxis(dir, spunAxis, math.Acos(mu))
	return outDir, outEnergy, nil
}
