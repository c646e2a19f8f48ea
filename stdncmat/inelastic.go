package stdncmat

import (
	"github.com/vmishra-uu/ncrystal"
	"github.com/vmishra-uu/ncrystal/physics"
	"github.com/vmishra-uu/ncrystal/sab"
	"github.com/vmishra-uu/ncrystal/vdos"
)

const (
	// boltzmannEV is the Boltzmann constant in eV/K, matching the
	// convention vdos.Grid and the physics package's free-gas/S(a,b)
	// processes use.
	boltzmannEV = 8.617333e-5

	// defaultInelasticEmaxEV bounds the energy domain advertised by a
	// VDOS/VDOS-Debye-derived S(alpha,beta) kernel. Nothing in the
	// retrieved material gives a numeric default for this; 5 eV is a
	// from-the-physics choice comfortably above the thermal/epithermal
	// range (meV to a few eV) this module's transport use cases scan,
	// while still excluding energies far enough into the fast-neutron
	// regime that a one-phonon-based multi-phonon expansion would no
	// longer be a trustworthy approximation.
	defaultInelasticEmaxEV = 5.0
)

// gridPointCount scales the alpha/beta table density with vdoslux, the
// same knob vdos.Regularize uses for the source spectrum's resampling.
func gridPointCount(vdoslux int) int {
	n := 60 + 40*vdoslux
	if n < 20 {
		n = 20
	}
	return n
}

// defaultAlphaBetaGrids builds the (alpha,beta) table vdos.ExpandToSAB
// evaluates onto: beta symmetric out to the kinematic edge implied by
// emaxEV at temperature, alpha out to four times that reach (enough
// head-room for the multi-phonon terms ExpandToSAB sums to stay within
// the table before CrossSectionIsotropic's active-region integral would
// otherwise need to extrapolate past it).
func defaultAlphaBetaGrids(emaxEV, temperature float64, vdoslux int) (alpha, beta []float64) {
	kT := boltzmannEV * temperature
	betaMax := emaxEV / kT
	n := gridPointCount(vdoslux)

	beta = make([]float64, 2*n+1)
	for i := range beta {
		beta[i] = -betaMax + float64(i)*(2*betaMax)/float64(2*n)
	}

	alphaMax := 4 * betaMax
	alpha = make([]float64, n)
	for i := range alpha {
		alpha[i] = alphaMax * float64(i+1) / float64(n)
	}
	return alpha, beta
}

// isSterileInelas reports whether cfg's inelas= parameter disables
// inelastic scattering entirely (spec.md §4.3: "none normalizes all of
// none/0/sterile/false").
func isSterileInelas(mode string) bool {
	switch mode {
	case "none", "0", "sterile", "false":
		return true
	}
	return false
}

// buildInelasticComponents turns every DynamicInfo on info into its
// corresponding physics.Process (spec.md §4.6/§4.7), skipping entirely
// when cfg's inelas= disables it.
func buildInelasticComponents(inelasMode string, vdoslux int, info *ncrystal.Info) ([]physics.Process, error) {
	if isSterileInelas(inelasMode) {
		return nil, nil
	}
	var procs []physics.Process
	for _, d := range info.DynInfos {
		common := d.Common()
		at, ok := info.SeekAtomByIndex(common.AtomIndex)
		if !ok {
			continue
		}
		proc, err := buildOneInelastic(d, common, at, vdoslux)
		if err != nil {
			return nil, err
		}
		if proc != nil {
			procs = append(procs, proc)
		}
	}
	return procs, nil
}

func buildOneInelastic(d ncrystal.DynamicInfo, common ncrystal.DynamicInfoCommon, at *ncrystal.AtomInfo, vdoslux int) (physics.Process, error) {
	switch v := d.(type) {
	case ncrystal.Sterile:
		return &physics.Sterile{}, nil
	case ncrystal.FreeGas:
		return &physics.FreeGas{
			BoundXS:        common.Fraction * at.Data.ScatteringXS(),
			ElementMassAMU: at.Data.MolarMass,
			TemperatureK:   common.Temperature,
		}, nil
	case ncrystal.ScatKnlDirect:
		return &physics.SKernel{
			Data:           v.Data,
			BoundXS:        common.Fraction * v.Data.BoundXS,
			ElementMassAMU: at.Data.MolarMass,
		}, nil
	case ncrystal.VDOSDebye:
		grid, err := vdos.DebyeSpectrum(v.DebyeTemperature, vdoslux)
		if err != nil {
			return nil, ncrystal.NewCalcError("vdosdebye for atom %d: %v", common.AtomIndex, err)
		}
		return expandVDOSGrid(grid, common, at, vdoslux)
	case ncrystal.VDOS:
		grid, err := vdos.Regularize(&vdos.Grid{EGrid: v.EGrid, Density: v.Density}, vdoslux)
		if err != nil {
			return nil, ncrystal.NewCalcError("vdos for atom %d: %v", common.AtomIndex, err)
		}
		return expandVDOSGrid(grid, common, at, vdoslux)
	default:
		return nil, ncrystal.NewLogicError("unrecognized dynamic info variant for atom %d", common.AtomIndex)
	}
}

// expandVDOSGrid turns a regularized phonon spectrum into a SKernel
// process, fraction-weighting the macroscopic bound cross section the
// same way buildOneInelastic's FreeGas/ScatKnlDirect branches do.
func expandVDOSGrid(grid *vdos.Grid, common ncrystal.DynamicInfoCommon, at *ncrystal.AtomInfo, vdoslux int) (*physics.SKernel, error) {
	emax := grid.EGrid[len(grid.EGrid)-1]
	alpha, beta := defaultAlphaBetaGrids(emax, common.Temperature, vdoslux)
	raw, err := vdos.ExpandToSAB(grid, common.Temperature, at.Data.MolarMass, alpha, beta, vdoslux)
	if err != nil {
		return nil, ncrystal.NewCalcError("%v", err)
	}
	raw.BoundXS = at.Data.ScatteringXS()
	raw.SuggestedEmax = defaultInelasticEmaxEV
	data, err := sab.Normalize(*raw)
	if err != nil {
		return nil, ncrystal.NewCalcError("%v", err)
	}
	return &physics.SKernel{
		Data:           data,
		BoundXS:        common.Fraction * data.BoundXS,
		ElementMassAMU: at.Data.MolarMass,
	}, nil
}
