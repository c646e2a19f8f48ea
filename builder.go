package ncrystal

import (
	"math"
	"strings"

	"github.com/vmishra-uu/ncrystal/atomdb"
	"github.com/vmishra-uu/ncrystal/matcfg"
	"github.com/vmishra-uu/ncrystal/ncmat"
	"github.com/vmishra-uu/ncrystal/sab"
	"github.com/vmishra-uu/ncrystal/vdos"
)

// avogadroNumber converts between number density and mass density.
const avogadroNumber = 6.02214076e23

// defaultTemperatureK is applied when a cfg leaves temp unset (spec.md
// §4.3's temp default, "material-default or 293.15").
const defaultTemperatureK = 293.15

// BuildInfo turns a parsed NCMAT document and its resolved MatCfg into
// a sealed Info (spec.md §4.2). It does not depend on the physics
// package, so it cannot itself construct Process trees — a factory in
// a higher-level package (stdncmat) combines an Info built here with
// cfg to build PCBragg/SCBragg/.../Absorption processes.
func BuildInfo(data *ncmat.NCMATData, cfg *matcfg.Cfg) (*Info, error) {
	db, err := resolveAtomDB(data, cfg)
	if err != nil {
		return nil, NewBadInput(cfg.DataFileSpec(), 0, "%v", err)
	}

	var structure *StructureInfo
	if data.Cell != nil {
		structure = &StructureInfo{
			SpaceGroup:     data.SpaceGroup,
			LatticeLengths: data.Cell.Lengths,
			LatticeAngles:  data.Cell.Angles,
			AtomsPerCell:   len(data.AtomPositions),
		}
		if err := structure.Validate(); err != nil {
			return nil, err
		}
	}

	temperature := cfg.Temp()
	if temperature < 0 {
		temperature = defaultTemperatureK
	}

	atoms, idxByLabel, err := buildAtomInfos(data, db, temperature)
	if err != nil {
		return nil, err
	}

	info := NewInfo()
	if structure != nil {
		if err := info.SetStructure(structure); err != nil {
			return nil, err
		}
	}
	for _, a := range atoms {
		if err := info.AddAtomInfo(a); err != nil {
			return nil, err
		}
	}
	SortAtomInfoByZDescending(info.AtomInfos)
	info.Temperature = temperature

	if data.DebyeTemp != nil && data.DebyeTemp.Global > 0 {
		info.GlobalDebyeTemperature = data.DebyeTemp.Global
	}

	for _, d := range data.DynInfos {
		idx, ok := idxByLabel[d.Element]
		if !ok {
			return nil, NewBadInput(cfg.DataFileSpec(), 0, "@DYNINFO references unknown element %q", d.Element)
		}
		at, _ := info.SeekAtomByIndex(idx)
		dyn, err := buildDynInfo(d, idx, temperature, at)
		if err != nil {
			return nil, err
		}
		if err := info.AddDynInfo(dyn); err != nil {
			return nil, err
		}
	}

	info.Composition = buildComposition(atoms, info.DynInfos)
	info.FreeScatteringXS, info.AbsorptionXS = weightedFreeXS(atoms, info.Composition)

	if err := applyDensity(info, data.DensityInfo, structure, atoms, info.Composition, cfg.Packfact()); err != nil {
		return nil, err
	}

	if structure != nil && cfg.Dcutoff() >= 0 {
		hkls, err := buildHKLs(structure, info.AtomInfos, cfg.Dcutoff(), cfg.DcutoffUp())
		if err != nil {
			return nil, err
		}
		for _, h := range hkls {
			if err := info.AddHKL(h); err != nil {
				return nil, err
			}
		}
	}

	if len(data.CustomSection) > 0 {
		info.CustomSections = make(map[string][][]string, len(data.CustomSection))
		for name, lines := range data.CustomSection {
			words := make([][]string, len(lines))
			for i, line := range lines {
				words[i] = strings.Fields(line)
			}
			info.CustomSections[name] = words
		}
	}

	info.Seal()
	return info, nil
}

// resolveAtomDB layers the built-in table, the file's @ATOMDB section,
// and the cfg's atomdb= override, in that order (spec.md §4.2).
func resolveAtomDB(data *ncmat.NCMATData, cfg *matcfg.Cfg) (*atomdb.DB, error) {
	db := atomdb.NewDefault()
	if err := applyOverrideLines(&db, data.AtomDBLines); err != nil {
		return nil, err
	}
	if err := applyOverrideLines(&db, cfg.AtomDBLines()); err != nil {
		return nil, err
	}
	return db, nil
}

func applyOverrideLines(db **atomdb.DB, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	if first := strings.Fields(lines[0]); len(first) > 0 && strings.EqualFold(first[0], "nodefaults") {
		*db = atomdb.NewEmpty()
		lines = lines[1:]
	}
	return (*db).ApplyLines(lines)
}

type atomGroup struct {
	label     string
	positions [][3]float64
}

// wrapFrac reduces each coordinate modulo 1 into [0,1), tolerating
// source files that write e.g. -0.25 or 1.0 for a site NCrystal treats
// as equivalent to 0.75 or 0.0 respectively.
func wrapFrac(p [3]float64) [3]float64 {
	for i, x := range p {
		x = math.Mod(x, 1.0)
		if x < 0 {
			x += 1.0
		}
		p[i] = x
	}
	return p
}

// buildAtomInfos groups @ATOMPOSITIONS entries by element label (plus
// any element referenced only by @DYNINFO, for a composition-only
// material with no positions), resolves each label against db, and
// computes the Debye-model MSD where a Debye temperature and positions
// are both available (spec.md §4.2).
func buildAtomInfos(data *ncmat.NCMATData, db *atomdb.DB, temperature float64) ([]AtomInfo, map[string]AtomIndex, error) {
	var order []string
	groups := map[string]*atomGroup{}
	for _, p := range data.AtomPositions {
		g, ok := groups[p.ElementName]
		if !ok {
			g = &atomGroup{label: p.ElementName}
			groups[p.ElementName] = g
			order = append(order, p.ElementName)
		}
		g.positions = append(g.positions, wrapFrac(p.Frac))
	}
	for _, d := range data.DynInfos {
		if _, ok := groups[d.Element]; !ok {
			groups[d.Element] = &atomGroup{label: d.Element}
			order = append(order, d.Element)
		}
	}

	idxByLabel := make(map[string]AtomIndex, len(order))
	atoms := make([]AtomInfo, 0, len(order))
	for i, label := range order {
		g := groups[label]
		adata, err := db.MustLookup(label)
		if err != nil {
			return nil, nil, NewBadInput("", 0, "%v", err)
		}
		idx := AtomIndex(i)
		idxByLabel[label] = idx
		ai := AtomInfo{
			Index:        idx,
			Data:         adata,
			Multiplicity: len(g.positions),
		}
		if len(g.positions) > 0 {
			ai.FractionalPositions = g.positions
		}
		if debyeK, ok := debyeTemperatureFor(data.DebyeTemp, label); ok {
			ai.DebyeTemperature = debyeK
			if len(ai.FractionalPositions) > 0 {
				msd, err := vdos.DebyeTemperatureMSD(debyeK, adata.MolarMass, temperature)
				if err != nil {
					return nil, nil, NewCalcError("%v", err)
				}
				ai.MSD = msd
			}
		}
		atoms = append(atoms, ai)
	}
	return atoms, idxByLabel, nil
}

func debyeTemperatureFor(dt *ncmat.DebyeTemperature, label string) (float64, bool) {
	if dt == nil {
		return 0, false
	}
	if len(dt.PerElement) > 0 {
		v, ok := dt.PerElement[label]
		return v, ok
	}
	if dt.Global > 0 {
		return dt.Global, true
	}
	return 0, false
}

// buildComposition derives number fractions from atom multiplicities
// when positions are known; otherwise (a composition-only material) it
// falls back to each element's @DYNINFO fraction.
func buildComposition(atoms []AtomInfo, dynInfos []DynamicInfo) []CompositionEntry {
	total := 0
	for _, a := range atoms {
		total += a.Multiplicity
	}
	out := make([]CompositionEntry, 0, len(atoms))
	if total > 0 {
		for _, a := range atoms {
			out = append(out, CompositionEntry{AtomIndex: a.Index, Fraction: float64(a.Multiplicity) / float64(total)})
		}
		return out
	}
	frac := make(map[AtomIndex]float64, len(dynInfos))
	for _, d := range dynInfos {
		c := d.Common()
		frac[c.AtomIndex] = c.Fraction
	}
	for _, a := range atoms {
		out = append(out, CompositionEntry{AtomIndex: a.Index, Fraction: frac[a.Index]})
	}
	return out
}

// weightedAvgMolarMass returns the composition-weighted average molar
// mass (g/mol), for cross-deriving density <-> number density.
func weightedAvgMolarMass(atoms []AtomInfo, comp []CompositionEntry) float64 {
	byIdx := make(map[AtomIndex]*atomdb.Data, len(atoms))
	for i := range atoms {
		byIdx[atoms[i].Index] = atoms[i].Data
	}
	var m float64
	for _, c := range comp {
		if d, ok := byIdx[c.AtomIndex]; ok {
			m += c.Fraction * d.MolarMass
		}
	}
	return m
}

// weightedFreeXS returns the composition-weighted free-atom scattering
// cross section (coherent+incoherent bound XS, barn) and the
// composition-weighted 2200 m/s absorption cross section (barn), the
// two optional summary quantities spec.md §3 lists on Info.
func weightedFreeXS(atoms []AtomInfo, comp []CompositionEntry) (freeScatter, absorption float64) {
	byIdx := make(map[AtomIndex]*atomdb.Data, len(atoms))
	for i := range atoms {
		byIdx[atoms[i].Index] = atoms[i].Data
	}
	for _, c := range comp {
		d, ok := byIdx[c.AtomIndex]
		if !ok {
			continue
		}
		freeScatter += c.Fraction * d.ScatteringXS()
		absorption += c.Fraction * d.AbsorptionXS
	}
	return
}

// applyDensity cross-derives Density and NumberDensity (spec.md §4.2:
// "at least one of which must be present, the other derived"), then
// applies the cfg packfact scaling.
func applyDensity(info *Info, density *ncmat.Density, structure *StructureInfo, atoms []AtomInfo, comp []CompositionEntry, packfact float64) error {
	avgMolar := weightedAvgMolarMass(atoms, comp)
	switch {
	case density != nil:
		switch density.Unit {
		case ncmat.AtomsPerAa3:
			info.NumberDensity = density.Value
			if avgMolar > 0 {
				info.Density = info.NumberDensity * avgMolar / avogadroNumber * 1e24
			}
		case ncmat.GPerCM3:
			info.Density = density.Value
			if avgMolar > 0 {
				info.NumberDensity = info.Density * avogadroNumber / (avgMolar * 1e24)
			}
		case ncmat.KgPerM3:
			info.Density = density.Value / 1000.0
			if avgMolar > 0 {
				info.NumberDensity = info.Density * avogadroNumber / (avgMolar * 1e24)
			}
		}
	case structure != nil && structure.Volume > 0 && structure.AtomsPerCell > 0:
		info.NumberDensity = float64(structure.AtomsPerCell) / structure.Volume
		if avgMolar > 0 {
			info.Density = info.NumberDensity * avgMolar / avogadroNumber * 1e24
		}
	}
	if packfact != 1.0 {
		info.Density *= packfact
		info.NumberDensity *= packfact
	}
	return nil
}

// buildDynInfo turns one parsed @DYNINFO subsection into a DynamicInfo
// variant (spec.md §4.2). VDOS grids are regularized (shorthand
// [Emin,Emax] expanded) via vdos.FromSpec so downstream Process
// builders never need to re-detect the shorthand form; scatknl tables
// are normalized via sab.Normalize into the canonical SABData
// representation immediately, rather than carried as a RawKernel.
func buildDynInfo(d ncmat.DynInfo, idx AtomIndex, temperature float64, at *AtomInfo) (DynamicInfo, error) {
	common := DynamicInfoCommon{AtomIndex: idx, Fraction: d.Fraction, Temperature: temperature}
	switch d.Type {
	case ncmat.DynSterile:
		return Sterile{DynamicInfoCommon: common}, nil
	case ncmat.DynFreeGas:
		return FreeGas{DynamicInfoCommon: common}, nil
	case ncmat.DynVDOSDebye:
		if at == nil || at.DebyeTemperature <= 0 {
			return nil, NewMissingInfo("@DYNINFO type vdosdebye for %q requires a Debye temperature", d.Element)
		}
		return VDOSDebye{DynamicInfoCommon: common, DebyeTemperature: at.DebyeTemperature}, nil
	case ncmat.DynVDOS:
		grid, err := vdos.FromSpec(d.VDOSEgrid, d.VDOSDensity)
		if err != nil {
			return nil, NewBadInput("", 0, "@DYNINFO vdos for %q: %v", d.Element, err)
		}
		return VDOS{DynamicInfoCommon: common, EGrid: grid.EGrid, Density: grid.Density}, nil
	case ncmat.DynScatKnl:
		if at == nil {
			return nil, NewMissingInfo("@DYNINFO scatknl for %q: no matching atom", d.Element)
		}
		format := sab.SAB
		if d.SABScaled {
			format = sab.ScaledSAB
		}
		normalized, err := sab.Normalize(sab.RawKernel{
			Format:      format,
			AlphaGrid:   d.AlphaGrid,
			BetaGrid:    d.BetaGrid,
			S:           d.SAB,
			Temperature: temperature,
			BoundXS:     at.Data.ScatteringXS(),
			ElementMass: at.Data.MolarMass,
		})
		if err != nil {
			return nil, NewBadInput("", 0, "@DYNINFO scatknl for %q: %v", d.Element, err)
		}
		return ScatKnlDirect{DynamicInfoCommon: common, Data: normalized}, nil
	default:
		return nil, NewLogicError("unrecognized @DYNINFO type for %q", d.Element)
	}
}
