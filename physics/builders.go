package physics

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/vmishra-uu/ncrystal"
)

// splitByCutoff partitions hkls into those with d-spacing at or above
// sccutoff (treated as individually-oriented planes) and those below it
// (folded into an isotropic PCBragg fallback), per spec.md §4.3's
// sccutoff parameter ("below this d-spacing, SC falls back to
// isotropic").
func splitByCutoff(hkls []ncrystal.HKLInfo, sccutoff float64) (above []ncrystal.HKLInfo, below []ncrystal.HKLInfo) {
	for _, h := range hkls {
		if h.DSpacing < sccutoff || len(h.DemiNormals) == 0 {
			below = append(below, h)
		} else {
			above = append(above, h)
		}
	}
	return above, below
}

// planesFromHKL expands each HKLInfo's demi-normals into individual
// scPlane entries. Each demi-normal is one specific, resolvable
// orientation (the antipodal partner is handled by minAngularDeviation
// checking both signs), so it carries a multiplicity of 1 here — the
// family's full multiplicity (2*len(DemiNormals)) only matters for the
// orientation-blind PCBragg process.
func planesFromHKL(hkls []ncrystal.HKLInfo) []scPlane {
	var planes []scPlane
	for _, h := range hkls {
		for _, n := range h.DemiNormals {
			planes = append(planes, scPlane{
				dSpacing:      h.DSpacing,
				fSquared:      h.FSquared,
				multiplicity:  1,
				normalCrystal: toVec(n),
			})
		}
	}
	return planes
}

// NewSCBragg builds a SCBragg process from an Info's HKL list, splitting
// off planes below sccutoff into an isotropic PCBragg fallback (spec.md
// §4.6, §4.3).
func NewSCBragg(hkls []ncrystal.HKLInfo, cellVolume float64, natoms int, mosaic *GaussMosaic, toLab func(r3.Vec) r3.Vec, sccutoff float64) *SCBragg {
	above, below := splitByCutoff(hkls, sccutoff)
	var fallback *PCBragg
	if len(below) > 0 {
		fallback = NewPCBragg(below, cellVolume)
	}
	return &SCBragg{
		CellVolume: cellVolume,
		NAtoms:     natoms,
		Mosaic:     mosaic,
		ToLab:      toLab,
		SCCutoff:   sccutoff,
		Planes:     planesFromHKL(above),
		Fallback:   fallback,
	}
}

// NewLCBragg builds a LCBragg process, analogous to NewSCBragg but
// averaging each plane's reflectivity over a rotation about lcAxisCrystal
// (spec.md §4.3's lcaxis/lcmode parameters).
func NewLCBragg(hkls []ncrystal.HKLInfo, cellVolume float64, natoms int, mosaic *GaussMosaic, toLab func(r3.Vec) r3.Vec, lcAxisCrystal r3.Vec, sccutoff float64, lcmode int) *LCBragg {
	above, below := splitByCutoff(hkls, sccutoff)
	var fallback *PCBragg
	if len(below) > 0 {
		fallback = NewPCBragg(below, cellVolume)
	}
	return &LCBragg{
		CellVolume:    cellVolume,
		NAtoms:        natoms,
		Mosaic:        mosaic,
		ToLab:         toLab,
		LCAxisCrystal: lcAxisCrystal,
		SCCutoff:      sccutoff,
		Planes:        planesFromHKL(above),
		Fallback:      fallback,
		LCMode:        lcmode,
	}
}
