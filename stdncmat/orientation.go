package stdncmat

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/vmishra-uu/ncrystal"
	"github.com/vmishra-uu/ncrystal/matcfg"
	"github.com/vmishra-uu/ncrystal/physics"
)

// crystalLattice bundles the direct and reciprocal lattice vectors a
// single/layered-crystal orientation resolution needs, derived once per
// build from the Info's StructureInfo.
type crystalLattice struct {
	a, b, c    r3.Vec
	as, bs, cs r3.Vec
}

func newCrystalLattice(s *ncrystal.StructureInfo) crystalLattice {
	a, b, c := ncrystal.DirectLatticeVectors(s.LatticeLengths, s.LatticeAngles)
	as, bs, cs := ncrystal.ReciprocalLatticeVectors(a, b, c)
	return crystalLattice{a: a, b: b, c: c, as: as, bs: bs, cs: cs}
}

// toCrystalCartesian resolves a MatCfg Dir's crystal-frame endpoint
// (either a direct-lattice direction or an (h,k,l) reciprocal-lattice
// direction) into the same Cartesian frame DirectLatticeVectors uses.
func (l crystalLattice) toCrystalCartesian(d matcfg.Dir) r3.Vec {
	if d.CrystalIsHKL {
		return ncrystal.ReciprocalVectorF(d.Crystal, l.as, l.bs, l.cs)
	}
	return ncrystal.DirectVector(d.Crystal, l.a, l.b, l.c)
}

func labVec(v [3]float64) r3.Vec { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }

// resolveToLab builds the crystal-to-lab rotation a single- or
// layered-crystal Bragg process needs, from cfg's dir1/dir2 pair
// (spec.md §4.3). Callers only reach this after confirming cfg is
// single-crystal or layered-crystal (IsSingleCrystal/IsLayeredCrystal),
// so the missing-pair error below is a defensive check, not an expected
// path.
func resolveToLab(cfg *matcfg.Cfg, lat crystalLattice) (func(r3.Vec) r3.Vec, error) {
	dir1, ok1 := cfg.Dir1()
	dir2, ok2 := cfg.Dir2()
	if !ok1 || !ok2 {
		return nil, ncrystal.NewCfgError("dir1", "single/layered-crystal cfg requires both dir1 and dir2")
	}
	crys1, crys2 := lat.toCrystalCartesian(dir1), lat.toCrystalCartesian(dir2)
	lab1, lab2 := labVec(dir1.Lab), labVec(dir2.Lab)
	return physics.OrientationRotation(crys1, lab1, crys2, lab2, cfg.Dirtol())
}
