package stdncmat

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/vmishra-uu/ncrystal"
	"github.com/vmishra-uu/ncrystal/matcfg"
	"github.com/vmishra-uu/ncrystal/physics"
)

// RankScatter accepts any Info this factory itself could have built:
// one carrying at least a composition, which every successful BuildInfo
// call populates.
func (Factory) RankScatter(_ *matcfg.Cfg, info *ncrystal.Info) uint {
	if info == nil || len(info.Composition) == 0 {
		return 0
	}
	return 100
}

// BuildScatter assembles the scattering Process tree for info under
// cfg (spec.md §4.6/§4.7): coherent-elastic (powder/single-crystal/
// layered-crystal, per cfg.IsSingleCrystal/IsLayeredCrystal), the
// composition-weighted incoherent-elastic term, and one inelastic
// component per DynamicInfo, combined with physics.Composite.
func (Factory) BuildScatter(cfg *matcfg.Cfg, info *ncrystal.Info) (physics.Process, error) {
	var components []physics.Process

	if cfg.CohElas() {
		coh, err := buildCoherentElastic(cfg, info)
		if err != nil {
			return nil, err
		}
		if coh != nil {
			components = append(components, coh)
		}
	}

	if cfg.IncohElas() {
		if ie := buildIncoherentElastic(info); ie != nil {
			components = append(components, ie)
		}
	}

	inel, err := buildInelasticComponents(cfg.Inelas(), cfg.Vdoslux(), info)
	if err != nil {
		return nil, err
	}
	components = append(components, inel...)

	switch len(components) {
	case 0:
		return &physics.Sterile{}, nil
	case 1:
		return components[0], nil
	default:
		return &physics.Composite{Components: components}, nil
	}
}

// buildCoherentElastic builds the Bragg-diffraction process: PCBragg
// for a powder, SCBragg for a single crystal, LCBragg for a layered
// crystal (lcaxis set). Returns (nil, nil) when there is no structure
// or no HKL list to diffract off of.
func buildCoherentElastic(cfg *matcfg.Cfg, info *ncrystal.Info) (physics.Process, error) {
	if info.Structure == nil || len(info.HKLs) == 0 {
		return nil, nil
	}
	cellVolume, natoms := info.Structure.Volume, info.Structure.AtomsPerCell

	if cfg.IsLayeredCrystal() {
		if !cfg.IsSingleCrystal() {
			return nil, ncrystal.NewCfgError("lcaxis", "layered-crystal cfg (lcaxis set) also requires mos/dir1/dir2")
		}
		lat := newCrystalLattice(info.Structure)
		mosaicity, _ := cfg.Mos()
		mosaic := physics.NewGaussMosaic(mosaicity, true, cfg.Mosprec())
		toLab, err := resolveToLab(cfg, lat)
		if err != nil {
			return nil, err
		}
		lcaxisRaw, _ := cfg.Lcaxis()
		lcAxis := lat.toDirectUnit(lcaxisRaw)
		return physics.NewLCBragg(info.HKLs, cellVolume, natoms, mosaic, toLab, lcAxis, cfg.Sccutoff(), cfg.Lcmode()), nil
	}

	if cfg.IsSingleCrystal() {
		lat := newCrystalLattice(info.Structure)
		mosaicity, _ := cfg.Mos()
		mosaic := physics.NewGaussMosaic(mosaicity, true, cfg.Mosprec())
		toLab, err := resolveToLab(cfg, lat)
		if err != nil {
			return nil, err
		}
		return physics.NewSCBragg(info.HKLs, cellVolume, natoms, mosaic, toLab, cfg.Sccutoff()), nil
	}

	return physics.NewPCBragg(info.HKLs, cellVolume), nil
}

// buildIncoherentElastic builds the composition-weighted incoherent-
// elastic process from every atom carrying both an incoherent cross
// section and an MSD. Returns nil when no atom qualifies.
func buildIncoherentElastic(info *ncrystal.Info) physics.Process {
	fracByIdx := make(map[ncrystal.AtomIndex]float64, len(info.Composition))
	for _, c := range info.Composition {
		fracByIdx[c.AtomIndex] = c.Fraction
	}
	var components []physics.IncoherentElasticComponent
	for _, at := range info.AtomInfos {
		if at.Data.IncoherentXS <= 0 || at.MSD <= 0 {
			continue
		}
		components = append(components, physics.IncoherentElasticComponent{
			WeightedXS: fracByIdx[at.Index] * at.Data.IncoherentXS,
			MSD:        at.MSD,
		})
	}
	if len(components) == 0 {
		return nil
	}
	return &physics.IncoherentElastic{Components: components}
}

// toDirectUnit resolves a plain crystal-frame (lattice-vector
// coordinate) direction to a unit vector in the Cartesian frame
// DirectLatticeVectors uses, as MatCfg's lcaxis= parameter requires.
func (l crystalLattice) toDirectUnit(v [3]float64) r3.Vec {
	d := ncrystal.DirectVector(v, l.a, l.b, l.c)
	n := r3.Norm(d)
	if n == 0 {
		return d
	}
	return r3.Scale(1/n, d)
}
