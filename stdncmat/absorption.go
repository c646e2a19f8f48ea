package stdncmat

import (
	"github.com/vmishra-uu/ncrystal"
	"github.com/vmishra-uu/ncrystal/matcfg"
	"github.com/vmishra-uu/ncrystal/physics"
)

// RankAbsorption accepts any Info this factory itself could have built,
// i.e. any Info carrying a nonzero AbsorptionXS summary.
func (Factory) RankAbsorption(_ *matcfg.Cfg, info *ncrystal.Info) uint {
	if info == nil || info.AbsorptionXS <= 0 {
		return 0
	}
	return 100
}

// BuildAbsorption builds the composition-weighted 1/v capture process
// (spec.md §3, §4.6) from Info's precomputed AbsorptionXS summary.
func (Factory) BuildAbsorption(_ *matcfg.Cfg, info *ncrystal.Info) (physics.Process, error) {
	if info.AbsorptionXS <= 0 {
		return nil, ncrystal.NewMissingInfo("material has no absorption cross section")
	}
	return &physics.Absorption{XS2200: info.AbsorptionXS}, nil
}
