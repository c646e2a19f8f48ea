// Package stdncmat is the NCMAT-backed named factory (spec.md §4.4's
// example "stdncmat, stdnxs, ..."): it resolves a MatCfg's data source
// to text, parses it with ncmat, builds an Info with the root package's
// builder, and then builds the coherent-elastic/incoherent-elastic/
// inelastic Process tree from that Info, dispatching on the single-
// crystal and layered-crystal cfg parameters.
package stdncmat

import (
	"github.com/vmishra-uu/ncrystal/factory"
	"github.com/vmishra-uu/ncrystal/matcfg"
)

// name identifies this factory for infofactory=/scatfactory=/
// absnfactory= pinning and for Registry dispatch reporting.
const name = "stdncmat"

// Factory implements factory.InfoFactory, factory.ScatterFactory and
// factory.AbsorptionFactory against NCMAT-format data.
type Factory struct{}

// Name returns "stdncmat".
func (Factory) Name() string { return name }

// Rank reports how well this factory can handle cfg: a source whose
// name (with anything after a ';' dropped) ends in ".ncmat" ranks
// highest, a registered in-memory name ranks next, and any other source
// still gets a low nonzero rank, since NCMAT is this repository's only
// built-in format.
func (Factory) Rank(cfg *matcfg.Cfg) uint {
	return rankForSource(cfg.DataFileSpec())
}

// RegisterWith registers a Factory for all three roles on reg, the
// normal way a program wires stdncmat into its factory.Registry.
func RegisterWith(reg *factory.Registry) {
	f := Factory{}
	reg.RegisterInfoFactory(f)
	reg.RegisterScatterFactory(f)
	reg.RegisterAbsorptionFactory(f)
}
