package stdncmat

import (
	"github.com/vmishra-uu/ncrystal"
	"github.com/vmishra-uu/ncrystal/matcfg"
	"github.com/vmishra-uu/ncrystal/ncmat"
)

// BuildInfo resolves cfg's data-file-spec to text, parses it, merges
// any embedded NCRYSTALMATCFG[...] comment (spec.md §4.1/§4.3), and
// hands the result to the root package's builder.
func (Factory) BuildInfo(cfg *matcfg.Cfg) (*ncrystal.Info, error) {
	src, err := openSource(cfg.DataFileSpec())
	if err != nil {
		return nil, ncrystal.NewFileNotFound(cfg.DataFileSpec())
	}
	data, err := ncmat.Parse(src)
	if err != nil {
		return nil, ncrystal.NewDataLoadError(err, "failed to parse %s", cfg.DataFileSpec())
	}
	effective, err := cfg.WithEmbeddedCfg(data.EmbeddedCfg)
	if err != nil {
		return nil, ncrystal.NewCfgError("", "%s: %v", cfg.DataFileSpec(), err)
	}
	return ncrystal.BuildInfo(data, effective)
}
