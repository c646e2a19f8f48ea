// Package factory implements the named-factory registry, rank-based
// dispatch, and the process-wide Info/Scatter/Absorption caches that sit
// on top of it (spec.md §4.4, §5). Every entry point a caller reaches
// for (create_info, create_scatter, create_absorption) goes through
// here, whether it ends up building fresh or returning a cached result.
package factory

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/ctessum/requestcache"

	ncrystal "github.com/vmishra-uu/ncrystal"
	"github.com/vmishra-uu/ncrystal/internal/diag"
	"github.com/vmishra-uu/ncrystal/internal/hash"
	"github.com/vmishra-uu/ncrystal/matcfg"
	"github.com/vmishra-uu/ncrystal/physics"
)

// InfoFactory builds an Info from a Cfg. Rank scores how well-suited
// this factory is to handle cfg (0 means "cannot handle at all");
// dispatch picks the highest-ranked registered factory unless the cfg
// pins one by name via infofactory=.
type InfoFactory interface {
	Name() string
	Rank(cfg *matcfg.Cfg) uint
	BuildInfo(cfg *matcfg.Cfg) (*ncrystal.Info, error)
}

// ScatterFactory builds the scattering Process for an already-resolved
// Info.
type ScatterFactory interface {
	Name() string
	RankScatter(cfg *matcfg.Cfg, info *ncrystal.Info) uint
	BuildScatter(cfg *matcfg.Cfg, info *ncrystal.Info) (physics.Process, error)
}

// AbsorptionFactory builds the absorption Process for an already-
// resolved Info.
type AbsorptionFactory interface {
	Name() string
	RankAbsorption(cfg *matcfg.Cfg, info *ncrystal.Info) uint
	BuildAbsorption(cfg *matcfg.Cfg, info *ncrystal.Info) (physics.Process, error)
}

// Registry holds the process-wide set of registered factories plus the
// Info/Scatter/Absorption caches built on top of them, mirroring the
// teacher's sr.Reader's lazily-initialized requestcache.Cache fields
// (sr/srreader.go's sourceCache/sourceInit).
type Registry struct {
	mu               sync.RWMutex
	infoFactories    []InfoFactory
	scatterFactories []ScatterFactory
	absnFactories    []AbsorptionFactory

	// CacheSize bounds the number of entries each of the three caches
	// below keeps in memory. Must be set before the first Info/Scatter/
	// Absorption call; the default, applied by NewRegistry, is 64.
	CacheSize int

	infoInit  sync.Once
	infoCache *requestcache.Cache

	scatterInit  sync.Once
	scatterCache *requestcache.Cache

	absnInit  sync.Once
	absnCache *requestcache.Cache
}

// NewRegistry returns an empty Registry with no factories registered.
func NewRegistry() *Registry {
	return &Registry{CacheSize: 64}
}

// RegisterInfoFactory, RegisterScatterFactory, and RegisterAbsorptionFactory
// add f to the registry. Registration is not safe to call concurrently
// with Info/Scatter/Absorption lookups; register everything up front.
func (r *Registry) RegisterInfoFactory(f InfoFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infoFactories = append(r.infoFactories, f)
}

func (r *Registry) RegisterScatterFactory(f ScatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scatterFactories = append(r.scatterFactories, f)
}

func (r *Registry) RegisterAbsorptionFactory(f AbsorptionFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.absnFactories = append(r.absnFactories, f)
}

func (r *Registry) pickInfoFactory(cfg *matcfg.Cfg) (InfoFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if pin := cfg.InfoFactory(); pin != "" {
		for _, f := range r.infoFactories {
			if f.Name() == pin {
				return f, nil
			}
		}
		return nil, ncrystal.NewCfgError("infofactory", "no registered info factory named %q", pin)
	}
	var best InfoFactory
	var bestRank uint
	for _, f := range r.infoFactories {
		if rank := f.Rank(cfg); rank > bestRank {
			best, bestRank = f, rank
		}
	}
	if best == nil {
		return nil, ncrystal.NewDataLoadError(nil, "no registered info factory can handle %q", cfg.DataFileSpec())
	}
	return best, nil
}

func (r *Registry) pickScatterFactory(cfg *matcfg.Cfg, info *ncrystal.Info) (ScatterFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if pin := cfg.ScatFactory(); pin != "" {
		for _, f := range r.scatterFactories {
			if f.Name() == pin {
				return f, nil
			}
		}
		return nil, ncrystal.NewCfgError("scatfactory", "no registered scatter factory named %q", pin)
	}
	var best ScatterFactory
	var bestRank uint
	for _, f := range r.scatterFactories {
		rank := f.RankScatter(cfg, info)
		if best == nil || rank > bestRank {
			best, bestRank = f, rank
		}
	}
	if best == nil || bestRank == 0 {
		return nil, ncrystal.NewDataLoadError(nil, "no registered scatter factory can handle this material")
	}
	return best, nil
}

func (r *Registry) pickAbsorptionFactory(cfg *matcfg.Cfg, info *ncrystal.Info) (AbsorptionFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if pin := cfg.AbsnFactory(); pin != "" {
		for _, f := range r.absnFactories {
			if f.Name() == pin {
				return f, nil
			}
		}
		return nil, ncrystal.NewCfgError("absnfactory", "no registered absorption factory named %q", pin)
	}
	var best AbsorptionFactory
	var bestRank uint
	for _, f := range r.absnFactories {
		rank := f.RankAbsorption(cfg, info)
		if best == nil || rank > bestRank {
			best, bestRank = f, rank
		}
	}
	if best == nil || bestRank == 0 {
		return nil, ncrystal.NewDataLoadError(nil, "no registered absorption factory can handle this material")
	}
	return best, nil
}

// infoCacheKey is the key used for the Info cache: the canonical cfg
// string (including the data-file spec), per spec.md §4.4.
func infoCacheKey(cfg *matcfg.Cfg) string {
	return cfg.CanonicalString(true)
}

// Info returns the Info for cfg, building it via the highest-ranked (or
// pinned) InfoFactory on a cache miss. Concurrent calls with an
// identical canonical cfg string are deduplicated into a single build
// (requestcache.Deduplicate()); the in-memory cache (requestcache.Memory)
// then serves repeat lookups without rebuilding.
func (r *Registry) Info(cfg *matcfg.Cfg) (*ncrystal.Info, error) {
	r.infoInit.Do(func() {
		r.infoCache = requestcache.NewCache(func(_ context.Context, request interface{}) (interface{}, error) {
			c := request.(*matcfg.Cfg)
			f, err := r.pickInfoFactory(c)
			if err != nil {
				return nil, err
			}
			diag.Log.Debugf("factory: building Info via %q for %q", f.Name(), c.DataFileSpec())
			info, err := f.BuildInfo(c)
			if err != nil {
				return nil, ncrystal.NewDataLoadError(err, "info factory %q failed", f.Name())
			}
			info.Seal()
			return info, nil
		}, runtime.GOMAXPROCS(-1), requestcache.Deduplicate(), requestcache.Memory(r.CacheSize))
	})
	req := r.infoCache.NewRequest(context.Background(), cfg, infoCacheKey(cfg))
	result, err := req.Result()
	if err != nil {
		return nil, err
	}
	info := result.(*ncrystal.Info)
	info.Acquire()
	return info, nil
}

// scatterAbsnKey is (info.uid, canonical_cfg), per spec.md §4.4.
func scatterAbsnKey(info *ncrystal.Info, cfg *matcfg.Cfg) string {
	return fmt.Sprintf("%d_%s", info.UID(), cfg.CanonicalString(false))
}

type scatterRequest struct {
	cfg  *matcfg.Cfg
	info *ncrystal.Info
}

// Scatter returns the scattering Process for (cfg, info), building it
// via the highest-ranked (or pinned) ScatterFactory on a cache miss.
func (r *Registry) Scatter(cfg *matcfg.Cfg, info *ncrystal.Info) (physics.Process, error) {
	r.scatterInit.Do(func() {
		r.scatterCache = requestcache.NewCache(func(_ context.Context, request interface{}) (interface{}, error) {
			req := request.(scatterRequest)
			f, err := r.pickScatterFactory(req.cfg, req.info)
			if err != nil {
				return nil, err
			}
			diag.Log.Debugf("factory: building Scatter via %q", f.Name())
			proc, err := f.BuildScatter(req.cfg, req.info)
			if err != nil {
				return nil, ncrystal.NewDataLoadError(err, "scatter factory %q failed", f.Name())
			}
			return proc, nil
		}, runtime.GOMAXPROCS(-1), requestcache.Deduplicate(), requestcache.Memory(r.CacheSize))
	})
	req := r.scatterCache.NewRequest(context.Background(), scatterRequest{cfg, info}, scatterAbsnKey(info, cfg))
	result, err := req.Result()
	if err != nil {
		return nil, err
	}
	return result.(physics.Process), nil
}

// Absorption returns the absorption Process for (cfg, info), building it
// via the highest-ranked (or pinned) AbsorptionFactory on a cache miss.
func (r *Registry) Absorption(cfg *matcfg.Cfg, info *ncrystal.Info) (physics.Process, error) {
	r.absnInit.Do(func() {
		r.absnCache = requestcache.NewCache(func(_ context.Context, request interface{}) (interface{}, error) {
			req := request.(scatterRequest)
			f, err := r.pickAbsorptionFactory(req.cfg, req.info)
			if err != nil {
				return nil, err
			}
			diag.Log.Debugf("factory: building Absorption via %q", f.Name())
			proc, err := f.BuildAbsorption(req.cfg, req.info)
			if err != nil {
				return nil, ncrystal.NewDataLoadError(err, "absorption factory %q failed", f.Name())
			}
			return proc, nil
		}, runtime.GOMAXPROCS(-1), requestcache.Deduplicate(), requestcache.Memory(r.CacheSize))
	})
	req := r.absnCache.NewRequest(context.Background(), scatterRequest{cfg, info}, scatterAbsnKey(info, cfg))
	result, err := req.Result()
	if err != nil {
		return nil, err
	}
	return result.(physics.Process), nil
}

// ClearCaches invalidates every cache this Registry holds, forcing the
// next Info/Scatter/Absorption call to rebuild from scratch (spec.md
// §4.4's clearCaches()). It is safe to call at any time; it simply
// resets the lazy-init state so the next call creates fresh caches.
func (r *Registry) ClearCaches() {
	r.mu.Lock()
	defer r.mu.Unlock()
	diag.Log.Debug("factory: clearing all caches")
	r.infoInit = sync.Once{}
	r.infoCache = nil
	r.scatterInit = sync.Once{}
	r.scatterCache = nil
	r.absnInit = sync.Once{}
	r.absnCache = nil
}

// FingerprintCfg returns a stable digest for cfg, useful for a caller
// wanting to correlate external logs/metrics with cache keys without
// exposing the full canonical string.
func FingerprintCfg(cfg *matcfg.Cfg) string {
	return hash.Of(cfg.CanonicalString(true))
}
