package factory

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	ncrystal "github.com/vmishra-uu/ncrystal"
	"github.com/vmishra-uu/ncrystal/matcfg"
	"github.com/vmishra-uu/ncrystal/physics"
)

// stubSterile is a minimal physics.Process used to exercise the
// registry without depending on any other package's builders.
type stubSterile struct{}

func (stubSterile) Domain() (float64, float64) { return 0, 0 }
func (stubSterile) CrossSectionIsotropic(float64) (float64, error) { return 0, nil }
func (stubSterile) CrossSectionOriented(r3.Vec, float64) (float64, error) { return 0, nil }
func (stubSterile) SampleScatter(dir r3.Vec, e float64, _ physics.RNG) (r3.Vec, float64, error) {
	return dir, e, nil
}

type stubInfoFactory struct {
	name    string
	rank    uint
	builds  int
	failErr error
}

func (f *stubInfoFactory) Name() string { return f.name }
func (f *stubInfoFactory) Rank(cfg *matcfg.Cfg) uint { return f.rank }
func (f *stubInfoFactory) BuildInfo(cfg *matcfg.Cfg) (*ncrystal.Info, error) {
	f.builds++
	if f.failErr != nil {
		return nil, f.failErr
	}
	return ncrystal.NewInfo(), nil
}

type stubScatterFactory struct {
	name   string
	rank   uint
	builds int
}

func (f *stubScatterFactory) Name() string { return f.name }
func (f *stubScatterFactory) RankScatter(cfg *matcfg.Cfg, info *ncrystal.Info) uint { return f.rank }
func (f *stubScatterFactory) BuildScatter(cfg *matcfg.Cfg, info *ncrystal.Info) (physics.Process, error) {
	f.builds++
	return stubSterile{}, nil
}

type stubAbsnFactory struct {
	name   string
	rank   uint
	builds int
}

func (f *stubAbsnFactory) Name() string { return f.name }
func (f *stubAbsnFactory) RankAbsorption(cfg *matcfg.Cfg, info *ncrystal.Info) uint { return f.rank }
func (f *stubAbsnFactory) BuildAbsorption(cfg *matcfg.Cfg, info *ncrystal.Info) (physics.Process, error) {
	f.builds++
	return stubSterile{}, nil
}

func mustCfg(t *testing.T, s string) *matcfg.Cfg {
	t.Helper()
	cfg, err := matcfg.Parse(s)
	if err != nil {
		t.Fatalf("matcfg.Parse(%q): %v", s, err)
	}
	return cfg
}

func TestInfoDispatchPicksHighestRank(t *testing.T) {
	r := NewRegistry()
	low := &stubInfoFactory{name: "low", rank: 1}
	high := &stubInfoFactory{name: "high", rank: 5}
	r.RegisterInfoFactory(low)
	r.RegisterInfoFactory(high)

	cfg := mustCfg(t, "dummy.ncmat")
	if _, err := r.Info(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if high.builds != 1 || low.builds != 0 {
		t.Fatalf("expected only the highest-ranked factory to build, got low=%d high=%d", low.builds, high.builds)
	}
}

func TestInfoDispatchHonorsPin(t *testing.T) {
	r := NewRegistry()
	low := &stubInfoFactory{name: "low", rank: 1}
	high := &stubInfoFactory{name: "high", rank: 5}
	r.RegisterInfoFactory(low)
	r.RegisterInfoFactory(high)

	cfg := mustCfg(t, "dummy.ncmat;infofactory=low")
	if _, err := r.Info(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if low.builds != 1 || high.builds != 0 {
		t.Fatalf("expected the pinned factory to build, got low=%d high=%d", low.builds, high.builds)
	}
}

func TestInfoDispatchUnknownPinErrors(t *testing.T) {
	r := NewRegistry()
	r.RegisterInfoFactory(&stubInfoFactory{name: "only", rank: 1})

	cfg := mustCfg(t, "dummy.ncmat;infofactory=nosuchfactory")
	if _, err := r.Info(cfg); err == nil {
		t.Fatalf("expected an error for an unregistered infofactory pin")
	}
}

func TestInfoDispatchNoFactoryCanHandle(t *testing.T) {
	r := NewRegistry()
	cfg := mustCfg(t, "dummy.ncmat")
	if _, err := r.Info(cfg); err == nil {
		t.Fatalf("expected an error when no info factory is registered")
	}
}

func TestInfoCacheDeduplicatesRepeatBuilds(t *testing.T) {
	r := NewRegistry()
	f := &stubInfoFactory{name: "only", rank: 1}
	r.RegisterInfoFactory(f)

	cfg := mustCfg(t, "dummy.ncmat")
	info1, err := r.Info(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info2, err := r.Info(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info1 != info2 {
		t.Fatalf("expected the same cached *Info on repeat lookup with an identical cfg")
	}
	if f.builds != 1 {
		t.Fatalf("expected exactly one build, got %d", f.builds)
	}
}

func TestInfoCacheDistinguishesDifferentCfgs(t *testing.T) {
	r := NewRegistry()
	f := &stubInfoFactory{name: "only", rank: 1}
	r.RegisterInfoFactory(f)

	cfgA := mustCfg(t, "a.ncmat")
	cfgB := mustCfg(t, "b.ncmat")
	if _, err := r.Info(cfgA); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Info(cfgB); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.builds != 2 {
		t.Fatalf("expected two distinct builds for two distinct cfgs, got %d", f.builds)
	}
}

func TestInfoBuildFailureIsWrappedAsDataLoadError(t *testing.T) {
	r := NewRegistry()
	wantCause := errors.New("boom")
	r.RegisterInfoFactory(&stubInfoFactory{name: "only", rank: 1, failErr: wantCause})

	cfg := mustCfg(t, "dummy.ncmat")
	_, err := r.Info(cfg)
	if err == nil {
		t.Fatalf("expected an error")
	}
	var ncErr *ncrystal.Error
	if !errors.As(err, &ncErr) {
		t.Fatalf("expected *ncrystal.Error, got %T", err)
	}
	if ncErr.Kind != ncrystal.DataLoadError {
		t.Fatalf("expected DataLoadError, got %v", ncErr.Kind)
	}
	if !errors.Is(err, wantCause) {
		t.Fatalf("expected the underlying cause to be preserved via Unwrap")
	}
}

func TestScatterAndAbsorptionDispatchAndCache(t *testing.T) {
	r := NewRegistry()
	r.RegisterInfoFactory(&stubInfoFactory{name: "info", rank: 1})
	scat := &stubScatterFactory{name: "scat", rank: 1}
	absn := &stubAbsnFactory{name: "absn", rank: 1}
	r.RegisterScatterFactory(scat)
	r.RegisterAbsorptionFactory(absn)

	cfg := mustCfg(t, "dummy.ncmat")
	info, err := r.Info(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := r.Scatter(cfg, info); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Scatter(cfg, info); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scat.builds != 1 {
		t.Fatalf("expected scatter to be built once and then cached, got %d builds", scat.builds)
	}

	if _, err := r.Absorption(cfg, info); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if absn.builds != 1 {
		t.Fatalf("expected absorption to be built once, got %d builds", absn.builds)
	}
}

func TestClearCachesForcesRebuild(t *testing.T) {
	r := NewRegistry()
	f := &stubInfoFactory{name: "only", rank: 1}
	r.RegisterInfoFactory(f)

	cfg := mustCfg(t, "dummy.ncmat")
	if _, err := r.Info(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r.ClearCaches()
	if _, err := r.Info(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.builds != 2 {
		t.Fatalf("expected ClearCaches to force a second build, got %d", f.builds)
	}
}

func TestFingerprintCfgIsStableAndDistinguishesConfigs(t *testing.T) {
	cfgA := mustCfg(t, "a.ncmat;temp=300")
	cfgA2 := mustCfg(t, "a.ncmat;temp=300")
	cfgB := mustCfg(t, "a.ncmat;temp=400")

	if FingerprintCfg(cfgA) != FingerprintCfg(cfgA2) {
		t.Fatalf("expected identical cfg strings to fingerprint identically")
	}
	if FingerprintCfg(cfgA) == FingerprintCfg(cfgB) {
		t.Fatalf("expected different cfg strings to fingerprint differently")
	}
}
