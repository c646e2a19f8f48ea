package matcfg

import (
	"math"
	"testing"
)

func TestParseBasic(t *testing.T) {
	c, err := Parse("Al_sg225.ncmat;temp=20C;dcutoff=0.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.DataFileSpec() != "Al_sg225.ncmat" {
		t.Fatalf("unexpected data file spec: %q", c.DataFileSpec())
	}
	if got, want := c.Temp(), 293.15; math.Abs(got-want) > 1e-9 {
		t.Fatalf("temp = %v, want %v", got, want)
	}
	if got, want := c.Dcutoff(), 0.5; got != want {
		t.Fatalf("dcutoff = %v, want %v", got, want)
	}
}

func TestDefaults(t *testing.T) {
	c, err := Parse("Al_sg225.ncmat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Temp() != -1.0 {
		t.Fatalf("expected default temp -1, got %v", c.Temp())
	}
	if c.Packfact() != 1.0 {
		t.Fatalf("expected default packfact 1.0, got %v", c.Packfact())
	}
	if !c.CohElas() || !c.IncohElas() {
		t.Fatalf("expected coh_elas and incoh_elas default true")
	}
	if c.Inelas() != "auto" {
		t.Fatalf("expected default inelas auto, got %q", c.Inelas())
	}
	if c.Vdoslux() != 3 {
		t.Fatalf("expected default vdoslux 3, got %d", c.Vdoslux())
	}
}

func TestIgnoreFileCfg(t *testing.T) {
	c, err := Parse("Al_sg225.ncmat;ignorefilecfg;temp=300")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.IgnoresEmbeddedConfig() {
		t.Fatalf("expected ignorefilecfg set")
	}
}

func TestBraggAlias(t *testing.T) {
	c, err := Parse("x.ncmat;bragg=false")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.CohElas() {
		t.Fatalf("bragg=false should map to coh_elas=false")
	}
}

func TestElasAlias(t *testing.T) {
	c, err := Parse("x.ncmat;elas=false")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.CohElas() || c.IncohElas() {
		t.Fatalf("elas=false should disable both coh_elas and incoh_elas")
	}
}

func TestBkgdAlias(t *testing.T) {
	c, err := Parse("x.ncmat;bkgd=none")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.IncohElas() {
		t.Fatalf("bkgd=none should disable incoh_elas")
	}
	if c.Inelas() != "none" {
		t.Fatalf("bkgd=none should set inelas=none, got %q", c.Inelas())
	}
}

func TestBkgdAliasRejectsOtherValues(t *testing.T) {
	if _, err := Parse("x.ncmat;bkgd=xyz"); err == nil {
		t.Fatalf("expected error for obsolete bkgd value")
	}
}

func TestValidationRejectsBadPackfact(t *testing.T) {
	if _, err := Parse("x.ncmat;packfact=1.5"); err == nil {
		t.Fatalf("expected error for packfact > 1")
	}
}

func TestValidationRejectsPartialOrientation(t *testing.T) {
	if _, err := Parse("x.ncmat;mos=0.002"); err == nil {
		t.Fatalf("expected error when only mos is set without dir1/dir2")
	}
}

func TestValidationRejectsBadVdoslux(t *testing.T) {
	if _, err := Parse("x.ncmat;vdoslux=9"); err == nil {
		t.Fatalf("expected error for vdoslux out of range")
	}
}

func TestSingleCrystalFull(t *testing.T) {
	c, err := Parse("x.ncmat;mos=0.002;packfact=1.0;" +
		"dir1=@crystal_hkl:1,0,0@lab:0,0,1;dir2=@crystal_hkl:0,1,0@lab:0,1,0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.IsSingleCrystal() {
		t.Fatalf("expected IsSingleCrystal true")
	}
	mos, ok := c.Mos()
	if !ok || mos != 0.002 {
		t.Fatalf("unexpected mos: %v, %v", mos, ok)
	}
}

func TestSingleCrystalRejectsParallelLabDirs(t *testing.T) {
	_, err := Parse("x.ncmat;mos=0.002;packfact=1.0;" +
		"dir1=@crystal_hkl:1,0,0@lab:0,0,1;dir2=@crystal_hkl:0,1,0@lab:0,0,2")
	if err == nil {
		t.Fatalf("expected error for parallel lab-frame directions")
	}
}

func TestCanonicalStringIsSorted(t *testing.T) {
	c, err := Parse("x.ncmat;vdoslux=4;temp=300")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := c.CanonicalString(false)
	want := "temp=300;vdoslux=4"
	if got != want {
		t.Fatalf("CanonicalString = %q, want %q", got, want)
	}
}

func TestToEmbeddableCfg(t *testing.T) {
	c, err := Parse("x.ncmat;vdoslux=2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := c.ToEmbeddableCfg()
	if got != "NCRYSTALMATCFG[vdoslux=2]" {
		t.Fatalf("unexpected embeddable cfg: %q", got)
	}
}

func TestLcaxisRejectsNullVector(t *testing.T) {
	if _, err := Parse("x.ncmat;lcaxis=0,0,0"); err == nil {
		t.Fatalf("expected error for null lcaxis vector")
	}
}

func TestWithEmbeddedCfgFillsInDefaults(t *testing.T) {
	c, err := Parse("x.ncmat;vdoslux=2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	merged, err := c.WithEmbeddedCfg("temp=300;dcutoff=0.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged.Vdoslux() != 2 {
		t.Fatalf("expected explicit vdoslux=2 to survive, got %d", merged.Vdoslux())
	}
	if merged.Temp() != 300 {
		t.Fatalf("expected embedded temp=300 to fill in, got %v", merged.Temp())
	}
	if merged.Dcutoff() != 0.5 {
		t.Fatalf("expected embedded dcutoff=0.5 to fill in, got %v", merged.Dcutoff())
	}
	if merged.EmbeddedCfg() != "temp=300;dcutoff=0.5" {
		t.Fatalf("unexpected EmbeddedCfg: %q", merged.EmbeddedCfg())
	}
}

func TestWithEmbeddedCfgExplicitWins(t *testing.T) {
	c, err := Parse("x.ncmat;temp=200")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	merged, err := c.WithEmbeddedCfg("temp=300")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged.Temp() != 200 {
		t.Fatalf("expected explicit temp=200 to win over embedded temp=300, got %v", merged.Temp())
	}
}

func TestWithEmbeddedCfgIgnoredWhenIgnoreFileCfgSet(t *testing.T) {
	c, err := Parse("x.ncmat;ignorefilecfg;vdoslux=1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	merged, err := c.WithEmbeddedCfg("vdoslux=4;temp=350")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged.Vdoslux() != 1 {
		t.Fatalf("expected ignorefilecfg to suppress embedded vdoslux, got %d", merged.Vdoslux())
	}
	if merged.Temp() != -1.0 {
		t.Fatalf("expected ignorefilecfg to suppress embedded temp, got %v", merged.Temp())
	}
}

func TestAtomDBLines(t *testing.T) {
	c, err := Parse("x.ncmat;atomdb=MyAl is Al@D2 is D")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := c.AtomDBLines()
	if len(lines) != 2 || lines[0] != "MyAl is Al" || lines[1] != "D2 is D" {
		t.Fatalf("unexpected atomdb lines: %v", lines)
	}
}
