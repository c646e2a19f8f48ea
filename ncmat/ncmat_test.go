package ncmat

import (
	"strings"
	"testing"

	"github.com/vmishra-uu/ncrystal/textsource"
)

const aluminum = `NCMAT v3
#a minimal aluminum-like test material
@CELL
  lengths 4.04 4.04 4.04
  angles 90 90 90
@ATOMPOSITIONS
  Al 0 0 0
  Al 1/2 1/2 0
@SPACEGROUP
  225
@DEBYETEMPERATURE
  410.0
@DENSITY
  2.70 g_per_cm3
@DYNINFO
  element Al
  fraction 1.0
  type vdosdebye
`

func parseString(t *testing.T, content string) *NCMATData {
	t.Helper()
	src := textsource.NewInMemory("mem::test.ncmat", content)
	d, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return d
}

func TestParseAluminum(t *testing.T) {
	d := parseString(t, aluminum)
	if d.Version != 3 {
		t.Fatalf("version = %d, want 3", d.Version)
	}
	if d.Cell == nil || d.Cell.Lengths[0] != 4.04 {
		t.Fatalf("unexpected cell: %+v", d.Cell)
	}
	if len(d.AtomPositions) != 2 {
		t.Fatalf("expected 2 atom positions, got %d", len(d.AtomPositions))
	}
	if d.AtomPositions[1].Frac[0] != 0.5 {
		t.Fatalf("expected fraction 1/2 to parse as 0.5, got %v", d.AtomPositions[1].Frac[0])
	}
	if d.SpaceGroup != 225 {
		t.Fatalf("spacegroup = %d, want 225", d.SpaceGroup)
	}
	if d.DebyeTemp == nil || d.DebyeTemp.Global != 410.0 {
		t.Fatalf("unexpected debye temp: %+v", d.DebyeTemp)
	}
	if d.DensityInfo == nil || d.DensityInfo.Value != 2.70 || d.DensityInfo.Unit != GPerCM3 {
		t.Fatalf("unexpected density: %+v", d.DensityInfo)
	}
	if len(d.DynInfos) != 1 || d.DynInfos[0].Type != DynVDOSDebye {
		t.Fatalf("unexpected dyninfos: %+v", d.DynInfos)
	}
}

func TestRejectsBadHeader(t *testing.T) {
	src := textsource.NewInMemory("mem::bad.ncmat", "NCMAT v4\n@CELL\n")
	if _, err := Parse(src); err == nil {
		t.Fatalf("expected error for unsupported version")
	}
}

func TestRejectsDuplicateSection(t *testing.T) {
	content := "NCMAT v3\n@SPACEGROUP\n1\n@SPACEGROUP\n2\n"
	src := textsource.NewInMemory("mem::dup.ncmat", content)
	if _, err := Parse(src); err == nil {
		t.Fatalf("expected error for duplicate @SPACEGROUP")
	}
}

func TestRejectsOutOfRangeSpaceGroup(t *testing.T) {
	content := "NCMAT v3\n@SPACEGROUP\n999\n"
	src := textsource.NewInMemory("mem::sg.ncmat", content)
	if _, err := Parse(src); err == nil {
		t.Fatalf("expected error for spacegroup out of [1,230]")
	}
}

func TestMagicCfgComment(t *testing.T) {
	content := "NCMAT v3\n#NCRYSTALMATCFG[temp=300]\n@SPACEGROUP\n1\n"
	d := parseString(t, content)
	if d.EmbeddedCfg != "temp=300" {
		t.Fatalf("embedded cfg = %q, want %q", d.EmbeddedCfg, "temp=300")
	}
}

func TestAtomDBNodefaultsMustBeFirst(t *testing.T) {
	content := "NCMAT v3\n@ATOMDB\nD is H\nnodefaults\n"
	src := textsource.NewInMemory("mem::adb.ncmat", content)
	if _, err := Parse(src); err == nil {
		t.Fatalf("expected error for nodefaults not first")
	}
}

func TestScatKnlRequiresMatchingGridSizes(t *testing.T) {
	content := strings.Join([]string{
		"NCMAT v3",
		"@DYNINFO",
		"  element Al",
		"  fraction 1.0",
		"  type scatknl",
		"  alphagrid 0.1 0.2 0.3",
		"  betagrid -0.1 0.0 0.1",
		"  sab 1 2 3 4 5", // wrong length, want 9
	}, "\n") + "\n"
	src := textsource.NewInMemory("mem::sk.ncmat", content)
	if _, err := Parse(src); err == nil {
		t.Fatalf("expected error for mismatched sab grid size")
	}
}

func TestV1RejectsInlineComment(t *testing.T) {
	content := "NCMAT v1\n@SPACEGROUP\n1 # not allowed in v1\n"
	src := textsource.NewInMemory("mem::v1inline.ncmat", content)
	if _, err := Parse(src); err == nil {
		t.Fatalf("expected error for inline '#' comment inside a v1 section")
	}
}

func TestV1RejectsFullLineCommentInsideSection(t *testing.T) {
	content := "NCMAT v1\n@SPACEGROUP\n# not allowed in v1\n1\n"
	src := textsource.NewInMemory("mem::v1fullline.ncmat", content)
	if _, err := Parse(src); err == nil {
		t.Fatalf("expected error for full-line '#' comment inside a v1 section")
	}
}

func TestV3AllowsInlineComment(t *testing.T) {
	content := "NCMAT v3\n@SPACEGROUP\n1 # trailing comment is fine in v3\n"
	d := parseString(t, content)
	if d.SpaceGroup != 1 {
		t.Fatalf("spacegroup = %d, want 1", d.SpaceGroup)
	}
}

func TestRunLengthExpansion(t *testing.T) {
	out, err := expandRunLength([]string{"1.5r3", "2.0"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{1.5, 1.5, 1.5, 2.0}
	if len(out) != len(want) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(want))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}
