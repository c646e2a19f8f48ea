// Package ncmat parses the NCMAT text format into an in-memory
// NCMATData record, ready for the root package's builder to turn into
// an Info (spec.md §4.1).
package ncmat

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vmishra-uu/ncrystal/textsource"
)

// CellData holds the @CELL section: lattice lengths (angstrom) and
// angles (degrees).
type CellData struct {
	Lengths [3]float64
	Angles  [3]float64
}

// AtomPosition is one line of @ATOMPOSITIONS.
type AtomPosition struct {
	ElementName string
	Frac        [3]float64
}

// DebyeTemperature is either a single global value, or a per-element
// table; exactly one of the two forms is populated.
type DebyeTemperature struct {
	Global     float64
	PerElement map[string]float64
}

// DensityUnit is the closed set of @DENSITY units.
type DensityUnit int

const (
	KgPerM3 DensityUnit = iota
	GPerCM3
	AtomsPerAa3
)

// Density holds the @DENSITY section.
type Density struct {
	Value float64
	Unit  DensityUnit
}

// DynInfoType is the closed set of @DYNINFO type values.
type DynInfoType int

const (
	DynScatKnl DynInfoType = iota
	DynVDOS
	DynVDOSDebye
	DynFreeGas
	DynSterile
)

// DynInfo is one @DYNINFO subsection.
type DynInfo struct {
	Element  string
	Fraction float64
	Type     DynInfoType

	// vdos
	VDOSEgrid   []float64
	VDOSDensity []float64

	// scatknl
	AlphaGrid []float64
	BetaGrid  []float64
	SAB       []float64 // row-major, |alpha| inner
	SABScaled bool       // true if given as sab_scaled rather than sab
}

// NCMATData is the fully parsed contents of one NCMAT source.
type NCMATData struct {
	Version int

	Cell          *CellData
	AtomPositions []AtomPosition
	SpaceGroup    int // 0 if absent
	DebyeTemp     *DebyeTemperature
	DensityInfo   *Density
	DynInfos      []DynInfo
	AtomDBLines   []string
	CustomSection map[string][]string // section name (without CUSTOM_ prefix) -> lines

	EmbeddedCfg string // NCRYSTALMATCFG[...] content, "" if absent
}

var magicCfgRe = regexp.MustCompile(`NCRYSTALMATCFG\[([^\]]*)\]`)

// Parse reads src fully and builds an NCMATData, or returns a BadInput
// diagnostic wrapped in a plain error (the root package wraps it into
// its typed Error on the way out, carrying src.Description()).
func Parse(src textsource.Source) (*NCMATData, error) {
	p := &parser{src: src, data: &NCMATData{CustomSection: map[string][]string{}}}
	return p.run()
}

type parser struct {
	src      textsource.Source
	data     *NCMATData
	lineno   int
	section  string
	buf      []string // accumulated tokenized lines for the current section
	rawLines []string // accumulated raw lines, for sections needing full-line text
	seen     map[string]bool
}

func (p *parser) run() (*NCMATData, error) {
	header, ok := p.nextNonBlank()
	if !ok {
		return nil, fmt.Errorf("empty input")
	}
	version, err := parseHeader(header)
	if err != nil {
		return nil, p.err(err.Error())
	}
	p.data.Version = version
	p.seen = map[string]bool{}

	for {
		line, ok := p.src.ReadLine()
		if !ok {
			break
		}
		p.lineno++
		if err := p.feed(line); err != nil {
			return nil, err
		}
	}
	if err := p.src.Err(); err != nil {
		return nil, err
	}
	if err := p.closeSection(); err != nil {
		return nil, err
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p.data, nil
}

func parseHeader(line string) (int, error) {
	for _, v := range []string{"1", "2", "3"} {
		if line == "NCMAT v"+v {
			n, _ := strconv.Atoi(v)
			return n, nil
		}
	}
	return 0, fmt.Errorf("first line must be exactly \"NCMAT v1\", \"NCMAT v2\", or \"NCMAT v3\", got %q", line)
}

func (p *parser) nextNonBlank() (string, bool) {
	for {
		line, ok := p.src.ReadLine()
		if !ok {
			return "", false
		}
		p.lineno++
		if strings.TrimSpace(line) != "" {
			return line, true
		}
	}
}

func (p *parser) err(format string, args ...interface{}) error {
	return fmt.Errorf("ncmat: %s: line %d: %s", p.src.Description(), p.lineno, fmt.Sprintf(format, args...))
}

// feed processes one raw input line, either against the current
// section or as a section-opening/comment/blank line.
func (p *parser) feed(line string) error {
	if strings.ContainsRune(line, '\r') && !strings.HasSuffix(line, "\r") {
		// textsource strips the trailing \n but leaves a lone \r if
		// the source used bare \r as a line terminator somewhere
		// mid-line; reject it per the v1-v3 lexical rule.
		if idx := strings.IndexByte(line, '\r'); idx != len(line)-1 {
			return p.err("bare carriage return is not allowed outside \\r\\n")
		}
	}
	if m := magicCfgRe.FindStringSubmatch(line); m != nil {
		if p.data.EmbeddedCfg != "" {
			return p.err("multiple NCRYSTALMATCFG[...] occurrences found")
		}
		p.data.EmbeddedCfg = m[1]
	}

	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}
	if strings.HasPrefix(trimmed, "@") {
		name := strings.Fields(trimmed)[0][1:]
		if err := p.closeSection(); err != nil {
			return err
		}
		isCustom := strings.HasPrefix(name, "CUSTOM_")
		if !isCustom && p.seen[name] && name != "DYNINFO" {
			return p.err("duplicate section @%s", name)
		}
		p.seen[name] = true
		p.section = name
		p.buf = nil
		p.rawLines = nil
		return nil
	}
	if p.section == "" {
		if strings.HasPrefix(trimmed, "#") {
			return nil // pre-section comment
		}
		return p.err("content outside of a section: %q", line)
	}
	if strings.HasPrefix(trimmed, "#") {
		if p.data.Version == 1 {
			return p.err("'#' comments are only allowed as a full-line comment before the first section in NCMAT v1")
		}
		return nil
	}
	// strip trailing comment
	content := trimmed
	if idx := strings.IndexByte(content, '#'); idx >= 0 {
		if p.data.Version == 1 {
			return p.err("'#' comments are only allowed as a full-line comment before the first section in NCMAT v1")
		}
		content = strings.TrimSpace(content[:idx])
		if content == "" {
			return nil
		}
	}
	p.rawLines = append(p.rawLines, content)
	p.buf = append(p.buf, content)
	return nil
}
