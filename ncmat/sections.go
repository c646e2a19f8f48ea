package ncmat

import (
	"fmt"
	"strconv"
	"strings"
)

// closeSection finalizes whatever section was being accumulated (if
// any), running its validation and attaching the result to p.data. It
// is called both when a new @NAME line starts and at EOF, matching
// spec.md §4.1's "end-of-section dispatches to the handler with an
// empty token list" rule.
func (p *parser) closeSection() error {
	if p.section == "" {
		return nil
	}
	name := p.section
	lines := p.buf
	var err error
	switch {
	case name == "CELL":
		err = p.closeCell(lines)
	case name == "ATOMPOSITIONS":
		err = p.closeAtomPositions(lines)
	case name == "SPACEGROUP":
		err = p.closeSpaceGroup(lines)
	case name == "DEBYETEMPERATURE":
		err = p.closeDebyeTemperature(lines)
	case name == "DENSITY":
		err = p.closeDensity(lines)
	case name == "DYNINFO":
		err = p.closeDynInfo(lines)
	case name == "ATOMDB":
		err = p.closeAtomDB(lines)
	case strings.HasPrefix(name, "CUSTOM_"):
		p.data.CustomSection[strings.TrimPrefix(name, "CUSTOM_")] = append(
			p.data.CustomSection[strings.TrimPrefix(name, "CUSTOM_")], lines...)
	default:
		err = fmt.Errorf("ncmat: %s: unrecognized section @%s", p.src.Description(), name)
	}
	p.section = ""
	p.buf = nil
	return err
}

func (p *parser) closeCell(lines []string) error {
	c := &CellData{}
	var haveLengths, haveAngles bool
	for _, l := range lines {
		f := strings.Fields(l)
		if len(f) != 4 {
			return p.err("@CELL line must have 4 fields, got %d", len(f))
		}
		vals, err := parseFloats(f[1:])
		if err != nil {
			return p.err("@CELL: %v", err)
		}
		switch f[0] {
		case "lengths":
			c.Lengths = [3]float64{vals[0], vals[1], vals[2]}
			haveLengths = true
		case "angles":
			c.Angles = [3]float64{vals[0], vals[1], vals[2]}
			haveAngles = true
		default:
			return p.err("@CELL: unexpected keyword %q", f[0])
		}
	}
	if !haveLengths || !haveAngles {
		return p.err("@CELL must have exactly one lengths line and one angles line")
	}
	p.data.Cell = c
	return nil
}

func (p *parser) closeAtomPositions(lines []string) error {
	for _, l := range lines {
		f := strings.Fields(l)
		if len(f) != 4 {
			return p.err("@ATOMPOSITIONS line must have 4 fields, got %d", len(f))
		}
		vals := make([]float64, 3)
		for i, tok := range f[1:] {
			v, err := parseFracOrFloat(tok)
			if err != nil {
				return p.err("@ATOMPOSITIONS: %v", err)
			}
			vals[i] = v
		}
		p.data.AtomPositions = append(p.data.AtomPositions, AtomPosition{
			ElementName: f[0],
			Frac:        [3]float64{vals[0], vals[1], vals[2]},
		})
	}
	return nil
}

func (p *parser) closeSpaceGroup(lines []string) error {
	if len(lines) != 1 {
		return p.err("@SPACEGROUP must contain exactly one line")
	}
	n, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil || n < 1 || n > 230 {
		return p.err("@SPACEGROUP must be a single integer in [1,230]")
	}
	p.data.SpaceGroup = n
	return nil
}

func (p *parser) closeDebyeTemperature(lines []string) error {
	dt := &DebyeTemperature{PerElement: map[string]float64{}}
	for _, l := range lines {
		f := strings.Fields(l)
		switch len(f) {
		case 1:
			v, err := strconv.ParseFloat(f[0], 64)
			if err != nil {
				return p.err("@DEBYETEMPERATURE: invalid value %q", f[0])
			}
			if len(lines) != 1 {
				return p.err("@DEBYETEMPERATURE: a single global value must be the only line")
			}
			dt.Global = v
		case 2:
			v, err := strconv.ParseFloat(f[1], 64)
			if err != nil {
				return p.err("@DEBYETEMPERATURE: invalid value %q", f[1])
			}
			dt.PerElement[f[0]] = v
		default:
			return p.err("@DEBYETEMPERATURE line must have 1 or 2 fields, got %d", len(f))
		}
	}
	if dt.Global != 0 && len(dt.PerElement) > 0 {
		return p.err("@DEBYETEMPERATURE: global and per-element forms are mutually exclusive")
	}
	p.data.DebyeTemp = dt
	return nil
}

func (p *parser) closeDensity(lines []string) error {
	if len(lines) != 1 {
		return p.err("@DENSITY must contain exactly one line")
	}
	f := strings.Fields(lines[0])
	if len(f) != 2 {
		return p.err("@DENSITY line must have 2 fields (value unit)")
	}
	v, err := strconv.ParseFloat(f[0], 64)
	if err != nil {
		return p.err("@DENSITY: invalid value %q", f[0])
	}
	var unit DensityUnit
	switch f[1] {
	case "kg_per_m3":
		unit = KgPerM3
	case "g_per_cm3":
		unit = GPerCM3
	case "atoms_per_aa3":
		unit = AtomsPerAa3
	default:
		return p.err("@DENSITY: unrecognized unit %q", f[1])
	}
	p.data.DensityInfo = &Density{Value: v, Unit: unit}
	return nil
}

func (p *parser) closeAtomDB(lines []string) error {
	for i, l := range lines {
		if strings.Fields(l)[0] == "nodefaults" && i != 0 {
			return p.err("@ATOMDB: nodefaults must be the first line if present")
		}
	}
	p.data.AtomDBLines = append(p.data.AtomDBLines, lines...)
	return nil
}

func parseFloats(toks []string) ([]float64, error) {
	out := make([]float64, len(toks))
	for i, t := range toks {
		v, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid numeric value %q", t)
		}
		out[i] = v
	}
	return out, nil
}

// parseFracOrFloat accepts either a plain float literal or a "p/q"
// fraction, per spec.md §4.1's v2+ @ATOMPOSITIONS rule.
func parseFracOrFloat(tok string) (float64, error) {
	if idx := strings.IndexByte(tok, '/'); idx >= 0 {
		p, err1 := strconv.ParseFloat(tok[:idx], 64)
		q, err2 := strconv.ParseFloat(tok[idx+1:], 64)
		if err1 != nil || err2 != nil || q == 0 {
			return 0, fmt.Errorf("invalid fraction %q", tok)
		}
		return p / q, nil
	}
	return strconv.ParseFloat(tok, 64)
}

// expandRunLength expands "<value>r<count>" tokens into their count
// copies, for @DYNINFO vector fields.
func expandRunLength(toks []string) ([]float64, error) {
	var out []float64
	for _, t := range toks {
		if idx := strings.IndexByte(t, 'r'); idx > 0 {
			valStr, countStr := t[:idx], t[idx+1:]
			if _, err := strconv.Atoi(countStr); err == nil {
				v, err1 := strconv.ParseFloat(valStr, 64)
				count, err2 := strconv.Atoi(countStr)
				if err1 == nil && err2 == nil {
					for i := 0; i < count; i++ {
						out = append(out, v)
					}
					continue
				}
			}
		}
		v, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid numeric or run-length token %q", t)
		}
		out = append(out, v)
	}
	return out, nil
}
