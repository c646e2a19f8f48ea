// Package atomdb holds the built-in table of isotopes and natural
// elements (scattering lengths, cross sections, masses) plus the
// override mechanism driven by an NCMAT file's @ATOMDB section or a
// MatCfg atomdb= parameter (spec.md §3, §4.2).
package atomdb

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the closed set of AtomData variants (spec.md §3).
type Kind int

const (
	// NaturalElement is a fraction-weighted isotope blend as found in
	// nature for a given Z.
	NaturalElement Kind = iota
	// SingleIsotope is one specific (Z,A) nuclide.
	SingleIsotope
	// Mixture is a synthetic, caller-defined blend of other AtomData.
	Mixture
)

// Component is one weighted constituent of a Mixture AtomData.
type Component struct {
	Fraction float64
	Data     *Data
}

// Data is one of: a natural element, a single isotope, or a synthetic
// mixture (spec.md §3's AtomData). Invariant: Mass > 0; XS fields >= 0;
// for a Mixture, Components' fractions sum to 1 within tolerance.
type Data struct {
	Label string // the name this entry is known by, e.g. "Al", "H2", "D"
	Kind  Kind
	Z     int // atomic number; 0 for a Mixture with mixed Z
	A     int // mass number; 0 for NaturalElement or Mixture

	CoherentScatLenFm float64 // fm, signed
	IncoherentXS      float64 // barn
	AbsorptionXS      float64 // barn, at 2200 m/s
	MolarMass         float64 // amu (numerically == g/mol)

	Components []Component // non-nil only for Kind == Mixture
}

// Validate checks the invariants from spec.md §3.
func (d *Data) Validate() error {
	if d.MolarMass <= 0 {
		return fmt.Errorf("atomdb: %s: molar mass must be > 0, got %g", d.Label, d.MolarMass)
	}
	if d.IncoherentXS < 0 || d.AbsorptionXS < 0 {
		return fmt.Errorf("atomdb: %s: cross sections must be >= 0", d.Label)
	}
	if d.Kind == Mixture {
		sum := 0.0
		for _, c := range d.Components {
			if c.Fraction <= 0 {
				return fmt.Errorf("atomdb: %s: mixture component fractions must be > 0", d.Label)
			}
			sum += c.Fraction
		}
		if math.Abs(sum-1.0) > 1e-6 {
			return fmt.Errorf("atomdb: %s: mixture fractions sum to %g, not 1", d.Label, sum)
		}
	}
	return nil
}

// CoherentXS returns the bound coherent scattering cross section in
// barn, 4*pi*(b_coh[fm])^2 / 100 (fm^2 to barn).
func (d *Data) CoherentXS() float64 {
	b := d.CoherentScatLenFm
	return 4.0 * math.Pi * b * b / 100.0
}

// ScatteringXS returns the total (coherent+incoherent) bound scattering
// cross section in barn.
func (d *Data) ScatteringXS() float64 {
	return d.CoherentXS() + d.IncoherentXS
}

// DB is a lookup table of AtomData, consisting of the built-in table
// optionally shadowed by nodefaults and extended/overridden by entries
// from an NCMAT @ATOMDB section or a cfg atomdb= parameter (spec.md
// §4.2's composition-resolution order: built-in -> file overrides ->
// cfg overrides).
type DB struct {
	entries map[string]*Data
}

// NewDefault returns a DB seeded with the built-in table.
func NewDefault() *DB {
	db := &DB{entries: make(map[string]*Data, len(builtin))}
	for k, v := range builtin {
		cp := *v
		cp.Label = k
		db.entries[k] = &cp
	}
	return db
}

// NewEmpty returns a DB with no entries, as produced by a leading
// "nodefaults" line in an @ATOMDB section.
func NewEmpty() *DB {
	return &DB{entries: make(map[string]*Data)}
}

// Lookup finds an entry by label (case-sensitive element/isotope label,
// e.g. "Al", "H2", "D").
func (db *DB) Lookup(label string) (*Data, bool) {
	d, ok := db.entries[label]
	return d, ok
}

// MustLookup is Lookup but returns an error instead of a bool, for
// callers that want to propagate a composition-resolution failure.
func (db *DB) MustLookup(label string) (*Data, error) {
	d, ok := db.Lookup(label)
	if !ok {
		return nil, fmt.Errorf("atomdb: unknown element/isotope label %q", label)
	}
	return d, nil
}

// Clone returns an independent copy of db, so that applying overrides to
// one Info's resolution does not affect another's.
func (db *DB) Clone() *DB {
	out := &DB{entries: make(map[string]*Data, len(db.entries))}
	for k, v := range db.entries {
		cp := *v
		out.entries[k] = &cp
	}
	return out
}

// ApplyLines applies @ATOMDB-style override lines to db in place. Each
// line is whitespace-tokenized. Two forms are recognized:
//
//	<label> is <existinglabel>
//	<label> <Z> <A> <molarmass> <coh_fm> <incoh_barn> <abs_barn>
//
// A leading "nodefaults" line (by itself) is only valid as the very
// first line and is handled by the caller via NewEmpty, not here.
func (db *DB) ApplyLines(lines []string) error {
	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if strings.EqualFold(fields[0], "nodefaults") {
			return fmt.Errorf("atomdb: line %d: nodefaults must be the first line of the section", i+1)
		}
		if err := db.applyLine(fields); err != nil {
			return fmt.Errorf("atomdb: line %d: %w", i+1, err)
		}
	}
	return nil
}

func (db *DB) applyLine(fields []string) error {
	label := fields[0]
	if len(fields) == 3 && strings.EqualFold(fields[1], "is") {
		src, ok := db.Lookup(fields[2])
		if !ok {
			return fmt.Errorf("alias target %q is unknown", fields[2])
		}
		cp := *src
		cp.Label = label
		db.entries[label] = &cp
		return nil
	}
	if len(fields) != 7 {
		return fmt.Errorf("expected 7 fields (label Z A molarmass coh incoh abs) or 3 (label is target), got %d", len(fields))
	}
	z, err := strconv.Atoi(fields[1])
	if err != nil {
		return fmt.Errorf("invalid Z %q: %w", fields[1], err)
	}
	a, err := strconv.Atoi(fields[2])
	if err != nil {
		return fmt.Errorf("invalid A %q: %w", fields[2], err)
	}
	vals := make([]float64, 4)
	for i, f := range fields[3:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return fmt.Errorf("invalid numeric field %q: %w", f, err)
		}
		vals[i] = v
	}
	kind := SingleIsotope
	if a == 0 {
		kind = NaturalElement
	}
	d := &Data{
		Label:             label,
		Kind:              kind,
		Z:                 z,
		A:                 a,
		MolarMass:         vals[0],
		CoherentScatLenFm: vals[1],
		IncoherentXS:      vals[2],
		AbsorptionXS:      vals[3],
	}
	if err := d.Validate(); err != nil {
		return err
	}
	db.entries[label] = d
	return nil
}

// NewMixture builds a synthetic Mixture AtomData from weighted
// components, validating that the fractions sum to 1.
func NewMixture(label string, components []Component) (*Data, error) {
	d := &Data{Label: label, Kind: Mixture, Components: components}
	var molar, coh, incoh, abs float64
	for _, c := range components {
		molar += c.Fraction * c.Data.MolarMass
		coh += c.Fraction * c.Data.CoherentScatLenFm
		incoh += c.Fraction * c.Data.IncoherentXS
		abs += c.Fraction * c.Data.AbsorptionXS
	}
	d.MolarMass, d.CoherentScatLenFm, d.IncoherentXS, d.AbsorptionXS = molar, coh, incoh, abs
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}
