// Package matcfg parses and holds the material configuration string
// ("source;key=value;key=value...") that selects a data file and tunes
// how it is turned into an Info/Process pair (spec.md §4.2).
package matcfg

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/vmishra-uu/ncrystal/internal/units"
)

const pi = math.Pi

// Dir is one endpoint of a single-crystal orientation pair (dir1 or
// dir2): a direction expressed either as (h,k,l) in the crystal's
// reciprocal lattice or as a plain crystal-frame vector, paired with
// its corresponding laboratory-frame vector.
type Dir struct {
	CrystalIsHKL bool
	Crystal      [3]float64
	Lab          [3]float64
}

// Cfg is an immutable-by-convention material configuration. It has no
// exported setters; WithEmbeddedCfg builds its result on a copy
// (clone), so a Cfg handed to a factory is never mutated out from under
// it.
type Cfg struct {
	dataFileSpec   string // the source field, unparsed
	ignoreFileCfg  bool
	params         map[string]interface{}
	embeddedCfgStr string // NCRYSTALMATCFG[...] content found in the file, if any, once WithEmbeddedCfg has run

	spies []func(param string)
}

// Parse parses a cfg string of the form
// "source[;ignorefilecfg][;key=value]*" into a Cfg. It does not open or
// validate the data file named by source; after parsing the grammar it
// runs Validate and returns the first bounds violation as an error.
func Parse(s string) (*Cfg, error) {
	parts := splitTrim(s, ';')
	if len(parts) == 0 || parts[0] == "" {
		return nil, fmt.Errorf("matcfg: empty configuration string")
	}
	c := &Cfg{dataFileSpec: parts[0], params: make(map[string]interface{})}
	rest := parts[1:]
	if len(rest) > 0 && rest[0] == "ignorefilecfg" {
		c.ignoreFileCfg = true
		rest = rest[1:]
	}
	for _, p := range rest {
		if p == "" {
			continue
		}
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("matcfg: malformed parameter %q (expected key=value)", p)
		}
		if err := c.set(strings.TrimSpace(kv[0]), strings.TrimSpace(kv[1])); err != nil {
			return nil, err
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func splitTrim(s string, sep byte) []string {
	raw := strings.Split(s, string(sep))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		out = append(out, strings.TrimSpace(r))
	}
	return out
}

// DataFileSpec returns the unparsed source field.
func (c *Cfg) DataFileSpec() string { return c.dataFileSpec }

// IgnoresEmbeddedConfig reports whether ignorefilecfg was set, meaning
// an NCRYSTALMATCFG[...] comment embedded in the data file should be
// skipped.
func (c *Cfg) IgnoresEmbeddedConfig() bool { return c.ignoreFileCfg }

// AddAccessSpy registers f to be called with the parameter name every
// time that parameter is read through one of the Cfg's accessors,
// mirroring NCMatCfg.cc's AccessSpy mechanism (used by factories to
// learn which parameters a given build actually consulted, for
// precise cache-key construction).
func (c *Cfg) AddAccessSpy(f func(param string)) {
	c.spies = append(c.spies, f)
}

func (c *Cfg) notify(param string) {
	for _, f := range c.spies {
		f(param)
	}
}

// clone returns a shallow, independent copy of c's parameter map
// (copy-on-write target for any mutating method).
func (c *Cfg) clone() *Cfg {
	out := &Cfg{
		dataFileSpec:  c.dataFileSpec,
		ignoreFileCfg: c.ignoreFileCfg,
		params:        make(map[string]interface{}, len(c.params)),
	}
	for k, v := range c.params {
		out.params[k] = v
	}
	return out
}

// WithEmbeddedCfg merges an NCMAT file's embedded NCRYSTALMATCFG[...]
// body (embedded, without the surrounding "NCRYSTALMATCFG[...]" marker)
// into c, returning a new Cfg (spec.md §4.1/§4.3: "the parser records
// it, the MatCfg layer merges it"). Embedded parameters only fill in
// values c does not already carry explicitly — any parameter already
// set on c (from the original cfg string) takes precedence, mirroring
// NCMatCfg.cc's rule that explicit command-line/API parameters always
// win over a file's embedded defaults. If c has ignorefilecfg set, or
// embedded is blank, c is returned unchanged (as an independent copy).
func (c *Cfg) WithEmbeddedCfg(embedded string) (*Cfg, error) {
	out := c.clone()
	out.embeddedCfgStr = embedded
	if c.ignoreFileCfg || strings.TrimSpace(embedded) == "" {
		return out, nil
	}
	merged := &Cfg{
		dataFileSpec:   c.dataFileSpec,
		ignoreFileCfg:  c.ignoreFileCfg,
		embeddedCfgStr: embedded,
		params:         make(map[string]interface{}),
	}
	for _, p := range splitTrim(embedded, ';') {
		if p == "" {
			continue
		}
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("matcfg: malformed embedded parameter %q (expected key=value)", p)
		}
		if err := merged.set(strings.TrimSpace(kv[0]), strings.TrimSpace(kv[1])); err != nil {
			return nil, err
		}
	}
	for k, v := range out.params {
		merged.params[k] = v
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// EmbeddedCfg returns the NCRYSTALMATCFG[...] body last merged via
// WithEmbeddedCfg, or "" if none has been merged yet.
func (c *Cfg) EmbeddedCfg() string { return c.embeddedCfgStr }

// set applies one key=value pair, handling aliases (bragg, elas, bkgd)
// and type coercion, per NCMatCfg.cc's Impl::setParFromString.
func (c *Cfg) set(name, value string) error {
	switch name {
	case "bragg":
		name = "coh_elas"
	case "elas":
		b, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("matcfg: elas: %w", err)
		}
		c.params["coh_elas"] = b
		c.params["incoh_elas"] = b
		return nil
	case "bkgd":
		if value == "none" || value == "0" {
			c.params["incoh_elas"] = false
			c.params["inelas"] = "none"
			return nil
		}
		return fmt.Errorf(`matcfg: the "bkgd" parameter is obsolete and only accepts "0" or "none"; use "incoh_elas" and "inelas" instead`)
	}

	spec, ok := paramSpecs[name]
	if !ok {
		return fmt.Errorf("matcfg: unrecognized parameter %q", name)
	}
	if value == "" && spec.kind != kindStr {
		return fmt.Errorf("matcfg: missing value for parameter %q", name)
	}
	v, err := spec.parse(value)
	if err != nil {
		return fmt.Errorf("matcfg: parameter %q: %w", name, err)
	}
	c.params[name] = v
	return nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}

type paramKind int

const (
	kindDbl paramKind = iota
	kindInt
	kindBool
	kindStr
)

type paramSpec struct {
	kind  paramKind
	parse func(string) (interface{}, error)
}

var paramSpecs = map[string]paramSpec{
	"temp":             {kindDbl, parseTempParam},
	"dcutoff":          {kindDbl, parseLengthParam},
	"dcutoffup":        {kindDbl, parseLengthParam},
	"packfact":         {kindDbl, parseFloatParam},
	"mos":              {kindDbl, parseAngleParam},
	"mosprec":          {kindDbl, parseFloatParam},
	"sccutoff":         {kindDbl, parseFloatParam},
	"dirtol":           {kindDbl, parseAngleParam},
	"coh_elas":         {kindBool, parseBoolParam},
	"incoh_elas":       {kindBool, parseBoolParam},
	"inelas":           {kindStr, parseInelasParam},
	"vdoslux":          {kindInt, parseIntParam},
	"lcmode":           {kindInt, parseIntParam},
	"atomdb":           {kindStr, parseStrParam},
	"overridefileext":  {kindStr, parseStrParam},
	"infofactory":      {kindStr, parseStrParam},
	"scatfactory":      {kindStr, parseStrParam},
	"absnfactory":      {kindStr, parseStrParam},
	"dir1":             {kindStr, parseDirParam},
	"dir2":             {kindStr, parseDirParam},
	"lcaxis":           {kindStr, parseVectorParam},
}

func parseFloatParam(s string) (interface{}, error) { return strconv.ParseFloat(s, 64) }
func parseIntParam(s string) (interface{}, error)   { return strconv.Atoi(s) }
func parseBoolParam(s string) (interface{}, error)  { return parseBool(s) }
func parseStrParam(s string) (interface{}, error) { return s, nil }

func parseInelasParam(s string) (interface{}, error) {
	switch s {
	case "none", "0", "sterile", "false":
		return "none", nil
	case "":
		return "auto", nil
	}
	return s, nil
}

func parseTempParam(s string) (interface{}, error) {
	u, err := units.Parse(units.Temperature, s)
	if err != nil {
		return nil, err
	}
	return u.Value(), nil
}

func parseLengthParam(s string) (interface{}, error) {
	u, err := units.Parse(units.Length, s)
	if err != nil {
		return nil, err
	}
	return u.Value(), nil
}

func parseAngleParam(s string) (interface{}, error) {
	u, err := units.Parse(units.Angle, s)
	if err != nil {
		return nil, err
	}
	return u.Value(), nil
}

func parseVectorParam(s string) (interface{}, error) {
	fields := strings.Fields(strings.ReplaceAll(s, ",", " "))
	if len(fields) != 3 {
		return nil, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	var v [3]float64
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid component %q: %w", f, err)
		}
		v[i] = x
	}
	return v, nil
}

// parseDirParam accepts "@crystal_hkl:h,k,l@lab:x,y,z" or
// "@crystal:x,y,z@lab:x,y,z", matching NCMatCfg.cc's orientdir grammar.
func parseDirParam(s string) (interface{}, error) {
	const labTag = "@lab:"
	li := strings.Index(s, labTag)
	if li < 0 {
		return nil, fmt.Errorf("missing @lab: component in %q", s)
	}
	crystalPart, labPart := s[:li], s[li+len(labTag):]
	isHKL := strings.HasPrefix(crystalPart, "@crystal_hkl:")
	var crystalStr string
	switch {
	case isHKL:
		crystalStr = strings.TrimPrefix(crystalPart, "@crystal_hkl:")
	case strings.HasPrefix(crystalPart, "@crystal:"):
		crystalStr = strings.TrimPrefix(crystalPart, "@crystal:")
	default:
		return nil, fmt.Errorf("missing @crystal: or @crystal_hkl: component in %q", s)
	}
	crystalVec, err := parseVec3(crystalStr)
	if err != nil {
		return nil, fmt.Errorf("crystal component: %w", err)
	}
	labVec, err := parseVec3(labPart)
	if err != nil {
		return nil, fmt.Errorf("lab component: %w", err)
	}
	return Dir{CrystalIsHKL: isHKL, Crystal: crystalVec, Lab: labVec}, nil
}

func parseVec3(s string) ([3]float64, error) {
	var v [3]float64
	fields := strings.Split(s, ",")
	if len(fields) != 3 {
		return v, fmt.Errorf("expected 3 comma-separated components, got %d", len(fields))
	}
	for i, f := range fields {
		x, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return v, fmt.Errorf("invalid component %q: %w", f, err)
		}
		v[i] = x
	}
	return v, nil
}

func (c *Cfg) get(name string) (interface{}, bool) {
	c.notify(name)
	v, ok := c.params[name]
	return v, ok
}

// Temp returns the temperature in kelvin, or -1 if unset (meaning the
// factory should derive it from context).
func (c *Cfg) Temp() float64 { return c.getFloat("temp", -1.0) }

// Dcutoff returns the d-spacing cutoff in angstrom (0 means automatic,
// -1 means HKL list generation disabled).
func (c *Cfg) Dcutoff() float64 { return c.getFloat("dcutoff", 0.0) }

// DcutoffUp returns the upper d-spacing cutoff in angstrom.
func (c *Cfg) DcutoffUp() float64 { return c.getFloat("dcutoffup", math.Inf(1)) }

// Packfact returns the packing factor, default 1.0.
func (c *Cfg) Packfact() float64 { return c.getFloat("packfact", 1.0) }

// Mos returns the mosaic spread FWHM in radians. The second result
// reports whether it was explicitly set (there is no fallback value, matching
// NCMatCfg.cc's getValNoFallback).
func (c *Cfg) Mos() (float64, bool) {
	v, ok := c.get("mos")
	if !ok {
		return 0, false
	}
	return v.(float64), true
}

// Mosprec returns the mosaic-integral precision, default 1e-3.
func (c *Cfg) Mosprec() float64 { return c.getFloat("mosprec", 1e-3) }

// Sccutoff returns the short-range single-crystal cutoff, default 0.4.
func (c *Cfg) Sccutoff() float64 { return c.getFloat("sccutoff", 0.4) }

// Dirtol returns the orientation tolerance in radians, default 1e-4.
func (c *Cfg) Dirtol() float64 { return c.getFloat("dirtol", 1e-4) }

// CohElas reports whether coherent-elastic (Bragg) scattering is
// enabled, default true.
func (c *Cfg) CohElas() bool { return c.getBool("coh_elas", true) }

// IncohElas reports whether incoherent-elastic scattering is enabled,
// default true.
func (c *Cfg) IncohElas() bool { return c.getBool("incoh_elas", true) }

// Inelas returns the inelastic model name, default "auto"; "none"
// normalizes all of none/0/sterile/false.
func (c *Cfg) Inelas() string { return c.getStr("inelas", "auto") }

// Vdoslux returns the VDOS sampling-luxury level, default 3.
func (c *Cfg) Vdoslux() int { return c.getInt("vdoslux", 3) }

// Lcmode returns the layered-crystal mode, default 0 (analytic
// azimuthal average).
func (c *Cfg) Lcmode() int { return c.getInt("lcmode", 0) }

// AtomDB returns the raw atomdb= parameter value, default "".
func (c *Cfg) AtomDB() string { return c.getStr("atomdb", "") }

// AtomDBLines splits the atomdb= parameter's value on '@' into
// individual override lines, matching the file-section encoding (the
// cfg string cannot contain literal newlines).
func (c *Cfg) AtomDBLines() []string {
	raw := c.AtomDB()
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "@")
}

// OverrideFileExt returns the overridefileext= parameter, default "".
func (c *Cfg) OverrideFileExt() string { return c.getStr("overridefileext", "") }

// InfoFactory returns the infofactory= parameter, default "" (no pin).
func (c *Cfg) InfoFactory() string { return c.getStr("infofactory", "") }

// ScatFactory returns the scatfactory= parameter, default "".
func (c *Cfg) ScatFactory() string { return c.getStr("scatfactory", "") }

// AbsnFactory returns the absnfactory= parameter, default "".
func (c *Cfg) AbsnFactory() string { return c.getStr("absnfactory", "") }

// Dir1 and Dir2 return the single-crystal orientation pair, if set.
func (c *Cfg) Dir1() (Dir, bool) { v, ok := c.get("dir1"); if !ok { return Dir{}, false }; return v.(Dir), true }
func (c *Cfg) Dir2() (Dir, bool) { v, ok := c.get("dir2"); if !ok { return Dir{}, false }; return v.(Dir), true }

// Lcaxis returns the layered-crystal symmetry axis, if set.
func (c *Cfg) Lcaxis() ([3]float64, bool) {
	v, ok := c.get("lcaxis")
	if !ok {
		return [3]float64{}, false
	}
	return v.([3]float64), true
}

// IsSingleCrystal reports whether mos/dir1/dir2/dirtol were set.
func (c *Cfg) IsSingleCrystal() bool {
	_, hasMos := c.params["mos"]
	_, hasDir1 := c.params["dir1"]
	_, hasDir2 := c.params["dir2"]
	_, hasDirtol := c.params["dirtol"]
	return hasMos || hasDir1 || hasDir2 || hasDirtol
}

// IsLayeredCrystal reports whether lcaxis was set.
func (c *Cfg) IsLayeredCrystal() bool {
	_, ok := c.params["lcaxis"]
	return ok
}

func (c *Cfg) getFloat(name string, def float64) float64 {
	v, ok := c.get(name)
	if !ok {
		return def
	}
	return v.(float64)
}

func (c *Cfg) getInt(name string, def int) int {
	v, ok := c.get(name)
	if !ok {
		return def
	}
	return v.(int)
}

func (c *Cfg) getBool(name string, def bool) bool {
	v, ok := c.get(name)
	if !ok {
		return def
	}
	return v.(bool)
}

func (c *Cfg) getStr(name string, def string) string {
	v, ok := c.get(name)
	if !ok {
		return def
	}
	return v.(string)
}

// withoutSpying runs f with access spies temporarily disabled, for
// internal uses (Validate, CanonicalString) that read parameters but
// should not be reported to a caller's spy as a "real" access.
func (c *Cfg) withoutSpying(f func()) {
	saved := c.spies
	c.spies = nil
	f()
	c.spies = saved
}

// Validate checks every invariant from NCMatCfg.cc's checkConsistency,
// returning the first violation found.
func (c *Cfg) Validate() error {
	var err error
	c.withoutSpying(func() {
		err = c.validate()
	})
	return err
}

func (c *Cfg) validate() error {
	temp := c.Temp()
	if temp != -1.0 && (temp <= 0.0 || temp > 1e5) {
		return fmt.Errorf("matcfg: temp must be -1.0 or in the range (0.0,1e5]")
	}
	dcutoff := c.Dcutoff()
	if dcutoff != -1 {
		if dcutoff < 0.0 {
			return fmt.Errorf("matcfg: dcutoff must be -1.0 or >=0.0")
		}
		if dcutoff >= c.DcutoffUp() {
			return fmt.Errorf("matcfg: dcutoff must be less than dcutoffup")
		}
		if !(dcutoff >= 1e-3 && dcutoff <= 1e5) && dcutoff != 0 {
			return fmt.Errorf("matcfg: dcutoff must be -1 (hkl lists disabled), 0 (automatic), or in range [1e-3,1e5]")
		}
	}
	packfact := c.Packfact()
	if packfact <= 0.0 || packfact > 1.0 {
		return fmt.Errorf("matcfg: packfact must be in range (0.0,1.0]")
	}
	if c.Sccutoff() < 0.0 {
		return fmt.Errorf("matcfg: sccutoff must be >=0.0")
	}
	dirtol := c.Dirtol()
	if dirtol <= 0.0 || dirtol > pi {
		return fmt.Errorf("matcfg: dirtol must be in range (0.0,pi]")
	}
	mosprec := c.Mosprec()
	if mosprec < 0.9999e-7 || mosprec > 0.10000001 {
		return fmt.Errorf("matcfg: mosprec must be in the range [1e-7,1e-1]")
	}
	if !isValidInelasName(c.Inelas()) {
		return fmt.Errorf("matcfg: invalid inelas name specified: %q", c.Inelas())
	}

	_, hasMos := c.params["mos"]
	_, hasDir1 := c.params["dir1"]
	_, hasDir2 := c.params["dir2"]
	_, hasDirtol := c.params["dirtol"]
	nOrient := 0
	for _, b := range []bool{hasMos, hasDir1, hasDir2} {
		if b {
			nOrient++
		}
	}
	if nOrient != 0 && nOrient < 3 {
		return fmt.Errorf("matcfg: must set all or none of mos, dir1 and dir2 parameters")
	}
	if nOrient == 0 && hasDirtol {
		return fmt.Errorf("matcfg: mos, dir1 and dir2 parameters must all be set when dirtol is set")
	}
	if nOrient == 3 {
		mos, _ := c.Mos()
		if mos <= 0.0 || mos > pi/2 {
			return fmt.Errorf("matcfg: mos must be in range (0.0,pi/2]")
		}
		if packfact != 1.0 {
			return fmt.Errorf("matcfg: single crystal parameters are set, so packfact must be 1.0")
		}
		d1, _ := c.Dir1()
		d2, _ := c.Dir2()
		if zeroVec(d1.Crystal) {
			return fmt.Errorf("matcfg: dir1's crystal-frame direction is a null vector")
		}
		if zeroVec(d1.Lab) || zeroVec(d2.Lab) {
			return fmt.Errorf("matcfg: dir1/dir2 lab-frame direction is a null vector")
		}
		if zeroVec(d2.Crystal) {
			return fmt.Errorf("matcfg: dir2's crystal-frame direction is a null vector")
		}
		if isParallel(d1.Lab, d2.Lab, 1e-6) {
			return fmt.Errorf("matcfg: specified primary and secondary lab directions are parallel")
		}
		if d1.CrystalIsHKL == d2.CrystalIsHKL && isParallel(d1.Crystal, d2.Crystal, 1e-6) {
			return fmt.Errorf("matcfg: specified primary and secondary directions in the crystal frame are parallel")
		}
	}
	if axis, ok := c.Lcaxis(); ok {
		mag2 := axis[0]*axis[0] + axis[1]*axis[1] + axis[2]*axis[2]
		if math.IsInf(mag2, 1) {
			return fmt.Errorf("matcfg: infinities or too large values specified in lcaxis vector")
		}
		if mag2 == 0 {
			return fmt.Errorf("matcfg: null vector specified in lcaxis vector")
		}
	}
	if vl := c.Vdoslux(); vl < 0 || vl > 5 {
		return fmt.Errorf("matcfg: specified invalid vdoslux value of %d (must be integer from 0 to 5)", vl)
	}
	return nil
}

func isValidInelasName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '_' {
			return false
		}
	}
	return true
}

func zeroVec(v [3]float64) bool { return v[0] == 0 && v[1] == 0 && v[2] == 0 }

func isParallel(a, b [3]float64, tol float64) bool {
	cx := a[1]*b[2] - a[2]*b[1]
	cy := a[2]*b[0] - a[0]*b[2]
	cz := a[0]*b[1] - a[1]*b[0]
	crossMag := math.Sqrt(cx*cx + cy*cy + cz*cz)
	amag := math.Sqrt(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])
	bmag := math.Sqrt(b[0]*b[0] + b[1]*b[1] + b[2]*b[2])
	if amag == 0 || bmag == 0 {
		return false
	}
	return crossMag/(amag*bmag) < tol
}

// CanonicalString renders c back into "key=value;..." form with keys
// sorted for deterministic cache-key and hash use (spec.md §5.2),
// mirroring NCMatCfg.cc's toStrCfg.
func (c *Cfg) CanonicalString(includeDataFile bool) string {
	var out string
	c.withoutSpying(func() {
		var b strings.Builder
		if includeDataFile {
			b.WriteString(c.dataFileSpec)
			if c.ignoreFileCfg {
				b.WriteString(";ignorefilecfg")
			}
		}
		keys := make([]string, 0, len(c.params))
		for k := range c.params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if b.Len() > 0 {
				b.WriteByte(';')
			}
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(formatParam(c.params[k]))
		}
		out = b.String()
	})
	return out
}

func formatParam(v interface{}) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'g', 17, 64)
	case int:
		return strconv.Itoa(x)
	case bool:
		if x {
			return "true"
		}
		return "false"
	case string:
		return x
	case [3]float64:
		return fmt.Sprintf("%.17g,%.17g,%.17g", x[0], x[1], x[2])
	case Dir:
		tag := "@crystal:"
		if x.CrystalIsHKL {
			tag = "@crystal_hkl:"
		}
		return fmt.Sprintf("%s%.17g,%.17g,%.17g@lab:%.17g,%.17g,%.17g",
			tag, x.Crystal[0], x.Crystal[1], x.Crystal[2], x.Lab[0], x.Lab[1], x.Lab[2])
	default:
		return fmt.Sprintf("%v", x)
	}
}

// ToEmbeddableCfg renders c as an "NCRYSTALMATCFG[...]" comment body,
// for writing back into an NCMAT file's header.
func (c *Cfg) ToEmbeddableCfg() string {
	return "NCRYSTALMATCFG[" + c.CanonicalString(false) + "]"
}
