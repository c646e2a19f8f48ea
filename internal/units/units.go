// Package units implements the small suffix grammar MatCfg uses for
// length, angle, and temperature values ("0.5Aa", "20C", "30arcmin"),
// layered on top of github.com/ctessum/unit's dimensional-safety type the
// same way the teacher's io.go checks emissions dimensions before using
// them.
package units

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ctessum/unit"
)

// Kind identifies which suffix table a value should be parsed against.
type Kind int

const (
	Length Kind = iota
	Angle
	Temperature
)

// lengthFactors converts a suffixed length to Ångström.
var lengthFactors = map[string]float64{
	"Aa": 1.0,
	"nm": 10.0,
	"mm": 1e7,
	"cm": 1e8,
	"m":  1e10,
}

// angleFactors converts a suffixed angle to radians.
var angleFactors = map[string]float64{
	"rad":    1.0,
	"deg":    math_Pi / 180.0,
	"arcmin": math_Pi / 180.0 / 60.0,
	"arcsec": math_Pi / 180.0 / 3600.0,
}

const math_Pi = 3.14159265358979323846

// Parse parses a value string of the given kind, returning the value in
// the package's canonical SI-like unit (Å for Length, radians for Angle,
// Kelvin for Temperature) wrapped in a dimension-checked unit.Unit.
//
// Length defaults to "Aa" when no suffix is present; Angle defaults to
// "rad"; Temperature defaults to "K" (a bare number is kelvin), except
// for the special sentinel "-1" meaning "inherit from Info", which
// Parse passes through as -1 with Dimless dimensions so the caller can
// recognize it.
func Parse(kind Kind, s string) (*unit.Unit, error) {
	s = strings.TrimSpace(s)
	switch kind {
	case Length:
		return parseSuffixed(s, lengthFactors, "Aa", unit.Meter)
	case Angle:
		return parseSuffixed(s, angleFactors, "rad", unit.Dimless)
	case Temperature:
		return parseTemperature(s)
	default:
		return nil, fmt.Errorf("units: unknown kind %d", kind)
	}
}

func parseSuffixed(s string, table map[string]float64, def string, dim unit.Dimensions) (*unit.Unit, error) {
	num, suffix := splitNumberSuffix(s)
	if suffix == "" {
		suffix = def
	}
	factor, ok := table[suffix]
	if !ok {
		return nil, fmt.Errorf("units: unrecognized unit suffix %q", suffix)
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return nil, fmt.Errorf("units: invalid numeric value %q: %v", s, err)
	}
	return unit.New(v*factor, dim), nil
}

func parseTemperature(s string) (*unit.Unit, error) {
	if s == "-1" {
		u := unit.New(-1, unit.Dimless)
		return u, nil
	}
	num, suffix := splitNumberSuffix(s)
	if suffix == "" {
		suffix = "K"
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return nil, fmt.Errorf("units: invalid numeric value %q: %v", s, err)
	}
	var kelvin float64
	switch suffix {
	case "K":
		kelvin = v
	case "C":
		kelvin = v + 273.15
	case "F":
		kelvin = (v-32)*5.0/9.0 + 273.15
	default:
		return nil, fmt.Errorf("units: unrecognized temperature suffix %q", suffix)
	}
	return unit.New(kelvin, unit.Kelvin), nil
}

// splitNumberSuffix splits a string like "0.5Aa" into ("0.5","Aa"). The
// suffix is whatever trailing run of non-numeric characters follows the
// leading float literal.
func splitNumberSuffix(s string) (num, suffix string) {
	i := 0
	n := len(s)
	if i < n && (s[i] == '+' || s[i] == '-') {
		i++
	}
	for i < n && (isDigit(s[i]) || s[i] == '.') {
		i++
	}
	if i < n && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < n && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < n && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return s[:i], s[i:]
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
