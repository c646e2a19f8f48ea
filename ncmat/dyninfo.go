package ncmat

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// closeDynInfo parses one @DYNINFO subsection's keyword lines into a
// DynInfo, per spec.md §4.1.
func (p *parser) closeDynInfo(lines []string) error {
	kv := map[string][]string{}
	for _, l := range lines {
		f := strings.Fields(l)
		if len(f) < 2 {
			return p.err("@DYNINFO: line must be \"key value...\", got %q", l)
		}
		kv[f[0]] = append(kv[f[0]], f[1:]...)
	}

	d := DynInfo{}
	elem, ok := kv["element"]
	if !ok || len(elem) != 1 {
		return p.err("@DYNINFO: missing or malformed \"element\" key")
	}
	d.Element = elem[0]

	fracTok, ok := kv["fraction"]
	if !ok || len(fracTok) != 1 {
		return p.err("@DYNINFO: missing or malformed \"fraction\" key")
	}
	frac, err := strconv.ParseFloat(fracTok[0], 64)
	if err != nil || frac <= 0 || frac > 1 {
		return p.err("@DYNINFO: fraction must be a number in (0,1]")
	}
	d.Fraction = frac

	typeTok, ok := kv["type"]
	if !ok || len(typeTok) != 1 {
		return p.err("@DYNINFO: missing or malformed \"type\" key")
	}
	switch typeTok[0] {
	case "scatknl":
		d.Type = DynScatKnl
	case "vdos":
		d.Type = DynVDOS
	case "vdosdebye":
		d.Type = DynVDOSDebye
	case "freegas":
		d.Type = DynFreeGas
	case "sterile":
		d.Type = DynSterile
	default:
		return p.err("@DYNINFO: unrecognized type %q", typeTok[0])
	}

	switch d.Type {
	case DynVDOS:
		egridToks, ok := kv["vdos_egrid"]
		if !ok {
			return p.err("@DYNINFO type=vdos requires vdos_egrid")
		}
		egrid, err := expandRunLength(egridToks)
		if err != nil {
			return p.err("@DYNINFO vdos_egrid: %v", err)
		}
		if len(egrid) != 2 {
			if err := requireAscendingNonNeg(egrid); err != nil {
				return p.err("@DYNINFO vdos_egrid: %v", err)
			}
		} else if egrid[0] < 0 || egrid[1] <= egrid[0] {
			return p.err("@DYNINFO vdos_egrid: [Emin,Emax] must satisfy 0<=Emin<Emax")
		}
		d.VDOSEgrid = egrid

		densToks, ok := kv["vdos_density"]
		if !ok {
			return p.err("@DYNINFO type=vdos requires vdos_density")
		}
		dens, err := expandRunLength(densToks)
		if err != nil {
			return p.err("@DYNINFO vdos_density: %v", err)
		}
		for _, v := range dens {
			if v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
				return p.err("@DYNINFO vdos_density: values must be finite and >=0")
			}
		}
		if len(egrid) == 2 && len(dens) < 2 {
			return p.err("@DYNINFO vdos_density: must have at least 2 points")
		}
		d.VDOSDensity = dens
	case DynScatKnl:
		alphaToks, ok := kv["alphagrid"]
		if !ok {
			return p.err("@DYNINFO type=scatknl requires alphagrid")
		}
		alpha, err := expandRunLength(alphaToks)
		if err != nil {
			return p.err("@DYNINFO alphagrid: %v", err)
		}
		if err := requireAscendingNonNeg(alpha); err != nil {
			return p.err("@DYNINFO alphagrid: %v", err)
		}
		d.AlphaGrid = alpha

		betaToks, ok := kv["betagrid"]
		if !ok {
			return p.err("@DYNINFO type=scatknl requires betagrid")
		}
		beta, err := expandRunLength(betaToks)
		if err != nil {
			return p.err("@DYNINFO betagrid: %v", err)
		}
		if err := requireAscending(beta); err != nil {
			return p.err("@DYNINFO betagrid: %v", err)
		}
		d.BetaGrid = beta

		sabToks, hasSab := kv["sab"]
		sabScaledToks, hasSabScaled := kv["sab_scaled"]
		if hasSab == hasSabScaled {
			return p.err("@DYNINFO type=scatknl requires exactly one of sab or sab_scaled")
		}
		var raw []string
		if hasSab {
			raw = sabToks
		} else {
			raw = sabScaledToks
			d.SABScaled = true
		}
		sab, err := expandRunLength(raw)
		if err != nil {
			return p.err("@DYNINFO sab: %v", err)
		}
		want := len(alpha) * len(beta)
		if len(sab) != want {
			return p.err("@DYNINFO sab: expected %d values (|alpha|*|beta|), got %d", want, len(sab))
		}
		for _, v := range sab {
			if v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
				return p.err("@DYNINFO sab: values must be finite and >=0")
			}
		}
		d.SAB = sab
	case DynVDOSDebye, DynFreeGas, DynSterile:
		// no type-specific keys beyond the common ones.
	}

	p.data.DynInfos = append(p.data.DynInfos, d)
	return nil
}

func requireAscending(v []float64) error {
	for i := 1; i < len(v); i++ {
		if v[i] <= v[i-1] {
			return fmt.Errorf("grid must be strictly ascending")
		}
	}
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("grid values must be finite")
		}
	}
	return nil
}

func requireAscendingNonNeg(v []float64) error {
	if err := requireAscending(v); err != nil {
		return err
	}
	for _, x := range v {
		if x < 0 {
			return fmt.Errorf("grid values must be >=0")
		}
	}
	return nil
}
