package ncrystal

import "github.com/vmishra-uu/ncrystal/sab"

// DynamicInfo is the closed set of per-element dynamics variants
// (spec.md §3). It is implemented only by the five types below; the
// unexported marker method keeps it closed to this package, mirroring
// the teacher's Mechanism-interface dispatch style (mechanism.go)
// rather than an open interface any caller could implement badly.
type DynamicInfo interface {
	dynamicInfo()
	// Common returns the fields shared by every variant.
	Common() DynamicInfoCommon
}

// DynamicInfoCommon holds the fields every DynamicInfo variant carries:
// the associated atom, its fraction of the composition, and the
// material temperature.
type DynamicInfoCommon struct {
	AtomIndex   AtomIndex
	Fraction    float64 // in (0,1]
	Temperature float64 // K
}

// Sterile marks an element that does not scatter inelastically.
type Sterile struct {
	DynamicInfoCommon
}

func (Sterile) dynamicInfo()              {}
func (s Sterile) Common() DynamicInfoCommon { return s.DynamicInfoCommon }

// FreeGas is an ideal-gas inelastic kernel, derived at Process-build
// time from Temperature and the atom's mass.
type FreeGas struct {
	DynamicInfoCommon
}

func (FreeGas) dynamicInfo()                {}
func (f FreeGas) Common() DynamicInfoCommon { return f.DynamicInfoCommon }

// ScatKnlDirect is an explicit S(alpha,beta) table, as read directly
// from an NCMAT @DYNINFO scatknl subsection.
type ScatKnlDirect struct {
	DynamicInfoCommon
	Data *sab.SABData
	// RequestedEmax is a caller-suggested upper energy bound for the
	// expanded table, or 0 if the caller left it to the default.
	RequestedEmax float64
}

func (ScatKnlDirect) dynamicInfo()                  {}
func (s ScatKnlDirect) Common() DynamicInfoCommon   { return s.DynamicInfoCommon }

// VDOS is a tabulated phonon density of states on an energy grid,
// which the sab/vdos packages expand into an S(alpha,beta) table.
type VDOS struct {
	DynamicInfoCommon
	EGrid   []float64 // eV
	Density []float64 // matching EGrid
}

func (VDOS) dynamicInfo()              {}
func (v VDOS) Common() DynamicInfoCommon { return v.DynamicInfoCommon }

// VDOSDebye is an idealized quadratic density of states parameterized
// by a single Debye temperature.
type VDOSDebye struct {
	DynamicInfoCommon
	DebyeTemperature float64 // K
}

func (VDOSDebye) dynamicInfo()                { }
func (v VDOSDebye) Common() DynamicInfoCommon { return v.DynamicInfoCommon }
