package ncrystal

import (
	"math"
	"sort"
	"sync/atomic"

	"github.com/vmishra-uu/ncrystal/atomdb"
)

// StructureInfo is the crystallographic unit cell description (spec.md
// §3). SpaceGroup is 0 for "unknown".
type StructureInfo struct {
	SpaceGroup      int
	LatticeLengths  [3]float64 // angstrom
	LatticeAngles   [3]float64 // degrees
	Volume          float64    // angstrom^3, derived
	AtomsPerCell    int
}

// Validate checks the StructureInfo invariants.
func (s *StructureInfo) Validate() error {
	for _, l := range s.LatticeLengths {
		if l <= 0 {
			return NewBadInput("", 0, "lattice lengths must be > 0")
		}
	}
	for _, a := range s.LatticeAngles {
		if a <= 0 || a >= 180 {
			return NewBadInput("", 0, "lattice angles must be strictly in (0,180) degrees")
		}
	}
	return nil
}

// CellVolume computes the triclinic unit cell volume from lengths
// (angstrom) and angles (degrees), per the standard formula used by
// NCMatCfg/NCInfo's structure builder.
func CellVolume(lengths, anglesDeg [3]float64) float64 {
	a, b, c := lengths[0], lengths[1], lengths[2]
	toRad := math.Pi / 180.0
	alpha, beta, gamma := anglesDeg[0]*toRad, anglesDeg[1]*toRad, anglesDeg[2]*toRad
	cosA, cosB, cosG := math.Cos(alpha), math.Cos(beta), math.Cos(gamma)
	term := 1 - cosA*cosA - cosB*cosB - cosG*cosG + 2*cosA*cosB*cosG
	if term < 0 {
		term = 0
	}
	return a * b * c * math.Sqrt(term)
}

// AtomIndex identifies an AtomInfo entry, stable within one Info.
type AtomIndex int

// AtomInfo is one indexed role within an Info (spec.md §3).
type AtomInfo struct {
	Index              AtomIndex
	Data               *atomdb.Data
	Multiplicity       int
	DebyeTemperature   float64   // K; 0 if absent
	FractionalPositions [][3]float64 // len == Multiplicity if present
	MSD                float64   // angstrom^2; 0 if absent
}

// Validate checks the AtomInfo invariants (positions modulo 1).
func (a *AtomInfo) Validate() error {
	if a.FractionalPositions != nil && len(a.FractionalPositions) != a.Multiplicity {
		return NewBadInput("", 0, "atom %d: fractional positions count must equal multiplicity", a.Index)
	}
	for _, p := range a.FractionalPositions {
		for _, x := range p {
			if x < 0 || x >= 1 {
				return NewBadInput("", 0, "atom %d: fractional position component %v not in [0,1)", a.Index, x)
			}
		}
	}
	return nil
}

// HKLInfo is one Bragg reflection family (spec.md §3).
type HKLInfo struct {
	DSpacing      float64 // angstrom
	FSquared      float64 // barn
	H, K, L       int
	Multiplicity  int
	DemiNormals   [][3]float64 // unit vectors, len == Multiplicity/2 if present
	EquivalentHKL [][3]int     // paired lockstep with DemiNormals
}

// Validate checks the HKLInfo invariants.
func (h *HKLInfo) Validate() error {
	if h.DSpacing <= 0 {
		return NewBadInput("", 0, "HKL (%d,%d,%d): d-spacing must be > 0", h.H, h.K, h.L)
	}
	if h.DemiNormals != nil {
		if h.Multiplicity != 2*len(h.DemiNormals) {
			return NewBadInput("", 0, "HKL (%d,%d,%d): multiplicity must equal 2*len(demi-normals)", h.H, h.K, h.L)
		}
		if h.EquivalentHKL != nil && len(h.EquivalentHKL) != len(h.DemiNormals) {
			return NewBadInput("", 0, "HKL (%d,%d,%d): equivalent-hkl table must be lockstep with demi-normals", h.H, h.K, h.L)
		}
	}
	return nil
}

// SortHKLByDSpacingDescending sorts hkls in place, largest d-spacing
// first, per spec.md §3.
func SortHKLByDSpacingDescending(hkls []HKLInfo) {
	sort.Slice(hkls, func(i, j int) bool { return hkls[i].DSpacing > hkls[j].DSpacing })
}

// SortAtomInfoByZDescending sorts ais in place, largest Z first.
func SortAtomInfoByZDescending(ais []AtomInfo) {
	sort.Slice(ais, func(i, j int) bool { return ais[i].Data.Z > ais[j].Data.Z })
}

var nextInfoUID uint64

// Info is the immutable, sealed aggregate describing one material
// (spec.md §3, §9). It is built incrementally by a factory/builder and
// locked before being handed to a caller; any further mutation attempt
// returns a LogicError. Info is shared by reference (ref-counted) by
// every Process constructed from it; Release decrements the count and
// the backing data is eligible for collection at zero — ref-counting is
// advisory bookkeeping here (Go's GC reclaims the memory regardless);
// factory.ClearCaches() does not consult it before evicting an Info
// from the cache.
type Info struct {
	uid uint64

	Structure   *StructureInfo
	AtomInfos   []AtomInfo
	HKLs        []HKLInfo
	DynInfos    []DynamicInfo
	Composition []CompositionEntry

	Density       float64 // g/cm^3; 0 if not set
	NumberDensity float64 // atoms/angstrom^3; 0 if not set
	Temperature   float64 // K
	GlobalDebyeTemperature float64 // K; 0 if absent
	FreeScatteringXS       float64 // barn; 0 if absent
	AbsorptionXS           float64 // barn; 0 if absent

	CustomSections map[string][][]string // section name -> lines, each line a list of words

	locked   bool
	refcount int32
}

// CompositionEntry is one element's role in the overall composition.
type CompositionEntry struct {
	AtomIndex AtomIndex
	Fraction  float64 // number fraction, sums to 1 across all entries
}

// NewInfo returns an empty, unlocked Info with a fresh process-wide
// unique id.
func NewInfo() *Info {
	return &Info{uid: atomic.AddUint64(&nextInfoUID, 1), refcount: 1}
}

// UID returns the process-wide unique id assigned at construction.
func (i *Info) UID() uint64 { return i.uid }

// Acquire increments the Info's refcount, for a Process that shares it.
func (i *Info) Acquire() { atomic.AddInt32(&i.refcount, 1) }

// Release decrements the Info's refcount.
func (i *Info) Release() { atomic.AddInt32(&i.refcount, -1) }

// RefCount returns the current refcount, mainly for tests/diagnostics.
func (i *Info) RefCount() int32 { return atomic.LoadInt32(&i.refcount) }

// IsLocked reports whether Seal has been called.
func (i *Info) IsLocked() bool { return i.locked }

// Seal locks the Info against further mutation. It is idempotent.
func (i *Info) Seal() { i.locked = true }

func (i *Info) checkMutable() error {
	if i.locked {
		return NewLogicError("attempt to mutate a sealed Info")
	}
	return nil
}

// SetStructure attaches StructureInfo, deriving Volume if not already
// set.
func (i *Info) SetStructure(s *StructureInfo) error {
	if err := i.checkMutable(); err != nil {
		return err
	}
	if s != nil && s.Volume == 0 {
		s.Volume = CellVolume(s.LatticeLengths, s.LatticeAngles)
	}
	i.Structure = s
	return nil
}

// AddAtomInfo appends one AtomInfo, validating its invariants.
func (i *Info) AddAtomInfo(a AtomInfo) error {
	if err := i.checkMutable(); err != nil {
		return err
	}
	if err := a.Validate(); err != nil {
		return err
	}
	i.AtomInfos = append(i.AtomInfos, a)
	return nil
}

// AddHKL appends one HKLInfo, validating its invariants.
func (i *Info) AddHKL(h HKLInfo) error {
	if err := i.checkMutable(); err != nil {
		return err
	}
	if err := h.Validate(); err != nil {
		return err
	}
	i.HKLs = append(i.HKLs, h)
	return nil
}

// AddDynInfo appends one DynamicInfo.
func (i *Info) AddDynInfo(d DynamicInfo) error {
	if err := i.checkMutable(); err != nil {
		return err
	}
	i.DynInfos = append(i.DynInfos, d)
	return nil
}

// HasDensity reports whether Density or NumberDensity has been set.
func (i *Info) HasDensity() bool { return i.Density > 0 || i.NumberDensity > 0 }

// SeekAtomByIndex finds an AtomInfo by index, for composition/dyninfo
// resolution.
func (i *Info) SeekAtomByIndex(idx AtomIndex) (*AtomInfo, bool) {
	for k := range i.AtomInfos {
		if i.AtomInfos[k].Index == idx {
			return &i.AtomInfos[k], true
		}
	}
	return nil, false
}
