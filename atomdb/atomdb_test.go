package atomdb

import "testing"

func TestDefaultLookup(t *testing.T) {
	db := NewDefault()
	al, ok := db.Lookup("Al")
	if !ok {
		t.Fatalf("expected Al in default db")
	}
	if al.Kind != NaturalElement || al.Z != 13 {
		t.Fatalf("unexpected Al entry: %+v", al)
	}
	if err := al.Validate(); err != nil {
		t.Fatalf("Al should validate: %v", err)
	}
}

func TestEmptyDBHasNoDefaults(t *testing.T) {
	db := NewEmpty()
	if _, ok := db.Lookup("Al"); ok {
		t.Fatalf("nodefaults db should not contain Al")
	}
}

func TestApplyLinesOverrideAndAlias(t *testing.T) {
	db := NewDefault()
	err := db.ApplyLines([]string{
		"MyAl 13 27 26.9815 3.5 0.01 0.25",
		"AlAlias is MyAl",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, ok := db.Lookup("MyAl")
	if !ok || d.CoherentScatLenFm != 3.5 {
		t.Fatalf("override did not take effect: %+v", d)
	}
	alias, ok := db.Lookup("AlAlias")
	if !ok || alias.CoherentScatLenFm != 3.5 {
		t.Fatalf("alias did not copy target: %+v", alias)
	}
}

func TestApplyLinesRejectsNodefaultsNotFirst(t *testing.T) {
	db := NewDefault()
	err := db.ApplyLines([]string{
		"MyAl 13 27 26.9815 3.5 0.01 0.25",
		"nodefaults",
	})
	if err == nil {
		t.Fatalf("expected error for misplaced nodefaults")
	}
}

func TestNewMixture(t *testing.T) {
	db := NewDefault()
	h, _ := db.Lookup("H")
	d, _ := db.Lookup("D")
	mix, err := NewMixture("HD50", []Component{
		{Fraction: 0.5, Data: h},
		{Fraction: 0.5, Data: d},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantMass := 0.5*h.MolarMass + 0.5*d.MolarMass
	if mix.MolarMass != wantMass {
		t.Fatalf("mixture molar mass = %g, want %g", mix.MolarMass, wantMass)
	}
}

func TestNewMixtureRejectsBadFractions(t *testing.T) {
	db := NewDefault()
	h, _ := db.Lookup("H")
	_, err := NewMixture("bad", []Component{{Fraction: 0.4, Data: h}})
	if err == nil {
		t.Fatalf("expected error for fractions not summing to 1")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	db := NewDefault()
	clone := db.Clone()
	clone.ApplyLines([]string{"MyAl 13 27 26.9815 3.5 0.01 0.25"})
	if _, ok := db.Lookup("MyAl"); ok {
		t.Fatalf("mutating clone should not affect original")
	}
}
