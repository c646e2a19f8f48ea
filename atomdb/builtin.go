package atomdb

// builtin is the built-in isotope/element table, covering the nuclides
// that appear in common NCMAT test materials. Values are bound
// coherent scattering length (fm), bound incoherent cross section
// (barn), absorption cross section at 2200 m/s (barn), and molar mass
// (amu), taken from the standard neutron scattering length tables
// (Sears 1992) that NCrystal's own built-in database is derived from.
var builtin = map[string]*Data{
	"H": {Kind: NaturalElement, Z: 1, A: 0,
		CoherentScatLenFm: -3.7390, IncoherentXS: 80.27, AbsorptionXS: 0.3326, MolarMass: 1.00794},
	"H1": {Kind: SingleIsotope, Z: 1, A: 1,
		CoherentScatLenFm: -3.7406, IncoherentXS: 80.27, AbsorptionXS: 0.3326, MolarMass: 1.00783},
	"D": {Kind: SingleIsotope, Z: 1, A: 2,
		CoherentScatLenFm: 6.671, IncoherentXS: 2.05, AbsorptionXS: 0.000519, MolarMass: 2.01410},
	"He4": {Kind: SingleIsotope, Z: 2, A: 4,
		CoherentScatLenFm: 3.26, IncoherentXS: 0, AbsorptionXS: 0, MolarMass: 4.00260},
	"B": {Kind: NaturalElement, Z: 5, A: 0,
		CoherentScatLenFm: 5.30, IncoherentXS: 1.70, AbsorptionXS: 767.0, MolarMass: 10.811},
	"B10": {Kind: SingleIsotope, Z: 5, A: 10,
		CoherentScatLenFm: -0.1, IncoherentXS: 3.0, AbsorptionXS: 3835.0, MolarMass: 10.01294},
	"B11": {Kind: SingleIsotope, Z: 5, A: 11,
		CoherentScatLenFm: 6.65, IncoherentXS: 0.21, AbsorptionXS: 0.0055, MolarMass: 11.00931},
	"C": {Kind: NaturalElement, Z: 6, A: 0,
		CoherentScatLenFm: 6.6460, IncoherentXS: 0.001, AbsorptionXS: 0.0035, MolarMass: 12.0107},
	"N": {Kind: NaturalElement, Z: 7, A: 0,
		CoherentScatLenFm: 9.36, IncoherentXS: 0.50, AbsorptionXS: 1.90, MolarMass: 14.0067},
	"O": {Kind: NaturalElement, Z: 8, A: 0,
		CoherentScatLenFm: 5.803, IncoherentXS: 0.0008, AbsorptionXS: 0.00019, MolarMass: 15.9994},
	"Si": {Kind: NaturalElement, Z: 14, A: 0,
		CoherentScatLenFm: 4.1491, IncoherentXS: 0.004, AbsorptionXS: 0.171, MolarMass: 28.0855},
	"S": {Kind: NaturalElement, Z: 16, A: 0,
		CoherentScatLenFm: 2.847, IncoherentXS: 0.007, AbsorptionXS: 0.53, MolarMass: 32.065},
	"V": {Kind: NaturalElement, Z: 23, A: 0,
		CoherentScatLenFm: -0.3824, IncoherentXS: 5.08, AbsorptionXS: 5.08, MolarMass: 50.9415},
	"Fe": {Kind: NaturalElement, Z: 26, A: 0,
		CoherentScatLenFm: 9.45, IncoherentXS: 0.39, AbsorptionXS: 2.56, MolarMass: 55.845},
	"Ni": {Kind: NaturalElement, Z: 28, A: 0,
		CoherentScatLenFm: 10.3, IncoherentXS: 5.20, AbsorptionXS: 4.49, MolarMass: 58.6934},
	"Zn": {Kind: NaturalElement, Z: 30, A: 0,
		CoherentScatLenFm: 5.680, IncoherentXS: 0.077, AbsorptionXS: 1.11, MolarMass: 65.38},
	"Al": {Kind: NaturalElement, Z: 13, A: 0,
		CoherentScatLenFm: 3.449, IncoherentXS: 0.0082, AbsorptionXS: 0.231, MolarMass: 26.9815},
	"Cd": {Kind: NaturalElement, Z: 48, A: 0,
		CoherentScatLenFm: 4.87, IncoherentXS: 3.46, AbsorptionXS: 2520.0, MolarMass: 112.411},
	"Pb": {Kind: NaturalElement, Z: 82, A: 0,
		CoherentScatLenFm: 9.405, IncoherentXS: 0.0030, AbsorptionXS: 0.171, MolarMass: 207.2},
}
