package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Sterile is the null inelastic process: zero cross section, sampling
// returns the neutron unchanged (spec.md §4.7).
type Sterile struct{}

func (Sterile) CrossSectionIsotropic(float64) (float64, error)           { return 0, nil }
func (Sterile) CrossSectionOriented(r3.Vec, float64) (float64, error)    { return 0, nil }
func (Sterile) Domain() (float64, float64)                               { return 0, math.Inf(1) }
func (Sterile) SampleScatter(dir r3.Vec, e float64, _ RNG) (r3.Vec, float64, error) {
	return dir, e, nil
}
