// Package thermal implements a glider soaring near a thermal updraft.
//
// The thermal is modeled as a Gaussian "goodness" field centred at
// distance 0 from the glider. The glider observes its distance to the
// thermal centre (and, in the two-dimensional variant, its height) and
// chooses a heading relative to the line joining it to the centre, or
// in the two-dimensional variant, chooses to orbit at its current
// distance.
package thermal

import (
	"fmt"
	"math"
)

// Thermal is a Gaussian goodness field with standard deviation Radius,
// centred at distance 0
type Thermal struct {
	Radius float64
}

// NewThermal returns a new Thermal with the given radius (standard
// deviation of the goodness field)
func NewThermal(radius float64) (Thermal, error) {
	if radius <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return Thermal{}, fmt.Errorf("newthermal: radius must be positive "+
			"and finite\n\thave(%v)", radius)
	}
	return Thermal{Radius: radius}, nil
}

// Goodness returns the goodness of being dist away from the thermal
// centre. Goodness is 1 at the centre and decays as a Gaussian.
func (t Thermal) Goodness(dist float64) float64 {
	return math.Exp(-(dist * dist) / (2 * t.Radius * t.Radius))
}
