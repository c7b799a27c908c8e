package thermal

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Mode determines which state variables the glider observes
type Mode string

const (
	// OneD gliders observe only their distance to the thermal centre
	OneD Mode = "1d"

	// TwoD gliders observe their distance to the thermal centre and
	// their height, and may orbit the thermal
	TwoD Mode = "2d"
)

// Features returns the number of state features in the Mode
func (m Mode) Features() (int, error) {
	switch m {
	case OneD:
		return 1, nil
	case TwoD:
		return 2, nil
	}
	return 0, fmt.Errorf("features: no such mode %q", m)
}

// Indices of the state features
const (
	Distance int = iota
	Height
)

// Dynamics is the known transition and reward model of a glider near a
// thermal. Actions 0, 1, ..., NumAngles-1 select the heading
//
//		θ = a / (NumAngles - 1) · π
//
// relative to the line from the glider to the thermal centre, so that
// action 0 flies straight at the centre and action NumAngles-1 flies
// straight away from it. In TwoD mode, the additional action NumAngles
// orbits the thermal at the current distance.
//
// Dynamics implements the environment.Model interface.
type Dynamics struct {
	Thermal
	Mode      Mode
	StepSize  float64 // Distance flown on each step
	NumAngles int     // Number of discrete headings

	// Height changes by StepSize * (Lift * Goodness - Sink) on each step
	// in TwoD mode
	Lift float64
	Sink float64
}

// NewDynamics returns a new Dynamics
func NewDynamics(thermal Thermal, mode Mode, stepSize float64, numAngles int,
	lift, sink float64) (*Dynamics, error) {
	if _, err := mode.Features(); err != nil {
		return nil, fmt.Errorf("newdynamics: %v", err)
	}
	if thermal.Radius <= 0 {
		return nil, fmt.Errorf("newdynamics: thermal radius must be positive")
	}
	if stepSize <= 0 {
		return nil, fmt.Errorf("newdynamics: step size must be positive"+
			"\n\thave(%v)", stepSize)
	}
	if numAngles < 2 {
		return nil, fmt.Errorf("newdynamics: at least two headings are "+
			"required\n\twant(>= 2)\n\thave(%v)", numAngles)
	}
	if lift < 0 || sink < 0 {
		return nil, fmt.Errorf("newdynamics: lift and sink must be "+
			"non-negative\n\thave(%v, %v)", lift, sink)
	}

	return &Dynamics{
		Thermal:   thermal,
		Mode:      mode,
		StepSize:  stepSize,
		NumAngles: numAngles,
		Lift:      lift,
		Sink:      sink,
	}, nil
}

// NumActions returns the number of actions available to the glider
func (d *Dynamics) NumActions() int {
	if d.Mode == TwoD {
		return d.NumAngles + 1
	}
	return d.NumAngles
}

// Features returns the number of state features
func (d *Dynamics) Features() int {
	f, _ := d.Mode.Features()
	return f
}

// Orbit returns the orbit action, or -1 if the Mode has no orbit action
func (d *Dynamics) Orbit() int {
	if d.Mode == TwoD {
		return d.NumAngles
	}
	return -1
}

// Angle returns the heading θ in radians of a heading action
func (d *Dynamics) Angle(action int) (float64, error) {
	if action < 0 || action >= d.NumAngles {
		return 0, fmt.Errorf("angle: action %v is not a heading", action)
	}
	return float64(action) / float64(d.NumAngles-1) * math.Pi, nil
}

// ActionName returns a short human readable name of an action
func (d *Dynamics) ActionName(action int) string {
	if action == d.Orbit() {
		return "orbit"
	}
	θ, err := d.Angle(action)
	if err != nil {
		return fmt.Sprintf("illegal(%d)", action)
	}
	return fmt.Sprintf("%.0f°", θ*180/math.Pi)
}

// FeatureNames returns the names of the state features
func (d *Dynamics) FeatureNames() []string {
	if d.Mode == TwoD {
		return []string{"distance", "height"}
	}
	return []string{"distance"}
}

// NextDistance returns the distance to the thermal centre after flying
// step units at heading θ from dist units away
func NextDistance(dist, θ, step float64) float64 {
	dx := dist - step*math.Cos(θ)
	dy := step * math.Sin(θ)
	return math.Sqrt(dx*dx + dy*dy)
}

// NextState returns the state reached by taking action in state
func (d *Dynamics) NextState(state mat.Vector, action int) (*mat.VecDense,
	error) {
	if state.Len() != d.Features() {
		return nil, fmt.Errorf("nextstate: invalid state dimension"+
			"\n\twant(%v)\n\thave(%v)", d.Features(), state.Len())
	}
	if action < 0 || action >= d.NumActions() {
		return nil, fmt.Errorf("nextstate: illegal action %v", action)
	}

	dist := state.AtVec(Distance)
	if dist < 0 {
		return nil, fmt.Errorf("nextstate: negative distance %v", dist)
	}

	nextDist := dist
	if action != d.Orbit() {
		θ, err := d.Angle(action)
		if err != nil {
			return nil, fmt.Errorf("nextstate: %v", err)
		}
		nextDist = NextDistance(dist, θ, d.StepSize)
	}

	if d.Mode == OneD {
		return mat.NewVecDense(1, []float64{nextDist}), nil
	}

	climb := d.StepSize * (d.Lift*d.Goodness(nextDist) - d.Sink)
	nextHeight := math.Max(0, state.AtVec(Height)+climb)
	return mat.NewVecDense(2, []float64{nextDist, nextHeight}), nil
}

// Reward returns the reward for transitioning to next, which is the
// goodness of the thermal at next
func (d *Dynamics) Reward(_ mat.Vector, _ int, next mat.Vector) float64 {
	return d.Goodness(next.AtVec(Distance))
}
