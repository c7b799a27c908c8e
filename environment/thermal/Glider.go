package thermal

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/glider/environment"
	ts "github.com/samuelfneumann/glider/timestep"
	"gonum.org/v1/gonum/mat"
)

// Glider implements a glider seeking the centre of a thermal. The
// physics of the glider are given by a Dynamics, and the rewards and
// episode ends by a Task, usually a *Soar.
//
// Actions are 1-dimensional and discrete, enumerated from 0 as
// described by Dynamics. Observations are the distance to the thermal
// centre and, in TwoD mode, the height of the glider.
//
// Glider implements the environment.Environment interface.
type Glider struct {
	environment.Task
	*Dynamics

	discount    float64
	currentStep ts.TimeStep
}

// New creates and returns a new Glider, along with its first timestep
func New(t environment.Task, d *Dynamics, discount float64) (*Glider,
	ts.TimeStep, error) {
	if discount < 0 || discount > 1 {
		return nil, ts.TimeStep{}, fmt.Errorf("new: discount must be in "+
			"[0, 1]\n\thave(%v)", discount)
	}

	g := &Glider{
		Task:     t,
		Dynamics: d,
		discount: discount,
	}

	step, err := g.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %v", err)
	}

	return g, step, nil
}

// Reset resets the environment and returns a starting state drawn from
// the Starter
func (g *Glider) Reset() (ts.TimeStep, error) {
	state := g.Start()
	if err := g.validateState(state); err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %v", err)
	}

	step := ts.New(ts.First, 0, g.discount, state, 0)
	g.currentStep = step

	return step, nil
}

// Step takes one environmental step given action and returns the next
// timestep and a bool indicating whether or not the episode has ended.
func (g *Glider) Step(action *mat.VecDense) (ts.TimeStep, bool, error) {
	if action.Len() != 1 {
		return ts.TimeStep{}, false, fmt.Errorf("step: actions must be " +
			"1-dimensional")
	}
	if g.currentStep.Last() {
		return ts.TimeStep{}, true, fmt.Errorf("step: episode has ended, " +
			"call Reset() first")
	}

	a := action.AtVec(0)
	if a != math.Trunc(a) {
		return ts.TimeStep{}, false, fmt.Errorf("step: illegal action %v", a)
	}

	state := g.currentStep.Observation
	nextState, err := g.NextState(state, int(a))
	if err != nil {
		return ts.TimeStep{}, false, fmt.Errorf("step: %v", err)
	}

	reward := g.GetReward(state, action, nextState)
	nextStep := ts.New(ts.Mid, reward, g.discount, nextState,
		g.currentStep.Number+1)

	last := g.End(&nextStep)
	g.currentStep = nextStep

	return nextStep, last, nil
}

// CurrentTimeStep returns the last TimeStep that occurred in the
// environment
func (g *Glider) CurrentTimeStep() ts.TimeStep {
	return g.currentStep
}

// ActionSpec returns the action specification of the environment
func (g *Glider) ActionSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{0})
	upperBound := mat.NewVecDense(1, []float64{float64(g.NumActions() - 1)})

	return environment.NewSpec(shape, environment.Action, lowerBound,
		upperBound, environment.Discrete)
}

// ObservationSpec returns the observation specification of the
// environment
func (g *Glider) ObservationSpec() environment.Spec {
	features := g.Features()
	shape := mat.NewVecDense(features, nil)
	lowerBound := mat.NewVecDense(features, nil)

	upper := make([]float64, features)
	for i := range upper {
		upper[i] = math.Inf(1)
	}
	upperBound := mat.NewVecDense(features, upper)

	return environment.NewSpec(shape, environment.Observation, lowerBound,
		upperBound, environment.Continuous)
}

// DiscountSpec returns the discount specification of the environment
func (g *Glider) DiscountSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{g.discount})
	upperBound := mat.NewVecDense(1, []float64{g.discount})

	return environment.NewSpec(shape, environment.Discount, lowerBound,
		upperBound, environment.Continuous)
}

// String converts the environment to a string representation
func (g *Glider) String() string {
	obs := g.currentStep.Observation
	if g.Mode == TwoD {
		return fmt.Sprintf("Glider  |  distance: %v  |  height: %v",
			obs.AtVec(Distance), obs.AtVec(Height))
	}
	return fmt.Sprintf("Glider  |  distance: %v", obs.AtVec(Distance))
}

// validateState ensures a starting state lies within the observation
// bounds
func (g *Glider) validateState(state *mat.VecDense) error {
	if !g.ObservationSpec().Contains(state) {
		return fmt.Errorf("state %v is not within observation bounds",
			mat.Formatted(state.T()))
	}
	return nil
}
