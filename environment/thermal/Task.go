package thermal

import (
	"math"

	"github.com/samuelfneumann/glider/environment"
	ts "github.com/samuelfneumann/glider/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

// GoalGoodness is the goodness above which the glider is considered to
// be at the thermal centre
const GoalGoodness float64 = 0.99

// Soar implements the task of flying to, and staying in, the centre of
// a thermal. On each step, the glider is rewarded with the goodness of
// the thermal at the position it flew to. Episodes end after a step
// limit, or, in TwoD mode, when the glider reaches the ground.
type Soar struct {
	environment.Starter
	environment.Ender
	thermal Thermal
}

// NewSoar creates and returns a new Soar task. Episodes are cut off
// after cutoff steps.
func NewSoar(s environment.Starter, thermal Thermal, mode Mode,
	cutoff int) *Soar {
	var ender environment.Ender = environment.NewStepLimit(cutoff)

	if mode == TwoD {
		ground := environment.NewIntervalLimit(
			[]r1.Interval{{Min: 0, Max: math.Inf(1)}},
			[]int{Height},
			ts.TerminalStateReached,
		)
		ender = environment.NewCompositeEnder(ground, ender)
	}

	return &Soar{s, ender, thermal}
}

// GetReward returns the goodness of the thermal at nextState
func (s *Soar) GetReward(_ mat.Vector, _ mat.Vector,
	nextState mat.Vector) float64 {
	return s.thermal.Goodness(nextState.AtVec(Distance))
}

// AtGoal determines whether or not state is at the thermal centre
func (s *Soar) AtGoal(state mat.Matrix) bool {
	return s.thermal.Goodness(state.At(Distance, 0)) >= GoalGoodness
}

// Min returns the minimum possible reward
func (s *Soar) Min() float64 {
	return 0.0
}

// Max returns the maximum possible reward
func (s *Soar) Max() float64 {
	return 1.0
}

// RewardSpec returns the reward specification of the Task
func (s *Soar) RewardSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{s.Min()})
	upperBound := mat.NewVecDense(1, []float64{s.Max()})

	return environment.NewSpec(shape, environment.Reward, lowerBound,
		upperBound, environment.Continuous)
}
