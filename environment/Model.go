package environment

import "gonum.org/v1/gonum/mat"

// Model is a known model of an environment with discrete actions,
// providing its transition and reward functions. Model-based agents
// use a Model to plan without interacting with the Environment.
type Model interface {
	NumActions() int
	Features() int
	NextState(state mat.Vector, action int) (*mat.VecDense, error)
	Reward(state mat.Vector, action int, nextState mat.Vector) float64
}
