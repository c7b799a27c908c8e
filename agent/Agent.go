// Package agent defines the interfaces of planning agents and the
// policies and value functions they learn
package agent

import (
	"github.com/samuelfneumann/glider/environment"
	"github.com/samuelfneumann/glider/timestep"
	"gonum.org/v1/gonum/mat"
)

// Planner learns a policy and value function from a known Model of an
// environment rather than from interaction with it.
type Planner interface {
	// Policy returns the policy currently planned for
	Policy() Policy

	// ValueFunction returns the current estimate of the policy's
	// state values
	ValueFunction() ValueFunction

	// Close releases the resources held by the Planner
	Close() error
}

// Policy represents a policy that an agent can have.
//
// Policies determine how agents select actions. The Policy of a Planner
// shares its weights with the Planner, so that any changes made while
// planning are reflected in the actions the Policy chooses.
type Policy interface {
	SelectAction(t timestep.TimeStep) (*mat.VecDense, error)
}

// ValueFunction predicts the value of a batch of states. Each state is
// a slice of features.
type ValueFunction interface {
	Predict(states [][]float64) ([]float64, error)
}

// Weighted is implemented by function approximators whose weights can
// be snapshot and restored, for example by checkpointers.
type Weighted interface {
	Weights() [][]float64
	SetWeights([][]float64) error
}

// Config represents a configuration for creating a Planner
type Config interface {
	// CreatePlanner creates the Planner that the config describes,
	// planning over the argument states with the given Model
	CreatePlanner(m environment.Model, states [][]float64) (Planner, error)

	// Validate returns an error describing whether or not the
	// configuration is valid or not.
	Validate() error
}
