package modelbased

import (
	"fmt"

	"github.com/samuelfneumann/glider/agent"
	"github.com/samuelfneumann/glider/environment"
	"github.com/samuelfneumann/glider/initwfn"
	"github.com/samuelfneumann/glider/network"
	"github.com/samuelfneumann/glider/solver"
)

// Config implements a configuration of a PolicyIteration planner. The
// value and policy networks share the same hidden architecture, and
// each is trained with its own copy of Solver.
type Config struct {
	HiddenSizes []int
	Activations []*network.Activation
	InitWFn     *initwfn.InitWFn
	Solver      *solver.Solver

	// Discount is the discount factor γ used in the Bellman backup
	Discount float64

	// VMaxAll is the convergence threshold of policy evaluation.
	// Evaluation stops once no state value changes by VMaxAll or
	// more in a sweep.
	VMaxAll float64

	// MaxSweeps caps the number of evaluation sweeps per cycle
	MaxSweeps int

	// TrainEpochs is the number of gradient steps taken each time a
	// network is fit to its targets
	TrainEpochs int

	// NumLearn is the number of evaluation/improvement cycles
	NumLearn int

	// StopWhenStable stops planning once an improvement step leaves
	// the greedy policy unchanged
	StopWhenStable bool
}

// Validate checks a Config for errors
func (c Config) Validate() error {
	if len(c.HiddenSizes) != len(c.Activations) {
		return fmt.Errorf("validate: invalid number of activations"+
			"\n\twant(%d)\n\thave(%d)", len(c.HiddenSizes), len(c.Activations))
	}
	for i, size := range c.HiddenSizes {
		if size < 1 {
			return fmt.Errorf("validate: hidden layer %d must have a "+
				"positive size\n\thave(%d)", i, size)
		}
		if c.Activations[i] == nil {
			return fmt.Errorf("validate: hidden layer %d has no activation", i)
		}
	}

	if c.InitWFn == nil {
		return fmt.Errorf("validate: no weight initializer")
	}
	if c.Solver == nil {
		return fmt.Errorf("validate: no solver")
	}

	if c.Discount < 0 || c.Discount >= 1 {
		return fmt.Errorf("validate: discount must be in [0, 1)"+
			"\n\thave(%v)", c.Discount)
	}
	if c.VMaxAll <= 0 {
		return fmt.Errorf("validate: VMaxAll must be positive\n\thave(%v)",
			c.VMaxAll)
	}
	if c.MaxSweeps < 1 {
		return fmt.Errorf("validate: MaxSweeps must be positive\n\thave(%v)",
			c.MaxSweeps)
	}
	if c.TrainEpochs < 1 {
		return fmt.Errorf("validate: TrainEpochs must be positive"+
			"\n\thave(%v)", c.TrainEpochs)
	}
	if c.NumLearn < 1 {
		return fmt.Errorf("validate: NumLearn must be positive\n\thave(%v)",
			c.NumLearn)
	}
	return nil
}

// CreatePlanner creates a new PolicyIteration planner
func (c Config) CreatePlanner(m environment.Model,
	states [][]float64) (agent.Planner, error) {
	return New(m, states, c)
}

// biases returns the bias setting of each hidden layer
func (c Config) biases() []bool {
	b := make([]bool, len(c.HiddenSizes))
	for i := range b {
		b[i] = true
	}
	return b
}
