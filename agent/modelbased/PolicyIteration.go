// Package modelbased implements generalized policy iteration with
// neural network function approximation over a known model of an
// environment.
//
// Planning alternates policy evaluation, which fits a value network to
// the Bellman backups of the current greedy policy until values stop
// changing, with greedy policy improvement, which fits a policy network
// to the actions that maximize the one-step lookahead under the value
// network. Planning is done over a fixed set of states, usually a grid
// over the state space.
package modelbased

import (
	"context"
	"fmt"
	"log"

	"github.com/samuelfneumann/glider/agent"
	"github.com/samuelfneumann/glider/environment"
	"github.com/samuelfneumann/glider/utils/floatutils"
	"gonum.org/v1/gonum/mat"
)

// Evaluation describes the result of evaluating a policy
type Evaluation struct {
	Sweeps    int
	MaxChange float64 // Largest value change in the final sweep
	Converged bool
	Values    []float64
	ValueLoss float64
}

// Improvement describes the result of improving a policy
type Improvement struct {
	Actions []int // Greedy action in each state

	// Changed is the number of states in which the greedy action
	// differs from the action of the policy before improvement
	Changed int

	// Reproduced is whether the policy network selects the greedy
	// action in every state after it was fit
	Reproduced bool
	PolicyLoss float64
}

// Stable returns whether the improvement left the policy unchanged
func (i Improvement) Stable() bool {
	return i.Changed == 0
}

// Iteration describes a single cycle of policy iteration. Cycle 0
// describes the initial policy, before any planning.
type Iteration struct {
	Cycle int
	Evaluation
	Improvement
}

// transitions returns the next state and reward of taking each action
// in each state, indexed as [state][action].
func transitions(m environment.Model, states [][]float64) ([][][]float64,
	[][]float64, error) {
	next := make([][][]float64, len(states))
	rewards := make([][]float64, len(states))

	for i, s := range states {
		state := mat.NewVecDense(len(s), s)
		next[i] = make([][]float64, m.NumActions())
		rewards[i] = make([]float64, m.NumActions())

		for a := 0; a < m.NumActions(); a++ {
			nextState, err := m.NextState(state, a)
			if err != nil {
				return nil, nil, fmt.Errorf("transitions: state %v: %v", s, err)
			}
			next[i][a] = nextState.RawVector().Data
			rewards[i][a] = m.Reward(state, a, nextState)
		}
	}
	return next, rewards, nil
}

// EvaluatePolicy fits the value network v to the values of the greedy
// actions of the policy network p in states under the model m.
//
// Each sweep computes the target R(s, a, s') + γV(s') of every state,
// with a the greedy action in s, fits v to the targets, and measures
// the largest change in the value of any state. Sweeps stop once this
// change is below c.VMaxAll or after c.MaxSweeps sweeps, in which case
// the Evaluation is not Converged.
func EvaluatePolicy(v *ValueNet, p *PolicyNet, states [][]float64,
	m environment.Model, c Config) (Evaluation, error) {
	actions, err := p.Greedy(states)
	if err != nil {
		return Evaluation{}, fmt.Errorf("evaluatepolicy: %v", err)
	}

	nextStates := make([][]float64, len(states))
	rewards := make([]float64, len(states))
	for i, s := range states {
		state := mat.NewVecDense(len(s), s)
		next, err := m.NextState(state, actions[i])
		if err != nil {
			return Evaluation{}, fmt.Errorf("evaluatepolicy: %v", err)
		}
		nextStates[i] = next.RawVector().Data
		rewards[i] = m.Reward(state, actions[i], next)
	}

	values, err := v.Predict(states)
	if err != nil {
		return Evaluation{}, fmt.Errorf("evaluatepolicy: %v", err)
	}

	eval := Evaluation{}
	targets := make([]float64, len(states))
	for eval.Sweeps < c.MaxSweeps {
		nextValues, err := v.Predict(nextStates)
		if err != nil {
			return Evaluation{}, fmt.Errorf("evaluatepolicy: %v", err)
		}
		for i := range targets {
			targets[i] = rewards[i] + c.Discount*nextValues[i]
		}

		eval.ValueLoss, err = v.Fit(states, targets, c.TrainEpochs)
		if err != nil {
			return Evaluation{}, fmt.Errorf("evaluatepolicy: %v", err)
		}
		eval.Sweeps++

		newValues, err := v.Predict(states)
		if err != nil {
			return Evaluation{}, fmt.Errorf("evaluatepolicy: %v", err)
		}
		eval.MaxChange = floatutils.MaxAbsDiff(values, newValues)
		values = newValues

		if eval.MaxChange < c.VMaxAll {
			eval.Converged = true
			break
		}
	}
	eval.Values = values

	return eval, nil
}

// ImprovePolicy fits the policy network p to act greedily with respect
// to the one-step lookahead R(s, a, s') + γV(s') of the value network v
// in each of states under the model m. Ties between actions are broken
// towards the lowest action index.
func ImprovePolicy(v *ValueNet, p *PolicyNet, states [][]float64,
	m environment.Model, c Config) (Improvement, error) {
	next, rewards, err := transitions(m, states)
	if err != nil {
		return Improvement{}, fmt.Errorf("improvepolicy: %v", err)
	}

	numActions := m.NumActions()
	nextStates := make([][]float64, 0, len(states)*numActions)
	for i := range next {
		nextStates = append(nextStates, next[i]...)
	}
	nextValues, err := v.Predict(nextStates)
	if err != nil {
		return Improvement{}, fmt.Errorf("improvepolicy: %v", err)
	}

	greedy := make([]int, len(states))
	q := make([]float64, numActions)
	for i := range states {
		for a := range q {
			q[a] = rewards[i][a] + c.Discount*nextValues[i*numActions+a]
		}
		greedy[i] = floatutils.ArgMax(q...)
	}

	previous, err := p.Greedy(states)
	if err != nil {
		return Improvement{}, fmt.Errorf("improvepolicy: %v", err)
	}
	improvement := Improvement{Actions: greedy}
	for i := range greedy {
		if greedy[i] != previous[i] {
			improvement.Changed++
		}
	}

	improvement.PolicyLoss, err = p.Fit(states, greedy, c.TrainEpochs)
	if err != nil {
		return Improvement{}, fmt.Errorf("improvepolicy: %v", err)
	}

	selected, err := p.Greedy(states)
	if err != nil {
		return Improvement{}, fmt.Errorf("improvepolicy: %v", err)
	}
	improvement.Reproduced = true
	for i := range selected {
		if selected[i] != greedy[i] {
			improvement.Reproduced = false
			break
		}
	}

	return improvement, nil
}

// PolicyIteration plans a policy and its value function over a fixed
// set of states using a known Model.
type PolicyIteration struct {
	config Config
	model  environment.Model
	states [][]float64

	value  *ValueNet
	policy *PolicyNet
	cycle  int
}

// New returns a new PolicyIteration planner over states. Each state
// must have m.Features() features.
func New(m environment.Model, states [][]float64,
	c Config) (*PolicyIteration, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	if len(states) == 0 {
		return nil, fmt.Errorf("new: no states to plan over")
	}
	if _, err := flatten(states, m.Features()); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	value, err := NewValueNet(m.Features(), len(states), c)
	if err != nil {
		return nil, fmt.Errorf("new: could not create value network: %v", err)
	}
	policy, err := NewPolicyNet(m.Features(), m.NumActions(), len(states), c)
	if err != nil {
		return nil, fmt.Errorf("new: could not create policy network: %v",
			err)
	}

	return &PolicyIteration{
		config: c,
		model:  m,
		states: states,
		value:  value,
		policy: policy,
	}, nil
}

// Snapshot describes the current values and greedy actions in each
// state without planning
func (p *PolicyIteration) Snapshot() (Iteration, error) {
	values, err := p.value.Predict(p.states)
	if err != nil {
		return Iteration{}, fmt.Errorf("snapshot: %v", err)
	}
	actions, err := p.policy.Greedy(p.states)
	if err != nil {
		return Iteration{}, fmt.Errorf("snapshot: %v", err)
	}

	return Iteration{
		Cycle:       p.cycle,
		Evaluation:  Evaluation{Values: values},
		Improvement: Improvement{Actions: actions, Reproduced: true},
	}, nil
}

// Step performs a single cycle of policy evaluation followed by policy
// improvement
func (p *PolicyIteration) Step() (Iteration, error) {
	eval, err := EvaluatePolicy(p.value, p.policy, p.states, p.model,
		p.config)
	if err != nil {
		return Iteration{}, fmt.Errorf("step: %v", err)
	}
	if !eval.Converged {
		log.Printf("step: cycle %d: policy evaluation did not converge "+
			"after %d sweeps (max change %.4f)", p.cycle+1, eval.Sweeps,
			eval.MaxChange)
	}

	improvement, err := ImprovePolicy(p.value, p.policy, p.states, p.model,
		p.config)
	if err != nil {
		return Iteration{}, fmt.Errorf("step: %v", err)
	}

	p.cycle++
	return Iteration{
		Cycle:       p.cycle,
		Evaluation:  eval,
		Improvement: improvement,
	}, nil
}

// Run reports the initial policy, then plans for NumLearn cycles,
// reporting each Iteration. Run stops early if the policy becomes
// stable and StopWhenStable is set, if report returns an error, or if
// ctx is cancelled. Cancellation is checked between cycles.
func (p *PolicyIteration) Run(ctx context.Context,
	report func(Iteration) error) error {
	initial, err := p.Snapshot()
	if err != nil {
		return fmt.Errorf("run: %v", err)
	}
	if err := report(initial); err != nil {
		return err
	}

	for i := 0; i < p.config.NumLearn; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		iter, err := p.Step()
		if err != nil {
			return fmt.Errorf("run: %v", err)
		}
		if err := report(iter); err != nil {
			return err
		}

		if p.config.StopWhenStable && iter.Stable() && iter.Reproduced {
			log.Printf("run: policy stable after %d cycles", iter.Cycle)
			break
		}
	}
	return nil
}

// Cycle returns the number of completed planning cycles
func (p *PolicyIteration) Cycle() int {
	return p.cycle
}

// States returns the states planned over
func (p *PolicyIteration) States() [][]float64 {
	return p.states
}

// Model returns the model planned with
func (p *PolicyIteration) Model() environment.Model {
	return p.model
}

// ValueNet returns the value network of the planner
func (p *PolicyIteration) ValueNet() *ValueNet {
	return p.value
}

// PolicyNet returns the policy network of the planner
func (p *PolicyIteration) PolicyNet() *PolicyNet {
	return p.policy
}

// Policy implements the agent.Planner interface
func (p *PolicyIteration) Policy() agent.Policy {
	return p.policy
}

// ValueFunction implements the agent.Planner interface
func (p *PolicyIteration) ValueFunction() agent.ValueFunction {
	return p.value
}

// Close closes the networks of the planner
func (p *PolicyIteration) Close() error {
	if err := p.value.Close(); err != nil {
		return err
	}
	return p.policy.Close()
}
