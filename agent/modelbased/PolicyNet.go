package modelbased

import (
	"fmt"

	"github.com/samuelfneumann/glider/network"
	ts "github.com/samuelfneumann/glider/timestep"
	"github.com/samuelfneumann/glider/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
)

// PolicyNet is a categorical (softmax) policy over a discrete set of
// actions whose logits are predicted by an MLP. PolicyNet is trained
// with a cross entropy loss on one-hot encodings of target actions.
type PolicyNet struct {
	train      *trainer
	predictors *predictors
	features   int
	numActions int
	batch      int
}

// NewPolicyNet returns a new PolicyNet over numActions actions on
// states with the given number of features, trained on batches of
// batch states.
func NewPolicyNet(features, numActions, batch int,
	c Config) (*PolicyNet, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newpolicynet: %v", err)
	}
	if numActions < 1 {
		return nil, fmt.Errorf("newpolicynet: number of actions must be "+
			"positive\n\thave(%d)", numActions)
	}

	net, err := network.NewMultiHeadMLP(features, batch, numActions,
		G.NewGraph(), c.HiddenSizes, c.biases(), c.InitWFn.InitWFn(),
		c.Activations)
	if err != nil {
		return nil, fmt.Errorf("newpolicynet: %v", err)
	}

	train, err := newTrainer(net, network.CrossEntropy, c.Solver.Fresh())
	if err != nil {
		return nil, fmt.Errorf("newpolicynet: %v", err)
	}

	return &PolicyNet{
		train:      train,
		predictors: newPredictors(net),
		features:   features,
		numActions: numActions,
		batch:      batch,
	}, nil
}

// logits returns the logits of each action in each state
func (p *PolicyNet) logits(states [][]float64) ([][]float64, error) {
	inputs, err := flatten(states, p.features)
	if err != nil {
		return nil, err
	}
	out, err := p.predictors.predict(inputs, len(states))
	if err != nil {
		return nil, err
	}

	logits := make([][]float64, len(states))
	for i := range logits {
		logits[i] = out[i*p.numActions : (i+1)*p.numActions]
	}
	return logits, nil
}

// Probabilities returns the probability of selecting each action in
// each state
func (p *PolicyNet) Probabilities(states [][]float64) ([][]float64, error) {
	logits, err := p.logits(states)
	if err != nil {
		return nil, fmt.Errorf("probabilities: %v", err)
	}

	probs := make([][]float64, len(logits))
	for i := range logits {
		probs[i] = floatutils.Softmax(logits[i])
	}
	return probs, nil
}

// Greedy returns the most probable action in each state. Ties are
// broken towards the lowest action index.
func (p *PolicyNet) Greedy(states [][]float64) ([]int, error) {
	logits, err := p.logits(states)
	if err != nil {
		return nil, fmt.Errorf("greedy: %v", err)
	}

	actions := make([]int, len(logits))
	for i := range logits {
		actions[i] = floatutils.ArgMax(logits[i]...)
	}
	return actions, nil
}

// SelectAction returns the greedy action in the observation of t
func (p *PolicyNet) SelectAction(t ts.TimeStep) (*mat.VecDense, error) {
	obs := t.Observation.RawVector().Data
	actions, err := p.Greedy([][]float64{obs})
	if err != nil {
		return nil, fmt.Errorf("selectaction: %v", err)
	}
	return mat.NewVecDense(1, []float64{float64(actions[0])}), nil
}

// Fit fits the PolicyNet to select the target action in each state for
// a number of epochs and returns the loss of the final epoch. Exactly
// BatchSize() states must be given.
func (p *PolicyNet) Fit(states [][]float64, actions []int,
	epochs int) (float64, error) {
	if len(states) != p.batch || len(actions) != p.batch {
		return 0, fmt.Errorf("fit: want %d states and actions\n\thave(%d, %d)",
			p.batch, len(states), len(actions))
	}
	inputs, err := flatten(states, p.features)
	if err != nil {
		return 0, fmt.Errorf("fit: %v", err)
	}

	oneHot := make([]float64, p.batch*p.numActions)
	for i, a := range actions {
		if a < 0 || a >= p.numActions {
			return 0, fmt.Errorf("fit: illegal action %d in state %d", a, i)
		}
		oneHot[i*p.numActions+a] = 1
	}

	defer p.predictors.invalidate()
	return p.train.fit(inputs, oneHot, epochs)
}

// NumActions returns the number of actions the policy selects between
func (p *PolicyNet) NumActions() int {
	return p.numActions
}

// BatchSize returns the number of states the PolicyNet is fit on
func (p *PolicyNet) BatchSize() int {
	return p.batch
}

// Network returns the network trained by the PolicyNet
func (p *PolicyNet) Network() network.NeuralNet {
	return p.train.net
}

// Weights returns a copy of the weights of the PolicyNet
func (p *PolicyNet) Weights() [][]float64 {
	return p.train.net.Weights()
}

// SetWeights sets the weights of the PolicyNet
func (p *PolicyNet) SetWeights(weights [][]float64) error {
	defer p.predictors.invalidate()
	return p.train.net.SetWeights(weights)
}

// Close closes the VMs of the PolicyNet
func (p *PolicyNet) Close() error {
	if err := p.predictors.close(); err != nil {
		return err
	}
	return p.train.close()
}
