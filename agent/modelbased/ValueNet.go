package modelbased

import (
	"fmt"

	"github.com/samuelfneumann/glider/network"
	G "gorgonia.org/gorgonia"
)

// ValueNet is a state value function approximated by an MLP with a
// single linear output. ValueNet is trained on a fixed batch of states
// with a mean squared error loss, but can predict the values of
// batches of any size.
type ValueNet struct {
	train      *trainer
	predictors *predictors
	features   int
	batch      int
}

// NewValueNet returns a new ValueNet on states with the given number of
// features, trained on batches of batch states.
func NewValueNet(features, batch int, c Config) (*ValueNet, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newvaluenet: %v", err)
	}

	net, err := network.NewSingleHeadMLP(features, batch, G.NewGraph(),
		c.HiddenSizes, c.biases(), c.InitWFn.InitWFn(), c.Activations)
	if err != nil {
		return nil, fmt.Errorf("newvaluenet: %v", err)
	}

	train, err := newTrainer(net, network.MSE, c.Solver.Fresh())
	if err != nil {
		return nil, fmt.Errorf("newvaluenet: %v", err)
	}

	return &ValueNet{
		train:      train,
		predictors: newPredictors(net),
		features:   features,
		batch:      batch,
	}, nil
}

// Predict returns the predicted value of each state
func (v *ValueNet) Predict(states [][]float64) ([]float64, error) {
	inputs, err := flatten(states, v.features)
	if err != nil {
		return nil, fmt.Errorf("predict: %v", err)
	}
	return v.predictors.predict(inputs, len(states))
}

// Fit fits the ValueNet to the target value of each state for a number
// of epochs and returns the loss of the final epoch. Exactly BatchSize()
// states must be given.
func (v *ValueNet) Fit(states [][]float64, targets []float64,
	epochs int) (float64, error) {
	if len(states) != v.batch || len(targets) != v.batch {
		return 0, fmt.Errorf("fit: want %d states and targets\n\thave(%d, %d)",
			v.batch, len(states), len(targets))
	}
	inputs, err := flatten(states, v.features)
	if err != nil {
		return 0, fmt.Errorf("fit: %v", err)
	}

	defer v.predictors.invalidate()
	return v.train.fit(inputs, targets, epochs)
}

// BatchSize returns the number of states the ValueNet is fit on
func (v *ValueNet) BatchSize() int {
	return v.batch
}

// Features returns the number of features in a state
func (v *ValueNet) Features() int {
	return v.features
}

// Network returns the network trained by the ValueNet
func (v *ValueNet) Network() network.NeuralNet {
	return v.train.net
}

// Weights returns a copy of the weights of the ValueNet
func (v *ValueNet) Weights() [][]float64 {
	return v.train.net.Weights()
}

// SetWeights sets the weights of the ValueNet
func (v *ValueNet) SetWeights(weights [][]float64) error {
	defer v.predictors.invalidate()
	return v.train.net.SetWeights(weights)
}

// Close closes the VMs of the ValueNet
func (v *ValueNet) Close() error {
	if err := v.predictors.close(); err != nil {
		return err
	}
	return v.train.close()
}
