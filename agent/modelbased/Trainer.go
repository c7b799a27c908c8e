package modelbased

import (
	"fmt"

	"github.com/samuelfneumann/glider/network"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// lossFunc adds a loss between a network's prediction and its target
// node to the network's graph
type lossFunc func(pred, target *G.Node) (*G.Node, error)

// trainer couples a network whose graph holds a loss and its gradients
// with the VM and solver that train it. The batch size of a trainer is
// fixed at construction.
type trainer struct {
	net     network.NeuralNet
	target  *G.Node
	lossVal G.Value
	vm      G.VM
	solver  G.Solver
}

// newTrainer adds the loss returned by loss to the graph of net
func newTrainer(net network.NeuralNet, loss lossFunc,
	solver G.Solver) (*trainer, error) {
	target := G.NewMatrix(
		net.Graph(),
		tensor.Float64,
		G.WithShape(net.Prediction().Shape()...),
		G.WithName("target"),
		G.WithInit(G.Zeroes()),
	)

	l, err := loss(net.Prediction(), target)
	if err != nil {
		return nil, fmt.Errorf("newtrainer: could not compute loss: %v", err)
	}
	t := &trainer{net: net, target: target, solver: solver}
	G.Read(l, &t.lossVal)

	if _, err := G.Grad(l, net.Learnables()...); err != nil {
		return nil, fmt.Errorf("newtrainer: could not compute gradient: %v",
			err)
	}
	t.vm = G.NewTapeMachine(net.Graph(), G.BindDualValues(net.Learnables()...))

	return t, nil
}

// fit takes epochs gradient steps towards targets on a row-major batch
// of inputs and returns the loss of the last step
func (t *trainer) fit(inputs, targets []float64, epochs int) (float64,
	error) {
	if err := t.net.SetInput(inputs); err != nil {
		return 0, fmt.Errorf("fit: %v", err)
	}

	if len(targets) != t.target.Shape().TotalSize() {
		return 0, fmt.Errorf("fit: invalid number of targets\n\twant(%d)"+
			"\n\thave(%d)", t.target.Shape().TotalSize(), len(targets))
	}
	targetTensor := tensor.New(
		tensor.WithShape(t.target.Shape().Clone()...),
		tensor.WithBacking(append([]float64{}, targets...)),
	)
	if err := G.Let(t.target, targetTensor); err != nil {
		return 0, fmt.Errorf("fit: could not set targets: %v", err)
	}

	var loss float64
	for i := 0; i < epochs; i++ {
		if err := t.vm.RunAll(); err != nil {
			return 0, fmt.Errorf("fit: %v", err)
		}
		if err := t.solver.Step(t.net.Model()); err != nil {
			return 0, fmt.Errorf("fit: could not step solver: %v", err)
		}
		loss = t.lossVal.Data().(float64)
		t.vm.Reset()
	}
	return loss, nil
}

func (t *trainer) close() error {
	return t.vm.Close()
}

// predictor is a clone of a trained network with its own VM, used to
// predict on batches of a single size
type predictor struct {
	net     network.NeuralNet
	vm      G.VM
	version int
}

// predictors lazily clones a source network for each batch size it is
// asked to predict on. Clones are synced with the source whenever the
// version of the predictors is ahead of their own.
type predictors struct {
	source  network.NeuralNet
	clones  map[int]*predictor
	version int
}

func newPredictors(source network.NeuralNet) *predictors {
	return &predictors{source: source, clones: make(map[int]*predictor)}
}

// invalidate marks that the weights of the source network changed
func (p *predictors) invalidate() {
	p.version++
}

// predict runs the forward pass of the source network on a row-major
// batch of inputs and returns a copy of the (batch, outputs) outputs
func (p *predictors) predict(inputs []float64, batch int) ([]float64,
	error) {
	clone, ok := p.clones[batch]
	if !ok {
		net, err := p.source.CloneWithBatch(batch)
		if err != nil {
			return nil, fmt.Errorf("predict: could not clone network: %v", err)
		}
		clone = &predictor{
			net:     net,
			vm:      G.NewTapeMachine(net.Graph()),
			version: p.version,
		}
		p.clones[batch] = clone
	} else if clone.version != p.version {
		if err := clone.net.Set(p.source); err != nil {
			return nil, fmt.Errorf("predict: could not sync network: %v", err)
		}
		clone.version = p.version
	}

	if err := clone.net.SetInput(inputs); err != nil {
		return nil, fmt.Errorf("predict: %v", err)
	}
	if err := clone.vm.RunAll(); err != nil {
		return nil, fmt.Errorf("predict: %v", err)
	}
	defer clone.vm.Reset()

	return floatData(clone.net.Output())
}

func (p *predictors) close() error {
	for _, clone := range p.clones {
		if err := clone.vm.Close(); err != nil {
			return err
		}
	}
	return nil
}

// flatten returns a row-major batch of states, each of which must
// have the given number of features
func flatten(states [][]float64, features int) ([]float64, error) {
	if len(states) == 0 {
		return nil, fmt.Errorf("flatten: no states")
	}
	flat := make([]float64, 0, len(states)*features)
	for i, state := range states {
		if len(state) != features {
			return nil, fmt.Errorf("flatten: state %d has %d features, "+
				"want %d", i, len(state), features)
		}
		flat = append(flat, state...)
	}
	return flat, nil
}

// floatData returns a copy of the data in v, which may hold a single
// float64 for a batch of one
func floatData(v G.Value) ([]float64, error) {
	switch data := v.Data().(type) {
	case []float64:
		return append([]float64{}, data...), nil
	case float64:
		return []float64{data}, nil
	default:
		return nil, fmt.Errorf("floatdata: unexpected data type %T", data)
	}
}
