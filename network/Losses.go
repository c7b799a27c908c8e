package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// LogSumExp adds log(Σ exp(logits)) along the given axis to the graph
// of logits
func LogSumExp(logits *G.Node, along int) (*G.Node, error) {
	exp, err := G.Exp(logits)
	if err != nil {
		return nil, fmt.Errorf("logsumexp: %v", err)
	}
	sum, err := G.Sum(exp, along)
	if err != nil {
		return nil, fmt.Errorf("logsumexp: %v", err)
	}
	return G.Log(sum)
}

// MSE adds the mean squared error between pred and target to the graph
// of pred. Both nodes must have the same shape.
func MSE(pred, target *G.Node) (*G.Node, error) {
	if !pred.Shape().Eq(target.Shape()) {
		return nil, fmt.Errorf("mse: shapes do not match\n\twant(%v)"+
			"\n\thave(%v)", pred.Shape(), target.Shape())
	}

	losses := G.Must(G.Sub(pred, target))
	losses = G.Must(G.Square(losses))
	return G.Mean(losses)
}

// CrossEntropy adds the mean categorical cross entropy between the
// softmax of a (batch, classes) matrix of logits and a one-hot matrix of
// targets of the same shape to the graph of logits:
//
//		mean over rows of [ log Σ exp(logits) - Σ onehot ⊙ logits ]
func CrossEntropy(logits, oneHot *G.Node) (*G.Node, error) {
	if !logits.Shape().Eq(oneHot.Shape()) || !logits.IsMatrix() {
		return nil, fmt.Errorf("crossentropy: want matching matrix shapes"+
			"\n\thave(%v, %v)", logits.Shape(), oneHot.Shape())
	}

	lse, err := LogSumExp(logits, 1)
	if err != nil {
		return nil, fmt.Errorf("crossentropy: %v", err)
	}

	targetLogits := G.Must(G.HadamardProd(oneHot, logits))
	targetLogits = G.Must(G.Sum(targetLogits, 1))

	losses := G.Must(G.Sub(lse, targetLogits))
	return G.Mean(losses)
}
