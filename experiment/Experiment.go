// Package experiment implements functionality for running an experiment
package experiment

import (
	"context"

	"github.com/samuelfneumann/glider/agent/modelbased"
)

// Experiment outlines structs that can run experiments. The Run()
// method runs the whole experiment, tracking its data in RAM. The
// Save() function then saves all tracked data to disk. This is usually
// performed after an experiment has been run.
type Experiment interface {
	Run(ctx context.Context) error
	Save() error
}

// Observer is notified of each Iteration of a planning experiment, for
// example to print or chart it
type Observer func(modelbased.Iteration) error
