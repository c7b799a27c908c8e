package experiment

import (
	"context"
	"fmt"
	"io"

	"github.com/samuelfneumann/glider/agent/modelbased"
	"github.com/samuelfneumann/glider/experiment/checkpointer"
	"github.com/samuelfneumann/glider/experiment/tracker"
	"github.com/samuelfneumann/glider/utils/progressbar"
)

// Planning is an Experiment that runs policy iteration with a planner.
// Each cycle is tracked by the CycleTrackers, checkpointed by the
// Checkpointers, and sent to the Observers.
type Planning struct {
	planner       *modelbased.PolicyIteration
	trackers      []tracker.CycleTracker
	checkpointers []checkpointer.Checkpointer
	observers     []Observer

	bar      *progressbar.ManualProgressBar
	numLearn int
}

// NewPlanning creates and returns a new planning experiment. If
// progress is non-nil, a progress bar of the planning cycles is
// printed to it.
func NewPlanning(p *modelbased.PolicyIteration, numLearn int,
	t []tracker.CycleTracker, c []checkpointer.Checkpointer,
	progress io.Writer, o ...Observer) *Planning {
	var bar *progressbar.ManualProgressBar
	if progress != nil {
		bar = progressbar.NewManualProgressBar(progress, 40, numLearn)
	}

	return &Planning{
		planner:       p,
		trackers:      t,
		checkpointers: c,
		observers:     o,
		bar:           bar,
		numLearn:      numLearn,
	}
}

// Register registers an Observer with the experiment
func (p *Planning) Register(o Observer) {
	p.observers = append(p.observers, o)
}

// Run runs policy iteration until it finishes or ctx is cancelled
func (p *Planning) Run(ctx context.Context) error {
	err := p.planner.Run(ctx, p.observe)
	if p.bar != nil {
		if err == nil {
			p.bar.Finish()
		}
		p.bar.Display()
	}
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// observe tracks, checkpoints, and observes a single Iteration
func (p *Planning) observe(it modelbased.Iteration) error {
	for _, t := range p.trackers {
		t.TrackCycle(it)
	}
	for _, c := range p.checkpointers {
		if err := c.Checkpoint(it.Cycle); err != nil {
			return err
		}
	}
	for _, o := range p.observers {
		if err := o(it); err != nil {
			return err
		}
	}

	if p.bar != nil && it.Cycle > 0 {
		p.bar.Increment()
		p.bar.Display()
	}
	return nil
}

// Save saves all the data cached by the CycleTrackers to disk
func (p *Planning) Save() error {
	for _, t := range p.trackers {
		if err := t.Save(); err != nil {
			return err
		}
	}
	return nil
}

// Planner returns the planner of the experiment
func (p *Planning) Planner() *modelbased.PolicyIteration {
	return p.planner
}
