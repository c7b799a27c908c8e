package experiment

import (
	"context"
	"fmt"

	"github.com/samuelfneumann/glider/agent"
	env "github.com/samuelfneumann/glider/environment"
	"github.com/samuelfneumann/glider/experiment/tracker"
	ts "github.com/samuelfneumann/glider/timestep"
)

// Rollout is an Experiment that runs a fixed policy in an environment
// for a number of episodes. No learning is performed.
type Rollout struct {
	env.Environment
	policy   agent.Policy
	episodes int
	trackers []tracker.Tracker
}

// NewRollout creates and returns a new rollout experiment of the
// policy p for a number of episodes on e. The t parameter is a slice
// of tracker.Tracker which determine what data is saved.
func NewRollout(e env.Environment, p agent.Policy, episodes int,
	t ...tracker.Tracker) *Rollout {
	return &Rollout{e, p, episodes, t}
}

// Register registers a tracker.Tracker with an Experiment so that data
// generated during the experiment can be tracked and saved
func (r *Rollout) Register(t tracker.Tracker) {
	r.trackers = append(r.trackers, t)
}

// RunEpisode runs a single episode of the experiment
func (r *Rollout) RunEpisode() error {
	step, err := r.Environment.Reset()
	if err != nil {
		return fmt.Errorf("runepisode: %v", err)
	}
	r.track(step)

	for !step.Last() {
		action, err := r.policy.SelectAction(step)
		if err != nil {
			return fmt.Errorf("runepisode: %v", err)
		}

		if step, _, err = r.Environment.Step(action); err != nil {
			return fmt.Errorf("runepisode: %v", err)
		}
		r.track(step)
	}
	return nil
}

// Run runs all episodes of the experiment. Cancellation of ctx is
// checked between episodes.
func (r *Rollout) Run(ctx context.Context) error {
	for i := 0; i < r.episodes; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.RunEpisode(); err != nil {
			return fmt.Errorf("run: episode %d: %v", i, err)
		}
	}
	return nil
}

// Save saves all the data cached by the Trackers to disk
func (r *Rollout) Save() error {
	for _, t := range r.trackers {
		if err := t.Save(); err != nil {
			return err
		}
	}
	return nil
}

// track tracks the current timestep by caching its data in each Tracker
func (r *Rollout) track(t ts.TimeStep) {
	for _, tracker := range r.trackers {
		tracker.Track(t)
	}
}
