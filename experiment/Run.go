package experiment

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/samuelfneumann/glider/agent"
	"github.com/samuelfneumann/glider/agent/modelbased"
	"github.com/samuelfneumann/glider/config"
	"github.com/samuelfneumann/glider/environment/thermal"
	"github.com/samuelfneumann/glider/experiment/checkpointer"
	"github.com/samuelfneumann/glider/experiment/tracker"
	"github.com/samuelfneumann/glider/report"
	"gonum.org/v1/gonum/stat"
)

// Run is a configured glider experiment: policy iteration over a grid
// of states, followed by rollouts of the planned greedy policy in the
// glider environment. Each Run has a unique ID naming its files.
type Run struct {
	ID     uuid.UUID
	Config config.Config

	dynamics *thermal.Dynamics
	planner  *modelbased.PolicyIteration
	planning *Planning
	chart    *report.Chart
}

// Summary summarizes the episodes of a rollout
type Summary struct {
	Episodes         int
	MeanReturn       float64
	StdReturn        float64
	MeanLength       float64
	TerminalEpisodes int // Episodes ending on the ground
}

// NewRun creates the planner, trackers, checkpointers and reports that
// c describes. Tables of each cycle are printed to out unless the
// experiment is quiet, with colours if colors is set. A progress bar is
// printed to out for quiet experiments.
func NewRun(c config.Config, out io.Writer, colors bool) (*Run, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newrun: %v", err)
	}

	// Gorgonia draws initial weights from the global source
	rand.Seed(int64(c.Experiment.Seed))

	dynamics, err := c.Env.Dynamics()
	if err != nil {
		return nil, fmt.Errorf("newrun: %v", err)
	}
	states, err := c.Grid.States(c.Env.Mode)
	if err != nil {
		return nil, fmt.Errorf("newrun: %v", err)
	}
	planner, err := modelbased.New(dynamics, states, c.Agent)
	if err != nil {
		return nil, fmt.Errorf("newrun: %v", err)
	}

	r := &Run{
		ID:       uuid.New(),
		Config:   c,
		dynamics: dynamics,
		planner:  planner,
	}

	var (
		trackers      []tracker.CycleTracker
		checkpointers []checkpointer.Checkpointer
		observers     []Observer
		progress      io.Writer
	)

	if dir := c.Experiment.DataDir; dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("newrun: %v", err)
		}
		trackers = append(trackers,
			tracker.NewMaxValueChange(r.file("max_value_change.bin")),
			tracker.NewSweeps(r.file("sweeps.bin")),
			tracker.NewPolicyChanges(r.file("policy_changes.bin")),
		)

		if n := c.Experiment.CheckpointEvery; n > 0 {
			check, err := checkpointer.NewNCycle(n, r.weighted(),
				checkpointer.RunFilename(dir, r.ID))
			if err != nil {
				return nil, fmt.Errorf("newrun: %v", err)
			}
			checkpointers = append(checkpointers, check)
		}

		if err := config.Save(c, r.file("config.json")); err != nil {
			return nil, fmt.Errorf("newrun: %v", err)
		}
	}

	if c.Experiment.Quiet {
		progress = out
	} else {
		printer := report.NewPrinter(out, colors, states,
			dynamics.FeatureNames(), dynamics.ActionName)
		observers = append(observers, printer.Observe)
	}

	if c.Experiment.Chart != "" {
		r.chart = report.NewChart(fmt.Sprintf("%v glider, run %v",
			c.Env.Mode, r.ID), states)
		observers = append(observers, r.chart.Observe)
	}

	r.planning = NewPlanning(planner, c.Agent.NumLearn, trackers,
		checkpointers, progress, observers...)
	return r, nil
}

// file returns the path of a data file of the Run
func (r *Run) file(name string) string {
	return filepath.Join(r.Config.Experiment.DataDir,
		fmt.Sprintf("%v_%v", r.ID, name))
}

// weighted returns the checkpointed networks of the Run by name
func (r *Run) weighted() map[string]agent.Weighted {
	return map[string]agent.Weighted{
		"value":  r.planner.ValueNet(),
		"policy": r.planner.PolicyNet(),
	}
}

// Plan runs policy iteration and saves its tracked data and chart
func (r *Run) Plan(ctx context.Context) error {
	log.Printf("plan: run %v: %d cycles over %d states", r.ID,
		r.Config.Agent.NumLearn, len(r.planner.States()))

	if err := r.planning.Run(ctx); err != nil {
		return fmt.Errorf("plan: %v", err)
	}
	if err := r.planning.Save(); err != nil {
		return fmt.Errorf("plan: %v", err)
	}

	if r.chart != nil {
		if err := r.chart.Save(r.Config.Experiment.Chart); err != nil {
			return fmt.Errorf("plan: %v", err)
		}
		log.Printf("plan: chart saved to %v", r.Config.Experiment.Chart)
	}
	return nil
}

// Restore sets the networks of the Run to those checkpointed in the
// file filename
func (r *Run) Restore(filename string) error {
	snapshot, err := checkpointer.Load(filename)
	if err != nil {
		return fmt.Errorf("restore: %v", err)
	}
	if err := snapshot.Restore(r.weighted()); err != nil {
		return fmt.Errorf("restore: %v", err)
	}
	log.Printf("restore: networks restored from cycle %d", snapshot.Cycle)
	return nil
}

// Rollout flies the greedy policy of the Run in the glider environment
// for the configured number of episodes and summarizes the episodes
func (r *Run) Rollout(ctx context.Context) (Summary, error) {
	glider, _, err := r.Config.Env.Create(r.Config.Experiment.Seed)
	if err != nil {
		return Summary{}, fmt.Errorf("rollout: %v", err)
	}

	var returnFile, lengthFile string
	if r.Config.Experiment.DataDir != "" {
		returnFile = r.file("return.bin")
		lengthFile = r.file("episode_length.bin")
	}
	returns := tracker.NewReturn(returnFile)
	lengths := tracker.NewEpisodeLength(lengthFile)
	ends := &terminalEnds{}

	rollout := NewRollout(glider, r.planner.Policy(),
		r.Config.Experiment.RolloutEpisodes, returns, lengths, ends)
	if err := rollout.Run(ctx); err != nil {
		return Summary{}, fmt.Errorf("rollout: %v", err)
	}
	if r.Config.Experiment.DataDir != "" {
		if err := rollout.Save(); err != nil {
			return Summary{}, fmt.Errorf("rollout: %v", err)
		}
	}

	s := Summary{Episodes: len(returns.Data()), TerminalEpisodes: ends.n}
	if s.Episodes > 0 {
		s.MeanReturn, s.StdReturn = stat.MeanStdDev(returns.Data(), nil)
		s.MeanLength = stat.Mean(lengths.Data(), nil)
	}
	return s, nil
}

// Planner returns the planner of the Run
func (r *Run) Planner() *modelbased.PolicyIteration {
	return r.planner
}

// Close closes the planner of the Run
func (r *Run) Close() error {
	return r.planner.Close()
}
