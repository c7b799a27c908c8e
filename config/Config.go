// Package config implements the configuration of a glider planning
// experiment. Configurations are JSON files loaded with viper, and any
// setting may be overridden by an environment variable named after its
// key with the GLIDER_ prefix, for example
//
//		GLIDER_AGENT_NUMLEARN=10
//		GLIDER_ENV_MODE=1d
package config

import (
	"fmt"

	"github.com/samuelfneumann/glider/agent/modelbased"
	"github.com/samuelfneumann/glider/environment/envconfig"
	"github.com/samuelfneumann/glider/environment/thermal"
	"github.com/samuelfneumann/glider/initwfn"
	"github.com/samuelfneumann/glider/network"
	"github.com/samuelfneumann/glider/solver"
	"github.com/samuelfneumann/glider/utils/floatutils"
)

// Config is the configuration of a single experiment
type Config struct {
	Env        envconfig.Config
	Grid       Grid
	Agent      modelbased.Config
	Experiment Experiment
}

// Grid describes the states that are planned over. Each state variable
// is discretized into evenly spaced values, and the states are the
// cartesian product of these values. A variable discretized into a
// single value takes only its Start value.
type Grid struct {
	DistanceStart float64
	DistanceStop  float64
	DistanceNum   int

	// Height is only used in 2d mode
	HeightStart float64
	HeightStop  float64
	HeightNum   int
}

// Experiment describes how an experiment is run and which artefacts it
// produces
type Experiment struct {
	Seed uint64

	// DataDir is the directory tracked data and checkpoints are saved
	// to. No data is saved if DataDir is empty.
	DataDir string

	// CheckpointEvery is the number of planning cycles between
	// checkpoints. No checkpoints are saved if it is not positive.
	CheckpointEvery int

	// RolloutEpisodes is the number of greedy episodes flown in the
	// glider environment after planning
	RolloutEpisodes int

	// Chart is the path of an HTML page charting values, policies,
	// and convergence per cycle. No chart is drawn if Chart is empty.
	Chart string

	// Quiet disables the tables printed each cycle
	Quiet bool
}

// States returns the states described by the Grid for the given mode
func (g Grid) States(mode thermal.Mode) ([][]float64, error) {
	if err := g.validate(mode); err != nil {
		return nil, fmt.Errorf("states: %v", err)
	}

	axes := [][]float64{floatutils.Linspace(g.DistanceStart, g.DistanceStop,
		g.DistanceNum)}
	if mode == thermal.TwoD {
		axes = append(axes, floatutils.Linspace(g.HeightStart, g.HeightStop,
			g.HeightNum))
	}
	return floatutils.CartesianProduct(axes...), nil
}

func (g Grid) validate(mode thermal.Mode) error {
	if g.DistanceNum < 1 {
		return fmt.Errorf("at least one distance required\n\thave(%d)",
			g.DistanceNum)
	}
	if g.DistanceStart < 0 || g.DistanceStop < 0 {
		return fmt.Errorf("distances must be non-negative\n\thave(%v, %v)",
			g.DistanceStart, g.DistanceStop)
	}
	if mode == thermal.TwoD && g.HeightNum < 1 {
		return fmt.Errorf("at least one height required in 2d mode"+
			"\n\thave(%d)", g.HeightNum)
	}
	return nil
}

// Validate checks a Config for errors
func (c Config) Validate() error {
	if err := c.Env.Validate(); err != nil {
		return fmt.Errorf("validate: env: %v", err)
	}
	if err := c.Grid.validate(c.Env.Mode); err != nil {
		return fmt.Errorf("validate: grid: %v", err)
	}
	if err := c.Agent.Validate(); err != nil {
		return fmt.Errorf("validate: agent: %v", err)
	}
	if c.Experiment.RolloutEpisodes < 0 {
		return fmt.Errorf("validate: experiment: rollout episodes must be "+
			"non-negative\n\thave(%d)", c.Experiment.RolloutEpisodes)
	}
	return nil
}

// Default2D returns the configuration of a glider observing its
// distance to the thermal centre and its height, choosing between
// flying towards the centre, away from it, or orbiting it.
func Default2D() Config {
	return Config{
		Env: envconfig.Config{
			Mode:          thermal.TwoD,
			StepSize:      0.1,
			Radius:        3,
			NumAngles:     2,
			Lift:          1,
			Sink:          0.5,
			StartDistance: 10,
			StartHeight:   5,
			RandomStart:   true,
			EpisodeCutoff: 200,
			Discount:      0.9,
		},
		Grid: Grid{
			DistanceStart: 0,
			DistanceStop:  10,
			DistanceNum:   7,
			HeightStart:   0,
			HeightStop:    10,
			HeightNum:     1,
		},
		Agent: defaultAgent(0.1, 100),
		Experiment: Experiment{
			Seed:            1,
			CheckpointEvery: 10,
			RolloutEpisodes: 5,
		},
	}
}

// Default1D returns the configuration of a glider observing only its
// distance to the thermal centre, choosing between 10 headings.
func Default1D() Config {
	return Config{
		Env: envconfig.Config{
			Mode:          thermal.OneD,
			StepSize:      0.5,
			Radius:        3,
			NumAngles:     10,
			Lift:          1,
			Sink:          0.5,
			StartDistance: 10,
			RandomStart:   true,
			EpisodeCutoff: 100,
			Discount:      0.9,
		},
		Grid: Grid{
			DistanceStart: 0,
			DistanceStop:  10,
			DistanceNum:   10,
		},
		Agent: defaultAgent(0.5, 3),
		Experiment: Experiment{
			Seed:            1,
			CheckpointEvery: 1,
			RolloutEpisodes: 5,
		},
	}
}

// Default returns the default configuration of a mode
func Default(mode thermal.Mode) (Config, error) {
	switch mode {
	case thermal.OneD:
		return Default1D(), nil
	case thermal.TwoD:
		return Default2D(), nil
	}
	return Config{}, fmt.Errorf("default: no such mode %q", mode)
}

func defaultAgent(vMaxAll float64, numLearn int) modelbased.Config {
	init, err := initwfn.NewGlorotU(1.0)
	if err != nil {
		panic(err)
	}
	adam, err := solver.NewDefaultAdam(0.01, 1)
	if err != nil {
		panic(err)
	}

	return modelbased.Config{
		HiddenSizes: []int{20},
		Activations: []*network.Activation{network.Sigmoid()},
		InitWFn:     init,
		Solver:      adam,
		Discount:    0.9,
		VMaxAll:     vMaxAll,
		MaxSweeps:   200,
		TrainEpochs: 100,
		NumLearn:    numLearn,
	}
}
