// Package envconfig provides configuration structs for configuring the
// thermal glider environment and its task. Environment configurations
// in this package are JSON serializable.
package envconfig

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/glider/environment"
	"github.com/samuelfneumann/glider/environment/thermal"
	ts "github.com/samuelfneumann/glider/timestep"
	"gonum.org/v1/gonum/spatial/r1"
)

// Config implements a specific configuration of the glider environment
// and its Soar task
type Config struct {
	Mode      thermal.Mode
	StepSize  float64
	Radius    float64
	NumAngles int
	Lift      float64
	Sink      float64

	// Episodes start at StartDistance from the thermal centre and at
	// StartHeight. If RandomStart is set, the starting distance is
	// instead drawn uniformly from [0, StartDistance].
	StartDistance float64
	StartHeight   float64
	RandomStart   bool

	EpisodeCutoff uint
	Discount      float64
}

// Validate checks a Config for errors
func (c Config) Validate() error {
	if _, err := c.Mode.Features(); err != nil {
		return fmt.Errorf("validate: %v", err)
	}
	if c.StartDistance < 0 || math.IsNaN(c.StartDistance) {
		return fmt.Errorf("validate: start distance must be non-negative"+
			"\n\thave(%v)", c.StartDistance)
	}
	if c.Mode == thermal.TwoD && c.StartHeight <= 0 {
		return fmt.Errorf("validate: start height must be positive"+
			"\n\thave(%v)", c.StartHeight)
	}
	if c.EpisodeCutoff < 1 {
		return fmt.Errorf("validate: episode cutoff must be positive")
	}
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("validate: discount must be in [0, 1]\n\thave(%v)",
			c.Discount)
	}
	_, err := c.Dynamics()
	return err
}

// Dynamics returns the glider dynamics described by the Config
func (c Config) Dynamics() (*thermal.Dynamics, error) {
	field, err := thermal.NewThermal(c.Radius)
	if err != nil {
		return nil, fmt.Errorf("dynamics: %v", err)
	}

	return thermal.NewDynamics(field, c.Mode, c.StepSize, c.NumAngles,
		c.Lift, c.Sink)
}

// Create returns the glider environment described by the Config as well
// as the first timestep of the environment.
func (c Config) Create(seed uint64) (*thermal.Glider, ts.TimeStep, error) {
	if err := c.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %v", err)
	}
	d, err := c.Dynamics()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %v", err)
	}

	distance := r1.Interval{Min: c.StartDistance, Max: c.StartDistance}
	if c.RandomStart {
		distance.Min = 0
	}
	bounds := []r1.Interval{distance}
	if c.Mode == thermal.TwoD {
		bounds = append(bounds, r1.Interval{Min: c.StartHeight,
			Max: c.StartHeight})
	}

	s := environment.NewUniformStarter(bounds, seed)
	task := thermal.NewSoar(s, d.Thermal, c.Mode, int(c.EpisodeCutoff))

	return thermal.New(task, d, c.Discount)
}
