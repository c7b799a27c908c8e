package envconfig

import (
	"testing"

	"github.com/samuelfneumann/glider/environment/thermal"
)

func validConfig() Config {
	return Config{
		Mode:          thermal.TwoD,
		StepSize:      0.1,
		Radius:        3,
		NumAngles:     2,
		Lift:          1,
		Sink:          0.5,
		StartDistance: 5,
		StartHeight:   5,
		EpisodeCutoff: 100,
		Discount:      0.9,
	}
}

func TestCreate(t *testing.T) {
	g, step, err := validConfig().Create(1)
	if err != nil {
		t.Fatal(err)
	}

	obs := step.Observation
	if obs.Len() != 2 || obs.AtVec(thermal.Distance) != 5 ||
		obs.AtVec(thermal.Height) != 5 {
		t.Errorf("create: want start [5 5], have %v", obs.RawVector().Data)
	}
	if n := g.NumActions(); n != 3 {
		t.Errorf("create: want 3 actions, have %v", n)
	}
}

func TestCreateRandomStart(t *testing.T) {
	c := validConfig()
	c.RandomStart = true

	g, _, err := c.Create(7)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		step, err := g.Reset()
		if err != nil {
			t.Fatal(err)
		}
		if d := step.Observation.AtVec(thermal.Distance); d < 0 || d > 5 {
			t.Errorf("reset: start distance %v outside [0, 5]", d)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"mode", func(c *Config) { c.Mode = "3d" }},
		{"radius", func(c *Config) { c.Radius = 0 }},
		{"step size", func(c *Config) { c.StepSize = -1 }},
		{"start height", func(c *Config) { c.StartHeight = 0 }},
		{"cutoff", func(c *Config) { c.EpisodeCutoff = 0 }},
		{"discount", func(c *Config) { c.Discount = 2 }},
		{"start distance", func(c *Config) { c.StartDistance = -1 }},
	}

	for _, test := range tests {
		c := validConfig()
		test.modify(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected error", test.name)
		}
	}

	// A 1-D glider has no height
	c := validConfig()
	c.Mode = thermal.OneD
	c.StartHeight = 0
	if err := c.Validate(); err != nil {
		t.Errorf("validate 1d: unexpected error: %v", err)
	}
}
