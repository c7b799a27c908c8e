package tracker

import "github.com/samuelfneumann/glider/agent/modelbased"

// CycleTracker keeps track of one statistic of each planning cycle and
// saves the data after planning has finished
type CycleTracker interface {
	TrackCycle(it modelbased.Iteration)
	Save() error
}

// cycle tracks a statistic of each planning cycle. The description of
// the initial policy, cycle 0, is not tracked.
type cycle struct {
	statistic func(modelbased.Iteration) float64
	data      []float64
	filename  string
}

func (c *cycle) TrackCycle(it modelbased.Iteration) {
	if it.Cycle > 0 {
		c.data = append(c.data, c.statistic(it))
	}
}

func (c *cycle) Save() error {
	return save(c.filename, c.data)
}

// NewMaxValueChange returns a CycleTracker of the largest value change
// in the final policy evaluation sweep of each cycle
func NewMaxValueChange(filename string) CycleTracker {
	return &cycle{
		statistic: func(it modelbased.Iteration) float64 { return it.MaxChange },
		filename:  filename,
	}
}

// NewSweeps returns a CycleTracker of the number of policy evaluation
// sweeps of each cycle
func NewSweeps(filename string) CycleTracker {
	return &cycle{
		statistic: func(it modelbased.Iteration) float64 {
			return float64(it.Sweeps)
		},
		filename: filename,
	}
}

// NewPolicyChanges returns a CycleTracker of the number of states whose
// greedy action changed in each cycle
func NewPolicyChanges(filename string) CycleTracker {
	return &cycle{
		statistic: func(it modelbased.Iteration) float64 {
			return float64(it.Changed)
		},
		filename: filename,
	}
}
