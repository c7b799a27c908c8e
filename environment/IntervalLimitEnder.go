package environment

import (
	"gonum.org/v1/gonum/spatial/r1"
	ts "github.com/samuelfneumann/glider/timestep"
)

// IntervalLimit implements the Ender interface to end episodes
// whenever a single feature in a feature vector leaves some interval
type IntervalLimit struct {
	intervals []r1.Interval
	indices   []int
	endType   ts.EndType
}

// NewIntervalLimit creates and returns a new inteval limit. The endType
// argument determines what the episode end should be considered as.
// The interval bounds are exclusive: a feature equal to a bound ends
// the episode.
func NewIntervalLimit(limits []r1.Interval, obsIndices []int,
	endType ts.EndType) Ender {
	if len(limits) != len(obsIndices) {
		panic("limits should have same length as observation indices")
	}

	return &IntervalLimit{limits, obsIndices, endType}
}

// End determines whether or not the current episode should be ended,
// returning a boolean to indicate episode temrination. If the episode
// should be ended End() will modify the timestep so that its StepType
// field is timestep.Last and its EndType is the appropriate ending
// type.
func (i *IntervalLimit) End(t *ts.TimeStep) bool {
	for index := range i.indices {

		featureIndex := i.indices[index]
		interval := i.intervals[index]

		if t.Observation.AtVec(featureIndex) >= interval.Max ||
			t.Observation.AtVec(featureIndex) <= interval.Min {
			t.StepType = ts.Last
			t.SetEnd(i.endType)
			return true
		}
	}
	return false
}

// CompositeEnder ends an episode when any of its Enders does. Enders
// are consulted in order and the first that ends the episode decides
// its EndType.
type CompositeEnder []Ender

// NewCompositeEnder returns an Ender that ends episodes whenever one of
// enders does
func NewCompositeEnder(enders ...Ender) Ender {
	return CompositeEnder(enders)
}

// End implements the Ender interface
func (c CompositeEnder) End(t *ts.TimeStep) bool {
	for _, ender := range c {
		if ender.End(t) {
			return true
		}
	}
	return false
}
