package experiment

import ts "github.com/samuelfneumann/glider/timestep"

// terminalEnds counts the episodes ending in a terminal state. It
// implements the tracker.Tracker interface but saves no data.
type terminalEnds struct {
	n int
}

func (t *terminalEnds) Track(step ts.TimeStep) {
	if step.Last() && step.EndType() == ts.TerminalStateReached {
		t.n++
	}
}

func (t *terminalEnds) Save() error { return nil }
