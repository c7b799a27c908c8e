// Package report prints and charts the progress of policy iteration
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/samuelfneumann/glider/agent/modelbased"
)

// Printer prints the values and greedy actions of each planning cycle
// as a table with one row per state. Actions that changed since the
// previously printed cycle are highlighted.
type Printer struct {
	out        io.Writer
	au         aurora.Aurora
	states     [][]float64
	features   []string
	actionName func(int) string
	previous   []int
}

// NewPrinter returns a new Printer of cycles planned over states. The
// names of the state features and a function naming actions label the
// table. Colours are only printed if colors is set.
func NewPrinter(out io.Writer, colors bool, states [][]float64,
	features []string, actionName func(int) string) *Printer {
	return &Printer{
		out:        out,
		au:         aurora.NewAurora(colors),
		states:     states,
		features:   features,
		actionName: actionName,
	}
}

// Observe prints the table of an Iteration
func (p *Printer) Observe(it modelbased.Iteration) error {
	if len(it.Values) != len(p.states) || len(it.Actions) != len(p.states) {
		return fmt.Errorf("observe: want %d values and actions\n\thave(%d, %d)",
			len(p.states), len(it.Values), len(it.Actions))
	}

	fmt.Fprintln(p.out, p.au.Bold(p.header(it)))

	var columns strings.Builder
	for _, name := range p.features {
		fmt.Fprintf(&columns, "%10s ", name)
	}
	fmt.Fprintf(&columns, "%10s  %s", "value", "action")
	fmt.Fprintln(p.out, p.au.White(columns.String()))

	for i, state := range p.states {
		for _, f := range state {
			fmt.Fprintf(p.out, "%10.2f ", f)
		}
		fmt.Fprint(p.out, p.au.Blue(fmt.Sprintf("%10.4f  ", it.Values[i])))

		action := p.actionName(it.Actions[i])
		if p.previous != nil && p.previous[i] != it.Actions[i] {
			fmt.Fprintln(p.out, p.au.Yellow(action))
		} else {
			fmt.Fprintln(p.out, p.au.Green(action))
		}
	}
	fmt.Fprintln(p.out)

	p.previous = append(p.previous[:0], it.Actions...)
	return nil
}

// header describes the convergence of an Iteration
func (p *Printer) header(it modelbased.Iteration) string {
	if it.Cycle == 0 {
		return "Initial policy"
	}

	convergence := "converged"
	if !it.Converged {
		convergence = "not converged"
	}
	return fmt.Sprintf("Cycle %d | %d sweeps | max change %.4f | %s | "+
		"%d actions changed", it.Cycle, it.Sweeps, it.MaxChange, convergence,
		it.Changed)
}
