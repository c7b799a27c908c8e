package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samuelfneumann/glider/agent/modelbased"
)

var states = [][]float64{{0, 1}, {5, 1}}

func iterations() []modelbased.Iteration {
	return []modelbased.Iteration{
		{
			Cycle:       0,
			Evaluation:  modelbased.Evaluation{Values: []float64{0.1, 0.2}},
			Improvement: modelbased.Improvement{Actions: []int{0, 1}},
		},
		{
			Cycle: 1,
			Evaluation: modelbased.Evaluation{
				Sweeps:    3,
				MaxChange: 0.05,
				Converged: true,
				Values:    []float64{9.5, 4.25},
			},
			Improvement: modelbased.Improvement{Actions: []int{2, 1},
				Changed: 1},
		},
	}
}

func actionName(a int) string {
	return fmt.Sprintf("a%d", a)
}

func TestPrinter(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, false, states, []string{"distance", "height"},
		actionName)

	for _, it := range iterations() {
		if err := p.Observe(it); err != nil {
			t.Fatal(err)
		}
	}

	text := out.String()
	for _, want := range []string{
		"Initial policy",
		"Cycle 1 | 3 sweeps | max change 0.0500 | converged | 1 actions changed",
		"distance", "height",
		"9.5000", "4.2500",
		"a2", "a1",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("observe: missing %q in\n%s", want, text)
		}
	}
	if strings.Contains(text, "\x1b[") {
		t.Errorf("observe: colours printed with colours disabled")
	}

	bad := modelbased.Iteration{Evaluation: modelbased.Evaluation{
		Values: []float64{1}}}
	if err := p.Observe(bad); err == nil {
		t.Errorf("observe: expected error for wrong number of values")
	}
}

func TestChart(t *testing.T) {
	c := NewChart("test run", states)
	for _, it := range iterations() {
		if err := c.Observe(it); err != nil {
			t.Fatal(err)
		}
	}
	if c.Cycles() != 2 {
		t.Errorf("cycles: want 2, have %d", c.Cycles())
	}

	path := filepath.Join(t.TempDir(), "chart.html")
	if err := c.Save(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	page := string(data)
	for _, want := range []string{"<html", "Values", "Policy evaluation",
		"(5.00, 1.00)"} {
		if !strings.Contains(page, want) {
			t.Errorf("save: chart page is missing %q", want)
		}
	}
}
