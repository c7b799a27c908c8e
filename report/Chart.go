package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/samuelfneumann/glider/agent/modelbased"
)

// Chart collects the planning cycles of a run and renders them as an
// HTML page of charts: the value and greedy action of each state per
// cycle, the largest value change of each cycle, and the number of
// actions changed in each cycle.
type Chart struct {
	title      string
	states     [][]float64
	iterations []modelbased.Iteration
}

// NewChart returns a new Chart of cycles planned over states
func NewChart(title string, states [][]float64) *Chart {
	return &Chart{title: title, states: states}
}

// Observe records an Iteration to be charted
func (c *Chart) Observe(it modelbased.Iteration) error {
	if len(it.Values) != len(c.states) || len(it.Actions) != len(c.states) {
		return fmt.Errorf("observe: want %d values and actions\n\thave(%d, %d)",
			len(c.states), len(it.Values), len(it.Actions))
	}
	c.iterations = append(c.iterations, it)
	return nil
}

// Cycles returns the number of recorded Iterations
func (c *Chart) Cycles() int {
	return len(c.iterations)
}

// cycles returns the x axis labels of the charts
func (c *Chart) cycles() []string {
	labels := make([]string, len(c.iterations))
	for i, it := range c.iterations {
		labels[i] = strconv.Itoa(it.Cycle)
	}
	return labels
}

// stateLabel returns the name of the series of a state
func stateLabel(state []float64) string {
	parts := make([]string, len(state))
	for i, f := range state {
		parts[i] = strconv.FormatFloat(f, 'f', 2, 64)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (c *Chart) perState(title, yName string,
	value func(it modelbased.Iteration, i int) float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: c.title}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "cycle"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
	)
	line.SetXAxis(c.cycles())

	for i, state := range c.states {
		items := make([]opts.LineData, 0, len(c.iterations))
		for _, it := range c.iterations {
			items = append(items, opts.LineData{Value: value(it, i)})
		}
		line.AddSeries(stateLabel(state), items)
	}
	return line
}

func (c *Chart) convergence() *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Policy evaluation",
			Subtitle: c.title}),
		charts.WithXAxisOpts(opts.XAxis{Name: "cycle"}),
	)
	line.SetXAxis(c.cycles())

	change := make([]opts.LineData, 0, len(c.iterations))
	sweeps := make([]opts.LineData, 0, len(c.iterations))
	for _, it := range c.iterations {
		change = append(change, opts.LineData{Value: it.MaxChange})
		sweeps = append(sweeps, opts.LineData{Value: it.Sweeps})
	}
	line.AddSeries("max value change", change)
	line.AddSeries("sweeps", sweeps)
	return line
}

func (c *Chart) changes() *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Policy improvement",
			Subtitle: c.title}),
		charts.WithXAxisOpts(opts.XAxis{Name: "cycle"}),
	)
	bar.SetXAxis(c.cycles())

	items := make([]opts.BarData, 0, len(c.iterations))
	for _, it := range c.iterations {
		items = append(items, opts.BarData{Value: it.Changed})
	}
	bar.AddSeries("actions changed", items)
	return bar
}

// Render renders the charts as an HTML page to w
func (c *Chart) Render(w io.Writer) error {
	page := components.NewPage()
	page.AddCharts(
		c.perState("Values", "value", func(it modelbased.Iteration,
			i int) float64 {
			return it.Values[i]
		}),
		c.perState("Greedy actions", "action", func(it modelbased.Iteration,
			i int) float64 {
			return float64(it.Actions[i])
		}),
		c.convergence(),
		c.changes(),
	)
	return page.Render(w)
}

// Save renders the charts as an HTML page to the file path
func (c *Chart) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save: %v", err)
	}
	defer f.Close()

	if err := c.Render(f); err != nil {
		return fmt.Errorf("save: could not render chart: %v", err)
	}
	return nil
}
