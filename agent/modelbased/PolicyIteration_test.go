package modelbased

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/samuelfneumann/glider/initwfn"
	"github.com/samuelfneumann/glider/network"
	"github.com/samuelfneumann/glider/solver"
	"github.com/samuelfneumann/glider/utils/floatutils"
	"gonum.org/v1/gonum/mat"
)

// lineModel moves along [0, 1] in steps of 0.25. Action 0 moves left,
// action 1 moves right, and any further actions stay in place.
type lineModel struct {
	actions int
	reward  float64
}

func (l lineModel) NumActions() int { return l.actions }

func (l lineModel) Features() int { return 1 }

func (l lineModel) NextState(state mat.Vector, action int) (*mat.VecDense,
	error) {
	x := state.AtVec(0)
	switch action {
	case 0:
		x -= 0.25
	case 1:
		x += 0.25
	}
	return mat.NewVecDense(1, []float64{floatutils.Clip(x, 0, 1)}), nil
}

func (l lineModel) Reward(mat.Vector, int, mat.Vector) float64 {
	return l.reward
}

func lineStates() [][]float64 {
	return floatutils.CartesianProduct(floatutils.Linspace(0, 1, 5))
}

func testConfig(t *testing.T, hiddenSizes []int) Config {
	init, err := initwfn.NewGlorotU(1.0)
	if err != nil {
		t.Fatal(err)
	}
	adam, err := solver.NewDefaultAdam(0.05, 1)
	if err != nil {
		t.Fatal(err)
	}

	activations := make([]*network.Activation, len(hiddenSizes))
	for i := range activations {
		activations[i] = network.Sigmoid()
	}

	return Config{
		HiddenSizes: hiddenSizes,
		Activations: activations,
		InitWFn:     init,
		Solver:      adam,
		Discount:    0.5,
		VMaxAll:     0.01,
		MaxSweeps:   100,
		TrainEpochs: 300,
		NumLearn:    2,
	}
}

func TestConfigValidate(t *testing.T) {
	valid := testConfig(t, []int{4})
	if err := valid.Validate(); err != nil {
		t.Fatalf("validate: unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"discount one", func(c *Config) { c.Discount = 1 }},
		{"negative discount", func(c *Config) { c.Discount = -0.1 }},
		{"zero threshold", func(c *Config) { c.VMaxAll = 0 }},
		{"no sweeps", func(c *Config) { c.MaxSweeps = 0 }},
		{"no epochs", func(c *Config) { c.TrainEpochs = 0 }},
		{"no cycles", func(c *Config) { c.NumLearn = 0 }},
		{"missing activation", func(c *Config) { c.Activations = nil }},
		{"empty layer", func(c *Config) { c.HiddenSizes = []int{0} }},
		{"no solver", func(c *Config) { c.Solver = nil }},
		{"no initializer", func(c *Config) { c.InitWFn = nil }},
	}

	for _, test := range tests {
		c := testConfig(t, []int{4})
		test.modify(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected error", test.name)
		}
	}
}

func TestValueNetPredictAndSetWeights(t *testing.T) {
	v, err := NewValueNet(1, 5, testConfig(t, nil))
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()

	// V(s) = 2s + 1
	if err := v.SetWeights([][]float64{{2}, {1}}); err != nil {
		t.Fatal(err)
	}

	values, err := v.Predict([][]float64{{0}, {0.5}, {3}})
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1, 2, 7}
	for i := range want {
		if math.Abs(values[i]-want[i]) > 1e-9 {
			t.Errorf("predict: want %v, have %v", want, values)
			break
		}
	}

	// Predictions on an already cloned batch size must see new weights
	if err := v.SetWeights([][]float64{{0}, {-1}}); err != nil {
		t.Fatal(err)
	}
	values, err = v.Predict([][]float64{{0}, {0.5}, {3}})
	if err != nil {
		t.Fatal(err)
	}
	if values[2] != -1 {
		t.Errorf("predict: stale weights used, have %v", values)
	}

	single, err := v.Predict([][]float64{{4}})
	if err != nil {
		t.Fatal(err)
	}
	if len(single) != 1 || single[0] != -1 {
		t.Errorf("predict: single state want [-1], have %v", single)
	}

	if _, err := v.Predict([][]float64{{1, 2}}); err == nil {
		t.Errorf("predict: expected error for wrong number of features")
	}
	if _, err := v.Predict(nil); err == nil {
		t.Errorf("predict: expected error for no states")
	}
	if _, err := v.Fit([][]float64{{0}}, []float64{0}, 1); err == nil {
		t.Errorf("fit: expected error for wrong batch size")
	}
}

func TestValueNetFit(t *testing.T) {
	v, err := NewValueNet(1, 5, testConfig(t, []int{8}))
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()

	states := lineStates()
	targets := []float64{0, 0.25, 0.5, 0.75, 1}
	first, err := v.Fit(states, targets, 1)
	if err != nil {
		t.Fatal(err)
	}
	last, err := v.Fit(states, targets, 500)
	if err != nil {
		t.Fatal(err)
	}
	if last >= first {
		t.Errorf("fit: loss did not decrease (%v -> %v)", first, last)
	}
}

func TestPolicyNet(t *testing.T) {
	p, err := NewPolicyNet(1, 3, 5, testConfig(t, []int{4}))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	states := lineStates()
	probs, err := p.Probabilities(states)
	if err != nil {
		t.Fatal(err)
	}
	for i := range probs {
		if len(probs[i]) != 3 {
			t.Fatalf("probabilities: want 3 actions, have %v", len(probs[i]))
		}
		var sum float64
		for _, prob := range probs[i] {
			sum += prob
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("probabilities: state %v sums to %v", states[i], sum)
		}
	}

	if _, err := p.Fit(states, []int{0, 1, 2, 3, 0}, 1); err == nil {
		t.Errorf("fit: expected error for illegal action")
	}

	actions := []int{2, 2, 2, 2, 2}
	if _, err := p.Fit(states, actions, 500); err != nil {
		t.Fatal(err)
	}
	greedy, err := p.Greedy(states)
	if err != nil {
		t.Fatal(err)
	}
	for i := range greedy {
		if greedy[i] != 2 {
			t.Errorf("greedy: want action 2 in state %v, have %v", states[i],
				greedy[i])
		}
	}
}

func TestImprovePolicyGreedy(t *testing.T) {
	c := testConfig(t, nil)
	states := lineStates()
	m := lineModel{actions: 3}

	v, err := NewValueNet(1, len(states), c)
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()
	p, err := NewPolicyNet(1, m.NumActions(), len(states), c)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	// V(s) = s, so moving right is best, and staying is as good as
	// moving right at the right edge
	if err := v.SetWeights([][]float64{{1}, {0}}); err != nil {
		t.Fatal(err)
	}
	previous, err := p.Greedy(states)
	if err != nil {
		t.Fatal(err)
	}

	improvement, err := ImprovePolicy(v, p, states, m, c)
	if err != nil {
		t.Fatal(err)
	}
	for i, a := range improvement.Actions {
		if a != 1 {
			t.Errorf("improvepolicy: want action 1 in state %v, have %v",
				states[i], a)
		}
	}

	var changed int
	for _, a := range previous {
		if a != 1 {
			changed++
		}
	}
	if improvement.Changed != changed {
		t.Errorf("improvepolicy: want %d changed actions, have %d", changed,
			improvement.Changed)
	}
	if !improvement.Reproduced {
		t.Errorf("improvepolicy: policy network does not reproduce the " +
			"greedy policy")
	}
}

func TestImprovePolicyTiesLowestIndex(t *testing.T) {
	c := testConfig(t, nil)
	states := lineStates()
	m := lineModel{actions: 3, reward: 1}

	v, err := NewValueNet(1, len(states), c)
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()
	p, err := NewPolicyNet(1, m.NumActions(), len(states), c)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	if err := v.SetWeights([][]float64{{0}, {3}}); err != nil {
		t.Fatal(err)
	}

	improvement, err := ImprovePolicy(v, p, states, m, c)
	if err != nil {
		t.Fatal(err)
	}
	for i, a := range improvement.Actions {
		if a != 0 {
			t.Errorf("improvepolicy: want tie broken to action 0 in state "+
				"%v, have %v", states[i], a)
		}
	}
}

func TestEvaluatePolicyConverges(t *testing.T) {
	c := testConfig(t, nil)
	c.VMaxAll = 0.05
	states := lineStates()
	m := lineModel{actions: 2, reward: 1}

	v, err := NewValueNet(1, len(states), c)
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()
	p, err := NewPolicyNet(1, m.NumActions(), len(states), c)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	eval, err := EvaluatePolicy(v, p, states, m, c)
	if err != nil {
		t.Fatal(err)
	}
	if !eval.Converged {
		t.Fatalf("evaluatepolicy: did not converge after %d sweeps "+
			"(max change %v)", eval.Sweeps, eval.MaxChange)
	}
	if eval.MaxChange >= c.VMaxAll {
		t.Errorf("evaluatepolicy: converged with max change %v", eval.MaxChange)
	}

	// Every state earns 1 forever: V = 1 / (1 - γ)
	want := 1 / (1 - c.Discount)
	for i, value := range eval.Values {
		if math.Abs(value-want) > 0.25 {
			t.Errorf("evaluatepolicy: state %v want value %v, have %v",
				states[i], want, value)
		}
	}
}

func TestEvaluatePolicySweepCap(t *testing.T) {
	c := testConfig(t, nil)
	c.MaxSweeps = 1
	c.TrainEpochs = 1
	states := lineStates()
	m := lineModel{actions: 2, reward: 100}

	v, err := NewValueNet(1, len(states), c)
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()
	p, err := NewPolicyNet(1, m.NumActions(), len(states), c)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	// Start far from the fixed point so one sweep cannot converge
	if err := v.SetWeights([][]float64{{0}, {-1000}}); err != nil {
		t.Fatal(err)
	}

	eval, err := EvaluatePolicy(v, p, states, m, c)
	if err != nil {
		t.Fatal(err)
	}
	if eval.Converged || eval.Sweeps != 1 {
		t.Errorf("evaluatepolicy: want 1 unconverged sweep, have (%d, %v)",
			eval.Sweeps, eval.Converged)
	}
	if len(eval.Values) != len(states) {
		t.Errorf("evaluatepolicy: want %d values, have %d", len(states),
			len(eval.Values))
	}
}

func TestPolicyIterationRun(t *testing.T) {
	c := testConfig(t, []int{4})
	c.TrainEpochs = 10
	c.MaxSweeps = 3

	planner, err := New(lineModel{actions: 2}, lineStates(), c)
	if err != nil {
		t.Fatal(err)
	}
	defer planner.Close()

	var cycles []int
	err = planner.Run(context.Background(), func(i Iteration) error {
		cycles = append(cycles, i.Cycle)
		if len(i.Values) != 5 || len(i.Actions) != 5 {
			t.Errorf("run: cycle %d has %d values and %d actions", i.Cycle,
				len(i.Values), len(i.Actions))
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []int{0, 1, 2}
	if len(cycles) != len(want) {
		t.Fatalf("run: want cycles %v, have %v", want, cycles)
	}
	for i := range want {
		if cycles[i] != want[i] {
			t.Errorf("run: want cycles %v, have %v", want, cycles)
		}
	}
	if planner.Cycle() != 2 {
		t.Errorf("cycle: want 2, have %v", planner.Cycle())
	}
}

func TestPolicyIterationStopsWhenStable(t *testing.T) {
	c := testConfig(t, nil)
	c.TrainEpochs = 5
	c.NumLearn = 10
	c.StopWhenStable = true

	// A single action policy can never change
	planner, err := New(lineModel{actions: 1}, lineStates(), c)
	if err != nil {
		t.Fatal(err)
	}
	defer planner.Close()

	var reports int
	err = planner.Run(context.Background(), func(Iteration) error {
		reports++
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if reports != 2 {
		t.Errorf("run: want 2 reports, have %d", reports)
	}
}

func TestPolicyIterationCancel(t *testing.T) {
	c := testConfig(t, nil)
	planner, err := New(lineModel{actions: 2}, lineStates(), c)
	if err != nil {
		t.Fatal(err)
	}
	defer planner.Close()

	ctx, cancel := context.WithCancel(context.Background())
	err = planner.Run(ctx, func(i Iteration) error {
		cancel()
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("run: want context.Canceled, have %v", err)
	}
	if planner.Cycle() != 0 {
		t.Errorf("run: want no cycles after cancel, have %d", planner.Cycle())
	}

	stop := errors.New("stop")
	if err := planner.Run(context.Background(), func(Iteration) error {
		return stop
	}); err != stop {
		t.Errorf("run: want report error, have %v", err)
	}
}

func TestNewValidatesStates(t *testing.T) {
	c := testConfig(t, nil)
	if _, err := New(lineModel{actions: 2}, nil, c); err == nil {
		t.Errorf("new: expected error for no states")
	}
	if _, err := New(lineModel{actions: 2}, [][]float64{{0, 1}},
		c); err == nil {
		t.Errorf("new: expected error for wrong number of features")
	}
}
