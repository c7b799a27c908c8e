package environment

import (
	"testing"

	ts "github.com/samuelfneumann/glider/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

func TestStepLimit(t *testing.T) {
	ender := NewStepLimit(3)

	step := ts.New(ts.Mid, 0, 1, mat.NewVecDense(1, nil), 2)
	if ender.End(&step) {
		t.Errorf("end: episode ended before step limit")
	}

	step = ts.New(ts.Mid, 0, 1, mat.NewVecDense(1, nil), 3)
	if !ender.End(&step) {
		t.Fatalf("end: episode did not end at step limit")
	}
	if !step.Last() || step.EndType() != ts.Timeout {
		t.Errorf("end: want (Last, Timeout), have (%v, %v)", step.StepType,
			step.EndType())
	}
}

func TestIntervalLimit(t *testing.T) {
	ender := NewIntervalLimit([]r1.Interval{{Min: 0, Max: 10}}, []int{1},
		ts.TerminalStateReached)

	inside := ts.New(ts.Mid, 0, 1, mat.NewVecDense(2, []float64{100, 5}), 1)
	if ender.End(&inside) {
		t.Errorf("end: feature inside interval ended episode")
	}

	onBound := ts.New(ts.Mid, 0, 1, mat.NewVecDense(2, []float64{0, 0}), 1)
	if !ender.End(&onBound) {
		t.Fatalf("end: feature on interval bound did not end episode")
	}
	if onBound.EndType() != ts.TerminalStateReached {
		t.Errorf("end: want TerminalStateReached, have %v", onBound.EndType())
	}
}

func TestCompositeEnder(t *testing.T) {
	ender := NewCompositeEnder(
		NewIntervalLimit([]r1.Interval{{Min: 0, Max: 10}}, []int{0},
			ts.TerminalStateReached),
		NewStepLimit(5),
	)

	step := ts.New(ts.Mid, 0, 1, mat.NewVecDense(1, []float64{5}), 5)
	if !ender.End(&step) || step.EndType() != ts.Timeout {
		t.Errorf("end: want Timeout, have %v", step.EndType())
	}

	step = ts.New(ts.Mid, 0, 1, mat.NewVecDense(1, []float64{11}), 5)
	if !ender.End(&step) || step.EndType() != ts.TerminalStateReached {
		t.Errorf("end: want TerminalStateReached, have %v", step.EndType())
	}
}

func TestUniformStarter(t *testing.T) {
	bounds := []r1.Interval{{Min: 2, Max: 2}, {Min: 0, Max: 1}}
	starter := NewUniformStarter(bounds, 1)

	for i := 0; i < 20; i++ {
		start := starter.Start()
		if start.AtVec(0) != 2 {
			t.Errorf("start: degenerate feature want 2, have %v", start.AtVec(0))
		}
		if v := start.AtVec(1); v < 0 || v > 1 {
			t.Errorf("start: feature %v outside [0, 1]", v)
		}
	}
}

func TestSpec(t *testing.T) {
	spec := NewSpec(mat.NewVecDense(1, nil), Action,
		mat.NewVecDense(1, []float64{0}), mat.NewVecDense(1, []float64{2}),
		Discrete)

	n, err := spec.NumActions()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("numactions: want 3, have %v", n)
	}

	if !spec.Contains(mat.NewVecDense(1, []float64{2})) {
		t.Errorf("contains: upper bound should be contained")
	}
	if spec.Contains(mat.NewVecDense(1, []float64{3})) {
		t.Errorf("contains: out of bounds action contained")
	}

	obs := NewSpec(mat.NewVecDense(1, nil), Observation,
		mat.NewVecDense(1, []float64{0}), mat.NewVecDense(1, []float64{2}),
		Continuous)
	if _, err := obs.NumActions(); err == nil {
		t.Errorf("numactions: expected error for observation spec")
	}
}

func TestNewSpecPanicsOnShapeMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("newspec: expected panic on mismatched bounds")
		}
	}()
	NewSpec(mat.NewVecDense(2, nil), Observation,
		mat.NewVecDense(1, nil), mat.NewVecDense(2, nil), Continuous)
}
