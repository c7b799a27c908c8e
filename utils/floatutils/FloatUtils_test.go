package floatutils

import (
	"math"
	"reflect"
	"testing"
)

func TestMaxSlice(t *testing.T) {
	tests := []struct {
		in      []float64
		max     float64
		indices []int
	}{
		{[]float64{1}, 1, []int{0}},
		{[]float64{3, 1, 3}, 3, []int{0, 2}},
		{[]float64{-1, 2, 0}, 2, []int{1}},
		{[]float64{0, 0, 0}, 0, []int{0, 1, 2}},
	}

	for _, test := range tests {
		max, indices := MaxSlice(test.in)
		if max != test.max {
			t.Errorf("maxslice(%v): want max %v, have %v", test.in, test.max,
				max)
		}
		if !reflect.DeepEqual(indices, test.indices) {
			t.Errorf("maxslice(%v): want indices %v, have %v", test.in,
				test.indices, indices)
		}
	}
}

func TestArgMaxTiesLowest(t *testing.T) {
	if a := ArgMax(0.2, 0.7, 0.7); a != 1 {
		t.Errorf("argmax: want 1, have %v", a)
	}
}

func TestLinspace(t *testing.T) {
	if l := Linspace(0, 10, 1); !reflect.DeepEqual(l, []float64{0}) {
		t.Errorf("linspace num=1: want [0], have %v", l)
	}

	if l := Linspace(0, 10, 0); l != nil {
		t.Errorf("linspace num=0: want nil, have %v", l)
	}

	l := Linspace(0, 10, 7)
	if len(l) != 7 {
		t.Fatalf("linspace: want 7 values, have %v", len(l))
	}
	if l[0] != 0 || l[6] != 10 {
		t.Errorf("linspace: endpoints want (0, 10), have (%v, %v)", l[0], l[6])
	}
	if math.Abs(l[1]-10.0/6.0) > 1e-12 {
		t.Errorf("linspace: spacing want %v, have %v", 10.0/6.0, l[1])
	}
}

func TestCartesianProduct(t *testing.T) {
	got := CartesianProduct([]float64{0, 1}, []float64{5, 6})
	want := [][]float64{{0, 5}, {0, 6}, {1, 5}, {1, 6}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("cartesianproduct: want %v, have %v", want, got)
	}

	single := CartesianProduct([]float64{1, 2, 3})
	if !reflect.DeepEqual(single, [][]float64{{1}, {2}, {3}}) {
		t.Errorf("cartesianproduct single axis: have %v", single)
	}
}

func TestClipAndMaxAbsDiff(t *testing.T) {
	if c := Clip(5, 0, 1); c != 1 {
		t.Errorf("clip: want 1, have %v", c)
	}
	if c := Clip(-5, 0, 1); c != 0 {
		t.Errorf("clip: want 0, have %v", c)
	}
	if d := MaxAbsDiff([]float64{1, 2, 3}, []float64{1, 4, 2.5}); d != 2 {
		t.Errorf("maxabsdiff: want 2, have %v", d)
	}
}

func TestSoftmax(t *testing.T) {
	probs := Softmax([]float64{1, 1000, 1})
	if math.Abs(probs[1]-1) > 1e-12 {
		t.Errorf("softmax: want dominant probability 1, have %v", probs[1])
	}

	probs = Softmax([]float64{0, 0})
	if math.Abs(probs[0]-0.5) > 1e-12 || math.Abs(probs[1]-0.5) > 1e-12 {
		t.Errorf("softmax: want uniform, have %v", probs)
	}
}
