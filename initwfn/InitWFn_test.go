package initwfn

import (
	"encoding/json"
	"testing"
)

func TestInitWFnJSON(t *testing.T) {
	glorot, err := NewGlorotU(1.0)
	if err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(glorot)
	if err != nil {
		t.Fatal(err)
	}

	var decoded InitWFn
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Type != GlorotU {
		t.Errorf("unmarshaljson: want type %v, have %v", GlorotU, decoded.Type)
	}
	if c := decoded.Config.(GlorotUConfig); c.Gain != 1.0 {
		t.Errorf("unmarshaljson: want gain 1, have %v", c.Gain)
	}
	if decoded.InitWFn() == nil {
		t.Errorf("unmarshaljson: gorgonia initializer not created")
	}
}

func TestInitWFnJSONLowercase(t *testing.T) {
	tests := []struct {
		data string
		want Type
	}{
		{`{"type": "zeroes"}`, Zeroes},
		{`{"type": "uniform", "config": {"low": -1, "high": 1}}`, Uniform},
		{`{"type": "Gaussian", "config": {"mean": 0, "stddev": 0.1}}`, Gaussian},
		{`{"type": "constant", "config": {"value": 2}}`, Constant},
	}

	for _, test := range tests {
		var decoded InitWFn
		if err := json.Unmarshal([]byte(test.data), &decoded); err != nil {
			t.Errorf("unmarshaljson(%s): %v", test.data, err)
			continue
		}
		if decoded.Type != test.want {
			t.Errorf("unmarshaljson(%s): want type %v, have %v", test.data,
				test.want, decoded.Type)
		}
	}

	var decoded InitWFn
	if err := json.Unmarshal([]byte(`{"type": "orthogonal"}`),
		&decoded); err == nil {
		t.Errorf("unmarshaljson: expected error for unknown initializer")
	}
}
