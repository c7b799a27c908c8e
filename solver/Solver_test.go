package solver

import (
	"encoding/json"
	"testing"
)

func TestSolverJSONRoundTrip(t *testing.T) {
	adam, err := NewDefaultAdam(0.01, 7)
	if err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(adam)
	if err != nil {
		t.Fatal(err)
	}

	var decoded Solver
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}

	if decoded.Type != Adam {
		t.Errorf("unmarshaljson: want type %v, have %v", Adam, decoded.Type)
	}
	config, ok := decoded.Config.(AdamConfig)
	if !ok {
		t.Fatalf("unmarshaljson: want AdamConfig, have %T", decoded.Config)
	}
	if config.StepSize != 0.01 || config.Batch != 7 {
		t.Errorf("unmarshaljson: unexpected config %+v", config)
	}
	if decoded.Solver == nil {
		t.Errorf("unmarshaljson: gorgonia solver not created")
	}
}

func TestSolverJSONCaseInsensitive(t *testing.T) {
	data := []byte(`{"type": "vanilla", "config": {"stepsize": 0.5, "batch": 1}}`)

	var decoded Solver
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Type != Vanilla {
		t.Errorf("unmarshaljson: want type %v, have %v", Vanilla, decoded.Type)
	}
	if c := decoded.Config.(VanillaConfig); c.StepSize != 0.5 {
		t.Errorf("unmarshaljson: want step size 0.5, have %v", c.StepSize)
	}
}

func TestSolverJSONErrors(t *testing.T) {
	for _, data := range []string{
		`{"Type": "Momentum", "Config": {}}`,
		`{"Config": {}}`,
		`not json`,
	} {
		var decoded Solver
		if err := json.Unmarshal([]byte(data), &decoded); err == nil {
			t.Errorf("unmarshaljson(%s): expected error", data)
		}
	}
}

func TestFreshSolver(t *testing.T) {
	rms, err := NewDefaultRMSProp(0.001, 1)
	if err != nil {
		t.Fatal(err)
	}
	fresh := rms.Fresh()
	if fresh.Solver == rms.Solver {
		t.Errorf("fresh: solver state is shared")
	}
	if fresh.Type != RMSProp {
		t.Errorf("fresh: want type %v, have %v", RMSProp, fresh.Type)
	}

	if _, err := NewRMSProp(0.001, 1e-8, 0.1, 0.9, 1, -1); err == nil {
		t.Errorf("newrmsprop: expected error for unsupported eta")
	}
}
