package checkpointer

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/samuelfneumann/glider/agent"
)

// weights is an agent.Weighted holding its weights in memory
type weights struct {
	w [][]float64
}

func (w *weights) Weights() [][]float64 { return w.w }

func (w *weights) SetWeights(v [][]float64) error {
	if len(v) != len(w.w) {
		return fmt.Errorf("setweights: want %d learnables", len(w.w))
	}
	w.w = v
	return nil
}

func TestNCycle(t *testing.T) {
	dir := t.TempDir()
	run := uuid.New()
	value := &weights{[][]float64{{1, 2}, {3}}}
	policy := &weights{[][]float64{{4}}}
	objects := map[string]agent.Weighted{"value": value, "policy": policy}

	c, err := NewNCycle(2, objects, RunFilename(dir, run))
	if err != nil {
		t.Fatal(err)
	}
	for cycle := 0; cycle <= 4; cycle++ {
		if err := c.Checkpoint(cycle); err != nil {
			t.Fatal(err)
		}
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("checkpoint: want 2 checkpoint files, have %d", len(files))
	}

	snapshot, err := Load(filepath.Join(dir, fmt.Sprintf("%v_4.bin", run)))
	if err != nil {
		t.Fatal(err)
	}
	if snapshot.Cycle != 4 {
		t.Errorf("load: want cycle 4, have %d", snapshot.Cycle)
	}

	restored := map[string]agent.Weighted{
		"value":  &weights{[][]float64{{0, 0}, {0}}},
		"policy": &weights{[][]float64{{0}}},
	}
	if err := snapshot.Restore(restored); err != nil {
		t.Fatal(err)
	}
	for name, object := range objects {
		if !reflect.DeepEqual(restored[name].Weights(), object.Weights()) {
			t.Errorf("restore %s: want %v, have %v", name, object.Weights(),
				restored[name].Weights())
		}
	}

	missing := map[string]agent.Weighted{"critic": &weights{}}
	if err := snapshot.Restore(missing); err == nil {
		t.Errorf("restore: expected error for missing object")
	}
}

func TestNewNCycleInterval(t *testing.T) {
	if _, err := NewNCycle(0, nil, RunFilename("", uuid.New())); err == nil {
		t.Errorf("newncycle: expected error for zero interval")
	}
}
