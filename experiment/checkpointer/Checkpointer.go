// Package checkpointer implements checkpointing of the weights of
// function approximators during planning
package checkpointer

import (
	"encoding/gob"
	"fmt"
	"os"
	"sort"

	"github.com/samuelfneumann/glider/agent"
)

// Checkpointer checkpoints objects based on the planning cycle
type Checkpointer interface {
	Checkpoint(cycle int) error
}

// Snapshot is the content of a checkpoint file: the weights of each
// checkpointed object by name, taken after some planning cycle
type Snapshot struct {
	Cycle   int
	Weights map[string][][]float64
}

// Restore sets the weights of each object to those in the Snapshot
// under the same name. Every object must be present in the Snapshot.
func (s Snapshot) Restore(objects map[string]agent.Weighted) error {
	for _, name := range names(objects) {
		weights, ok := s.Weights[name]
		if !ok {
			return fmt.Errorf("restore: no weights for %q in checkpoint", name)
		}
		if err := objects[name].SetWeights(weights); err != nil {
			return fmt.Errorf("restore: %q: %v", name, err)
		}
	}
	return nil
}

// Save gob encodes the weights of objects after cycle to filename
func Save(filename string, cycle int, objects map[string]agent.Weighted) error {
	s := Snapshot{Cycle: cycle, Weights: make(map[string][][]float64)}
	for name, object := range objects {
		s.Weights[name] = object.Weights()
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: could not open checkpoint file: %v", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(s); err != nil {
		return fmt.Errorf("save: could not encode checkpoint: %v", err)
	}
	return nil
}

// Load loads the Snapshot saved to filename
func Load(filename string) (Snapshot, error) {
	file, err := os.Open(filename)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load: could not open checkpoint "+
			"file: %v", err)
	}
	defer file.Close()

	var s Snapshot
	if err := gob.NewDecoder(file).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("load: could not decode checkpoint: %v",
			err)
	}
	return s, nil
}

// names returns the sorted names of objects
func names(objects map[string]agent.Weighted) []string {
	n := make([]string, 0, len(objects))
	for name := range objects {
		n = append(n, name)
	}
	sort.Strings(n)
	return n
}
