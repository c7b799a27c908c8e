package checkpointer

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/samuelfneumann/glider/agent"
)

// nCycle implements checkpointing every N planning cycles
type nCycle struct {
	interval int
	objects  map[string]agent.Weighted

	// filename returns the name of the file to save the checkpoint
	// after some cycle in. Use RunFilename to name files by run and
	// cycle.
	filename func(cycle int) string
}

// NewNCycle returns a Checkpointer that checkpoints the weights of
// objects every n planning cycles.
func NewNCycle(n int, objects map[string]agent.Weighted,
	filename func(cycle int) string) (Checkpointer, error) {
	if n < 1 {
		return nil, fmt.Errorf("newncycle: checkpoint interval must be "+
			"positive\n\thave(%d)", n)
	}
	return &nCycle{
		interval: n,
		objects:  objects,
		filename: filename,
	}, nil
}

// Checkpoint saves the weights of the checkpointed objects if cycle
// is a multiple of the checkpoint interval
func (n *nCycle) Checkpoint(cycle int) error {
	if cycle > 0 && cycle%n.interval == 0 {
		return Save(n.filename(cycle), cycle, n.objects)
	}
	return nil
}

// RunFilename returns a function naming the checkpoint file of a cycle
// of the run with the given id as dir/<run>_<cycle>.bin
func RunFilename(dir string, run uuid.UUID) func(cycle int) string {
	return func(cycle int) string {
		return filepath.Join(dir, fmt.Sprintf("%v_%d.bin", run, cycle))
	}
}
