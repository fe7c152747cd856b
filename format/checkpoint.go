package format

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/sedsim/sedsim/grid"
	"github.com/sedsim/sedsim/voxel"
)

// Checkpoint is a self-contained snapshot of one realization, suitable for
// gob round trips.
type Checkpoint struct {
	Grid grid.Grid

	Seq *voxel.IntField
	AE  *voxel.IntField
	Mat *voxel.IntField
	Fac *voxel.IntField

	Azim *voxel.Field
	Dip  *voxel.Field

	Kiso     *voxel.Field
	Poros    *voxel.Field
	Anirat   *voxel.Field
	Ktensors *voxel.TensorField
}

// WriteCheckpoint gob-encodes a checkpoint to path.
func WriteCheckpoint(path string, cp *Checkpoint) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(cp); err != nil {
		return fmt.Errorf("checkpoint: encode: %w", err)
	}
	return nil
}

// ReadCheckpoint loads a checkpoint previously written by WriteCheckpoint.
func ReadCheckpoint(path string) (*Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: %w", err)
	}
	defer f.Close()
	var cp Checkpoint
	if err := gob.NewDecoder(f).Decode(&cp); err != nil {
		return nil, fmt.Errorf("checkpoint: decode: %w", err)
	}
	return &cp, nil
}
