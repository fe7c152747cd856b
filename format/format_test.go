package format

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sedsim/sedsim/grid"
	"github.com/sedsim/sedsim/voxel"
)

func TestWriteVTK(t *testing.T) {
	g, err := grid.New(0, 0, 0, 0.5, 0.5, 0.25, 2, 2, 2)
	require.NoError(t, err)

	fac := voxel.NewIntField(2, 2, 2)
	fac.Fill(3)
	kiso := voxel.NewField(2, 2, 2)
	kiso.Fill(1e-4)

	path := filepath.Join(t.TempDir(), "out.vtk")
	require.NoError(t, WriteVTK(path, "demo", g,
		[]IntArray{{Name: "facies", Field: fac}},
		[]FloatArray{{Name: "k_iso", Field: kiso}},
	))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(raw)

	assert.True(t, strings.HasPrefix(content, "# vtk DataFile Version 3.0\n"))
	assert.Contains(t, content, "DATASET STRUCTURED_POINTS")
	assert.Contains(t, content, "DIMENSIONS 3 3 3")
	assert.Contains(t, content, "SPACING 0.5 0.5 0.25")
	assert.Contains(t, content, "CELL_DATA 8")
	assert.Contains(t, content, "SCALARS facies int 1")
	assert.Contains(t, content, "SCALARS k_iso float 1")

	facCells := 0
	for _, line := range strings.Split(content, "\n") {
		if line == "3" {
			facCells++
		}
	}
	assert.Equal(t, 8, facCells)
}

func TestFloatToFixedWidth(t *testing.T) {
	assert.Equal(t, 14, len(floatToFixedWidth(1.5, 14)))
	assert.Equal(t, "1.5", strings.TrimSpace(floatToFixedWidth(1.5, 14)))
	assert.Equal(t, "0", strings.TrimSpace(floatToFixedWidth(0, 14)))
}

func TestCheckpointRoundTrip(t *testing.T) {
	g, err := grid.New(0, 0, 0, 1, 1, 1, 2, 2, 2)
	require.NoError(t, err)

	mat := voxel.NewIntField(2, 2, 2)
	mat.Set(1, 1, 1, 9)
	kiso := voxel.NewField(2, 2, 2)
	kiso.Set(0, 1, 0, 2.5)
	tensors := voxel.NewTensorField(2, 2, 2)
	tensors.Tensor(0, 0, 0)[4] = 7

	path := filepath.Join(t.TempDir(), "model.gob")
	require.NoError(t, WriteCheckpoint(path, &Checkpoint{
		Grid:     *g,
		Mat:      mat,
		Kiso:     kiso,
		Ktensors: tensors,
	}))

	cp, err := ReadCheckpoint(path)
	require.NoError(t, err)

	assert.Equal(t, *g, cp.Grid)
	assert.Equal(t, int32(9), cp.Mat.At(1, 1, 1))
	assert.Equal(t, 2.5, cp.Kiso.At(0, 1, 0))
	assert.Equal(t, 7.0, cp.Ktensors.Tensor(0, 0, 0)[4])
}
