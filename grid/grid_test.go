package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadAxes(t *testing.T) {
	testCases := []struct {
		name       string
		dx, dy, dz float64
		nx, ny, nz int
	}{
		{"zero spacing", 0, 1, 1, 10, 10, 10},
		{"negative spacing", 1, -0.5, 1, 10, 10, 10},
		{"zero count", 1, 1, 1, 10, 0, 10},
		{"negative count", 1, 1, 1, 10, 10, -1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(0, 0, 0, tc.dx, tc.dy, tc.dz, tc.nx, tc.ny, tc.nz)
			assert.Error(t, err)
		})
	}
}

func TestFromExtents(t *testing.T) {
	g, err := FromExtents(40, 20, 5, 0.5, 0.5, 0.25)
	require.NoError(t, err)

	assert.Equal(t, 80, g.Nx)
	assert.Equal(t, 40, g.Ny)
	assert.Equal(t, 20, g.Nz)
	assert.Equal(t, 40.0, g.Lx())
	assert.Equal(t, 20.0, g.Ly())
	assert.Equal(t, 5.0, g.Lz())
	assert.Equal(t, 80*40*20, g.Cells())
}

func TestCoordinateVectors(t *testing.T) {
	g, err := New(0, 0, 0, 1, 1, 0.5, 4, 4, 4)
	require.NoError(t, err)

	xv := g.VecX()
	require.Len(t, xv, 4)
	assert.InDelta(t, 0.5, xv[0], 1e-12)
	assert.InDelta(t, 3.5, xv[3], 1e-12)

	// y is centred on the origin
	yv := g.VecY()
	assert.InDelta(t, -1.5, yv[0], 1e-12)
	assert.InDelta(t, 1.5, yv[3], 1e-12)

	zv := g.VecZ()
	assert.InDelta(t, 0.0, zv[0], 1e-12)
	assert.InDelta(t, 1.5, zv[3], 1e-12)

	nodes := g.NodeVecZ()
	require.Len(t, nodes, 5)
	assert.InDelta(t, 2.0, nodes[4], 1e-12)
}

func TestIdxZ(t *testing.T) {
	g, err := New(0, 0, 2, 1, 1, 0.5, 4, 4, 10)
	require.NoError(t, err)

	assert.Equal(t, 0, g.IdxZ(2.0))
	assert.Equal(t, 2, g.IdxZ(3.0))
	assert.Equal(t, 2, g.IdxZ(3.1))
	assert.Equal(t, -2, g.IdxZ(1.0))

	assert.Equal(t, 0, g.ClampZ(-2))
	assert.Equal(t, 9, g.ClampZ(15))
	assert.Equal(t, 5, g.ClampZ(5))
}
