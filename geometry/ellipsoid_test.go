package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEllipsoidRejectsBadAxes(t *testing.T) {
	for _, axes := range [][3]float64{
		{0, 1, 1},
		{1, -2, 1},
		{1, 1, 0},
	} {
		_, err := NewEllipsoid(axes[0], axes[1], axes[2], 0)
		assert.Error(t, err)
	}
}

func TestContainsTruncation(t *testing.T) {
	e, err := NewEllipsoid(4, 2, 1, 0)
	require.NoError(t, err)

	assert.True(t, e.Contains(0, 0, 0))
	assert.True(t, e.Contains(3.9, 0, 0))
	assert.True(t, e.Contains(0, 0, -0.99))
	assert.False(t, e.Contains(4.1, 0, 0))
	// upper half is cut off
	assert.False(t, e.Contains(0, 0, 0.5))
}

func TestContainsRotation(t *testing.T) {
	// long axis rotated to the y direction
	e, err := NewEllipsoid(4, 1, 1, 90)
	require.NoError(t, err)

	assert.True(t, e.Contains(0, 3.9, 0))
	assert.False(t, e.Contains(3.9, 0, 0))
}

func TestSurfaceDipAzimuth(t *testing.T) {
	e, err := NewEllipsoid(4, 2, 1, 30)
	require.NoError(t, err)

	// flat at the centre
	dip, azim := e.SurfaceDipAzimuth(0, 0, 90)
	assert.InDelta(t, 0, dip, 1e-12)
	assert.InDelta(t, 30, azim, 1e-12)

	// steepens towards the rim and respects the cap
	dipIn, _ := e.SurfaceDipAzimuth(1, 0, 90)
	dipOut, _ := e.SurfaceDipAzimuth(3, 0, 90)
	assert.Greater(t, dipOut, dipIn)
	assert.Greater(t, dipIn, 0.0)

	capped, _ := e.SurfaceDipAzimuth(3, 0, 10)
	assert.InDelta(t, 10, capped, 1e-12)

	// outside the footprint the bedding stays flat
	dip, _ = e.SurfaceDipAzimuth(10, 10, 90)
	assert.Equal(t, 0.0, dip)

	assert.False(t, math.IsNaN(dipOut))
}
