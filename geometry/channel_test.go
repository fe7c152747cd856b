package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/sedsim/sedsim/grid"
)

func TestAR2Coefficients(t *testing.T) {
	// Ferguson (1976): b2 = -e^(-2kh) lies in (-1, 0) for positive k, h
	for _, p := range [][2]float64{{0.5, 0.2}, {0.8, 0.3}, {1.5, 0.7}} {
		b1, b2 := ar2Coefficients(p[0], p[1])
		assert.Less(t, b2, 0.0)
		assert.Greater(t, b2, -1.0)
		assert.Less(t, math.Abs(b1), 2.0)
	}
}

func TestFergusonThetaStartsUndisturbed(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	theta := fergusonTheta(200, 0.1, 0.8, 0.3, rng)
	require.Len(t, theta, 200)
	assert.Equal(t, 0.0, theta[0])

	// the damped model keeps direction angles well inside a quarter turn
	for _, th := range theta {
		assert.Less(t, math.Abs(th), math.Pi/2)
	}
}

func TestFergusonCentreline(t *testing.T) {
	g, err := grid.New(0, 0, 0, 0.5, 0.5, 0.5, 80, 40, 10)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(42))

	pts := Ferguson(g, 0.3, 0.8, 0.5, 0.1, 0, true, rng)
	require.GreaterOrEqual(t, len(pts), 2)

	for _, p := range pts {
		assert.GreaterOrEqual(t, p.X, g.Ox)
		assert.LessOrEqual(t, p.X, g.Ox+g.Lx())
	}
	// display channels are pinned to the y origin
	assert.InDelta(t, 0, pts[0].Y, 1e-9)

	// velocities follow the sampling direction
	for _, p := range pts[:len(pts)-1] {
		assert.NotEqual(t, 0.0, math.Hypot(p.Vx, p.Vy))
	}
}

func TestCurveInterp(t *testing.T) {
	_, _, err := CurveInterp([]float64{0, 1}, []float64{0, 0}, 0)
	assert.Error(t, err)

	_, _, err = CurveInterp([]float64{0}, []float64{0}, 1)
	assert.Error(t, err)

	xc := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8}
	yc := make([]float64, len(xc))
	xn, yn, err := CurveInterp(xc, yc, 0.5)
	require.NoError(t, err)
	require.Equal(t, len(xn), len(yn))

	for i := 1; i < len(xn); i++ {
		d := math.Hypot(xn[i]-xn[i-1], yn[i]-yn[i-1])
		assert.InDelta(t, 0.5, d, 1e-9)
	}
}
