package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/sedsim/sedsim/grid"
)

func testGrid(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.New(0, 0, 0, 0.5, 0.5, 0.2, 40, 20, 10)
	require.NoError(t, err)
	return g
}

func TestNewLinearDipSets(t *testing.T) {
	g := testGrid(t)
	rng := rand.New(rand.NewSource(1))

	_, err := NewLinearDipSets(g, 0, 0, [2]float64{10, 20}, 1, rng)
	assert.Error(t, err)

	ds, err := NewLinearDipSets(g, 1, 0, [2]float64{10, 20}, 1, rng)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, ds.NumSets(), 2)
	assert.GreaterOrEqual(t, ds.Dip, 10.0)
	assert.LessOrEqual(t, ds.Dip, 20.0)
}

func TestSetIndexPartitionsAlongAzimuth(t *testing.T) {
	g := testGrid(t)
	rng := rand.New(rand.NewSource(7))
	ds, err := NewLinearDipSets(g, 1, 0, [2]float64{15, 15}, 0, rng)
	require.NoError(t, err)

	// walking down the azimuth direction never decreases the set index
	// within the domain
	prev := ds.SetIndex(0.25, 0, 0)
	for x := 0.25; x < g.Lx(); x += 0.5 {
		set := ds.SetIndex(x, 0, 0)
		assert.GreaterOrEqual(t, set, prev)
		prev = set
	}

	// neighbouring points share a set, far points do not
	near := ds.SetIndex(5.0, 0, 0)
	assert.Equal(t, near, ds.SetIndex(5.0+1e-9, 0, 0))
	assert.NotEqual(t, near, ds.SetIndex(15.0, 0, 0))
}

func TestChannelDipSetsFollowCentreline(t *testing.T) {
	xc := []float64{0, 2, 4, 6, 8, 10}
	yc := []float64{0, 0, 0, 0, 0, 0}
	rng := rand.New(rand.NewSource(3))

	ds, err := NewChannelDipSets(xc, yc, 1, [2]float64{20, 20}, 0, rng)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, ds.NumSets(), 5)

	// successive stations along the straight centreline advance the set
	a := ds.SetIndex(1.5, 0, 0)
	b := ds.SetIndex(4.5, 0, 0)
	assert.Greater(t, b, a)
}

func TestAssignFacies(t *testing.T) {
	g := testGrid(t)
	rng := rand.New(rand.NewSource(11))
	ds, err := NewLinearDipSets(g, 1, 0, [2]float64{10, 10}, 0, rng)
	require.NoError(t, err)

	uniform := ds.AssignFacies([]int32{2, 5}, nil, rng)
	require.Len(t, uniform, ds.NumSets())
	for _, f := range uniform {
		assert.Contains(t, []int32{2, 5}, f)
	}

	// strict alternation table: 2 -> 5 -> 2 -> ...
	alt := ds.AssignFacies([]int32{2, 5}, [][]int32{{5}, {2}}, rng)
	for i := 1; i < len(alt); i++ {
		assert.NotEqual(t, alt[i-1], alt[i])
	}
}
