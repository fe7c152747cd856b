package stratigraphy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/sedsim/sedsim/grid"
	"github.com/sedsim/sedsim/model"
	"github.com/sedsim/sedsim/randfield"
)

func testBuilder(t *testing.T, seqs []model.Sequence, elems map[string]*model.Element) *Builder {
	t.Helper()
	g, err := grid.New(0, 0, 0, 1, 1, 1, 10, 10, 10)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(99))
	return &Builder{
		Grid:      g,
		Rand:      rng,
		Fields:    randfield.NewSpectral(rng),
		Sequences: seqs,
		Elements:  elems,
	}
}

func sheetElement() *model.Element {
	return &model.Element{
		Name:          "lens",
		Geometry:      model.Sheet,
		Facies:        []int32{1},
		LensThickness: -1,
	}
}

func TestBuildRequiresSequences(t *testing.T) {
	b := testBuilder(t, nil, nil)
	_, err := b.Build()
	assert.Error(t, err)
}

func TestTwoFlatSequencesPartitionTheDomain(t *testing.T) {
	seqs := []model.Sequence{
		{Name: "lower", Top: 5},
		{Name: "upper", Top: 10},
	}
	b := testBuilder(t, seqs, nil)

	s, err := b.Build()
	require.NoError(t, err)

	// flat contact at z = 5: cells below belong to sequence 0
	zv := b.Grid.VecZ()
	for k, z := range zv {
		want := int32(0)
		if z >= 5 {
			want = 1
		}
		assert.Equal(t, want, s.SeqField.At(4, 4, k), "z=%g", z)
	}

	assert.Equal(t, []float64{0, 5}, s.SeqBottoms)
	assert.Equal(t, []float64{5, 10}, s.SeqTops)
}

func TestEmptyCatalogMakesOneUnitPerSequence(t *testing.T) {
	seqs := []model.Sequence{
		{Name: "lower", Top: 5},
		{Name: "upper", Top: 10},
	}
	b := testBuilder(t, seqs, nil)

	s, err := b.Build()
	require.NoError(t, err)
	require.Len(t, s.Units, 2)

	assert.Equal(t, int32(0), s.Units[0].ID)
	assert.Equal(t, int32(1), s.Units[1].ID)
	assert.Equal(t, 0.0, s.Units[0].BottomZ)
	assert.Equal(t, 5.0, s.Units[0].TopZ)
	assert.Equal(t, 5.0, s.Units[1].BottomZ)
	assert.Equal(t, 10.0, s.Units[1].TopZ)

	// the element field mirrors the sequence split
	assert.Equal(t, int32(0), s.AEField.At(0, 0, 2))
	assert.Equal(t, int32(1), s.AEField.At(0, 0, 7))
}

func TestUnitsCoverSequencesInOrder(t *testing.T) {
	seqs := []model.Sequence{{
		Name: "only", Top: 10,
		Elements:      []string{"lens"},
		Probabilities: []float64{1},
		MeanThickness: []float64{2},
	}}
	b := testBuilder(t, seqs, map[string]*model.Element{"lens": sheetElement()})

	s, err := b.Build()
	require.NoError(t, err)
	require.NotEmpty(t, s.Units)
	require.Len(t, s.UnitBottoms, len(s.Units))

	for i, u := range s.Units {
		assert.Equal(t, int32(i), u.ID)
		assert.Equal(t, "lens", u.Element)
		assert.GreaterOrEqual(t, u.TopZ, u.BottomZ)
		assert.LessOrEqual(t, u.TopZ, 10.0)
		if i > 0 {
			assert.GreaterOrEqual(t, u.BottomZ, s.Units[i-1].BottomZ)
		}
	}

	// every voxel belongs to exactly one allocated unit
	for _, id := range s.AEField.Unique() {
		assert.Less(t, int(id), len(s.Units))
	}

	// bottoms planes are flat for flat contacts
	first := s.UnitBottoms[0]
	assert.Equal(t, first.Max(), first.Min())
	assert.Equal(t, 0.0, first.Mean())
}
