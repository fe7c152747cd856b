package voxel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldIndexing(t *testing.T) {
	f := NewField(3, 4, 5)
	require.Len(t, f.Data, 60)

	f.Set(2, 3, 4, 7.5)
	assert.Equal(t, 7.5, f.At(2, 3, 4))
	assert.Equal(t, 7.5, f.Data[len(f.Data)-1])

	f.Fill(1)
	assert.Equal(t, 1.0, f.At(0, 0, 0))
	assert.Equal(t, 1.0, f.At(2, 3, 4))
}

func TestIntFieldUnique(t *testing.T) {
	f := NewIntField(2, 2, 2)
	f.Set(0, 0, 0, 5)
	f.Set(1, 1, 1, 2)
	f.Set(0, 1, 0, 5)

	assert.Equal(t, []int32{0, 2, 5}, f.Unique())
}

func TestPlaneStats(t *testing.T) {
	p := NewPlane(2, 2)
	p.Set(0, 0, 1)
	p.Set(0, 1, 2)
	p.Set(1, 0, 3)
	p.Set(1, 1, 6)

	assert.Equal(t, 6.0, p.Max())
	assert.Equal(t, 1.0, p.Min())
	assert.Equal(t, 3.0, p.Mean())
}

func TestTensorFieldSliceIsMutable(t *testing.T) {
	tf := NewTensorField(2, 2, 2)
	tensor := tf.Tensor(1, 0, 1)
	require.Len(t, tensor, 9)

	tensor[0] = 3.5
	tensor[8] = -1.0
	again := tf.Tensor(1, 0, 1)
	assert.Equal(t, 3.5, again[0])
	assert.Equal(t, -1.0, again[8])

	// neighbouring cell untouched
	assert.Equal(t, 0.0, tf.Tensor(1, 0, 0)[0])
}
