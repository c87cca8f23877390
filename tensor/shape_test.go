package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContiguousStrides(t *testing.T) {
	assert.Equal(t, []int{6, 2, 1}, ContiguousStrides([]int{4, 3, 2}))
	assert.Equal(t, []int{1}, ContiguousStrides([]int{5}))
	assert.Empty(t, ContiguousStrides(nil))
}

func TestCheckShape(t *testing.T) {
	require.NoError(t, CheckShape([]int{2, 3}))
	require.NoError(t, CheckShape([]int{}))
	require.NoError(t, CheckShape([]int{0}))
	assert.ErrorIs(t, CheckShape([]int{2, -1}), ErrShapeMismatch)
	assert.ErrorIs(t, CheckShape([]int{1, 1, 1, 1, 1, 1, 1}), ErrShapeMismatch)
}

func TestReducedShape(t *testing.T) {
	got, err := ReducedShape([]int{4, 3, 2}, []int{1})
	require.NoError(t, err)
	assert.Equal(t, []int{4, 2}, got)

	got, err = ReducedShape([]int{4, 3, 2}, nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = ReducedShape([]int{4, 3}, []int{2})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestBroadcastStrides(t *testing.T) {
	// (3,) -> (4,3,2) inserting axes 0 and 2.
	strides, err := BroadcastStrides([]int{3}, []int{1}, []int{4, 3, 2}, []int{0, 2})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0}, strides)

	// Destination that does not embed the source fails.
	_, err = BroadcastStrides([]int{3}, []int{1}, []int{4, 5, 2}, []int{0, 2})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestPermutation(t *testing.T) {
	require.NoError(t, CheckPermutation(3, []int{2, 0, 1}))
	assert.Error(t, CheckPermutation(3, []int{0, 0, 1}))
	assert.Error(t, CheckPermutation(3, []int{0, 1}))

	assert.Equal(t, []int{2, 3, 4}, PermuteInts([]int{3, 4, 2}, []int{2, 0, 1}))
	assert.Equal(t, []int{1, 2, 0}, InversePermutation([]int{2, 0, 1}))
}

func TestIsContiguous(t *testing.T) {
	assert.True(t, IsContiguous([]int{4, 3}, []int{3, 1}))
	assert.False(t, IsContiguous([]int{4, 3}, []int{1, 4}))
	// Axes of extent 1 never contribute to an offset.
	assert.True(t, IsContiguous([]int{1, 3}, []int{0, 1}))
	// Broadcast axes are not contiguous.
	assert.False(t, IsContiguous([]int{4, 3}, []int{0, 1}))
}

func TestPhysicalIndex(t *testing.T) {
	shape := []int{2, 3}
	strides := []int{3, 1}
	for i := 0; i < 6; i++ {
		assert.Equal(t, i, PhysicalIndex(i, shape, strides))
	}
	// Broadcast axis: every row maps to the same three slots.
	bStrides := []int{0, 1}
	assert.Equal(t, 2, PhysicalIndex(5, shape, bStrides))
	assert.Equal(t, 0, PhysicalIndex(3, shape, bStrides))
	// Permuted view of (3,2) stored row-major, read as (2,3).
	pStrides := []int{1, 2}
	assert.Equal(t, []int{0, 2, 4, 1, 3, 5}, func() []int {
		out := make([]int, 6)
		for i := range out {
			out[i] = PhysicalIndex(i, shape, pStrides)
		}

		return out
	}())
}
