package compute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerfoo/tapegrad/tensor"
)

func TestStackForward(t *testing.T) {
	e := engine32(t)
	a := tensor32(t, []int{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	b := tensor32(t, []int{2, 3}, []float32{7, 8, 9, 10, 11, 12})

	out, err := e.StackForward([]*tensor.Tensor[float32]{a, b})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 3}, out.Shape())
	assert.Equal(t, []int{6, 3, 1}, out.Strides())
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, out.ToSlice())
}

func TestStackBroadcastItemsKeepStrides(t *testing.T) {
	e := engine32(t)
	base := tensor32(t, []int{3}, []float32{1, 2, 3})
	x := base.View([]int{4, 3}, []int{0, 1})
	y := base.View([]int{4, 3}, []int{0, 1})

	out, err := e.StackForward([]*tensor.Tensor[float32]{x, y})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 3}, out.Shape())
	// The payload is physical, so the leading stride is the physical item
	// size and the broadcast stride survives.
	assert.Equal(t, []int{3, 0, 1}, out.Strides())
	assert.Equal(t, 6, out.PhysLen())
	assert.Equal(t, 24, out.Size())
}

func TestStackErrors(t *testing.T) {
	e := engine32(t)
	a := tensor32(t, []int{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	short := tensor32(t, []int{3}, []float32{1, 2, 3})
	_, err := e.StackForward([]*tensor.Tensor[float32]{a, short})
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)

	// Same shape but mismatched broadcast structure.
	bview := short.View([]int{2, 3}, []int{0, 1})
	_, err = e.StackForward([]*tensor.Tensor[float32]{a, bview})
	assert.ErrorIs(t, err, tensor.ErrStrideMismatch)

	empty := tensor32(t, []int{0, 3}, nil)
	_, err = e.StackForward([]*tensor.Tensor[float32]{empty, empty})
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)

	_, err = e.StackForward(nil)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestStackBackwardSplitsSlabs(t *testing.T) {
	e := engine32(t)
	gradA := make([]float32, 3)
	gradB := make([]float32, 3)
	gradOut := []float32{1, 2, 3, 4, 5, 6}
	require.NoError(t, e.StackBackward([][]float32{gradA, gradB}, gradOut))
	assert.Equal(t, []float32{1, 2, 3}, gradA)
	assert.Equal(t, []float32{4, 5, 6}, gradB)
}
