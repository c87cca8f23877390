package compute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxPool2DForwardBackward(t *testing.T) {
	e := engine32(t)
	inp := tensor32(t, []int{1, 2, 4}, []float32{1, 1, 0.5, 0.2, 0.2, 0.2, 0.5, 1.2})
	op := NewPool2DOp(2, 1, 0, [4]int{1, 1, 2, 4})

	out, err := e.Pool2DForward(PoolMax, op, inp)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 3}, out.Shape())
	assert.InDeltaSlice(t, []float32{1, 1, 1.2}, out.ToSlice(), 1e-6)

	gradInp := make([]float32, 8)
	require.NoError(t, e.Pool2DBackward(PoolMax, op, inp, gradInp, out, []float32{1, 1, 1}))
	// The second input column is the maximum of two windows.
	assert.InDeltaSlice(t, []float32{1, 2, 0, 0, 0, 0, 0, 1}, gradInp, 1e-6)
}

func TestMinPool2DForwardBackward(t *testing.T) {
	e := engine32(t)
	inp := tensor32(t, []int{1, 2, 4}, []float32{1, 1, 0.5, 0.2, 0.2, 0.2, 0.5, 1.2})
	op := NewPool2DOp(2, 1, 0, [4]int{1, 1, 2, 4})

	out, err := e.Pool2DForward(PoolMin, op, inp)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{0.2, 0.2, 0.2}, out.ToSlice(), 1e-6)

	gradInp := make([]float32, 8)
	require.NoError(t, e.Pool2DBackward(PoolMin, op, inp, gradInp, out, []float32{1, 1, 1}))
	assert.InDeltaSlice(t, []float32{0, 0, 0, 1, 1, 2, 0, 0}, gradInp, 1e-6)
}

func TestAvgPool2DPaddingDivisor(t *testing.T) {
	e := engine32(t)
	inp := tensor32(t, []int{1, 2, 2}, []float32{1, 2, 3, 4})
	op := NewPool2DOp(2, 2, 1, [4]int{1, 1, 2, 2})

	out, err := e.Pool2DForward(PoolAvg, op, inp)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 2}, out.Shape())
	// Each window sees a single input element; the divisor stays K²=4.
	assert.InDeltaSlice(t, []float32{0.25, 0.5, 0.75, 1}, out.ToSlice(), 1e-6)

	gradInp := make([]float32, 4)
	require.NoError(t, e.Pool2DBackward(PoolAvg, op, inp, gradInp, out, []float32{1, 1, 1, 1}))
	assert.InDeltaSlice(t, []float32{0.25, 0.25, 0.25, 0.25}, gradInp, 1e-6)
}

func TestPool2DBatchedInput(t *testing.T) {
	e := engine32(t)
	inp := tensor32(t, []int{2, 1, 2, 2}, []float32{1, 2, 3, 4, 5, 6, 7, 8})
	op := NewPool2DOp(2, 2, 0, [4]int{2, 1, 2, 2})

	out, err := e.Pool2DForward(PoolAvg, op, inp)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 1, 1}, out.Shape())
	assert.InDeltaSlice(t, []float32{2.5, 6.5}, out.ToSlice(), 1e-6)
}

func TestPool2DIdentity(t *testing.T) {
	e := engine32(t)
	inp := tensor32(t, []int{1, 2, 2}, []float32{1, 2, 3, 4})
	op := NewPool2DOp(1, 1, 0, [4]int{1, 1, 2, 2})

	for _, kind := range []PoolKind{PoolAvg, PoolMax, PoolMin} {
		out, err := e.Pool2DForward(kind, op, inp)
		require.NoError(t, err)
		assert.Equal(t, inp.ToSlice(), out.ToSlice())

		gradInp := make([]float32, 4)
		require.NoError(t, e.Pool2DBackward(kind, op, inp, gradInp, out, []float32{1, 1, 1, 1}))
		assert.Equal(t, []float32{1, 1, 1, 1}, gradInp)
	}
}
