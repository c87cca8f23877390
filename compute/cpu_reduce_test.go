package compute

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumReduceAxis(t *testing.T) {
	e := engine32(t)
	inp := tensor32(t, []int{2, 3}, []float32{1, 2, 3, -2, 4, -6})

	out, err := e.ReduceForward(ReduceSum, inp, []int{0})
	require.NoError(t, err)
	assert.Equal(t, []int{3}, out.Shape())
	assert.Equal(t, []float32{-1, 6, -3}, out.ToSlice())

	out, err = e.ReduceForward(ReduceSum, inp, []int{1})
	require.NoError(t, err)
	assert.Equal(t, []float32{6, -4}, out.ToSlice())

	// Empty axis list reduces everything.
	out, err = e.ReduceForward(ReduceSum, inp, nil)
	require.NoError(t, err)
	assert.Empty(t, out.Shape())
	assert.Equal(t, []float32{2}, out.ToSlice())
}

func TestSumBackwardBroadcastsAcrossReducedAxes(t *testing.T) {
	e := engine32(t)
	inp := tensor32(t, []int{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	out, err := e.ReduceForward(ReduceSum, inp, []int{1})
	require.NoError(t, err)

	gradInp := make([]float32, 6)
	require.NoError(t, e.ReduceBackward(ReduceSum, inp, gradInp, out, []float32{10, 20}, []int{1}))
	assert.Equal(t, []float32{10, 10, 10, 20, 20, 20}, gradInp)
}

func TestMaxReduceWithTies(t *testing.T) {
	e := engine32(t)
	inp := tensor32(t, []int{2, 3}, []float32{1, 2, 2, 3, -2, 2})

	out, err := e.ReduceForward(ReduceMax, inp, []int{1})
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 3}, out.ToSlice())

	// Every position matching the slice maximum receives the full
	// output gradient.
	gradInp := make([]float32, 6)
	require.NoError(t, e.ReduceBackward(ReduceMax, inp, gradInp, out, []float32{1, 1}, []int{1}))
	assert.Equal(t, []float32{0, 1, 1, 1, 0, 0}, gradInp)
}

func TestMaxReduceAxis0(t *testing.T) {
	e := engine32(t)
	inp := tensor32(t, []int{2, 3}, []float32{1, 2, 2, 3, -2, 2})

	out, err := e.ReduceForward(ReduceMax, inp, []int{0})
	require.NoError(t, err)
	assert.Equal(t, []float32{3, 2, 2}, out.ToSlice())
}

func TestMinReduceNegativeZero(t *testing.T) {
	e := engine32(t)
	negZero := float32(math.Copysign(0, -1))
	inp := tensor32(t, []int{4, 2}, []float32{negZero, 0, 0, negZero, -1, negZero, -1, 0})

	out, err := e.ReduceForward(ReduceMin, inp, []int{1})
	require.NoError(t, err)
	vals := out.ToSlice()
	assert.Equal(t, []float32{0, 0, -1, -1}, vals)
	// The first two minima are negative zero, not positive zero.
	assert.True(t, math.Signbit(float64(vals[0])))
	assert.True(t, math.Signbit(float64(vals[1])))

	gradInp := make([]float32, 8)
	require.NoError(t, e.ReduceBackward(ReduceMin, inp, gradInp, out, []float32{1, 1, 1, 1}, []int{1}))
	// -0 and +0 are numerically tied, so both slots match in rows 0 and 1.
	assert.Equal(t, []float32{1, 1, 1, 1, 1, 0, 1, 0}, gradInp)
}

func TestMaxReduceNegativeZero(t *testing.T) {
	e := engine32(t)
	negZero := float32(math.Copysign(0, -1))
	inp := tensor32(t, []int{4, 2}, []float32{negZero, 0, 0, negZero, -1, negZero, -1, 0})

	out, err := e.ReduceForward(ReduceMax, inp, []int{1})
	require.NoError(t, err)
	vals := out.ToSlice()
	assert.Equal(t, []float32{0, 0, 0, 0}, vals)
	assert.False(t, math.Signbit(float64(vals[0])))
	assert.False(t, math.Signbit(float64(vals[1])))
	// Rows 2 and 3 pick -0 and +0 over -1.
	assert.True(t, math.Signbit(float64(vals[2])))
	assert.False(t, math.Signbit(float64(vals[3])))

	gradInp := make([]float32, 8)
	require.NoError(t, e.ReduceBackward(ReduceMax, inp, gradInp, out, []float32{1, 1, 1, 1}, []int{1}))
	assert.Equal(t, []float32{1, 1, 1, 1, 0, 1, 0, 1}, gradInp)
}

func TestSumReduceBroadcastInput(t *testing.T) {
	e := engine32(t)
	base := tensor32(t, []int{3}, []float32{1, 2, 3})
	// (4,3,2) view with axes 0 and 2 broadcast.
	view := base.View([]int{4, 3, 2}, []int{0, 1, 0})

	out, err := e.ReduceForward(ReduceSum, view, nil)
	require.NoError(t, err)
	assert.Equal(t, []float32{48}, out.ToSlice())

	gradInp := make([]float32, 3)
	require.NoError(t, e.ReduceBackward(ReduceSum, view, gradInp, out, []float32{1}, nil))
	assert.Equal(t, []float32{8, 8, 8}, gradInp)
}

func TestReduceRank0(t *testing.T) {
	e := engine32(t)
	inp := tensor32(t, []int{}, []float32{5})
	out, err := e.ReduceForward(ReduceSum, inp, nil)
	require.NoError(t, err)
	assert.Empty(t, out.Shape())
	assert.Equal(t, []float32{5}, out.ToSlice())
}
