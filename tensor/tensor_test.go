package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerfoo/tapegrad/device"
)

func TestNew(t *testing.T) {
	dev := device.Default()

	tr, err := New[float32](dev, []int{2, 2}, []float32{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, tr.Shape())
	assert.Equal(t, []int{2, 1}, tr.Strides())
	assert.Equal(t, []float32{1, 2, 3, 4}, tr.ToSlice())

	_, err = New[float32](dev, []int{2, 3}, []float32{1, 2})
	assert.ErrorIs(t, err, ErrWrongElementCount)

	_, err = New[float32](dev, []int{2, -1}, nil)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	// Rank-0 tensor holds one element.
	scalar, err := New[float32](dev, []int{}, []float32{7})
	require.NoError(t, err)
	assert.Equal(t, 1, scalar.Size())
	v, err := scalar.Item()
	require.NoError(t, err)
	assert.Equal(t, float32(7), v)
}

func TestIdentityIsMonotonic(t *testing.T) {
	dev := device.Default()
	a, err := Zeros[float32](dev, 2)
	require.NoError(t, err)
	b, err := Zeros[float32](dev, 2)
	require.NoError(t, err)
	assert.Greater(t, b.ID(), a.ID())
}

func TestClonePreservesIdentityAndStorage(t *testing.T) {
	dev := device.Default()
	a, err := New[float32](dev, []int{3}, []float32{1, 2, 3})
	require.NoError(t, err)
	c := a.Clone()
	assert.Equal(t, a.ID(), c.ID())
	assert.Same(t, a.Storage(), c.Storage())

	f := a.WithFreshID()
	assert.NotEqual(t, a.ID(), f.ID())
	assert.Same(t, a.Storage(), f.Storage())
}

func TestCopyOnWrite(t *testing.T) {
	dev := device.Default()
	a, err := New[float32](dev, []int{3}, []float32{1, 2, 3})
	require.NoError(t, err)
	b := a.Clone()

	// Writing through a shared handle must not disturb the other handle.
	data := b.MutableData()
	data[0] = 9
	assert.Equal(t, []float32{1, 2, 3}, a.ToSlice())
	assert.Equal(t, []float32{9, 2, 3}, b.ToSlice())
	assert.NotSame(t, a.Storage(), b.Storage())

	// A uniquely-owned handle writes in place.
	before := a.Storage()
	a.MutableData()[1] = 5
	assert.Same(t, before, a.Storage())
	assert.Equal(t, []float32{1, 5, 3}, a.ToSlice())
}

func TestViewsShareStorage(t *testing.T) {
	dev := device.Default()
	a, err := New[float64](dev, []int{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	perm := a.View([]int{3, 2}, []int{1, 3})
	assert.NotEqual(t, a.ID(), perm.ID())
	assert.Same(t, a.Storage(), perm.Storage())
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, perm.ToSlice())
	assert.Equal(t, a.Size(), perm.Size())

	v, err := perm.At(2, 1)
	require.NoError(t, err)
	assert.Equal(t, float64(6), v)
}

func TestBroadcastViewElementCount(t *testing.T) {
	dev := device.Default()
	a, err := New[float64](dev, []int{3}, []float64{1, 2, 3})
	require.NoError(t, err)

	strides, err := BroadcastStrides([]int{3}, []int{1}, []int{4, 3, 2}, []int{0, 2})
	require.NoError(t, err)
	b := a.View([]int{4, 3, 2}, strides)
	assert.Equal(t, 24, b.Size())
	assert.Equal(t, 3, b.PhysLen())
	assert.Len(t, b.ToSlice(), 24)
}

func TestSampling(t *testing.T) {
	dev := device.Default()
	dev.RNG().Seed(42)
	a, err := SampleNormal[float64](dev, 128)
	require.NoError(t, err)
	dev.RNG().Seed(42)
	b, err := SampleNormal[float64](dev, 128)
	require.NoError(t, err)
	assert.Equal(t, a.ToSlice(), b.ToSlice())

	u, err := SampleUniform[float64](dev, 2, 3, 64)
	require.NoError(t, err)
	for _, v := range u.ToSlice() {
		assert.GreaterOrEqual(t, v, 2.0)
		assert.Less(t, v, 3.0)
	}
}
