package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerfoo/tapegrad/device"
)

func TestTraceAndSplit(t *testing.T) {
	dev := device.Default()
	a, err := New[float32](dev, []int{2}, []float32{1, 2})
	require.NoError(t, err)
	assert.Nil(t, a.Tape())

	b := a.Trace()
	require.NotNil(t, b.Tape())
	assert.Equal(t, a.ID(), b.ID())

	inp, tp := b.SplitTape()
	assert.Nil(t, inp.Tape())
	assert.NotNil(t, tp)
	out := inp.PutTape(tp)
	assert.Same(t, tp, out.Tape())
}

func TestMergeConcatenatesInForwardOrder(t *testing.T) {
	var order []int
	lhs := NewTape[float32]()
	lhs.Append(func(*Gradients[float32]) error { order = append(order, 1); return nil })
	rhs := NewTape[float32]()
	rhs.Append(func(*Gradients[float32]) error { order = append(order, 2); return nil })

	merged := Merge(lhs, rhs)
	require.Same(t, lhs, merged)
	assert.Equal(t, 2, merged.Len())
	for _, op := range merged.ops {
		require.NoError(t, op(nil))
	}
	assert.Equal(t, []int{1, 2}, order)

	// Merging nil on either side keeps the other.
	assert.Same(t, merged, Merge(merged, nil))
	assert.Same(t, merged, Merge(nil, merged))
	assert.Same(t, merged, Merge(merged, merged))
}

func TestBackwardRunsInReverseOrder(t *testing.T) {
	dev := device.Default()
	a, err := New[float32](dev, []int{}, []float32{3})
	require.NoError(t, err)
	leaf := a.Trace()
	tp := leaf.Tape()

	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		tp.Append(func(*Gradients[float32]) error { order = append(order, i); return nil })
	}
	grads, err := leaf.TryBackward()
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2, 1}, order)

	// The scalar seed is one.
	seed, err := grads.Ref(a.ID())
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, seed)
}

func TestBackwardErrors(t *testing.T) {
	dev := device.Default()
	a, err := New[float32](dev, []int{2}, []float32{1, 2})
	require.NoError(t, err)

	_, err = a.TryBackward()
	assert.ErrorIs(t, err, ErrNoTape)

	// A non-scalar cannot start a backward pass.
	_, err = a.Trace().TryBackward()
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestGradientsBorrowDiscipline(t *testing.T) {
	dev := device.Default()
	a, err := New[float32](dev, []int{2}, []float32{1, 2})
	require.NoError(t, err)
	b, err := New[float32](dev, []int{2}, []float32{3, 4})
	require.NoError(t, err)

	g := NewGradients[float32]()
	require.NoError(t, g.Alloc(a))
	require.NoError(t, g.Alloc(b))

	_, _, err = g.MutAndRef(a.ID(), a.ID())
	assert.ErrorIs(t, err, ErrIdentityCollision)

	mut, ref, err := g.MutAndRef(a.ID(), b.ID())
	require.NoError(t, err)
	assert.Len(t, mut, 2)
	assert.Len(t, ref, 2)

	_, _, _, err = g.MutsAndRef(a.ID(), a.ID(), b.ID())
	assert.ErrorIs(t, err, ErrIdentityCollision)

	_, _, err = g.ManyAndRef([]uint64{a.ID(), a.ID()}, b.ID())
	assert.ErrorIs(t, err, ErrIdentityCollision)

	_, err = g.Ref(999999)
	assert.ErrorIs(t, err, ErrMissingGradient)
}

func TestGradientsGetViewsLikeOwner(t *testing.T) {
	dev := device.Default()
	a, err := New[float32](dev, []int{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	g := NewGradients[float32]()
	require.NoError(t, g.Alloc(a))

	buf, err := g.Ref(a.ID())
	require.NoError(t, err)
	for i := range buf {
		buf[i] = float32(i)
	}
	grad, err := g.Get(a)
	require.NoError(t, err)
	assert.Equal(t, a.Shape(), grad.Shape())
	assert.Equal(t, []float32{0, 1, 2, 3, 4, 5}, grad.ToSlice())
}

func TestAllocIsLazyAndIdempotent(t *testing.T) {
	dev := device.Default()
	a, err := New[float32](dev, []int{2}, []float32{1, 2})
	require.NoError(t, err)
	g := NewGradients[float32]()
	assert.False(t, g.Has(a.ID()))
	require.NoError(t, g.Alloc(a))
	buf, err := g.Ref(a.ID())
	require.NoError(t, err)
	buf[0] = 5
	require.NoError(t, g.Alloc(a))
	buf2, err := g.Ref(a.ID())
	require.NoError(t, err)
	assert.Equal(t, float32(5), buf2[0])
}
