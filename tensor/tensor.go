package tensor

import (
	"fmt"
	"sync/atomic"

	"github.com/zerfoo/tapegrad/device"
	"github.com/zerfoo/tapegrad/numeric"
)

var idCounter atomic.Uint64

// NextID stamps a fresh monotonic identity. Every tensor creation and every
// view transform consumes one; clones do not.
func NextID() uint64 { return idCounter.Add(1) }

// Tensor is a shape/stride-indexed handle over device-resident storage.
// Handles are cheap to clone; distinct handles may share storage, and any
// mutation goes through unique-storage access (copy-on-write).
type Tensor[T Numeric] struct {
	id      uint64
	shape   []int
	strides []int
	storage *Storage[T]
	dev     device.Device
	tape    *Tape[T]
}

// New creates a tensor with the given shape over the provided host data.
// A nil data slice allocates zeroed storage; otherwise the slice is adopted
// without copying and its length must equal the shape's element count.
func New[T Numeric](dev device.Device, shape []int, data []T) (*Tensor[T], error) {
	if err := CheckShape(shape); err != nil {
		return nil, err
	}
	size := NumElements(shape)
	if data == nil {
		st, err := newStorage[T](size)
		if err != nil {
			return nil, err
		}

		return fresh(dev, shape, ContiguousStrides(shape), st), nil
	}
	if len(data) != size {
		return nil, fmt.Errorf("%w: data length %d for shape %v (%d elements)",
			ErrWrongElementCount, len(data), shape, size)
	}

	return fresh(dev, shape, ContiguousStrides(shape), storageOf(data)), nil
}

// fresh assembles a tensor with a new identity. Shape and strides are
// adopted, not copied.
func fresh[T Numeric](dev device.Device, shape, strides []int, st *Storage[T]) *Tensor[T] {
	return &Tensor[T]{
		id:      NextID(),
		shape:   shape,
		strides: strides,
		storage: st,
		dev:     dev,
	}
}

// FromStorage assembles a tensor with a fresh identity over existing
// storage. Backends use it to build kernel outputs and views; the storage is
// not retained, the caller transfers one reference.
func FromStorage[T Numeric](dev device.Device, shape, strides []int, st *Storage[T]) *Tensor[T] {
	return fresh(dev, shape, strides, st)
}

// Zeros creates a zero-filled tensor.
func Zeros[T Numeric](dev device.Device, shape ...int) (*Tensor[T], error) {
	return New[T](dev, shape, nil)
}

// Ones creates a one-filled tensor.
func Ones[T Numeric](dev device.Device, shape ...int) (*Tensor[T], error) {
	t, err := New[T](dev, shape, nil)
	if err != nil {
		return nil, err
	}
	ops, ok := numeric.OpsFor[T]()
	if !ok {
		return nil, ErrUnsupportedDType
	}
	data := t.storage.data
	one := ops.One()
	for i := range data {
		data[i] = one
	}

	return t, nil
}

// SampleNormal creates a tensor filled with draws from N(0, 1) using the
// device's random source.
func SampleNormal[T Numeric](dev device.Device, shape ...int) (*Tensor[T], error) {
	t, err := New[T](dev, shape, nil)
	if err != nil {
		return nil, err
	}
	ops, ok := numeric.OpsFor[T]()
	if !ok {
		return nil, ErrUnsupportedDType
	}
	rng := dev.RNG()
	data := t.storage.data
	for i := range data {
		data[i] = ops.FromFloat64(rng.Normal(0, 1))
	}

	return t, nil
}

// SampleUniform creates a tensor filled with draws from U[min, max).
func SampleUniform[T Numeric](dev device.Device, min, max float64, shape ...int) (*Tensor[T], error) {
	t, err := New[T](dev, shape, nil)
	if err != nil {
		return nil, err
	}
	ops, ok := numeric.OpsFor[T]()
	if !ok {
		return nil, ErrUnsupportedDType
	}
	rng := dev.RNG()
	data := t.storage.data
	for i := range data {
		data[i] = ops.FromFloat64(rng.Uniform(min, max))
	}

	return t, nil
}

// ID returns the tensor's identity.
func (t *Tensor[T]) ID() uint64 { return t.id }

// Device returns the device the storage lives on.
func (t *Tensor[T]) Device() device.Device { return t.dev }

// Shape returns a copy of the tensor's shape.
func (t *Tensor[T]) Shape() []int {
	out := make([]int, len(t.shape))
	copy(out, t.shape)

	return out
}

// Strides returns a copy of the tensor's strides.
func (t *Tensor[T]) Strides() []int {
	out := make([]int, len(t.strides))
	copy(out, t.strides)

	return out
}

// Rank returns the number of axes.
func (t *Tensor[T]) Rank() int { return len(t.shape) }

// Size returns the logical element count, the product of the extents.
func (t *Tensor[T]) Size() int { return NumElements(t.shape) }

// PhysLen returns the physical element count of the backing storage, which
// is smaller than Size for broadcast views.
func (t *Tensor[T]) PhysLen() int { return t.storage.Len() }

// Storage exposes the backing block for backend kernels.
func (t *Tensor[T]) Storage() *Storage[T] { return t.storage }

// ReadData returns the raw physical block for read-only kernel access.
func (t *Tensor[T]) ReadData() []T { return t.storage.Data() }

// mutableData returns the physical block for writing, cloning it first when
// it is shared with another handle.
func (t *Tensor[T]) mutableData() []T {
	if t.storage.Shared() {
		owned := t.storage.clone()
		t.storage.Release()
		t.storage = owned
	}

	return t.storage.data
}

// MutableData is the unique-access escape hatch: it returns storage that is
// guaranteed not to be shared, copying first if necessary.
func (t *Tensor[T]) MutableData() []T { return t.mutableData() }

// At retrieves the value at the given indices.
func (t *Tensor[T]) At(indices ...int) (T, error) {
	var zero T
	if len(indices) != len(t.shape) {
		return zero, fmt.Errorf("%w: %d indices for rank %d", ErrShapeMismatch, len(indices), len(t.shape))
	}
	offset := 0
	for i, idx := range indices {
		if idx < 0 || idx >= t.shape[i] {
			return zero, fmt.Errorf("%w: index %d out of bounds for axis %d with extent %d",
				ErrShapeMismatch, idx, i, t.shape[i])
		}
		offset += idx * t.strides[i]
	}

	return t.storage.data[offset], nil
}

// Item returns the single element of a size-1 tensor.
func (t *Tensor[T]) Item() (T, error) {
	var zero T
	if t.Size() != 1 {
		return zero, fmt.Errorf("%w: Item on tensor with %d elements", ErrShapeMismatch, t.Size())
	}

	return t.storage.data[PhysicalIndex(0, t.shape, t.strides)], nil
}

// ToSlice gathers the elements in logical row-major order. The result has
// exactly Size elements regardless of broadcast or permuted strides.
func (t *Tensor[T]) ToSlice() []T {
	size := t.Size()
	out := make([]T, size)
	for i := range out {
		out[i] = t.storage.data[PhysicalIndex(i, t.shape, t.strides)]
	}

	return out
}

// Clone returns a handle that preserves identity and shares storage. Ops use
// it to capture operands for backward closures.
func (t *Tensor[T]) Clone() *Tensor[T] {
	return &Tensor[T]{
		id:      t.id,
		shape:   t.shape,
		strides: t.strides,
		storage: t.storage.Retain(),
		dev:     t.dev,
		tape:    t.tape,
	}
}

// WithFreshID returns a handle over the same storage under a new identity.
// Binary ops use it to split a same-operand collision.
func (t *Tensor[T]) WithFreshID() *Tensor[T] {
	return fresh(t.dev, t.shape, t.strides, t.storage.Retain())
}

// View returns a tensor with a fresh identity, the given shape and strides,
// and storage aliased to t.
func (t *Tensor[T]) View(shape, strides []int) *Tensor[T] {
	return fresh(t.dev, shape, strides, t.storage.Retain())
}

// String returns a short description of the tensor.
func (t *Tensor[T]) String() string {
	return fmt.Sprintf("Tensor(id=%d, shape=%v, data=%v)", t.id, t.shape, t.ToSlice())
}
