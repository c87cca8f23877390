package tensor

import (
	"fmt"
	"sync/atomic"

	"github.com/zerfoo/float16"
	"github.com/zerfoo/float8"
)

// Numeric defines the constraint for element types that can be used in
// tensors. Gradient semantics require floating-point behavior, so the set is
// limited to the float dtypes.
type Numeric interface {
	~float32 | ~float64 | float8.Float8 | float16.Float16
}

// Storage is a contiguous, typed, shared block of device-resident elements.
// Handles share a block by retaining it; the first write through a shared
// handle clones the block (copy-on-write).
type Storage[T Numeric] struct {
	data []T
	refs atomic.Int32
}

func newStorage[T Numeric](n int) (*Storage[T], error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative element count %d", ErrAllocation, n)
	}
	s := &Storage[T]{data: make([]T, n)}
	s.refs.Store(1)

	return s, nil
}

// StorageOf wraps an existing slice without copying. The caller hands over
// ownership. Backends use it to assemble kernel outputs.
func StorageOf[T Numeric](data []T) *Storage[T] {
	return storageOf(data)
}

// storageOf wraps an existing slice without copying. The caller hands over
// ownership.
func storageOf[T Numeric](data []T) *Storage[T] {
	s := &Storage[T]{data: data}
	s.refs.Store(1)

	return s
}

// Len returns the physical element count.
func (s *Storage[T]) Len() int { return len(s.data) }

// Data returns the underlying block. Callers must treat it as read-only
// unless they hold unique access (see Tensor.mutableData).
func (s *Storage[T]) Data() []T { return s.data }

// Retain records one more handle sharing the block and returns it.
func (s *Storage[T]) Retain() *Storage[T] {
	s.refs.Add(1)

	return s
}

// Release drops one handle. Memory itself is garbage collected.
func (s *Storage[T]) Release() { s.refs.Add(-1) }

// Shared reports whether more than one handle currently retains the block.
func (s *Storage[T]) Shared() bool { return s.refs.Load() > 1 }

// clone copies the block into fresh uniquely-owned storage.
func (s *Storage[T]) clone() *Storage[T] {
	data := make([]T, len(s.data))
	copy(data, s.data)

	return storageOf(data)
}
