package compute

import (
	"fmt"

	"github.com/zerfoo/tapegrad/tensor"
)

// StackForward concatenates n tensors of identical shape and identical
// strides along a new leading axis. The payload is the physical
// concatenation, so the leading stride is the physical item size and the
// remaining strides (including any stride-0 broadcast axes) carry over.
func (e *CPUEngine[T]) StackForward(inp []*tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	if len(inp) == 0 {
		return nil, fmt.Errorf("%w: stack of zero tensors", tensor.ErrShapeMismatch)
	}
	itemShape := inp[0].Shape()
	itemStrides := inp[0].Strides()
	if tensor.NumElements(itemShape) == 0 {
		return nil, fmt.Errorf("%w: stack of empty tensors", tensor.ErrShapeMismatch)
	}
	for _, t := range inp {
		if !tensor.SameInts(t.Shape(), itemShape) {
			return nil, fmt.Errorf("%w: stack of shapes %v and %v", tensor.ErrShapeMismatch, itemShape, t.Shape())
		}
		if !tensor.SameInts(t.Strides(), itemStrides) {
			return nil, fmt.Errorf("%w: stack of strides %v and %v", tensor.ErrStrideMismatch, itemStrides, t.Strides())
		}
	}

	physLen := inp[0].PhysLen()
	shape := append([]int{len(inp)}, itemShape...)
	strides := append([]int{physLen}, itemStrides...)
	data := make([]T, 0, len(inp)*physLen)
	for _, t := range inp {
		data = append(data, t.ReadData()...)
	}

	return tensor.FromStorage(e.dev, shape, strides, tensor.StorageOf(data)), nil
}

// StackBackward splits gradOut into equal physical slabs and accumulates
// each into the corresponding input gradient.
func (e *CPUEngine[T]) StackBackward(gradInp [][]T, gradOut []T) error {
	offset := 0
	for _, gi := range gradInp {
		if offset+len(gi) > len(gradOut) {
			return fmt.Errorf("%w: stack gradient slabs exceed output gradient", tensor.ErrWrongElementCount)
		}
		for j := range gi {
			gi[j] = e.ops.Add(gi[j], gradOut[offset+j])
		}
		offset += len(gi)
	}

	return nil
}
