package ops

import (
	"fmt"

	"github.com/zerfoo/tapegrad/tensor"
)

// viewBackward appends the shared backward closure of the pure view ops.
// The view aliases its input's storage, so both gradient buffers have the
// same physical layout and backward is a plain element-wise accumulate.
func viewBackward[T tensor.Numeric](tp *tensor.Tape[T], inp, out *tensor.Tensor[T]) error {
	e, err := engineFor(inp)
	if err != nil {
		return err
	}
	if err := tp.Alloc(inp); err != nil {
		return err
	}
	if err := tp.Alloc(out); err != nil {
		return err
	}
	inpC := inp.Clone()
	outC := out.Clone()
	tp.Append(func(g *tensor.Gradients[T]) error {
		gradInp, gradOut, err := g.MutAndRef(inpC.ID(), outC.ID())
		if err != nil {
			return err
		}

		return e.AddAssign(gradInp, gradOut)
	})

	return nil
}

// TryBroadcast returns a pure view with the destination shape, where the
// axes listed were inserted with stride 0. No data is copied.
func TryBroadcast[T tensor.Numeric](t *tensor.Tensor[T], dst []int, axes ...int) (*tensor.Tensor[T], error) {
	inp, tp := t.SplitTape()
	if err := tensor.CheckShape(dst); err != nil {
		return nil, err
	}
	strides, err := tensor.BroadcastStrides(inp.Shape(), inp.Strides(), dst, axes)
	if err != nil {
		return nil, err
	}
	out := inp.View(append([]int(nil), dst...), strides)
	if tp == nil {
		return out, nil
	}
	if err := viewBackward(tp, inp, out); err != nil {
		return nil, err
	}

	return out.PutTape(tp), nil
}

// Broadcast returns a stride-0 broadcast view. It panics on a backend error.
func Broadcast[T tensor.Numeric](t *tensor.Tensor[T], dst []int, axes ...int) *tensor.Tensor[T] {
	return must(TryBroadcast(t, dst, axes...))
}

// TryPermute returns a pure view whose shape and strides are the
// permutation of the input's. Backward routes the gradient through the
// inverse permutation, which over physical buffers is the identity
// accumulate.
func TryPermute[T tensor.Numeric](t *tensor.Tensor[T], perm ...int) (*tensor.Tensor[T], error) {
	inp, tp := t.SplitTape()
	if err := tensor.CheckPermutation(inp.Rank(), perm); err != nil {
		return nil, err
	}
	out := inp.View(tensor.PermuteInts(inp.Shape(), perm), tensor.PermuteInts(inp.Strides(), perm))
	if tp == nil {
		return out, nil
	}
	if err := viewBackward(tp, inp, out); err != nil {
		return nil, err
	}

	return out.PutTape(tp), nil
}

// Permute applies an axis permutation as a pure view. It panics on a
// backend error.
func Permute[T tensor.Numeric](t *tensor.Tensor[T], perm ...int) *tensor.Tensor[T] {
	return must(TryPermute(t, perm...))
}

// TryReshape reinterprets the tensor under a new shape with the same
// element count. When the input is contiguous this is a pure view;
// otherwise the input is materialized into a contiguous copy first.
func TryReshape[T tensor.Numeric](t *tensor.Tensor[T], shape ...int) (*tensor.Tensor[T], error) {
	inp, tp := t.SplitTape()
	if err := tensor.CheckShape(shape); err != nil {
		return nil, err
	}
	if tensor.NumElements(shape) != inp.Size() {
		return nil, fmt.Errorf("%w: reshape of %v (%d elements) to %v (%d elements)",
			tensor.ErrShapeMismatch, inp.Shape(), inp.Size(), shape, tensor.NumElements(shape))
	}
	newShape := append([]int(nil), shape...)

	if tensor.IsContiguous(inp.Shape(), inp.Strides()) {
		out := inp.View(newShape, tensor.ContiguousStrides(newShape))
		if tp == nil {
			return out, nil
		}
		if err := viewBackward(tp, inp, out); err != nil {
			return nil, err
		}

		return out.PutTape(tp), nil
	}

	// Non-contiguous input: materialize, then scatter the gradient back
	// through the source strides.
	e, err := engineFor(inp)
	if err != nil {
		return nil, err
	}
	contig, err := e.Materialize(inp)
	if err != nil {
		return nil, err
	}
	out := contig.View(newShape, tensor.ContiguousStrides(newShape))
	if tp == nil {
		return out, nil
	}
	if err := tp.Alloc(inp); err != nil {
		return nil, err
	}
	if err := tp.Alloc(out); err != nil {
		return nil, err
	}
	inpC := inp.Clone()
	outC := out.Clone()
	tp.Append(func(g *tensor.Gradients[T]) error {
		gradInp, gradOut, err := g.MutAndRef(inpC.ID(), outC.ID())
		if err != nil {
			return err
		}

		return e.StridedAddAssign(inpC.Shape(), inpC.Strides(), gradInp, gradOut)
	})

	return out.PutTape(tp), nil
}

// Reshape reinterprets the tensor under a new shape. It panics on a backend
// error.
func Reshape[T tensor.Numeric](t *tensor.Tensor[T], shape ...int) *tensor.Tensor[T] {
	return must(TryReshape(t, shape...))
}
