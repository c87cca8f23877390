// Package ops is the differentiable operation surface. Every operation
// splits the recording tape off its inputs, dispatches the forward kernel
// through the engine registry, appends exactly one backward closure, and
// threads the merged tape into its output. Composite operations such as Mean
// are built from primitive ones and record one closure per primitive.
//
// Each operation has two forms: Op panics on a backend error and TryOp
// returns it.
package ops

import (
	"github.com/zerfoo/tapegrad/compute"
	"github.com/zerfoo/tapegrad/tensor"
)

func engineFor[T tensor.Numeric](t *tensor.Tensor[T]) (compute.Engine[T], error) {
	return compute.For[T](t.Device())
}

func must[T tensor.Numeric](out *tensor.Tensor[T], err error) *tensor.Tensor[T] {
	if err != nil {
		panic(err)
	}

	return out
}

// tryUnary is the unary skeleton: one differentiable input, same output
// shape, one closure capturing clones of the input and output handles.
func tryUnary[T tensor.Numeric](desc compute.UnaryDesc[T], t *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	inp, tp := t.SplitTape()
	e, err := engineFor(inp)
	if err != nil {
		return nil, err
	}
	out, err := e.UnaryForward(desc, inp)
	if err != nil {
		return nil, err
	}
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

		return e.UnaryBackward(desc, inpC, gradInp, outC, gradOut)
	})

	return out.PutTape(tp), nil
}

// tryBinary is the binary skeleton. Tapes of both operands are merged; both
// gradient slots are preallocated before the closure is appended. Invoking
// an op with the same tensor on both sides forces a fresh identity onto the
// right side and folds its gradient back inside the same closure.
func tryBinary[T tensor.Numeric](kind compute.BinaryOpKind, lhs, rhs *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	l, lt := lhs.SplitTape()
	r, rt := rhs.SplitTape()
	tp := tensor.Merge(lt, rt)
	same := l.ID() == r.ID()
	if same {
		r = r.WithFreshID()
	}
	e, err := engineFor(l)
	if err != nil {
		return nil, err
	}
	out, err := e.BinaryForward(kind, l, r)
	if err != nil {
		return nil, err
	}
	if tp == nil {
		return out, nil
	}
	for _, t := range []*tensor.Tensor[T]{l, r, out} {
		if err := tp.Alloc(t); err != nil {
			return nil, err
		}
	}
	lC := l.Clone()
	rC := r.Clone()
	outC := out.Clone()
	tp.Append(func(g *tensor.Gradients[T]) error {
		gradL, gradR, gradOut, err := g.MutsAndRef(lC.ID(), rC.ID(), outC.ID())
		if err != nil {
			return err
		}
		if err := e.BinaryBackward(kind, lC, gradL, rC, gradR, gradOut); err != nil {
			return err
		}
		if same {
			return e.AddAssign(gradL, gradR)
		}

		return nil
	})

	return out.PutTape(tp), nil
}

// tryReduce is the reduction skeleton: like the unary one, but the output
// takes the reduced shape and backward re-broadcasts across the reduced
// axes.
func tryReduce[T tensor.Numeric](kind compute.ReduceOpKind, t *tensor.Tensor[T], axes []int) (*tensor.Tensor[T], error) {
	inp, tp := t.SplitTape()
	e, err := engineFor(inp)
	if err != nil {
		return nil, err
	}
	out, err := e.ReduceForward(kind, inp, axes)
	if err != nil {
		return nil, err
	}
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
	axesC := append([]int(nil), axes...)
	tp.Append(func(g *tensor.Gradients[T]) error {
		gradInp, gradOut, err := g.MutAndRef(inpC.ID(), outC.ID())
		if err != nil {
			return err
		}

		return e.ReduceBackward(kind, inpC, gradInp, outC, gradOut, axesC)
	})

	return out.PutTape(tp), nil
}
