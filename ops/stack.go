package ops

import (
	"fmt"

	"github.com/zerfoo/tapegrad/tensor"
)

// TryStack concatenates tensors of identical shape and identical strides
// along a new leading axis. All operand tapes are merged into one.
func TryStack[T tensor.Numeric](ts ...*tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	if len(ts) == 0 {
		return nil, fmt.Errorf("%w: stack of zero tensors", tensor.ErrShapeMismatch)
	}
	items := make([]*tensor.Tensor[T], len(ts))
	var tp *tensor.Tape[T]
	// Stacking the same tensor more than once splits each duplicate onto a
	// fresh identity; the closure folds the duplicates' gradients back.
	firstIndex := make(map[uint64]int, len(ts))
	dups := make(map[int]int)
	for i, t := range ts {
		item, rhs := t.SplitTape()
		tp = tensor.Merge(tp, rhs)
		if first, ok := firstIndex[item.ID()]; ok {
			dups[i] = first
			item = item.WithFreshID()
		} else {
			firstIndex[item.ID()] = i
		}
		items[i] = item
	}
	e, err := engineFor(items[0])
	if err != nil {
		return nil, err
	}
	out, err := e.StackForward(items)
	if err != nil {
		return nil, err
	}
	if tp == nil {
		return out, nil
	}
	ids := make([]uint64, len(items))
	for i, item := range items {
		if err := tp.Alloc(item); err != nil {
			return nil, err
		}
		ids[i] = item.ID()
	}
	if err := tp.Alloc(out); err != nil {
		return nil, err
	}
	outC := out.Clone()
	tp.Append(func(g *tensor.Gradients[T]) error {
		muts, gradOut, err := g.ManyAndRef(ids, outC.ID())
		if err != nil {
			return err
		}
		if err := e.StackBackward(muts, gradOut); err != nil {
			return err
		}
		for dup, first := range dups {
			if err := e.AddAssign(muts[first], muts[dup]); err != nil {
				return err
			}
		}

		return nil
	})

	return out.PutTape(tp), nil
}

// Stack concatenates tensors along a new leading axis. It panics on a
// backend error.
func Stack[T tensor.Numeric](ts ...*tensor.Tensor[T]) *tensor.Tensor[T] {
	return must(TryStack(ts...))
}
