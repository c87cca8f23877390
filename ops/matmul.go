package ops

import (
	"fmt"

	"github.com/zerfoo/tapegrad/compute"
	"github.com/zerfoo/tapegrad/tensor"
)

// matmulKindFor infers the matmul family member from operand ranks.
func matmulKindFor(lhsRank, rhsRank int) (compute.MatMulKind, error) {
	switch {
	case lhsRank == 1 && rhsRank == 1:
		return compute.MatMulDot, nil
	case lhsRank == 1 && rhsRank == 2:
		return compute.MatMulVecMat, nil
	case lhsRank == 2 && rhsRank == 2:
		return compute.MatMulMatMat, nil
	case lhsRank == 3 && rhsRank == 3:
		return compute.MatMulBatch3, nil
	case lhsRank == 4 && rhsRank == 4:
		return compute.MatMulBatch4, nil
	case lhsRank == 3 && rhsRank == 2:
		return compute.MatMulBatchBr, nil
	default:
		return 0, fmt.Errorf("%w: no matmul for ranks %d and %d", tensor.ErrShapeMismatch, lhsRank, rhsRank)
	}
}

// TryMatMul multiplies two tensors: dot product for vectors, matrix product
// for matrices, batched matrix product for rank 3 and 4, and a broadcast
// batch when a rank-3 left operand meets a rank-2 right operand.
func TryMatMul[T tensor.Numeric](lhs, rhs *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	kind, err := matmulKindFor(lhs.Rank(), rhs.Rank())
	if err != nil {
		return nil, err
	}
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
	out, err := e.MatMulForward(kind, l, r)
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
		if err := e.MatMulBackward(kind, lC, gradL, rC, gradR, gradOut); err != nil {
			return err
		}
		if same {
			return e.AddAssign(gradL, gradR)
		}

		return nil
	})

	return out.PutTape(tp), nil
}

// MatMul multiplies two tensors. It panics on a backend error.
func MatMul[T tensor.Numeric](lhs, rhs *tensor.Tensor[T]) *tensor.Tensor[T] {
	return must(TryMatMul(lhs, rhs))
}
