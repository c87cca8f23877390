package compute

import (
	"fmt"

	"github.com/zerfoo/tapegrad/numeric"
	"github.com/zerfoo/tapegrad/tensor"
)

// unaryFn returns the forward function for a unary kernel.
func unaryFn[T tensor.Numeric](ops numeric.Arithmetic[T], op UnaryDesc[T]) (func(T) T, error) {
	switch op.Kind {
	case UnaryNeg:
		return ops.Neg, nil
	case UnaryAbs:
		return ops.Abs, nil
	case UnaryExp:
		return ops.Exp, nil
	case UnaryLn:
		return ops.Log, nil
	case UnarySqrt:
		return ops.Sqrt, nil
	case UnarySquare:
		return func(x T) T { return ops.Mul(x, x) }, nil
	case UnaryReLU:
		return ops.ReLU, nil
	case UnaryTanh:
		return ops.Tanh, nil
	case UnarySigmoid:
		return ops.Sigmoid, nil
	case UnarySin:
		return ops.Sin, nil
	case UnaryCos:
		return ops.Cos, nil
	case UnaryScalarAdd:
		return func(x T) T { return ops.Add(x, op.Scalar) }, nil
	case UnaryScalarSub:
		return func(x T) T { return ops.Sub(x, op.Scalar) }, nil
	case UnaryScalarMul:
		return func(x T) T { return ops.Mul(x, op.Scalar) }, nil
	case UnaryScalarDiv:
		return func(x T) T { return ops.Div(x, op.Scalar) }, nil
	default:
		return nil, fmt.Errorf("%w: unknown unary kind %d", tensor.ErrDeviceOp, op.Kind)
	}
}

// unaryDeriv returns df/dx evaluated at x for a unary kernel.
func unaryDeriv[T tensor.Numeric](ops numeric.Arithmetic[T], op UnaryDesc[T]) (func(T) T, error) {
	one := ops.One()
	switch op.Kind {
	case UnaryNeg:
		return func(T) T { return ops.Neg(one) }, nil
	case UnaryAbs:
		return func(x T) T {
			if ops.Signbit(x) {
				return ops.Neg(one)
			}

			return one
		}, nil
	case UnaryExp:
		return ops.Exp, nil
	case UnaryLn:
		return func(x T) T { return ops.Div(one, x) }, nil
	case UnarySqrt:
		return func(x T) T {
			two := ops.Add(one, one)

			return ops.Div(one, ops.Mul(two, ops.Sqrt(x)))
		}, nil
	case UnarySquare:
		return func(x T) T {
			two := ops.Add(one, one)

			return ops.Mul(two, x)
		}, nil
	case UnaryReLU:
		return ops.ReLUGrad, nil
	case UnaryTanh:
		return ops.TanhGrad, nil
	case UnarySigmoid:
		return ops.SigmoidGrad, nil
	case UnarySin:
		return ops.Cos, nil
	case UnaryCos:
		return func(x T) T { return ops.Neg(ops.Sin(x)) }, nil
	case UnaryScalarAdd, UnaryScalarSub:
		return func(T) T { return one }, nil
	case UnaryScalarMul:
		return func(T) T { return op.Scalar }, nil
	case UnaryScalarDiv:
		return func(T) T { return ops.Div(one, op.Scalar) }, nil
	default:
		return nil, fmt.Errorf("%w: unknown unary kind %d", tensor.ErrDeviceOp, op.Kind)
	}
}

// UnaryForward applies an element-wise unary kernel. The output is
// contiguous; the input may carry stride-0 axes.
func (e *CPUEngine[T]) UnaryForward(op UnaryDesc[T], inp *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	f, err := unaryFn(e.ops, op)
	if err != nil {
		return nil, err
	}
	shape := inp.Shape()
	strides := inp.Strides()
	out, outData, err := e.newOutput(shape)
	if err != nil {
		return nil, err
	}
	inData := inp.ReadData()
	for i := range outData {
		outData[i] = f(inData[tensor.PhysicalIndex(i, shape, strides)])
	}

	return out, nil
}

// UnaryBackward accumulates gradOut * f'(inp) into gradInp. Stride-aware
// iteration sums the replicated axes of broadcasted inputs.
func (e *CPUEngine[T]) UnaryBackward(op UnaryDesc[T], inp *tensor.Tensor[T], gradInp []T, _ *tensor.Tensor[T], gradOut []T) error {
	df, err := unaryDeriv(e.ops, op)
	if err != nil {
		return err
	}
	shape := inp.Shape()
	strides := inp.Strides()
	if len(gradOut) != tensor.NumElements(shape) {
		return fmt.Errorf("%w: output gradient length %d for shape %v", tensor.ErrWrongElementCount, len(gradOut), shape)
	}
	inData := inp.ReadData()
	for i := range gradOut {
		p := tensor.PhysicalIndex(i, shape, strides)
		gradInp[p] = e.ops.Add(gradInp[p], e.ops.Mul(gradOut[i], df(inData[p])))
	}

	return nil
}

// BinaryForward applies an element-wise binary kernel to two equal-shape
// tensors. Either input may carry stride-0 axes.
func (e *CPUEngine[T]) BinaryForward(op BinaryOpKind, lhs, rhs *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	shape := lhs.Shape()
	if !tensor.SameInts(shape, rhs.Shape()) {
		return nil, fmt.Errorf("%w: binary op on shapes %v and %v", tensor.ErrShapeMismatch, shape, rhs.Shape())
	}
	var f func(a, b T) T
	switch op {
	case BinaryAdd:
		f = e.ops.Add
	case BinarySub:
		f = e.ops.Sub
	case BinaryMul:
		f = e.ops.Mul
	case BinaryDiv:
		f = e.ops.Div
	case BinaryMaximum:
		f = func(a, b T) T { return numeric.MaxOf(e.ops, a, b) }
	case BinaryMinimum:
		f = func(a, b T) T { return numeric.MinOf(e.ops, a, b) }
	default:
		return nil, fmt.Errorf("%w: unknown binary kind %d", tensor.ErrDeviceOp, op)
	}
	lStrides := lhs.Strides()
	rStrides := rhs.Strides()
	out, outData, err := e.newOutput(shape)
	if err != nil {
		return nil, err
	}
	lData := lhs.ReadData()
	rData := rhs.ReadData()
	for i := range outData {
		outData[i] = f(
			lData[tensor.PhysicalIndex(i, shape, lStrides)],
			rData[tensor.PhysicalIndex(i, shape, rStrides)],
		)
	}

	return out, nil
}

// BinaryBackward accumulates into both operand gradients. Exact ties of
// Maximum and Minimum split the gradient 0.5/0.5.
func (e *CPUEngine[T]) BinaryBackward(op BinaryOpKind, lhs *tensor.Tensor[T], gradLHS []T, rhs *tensor.Tensor[T], gradRHS []T, gradOut []T) error {
	ops := e.ops
	one := ops.One()
	half := ops.Div(one, ops.Add(one, one))
	shape := lhs.Shape()
	if len(gradOut) != tensor.NumElements(shape) {
		return fmt.Errorf("%w: output gradient length %d for shape %v", tensor.ErrWrongElementCount, len(gradOut), shape)
	}
	lStrides := lhs.Strides()
	rStrides := rhs.Strides()
	lData := lhs.ReadData()
	rData := rhs.ReadData()
	for i := range gradOut {
		lp := tensor.PhysicalIndex(i, shape, lStrides)
		rp := tensor.PhysicalIndex(i, shape, rStrides)
		x := lData[lp]
		y := rData[rp]
		gout := gradOut[i]
		var dx, dy T
		switch op {
		case BinaryAdd:
			dx, dy = gout, gout
		case BinarySub:
			dx, dy = gout, ops.Neg(gout)
		case BinaryMul:
			dx = ops.Mul(gout, y)
			dy = ops.Mul(gout, x)
		case BinaryDiv:
			dx = ops.Div(gout, y)
			dy = ops.Neg(ops.Div(ops.Mul(gout, x), ops.Mul(y, y)))
		case BinaryMaximum, BinaryMinimum:
			gt := ops.Gt(x, y)
			lt := ops.Gt(y, x)
			if op == BinaryMinimum {
				gt, lt = lt, gt
			}
			switch {
			case gt:
				dx = gout
			case lt:
				dy = gout
			default:
				dx = ops.Mul(gout, half)
				dy = dx
			}
		default:
			return fmt.Errorf("%w: unknown binary kind %d", tensor.ErrDeviceOp, op)
		}
		gradLHS[lp] = ops.Add(gradLHS[lp], dx)
		gradRHS[rp] = ops.Add(gradRHS[rp], dy)
	}

	return nil
}
