package ops

import (
	"github.com/zerfoo/tapegrad/compute"
	"github.com/zerfoo/tapegrad/tensor"
)

// TryAdd computes lhs + rhs element-wise. The shapes must be equal; either
// operand may carry stride-0 broadcast axes.
func TryAdd[T tensor.Numeric](lhs, rhs *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	return tryBinary(compute.BinaryAdd, lhs, rhs)
}

// Add computes lhs + rhs element-wise. It panics on a backend error.
func Add[T tensor.Numeric](lhs, rhs *tensor.Tensor[T]) *tensor.Tensor[T] {
	return must(TryAdd(lhs, rhs))
}

// TrySub computes lhs - rhs element-wise.
func TrySub[T tensor.Numeric](lhs, rhs *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	return tryBinary(compute.BinarySub, lhs, rhs)
}

// Sub computes lhs - rhs element-wise. It panics on a backend error.
func Sub[T tensor.Numeric](lhs, rhs *tensor.Tensor[T]) *tensor.Tensor[T] {
	return must(TrySub(lhs, rhs))
}

// TryMul computes lhs * rhs element-wise.
func TryMul[T tensor.Numeric](lhs, rhs *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	return tryBinary(compute.BinaryMul, lhs, rhs)
}

// Mul computes lhs * rhs element-wise. It panics on a backend error.
func Mul[T tensor.Numeric](lhs, rhs *tensor.Tensor[T]) *tensor.Tensor[T] {
	return must(TryMul(lhs, rhs))
}

// TryDiv computes lhs / rhs element-wise.
func TryDiv[T tensor.Numeric](lhs, rhs *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	return tryBinary(compute.BinaryDiv, lhs, rhs)
}

// Div computes lhs / rhs element-wise. It panics on a backend error.
func Div[T tensor.Numeric](lhs, rhs *tensor.Tensor[T]) *tensor.Tensor[T] {
	return must(TryDiv(lhs, rhs))
}

// TryMaximum computes the element-wise maximum. Exact ties split the
// gradient 0.5/0.5 between the operands.
func TryMaximum[T tensor.Numeric](lhs, rhs *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	return tryBinary(compute.BinaryMaximum, lhs, rhs)
}

// Maximum computes the element-wise maximum. It panics on a backend error.
func Maximum[T tensor.Numeric](lhs, rhs *tensor.Tensor[T]) *tensor.Tensor[T] {
	return must(TryMaximum(lhs, rhs))
}

// TryMinimum computes the element-wise minimum. Exact ties split the
// gradient 0.5/0.5 between the operands.
func TryMinimum[T tensor.Numeric](lhs, rhs *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	return tryBinary(compute.BinaryMinimum, lhs, rhs)
}

// Minimum computes the element-wise minimum. It panics on a backend error.
func Minimum[T tensor.Numeric](lhs, rhs *tensor.Tensor[T]) *tensor.Tensor[T] {
	return must(TryMinimum(lhs, rhs))
}
