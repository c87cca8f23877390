package ops

import (
	"github.com/zerfoo/tapegrad/compute"
	"github.com/zerfoo/tapegrad/tensor"
)

// TryNeg computes -t element-wise.
func TryNeg[T tensor.Numeric](t *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	return tryUnary(compute.UnaryDesc[T]{Kind: compute.UnaryNeg}, t)
}

// Neg computes -t element-wise. It panics on a backend error.
func Neg[T tensor.Numeric](t *tensor.Tensor[T]) *tensor.Tensor[T] {
	return must(TryNeg(t))
}

// TryAbs computes |t| element-wise.
func TryAbs[T tensor.Numeric](t *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	return tryUnary(compute.UnaryDesc[T]{Kind: compute.UnaryAbs}, t)
}

// Abs computes |t| element-wise. It panics on a backend error.
func Abs[T tensor.Numeric](t *tensor.Tensor[T]) *tensor.Tensor[T] {
	return must(TryAbs(t))
}

// TryExp computes e**t element-wise.
func TryExp[T tensor.Numeric](t *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	return tryUnary(compute.UnaryDesc[T]{Kind: compute.UnaryExp}, t)
}

// Exp computes e**t element-wise. It panics on a backend error.
func Exp[T tensor.Numeric](t *tensor.Tensor[T]) *tensor.Tensor[T] {
	return must(TryExp(t))
}

// TryLn computes the natural logarithm element-wise.
func TryLn[T tensor.Numeric](t *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	return tryUnary(compute.UnaryDesc[T]{Kind: compute.UnaryLn}, t)
}

// Ln computes the natural logarithm element-wise. It panics on a backend
// error.
func Ln[T tensor.Numeric](t *tensor.Tensor[T]) *tensor.Tensor[T] {
	return must(TryLn(t))
}

// TrySqrt computes the square root element-wise.
func TrySqrt[T tensor.Numeric](t *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	return tryUnary(compute.UnaryDesc[T]{Kind: compute.UnarySqrt}, t)
}

// Sqrt computes the square root element-wise. It panics on a backend error.
func Sqrt[T tensor.Numeric](t *tensor.Tensor[T]) *tensor.Tensor[T] {
	return must(TrySqrt(t))
}

// TrySquare computes t*t element-wise.
func TrySquare[T tensor.Numeric](t *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	return tryUnary(compute.UnaryDesc[T]{Kind: compute.UnarySquare}, t)
}

// Square computes t*t element-wise. It panics on a backend error.
func Square[T tensor.Numeric](t *tensor.Tensor[T]) *tensor.Tensor[T] {
	return must(TrySquare(t))
}

// TryReLU computes max(t, 0) element-wise.
func TryReLU[T tensor.Numeric](t *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	return tryUnary(compute.UnaryDesc[T]{Kind: compute.UnaryReLU}, t)
}

// ReLU computes max(t, 0) element-wise. It panics on a backend error.
func ReLU[T tensor.Numeric](t *tensor.Tensor[T]) *tensor.Tensor[T] {
	return must(TryReLU(t))
}

// TryTanh computes the hyperbolic tangent element-wise.
func TryTanh[T tensor.Numeric](t *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	return tryUnary(compute.UnaryDesc[T]{Kind: compute.UnaryTanh}, t)
}

// Tanh computes the hyperbolic tangent element-wise. It panics on a backend
// error.
func Tanh[T tensor.Numeric](t *tensor.Tensor[T]) *tensor.Tensor[T] {
	return must(TryTanh(t))
}

// TrySigmoid computes 1/(1+e**-t) element-wise.
func TrySigmoid[T tensor.Numeric](t *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	return tryUnary(compute.UnaryDesc[T]{Kind: compute.UnarySigmoid}, t)
}

// Sigmoid computes 1/(1+e**-t) element-wise. It panics on a backend error.
func Sigmoid[T tensor.Numeric](t *tensor.Tensor[T]) *tensor.Tensor[T] {
	return must(TrySigmoid(t))
}

// TrySin computes the sine element-wise.
func TrySin[T tensor.Numeric](t *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	return tryUnary(compute.UnaryDesc[T]{Kind: compute.UnarySin}, t)
}

// Sin computes the sine element-wise. It panics on a backend error.
func Sin[T tensor.Numeric](t *tensor.Tensor[T]) *tensor.Tensor[T] {
	return must(TrySin(t))
}

// TryCos computes the cosine element-wise.
func TryCos[T tensor.Numeric](t *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	return tryUnary(compute.UnaryDesc[T]{Kind: compute.UnaryCos}, t)
}

// Cos computes the cosine element-wise. It panics on a backend error.
func Cos[T tensor.Numeric](t *tensor.Tensor[T]) *tensor.Tensor[T] {
	return must(TryCos(t))
}

// TryAddScalar computes t + s element-wise.
func TryAddScalar[T tensor.Numeric](t *tensor.Tensor[T], s T) (*tensor.Tensor[T], error) {
	return tryUnary(compute.UnaryDesc[T]{Kind: compute.UnaryScalarAdd, Scalar: s}, t)
}

// AddScalar computes t + s element-wise. It panics on a backend error.
func AddScalar[T tensor.Numeric](t *tensor.Tensor[T], s T) *tensor.Tensor[T] {
	return must(TryAddScalar(t, s))
}

// TrySubScalar computes t - s element-wise.
func TrySubScalar[T tensor.Numeric](t *tensor.Tensor[T], s T) (*tensor.Tensor[T], error) {
	return tryUnary(compute.UnaryDesc[T]{Kind: compute.UnaryScalarSub, Scalar: s}, t)
}

// SubScalar computes t - s element-wise. It panics on a backend error.
func SubScalar[T tensor.Numeric](t *tensor.Tensor[T], s T) *tensor.Tensor[T] {
	return must(TrySubScalar(t, s))
}

// TryMulScalar computes t * s element-wise.
func TryMulScalar[T tensor.Numeric](t *tensor.Tensor[T], s T) (*tensor.Tensor[T], error) {
	return tryUnary(compute.UnaryDesc[T]{Kind: compute.UnaryScalarMul, Scalar: s}, t)
}

// MulScalar computes t * s element-wise. It panics on a backend error.
func MulScalar[T tensor.Numeric](t *tensor.Tensor[T], s T) *tensor.Tensor[T] {
	return must(TryMulScalar(t, s))
}

// TryDivScalar computes t / s element-wise.
func TryDivScalar[T tensor.Numeric](t *tensor.Tensor[T], s T) (*tensor.Tensor[T], error) {
	return tryUnary(compute.UnaryDesc[T]{Kind: compute.UnaryScalarDiv, Scalar: s}, t)
}

// DivScalar computes t / s element-wise. It panics on a backend error.
func DivScalar[T tensor.Numeric](t *tensor.Tensor[T], s T) *tensor.Tensor[T] {
	return must(TryDivScalar(t, s))
}
