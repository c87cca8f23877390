// Package numeric provides per-dtype arithmetic capability bundles used by
// the compute engines.
package numeric

import (
	"github.com/zerfoo/float16"
	"github.com/zerfoo/float8"
)

// Arithmetic defines a generic interface for all scalar operations required
// by a compute engine. This allows the engine to be completely agnostic to
// the specific numeric type it is operating on.
type Arithmetic[T any] interface {
	// Basic binary operations
	Add(a, b T) T
	Sub(a, b T) T
	Mul(a, b T) T
	Div(a, b T) T

	// Unary operations
	Neg(x T) T
	Abs(x T) T
	Exp(x T) T
	Log(x T) T
	Sqrt(x T) T
	Sin(x T) T
	Cos(x T) T

	// Activation functions and their derivatives
	Tanh(x T) T
	Sigmoid(x T) T
	ReLU(x T) T
	TanhGrad(x T) T
	SigmoidGrad(x T) T
	ReLUGrad(x T) T

	// Conversion from and to standard types
	FromFloat32(f float32) T
	FromFloat64(f float64) T
	ToFloat64(x T) float64
	One() T

	// Comparisons. Eq and Gt follow IEEE numeric comparison (-0 == +0);
	// Signbit reports the sign bit, distinguishing -0 from +0.
	Eq(a, b T) bool
	Gt(a, b T) bool
	Signbit(x T) bool

	// IsZero checks if a value is zero.
	IsZero(v T) bool
}

// OpsFor returns the Arithmetic implementation for the element type T.
// The boolean is false when T has no registered implementation.
func OpsFor[T any]() (Arithmetic[T], bool) {
	var zero T
	switch any(zero).(type) {
	case float32:
		return any(Float32Ops{}).(Arithmetic[T]), true
	case float64:
		return any(Float64Ops{}).(Arithmetic[T]), true
	case float16.Float16:
		return any(Float16Ops{}).(Arithmetic[T]), true
	case float8.Float8:
		return any(Float8Ops{}).(Arithmetic[T]), true
	default:
		return nil, false
	}
}

// MaxOf returns the greater of a and b under the total order that treats
// -0 as smaller than +0, so MaxOf(-0, +0) = +0.
func MaxOf[T any](ops Arithmetic[T], a, b T) T {
	if ops.Gt(a, b) {
		return a
	}
	if ops.Gt(b, a) {
		return b
	}
	// Numerically equal; the operand without the sign bit wins.
	if ops.Signbit(a) {
		return b
	}
	return a
}

// MinOf returns the lesser of a and b under the total order that treats
// -0 as smaller than +0, so MinOf(-0, +0) = -0.
func MinOf[T any](ops Arithmetic[T], a, b T) T {
	if ops.Gt(a, b) {
		return b
	}
	if ops.Gt(b, a) {
		return a
	}
	if ops.Signbit(a) {
		return a
	}
	return b
}
