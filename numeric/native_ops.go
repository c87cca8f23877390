package numeric

import (
	"math"

	"github.com/chewxy/math32"
)

// Float32Ops provides the implementation of the Arithmetic interface for the
// float32 type. Transcendental functions go through math32 to stay in single
// precision.
type Float32Ops struct{}

// Add performs element-wise addition.
func (ops Float32Ops) Add(a, b float32) float32 { return a + b }

// Sub performs element-wise subtraction.
func (ops Float32Ops) Sub(a, b float32) float32 { return a - b }

// Mul performs element-wise multiplication.
func (ops Float32Ops) Mul(a, b float32) float32 { return a * b }

// Div performs element-wise division. IEEE semantics: dividing by zero
// yields an infinity or NaN rather than an error.
func (ops Float32Ops) Div(a, b float32) float32 { return a / b }

// Neg returns -x.
func (ops Float32Ops) Neg(x float32) float32 { return -x }

// Abs returns the absolute value of x.
func (ops Float32Ops) Abs(x float32) float32 { return math32.Abs(x) }

// Exp computes the exponential of x.
func (ops Float32Ops) Exp(x float32) float32 { return math32.Exp(x) }

// Log computes the natural logarithm of x.
func (ops Float32Ops) Log(x float32) float32 { return math32.Log(x) }

// Sqrt computes the square root of x.
func (ops Float32Ops) Sqrt(x float32) float32 { return math32.Sqrt(x) }

// Sin computes the sine of x.
func (ops Float32Ops) Sin(x float32) float32 { return math32.Sin(x) }

// Cos computes the cosine of x.
func (ops Float32Ops) Cos(x float32) float32 { return math32.Cos(x) }

// Tanh computes the hyperbolic tangent of x.
func (ops Float32Ops) Tanh(x float32) float32 { return math32.Tanh(x) }

// Sigmoid computes the sigmoid function of x.
func (ops Float32Ops) Sigmoid(x float32) float32 {
	return 1.0 / (1.0 + math32.Exp(-x))
}

// ReLU computes the Rectified Linear Unit function.
func (ops Float32Ops) ReLU(x float32) float32 {
	if x > 0 {
		return x
	}

	return 0
}

// TanhGrad computes the gradient of the hyperbolic tangent function.
func (ops Float32Ops) TanhGrad(x float32) float32 {
	tanhX := ops.Tanh(x)

	return 1.0 - tanhX*tanhX
}

// SigmoidGrad computes the gradient of the sigmoid function.
func (ops Float32Ops) SigmoidGrad(x float32) float32 {
	sigX := ops.Sigmoid(x)

	return sigX * (1.0 - sigX)
}

// ReLUGrad computes the gradient of the Rectified Linear Unit function.
func (ops Float32Ops) ReLUGrad(x float32) float32 {
	if x > 0 {
		return 1
	}

	return 0
}

// FromFloat32 converts a float32 to a float32.
func (ops Float32Ops) FromFloat32(f float32) float32 { return f }

// FromFloat64 converts a float64 to a float32.
func (ops Float32Ops) FromFloat64(f float64) float32 { return float32(f) }

// ToFloat64 converts a float32 to a float64.
func (ops Float32Ops) ToFloat64(x float32) float64 { return float64(x) }

// One returns 1.
func (ops Float32Ops) One() float32 { return 1 }

// Eq reports whether a == b numerically.
func (ops Float32Ops) Eq(a, b float32) bool { return a == b }

// Gt reports whether a > b numerically.
func (ops Float32Ops) Gt(a, b float32) bool { return a > b }

// Signbit reports whether x carries the sign bit.
func (ops Float32Ops) Signbit(x float32) bool { return math32.Signbit(x) }

// IsZero checks if the given float32 value is zero.
func (ops Float32Ops) IsZero(v float32) bool { return v == 0 }

// Float64Ops provides the implementation of the Arithmetic interface for the
// float64 type.
type Float64Ops struct{}

// Add performs element-wise addition.
func (ops Float64Ops) Add(a, b float64) float64 { return a + b }

// Sub performs element-wise subtraction.
func (ops Float64Ops) Sub(a, b float64) float64 { return a - b }

// Mul performs element-wise multiplication.
func (ops Float64Ops) Mul(a, b float64) float64 { return a * b }

// Div performs element-wise division.
func (ops Float64Ops) Div(a, b float64) float64 { return a / b }

// Neg returns -x.
func (ops Float64Ops) Neg(x float64) float64 { return -x }

// Abs returns the absolute value of x.
func (ops Float64Ops) Abs(x float64) float64 { return math.Abs(x) }

// Exp computes the exponential of x.
func (ops Float64Ops) Exp(x float64) float64 { return math.Exp(x) }

// Log computes the natural logarithm of x.
func (ops Float64Ops) Log(x float64) float64 { return math.Log(x) }

// Sqrt computes the square root of x.
func (ops Float64Ops) Sqrt(x float64) float64 { return math.Sqrt(x) }

// Sin computes the sine of x.
func (ops Float64Ops) Sin(x float64) float64 { return math.Sin(x) }

// Cos computes the cosine of x.
func (ops Float64Ops) Cos(x float64) float64 { return math.Cos(x) }

// Tanh computes the hyperbolic tangent of x.
func (ops Float64Ops) Tanh(x float64) float64 { return math.Tanh(x) }

// Sigmoid computes the sigmoid function of x.
func (ops Float64Ops) Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// ReLU computes the Rectified Linear Unit function.
func (ops Float64Ops) ReLU(x float64) float64 {
	if x > 0 {
		return x
	}

	return 0
}

// TanhGrad computes the gradient of the hyperbolic tangent function.
func (ops Float64Ops) TanhGrad(x float64) float64 {
	tanhX := math.Tanh(x)

	return 1.0 - tanhX*tanhX
}

// SigmoidGrad computes the gradient of the sigmoid function.
func (ops Float64Ops) SigmoidGrad(x float64) float64 {
	sigX := ops.Sigmoid(x)

	return sigX * (1.0 - sigX)
}

// ReLUGrad computes the gradient of the Rectified Linear Unit function.
func (ops Float64Ops) ReLUGrad(x float64) float64 {
	if x > 0 {
		return 1
	}

	return 0
}

// FromFloat32 converts a float32 to a float64.
func (ops Float64Ops) FromFloat32(f float32) float64 { return float64(f) }

// FromFloat64 converts a float64 to a float64.
func (ops Float64Ops) FromFloat64(f float64) float64 { return f }

// ToFloat64 converts a float64 to a float64.
func (ops Float64Ops) ToFloat64(x float64) float64 { return x }

// One returns 1.
func (ops Float64Ops) One() float64 { return 1 }

// Eq reports whether a == b numerically.
func (ops Float64Ops) Eq(a, b float64) bool { return a == b }

// Gt reports whether a > b numerically.
func (ops Float64Ops) Gt(a, b float64) bool { return a > b }

// Signbit reports whether x carries the sign bit.
func (ops Float64Ops) Signbit(x float64) bool { return math.Signbit(x) }

// IsZero checks if the given float64 value is zero.
func (ops Float64Ops) IsZero(v float64) bool { return v == 0 }
