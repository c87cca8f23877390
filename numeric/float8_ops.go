package numeric

import (
	"math"

	"github.com/zerfoo/float8"
)

// Float8Ops provides the implementation of the Arithmetic interface for the
// float8.Float8 type.
type Float8Ops struct{}

// Add performs element-wise addition.
func (ops Float8Ops) Add(a, b float8.Float8) float8.Float8 { return float8.Add(a, b) }

// Sub performs element-wise subtraction.
func (ops Float8Ops) Sub(a, b float8.Float8) float8.Float8 { return float8.Sub(a, b) }

// Mul performs element-wise multiplication.
func (ops Float8Ops) Mul(a, b float8.Float8) float8.Float8 { return float8.Mul(a, b) }

// Div performs element-wise division.
func (ops Float8Ops) Div(a, b float8.Float8) float8.Float8 { return float8.Div(a, b) }

// Neg returns -x.
func (ops Float8Ops) Neg(x float8.Float8) float8.Float8 {
	return float8.ToFloat8(-x.ToFloat32())
}

// Abs returns the absolute value of x.
func (ops Float8Ops) Abs(x float8.Float8) float8.Float8 {
	return float8.ToFloat8(float32(math.Abs(float64(x.ToFloat32()))))
}

// Exp computes the exponential of x.
func (ops Float8Ops) Exp(x float8.Float8) float8.Float8 {
	return float8.ToFloat8(float32(math.Exp(float64(x.ToFloat32()))))
}

// Log computes the natural logarithm of x.
func (ops Float8Ops) Log(x float8.Float8) float8.Float8 {
	return float8.ToFloat8(float32(math.Log(float64(x.ToFloat32()))))
}

// Sqrt computes the square root of x.
func (ops Float8Ops) Sqrt(x float8.Float8) float8.Float8 {
	return float8.ToFloat8(float32(math.Sqrt(float64(x.ToFloat32()))))
}

// Sin computes the sine of x.
func (ops Float8Ops) Sin(x float8.Float8) float8.Float8 {
	return float8.ToFloat8(float32(math.Sin(float64(x.ToFloat32()))))
}

// Cos computes the cosine of x.
func (ops Float8Ops) Cos(x float8.Float8) float8.Float8 {
	return float8.ToFloat8(float32(math.Cos(float64(x.ToFloat32()))))
}

// Tanh computes the hyperbolic tangent of x.
func (ops Float8Ops) Tanh(x float8.Float8) float8.Float8 {
	return float8.ToFloat8(float32(math.Tanh(float64(x.ToFloat32()))))
}

// Sigmoid computes the sigmoid function of x.
func (ops Float8Ops) Sigmoid(x float8.Float8) float8.Float8 {
	f32 := x.ToFloat32()

	return float8.ToFloat8(1.0 / (1.0 + float32(math.Exp(float64(-f32)))))
}

// ReLU computes the Rectified Linear Unit function.
func (ops Float8Ops) ReLU(x float8.Float8) float8.Float8 {
	if x.ToFloat32() > 0 {
		return x
	}

	return float8.ToFloat8(0)
}

// TanhGrad computes the gradient of the hyperbolic tangent function.
func (ops Float8Ops) TanhGrad(x float8.Float8) float8.Float8 {
	tanhX := ops.Tanh(x)
	one := float8.ToFloat8(1)

	return ops.Sub(one, ops.Mul(tanhX, tanhX))
}

// SigmoidGrad computes the gradient of the sigmoid function.
func (ops Float8Ops) SigmoidGrad(x float8.Float8) float8.Float8 {
	sigX := ops.Sigmoid(x)
	one := float8.ToFloat8(1)

	return ops.Mul(sigX, ops.Sub(one, sigX))
}

// ReLUGrad computes the gradient of the Rectified Linear Unit function.
func (ops Float8Ops) ReLUGrad(x float8.Float8) float8.Float8 {
	if x.ToFloat32() > 0 {
		return float8.ToFloat8(1)
	}

	return float8.ToFloat8(0)
}

// FromFloat32 converts a float32 to a float8.
func (ops Float8Ops) FromFloat32(f float32) float8.Float8 { return float8.ToFloat8(f) }

// FromFloat64 converts a float64 to a float8.
func (ops Float8Ops) FromFloat64(f float64) float8.Float8 {
	return float8.ToFloat8(float32(f))
}

// ToFloat64 converts a float8 to a float64.
func (ops Float8Ops) ToFloat64(x float8.Float8) float64 {
	return float64(x.ToFloat32())
}

// One returns 1.
func (ops Float8Ops) One() float8.Float8 { return float8.ToFloat8(1) }

// Eq reports whether a == b numerically.
func (ops Float8Ops) Eq(a, b float8.Float8) bool {
	return a.ToFloat32() == b.ToFloat32()
}

// Gt reports whether a > b numerically.
func (ops Float8Ops) Gt(a, b float8.Float8) bool {
	return a.ToFloat32() > b.ToFloat32()
}

// Signbit reports whether x carries the sign bit.
func (ops Float8Ops) Signbit(x float8.Float8) bool {
	return math.Signbit(float64(x.ToFloat32()))
}

// IsZero checks if the given float8 value is zero.
func (ops Float8Ops) IsZero(v float8.Float8) bool {
	return v.ToFloat32() == 0
}
