package numeric

import (
	"math"

	"github.com/zerfoo/float16"
)

// Float16Ops provides the implementation of the Arithmetic interface for the
// float16.Float16 type. Operations without a native float16 implementation
// round-trip through float32.
type Float16Ops struct{}

// Add performs element-wise addition.
func (ops Float16Ops) Add(a, b float16.Float16) float16.Float16 {
	res, _ := float16.AddWithMode(a, b, float16.ModeFastArithmetic, float16.RoundNearestEven)

	return res
}

// Sub performs element-wise subtraction.
func (ops Float16Ops) Sub(a, b float16.Float16) float16.Float16 {
	res, _ := float16.SubWithMode(a, b, float16.ModeFastArithmetic, float16.RoundNearestEven)

	return res
}

// Mul performs element-wise multiplication.
func (ops Float16Ops) Mul(a, b float16.Float16) float16.Float16 {
	res, _ := float16.MulWithMode(a, b, float16.ModeFastArithmetic, float16.RoundNearestEven)

	return res
}

// Div performs element-wise division.
func (ops Float16Ops) Div(a, b float16.Float16) float16.Float16 {
	res, _ := float16.DivWithMode(a, b, float16.ModeFastArithmetic, float16.RoundNearestEven)

	return res
}

// Neg returns -x.
func (ops Float16Ops) Neg(x float16.Float16) float16.Float16 {
	return float16.FromFloat32(-x.ToFloat32())
}

// Abs returns the absolute value of x.
func (ops Float16Ops) Abs(x float16.Float16) float16.Float16 {
	return float16.FromFloat32(float32(math.Abs(float64(x.ToFloat32()))))
}

// Exp computes the exponential of x.
func (ops Float16Ops) Exp(x float16.Float16) float16.Float16 {
	return float16.FromFloat32(float32(math.Exp(float64(x.ToFloat32()))))
}

// Log computes the natural logarithm of x.
func (ops Float16Ops) Log(x float16.Float16) float16.Float16 {
	return float16.FromFloat32(float32(math.Log(float64(x.ToFloat32()))))
}

// Sqrt computes the square root of x.
func (ops Float16Ops) Sqrt(x float16.Float16) float16.Float16 {
	return float16.FromFloat32(float32(math.Sqrt(float64(x.ToFloat32()))))
}

// Sin computes the sine of x.
func (ops Float16Ops) Sin(x float16.Float16) float16.Float16 {
	return float16.FromFloat32(float32(math.Sin(float64(x.ToFloat32()))))
}

// Cos computes the cosine of x.
func (ops Float16Ops) Cos(x float16.Float16) float16.Float16 {
	return float16.FromFloat32(float32(math.Cos(float64(x.ToFloat32()))))
}

// Tanh computes the hyperbolic tangent of x.
func (ops Float16Ops) Tanh(x float16.Float16) float16.Float16 {
	return float16.Tanh(x)
}

// Sigmoid computes the sigmoid function of x.
func (ops Float16Ops) Sigmoid(x float16.Float16) float16.Float16 {
	f32 := x.ToFloat32()

	return float16.FromFloat32(1.0 / (1.0 + float32(math.Exp(float64(-f32)))))
}

// ReLU computes the Rectified Linear Unit function.
func (ops Float16Ops) ReLU(x float16.Float16) float16.Float16 {
	if x.ToFloat32() > 0 {
		return x
	}

	return float16.FromFloat32(0)
}

// TanhGrad computes the gradient of the hyperbolic tangent function.
func (ops Float16Ops) TanhGrad(x float16.Float16) float16.Float16 {
	tanhX := ops.Tanh(x)
	tanhX2 := ops.Mul(tanhX, tanhX)
	one := float16.FromFloat32(1)

	return ops.Sub(one, tanhX2)
}

// SigmoidGrad computes the gradient of the sigmoid function.
func (ops Float16Ops) SigmoidGrad(x float16.Float16) float16.Float16 {
	sigX := ops.Sigmoid(x)
	one := float16.FromFloat32(1)

	return ops.Mul(sigX, ops.Sub(one, sigX))
}

// ReLUGrad computes the gradient of the Rectified Linear Unit function.
func (ops Float16Ops) ReLUGrad(x float16.Float16) float16.Float16 {
	if x.ToFloat32() > 0 {
		return float16.FromFloat32(1)
	}

	return float16.FromFloat32(0)
}

// FromFloat32 converts a float32 to a float16.
func (ops Float16Ops) FromFloat32(f float32) float16.Float16 {
	return float16.FromFloat32(f)
}

// FromFloat64 converts a float64 to a float16.
func (ops Float16Ops) FromFloat64(f float64) float16.Float16 {
	return float16.FromFloat32(float32(f))
}

// ToFloat64 converts a float16 to a float64.
func (ops Float16Ops) ToFloat64(x float16.Float16) float64 {
	return float64(x.ToFloat32())
}

// One returns 1.
func (ops Float16Ops) One() float16.Float16 { return float16.FromFloat32(1) }

// Eq reports whether a == b numerically.
func (ops Float16Ops) Eq(a, b float16.Float16) bool {
	return a.ToFloat32() == b.ToFloat32()
}

// Gt reports whether a > b numerically.
func (ops Float16Ops) Gt(a, b float16.Float16) bool {
	return a.ToFloat32() > b.ToFloat32()
}

// Signbit reports whether x carries the sign bit.
func (ops Float16Ops) Signbit(x float16.Float16) bool {
	return math.Signbit(float64(x.ToFloat32()))
}

// IsZero checks if the given float16 value is zero.
func (ops Float16Ops) IsZero(v float16.Float16) bool {
	return v.ToFloat32() == 0
}
