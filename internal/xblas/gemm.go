// Package xblas wraps gonum's BLAS GEMM for row-major contiguous matrices,
// with half- and quarter-precision paths routed through float32.
package xblas

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/blas/blas64"

	"github.com/zerfoo/float16"
	"github.com/zerfoo/float8"
)

func transpose(t bool) blas.Transpose {
	if t {
		return blas.Trans
	}

	return blas.NoTrans
}

// GemmF32 computes C = alpha*op(A)*op(B) + beta*C for row-major contiguous
// matrices. op(A) has shape (m, k) and op(B) has shape (k, n); the stored
// layouts are the transposes when the corresponding flag is set.
func GemmF32(transA, transB bool, m, n, k int, alpha float32, a, b []float32, beta float32, c []float32) {
	A := blas32.General{Rows: m, Cols: k, Data: a, Stride: k}
	if transA {
		A = blas32.General{Rows: k, Cols: m, Data: a, Stride: m}
	}
	B := blas32.General{Rows: k, Cols: n, Data: b, Stride: n}
	if transB {
		B = blas32.General{Rows: n, Cols: k, Data: b, Stride: k}
	}
	C := blas32.General{Rows: m, Cols: n, Data: c, Stride: n}
	blas32.Gemm(transpose(transA), transpose(transB), alpha, A, B, beta, C)
}

// GemmF64 computes C = alpha*op(A)*op(B) + beta*C for row-major contiguous
// matrices.
func GemmF64(transA, transB bool, m, n, k int, alpha float64, a, b []float64, beta float64, c []float64) {
	A := blas64.General{Rows: m, Cols: k, Data: a, Stride: k}
	if transA {
		A = blas64.General{Rows: k, Cols: m, Data: a, Stride: m}
	}
	B := blas64.General{Rows: k, Cols: n, Data: b, Stride: n}
	if transB {
		B = blas64.General{Rows: n, Cols: k, Data: b, Stride: k}
	}
	C := blas64.General{Rows: m, Cols: n, Data: c, Stride: n}
	blas64.Gemm(transpose(transA), transpose(transB), alpha, A, B, beta, C)
}

// GemmF16 computes C = op(A)*op(B) + beta*C for Float16 by converting
// through float32 SGEMM.
func GemmF16(transA, transB bool, m, n, k int, a, b []float16.Float16, beta float32, c []float16.Float16) {
	a32 := make([]float32, len(a))
	for i := range a {
		a32[i] = a[i].ToFloat32()
	}
	b32 := make([]float32, len(b))
	for i := range b {
		b32[i] = b[i].ToFloat32()
	}
	c32 := make([]float32, m*n)
	if beta != 0 {
		for i := range c32 {
			c32[i] = c[i].ToFloat32()
		}
	}
	GemmF32(transA, transB, m, n, k, 1, a32, b32, beta, c32)
	for i := 0; i < len(c); i++ {
		c[i] = float16.FromFloat32(c32[i])
	}
}

// GemmF8 computes C = op(A)*op(B) + beta*C for Float8 by converting through
// float32 SGEMM.
func GemmF8(transA, transB bool, m, n, k int, a, b []float8.Float8, beta float32, c []float8.Float8) {
	a32 := make([]float32, len(a))
	for i := range a {
		a32[i] = a[i].ToFloat32()
	}
	b32 := make([]float32, len(b))
	for i := range b {
		b32[i] = b[i].ToFloat32()
	}
	c32 := make([]float32, m*n)
	if beta != 0 {
		for i := range c32 {
			c32[i] = c[i].ToFloat32()
		}
	}
	GemmF32(transA, transB, m, n, k, 1, a32, b32, beta, c32)
	for i := 0; i < len(c); i++ {
		c[i] = float8.ToFloat8(c32[i])
	}
}
