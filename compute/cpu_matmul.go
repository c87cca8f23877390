package compute

import (
	"fmt"

	"github.com/zerfoo/float16"
	"github.com/zerfoo/float8"

	"github.com/zerfoo/tapegrad/internal/xblas"
	"github.com/zerfoo/tapegrad/tensor"
)

// matmulDims is the geometry shared by the whole matmul family: every member
// is a batch of (m,k)·(k,n) products, with vectors as single-row matrices
// and rhsShared marking a right operand broadcast across the batch.
type matmulDims struct {
	batch     int
	m, n, k   int
	rhsShared bool
	outShape  []int
}

func matmulDimsFor(kind MatMulKind, lhs, rhs []int) (matmulDims, error) {
	bad := func() (matmulDims, error) {
		return matmulDims{}, fmt.Errorf("%w: matmul kind %d on shapes %v and %v", tensor.ErrShapeMismatch, kind, lhs, rhs)
	}
	switch kind {
	case MatMulDot:
		if len(lhs) != 1 || len(rhs) != 1 || lhs[0] != rhs[0] {
			return bad()
		}

		return matmulDims{batch: 1, m: 1, n: 1, k: lhs[0], outShape: []int{}}, nil
	case MatMulVecMat:
		if len(lhs) != 1 || len(rhs) != 2 || lhs[0] != rhs[0] {
			return bad()
		}

		return matmulDims{batch: 1, m: 1, n: rhs[1], k: lhs[0], outShape: []int{rhs[1]}}, nil
	case MatMulMatMat:
		if len(lhs) != 2 || len(rhs) != 2 || lhs[1] != rhs[0] {
			return bad()
		}

		return matmulDims{batch: 1, m: lhs[0], n: rhs[1], k: lhs[1], outShape: []int{lhs[0], rhs[1]}}, nil
	case MatMulBatch3:
		if len(lhs) != 3 || len(rhs) != 3 || lhs[0] != rhs[0] || lhs[2] != rhs[1] {
			return bad()
		}

		return matmulDims{batch: lhs[0], m: lhs[1], n: rhs[2], k: lhs[2], outShape: []int{lhs[0], lhs[1], rhs[2]}}, nil
	case MatMulBatch4:
		if len(lhs) != 4 || len(rhs) != 4 || lhs[0] != rhs[0] || lhs[1] != rhs[1] || lhs[3] != rhs[2] {
			return bad()
		}

		return matmulDims{
			batch:    lhs[0] * lhs[1],
			m:        lhs[2],
			n:        rhs[3],
			k:        lhs[3],
			outShape: []int{lhs[0], lhs[1], lhs[2], rhs[3]},
		}, nil
	case MatMulBatchBr:
		if len(lhs) != 3 || len(rhs) != 2 || lhs[2] != rhs[0] {
			return bad()
		}

		return matmulDims{
			batch:     lhs[0],
			m:         lhs[1],
			n:         rhs[1],
			k:         lhs[2],
			rhsShared: true,
			outShape:  []int{lhs[0], lhs[1], rhs[1]},
		}, nil
	default:
		return matmulDims{}, fmt.Errorf("%w: unknown matmul kind %d", tensor.ErrDeviceOp, kind)
	}
}

// gemm dispatches C = op(A)*op(B) + beta*C to the precision-matched BLAS
// path; element types without a native path go through float64.
func (e *CPUEngine[T]) gemm(transA, transB bool, m, n, k int, a, b []T, accumulate bool, c []T) {
	beta := 0
	if accumulate {
		beta = 1
	}
	switch av := any(a).(type) {
	case []float32:
		xblas.GemmF32(transA, transB, m, n, k, 1, av, any(b).([]float32), float32(beta), any(c).([]float32))
	case []float64:
		xblas.GemmF64(transA, transB, m, n, k, 1, av, any(b).([]float64), float64(beta), any(c).([]float64))
	case []float16.Float16:
		xblas.GemmF16(transA, transB, m, n, k, av, any(b).([]float16.Float16), float32(beta), any(c).([]float16.Float16))
	case []float8.Float8:
		xblas.GemmF8(transA, transB, m, n, k, av, any(b).([]float8.Float8), float32(beta), any(c).([]float8.Float8))
	default:
		a64 := make([]float64, len(a))
		for i := range a {
			a64[i] = e.ops.ToFloat64(a[i])
		}
		b64 := make([]float64, len(b))
		for i := range b {
			b64[i] = e.ops.ToFloat64(b[i])
		}
		c64 := make([]float64, m*n)
		if accumulate {
			for i := range c64 {
				c64[i] = e.ops.ToFloat64(c[i])
			}
		}
		xblas.GemmF64(transA, transB, m, n, k, 1, a64, b64, float64(beta), c64)
		for i := range c {
			c[i] = e.ops.FromFloat64(c64[i])
		}
	}
}

// MatMulForward computes the selected matmul family member. Non-contiguous
// operands are gathered into logical order before the GEMM.
func (e *CPUEngine[T]) MatMulForward(kind MatMulKind, lhs, rhs *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	dims, err := matmulDimsFor(kind, lhs.Shape(), rhs.Shape())
	if err != nil {
		return nil, err
	}
	a := lhs.ToSlice()
	b := rhs.ToSlice()
	out, outData, err := e.newOutput(dims.outShape)
	if err != nil {
		return nil, err
	}
	mk, kn, mn := dims.m*dims.k, dims.k*dims.n, dims.m*dims.n
	for i := 0; i < dims.batch; i++ {
		bOff := i * kn
		if dims.rhsShared {
			bOff = 0
		}
		e.gemm(false, false, dims.m, dims.n, dims.k, a[i*mk:(i+1)*mk], b[bOff:bOff+kn], false, outData[i*mn:(i+1)*mn])
	}

	return out, nil
}

// MatMulBackward accumulates both operand gradients via transposed GEMMs:
// dA += dC·Bᵀ and dB += Aᵀ·dC. Contributions are scattered back through the
// operand strides so views accumulate correctly.
func (e *CPUEngine[T]) MatMulBackward(kind MatMulKind, lhs *tensor.Tensor[T], gradLHS []T, rhs *tensor.Tensor[T], gradRHS []T, gradOut []T) error {
	dims, err := matmulDimsFor(kind, lhs.Shape(), rhs.Shape())
	if err != nil {
		return err
	}
	if len(gradOut) != dims.batch*dims.m*dims.n {
		return fmt.Errorf("%w: output gradient length %d for matmul output %v", tensor.ErrWrongElementCount, len(gradOut), dims.outShape)
	}
	a := lhs.ToSlice()
	b := rhs.ToSlice()
	da := make([]T, len(a))
	db := make([]T, len(b))
	mk, kn, mn := dims.m*dims.k, dims.k*dims.n, dims.m*dims.n
	for i := 0; i < dims.batch; i++ {
		bOff := i * kn
		if dims.rhsShared {
			bOff = 0
		}
		gc := gradOut[i*mn : (i+1)*mn]
		// dA_i = dC_i · B_iᵀ
		e.gemm(false, true, dims.m, dims.k, dims.n, gc, b[bOff:bOff+kn], false, da[i*mk:(i+1)*mk])
		// dB_i += A_iᵀ · dC_i; a shared right operand accumulates across
		// the whole batch.
		e.gemm(true, false, dims.k, dims.n, dims.m, a[i*mk:(i+1)*mk], gc, dims.rhsShared, db[bOff:bOff+kn])
	}
	if err := e.StridedAddAssign(lhs.Shape(), lhs.Strides(), gradLHS, da); err != nil {
		return err
	}

	return e.StridedAddAssign(rhs.Shape(), rhs.Strides(), gradRHS, db)
}
