// Package compute implements the kernel capability surface tensors dispatch
// to, together with the CPU backend. A backend is usable by the generic op
// runtime once it implements Engine for an element type and registers itself
// against a device.
package compute

import (
	"fmt"
	"sync"

	"github.com/zerfoo/tapegrad/device"
	"github.com/zerfoo/tapegrad/numeric"
	"github.com/zerfoo/tapegrad/tensor"
)

// UnaryOpKind selects an element-wise unary kernel.
type UnaryOpKind int

// Unary kernels.
const (
	UnaryNeg UnaryOpKind = iota
	UnaryAbs
	UnaryExp
	UnaryLn
	UnarySqrt
	UnarySquare
	UnaryReLU
	UnaryTanh
	UnarySigmoid
	UnarySin
	UnaryCos
	UnaryScalarAdd
	UnaryScalarSub
	UnaryScalarMul
	UnaryScalarDiv
)

// UnaryDesc describes a unary kernel invocation. Scalar is only meaningful
// for the scalar-arithmetic kinds.
type UnaryDesc[T tensor.Numeric] struct {
	Kind   UnaryOpKind
	Scalar T
}

// BinaryOpKind selects an element-wise binary kernel.
type BinaryOpKind int

// Binary kernels.
const (
	BinaryAdd BinaryOpKind = iota
	BinarySub
	BinaryMul
	BinaryDiv
	BinaryMaximum
	BinaryMinimum
)

// ReduceOpKind selects a reduction kernel.
type ReduceOpKind int

// Reduction kernels.
const (
	ReduceSum ReduceOpKind = iota
	ReduceMax
	ReduceMin
)

// MatMulKind selects a matmul family member.
type MatMulKind int

// Matmul family.
const (
	// MatMulDot is (K,)·(K,) -> ().
	MatMulDot MatMulKind = iota
	// MatMulVecMat is (K,)·(K,N) -> (N,).
	MatMulVecMat
	// MatMulMatMat is (M,K)·(K,N) -> (M,N).
	MatMulMatMat
	// MatMulBatch3 is (B,M,K)·(B,K,N) -> (B,M,N).
	MatMulBatch3
	// MatMulBatch4 is (B,S,M,K)·(B,S,K,N) -> (B,S,M,N).
	MatMulBatch4
	// MatMulBatchBr broadcasts the right operand: (B,M,K)·(K,N) -> (B,M,N).
	MatMulBatchBr
)

// PoolKind selects a 2-D pooling kernel.
type PoolKind int

// Pooling kernels.
const (
	PoolAvg PoolKind = iota
	PoolMax
	PoolMin
)

// Pool2DOp carries the resolved geometry of a 2-D pooling invocation.
type Pool2DOp struct {
	Kernel  int
	Stride  int
	Padding int
	Batch   int
	Chan    int
	HIn     int
	HOut    int
	WIn     int
	WOut    int
}

// NewPool2DOp resolves output extents for kernel k, stride s, padding p over
// input geometry [batch, chan, hIn, wIn].
func NewPool2DOp(k, s, p int, dims [4]int) Pool2DOp {
	return Pool2DOp{
		Kernel:  k,
		Stride:  s,
		Padding: p,
		Batch:   dims[0],
		Chan:    dims[1],
		HIn:     dims[2],
		HOut:    (dims[2]+2*p-k)/s + 1,
		WIn:     dims[3],
		WOut:    (dims[3]+2*p-k)/s + 1,
	}
}

// Engine is the per-device, per-dtype kernel capability surface. Forward
// kernels produce outputs with fresh identities, contiguous except for
// StackForward, which keeps the operands' item strides; backward kernels
// accumulate into physical-size gradient buffers taken from the gradient
// map. Any new backend must implement the full set to be usable by the
// generic op runtime.
type Engine[T tensor.Numeric] interface {
	// Ops returns the scalar arithmetic for the engine's element type.
	Ops() numeric.Arithmetic[T]
	// Device returns the device the engine computes on.
	Device() device.Device

	// Zeros allocates a zero-filled tensor on the device.
	Zeros(shape []int) (*tensor.Tensor[T], error)
	// Ones allocates a one-filled tensor on the device.
	Ones(shape []int) (*tensor.Tensor[T], error)
	// Fill sets every element of t to value through unique access.
	Fill(t *tensor.Tensor[T], value T) error
	// SampleNormal allocates a tensor of draws from N(0, 1).
	SampleNormal(shape []int) (*tensor.Tensor[T], error)
	// SampleUniform allocates a tensor of draws from U[min, max).
	SampleUniform(shape []int, min, max float64) (*tensor.Tensor[T], error)

	// FromHost copies host data onto the device.
	FromHost(shape []int, data []T) (*tensor.Tensor[T], error)
	// ToHost copies a tensor's logical elements back to the host.
	ToHost(t *tensor.Tensor[T]) ([]T, error)
	// Materialize produces a contiguous copy of t with a fresh identity.
	Materialize(t *tensor.Tensor[T]) (*tensor.Tensor[T], error)

	// AddAssign accumulates src into dst element-wise. Both buffers must
	// have the same length and layout.
	AddAssign(dst, src []T) error
	// StridedAddAssign accumulates the logical elements of src (row-major
	// over shape) into dst through the given strides. Stride-0 axes
	// accumulate their replicated elements.
	StridedAddAssign(shape, strides []int, dst, src []T) error

	// UnaryForward applies an element-wise unary kernel. The input may be
	// broadcasted; the output is contiguous.
	UnaryForward(op UnaryDesc[T], inp *tensor.Tensor[T]) (*tensor.Tensor[T], error)
	// UnaryBackward accumulates gradOut*f'(inp) into gradInp, summing
	// across replicated axes of broadcasted inputs.
	UnaryBackward(op UnaryDesc[T], inp *tensor.Tensor[T], gradInp []T, out *tensor.Tensor[T], gradOut []T) error

	// BinaryForward applies an element-wise binary kernel to two tensors
	// of equal shape. Either input may carry stride-0 axes.
	BinaryForward(op BinaryOpKind, lhs, rhs *tensor.Tensor[T]) (*tensor.Tensor[T], error)
	// BinaryBackward accumulates into both operand gradients.
	BinaryBackward(op BinaryOpKind, lhs *tensor.Tensor[T], gradLHS []T, rhs *tensor.Tensor[T], gradRHS []T, gradOut []T) error

	// ReduceForward reduces the listed axes (all axes when empty).
	ReduceForward(op ReduceOpKind, inp *tensor.Tensor[T], axes []int) (*tensor.Tensor[T], error)
	// ReduceBackward broadcasts the output gradient back across the
	// reduced axes. For max and min, every tied extremum position receives
	// the full output gradient.
	ReduceBackward(op ReduceOpKind, inp *tensor.Tensor[T], gradInp []T, out *tensor.Tensor[T], gradOut []T, axes []int) error

	// MatMulForward computes the selected matmul family member.
	MatMulForward(kind MatMulKind, lhs, rhs *tensor.Tensor[T]) (*tensor.Tensor[T], error)
	// MatMulBackward accumulates both operand gradients via transposed
	// matmuls.
	MatMulBackward(kind MatMulKind, lhs *tensor.Tensor[T], gradLHS []T, rhs *tensor.Tensor[T], gradRHS []T, gradOut []T) error

	// Pool2DForward computes 2-D pooling over (C,H,W) or (B,C,H,W).
	Pool2DForward(kind PoolKind, op Pool2DOp, inp *tensor.Tensor[T]) (*tensor.Tensor[T], error)
	// Pool2DBackward accumulates the input gradient for a pooling op.
	Pool2DBackward(kind PoolKind, op Pool2DOp, inp *tensor.Tensor[T], gradInp []T, out *tensor.Tensor[T], gradOut []T) error

	// StackForward concatenates equal-shape, equal-stride tensors along a
	// new leading axis.
	StackForward(inp []*tensor.Tensor[T]) (*tensor.Tensor[T], error)
	// StackBackward splits gradOut into physical slabs and accumulates
	// each into the corresponding input gradient.
	StackBackward(gradInp [][]T, gradOut []T) error
}

// --- Engine registry ---

var (
	engMu   sync.RWMutex
	engines = make(map[string]any)
)

func engineKey[T tensor.Numeric](dev device.Device) string {
	var zero T

	return fmt.Sprintf("%s/%T", dev.ID(), zero)
}

// Register installs an engine for a device and element type. Backends call
// this from their init functions.
func Register[T tensor.Numeric](dev device.Device, e Engine[T]) {
	engMu.Lock()
	defer engMu.Unlock()
	key := engineKey[T](dev)
	engines[key] = e
	l := device.Log()
	l.Debug().Str("engine", key).Msg("registered engine")
}

// For selects the engine registered for the device and element type. This is
// the kernel dispatch rule: a typed operation resolves its device-specific
// implementation here.
func For[T tensor.Numeric](dev device.Device) (Engine[T], error) {
	engMu.RLock()
	defer engMu.RUnlock()
	e, ok := engines[engineKey[T](dev)]
	if !ok {
		return nil, fmt.Errorf("%w: no engine for %s", tensor.ErrDeviceOp, engineKey[T](dev))
	}

	return e.(Engine[T]), nil
}
