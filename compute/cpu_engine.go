package compute

import (
	"fmt"

	"github.com/zerfoo/float16"
	"github.com/zerfoo/float8"

	"github.com/zerfoo/tapegrad/device"
	"github.com/zerfoo/tapegrad/numeric"
	"github.com/zerfoo/tapegrad/tensor"
)

// CPUEngine is the host backend. Kernels iterate logical indices through the
// operand strides, so broadcast (stride-0) and permuted views need no
// special cases.
type CPUEngine[T tensor.Numeric] struct {
	dev device.Device
	ops numeric.Arithmetic[T]
}

// NewCPUEngine creates a CPU engine bound to a device.
func NewCPUEngine[T tensor.Numeric](dev device.Device, ops numeric.Arithmetic[T]) *CPUEngine[T] {
	return &CPUEngine[T]{dev: dev, ops: ops}
}

// Ops returns the scalar arithmetic for the engine's element type.
func (e *CPUEngine[T]) Ops() numeric.Arithmetic[T] { return e.ops }

// Device returns the device the engine computes on.
func (e *CPUEngine[T]) Device() device.Device { return e.dev }

// Zeros allocates a zero-filled tensor.
func (e *CPUEngine[T]) Zeros(shape []int) (*tensor.Tensor[T], error) {
	return tensor.Zeros[T](e.dev, shape...)
}

// Ones allocates a one-filled tensor.
func (e *CPUEngine[T]) Ones(shape []int) (*tensor.Tensor[T], error) {
	return tensor.Ones[T](e.dev, shape...)
}

// Fill sets every element of t to value through unique access.
func (e *CPUEngine[T]) Fill(t *tensor.Tensor[T], value T) error {
	data := t.MutableData()
	for i := range data {
		data[i] = value
	}

	return nil
}

// SampleNormal allocates a tensor of draws from N(0, 1).
func (e *CPUEngine[T]) SampleNormal(shape []int) (*tensor.Tensor[T], error) {
	return tensor.SampleNormal[T](e.dev, shape...)
}

// SampleUniform allocates a tensor of draws from U[min, max).
func (e *CPUEngine[T]) SampleUniform(shape []int, min, max float64) (*tensor.Tensor[T], error) {
	return tensor.SampleUniform[T](e.dev, min, max, shape...)
}

// FromHost copies host data into a fresh tensor.
func (e *CPUEngine[T]) FromHost(shape []int, data []T) (*tensor.Tensor[T], error) {
	if len(data) != tensor.NumElements(shape) {
		return nil, fmt.Errorf("%w: %d elements for shape %v", tensor.ErrWrongElementCount, len(data), shape)
	}
	buf := make([]T, len(data))
	copy(buf, data)

	return tensor.New[T](e.dev, shape, buf)
}

// ToHost copies a tensor's logical elements back to the host.
func (e *CPUEngine[T]) ToHost(t *tensor.Tensor[T]) ([]T, error) {
	return t.ToSlice(), nil
}

// Materialize produces a contiguous copy of t with a fresh identity.
func (e *CPUEngine[T]) Materialize(t *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	return tensor.New[T](e.dev, t.Shape(), t.ToSlice())
}

// AddAssign accumulates src into dst element-wise.
func (e *CPUEngine[T]) AddAssign(dst, src []T) error {
	if len(dst) != len(src) {
		return fmt.Errorf("%w: AddAssign buffers of length %d and %d", tensor.ErrWrongElementCount, len(dst), len(src))
	}
	for i := range dst {
		dst[i] = e.ops.Add(dst[i], src[i])
	}

	return nil
}

// StridedAddAssign accumulates the logical elements of src into dst through
// the given strides.
func (e *CPUEngine[T]) StridedAddAssign(shape, strides []int, dst, src []T) error {
	size := tensor.NumElements(shape)
	if len(src) != size {
		return fmt.Errorf("%w: source of length %d for shape %v", tensor.ErrWrongElementCount, len(src), shape)
	}
	for i := 0; i < size; i++ {
		p := tensor.PhysicalIndex(i, shape, strides)
		dst[p] = e.ops.Add(dst[p], src[i])
	}

	return nil
}

// newOutput allocates a contiguous output tensor.
func (e *CPUEngine[T]) newOutput(shape []int) (*tensor.Tensor[T], []T, error) {
	out, err := tensor.New[T](e.dev, shape, nil)
	if err != nil {
		return nil, nil, err
	}

	return out, out.MutableData(), nil
}

// init registers CPU engines for every supported element type.
func init() {
	dev := device.Default()
	f32, _ := numeric.OpsFor[float32]()
	f64, _ := numeric.OpsFor[float64]()
	f16, _ := numeric.OpsFor[float16.Float16]()
	f8, _ := numeric.OpsFor[float8.Float8]()
	Register[float32](dev, NewCPUEngine[float32](dev, f32))
	Register[float64](dev, NewCPUEngine[float64](dev, f64))
	Register[float16.Float16](dev, NewCPUEngine[float16.Float16](dev, f16))
	Register[float8.Float8](dev, NewCPUEngine[float8.Float8](dev, f8))
}
