package compute

import (
	"fmt"

	"github.com/zerfoo/tapegrad/numeric"
	"github.com/zerfoo/tapegrad/tensor"
)

// reduceIndexer maps a logical input index to the linear index of its
// output slot under a reduction that removes the given axes.
func reduceIndexer(shape []int, axes []int) func(int) int {
	keep := make([]bool, len(shape))
	for i := range keep {
		keep[i] = true
	}
	for _, ax := range axes {
		keep[ax] = false
	}
	// Contiguous strides of the reduced shape, spread back over the kept
	// source axes.
	outStrides := make([]int, len(shape))
	stride := 1
	for d := len(shape) - 1; d >= 0; d-- {
		if keep[d] {
			outStrides[d] = stride
			stride *= shape[d]
		}
	}

	return func(i int) int {
		idx := 0
		rem := i
		for d := len(shape) - 1; d >= 0; d-- {
			if shape[d] == 0 {
				return 0
			}
			coord := rem % shape[d]
			rem /= shape[d]
			if keep[d] {
				idx += coord * outStrides[d]
			}
		}

		return idx
	}
}

// ReduceForward reduces the listed axes (all axes when the list is empty).
// The output is contiguous in the reduced shape. Extremum selection uses
// the total order with -0 < +0.
func (e *CPUEngine[T]) ReduceForward(op ReduceOpKind, inp *tensor.Tensor[T], axes []int) (*tensor.Tensor[T], error) {
	shape := inp.Shape()
	axes, err := tensor.NormalizeAxes(len(shape), axes)
	if err != nil {
		return nil, err
	}
	outShape, err := tensor.ReducedShape(shape, axes)
	if err != nil {
		return nil, err
	}
	out, outData, err := e.newOutput(outShape)
	if err != nil {
		return nil, err
	}
	strides := inp.Strides()
	inData := inp.ReadData()
	slot := reduceIndexer(shape, axes)
	size := tensor.NumElements(shape)
	switch op {
	case ReduceSum:
		for i := 0; i < size; i++ {
			s := slot(i)
			outData[s] = e.ops.Add(outData[s], inData[tensor.PhysicalIndex(i, shape, strides)])
		}
	case ReduceMax, ReduceMin:
		seen := make([]bool, len(outData))
		for i := 0; i < size; i++ {
			s := slot(i)
			v := inData[tensor.PhysicalIndex(i, shape, strides)]
			switch {
			case !seen[s]:
				outData[s] = v
				seen[s] = true
			case op == ReduceMax:
				outData[s] = numeric.MaxOf(e.ops, outData[s], v)
			default:
				outData[s] = numeric.MinOf(e.ops, outData[s], v)
			}
		}
	default:
		return nil, fmt.Errorf("%w: unknown reduce kind %d", tensor.ErrDeviceOp, op)
	}

	return out, nil
}

// ReduceBackward broadcasts the output gradient back across the reduced
// axes. For max and min, every input position numerically equal to the slice
// extremum receives the full output gradient.
func (e *CPUEngine[T]) ReduceBackward(op ReduceOpKind, inp *tensor.Tensor[T], gradInp []T, out *tensor.Tensor[T], gradOut []T, axes []int) error {
	shape := inp.Shape()
	axes, err := tensor.NormalizeAxes(len(shape), axes)
	if err != nil {
		return err
	}
	strides := inp.Strides()
	inData := inp.ReadData()
	outData := out.ReadData()
	slot := reduceIndexer(shape, axes)
	size := tensor.NumElements(shape)
	switch op {
	case ReduceSum:
		for i := 0; i < size; i++ {
			p := tensor.PhysicalIndex(i, shape, strides)
			gradInp[p] = e.ops.Add(gradInp[p], gradOut[slot(i)])
		}
	case ReduceMax, ReduceMin:
		for i := 0; i < size; i++ {
			s := slot(i)
			p := tensor.PhysicalIndex(i, shape, strides)
			if e.ops.Eq(inData[p], outData[s]) {
				gradInp[p] = e.ops.Add(gradInp[p], gradOut[s])
			}
		}
	default:
		return fmt.Errorf("%w: unknown reduce kind %d", tensor.ErrDeviceOp, op)
	}

	return nil
}
