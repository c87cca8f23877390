package compute

import (
	"fmt"
	"math"

	"github.com/zerfoo/tapegrad/numeric"
	"github.com/zerfoo/tapegrad/tensor"
)

// pool2dStrides normalizes a (C,H,W) or (B,C,H,W) tensor to four stride
// values (batch stride is 0 for rank 3, where the batch extent is 1).
func pool2dStrides(t []int, rank int) [4]int {
	if rank == 3 {
		return [4]int{0, t[0], t[1], t[2]}
	}

	return [4]int{t[0], t[1], t[2], t[3]}
}

// Pool2DForward computes 2-D pooling. Per output position the K×K window is
// reduced with the selected kind; zero padding contributes 0 to an average's
// sum (the divisor is always K²) and does not participate in max/min.
func (e *CPUEngine[T]) Pool2DForward(kind PoolKind, op Pool2DOp, inp *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	rank := inp.Rank()
	if rank != 3 && rank != 4 {
		return nil, fmt.Errorf("%w: pool2d input must be rank 3 or 4, got %d", tensor.ErrShapeMismatch, rank)
	}
	outShape := []int{op.Chan, op.HOut, op.WOut}
	if rank == 4 {
		outShape = []int{op.Batch, op.Chan, op.HOut, op.WOut}
	}
	out, outData, err := e.newOutput(outShape)
	if err != nil {
		return nil, err
	}
	st := pool2dStrides(inp.Strides(), rank)
	inData := inp.ReadData()
	ops := e.ops
	ksq := ops.FromFloat64(float64(op.Kernel * op.Kernel))
	var pad T
	switch kind {
	case PoolMax:
		pad = ops.FromFloat64(math.Inf(-1))
	case PoolMin:
		pad = ops.FromFloat64(math.Inf(1))
	case PoolAvg:
		pad = ops.FromFloat64(0)
	}
	idx := 0
	for n := 0; n < op.Batch; n++ {
		for c := 0; c < op.Chan; c++ {
			for i := 0; i < op.HOut; i++ {
				for j := 0; j < op.WOut; j++ {
					acc := pad
					for ki := 0; ki < op.Kernel; ki++ {
						for kj := 0; kj < op.Kernel; kj++ {
							h := i*op.Stride + ki - op.Padding
							w := j*op.Stride + kj - op.Padding
							if h < 0 || h >= op.HIn || w < 0 || w >= op.WIn {
								continue
							}
							v := inData[n*st[0]+c*st[1]+h*st[2]+w*st[3]]
							switch kind {
							case PoolAvg:
								acc = ops.Add(acc, v)
							case PoolMax:
								acc = numeric.MaxOf(ops, acc, v)
							case PoolMin:
								acc = numeric.MinOf(ops, acc, v)
							}
						}
					}
					if kind == PoolAvg {
						acc = ops.Div(acc, ksq)
					}
					outData[idx] = acc
					idx++
				}
			}
		}
	}

	return out, nil
}

// Pool2DBackward accumulates the input gradient. Average pooling spreads
// grad_out/K² over the window; max and min give the full grad_out to every
// window position matching the extremum.
func (e *CPUEngine[T]) Pool2DBackward(kind PoolKind, op Pool2DOp, inp *tensor.Tensor[T], gradInp []T, out *tensor.Tensor[T], gradOut []T) error {
	rank := inp.Rank()
	if rank != 3 && rank != 4 {
		return fmt.Errorf("%w: pool2d input must be rank 3 or 4, got %d", tensor.ErrShapeMismatch, rank)
	}
	if len(gradOut) != op.Batch*op.Chan*op.HOut*op.WOut {
		return fmt.Errorf("%w: output gradient length %d for pool output", tensor.ErrWrongElementCount, len(gradOut))
	}
	st := pool2dStrides(inp.Strides(), rank)
	inData := inp.ReadData()
	outData := out.ReadData()
	ops := e.ops
	ksq := ops.FromFloat64(float64(op.Kernel * op.Kernel))
	idx := 0
	for n := 0; n < op.Batch; n++ {
		for c := 0; c < op.Chan; c++ {
			for i := 0; i < op.HOut; i++ {
				for j := 0; j < op.WOut; j++ {
					g := gradOut[idx]
					v := outData[idx]
					idx++
					for ki := 0; ki < op.Kernel; ki++ {
						for kj := 0; kj < op.Kernel; kj++ {
							h := i*op.Stride + ki - op.Padding
							w := j*op.Stride + kj - op.Padding
							if h < 0 || h >= op.HIn || w < 0 || w >= op.WIn {
								continue
							}
							p := n*st[0] + c*st[1] + h*st[2] + w*st[3]
							switch kind {
							case PoolAvg:
								gradInp[p] = ops.Add(gradInp[p], ops.Div(g, ksq))
							case PoolMax, PoolMin:
								if ops.Eq(inData[p], v) {
									gradInp[p] = ops.Add(gradInp[p], g)
								}
							}
						}
					}
				}
			}
		}
	}

	return nil
}
