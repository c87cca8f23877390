package ops

import (
	"fmt"

	"github.com/zerfoo/tapegrad/compute"
	"github.com/zerfoo/tapegrad/tensor"
)

// pool2dOpFor resolves the pooling geometry for a (C,H,W) or (B,C,H,W)
// input.
func pool2dOpFor[T tensor.Numeric](t *tensor.Tensor[T], k, s, p int) (compute.Pool2DOp, error) {
	if k <= 0 || s <= 0 || p < 0 {
		return compute.Pool2DOp{}, fmt.Errorf("%w: pool2d kernel %d, stride %d, padding %d", tensor.ErrShapeMismatch, k, s, p)
	}
	shape := t.Shape()
	var dims [4]int
	switch len(shape) {
	case 3:
		dims = [4]int{1, shape[0], shape[1], shape[2]}
	case 4:
		dims = [4]int{shape[0], shape[1], shape[2], shape[3]}
	default:
		return compute.Pool2DOp{}, fmt.Errorf("%w: pool2d input must be rank 3 or 4, got %v", tensor.ErrShapeMismatch, shape)
	}
	if dims[2]+2*p < k || dims[3]+2*p < k {
		return compute.Pool2DOp{}, fmt.Errorf("%w: pool2d kernel %d exceeds padded input %dx%d",
			tensor.ErrShapeMismatch, k, dims[2]+2*p, dims[3]+2*p)
	}

	return compute.NewPool2DOp(k, s, p, dims), nil
}

// tryPool2d is the pooling skeleton, a unary op whose output takes the
// pooled spatial extents.
func tryPool2d[T tensor.Numeric](kind compute.PoolKind, t *tensor.Tensor[T], k, s, p int) (*tensor.Tensor[T], error) {
	inp, tp := t.SplitTape()
	op, err := pool2dOpFor(inp, k, s, p)
	if err != nil {
		return nil, err
	}
	e, err := engineFor(inp)
	if err != nil {
		return nil, err
	}
	out, err := e.Pool2DForward(kind, op, inp)
	if err != nil {
		return nil, err
	}
	if tp == nil {
		return out, nil
	}
	if err := tp.Alloc(inp); err != nil {
		return nil, err
	}
	if err := tp.Alloc(out); err != nil {
		return nil, err
	}
	inpC := inp.Clone()
	outC := out.Clone()
	tp.Append(func(g *tensor.Gradients[T]) error {
		gradInp, gradOut, err := g.MutAndRef(inpC.ID(), outC.ID())
		if err != nil {
			return err
		}

		return e.Pool2DBackward(kind, op, inpC, gradInp, outC, gradOut)
	})

	return out.PutTape(tp), nil
}

// TryAvgPool2D averages K×K windows with stride s and zero padding p. The
// divisor is always K², so padding dilutes edge windows.
func TryAvgPool2D[T tensor.Numeric](t *tensor.Tensor[T], k, s, p int) (*tensor.Tensor[T], error) {
	return tryPool2d(compute.PoolAvg, t, k, s, p)
}

// AvgPool2D averages K×K windows. It panics on a backend error.
func AvgPool2D[T tensor.Numeric](t *tensor.Tensor[T], k, s, p int) *tensor.Tensor[T] {
	return must(TryAvgPool2D(t, k, s, p))
}

// TryMaxPool2D takes the maximum of K×K windows; padding does not
// participate.
func TryMaxPool2D[T tensor.Numeric](t *tensor.Tensor[T], k, s, p int) (*tensor.Tensor[T], error) {
	return tryPool2d(compute.PoolMax, t, k, s, p)
}

// MaxPool2D takes the maximum of K×K windows. It panics on a backend error.
func MaxPool2D[T tensor.Numeric](t *tensor.Tensor[T], k, s, p int) *tensor.Tensor[T] {
	return must(TryMaxPool2D(t, k, s, p))
}

// TryMinPool2D takes the minimum of K×K windows; padding does not
// participate.
func TryMinPool2D[T tensor.Numeric](t *tensor.Tensor[T], k, s, p int) (*tensor.Tensor[T], error) {
	return tryPool2d(compute.PoolMin, t, k, s, p)
}

// MinPool2D takes the minimum of K×K windows. It panics on a backend error.
func MinPool2D[T tensor.Numeric](t *tensor.Tensor[T], k, s, p int) *tensor.Tensor[T] {
	return must(TryMinPool2D(t, k, s, p))
}
