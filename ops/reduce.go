package ops

import (
	"github.com/zerfoo/tapegrad/compute"
	"github.com/zerfoo/tapegrad/numeric"
	"github.com/zerfoo/tapegrad/tensor"
)

// TrySum reduces the listed axes by summation; with no axes it reduces to a
// scalar.
func TrySum[T tensor.Numeric](t *tensor.Tensor[T], axes ...int) (*tensor.Tensor[T], error) {
	return tryReduce(compute.ReduceSum, t, axes)
}

// Sum reduces the listed axes by summation. It panics on a backend error.
func Sum[T tensor.Numeric](t *tensor.Tensor[T], axes ...int) *tensor.Tensor[T] {
	return must(TrySum(t, axes...))
}

// TryMax reduces the listed axes to their maxima. Every input position
// numerically equal to its slice maximum receives the full output gradient.
func TryMax[T tensor.Numeric](t *tensor.Tensor[T], axes ...int) (*tensor.Tensor[T], error) {
	return tryReduce(compute.ReduceMax, t, axes)
}

// Max reduces the listed axes to their maxima. It panics on a backend error.
func Max[T tensor.Numeric](t *tensor.Tensor[T], axes ...int) *tensor.Tensor[T] {
	return must(TryMax(t, axes...))
}

// TryMin reduces the listed axes to their minima.
func TryMin[T tensor.Numeric](t *tensor.Tensor[T], axes ...int) (*tensor.Tensor[T], error) {
	return tryReduce(compute.ReduceMin, t, axes)
}

// Min reduces the listed axes to their minima. It panics on a backend error.
func Min[T tensor.Numeric](t *tensor.Tensor[T], axes ...int) *tensor.Tensor[T] {
	return must(TryMin(t, axes...))
}

// TryMean reduces the listed axes to their arithmetic mean. It composes a
// sum reduction with a scalar division, recording both on the tape.
func TryMean[T tensor.Numeric](t *tensor.Tensor[T], axes ...int) (*tensor.Tensor[T], error) {
	inSize := t.Size()
	sum, err := TrySum(t, axes...)
	if err != nil {
		return nil, err
	}
	outSize := sum.Size()
	ops, ok := numeric.OpsFor[T]()
	if !ok {
		return nil, tensor.ErrUnsupportedDType
	}
	count := 1
	if outSize > 0 {
		count = inSize / outSize
	}

	return TryDivScalar(sum, ops.FromFloat64(float64(count)))
}

// Mean reduces the listed axes to their arithmetic mean. It panics on a
// backend error.
func Mean[T tensor.Numeric](t *tensor.Tensor[T], axes ...int) *tensor.Tensor[T] {
	return must(TryMean(t, axes...))
}
