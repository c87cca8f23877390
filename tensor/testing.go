package tensor

import (
	"math"
	"testing"

	"github.com/zerfoo/tapegrad/numeric"
)

// CompareApprox checks if two tensors are approximately equal element-wise
// in logical order.
func CompareApprox[T Numeric](t *testing.T, actual, expected *Tensor[T], epsilon float64) bool {
	t.Helper()
	if !SameInts(actual.Shape(), expected.Shape()) {
		t.Errorf("tensor shapes do not match: actual %v, expected %v", actual.Shape(), expected.Shape())

		return false
	}
	ops, ok := numeric.OpsFor[T]()
	if !ok {
		t.Fatalf("no arithmetic for element type")

		return false
	}
	actualData := actual.ToSlice()
	expectedData := expected.ToSlice()
	for i := range actualData {
		a := ops.ToFloat64(actualData[i])
		e := ops.ToFloat64(expectedData[i])
		if math.Abs(a-e) > epsilon {
			t.Errorf("elements at index %d differ: actual %v, expected %v, epsilon %v", i, a, e, epsilon)

			return false
		}
	}

	return true
}

// CompareSliceApprox checks a tensor's logical elements against expected
// float64 values.
func CompareSliceApprox[T Numeric](t *testing.T, actual *Tensor[T], expected []float64, epsilon float64) bool {
	t.Helper()
	ops, ok := numeric.OpsFor[T]()
	if !ok {
		t.Fatalf("no arithmetic for element type")

		return false
	}
	actualData := actual.ToSlice()
	if len(actualData) != len(expected) {
		t.Errorf("element counts differ: actual %d, expected %d", len(actualData), len(expected))

		return false
	}
	for i := range actualData {
		a := ops.ToFloat64(actualData[i])
		if math.Abs(a-expected[i]) > epsilon {
			t.Errorf("elements at index %d differ: actual %v, expected %v", i, a, expected[i])

			return false
		}
	}

	return true
}
