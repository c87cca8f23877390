package tensor

import "errors"

// Backend error kinds. Fallible operations wrap these with context via
// fmt.Errorf and %w; convenience forms panic with the wrapped error.
var (
	// ErrShapeMismatch is returned when operand shapes are incompatible.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrStrideMismatch is returned when operand strides are incompatible,
	// e.g. stacking tensors with different broadcast structure.
	ErrStrideMismatch = errors.New("stride mismatch")
	// ErrWrongElementCount is returned when host data does not match the
	// shape's element count.
	ErrWrongElementCount = errors.New("wrong element count")
	// ErrAllocation is returned when a backend fails to allocate storage.
	ErrAllocation = errors.New("allocation failure")
	// ErrDeviceOp is returned when a backend kernel fails.
	ErrDeviceOp = errors.New("device op failure")
	// ErrUnsupportedDType is returned when no arithmetic implementation is
	// registered for the element type.
	ErrUnsupportedDType = errors.New("unsupported element type")
	// ErrNoTape is returned when backward is requested on a tensor that
	// does not own a tape.
	ErrNoTape = errors.New("tensor does not own a tape")
	// ErrIdentityCollision is returned by the gradient map when the same
	// identity is borrowed mutably and immutably at once.
	ErrIdentityCollision = errors.New("gradient identity collision")
	// ErrMissingGradient is returned when a gradient slot was never
	// allocated for the requested identity.
	ErrMissingGradient = errors.New("no gradient recorded for tensor")
)
