// Package nn provides the generic tree walk over composite parameter
// holders: counting, initialization, and device transfer all ride the same
// visitor.
package nn

import (
	"strings"

	"github.com/zerfoo/tapegrad/tensor"
)

// TensorOptions carries per-slot flags. Non-trainable slots (for example
// running statistics) set DoGradientUpdate to false; counts and updates
// respect it.
type TensorOptions struct {
	DoGradientUpdate bool
}

// Trainable is the default option set for parameters.
func Trainable() TensorOptions { return TensorOptions{DoGradientUpdate: true} }

// NonTrainable marks slots excluded from gradient updates.
func NonTrainable() TensorOptions { return TensorOptions{DoGradientUpdate: false} }

// Visitor is the capability handed to a walk. Visit receives the dotted
// path of the slot (e.g. "0.weight"), its options, and a mutable handle to
// the tensor.
type Visitor[T tensor.Numeric] interface {
	Visit(path string, opts TensorOptions, t *tensor.Tensor[T]) error
}

// VisitorFunc adapts a function to the Visitor interface.
type VisitorFunc[T tensor.Numeric] func(path string, opts TensorOptions, t *tensor.Tensor[T]) error

// Visit calls the function.
func (f VisitorFunc[T]) Visit(path string, opts TensorOptions, t *tensor.Tensor[T]) error {
	return f(path, opts, t)
}

// Collection is implemented by composite parameter holders. IterTensors
// enumerates the holder's tensors and sub-collections through the walker.
type Collection[T tensor.Numeric] interface {
	IterTensors(w *Walker[T]) error
}

// Module is the surface consumed from layer collaborators: a parameter
// collection with forward evaluation. Construction follows the
// build-on-device convention: each module provides its own constructor
// taking the target device.
type Module[T tensor.Numeric] interface {
	Collection[T]
	// Forward evaluates the module.
	Forward(x *tensor.Tensor[T]) (*tensor.Tensor[T], error)
	// ForwardMut evaluates the module and permits internal state updates,
	// e.g. running statistics.
	ForwardMut(x *tensor.Tensor[T]) (*tensor.Tensor[T], error)
}

// Walker performs the recursive enumeration, composing dotted string paths.
type Walker[T tensor.Numeric] struct {
	path []string
	v    Visitor[T]
}

// Walk runs a visitor over every tensor of a collection.
func Walk[T tensor.Numeric](c Collection[T], v Visitor[T]) error {
	return c.IterTensors(&Walker[T]{v: v})
}

// Module descends into a named sub-collection.
func (w *Walker[T]) Module(name string, c Collection[T]) error {
	w.path = append(w.path, name)
	err := c.IterTensors(w)
	w.path = w.path[:len(w.path)-1]

	return err
}

// Tensor visits a named leaf slot.
func (w *Walker[T]) Tensor(name string, opts TensorOptions, t *tensor.Tensor[T]) error {
	path := name
	if len(w.path) > 0 {
		path = strings.Join(w.path, ".") + "." + name
	}

	return w.v.Visit(path, opts, t)
}
