package nn

import "github.com/zerfoo/tapegrad/tensor"

// NumParams counts the trainable elements of a collection. Slots with
// DoGradientUpdate unset do not contribute.
func NumParams[T tensor.Numeric](c Collection[T]) (int, error) {
	count := 0
	err := Walk(c, VisitorFunc[T](func(_ string, opts TensorOptions, t *tensor.Tensor[T]) error {
		if opts.DoGradientUpdate {
			count += t.Size()
		}

		return nil
	}))

	return count, err
}

// Paths returns the dotted path of every tensor slot in visit order.
func Paths[T tensor.Numeric](c Collection[T]) ([]string, error) {
	var paths []string
	err := Walk(c, VisitorFunc[T](func(path string, _ TensorOptions, _ *tensor.Tensor[T]) error {
		paths = append(paths, path)

		return nil
	}))

	return paths, err
}
