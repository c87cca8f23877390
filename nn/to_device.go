package nn

import (
	"github.com/zerfoo/tapegrad/compute"
	"github.com/zerfoo/tapegrad/device"
	"github.com/zerfoo/tapegrad/tensor"
)

// ToDevice re-homes every tensor of a collection onto the target device by
// copying through the host. Each slot not already on the destination is
// replaced in place with a fresh tensor there; slots already on it are left
// as they are.
func ToDevice[T tensor.Numeric](c Collection[T], dev device.Device) error {
	e, err := compute.For[T](dev)
	if err != nil {
		return err
	}

	return Walk(c, VisitorFunc[T](func(_ string, _ TensorOptions, t *tensor.Tensor[T]) error {
		if t.Device() == dev {
			return nil
		}
		moved, err := e.FromHost(t.Shape(), t.ToSlice())
		if err != nil {
			return err
		}
		*t = *moved

		return nil
	}))
}

// InitNormal refills every trainable slot with draws from N(0, 1) on its
// own device.
func InitNormal[T tensor.Numeric](c Collection[T]) error {
	return Walk(c, VisitorFunc[T](func(_ string, opts TensorOptions, t *tensor.Tensor[T]) error {
		if !opts.DoGradientUpdate {
			return nil
		}
		sampled, err := tensor.SampleNormal[T](t.Device(), t.Shape()...)
		if err != nil {
			return err
		}
		*t = *sampled

		return nil
	}))
}
