package nn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerfoo/tapegrad/device"
	"github.com/zerfoo/tapegrad/nn"
	"github.com/zerfoo/tapegrad/ops"
	"github.com/zerfoo/tapegrad/tensor"
)

// dense is a minimal affine module used to exercise the walker.
type dense struct {
	weight *tensor.Tensor[float64]
	bias   *tensor.Tensor[float64]
}

func newDense(dev device.Device, in, out int) (*dense, error) {
	w, err := tensor.SampleNormal[float64](dev, in, out)
	if err != nil {
		return nil, err
	}
	b, err := tensor.Zeros[float64](dev, out)
	if err != nil {
		return nil, err
	}

	return &dense{weight: w, bias: b}, nil
}

func (d *dense) IterTensors(w *nn.Walker[float64]) error {
	if err := w.Tensor("weight", nn.Trainable(), d.weight); err != nil {
		return err
	}

	return w.Tensor("bias", nn.Trainable(), d.bias)
}

func (d *dense) Forward(x *tensor.Tensor[float64]) (*tensor.Tensor[float64], error) {
	y, err := ops.TryMatMul(x, d.weight)
	if err != nil {
		return nil, err
	}
	// Trace the bias so the broadcast is recorded and its gradient routes
	// back to the parameter rather than stopping at the view.
	b, err := ops.TryBroadcast(d.bias.Trace(), y.Shape(), 0)
	if err != nil {
		return nil, err
	}

	return ops.TryAdd(y, b)
}

func (d *dense) ForwardMut(x *tensor.Tensor[float64]) (*tensor.Tensor[float64], error) {
	return d.Forward(x)
}

// norm carries running statistics that must not count as parameters.
type norm struct {
	scale   *tensor.Tensor[float64]
	running *tensor.Tensor[float64]
}

func (n *norm) IterTensors(w *nn.Walker[float64]) error {
	if err := w.Tensor("scale", nn.Trainable(), n.scale); err != nil {
		return err
	}

	return w.Tensor("running", nn.NonTrainable(), n.running)
}

// stack composes sub-modules under numbered paths.
type stack struct {
	first  *dense
	second *norm
}

func (s *stack) IterTensors(w *nn.Walker[float64]) error {
	if err := w.Module("0", s.first); err != nil {
		return err
	}

	return w.Module("1", s.second)
}

func buildStack(t *testing.T) *stack {
	t.Helper()
	dev := device.Default()
	d, err := newDense(dev, 4, 2)
	require.NoError(t, err)
	scale, err := tensor.Ones[float64](dev, 2)
	require.NoError(t, err)
	running, err := tensor.Zeros[float64](dev, 2)
	require.NoError(t, err)

	return &stack{first: d, second: &norm{scale: scale, running: running}}
}

func TestWalkerComposesDottedPaths(t *testing.T) {
	s := buildStack(t)
	paths, err := nn.Paths[float64](s)
	require.NoError(t, err)
	assert.Equal(t, []string{"0.weight", "0.bias", "1.scale", "1.running"}, paths)
}

func TestNumParamsRespectsGradientFlag(t *testing.T) {
	s := buildStack(t)
	count, err := nn.NumParams[float64](s)
	require.NoError(t, err)
	// 4*2 weight + 2 bias + 2 scale; running stats excluded.
	assert.Equal(t, 12, count)
}

func TestInitNormalSkipsNonTrainable(t *testing.T) {
	s := buildStack(t)
	require.NoError(t, nn.InitNormal[float64](s))
	assert.Equal(t, []float64{0, 0}, s.second.running.ToSlice())

	nonZero := false
	for _, v := range s.first.weight.ToSlice() {
		if v != 0 {
			nonZero = true
		}
	}
	assert.True(t, nonZero)
}

func TestToDeviceKeepsValues(t *testing.T) {
	s := buildStack(t)
	want := s.first.weight.ToSlice()
	require.NoError(t, nn.ToDevice[float64](s, device.Default()))
	assert.Equal(t, want, s.first.weight.ToSlice())
}

func TestModuleForwardBackward(t *testing.T) {
	dev := device.Default()
	d, err := newDense(dev, 3, 2)
	require.NoError(t, err)

	x, err := tensor.New[float64](dev, []int{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	var _ nn.Module[float64] = d
	y, err := d.Forward(x.Trace())
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, y.Shape())

	grads, err := ops.Sum(y).TryBackward()
	require.NoError(t, err)
	bg, err := grads.Get(d.bias)
	require.NoError(t, err)
	// The bias feeds every batch row.
	assert.Equal(t, []float64{2, 2}, bg.ToSlice())
}
