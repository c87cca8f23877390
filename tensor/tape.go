package tensor

import (
	"github.com/zerfoo/tapegrad/numeric"
)

// BackwardOp is a closure appended to the tape during forward execution.
// When replayed it accumulates into input gradient buffers.
type BackwardOp[T Numeric] func(g *Gradients[T]) error

// Tape records backward ops in forward order and owns the gradient map.
// A nil *Tape is the "no recording" state: ops thread it through untouched
// and Backward refuses to run.
type Tape[T Numeric] struct {
	ops   []BackwardOp[T]
	grads *Gradients[T]
}

// NewTape creates an empty recording tape.
func NewTape[T Numeric]() *Tape[T] {
	return &Tape[T]{grads: NewGradients[T]()}
}

// Append adds one backward op. Forward execution is single-threaded and
// sequential, so appends define the only ordering the tape guarantees.
func (tp *Tape[T]) Append(op BackwardOp[T]) {
	tp.ops = append(tp.ops, op)
}

// Len returns the number of recorded backward ops.
func (tp *Tape[T]) Len() int { return len(tp.ops) }

// Grads returns the tape's gradient map.
func (tp *Tape[T]) Grads() *Gradients[T] { return tp.grads }

// Alloc preallocates a gradient slot for the tensor.
func (tp *Tape[T]) Alloc(t *Tensor[T]) error { return tp.grads.Alloc(t) }

// Merge combines two tapes into one, concatenating the op lists in forward
// order and taking the union of the gradient maps. Either side may be nil;
// merging a tape with itself returns it unchanged.
func Merge[T Numeric](lhs, rhs *Tape[T]) *Tape[T] {
	if lhs == nil {
		return rhs
	}
	if rhs == nil || rhs == lhs {
		return lhs
	}
	lhs.ops = append(lhs.ops, rhs.ops...)
	for id, buf := range rhs.grads.bufs {
		if _, ok := lhs.grads.bufs[id]; !ok {
			lhs.grads.bufs[id] = buf
		}
	}

	return lhs
}

// Tape returns the tensor's tape slot, nil when not recording.
func (t *Tensor[T]) Tape() *Tape[T] { return t.tape }

// Trace returns a handle with the same identity and storage that carries a
// fresh recording tape; the receiver itself is left without one. If the
// tensor already owns a tape it is returned unchanged.
func (t *Tensor[T]) Trace() *Tensor[T] {
	if t.tape != nil {
		return t
	}
	out := t.Clone()
	out.tape = NewTape[T]()

	return out
}

// SplitTape detaches the tape, returning a tape-less handle that preserves
// identity and storage alongside the tape itself.
func (t *Tensor[T]) SplitTape() (*Tensor[T], *Tape[T]) {
	out := t.Clone()
	tp := out.tape
	out.tape = nil

	return out, tp
}

// PutTape reattaches a tape, returning a handle that preserves identity and
// storage.
func (t *Tensor[T]) PutTape(tp *Tape[T]) *Tensor[T] {
	out := t.Clone()
	out.tape = tp

	return out
}

// TryBackward consumes the tape of a scalar tensor: it seeds the scalar's
// gradient with one, replays the recorded ops in exact reverse order, and
// returns the frozen gradient map.
func (t *Tensor[T]) TryBackward() (*Gradients[T], error) {
	if t.tape == nil {
		return nil, ErrNoTape
	}
	if t.Size() != 1 {
		return nil, ErrShapeMismatch
	}
	ops, ok := numeric.OpsFor[T]()
	if !ok {
		return nil, ErrUnsupportedDType
	}
	tp := t.tape
	if err := tp.Alloc(t); err != nil {
		return nil, err
	}
	seed, err := tp.grads.Ref(t.id)
	if err != nil {
		return nil, err
	}
	one := ops.One()
	for i := range seed {
		seed[i] = one
	}
	for i := len(tp.ops) - 1; i >= 0; i-- {
		if err := tp.ops[i](tp.grads); err != nil {
			return nil, err
		}
	}
	tp.ops = nil
	t.tape = nil

	return tp.grads, nil
}

// Backward is TryBackward for callers that treat failure as a bug.
func (t *Tensor[T]) Backward() *Gradients[T] {
	grads, err := t.TryBackward()
	if err != nil {
		panic(err)
	}

	return grads
}
