package tensor

import "fmt"

// Gradients is an identity-keyed map from tensor id to gradient buffer.
// A buffer's length equals the owning tensor's physical element count, so a
// broadcast view's gradient is as small as its storage and stride-aware
// kernels accumulate the replicated axes into it naturally.
type Gradients[T Numeric] struct {
	bufs map[uint64][]T
}

// NewGradients creates an empty gradient map.
func NewGradients[T Numeric]() *Gradients[T] {
	return &Gradients[T]{bufs: make(map[uint64][]T)}
}

// Alloc lazily creates a zeroed gradient buffer for the tensor. Allocating
// twice is a no-op, so ops can preallocate slots unconditionally.
func (g *Gradients[T]) Alloc(t *Tensor[T]) error {
	if _, ok := g.bufs[t.id]; ok {
		return nil
	}
	g.bufs[t.id] = make([]T, t.PhysLen())

	return nil
}

// Has reports whether a buffer exists for the identity.
func (g *Gradients[T]) Has(id uint64) bool {
	_, ok := g.bufs[id]

	return ok
}

// Ref returns the buffer for the identity for reading.
func (g *Gradients[T]) Ref(id uint64) ([]T, error) {
	buf, ok := g.bufs[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrMissingGradient, id)
	}

	return buf, nil
}

// MutAndRef borrows one slot mutably and one immutably. The identities must
// be distinct; a collision is refused so a closure can never alias its own
// output gradient.
func (g *Gradients[T]) MutAndRef(mutID, refID uint64) (mut, ref []T, err error) {
	if mutID == refID {
		return nil, nil, fmt.Errorf("%w: id %d borrowed twice", ErrIdentityCollision, mutID)
	}
	if mut, err = g.Ref(mutID); err != nil {
		return nil, nil, err
	}
	if ref, err = g.Ref(refID); err != nil {
		return nil, nil, err
	}

	return mut, ref, nil
}

// MutsAndRef borrows two slots mutably and one immutably, all keyed by
// distinct identities. Binary backward ops use it.
func (g *Gradients[T]) MutsAndRef(aID, bID, refID uint64) (a, b, ref []T, err error) {
	if aID == bID || aID == refID || bID == refID {
		return nil, nil, nil, fmt.Errorf("%w: ids %d, %d, %d must be distinct", ErrIdentityCollision, aID, bID, refID)
	}
	if a, err = g.Ref(aID); err != nil {
		return nil, nil, nil, err
	}
	if b, err = g.Ref(bID); err != nil {
		return nil, nil, nil, err
	}
	if ref, err = g.Ref(refID); err != nil {
		return nil, nil, nil, err
	}

	return a, b, ref, nil
}

// ManyAndRef borrows a slot mutably for every listed identity and one slot
// immutably. Stack backward uses it.
func (g *Gradients[T]) ManyAndRef(ids []uint64, refID uint64) (muts [][]T, ref []T, err error) {
	seen := make(map[uint64]bool, len(ids)+1)
	seen[refID] = true
	muts = make([][]T, len(ids))
	for i, id := range ids {
		if seen[id] {
			return nil, nil, fmt.Errorf("%w: id %d borrowed twice", ErrIdentityCollision, id)
		}
		seen[id] = true
		if muts[i], err = g.Ref(id); err != nil {
			return nil, nil, err
		}
	}
	if ref, err = g.Ref(refID); err != nil {
		return nil, nil, err
	}

	return muts, ref, nil
}

// Get returns the gradient of t as a tensor view shaped like t. The view has
// a fresh identity and shares the gradient buffer.
func (g *Gradients[T]) Get(t *Tensor[T]) (*Tensor[T], error) {
	buf, err := g.Ref(t.id)
	if err != nil {
		return nil, err
	}
	shape := t.Shape()
	strides := t.Strides()

	return fresh(t.dev, shape, strides, storageOf(buf)), nil
}

// MustGet is Get for callers that know the gradient exists.
func (g *Gradients[T]) MustGet(t *Tensor[T]) *Tensor[T] {
	grad, err := g.Get(t)
	if err != nil {
		panic(err)
	}

	return grad
}
