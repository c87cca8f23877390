package device

import (
	"sync"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// RNG is a mutex-protected random number generator used for tensor
// initialization. Each device owns exactly one.
type RNG struct {
	mu  sync.Mutex
	src *rand.Rand
}

// NewRNG creates a generator seeded with the given value.
func NewRNG(seed uint64) *RNG {
	return &RNG{src: rand.New(rand.NewSource(seed))}
}

// Seed reseeds the generator. Sampling after Seed with the same value
// reproduces the same sequence.
func (r *RNG) Seed(seed uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.src.Seed(seed)
}

// Normal draws one sample from N(mu, sigma²).
func (r *RNG) Normal(mu, sigma float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return distuv.Normal{Mu: mu, Sigma: sigma, Src: r.src}.Rand()
}

// Uniform draws one sample from U[min, max).
func (r *RNG) Uniform(min, max float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return distuv.Uniform{Min: min, Max: max, Src: r.src}.Rand()
}
