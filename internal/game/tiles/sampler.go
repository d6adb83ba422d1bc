package tiles

import (
	"cmp"
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrInvalidState marks a broken engine invariant. It is never a user error.
var ErrInvalidState = errors.New("invalid state")

// Sampler draws uniform integers for weighted selection.
type Sampler struct {
	seed uint64
	rng  *rand.Rand
}

// NewSampler creates a sampler. A zero seed picks a random one.
func NewSampler(seed uint64) *Sampler {
	if seed == 0 {
		seed = rand.Uint64() | 1
	}
	return &Sampler{
		seed: seed,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Seed returns the seed the sampler was built with.
func (s *Sampler) Seed() uint64 {
	return s.seed
}

// Pick selects one key of weights with probability proportional to its count,
// by prefix-sum inversion over a uniform draw in [0, total).
func Pick[K cmp.Ordered](s *Sampler, weights Bag[K]) (K, error) {
	var zero K
	total := weights.Total()
	if total <= 0 {
		return zero, fmt.Errorf("weighted pick over total weight %d: %w", total, ErrInvalidState)
	}

	r := s.rng.IntN(total)
	prefix := 0
	for _, k := range weights.Keys() {
		prefix += weights.Count(k)
		if r < prefix {
			return k, nil
		}
	}
	return zero, fmt.Errorf("weighted pick fell past total %d: %w", total, ErrInvalidState)
}
