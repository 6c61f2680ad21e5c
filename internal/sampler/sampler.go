// Package sampler draws item indices with probability proportional to a
// per-item weight and implements the weight updates of the drill policy.
package sampler

import (
	"errors"
	"math"
	"math/rand/v2"
	"sort"
)

// ErrInvalidWeights is returned when a distribution cannot be built from the
// current weight table.
var ErrInvalidWeights = errors.New("sampler: cannot build distribution from weights")

// Sampler owns a weight table index-aligned with an item store and a
// cumulative distribution derived from it.
// Every weight is at least 1. The distribution is rebuilt by every mutator
// before it returns, so Sample never reads stale sums.
type Sampler struct {
	weights    []uint32
	cumulative []uint64 // nil when there is nothing to draw
	total      uint64
	rng        *rand.Rand
}

// New returns a sampler for n items, each with weight 1.
// A nil src uses a randomly seeded PCG generator.
func New(n int, src rand.Source) (*Sampler, error) {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	if n < 0 {
		n = 0
	}

	s := &Sampler{
		weights: make([]uint32, n),
		rng:     rand.New(src),
	}
	for i := range s.weights {
		s.weights[i] = 1
	}
	if err := s.rebuild(); err != nil {
		return nil, err
	}
	return s, nil
}

// rebuild recomputes the prefix sums. An empty table leaves no distribution.
func (s *Sampler) rebuild() error {
	if len(s.weights) == 0 {
		s.cumulative = nil
		s.total = 0
		return nil
	}

	cumulative := make([]uint64, len(s.weights))
	var total uint64
	for i, w := range s.weights {
		total += uint64(w)
		cumulative[i] = total
	}
	if total == 0 {
		s.cumulative = nil
		s.total = 0
		return ErrInvalidWeights
	}

	s.cumulative = cumulative
	s.total = total
	return nil
}

// Len returns the size of the weight table.
func (s *Sampler) Len() int {
	return len(s.weights)
}

// Sample draws an index with probability weight[i] / sum(weights).
// It reports false when there are no items. Weights are not changed.
func (s *Sampler) Sample() (int, bool) {
	if s.cumulative == nil {
		return 0, false
	}
	v := s.rng.Uint64N(s.total)
	i := sort.Search(len(s.cumulative), func(i int) bool {
		return s.cumulative[i] > v
	})
	return i, true
}

// Increment adds 1 to every weight.
func (s *Sampler) Increment() error {
	for i, w := range s.weights {
		if w < math.MaxUint32 {
			s.weights[i] = w + 1
		}
	}
	return s.rebuild()
}

// Reset sets the weight at index back to 1. Out of range indices are ignored.
func (s *Sampler) Reset(index int) error {
	if index < 0 || index >= len(s.weights) {
		return nil
	}
	s.weights[index] = 1
	return s.rebuild()
}

// Weights returns a copy of the weight table.
func (s *Sampler) Weights() []uint32 {
	out := make([]uint32, len(s.weights))
	copy(out, s.weights)
	return out
}
