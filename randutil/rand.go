// Package randutil implements the randomization core: deterministically
// seedable number generation, ranged draws, shuffling and dice notation.
package randutil

import (
	"fmt"
	"math"
	rand "math/rand/v2"
	"strconv"
	"strings"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// Rand is a thin wrapper around math/rand/v2 keeping the seed it was created
// with, so any run can be reproduced from its log.
type Rand struct {
	r    *rand.Rand
	seed int64
}

// NewSeeded creates a deterministic generator from the provided seed. The
// two 64-bit PCG seeds are derived from it with an avalanche mixer so that
// close seeds do not produce correlated streams.
func NewSeeded(seed int64) *Rand {
	u := uint64(seed)
	return &Rand{
		r:    rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64))),
		seed: seed,
	}
}

// New creates a generator with a run-unique seed.
func New() *Rand {
	return NewSeeded(int64(rand.Uint64()))
}

// Seed returns the seed this generator was created with.
func (r *Rand) Seed() int64 {
	return r.seed
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// Between returns a uniform integer in [lo, hi] inclusive. Bounds are
// swapped when given in reverse order.
func (r *Rand) Between(lo, hi int) int {
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi {
		return lo
	}
	return lo + r.r.IntN(hi-lo+1)
}

// DecimalBetween returns a uniform float64 in [lo, hi]. Bounds are swapped
// when given in reverse order.
func (r *Rand) DecimalBetween(lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo + r.r.Float64()*(hi-lo)
}

// Float64 returns a uniform float64 in [0, 1).
func (r *Rand) Float64() float64 {
	return r.r.Float64()
}

// IntN returns a uniform integer in [0, n).
func (r *Rand) IntN(n int) int {
	return r.r.IntN(n)
}

// IsInt reports whether v has no fractional part.
func IsInt(v float64) bool {
	return v == math.Trunc(v) && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Clamp limits v to [lo, hi]. Bounds are swapped when given in reverse order.
func Clamp(v, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	return math.Min(math.Max(v, lo), hi)
}

// Shuffle permutes items in place using Fisher-Yates. Every permutation is
// equally likely. Slices of length 0 or 1 are left untouched.
func Shuffle[T any](r *Rand, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := r.r.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// Pick returns a uniformly selected element of items.
func Pick[T any](r *Rand, items []T) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, fmt.Errorf("cannot pick from an empty list")
	}
	return items[r.r.IntN(len(items))], nil
}

// Roll parses standard dice notation "NdM" (e.g. "2d6") and returns the sum
// of N uniform draws from [1, M].
func (r *Rand) Roll(notation string) (int, error) {
	countStr, sidesStr, found := strings.Cut(strings.ToLower(strings.TrimSpace(notation)), "d")
	if !found {
		return 0, fmt.Errorf("malformed dice notation %q: expected NdM", notation)
	}
	count, err := strconv.Atoi(countStr)
	if err != nil {
		return 0, fmt.Errorf("malformed dice notation %q: bad dice count: %w", notation, err)
	}
	sides, err := strconv.Atoi(sidesStr)
	if err != nil {
		return 0, fmt.Errorf("malformed dice notation %q: bad side count: %w", notation, err)
	}
	if count < 1 || sides < 1 {
		return 0, fmt.Errorf("malformed dice notation %q: counts must be positive", notation)
	}

	sum := 0
	for range count {
		sum += 1 + r.r.IntN(sides)
	}
	return sum, nil
}
