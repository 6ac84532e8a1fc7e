package common

import "time"

// Rand is a small deterministic xorshift64* generator. Geometry is built from it so that a seed reproduces
// the exact same scene, which the tests rely on.
type Rand struct {
	state uint64
}

// NewRand creates a generator from seed. A zero seed is replaced by the current time.
func NewRand(seed uint64) *Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	if seed == 0 {
		seed = 1
	}
	return &Rand{state: seed}
}

// Uint64 advances the generator.
func (r *Rand) Uint64() uint64 {
	x := r.state
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	r.state = x
	return x * 2685821657736338717
}

// Float64 returns a value in [0, 1).
func (r *Rand) Float64() float64 {
	return float64(r.Uint64()>>11) / (1 << 53)
}

// RangeF returns a value in [lo, hi). hi <= lo yields lo.
func (r *Rand) RangeF(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + (hi-lo)*r.Float64()
}

// Intn returns a value in [0, n). n <= 0 yields 0.
func (r *Rand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Uint64() % uint64(n))
}

// Pick returns a random element of items. It panics on an empty slice.
func Pick[T any](r *Rand, items []T) T {
	return items[r.Intn(len(items))]
}
