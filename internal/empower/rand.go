package empower

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Rand is the uniform source every selection draws from.
// IntN returns a value in [0, n); n > 0.
type Rand interface {
	IntN(n int) int
}

// urand draws a uniform integer in [lo, hi].
func urand(r Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

// Chance reports whether a percent gate passes: urand(1,100) <= pct.
func Chance(r Rand, pct int) bool {
	if pct <= 0 {
		return false
	}
	return urand(r, 1, 100) <= pct
}

// lockedRand is a seeded PCG source shared by concurrent item uses.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRand returns a goroutine-safe source. Seed 0 seeds from the clock.
func NewRand(seed uint64) Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &lockedRand{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (r *lockedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}
