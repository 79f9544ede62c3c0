// Package jitter supplies the inter-window delays drawn by ability generators.
//
// A Provider hands out one Source per stream so every generator can draw from
// its own seeded sequence; the ledger contents then depend only on the seed,
// not on goroutine interleaving.
package jitter

import (
	"math/rand"
	"sync"
	"time"
)

const (
	DefaultMin = 1
	DefaultMax = 4
)

// Source yields one delay per call.
type Source interface {
	Delay() int
}

// Provider hands out independent sources keyed by stream id.
type Provider interface {
	Stream(id int) Source
}

// Perfect never delays. It is both a Source and a Provider.
type Perfect struct{}

func (Perfect) Delay() int { return 0 }
func (p Perfect) Stream(int) Source { return p }

// Uniform draws integers in [Min, Max]. Safe for concurrent use.
type Uniform struct {
	Min int
	Max int

	mu  sync.Mutex
	rng *rand.Rand
}

func NewUniform(seed int64, min, max int) *Uniform {
	if max < min {
		min, max = max, min
	}
	return &Uniform{Min: min, Max: max, rng: rand.New(rand.NewSource(seed))}
}

func (u *Uniform) Delay() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.Min + u.rng.Intn(u.Max-u.Min+1)
}

// Seeded derives one Uniform per stream from Seed.
type Seeded struct {
	Seed int64
	Min  int
	Max  int
}

func (s Seeded) Stream(id int) Source {
	min, max := s.Min, s.Max
	if min == 0 && max == 0 {
		min, max = DefaultMin, DefaultMax
	}
	return NewUniform(s.Seed+int64(id), min, max)
}

// ForConfig picks the provider for a run. A nil seed draws one from the clock;
// the seed actually used is returned so the run can be reproduced.
func ForConfig(perfect bool, seed *int64) (Provider, int64) {
	if perfect {
		return Perfect{}, 0
	}
	s := time.Now().UnixNano()
	if seed != nil {
		s = *seed
	}
	return Seeded{Seed: s, Min: DefaultMin, Max: DefaultMax}, s
}
