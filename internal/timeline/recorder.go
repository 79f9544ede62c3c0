package timeline

import (
	"sync"

	"mana-backtest/internal/model"
)

type bucket struct {
	mu     sync.Mutex
	labels []model.Label
}

// Recorder collects events from concurrent generators. Each tick gets its own
// lock-protected bucket, created on first use; the map lock is only held to
// look up or create a bucket.
type Recorder struct {
	mu      sync.Mutex
	buckets map[int]*bucket
	frozen  bool
}

func NewRecorder() *Recorder {
	return &Recorder{buckets: make(map[int]*bucket)}
}

func (r *Recorder) bucket(tick int) *bucket {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		panic("timeline: Record after Freeze")
	}
	b, ok := r.buckets[tick]
	if !ok {
		b = &bucket{}
		r.buckets[tick] = b
	}
	return b
}

// Record appends label to tick's bucket.
func (r *Recorder) Record(tick int, label model.Label) {
	b := r.bucket(tick)
	b.mu.Lock()
	b.labels = append(b.labels, label)
	b.mu.Unlock()
}

// Freeze stops recording and returns a Ledger with an entry for every tick
// in [0, horizon). Must only be called after all producers have returned.
func (r *Recorder) Freeze(horizon int) model.Ledger {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true

	entries := make(map[int][]model.Label, horizon)
	for t := 0; t < horizon; t++ {
		entries[t] = []model.Label{}
	}
	for t, b := range r.buckets {
		if t < 0 || t >= horizon {
			continue
		}
		b.mu.Lock()
		entries[t] = b.labels
		b.mu.Unlock()
	}
	return model.NewLedger(entries)
}
