package model

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Ledger is the frozen tick-indexed record of fired events.
// Per-tick order is arrival order; callers comparing ledgers should treat
// each tick as a multiset (see Equivalent).
//
// JSON shape:
//
//	{"0": ["lacerate", "bloom"], "1": [], ...}
type Ledger struct {
	ticks map[int][]Label
}

// NewLedger copies entries into a new Ledger. Ticks absent from entries stay
// absent; Validate reports them.
func NewLedger(entries map[int][]Label) Ledger {
	ticks := make(map[int][]Label, len(entries))
	for t, labels := range entries {
		cp := make([]Label, len(labels))
		copy(cp, labels)
		ticks[t] = cp
	}
	return Ledger{ticks: ticks}
}

// Len is the number of ticks with an entry (possibly empty).
func (l Ledger) Len() int { return len(l.ticks) }

// Ticks returns every tick with an entry, ascending.
func (l Ledger) Ticks() []int {
	out := make([]int, 0, len(l.ticks))
	for t := range l.ticks {
		out = append(out, t)
	}
	sort.Ints(out)
	return out
}

// At returns a copy of the events recorded at tick t.
func (l Ledger) At(t int) ([]Label, bool) {
	labels, ok := l.ticks[t]
	if !ok {
		return nil, false
	}
	cp := make([]Label, len(labels))
	copy(cp, labels)
	return cp, true
}

func (l Ledger) Count(t int) int { return len(l.ticks[t]) }

func (l Ledger) Contains(t int, label Label) bool {
	for _, x := range l.ticks[t] {
		if x == label {
			return true
		}
	}
	return false
}

// Occurrences lists the ticks at which label fired, ascending, one entry per event.
func (l Ledger) Occurrences(label Label) []int {
	var out []int
	for _, t := range l.Ticks() {
		for _, x := range l.ticks[t] {
			if x == label {
				out = append(out, t)
			}
		}
	}
	return out
}

// Total is the number of events across all ticks.
func (l Ledger) Total() int {
	n := 0
	for _, labels := range l.ticks {
		n += len(labels)
	}
	return n
}

// Validate checks that every tick in [0, horizon) has an entry.
func (l Ledger) Validate(horizon int) error {
	if err := CheckHorizon(horizon); err != nil {
		return err
	}
	for t := 0; t < horizon; t++ {
		if _, ok := l.ticks[t]; !ok {
			return &InvalidLedgerError{Tick: t, Horizon: horizon}
		}
	}
	return nil
}

// Equivalent reports whether both ledgers hold the same ticks and, per tick,
// the same events ignoring order.
func (l Ledger) Equivalent(other Ledger) bool {
	if len(l.ticks) != len(other.ticks) {
		return false
	}
	for t, labels := range l.ticks {
		theirs, ok := other.ticks[t]
		if !ok || len(theirs) != len(labels) {
			return false
		}
		counts := make(map[Label]int, len(labels))
		for _, x := range labels {
			counts[x]++
		}
		for _, x := range theirs {
			counts[x]--
			if counts[x] < 0 {
				return false
			}
		}
	}
	return true
}

func (l Ledger) MarshalJSON() ([]byte, error) {
	if l.ticks == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(l.ticks)
}

func (l *Ledger) UnmarshalJSON(raw []byte) error {
	var entries map[int][]Label
	if err := json.Unmarshal(raw, &entries); err != nil {
		return err
	}
	for t, labels := range entries {
		if t < 0 {
			return fmt.Errorf("negative tick %d", t)
		}
		// Letter aliases (A-D) are accepted and normalized.
		for i, x := range labels {
			l, err := ParseLabel(string(x))
			if err != nil {
				return fmt.Errorf("tick %d: %w", t, err)
			}
			labels[i] = l
		}
		if labels == nil {
			entries[t] = []Label{}
		}
	}
	*l = NewLedger(entries)
	return nil
}
