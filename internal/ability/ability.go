// Package ability implements the periodic ability generators that walk tick
// space and record their hits into a ledger sink.
package ability

import (
	"mana-backtest/internal/jitter"
	"mana-backtest/internal/model"
)

// Sink receives emitted events. Implementations must tolerate concurrent
// Record calls from several generators.
type Sink interface {
	Record(tick int, label model.Label)
}

// Generator walks forward from start and records its label at the ticks its
// cadence rule selects, stopping at horizon. Generators never fail; they
// return the number of events recorded.
type Generator interface {
	Label() model.Label
	Emit(start, horizon int, sink Sink, delay jitter.Source) int
}

// Windowed emits Hits events Step ticks apart, then waits delay() ticks
// before the next window.
type Windowed struct {
	Ability model.Label
	Hits    int
	Step    int
}

func (w Windowed) Label() model.Label { return w.Ability }

// Window is the number of ticks one window consumes before the delay.
func (w Windowed) Window() int { return w.Hits * w.Step }

func (w Windowed) Emit(start, horizon int, sink Sink, delay jitter.Source) int {
	if w.Hits <= 0 || w.Step <= 0 || w.Window() <= 0 {
		return 0
	}
	n := 0
	cursor := start
	for cursor < horizon {
		for i := 0; i < w.Hits; i++ {
			t := cursor + i*w.Step
			if t >= horizon {
				break
			}
			if t >= 0 {
				sink.Record(t, w.Ability)
				n++
			}
		}
		cursor += w.Window()
		cursor += delay.Delay()
	}
	return n
}

// Compensating emits Hits events Step ticks apart with no jitter. Every cycle
// earns Credit; once the balance reaches Threshold one extra event is
// backfilled at cursor-Backfill and the balance resets.
//
// With the defaults (3 hits, step 6, credit 2, threshold 6, backfill 5) this
// yields 10 events per 54 ticks, approximating a cadence that does not
// divide the tick step.
type Compensating struct {
	Ability   model.Label
	Hits      int
	Step      int
	Credit    int
	Threshold int
	Backfill  int
}

func (c Compensating) Label() model.Label { return c.Ability }

func (c Compensating) Window() int { return c.Hits * c.Step }

// Emit ignores delay: the cadence is fixed.
func (c Compensating) Emit(start, horizon int, sink Sink, _ jitter.Source) int {
	if c.Hits <= 0 || c.Step <= 0 || c.Window() <= 0 {
		return 0
	}
	n := 0
	record := func(t int) {
		if t >= 0 && t < horizon {
			sink.Record(t, c.Ability)
			n++
		}
	}

	credit := 0
	cursor := start
	for cursor < horizon {
		for i := 0; i < c.Hits; i++ {
			t := cursor + i*c.Step
			if t >= horizon {
				break
			}
			record(t)
		}
		cursor += c.Window()
		if c.Threshold <= 0 {
			continue
		}
		credit += c.Credit
		if credit >= c.Threshold {
			record(cursor - c.Backfill)
			credit = 0
		}
	}
	return n
}
