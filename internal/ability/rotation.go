package ability

import (
	"fmt"

	"mana-backtest/internal/model"
)

// Rotation is the set of four generators run together by the orchestrator.
type Rotation struct {
	Lacerate Windowed
	Multihit Windowed
	Smoke    Windowed
	Bloom    Compensating

	// MultihitLead is the fixed part of the multihit starting offset;
	// a delay() draw is added on top.
	MultihitLead int
}

// DefaultRotation returns the reference cadences.
func DefaultRotation() Rotation {
	return Rotation{
		Lacerate: Windowed{Ability: model.LabelLacerate, Hits: 6, Step: 2},
		Multihit: Windowed{Ability: model.LabelMultihit, Hits: 12, Step: 2},
		Smoke:    Windowed{Ability: model.LabelSmoke, Hits: 10, Step: 10},
		Bloom: Compensating{
			Ability:   model.LabelBloom,
			Hits:      3,
			Step:      6,
			Credit:    2,
			Threshold: 6,
			Backfill:  5,
		},
		MultihitLead: 6,
	}
}

// Generators returns the generators in orchestrator order (1..4).
func (r Rotation) Generators() []Generator {
	return []Generator{r.Lacerate, r.Multihit, r.Smoke, r.Bloom}
}

// MaxWindow bounds hits*step (and the other cadence counters) so tick
// arithmetic cannot overflow a 32-bit int.
const MaxWindow = 1 << 30

func (r Rotation) Validate() error {
	for _, w := range []Windowed{r.Lacerate, r.Multihit, r.Smoke} {
		if err := checkCadence(string(w.Ability), w.Hits, w.Step); err != nil {
			return err
		}
	}
	b := r.Bloom
	if err := checkCadence("bloom", b.Hits, b.Step); err != nil {
		return err
	}
	switch {
	case b.Credit < 0 || b.Credit > MaxWindow:
		return &model.InvalidConfigError{Field: "rotation.bloom.credit", Reason: fmt.Sprintf("must be in [0, %d]", MaxWindow)}
	case b.Threshold < 0 || b.Threshold > MaxWindow:
		return &model.InvalidConfigError{Field: "rotation.bloom.threshold", Reason: fmt.Sprintf("must be in [0, %d]", MaxWindow)}
	case b.Backfill <= 0 || b.Backfill > b.Window():
		return &model.InvalidConfigError{Field: "rotation.bloom.backfill", Reason: fmt.Sprintf("must be in (0, %d]", b.Window())}
	}
	if r.MultihitLead < 0 || r.MultihitLead > MaxWindow {
		return &model.InvalidConfigError{Field: "rotation.multihit_lead", Reason: fmt.Sprintf("must be in [0, %d]", MaxWindow)}
	}
	return nil
}

func checkCadence(name string, hits, step int) error {
	switch {
	case hits <= 0:
		return &model.InvalidConfigError{Field: fmt.Sprintf("rotation.%s.hits", name), Reason: "must be > 0"}
	case step <= 0:
		return &model.InvalidConfigError{Field: fmt.Sprintf("rotation.%s.step", name), Reason: "must be > 0"}
	case step > MaxWindow || hits > MaxWindow/step:
		return &model.InvalidConfigError{Field: fmt.Sprintf("rotation.%s.hits", name), Reason: fmt.Sprintf("hits*step must be <= %d", MaxWindow)}
	}
	return nil
}

// Description is a reporting view of one generator.
type Description struct {
	Label  model.Label `json:"label"`
	Kind   string      `json:"kind"`
	Hits   int         `json:"hits"`
	Step   int         `json:"step"`
	Window int         `json:"window"`
	Jitter bool        `json:"jitter"`
}

func (r Rotation) Describe() []Description {
	out := make([]Description, 0, 4)
	for _, w := range []Windowed{r.Lacerate, r.Multihit, r.Smoke} {
		out = append(out, Description{Label: w.Ability, Kind: "windowed", Hits: w.Hits, Step: w.Step, Window: w.Window(), Jitter: true})
	}
	out = append(out, Description{Label: r.Bloom.Ability, Kind: "compensating", Hits: r.Bloom.Hits, Step: r.Bloom.Step, Window: r.Bloom.Window()})
	return out
}
