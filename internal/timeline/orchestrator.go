// Package timeline runs the ability generators over a shared recorder and
// freezes the result into a ledger.
package timeline

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"mana-backtest/internal/ability"
	"mana-backtest/internal/jitter"
	"mana-backtest/internal/model"
)

// offsetStream is the jitter stream used for starting offsets; generator i
// (0-based) draws its inter-window delays from stream i+1.
const offsetStream = 0

// Offsets are the starting ticks of the four generators.
type Offsets struct {
	Lacerate int `json:"lacerate"`
	Multihit int `json:"multihit"`
	Smoke    int `json:"smoke"`
	Bloom    int `json:"bloom"`
}

func (o Offsets) slice() []int {
	return []int{o.Lacerate, o.Multihit, o.Smoke, o.Bloom}
}

// Orchestrator runs one rotation to completion.
type Orchestrator struct {
	Rotation ability.Rotation
	Jitter   jitter.Provider

	// Sequential runs the generators one after another. The ledger is the
	// same as a concurrent run up to per-tick event order.
	Sequential bool
}

func New(rot ability.Rotation, provider jitter.Provider) *Orchestrator {
	if provider == nil {
		provider = jitter.Perfect{}
	}
	return &Orchestrator{Rotation: rot, Jitter: provider}
}

// Result is a frozen ledger plus the offsets it was generated with.
type Result struct {
	Ledger  model.Ledger
	Offsets Offsets
	Events  int
}

// Plan draws the starting offsets: lacerate 0, multihit lead+delay(),
// smoke delay(), bloom 0. The multihit draw happens first.
func (o *Orchestrator) Plan() Offsets {
	src := o.provider().Stream(offsetStream)
	multihit := o.Rotation.MultihitLead + src.Delay()
	smoke := src.Delay()
	return Offsets{Lacerate: 0, Multihit: multihit, Smoke: smoke, Bloom: 0}
}

// Generate runs every generator over [0, horizon) and returns the frozen ledger.
func (o *Orchestrator) Generate(horizon int) (*Result, error) {
	if err := model.CheckHorizon(horizon); err != nil {
		return nil, err
	}
	if err := o.Rotation.Validate(); err != nil {
		return nil, err
	}
	return o.GenerateFrom(o.Plan(), horizon)
}

// GenerateFrom runs the generators from explicit offsets.
func (o *Orchestrator) GenerateFrom(offsets Offsets, horizon int) (*Result, error) {
	if err := model.CheckHorizon(horizon); err != nil {
		return nil, err
	}
	gens := o.Rotation.Generators()
	starts := offsets.slice()
	if len(starts) != len(gens) {
		return nil, fmt.Errorf("have %d offsets for %d generators", len(starts), len(gens))
	}

	rec := NewRecorder()
	counts := make([]int, len(gens))
	provider := o.provider()

	if o.Sequential {
		for i, g := range gens {
			counts[i] = g.Emit(starts[i], horizon, rec, provider.Stream(i+1))
		}
	} else {
		var eg errgroup.Group
		for i, g := range gens {
			i, g := i, g
			src := provider.Stream(i + 1)
			eg.Go(func() error {
				counts[i] = g.Emit(starts[i], horizon, rec, src)
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, fmt.Errorf("generate timeline: %w", err)
		}
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	return &Result{
		Ledger:  rec.Freeze(horizon),
		Offsets: offsets,
		Events:  total,
	}, nil
}

func (o *Orchestrator) provider() jitter.Provider {
	if o.Jitter == nil {
		return jitter.Perfect{}
	}
	return o.Jitter
}
