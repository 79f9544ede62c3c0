// Package accrual maps a frozen ledger to a per-tick resource sequence.
package accrual

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"mana-backtest/internal/model"
)

// Places is the rounding precision of every per-tick gain.
const Places = 2

// Model is a pure rule from ledger to per-tick gain. Implementations must not
// keep state between calls.
type Model interface {
	Name() string
	Accrue(ledger model.Ledger, horizon int) (model.Sequence, error)
}

// accrue validates the ledger and applies gain to every tick in [0, horizon).
func accrue(ledger model.Ledger, horizon int, gain func(t int) decimal.Decimal) (model.Sequence, error) {
	if err := ledger.Validate(horizon); err != nil {
		return nil, err
	}
	out := make(model.Sequence, horizon)
	for t := 0; t < horizon; t++ {
		out[t] = gain(t).Round(Places)
	}
	return out, nil
}

var registry = map[string]func() Model{
	LegacyName:  func() Model { return NewLegacy() },
	RevisedName: func() Model { return NewRevised() },
}

// New returns the model registered under name with its default rates.
func New(name string) (Model, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown accrual model %q", name)
	}
	return f(), nil
}

// Names lists registered model names, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
