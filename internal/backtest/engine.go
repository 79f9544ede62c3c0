package backtest

import (
	"fmt"

	"mana-backtest/internal/ability"
	"mana-backtest/internal/accrual"
	"mana-backtest/internal/jitter"
	"mana-backtest/internal/model"
	"mana-backtest/internal/timeline"
)

// Params describes one run: how to generate the ledger and which two models
// to compare over it.
type Params struct {
	Horizon    int
	Rotation   ability.Rotation
	Jitter     jitter.Provider
	Seed       int64 // reported only; Jitter carries the randomness
	Sequential bool

	Legacy  accrual.Model
	Revised accrual.Model
}

type Engine struct{}

func New() *Engine { return &Engine{} }

// Run generates a ledger and accrues both models over it.
func (e *Engine) Run(p Params) (*Result, error) {
	orc := timeline.New(p.Rotation, p.Jitter)
	orc.Sequential = p.Sequential

	gen, err := orc.Generate(p.Horizon)
	if err != nil {
		return nil, fmt.Errorf("generate timeline: %w", err)
	}

	res, err := e.Accrue(gen.Ledger, p.Horizon, p.Legacy, p.Revised)
	if err != nil {
		return nil, err
	}
	res.Offsets = gen.Offsets
	res.Events = gen.Events
	res.Seed = p.Seed
	switch p.Jitter.(type) {
	case nil, jitter.Perfect:
		res.Perfect = true
	}
	return res, nil
}

// Accrue runs both models over an existing ledger.
func (e *Engine) Accrue(ledger model.Ledger, horizon int, legacy, revised accrual.Model) (*Result, error) {
	if legacy == nil {
		legacy = accrual.NewLegacy()
	}
	if revised == nil {
		revised = accrual.NewRevised()
	}

	legacySeq, err := legacy.Accrue(ledger, horizon)
	if err != nil {
		return nil, fmt.Errorf("%s accrual: %w", legacy.Name(), err)
	}
	revisedSeq, err := revised.Accrue(ledger, horizon)
	if err != nil {
		return nil, fmt.Errorf("%s accrual: %w", revised.Name(), err)
	}

	cumLegacy := legacySeq.Cumulative()
	cumRevised := revisedSeq.Cumulative()

	rows := make([]LedgerRow, 0, horizon)
	for t := 0; t < horizon; t++ {
		events, _ := ledger.At(t)
		rows = append(rows, LedgerRow{
			Tick:   t,
			Events: events,

			Legacy:  legacySeq[t],
			Revised: revisedSeq[t],

			CumLegacy:  cumLegacy[t],
			CumRevised: cumRevised[t],
		})
	}

	return &Result{
		Horizon: horizon,

		Ledger: ledger,
		Events: ledger.Total(),

		LegacyModel:  legacy.Name(),
		RevisedModel: revised.Name(),
		Legacy:       legacySeq,
		Revised:      revisedSeq,

		Rows: rows,

		TotalLegacy:  legacySeq.Sum(),
		TotalRevised: revisedSeq.Sum(),
	}, nil
}
