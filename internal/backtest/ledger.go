package backtest

import (
	"github.com/shopspring/decimal"

	"mana-backtest/internal/model"
	"mana-backtest/internal/timeline"
)

// LedgerRow is one row of per-tick output.
// This is the primary artifact for "what happened" in a run.
type LedgerRow struct {
	Tick int

	Events []model.Label

	Legacy  decimal.Decimal
	Revised decimal.Decimal

	CumLegacy  decimal.Decimal
	CumRevised decimal.Decimal
}

type Result struct {
	Horizon int
	Seed    int64
	Perfect bool

	Ledger  model.Ledger
	Offsets timeline.Offsets
	Events  int

	LegacyModel  string
	RevisedModel string
	Legacy       model.Sequence
	Revised      model.Sequence

	Rows []LedgerRow

	TotalLegacy  decimal.Decimal
	TotalRevised decimal.Decimal
}

// Delta is revised minus legacy over the whole run.
func (r *Result) Delta() decimal.Decimal {
	return r.TotalRevised.Sub(r.TotalLegacy)
}
