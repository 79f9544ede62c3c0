package accrual

import (
	"github.com/shopspring/decimal"

	"mana-backtest/internal/model"
)

const RevisedName = "revised"

// Revised pays PerTick at any tick with at least one event, regardless of
// how many events landed there.
type Revised struct {
	PerTick decimal.Decimal
}

func NewRevised() Revised {
	return Revised{PerTick: decimal.RequireFromString("1.2")}
}

func (Revised) Name() string { return RevisedName }

func (m Revised) Accrue(ledger model.Ledger, horizon int) (model.Sequence, error) {
	return accrue(ledger, horizon, func(t int) decimal.Decimal {
		if ledger.Count(t) > 0 {
			return m.PerTick
		}
		return decimal.Zero
	})
}
