package accrual

import (
	"github.com/shopspring/decimal"

	"mana-backtest/internal/model"
)

const LegacyName = "legacy"

// Legacy pays PerHit for every event at a tick, plus a flat Bonus once when
// BonusLabel is present. Several BonusLabel events at one tick still earn a
// single bonus.
type Legacy struct {
	PerHit     decimal.Decimal
	Bonus      decimal.Decimal
	BonusLabel model.Label
}

func NewLegacy() Legacy {
	return Legacy{
		PerHit:     decimal.RequireFromString("0.6"),
		Bonus:      decimal.RequireFromString("1.2"),
		BonusLabel: model.LabelSmoke,
	}
}

func (Legacy) Name() string { return LegacyName }

func (m Legacy) Accrue(ledger model.Ledger, horizon int) (model.Sequence, error) {
	return accrue(ledger, horizon, func(t int) decimal.Decimal {
		gain := m.PerHit.Mul(decimal.NewFromInt(int64(ledger.Count(t))))
		if ledger.Contains(t, m.BonusLabel) {
			gain = gain.Add(m.Bonus)
		}
		return gain
	})
}
