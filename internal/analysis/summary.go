package analysis

import (
	"sort"

	"github.com/shopspring/decimal"

	"mana-backtest/internal/backtest"
	"mana-backtest/internal/model"
	"mana-backtest/internal/timeline"
)

// meanPlaces is the precision of per-tick averages.
const meanPlaces = 4

// ModelSummary is a per-model view of one accrual sequence you can use for ranking.
type ModelSummary struct {
	Name string `json:"name"`

	Total decimal.Decimal `json:"total"`
	// Mean is per tick over the whole horizon; MeanActive only over ticks
	// where the model paid something.
	Mean       decimal.Decimal `json:"mean"`
	MeanActive decimal.Decimal `json:"mean_active"`
	Max        decimal.Decimal `json:"max"`
	P95        decimal.Decimal `json:"p95"`

	ActiveTicks int `json:"active_ticks"`
}

// Comparison sets the two models side by side for one run.
type Comparison struct {
	Horizon int              `json:"horizon"`
	Seed    int64            `json:"seed"`
	Perfect bool             `json:"perfect"`
	Offsets timeline.Offsets `json:"offsets"`
	Events  int              `json:"events"`

	Legacy  ModelSummary `json:"legacy"`
	Revised ModelSummary `json:"revised"`

	// Delta is revised minus legacy.
	Delta decimal.Decimal `json:"delta"`

	// ActiveTicks counts ticks with at least one event.
	ActiveTicks int                 `json:"active_ticks"`
	LabelCounts map[model.Label]int `json:"label_counts"`
}

func Compare(res *backtest.Result) Comparison {
	c := Comparison{LabelCounts: map[model.Label]int{}}
	if res == nil {
		return c
	}
	c.Horizon = res.Horizon
	c.Seed = res.Seed
	c.Perfect = res.Perfect
	c.Offsets = res.Offsets
	c.Events = res.Ledger.Total()

	c.Legacy = Summarize(res.LegacyModel, res.Legacy)
	c.Revised = Summarize(res.RevisedModel, res.Revised)
	c.Delta = c.Revised.Total.Sub(c.Legacy.Total)

	for _, l := range model.Labels() {
		c.LabelCounts[l] = len(res.Ledger.Occurrences(l))
	}
	for _, t := range res.Ledger.Ticks() {
		if res.Ledger.Count(t) > 0 {
			c.ActiveTicks++
		}
	}
	return c
}

// Summarize computes the stats of a single sequence.
func Summarize(name string, seq model.Sequence) ModelSummary {
	s := ModelSummary{Name: name}
	if len(seq) == 0 {
		return s
	}
	s.Total = seq.Sum()
	s.Max = seq.Max()
	s.ActiveTicks = seq.ActiveTicks()
	s.Mean = s.Total.DivRound(decimal.NewFromInt(int64(len(seq))), meanPlaces)
	if s.ActiveTicks > 0 {
		s.MeanActive = s.Total.DivRound(decimal.NewFromInt(int64(s.ActiveTicks)), meanPlaces)
	}

	vals := make([]decimal.Decimal, len(seq))
	copy(vals, seq)
	sort.Slice(vals, func(i, j int) bool { return vals[i].LessThan(vals[j]) })
	s.P95 = percentileSorted(vals, decimal.RequireFromString("0.95")).Round(2)
	return s
}

func percentileSorted(sorted []decimal.Decimal, q decimal.Decimal) decimal.Decimal {
	if len(sorted) == 0 {
		return decimal.Zero
	}
	if !q.IsPositive() {
		return sorted[0]
	}
	if q.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q.Mul(decimal.NewFromInt(int64(len(sorted) - 1)))
	lo := int(pos.Floor().IntPart())
	hi := int(pos.Ceil().IntPart())
	if lo == hi {
		return sorted[lo]
	}
	frac := pos.Sub(pos.Floor())
	return sorted[lo].Mul(decimal.NewFromInt(1).Sub(frac)).Add(sorted[hi].Mul(frac))
}
