package analysis

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mana-backtest/internal/ability"
	"mana-backtest/internal/backtest"
	"mana-backtest/internal/jitter"
	"mana-backtest/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func smallResult(t *testing.T) *backtest.Result {
	t.Helper()
	ledger := model.NewLedger(map[int][]model.Label{
		0: {model.LabelLacerate, model.LabelSmoke},
		1: {},
		2: {model.LabelLacerate},
		3: {model.LabelMultihit, model.LabelBloom, model.LabelLacerate},
	})
	res, err := backtest.New().Accrue(ledger, 4, nil, nil)
	require.NoError(t, err)
	return res
}

func TestCompareSmallLedger(t *testing.T) {
	c := Compare(smallResult(t))

	assert.Equal(t, 4, c.Horizon)
	assert.Equal(t, 6, c.Events)
	assert.Equal(t, 3, c.ActiveTicks)
	assert.Equal(t, map[model.Label]int{
		model.LabelLacerate: 3,
		model.LabelMultihit: 1,
		model.LabelSmoke:    1,
		model.LabelBloom:    1,
	}, c.LabelCounts)

	assert.Equal(t, "legacy", c.Legacy.Name)
	assertDec(t, "4.8", c.Legacy.Total)
	assertDec(t, "1.2", c.Legacy.Mean)
	assertDec(t, "1.6", c.Legacy.MeanActive)
	assertDec(t, "2.4", c.Legacy.Max)
	assertDec(t, "2.31", c.Legacy.P95)
	assert.Equal(t, 3, c.Legacy.ActiveTicks)

	assert.Equal(t, "revised", c.Revised.Name)
	assertDec(t, "3.6", c.Revised.Total)
	assertDec(t, "0.9", c.Revised.Mean)
	assertDec(t, "1.2", c.Revised.MeanActive)
	assertDec(t, "1.2", c.Revised.P95)

	assertDec(t, "-1.2", c.Delta)
}

func TestComparePerfectRun(t *testing.T) {
	res, err := backtest.New().Run(backtest.Params{
		Horizon:  60,
		Rotation: ability.DefaultRotation(),
		Jitter:   jitter.Perfect{},
	})
	require.NoError(t, err)

	c := Compare(res)
	assert.True(t, c.Perfect)
	assert.Equal(t, 74, c.Events)
	assertDec(t, "51.6", c.Legacy.Total)
	assertDec(t, "37.2", c.Revised.Total)
	assertDec(t, "-14.4", c.Delta)
	assert.Equal(t, 6, c.LabelCounts[model.LabelSmoke])
	assert.Equal(t, c.ActiveTicks, c.Revised.ActiveTicks)
}

func TestCompareNil(t *testing.T) {
	c := Compare(nil)
	assert.Zero(t, c.Events)
	assert.NotNil(t, c.LabelCounts)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize("x", nil)
	assert.Equal(t, "x", s.Name)
	assert.True(t, s.Total.IsZero())
}

func TestPercentileSorted(t *testing.T) {
	vals := []decimal.Decimal{dec("0"), dec("1"), dec("2"), dec("3"), dec("4")}
	assertDec(t, "0", percentileSorted(vals, dec("0")))
	assertDec(t, "4", percentileSorted(vals, dec("1")))
	assertDec(t, "2", percentileSorted(vals, dec("0.5")))
	assertDec(t, "3.8", percentileSorted(vals, dec("0.95")))
	assertDec(t, "0", percentileSorted(nil, dec("0.5")))
}

func withRevised(total string) *backtest.Result {
	return &backtest.Result{Revised: model.Sequence{dec(total)}, Legacy: model.Sequence{decimal.Zero}}
}

func TestRankVariations(t *testing.T) {
	ranked := RankVariations([]Variation{
		{Name: "seed-3", Result: withRevised("10")},
		{Name: "seed-1", Result: withRevised("12")},
		{Name: "seed-2", Result: withRevised("10")},
	})

	require.Len(t, ranked, 3)
	assert.Equal(t, "seed-1", ranked[0].Name)
	assert.Equal(t, "seed-2", ranked[1].Name)
	assert.Equal(t, "seed-3", ranked[2].Name)
	for i, r := range ranked {
		assert.Equal(t, i+1, r.Rank)
	}
	assertDec(t, "10", ranked[2].Comparison.Delta)
}

func TestRankVariationsEmpty(t *testing.T) {
	assert.Empty(t, RankVariations(nil))
}
