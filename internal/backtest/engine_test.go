package backtest

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mana-backtest/internal/ability"
	"mana-backtest/internal/accrual"
	"mana-backtest/internal/config"
	"mana-backtest/internal/jitter"
	"mana-backtest/internal/model"
)

func perfectParams(horizon int) Params {
	return Params{
		Horizon:  horizon,
		Rotation: ability.DefaultRotation(),
		Jitter:   jitter.Perfect{},
		Legacy:   accrual.NewLegacy(),
		Revised:  accrual.NewRevised(),
	}
}

func TestRunPerfectSixtyTicks(t *testing.T) {
	res, err := New().Run(perfectParams(60))
	require.NoError(t, err)

	assert.True(t, res.Perfect)
	assert.Equal(t, 60, res.Horizon)
	assert.Equal(t, 74, res.Events)
	require.Len(t, res.Rows, 60)
	require.Len(t, res.Legacy, 60)
	require.Len(t, res.Revised, 60)

	// 74 events * 0.6 + 6 smoke ticks * 1.2
	assert.True(t, decimal.RequireFromString("51.6").Equal(res.TotalLegacy), res.TotalLegacy.String())
	// 30 even ticks + the bloom backfill at 49
	assert.True(t, decimal.RequireFromString("37.2").Equal(res.TotalRevised), res.TotalRevised.String())
	assert.True(t, decimal.RequireFromString("-14.4").Equal(res.Delta()))

	last := res.Rows[59]
	assert.True(t, last.CumLegacy.Equal(res.TotalLegacy))
	assert.True(t, last.CumRevised.Equal(res.TotalRevised))

	first := res.Rows[0]
	assert.ElementsMatch(t, []model.Label{model.LabelLacerate, model.LabelSmoke, model.LabelBloom}, first.Events)
	assert.True(t, decimal.RequireFromString("3.0").Equal(first.Legacy))
	assert.True(t, decimal.RequireFromString("1.2").Equal(first.Revised))
}

func TestRunInvariantsWithJitter(t *testing.T) {
	p := perfectParams(600)
	p.Jitter = jitter.Seeded{Seed: 5}
	p.Seed = 5

	res, err := New().Run(p)
	require.NoError(t, err)
	assert.False(t, res.Perfect)
	assert.Equal(t, int64(5), res.Seed)

	smokeTicks := 0
	for _, tick := range res.Ledger.Ticks() {
		if res.Ledger.Contains(tick, model.LabelSmoke) {
			smokeTicks++
		}
	}
	wantLegacy := decimal.RequireFromString("0.6").Mul(decimal.NewFromInt(int64(res.Events))).
		Add(decimal.RequireFromString("1.2").Mul(decimal.NewFromInt(int64(smokeTicks))))
	assert.True(t, wantLegacy.Equal(res.TotalLegacy))

	wantRevised := decimal.RequireFromString("1.2").Mul(decimal.NewFromInt(int64(res.Revised.ActiveTicks())))
	assert.True(t, wantRevised.Equal(res.TotalRevised))
}

func TestRunRejectsBadHorizon(t *testing.T) {
	_, err := New().Run(perfectParams(0))
	var cfgErr *model.InvalidConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestAccrueRejectsLedgerWithGap(t *testing.T) {
	l := model.NewLedger(map[int][]model.Label{0: {model.LabelSmoke}, 2: {}})
	_, err := New().Accrue(l, 3, nil, nil)
	var gap *model.InvalidLedgerError
	require.True(t, errors.As(err, &gap))
	assert.Equal(t, 1, gap.Tick)
}

func TestWriteLedgerCSV(t *testing.T) {
	res, err := New().Run(perfectParams(3))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "ledger.csv")
	require.NoError(t, WriteLedgerCSV(path, res.Rows))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 4)
	assert.Equal(t, []string{"tick", "events", "legacy", "revised", "cum_legacy", "cum_revised"}, records[0])
	assert.Equal(t, "0", records[1][0])
	assert.Equal(t, "3.00", records[1][2])
	assert.Equal(t, "1.20", records[1][3])
	assert.Equal(t, []string{"1", "", "0.00", "0.00", "3.00", "1.20"}, records[2])
	assert.Equal(t, "2", records[3][0])
	assert.Equal(t, "lacerate", records[3][1])
	assert.Equal(t, "3.60", records[3][4])
}

func TestFromConfigRunsReproducibly(t *testing.T) {
	seed := int64(99)
	cfg := config.Default()
	cfg.Horizon = 120
	cfg.Seed = &seed

	p, err := FromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, int64(99), p.Seed)

	a, err := New().Run(p)
	require.NoError(t, err)
	p.Sequential = true
	b, err := New().Run(p)
	require.NoError(t, err)

	assert.False(t, a.Perfect)
	assert.True(t, a.Ledger.Equivalent(b.Ledger))
	assert.True(t, a.TotalLegacy.Equal(b.TotalLegacy))
}

func TestFromConfigRejectsInvalid(t *testing.T) {
	cfg := config.Default()
	cfg.Horizon = 0

	_, err := FromConfig(cfg)
	var cfgErr *model.InvalidConfigError
	assert.True(t, errors.As(err, &cfgErr))
}
