package accrual

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mana-backtest/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

// ledgerFromCounts builds a gap-free ledger; tick t gets counts[t] events
// cycling through lacerate, multihit, smoke, bloom.
func ledgerFromCounts(counts []int) model.Ledger {
	labels := model.Labels()
	entries := make(map[int][]model.Label, len(counts))
	for t, n := range counts {
		entries[t] = []model.Label{}
		for i := 0; i < n; i++ {
			entries[t] = append(entries[t], labels[i%len(labels)])
		}
	}
	return model.NewLedger(entries)
}

func TestLegacyBonusOnce(t *testing.T) {
	l := model.NewLedger(map[int][]model.Label{
		0: {model.LabelLacerate, model.LabelMultihit, model.LabelSmoke},
		1: {},
		2: {model.LabelSmoke, model.LabelSmoke},
		3: {model.LabelBloom},
	})
	seq, err := NewLegacy().Accrue(l, 4)
	require.NoError(t, err)
	require.Len(t, seq, 4)

	assertDec(t, "3.0", seq[0])
	assertDec(t, "0", seq[1])
	assertDec(t, "2.4", seq[2]) // 0.6*2 + one bonus
	assertDec(t, "0.6", seq[3])
}

func TestRevisedIgnoresEventCount(t *testing.T) {
	l := ledgerFromCounts([]int{0, 1, 2, 7})
	seq, err := NewRevised().Accrue(l, 4)
	require.NoError(t, err)

	assertDec(t, "0", seq[0])
	for tick := 1; tick < 4; tick++ {
		assertDec(t, "1.2", seq[tick])
	}
}

func TestModelsRejectGaps(t *testing.T) {
	l := model.NewLedger(map[int][]model.Label{0: {}, 2: {}})
	for _, m := range []Model{NewLegacy(), NewRevised()} {
		_, err := m.Accrue(l, 3)
		var gap *model.InvalidLedgerError
		require.True(t, errors.As(err, &gap), m.Name())
		assert.Equal(t, 1, gap.Tick)

		_, err = m.Accrue(l, 0)
		var cfgErr *model.InvalidConfigError
		assert.True(t, errors.As(err, &cfgErr), m.Name())
	}
}

func TestModelsCoverHorizonOnly(t *testing.T) {
	l := ledgerFromCounts([]int{1, 1, 1, 1, 1})
	seq, err := NewRevised().Accrue(l, 3)
	require.NoError(t, err)
	assert.Len(t, seq, 3)
}

func TestModelsRoundToTwoPlaces(t *testing.T) {
	m := Legacy{PerHit: dec("0.333"), Bonus: dec("0.005"), BonusLabel: model.LabelSmoke}
	seq, err := m.Accrue(ledgerFromCounts([]int{3}), 1)
	require.NoError(t, err)
	// 0.999 + 0.005 = 1.004
	assertDec(t, "1.00", seq[0])
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"legacy", "revised"}, Names())
	for _, name := range Names() {
		m, err := New(name)
		require.NoError(t, err)
		assert.Equal(t, name, m.Name())
	}
	_, err := New("tripled")
	assert.Error(t, err)
}

func TestAccrualProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	counts := gen.SliceOf(gen.IntRange(0, 6))

	properties.Property("revised sum equals 1.2 per active tick", prop.ForAll(
		func(c []int) bool {
			if len(c) == 0 {
				return true
			}
			l := ledgerFromCounts(c)
			seq, err := NewRevised().Accrue(l, len(c))
			if err != nil {
				return false
			}
			active := 0
			for _, n := range c {
				if n > 0 {
					active++
				}
			}
			return seq.Sum().Equal(dec("1.2").Mul(decimal.NewFromInt(int64(active))))
		},
		counts,
	))

	properties.Property("models are idempotent", prop.ForAll(
		func(c []int) bool {
			if len(c) == 0 {
				return true
			}
			l := ledgerFromCounts(c)
			for _, m := range []Model{NewLegacy(), NewRevised()} {
				a, errA := m.Accrue(l, len(c))
				b, errB := m.Accrue(l, len(c))
				if errA != nil || errB != nil || len(a) != len(b) {
					return false
				}
				for i := range a {
					if !a[i].Equal(b[i]) {
						return false
					}
				}
			}
			return true
		},
		counts,
	))

	properties.Property("legacy gain is 0.6 per event plus one bonus with smoke", prop.ForAll(
		func(c []int) bool {
			if len(c) == 0 {
				return true
			}
			l := ledgerFromCounts(c)
			seq, err := NewLegacy().Accrue(l, len(c))
			if err != nil {
				return false
			}
			for tick, n := range c {
				want := dec("0.6").Mul(decimal.NewFromInt(int64(n)))
				if n >= 3 {
					want = want.Add(dec("1.2"))
				}
				if !seq[tick].Equal(want) {
					return false
				}
			}
			return true
		},
		counts,
	))

	properties.TestingRun(t)
}
