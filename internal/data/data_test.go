package data

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mana-backtest/internal/backtest"
	"mana-backtest/internal/model"
)

func TestLedgerJSONRoundTripsThroughFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	in := LedgerFile{
		Horizon: 3,
		Ticks: model.NewLedger(map[int][]model.Label{
			0: {model.LabelLacerate, model.LabelSmoke},
			1: {},
			2: {model.LabelLacerate},
		}),
	}
	require.NoError(t, WriteLedgerJSON(path, in))

	out, err := LoadLedgerJSON(path)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Horizon)
	assert.True(t, in.Ticks.Equivalent(out.Ticks))
	assert.NoError(t, out.Ticks.Validate(out.Horizon))
}

func TestLoadLedgerJSONKeepsGapsForAccrualToReject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gap.json")
	require.NoError(t, WriteLedgerJSON(path, LedgerFile{
		Horizon: 3,
		Ticks:   model.NewLedger(map[int][]model.Label{0: {}, 2: {}}),
	}))

	f, err := LoadLedgerJSON(path)
	require.NoError(t, err)

	var ledgerErr *model.InvalidLedgerError
	require.True(t, errors.As(f.Ticks.Validate(f.Horizon), &ledgerErr))
	assert.Equal(t, 1, ledgerErr.Tick)
}

func TestLoadLedgerJSONErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadLedgerJSON(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestResultCachePutGet(t *testing.T) {
	c := NewResultCache(time.Minute)
	defer c.Stop()

	res := &backtest.Result{Horizon: 10}
	id := c.Put(res)
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	got, ok := c.Get(id)
	require.True(t, ok)
	assert.Same(t, res, got)

	_, ok = c.Get(uuid.NewString())
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestResultCacheExpiry(t *testing.T) {
	c := NewResultCache(time.Minute)
	defer c.Stop()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	id := c.Put(&backtest.Result{})
	now = now.Add(2 * time.Minute)

	_, ok := c.Get(id)
	assert.False(t, ok)

	c.evictExpired()
	assert.Equal(t, 0, c.Len())
}

func TestResultCacheConcurrentUse(t *testing.T) {
	c := NewResultCache(time.Minute)
	defer c.Stop()

	var wg sync.WaitGroup
	ids := make(chan string, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- c.Put(&backtest.Result{})
		}()
	}
	wg.Wait()
	close(ids)

	for id := range ids {
		_, ok := c.Get(id)
		assert.True(t, ok)
	}
	c.Stop()
	assert.Equal(t, 0, c.Len())
	c.Stop()
}

func TestNilCacheIsNoop(t *testing.T) {
	var c *ResultCache
	id := c.Put(&backtest.Result{})
	assert.NotEmpty(t, id)
	_, ok := c.Get(id)
	assert.False(t, ok)
	c.Stop()
}
