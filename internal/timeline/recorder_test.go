package timeline

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mana-backtest/internal/model"
)

func TestRecorderConcurrentAppendsAreNotLost(t *testing.T) {
	rec := NewRecorder()
	const producers = 8
	const perProducer = 500

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				rec.Record(i%10, model.LabelBloom)
			}
		}()
	}
	wg.Wait()

	l := rec.Freeze(10)
	require.Equal(t, 10, l.Len())
	for tick := 0; tick < 10; tick++ {
		assert.Equal(t, producers*perProducer/10, l.Count(tick))
	}
}

func TestRecorderFreezeFillsGapsAndClips(t *testing.T) {
	rec := NewRecorder()
	rec.Record(2, model.LabelSmoke)
	rec.Record(7, model.LabelSmoke)

	l := rec.Freeze(5)
	require.NoError(t, l.Validate(5))
	assert.Equal(t, 5, l.Len())
	assert.True(t, l.Contains(2, model.LabelSmoke))
	_, ok := l.At(7)
	assert.False(t, ok)
}

func TestRecorderRejectsRecordAfterFreeze(t *testing.T) {
	rec := NewRecorder()
	rec.Freeze(1)
	assert.Panics(t, func() { rec.Record(0, model.LabelLacerate) })
}

func TestRecorderKeepsArrivalOrder(t *testing.T) {
	rec := NewRecorder()
	rec.Record(0, model.LabelSmoke)
	rec.Record(0, model.LabelLacerate)
	rec.Record(0, model.LabelSmoke)

	got, ok := rec.Freeze(1).At(0)
	require.True(t, ok)
	assert.Equal(t, []model.Label{model.LabelSmoke, model.LabelLacerate, model.LabelSmoke}, got)
}
