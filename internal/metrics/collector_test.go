package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordTiming(t *testing.T) {
	c := NewCollector()

	c.RecordTiming(OpDBQuery, 10*time.Millisecond)
	c.RecordTiming(OpDBQuery, 30*time.Millisecond)

	snap := c.Snapshot()
	op, ok := snap.Operations[OpDBQuery]
	require.True(t, ok)
	assert.Equal(t, int64(2), op.Count)
	assert.Equal(t, int64(0), op.Failures)
	assert.Equal(t, int64(40), op.TotalTimeMs)
	assert.Equal(t, 20.0, op.AvgTimeMs)
	assert.Equal(t, int64(10), op.MinTimeMs)
	assert.Equal(t, int64(30), op.MaxTimeMs)
}

func TestRecordFailure(t *testing.T) {
	c := NewCollector()

	c.RecordFailure(OpLLMInfer, 5*time.Millisecond)

	snap := c.Snapshot()
	op := snap.Operations[OpLLMInfer]
	assert.Equal(t, int64(1), op.Count)
	assert.Equal(t, int64(1), op.Failures)
}

func TestSnapshotUptime(t *testing.T) {
	c := NewCollector()
	assert.GreaterOrEqual(t, c.Snapshot().UptimeSeconds, 0.0)
}

func TestCollectorConcurrentAccess(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.RecordTiming(OpAgentTurn, time.Millisecond)
				c.Snapshot()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1000), c.Snapshot().Operations[OpAgentTurn].Count)
}
