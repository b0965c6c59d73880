package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_ResultsInSubmissionOrder(t *testing.T) {
	items := []int{10, 20, 30, 40, 50}

	results := Map(t.Context(), 4, items, func(_ context.Context, _ int, item int) (int, error) {
		// Later items finish first to expose ordering bugs.
		time.Sleep(time.Duration(60-item) * time.Millisecond)
		return item * 2, nil
	})

	require.Len(t, results, 5)
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.NoError(t, r.Err)
		assert.Equal(t, items[i]*2, r.Value)
	}
}

func TestMap_BoundedConcurrency(t *testing.T) {
	const workers = 3
	var active, peak atomic.Int32

	items := make([]int, 12)
	Map(t.Context(), workers, items, func(_ context.Context, _ int, _ int) (struct{}, error) {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		active.Add(-1)
		return struct{}{}, nil
	})

	assert.LessOrEqual(t, peak.Load(), int32(workers))
	assert.Positive(t, peak.Load())
}

func TestMap_FailureIsolation(t *testing.T) {
	boom := errors.New("boom")

	results := Map(t.Context(), 2, []int{1, 2, 3, 4}, func(_ context.Context, _ int, item int) (int, error) {
		if item == 2 {
			return 0, boom
		}
		return item, nil
	})

	require.Len(t, results, 4)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, boom)
	assert.NoError(t, results[2].Err)
	assert.NoError(t, results[3].Err)

	assert.Equal(t, []int{1, 3, 4}, Successes(results))
	assert.ErrorIs(t, FirstError(results), boom)
	assert.False(t, AllFailed(results))
}

func TestMap_DefaultWorkers(t *testing.T) {
	var mu sync.Mutex
	seen := map[int]bool{}

	results := Map(t.Context(), 0, []int{1, 2, 3}, func(_ context.Context, i int, _ int) (int, error) {
		mu.Lock()
		seen[i] = true
		mu.Unlock()
		return i, nil
	})

	require.Len(t, results, 3)
	assert.Len(t, seen, 3)
}

func TestMap_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	results := Map(ctx, 2, []int{1, 2, 3}, func(_ context.Context, _ int, item int) (int, error) {
		return item, nil
	})

	require.Len(t, results, 3)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
	assert.True(t, AllFailed(results))
}

func TestMap_EmptyItems(t *testing.T) {
	results := Map(t.Context(), 4, nil, func(_ context.Context, _ int, item int) (int, error) {
		return item, nil
	})

	assert.Empty(t, results)
	assert.NoError(t, FirstError(results))
	assert.False(t, AllFailed(results))
}

func TestFirstError_WrapsIndex(t *testing.T) {
	results := []Result[string]{
		{Index: 0},
		{Index: 1, Err: fmt.Errorf("model unavailable")},
		{Index: 2, Err: fmt.Errorf("timeout")},
	}

	err := FirstError(results)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item 1")
}
