package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_SequentialSpacing(t *testing.T) {
	l := New(50 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, l.Wait(ctx))
	start := time.Now()
	require.NoError(t, l.Wait(ctx))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond,
		"second Wait must complete at least minDelay after the first")
}

// Bajo concurrencia el check-and-reserve atómico impide que dos callers
// observen el mismo slot y sub-throttleen.
func TestLimiter_ConcurrentCallersAreSpaced(t *testing.T) {
	const callers = 5
	const delay = 30 * time.Millisecond

	l := New(delay)
	ctx := context.Background()

	var mu sync.Mutex
	var completions []time.Time

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, l.Wait(ctx))
			mu.Lock()
			completions = append(completions, time.Now())
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, completions, callers)
	sortTimes(completions)
	for i := 1; i < len(completions); i++ {
		gap := completions[i].Sub(completions[i-1])
		// Margen pequeño por scheduling del runtime.
		assert.GreaterOrEqual(t, gap, delay-5*time.Millisecond,
			"callers %d and %d under-throttled", i-1, i)
	}
}

func TestLimiter_CancelledContext(t *testing.T) {
	l := New(time.Second)
	require.NoError(t, l.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := l.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLimiter_FirstCallDoesNotBlock(t *testing.T) {
	l := New(time.Second)
	start := time.Now()
	require.NoError(t, l.Wait(context.Background()))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func sortTimes(ts []time.Time) {
	for i := 1; i < len(ts); i++ {
		for j := i; j > 0 && ts[j].Before(ts[j-1]); j-- {
			ts[j], ts[j-1] = ts[j-1], ts[j]
		}
	}
}
