package ingestworker

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test 1: Dispatch no debe bloquear al caller aunque el job tarde
func TestPool_DispatchNonBlocking(t *testing.T) {
	pool := NewIngestWorkerPool(2, 10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool.Start(ctx)
	defer pool.Stop()

	start := time.Now()
	pool.Dispatch(IngestJob{
		SessionID: "sess-1",
		FileID:    "f1",
		Handler: func(ctx context.Context) error {
			time.Sleep(100 * time.Millisecond)
			return nil
		},
	})
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 10*time.Millisecond, "Dispatch debe ser no bloqueante")
}

// Test 2: Jobs de la misma sesión se procesan secuencialmente y en orden
func TestPool_SameSessionSequentialProcessing(t *testing.T) {
	pool := NewIngestWorkerPool(4, 100)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool.Start(ctx)
	defer pool.Stop()

	var results []int
	var mu sync.Mutex

	for i := 1; i <= 5; i++ {
		val := i
		pool.Dispatch(IngestJob{
			SessionID: "sess-ordered",
			FileID:    fmt.Sprintf("f%d", val),
			Handler: func(ctx context.Context) error {
				time.Sleep(10 * time.Millisecond)
				mu.Lock()
				results = append(results, val)
				mu.Unlock()
				return nil
			},
		})
	}

	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []int{1, 2, 3, 4, 5}, results, "jobs de la misma sesión deben procesarse en orden")
}

// Test 3: Backpressure cuando la cola del worker está llena
func TestPool_TryDispatchBackpressure(t *testing.T) {
	pool := NewIngestWorkerPool(1, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool.Start(ctx)
	defer pool.Stop()

	block := make(chan struct{})
	slow := func(ctx context.Context) error {
		<-block
		return nil
	}

	// Primer job ocupa al worker, segundo llena la cola.
	require.True(t, pool.TryDispatch(IngestJob{SessionID: "s", FileID: "a", Handler: slow}))
	time.Sleep(20 * time.Millisecond)
	require.True(t, pool.TryDispatch(IngestJob{SessionID: "s", FileID: "b", Handler: slow}))

	accepted := pool.TryDispatch(IngestJob{SessionID: "s", FileID: "c", Handler: slow})
	assert.False(t, accepted, "la cola llena debe rechazar el job")

	close(block)
	time.Sleep(50 * time.Millisecond)

	stats := pool.GetStats()
	assert.Equal(t, int64(1), stats.TotalDropped)
}

// Test 4: Un panic en un handler no tumba al worker
func TestPool_PanicRecovery(t *testing.T) {
	pool := NewIngestWorkerPool(1, 10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool.Start(ctx)
	defer pool.Stop()

	pool.Dispatch(IngestJob{
		SessionID: "sess-panic",
		FileID:    "bad",
		Handler: func(ctx context.Context) error {
			panic("boom")
		},
	})

	done := make(chan struct{})
	pool.Dispatch(IngestJob{
		SessionID: "sess-panic",
		FileID:    "good",
		Handler: func(ctx context.Context) error {
			close(done)
			return nil
		},
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker no se recuperó del panic")
	}

	stats := pool.GetStats()
	assert.Equal(t, int64(1), stats.TotalErrors)
}

// Test 5: TryDispatch tras Stop no encola ni entra en panic
func TestPool_DispatchAfterStop(t *testing.T) {
	pool := NewIngestWorkerPool(2, 10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool.Start(ctx)
	pool.Stop()

	accepted := pool.TryDispatch(IngestJob{
		SessionID: "sess-late",
		FileID:    "f1",
		Handler:   func(ctx context.Context) error { return nil },
	})
	assert.False(t, accepted)
}
