package ingestworker

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	coreconfig "github.com/AzielCF/az-study/core/config"
)

var (
	globalPool     *IngestWorkerPool
	globalPoolOnce sync.Once
	globalCancel   context.CancelFunc
)

// GetGlobalPool returns the singleton ingest worker pool
func GetGlobalPool() *IngestWorkerPool {
	globalPoolOnce.Do(func() {
		var ctx context.Context
		ctx, globalCancel = context.WithCancel(context.Background())

		size := coreconfig.Global.WorkerPool.Size
		if size <= 0 {
			size = 6
		}
		queue := coreconfig.Global.WorkerPool.QueueSize
		if queue <= 0 {
			queue = 250
		}

		globalPool = NewIngestWorkerPool(size, queue)
		globalPool.Start(ctx)
		logrus.Infof("[INGEST_POOL] Global instance started with %d workers and queue size %d", size, queue)
	})
	return globalPool
}

// StopGlobalPool stops the singleton pool
func StopGlobalPool() {
	if globalCancel != nil {
		globalCancel()
	}
	if globalPool != nil {
		globalPool.Stop()
	}
}
