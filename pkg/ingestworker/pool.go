package ingestworker

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// IngestJob representa el procesamiento en segundo plano de un archivo subido:
// extracción, registro en el contexto de sesión y resumen.
type IngestJob struct {
	SessionID string
	FileID    string
	Handler   func(ctx context.Context) error
}

// PoolStats contiene métricas en tiempo real del worker pool
type PoolStats struct {
	NumWorkers      int            `json:"num_workers"`
	QueueSize       int            `json:"queue_size"`
	ActiveWorkers   int            `json:"active_workers"`
	TotalDispatched int64          `json:"total_dispatched"`
	TotalProcessed  int64          `json:"total_processed"`
	TotalDropped    int64          `json:"total_dropped"`
	TotalErrors     int64          `json:"total_errors"`
	WorkerStats     []WorkerStats  `json:"worker_stats"`
	ActiveSessions  map[string]int `json:"active_sessions"` // sessionID -> worker_id
}

// WorkerStats contiene métricas por worker individual
type WorkerStats struct {
	WorkerID      int   `json:"worker_id"`
	QueueDepth    int   `json:"queue_depth"`
	IsProcessing  bool  `json:"is_processing"`
	JobsProcessed int64 `json:"jobs_processed"`
}

type activeSessionEntry struct {
	workerID  int
	updatedAt time.Time
}

// IngestWorkerPool reparte los jobs entre workers fijos. Todos los jobs de
// una misma sesión caen en el mismo worker, así que dentro de una sesión la
// ingesta es secuencial y entre sesiones corre en paralelo.
type IngestWorkerPool struct {
	numWorkers int
	queueSize  int
	workers    []*worker
	wg         sync.WaitGroup
	stopOnce   sync.Once
	stopped    int32
	stopCh     chan struct{}

	totalDispatched int64
	totalProcessed  int64
	totalDropped    int64
	totalErrors     int64

	activeSessionsMu sync.RWMutex
	activeSessions   map[string]activeSessionEntry
}

type worker struct {
	id            int
	jobQueue      chan IngestJob
	ctx           context.Context
	cancel        context.CancelFunc
	isProcessing  int32
	jobsProcessed int64
	pool          *IngestWorkerPool
}

func NewIngestWorkerPool(numWorkers, queueSize int) *IngestWorkerPool {
	if numWorkers <= 0 {
		numWorkers = 6
	}
	if queueSize <= 0 {
		queueSize = 100
	}

	return &IngestWorkerPool{
		numWorkers:     numWorkers,
		queueSize:      queueSize,
		workers:        make([]*worker, numWorkers),
		activeSessions: make(map[string]activeSessionEntry),
		stopCh:         make(chan struct{}),
	}
}

// Start inicia todos los workers del pool
func (p *IngestWorkerPool) Start(ctx context.Context) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-p.stopCh:
				return
			case <-ticker.C:
				now := time.Now()
				p.activeSessionsMu.Lock()
				for k, v := range p.activeSessions {
					if !v.updatedAt.IsZero() && now.Sub(v.updatedAt) > 2*time.Second {
						delete(p.activeSessions, k)
					}
				}
				p.activeSessionsMu.Unlock()
			}
		}
	}()

	for i := 0; i < p.numWorkers; i++ {
		workerCtx, cancel := context.WithCancel(ctx)
		w := &worker{
			id:       i,
			jobQueue: make(chan IngestJob, p.queueSize),
			ctx:      workerCtx,
			cancel:   cancel,
			pool:     p,
		}
		p.workers[i] = w

		p.wg.Add(1)
		go w.run(&p.wg)
	}

	logrus.Infof("[INGEST_POOL] Started with %d workers, queue size: %d", p.numWorkers, p.queueSize)
}

// TryDispatch encola un job en el worker de su sesión (no bloqueante) y
// retorna si pudo encolarse. Útil para aplicar backpressure en el endpoint
// de subida de archivos.
func (p *IngestWorkerPool) TryDispatch(job IngestJob) bool {
	if atomic.LoadInt32(&p.stopped) == 1 {
		atomic.AddInt64(&p.totalDropped, 1)
		return false
	}

	shard := p.shardForSession(job.SessionID)
	atomic.AddInt64(&p.totalDispatched, 1)

	p.activeSessionsMu.Lock()
	p.activeSessions[job.SessionID] = activeSessionEntry{workerID: shard, updatedAt: time.Now()}
	p.activeSessionsMu.Unlock()

	sent := func() (ok bool) {
		defer func() {
			if r := recover(); r != nil {
				ok = false
			}
		}()
		select {
		case p.workers[shard].jobQueue <- job:
			return true
		default:
			return false
		}
	}()

	if sent {
		return true
	}

	p.activeSessionsMu.Lock()
	delete(p.activeSessions, job.SessionID)
	p.activeSessionsMu.Unlock()

	atomic.AddInt64(&p.totalDropped, 1)
	logrus.Warnf("[INGEST_POOL] Worker %d queue full (or stopped), dropping job for session %s file %s",
		shard, job.SessionID, job.FileID)
	return false
}

// Dispatch encola un job descartándolo silenciosamente si no hay capacidad
func (p *IngestWorkerPool) Dispatch(job IngestJob) {
	_ = p.TryDispatch(job)
}

// Stop detiene el pool de forma graceful
func (p *IngestWorkerPool) Stop() {
	p.stopOnce.Do(func() {
		atomic.StoreInt32(&p.stopped, 1)
		close(p.stopCh)
		logrus.Info("[INGEST_POOL] Stopping workers...")

		for _, w := range p.workers {
			w.cancel()
			close(w.jobQueue)
		}

		p.wg.Wait()

		logrus.Info("[INGEST_POOL] All workers stopped")
	})
}

// shardForSession calcula el worker de una sesión con hash consistente
func (p *IngestWorkerPool) shardForSession(sessionID string) int {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	return int(h.Sum32() % uint32(p.numWorkers))
}

// GetStats retorna estadísticas en tiempo real del pool
func (p *IngestWorkerPool) GetStats() PoolStats {
	workerStats := make([]WorkerStats, len(p.workers))
	activeWorkers := 0

	for i, w := range p.workers {
		isProcessing := atomic.LoadInt32(&w.isProcessing) == 1
		if isProcessing {
			activeWorkers++
		}
		workerStats[i] = WorkerStats{
			WorkerID:      w.id,
			QueueDepth:    len(w.jobQueue),
			IsProcessing:  isProcessing,
			JobsProcessed: atomic.LoadInt64(&w.jobsProcessed),
		}
	}

	now := time.Now()
	p.activeSessionsMu.Lock()
	activeSnapshot := make(map[string]int, len(p.activeSessions))
	for k, v := range p.activeSessions {
		if !v.updatedAt.IsZero() && now.Sub(v.updatedAt) > 2*time.Second {
			delete(p.activeSessions, k)
			continue
		}
		activeSnapshot[k] = v.workerID
	}
	p.activeSessionsMu.Unlock()

	return PoolStats{
		NumWorkers:      p.numWorkers,
		QueueSize:       p.queueSize,
		ActiveWorkers:   activeWorkers,
		TotalDispatched: atomic.LoadInt64(&p.totalDispatched),
		TotalProcessed:  atomic.LoadInt64(&p.totalProcessed),
		TotalDropped:    atomic.LoadInt64(&p.totalDropped),
		TotalErrors:     atomic.LoadInt64(&p.totalErrors),
		WorkerStats:     workerStats,
		ActiveSessions:  activeSnapshot,
	}
}

func (w *worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for job := range w.jobQueue {
		select {
		case <-w.ctx.Done():
			return
		default:
		}

		atomic.StoreInt32(&w.isProcessing, 1)

		func() {
			defer func() {
				if r := recover(); r != nil {
					atomic.AddInt64(&w.pool.totalErrors, 1)
					logrus.Errorf("[INGEST_POOL] Worker %d panic on session %s: %v", w.id, job.SessionID, r)
				}
			}()

			if err := job.Handler(w.ctx); err != nil {
				atomic.AddInt64(&w.pool.totalErrors, 1)
				logrus.Warnf("[INGEST_POOL] Worker %d job failed for session %s file %s: %v",
					w.id, job.SessionID, job.FileID, err)
			}
		}()

		atomic.StoreInt32(&w.isProcessing, 0)
		atomic.AddInt64(&w.jobsProcessed, 1)
		atomic.AddInt64(&w.pool.totalProcessed, 1)
	}
}
