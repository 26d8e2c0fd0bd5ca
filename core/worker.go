package core

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// WorkerPool provides a generic worker pool for parallel task processing.
// Per-correlation-ID audits are independent, so the auditor fans them out
// across this pool; the pool itself knows nothing about the domain.
type WorkerPool struct {
	workers int
	taskCh  chan func()
	wg      sync.WaitGroup
	logger  *zap.SugaredLogger
	ctx     context.Context
	cancel  context.CancelFunc
	running bool
	mu      sync.Mutex
}

// NewWorkerPool creates a worker pool. Workers are not started until Start()
// is called. A non-positive worker count falls back to a single worker.
func NewWorkerPool(workers int, queueSize int, logger *zap.SugaredLogger) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		workers: workers,
		taskCh:  make(chan func(), queueSize),
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the worker goroutines. Calling Start on a running pool is
// a no-op.
func (wp *WorkerPool) Start() {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	if wp.running {
		return
	}
	wp.running = true
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.run()
	}
}

func (wp *WorkerPool) run() {
	defer wp.wg.Done()
	for {
		select {
		case task, ok := <-wp.taskCh:
			if !ok {
				return
			}
			wp.execute(task)
		case <-wp.ctx.Done():
			return
		}
	}
}

func (wp *WorkerPool) execute(task func()) {
	defer func() {
		if r := recover(); r != nil {
			wp.logger.Errorw("Worker task panic recovered", "panic", r)
		}
	}()
	task()
}

// Submit queues a task for execution. It returns an error when the pool has
// been stopped or the queue is full; it never blocks.
func (wp *WorkerPool) Submit(task func()) error {
	wp.mu.Lock()
	running := wp.running
	wp.mu.Unlock()
	if !running {
		return errors.New("worker pool is not running")
	}
	select {
	case wp.taskCh <- task:
		return nil
	case <-wp.ctx.Done():
		return errors.New("worker pool is shutting down")
	default:
		return errors.New("worker pool queue is full")
	}
}

// Stop drains the queue and waits for all workers to finish. Safe to call
// multiple times.
func (wp *WorkerPool) Stop() {
	wp.mu.Lock()
	if !wp.running {
		wp.mu.Unlock()
		return
	}
	wp.running = false
	close(wp.taskCh)
	wp.mu.Unlock()

	wp.wg.Wait()
	wp.cancel()
}
