package pool

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/utkarsh5026/poolkit/internal/cpu"
	"github.com/utkarsh5026/poolkit/internal/timelog"
)

type slotState int

const (
	slotIdle slotState = iota
	slotInUse
)

type slot[T any, R any] struct {
	state  slotState
	worker *Worker[T, R]
}

// WorkerPool owns a fixed set of long-lived workers and lends them out one
// caller at a time. Callers that find every worker busy are queued and
// served in FIFO order as workers are released.
//
// The pool is payload agnostic: what a worker does with a task is defined by
// the WorkerFunc given to NewWorkerPool.
//
// Type parameters:
//   - T: The task type posted to workers
//   - R: The result type workers produce
type WorkerPool[T any, R any] struct {
	mu        sync.Mutex
	slots     []*slot[T, R]
	queue     []func(*Worker[T, R])
	destroyed bool
	gone      chan struct{} // closed by Destroy

	workers []*Worker[T, R] // every worker ever spawned, for Shutdown
	log     logrus.FieldLogger
	metrics *poolMetrics
}

// NewWorkerPool spawns the pool's workers, each running entry for the tasks
// posted to it.
//
// The worker count is WithWorkerCount if given, otherwise
// floor(NumCPU * ratio) with a default ratio of 2/3. A count of zero is
// rejected with ErrInvalidArgument rather than silently raised to one: a
// zero-worker pool would queue every Acquire forever.
//
// Example:
//
//	wp, err := NewWorkerPool(func(ctx context.Context, _ any, path string) (string, error) {
//	    return hashFile(ctx, path)
//	}, WithWorkerCount(4))
//	if err != nil {
//	    return err
//	}
//	defer wp.Destroy()
func NewWorkerPool[T any, R any](entry WorkerFunc[T, R], opts ...WorkerPoolOption) (*WorkerPool[T, R], error) {
	if entry == nil {
		return nil, fmt.Errorf("%w: nil worker entry", ErrInvalidArgument)
	}

	cfg := createPoolConfig(opts...)

	count := cfg.workerCount
	if !cfg.workerCountSet {
		count = cpu.Count(cfg.workerRatio)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: worker count resolved to 0 (%d CPUs, ratio %.2f)",
			ErrInvalidArgument, runtime.NumCPU(), cfg.workerRatio)
	}

	var metrics *poolMetrics
	if cfg.registerer != nil {
		m, err := newPoolMetrics(cfg.registerer, cfg.poolName)
		if err != nil {
			return nil, fmt.Errorf("register pool metrics: %w", err)
		}
		metrics = m
	}

	wp := &WorkerPool[T, R]{
		slots:   make([]*slot[T, R], count),
		gone:    make(chan struct{}),
		workers: make([]*Worker[T, R], count),
		log:     cfg.logger.WithField("pool", cfg.poolName),
		metrics: metrics,
	}

	for i := range count {
		w := spawnWorker(i, entry, cfg)
		wp.slots[i] = &slot[T, R]{state: slotIdle, worker: w}
		wp.workers[i] = w
	}

	wp.metrics.started(count)
	wp.log.WithField("workers", count).Debug("worker pool created")

	return wp, nil
}

// Acquire lends a worker to cb. When a worker is idle, cb runs synchronously
// on the calling goroutine before Acquire returns. Otherwise cb is queued and
// will run, on the goroutine that calls Release, with whichever worker frees
// up next.
//
// The holder must eventually Release the worker. Acquire on a destroyed pool
// returns ErrPoolDestroyed and never calls cb.
func (wp *WorkerPool[T, R]) Acquire(cb func(*Worker[T, R])) error {
	if cb == nil {
		return fmt.Errorf("%w: nil acquire callback", ErrInvalidArgument)
	}

	wp.mu.Lock()
	if wp.destroyed {
		wp.mu.Unlock()
		return ErrPoolDestroyed
	}

	for _, s := range wp.slots {
		if s.state == slotIdle {
			s.state = slotInUse
			wp.metrics.acquired()
			wp.mu.Unlock()

			cb(s.worker)
			return nil
		}
	}

	wp.queue = append(wp.queue, cb)
	pending := len(wp.queue)
	wp.metrics.enqueued()
	wp.mu.Unlock()

	wp.log.WithField("pending", pending).Debug("all workers busy, acquire queued")
	return nil
}

// Release returns w to the pool. If callers are queued, the oldest one is
// handed w immediately and the worker never goes idle. Releasing a worker
// this pool does not own, or releasing after Destroy, does nothing.
func (wp *WorkerPool[T, R]) Release(w *Worker[T, R]) {
	if w == nil {
		return
	}

	wp.mu.Lock()
	s := wp.find(w)
	if s == nil {
		wp.mu.Unlock()
		return
	}

	if len(wp.queue) > 0 {
		next := wp.queue[0]
		wp.queue[0] = nil
		wp.queue = wp.queue[1:]
		wp.metrics.handedOff()
		wp.mu.Unlock()

		next(s.worker)
		return
	}

	s.state = slotIdle
	wp.metrics.released()
	wp.mu.Unlock()
}

// find does a linear scan; pools are sized by CPU count.
func (wp *WorkerPool[T, R]) find(w *Worker[T, R]) *slot[T, R] {
	for _, s := range wp.slots {
		if s.worker == w {
			return s
		}
	}
	return nil
}

// Destroy terminates every worker, busy or not, and empties the pool.
// In-flight tasks are not drained: their futures settle at once with
// ErrWorkerTerminated and their entry contexts are cancelled. Queued acquire
// callbacks are dropped. Calling Destroy more than once is harmless.
func (wp *WorkerPool[T, R]) Destroy() {
	wp.mu.Lock()
	if wp.destroyed {
		wp.mu.Unlock()
		return
	}

	wp.destroyed = true
	slots := wp.slots
	dropped := len(wp.queue)
	wp.slots = nil
	wp.queue = nil
	close(wp.gone)
	wp.mu.Unlock()

	for _, s := range slots {
		s.worker.terminate()
	}

	wp.metrics.destroyed()
	wp.log.WithFields(logrus.Fields{
		"workers": len(slots),
		"dropped": dropped,
	}).Debug("worker pool destroyed")
}

// Shutdown destroys the pool and then waits up to timeout for every worker
// goroutine to return from its entry function. A non-positive timeout waits
// forever. Entries that ignore their context can make Shutdown time out with
// ErrShutdownTimeout; the pool is destroyed either way.
func (wp *WorkerPool[T, R]) Shutdown(timeout time.Duration) error {
	wp.Destroy()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, w := range wp.workers {
			<-w.exited
		}
	}()

	return waitUntil(done, timeout)
}

// Size returns the current number of worker slots: the constructed count,
// or zero after Destroy.
func (wp *WorkerPool[T, R]) Size() int {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	return len(wp.slots)
}

const (
	handoffWaiting int32 = iota
	handoffDelivered
	handoffAbandoned
)

// Run acquires a worker, posts task to it, waits for the result and releases
// the worker. It is the usual way to use the pool when the caller does not
// need to hold a worker across several tasks.
//
// If ctx ends while waiting for a worker, the queued acquisition is
// abandoned and the worker it eventually receives is released straight
// away. If ctx ends while the task runs, the worker is released once the
// task settles.
func (wp *WorkerPool[T, R]) Run(ctx context.Context, task T) (R, error) {
	var zero R

	var state atomic.Int32
	acquired := make(chan *Worker[T, R], 1)

	err := wp.Acquire(func(w *Worker[T, R]) {
		if state.CompareAndSwap(handoffWaiting, handoffDelivered) {
			acquired <- w
			return
		}
		wp.Release(w)
	})
	if err != nil {
		return zero, err
	}

	var w *Worker[T, R]
	select {
	case w = <-acquired:
	case <-wp.gone:
		if !state.CompareAndSwap(handoffWaiting, handoffAbandoned) {
			// delivered just before Destroy; the post below fails fast
			w = <-acquired
			break
		}
		return zero, ErrPoolDestroyed
	case <-ctx.Done():
		if state.CompareAndSwap(handoffWaiting, handoffAbandoned) {
			return zero, ctx.Err()
		}
		wp.Release(<-acquired)
		return zero, ctx.Err()
	}

	defer timelog.TrackQuiet(wp.log, fmt.Sprintf("Worker %d", w.ID()))()

	f := w.Post(task)
	result, _, err := f.GetWithContext(ctx)
	if err != nil && !f.IsReady() {
		go func() {
			<-f.Done()
			wp.Release(w)
		}()
		return zero, err
	}

	wp.Release(w)
	return result, err
}
