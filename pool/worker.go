package pool

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/utkarsh5026/poolkit/internal/cpu"
	"github.com/utkarsh5026/poolkit/internal/types"
)

// Worker is the handle to one long-lived worker goroutine. Handles are
// created by the pool and lent out through Acquire; a holder talks to the
// worker only through Post.
type Worker[T any, R any] struct {
	id     int
	entry  WorkerFunc[T, R]
	data   any
	log    logrus.FieldLogger
	inbox  chan job[T, R]
	ctx    context.Context
	cancel context.CancelFunc
	exited chan struct{}

	mu      sync.Mutex
	current *Future[R]
}

type job[T any, R any] struct {
	task   T
	future *Future[R]
}

func spawnWorker[T, R any](id int, entry WorkerFunc[T, R], cfg *workerPoolConfig) *Worker[T, R] {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker[T, R]{
		id:     id,
		entry:  entry,
		data:   cfg.workerData,
		log:    cfg.logger.WithField("worker", id),
		inbox:  make(chan job[T, R]),
		ctx:    ctx,
		cancel: cancel,
		exited: make(chan struct{}),
	}

	go w.loop(cfg.pinCPU)
	w.log.Debug("worker started")
	return w
}

// ID returns the worker's index within its pool.
func (w *Worker[T, R]) ID() int {
	return w.id
}

// Post hands task to the worker and returns its pending result. Post blocks
// while the worker is busy with an earlier task. Posting to a terminated
// worker settles the future with ErrWorkerTerminated.
func (w *Worker[T, R]) Post(task T) *Future[R] {
	f := types.NewFuture[R, int]()

	select {
	case w.inbox <- job[T, R]{task: task, future: f}:
	case <-w.ctx.Done():
		var zero R
		f.Complete(zero, w.id, ErrWorkerTerminated)
	}

	return f
}

// Terminated reports whether the worker has been terminated.
func (w *Worker[T, R]) Terminated() bool {
	return w.ctx.Err() != nil
}

func (w *Worker[T, R]) loop(pin bool) {
	defer close(w.exited)

	if pin {
		defer cpu.Pin(w.id)()
	}

	for {
		select {
		case <-w.ctx.Done():
			return
		case j := <-w.inbox:
			if !w.begin(j.future) {
				return
			}

			result, err := callWithRecovery(w.ctx, w.run, j.task)
			w.end()
			j.future.Complete(result, w.id, err)
		}
	}
}

func (w *Worker[T, R]) run(ctx context.Context, task T) (R, error) {
	return w.entry(ctx, w.data, task)
}

// begin records f as the in-flight task. It fails, settling f, when the
// worker was terminated first.
func (w *Worker[T, R]) begin(f *Future[R]) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.ctx.Err() != nil {
		var zero R
		f.Complete(zero, w.id, ErrWorkerTerminated)
		return false
	}

	w.current = f
	return true
}

func (w *Worker[T, R]) end() {
	w.mu.Lock()
	w.current = nil
	w.mu.Unlock()
}

// terminate cancels the worker's context and settles its in-flight task, if
// any, with ErrWorkerTerminated without waiting for the entry to return.
func (w *Worker[T, R]) terminate() {
	w.cancel()

	w.mu.Lock()
	if w.current != nil {
		var zero R
		w.current.Complete(zero, w.id, ErrWorkerTerminated)
		w.current = nil
	}
	w.mu.Unlock()

	w.log.Debug("worker terminated")
}
