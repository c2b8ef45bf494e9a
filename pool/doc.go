// Package pool provides the concurrency primitives used to spread CPU-bound
// or process-isolated build work over a bounded number of execution units.
//
// There are five pieces, usually combined as: partition the work with
// DistributeTasks, feed each partition through RunParallel, perform each
// unit directly, on a WorkerPool worker or in a child process via
// ProcessRunner, and wrap flaky units in Retry.
//
// # Task Distribution
//
// DistributeTasks deals a slice round-robin into exactly n buckets:
//
//	buckets, err := pool.DistributeTasks([]int{1, 2, 3, 4, 5, 6, 7}, 3)
//	// [[1 4 7] [2 5] [3 6]]
//
// # Ordered Parallel Map
//
// RunParallel runs a mapper over a slice with a concurrency ceiling and
// returns results in input order:
//
//	results, err := pool.RunParallel(ctx, items, mapper, pool.WithConcurrency(2))
//
// The first failure is returned at once as a *TaskError; calls already in
// flight are not cancelled.
//
// # Worker Pool
//
// WorkerPool keeps a fixed set of worker goroutines and lends them out with
// Acquire/Release. Callers that find every worker busy are queued and served
// in FIFO order, and a released worker goes straight to the next queued
// caller:
//
//	wp, err := pool.NewWorkerPool(entry, pool.WithWorkerCount(4))
//	if err != nil {
//	    return err
//	}
//	defer wp.Destroy()
//
//	_ = wp.Acquire(func(w *pool.Worker[Task, Result]) {
//	    go func() {
//	        defer wp.Release(w)
//	        res, _, err := w.Post(task).Get()
//	        ...
//	    }()
//	})
//
// Run wraps that pattern for the common single-task case. Destroy terminates
// every worker without draining in-flight work.
//
// # Child Processes
//
// ProcessRunner spawns one process per task and drives a three-message
// handshake over the child's stdin/stdout: the child sends ready, receives
// the task, and answers done (with a payload) or error. The child side is
// implemented by Serve / ServeTask.
//
// # Retry
//
// Retry calls a function up to maxAttempts times with a fixed delay between
// attempts and returns the last error unchanged:
//
//	v, err := pool.Retry(ctx, fetch, 3, 100*time.Millisecond)
//
// # Error Handling
//
// Failures are returned, never logged and swallowed. Sentinel errors
// (ErrInvalidArgument, ErrOperationFailed, ErrPoolDestroyed,
// ErrWorkerTerminated, ErrProcessFailed, ErrProcessExited) are matched with
// errors.Is; *TaskError and *ProcessError carry the failing index or pid.
// Panics inside workers, mappers and served tasks are recovered and turned
// into errors with a stack trace.
//
// # Logging
//
// Lifecycle events are logged at debug level through logrus. Build with
// -tags debug to enable them by default, or supply a logger with SetLogger,
// WithLogger or WithProcessLogger.
package pool
