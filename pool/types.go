package pool

import (
	"context"

	"github.com/utkarsh5026/poolkit/internal/types"
)

// ProcessFunc is the unit of work run by RunParallel, Retry-wrapped calls and
// child processes served by ServeTask.
//
// Type parameters:
//   - T: The type of input task to be processed
//   - R: The type of result produced after processing
type ProcessFunc[T any, R any] func(ctx context.Context, task T) (R, error)

// WorkerFunc is the entry point every pool worker runs for each task posted
// to it. data is the pool's initialization data (see WithWorkerData) and is
// shared by all workers. ctx is cancelled when the worker is terminated.
type WorkerFunc[T any, R any] func(ctx context.Context, data any, task T) (R, error)

// Future is the pending result of a task posted to a Worker. Its key is the
// ID of the worker that ran the task.
type Future[R any] = types.Future[R, int]
