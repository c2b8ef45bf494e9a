package pool

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// RunParallel maps every item through mapper with at most WithConcurrency
// calls in flight and returns the results in input order, whatever order the
// calls finish in.
//
// It uses a sliding window: the first min(concurrency, len(items)) items
// start together, and each time a call finishes the next unstarted item is
// claimed from a shared cursor. Every item is started at most once.
//
// The first mapper error is returned immediately as a *TaskError carrying
// the item's index. Calls already in flight are not cancelled and keep
// running in the background; no new items are started after a failure.
// Callers that need in-flight calls to stop should cancel ctx themselves.
//
// Example:
//
//	sizes, err := RunParallel(ctx, paths, func(ctx context.Context, p string) (int64, error) {
//	    fi, err := os.Stat(p)
//	    if err != nil {
//	        return 0, err
//	    }
//	    return fi.Size(), nil
//	}, WithConcurrency(4))
func RunParallel[T any, R any](
	ctx context.Context,
	items []T,
	mapper ProcessFunc[T, R],
	opts ...ParallelOption,
) ([]R, error) {
	cfg := &parallelConfig{concurrency: len(items)}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.concurrency <= 0 || len(items) == 0 {
		return []R{}, nil
	}
	if mapper == nil {
		return nil, fmt.Errorf("%w: nil mapper", ErrInvalidArgument)
	}

	r := &parallelRun[T, R]{
		items:   items,
		mapper:  mapper,
		cfg:     cfg,
		results: make([]R, len(items)),
		errCh:   make(chan error, 1),
	}
	return r.run(ctx, min(cfg.concurrency, len(items)))
}

// parallelRun is the state of one RunParallel call.
type parallelRun[T any, R any] struct {
	items   []T
	mapper  ProcessFunc[T, R]
	cfg     *parallelConfig
	results []R

	cursor atomic.Int64 // next index to start
	failed atomic.Bool
	errCh  chan error
}

func (r *parallelRun[T, R]) run(ctx context.Context, lanes int) ([]R, error) {
	var wg sync.WaitGroup
	wg.Add(lanes)
	for range lanes {
		go func() {
			defer wg.Done()
			r.lane(ctx)
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case err := <-r.errCh:
		return nil, err
	case <-done:
	}

	// a failing lane fills errCh before it exits
	select {
	case err := <-r.errCh:
		return nil, err
	default:
		return r.results, nil
	}
}

// lane keeps claiming the next unstarted index until the items run out or
// some lane fails. Only the lane that claimed an index writes its result.
func (r *parallelRun[T, R]) lane(ctx context.Context) {
	for !r.failed.Load() {
		idx := int(r.cursor.Add(1) - 1)
		if idx >= len(r.items) {
			return
		}

		if err := ctx.Err(); err != nil {
			r.fail(err)
			return
		}
		if r.cfg.limiter != nil {
			if err := r.cfg.limiter.Wait(ctx); err != nil {
				r.fail(err)
				return
			}
		}

		result, err := callWithRecovery(ctx, r.mapper, r.items[idx])
		if err != nil {
			r.fail(&TaskError{Index: idx, Err: err})
			return
		}
		r.results[idx] = result
	}
}

func (r *parallelRun[T, R]) fail(err error) {
	if r.failed.CompareAndSwap(false, true) {
		r.errCh <- err
	}
}
