// Package types holds the value types shared between the pool package and
// its internals.
package types

import (
	"context"
	"sync"
)

// Result is the settled outcome of a Future.
type Result[R any, K comparable] struct {
	Value R
	Key   K
	Error error
}

// Future is a single-assignment result slot. The first Complete wins; later
// calls are ignored, which lets a worker and a terminator race to settle the
// same task safely.
type Future[R any, K comparable] struct {
	once   sync.Once
	done   chan struct{}
	result Result[R, K]
}

// NewFuture returns an unsettled future.
func NewFuture[R any, K comparable]() *Future[R, K] {
	return &Future[R, K]{done: make(chan struct{})}
}

// Complete settles the future. It reports whether this call was the one that
// settled it.
func (f *Future[R, K]) Complete(value R, key K, err error) bool {
	settled := false
	f.once.Do(func() {
		f.result = Result[R, K]{Value: value, Key: key, Error: err}
		close(f.done)
		settled = true
	})
	return settled
}

// Get blocks until the future is settled.
func (f *Future[R, K]) Get() (R, K, error) {
	<-f.done
	return f.result.Value, f.result.Key, f.result.Error
}

// GetWithContext blocks until the future is settled or ctx is done. Giving up
// on the wait does not settle the future.
func (f *Future[R, K]) GetWithContext(ctx context.Context) (R, K, error) {
	select {
	case <-f.done:
		return f.result.Value, f.result.Key, f.result.Error
	case <-ctx.Done():
		var zeroR R
		var zeroK K
		return zeroR, zeroK, ctx.Err()
	}
}

// TryGet returns the result without blocking; ready is false while unsettled.
func (f *Future[R, K]) TryGet() (value R, key K, err error, ready bool) {
	select {
	case <-f.done:
		return f.result.Value, f.result.Key, f.result.Error, true
	default:
		return value, key, nil, false
	}
}

// Done is closed once the future is settled.
func (f *Future[R, K]) Done() <-chan struct{} {
	return f.done
}

// IsReady reports whether the future is settled.
func (f *Future[R, K]) IsReady() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
