package pool

import (
	"context"
	"fmt"
	"runtime"
	"time"
)

// callWithRecovery runs fn and converts a panic into an error carrying the
// stack trace, so one bad task cannot take down a worker or a lane.
func callWithRecovery[T, R any](ctx context.Context, fn ProcessFunc[T, R], task T) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			err = fmt.Errorf("worker panic: %v\nstack trace:\n%s", r, buf[:n])
		}
	}()

	return fn(ctx, task)
}

// Sleep waits for d or until ctx is done, whichever comes first. A
// non-positive d returns immediately with ctx.Err().
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// waitUntil blocks until either the done channel is closed or the timeout is
// reached. A non-positive timeout waits forever.
func waitUntil(d <-chan struct{}, timeout time.Duration) error {
	if timeout <= 0 {
		<-d
		return nil
	}

	select {
	case <-d:
		return nil
	case <-time.After(timeout):
		return ErrShutdownTimeout
	}
}
