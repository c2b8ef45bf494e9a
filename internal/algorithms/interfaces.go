package algorithms

import "time"

// BackoffStrategy decides how long to wait between retry attempts.
//
// The interface is exported so the pool package can hold one, but every
// implementation stays in this package.
type BackoffStrategy interface {
	// NextDelay returns the wait before the next attempt. attemptNumber is
	// 0-indexed (0 = wait after the first failure); lastError is the error
	// that triggered the retry.
	NextDelay(attemptNumber int, lastError error) time.Duration

	// Reset clears per-task state before a new task starts retrying.
	Reset()
}
