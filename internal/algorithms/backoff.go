package algorithms

import "time"

// fixedBackoff returns the same delay for every attempt. Delays never grow,
// so a long retry budget costs exactly attempts*delay of waiting.
type fixedBackoff struct {
	delay time.Duration
}

func newFixedBackoff(delay time.Duration) *fixedBackoff {
	return &fixedBackoff{delay: delay}
}

// NextDelay returns the configured delay for any non-negative attempt.
func (fb *fixedBackoff) NextDelay(attemptNumber int, lastError error) time.Duration {
	if attemptNumber < 0 {
		return 0
	}
	return fb.delay
}

// Reset is a no-op; fixed backoff is stateless.
func (fb *fixedBackoff) Reset() {}

type noBackoff struct{}

func (noBackoff) NextDelay(int, error) time.Duration { return 0 }

func (noBackoff) Reset() {}
