package algorithms

import "time"

// BackoffType selects a retry delay algorithm.
type BackoffType int

const (
	// BackoffFixed waits the same delay before every retry (default).
	BackoffFixed BackoffType = iota
	// BackoffNone retries immediately.
	BackoffNone
)

// String implements fmt.Stringer.
func (b BackoffType) String() string {
	switch b {
	case BackoffFixed:
		return "fixed"
	case BackoffNone:
		return "none"
	default:
		return "unknown"
	}
}

// NewBackoffStrategy builds the strategy for backoffType. A non-positive delay
// always yields an immediate strategy.
func NewBackoffStrategy(backoffType BackoffType, delay time.Duration) BackoffStrategy {
	if delay <= 0 || backoffType == BackoffNone {
		return noBackoff{}
	}
	return newFixedBackoff(delay)
}
