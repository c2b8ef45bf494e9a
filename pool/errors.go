package pool

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports a caller-supplied value outside the accepted range.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOperationFailed matches any *TaskError returned by RunParallel.
	ErrOperationFailed = errors.New("operation failed")

	// ErrPoolDestroyed is returned by operations on a pool after Destroy.
	ErrPoolDestroyed = errors.New("pool destroyed")

	// ErrWorkerTerminated settles tasks whose worker was terminated before
	// (or while) running them.
	ErrWorkerTerminated = errors.New("worker terminated")

	// ErrProcessFailed means the child process reported an error message.
	// The child's own error detail is not transmitted.
	ErrProcessFailed = errors.New("process reported an error")

	// ErrProcessExited means the child process closed its output without
	// sending a done or error message.
	ErrProcessExited = errors.New("process exited without a result")

	// ErrShutdownTimeout is returned by Shutdown when workers do not exit in time.
	ErrShutdownTimeout = errors.New("error in shutting down: timeout reached")
)

// TaskError wraps the failure of a single mapper call together with the
// index of the input that produced it.
type TaskError struct {
	Index int
	Err   error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %d: %v", e.Index, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// Is makes every TaskError match ErrOperationFailed.
func (e *TaskError) Is(target error) bool {
	return target == ErrOperationFailed
}

// ProcessError reports a failed child process run, tagged with its pid.
type ProcessError struct {
	PID int
	Err error
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("worker %d: %v", e.PID, e.Err)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}
