package pool

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// ServeTask runs the child side of the process handshake on in/out: it
// announces ready, reads exactly one JSON-encoded task, runs fn on it and
// answers with done (carrying the result) or error.
//
// The error returned by fn is reported to the parent only as an error
// message; its text stays in the child. ServeTask returns fn's error so the
// child can log it and exit non-zero.
func ServeTask[T any, R any](ctx context.Context, in io.Reader, out io.Writer, fn ProcessFunc[T, R]) error {
	enc := json.NewEncoder(out)
	dec := json.NewDecoder(in)

	if err := enc.Encode(ReadyMessage()); err != nil {
		return fmt.Errorf("send ready: %w", err)
	}

	var task T
	if err := dec.Decode(&task); err != nil {
		_ = enc.Encode(ErrorMessage())
		return fmt.Errorf("decode task: %w", err)
	}

	result, err := callWithRecovery(ctx, fn, task)
	if err != nil {
		if sendErr := enc.Encode(ErrorMessage()); sendErr != nil {
			return fmt.Errorf("send error: %w (task error: %v)", sendErr, err)
		}
		return err
	}

	msg, err := DoneMessage(result)
	if err != nil {
		_ = enc.Encode(ErrorMessage())
		return err
	}
	if err := enc.Encode(msg); err != nil {
		return fmt.Errorf("send done: %w", err)
	}

	return nil
}

// Serve is ServeTask bound to os.Stdin and os.Stdout, for use in the main
// function of a child program. The context is cancelled on SIGINT/SIGTERM.
// Stdout belongs to the protocol: the child must log to stderr.
//
// Example:
//
//	func main() {
//	    if err := pool.Serve(zipBucket); err != nil {
//	        fmt.Fprintln(os.Stderr, err)
//	        os.Exit(1)
//	    }
//	}
func Serve[T any, R any](fn ProcessFunc[T, R]) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return ServeTask(ctx, os.Stdin, os.Stdout, fn)
}
