package pool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/poolkit/internal/timelog"
)

// ProcessRunner runs tasks in isolated child processes, one fresh process
// per task. The child program must speak the handshake implemented by
// ServeTask: it sends ready, receives the task as one JSON line on stdin and
// replies with done or error on stdout.
//
// Type parameters:
//   - T: The task type, JSON-encoded to the child
//   - R: The result type, JSON-decoded from the done payload
type ProcessRunner[T any, R any] struct {
	path string
	cfg  processConfig
}

// NewProcessRunner binds a runner to the program at path.
//
// Example:
//
//	runner := NewProcessRunner[ZipTask, ZipResult](os.Args[0], WithProcessArgs("-child"))
//	res, err := runner.Run(ctx, task)
func NewProcessRunner[T any, R any](path string, opts ...ProcessOption) *ProcessRunner[T, R] {
	cfg := processConfig{
		stderr: os.Stderr,
		logger: logger,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &ProcessRunner[T, R]{path: path, cfg: cfg}
}

// Run spawns a child, drives the handshake and returns the child's result.
// The child is killed once it answers, whatever the answer.
//
// Errors:
//   - *ProcessError wrapping ErrProcessFailed when the child sends error
//   - *ProcessError wrapping ErrProcessExited when the child's stdout closes
//     before a done or error message
//   - ctx.Err() when ctx ends first; the child is killed
func (pr *ProcessRunner[T, R]) Run(ctx context.Context, task T) (R, error) {
	var zero R

	cmd := exec.CommandContext(ctx, pr.path, pr.cfg.args...)
	cmd.Dir = pr.cfg.dir
	cmd.Stderr = pr.cfg.stderr
	if len(pr.cfg.env) > 0 {
		cmd.Env = append(os.Environ(), pr.cfg.env...)
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return zero, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return zero, fmt.Errorf("stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return zero, fmt.Errorf("start %s: %w", pr.path, err)
	}

	pid := cmd.Process.Pid
	log := pr.cfg.logger.WithFields(logrus.Fields{
		"run_id": uuid.NewString(),
		"pid":    pid,
	})
	log.Debug("child process started")

	h := &handshake[T, R]{
		pid:    pid,
		task:   task,
		stdin:  stdin,
		dec:    json.NewDecoder(stdout),
		log:    log,
		waitFn: cmd.Wait,
	}
	defer h.kill(cmd)

	result, err := h.drive()
	if err != nil && ctx.Err() != nil {
		return zero, ctx.Err()
	}
	return result, err
}

// RunAll runs every task in its own child process with at most limit
// children alive at once (limit <= 0 means no limit) and returns the results
// in task order. The first failure cancels the context of the remaining
// runs, killing their children, and is returned.
func (pr *ProcessRunner[T, R]) RunAll(ctx context.Context, tasks []T, limit int) ([]R, error) {
	results := make([]R, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, task := range tasks {
		g.Go(func() error {
			r, err := pr.Run(gctx, task)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// handshake is the parent side of one child run.
type handshake[T any, R any] struct {
	pid    int
	task   T
	stdin  io.WriteCloser
	dec    *json.Decoder
	log    logrus.FieldLogger
	waitFn func() error
	waited bool
}

func (h *handshake[T, R]) drive() (R, error) {
	var zero R
	stop := func() {}

	for {
		var msg Message
		if err := h.dec.Decode(&msg); err != nil {
			return zero, h.readFailure(err)
		}

		switch msg.Type {
		case MessageReady:
			stop = timelog.TrackQuiet(h.log, fmt.Sprintf("Worker %d", h.pid))
			// A child that closed stdin is going away; the next read reports it.
			if err := json.NewEncoder(h.stdin).Encode(h.task); err != nil {
				h.log.WithError(err).Debug("send task failed")
			}
			_ = h.stdin.Close()

		case MessageDone:
			stop()
			var out R
			if err := msg.Decode(&out); err != nil {
				return zero, &ProcessError{PID: h.pid, Err: fmt.Errorf("decode result: %w", err)}
			}
			return out, nil

		case MessageError:
			stop()
			return zero, &ProcessError{PID: h.pid, Err: ErrProcessFailed}

		default:
			h.log.WithField("type", msg.Type).Debug("ignoring unknown message")
		}
	}
}

// readFailure classifies a failed read from the child's stdout. A clean or
// truncated EOF means the child went away without a terminal message.
func (h *handshake[T, R]) readFailure(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		h.waited = true
		if waitErr := h.waitFn(); waitErr != nil {
			return &ProcessError{PID: h.pid, Err: fmt.Errorf("%w: %v", ErrProcessExited, waitErr)}
		}
		return &ProcessError{PID: h.pid, Err: ErrProcessExited}
	}
	return &ProcessError{PID: h.pid, Err: fmt.Errorf("read message: %w", err)}
}

func (h *handshake[T, R]) kill(cmd *exec.Cmd) {
	if h.waited {
		return
	}
	_ = cmd.Process.Kill()
	_ = cmd.Wait()
	h.log.Debug("child process killed")
}
