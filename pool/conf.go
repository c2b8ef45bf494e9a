package pool

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// defaultWorkerRatio sizes a pool at two thirds of the logical CPUs, leaving
// headroom for the orchestrating goroutines and the rest of the build.
const defaultWorkerRatio = 2.0 / 3

// WorkerPoolOption is a functional option for configuring a WorkerPool.
type WorkerPoolOption func(*workerPoolConfig)

type workerPoolConfig struct {
	workerCount    int
	workerCountSet bool
	workerRatio    float64
	workerData     any
	pinCPU         bool
	logger         logrus.FieldLogger
	registerer     prometheus.Registerer
	poolName       string
}

func createPoolConfig(opts ...WorkerPoolOption) *workerPoolConfig {
	cfg := &workerPoolConfig{
		workerRatio: defaultWorkerRatio,
		logger:      logger,
		poolName:    "default",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// WithWorkerCount fixes the number of workers. Zero is accepted here and
// rejected by NewWorkerPool so that the caller sees the error. Negative
// counts are ignored.
func WithWorkerCount(count int) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if count >= 0 {
			cfg.workerCount = count
			cfg.workerCountSet = true
		}
	}
}

// WithWorkerRatio sizes the pool as floor(NumCPU * ratio) when no explicit
// count is given. The default ratio is 2/3.
func WithWorkerRatio(ratio float64) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if ratio > 0 {
			cfg.workerRatio = ratio
		}
	}
}

// WithWorkerData sets the initialization data handed to every worker's entry
// function.
func WithWorkerData(data any) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.workerData = data
	}
}

// WithCPUAffinity locks each worker goroutine to an OS thread pinned to one
// core (worker i -> core i % NumCPU). Pinning is best effort.
func WithCPUAffinity() WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.pinCPU = true
	}
}

// WithLogger sets the logger for this pool.
func WithLogger(l logrus.FieldLogger) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if l != nil {
			cfg.logger = l
		}
	}
}

// WithMetrics registers the pool's gauges and counters with reg, labelled
// with pool=name.
//
// Example:
//
//	WithMetrics(prometheus.DefaultRegisterer, "resources")
func WithMetrics(reg prometheus.Registerer, name string) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.registerer = reg
		if name != "" {
			cfg.poolName = name
		}
	}
}

// ParallelOption configures RunParallel.
type ParallelOption func(*parallelConfig)

type parallelConfig struct {
	concurrency int
	limiter     *rate.Limiter
}

// WithConcurrency caps the number of mapper calls in flight. The default is
// len(items). A value <= 0 makes RunParallel return an empty result without
// calling the mapper.
func WithConcurrency(n int) ParallelOption {
	return func(cfg *parallelConfig) {
		cfg.concurrency = n
	}
}

// WithRateLimit throttles how fast mapper calls are started.
// tasksPerSecond is the sustained rate, burst the number of starts allowed
// back to back. Non-positive values disable limiting.
//
// Example:
//
//	WithRateLimit(10, 5) // Allow 10 tasks/sec with burst of 5
func WithRateLimit(tasksPerSecond float64, burst int) ParallelOption {
	return func(cfg *parallelConfig) {
		if tasksPerSecond > 0 && burst > 0 {
			cfg.limiter = rate.NewLimiter(rate.Limit(tasksPerSecond), burst)
		}
	}
}

// RetryOption configures Retry.
type RetryOption func(*retryConfig)

type retryConfig struct {
	onRetry func(attempt int, err error)
}

// WithOnRetry registers a hook called after every failed attempt that will
// be retried, with the 1-based number of the failed attempt.
func WithOnRetry(fn func(attempt int, err error)) RetryOption {
	return func(cfg *retryConfig) {
		cfg.onRetry = fn
	}
}

// ProcessOption configures a ProcessRunner.
type ProcessOption func(*processConfig)

type processConfig struct {
	args   []string
	env    []string
	dir    string
	stderr io.Writer
	logger logrus.FieldLogger
}

// WithProcessArgs sets the arguments passed to every spawned child.
func WithProcessArgs(args ...string) ProcessOption {
	return func(cfg *processConfig) {
		cfg.args = append(cfg.args, args...)
	}
}

// WithProcessEnv appends KEY=VALUE entries to the inherited environment.
func WithProcessEnv(env ...string) ProcessOption {
	return func(cfg *processConfig) {
		cfg.env = append(cfg.env, env...)
	}
}

// WithProcessDir sets the working directory of spawned children.
func WithProcessDir(dir string) ProcessOption {
	return func(cfg *processConfig) {
		cfg.dir = dir
	}
}

// WithProcessStderr redirects the children's stderr (default: os.Stderr).
func WithProcessStderr(w io.Writer) ProcessOption {
	return func(cfg *processConfig) {
		cfg.stderr = w
	}
}

// WithProcessLogger sets the logger for this runner.
func WithProcessLogger(l logrus.FieldLogger) ProcessOption {
	return func(cfg *processConfig) {
		if l != nil {
			cfg.logger = l
		}
	}
}
