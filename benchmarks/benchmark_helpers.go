package benchmarks

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// cpuBoundWork simulates a CPU-intensive operation
func cpuBoundWork(iterations int) func(ctx context.Context, task int) (int, error) {
	return func(ctx context.Context, task int) (int, error) {
		result := 0
		for i := 0; i < iterations; i++ {
			result += i * task
		}
		return result, nil
	}
}

// ioBoundWork simulates an I/O operation with a delay
func ioBoundWork(delay time.Duration) func(ctx context.Context, task int) (int, error) {
	return func(ctx context.Context, task int) (int, error) {
		select {
		case <-time.After(delay):
			return task * 2, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

// workerEntry adapts a task function to a pool worker entry point.
func workerEntry(fn func(ctx context.Context, task int) (int, error)) func(ctx context.Context, _ any, task int) (int, error) {
	return func(ctx context.Context, _ any, task int) (int, error) {
		return fn(ctx, task)
	}
}

// flakyWork fails the first attempt of roughly errorRate of the tasks.
func flakyWork(errorRate float64) func(task int) func(ctx context.Context) (int, error) {
	var attempts sync.Map
	return func(task int) func(ctx context.Context) (int, error) {
		return func(ctx context.Context) (int, error) {
			val, _ := attempts.LoadOrStore(task, new(atomic.Int32))
			count := val.(*atomic.Int32).Add(1)

			if count == 1 && rand.Float64() < errorRate {
				return 0, fmt.Errorf("simulated error for task %d", task)
			}
			return task * 2, nil
		}
	}
}

func makeTasks(n int) []int {
	tasks := make([]int, n)
	for i := range tasks {
		tasks[i] = i
	}
	return tasks
}

// reportThroughput reports tasks/sec based on the benchmark's elapsed time.
func reportThroughput(b *testing.B, taskCount int) {
	b.Helper()

	nsPerOp := float64(b.Elapsed().Nanoseconds()) / float64(b.N)
	if nsPerOp == 0 {
		return
	}
	b.ReportMetric(float64(taskCount)/nsPerOp*1e9, "tasks/sec")
}
