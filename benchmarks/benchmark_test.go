package benchmarks

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/utkarsh5026/poolkit/pool"
)

// =============================================================================
// RunParallel
// =============================================================================

func BenchmarkRunParallel_ConcurrencyScaling(b *testing.B) {
	taskCount := 10000
	tasks := makeTasks(taskCount)
	processFunc := cpuBoundWork(100)

	for _, concurrency := range []int{1, 2, 4, 8, 16, 32} {
		b.Run(fmt.Sprintf("concurrency_%d", concurrency), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := pool.RunParallel(context.Background(), tasks, processFunc, pool.WithConcurrency(concurrency)); err != nil {
					b.Fatal(err)
				}
			}
			b.StopTimer()

			reportThroughput(b, taskCount)
		})
	}
}

func BenchmarkRunParallel_IOBound(b *testing.B) {
	tasks := makeTasks(200)
	processFunc := ioBoundWork(time.Millisecond)

	for _, concurrency := range []int{8, 32, 200} {
		b.Run(fmt.Sprintf("concurrency_%d", concurrency), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := pool.RunParallel(context.Background(), tasks, processFunc, pool.WithConcurrency(concurrency)); err != nil {
					b.Fatal(err)
				}
			}
			reportThroughput(b, len(tasks))
		})
	}
}

// =============================================================================
// WorkerPool
// =============================================================================

func BenchmarkWorkerPool_Run(b *testing.B) {
	for _, workers := range []int{1, 4, 8} {
		b.Run(fmt.Sprintf("workers_%d", workers), func(b *testing.B) {
			wp, err := pool.NewWorkerPool(workerEntry(cpuBoundWork(100)), pool.WithWorkerCount(workers))
			if err != nil {
				b.Fatal(err)
			}
			defer wp.Destroy()

			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				task := 0
				for pb.Next() {
					if _, err := wp.Run(context.Background(), task); err != nil {
						b.Error(err)
						return
					}
					task++
				}
			})
		})
	}
}

func BenchmarkWorkerPool_AcquireRelease(b *testing.B) {
	wp, err := pool.NewWorkerPool(workerEntry(cpuBoundWork(1)), pool.WithWorkerCount(4))
	if err != nil {
		b.Fatal(err)
	}
	defer wp.Destroy()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			var wg sync.WaitGroup
			wg.Add(1)
			err := wp.Acquire(func(w *pool.Worker[int, int]) {
				wp.Release(w)
				wg.Done()
			})
			if err != nil {
				b.Error(err)
				return
			}
			wg.Wait()
		}
	})
}

// BenchmarkWorkerPool_AsMapper drives pool workers through RunParallel, the
// way a build step fans out over a fixed set of workers.
func BenchmarkWorkerPool_AsMapper(b *testing.B) {
	taskCount := 5000
	tasks := makeTasks(taskCount)

	wp, err := pool.NewWorkerPool(workerEntry(cpuBoundWork(100)), pool.WithWorkerCount(8))
	if err != nil {
		b.Fatal(err)
	}
	defer wp.Destroy()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := pool.RunParallel(context.Background(), tasks, wp.Run, pool.WithConcurrency(16)); err != nil {
			b.Fatal(err)
		}
	}
	b.StopTimer()

	reportThroughput(b, taskCount)
}

// =============================================================================
// DistributeTasks and Retry
// =============================================================================

func BenchmarkDistributeTasks(b *testing.B) {
	tasks := makeTasks(100000)

	for _, buckets := range []int{2, 8, 64} {
		b.Run(fmt.Sprintf("buckets_%d", buckets), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := pool.DistributeTasks(tasks, buckets); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkRetry_FlakyMapper(b *testing.B) {
	taskCount := 1000
	tasks := makeTasks(taskCount)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		attempt := flakyWork(0.1)
		_, err := pool.RunParallel(context.Background(), tasks, func(ctx context.Context, task int) (int, error) {
			return pool.Retry(ctx, attempt(task), 3, 0)
		}, pool.WithConcurrency(8))
		if err != nil {
			b.Fatal(err)
		}
	}
	b.StopTimer()

	reportThroughput(b, taskCount)
}
