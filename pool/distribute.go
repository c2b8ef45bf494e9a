package pool

import "fmt"

// DistributeTasks deals tasks round-robin into exactly count buckets: the
// task at index i goes to bucket i % count, and each bucket keeps the
// original relative order. When count exceeds len(tasks) the trailing
// buckets are empty, never missing.
//
// Example:
//
//	buckets, _ := DistributeTasks([]int{1, 2, 3, 4, 5, 6, 7}, 3)
//	// [[1 4 7] [2 5] [3 6]]
func DistributeTasks[T any](tasks []T, count int) ([][]T, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: bucket count must be positive, got %d", ErrInvalidArgument, count)
	}

	buckets := make([][]T, count)
	for i := range buckets {
		// bucket i receives indices i, i+count, i+2*count, ...
		size := 0
		if i < len(tasks) {
			size = (len(tasks)-i+count-1) / count
		}
		buckets[i] = make([]T, 0, size)
	}

	for i, task := range tasks {
		b := i % count
		buckets[b] = append(buckets[b], task)
	}

	return buckets, nil
}
