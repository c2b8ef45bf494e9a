// Package cpu exposes processor topology helpers used to size worker pools
// and to pin worker goroutines to cores.
package cpu

import (
	"math"
	"runtime"
)

// Count returns floor(NumCPU * ratio). The result may be zero on hosts with
// few cores and a ratio below one; callers decide how to treat that.
func Count(ratio float64) int {
	if ratio <= 0 {
		return 0
	}
	// 2.0/3 is not exact in binary; nudge so 3 CPUs at 2/3 give 2, not 1.
	return int(math.Floor(float64(runtime.NumCPU())*ratio + 1e-9))
}
