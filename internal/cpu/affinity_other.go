//go:build !linux && !windows

package cpu

import "runtime"

// Pin locks the calling goroutine to its OS thread. Core pinning has no
// portable API here (macOS only offers affinity hints), so slot is ignored.
func Pin(slot int) func() {
	_ = slot
	runtime.LockOSThread()

	return runtime.UnlockOSThread
}
