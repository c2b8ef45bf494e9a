//go:build linux

package cpu

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// Pin locks the calling goroutine to its OS thread and binds that thread to
// core slot % NumCPU. The returned func unlocks the thread; it must run on the
// same goroutine. Affinity failures (restricted cgroups, seccomp) leave the
// thread locked but unpinned.
func Pin(slot int) func() {
	runtime.LockOSThread()
	_ = setAffinity(slot % runtime.NumCPU())

	return runtime.UnlockOSThread
}

func setAffinity(core int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(core)

	// pid 0 targets the calling thread
	return unix.SchedSetaffinity(0, &set)
}
