//go:build windows

package cpu

import (
	"runtime"

	"golang.org/x/sys/windows"
)

var (
	kernel32              = windows.NewLazySystemDLL("kernel32.dll")
	procSetThreadAffinity = kernel32.NewProc("SetThreadAffinityMask")
	procGetCurrentThread  = kernel32.NewProc("GetCurrentThread")
)

// Pin locks the calling goroutine to its OS thread and restricts that thread
// to core slot % NumCPU. The returned func unlocks the thread.
func Pin(slot int) func() {
	runtime.LockOSThread()
	_ = setAffinity(slot % runtime.NumCPU())

	return runtime.UnlockOSThread
}

func setAffinity(core int) error {
	if err := procSetThreadAffinity.Find(); err != nil {
		return err
	}

	thread, _, _ := procGetCurrentThread.Call()
	prev, _, err := procSetThreadAffinity.Call(thread, uintptr(1)<<uint(core))
	if prev == 0 {
		return err
	}
	return nil
}
