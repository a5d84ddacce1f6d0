//go:build !linux

package carrier

import "runtime"

// pinThread only locks the OS thread; CPU affinity is Linux-specific.
func pinThread(cpu int) func() {
	runtime.LockOSThread()
	return runtime.UnlockOSThread
}
