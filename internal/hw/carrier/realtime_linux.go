//go:build linux

package carrier

import (
	"runtime"

	"github.com/cjeanneret/irshutter/internal/debug"
	"golang.org/x/sys/unix"
)

// pinThread locks the goroutine to its OS thread and, when cpu >= 0, that
// thread to one CPU. The returned function restores both.
func pinThread(cpu int) func() {
	runtime.LockOSThread()
	if cpu < 0 {
		return runtime.UnlockOSThread
	}

	var prev, set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &prev); err != nil {
		debug.Verbose("Carrier: cannot read CPU affinity: %v", err)
		return runtime.UnlockOSThread
	}
	set.Zero()
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		debug.Verbose("Carrier: cannot pin to CPU %d: %v", cpu, err)
		return runtime.UnlockOSThread
	}
	debug.Trace("Carrier: transmitting thread pinned to CPU %d", cpu)

	return func() {
		_ = unix.SchedSetaffinity(0, &prev)
		runtime.UnlockOSThread()
	}
}
