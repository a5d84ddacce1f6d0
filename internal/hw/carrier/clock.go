package carrier

import "time"

// Clock is the time source edges are scheduled against.
type Clock interface {
	// Now returns monotonic time since an arbitrary origin.
	Now() time.Duration
	// SpinUntil returns once Now() >= t.
	SpinUntil(t time.Duration)
}

// spinMargin is how close to a deadline SpinClock stops sleeping and starts
// spinning. Go's timer slack is well under this on Linux.
const spinMargin = 2 * time.Millisecond

// SpinClock busy-waits on the runtime's monotonic clock. Waits longer than
// spinMargin sleep first, so long spaces do not burn a whole core.
type SpinClock struct {
	origin time.Time
}

func NewSpinClock() *SpinClock {
	return &SpinClock{origin: time.Now()}
}

func (c *SpinClock) Now() time.Duration {
	return time.Since(c.origin)
}

func (c *SpinClock) SpinUntil(t time.Duration) {
	if rest := t - c.Now(); rest > spinMargin {
		time.Sleep(rest - spinMargin)
	}
	for c.Now() < t {
	}
}
