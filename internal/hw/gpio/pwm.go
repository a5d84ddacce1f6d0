package gpio

import (
	"errors"
	"fmt"
)

// ErrPWMConflict is returned when a PWM setup would disturb a pin that is
// already emitting a carrier.
var ErrPWMConflict = errors.New("PWM conflict")

// PWMChannel returns the hardware PWM channel behind a BCM pin. Pins 12 and
// 18 share channel 0, pins 13 and 19 share channel 1.
func PWMChannel(pin int) (int, bool) {
	switch pin {
	case 12, 18:
		return 0, true
	case 13, 19:
		return 1, true
	}
	return 0, false
}

// PWMAllocator hands out the PWM peripheral. Both channels run from a single
// clock, so every PWM pin must use the same carrier frequency, and a channel
// drives at most one pin. The zero value is ready to use.
type PWMAllocator struct {
	hz    int
	owner map[int]int // channel -> pin
}

// Claim reserves pin's channel at freqHz. Claiming the same pin again at the
// same frequency is allowed.
func (a *PWMAllocator) Claim(pin int, freqHz int) error {
	ch, ok := PWMChannel(pin)
	if !ok {
		return fmt.Errorf("pin %d has no hardware PWM channel (use 12, 13, 18 or 19)", pin)
	}
	if freqHz <= 0 {
		return fmt.Errorf("invalid carrier frequency: %d Hz", freqHz)
	}
	if a.hz != 0 && a.hz != freqHz {
		return fmt.Errorf("%w: PWM clock already set for %d Hz, pin %d wants %d Hz",
			ErrPWMConflict, a.hz, pin, freqHz)
	}
	if owner, taken := a.owner[ch]; taken && owner != pin {
		return fmt.Errorf("%w: PWM channel %d already drives pin %d, pin %d shares it",
			ErrPWMConflict, ch, owner, pin)
	}
	if a.owner == nil {
		a.owner = make(map[int]int)
	}
	a.owner[ch] = pin
	a.hz = freqHz
	return nil
}

// Owns reports whether pin holds its PWM channel.
func (a *PWMAllocator) Owns(pin int) bool {
	ch, ok := PWMChannel(pin)
	if !ok {
		return false
	}
	owner, taken := a.owner[ch]
	return taken && owner == pin
}
