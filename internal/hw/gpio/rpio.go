package gpio

import (
	"fmt"

	"github.com/cjeanneret/irshutter/internal/debug"
	"github.com/stianeikeland/go-rpio/v4"
)

// pwmCycle is the PWM range used for carrier output. The PWM clock runs at
// carrier*pwmCycle, which keeps 30-40 kHz carriers inside the clock's range.
const pwmCycle = 32

// RPiDriver is the real implementation for Raspberry Pi using go-rpio.
type RPiDriver struct {
	pins       map[int]rpio.Pin
	pwm        PWMAllocator
	pwmStarted bool
}

// NewRPiRealDriver creates a real GPIO driver for Raspberry Pi.
// Requires running on a Raspberry Pi with access to /dev/gpiomem or as root.
// Hardware PWM additionally requires /dev/mem (root).
func NewRPiRealDriver() (*RPiDriver, error) {
	debug.Info("Initializing real GPIO driver (go-rpio)")

	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("failed to open GPIO: %w (are you running on a Raspberry Pi?)", err)
	}

	debug.Verbose("GPIO memory mapped successfully")

	return &RPiDriver{
		pins: make(map[int]rpio.Pin),
	}, nil
}

func (r *RPiDriver) SetupPin(pin int, mode PinMode) error {
	debug.GPIO("SetupPin", pin, mode)

	p := rpio.Pin(pin)
	r.pins[pin] = p

	switch mode {
	case Input:
		p.Input()
	case Output:
		p.Output()
		p.Low()
	default:
		return fmt.Errorf("unknown pin mode: %d", mode)
	}

	return nil
}

// WritePin is on the carrier hot path and does not log.
func (r *RPiDriver) WritePin(pin int, level Level) error {
	p, ok := r.pins[pin]
	if !ok {
		// Pin not setup yet, setup as output
		if err := r.SetupPin(pin, Output); err != nil {
			return err
		}
		p = r.pins[pin]
	}

	if level == High {
		p.High()
	} else {
		p.Low()
	}

	return nil
}

func (r *RPiDriver) ReadPin(pin int) (Level, error) {
	debug.GPIO("ReadPin", pin, nil)

	p, ok := r.pins[pin]
	if !ok {
		// Pin not setup yet, setup as input
		if err := r.SetupPin(pin, Input); err != nil {
			return Low, err
		}
		p = r.pins[pin]
	}

	state := p.Read()
	if state == rpio.High {
		return High, nil
	}
	return Low, nil
}

// SetupPWM routes pin to the PWM peripheral. Only BCM 12, 13, 18 and 19 carry
// a PWM channel. The PWM clock is shared by all of them, so a setup that
// would retune a carrier already in use, or take a channel another pin
// drives, fails with ErrPWMConflict.
func (r *RPiDriver) SetupPWM(pin int, freqHz int) error {
	debug.GPIO("SetupPWM", pin, freqHz)

	if err := r.pwm.Claim(pin, freqHz); err != nil {
		return err
	}

	p := rpio.Pin(pin)
	p.Mode(rpio.Pwm)
	p.Freq(freqHz * pwmCycle)
	p.DutyCycle(0, pwmCycle)
	r.pins[pin] = p

	if !r.pwmStarted {
		rpio.StartPwm()
		r.pwmStarted = true
	}
	return nil
}

func (r *RPiDriver) SetCarrier(pin int, on bool) error {
	if !r.pwm.Owns(pin) {
		return fmt.Errorf("pin %d is not set up for PWM", pin)
	}
	p := r.pins[pin]
	if on {
		p.DutyCycle(pwmCycle/2, pwmCycle)
	} else {
		p.DutyCycle(0, pwmCycle)
	}
	return nil
}

func (r *RPiDriver) Close() error {
	debug.Trace("GPIO Close (real driver)")

	if r.pwmStarted {
		rpio.StopPwm()
	}

	// Reset all pins to input (safe state)
	for pin, p := range r.pins {
		debug.Verbose("Resetting pin %d to input", pin)
		p.Input()
	}

	return rpio.Close()
}
