package carrier

import (
	"time"

	"github.com/cjeanneret/irshutter/internal/debug"
	"github.com/cjeanneret/irshutter/internal/hw/gpio"
)

// PWM leaves the carrier to the hardware PWM peripheral and only switches it
// on and off at mark boundaries. Carrier accuracy then depends on the PWM
// clock, not on the scheduler.
type PWM struct {
	gpio  gpio.PWMDriver
	clock Clock
}

func NewPWM(g gpio.PWMDriver, clk Clock) *PWM {
	return &PWM{gpio: g, clock: clk}
}

func (b *PWM) Bind(pin int, carrierHz int) (Pulser, error) {
	if err := validFrequency(carrierHz); err != nil {
		return nil, err
	}
	if err := b.gpio.SetupPWM(pin, carrierHz); err != nil {
		return nil, err
	}
	debug.Verbose("Carrier: hardware PWM on pin %d at %d Hz", pin, carrierHz)
	return &pwmPulser{gpio: b.gpio, pin: pin, schedule: schedule{clock: b.clock}}, nil
}

type pwmPulser struct {
	gpio gpio.PWMDriver
	pin  int
	schedule
}

func (p *pwmPulser) BeginFrame() func() {
	p.begin()
	return p.end
}

func (p *pwmPulser) Mark(d time.Duration) error {
	start, end := p.next(d)
	p.clock.SpinUntil(start)
	if err := p.gpio.SetCarrier(p.pin, true); err != nil {
		return err
	}
	p.clock.SpinUntil(end)
	return p.gpio.SetCarrier(p.pin, false)
}

func (p *pwmPulser) Space(d time.Duration) error {
	_, end := p.next(d)
	p.clock.SpinUntil(end)
	return nil
}
