// Package probe captures the pin activity of a transmission on virtual time
// and measures it: burst layout, total mark time and carrier frequency.
//
// A Probe is both a gpio.PWMDriver and a carrier.Clock. Waiting on it only
// advances its virtual clock, so a waveform of several seconds is captured
// instantly and with exact edge times.
package probe

import (
	"errors"
	"time"

	"github.com/cjeanneret/irshutter/internal/hw/gpio"
)

// Edge is a level change on a pin.
type Edge struct {
	At    time.Duration
	Pin   int
	Level gpio.Level
}

// Probe records level changes per pin.
type Probe struct {
	now    time.Duration
	edges  []Edge
	levels map[int]gpio.Level
	pwm    gpio.PWMAllocator
	pwmHz  map[int]int
	pwmOn  map[int]time.Duration
	writes int

	// FailWrites makes every write after the first FailWrites return
	// ErrInjected. Zero disables it.
	FailWrites int
}

// ErrInjected is returned by writes past Probe.FailWrites.
var ErrInjected = errors.New("probe: injected write failure")

func New() *Probe {
	return &Probe{
		levels: make(map[int]gpio.Level),
		pwmHz:  make(map[int]int),
		pwmOn:  make(map[int]time.Duration),
	}
}

// Now returns the virtual time.
func (p *Probe) Now() time.Duration {
	return p.now
}

// SpinUntil advances the virtual time to t.
func (p *Probe) SpinUntil(t time.Duration) {
	if t > p.now {
		p.now = t
	}
}

// Advance moves the virtual time forward by d.
func (p *Probe) Advance(d time.Duration) {
	p.now += d
}

func (p *Probe) SetupPin(pin int, mode gpio.PinMode) error {
	return nil
}

func (p *Probe) WritePin(pin int, level gpio.Level) error {
	p.writes++
	if p.FailWrites > 0 && p.writes > p.FailWrites {
		return ErrInjected
	}
	p.record(pin, level, p.now)
	return nil
}

func (p *Probe) ReadPin(pin int) (gpio.Level, error) {
	return p.levels[pin], nil
}

// SetupPWM follows the board's PWM layout: only PWM-capable pins, one pin
// per channel and a single clock frequency.
func (p *Probe) SetupPWM(pin int, freqHz int) error {
	if err := p.pwm.Claim(pin, freqHz); err != nil {
		return err
	}
	p.pwmHz[pin] = freqHz
	return nil
}

// SetCarrier expands the hardware carrier into individual edges when it is
// switched off, as a logic analyzer on the pin would see it.
func (p *Probe) SetCarrier(pin int, on bool) error {
	hz, ok := p.pwmHz[pin]
	if !ok {
		return errors.New("probe: pin not set up for PWM")
	}
	p.writes++
	if p.FailWrites > 0 && p.writes > p.FailWrites {
		return ErrInjected
	}
	if on {
		p.pwmOn[pin] = p.now
		return nil
	}
	start, ok := p.pwmOn[pin]
	if !ok {
		return nil
	}
	delete(p.pwmOn, pin)
	for k := int64(0); ; k++ {
		at := start + time.Duration(k*int64(time.Second)/(2*int64(hz)))
		if at >= p.now {
			break
		}
		p.record(pin, gpio.Level(k%2 == 0), at)
	}
	p.record(pin, gpio.Low, p.now)
	return nil
}

func (p *Probe) Close() error {
	return nil
}

func (p *Probe) record(pin int, level gpio.Level, at time.Duration) {
	if p.levels[pin] == level {
		return
	}
	p.levels[pin] = level
	p.edges = append(p.edges, Edge{At: at, Pin: pin, Level: level})
}

// Edges returns the level changes recorded on pin.
func (p *Probe) Edges(pin int) []Edge {
	var out []Edge
	for _, e := range p.edges {
		if e.Pin == pin {
			out = append(out, e)
		}
	}
	return out
}

// Pins returns the pins that saw at least one edge.
func (p *Probe) Pins() []int {
	seen := make(map[int]bool)
	var out []int
	for _, e := range p.edges {
		if !seen[e.Pin] {
			seen[e.Pin] = true
			out = append(out, e.Pin)
		}
	}
	return out
}

// Reset drops recorded edges. Virtual time keeps running.
func (p *Probe) Reset() {
	p.edges = nil
}
