package carrier

import (
	"time"

	"github.com/cjeanneret/irshutter/internal/debug"
	"github.com/cjeanneret/irshutter/internal/hw/gpio"
)

// BitBang produces the carrier in software by toggling a plain output pin.
// Every edge of a mark is placed at start + k*period/2, computed from the
// edge index, so rounding never accumulates over a burst.
type BitBang struct {
	gpio  gpio.Driver
	clock Clock
	cpu   int
}

// NewBitBang creates a software carrier backend. cpu < 0 disables CPU pinning.
func NewBitBang(g gpio.Driver, clk Clock, cpu int) *BitBang {
	return &BitBang{gpio: g, clock: clk, cpu: cpu}
}

func (b *BitBang) Bind(pin int, carrierHz int) (Pulser, error) {
	if err := validFrequency(carrierHz); err != nil {
		return nil, err
	}
	if err := b.gpio.SetupPin(pin, gpio.Output); err != nil {
		return nil, err
	}
	if err := b.gpio.WritePin(pin, gpio.Low); err != nil {
		return nil, err
	}
	debug.Verbose("Carrier: bit-bang on pin %d at %d Hz", pin, carrierHz)
	return &bitBangPulser{
		gpio:     b.gpio,
		pin:      pin,
		hz:       int64(carrierHz),
		cpu:      b.cpu,
		schedule: schedule{clock: b.clock},
	}, nil
}

type bitBangPulser struct {
	gpio gpio.Driver
	pin  int
	hz   int64
	cpu  int
	schedule
}

func (p *bitBangPulser) BeginFrame() func() {
	release := pinThread(p.cpu)
	p.begin()
	return func() {
		p.end()
		release()
	}
}

func (p *bitBangPulser) Mark(d time.Duration) error {
	start, end := p.next(d)
	for k := int64(0); ; k++ {
		edge := start + time.Duration(k*int64(time.Second)/(2*p.hz))
		if edge >= end {
			break
		}
		p.clock.SpinUntil(edge)
		level := gpio.High
		if k%2 == 1 {
			level = gpio.Low
		}
		if err := p.gpio.WritePin(p.pin, level); err != nil {
			_ = p.gpio.WritePin(p.pin, gpio.Low)
			return err
		}
	}
	p.clock.SpinUntil(end)
	return p.gpio.WritePin(p.pin, gpio.Low)
}

func (p *bitBangPulser) Space(d time.Duration) error {
	_, end := p.next(d)
	p.clock.SpinUntil(end)
	return nil
}
