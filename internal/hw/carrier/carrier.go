// Package carrier generates IR carrier bursts on a GPIO pin.
//
// A mark oscillates the pin at the carrier frequency, a space holds it low.
// Both block the calling goroutine for their full duration. Nothing is
// reported back from the receiving camera: a nil error only means the local
// pin driver accepted every write, and timing that drifts outside the
// receiver's tolerance goes unnoticed.
package carrier

import (
	"fmt"
	"time"

	"github.com/cjeanneret/irshutter/internal/hw/gpio"
)

// Pulser drives one pin at one carrier frequency.
type Pulser interface {
	Mark(d time.Duration) error
	Space(d time.Duration) error
}

// Framer is implemented by pulsers that schedule a whole waveform as one
// unit. BeginFrame returns the function that ends it.
type Framer interface {
	BeginFrame() (end func())
}

// Backend binds pins to pulsers.
type Backend interface {
	Bind(pin int, carrierHz int) (Pulser, error)
}

// Backend names accepted by NewBackend.
const (
	KindBitBang = "bitbang"
	KindPWM     = "pwm"
)

// NewBackend builds the backend named kind. cpu pins bit-bang transmissions
// to one CPU; a negative value leaves scheduling to the OS.
func NewBackend(kind string, drv gpio.PWMDriver, clk Clock, cpu int) (Backend, error) {
	switch kind {
	case KindBitBang, "":
		return NewBitBang(drv, clk, cpu), nil
	case KindPWM:
		return NewPWM(drv, clk), nil
	default:
		return nil, fmt.Errorf("unknown carrier backend %q", kind)
	}
}

// schedule keeps edges on absolute deadlines inside a frame so that late
// writes do not push back the rest of the waveform.
type schedule struct {
	clock  Clock
	cursor time.Duration
	framed bool
}

func (s *schedule) begin() {
	s.cursor = s.clock.Now()
	s.framed = true
}

func (s *schedule) end() {
	s.framed = false
}

func (s *schedule) next(d time.Duration) (start, end time.Duration) {
	if !s.framed {
		s.cursor = s.clock.Now()
	}
	start = s.cursor
	s.cursor += d
	return start, s.cursor
}

func validFrequency(hz int) error {
	if hz <= 0 {
		return fmt.Errorf("invalid carrier frequency: %d Hz", hz)
	}
	return nil
}
