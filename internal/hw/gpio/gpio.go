package gpio

import (
	"github.com/cjeanneret/irshutter/internal/debug"
)

// Level represents the logical state of a GPIO pin.
type Level bool

const (
	Low  Level = false
	High Level = true
)

// PinMode indicates whether a GPIO is input or output.
type PinMode int

const (
	Input PinMode = iota
	Output
)

// Driver defines the abstract interface for controlling GPIOs.
// This allows plugging in a real Raspberry Pi implementation
// or a mock for development on PC.
type Driver interface {
	SetupPin(pin int, mode PinMode) error
	WritePin(pin int, level Level) error
	ReadPin(pin int) (Level, error)
	Close() error
}

// PWMDriver is a Driver with a hardware PWM peripheral.
// SetupPWM configures pin to emit a square wave at freqHz once enabled;
// SetCarrier switches the wave on (50% duty) or off (0% duty).
type PWMDriver interface {
	Driver
	SetupPWM(pin int, freqHz int) error
	SetCarrier(pin int, on bool) error
}

// MockDriver is a test implementation that simply logs actions.
// Used for development on PC or testing. PWM setups are still checked
// against the shared PWM clock and channels, as on the real board.
type MockDriver struct {
	pwm PWMAllocator
}

// NewDriver creates a GPIO driver based on the chosen mode.
// If mock is true, returns a MockDriver (for dev/test).
// If mock is false, returns a real RPiDriver (for Raspberry Pi).
func NewDriver(mock bool) (PWMDriver, error) {
	if mock {
		debug.Info("Using MOCK GPIO driver (development mode)")
		return &MockDriver{}, nil
	}
	return NewRPiRealDriver()
}

func (m *MockDriver) SetupPin(pin int, mode PinMode) error {
	debug.GPIO("SetupPin", pin, mode)
	return nil
}

func (m *MockDriver) WritePin(pin int, level Level) error {
	debug.GPIO("WritePin", pin, level)
	return nil
}

func (m *MockDriver) ReadPin(pin int) (Level, error) {
	debug.GPIO("ReadPin", pin, nil)
	return Low, nil
}

func (m *MockDriver) SetupPWM(pin int, freqHz int) error {
	debug.GPIO("SetupPWM", pin, freqHz)
	return m.pwm.Claim(pin, freqHz)
}

func (m *MockDriver) SetCarrier(pin int, on bool) error {
	debug.GPIO("SetCarrier", pin, on)
	return nil
}

func (m *MockDriver) Close() error {
	debug.Trace("GPIO Close (mock)")
	return nil
}
