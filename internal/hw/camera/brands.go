package camera

import (
	"github.com/cjeanneret/irshutter/internal/hw/carrier"
	"github.com/cjeanneret/irshutter/internal/ir/protocol"
)

// Sony speaks SIRC-20 at 40 kHz; each command is sent three times.
type Sony struct{ encoder }

func NewSony(b carrier.Backend, pin int) (*Sony, error) {
	e, err := newEncoder(b, protocol.Sony, pin)
	if err != nil {
		return nil, err
	}
	return &Sony{e}, nil
}

// ShutterDelayed fires after the camera's self-timer delay.
func (c *Sony) ShutterDelayed() error { return c.send(protocol.ShutterDelayed, 0) }

// ToggleVideo starts or stops movie recording.
func (c *Sony) ToggleVideo() error { return c.send(protocol.Video, 0) }

// Nikon emulates the ML-L3 remote.
type Nikon struct{ encoder }

func NewNikon(b carrier.Backend, pin int) (*Nikon, error) {
	e, err := newEncoder(b, protocol.Nikon, pin)
	if err != nil {
		return nil, err
	}
	return &Nikon{e}, nil
}

// Canon emulates the RC-1 remote.
type Canon struct{ encoder }

func NewCanon(b carrier.Backend, pin int) (*Canon, error) {
	e, err := newEncoder(b, protocol.Canon, pin)
	if err != nil {
		return nil, err
	}
	return &Canon{e}, nil
}

// ShutterDelayed fires after the RC-1's 2 second delay. Its waveform is
// shorter than ShutterNow's: only the gap between the two bursts differs.
func (c *Canon) ShutterDelayed() error { return c.send(protocol.ShutterDelayed, 0) }

// CanonWLDC100 emulates the WL-DC100 remote of PowerShot cameras.
type CanonWLDC100 struct{ encoder }

func NewCanonWLDC100(b carrier.Backend, pin int) (*CanonWLDC100, error) {
	e, err := newEncoder(b, protocol.CanonWLDC100, pin)
	if err != nil {
		return nil, err
	}
	return &CanonWLDC100{e}, nil
}

type Pentax struct{ encoder }

func NewPentax(b carrier.Backend, pin int) (*Pentax, error) {
	e, err := newEncoder(b, protocol.Pentax, pin)
	if err != nil {
		return nil, err
	}
	return &Pentax{e}, nil
}

func (c *Pentax) ToggleFocus() error { return c.send(protocol.Focus, 0) }

// Olympus emulates the RM-1 remote. Zooming sends the button's NEC frame
// followed by up to 52 repeat frames, which the camera reads as a held
// button.
type Olympus struct{ encoder }

func NewOlympus(b carrier.Backend, pin int) (*Olympus, error) {
	e, err := newEncoder(b, protocol.Olympus, pin)
	if err != nil {
		return nil, err
	}
	return &Olympus{e}, nil
}

func (c *Olympus) ZoomIn(pct int) error  { return c.zoom(protocol.ZoomIn, pct) }
func (c *Olympus) ZoomOut(pct int) error { return c.zoom(protocol.ZoomOut, pct) }

func (c *Olympus) zoom(id protocol.CommandID, pct int) error {
	cmd, _ := c.spec.Command(id)
	return c.send(id, zoomHolds(pct, cmd.MaxHolds))
}

type Minolta struct{ encoder }

func NewMinolta(b carrier.Backend, pin int) (*Minolta, error) {
	e, err := newEncoder(b, protocol.Minolta, pin)
	if err != nil {
		return nil, err
	}
	return &Minolta{e}, nil
}

func (c *Minolta) ShutterDelayed() error { return c.send(protocol.ShutterDelayed, 0) }

var (
	_ DelayedShutter = (*Sony)(nil)
	_ VideoToggler   = (*Sony)(nil)
	_ Camera         = (*Nikon)(nil)
	_ DelayedShutter = (*Canon)(nil)
	_ Camera         = (*CanonWLDC100)(nil)
	_ Focuser        = (*Pentax)(nil)
	_ Zoomer         = (*Olympus)(nil)
	_ DelayedShutter = (*Minolta)(nil)
)
