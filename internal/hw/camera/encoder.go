package camera

import (
	"fmt"
	"time"

	"github.com/cjeanneret/irshutter/internal/debug"
	"github.com/cjeanneret/irshutter/internal/hw/carrier"
	"github.com/cjeanneret/irshutter/internal/ir/protocol"
)

// encoder plays a brand's commands on one pin. Every brand type embeds one.
type encoder struct {
	spec   protocol.Spec
	pin    int
	pulser carrier.Pulser
}

func newEncoder(b carrier.Backend, brand protocol.Brand, pin int) (encoder, error) {
	spec, err := protocol.Lookup(brand)
	if err != nil {
		return encoder{}, err
	}
	pulser, err := b.Bind(pin, spec.CarrierHz)
	if err != nil {
		return encoder{}, fmt.Errorf("bind %v to pin %d: %w", brand, pin, err)
	}
	debug.Info("Camera: %v on pin %d (carrier %d Hz)", brand, pin, spec.CarrierHz)
	return encoder{spec: spec, pin: pin, pulser: pulser}, nil
}

func (e *encoder) ShutterNow() error {
	return e.send(protocol.Shutter, 0)
}

func (e *encoder) Brand() protocol.Brand {
	return e.spec.Brand
}

func (e *encoder) Pin() int {
	return e.pin
}

func (e *encoder) sealed() {}

// send transmits command id: the frame Repeats times separated by Gap, then
// holds hold frames after HoldGap.
func (e *encoder) send(id protocol.CommandID, holds int) error {
	cmd, ok := e.spec.Command(id)
	if !ok {
		return fmt.Errorf("%v has no %v command", e.spec.Brand, id)
	}
	if holds > cmd.MaxHolds {
		holds = cmd.MaxHolds
	}

	debug.Command(e.spec.Brand.String(), id.String(), e.pin)
	debug.Verbose("Camera: %d repeat(s), %d hold(s), %v total",
		cmd.Repeats, holds, cmd.Duration(e.spec.Unit, holds))

	if f, ok := e.pulser.(carrier.Framer); ok {
		end := f.BeginFrame()
		defer end()
	}

	for r := 0; r < cmd.Repeats; r++ {
		if r > 0 {
			if err := e.pulser.Space(e.units(cmd.Gap)); err != nil {
				return err
			}
		}
		if err := e.play(cmd.Frame); err != nil {
			return err
		}
	}
	if holds == 0 {
		return nil
	}
	if err := e.pulser.Space(e.units(cmd.HoldGap)); err != nil {
		return err
	}
	for i := 0; i < holds; i++ {
		if err := e.play(cmd.Hold); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) play(frame []protocol.Pulse) error {
	for _, p := range frame {
		if err := e.pulser.Mark(e.units(p.Mark)); err != nil {
			return err
		}
		if p.Space == 0 {
			continue
		}
		if err := e.pulser.Space(e.units(p.Space)); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) units(n uint32) time.Duration {
	return time.Duration(n) * e.spec.Unit
}

// zoomHolds maps a zoom percentage to a hold frame count. pct is clamped to
// [0, 100] and scaled linearly onto [0, limit], rounding down.
func zoomHolds(pct, limit int) int {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct * limit / 100
}
