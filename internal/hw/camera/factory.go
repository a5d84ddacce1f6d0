package camera

import (
	"fmt"

	"github.com/cjeanneret/irshutter/internal/hw/carrier"
	"github.com/cjeanneret/irshutter/internal/ir/protocol"
)

// ErrUnknownBrand is returned by New for a brand outside the enumeration.
var ErrUnknownBrand = protocol.ErrUnknownBrand

type constructor func(b carrier.Backend, pin int) (Camera, error)

// erase adapts a typed constructor, keeping a failed construction a nil
// interface rather than a typed nil pointer.
func erase[T Camera](f func(carrier.Backend, int) (T, error)) constructor {
	return func(b carrier.Backend, pin int) (Camera, error) {
		c, err := f(b, pin)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

var constructors = map[protocol.Brand]constructor{
	protocol.Sony:         erase(NewSony),
	protocol.Nikon:        erase(NewNikon),
	protocol.Canon:        erase(NewCanon),
	protocol.CanonWLDC100: erase(NewCanonWLDC100),
	protocol.Pentax:       erase(NewPentax),
	protocol.Olympus:      erase(NewOlympus),
	protocol.Minolta:      erase(NewMinolta),
}

// New creates the camera for brand, transmitting on pin through b.
// The pin belongs to the returned camera; two cameras must not share one.
func New(b carrier.Backend, brand protocol.Brand, pin int) (Camera, error) {
	ctor, ok := constructors[brand]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownBrand, brand)
	}
	return ctor(b, pin)
}
