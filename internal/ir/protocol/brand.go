package protocol

import (
	"errors"
	"fmt"
	"strings"
)

// Brand identifies a camera vendor whose IR remote protocol is supported.
type Brand int

const (
	Sony Brand = iota
	Nikon
	Canon
	CanonWLDC100
	Pentax
	Olympus
	Minolta
)

// ErrUnknownBrand is returned when a brand identifier is not in the table.
var ErrUnknownBrand = errors.New("unknown camera brand")

var brandNames = [...]string{
	Sony:         "sony",
	Nikon:        "nikon",
	Canon:        "canon",
	CanonWLDC100: "canon_wldc100",
	Pentax:       "pentax",
	Olympus:      "olympus",
	Minolta:      "minolta",
}

// Brands returns every supported brand in declaration order.
func Brands() []Brand {
	return []Brand{Sony, Nikon, Canon, CanonWLDC100, Pentax, Olympus, Minolta}
}

// Valid reports whether b is a member of the enumeration.
func (b Brand) Valid() bool {
	return b >= Sony && b <= Minolta
}

func (b Brand) String() string {
	if !b.Valid() {
		return fmt.Sprintf("brand(%d)", int(b))
	}
	return brandNames[b]
}

// ParseBrand converts a config or CLI name ("nikon", "Canon-WLDC100", ...) to a Brand.
func ParseBrand(s string) (Brand, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.ReplaceAll(name, "-", "_")
	if name == "wldc100" {
		return CanonWLDC100, nil
	}
	for i, n := range brandNames {
		if n == name {
			return Brand(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBrand, s)
}
