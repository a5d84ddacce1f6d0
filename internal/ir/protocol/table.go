package protocol

import (
	"fmt"
	"sort"
	"time"
)

// Spec is the timing definition of one brand's remote.
type Spec struct {
	Brand     Brand
	CarrierHz int
	Unit      time.Duration // every Pulse, Gap and HoldGap is a multiple of Unit

	commands map[CommandID]Command
}

// Command returns a copy of the waveform for id, if the brand defines it.
func (s Spec) Command(id CommandID) (Command, bool) {
	c, ok := s.commands[id]
	if !ok {
		return Command{}, false
	}
	return c.clone(), true
}

// Commands lists the commands the brand defines, in CommandID order.
func (s Spec) Commands() []CommandID {
	ids := make([]CommandID, 0, len(s.commands))
	for id := range s.commands {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Lookup returns a copy of the brand's definition.
func Lookup(b Brand) (Spec, error) {
	s, ok := table[b]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %v", ErrUnknownBrand, b)
	}
	out := s
	out.commands = make(map[CommandID]Command, len(s.commands))
	for id, c := range s.commands {
		out.commands[id] = c.clone()
	}
	return out, nil
}

// Supports reports whether brand b defines command id.
func Supports(b Brand, id CommandID) bool {
	s, ok := table[b]
	if !ok {
		return false
	}
	_, ok = s.commands[id]
	return ok
}

// pulseDistance encodes bits in the length of the space after a fixed mark
// (NEC and relatives).
type pulseDistance struct {
	header    Pulse
	lead      uint32 // mark of the first bit
	mark      uint32
	zero, one uint32 // spaces
	stop      uint32 // trailing mark
}

func (e pulseDistance) encode(bits string) []Pulse {
	out := make([]Pulse, 0, len(bits)+2)
	out = append(out, e.header)
	for i, b := range bits {
		m := e.mark
		if i == 0 {
			m = e.lead
		}
		out = append(out, Pulse{Mark: m, Space: e.bit(b)})
	}
	return append(out, Pulse{Mark: e.stop})
}

func (e pulseDistance) bit(b rune) uint32 {
	switch b {
	case '0':
		return e.zero
	case '1':
		return e.one
	}
	panic(fmt.Sprintf("protocol: invalid bit %q", b))
}

// pulseWidth encodes bits in the length of the mark (Sony SIRC).
type pulseWidth struct {
	header    Pulse
	zero, one uint32 // marks
	space     uint32
}

func (e pulseWidth) encode(bits string) []Pulse {
	out := make([]Pulse, 0, len(bits)+1)
	out = append(out, e.header)
	for _, b := range bits {
		switch b {
		case '0':
			out = append(out, Pulse{Mark: e.zero, Space: e.space})
		case '1':
			out = append(out, Pulse{Mark: e.one, Space: e.space})
		default:
			panic(fmt.Sprintf("protocol: invalid bit %q", b))
		}
	}
	return out
}

func repeat(p Pulse, n int) []Pulse {
	out := make([]Pulse, n)
	for i := range out {
		out[i] = p
	}
	return out
}

func once(frame []Pulse) Command {
	return Command{Frame: frame, Repeats: 1}
}

var (
	olympusShutter = pulseDistance{
		header: Pulse{2243, 1096}, lead: 156, mark: 150, zero: 122, one: 400, stop: 150,
	}
	olympusZoom = pulseDistance{
		header: Pulse{2250, 1125}, lead: 125, mark: 125, zero: 125, one: 375, stop: 125,
	}
	wldc100 = pulseDistance{
		header: Pulse{9042, 4379}, lead: 612, mark: 612, zero: 512, one: 1621, stop: 599,
	}
	minolta = pulseDistance{
		header: Pulse{3750, 1890}, lead: 456, mark: 456, zero: 487, one: 1430, stop: 456,
	}
	sirc = pulseWidth{
		header: Pulse{464, 130}, zero: 115, one: 235, space: 130,
	}
)

// olympusZoomHolds is the number of hold frames a full-range zoom sends.
const olympusZoomHolds = 52

func olympusZoomCommand(bits string) Command {
	c := once(olympusZoom.encode(bits))
	c.Hold = []Pulse{{2250, 500}, {125, 24000}}
	c.HoldGap = 10000
	c.MaxHolds = olympusZoomHolds
	return c
}

// table is built once and never written afterwards.
var table = map[Brand]Spec{
	// Nikon ML-L3.
	Nikon: {
		Brand: Nikon, CarrierHz: 38400, Unit: 10 * time.Microsecond,
		commands: map[CommandID]Command{
			Shutter: once([]Pulse{{200, 2783}, {39, 158}, {41, 358}, {40, 0}}),
		},
	},
	// Canon RC-1: two ~16-cycle bursts, the gap selects immediate or 2 s delay.
	Canon: {
		Brand: Canon, CarrierHz: 32700, Unit: 10 * time.Microsecond,
		commands: map[CommandID]Command{
			Shutter:        once([]Pulse{{49, 733}, {49, 0}}),
			ShutterDelayed: once([]Pulse{{49, 536}, {49, 0}}),
		},
	},
	CanonWLDC100: {
		Brand: CanonWLDC100, CarrierHz: 38000, Unit: time.Microsecond,
		commands: map[CommandID]Command{
			Shutter: once(wldc100.encode("01010011100011100000000011111111")),
		},
	},
	Pentax: {
		Brand: Pentax, CarrierHz: 38000, Unit: time.Millisecond,
		commands: map[CommandID]Command{
			Shutter: once(append([]Pulse{{13, 3}}, repeat(Pulse{1, 1}, 7)...)),
			Focus: once(append(append([]Pulse{{13, 3}}, repeat(Pulse{1, 1}, 5)...),
				Pulse{1, 3}, Pulse{1, 0})),
		},
	},
	// Olympus RM-1, NEC framing.
	Olympus: {
		Brand: Olympus, CarrierHz: 40000, Unit: 4 * time.Microsecond,
		commands: map[CommandID]Command{
			Shutter: once(olympusShutter.encode("01100001110111001000000001111111")),
			ZoomIn:  olympusZoomCommand("01100001110111000100000010111111"),
			ZoomOut: olympusZoomCommand("01100001110111001100000000111111"),
		},
	},
	Minolta: {
		Brand: Minolta, CarrierHz: 38000, Unit: time.Microsecond,
		commands: map[CommandID]Command{
			Shutter:        once(minolta.encode("00101100010100111000001010000001")),
			ShutterDelayed: once(minolta.encode("00101100010100111000001110000000")),
		},
	},
	// Sony SIRC-20, sent three times.
	Sony: {
		Brand: Sony, CarrierHz: 40000, Unit: 5 * time.Microsecond,
		commands: map[CommandID]Command{
			Shutter:        {Frame: sirc.encode("10110100101110001111"), Repeats: 3, Gap: 2000},
			ShutterDelayed: {Frame: sirc.encode("11101100101110001111"), Repeats: 3, Gap: 2000},
			Video:          {Frame: sirc.encode("00010010101110001111"), Repeats: 3, Gap: 2000},
		},
	},
}
