package protocol

import (
	"fmt"
	"strings"
	"time"
)

// CommandID names a remote-control operation.
type CommandID int

const (
	Shutter CommandID = iota
	ShutterDelayed
	Focus
	ZoomIn
	ZoomOut
	Video
)

var commandNames = [...]string{
	Shutter:        "shutter",
	ShutterDelayed: "delayed",
	Focus:          "focus",
	ZoomIn:         "zoomin",
	ZoomOut:        "zoomout",
	Video:          "video",
}

func (c CommandID) String() string {
	if c < Shutter || c > Video {
		return fmt.Sprintf("command(%d)", int(c))
	}
	return commandNames[c]
}

// ParseCommand converts a CLI name to a CommandID.
func ParseCommand(s string) (CommandID, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range commandNames {
		if n == name {
			return CommandID(i), nil
		}
	}
	return 0, fmt.Errorf("unknown command %q", s)
}

// Pulse is one mark followed by one space, both in brand units.
// A zero Space ends the frame on the mark.
type Pulse struct {
	Mark  uint32
	Space uint32
}

// Command is the waveform for one operation.
type Command struct {
	Frame   []Pulse
	Repeats int    // full frame transmissions, >= 1
	Gap     uint32 // idle units between repeats

	// Hold is a continuation frame sent after the main frame, as a held
	// button does on NEC remotes. Only zoom commands define one.
	Hold     []Pulse
	HoldGap  uint32 // idle units before the first hold frame
	MaxHolds int
}

// Bursts returns the number of marks in one transmission with n hold frames.
func (c Command) Bursts(n int) int {
	return c.Repeats*len(c.Frame) + n*len(c.Hold)
}

// Duration returns the total signal time of one transmission with n hold
// frames, trailing idle included.
func (c Command) Duration(unit time.Duration, n int) time.Duration {
	var units uint64
	frame := frameUnits(c.Frame)
	units += uint64(c.Repeats) * frame
	if c.Repeats > 1 {
		units += uint64(c.Repeats-1) * uint64(c.Gap)
	}
	if n > 0 {
		units += uint64(c.HoldGap) + uint64(n)*frameUnits(c.Hold)
	}
	return time.Duration(units) * unit
}

// MarkTime returns the summed mark time of a single frame.
func (c Command) MarkTime(unit time.Duration) time.Duration {
	var units uint64
	for _, p := range c.Frame {
		units += uint64(p.Mark)
	}
	return time.Duration(units) * unit
}

func frameUnits(f []Pulse) uint64 {
	var units uint64
	for _, p := range f {
		units += uint64(p.Mark) + uint64(p.Space)
	}
	return units
}

func (c Command) clone() Command {
	out := c
	out.Frame = append([]Pulse(nil), c.Frame...)
	if c.Hold != nil {
		out.Hold = append([]Pulse(nil), c.Hold...)
	}
	return out
}
