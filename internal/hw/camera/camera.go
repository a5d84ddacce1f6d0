// Package camera drives cameras through their brands' IR remote protocols.
//
// Commands replay the original remotes' waveforms, so their relative lengths
// follow those remotes. On Canon, ShutterDelayed is shorter than ShutterNow:
// the RC-1 marks its 2 second delay with a shorter gap between the two
// bursts, not a longer waveform.
package camera

import (
	"github.com/cjeanneret/irshutter/internal/ir/protocol"
)

// Camera is the high-level interface used by the rest of the application.
// It represents a camera reached through its brand's IR remote protocol.
//
// The set of implementations is closed. Extra operations are exposed through
// the capability interfaces below, and only by the brands whose remote has
// them: a *Nikon has no ZoomIn method at all, and a Camera must be asserted to
// Zoomer before zooming.
//
// Transmission is open loop. Every method blocks until the full waveform has
// been sent and returns an error only when the local pin driver fails; a nil
// error does not mean the camera received the command.
type Camera interface {
	// ShutterNow fires the shutter immediately.
	ShutterNow() error
	Brand() protocol.Brand
	Pin() int

	sealed()
}

// DelayedShutter is implemented by remotes with a self-timer button.
type DelayedShutter interface {
	Camera
	ShutterDelayed() error
}

// Focuser is implemented by remotes that can toggle autofocus.
type Focuser interface {
	Camera
	ToggleFocus() error
}

// Zoomer is implemented by remotes with zoom buttons. pct is clamped to
// [0, 100]; 0 is one zoom step, 100 holds the button for the brand's full
// zoom range.
type Zoomer interface {
	Camera
	ZoomIn(pct int) error
	ZoomOut(pct int) error
}

// VideoToggler is implemented by remotes that start and stop recording.
type VideoToggler interface {
	Camera
	ToggleVideo() error
}

// Capabilities lists the commands cam exposes, in CommandID order.
func Capabilities(cam Camera) []protocol.CommandID {
	ids := []protocol.CommandID{protocol.Shutter}
	if _, ok := cam.(DelayedShutter); ok {
		ids = append(ids, protocol.ShutterDelayed)
	}
	if _, ok := cam.(Focuser); ok {
		ids = append(ids, protocol.Focus)
	}
	if _, ok := cam.(Zoomer); ok {
		ids = append(ids, protocol.ZoomIn, protocol.ZoomOut)
	}
	if _, ok := cam.(VideoToggler); ok {
		ids = append(ids, protocol.Video)
	}
	return ids
}
