package camera

import (
	"errors"
	"testing"
	"time"

	"github.com/cjeanneret/irshutter/internal/hw/carrier"
	"github.com/cjeanneret/irshutter/internal/hw/gpio"
	"github.com/cjeanneret/irshutter/internal/ir/probe"
	"github.com/cjeanneret/irshutter/internal/ir/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingBackend hands out pulsers that record marks and spaces.
type recordingBackend struct {
	pulser *recordingPulser
	bound  []int
	err    error
}

type segment struct {
	mark bool
	d    time.Duration
}

type recordingPulser struct {
	hz       int
	segments []segment
	frames   int
	framed   bool
}

func (b *recordingBackend) Bind(pin int, carrierHz int) (carrier.Pulser, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.bound = append(b.bound, pin)
	b.pulser = &recordingPulser{hz: carrierHz}
	return b.pulser, nil
}

func (p *recordingPulser) Mark(d time.Duration) error {
	p.segments = append(p.segments, segment{mark: true, d: d})
	return nil
}

func (p *recordingPulser) Space(d time.Duration) error {
	p.segments = append(p.segments, segment{d: d})
	return nil
}

func (p *recordingPulser) BeginFrame() func() {
	p.frames++
	p.framed = true
	return func() { p.framed = false }
}

func (p *recordingPulser) marks() int {
	n := 0
	for _, s := range p.segments {
		if s.mark {
			n++
		}
	}
	return n
}

func (p *recordingPulser) total() time.Duration {
	var d time.Duration
	for _, s := range p.segments {
		d += s.d
	}
	return d
}

// newProbed returns a camera on the bit-bang backend driving a probe.
func newProbed(t *testing.T, brand protocol.Brand, pin int) (Camera, *probe.Probe) {
	t.Helper()
	p := probe.New()
	cam, err := New(carrier.NewBitBang(p, p, -1), brand, pin)
	require.NoError(t, err)
	return cam, p
}

func TestNew_EveryBrand(t *testing.T) {
	for _, b := range protocol.Brands() {
		rb := &recordingBackend{}
		cam, err := New(rb, b, 17)
		require.NoError(t, err, b.String())
		assert.Equal(t, b, cam.Brand())
		assert.Equal(t, 17, cam.Pin())
		assert.Equal(t, []int{17}, rb.bound)

		spec, _ := protocol.Lookup(b)
		assert.Equal(t, spec.CarrierHz, rb.pulser.hz, "%v carrier", b)
	}
}

func TestNew_UnknownBrand(t *testing.T) {
	cam, err := New(&recordingBackend{}, protocol.Brand(99), 3)
	assert.Nil(t, cam)
	assert.True(t, errors.Is(err, ErrUnknownBrand))
}

func TestNew_BindErrorGivesNilCamera(t *testing.T) {
	boom := errors.New("no such pin")
	cam, err := New(&recordingBackend{err: boom}, protocol.Nikon, 3)
	assert.True(t, cam == nil, "failed construction must return a nil interface")
	assert.ErrorIs(t, err, boom)
}

func TestCapabilities_ExactPerBrand(t *testing.T) {
	for _, b := range protocol.Brands() {
		cam, err := New(&recordingBackend{}, b, 3)
		require.NoError(t, err)
		spec, _ := protocol.Lookup(b)
		assert.Equal(t, spec.Commands(), Capabilities(cam), b.String())
	}
}

func TestCapabilities_PerBrand(t *testing.T) {
	olympus, _ := New(&recordingBackend{}, protocol.Olympus, 3)
	_, zoom := olympus.(Zoomer)
	_, video := olympus.(VideoToggler)
	assert.True(t, zoom, "olympus zooms")
	assert.False(t, video, "olympus has no video button")

	sony, _ := New(&recordingBackend{}, protocol.Sony, 3)
	_, zoom = sony.(Zoomer)
	_, video = sony.(VideoToggler)
	assert.False(t, zoom, "sony remote has no zoom")
	assert.True(t, video, "sony toggles video")

	nikon, _ := New(&recordingBackend{}, protocol.Nikon, 3)
	assert.Equal(t, []protocol.CommandID{protocol.Shutter}, Capabilities(nikon))
}

func TestShutterNow_PlaysTableFrame(t *testing.T) {
	rb := &recordingBackend{}
	cam, err := NewNikon(rb, 3)
	require.NoError(t, err)
	require.NoError(t, cam.ShutterNow())

	want := []segment{
		{true, 2000 * time.Microsecond}, {false, 27830 * time.Microsecond},
		{true, 390 * time.Microsecond}, {false, 1580 * time.Microsecond},
		{true, 410 * time.Microsecond}, {false, 3580 * time.Microsecond},
		{true, 400 * time.Microsecond},
	}
	assert.Equal(t, want, rb.pulser.segments)
	assert.Equal(t, 1, rb.pulser.frames)
	assert.False(t, rb.pulser.framed, "frame must be ended")
}

func TestSony_RepeatsWithGap(t *testing.T) {
	rb := &recordingBackend{}
	cam, err := NewSony(rb, 3)
	require.NoError(t, err)
	require.NoError(t, cam.ShutterNow())

	spec, _ := protocol.Lookup(protocol.Sony)
	cmd, _ := spec.Command(protocol.Shutter)
	assert.Equal(t, 63, rb.pulser.marks())
	assert.Equal(t, cmd.Duration(spec.Unit, 0), rb.pulser.total())

	// Gap sits between repeats only.
	gaps := 0
	for _, s := range rb.pulser.segments {
		if !s.mark && s.d == 10*time.Millisecond {
			gaps++
		}
	}
	assert.Equal(t, 2, gaps)
}

func TestSony_CommandsDistinct(t *testing.T) {
	record := func(f func(*Sony) error) []segment {
		rb := &recordingBackend{}
		cam, err := NewSony(rb, 3)
		require.NoError(t, err)
		require.NoError(t, f(cam))
		return rb.pulser.segments
	}
	now := record((*Sony).ShutterNow)
	delayed := record((*Sony).ShutterDelayed)
	video := record((*Sony).ToggleVideo)
	assert.NotEqual(t, now, delayed)
	assert.NotEqual(t, now, video)
	assert.NotEqual(t, delayed, video)
}

func TestPentax_ToggleFocus(t *testing.T) {
	rb := &recordingBackend{}
	cam, err := NewPentax(rb, 3)
	require.NoError(t, err)
	require.NoError(t, cam.ToggleFocus())
	assert.Equal(t, 8, rb.pulser.marks())
	assert.Equal(t, 13*time.Millisecond, rb.pulser.segments[0].d)
}

func TestMinolta_DelayedDistinct(t *testing.T) {
	rb := &recordingBackend{}
	cam, err := NewMinolta(rb, 3)
	require.NoError(t, err)
	require.NoError(t, cam.ShutterNow())
	now := rb.pulser.segments
	rb.pulser.segments = nil
	require.NoError(t, cam.ShutterDelayed())
	assert.Len(t, rb.pulser.segments, len(now))
	assert.NotEqual(t, now, rb.pulser.segments)
}

func TestZoomHolds(t *testing.T) {
	cases := []struct {
		pct, want int
	}{
		{-5, 0}, {0, 0}, {1, 0}, {2, 1}, {50, 26}, {99, 51}, {100, 52}, {250, 52},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, zoomHolds(tc.pct, 52), "pct=%d", tc.pct)
	}
	prev := 0
	for pct := 0; pct <= 100; pct++ {
		h := zoomHolds(pct, 52)
		assert.GreaterOrEqual(t, h, prev, "monotonic at %d", pct)
		prev = h
	}
}

func TestOlympus_ZoomBoundaries(t *testing.T) {
	spec, _ := protocol.Lookup(protocol.Olympus)
	cmd, _ := spec.Command(protocol.ZoomIn)

	zoom := func(pct int) *recordingPulser {
		rb := &recordingBackend{}
		cam, err := NewOlympus(rb, 3)
		require.NoError(t, err)
		require.NoError(t, cam.ZoomIn(pct))
		return rb.pulser
	}

	zero := zoom(0)
	assert.Equal(t, 34, zero.marks(), "pct 0 is a single zoom frame")
	assert.Equal(t, cmd.Duration(spec.Unit, 0), zero.total())

	full := zoom(100)
	assert.Equal(t, 34+52*2, full.marks())
	assert.Equal(t, cmd.Duration(spec.Unit, 52), full.total())

	assert.Equal(t, full.segments, zoom(1000).segments, "above 100 is clamped")
	assert.Equal(t, zero.segments, zoom(-3).segments, "below 0 is clamped")
}

func TestOlympus_ZoomOutDiffersFromZoomIn(t *testing.T) {
	rb := &recordingBackend{}
	cam, err := NewOlympus(rb, 3)
	require.NoError(t, err)
	require.NoError(t, cam.ZoomIn(10))
	in := rb.pulser.segments
	rb.pulser.segments = nil
	require.NoError(t, cam.ZoomOut(10))
	assert.Len(t, rb.pulser.segments, len(in))
	assert.NotEqual(t, in, rb.pulser.segments)
}

func TestShutterNow_WaveformPerBrand(t *testing.T) {
	for _, b := range protocol.Brands() {
		t.Run(b.String(), func(t *testing.T) {
			cam, p := newProbed(t, b, 3)
			require.NoError(t, cam.ShutterNow())

			spec, _ := protocol.Lookup(b)
			cmd, _ := spec.Command(protocol.Shutter)
			r := probe.Analyze(p.Edges(3))

			assert.Len(t, r.Bursts, cmd.Bursts(0))
			assert.True(t, probe.Within(r.CarrierHz, float64(spec.CarrierHz), 0.02),
				"carrier %.0f Hz, want %d", r.CarrierHz, spec.CarrierHz)
			assert.True(t, probe.Within(r.SpectralHz, float64(spec.CarrierHz), 0.02),
				"spectral peak %.0f Hz, want %d", r.SpectralHz, spec.CarrierHz)

			// A burst may end up to half a carrier period early. Round the
			// half period up so exact multiples are not short by a nanosecond.
			hz := time.Duration(2 * spec.CarrierHz)
			halfPeriod := (time.Second + hz - 1) / hz
			want := time.Duration(cmd.Repeats) * cmd.MarkTime(spec.Unit)
			slack := time.Duration(len(r.Bursts)) * halfPeriod
			assert.LessOrEqual(t, r.MarkTime, want)
			assert.GreaterOrEqual(t, r.MarkTime, want-slack)
		})
	}
}

func TestNikonPin3_Scenario(t *testing.T) {
	cam, p := newProbed(t, protocol.Nikon, 3)
	require.NoError(t, cam.ShutterNow())

	assert.Empty(t, p.Edges(4), "only the bound pin is driven")
	r := probe.Analyze(p.Edges(3))
	require.Len(t, r.Bursts, 4)
	assert.True(t, probe.Within(r.CarrierHz, 38000, 0.02), "carrier %.0f Hz", r.CarrierHz)
	assert.InDelta(t, 2000, r.Bursts[0].Length().Microseconds(), 27)
	assert.Greater(t, r.Duration, 30*time.Millisecond)
	assert.Less(t, r.Duration, 40*time.Millisecond)
}

func TestCanonDelayed_Scenario(t *testing.T) {
	cam, p := newProbed(t, protocol.Canon, 3)
	canon := cam.(DelayedShutter)

	require.NoError(t, canon.ShutterNow())
	now := probe.Analyze(p.Edges(3))
	p.Reset()
	p.Advance(100 * time.Millisecond)
	require.NoError(t, canon.ShutterDelayed())
	delayed := probe.Analyze(p.Edges(3))

	require.Len(t, now.Bursts, 2)
	require.Len(t, delayed.Bursts, 2)
	assert.Less(t, delayed.Duration, now.Duration, "the RC-1 delayed code is the shorter one")
	assert.InDelta(t, 7330, (now.Bursts[1].Start - now.Bursts[0].End).Microseconds(), 30)
	assert.InDelta(t, 5360, (delayed.Bursts[1].Start - delayed.Bursts[0].End).Microseconds(), 30)
}

func TestShutterNow_Idempotent(t *testing.T) {
	cam, p := newProbed(t, protocol.Olympus, 3)

	require.NoError(t, cam.ShutterNow())
	first := p.Edges(3)
	p.Reset()
	p.Advance(500 * time.Millisecond)
	require.NoError(t, cam.ShutterNow())
	second := p.Edges(3)

	require.Equal(t, len(first), len(second))
	offset := second[0].At - first[0].At
	for i := range first {
		assert.Equal(t, first[i].Level, second[i].Level)
		assert.Equal(t, first[i].At+offset, second[i].At, "edge %d", i)
	}
}

func TestShutterNow_PWMBackend(t *testing.T) {
	p := probe.New()
	cam, err := New(carrier.NewPWM(p, p), protocol.Sony, 18)
	require.NoError(t, err)
	require.NoError(t, cam.ShutterNow())

	r := probe.Analyze(p.Edges(18))
	assert.Len(t, r.Bursts, 63)
	assert.True(t, probe.Within(r.CarrierHz, 40000, 0.02), "carrier %.0f Hz", r.CarrierHz)
}

func TestNew_PWMCamerasCannotRetuneEachOther(t *testing.T) {
	p := probe.New()
	b := carrier.NewPWM(p, p)
	canon, err := New(b, protocol.Canon, 18)
	require.NoError(t, err)

	// Sony needs 40 kHz on the same PWM clock.
	sony, err := New(b, protocol.Sony, 13)
	assert.ErrorIs(t, err, gpio.ErrPWMConflict)
	assert.Nil(t, sony)

	// Pin 12 is the same PWM channel as pin 18.
	other, err := New(b, protocol.Canon, 12)
	assert.ErrorIs(t, err, gpio.ErrPWMConflict)
	assert.Nil(t, other)

	require.NoError(t, canon.ShutterNow())
	r := probe.Analyze(p.Edges(18))
	assert.True(t, probe.Within(r.CarrierHz, 32700, 0.02), "carrier %.0f Hz", r.CarrierHz)
	assert.Empty(t, p.Edges(12))
	assert.Empty(t, p.Edges(13))
}

func TestNew_PWMCamerasOnBothChannels(t *testing.T) {
	p := probe.New()
	b := carrier.NewPWM(p, p)
	first, err := New(b, protocol.Sony, 18)
	require.NoError(t, err)
	second, err := New(b, protocol.Sony, 13)
	require.NoError(t, err)

	require.NoError(t, first.ShutterNow())
	require.NoError(t, second.ShutterNow())
	assert.Len(t, probe.Analyze(p.Edges(18)).Bursts, 63)
	assert.Len(t, probe.Analyze(p.Edges(13)).Bursts, 63)
}

func TestShutterNow_DriverErrorSurfaces(t *testing.T) {
	p := probe.New()
	cam, err := New(carrier.NewBitBang(p, p, -1), protocol.Nikon, 3)
	require.NoError(t, err)
	p.FailWrites = 10
	assert.ErrorIs(t, cam.ShutterNow(), probe.ErrInjected)
}
