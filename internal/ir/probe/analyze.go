package probe

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"
	"time"

	"github.com/cjeanneret/irshutter/internal/hw/gpio"
	"github.com/mjibson/go-dsp/fft"
)

// burstGap separates bursts: low time longer than this ends a mark. It is
// several carrier periods and shorter than any space in the protocol table.
const burstGap = 100 * time.Microsecond

const (
	sampleRate = 4e6 // Hz, for the spectral estimate
	minFFTSize = 1 << 16
)

// Burst is one mark as seen on the pin.
type Burst struct {
	Start time.Duration // first rising edge
	End   time.Duration // last falling edge
	Rises int
	last  time.Duration // last rising edge
}

// Length returns the burst duration.
func (b Burst) Length() time.Duration {
	return b.End - b.Start
}

// Report summarizes a captured waveform.
type Report struct {
	Bursts     []Burst
	Duration   time.Duration // first rising edge to last falling edge
	MarkTime   time.Duration
	CarrierHz  float64 // from rising edge spacing
	SpectralHz float64 // FFT peak of the longest burst
}

// Analyze groups edges into bursts and measures them.
func Analyze(edges []Edge) Report {
	var r Report
	var cur *Burst
	var lastFall time.Duration
	for _, e := range edges {
		if e.Level == gpio.High {
			if cur == nil || e.At-lastFall > burstGap {
				r.Bursts = append(r.Bursts, Burst{Start: e.At})
				cur = &r.Bursts[len(r.Bursts)-1]
			}
			cur.Rises++
			cur.last = e.At
			continue
		}
		lastFall = e.At
		if cur != nil {
			cur.End = e.At
		}
	}
	if len(r.Bursts) == 0 {
		return r
	}

	var cycles int
	var span time.Duration
	for _, b := range r.Bursts {
		r.MarkTime += b.Length()
		if b.Rises > 1 {
			cycles += b.Rises - 1
			span += b.last - b.Start
		}
	}
	r.Duration = r.Bursts[len(r.Bursts)-1].End - r.Bursts[0].Start
	if span > 0 {
		r.CarrierHz = float64(cycles) / span.Seconds()
	}
	r.SpectralHz = spectralPeak(edges, r.longest())
	return r
}

func (r Report) longest() Burst {
	var best Burst
	for _, b := range r.Bursts {
		if b.Length() > best.Length() {
			best = b
		}
	}
	return best
}

// spectralPeak samples the burst as a ±1 signal and returns the frequency of
// the strongest non-DC FFT bin. Zero padding to minFFTSize gives ~61 Hz bins.
func spectralPeak(edges []Edge, b Burst) float64 {
	n := int(b.Length().Seconds() * sampleRate)
	if n < 2 {
		return 0
	}
	size := minFFTSize
	for size < n {
		size <<= 1
	}
	samples := make([]float64, size)

	level := -1.0
	ei := 0
	for i := 0; i < n; i++ {
		at := b.Start + time.Duration(float64(i)/sampleRate*float64(time.Second))
		for ei < len(edges) && edges[ei].At <= at {
			if edges[ei].Level == gpio.High {
				level = 1
			} else {
				level = -1
			}
			ei++
		}
		samples[i] = level
	}

	spectrum := fft.FFTReal(samples)
	peak, bin := 0.0, 0
	for k := 1; k < size/2; k++ {
		if m := cmplx.Abs(spectrum[k]); m > peak {
			peak, bin = m, k
		}
	}
	return float64(bin) * sampleRate / float64(size)
}

// Within reports whether got is within tol (a ratio) of want.
func Within(got, want, tol float64) bool {
	return math.Abs(got-want) <= want*tol
}

func (r Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "bursts:    %d\n", len(r.Bursts))
	fmt.Fprintf(&sb, "duration:  %v\n", r.Duration)
	fmt.Fprintf(&sb, "mark time: %v\n", r.MarkTime)
	fmt.Fprintf(&sb, "carrier:   %.0f Hz (edges), %.0f Hz (FFT)\n", r.CarrierHz, r.SpectralHz)
	return sb.String()
}
