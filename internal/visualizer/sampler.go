package visualizer

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

const (
	analyserMinDecibels = -100.0
	analyserMaxDecibels = -30.0
	analyserSmoothing   = 0.8
)

// SampleSource supplies the most recent mono samples for analysis.
type SampleSource interface {
	Samples(n int) []float64
}

// Sampler produces one frame of byte magnitudes per call.
type Sampler interface {
	Sample() []byte
	Bins() int
}

// Analyser is a Sampler that windows the latest fftSize samples from a
// SampleSource, runs an FFT, smooths magnitudes across calls and maps
// decibels onto 0–255.
type Analyser struct {
	src     SampleSource
	fftSize int
	win     []float64
	smooth  []float64
	out     []byte
}

// NewAnalyser creates an Analyser with fftSize/2 output bins. fftSize must
// be a power of two of at least 4.
func NewAnalyser(src SampleSource, fftSize int) (*Analyser, error) {
	if fftSize < 4 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("fft size must be a power of two >= 4, got %d", fftSize)
	}
	return &Analyser{
		src:     src,
		fftSize: fftSize,
		win:     window.Blackman(fftSize),
		smooth:  make([]float64, fftSize/2),
		out:     make([]byte, fftSize/2),
	}, nil
}

// Bins returns the number of frequency bins per sample.
func (a *Analyser) Bins() int { return len(a.out) }

// Sample analyses the current window. The returned slice is overwritten by
// the next call.
func (a *Analyser) Sample() []byte {
	frame := a.src.Samples(a.fftSize)
	for i := range frame {
		frame[i] *= a.win[i]
	}

	spectrum := fft.FFTReal(frame)
	scale := 1 / float64(a.fftSize)
	rangeDB := analyserMaxDecibels - analyserMinDecibels

	for k := range a.smooth {
		mag := cmplx.Abs(spectrum[k]) * scale
		a.smooth[k] = analyserSmoothing*a.smooth[k] + (1-analyserSmoothing)*mag
		a.out[k] = magnitudeByte(a.smooth[k], rangeDB)
	}
	return a.out
}

// Reset clears the smoothing memory.
func (a *Analyser) Reset() {
	clear(a.smooth)
	clear(a.out)
}

func magnitudeByte(mag, rangeDB float64) byte {
	if mag <= 0 {
		return 0
	}
	db := 20 * math.Log10(mag)
	v := 255 / rangeDB * (db - analyserMinDecibels)
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return byte(v)
}
