// Package band measures the energy of a signal in frequency bands using an
// averaged, Hann-windowed power spectrum. It is used to check equalizer
// responses against broadband test signals.
package band

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-peq/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

var (
	ErrInvalidSize       = errors.New("band: FFT size must be a power of two >= 8")
	ErrInvalidSampleRate = errors.New("band: sample rate must be positive")
	ErrShortSignal       = errors.New("band: signal shorter than one FFT frame")
	ErrInvalidBand       = errors.New("band: band edges must satisfy 0 <= lo < hi")
)

// Spectrum is a one-sided power spectrum, bins 0..N/2.
type Spectrum struct {
	Power  []float64
	BinHz  float64
	Frames int
}

// Analyzer computes frame-averaged power spectra with 50% overlap. It keeps
// its buffers between calls and is not safe for concurrent use.
type Analyzer struct {
	size       int
	sampleRate float64

	forward func(dst, src []complex128) error
	window  []float64

	frame []float64
	in    []complex128
	out   []complex128
	re    []float64
	im    []float64
	pow   []float64
}

// NewAnalyzer returns an analyzer with the given FFT size.
func NewAnalyzer(size int, sampleRate float64) (*Analyzer, error) {
	if size < 8 || size&(size-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("band: failed to create FFT plan: %w", err)
	}

	bins := size/2 + 1

	return &Analyzer{
		size:       size,
		sampleRate: sampleRate,
		forward:    plan.Forward,
		window:     hann(size),
		frame:      make([]float64, size),
		in:         make([]complex128, size),
		out:        make([]complex128, size),
		re:         make([]float64, bins),
		im:         make([]float64, bins),
		pow:        make([]float64, bins),
	}, nil
}

// Size returns the FFT size.
func (a *Analyzer) Size() int { return a.size }

// BinHz returns the width of one FFT bin.
func (a *Analyzer) BinHz() float64 { return a.sampleRate / float64(a.size) }

// Analyze averages the power spectra of all complete frames of signal.
func (a *Analyzer) Analyze(signal []float64) (Spectrum, error) {
	if len(signal) < a.size {
		return Spectrum{}, fmt.Errorf("%w: %d < %d", ErrShortSignal, len(signal), a.size)
	}

	bins := a.size/2 + 1
	sum := make([]float64, bins)
	hop := a.size / 2
	frames := 0

	for start := 0; start+a.size <= len(signal); start += hop {
		vecmath.MulBlock(a.frame, signal[start:start+a.size], a.window)

		for i, v := range a.frame {
			a.in[i] = complex(v, 0)
		}

		if err := a.forward(a.out, a.in); err != nil {
			return Spectrum{}, fmt.Errorf("band: forward FFT failed: %w", err)
		}

		for k := range bins {
			a.re[k] = real(a.out[k])
			a.im[k] = imag(a.out[k])
		}

		vecmath.Power(a.pow, a.re, a.im)

		for k, p := range a.pow {
			sum[k] += p
		}

		frames++
	}

	scale := 1 / float64(frames)
	for k := range sum {
		sum[k] *= scale
	}

	return Spectrum{Power: sum, BinHz: a.BinHz(), Frames: frames}, nil
}

// Energy returns the summed power of the bins whose centre lies in [lo, hi).
func (s Spectrum) Energy(lo, hi float64) (float64, error) {
	if !(lo >= 0) || !(hi > lo) {
		return 0, fmt.Errorf("%w: [%v, %v)", ErrInvalidBand, lo, hi)
	}

	if s.BinHz <= 0 {
		return 0, nil
	}

	first := max(int(math.Ceil(lo/s.BinHz)), 0)

	e := 0.0
	for k := first; k < len(s.Power) && float64(k)*s.BinHz < hi; k++ {
		e += s.Power[k]
	}

	return e, nil
}

// GainDB returns the energy ratio in dB between filtered and reference in
// the band [lo, hi).
func GainDB(filtered, reference Spectrum, lo, hi float64) (float64, error) {
	f, err := filtered.Energy(lo, hi)
	if err != nil {
		return 0, err
	}

	r, err := reference.Energy(lo, hi)
	if err != nil {
		return 0, err
	}

	if r == 0 {
		return math.Inf(1), nil
	}

	return core.PowerToDB(f / r), nil
}

// hann returns a periodic Hann window.
func hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}

	return w
}
