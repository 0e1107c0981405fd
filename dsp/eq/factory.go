package eq

import (
	"math"

	"github.com/cwbudde/algo-peq/dsp/core"
	"github.com/cwbudde/algo-peq/dsp/filter/biquad"
	"github.com/cwbudde/algo-peq/dsp/filter/design"
)

// CutKind selects the response of a cut cascade.
type CutKind int

const (
	// Highpass removes content below the cutoff (low cut).
	Highpass CutKind = iota
	// Lowpass removes content above the cutoff (high cut).
	Lowpass
)

func (k CutKind) String() string {
	if k == Lowpass {
		return "lowpass"
	}

	return "highpass"
}

const (
	// MinDesignFreq is the lowest frequency passed to the filter designers.
	MinDesignFreq = 1.0

	maxGainDB = 24.0
)

var (
	minGainRatio = core.DBToLinear(-maxGainDB)
	maxGainRatio = core.DBToLinear(maxGainDB)
)

// PeakCoefficients designs the peaking section. gain is a linear amplitude
// ratio (10^(dB/20)). Frequencies at or above Nyquist are clamped below it
// and non-positive gains are clamped to the -24 dB floor.
func PeakCoefficients(sampleRate, freq, q, gain float64) biquad.Coefficients {
	return peakCoefficients(sampleRate, freq, q, gain, DefaultNyquistGuard)
}

// CutCoefficients designs a Butterworth cascade of the given order and
// returns ceil(order/2) sections. Section i is meant for cut stage i.
func CutCoefficients(sampleRate, freq float64, order int, kind CutKind) []biquad.Coefficients {
	if order <= 0 {
		return nil
	}

	out := make([]biquad.Coefficients, design.ButterworthSections(order))
	n := cutCoefficientsInto(out, sampleRate, freq, order, kind, DefaultNyquistGuard)

	return out[:n]
}

// CutCoefficientsInto is the allocation-free form of CutCoefficients. It
// writes at most len(dst) sections and returns the count written.
func CutCoefficientsInto(dst []biquad.Coefficients, sampleRate, freq float64, order int, kind CutKind) int {
	return cutCoefficientsInto(dst, sampleRate, freq, order, kind, DefaultNyquistGuard)
}

func peakCoefficients(sampleRate, freq, q, gain, guard float64) biquad.Coefficients {
	if !validSampleRate(sampleRate) {
		return biquad.Identity()
	}

	freq = clampDesignFreq(freq, sampleRate, guard)
	q = core.Clamp(q, specs[PeakQuality].Min, specs[PeakQuality].Max)
	gain = core.Clamp(gain, minGainRatio, maxGainRatio)

	return sanitize(design.PeakLinear(freq, gain, q, sampleRate))
}

func cutCoefficientsInto(dst []biquad.Coefficients, sampleRate, freq float64, order int, kind CutKind, guard float64) int {
	if order <= 0 {
		return 0
	}

	if !validSampleRate(sampleRate) {
		n := min(design.ButterworthSections(order), len(dst))
		for i := range n {
			dst[i] = biquad.Identity()
		}

		return n
	}

	freq = clampDesignFreq(freq, sampleRate, guard)

	var n int
	if kind == Lowpass {
		n = design.ButterworthLPInto(dst, freq, order, sampleRate)
	} else {
		n = design.ButterworthHPInto(dst, freq, order, sampleRate)
	}

	for i := range n {
		dst[i] = sanitize(dst[i])
	}

	return n
}

func clampDesignFreq(freq, sampleRate, guard float64) float64 {
	return core.Clamp(freq, MinDesignFreq, guard*sampleRate)
}

// sanitize keeps non-finite or unstable designs out of the filter stages.
func sanitize(c biquad.Coefficients) biquad.Coefficients {
	if !c.IsFinite() || !c.IsStable() {
		assert(false, "eq: degenerate filter design")
		return biquad.Identity()
	}

	return c
}

func validSampleRate(sampleRate float64) bool {
	return sampleRate > 0 && !math.IsInf(sampleRate, 0)
}
