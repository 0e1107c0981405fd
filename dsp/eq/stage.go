package eq

import (
	"sync/atomic"

	"github.com/cwbudde/algo-peq/dsp/filter/biquad"
)

// Stage is one second-order section of a channel chain. Its coefficient set
// is shared by pointer with the matching stage of the other channel and is
// replaced with a single atomic swap; the delay line belongs to this stage
// alone.
//
// A bypassed stage passes samples through unchanged. Its delay line is frozen
// and it keeps its last coefficient set, so re-activation continues from the
// state it had when it was bypassed. A stage without coefficients behaves
// as bypassed.
type Stage struct {
	coeffs   atomic.Pointer[biquad.Coefficients]
	bypassed atomic.Bool
	line     biquad.DelayLine
}

// SetCoefficients installs a coefficient set. The set must not be mutated
// while the stage may still process with it.
func (s *Stage) SetCoefficients(c *biquad.Coefficients) {
	assert(c == nil || c.IsFinite(), "eq: non-finite coefficients")
	s.coeffs.Store(c)
}

// Coefficients returns the installed coefficient set, or nil.
func (s *Stage) Coefficients() *biquad.Coefficients { return s.coeffs.Load() }

// SetBypassed switches the stage between active and bypassed.
func (s *Stage) SetBypassed(bypassed bool) { s.bypassed.Store(bypassed) }

// Bypassed reports whether the stage passes samples through unchanged.
func (s *Stage) Bypassed() bool { return s.bypassed.Load() }

// Active reports whether the stage filters samples.
func (s *Stage) Active() bool { return !s.bypassed.Load() && s.coeffs.Load() != nil }

// Process filters one sample.
func (s *Stage) Process(x float64) float64 {
	if s.bypassed.Load() {
		return x
	}

	c := s.coeffs.Load()
	if c == nil {
		return x
	}

	return s.line.ProcessSample(c, x)
}

// ProcessBlock filters buf in place and flushes denormals from the delay
// line afterwards.
func (s *Stage) ProcessBlock(buf []float64) {
	if s.bypassed.Load() {
		return
	}

	c := s.coeffs.Load()
	if c == nil {
		return
	}

	s.line.ProcessBlock(c, buf)
	s.line.FlushDenormals()
}

// MagnitudeDB returns the stage response at freqHz. Inactive stages
// contribute 0 dB.
func (s *Stage) MagnitudeDB(freqHz, sampleRate float64) float64 {
	if s.bypassed.Load() {
		return 0
	}

	c := s.coeffs.Load()
	if c == nil {
		return 0
	}

	return c.MagnitudeDB(freqHz, sampleRate)
}

// State returns the delay line contents.
func (s *Stage) State() [2]float64 { return s.line.State() }

// Reset clears the delay line. Coefficients and bypass are kept.
func (s *Stage) Reset() { s.line.Reset() }
