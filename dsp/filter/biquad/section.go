//nolint:funcorder
package biquad

import (
	"github.com/cwbudde/algo-peq/dsp/core"
	archregistry "github.com/cwbudde/algo-peq/dsp/filter/biquad/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

// Coefficients holds the transfer function coefficients for a single
// second-order section (biquad). a0 is normalized to 1 and not stored.
//
// The sign convention follows Direct Form II Transposed:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// Identity returns coefficients that pass the input through unchanged.
func Identity() Coefficients {
	return Coefficients{B0: 1}
}

// IsFinite reports whether every coefficient is a finite number.
func (c *Coefficients) IsFinite() bool {
	return core.IsFinite(c.B0) && core.IsFinite(c.B1) && core.IsFinite(c.B2) &&
		core.IsFinite(c.A1) && core.IsFinite(c.A2)
}

// IsStable reports whether both poles lie strictly inside the unit circle
// (stability triangle |A2| < 1, |A1| < 1 + A2).
func (c *Coefficients) IsStable() bool {
	if !c.IsFinite() {
		return false
	}

	a1 := c.A1
	if a1 < 0 {
		a1 = -a1
	}

	return c.A2 < 1 && c.A2 > -1 && a1 < 1+c.A2
}

// DelayLine is the two-element state of a Direct Form II Transposed biquad.
// It carries no coefficients; callers pass them on every call so one
// coefficient value can drive several independent delay lines.
type DelayLine struct {
	state archregistry.State
}

// ProcessSample filters one input sample with c and returns the output.
func (l *DelayLine) ProcessSample(c *Coefficients, x float64) float64 {
	y := c.B0*x + l.state[0]
	l.state[0] = c.B1*x - c.A1*y + l.state[1]
	l.state[1] = c.B2*x - c.A2*y

	return y
}

// ProcessBlock filters buf in-place with c using the block kernel selected
// at init. Zero-alloc.
func (l *DelayLine) ProcessBlock(c *Coefficients, buf []float64) {
	if len(buf) == 0 {
		return
	}

	l.state = processBlockImpl(archregistry.Coefficients(*c), l.state, buf)
}

// FlushDenormals zeroes state values that decayed into the subnormal range.
func (l *DelayLine) FlushDenormals() {
	l.state[0] = core.FlushDenormals(l.state[0])
	l.state[1] = core.FlushDenormals(l.state[1])
}

// Reset clears the delay line to zero.
func (l *DelayLine) Reset() {
	l.state = archregistry.State{}
}

// State returns the current delay-line state [d0, d1].
func (l *DelayLine) State() [2]float64 {
	return l.state
}

// SetState restores a previously saved delay-line state.
func (l *DelayLine) SetState(state [2]float64) {
	l.state = state
}

var (
	processBlockImpl archregistry.ProcessBlockFn
	kernelName       string
)

// The arch packages imported by init_*.go have registered their kernels by
// the time this runs, so the audio path never selects or locks.
func init() {
	useKernel(cpu.DetectFeatures())
}

func useKernel(features cpu.Features) {
	k, ok := archregistry.Global.Lookup(features)
	if !ok || k.ProcessBlock == nil {
		panic("biquad: no block kernel registered for this CPU")
	}

	processBlockImpl = k.ProcessBlock
	kernelName = k.Name
}

// KernelName reports which block kernel DelayLine.ProcessBlock dispatches to.
func KernelName() string { return kernelName }

// Section is a single biquad filter owning its coefficients and state.
type Section struct {
	Coefficients

	line DelayLine
}

// NewSection returns a Section initialized with the given coefficients
// and zero state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters one input sample and returns the output.
func (s *Section) ProcessSample(x float64) float64 {
	return s.line.ProcessSample(&s.Coefficients, x)
}

// ProcessBlock filters a block of samples in-place. Zero-alloc.
func (s *Section) ProcessBlock(buf []float64) {
	s.line.ProcessBlock(&s.Coefficients, buf)
}

// ProcessBlockTo filters src into dst. Both slices must have the same length.
// Zero-alloc.
func (s *Section) ProcessBlockTo(dst, src []float64) {
	if len(src) == 0 {
		return
	}

	_ = dst[len(src)-1] // bounds check hint
	for i, x := range src {
		dst[i] = s.line.ProcessSample(&s.Coefficients, x)
	}
}

// Reset clears the delay line to zero.
func (s *Section) Reset() { s.line.Reset() }

// State returns the current delay-line state [d0, d1].
func (s *Section) State() [2]float64 { return s.line.State() }

// SetState restores a previously saved delay-line state.
func (s *Section) SetState(state [2]float64) { s.line.SetState(state) }
