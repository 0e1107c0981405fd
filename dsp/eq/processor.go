package eq

import (
	"fmt"

	"github.com/cwbudde/algo-peq/dsp/core"
	"github.com/cwbudde/algo-peq/dsp/filter/biquad"
)

// coefficientBank holds every coefficient set of one update cycle. Active
// stages only ever point into the live bank, so Update never rewrites a set
// an active stage reads. Bypassed cut stages may still point into the other
// bank; they do not read their coefficients until Configure installs a
// fresh set.
type coefficientBank struct {
	lowCut  [MaxCutStages]biquad.Coefficients
	peak    biquad.Coefficients
	highCut [MaxCutStages]biquad.Coefficients
}

// Processor is the dual-channel equalizer. Update, Process, ProcessFloat32,
// Prepare and Reset must be called from a single goroutine (the audio
// callback); the parameter Source may be written concurrently.
type Processor struct {
	src Source
	cfg config

	left  ChannelChain
	right ChannelChain

	// Coefficients are double-buffered: each update writes the bank that is
	// not live, then swaps the stage pointers over to it.
	banks [2]coefficientBank
	live  int

	applied Settings
	stale   bool

	scratchL []float64
	scratchR []float64
}

// New returns a processor reading its parameters from src. The coefficients
// for the configured sample rate are derived immediately.
func New(src Source, opts ...Option) (*Processor, error) {
	if src == nil {
		return nil, ErrNilSource
	}

	cfg := applyOptions(opts...)

	p := &Processor{
		src:      src,
		cfg:      cfg,
		scratchL: make([]float64, cfg.blockSize),
		scratchR: make([]float64, cfg.blockSize),
	}

	if err := p.Prepare(cfg.sampleRate); err != nil {
		return nil, err
	}

	return p, nil
}

// Prepare reinitializes the processor for a new sample rate: delay lines are
// cleared and all coefficients are derived from scratch. It must not run
// concurrently with Process.
func (p *Processor) Prepare(sampleRate float64) error {
	if !validSampleRate(sampleRate) {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}

	p.cfg.sampleRate = sampleRate
	p.Reset()
	p.stale = true
	p.Update()

	return nil
}

// SampleRate returns the current sample rate.
func (p *Processor) SampleRate() float64 { return p.cfg.sampleRate }

// NyquistGuard returns the design frequency limit as a fraction of the
// sample rate. Pass it to ResponseWithGuard to mirror this processor.
func (p *Processor) NyquistGuard() float64 { return p.cfg.guard }

// BlockSize returns the chunk size used by ProcessFloat32.
func (p *Processor) BlockSize() int { return p.cfg.blockSize }

// Settings returns the parameter snapshot the installed coefficients were
// derived from.
func (p *Processor) Settings() Settings { return p.applied }

// Left returns the left channel chain.
func (p *Processor) Left() *ChannelChain { return &p.left }

// Right returns the right channel chain.
func (p *Processor) Right() *ChannelChain { return &p.right }

// Update reads one parameter snapshot, derives the coefficients and installs
// them in both channels. Process calls it at the start of every block; it is
// exported for hosts that drive the chains directly. When the snapshot
// equals the one already applied nothing changes.
func (p *Processor) Update() {
	s := p.src.Snapshot()
	assert(s.inRange(), "eq: parameter snapshot out of range")
	s = s.Clamp()

	if !p.stale && s == p.applied {
		return
	}

	next := 1 - p.live
	bank := &p.banks[next]
	sr := p.cfg.sampleRate
	guard := p.cfg.guard

	low := cutCoefficientsInto(bank.lowCut[:], sr, s.LowCutFreq, s.LowCutSlope.Order(), Highpass, guard)
	bank.peak = peakCoefficients(sr, s.PeakFreq, s.PeakQuality, core.DBToLinear(s.PeakGainDB), guard)
	high := cutCoefficientsInto(bank.highCut[:], sr, s.HighCutFreq, s.HighCutSlope.Order(), Lowpass, guard)

	for _, ch := range [...]*ChannelChain{&p.left, &p.right} {
		ch.LowCut.Configure(bank.lowCut[:low], s.LowCutSlope)
		ch.Peak.SetCoefficients(&bank.peak)
		ch.HighCut.Configure(bank.highCut[:high], s.HighCutSlope)
	}

	p.live = next
	p.applied = s
	p.stale = false
}

// Process runs the update protocol and filters one block in place. right may
// be nil for a mono bus.
func (p *Processor) Process(left, right []float64) {
	p.Update()
	p.left.ProcessBlock(left)

	if right != nil {
		p.right.ProcessBlock(right)
	}
}

// ProcessFloat32 is Process for float32 buffers. Samples are converted
// through preallocated scratch buffers in chunks of BlockSize.
func (p *Processor) ProcessFloat32(left, right []float32) {
	p.Update()
	processFloat32(&p.left, left, p.scratchL)

	if right != nil {
		processFloat32(&p.right, right, p.scratchR)
	}
}

func processFloat32(ch *ChannelChain, buf []float32, scratch []float64) {
	for len(buf) > 0 {
		n := min(len(buf), len(scratch))
		chunk := scratch[:n]

		for i := range chunk {
			chunk[i] = float64(buf[i])
		}

		ch.ProcessBlock(chunk)

		for i, v := range chunk {
			buf[i] = float32(v)
		}

		buf = buf[n:]
	}
}

// Reset clears all delay lines (stream restart). Coefficients are kept.
func (p *Processor) Reset() {
	p.left.Reset()
	p.right.Reset()
}

// MagnitudeDB returns the response of the installed left-channel
// coefficients at freqHz. Call it from the audio goroutine only; use
// Response from other goroutines.
func (p *Processor) MagnitudeDB(freqHz float64) float64 {
	return p.left.MagnitudeDB(freqHz, p.cfg.sampleRate)
}

// Response returns the magnitude in dB of the full channel chain described
// by settings at freqHz, for a processor built with DefaultNyquistGuard. It
// does not allocate and is safe to call from any goroutine.
func Response(settings Settings, sampleRate, freqHz float64) float64 {
	return ResponseWithGuard(settings, sampleRate, DefaultNyquistGuard, freqHz)
}

// ResponseWithGuard is Response for a processor configured with
// WithNyquistGuard(guard). An invalid guard falls back to the default, as
// the option does.
func ResponseWithGuard(settings Settings, sampleRate, guard, freqHz float64) float64 {
	s := settings.Clamp()
	if !validGuard(guard) {
		guard = DefaultNyquistGuard
	}

	var cut [MaxCutStages]biquad.Coefficients

	db := 0.0

	n := cutCoefficientsInto(cut[:], sampleRate, s.LowCutFreq, s.LowCutSlope.Order(), Highpass, guard)
	for i := range n {
		db += cut[i].MagnitudeDB(freqHz, sampleRate)
	}

	peak := peakCoefficients(sampleRate, s.PeakFreq, s.PeakQuality, core.DBToLinear(s.PeakGainDB), guard)
	db += peak.MagnitudeDB(freqHz, sampleRate)

	n = cutCoefficientsInto(cut[:], sampleRate, s.HighCutFreq, s.HighCutSlope.Order(), Lowpass, guard)
	for i := range n {
		db += cut[i].MagnitudeDB(freqHz, sampleRate)
	}

	return db
}
