package eq

import "github.com/cwbudde/algo-peq/dsp/filter/biquad"

// MaxCutStages is the fixed number of sections in a cut chain.
const MaxCutStages = NumSlopes

// CutChain is a variable-order cut filter built from a fixed array of
// MaxCutStages stages. Stages beyond the configured slope stay in place and
// are bypassed.
type CutChain struct {
	stages [MaxCutStages]Stage
	active int
}

// Configure activates stages 0..k for slope index k, installing coeffs[i]
// in stage i, and bypasses the remaining stages. Stage i holds &coeffs[i],
// so the backing array must stay unchanged while the chain uses it.
//
// Coefficients are installed before a stage is re-activated, and bypassed
// stages keep their previous set.
func (c *CutChain) Configure(coeffs []biquad.Coefficients, slope Slope) {
	assert(slope.Valid(), "eq: slope index out of range")
	assert(len(coeffs) >= slope.Sections(), "eq: too few cut coefficient sets")

	n := min(slope.Sections(), len(coeffs), MaxCutStages)

	for i := range c.stages {
		stage := &c.stages[i]
		if i < n {
			stage.SetCoefficients(&coeffs[i])
			stage.SetBypassed(false)
		} else {
			stage.SetBypassed(true)
		}
	}

	c.active = n
}

// ActiveStages returns the number of stages that currently filter.
func (c *CutChain) ActiveStages() int { return c.active }

// Stage returns stage i (0 <= i < MaxCutStages).
func (c *CutChain) Stage(i int) *Stage { return &c.stages[i] }

// Process passes x through stages 0..3 in order.
func (c *CutChain) Process(x float64) float64 {
	for i := range c.stages {
		x = c.stages[i].Process(x)
	}

	return x
}

// ProcessBlock filters buf in place through stages 0..3 in order.
func (c *CutChain) ProcessBlock(buf []float64) {
	for i := range c.stages {
		c.stages[i].ProcessBlock(buf)
	}
}

// MagnitudeDB returns the summed response of the active stages.
func (c *CutChain) MagnitudeDB(freqHz, sampleRate float64) float64 {
	db := 0.0
	for i := range c.stages {
		db += c.stages[i].MagnitudeDB(freqHz, sampleRate)
	}

	return db
}

// Reset clears the delay lines of all stages, including bypassed ones.
func (c *CutChain) Reset() {
	for i := range c.stages {
		c.stages[i].Reset()
	}
}
