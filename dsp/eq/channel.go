package eq

// ChannelChain is the fixed per-channel topology
// LowCut -> Peak -> HighCut. The peak stage is never bypassed; at 0 dB its
// coefficients are an identity.
type ChannelChain struct {
	LowCut  CutChain
	Peak    Stage
	HighCut CutChain
}

// Process filters one sample.
func (c *ChannelChain) Process(x float64) float64 {
	x = c.LowCut.Process(x)
	x = c.Peak.Process(x)

	return c.HighCut.Process(x)
}

// ProcessBlock filters buf in place.
func (c *ChannelChain) ProcessBlock(buf []float64) {
	c.LowCut.ProcessBlock(buf)
	c.Peak.ProcessBlock(buf)
	c.HighCut.ProcessBlock(buf)
}

// MagnitudeDB returns the response of the whole chain at freqHz with its
// currently installed coefficients. Call it from the audio goroutine only.
func (c *ChannelChain) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return c.LowCut.MagnitudeDB(freqHz, sampleRate) +
		c.Peak.MagnitudeDB(freqHz, sampleRate) +
		c.HighCut.MagnitudeDB(freqHz, sampleRate)
}

// Reset clears every delay line in the chain.
func (c *ChannelChain) Reset() {
	c.LowCut.Reset()
	c.Peak.Reset()
	c.HighCut.Reset()
}
