// Package generic registers the portable block kernel. It is the reference
// every other kernel must reproduce sample for sample.
package generic

import (
	"github.com/cwbudde/algo-peq/dsp/filter/biquad/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func init() {
	registry.Global.Register(registry.Kernel{
		Name:         "generic",
		Level:        cpu.SIMDNone,
		ProcessBlock: ProcessBlock,
	})
}

// ProcessBlock runs the DF-II-T recursion one sample at a time.
func ProcessBlock(c registry.Coefficients, state registry.State, buf []float64) registry.State {
	d0, d1 := state[0], state[1]

	for i, x := range buf {
		y := c.B0*x + d0
		d0 = c.B1*x - c.A1*y + d1
		d1 = c.B2*x - c.A2*y
		buf[i] = y
	}

	return registry.State{d0, d1}
}
