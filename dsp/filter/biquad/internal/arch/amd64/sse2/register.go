//go:build amd64 && !purego

package sse2

import (
	"github.com/cwbudde/algo-peq/dsp/filter/biquad/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func init() {
	registry.Global.Register(registry.Kernel{
		Name:         "sse2",
		Level:        cpu.SIMDSSE2,
		Priority:     10,
		ProcessBlock: processBlock,
	})
}

// processBlock handles two samples per iteration. The recursion prevents
// vectorizing across samples; the pairing only saves loop overhead.
func processBlock(c registry.Coefficients, state registry.State, buf []float64) registry.State {
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2
	d0, d1 := state[0], state[1]

	for len(buf) >= 2 {
		p := buf[:2:2]

		y0 := b0*p[0] + d0
		m0 := b1*p[0] - a1*y0 + d1
		m1 := b2*p[0] - a2*y0

		y1 := b0*p[1] + m0
		d0 = b1*p[1] - a1*y1 + m1
		d1 = b2*p[1] - a2*y1

		p[0], p[1] = y0, y1
		buf = buf[2:]
	}

	if len(buf) == 1 {
		x := buf[0]
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[0] = y
	}

	return registry.State{d0, d1}
}
