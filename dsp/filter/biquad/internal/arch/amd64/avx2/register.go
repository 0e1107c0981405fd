//go:build amd64 && !purego

package avx2

import (
	"github.com/cwbudde/algo-peq/dsp/filter/biquad/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func init() {
	registry.Global.Register(registry.Kernel{
		Name:         "avx2",
		Level:        cpu.SIMDAVX2,
		Priority:     20,
		ProcessBlock: processBlock,
	})
}

// processBlock handles four samples per iteration and finishes the tail one
// sample at a time.
func processBlock(c registry.Coefficients, state registry.State, buf []float64) registry.State {
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2
	d0, d1 := state[0], state[1]

	for len(buf) >= 4 {
		q := buf[:4:4]

		y0 := b0*q[0] + d0
		e0 := b1*q[0] - a1*y0 + d1
		f0 := b2*q[0] - a2*y0

		y1 := b0*q[1] + e0
		e1 := b1*q[1] - a1*y1 + f0
		f1 := b2*q[1] - a2*y1

		y2 := b0*q[2] + e1
		e2 := b1*q[2] - a1*y2 + f1
		f2 := b2*q[2] - a2*y2

		y3 := b0*q[3] + e2
		d0 = b1*q[3] - a1*y3 + f2
		d1 = b2*q[3] - a2*y3

		q[0], q[1], q[2], q[3] = y0, y1, y2, y3
		buf = buf[4:]
	}

	for i, x := range buf {
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[i] = y
	}

	return registry.State{d0, d1}
}
