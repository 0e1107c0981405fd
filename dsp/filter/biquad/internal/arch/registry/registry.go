// Package registry selects the biquad block kernel for the running CPU.
// Kernel packages register themselves from init; the biquad package picks
// the best match in its own init, before any audio is processed.
package registry

import (
	"slices"
	"sync"

	"github.com/cwbudde/algo-vecmath/cpu"
)

// Coefficients are biquad transfer coefficients (a0 normalized to 1).
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// State is a DF-II-T delay line, {d0, d1}.
type State [2]float64

// ProcessBlockFn filters buf in place with one DF-II-T section starting from
// state and returns the final state. Coefficients and state are passed by
// value so that neither escapes through the indirect call.
type ProcessBlockFn func(c Coefficients, state State, buf []float64) State

// Kernel is one registered block implementation.
type Kernel struct {
	Name         string
	Level        cpu.SIMDLevel
	Priority     int
	ProcessBlock ProcessBlockFn
}

// Registry holds kernels ordered by descending priority.
type Registry struct {
	mu      sync.RWMutex
	kernels []Kernel
}

// Global is the registry the biquad package dispatches through.
var Global = &Registry{}

// Register adds a kernel.
func (r *Registry) Register(k Kernel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.kernels = append(r.kernels, k)
	slices.SortStableFunc(r.kernels, func(a, b Kernel) int { return b.Priority - a.Priority })
}

// Lookup returns the highest-priority kernel the features allow. The
// boolean is false when no registered kernel qualifies.
func (r *Registry) Lookup(features cpu.Features) (Kernel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, k := range r.kernels {
		if supports(features, k.Level) {
			return k, true
		}
	}

	return Kernel{}, false
}

// Kernels returns a copy of the registered kernels in lookup order.
func (r *Registry) Kernels() []Kernel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.kernels)
}

func supports(features cpu.Features, level cpu.SIMDLevel) bool {
	if features.ForceGeneric {
		return level == cpu.SIMDNone
	}

	switch level {
	case cpu.SIMDNone:
		return true
	case cpu.SIMDSSE2:
		return features.HasSSE2
	case cpu.SIMDAVX2:
		return features.HasAVX2
	default:
		return false
	}
}
