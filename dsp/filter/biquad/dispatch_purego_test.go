//go:build purego

package biquad

import (
	"testing"

	archregistry "github.com/cwbudde/algo-peq/dsp/filter/biquad/internal/arch/registry"
)

func TestPuregoRegistersOnlyGeneric(t *testing.T) {
	if got := KernelName(); got != "generic" {
		t.Fatalf("KernelName() = %q, want generic", got)
	}

	kernels := archregistry.Global.Kernels()
	if len(kernels) != 1 || kernels[0].Name != "generic" {
		t.Fatalf("registered kernels = %v, want only generic", kernels)
	}
}
