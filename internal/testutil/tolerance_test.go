package testutil

import (
	"math"
	"testing"
)

func TestMaxAbsDiff(t *testing.T) {
	d, err := MaxAbsDiff([]float64{1, 2, 3}, []float64{1, 2.1, 3})
	if err != nil {
		t.Fatalf("MaxAbsDiff error: %v", err)
	}

	if math.Abs(d-0.1) > 1e-15 {
		t.Fatalf("MaxAbsDiff = %v, want 0.1", d)
	}

	if _, err := MaxAbsDiff([]float64{1}, []float64{1, 2}); err == nil {
		t.Fatal("expected error for length mismatch")
	}
}

func TestMaxStep(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
		want float64
	}{
		{"empty", nil, 0},
		{"single", []float64{5}, 0},
		{"ramp", []float64{0, 1, 2, 3}, 1},
		{"jump", []float64{0, 0.1, -0.9, -0.8}, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := MaxStep(tc.x); math.Abs(got-tc.want) > 1e-12 {
				t.Fatalf("MaxStep = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRequireHelpersPass(t *testing.T) {
	x := []float64{0, 0.5, -1}

	RequireFinite(t, x)
	RequireBitIdentical(t, x, Clone(x))
	RequireSliceNearlyEqual(t, x, []float64{1e-9, 0.5, -1}, 1e-6)
}
