package testutil

import (
	"math"
	"math/rand"
)

// Sine generates a sine at freqHz with the given amplitude.
func Sine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)

	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// Noise generates uniform white noise in [-amplitude, amplitude) from a
// fixed seed.
func Noise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)

	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// Impulse generates a unit impulse at pos.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}

	return out
}

// Clone returns a copy of x, e.g. to feed the same signal to two channels.
func Clone(x []float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)

	return out
}

// ToFloat32 converts x to float32.
func ToFloat32(x []float64) []float32 {
	out := make([]float32, len(x))
	for i, v := range x {
		out[i] = float32(v)
	}

	return out
}

// RMS returns the root mean square of x, or 0 for an empty slice.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range x {
		sum += v * v
	}

	return math.Sqrt(sum / float64(len(x)))
}
