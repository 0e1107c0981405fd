package core

import "math"

const defaultEpsilon = 1e-12

// denormalThreshold is the magnitude below which FlushDenormals returns zero.
const denormalThreshold = 1e-30

// Clamp limits value to the inclusive range [lo, hi].
// NaN is mapped to lo so that callers never forward it into filter math.
func Clamp(value, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}

	if value < lo || math.IsNaN(value) {
		return lo
	}

	if value > hi {
		return hi
	}

	return value
}

// IsFinite reports whether x is neither NaN nor ±Inf.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// NearlyEqual reports whether a and b are equal within eps.
// eps is treated as an absolute tolerance near zero and relative otherwise.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return false
	}

	return diff/largest <= eps
}

// FlushDenormals converts tiny denormal-like values to exact zero.
// Recursive filters decaying towards silence otherwise spend most of their
// time in subnormal arithmetic on some CPUs.
func FlushDenormals(x float64) float64 {
	if x > -denormalThreshold && x < denormalThreshold {
		return 0
	}

	return x
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}

// PowerToDB converts a linear power ratio to dB (10*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func PowerToDB(power float64) float64 {
	if power < 0 {
		return math.NaN()
	}

	if power == 0 {
		return math.Inf(-1)
	}

	return 10 * math.Log10(power)
}
