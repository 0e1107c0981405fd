package design

import (
	"math"

	"github.com/cwbudde/algo-peq/dsp/filter/biquad"
)

// ButterworthSections returns the number of biquad sections needed for a
// Butterworth cascade of the given order: ceil(order/2).
func ButterworthSections(order int) int {
	if order <= 0 {
		return 0
	}

	return (order + 1) / 2
}

// ButterworthLP designs a lowpass Butterworth cascade.
//
// For odd orders, the final section is first-order (B2=A2=0).
func ButterworthLP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	if order <= 0 {
		return nil
	}

	sections := make([]biquad.Coefficients, ButterworthSections(order))
	ButterworthLPInto(sections, freq, order, sampleRate)

	return sections
}

// ButterworthHP designs a highpass Butterworth cascade.
//
// For odd orders, the final section is first-order (B2=A2=0).
func ButterworthHP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	if order <= 0 {
		return nil
	}

	sections := make([]biquad.Coefficients, ButterworthSections(order))
	ButterworthHPInto(sections, freq, order, sampleRate)

	return sections
}

// ButterworthLPInto writes the lowpass cascade into dst and returns the number
// of sections written. Sections that do not fit into dst are dropped.
func ButterworthLPInto(dst []biquad.Coefficients, freq float64, order int, sampleRate float64) int {
	return butterworthInto(dst, freq, order, sampleRate, Lowpass, butterworthFirstOrderLP)
}

// ButterworthHPInto writes the highpass cascade into dst and returns the
// number of sections written. Sections that do not fit into dst are dropped.
func ButterworthHPInto(dst []biquad.Coefficients, freq float64, order int, sampleRate float64) int {
	return butterworthInto(dst, freq, order, sampleRate, Highpass, butterworthFirstOrderHP)
}

func butterworthInto(
	dst []biquad.Coefficients,
	freq float64,
	order int,
	sampleRate float64,
	second func(freq, q, sampleRate float64) biquad.Coefficients,
	first func(freq, sampleRate float64) biquad.Coefficients,
) int {
	n := 0

	for i := order/2 - 1; i >= 0 && n < len(dst); i-- {
		dst[n] = second(freq, butterworthQ(order, i), sampleRate)
		n++
	}

	if order%2 != 0 && n < len(dst) {
		dst[n] = first(freq, sampleRate)
		n++
	}

	return n
}

// butterworthQ returns the quality factor for a Butterworth filter section.
// index ranges from 0 to (order/2 - 1) for the biquad sections.
func butterworthQ(order, index int) float64 {
	theta := math.Pi * float64(2*index+1) / (2 * float64(order))

	s := math.Sin(theta)
	if s == 0 {
		return defaultQ
	}

	return 1 / (2 * s)
}

// butterworthFirstOrderLP designs a first-order lowpass section for odd orders.
func butterworthFirstOrderLP(freq, sampleRate float64) biquad.Coefficients {
	k, ok := bilinearK(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	norm := 1 / (1 + k)

	return biquad.Coefficients{
		B0: k * norm,
		B1: k * norm,
		A1: (k - 1) * norm,
	}
}

// butterworthFirstOrderHP designs a first-order highpass section for odd orders.
func butterworthFirstOrderHP(freq, sampleRate float64) biquad.Coefficients {
	k, ok := bilinearK(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	norm := 1 / (1 + k)

	return biquad.Coefficients{
		B0: norm,
		B1: -norm,
		A1: (k - 1) * norm,
	}
}

// bilinearK computes the bilinear transform frequency warping factor tan(π*freq/sampleRate).
func bilinearK(freq, sampleRate float64) (float64, bool) {
	if _, ok := normalizedW0(freq, sampleRate); !ok {
		return 0, false
	}

	return math.Tan(math.Pi * freq / sampleRate), true
}
