// Command eqinfo prints the magnitude response of the parametric equalizer
// for a parameter set and, optionally, band gains measured by running white
// noise through the processor.
//
// Usage:
//
//	eqinfo [flags]
//
// Examples:
//
//	eqinfo -peak 1000 -gain 6 -q 1
//	eqinfo -lowcut 100 -lowslope 24 -highcut 10000 -noise
//	eqinfo -params
//	eqinfo -json -gain -3
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-peq/dsp/eq"
	"github.com/cwbudde/algo-peq/measure/band"
)

var responseFreqs = []float64{20, 50, 100, 200, 500, 1000, 2000, 5000, 10000, 15000, 20000}

var octaveCenters = []float64{31.5, 63, 125, 250, 500, 1000, 2000, 4000, 8000, 16000}

func main() {
	def := eq.DefaultSettings()
	s := def

	sampleRate := flag.Float64("sr", 48000, "sample rate in Hz")
	flag.Float64Var(&s.LowCutFreq, "lowcut", def.LowCutFreq, "low cut frequency in Hz")
	flag.Float64Var(&s.HighCutFreq, "highcut", def.HighCutFreq, "high cut frequency in Hz")
	flag.Float64Var(&s.PeakFreq, "peak", def.PeakFreq, "peak frequency in Hz")
	flag.Float64Var(&s.PeakGainDB, "gain", def.PeakGainDB, "peak gain in dB")
	flag.Float64Var(&s.PeakQuality, "q", def.PeakQuality, "peak quality")
	flag.TextVar(&s.LowCutSlope, "lowslope", def.LowCutSlope, "low cut slope (12, 24, 36 or 48 dB/oct)")
	flag.TextVar(&s.HighCutSlope, "highslope", def.HighCutSlope, "high cut slope (12, 24, 36 or 48 dB/oct)")
	noise := flag.Bool("noise", false, "measure octave band gains with white noise")
	seconds := flag.Float64("seconds", 2, "noise duration for -noise")
	fftSize := flag.Int("fft", 4096, "FFT size for -noise")
	params := flag.Bool("params", false, "list parameter ranges and exit")
	asJSON := flag.Bool("json", false, "print the settings as JSON")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: eqinfo [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Prints the response of the parametric equalizer.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  eqinfo -peak 1000 -gain 6 -q 1\n")
		fmt.Fprintf(os.Stderr, "  eqinfo -lowcut 100 -lowslope 24 -highcut 10000 -noise\n")
		fmt.Fprintf(os.Stderr, "  eqinfo -params\n")
	}
	flag.Parse()

	if *params {
		if err := printParams(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}

		return
	}

	if err := validateSampleRate(*sampleRate); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := s.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		if err := enc.Encode(s); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	if err := printResponse(os.Stdout, s, *sampleRate); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if !*noise {
		return
	}

	n := int(*seconds * *sampleRate)

	rows, err := measureBands(s, *sampleRate, *fftSize, n)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()

	if err := printBands(os.Stdout, rows); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func validateSampleRate(sampleRate float64) error {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%w: %v", eq.ErrInvalidSampleRate, sampleRate)
	}

	return nil
}

func printParams(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Parameter\tKind\tMin\tMax\tStep\tSkew\tDefault\n")
	fmt.Fprintf(tw, "---------\t----\t---\t---\t----\t----\t-------\n")

	for _, p := range eq.Specs() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%g\t%g\t%s\n",
			p.Name, p.Kind, p.Label(p.Min), p.Label(p.Max), p.Step, p.Skew, p.Label(p.Default))
	}

	return tw.Flush()
}

func printResponse(w io.Writer, s eq.Settings, sampleRate float64) error {
	if err := validateSampleRate(sampleRate); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Freq [Hz]\tResponse [dB]\n")
	fmt.Fprintf(tw, "---------\t-------------\n")

	for _, f := range responseFreqs {
		if f >= sampleRate/2 {
			continue
		}

		fmt.Fprintf(tw, "%g\t%.2f\n", f, eq.Response(s, sampleRate, f))
	}

	return tw.Flush()
}

type bandRow struct {
	center   float64
	expected float64
	measured float64
}

// measureBands runs n samples of seeded white noise through the processor
// and compares octave band energies against the unfiltered input.
func measureBands(s eq.Settings, sampleRate float64, fftSize, n int) ([]bandRow, error) {
	if err := validateSampleRate(sampleRate); err != nil {
		return nil, err
	}

	store := eq.NewStore()
	store.Load(s)

	p, err := eq.New(store, eq.WithSampleRate(sampleRate))
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(1))

	ref := make([]float64, n)
	for i := range ref {
		ref[i] = rng.Float64() - 0.5
	}

	out := make([]float64, n)
	copy(out, ref)

	const block = 512
	for off := 0; off < n; off += block {
		p.Process(out[off:min(off+block, n)], nil)
	}

	a, err := band.NewAnalyzer(fftSize, sampleRate)
	if err != nil {
		return nil, err
	}

	refSpec, err := a.Analyze(ref)
	if err != nil {
		return nil, err
	}

	outSpec, err := a.Analyze(out)
	if err != nil {
		return nil, err
	}

	var rows []bandRow

	for _, fc := range octaveCenters {
		lo, hi := fc/math.Sqrt2, fc*math.Sqrt2
		if hi >= sampleRate/2 {
			break
		}

		g, err := band.GainDB(outSpec, refSpec, lo, hi)
		if err != nil {
			return nil, err
		}

		rows = append(rows, bandRow{center: fc, expected: eq.Response(s, sampleRate, fc), measured: g})
	}

	return rows, nil
}

func printBands(w io.Writer, rows []bandRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Octave [Hz]\tResponse [dB]\tMeasured [dB]\n")
	fmt.Fprintf(tw, "-----------\t-------------\t-------------\n")

	for _, r := range rows {
		fmt.Fprintf(tw, "%g\t%.2f\t%.2f\n", r.center, r.expected, r.measured)
	}

	return tw.Flush()
}
