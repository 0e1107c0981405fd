package eq

import (
	"math"

	"github.com/cwbudde/algo-peq/dsp/core"
)

// ParamID identifies one of the equalizer parameters.
type ParamID int

const (
	LowCutFreq ParamID = iota
	HighCutFreq
	PeakFreq
	PeakGain
	PeakQuality
	LowCutSlope
	HighCutSlope
)

// NumParams is the number of parameters exposed by the equalizer.
const NumParams = 7

// Valid reports whether id names a parameter.
func (id ParamID) Valid() bool { return id >= 0 && id < NumParams }

func (id ParamID) String() string {
	if !id.Valid() {
		return "Unknown"
	}

	return specs[id].Name
}

// Kind distinguishes continuous parameters from discrete choices.
type Kind int

const (
	Continuous Kind = iota
	Choice
)

func (k Kind) String() string {
	switch k {
	case Continuous:
		return "continuous"
	case Choice:
		return "choice"
	default:
		return "unknown"
	}
}

// ParamSpec describes the range and host-facing mapping of a parameter.
type ParamSpec struct {
	ID      ParamID
	Name    string
	Unit    string
	Kind    Kind
	Min     float64
	Max     float64
	Step    float64
	Skew    float64
	Default float64
	Choices []string
}

var slopeChoices = []string{"12 dB/Oct", "24 dB/Oct", "36 dB/Oct", "48 dB/Oct"}

var specs = [NumParams]ParamSpec{
	{ID: LowCutFreq, Name: "LowCut Freq", Unit: "Hz", Kind: Continuous, Min: 20, Max: 20000, Step: 1, Skew: 0.25, Default: 20},
	{ID: HighCutFreq, Name: "HighCut Freq", Unit: "Hz", Kind: Continuous, Min: 20, Max: 20000, Step: 1, Skew: 0.25, Default: 20000},
	{ID: PeakFreq, Name: "Peak Freq", Unit: "Hz", Kind: Continuous, Min: 20, Max: 20000, Step: 1, Skew: 0.25, Default: 750},
	{ID: PeakGain, Name: "Peak Gain", Unit: "dB", Kind: Continuous, Min: -24, Max: 24, Step: 0.5, Skew: 1, Default: 0},
	{ID: PeakQuality, Name: "Peak Quality", Kind: Continuous, Min: 0.1, Max: 10, Step: 0.05, Skew: 1, Default: 1},
	{ID: LowCutSlope, Name: "LowCut Slope", Kind: Choice, Min: 0, Max: NumSlopes - 1, Step: 1, Skew: 1, Default: 0, Choices: slopeChoices},
	{ID: HighCutSlope, Name: "HighCut Slope", Kind: Choice, Min: 0, Max: NumSlopes - 1, Step: 1, Skew: 1, Default: 0, Choices: slopeChoices},
}

// Specs returns the parameter table in ParamID order.
func Specs() []ParamSpec {
	out := make([]ParamSpec, NumParams)
	copy(out, specs[:])

	return out
}

// Spec returns the specification of a single parameter.
func Spec(id ParamID) (ParamSpec, bool) {
	if !id.Valid() {
		return ParamSpec{}, false
	}

	return specs[id], true
}

// InRange reports whether v is a finite value inside [Min, Max].
func (p ParamSpec) InRange(v float64) bool {
	return core.IsFinite(v) && v >= p.Min && v <= p.Max
}

// Clamp limits v to [Min, Max]. NaN maps to Default and choices are rounded
// to the nearest index.
func (p ParamSpec) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return p.Default
	}

	if p.Kind == Choice {
		v = math.Round(v)
	}

	return core.Clamp(v, p.Min, p.Max)
}

// Snap clamps v and rounds it to the parameter's step grid.
func (p ParamSpec) Snap(v float64) float64 {
	v = p.Clamp(v)
	if p.Step > 0 {
		v = p.Min + p.Step*math.Round((v-p.Min)/p.Step)
	}

	return core.Clamp(v, p.Min, p.Max)
}

// Normalize maps v to the host's 0..1 range, applying the skew factor.
func (p ParamSpec) Normalize(v float64) float64 {
	span := p.Max - p.Min
	if span <= 0 {
		return 0
	}

	n := (p.Clamp(v) - p.Min) / span
	if p.Skew > 0 && p.Skew != 1 {
		n = math.Pow(n, p.Skew)
	}

	return n
}

// Denormalize maps a 0..1 host value back to the parameter range and snaps
// it to the step grid.
func (p ParamSpec) Denormalize(n float64) float64 {
	n = core.Clamp(n, 0, 1)
	if p.Skew > 0 && p.Skew != 1 && n > 0 {
		n = math.Exp(math.Log(n) / p.Skew)
	}

	return p.Snap(p.Min + n*(p.Max-p.Min))
}

// Label formats v for display.
func (p ParamSpec) Label(v float64) string {
	if p.Kind == Choice {
		idx := int(p.Clamp(v))
		if idx >= 0 && idx < len(p.Choices) {
			return p.Choices[idx]
		}
	}

	return formatValue(p.Clamp(v), p.Unit)
}
