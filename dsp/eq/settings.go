package eq

import (
	"errors"
	"fmt"
	"strconv"
)

// Settings is one consistent snapshot of every equalizer parameter. It is
// the only state an external persistence layer needs to serialize.
type Settings struct {
	LowCutFreq   float64 `json:"lowCutFreq"`
	HighCutFreq  float64 `json:"highCutFreq"`
	PeakFreq     float64 `json:"peakFreq"`
	PeakGainDB   float64 `json:"peakGainDb"`
	PeakQuality  float64 `json:"peakQuality"`
	LowCutSlope  Slope   `json:"lowCutSlope"`
	HighCutSlope Slope   `json:"highCutSlope"`
}

// DefaultSettings returns every parameter at its default value.
func DefaultSettings() Settings {
	var s Settings
	for id := range ParamID(NumParams) {
		s.SetValue(id, specs[id].Default)
	}

	return s
}

// Value returns the parameter as a plain number. Slopes are returned as
// their index.
func (s Settings) Value(id ParamID) float64 {
	switch id {
	case LowCutFreq:
		return s.LowCutFreq
	case HighCutFreq:
		return s.HighCutFreq
	case PeakFreq:
		return s.PeakFreq
	case PeakGain:
		return s.PeakGainDB
	case PeakQuality:
		return s.PeakQuality
	case LowCutSlope:
		return float64(s.LowCutSlope)
	case HighCutSlope:
		return float64(s.HighCutSlope)
	default:
		return 0
	}
}

// SetValue stores v without range checks. Slope values are truncated to an
// index.
func (s *Settings) SetValue(id ParamID, v float64) {
	switch id {
	case LowCutFreq:
		s.LowCutFreq = v
	case HighCutFreq:
		s.HighCutFreq = v
	case PeakFreq:
		s.PeakFreq = v
	case PeakGain:
		s.PeakGainDB = v
	case PeakQuality:
		s.PeakQuality = v
	case LowCutSlope:
		s.LowCutSlope = Slope(v)
	case HighCutSlope:
		s.HighCutSlope = Slope(v)
	}
}

// Validate reports every parameter outside its documented range.
func (s Settings) Validate() error {
	var errs []error

	for id := range ParamID(NumParams) {
		spec := specs[id]

		v := s.Value(id)
		if !spec.InRange(v) {
			errs = append(errs, fmt.Errorf("%w: %s = %v, want [%g, %g]", ErrOutOfRange, spec.Name, v, spec.Min, spec.Max))
		}
	}

	return errors.Join(errs...)
}

// Clamp returns a copy with every parameter forced into range.
func (s Settings) Clamp() Settings {
	out := s
	for id := range ParamID(NumParams) {
		out.SetValue(id, specs[id].Clamp(s.Value(id)))
	}

	return out
}

func (s Settings) inRange() bool {
	for id := range ParamID(NumParams) {
		if !specs[id].InRange(s.Value(id)) {
			return false
		}
	}

	return true
}

func formatValue(v float64, unit string) string {
	str := strconv.FormatFloat(v, 'f', -1, 64)
	if unit == "" {
		return str
	}

	return str + " " + unit
}
