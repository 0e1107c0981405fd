package eq

import (
	"fmt"
	"strconv"
	"strings"
)

// Slope selects the steepness of a cut filter. Slope index k activates k+1
// second-order sections, i.e. a Butterworth filter of order 2(k+1).
type Slope int

const (
	Slope12 Slope = iota
	Slope24
	Slope36
	Slope48
)

// NumSlopes is the number of selectable slopes.
const NumSlopes = 4

// Valid reports whether s is one of the four defined slopes.
func (s Slope) Valid() bool { return s >= Slope12 && s <= Slope48 }

// Clamp maps s into the valid range.
func (s Slope) Clamp() Slope {
	switch {
	case s < Slope12:
		return Slope12
	case s > Slope48:
		return Slope48
	default:
		return s
	}
}

// Sections returns the number of active second-order sections.
func (s Slope) Sections() int { return int(s.Clamp()) + 1 }

// Order returns the Butterworth filter order.
func (s Slope) Order() int { return 2 * s.Sections() }

// DBPerOctave returns the asymptotic attenuation per octave.
func (s Slope) DBPerOctave() int { return 12 * s.Sections() }

func (s Slope) String() string {
	if !s.Valid() {
		return "Slope(" + strconv.Itoa(int(s)) + ")"
	}

	return strconv.Itoa(s.DBPerOctave()) + " dB/Oct"
}

// MarshalText encodes the slope as its display label, e.g. "24 dB/Oct".
func (s Slope) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSlope, int(s))
	}

	return []byte(s.String()), nil
}

// UnmarshalText accepts a display label ("24 dB/Oct"), a bare dB value
// ("24") or a slope index ("1").
func (s *Slope) UnmarshalText(text []byte) error {
	str := strings.TrimSpace(string(text))
	str = strings.TrimSpace(strings.TrimSuffix(strings.ToLower(str), "db/oct"))

	n, err := strconv.Atoi(str)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidSlope, text)
	}

	switch {
	case n >= 0 && n < NumSlopes:
		*s = Slope(n)
	case n%12 == 0 && n/12 >= 1 && n/12 <= NumSlopes:
		*s = Slope(n/12 - 1)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSlope, text)
	}

	return nil
}
