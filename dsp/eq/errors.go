package eq

import "errors"

var (
	ErrOutOfRange        = errors.New("eq: parameter out of range")
	ErrInvalidSampleRate = errors.New("eq: sample rate must be positive and finite")
	ErrNilSource         = errors.New("eq: parameter source is nil")
	ErrUnknownParam      = errors.New("eq: unknown parameter")
	ErrInvalidSlope      = errors.New("eq: invalid slope")
)
