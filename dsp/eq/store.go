package eq

import (
	"math"
	"sync/atomic"
)

// Source supplies the parameter snapshot read at the start of every block.
// Snapshot is called on the audio goroutine and must not block or allocate.
type Source interface {
	Snapshot() Settings
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func() Settings

// Snapshot calls f.
func (f SourceFunc) Snapshot() Settings { return f() }

// Store is a lock-free parameter store. Each parameter is an independent
// atomic word holding float64 bits, so a writer goroutine (UI, automation)
// and the audio goroutine never contend on a lock. A snapshot may mix
// values from consecutive writes; the last write to each parameter wins.
//
// The zero value holds all zeros; use NewStore for the defaults.
type Store struct {
	values [NumParams]atomic.Uint64
}

// NewStore returns a store initialized to DefaultSettings.
func NewStore() *Store {
	s := &Store{}
	s.Reset()

	return s
}

// Set clamps v to the parameter range, snaps it to the step grid and stores
// it. It returns the stored value. Unknown ids are ignored and return NaN.
func (s *Store) Set(id ParamID, v float64) float64 {
	if !id.Valid() {
		return math.NaN()
	}

	v = specs[id].Snap(v)
	s.values[id].Store(math.Float64bits(v))

	return v
}

// SetNormalized stores a host-normalized 0..1 value.
func (s *Store) SetNormalized(id ParamID, n float64) float64 {
	if !id.Valid() {
		return math.NaN()
	}

	return s.Set(id, specs[id].Denormalize(n))
}

// Get returns the current value of a parameter, or NaN for unknown ids.
func (s *Store) Get(id ParamID) float64 {
	if !id.Valid() {
		return math.NaN()
	}

	return math.Float64frombits(s.values[id].Load())
}

// GetNormalized returns the current value mapped to 0..1.
func (s *Store) GetNormalized(id ParamID) float64 {
	if !id.Valid() {
		return math.NaN()
	}

	return specs[id].Normalize(s.Get(id))
}

// Snapshot reads every parameter once.
func (s *Store) Snapshot() Settings {
	var out Settings
	for id := range ParamID(NumParams) {
		out.SetValue(id, math.Float64frombits(s.values[id].Load()))
	}

	return out
}

// Load stores a complete parameter set, e.g. when restoring saved state.
// Values are clamped but not snapped so that restored state is exact.
func (s *Store) Load(settings Settings) {
	for id := range ParamID(NumParams) {
		v := specs[id].Clamp(settings.Value(id))
		s.values[id].Store(math.Float64bits(v))
	}
}

// Reset restores every parameter to its default.
func (s *Store) Reset() {
	s.Load(DefaultSettings())
}
