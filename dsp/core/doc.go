// Package core holds the small numeric helpers shared by the filter, EQ and
// measurement packages: clamping, finiteness checks, dB conversions and
// denormal flushing.
package core
