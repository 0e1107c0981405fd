// Package design provides the biquad coefficient designers used by the EQ:
// RBJ-cookbook lowpass, highpass and peaking sections, and Butterworth
// highpass/lowpass cascades of arbitrary order.
//
// Every cascade designer has an Into variant that writes into a caller-owned
// slice so coefficients can be recomputed on the audio thread without
// allocating.
package design
