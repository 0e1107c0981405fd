// Package biquad provides the second-order IIR section primitive the EQ
// stages are built on.
//
// [Coefficients] is an immutable-by-convention value describing one
// second-order transfer function with a0 normalized to 1. [DelayLine] holds
// the Direct Form II Transposed state and filters samples with coefficients
// passed per call, which lets several delay lines (left and right channel)
// share one coefficient value. [Section] bundles both for standalone use.
//
// Block processing dispatches to a kernel chosen for the running CPU when
// the package is initialized; [KernelName] reports which one.
//
// Coefficient design (Butterworth, RBJ peaking, ...) lives in dsp/filter/design.
package biquad
