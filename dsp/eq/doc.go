// Package eq implements the real-time core of a three-band parametric
// equalizer: a low-cut Butterworth cascade, a peaking section and a
// high-cut Butterworth cascade, applied in series to a left and a right
// channel.
//
// The package is split into four layers:
//
//   - the parameter model ([Settings], [Slope], [ParamSpec]) and a lock-free
//     parameter [Store] written by a UI or automation goroutine,
//   - the coefficient factory ([PeakCoefficients], [CutCoefficients]),
//   - the filter topology ([Stage], [CutChain], [ChannelChain]) whose shape is
//     fixed at construction, with unused cut stages bypassed instead of
//     removed,
//   - the [Processor], which reads one parameter snapshot per block, derives
//     coefficients once and installs them in both channels with atomic
//     pointer swaps before any sample of the block is filtered.
//
// Nothing on the audio path (Processor.Update, Processor.Process and the
// chain/stage Process methods) allocates, locks or returns an error. Invalid
// parameters are clamped. Building with the eqdebug tag turns the internal
// precondition checks into panics.
package eq
