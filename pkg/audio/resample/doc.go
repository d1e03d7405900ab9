// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts audio between different sample rates and channel counts
// Package resample provides sample rate conversion for speech clips.
//
// Example:
//
//	mono := resample.ToMono(samples, 2)
//	out := resample.Convert(mono, 44100, 24000, 1)
package resample
