// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts audio between different sample rates
// Package resample provides audio sample rate conversion.
//
// Uses linear interpolation for converting between sample rates.
// Handles both upsampling and downsampling. Resampler works on an
// interleaved stream chunk by chunk; Buffer converts a whole decoded buffer
// by running one Resampler per channel.
//
// Example:
//
//	r := resample.New(44100, 48000, 2)
//	outputSize := r.Resample(inputSamples, outputSamples)
//
//	converted := resample.Buffer(buf, 48000)
package resample
