// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, Buffer types and PCM to float conversion
// Package audio provides fundamental audio types and utilities for streamed playback.
//
// This package defines core types used throughout the streamplay library:
//   - Format: Describes a fragment stream (codec, sample rate, channels, bit depth)
//   - Buffer: Decoded float32 audio, one sample slice per channel
//
// It also provides the sample converter that normalises signed integer PCM
// (8, 16 or 32 bit) to float32 in [-1.0, 1.0), and helpers to move between
// interleaved and per-channel layouts.
//
// Example:
//
//	samples, err := audio.ConvertPCM(fragment, 16)
//	buf := audio.NewBuffer(2, len(samples)/2, 48000)
//	err = audio.Deinterleave(buf, samples)
package audio
