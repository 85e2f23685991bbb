// ABOUTME: Audio encoder package for encoding float samples to wire formats
// ABOUTME: Provides Encoder interface and implementations for PCM, Opus
// Package encode provides audio encoders for various codecs.
//
// Supports: PCM (8, 16 and 32-bit little-endian), Opus
//
// All encoders accept interleaved float32 samples in [-1.0, 1.0] and encode
// to fragment bytes that the matching decoder (or the raw sample converter)
// reads back.
//
// Example:
//
//	encoder, err := encode.NewPCM(format)
//	data, err := encoder.Encode(samples)
package encode
