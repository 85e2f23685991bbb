// ABOUTME: Audio decoder package for multiple codec support
// ABOUTME: Provides Decoder interface and implementations for PCM, MP3, WAV, FLAC, Opus, G.711
// Package decode provides audio decoders for various codecs.
//
// Supports: PCM (8, 16 and 32-bit), MP3, WAV, FLAC, Opus, G.711 mu-law and A-law
//
// Every fragment handed to Decode is treated as a self-contained payload
// (a whole MP3/WAV/FLAC file or a single Opus packet). All decoders implement
// the Decoder interface and return an *audio.Buffer of float32 samples at the
// stream's own sample rate.
//
// Example:
//
//	decoder, err := decode.New(format)
//	buf, err := decoder.Decode(fragment)
package decode
