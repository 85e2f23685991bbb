// ABOUTME: Tests for the decoder factory and per-codec constructors
// ABOUTME: Table-driven checks of codec validation error messages
package decode

import (
	"testing"

	"github.com/Resonate-Protocol/streamplay/pkg/audio"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		format  audio.Format
		wantErr bool
	}{
		{"pcm", audio.Format{Codec: audio.CodecPCM, SampleRate: 16000, Channels: 1, BitDepth: 16}, false},
		{"mp3", audio.Format{Codec: audio.CodecMP3, SampleRate: 44100, Channels: 2}, false},
		{"wav", audio.Format{Codec: audio.CodecWAV, SampleRate: 44100, Channels: 2}, false},
		{"flac", audio.Format{Codec: audio.CodecFLAC, SampleRate: 48000, Channels: 2}, false},
		{"opus", audio.Format{Codec: audio.CodecOpus, SampleRate: 48000, Channels: 2}, false},
		{"mulaw", audio.Format{Codec: audio.CodecULaw, SampleRate: 8000, Channels: 1}, false},
		{"alaw", audio.Format{Codec: audio.CodecALaw, SampleRate: 8000, Channels: 1}, false},
		{"unknown", audio.Format{Codec: "aac", SampleRate: 48000, Channels: 2}, true},
		{"pcm bad depth", audio.Format{Codec: audio.CodecPCM, SampleRate: 16000, Channels: 1, BitDepth: 24}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoder, err := New(tt.format)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if decoder != nil {
					t.Fatal("expected decoder to be nil on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("failed to create decoder: %v", err)
			}
			if err := decoder.Close(); err != nil {
				t.Errorf("expected Close to succeed, got error: %v", err)
			}
		})
	}
}

func TestConstructors_InvalidCodec(t *testing.T) {
	wrong := audio.Format{Codec: "opus", SampleRate: 48000, Channels: 2, BitDepth: 16}
	pcm := audio.Format{Codec: "pcm", SampleRate: 48000, Channels: 2, BitDepth: 16}

	tests := []struct {
		name        string
		construct   func(audio.Format) (Decoder, error)
		format      audio.Format
		expectedErr string
	}{
		{"pcm", NewPCM, wrong, "invalid codec for PCM decoder: opus"},
		{"mp3", NewMP3, wrong, "invalid codec for MP3 decoder: opus"},
		{"wav", NewWAV, wrong, "invalid codec for WAV decoder: opus"},
		{"flac", NewFLAC, wrong, "invalid codec for FLAC decoder: opus"},
		{"opus", NewOpus, pcm, "invalid codec for Opus decoder: pcm"},
		{"g711", NewG711, wrong, "invalid codec for G.711 decoder: opus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoder, err := tt.construct(tt.format)
			if err == nil {
				t.Fatal("expected error for invalid codec, got nil")
			}
			if decoder != nil {
				t.Fatal("expected decoder to be nil for invalid codec")
			}
			if err.Error() != tt.expectedErr {
				t.Errorf("expected error %q, got %q", tt.expectedErr, err.Error())
			}
		})
	}
}

func TestDecode_Garbage(t *testing.T) {
	garbage := []byte{0x00, 0x01, 0x02, 0x03}
	formats := []audio.Format{
		{Codec: audio.CodecMP3, SampleRate: 44100, Channels: 2},
		{Codec: audio.CodecWAV, SampleRate: 44100, Channels: 2},
		{Codec: audio.CodecFLAC, SampleRate: 44100, Channels: 2},
	}

	for _, format := range formats {
		t.Run(string(format.Codec), func(t *testing.T) {
			decoder, err := New(format)
			if err != nil {
				t.Fatalf("failed to create decoder: %v", err)
			}
			buf, err := decoder.Decode(garbage)
			if err == nil {
				t.Fatal("expected decode error for garbage input")
			}
			if buf != nil {
				t.Fatal("expected nil buffer on error")
			}
		})
	}
}
