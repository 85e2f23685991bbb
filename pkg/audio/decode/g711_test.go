// ABOUTME: Tests for G.711 decoder
// ABOUTME: Checks mu-law and A-law expansion into buffers
package decode

import (
	"errors"
	"math"
	"testing"

	"github.com/Resonate-Protocol/streamplay/pkg/audio"
)

func TestG711Decode(t *testing.T) {
	tests := []struct {
		name    string
		codec   audio.Codec
		silence byte
	}{
		{"mulaw", audio.CodecULaw, 0xFF},
		{"alaw", audio.CodecALaw, 0xD5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoder, err := NewG711(audio.Format{Codec: tt.codec, SampleRate: 8000, Channels: 1})
			if err != nil {
				t.Fatalf("failed to create decoder: %v", err)
			}

			input := []byte{tt.silence, tt.silence, tt.silence, tt.silence}
			buf, err := decoder.Decode(input)
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if buf.Frames() != len(input) {
				t.Fatalf("expected %d frames, got %d", len(input), buf.Frames())
			}
			if buf.Duration() != 0.0005 {
				t.Errorf("expected 0.5ms, got %v", buf.Duration())
			}
			for i, s := range buf.Data[0] {
				if math.Abs(float64(s)) > 0.001 {
					t.Errorf("sample %d should be near silence, got %v", i, s)
				}
			}
		})
	}
}

func TestG711Decode_Stereo(t *testing.T) {
	decoder, err := NewG711(audio.Format{Codec: audio.CodecULaw, SampleRate: 8000, Channels: 2})
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	// full-scale positive on the left, full-scale negative on the right
	buf, err := decoder.Decode([]byte{0x80, 0x00})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if buf.Data[0][0] <= 0.9 || buf.Data[1][0] >= -0.9 {
		t.Errorf("unexpected samples: L=%v R=%v", buf.Data[0][0], buf.Data[1][0])
	}

	if _, err := decoder.Decode([]byte{0xFF}); !errors.Is(err, audio.ErrMalformedSamples) {
		t.Errorf("expected ErrMalformedSamples, got %v", err)
	}
}
