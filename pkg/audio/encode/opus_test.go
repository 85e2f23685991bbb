// ABOUTME: Unit tests for Opus encoder
// ABOUTME: Tests Opus encoding functionality
package encode

import (
	"strings"
	"testing"

	"github.com/Resonate-Protocol/streamplay/pkg/audio"
)

func TestNewOpus(t *testing.T) {
	tests := []struct {
		name        string
		format      audio.Format
		wantErr     bool
		errContains string
	}{
		{
			name:   "valid Opus 48kHz stereo",
			format: audio.Format{Codec: audio.CodecOpus, SampleRate: 48000, Channels: 2},
		},
		{
			name:   "valid Opus 48kHz mono",
			format: audio.Format{Codec: audio.CodecOpus, SampleRate: 48000, Channels: 1},
		},
		{
			name:        "invalid codec",
			format:      audio.Format{Codec: audio.CodecPCM, SampleRate: 48000, Channels: 2, BitDepth: 16},
			wantErr:     true,
			errContains: "invalid codec",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoder, err := NewOpus(tt.format)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NewOpus() expected error, got nil")
				} else if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("NewOpus() error = %v, want error containing %v", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewOpus() unexpected error = %v", err)
			}
			encoder.Close()
		})
	}
}

func TestOpusEncoder_Encode(t *testing.T) {
	encoder, err := NewOpus(audio.Format{Codec: audio.CodecOpus, SampleRate: 48000, Channels: 2})
	if err != nil {
		t.Fatalf("NewOpus() failed: %v", err)
	}
	defer encoder.Close()

	samples := make([]float32, encoder.FrameSamples())
	for i := range samples {
		samples[i] = float32(i%100)/100.0 - 0.5
	}

	output, err := encoder.Encode(samples)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	if len(output) == 0 || len(output) > maxOpusPacketSize {
		t.Errorf("Encode() output size %d outside (0, %d]", len(output), maxOpusPacketSize)
	}
}

func TestOpusEncoder_WrongFrameSize(t *testing.T) {
	encoder, err := NewOpus(audio.Format{Codec: audio.CodecOpus, SampleRate: 48000, Channels: 1})
	if err != nil {
		t.Fatalf("NewOpus() failed: %v", err)
	}
	defer encoder.Close()

	if _, err := encoder.Encode(make([]float32, 100)); err == nil {
		t.Error("expected error for short frame")
	}
}

func TestOpusEncoder_EncodeAll(t *testing.T) {
	encoder, err := NewOpus(audio.Format{Codec: audio.CodecOpus, SampleRate: 48000, Channels: 1})
	if err != nil {
		t.Fatalf("NewOpus() failed: %v", err)
	}
	defer encoder.Close()

	// 2.5 frames of silence -> 3 packets
	packets, err := encoder.EncodeAll(make([]float32, encoder.FrameSamples()*5/2))
	if err != nil {
		t.Fatalf("EncodeAll() failed: %v", err)
	}
	if len(packets) != 3 {
		t.Errorf("expected 3 packets, got %d", len(packets))
	}
}
