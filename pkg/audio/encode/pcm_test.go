// ABOUTME: Unit tests for PCM encoder
// ABOUTME: Tests 8, 16 and 32-bit PCM encoding and clamping
package encode

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/Resonate-Protocol/streamplay/pkg/audio"
)

func TestNewPCM(t *testing.T) {
	tests := []struct {
		name        string
		format      audio.Format
		wantErr     bool
		errContains string
	}{
		{
			name:   "valid 16-bit PCM",
			format: audio.Format{Codec: audio.CodecPCM, SampleRate: 48000, Channels: 2, BitDepth: 16},
		},
		{
			name:   "valid 8-bit PCM",
			format: audio.Format{Codec: audio.CodecPCM, SampleRate: 8000, Channels: 1, BitDepth: 8},
		},
		{
			name:   "valid 32-bit PCM",
			format: audio.Format{Codec: audio.CodecPCM, SampleRate: 48000, Channels: 2, BitDepth: 32},
		},
		{
			name:        "invalid codec",
			format:      audio.Format{Codec: audio.CodecOpus, SampleRate: 48000, Channels: 2, BitDepth: 16},
			wantErr:     true,
			errContains: "invalid codec",
		},
		{
			name:        "unsupported bit depth",
			format:      audio.Format{Codec: audio.CodecPCM, SampleRate: 48000, Channels: 2, BitDepth: 24},
			wantErr:     true,
			errContains: "unsupported bit depth",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoder, err := NewPCM(tt.format)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NewPCM() expected error, got nil")
				} else if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("NewPCM() error = %v, want error containing %v", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Errorf("NewPCM() unexpected error = %v", err)
			}
			if encoder == nil {
				t.Errorf("NewPCM() returned nil encoder")
			}
		})
	}
}

func TestPCMEncoder_Encode16Bit(t *testing.T) {
	encoder, err := NewPCM(audio.Format{Codec: audio.CodecPCM, SampleRate: 48000, Channels: 2, BitDepth: 16})
	if err != nil {
		t.Fatalf("NewPCM() failed: %v", err)
	}

	output, err := encoder.Encode([]float32{0, 0.5, -0.5, 1.0, -1.0, 2.0})
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}

	expected := []int16{0, 16384, -16384, 32767, -32768, 32767}
	if len(output) != len(expected)*2 {
		t.Fatalf("expected %d bytes, got %d", len(expected)*2, len(output))
	}
	for i, want := range expected {
		got := int16(binary.LittleEndian.Uint16(output[i*2:]))
		if got != want {
			t.Errorf("sample %d: expected %d, got %d", i, want, got)
		}
	}
}

func TestPCMEncoder_RoundTrip(t *testing.T) {
	for _, depth := range []int{8, 16, 32} {
		encoder, err := NewPCM(audio.Format{Codec: audio.CodecPCM, SampleRate: 16000, Channels: 1, BitDepth: depth})
		if err != nil {
			t.Fatalf("depth %d: NewPCM() failed: %v", depth, err)
		}

		input := []float32{0, 0.5, -0.5, -1.0}
		data, err := encoder.Encode(input)
		if err != nil {
			t.Fatalf("depth %d: Encode() failed: %v", depth, err)
		}

		back, err := audio.ConvertPCM(data, depth)
		if err != nil {
			t.Fatalf("depth %d: ConvertPCM() failed: %v", depth, err)
		}
		for i := range input {
			if back[i] != input[i] {
				t.Errorf("depth %d sample %d: expected %v, got %v", depth, i, input[i], back[i])
			}
		}
	}
}
