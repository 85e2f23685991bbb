// ABOUTME: Tests for the PCM sample converter
// ABOUTME: Covers full-scale normalisation and malformed input
package audio

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func TestConvertPCM_FullScale(t *testing.T) {
	tests := []struct {
		name     string
		bitDepth int
		data     []byte
		expected []float32
	}{
		{
			name:     "8-bit extremes",
			bitDepth: 8,
			data:     []byte{0x7F, 0x80, 0x00},
			expected: []float32{127.0 / 128.0, -1.0, 0},
		},
		{
			name:     "16-bit extremes",
			bitDepth: 16,
			data:     []byte{0xFF, 0x7F, 0x00, 0x80, 0x00, 0x00},
			expected: []float32{32767.0 / 32768.0, -1.0, 0},
		},
		{
			name:     "32-bit extremes",
			bitDepth: 32,
			data:     []byte{0xFF, 0xFF, 0xFF, 0x7F, 0x00, 0x00, 0x00, 0x80},
			expected: []float32{float32(2147483647.0 / 2147483648.0), -1.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ConvertPCM(tt.data, tt.bitDepth)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(result) != len(tt.expected) {
				t.Fatalf("expected %d samples, got %d", len(tt.expected), len(result))
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("sample %d: expected %v, got %v", i, tt.expected[i], result[i])
				}
			}
		})
	}
}

func TestConvertPCM_Range(t *testing.T) {
	data := make([]byte, 65536*2)
	for i := 0; i < 65536; i++ {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(i))
	}

	result, err := ConvertPCM(data, 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, s := range result {
		if s < -1.0 || s >= 1.0 {
			t.Fatalf("sample %d out of range: %v", i, s)
		}
	}
}

func TestConvertPCM_Errors(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		bitDepth int
		target   error
	}{
		{"24-bit unsupported", []byte{0, 0, 0}, 24, ErrUnsupportedBitDepth},
		{"zero depth", []byte{0}, 0, ErrUnsupportedBitDepth},
		{"odd 16-bit length", []byte{0, 0, 0}, 16, ErrMalformedSamples},
		{"short 32-bit length", []byte{0, 0, 0, 0, 0, 0}, 32, ErrMalformedSamples},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ConvertPCM(tt.data, tt.bitDepth)
			if !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestConvertPCM_Empty(t *testing.T) {
	result, err := ConvertPCM(nil, 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("expected no samples, got %d", len(result))
	}
}

func TestBytesPerSample(t *testing.T) {
	for depth, want := range map[int]int{8: 1, 16: 2, 32: 4} {
		got, err := BytesPerSample(depth)
		if err != nil {
			t.Fatalf("depth %d: %v", depth, err)
		}
		if got != want {
			t.Errorf("depth %d: expected %d, got %d", depth, want, got)
		}
	}
	if _, err := BytesPerSample(12); err == nil {
		t.Error("expected error for 12-bit")
	}
}

func TestConvertInts(t *testing.T) {
	result, err := ConvertInts([]int{8388607, -8388608, 0}, 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(float64(result[0])-8388607.0/8388608.0) > 1e-7 {
		t.Errorf("unexpected max sample %v", result[0])
	}
	if result[1] != -1.0 || result[2] != 0 {
		t.Errorf("unexpected samples %v", result)
	}

	if _, err := ConvertInts([]int{1}, 20); !errors.Is(err, ErrUnsupportedBitDepth) {
		t.Errorf("expected ErrUnsupportedBitDepth, got %v", err)
	}
}
