// ABOUTME: Tests for PCM decoder
// ABOUTME: Tests 8, 16 and 32-bit PCM decoding into buffers
package decode

import (
	"testing"

	"github.com/Resonate-Protocol/streamplay/pkg/audio"
)

func TestPCMDecode16BitStereo(t *testing.T) {
	decoder, err := NewPCM(audio.Format{Codec: audio.CodecPCM, SampleRate: 48000, Channels: 2, BitDepth: 16})
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	// L=0x4000 R=0xC000, L=0 R=0x7FFF
	input := []byte{0x00, 0x40, 0x00, 0xC0, 0x00, 0x00, 0xFF, 0x7F}
	buf, err := decoder.Decode(input)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if buf.Channels() != 2 || buf.Frames() != 2 {
		t.Fatalf("expected 2ch x 2 frames, got %dch x %d", buf.Channels(), buf.Frames())
	}
	if buf.Data[0][0] != 0.5 || buf.Data[1][0] != -0.5 {
		t.Errorf("unexpected first frame: %v %v", buf.Data[0][0], buf.Data[1][0])
	}
	if buf.Data[1][1] != 32767.0/32768.0 {
		t.Errorf("unexpected max sample: %v", buf.Data[1][1])
	}
	if buf.SampleRate != 48000 {
		t.Errorf("expected 48000Hz, got %d", buf.SampleRate)
	}
}

func TestPCMDecode_SplitFrame(t *testing.T) {
	decoder, err := NewPCM(audio.Format{Codec: audio.CodecPCM, SampleRate: 48000, Channels: 2, BitDepth: 8})
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	if _, err := decoder.Decode([]byte{0x01, 0x02, 0x03}); err == nil {
		t.Fatal("expected error for partial frame")
	}
}

func TestPCMDecode32Bit(t *testing.T) {
	decoder, err := NewPCM(audio.Format{Codec: audio.CodecPCM, SampleRate: 8000, Channels: 1, BitDepth: 32})
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	buf, err := decoder.Decode([]byte{0x00, 0x00, 0x00, 0xC0})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if buf.Data[0][0] != -0.5 {
		t.Errorf("expected -0.5, got %v", buf.Data[0][0])
	}
}
