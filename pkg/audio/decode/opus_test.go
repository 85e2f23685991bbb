// ABOUTME: Tests for Opus decoder
// ABOUTME: Decodes packets produced by the libopus encoder
package decode

import (
	"math"
	"testing"

	"github.com/Resonate-Protocol/streamplay/pkg/audio"
	"gopkg.in/hraban/opus.v2"
)

func TestNewOpus_MonoChannel(t *testing.T) {
	decoder, err := NewOpus(audio.Format{Codec: audio.CodecOpus, SampleRate: 48000, Channels: 1})
	if err != nil {
		t.Fatalf("failed to create mono decoder: %v", err)
	}

	if decoder == nil {
		t.Fatal("expected decoder to be created")
	}
}

func TestNewOpus_InvalidSampleRate(t *testing.T) {
	decoder, err := NewOpus(audio.Format{Codec: audio.CodecOpus, SampleRate: 44100, Channels: 2})
	if err == nil {
		t.Fatal("expected libopus to reject 44100Hz")
	}
	if decoder != nil {
		t.Fatal("if error is returned, decoder must be nil")
	}
}

func TestOpusDecode(t *testing.T) {
	const (
		sampleRate = 48000
		channels   = 2
		frameSize  = 960 // 20ms
	)

	enc, err := opus.NewEncoder(sampleRate, channels, opus.AppAudio)
	if err != nil {
		t.Fatalf("failed to create encoder: %v", err)
	}

	pcm := make([]float32, frameSize*channels)
	for i := 0; i < frameSize; i++ {
		s := float32(0.3 * math.Sin(2*math.Pi*440*float64(i)/sampleRate))
		pcm[i*channels] = s
		pcm[i*channels+1] = s
	}

	packet := make([]byte, 4000)
	n, err := enc.EncodeFloat32(pcm, packet)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoder, err := NewOpus(audio.Format{Codec: audio.CodecOpus, SampleRate: sampleRate, Channels: channels})
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}
	defer decoder.Close()

	buf, err := decoder.Decode(packet[:n])
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if buf.Frames() != frameSize {
		t.Errorf("expected %d frames, got %d", frameSize, buf.Frames())
	}
	if buf.Channels() != channels {
		t.Errorf("expected %d channels, got %d", channels, buf.Channels())
	}
}

func TestOpusDecode_AfterClose(t *testing.T) {
	decoder, err := NewOpus(audio.Format{Codec: audio.CodecOpus, SampleRate: 48000, Channels: 1})
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}
	if err := decoder.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if _, err := decoder.Decode([]byte{0xF8, 0xFF, 0xFE}); err == nil {
		t.Fatal("expected error after close")
	}
}
