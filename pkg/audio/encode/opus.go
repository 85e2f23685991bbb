// ABOUTME: Opus audio encoder
// ABOUTME: Encodes float32 samples to 20ms Opus packets
package encode

import (
	"fmt"

	"github.com/Resonate-Protocol/streamplay/pkg/audio"
	"gopkg.in/hraban/opus.v2"
)

const maxOpusPacketSize = 4000

// OpusEncoder encodes Opus audio
type OpusEncoder struct {
	encoder    *opus.Encoder
	sampleRate int
	channels   int
	frameSize  int
}

// NewOpus creates a new Opus encoder
func NewOpus(format audio.Format) (*OpusEncoder, error) {
	if format.Codec != audio.CodecOpus {
		return nil, fmt.Errorf("invalid codec for Opus encoder: %s", format.Codec)
	}

	encoder, err := opus.NewEncoder(format.SampleRate, format.Channels, opus.AppAudio)
	if err != nil {
		return nil, fmt.Errorf("failed to create opus encoder: %w", err)
	}

	return &OpusEncoder{
		encoder:    encoder,
		sampleRate: format.SampleRate,
		channels:   format.Channels,
		frameSize:  format.SampleRate / 50, // 20ms
	}, nil
}

// FrameSamples returns the interleaved sample count of one packet
func (e *OpusEncoder) FrameSamples() int {
	return e.frameSize * e.channels
}

// Encode converts exactly one 20ms frame of interleaved samples to a packet
func (e *OpusEncoder) Encode(samples []float32) ([]byte, error) {
	if len(samples) != e.FrameSamples() {
		return nil, fmt.Errorf("opus frame must be %d samples, got %d", e.FrameSamples(), len(samples))
	}

	data := make([]byte, maxOpusPacketSize)
	n, err := e.encoder.EncodeFloat32(samples, data)
	if err != nil {
		return nil, fmt.Errorf("opus encode error: %w", err)
	}

	return data[:n], nil
}

// EncodeAll splits samples into packets, zero-padding the final frame
func (e *OpusEncoder) EncodeAll(samples []float32) ([][]byte, error) {
	frame := e.FrameSamples()
	var packets [][]byte
	for start := 0; start < len(samples); start += frame {
		chunk := make([]float32, frame)
		copy(chunk, samples[start:])
		packet, err := e.Encode(chunk)
		if err != nil {
			return nil, err
		}
		packets = append(packets, packet)
	}
	return packets, nil
}

// Close releases resources
func (e *OpusEncoder) Close() error {
	return nil
}
