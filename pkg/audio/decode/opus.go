// ABOUTME: Opus audio decoder
// ABOUTME: Decodes single Opus packets to float32 buffers
package decode

import (
	"fmt"
	"sync"

	"github.com/Resonate-Protocol/streamplay/pkg/audio"
	"gopkg.in/hraban/opus.v2"
)

// 120ms at 48kHz, the largest Opus frame
const maxOpusFrameSize = 5760

// OpusDecoder decodes Opus audio
type OpusDecoder struct {
	mu      sync.Mutex
	decoder *opus.Decoder
	format  audio.Format
	closed  bool
}

// NewOpus creates a new Opus decoder
func NewOpus(format audio.Format) (Decoder, error) {
	if format.Codec != audio.CodecOpus {
		return nil, fmt.Errorf("invalid codec for Opus decoder: %s", format.Codec)
	}

	dec, err := opus.NewDecoder(format.SampleRate, format.Channels)
	if err != nil {
		return nil, fmt.Errorf("failed to create opus decoder: %w", err)
	}

	return &OpusDecoder{
		decoder: dec,
		format:  format,
	}, nil
}

// Decode converts one Opus packet to a buffer
func (d *OpusDecoder) Decode(data []byte) (*audio.Buffer, error) {
	pcm := make([]float32, maxOpusFrameSize*d.format.Channels)

	// libopus decoder state is not safe for concurrent use
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, fmt.Errorf("opus decoder closed")
	}
	n, err := d.decoder.DecodeFloat32(data, pcm)
	d.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("opus decode failed: %w", err)
	}

	return audio.FromInterleaved(pcm[:n*d.format.Channels], d.format.Channels, d.format.SampleRate)
}

// Close releases decoder resources
func (d *OpusDecoder) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return nil
}
