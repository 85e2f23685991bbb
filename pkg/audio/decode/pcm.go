// ABOUTME: PCM audio decoder
// ABOUTME: Wraps the sample converter to produce buffers from raw PCM
package decode

import (
	"fmt"

	"github.com/Resonate-Protocol/streamplay/pkg/audio"
)

// PCMDecoder decodes raw little-endian PCM
type PCMDecoder struct {
	bitDepth   int
	channels   int
	sampleRate int
}

// NewPCM creates a new PCM decoder
func NewPCM(format audio.Format) (Decoder, error) {
	if format.Codec != audio.CodecPCM {
		return nil, fmt.Errorf("invalid codec for PCM decoder: %s", format.Codec)
	}

	if _, err := audio.FullScale(format.BitDepth); err != nil {
		return nil, err
	}
	if format.Channels <= 0 || format.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid PCM format: %s", format)
	}

	return &PCMDecoder{
		bitDepth:   format.BitDepth,
		channels:   format.Channels,
		sampleRate: format.SampleRate,
	}, nil
}

// Decode converts PCM bytes to a buffer. The fragment must hold whole frames.
func (d *PCMDecoder) Decode(data []byte) (*audio.Buffer, error) {
	samples, err := audio.ConvertPCM(data, d.bitDepth)
	if err != nil {
		return nil, err
	}
	return audio.FromInterleaved(samples, d.channels, d.sampleRate)
}

// Close releases resources
func (d *PCMDecoder) Close() error {
	return nil
}
