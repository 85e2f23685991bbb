// ABOUTME: G.711 audio decoder
// ABOUTME: Decodes mu-law and A-law companded bytes via zaf/g711
package decode

import (
	"fmt"

	"github.com/Resonate-Protocol/streamplay/pkg/audio"
	"github.com/zaf/g711"
)

// G711Decoder decodes mu-law or A-law audio
type G711Decoder struct {
	expand     func([]byte) []byte
	channels   int
	sampleRate int
}

// NewG711 creates a new G.711 decoder for CodecULaw or CodecALaw
func NewG711(format audio.Format) (Decoder, error) {
	var expand func([]byte) []byte
	switch format.Codec {
	case audio.CodecULaw:
		expand = g711.DecodeUlaw
	case audio.CodecALaw:
		expand = g711.DecodeAlaw
	default:
		return nil, fmt.Errorf("invalid codec for G.711 decoder: %s", format.Codec)
	}

	if format.Channels <= 0 || format.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid G.711 format: %s", format)
	}

	return &G711Decoder{
		expand:     expand,
		channels:   format.Channels,
		sampleRate: format.SampleRate,
	}, nil
}

// Decode expands companded bytes to 16-bit PCM and normalises them
func (d *G711Decoder) Decode(data []byte) (*audio.Buffer, error) {
	if len(data)%d.channels != 0 {
		return nil, fmt.Errorf("%w: %d bytes for %d channels",
			audio.ErrMalformedSamples, len(data), d.channels)
	}

	samples, err := audio.ConvertPCM(d.expand(data), 16)
	if err != nil {
		return nil, err
	}
	return audio.FromInterleaved(samples, d.channels, d.sampleRate)
}

// Close releases decoder resources
func (d *G711Decoder) Close() error {
	return nil
}
