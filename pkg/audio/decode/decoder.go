// ABOUTME: Decoder interface definition
// ABOUTME: Common interface for all audio decoders and a codec factory
package decode

import (
	"fmt"

	"github.com/Resonate-Protocol/streamplay/pkg/audio"
)

// Decoder decodes one encoded fragment into float32 audio.
// Implementations must be safe for concurrent Decode calls.
type Decoder interface {
	// Decode converts encoded audio data to a buffer of samples
	Decode(data []byte) (*audio.Buffer, error)

	// Close releases decoder resources
	Close() error
}

// New returns the decoder for format.Codec
func New(format audio.Format) (Decoder, error) {
	switch format.Codec {
	case audio.CodecPCM:
		return NewPCM(format)
	case audio.CodecMP3:
		return NewMP3(format)
	case audio.CodecWAV:
		return NewWAV(format)
	case audio.CodecFLAC:
		return NewFLAC(format)
	case audio.CodecOpus:
		return NewOpus(format)
	case audio.CodecULaw, audio.CodecALaw:
		return NewG711(format)
	default:
		return nil, fmt.Errorf("no decoder for codec: %s", format.Codec)
	}
}
