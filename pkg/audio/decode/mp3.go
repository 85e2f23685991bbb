// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes whole MP3 payloads to float32 buffers
package decode

import (
	"bytes"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/streamplay/pkg/audio"
	"github.com/hajimehoshi/go-mp3"
)

// go-mp3 always emits 16-bit little-endian stereo
const mp3OutputChannels = 2

// MP3Decoder decodes MP3 audio
type MP3Decoder struct {
	channels int
}

// NewMP3 creates a new MP3 decoder
func NewMP3(format audio.Format) (Decoder, error) {
	if format.Codec != audio.CodecMP3 {
		return nil, fmt.Errorf("invalid codec for MP3 decoder: %s", format.Codec)
	}

	return &MP3Decoder{channels: format.Channels}, nil
}

// Decode converts MP3 bytes to a buffer. Mono streams are downmixed from the
// decoder's stereo output.
func (d *MP3Decoder) Decode(data []byte) (*audio.Buffer, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode error: %w", err)
	}
	// drop a trailing partial frame
	pcm = pcm[:len(pcm)-len(pcm)%(2*mp3OutputChannels)]
	if len(pcm) == 0 {
		return nil, fmt.Errorf("mp3 decode error: no audio frames")
	}

	samples, err := audio.ConvertPCM(pcm, 16)
	if err != nil {
		return nil, err
	}

	buf, err := audio.FromInterleaved(samples, mp3OutputChannels, dec.SampleRate())
	if err != nil {
		return nil, err
	}
	if d.channels == 1 {
		return downmix(buf), nil
	}
	return buf, nil
}

// Close releases decoder resources
func (d *MP3Decoder) Close() error {
	return nil
}

// downmix averages all channels into one
func downmix(buf *audio.Buffer) *audio.Buffer {
	out := audio.NewBuffer(1, buf.Frames(), buf.SampleRate)
	scale := 1.0 / float32(buf.Channels())
	for _, ch := range buf.Data {
		for i, s := range ch {
			out.Data[0][i] += s * scale
		}
	}
	return out
}
