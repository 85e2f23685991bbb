// ABOUTME: PCM audio encoder
// ABOUTME: Encodes float32 samples to 8, 16 or 32-bit signed little-endian PCM
package encode

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/Resonate-Protocol/streamplay/pkg/audio"
)

// PCMEncoder encodes PCM audio
type PCMEncoder struct {
	bitDepth int
	scale    float64
}

// NewPCM creates a new PCM encoder
func NewPCM(format audio.Format) (Encoder, error) {
	if format.Codec != audio.CodecPCM {
		return nil, fmt.Errorf("invalid codec for PCM encoder: %s", format.Codec)
	}

	scale, err := audio.FullScale(format.BitDepth)
	if err != nil {
		return nil, err
	}

	return &PCMEncoder{
		bitDepth: format.BitDepth,
		scale:    scale,
	}, nil
}

// Encode converts float32 samples to PCM bytes, clamping to the integer range
func (e *PCMEncoder) Encode(samples []float32) ([]byte, error) {
	width := e.bitDepth / 8
	output := make([]byte, len(samples)*width)

	for i, s := range samples {
		v := quantize(float64(s), e.scale)
		switch e.bitDepth {
		case 8:
			output[i] = byte(int8(v))
		case 16:
			binary.LittleEndian.PutUint16(output[i*2:], uint16(int16(v)))
		case 32:
			binary.LittleEndian.PutUint32(output[i*4:], uint32(int32(v)))
		}
	}
	return output, nil
}

// Close releases resources
func (e *PCMEncoder) Close() error {
	return nil
}

// quantize maps s to [-scale, scale-1]
func quantize(s, scale float64) int64 {
	v := math.Round(s * scale)
	if v > scale-1 {
		v = scale - 1
	} else if v < -scale {
		v = -scale
	}
	return int64(v)
}
