// ABOUTME: Sample converter from signed integer PCM to float32
// ABOUTME: Normalises 8, 16 and 32-bit little-endian samples by full scale
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedBitDepth is returned for bit depths other than 8, 16 and 32
	ErrUnsupportedBitDepth = errors.New("unsupported bit depth")

	// ErrMalformedSamples is returned when a sample buffer does not split into
	// whole samples or whole frames
	ErrMalformedSamples = errors.New("malformed sample buffer")
)

// FullScale returns the magnitude of the most negative sample at the given
// bit depth, which is the divisor used to normalise to [-1.0, 1.0).
func FullScale(bitDepth int) (float64, error) {
	switch bitDepth {
	case 8:
		return 128.0, nil
	case 16:
		return 32768.0, nil
	case 32:
		return 2147483648.0, nil
	default:
		return 0, fmt.Errorf("%w: %d (supported: 8, 16, 32)", ErrUnsupportedBitDepth, bitDepth)
	}
}

// BytesPerSample returns the width of one sample at the given bit depth
func BytesPerSample(bitDepth int) (int, error) {
	if _, err := FullScale(bitDepth); err != nil {
		return 0, err
	}
	return bitDepth / 8, nil
}

// ConvertPCM interprets data as little-endian signed integers of width
// bitDepth and returns them normalised to float32.
func ConvertPCM(data []byte, bitDepth int) ([]float32, error) {
	scale, err := FullScale(bitDepth)
	if err != nil {
		return nil, err
	}

	width := bitDepth / 8
	if len(data)%width != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d-byte samples",
			ErrMalformedSamples, len(data), width)
	}

	n := len(data) / width
	out := make([]float32, n)

	switch bitDepth {
	case 8:
		for i := 0; i < n; i++ {
			out[i] = float32(float64(int8(data[i])) / scale)
		}
	case 16:
		for i := 0; i < n; i++ {
			s := int16(binary.LittleEndian.Uint16(data[i*2:]))
			out[i] = float32(float64(s) / scale)
		}
	case 32:
		for i := 0; i < n; i++ {
			s := int32(binary.LittleEndian.Uint32(data[i*4:]))
			out[i] = float32(float64(s) / scale)
		}
	}

	return out, nil
}

// ConvertInts normalises already-unpacked integer samples of the given source
// bit depth. Decoders that hand back int samples (WAV, FLAC) use this so every
// codec shares one scale table. 24-bit sources are accepted here since
// container formats carry them.
func ConvertInts(samples []int, bitDepth int) ([]float32, error) {
	var scale float64
	if bitDepth == 24 {
		scale = 8388608.0
	} else {
		var err error
		if scale, err = FullScale(bitDepth); err != nil {
			return nil, err
		}
	}

	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = float32(float64(s) / scale)
	}
	return out, nil
}
