// ABOUTME: WAV audio decoder
// ABOUTME: Decodes whole RIFF/WAVE payloads via go-audio/wav
package decode

import (
	"bytes"
	"fmt"

	"github.com/Resonate-Protocol/streamplay/pkg/audio"
	"github.com/go-audio/wav"
)

const wavFormatPCM = 1

// WAVDecoder decodes WAV audio
type WAVDecoder struct{}

// NewWAV creates a new WAV decoder
func NewWAV(format audio.Format) (Decoder, error) {
	if format.Codec != audio.CodecWAV {
		return nil, fmt.Errorf("invalid codec for WAV decoder: %s", format.Codec)
	}
	return &WAVDecoder{}, nil
}

// Decode converts WAV bytes to a buffer at the file's own rate and layout
func (d *WAVDecoder) Decode(data []byte) (*audio.Buffer, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV payload")
	}
	if dec.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("unsupported WAV audio format: %d", dec.WavAudioFormat)
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav decode error: %w", err)
	}

	bitDepth := int(dec.BitDepth)
	ints := pcm.Data
	if bitDepth == 8 {
		// 8-bit WAV samples are unsigned
		ints = make([]int, len(pcm.Data))
		for i, s := range pcm.Data {
			ints[i] = s - 128
		}
	}

	samples, err := audio.ConvertInts(ints, bitDepth)
	if err != nil {
		return nil, err
	}

	channels := int(dec.NumChans)
	samples = samples[:len(samples)-len(samples)%channels]
	return audio.FromInterleaved(samples, channels, int(dec.SampleRate))
}

// Close releases decoder resources
func (d *WAVDecoder) Close() error {
	return nil
}
