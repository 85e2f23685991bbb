// ABOUTME: Decoded audio buffer with per-channel float32 samples
// ABOUTME: Provides interleave, deinterleave and concatenation helpers
package audio

import (
	"errors"
	"fmt"
)

// Buffer holds decoded audio as one sample slice per channel.
// All channel slices have the same length.
type Buffer struct {
	SampleRate int
	Data       [][]float32
}

// NewBuffer allocates a zeroed buffer
func NewBuffer(channels, frames, sampleRate int) *Buffer {
	data := make([][]float32, channels)
	for ch := range data {
		data[ch] = make([]float32, frames)
	}
	return &Buffer{SampleRate: sampleRate, Data: data}
}

// Channels returns the channel count
func (b *Buffer) Channels() int {
	return len(b.Data)
}

// Frames returns the number of samples per channel
func (b *Buffer) Frames() int {
	if len(b.Data) == 0 {
		return 0
	}
	return len(b.Data[0])
}

// Duration returns the playback length in seconds
func (b *Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.SampleRate)
}

// Channel returns the writable sample slice of channel ch
func (b *Buffer) Channel(ch int) []float32 {
	return b.Data[ch]
}

// Deinterleave distributes interleaved samples into dst: flat index
// ch + i*channels lands at dst.Data[ch][i]. The sample count must equal
// dst.Channels()*dst.Frames().
func Deinterleave(dst *Buffer, samples []float32) error {
	channels := dst.Channels()
	if channels == 0 {
		return fmt.Errorf("%w: buffer has no channels", ErrMalformedSamples)
	}
	if len(samples)%channels != 0 {
		return fmt.Errorf("%w: %d samples do not divide into %d channels",
			ErrMalformedSamples, len(samples), channels)
	}
	frames := len(samples) / channels
	if frames != dst.Frames() {
		return fmt.Errorf("%w: %d frames for a %d-frame buffer",
			ErrMalformedSamples, frames, dst.Frames())
	}

	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			dst.Data[ch][i] = samples[ch+i*channels]
		}
	}
	return nil
}

// Interleave flattens a buffer into frame-major order
func Interleave(b *Buffer) []float32 {
	channels := b.Channels()
	frames := b.Frames()
	out := make([]float32, channels*frames)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			out[i*channels+ch] = b.Data[ch][i]
		}
	}
	return out
}

// FromInterleaved builds a new buffer from interleaved samples
func FromInterleaved(samples []float32, channels, sampleRate int) (*Buffer, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d channels", ErrMalformedSamples, channels)
	}
	buf := NewBuffer(channels, len(samples)/channels, sampleRate)
	if err := Deinterleave(buf, samples); err != nil {
		return nil, err
	}
	return buf, nil
}

var errConcatMismatch = errors.New("buffers differ in channel count or sample rate")

// Concat joins buffers end to end. Every buffer must share the channel count
// and sample rate of the first one.
func Concat(buffers ...*Buffer) (*Buffer, error) {
	if len(buffers) == 0 {
		return nil, errors.New("no buffers to concatenate")
	}

	first := buffers[0]
	total := 0
	for _, b := range buffers {
		if b.Channels() != first.Channels() || b.SampleRate != first.SampleRate {
			return nil, fmt.Errorf("%w: %dch/%dHz vs %dch/%dHz", errConcatMismatch,
				b.Channels(), b.SampleRate, first.Channels(), first.SampleRate)
		}
		total += b.Frames()
	}

	out := NewBuffer(first.Channels(), total, first.SampleRate)
	offset := 0
	for _, b := range buffers {
		for ch := range out.Data {
			copy(out.Data[ch][offset:], b.Data[ch])
		}
		offset += b.Frames()
	}
	return out, nil
}
