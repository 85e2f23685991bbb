// ABOUTME: Simple linear resampler for converting audio sample rates
// ABOUTME: Used by output devices when a buffer's rate differs from the device rate
package resample

import (
	"math"

	"github.com/Resonate-Protocol/streamplay/pkg/audio"
)

// Resampler performs linear interpolation to convert between sample rates
type Resampler struct {
	inputRate  int
	outputRate int
	channels   int
	ratio      float64
	position   float64
}

// New creates a new resampler
func New(inputRate, outputRate, channels int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		channels:   channels,
		ratio:      float64(inputRate) / float64(outputRate),
	}
}

// Resample converts input samples to output sample rate using linear interpolation
// input: interleaved samples at inputRate
// output: interleaved samples at outputRate
// Returns the number of samples written to output.
func (r *Resampler) Resample(input []float32, output []float32) int {
	if len(input) == 0 {
		return 0
	}

	inputFrames := len(input) / r.channels
	outputFrames := len(output) / r.channels

	outIdx := 0
	for outIdx < outputFrames {
		inputIdx := int(r.position)

		// interpolation needs the next frame too
		if inputIdx >= inputFrames-1 {
			break
		}

		frac := float32(r.position - float64(inputIdx))
		for ch := 0; ch < r.channels; ch++ {
			s1 := input[inputIdx*r.channels+ch]
			s2 := input[(inputIdx+1)*r.channels+ch]
			output[outIdx*r.channels+ch] = s1*(1-frac) + s2*frac
		}

		outIdx++
		r.position += r.ratio
	}

	// Carry the fractional position into the next chunk
	r.position -= float64(int(r.position))

	return outIdx * r.channels
}

// Buffer returns buf converted to targetRate. The output holds
// round(frames*targetRate/sampleRate) frames so its duration matches the
// input. buf is returned unchanged when the rates already agree.
func Buffer(buf *audio.Buffer, targetRate int) *audio.Buffer {
	if buf.SampleRate == targetRate || buf.SampleRate <= 0 || targetRate <= 0 {
		return buf
	}

	inFrames := buf.Frames()
	outFrames := int(math.Round(float64(inFrames) * float64(targetRate) / float64(buf.SampleRate)))
	out := audio.NewBuffer(buf.Channels(), outFrames, targetRate)
	if inFrames == 0 {
		return out
	}

	for ch, in := range buf.Data {
		dst := out.Data[ch]
		n := New(buf.SampleRate, targetRate, 1).Resample(in, dst)
		// frames past the last interpolation point hold the final sample
		for i := n; i < len(dst); i++ {
			dst[i] = in[inFrames-1]
		}
	}
	return out
}
