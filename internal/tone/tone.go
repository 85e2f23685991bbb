// ABOUTME: Sine tone generator used as a synthetic playback source
// ABOUTME: Produces interleaved float32 frames with a continuous phase across reads
package tone

import (
	"fmt"
	"math"
	"sync"

	"github.com/Resonate-Protocol/streamplay/pkg/audio"
)

const (
	DefaultFrequency = 440.0 // A4
	DefaultAmplitude = 0.5
)

// Source generates a sine wave copied to every channel.
type Source struct {
	mu         sync.Mutex
	frame      uint64
	frequency  float64
	amplitude  float64
	sampleRate int
	channels   int
}

// New creates a 440Hz tone at half amplitude.
func New(sampleRate, channels int) (*Source, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid tone sample rate: %d", sampleRate)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("invalid tone channel count: %d", channels)
	}
	return &Source{
		frequency:  DefaultFrequency,
		amplitude:  DefaultAmplitude,
		sampleRate: sampleRate,
		channels:   channels,
	}, nil
}

// SetFrequency changes the pitch without resetting the phase counter.
func (s *Source) SetFrequency(hz float64) {
	s.mu.Lock()
	s.frequency = hz
	s.mu.Unlock()
}

// Read fills samples with whole frames and returns the number of samples
// written. A trailing partial frame is left untouched.
func (s *Source) Read(samples []float32) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	frames := len(samples) / s.channels
	for i := 0; i < frames; i++ {
		t := float64(s.frame+uint64(i)) / float64(s.sampleRate)
		v := float32(s.amplitude * math.Sin(2*math.Pi*s.frequency*t))
		for ch := 0; ch < s.channels; ch++ {
			samples[i*s.channels+ch] = v
		}
	}
	s.frame += uint64(frames)
	return frames * s.channels
}

// Generate returns the next seconds of tone as a planar buffer.
func (s *Source) Generate(seconds float64) *audio.Buffer {
	frames := int(math.Round(seconds * float64(s.sampleRate)))
	interleaved := make([]float32, frames*s.channels)
	s.Read(interleaved)
	buf, _ := audio.FromInterleaved(interleaved, s.channels, s.sampleRate)
	return buf
}

func (s *Source) SampleRate() int { return s.sampleRate }
func (s *Source) Channels() int   { return s.channels }
