//go:build !portaudio

// ABOUTME: PortAudio stub when library not available
// ABOUTME: Provides compile-time placeholder when PortAudio not installed
package output

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Resonate-Protocol/streamplay/pkg/audio"
)

var errPortAudioDisabled = errors.New("PortAudio support not enabled (build with -tags portaudio)")

// PortAudio output implementation (stub)
type PortAudio struct{}

// NewPortAudio creates a new PortAudio output
func NewPortAudio(logger *zap.Logger) Output {
	return &PortAudio{}
}

// Open initializes PortAudio
func (p *PortAudio) Open(sampleRate, channels int) error {
	return errPortAudioDisabled
}

// NewBuffer allocates a zeroed buffer
func (p *PortAudio) NewBuffer(channels, frames, sampleRate int) *audio.Buffer {
	return audio.NewBuffer(channels, frames, sampleRate)
}

// Schedule queues a buffer
func (p *PortAudio) Schedule(buf *audio.Buffer, at float64, onEnded func()) error {
	return errPortAudioDisabled
}

// CurrentTime returns the stream position
func (p *PortAudio) CurrentTime() float64 {
	return 0
}

// Suspend stops the stream
func (p *PortAudio) Suspend() error {
	return errPortAudioDisabled
}

// Resume restarts the stream
func (p *PortAudio) Resume() error {
	return errPortAudioDisabled
}

// Close releases resources
func (p *PortAudio) Close() error {
	return errPortAudioDisabled
}
