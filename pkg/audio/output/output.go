// ABOUTME: Audio output interface definition
// ABOUTME: Common interfaces for audio playback backends and a backend factory
package output

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Resonate-Protocol/streamplay/pkg/audio"
)

var (
	// ErrClosed is returned by operations on a closed device
	ErrClosed = errors.New("output closed")

	// ErrNotOpen is returned when a backend is used before Open
	ErrNotOpen = errors.New("output not initialized")
)

// Device renders buffers of float samples at positions on its timeline
type Device interface {
	// NewBuffer allocates a buffer suitable for Schedule
	NewBuffer(channels, frames, sampleRate int) *audio.Buffer

	// Schedule queues buf to start at timeline time at (seconds). onEnded is
	// invoked once the buffer has finished playing, never from inside Schedule.
	Schedule(buf *audio.Buffer, at float64, onEnded func()) error

	// CurrentTime returns the device timeline position in seconds
	CurrentTime() float64

	// Suspend halts rendering and the timeline clock
	Suspend() error

	// Resume restarts rendering after Suspend
	Resume() error

	// Close releases device resources
	Close() error
}

// Output is a Device backed by real audio hardware
type Output interface {
	Device

	// Open initializes the hardware stream
	Open(sampleRate, channels int) error
}

// Backend names accepted by New
const (
	BackendMalgo     = "malgo"
	BackendOto       = "oto"
	BackendPortAudio = "portaudio"
)

// New creates an unopened output for the named backend
func New(backend string, logger *zap.Logger) (Output, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch backend {
	case BackendMalgo, "":
		return NewMalgo(logger), nil
	case BackendOto:
		return NewOto(logger), nil
	case BackendPortAudio:
		return NewPortAudio(logger), nil
	default:
		return nil, fmt.Errorf("unknown output backend: %s", backend)
	}
}
