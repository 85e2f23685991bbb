//go:build portaudio

// ABOUTME: PortAudio output implementation
// ABOUTME: Cross-platform audio output using PortAudio with a float32 callback stream
package output

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"go.uber.org/zap"

	"github.com/Resonate-Protocol/streamplay/pkg/audio"
)

// PortAudio output implementation
type PortAudio struct {
	mu        sync.Mutex
	stream    *portaudio.Stream
	timeline  *Timeline
	suspended bool
	closed    bool
	logger    *zap.Logger
}

// NewPortAudio creates a new PortAudio output
func NewPortAudio(logger *zap.Logger) Output {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PortAudio{logger: logger.Named("portaudio")}
}

// Open initializes PortAudio
func (p *PortAudio) Open(sampleRate, channels int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}
	if p.stream != nil {
		return fmt.Errorf("portaudio stream already open")
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	timeline := NewTimeline(sampleRate, channels, p.logger)
	stream, err := portaudio.OpenDefaultStream(0, channels, float64(sampleRate), 0, func(out []float32) {
		timeline.Render(out)
	})
	if err != nil {
		timeline.Close()
		portaudio.Terminate()
		return fmt.Errorf("failed to open stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		timeline.Close()
		portaudio.Terminate()
		return fmt.Errorf("failed to start stream: %w", err)
	}

	p.stream = stream
	p.timeline = timeline
	p.logger.Info("audio output initialized",
		zap.Int("rate", sampleRate), zap.Int("channels", channels))
	return nil
}

// NewBuffer allocates a zeroed buffer
func (p *PortAudio) NewBuffer(channels, frames, sampleRate int) *audio.Buffer {
	return audio.NewBuffer(channels, frames, sampleRate)
}

// Schedule queues buf on the stream timeline
func (p *PortAudio) Schedule(buf *audio.Buffer, at float64, onEnded func()) error {
	p.mu.Lock()
	timeline := p.timeline
	p.mu.Unlock()

	if timeline == nil {
		return ErrNotOpen
	}
	return timeline.Schedule(buf, at, onEnded)
}

// CurrentTime returns the stream timeline position in seconds
func (p *PortAudio) CurrentTime() float64 {
	p.mu.Lock()
	timeline := p.timeline
	p.mu.Unlock()

	if timeline == nil {
		return 0
	}
	return timeline.CurrentTime()
}

// Suspend stops the stream
func (p *PortAudio) Suspend() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream == nil {
		return ErrNotOpen
	}
	if p.suspended {
		return nil
	}
	if err := p.stream.Stop(); err != nil {
		return fmt.Errorf("failed to stop stream: %w", err)
	}
	p.suspended = true
	return nil
}

// Resume restarts the stream
func (p *PortAudio) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream == nil {
		return ErrNotOpen
	}
	if !p.suspended {
		return nil
	}
	if err := p.stream.Start(); err != nil {
		return fmt.Errorf("failed to start stream: %w", err)
	}
	p.suspended = false
	return nil
}

// Close releases resources
func (p *PortAudio) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}
	p.closed = true

	if p.stream == nil {
		return nil
	}
	if !p.suspended {
		if err := p.stream.Stop(); err != nil {
			p.logger.Warn("stream stop error", zap.Error(err))
		}
	}
	if err := p.stream.Close(); err != nil {
		p.logger.Warn("stream close error", zap.Error(err))
	}
	p.timeline.Close()
	return portaudio.Terminate()
}
