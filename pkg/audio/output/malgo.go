// ABOUTME: Malgo-based audio output implementation
// ABOUTME: Uses miniaudio via malgo with a float32 device fed from the Timeline
package output

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/gen2brain/malgo"
	"go.uber.org/zap"

	"github.com/Resonate-Protocol/streamplay/pkg/audio"
)

// Malgo output implementation using malgo/miniaudio library
type Malgo struct {
	mu         sync.Mutex
	malgoCtx   *malgo.AllocatedContext
	device     *malgo.Device
	timeline   *Timeline
	sampleRate int
	channels   int
	suspended  bool
	closed     bool
	logger     *zap.Logger

	// only touched from the audio callback
	scratch []float32
}

// NewMalgo creates a new Malgo output
func NewMalgo(logger *zap.Logger) Output {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Malgo{logger: logger.Named("malgo")}
}

// Open initializes the output device with specified format
func (m *Malgo) Open(sampleRate, channels int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	// If already initialized with same format, reuse
	if m.device != nil && m.sampleRate == sampleRate && m.channels == channels {
		m.logger.Debug("audio output already initialized with same format, reusing device")
		return nil
	}

	if m.device != nil {
		m.logger.Info("format change detected, reinitializing device",
			zap.Int("old_rate", m.sampleRate), zap.Int("old_channels", m.channels),
			zap.Int("rate", sampleRate), zap.Int("channels", channels))
		m.closeDevice()
	}

	if m.malgoCtx == nil {
		ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
		if err != nil {
			return fmt.Errorf("failed to initialize malgo context: %w", err)
		}
		m.malgoCtx = ctx
	}

	timeline := NewTimeline(sampleRate, channels, m.logger)

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = uint32(channels)
	deviceConfig.SampleRate = uint32(sampleRate)
	deviceConfig.Alsa.NoMMap = 1

	onSamples := func(pOutputSample, pInputSamples []byte, frameCount uint32) {
		m.dataCallback(timeline, pOutputSample, frameCount)
	}

	device, err := malgo.InitDevice(m.malgoCtx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: onSamples,
	})
	if err != nil {
		timeline.Close()
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		timeline.Close()
		return fmt.Errorf("failed to start device: %w", err)
	}

	m.device = device
	m.timeline = timeline
	m.sampleRate = sampleRate
	m.channels = channels
	m.suspended = false

	m.logger.Info("audio output initialized",
		zap.Int("rate", sampleRate), zap.Int("channels", channels), zap.String("format", "f32"))

	return nil
}

// dataCallback is called by malgo to fill the audio output buffer
func (m *Malgo) dataCallback(timeline *Timeline, pOutput []byte, frameCount uint32) {
	total := int(frameCount) * timeline.Channels()
	if cap(m.scratch) < total {
		m.scratch = make([]float32, total)
	}
	samples := m.scratch[:total]

	timeline.Render(samples)

	for i, s := range samples {
		binary.LittleEndian.PutUint32(pOutput[i*4:], math.Float32bits(s))
	}
}

// NewBuffer allocates a zeroed buffer
func (m *Malgo) NewBuffer(channels, frames, sampleRate int) *audio.Buffer {
	return audio.NewBuffer(channels, frames, sampleRate)
}

// Schedule queues buf on the device timeline
func (m *Malgo) Schedule(buf *audio.Buffer, at float64, onEnded func()) error {
	m.mu.Lock()
	timeline := m.timeline
	m.mu.Unlock()

	if timeline == nil {
		return ErrNotOpen
	}
	return timeline.Schedule(buf, at, onEnded)
}

// CurrentTime returns the device timeline position in seconds
func (m *Malgo) CurrentTime() float64 {
	m.mu.Lock()
	timeline := m.timeline
	m.mu.Unlock()

	if timeline == nil {
		return 0
	}
	return timeline.CurrentTime()
}

// Suspend stops the device; the timeline clock halts with it
func (m *Malgo) Suspend() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device == nil {
		return ErrNotOpen
	}
	if m.suspended {
		return nil
	}
	if err := m.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop device: %w", err)
	}
	m.suspended = true
	return nil
}

// Resume restarts the device
func (m *Malgo) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device == nil {
		return ErrNotOpen
	}
	if !m.suspended {
		return nil
	}
	if err := m.device.Start(); err != nil {
		return fmt.Errorf("failed to start device: %w", err)
	}
	m.suspended = false
	return nil
}

// Close releases output resources
func (m *Malgo) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.closed = true
	m.closeDevice()

	if m.malgoCtx != nil {
		if err := m.malgoCtx.Uninit(); err != nil {
			m.logger.Warn("malgo context uninit error", zap.Error(err))
		}
		m.malgoCtx.Free()
		m.malgoCtx = nil
	}
	return nil
}

// closeDevice stops and uninitializes the device (must hold m.mu)
func (m *Malgo) closeDevice() {
	if m.device != nil {
		if err := m.device.Stop(); err != nil {
			m.logger.Warn("device stop error", zap.Error(err))
		}
		m.device.Uninit()
		m.device = nil
	}
	if m.timeline != nil {
		m.timeline.Close()
		m.timeline = nil
	}
}
