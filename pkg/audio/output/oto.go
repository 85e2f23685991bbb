// ABOUTME: Oto-based audio output implementation
// ABOUTME: Streams the Timeline mix to an oto player as float32 little-endian PCM
package output

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"
	"go.uber.org/zap"

	"github.com/Resonate-Protocol/streamplay/pkg/audio"
)

// oto allows a single context per process
var (
	otoMu         sync.Mutex
	otoCtx        *oto.Context
	otoSampleRate int
	otoChannels   int
)

// player-side buffering; the timeline clock runs ahead of the speaker by this much
const otoBufferMs = 50

// Oto output implementation using oto library
type Oto struct {
	mu        sync.Mutex
	player    *oto.Player
	timeline  *Timeline
	suspended bool
	closed    bool
	logger    *zap.Logger
}

// NewOto creates a new Oto output
func NewOto(logger *zap.Logger) Output {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Oto{logger: logger.Named("oto")}
}

func sharedOtoContext(sampleRate, channels int) (*oto.Context, error) {
	otoMu.Lock()
	defer otoMu.Unlock()

	if otoCtx != nil {
		if otoSampleRate != sampleRate || otoChannels != channels {
			return nil, fmt.Errorf("oto context already open at %dHz %dch, cannot reopen at %dHz %dch",
				otoSampleRate, otoChannels, sampleRate, channels)
		}
		return otoCtx, nil
	}

	ctx, readyChan, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-readyChan

	otoCtx = ctx
	otoSampleRate = sampleRate
	otoChannels = channels
	return ctx, nil
}

// Open initializes the output device
func (o *Oto) Open(sampleRate, channels int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return ErrClosed
	}
	if o.player != nil {
		if o.timeline.SampleRate() == sampleRate && o.timeline.Channels() == channels {
			return nil
		}
		return fmt.Errorf("oto doesn't support reinitialization (%dHz %dch -> %dHz %dch)",
			o.timeline.SampleRate(), o.timeline.Channels(), sampleRate, channels)
	}

	ctx, err := sharedOtoContext(sampleRate, channels)
	if err != nil {
		return err
	}
	if err := ctx.Resume(); err != nil {
		return fmt.Errorf("failed to resume oto context: %w", err)
	}

	o.timeline = NewTimeline(sampleRate, channels, o.logger)
	o.player = ctx.NewPlayer(&timelineReader{timeline: o.timeline})
	o.player.SetBufferSize(sampleRate * channels * 4 * otoBufferMs / 1000)
	o.player.Play()

	o.logger.Info("audio output initialized",
		zap.Int("rate", sampleRate), zap.Int("channels", channels))

	return nil
}

// NewBuffer allocates a zeroed buffer
func (o *Oto) NewBuffer(channels, frames, sampleRate int) *audio.Buffer {
	return audio.NewBuffer(channels, frames, sampleRate)
}

// Schedule queues buf on the device timeline
func (o *Oto) Schedule(buf *audio.Buffer, at float64, onEnded func()) error {
	o.mu.Lock()
	timeline := o.timeline
	o.mu.Unlock()

	if timeline == nil {
		return ErrNotOpen
	}
	return timeline.Schedule(buf, at, onEnded)
}

// CurrentTime returns the device timeline position in seconds
func (o *Oto) CurrentTime() float64 {
	o.mu.Lock()
	timeline := o.timeline
	o.mu.Unlock()

	if timeline == nil {
		return 0
	}
	return timeline.CurrentTime()
}

// Suspend pauses the player so the timeline stops being pulled
func (o *Oto) Suspend() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player == nil {
		return ErrNotOpen
	}
	o.player.Pause()
	o.suspended = true
	return nil
}

// Resume restarts the player
func (o *Oto) Resume() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player == nil {
		return ErrNotOpen
	}
	o.player.Play()
	o.suspended = false
	return nil
}

// Close releases output resources. The process-wide oto context stays open.
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return ErrClosed
	}
	o.closed = true

	if o.player != nil {
		if err := o.player.Close(); err != nil {
			o.logger.Warn("player close error", zap.Error(err))
		}
		o.player = nil
	}
	if o.timeline != nil {
		o.timeline.Close()
	}
	return nil
}

// timelineReader renders the timeline on demand for the oto player
type timelineReader struct {
	timeline *Timeline
	scratch  []float32
}

func (r *timelineReader) Read(p []byte) (int, error) {
	frameBytes := 4 * r.timeline.Channels()
	frames := len(p) / frameBytes
	if frames == 0 {
		return 0, nil
	}

	total := frames * r.timeline.Channels()
	if cap(r.scratch) < total {
		r.scratch = make([]float32, total)
	}
	samples := r.scratch[:total]
	r.timeline.Render(samples)

	for i, s := range samples {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s))
	}
	return frames * frameBytes, nil
}
