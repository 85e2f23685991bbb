// ABOUTME: Frame-clock mixer shared by output backends
// ABOUTME: Mixes scheduled voices into interleaved output and reports completions
package output

import (
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/Resonate-Protocol/streamplay/pkg/audio"
	"github.com/Resonate-Protocol/streamplay/pkg/audio/resample"
)

const notifyQueueSize = 64

type voice struct {
	buf     *audio.Buffer
	start   int64
	onEnded func()
}

func (v *voice) end() int64 {
	return v.start + int64(v.buf.Frames())
}

// Timeline counts rendered frames and mixes scheduled voices
type Timeline struct {
	mu         sync.Mutex
	sampleRate int
	channels   int
	position   int64
	voices     []*voice
	closed     bool

	notify chan func()
	logger *zap.Logger
}

// NewTimeline creates a timeline that dispatches completion callbacks on its
// own notifier goroutine. Close stops the goroutine.
func NewTimeline(sampleRate, channels int, logger *zap.Logger) *Timeline {
	t := newTimeline(sampleRate, channels, logger)
	t.notify = make(chan func(), notifyQueueSize)
	go t.runNotifier()
	return t
}

func newTimeline(sampleRate, channels int, logger *zap.Logger) *Timeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Timeline{
		sampleRate: sampleRate,
		channels:   channels,
		logger:     logger,
	}
}

func (t *Timeline) runNotifier() {
	for fn := range t.notify {
		fn()
	}
}

// SampleRate returns the timeline rate in Hz
func (t *Timeline) SampleRate() int {
	return t.sampleRate
}

// Channels returns the output channel count
func (t *Timeline) Channels() int {
	return t.channels
}

// CurrentTime returns rendered frames in seconds
func (t *Timeline) CurrentTime() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return float64(t.position) / float64(t.sampleRate)
}

// Pending returns the number of voices not yet finished
func (t *Timeline) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.voices)
}

// Schedule adds buf starting at timeline time at. Start times already in the
// past start at the current position.
func (t *Timeline) Schedule(buf *audio.Buffer, at float64, onEnded func()) error {
	if buf == nil {
		return audio.ErrMalformedSamples
	}
	buf = resample.Buffer(buf, t.sampleRate)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}

	start := int64(math.Round(at * float64(t.sampleRate)))
	if start < t.position {
		start = t.position
	}

	t.voices = append(t.voices, &voice{buf: buf, start: start, onEnded: onEnded})
	return nil
}

// Render mixes the next len(out)/channels frames into out and advances the
// clock. Completion callbacks are handed to the notifier goroutine.
func (t *Timeline) Render(out []float32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, fn := range t.render(out, len(out)/t.channels) {
		if t.closed {
			return
		}
		select {
		case t.notify <- fn:
		default:
			t.logger.Warn("notifier queue full, dispatching completion on new goroutine")
			go fn()
		}
	}
}

// render must be called with t.mu held. out may be nil to advance the clock
// without producing samples.
func (t *Timeline) render(out []float32, frames int) []func() {
	if out != nil {
		for i := range out {
			out[i] = 0
		}
	}

	windowStart := t.position
	windowEnd := windowStart + int64(frames)

	var finished []func()
	remaining := t.voices[:0]
	for _, v := range t.voices {
		if out != nil {
			t.mix(out, v, windowStart, windowEnd)
		}
		if v.end() <= windowEnd {
			if v.onEnded != nil {
				finished = append(finished, v.onEnded)
			}
			continue
		}
		remaining = append(remaining, v)
	}
	for i := len(remaining); i < len(t.voices); i++ {
		t.voices[i] = nil
	}
	t.voices = remaining
	t.position = windowEnd

	return finished
}

func (t *Timeline) mix(out []float32, v *voice, windowStart, windowEnd int64) {
	from := max(v.start, windowStart)
	to := min(v.end(), windowEnd)
	if from >= to {
		return
	}

	srcChannels := v.buf.Channels()
	for f := from; f < to; f++ {
		src := int(f - v.start)
		dst := int(f-windowStart) * t.channels

		switch {
		case srcChannels == t.channels:
			for ch := 0; ch < t.channels; ch++ {
				out[dst+ch] += v.buf.Data[ch][src]
			}
		case srcChannels == 1:
			s := v.buf.Data[0][src]
			for ch := 0; ch < t.channels; ch++ {
				out[dst+ch] += s
			}
		case t.channels == 1:
			var sum float32
			for ch := 0; ch < srcChannels; ch++ {
				sum += v.buf.Data[ch][src]
			}
			out[dst] += sum / float32(srcChannels)
		default:
			for ch := 0; ch < t.channels; ch++ {
				out[dst+ch] += v.buf.Data[ch%srcChannels][src]
			}
		}
	}
}

// Close drops every scheduled voice without invoking its callback. The
// notifier exits once already queued callbacks have run. Close may be called
// from inside a completion callback.
func (t *Timeline) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	t.closed = true
	t.voices = nil
	if t.notify != nil {
		close(t.notify)
	}
}
