// ABOUTME: Deterministic in-memory output device
// ABOUTME: Timeline advances only on Advance; completions fire synchronously in order
package output

import (
	"math"
	"sync"

	"github.com/Resonate-Protocol/streamplay/pkg/audio"
)

// Scheduled records one Schedule call on a Virtual device
type Scheduled struct {
	Buffer *audio.Buffer
	At     float64
}

// Virtual is a Device with no hardware behind it
type Virtual struct {
	mu        sync.Mutex
	timeline  *Timeline
	scheduled []Scheduled
	suspended bool
	closed    bool
	rejectErr error
}

// NewVirtual creates a virtual device whose clock starts at zero
func NewVirtual(sampleRate, channels int) *Virtual {
	return &Virtual{
		timeline: newTimeline(sampleRate, channels, nil),
	}
}

// Open resets the device format. The clock and scheduled voices are kept.
func (v *Virtual) Open(sampleRate, channels int) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return ErrClosed
	}
	if sampleRate == v.timeline.sampleRate && channels == v.timeline.channels {
		return nil
	}

	v.timeline.mu.Lock()
	v.timeline.sampleRate = sampleRate
	v.timeline.channels = channels
	v.timeline.mu.Unlock()
	return nil
}

// NewBuffer allocates a zeroed buffer
func (v *Virtual) NewBuffer(channels, frames, sampleRate int) *audio.Buffer {
	return audio.NewBuffer(channels, frames, sampleRate)
}

// Schedule records buf and adds it to the timeline
func (v *Virtual) Schedule(buf *audio.Buffer, at float64, onEnded func()) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return ErrClosed
	}
	if v.rejectErr != nil {
		return v.rejectErr
	}
	if err := v.timeline.Schedule(buf, at, onEnded); err != nil {
		return err
	}
	v.scheduled = append(v.scheduled, Scheduled{Buffer: buf, At: at})
	return nil
}

// CurrentTime returns the virtual clock in seconds
func (v *Virtual) CurrentTime() float64 {
	return v.timeline.CurrentTime()
}

// Advance moves the clock forward and returns the interleaved samples that
// would have been rendered. Completion callbacks run before Advance returns,
// in the order their buffers finished. Advance is a no-op while suspended.
func (v *Virtual) Advance(seconds float64) []float32 {
	v.mu.Lock()
	if v.suspended || v.closed || seconds <= 0 {
		v.mu.Unlock()
		return nil
	}

	tl := v.timeline
	tl.mu.Lock()
	frames := int(math.Round(seconds * float64(tl.sampleRate)))
	out := make([]float32, frames*tl.channels)
	finished := tl.render(out, frames)
	tl.mu.Unlock()
	v.mu.Unlock()

	for _, fn := range finished {
		fn()
	}
	return out
}

// Scheduled returns every buffer passed to Schedule, oldest first
func (v *Virtual) Scheduled() []Scheduled {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]Scheduled, len(v.scheduled))
	copy(out, v.scheduled)
	return out
}

// Pending returns the number of scheduled buffers not yet finished
func (v *Virtual) Pending() int {
	return v.timeline.Pending()
}

// Reject makes subsequent Schedule calls fail with err. A nil err accepts
// buffers again.
func (v *Virtual) Reject(err error) {
	v.mu.Lock()
	v.rejectErr = err
	v.mu.Unlock()
}

// Suspend halts the clock
func (v *Virtual) Suspend() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return ErrClosed
	}
	v.suspended = true
	return nil
}

// Resume restarts the clock
func (v *Virtual) Resume() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return ErrClosed
	}
	v.suspended = false
	return nil
}

// Suspended reports whether the device is suspended
func (v *Virtual) Suspended() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.suspended
}

// Close drops pending buffers. Their callbacks never run.
func (v *Virtual) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return ErrClosed
	}
	v.closed = true
	v.timeline.Close()
	return nil
}

// Closed reports whether Close has been called
func (v *Virtual) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}
