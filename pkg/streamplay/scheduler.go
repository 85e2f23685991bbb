// ABOUTME: Playback scheduler that submits units to the output device
// ABOUTME: Tracks the playback cursor so consecutive units play back to back
package streamplay

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Resonate-Protocol/streamplay/pkg/audio"
	"github.com/Resonate-Protocol/streamplay/pkg/audio/output"
)

// scheduler owns the playback cursor
type scheduler struct {
	device     output.Device
	channels   int
	sampleRate int
	cursor     float64
	logger     *zap.Logger
}

func newScheduler(device output.Device, channels, sampleRate int, logger *zap.Logger) *scheduler {
	return &scheduler{
		device:     device,
		channels:   channels,
		sampleRate: sampleRate,
		logger:     logger,
	}
}

// prepare turns a unit into a device buffer and its duration in seconds
func (s *scheduler) prepare(u unit) (*audio.Buffer, float64, error) {
	if u.buf != nil {
		return u.buf, u.buf.Duration(), nil
	}

	if len(u.samples)%s.channels != 0 {
		return nil, 0, fmt.Errorf("%w: %d samples for %d channels",
			ErrInvalidConfiguration, len(u.samples), s.channels)
	}
	frames := len(u.samples) / s.channels
	buf := s.device.NewBuffer(s.channels, frames, s.sampleRate)
	if err := audio.Deinterleave(buf, u.samples); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	return buf, float64(frames) / float64(s.sampleRate), nil
}

// schedule submits u at the cursor, clamped to the device clock, and
// advances the cursor by the unit's duration. A rejected unit leaves the
// cursor where it was.
func (s *scheduler) schedule(u unit, onEnded func(UnitInfo)) (UnitInfo, float64, error) {
	buf, duration, err := s.prepare(u)
	if err != nil {
		return UnitInfo{}, 0, err
	}

	now := s.device.CurrentTime()
	if s.cursor < now {
		s.cursor = now
	}

	info := UnitInfo{
		Seq:      u.seq,
		Start:    s.cursor,
		Duration: duration,
		Frames:   buf.Frames(),
	}

	if err := s.device.Schedule(buf, s.cursor, func() { onEnded(info) }); err != nil {
		return info, 0, fmt.Errorf("%w: %w", ErrDeviceRejected, err)
	}

	s.cursor += duration
	s.logger.Debug("scheduled unit",
		zap.Uint64("seq", info.Seq),
		zap.Float64("start", info.Start),
		zap.Float64("duration", duration),
		zap.Float64("cursor", s.cursor))

	return info, info.Start - now, nil
}

func (s *scheduler) reset() {
	s.cursor = 0
}
