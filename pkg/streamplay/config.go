// ABOUTME: Player session configuration
// ABOUTME: Defaults and validation for format, rate, channels and flush interval
package streamplay

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Resonate-Protocol/streamplay/pkg/audio"
	"github.com/Resonate-Protocol/streamplay/pkg/audio/decode"
	"github.com/Resonate-Protocol/streamplay/pkg/audio/output"
)

// Defaults applied to zero-valued Config fields
const (
	DefaultFormat          = audio.CodecPCM
	DefaultSampleRate      = 16000
	DefaultChannels        = 1
	DefaultBitDepth        = 16
	DefaultFlushIntervalMs = 200
)

// Config holds player configuration. It is copied by NewPlayer and never
// changes afterwards.
type Config struct {
	// Format selects raw PCM or a compressed codec (default: pcm)
	Format audio.Codec

	// SampleRate in Hz (default: 16000)
	SampleRate int

	// Channels is 1 or 2 (default: 1)
	Channels int

	// BitDepth is 8, 16 or 32; only consulted for pcm (default: 16)
	BitDepth int

	// FlushIntervalMs is the scheduling tick period (default: 200)
	FlushIntervalMs int

	// OrderedDecode decodes fragments one at a time on a single worker and
	// releases them in submission order instead of completion order. Opus
	// always decodes this way because its decoder carries state between
	// packets.
	OrderedDecode bool

	// Device receives scheduled units. Required.
	Device output.Device

	// Decoder overrides the codec decoder built from Format
	Decoder decode.Decoder

	// Logger defaults to a no-op logger
	Logger *zap.Logger

	// Observer receives metric callbacks; optional
	Observer Observer

	// Params are the initial caller params
	Params Params
}

func (c *Config) applyDefaults() {
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if c.SampleRate == 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.Channels == 0 {
		c.Channels = DefaultChannels
	}
	if c.BitDepth == 0 {
		c.BitDepth = DefaultBitDepth
	}
	if c.FlushIntervalMs == 0 {
		c.FlushIntervalMs = DefaultFlushIntervalMs
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Observer == nil {
		c.Observer = nopObserver{}
	}
}

// Validate checks a config with defaults already applied
func (c Config) Validate() error {
	if !c.Format.Valid() {
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfiguration, c.Format)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidConfiguration, c.SampleRate)
	}
	if c.Channels != 1 && c.Channels != 2 {
		return fmt.Errorf("%w: channels must be 1 or 2, got %d", ErrInvalidConfiguration, c.Channels)
	}
	if c.Format == audio.CodecPCM {
		if _, err := audio.FullScale(c.BitDepth); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
		}
	}
	if c.FlushIntervalMs <= 0 {
		return fmt.Errorf("%w: flush interval must be positive, got %d", ErrInvalidConfiguration, c.FlushIntervalMs)
	}
	if c.Device == nil {
		return fmt.Errorf("%w: no output device", ErrInvalidConfiguration)
	}
	return nil
}

// FlushInterval returns the tick period as a duration
func (c Config) FlushInterval() time.Duration {
	return time.Duration(c.FlushIntervalMs) * time.Millisecond
}

// AudioFormat returns the stream format described by the config
func (c Config) AudioFormat() audio.Format {
	return audio.Format{
		Codec:      c.Format,
		SampleRate: c.SampleRate,
		Channels:   c.Channels,
		BitDepth:   c.BitDepth,
	}
}
