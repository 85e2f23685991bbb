// ABOUTME: Play command settings resolved from flags, env and config file
// ABOUTME: Viper keys match flag names; STREAMPLAY_* variables override the file
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/Resonate-Protocol/streamplay/internal/logger"
	"github.com/Resonate-Protocol/streamplay/pkg/audio"
	"github.com/Resonate-Protocol/streamplay/pkg/audio/output"
)

// Settings is the resolved play configuration
type Settings struct {
	Format        audio.Codec
	SampleRate    int
	Channels      int
	BitDepth      int
	FlushMs       int
	FragmentMs    int
	Backend       string
	OrderedDecode bool
	Duration      float64
	Frequency     float64
	TUI           bool
	MetricsAddr   string
	CacheDir      string
	Log           logger.Config
}

func settingsFrom(v *viper.Viper) (Settings, error) {
	codec, err := audio.ParseCodec(v.GetString("format"))
	if err != nil {
		return Settings{}, err
	}

	log := logger.DefaultConfig()
	log.Level = v.GetString("log-level")
	log.FilePath = v.GetString("log-file")
	// The dashboard owns the terminal
	log.Console = !v.GetBool("tui")

	s := Settings{
		Format:        codec,
		SampleRate:    v.GetInt("sample-rate"),
		Channels:      v.GetInt("channels"),
		BitDepth:      v.GetInt("bit-depth"),
		FlushMs:       v.GetInt("flush-ms"),
		FragmentMs:    v.GetInt("fragment-ms"),
		Backend:       v.GetString("backend"),
		OrderedDecode: v.GetBool("ordered-decode"),
		Duration:      v.GetFloat64("duration"),
		Frequency:     v.GetFloat64("frequency"),
		TUI:           v.GetBool("tui"),
		MetricsAddr:   v.GetString("metrics-addr"),
		CacheDir:      v.GetString("cache-dir"),
		Log:           log,
	}
	return s, s.Validate()
}

// Validate checks the settings the session itself does not
func (s Settings) Validate() error {
	var errs []error
	if s.FragmentMs <= 0 {
		errs = append(errs, fmt.Errorf("fragment-ms must be positive, got %d", s.FragmentMs))
	}
	if s.Duration <= 0 {
		errs = append(errs, fmt.Errorf("duration must be positive, got %g", s.Duration))
	}
	switch s.Backend {
	case output.BackendMalgo, output.BackendOto, output.BackendPortAudio:
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", s.Backend))
	}
	return errors.Join(errs...)
}

// AudioFormat is the session format described by the settings
func (s Settings) AudioFormat() audio.Format {
	return audio.Format{
		Codec:      s.Format,
		SampleRate: s.SampleRate,
		Channels:   s.Channels,
		BitDepth:   s.BitDepth,
	}
}
