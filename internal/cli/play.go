// ABOUTME: The play command: streams a source through a player session
// ABOUTME: Paces fragments in real time and waits for the last unit to finish
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Resonate-Protocol/streamplay/internal/fetch"
	"github.com/Resonate-Protocol/streamplay/internal/logger"
	"github.com/Resonate-Protocol/streamplay/internal/metrics"
	"github.com/Resonate-Protocol/streamplay/pkg/audio/output"
	"github.com/Resonate-Protocol/streamplay/pkg/streamplay"
)

const (
	// feedLead is how far ahead of real time fragments are submitted
	feedLead = 500 * time.Millisecond

	statusInterval = 250 * time.Millisecond
	drainInterval  = 100 * time.Millisecond
)

func newPlayCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play [files|urls...|tone]",
		Short: "Play audio files or a test tone through a player session",
		Long: "Loads the input, cuts it into fragments of --format and feeds them to a " +
			"player session at real-time pace. Exits once the last unit has played.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settingsFrom(v)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runPlay(ctx, s, args)
		},
	}

	f := cmd.Flags()
	f.String("format", "pcm", "Fragment format (pcm, opus, mulaw, alaw, mp3, wav, flac)")
	f.Int("sample-rate", 48000, "Session sample rate in Hz")
	f.Int("channels", 2, "Session channel count (1 or 2)")
	f.Int("bit-depth", 16, "PCM bit depth (8, 16 or 32)")
	f.Int("flush-ms", streamplay.DefaultFlushIntervalMs, "Scheduling tick interval in milliseconds")
	f.Int("fragment-ms", 100, "Fragment length for pcm and G.711 in milliseconds")
	f.String("backend", output.BackendMalgo, "Output backend (malgo, oto, portaudio)")
	f.Bool("ordered-decode", false, "Decode fragments one at a time and schedule them in submission order")
	f.Float64("duration", 5, "Tone length in seconds")
	f.Float64("frequency", 440, "Tone frequency in Hz")
	f.Bool("tui", false, "Show the playback dashboard")
	f.String("cache-dir", "", "Download cache for http(s) inputs (default: system temp dir)")
	f.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	return cmd
}

func runPlay(ctx context.Context, s Settings, args []string) error {
	log, err := logger.New(s.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	fetcher, err := fetch.New(s.CacheDir, log)
	if err != nil {
		return err
	}
	src, err := loadSource(ctx, args, s, fetcher)
	if err != nil {
		return err
	}
	frags, err := fragmentSource(src, s.AudioFormat(), s.FragmentMs)
	if err != nil {
		return err
	}
	log.Info("source loaded",
		zap.String("source", src.name),
		zap.Float64("duration", src.buffer.Duration()),
		zap.Int("fragments", len(frags)))

	dev, err := output.New(s.Backend, log)
	if err != nil {
		return err
	}
	if err := dev.Open(s.SampleRate, s.Channels); err != nil {
		return fmt.Errorf("failed to open %s output: %w", s.Backend, err)
	}

	cfg := streamplay.Config{
		Format:          s.Format,
		SampleRate:      s.SampleRate,
		Channels:        s.Channels,
		BitDepth:        s.BitDepth,
		FlushIntervalMs: s.FlushMs,
		OrderedDecode:   s.OrderedDecode,
		Device:          dev,
		Logger:          log,
		Params:          streamplay.Params{"source": src.name},
	}

	if s.MetricsAddr != "" {
		m := metrics.New()
		cfg.Observer = m
		srv := serveMetrics(s.MetricsAddr, m, log)
		defer shutdownMetrics(srv, log)
	}

	player, err := streamplay.NewPlayer(cfg)
	if err != nil {
		_ = dev.Close()
		return err
	}
	defer func() {
		if player.State() != streamplay.StateStopped {
			_ = player.Stop()
		}
		<-player.Done()
	}()

	if _, err := player.On(streamplay.EventError, func(ev streamplay.Event) {
		log.Warn("playback error", zap.Error(ev.Err))
	}); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.TUI {
		dash := startDashboard(ctx, cancel, player, dev, s, src.name, log)
		defer dash.close()
	}

	fed := make(chan error, 1)
	go func() { fed <- feed(ctx, player, frags) }()

	err = waitDrained(ctx, player, fed, s.Channels)
	if errors.Is(err, context.Canceled) {
		log.Info("playback interrupted")
		return nil
	}
	if err == nil {
		log.Info("playback finished", zap.Int64("units", player.Stats().UnitsEnded))
	}
	return err
}

// feed submits fragments no more than feedLead ahead of real time. Time spent
// paused does not count.
func feed(ctx context.Context, player *streamplay.Player, frags []fragment) error {
	start := time.Now()
	var submitted, paused time.Duration

	for _, frag := range frags {
		for {
			if player.State() == streamplay.StatePaused {
				if err := sleep(ctx, drainInterval); err != nil {
					return err
				}
				paused += drainInterval
				continue
			}
			wait := submitted - feedLead - (time.Since(start) - paused)
			if wait <= 0 {
				break
			}
			if err := sleep(ctx, wait); err != nil {
				return err
			}
		}

		if err := player.AddFragment(frag.data); err != nil {
			return fmt.Errorf("failed to add fragment: %w", err)
		}
		submitted += time.Duration(frag.duration * float64(time.Second))
	}
	return nil
}

// waitDrained returns once feeding is done and every scheduled unit has ended
func waitDrained(ctx context.Context, player *streamplay.Player, fed <-chan error, channels int) error {
	ticker := time.NewTicker(drainInterval)
	defer ticker.Stop()

	feeding := true
	idleTicks := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-fed:
			if err != nil {
				return err
			}
			feeding = false
		case <-ticker.C:
			if feeding {
				continue
			}
			// Two idle polls in a row: a decode result may be in transit
			// between its goroutine and the session.
			if drained(player.Stats(), channels) {
				idleTicks++
			} else {
				idleTicks = 0
			}
			if idleTicks >= 2 {
				return nil
			}
		}
	}
}

func drained(st streamplay.Stats, channels int) bool {
	return st.BufferedSamples < channels &&
		st.QueuedUnits == 0 &&
		st.InFlightDecodes == 0 &&
		st.UnitsEnded >= st.UnitsScheduled
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func serveMetrics(addr string, m *metrics.Metrics, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info("serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", zap.Error(err))
		}
	}()
	return srv
}

func shutdownMetrics(srv *http.Server, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("metrics server shutdown", zap.Error(err))
	}
}
