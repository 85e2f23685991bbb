// ABOUTME: Connects the bubbletea dashboard to a running player session
// ABOUTME: Pushes stats on a ticker and maps key presses to pause, resume and quit
package cli

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Resonate-Protocol/streamplay/internal/ui"
	"github.com/Resonate-Protocol/streamplay/pkg/audio/output"
	"github.com/Resonate-Protocol/streamplay/pkg/streamplay"
)

type dashboard struct {
	program *tea.Program
	cancel  context.CancelFunc
	loop    chan struct{}
	exited  chan struct{}
}

func startDashboard(ctx context.Context, cancel context.CancelFunc, player *streamplay.Player,
	dev output.Device, s Settings, sourceName string, log *zap.Logger) *dashboard {

	controls := ui.NewControls()
	d := &dashboard{
		program: ui.Run(controls),
		cancel:  cancel,
		loop:    make(chan struct{}),
		exited:  make(chan struct{}),
	}

	go func() {
		defer close(d.exited)
		if _, err := d.program.Run(); err != nil {
			log.Warn("dashboard exited with error", zap.Error(err))
		}
	}()

	go func() {
		defer close(d.loop)
		d.program.Send(ui.StatusMsg{
			Session: player.ID(),
			Source:  sourceName,
			Format:  s.AudioFormat().String(),
			Backend: s.Backend,
			State:   player.State().String(),
		})

		ticker := time.NewTicker(statusInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-controls.Quit:
				cancel()
				return
			case <-controls.Toggle:
				toggle(player, log)
			case <-ticker.C:
				st := player.Stats()
				d.program.Send(ui.StatusMsg{
					State:      player.State().String(),
					Stats:      &st,
					DeviceTime: dev.CurrentTime(),
				})
			}
		}
	}()
	return d
}

func toggle(player *streamplay.Player, log *zap.Logger) {
	var err error
	if player.State() == streamplay.StatePaused {
		err = player.Resume()
	} else {
		err = player.Pause()
	}
	if err != nil {
		log.Warn("pause toggle failed", zap.Error(err))
	}
}

// close stops the stats loop and restores the terminal
func (d *dashboard) close() {
	d.cancel()
	<-d.loop
	d.program.Quit()
	<-d.exited
}
