// ABOUTME: Bubbletea model for the playback dashboard
// ABOUTME: Renders session state, buffer lead and unit counters
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Resonate-Protocol/streamplay/pkg/streamplay"
)

// maxLeadDisplay is the buffer lead (seconds) drawn as a full bar
const maxLeadDisplay = 2.0

// Model represents the dashboard state
type Model struct {
	// Session
	session string
	source  string
	format  string
	backend string
	state   string

	// Timing
	deviceTime float64
	stats      streamplay.Stats

	showDebug bool
	controls  *Controls

	width  int
	height int
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}
	return m, nil
}

// View renders the dashboard
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString(m.renderTiming())
	b.WriteString(m.renderStats())
	if m.showDebug {
		b.WriteString(m.renderDebug())
	}
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderHeader() string {
	state := m.state
	if state == "" {
		state = "idle"
	}
	return fmt.Sprintf(`┌─ streamplay ─────────────────────────────────────────┐
│ Session: %-43s │
│ Source:  %-43s │
│ Format:  %-43s │
│ Output:  %-20s State: %-15s │
├──────────────────────────────────────────────────────┤
`, truncate(m.session, 43), truncate(m.source, 43), truncate(m.format, 43),
		truncate(m.backend, 20), state)
}

func (m Model) renderTiming() string {
	lead := m.lead()
	return fmt.Sprintf("│ Clock:  %8.3fs   Cursor: %8.3fs%-14s │\n"+
		"│ Lead:   [%s] %6.0fms%-22s │\n",
		m.deviceTime, m.stats.Cursor, "",
		renderBar(lead, maxLeadDisplay, 10), lead*1000, "")
}

func (m Model) renderStats() string {
	return fmt.Sprintf(`├──────────────────────────────────────────────────────┤
│ Fragments: %-8d Bytes: %-24d │
│ Scheduled: %-8d Ended: %-8d Dropped: %-6d │
│                                                      │
`, m.stats.FragmentsReceived, m.stats.BytesReceived,
		m.stats.UnitsScheduled, m.stats.UnitsEnded, m.stats.UnitsDropped)
}

func (m Model) renderDebug() string {
	return fmt.Sprintf(`│ DEBUG:                                               │
│   Buffered samples: %-32d │
│   Queued units:     %-32d │
│   Decodes:          %-8d Failed: %-15d │
`, m.stats.BufferedSamples, m.stats.QueuedUnits,
		m.stats.InFlightDecodes, m.stats.DecodeFailures)
}

func (m Model) renderHelp() string {
	return `│ space:Pause/Resume  d:Debug  q:Quit                  │
└──────────────────────────────────────────────────────┘
`
}

// lead is how far scheduled audio runs ahead of the device clock
func (m Model) lead() float64 {
	lead := m.stats.Cursor - m.deviceTime
	if lead < 0 {
		return 0
	}
	return lead
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.controls.quit()
		return m, tea.Quit
	case " ", "space", "p":
		m.controls.toggle()
	case "d":
		m.showDebug = !m.showDebug
	}
	return m, nil
}

func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Session != "" {
		m.session = msg.Session
	}
	if msg.Source != "" {
		m.source = msg.Source
	}
	if msg.Format != "" {
		m.format = msg.Format
	}
	if msg.Backend != "" {
		m.backend = msg.Backend
	}
	if msg.State != "" {
		m.state = msg.State
	}
	if msg.Stats != nil {
		m.stats = *msg.Stats
		m.deviceTime = msg.DeviceTime
	}
}

// StatusMsg updates dashboard state. Empty fields leave the current value.
type StatusMsg struct {
	Session    string
	Source     string
	Format     string
	Backend    string
	State      string
	Stats      *streamplay.Stats
	DeviceTime float64
}

func renderBar(value, max float64, width int) string {
	filled := int(value / max * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}
