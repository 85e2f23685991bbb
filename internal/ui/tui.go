// ABOUTME: Dashboard initialization and keyboard controls
// ABOUTME: Wraps the bubbletea program and relays pause and quit requests
package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Controls carries keyboard requests from the dashboard to the player loop
type Controls struct {
	Toggle chan struct{}
	Quit   chan struct{}

	quitOnce sync.Once
}

// NewControls creates a control handler
func NewControls() *Controls {
	return &Controls{
		Toggle: make(chan struct{}, 1),
		Quit:   make(chan struct{}),
	}
}

func (c *Controls) toggle() {
	if c == nil {
		return
	}
	select {
	case c.Toggle <- struct{}{}:
	default:
	}
}

func (c *Controls) quit() {
	if c == nil {
		return
	}
	c.quitOnce.Do(func() { close(c.Quit) })
}

// NewModel creates a dashboard model. controls may be nil.
func NewModel(controls *Controls) Model {
	return Model{
		state:    "idle",
		controls: controls,
	}
}

// Run creates the dashboard program; the caller starts it with Run.
func Run(controls *Controls) *tea.Program {
	return tea.NewProgram(NewModel(controls), tea.WithAltScreen())
}
