// ABOUTME: Tests for lifecycle state values
// ABOUTME: Covers state names and the unobservable zero state
package streamplay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_String(t *testing.T) {
	tests := map[State]string{
		StateCreated: "created",
		StateRunning: "running",
		StatePaused:  "paused",
		StateStopped: "stopped",
		State(42):    "unknown",
	}
	for s, want := range tests {
		assert.Equal(t, want, s.String())
	}
}

func TestState_CreatedNeverObserved(t *testing.T) {
	var zero State
	assert.Equal(t, StateCreated, zero)

	p, _ := newTestPlayer(t, Config{})
	assert.Equal(t, StateRunning, p.State(), "NewPlayer returns a running session")

	states := make(chan State, 4)
	_, err := p.On(EventStateChange, func(ev Event) { states <- ev.State })
	require.NoError(t, err)

	require.NoError(t, p.Pause())
	require.NoError(t, p.Resume())
	require.NoError(t, p.Stop())

	close(states)
	var seen []State
	for s := range states {
		seen = append(seen, s)
	}
	assert.Equal(t, []State{StatePaused, StateRunning, StateStopped}, seen)
	assert.NotContains(t, seen, StateCreated)
}
