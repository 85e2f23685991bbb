// ABOUTME: Tests for the Virtual output device
// ABOUTME: Covers deterministic clock, suspension, rejection and close
package output

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVirtual_AdvanceFiresCallbacksInOrder(t *testing.T) {
	v := NewVirtual(1000, 1)

	var order []int
	require.NoError(t, v.Schedule(constBuffer(1, 100, 1000, 0.1), 0, func() { order = append(order, 1) }))
	require.NoError(t, v.Schedule(constBuffer(1, 100, 1000, 0.2), 0.1, func() { order = append(order, 2) }))

	v.Advance(0.15)
	assert.Equal(t, []int{1}, order)
	assert.InDelta(t, 0.15, v.CurrentTime(), 1e-9)

	v.Advance(0.05)
	assert.Equal(t, []int{1, 2}, order)
	assert.Equal(t, 0, v.Pending())
}

func TestVirtual_AdvanceReturnsMix(t *testing.T) {
	v := NewVirtual(10, 1)
	require.NoError(t, v.Schedule(constBuffer(1, 2, 10, 0.5), 0.1, nil))

	out := v.Advance(0.4)
	assert.Equal(t, []float32{0, 0.5, 0.5, 0}, out)
}

func TestVirtual_SuspendHaltsClock(t *testing.T) {
	v := NewVirtual(1000, 1)
	v.Advance(0.1)

	require.NoError(t, v.Suspend())
	assert.True(t, v.Suspended())
	assert.Nil(t, v.Advance(1.0))
	assert.InDelta(t, 0.1, v.CurrentTime(), 1e-9)

	require.NoError(t, v.Resume())
	v.Advance(0.1)
	assert.InDelta(t, 0.2, v.CurrentTime(), 1e-9)
}

func TestVirtual_RecordsSchedules(t *testing.T) {
	v := NewVirtual(1000, 2)
	buf := v.NewBuffer(2, 10, 1000)
	require.NoError(t, v.Schedule(buf, 0.5, nil))

	scheduled := v.Scheduled()
	require.Len(t, scheduled, 1)
	assert.Same(t, buf, scheduled[0].Buffer)
	assert.Equal(t, 0.5, scheduled[0].At)
}

func TestVirtual_Reject(t *testing.T) {
	v := NewVirtual(1000, 1)
	boom := errors.New("device busy")
	v.Reject(boom)

	assert.ErrorIs(t, v.Schedule(v.NewBuffer(1, 1, 1000), 0, nil), boom)
	assert.Empty(t, v.Scheduled())

	v.Reject(nil)
	assert.NoError(t, v.Schedule(v.NewBuffer(1, 1, 1000), 0, nil))
}

func TestVirtual_Close(t *testing.T) {
	v := NewVirtual(1000, 1)
	called := false
	require.NoError(t, v.Schedule(constBuffer(1, 10, 1000, 0.1), 0, func() { called = true }))

	require.NoError(t, v.Close())
	assert.True(t, v.Closed())
	assert.ErrorIs(t, v.Close(), ErrClosed)
	assert.ErrorIs(t, v.Schedule(v.NewBuffer(1, 1, 1000), 0, nil), ErrClosed)
	assert.ErrorIs(t, v.Suspend(), ErrClosed)

	v.Advance(1)
	assert.False(t, called)
}
