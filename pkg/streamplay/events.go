// ABOUTME: Typed event bus owned by a player session
// ABOUTME: Supports On, Once and Off; closed on stop so late emits are no-ops
package streamplay

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// EventKind names an event
type EventKind string

const (
	// EventUnitEnded fires when a scheduled unit finishes playing
	EventUnitEnded EventKind = "playbackUnitEnded"

	// EventError carries ErrDecodeFailure or ErrDeviceRejected
	EventError EventKind = "error"

	// EventStateChange fires on pause, resume and stop
	EventStateChange EventKind = "stateChange"
)

// UnitInfo describes one scheduled playback unit
type UnitInfo struct {
	Seq      uint64
	Start    float64 // device timeline seconds
	Duration float64
	Frames   int
}

// Event is delivered to handlers
type Event struct {
	Kind      EventKind
	SessionID string

	// Params snapshot taken when the unit was scheduled (EventUnitEnded)
	Params Params
	Unit   UnitInfo

	// State after the transition (EventStateChange)
	State State

	// Err for EventError
	Err error
}

// Handler receives events. Handlers run without session locks held and may
// call any Player method.
type Handler func(Event)

// ListenerID identifies a registered handler
type ListenerID uint64

type listener struct {
	id      ListenerID
	handler Handler
	once    bool
}

// EventBus fans events out to registered handlers
type EventBus struct {
	mu        sync.Mutex
	listeners map[EventKind][]listener
	nextID    ListenerID
	closed    bool
	logger    *zap.Logger
}

// NewEventBus creates an empty bus
func NewEventBus(logger *zap.Logger) *EventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventBus{
		listeners: make(map[EventKind][]listener),
		logger:    logger,
	}
}

// On registers handler for kind
func (b *EventBus) On(kind EventKind, handler Handler) (ListenerID, error) {
	return b.add(kind, handler, false)
}

// Once registers handler for the next event of kind only
func (b *EventBus) Once(kind EventKind, handler Handler) (ListenerID, error) {
	return b.add(kind, handler, true)
}

func (b *EventBus) add(kind EventKind, handler Handler, once bool) (ListenerID, error) {
	if handler == nil {
		return 0, fmt.Errorf("%w: nil handler", ErrInvalidConfiguration)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrInvalidState
	}
	b.nextID++
	b.listeners[kind] = append(b.listeners[kind], listener{id: b.nextID, handler: handler, once: once})
	return b.nextID, nil
}

// Off removes a handler. It reports whether the handler was registered.
func (b *EventBus) Off(id ListenerID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for kind, ls := range b.listeners {
		for i, l := range ls {
			if l.id == id {
				b.listeners[kind] = append(ls[:i:i], ls[i+1:]...)
				return true
			}
		}
	}
	return false
}

// Emit delivers ev to the handlers registered for ev.Kind. Emit on a closed
// bus does nothing.
func (b *EventBus) Emit(ev Event) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	ls := b.listeners[ev.Kind]
	handlers := make([]Handler, 0, len(ls))
	kept := ls[:0:0]
	for _, l := range ls {
		handlers = append(handlers, l.handler)
		if !l.once {
			kept = append(kept, l)
		}
	}
	b.listeners[ev.Kind] = kept
	b.mu.Unlock()

	for _, h := range handlers {
		b.call(h, ev)
	}
}

func (b *EventBus) call(h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("kind", string(ev.Kind)),
				zap.Any("panic", r))
		}
	}()
	h(ev)
}

// Len returns the number of registered handlers
func (b *EventBus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, ls := range b.listeners {
		n += len(ls)
	}
	return n
}

// Close removes every handler; later On/Once fail and Emit is a no-op
func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	b.listeners = make(map[EventKind][]listener)
}
