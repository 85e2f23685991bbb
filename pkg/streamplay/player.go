// ABOUTME: Player session: accepts fragments and drives the flush ticker
// ABOUTME: Serialises accumulator, scheduler and lifecycle under one session lock
package streamplay

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Resonate-Protocol/streamplay/pkg/audio"
	"github.com/Resonate-Protocol/streamplay/pkg/audio/decode"
)

// Player buffers fragments and schedules them on the configured device
type Player struct {
	id       string
	config   Config
	logger   *zap.Logger
	observer Observer
	bus      *EventBus
	decoder  decode.Decoder

	// session state, guarded by mu
	mu        sync.Mutex
	state     State
	acc       *accumulator
	sched     *scheduler
	params    Params
	submitted uint64
	pending   []decodeJob

	sequential bool
	wake       chan struct{}

	ctx     context.Context
	cancel  context.CancelFunc
	results chan decodeResult
	decodes sync.WaitGroup
	done    chan struct{}

	fragments      atomic.Int64
	bytes          atomic.Int64
	scheduled      atomic.Int64
	ended          atomic.Int64
	dropped        atomic.Int64
	decodeFailures atomic.Int64
	inFlight       atomic.Int64
}

// NewPlayer validates config and starts the session. The flush ticker is
// running when NewPlayer returns.
func NewPlayer(config Config) (*Player, error) {
	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	decoder := config.Decoder
	if decoder == nil && config.Format.Compressed() {
		d, err := decode.New(config.AudioFormat())
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
		}
		decoder = d
	}

	id := uuid.NewString()
	logger := config.Logger.With(zap.String("session", id))
	ctx, cancel := context.WithCancel(context.Background())

	p := &Player{
		id:       id,
		config:   config,
		logger:   logger,
		observer: config.Observer,
		bus:      NewEventBus(logger),
		decoder:  decoder,
		state:    StateRunning,
		acc:      newAccumulator(config.Channels, config.OrderedDecode),
		sched:    newScheduler(config.Device, config.Channels, config.SampleRate, logger),
		params:   config.Params.Clone(),
		ctx:      ctx,
		cancel:   cancel,
		results:  make(chan decodeResult),
		done:     make(chan struct{}),

		sequential: config.OrderedDecode || config.Format == audio.CodecOpus,
		wake:       make(chan struct{}, 1),
	}

	if p.sequential && decoder != nil {
		p.decodes.Add(1)
		go p.decodeWorker()
	}
	go p.run()

	logger.Info("player started",
		zap.Stringer("format", config.AudioFormat()),
		zap.Int("flush_ms", config.FlushIntervalMs),
		zap.Bool("ordered_decode", config.OrderedDecode),
		zap.Bool("sequential_decode", p.sequential))

	return p, nil
}

// run is the session goroutine: it owns the ticker and consumes decode results
func (p *Player) run() {
	defer close(p.done)

	ticker := time.NewTicker(p.config.FlushInterval())
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			p.decodes.Wait()
			if p.decoder != nil {
				if err := p.decoder.Close(); err != nil {
					p.logger.Warn("decoder close error", zap.Error(err))
				}
			}
			return
		case <-ticker.C:
			_ = p.Flush()
		case r := <-p.results:
			p.handleResult(r)
		}
	}
}

// ID returns the session identifier
func (p *Player) ID() string {
	return p.id
}

// Done is closed once the session goroutine has exited after Stop
func (p *Player) Done() <-chan struct{} {
	return p.done
}

// State returns the lifecycle state
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// AddFragment submits one fragment. Raw fragments are converted and buffered
// before AddFragment returns; compressed fragments are decoded in the
// background and decode errors arrive as EventError.
func (p *Player) AddFragment(data []byte) error {
	if p.config.Format.Compressed() {
		return p.addCompressed(data)
	}
	return p.addRaw(data)
}

func (p *Player) addRaw(data []byte) error {
	if p.State() == StateStopped {
		return ErrInvalidState
	}

	samples, err := audio.ConvertPCM(data, p.config.BitDepth)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateStopped {
		return ErrInvalidState
	}
	p.acc.appendRaw(samples)
	p.received(len(data))
	return nil
}

func (p *Player) addCompressed(data []byte) error {
	fragment := make([]byte, len(data))
	copy(fragment, data)

	p.mu.Lock()
	if p.state == StateStopped {
		p.mu.Unlock()
		return ErrInvalidState
	}
	seq := p.submitted
	p.submitted++
	p.decodes.Add(1)
	p.inFlight.Add(1)
	if p.sequential {
		p.pending = append(p.pending, decodeJob{seq: seq, data: fragment})
		select {
		case p.wake <- struct{}{}:
		default:
		}
	}
	p.mu.Unlock()

	p.received(len(data))
	if !p.sequential {
		go p.decodeFragment(seq, fragment)
	}
	return nil
}

func (p *Player) received(n int) {
	p.fragments.Add(1)
	p.bytes.Add(int64(n))
	p.observer.FragmentReceived(n)
}

// decodeWorker feeds the decoder one fragment at a time in submission order.
// Jobs still pending when the session stops are discarded undecoded.
func (p *Player) decodeWorker() {
	defer p.decodes.Done()

	for {
		p.mu.Lock()
		if p.ctx.Err() != nil {
			n := len(p.pending)
			p.pending = nil
			p.mu.Unlock()
			for i := 0; i < n; i++ {
				p.inFlight.Add(-1)
				p.decodes.Done()
			}
			return
		}
		if len(p.pending) == 0 {
			p.mu.Unlock()
			select {
			case <-p.wake:
			case <-p.ctx.Done():
			}
			continue
		}
		job := p.pending[0]
		p.pending = p.pending[1:]
		p.mu.Unlock()

		p.decodeFragment(job.seq, job.data)
	}
}

func (p *Player) decodeFragment(seq uint64, data []byte) {
	defer p.decodes.Done()
	defer p.inFlight.Add(-1)

	buf, err := p.decoder.Decode(data)
	if err == nil && buf == nil {
		err = fmt.Errorf("decoder returned no audio")
	}
	if err != nil {
		err = fmt.Errorf("%w: fragment %d: %w", ErrDecodeFailure, seq, err)
	}

	select {
	case p.results <- decodeResult{seq: seq, buf: buf, err: err}:
	case <-p.ctx.Done():
	}
}

func (p *Player) handleResult(r decodeResult) {
	p.mu.Lock()
	if p.state == StateStopped {
		p.mu.Unlock()
		return
	}
	p.acc.pushDecoded(r)
	p.mu.Unlock()

	if r.err != nil {
		p.decodeFailures.Add(1)
		p.observer.DecodeFailed()
		p.logger.Warn("fragment decode failed", zap.Uint64("seq", r.seq), zap.Error(r.err))
		p.bus.Emit(Event{Kind: EventError, SessionID: p.id, Err: r.err})
	}
}

// Flush runs one scheduling tick now: extract at most one ready unit and
// schedule it at the playback cursor.
func (p *Player) Flush() error {
	p.mu.Lock()
	if p.state == StateStopped {
		p.mu.Unlock()
		return ErrInvalidState
	}
	ev := p.flushLocked()
	p.mu.Unlock()

	if ev != nil {
		p.bus.Emit(*ev)
	}
	return nil
}

// flushLocked must be called with p.mu held. It returns an event to emit
// after the lock is released.
func (p *Player) flushLocked() *Event {
	u, ok := p.acc.takeReady()
	if !ok {
		return nil
	}

	params := p.params.Clone()
	info, lead, err := p.sched.schedule(u, func(info UnitInfo) {
		p.unitEnded(info, params)
	})
	if err != nil {
		p.dropped.Add(1)
		p.observer.UnitDropped()
		p.logger.Warn("unit dropped", zap.Uint64("seq", info.Seq), zap.Error(err))
		return &Event{Kind: EventError, SessionID: p.id, Unit: info, Err: err}
	}

	p.scheduled.Add(1)
	p.observer.UnitScheduled(info.Duration, lead)
	return nil
}

// unitEnded runs on a device goroutine
func (p *Player) unitEnded(info UnitInfo, params Params) {
	p.ended.Add(1)
	p.observer.UnitEnded()
	p.bus.Emit(Event{
		Kind:      EventUnitEnded,
		SessionID: p.id,
		Params:    params,
		Unit:      info,
	})
}

// Pause suspends the device. Buffered audio, the ticker and the cursor are
// left alone; the device clock halts so the cursor stays valid.
func (p *Player) Pause() error {
	return p.transition(StatePaused)
}

// Resume resumes the device after Pause
func (p *Player) Resume() error {
	return p.transition(StateRunning)
}

func (p *Player) transition(to State) error {
	p.mu.Lock()
	if p.state == StateStopped {
		p.mu.Unlock()
		return ErrInvalidState
	}
	if p.state == to {
		p.mu.Unlock()
		return nil
	}

	verb, apply := "resume", p.config.Device.Resume
	if to == StatePaused {
		verb, apply = "suspend", p.config.Device.Suspend
	}
	if err := apply(); err != nil {
		p.mu.Unlock()
		return fmt.Errorf("failed to %s device: %w", verb, err)
	}
	p.state = to
	p.mu.Unlock()

	p.logger.Info("player state changed", zap.Stringer("state", to))
	p.bus.Emit(Event{Kind: EventStateChange, SessionID: p.id, State: to})
	return nil
}

// Stop tears the session down: buffered and queued audio is discarded, the
// ticker is cancelled, the device is closed and all listeners are removed
// after a final EventStateChange. Stopped is terminal, so a second Stop
// reports ErrInvalidState like every other call on a stopped session; the
// teardown itself ran exactly once and callers may ignore that error.
func (p *Player) Stop() error {
	p.mu.Lock()
	if p.state == StateStopped {
		p.mu.Unlock()
		return ErrInvalidState
	}
	p.state = StateStopped
	p.acc.reset()
	p.sched.reset()
	p.cancel()
	if err := p.config.Device.Close(); err != nil {
		p.logger.Warn("device close error", zap.Error(err))
	}
	p.mu.Unlock()

	p.logger.Info("player stopped")
	p.bus.Emit(Event{Kind: EventStateChange, SessionID: p.id, State: StateStopped})
	p.bus.Close()
	return nil
}

// On registers handler for kind
func (p *Player) On(kind EventKind, handler Handler) (ListenerID, error) {
	if p.State() == StateStopped {
		return 0, ErrInvalidState
	}
	return p.bus.On(kind, handler)
}

// Once registers handler for the next event of kind
func (p *Player) Once(kind EventKind, handler Handler) (ListenerID, error) {
	if p.State() == StateStopped {
		return 0, ErrInvalidState
	}
	return p.bus.Once(kind, handler)
}

// Off removes a handler registered with On or Once
func (p *Player) Off(id ListenerID) error {
	if p.State() == StateStopped {
		return ErrInvalidState
	}
	if !p.bus.Off(id) {
		return fmt.Errorf("%w: %d", ErrUnknownListener, id)
	}
	return nil
}

// Params returns a copy of the current params
func (p *Player) Params() Params {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.params.Clone()
}

// SetParams shallow-merges params into the current params. Units already
// scheduled keep the snapshot taken when they were scheduled.
func (p *Player) SetParams(params Params) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateStopped {
		return ErrInvalidState
	}
	p.params = p.params.Merge(params)
	return nil
}

// Stats returns session statistics
func (p *Player) Stats() Stats {
	p.mu.Lock()
	buffered := p.acc.bufferedSamples()
	queued := p.acc.queuedUnits()
	cursor := p.sched.cursor
	p.mu.Unlock()

	return Stats{
		FragmentsReceived: p.fragments.Load(),
		BytesReceived:     p.bytes.Load(),
		UnitsScheduled:    p.scheduled.Load(),
		UnitsEnded:        p.ended.Load(),
		UnitsDropped:      p.dropped.Load(),
		DecodeFailures:    p.decodeFailures.Load(),
		InFlightDecodes:   p.inFlight.Load(),
		BufferedSamples:   buffered,
		QueuedUnits:       queued,
		Cursor:            cursor,
	}
}
