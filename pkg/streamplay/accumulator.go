// ABOUTME: Buffer accumulator for raw samples and decoded units
// ABOUTME: Raw mode concatenates converted samples; compressed mode queues decoded buffers
package streamplay

import (
	"container/heap"

	"github.com/Resonate-Protocol/streamplay/pkg/audio"
)

// unit is one extraction from the accumulator. Exactly one of samples or buf
// is set.
type unit struct {
	samples []float32
	buf     *audio.Buffer
	seq     uint64
}

// decodeResult is handed from a decode goroutine to the session loop
type decodeJob struct {
	seq  uint64
	data []byte
}

type decodeResult struct {
	seq uint64
	buf *audio.Buffer
	err error
}

type accumulator struct {
	channels int

	// raw mode
	raw []float32

	// compressed mode
	queue   []decodeResult
	ordered bool
	nextSeq uint64
	pending resultHeap
}

func newAccumulator(channels int, ordered bool) *accumulator {
	a := &accumulator{channels: channels, ordered: ordered}
	heap.Init(&a.pending)
	return a
}

// appendRaw concatenates samples into a freshly allocated buffer so units
// already handed to the scheduler never alias the accumulator.
func (a *accumulator) appendRaw(samples []float32) {
	if len(samples) == 0 {
		return
	}
	next := make([]float32, len(a.raw)+len(samples))
	copy(next, a.raw)
	copy(next[len(a.raw):], samples)
	a.raw = next
}

// pushDecoded records a decode completion. Without ordering, successful
// results are queued in completion order. With ordering, results wait until
// every earlier submission has completed; failed results only free their slot.
func (a *accumulator) pushDecoded(r decodeResult) {
	if !a.ordered {
		if r.err == nil {
			a.queue = append(a.queue, r)
		}
		return
	}

	heap.Push(&a.pending, r)
	for a.pending.Len() > 0 && a.pending.Peek().seq == a.nextSeq {
		next := heap.Pop(&a.pending).(decodeResult)
		a.nextSeq++
		if next.err == nil {
			a.queue = append(a.queue, next)
		}
	}
}

// takeReady extracts the next playback unit. Raw mode returns every whole
// frame buffered so far; a trailing partial frame stays for the next unit.
func (a *accumulator) takeReady() (unit, bool) {
	if len(a.queue) > 0 {
		head := a.queue[0]
		a.queue[0] = decodeResult{}
		a.queue = a.queue[1:]
		return unit{buf: head.buf, seq: head.seq}, true
	}

	frames := len(a.raw) / a.channels
	if frames == 0 {
		return unit{}, false
	}

	n := frames * a.channels
	samples := a.raw[:n:n]
	if rest := len(a.raw) - n; rest > 0 {
		a.raw = append([]float32(nil), a.raw[n:]...)
	} else {
		a.raw = nil
	}
	return unit{samples: samples}, true
}

func (a *accumulator) bufferedSamples() int {
	return len(a.raw)
}

func (a *accumulator) queuedUnits() int {
	return len(a.queue)
}

func (a *accumulator) reset() {
	a.raw = nil
	a.queue = nil
	a.pending = nil
}

// resultHeap orders pending decode results by submission sequence
type resultHeap []decodeResult

func (h resultHeap) Len() int           { return len(h) }
func (h resultHeap) Less(i, j int) bool { return h[i].seq < h[j].seq }
func (h resultHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *resultHeap) Push(x interface{}) {
	*h = append(*h, x.(decodeResult))
}

func (h *resultHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func (h resultHeap) Peek() decodeResult {
	return h[0]
}
