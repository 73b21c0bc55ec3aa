package synth

import (
	"sync"
	"sync/atomic"
)

const eventQueueSize = 256

type eventKind uint8

const (
	eventNoteOn eventKind = iota + 1
	eventNoteOff
	eventReleaseAll
)

type noteEvent struct {
	kind  eventKind
	index int32
}

// eventQueue is a bounded ring carrying note events to the render goroutine.
// Producers serialize on mu; the single consumer never locks.
type eventQueue struct {
	mu   sync.Mutex
	buf  [eventQueueSize]noteEvent
	head atomic.Uint64
	tail atomic.Uint64
}

func (q *eventQueue) push(ev noteEvent) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	tail := q.tail.Load()
	if tail-q.head.Load() >= eventQueueSize {
		return false
	}
	q.buf[tail%eventQueueSize] = ev
	q.tail.Store(tail + 1)
	return true
}

func (q *eventQueue) pop() (noteEvent, bool) {
	head := q.head.Load()
	if head == q.tail.Load() {
		return noteEvent{}, false
	}
	ev := q.buf[head%eventQueueSize]
	q.head.Store(head + 1)
	return ev, true
}

func (q *eventQueue) pending() int {
	return int(q.tail.Load() - q.head.Load())
}
