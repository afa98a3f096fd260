// events.go - Note events and the producer/audio-thread handoff queue

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package synth

import (
	"fmt"
	"sync"
	"sync/atomic"
)

type EventKind uint8

const (
	NoteOff EventKind = iota
	NoteOn
)

// Event is a MIDI-style voice change. Note and velocity are not range
// checked here; producers validate.
type Event struct {
	Kind     EventKind
	Note     uint8
	Velocity uint8
}

func NoteOnEvent(note, velocity uint8) Event {
	return Event{Kind: NoteOn, Note: note, Velocity: velocity}
}

func NoteOffEvent(note uint8) Event {
	return Event{Kind: NoteOff, Note: note}
}

func (e Event) String() string {
	if e.Kind == NoteOn {
		return fmt.Sprintf("NoteOn(%d, %d)", e.Note, e.Velocity)
	}
	return fmt.Sprintf("NoteOff(%d)", e.Note)
}

// EventSource is drained by the audio thread once per frame.
// TryReceive must never block.
type EventSource interface {
	TryReceive() (Event, bool)
}

const DEFAULT_EVENT_QUEUE_SIZE = 1024

// EventQueue is a bounded FIFO ring. The consumer side is lock-free and
// allocation-free; producers are serialized by a mutex the consumer never
// touches. A full queue drops the new event and counts it.
type EventQueue struct {
	buf  []Event
	mask uint64

	head atomic.Uint64 // Next slot to read, written by the consumer only
	tail atomic.Uint64 // Next slot to write, written under pushMu only

	pushMu  sync.Mutex
	dropped atomic.Uint64
}

// NewEventQueue rounds capacity up to a power of two.
func NewEventQueue(capacity int) *EventQueue {
	size := 2
	for size < capacity {
		size <<= 1
	}
	return &EventQueue{
		buf:  make([]Event, size),
		mask: uint64(size - 1),
	}
}

// Push enqueues ev without blocking on the consumer. It returns false when
// the queue is full and the event was dropped.
func (q *EventQueue) Push(ev Event) bool {
	q.pushMu.Lock()
	defer q.pushMu.Unlock()

	tail := q.tail.Load()
	if tail-q.head.Load() >= uint64(len(q.buf)) {
		q.dropped.Add(1)
		return false
	}
	q.buf[tail&q.mask] = ev
	q.tail.Store(tail + 1)
	return true
}

func (q *EventQueue) TryReceive() (Event, bool) {
	head := q.head.Load()
	if head == q.tail.Load() {
		return Event{}, false
	}
	ev := q.buf[head&q.mask]
	q.head.Store(head + 1)
	return ev, true
}

func (q *EventQueue) Len() int {
	return int(q.tail.Load() - q.head.Load())
}

func (q *EventQueue) Cap() int {
	return len(q.buf)
}

// Dropped returns how many events were rejected because the queue was full.
func (q *EventQueue) Dropped() uint64 {
	return q.dropped.Load()
}
