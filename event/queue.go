package event

import (
	"sync/atomic"

	"github.com/lixenwraith/planar/parameter"
)

// EventQueue is a lock-free MPSC ring buffer for physics events
// Thread-Safety:
//   - Push: Lock-free CAS, multiple producers OK
//   - Consume/Drain: Single consumer
//   - Published flags prevent reading partial writes
//
// Overflow: Oldest events overwritten when full, counted in Dropped
type EventQueue struct {
	events    [parameter.EventQueueSize]Event
	published [parameter.EventQueueSize]atomic.Bool
	head      atomic.Uint64 // Read index
	tail      atomic.Uint64 // Write index
	dropped   atomic.Uint64
}

func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Push adds an event, overwriting the oldest unread one when full
func (q *EventQueue) Push(ev Event) {
	for {
		tail := q.tail.Load()
		next := tail + 1
		if !q.tail.CompareAndSwap(tail, next) {
			continue
		}

		idx := tail & parameter.EventBufferMask
		q.events[idx] = ev
		q.published[idx].Store(true) // MUST be after write

		head := q.head.Load()
		if next-head > parameter.EventQueueSize {
			if q.head.CompareAndSwap(head, next-parameter.EventQueueSize) {
				q.dropped.Add(next - parameter.EventQueueSize - head)
			}
		}
		return
	}
}

// Consume returns all pending events in FIFO order
func (q *EventQueue) Consume() []Event {
	var out []Event
	q.Drain(func(ev Event) {
		out = append(out, ev)
	})
	return out
}

// Drain calls fn for each pending event in FIFO order and returns the count
// fn must not Push into the same queue
func (q *EventQueue) Drain(fn func(Event)) int {
	for {
		head := q.head.Load()
		tail := q.tail.Load()
		if tail == head {
			return 0
		}

		avail := tail - head
		if avail > parameter.EventQueueSize {
			avail = parameter.EventQueueSize
			head = tail - parameter.EventQueueSize
		}

		n := uint64(0)
		for ; n < avail; n++ {
			idx := (head + n) & parameter.EventBufferMask
			if !q.published[idx].Load() {
				break // Writer incomplete
			}
		}

		if q.head.CompareAndSwap(head, head+n) {
			for i := uint64(0); i < n; i++ {
				idx := (head + i) & parameter.EventBufferMask
				ev := q.events[idx]
				q.published[idx].Store(false)
				fn(ev)
			}
			return int(n)
		}
	}
}

// Len returns approximate pending event count
func (q *EventQueue) Len() int {
	head := q.head.Load()
	tail := q.tail.Load()
	if tail <= head {
		return 0
	}
	diff := int(tail - head)
	if diff > parameter.EventQueueSize {
		return parameter.EventQueueSize
	}
	return diff
}

// Dropped returns how many events were overwritten before being read
func (q *EventQueue) Dropped() uint64 {
	return q.dropped.Load()
}
