package engine

import (
	"sync"

	"github.com/roach88/emit/internal/ir"
)

// Emission is one dispatched record waiting for delivery.
type Emission struct {
	Target *string
	Names  []string
	Values []ir.Value
	Record *ir.Record
}

// emissionQueue is a thread-safe FIFO queue of emissions.
//
// The queue uses a channel for signaling to enable context-aware waiting in
// the delivery loop. When max is positive the queue holds at most max
// pending emissions and drops new ones beyond that.
type emissionQueue struct {
	mu      sync.Mutex
	items   []Emission
	closed  bool
	max     int
	dropped int64
	signal  chan struct{} // buffered, size 1
}

func newEmissionQueue(max int) *emissionQueue {
	return &emissionQueue{
		items:  make([]Emission, 0, 64),
		max:    max,
		signal: make(chan struct{}, 1),
	}
}

// Enqueue adds an emission to the back of the queue.
// Returns false, and counts a drop, if the queue is closed or full.
func (q *emissionQueue) Enqueue(e Emission) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed || (q.max > 0 && len(q.items) >= q.max) {
		q.dropped++
		return false
	}

	q.items = append(q.items, e)

	// Buffer of 1 coalesces multiple signals.
	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// TryDequeue removes the front emission without blocking.
func (q *emissionQueue) TryDequeue() (Emission, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return Emission{}, false
	}

	e := q.items[0]
	// Clear the slot so the record can be collected.
	q.items[0] = Emission{}
	if len(q.items) == 1 {
		q.items = q.items[:0]
	} else {
		q.items = q.items[1:]
	}
	return e, true
}

// Wait returns a channel that signals when emissions may be available.
// The channel is closed when the queue is closed.
func (q *emissionQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the number of pending emissions.
func (q *emissionQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Dropped returns how many emissions were refused because the queue was
// full or closed.
func (q *emissionQueue) Dropped() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

// Close stops accepting emissions and wakes any waiter.
func (q *emissionQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}
