package exchange

import (
	"sync"

	"github.com/Faultbox/warp-horizon/internal/engine/input"
)

// EventQueue is an unbounded FIFO of input events. Push never blocks the
// producer.
type EventQueue struct {
	mu     sync.Mutex
	events []input.Event
}

// Push appends an event.
func (q *EventQueue) Push(e input.Event) {
	q.mu.Lock()
	q.events = append(q.events, e)
	q.mu.Unlock()
}

// Drain appends all queued events to dst in arrival order and empties the queue.
func (q *EventQueue) Drain(dst []input.Event) []input.Event {
	q.mu.Lock()
	dst = append(dst, q.events...)
	q.events = q.events[:0]
	q.mu.Unlock()
	return dst
}
