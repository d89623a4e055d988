package remote

import (
	"sync"

	"github.com/milk9111/grabbox/sandbox"
)

// Queue is a FIFO of events shared between connection goroutines and the game
// loop.
type Queue struct {
	mu    sync.Mutex
	items []sandbox.Event
}

// Push adds an event.
func (q *Queue) Push(evt sandbox.Event) {
	if q == nil {
		return
	}
	q.mu.Lock()
	q.items = append(q.items, evt)
	q.mu.Unlock()
}

// Drain returns all events and clears the queue.
func (q *Queue) Drain() []sandbox.Event {
	if q == nil {
		return nil
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
