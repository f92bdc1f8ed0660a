package coordinator

import "sync"

// mailbox is an unbounded, thread-safe FIFO.
//
// Producers never block. The consumer pairs TryDequeue with Wait so it can
// also select on context cancellation; the signal channel has a buffer of
// one and coalesces wakeups.
type mailbox[T any] struct {
	mu     sync.Mutex
	items  []T
	closed bool
	signal chan struct{}
}

func newMailbox[T any]() *mailbox[T] {
	return &mailbox[T]{
		items:  make([]T, 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue appends v. It returns false if the mailbox is closed.
func (q *mailbox[T]) Enqueue(v T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.items = append(q.items, v)

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// TryDequeue removes the front item without blocking.
func (q *mailbox[T]) TryDequeue() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if len(q.items) == 0 {
		return zero, false
	}

	v := q.items[0]
	q.items[0] = zero
	if len(q.items) == 1 {
		q.items = q.items[:0]
	} else {
		q.items = q.items[1:]
	}
	return v, true
}

// Wait returns a channel that fires when items may be available. It is
// closed once the mailbox is closed.
func (q *mailbox[T]) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the number of queued items.
func (q *mailbox[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close rejects further items and wakes the consumer. Items already queued
// can still be dequeued.
func (q *mailbox[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}
