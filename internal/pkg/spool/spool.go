// Package spool holds best-effort writes that failed after their transition
// committed, until a background job redelivers them.
package spool

import (
	"sync"
)

// DefaultCapacity bounds a spool created with a non-positive capacity.
const DefaultCapacity = 1024

// Entry is a spooled item and the number of delivery attempts already made.
type Entry[T any] struct {
	Item     T
	Attempts int
}

// Queue is a bounded FIFO safe for concurrent use. When full, the oldest entry is
// dropped so the newest failures are retried first.
type Queue[T any] struct {
	mu       sync.Mutex
	entries  []Entry[T]
	capacity int
	dropped  int
}

// New creates a Queue holding at most capacity entries.
func New[T any](capacity int) *Queue[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue[T]{capacity: capacity}
}

// Push appends entries, evicting the oldest ones beyond capacity.
func (q *Queue[T]) Push(entries ...Entry[T]) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.entries = append(q.entries, entries...)
	if over := len(q.entries) - q.capacity; over > 0 {
		q.entries = append([]Entry[T](nil), q.entries[over:]...)
		q.dropped += over
	}
}

// Drain removes and returns every entry.
func (q *Queue[T]) Drain() []Entry[T] {
	q.mu.Lock()
	defer q.mu.Unlock()

	drained := q.entries
	q.entries = nil
	return drained
}

// Len returns the number of spooled entries.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Dropped returns how many entries were evicted because the queue was full.
func (q *Queue[T]) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
