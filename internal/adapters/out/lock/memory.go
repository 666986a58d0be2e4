// Package lock provides OrderLocker adapters: an in-process locker for a single
// instance and a redis locker for several instances sharing one database.
package lock

import (
	"context"
	"sync"

	"fieldservice/internal/core/domain/model/kernel"
)

// MemoryOrderLocker serializes transitions per order inside one process.
type MemoryOrderLocker struct {
	mu    sync.Mutex
	slots map[kernel.UUID]*slot
}

type slot struct {
	ch      chan struct{}
	waiters int
}

// NewMemoryOrderLocker creates an empty locker.
func NewMemoryOrderLocker() *MemoryOrderLocker {
	return &MemoryOrderLocker{slots: make(map[kernel.UUID]*slot)}
}

// Lock blocks until orderID is free or ctx is done.
func (l *MemoryOrderLocker) Lock(ctx context.Context, orderID kernel.UUID) (func(), error) {
	l.mu.Lock()
	s, ok := l.slots[orderID]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[orderID] = s
	}
	s.waiters++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(orderID, s, false)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.release(orderID, s, true)
		})
	}, nil
}

func (l *MemoryOrderLocker) release(orderID kernel.UUID, s *slot, held bool) {
	if held {
		<-s.ch
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	s.waiters--
	if s.waiters == 0 {
		delete(l.slots, orderID)
	}
}

// Held returns the number of orders with a holder or waiters.
func (l *MemoryOrderLocker) Held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
