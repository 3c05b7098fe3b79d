package call

import (
	"context"
	"sync"
)

// Limiter caps the number of concurrently active simulated sessions.
// Waiters are served in FIFO order.
type Limiter struct {
	mu       sync.Mutex
	maxSlots int
	active   int
	waiters  []chan struct{}
}

// NewLimiter creates a limiter allowing up to maxSessions concurrent sessions.
func NewLimiter(maxSessions int) *Limiter {
	if maxSessions < 1 {
		maxSessions = 1
	}
	return &Limiter{maxSlots: maxSessions}
}

// Acquire blocks until a session slot is available or ctx is cancelled.
func (l *Limiter) Acquire(ctx context.Context) error {
	l.mu.Lock()

	if l.active < l.maxSlots {
		l.active++
		l.mu.Unlock()
		return nil
	}

	ch := make(chan struct{}, 1)
	l.waiters = append(l.waiters, ch)
	l.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		l.mu.Lock()
		found := false
		for i, w := range l.waiters {
			if w == ch {
				l.waiters = append(l.waiters[:i], l.waiters[i+1:]...)
				found = true
				break
			}
		}
		l.mu.Unlock()
		if !found {
			// Release already granted us the slot; hand it on.
			l.Release()
		}
		return ctx.Err()
	}
}

// Release frees a slot, waking the oldest waiter if any.
func (l *Limiter) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.waiters) > 0 {
		ch := l.waiters[0]
		l.waiters = l.waiters[1:]
		ch <- struct{}{}
		return
	}
	if l.active > 0 {
		l.active--
	}
}

// Active returns the number of currently held slots.
func (l *Limiter) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}
