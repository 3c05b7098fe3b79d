package call

import (
	"sync"
	"time"
)

// Ticker owns the one-second duration timer for a session driven outside
// the TUI event loop (the websocket endpoint). Exactly one goroutine per
// Ticker; Stop is idempotent and safe from any teardown path.
type Ticker struct {
	stop     chan struct{}
	stopOnce sync.Once
}

// StartTicker begins advancing the session once per second and invokes
// onTick (if non-nil) with the new total after each advance. The goroutine
// exits when Stop is called or the session leaves the active state.
func StartTicker(s *Session, interval time.Duration, onTick func(seconds int)) *Ticker {
	if interval <= 0 {
		interval = time.Second
	}
	t := &Ticker{stop: make(chan struct{})}

	go func() {
		tick := time.NewTicker(interval)
		defer tick.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-tick.C:
				if s.Status() != StatusActive {
					return
				}
				secs := s.Tick()
				if onTick != nil {
					onTick(secs)
				}
			}
		}
	}()

	return t
}

// Stop tears the ticker down. Safe to call multiple times.
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
}
