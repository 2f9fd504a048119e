// Package ratelimit implements a process-local fixed-window request
// counter keyed by (client, route). State lives in memory only: counts
// are lost on restart, which is acceptable for abuse mitigation.
package ratelimit

import (
	"sync"
	"time"
)

// Decision is the outcome of a single CheckAndIncrement call.
type Decision struct {
	// Allowed reports whether the request is admitted.
	Allowed bool
	// Limit is the configured ceiling for the window.
	Limit int
	// Remaining is the quota left in the current window, never negative.
	Remaining int
	// ResetAfter is the time until the current window expires.
	ResetAfter time.Duration
}

// entry is the window state for one key. Each entry carries its own
// mutex so traffic on one key never blocks another.
type entry struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

// Limiter counts requests per key within a fixed window. All methods
// are safe for concurrent use.
type Limiter struct {
	max    int
	window time.Duration

	entries sync.Map // string -> *entry

	// now is swappable for tests.
	now func() time.Time

	sweepOnce sync.Once
	stop      chan struct{}
	done      chan struct{}
}

// New returns a Limiter admitting at most max requests per window per key.
func New(max int, window time.Duration) *Limiter {
	return &Limiter{
		max:    max,
		window: window,
		now:    time.Now,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// CheckAndIncrement records one request for key and decides whether it
// is admitted. The count is incremented even when the request is
// rejected, so retry storms keep the window full instead of resetting
// it early.
func (l *Limiter) CheckAndIncrement(key string) Decision {
	now := l.now()

	e := l.entry(key)
	e.mu.Lock()
	if !now.Before(e.resetAt) {
		// Stale window: replace, never carry counts over.
		e.count = 0
		e.resetAt = now.Add(l.window)
	}
	e.count++
	count := e.count
	resetAt := e.resetAt
	e.mu.Unlock()

	remaining := l.max - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:    count <= l.max,
		Limit:      l.max,
		Remaining:  remaining,
		ResetAfter: resetAt.Sub(now),
	}
}

func (l *Limiter) entry(key string) *entry {
	if v, ok := l.entries.Load(key); ok {
		return v.(*entry)
	}
	v, _ := l.entries.LoadOrStore(key, &entry{})
	return v.(*entry)
}

// Sweep removes entries whose window has expired and returns how many
// were dropped. The sweep only bounds memory; expired entries that have
// not been swept yet are still replaced correctly on their next hit.
func (l *Limiter) Sweep() int {
	now := l.now()
	removed := 0
	l.entries.Range(func(key, v any) bool {
		e := v.(*entry)
		e.mu.Lock()
		expired := !now.Before(e.resetAt)
		e.mu.Unlock()
		if expired {
			l.entries.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// StartSweeper launches the background cleanup goroutine. The interval
// is independent of the rate window and typically much coarser.
func (l *Limiter) StartSweeper(interval time.Duration) {
	l.sweepOnce.Do(func() {
		go func() {
			defer close(l.done)
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					l.Sweep()
				case <-l.stop:
					return
				}
			}
		}()
	})
}

// Stop terminates the sweeper goroutine, if running, and waits for it
// to exit.
func (l *Limiter) Stop() {
	l.sweepOnce.Do(func() { close(l.done) })
	select {
	case <-l.stop:
	default:
		close(l.stop)
	}
	<-l.done
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	n := 0
	l.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
