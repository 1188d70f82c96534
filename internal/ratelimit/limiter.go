package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a fixed-window request gate: at most maxPerMinute
// acquisitions per rolling-start 60-second window. Bursts at window
// boundaries are possible; that tradeoff is accepted in exchange for a
// trivially correct critical section.
//
// The zero value is not usable; construct with New. Pass one instance to
// every worker — never a package-level singleton — so independent runs
// compose and tests can inject a fake clock.
type Limiter struct {
	mu           sync.Mutex
	maxPerMinute int
	count        int
	windowStart  time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

const window = 60 * time.Second

// New returns a Limiter allowing maxPerMinute acquisitions per window.
func New(maxPerMinute int) *Limiter {
	return &Limiter{
		maxPerMinute: maxPerMinute,
		now:          time.Now,
		sleep:        time.Sleep,
	}
}

// NewWithClock is New with an injected clock, for tests.
func NewWithClock(maxPerMinute int, now func() time.Time, sleep func(time.Duration)) *Limiter {
	return &Limiter{
		maxPerMinute: maxPerMinute,
		now:          now,
		sleep:        sleep,
	}
}

// Acquire blocks until one more outbound request may be issued, then
// reserves that slot. Safe for concurrent use; the sleep happens inside
// the critical section, which serializes waiters by design.
func (l *Limiter) Acquire() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if l.windowStart.IsZero() {
		l.windowStart = now
	}

	if now.Sub(l.windowStart) >= window {
		l.count = 0
		l.windowStart = now
	}

	if l.count >= l.maxPerMinute {
		wait := window - now.Sub(l.windowStart)
		if wait > 0 {
			l.sleep(wait)
		}
		l.count = 0
		l.windowStart = l.now()
	}

	l.count++
}
