package impersonate

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// StartLimiter decides whether one more impersonation start is permitted for
// an admin right now, and records the attempt atomically with that decision.
// The in-memory WindowLimiter is the default implementation; a deployment
// with several instances can substitute one backed by a shared store.
type StartLimiter interface {
	CheckAndRecord(adminID uuid.UUID, maxPerWindow int) bool
}

// WindowLimiter is a sliding-window rate limiter keyed by admin identity.
// State lives for the process lifetime and is never persisted; restarting
// the process resets all windows. Rate limiting here is a throttle, not a
// security boundary on its own.
type WindowLimiter struct {
	mu     sync.Mutex
	window time.Duration
	starts map[uuid.UUID][]time.Time
	now    func() time.Time
}

// WindowOption configures a WindowLimiter
type WindowOption func(*WindowLimiter)

// WithWindow overrides the default one-hour window
func WithWindow(d time.Duration) WindowOption {
	return func(l *WindowLimiter) {
		if d > 0 {
			l.window = d
		}
	}
}

// WithClock overrides the limiter's clock. Used by tests to roll the window
// forward without sleeping.
func WithClock(now func() time.Time) WindowOption {
	return func(l *WindowLimiter) {
		if now != nil {
			l.now = now
		}
	}
}

// NewWindowLimiter creates a sliding-window limiter with a one-hour window
func NewWindowLimiter(opts ...WindowOption) *WindowLimiter {
	l := &WindowLimiter{
		window: time.Hour,
		starts: make(map[uuid.UUID][]time.Time),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CheckAndRecord prunes starts older than the window for the admin, denies
// without mutation if the remaining count is at the limit, and otherwise
// records now and allows. Check and record are a single atomic step under
// the limiter's mutex, so two concurrent calls can never both take the last
// slot.
func (l *WindowLimiter) CheckAndRecord(adminID uuid.UUID, maxPerWindow int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	recent := l.starts[adminID][:0]
	for _, t := range l.starts[adminID] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= maxPerWindow {
		l.starts[adminID] = recent
		return false
	}

	l.starts[adminID] = append(recent, now)
	return true
}

// Reset clears all recorded starts. Test isolation only.
func (l *WindowLimiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.starts = make(map[uuid.UUID][]time.Time)
}
