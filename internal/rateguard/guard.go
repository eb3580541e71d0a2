// Package rateguard is a per-session cooldown: after an allowed action the
// same session is refused until the interval has passed. There is no
// queueing and no burst allowance.
package rateguard

import (
	"sync"
	"time"
)

// Guard tracks the last allowed time per session.
type Guard struct {
	mu   sync.Mutex
	last map[string]time.Time
	now  func() time.Time
}

// New creates a guard using the wall clock.
func New() *Guard {
	return NewWithClock(time.Now)
}

// NewWithClock creates a guard with a custom time source.
func NewWithClock(now func() time.Time) *Guard {
	return &Guard{last: make(map[string]time.Time), now: now}
}

// Allow reports whether session may act now. When it returns true the
// session's timestamp is updated; a refusal leaves it unchanged.
// A non-positive interval always allows.
func (g *Guard) Allow(session string, interval time.Duration) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if interval > 0 {
		if last, ok := g.last[session]; ok && now.Sub(last) < interval {
			return false
		}
	}
	g.last[session] = now
	return true
}

// Remaining returns how long session must wait before Allow succeeds.
func (g *Guard) Remaining(session string, interval time.Duration) time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()

	last, ok := g.last[session]
	if !ok || interval <= 0 {
		return 0
	}
	if wait := interval - g.now().Sub(last); wait > 0 {
		return wait
	}
	return 0
}

// Reset forgets session.
func (g *Guard) Reset(session string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.last, session)
}
