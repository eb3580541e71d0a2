package rateguard

import (
	"testing"
	"time"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestAllow(t *testing.T) {
	const interval = 8 * time.Second

	tests := []struct {
		name string
		gap  time.Duration
		want bool
	}{
		{"inside window", 3 * time.Second, false},
		{"just inside", interval - time.Nanosecond, false},
		{"exactly at interval", interval, true},
		{"after interval", 20 * time.Second, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &clock{t: time.Unix(1_700_000_000, 0)}
			g := NewWithClock(c.now)

			if !g.Allow("s1", interval) {
				t.Fatal("first call should be allowed")
			}
			c.advance(tt.gap)
			if got := g.Allow("s1", interval); got != tt.want {
				t.Errorf("second Allow() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAllowDenialDoesNotExtendWindow(t *testing.T) {
	c := &clock{t: time.Unix(0, 0)}
	g := NewWithClock(c.now)

	g.Allow("s", 10*time.Second)
	c.advance(6 * time.Second)
	if g.Allow("s", 10*time.Second) {
		t.Fatal("should be denied at 6s")
	}
	c.advance(4 * time.Second)
	if !g.Allow("s", 10*time.Second) {
		t.Error("should be allowed 10s after the first allowed call")
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	c := &clock{t: time.Unix(0, 0)}
	g := NewWithClock(c.now)

	if !g.Allow("a", time.Minute) || !g.Allow("b", time.Minute) {
		t.Fatal("distinct sessions should not share a cooldown")
	}
	if g.Allow("a", time.Minute) {
		t.Error("a should still be cooling down")
	}
}

func TestNonPositiveInterval(t *testing.T) {
	g := New()
	for i := 0; i < 3; i++ {
		if !g.Allow("s", 0) {
			t.Fatalf("call %d denied with zero interval", i)
		}
	}
}

func TestRemainingAndReset(t *testing.T) {
	c := &clock{t: time.Unix(0, 0)}
	g := NewWithClock(c.now)

	if got := g.Remaining("s", 8*time.Second); got != 0 {
		t.Errorf("Remaining before any call = %v", got)
	}
	g.Allow("s", 8*time.Second)
	c.advance(3 * time.Second)
	if got := g.Remaining("s", 8*time.Second); got != 5*time.Second {
		t.Errorf("Remaining = %v, want 5s", got)
	}

	g.Reset("s")
	if !g.Allow("s", 8*time.Second) {
		t.Error("Allow after Reset should succeed")
	}
}
