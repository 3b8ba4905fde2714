// Package ratelimit implements per-client sliding-window request limiting.
package ratelimit

import (
	"errors"
	"sync"
	"time"

	"github.com/Angelito-Alit/comments-api/internal/clock"
)

var (
	ErrInvalidMaxRequests = errors.New("ratelimit: max requests must be positive")
	ErrInvalidWindow      = errors.New("ratelimit: window must be positive")
)

// Policy is an immutable rate-limit rule: at most MaxRequests admitted
// requests per client inside any window of the given length.
type Policy struct {
	MaxRequests int
	Window      time.Duration
}

// Validate rejects policies that only make sense as configuration mistakes.
// A zero MaxRequests is still honored by the limiter itself (it rejects
// everything); refusing it from configuration is the caller's job.
func (p Policy) Validate() error {
	if p.MaxRequests <= 0 {
		return ErrInvalidMaxRequests
	}
	if p.Window <= 0 {
		return ErrInvalidWindow
	}
	return nil
}

// Decision is the outcome of a single admission check.
type Decision struct {
	Allowed   bool
	Remaining int
	// RetryAfter is how long the client must wait before the next request
	// can be admitted. Only meaningful when Allowed is false.
	RetryAfter time.Duration
}

// Limiter tracks, per client key, the timestamps of admitted requests still
// inside the active window. The window slides with the clock at every check,
// so a burst cannot exploit a fixed-bucket reset edge.
type Limiter struct {
	policy Policy
	clk    clock.Clock

	mu      sync.Mutex
	windows map[string][]time.Time
}

func NewLimiter(policy Policy, clk clock.Clock) *Limiter {
	return &Limiter{
		policy:  policy,
		clk:     clk,
		windows: make(map[string][]time.Time),
	}
}

// Policy returns the limiter's immutable policy.
func (l *Limiter) Policy() Policy { return l.policy }

// Allow decides admission for one request from clientID. The prune-check-
// append sequence is a single critical section, so concurrent callers can
// never double-admit over the limit.
//
// Entries exactly at the window start are pruned (open start boundary), and
// a rejected request is never recorded: repeated rejections do not push the
// client's admission time further out.
func (l *Limiter) Allow(clientID string) Decision {
	now := l.clk.Now()
	windowStart := now.Add(-l.policy.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	window := l.windows[clientID]
	kept := window[:0]
	for _, ts := range window {
		if ts.After(windowStart) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.policy.MaxRequests {
		retry := l.policy.Window
		if len(kept) > 0 {
			l.windows[clientID] = kept
			// The oldest admitted request leaves the window first.
			retry = kept[0].Sub(windowStart)
		} else {
			// Only possible with MaxRequests == 0; never track the client.
			delete(l.windows, clientID)
		}
		return Decision{Allowed: false, RetryAfter: retry}
	}

	kept = append(kept, now)
	l.windows[clientID] = kept
	return Decision{Allowed: true, Remaining: l.policy.MaxRequests - len(kept)}
}

// Sweep drops clients whose recorded requests have all aged out of the
// window, bounding memory to clients active since the previous sweep.
// It returns the number of clients evicted.
func (l *Limiter) Sweep() int {
	now := l.clk.Now()
	windowStart := now.Add(-l.policy.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	evicted := 0
	for key, window := range l.windows {
		live := false
		for _, ts := range window {
			if ts.After(windowStart) {
				live = true
				break
			}
		}
		if !live {
			delete(l.windows, key)
			evicted++
		}
	}
	return evicted
}

// Clients reports how many client keys are currently tracked.
func (l *Limiter) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}
