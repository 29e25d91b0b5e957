// Package guard holds the per-user throttles that protect the quota
// providers: a rate window between lookups, a short duplicate-request
// debounce, and an in-flight lock per (chat, msisdn) pair.
package guard

import (
	"sync"
	"time"
)

// Guard tracks lookup throttling state in memory. All methods are safe
// for concurrent use.
type Guard struct {
	rateWindow  time.Duration
	dedupWindow time.Duration

	mu       sync.Mutex
	lastSeen map[int64]time.Time
	lastKey  map[string]time.Time
	inFlight map[string]struct{}

	now func() time.Time
}

// New builds a Guard with the given windows. Non-positive windows
// disable the corresponding check.
func New(rateWindow, dedupWindow time.Duration) *Guard {
	return &Guard{
		rateWindow:  rateWindow,
		dedupWindow: dedupWindow,
		lastSeen:    make(map[int64]time.Time),
		lastKey:     make(map[string]time.Time),
		inFlight:    make(map[string]struct{}),
		now:         time.Now,
	}
}

// CheckRate reports whether the user may start a lookup now. When the
// user is inside the rate window it returns the whole seconds left to
// wait, rounded up, and does not touch the stored timestamp, so a
// blocked attempt never extends the penalty.
func (g *Guard) CheckRate(userID int64) (waitSeconds int, ok bool) {
	if g.rateWindow <= 0 {
		return 0, true
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if last, seen := g.lastSeen[userID]; seen {
		elapsed := now.Sub(last)
		if elapsed < g.rateWindow {
			remain := g.rateWindow - elapsed
			wait := int((remain + time.Second - 1) / time.Second)
			if wait < 1 {
				wait = 1
			}
			return wait, false
		}
	}
	g.lastSeen[userID] = now
	return 0, true
}

// CheckDuplicate reports whether an identical request key was seen
// within the dedup window. Allowed requests refresh the stored
// timestamp; duplicates are dropped silently by the caller.
func (g *Guard) CheckDuplicate(key string) bool {
	if g.dedupWindow <= 0 {
		return true
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if last, seen := g.lastKey[key]; seen && now.Sub(last) < g.dedupWindow {
		return false
	}
	g.lastKey[key] = now
	return true
}

// Acquire takes the in-flight lock for key. On success it returns a
// release func the caller must defer so the lock survives provider
// errors and panics alike. A second Acquire for the same key fails
// until release runs.
func (g *Guard) Acquire(key string) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.inFlight[key]; busy {
		return nil, false
	}
	g.inFlight[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.inFlight, key)
			g.mu.Unlock()
		})
	}, true
}
