package scheduler

import (
	"sync"
	"time"
)

// DefaultIdleThreshold is how long a page may stay hidden before it needs
// a catch-up refresh on return.
const DefaultIdleThreshold = 60 * time.Second

// IdleTracker remembers when a page was last active.
type IdleTracker struct {
	mu        sync.Mutex
	now       func() time.Time
	threshold time.Duration
	last      time.Time
}

// NewIdleTracker creates a tracker whose activity clock starts now.
func NewIdleTracker(threshold time.Duration, now func() time.Time) *IdleTracker {
	if now == nil {
		now = time.Now
	}
	if threshold <= 0 {
		threshold = DefaultIdleThreshold
	}
	return &IdleTracker{now: now, threshold: threshold, last: now()}
}

// Hidden records the moment the page went to the background.
func (t *IdleTracker) Hidden() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = t.now()
}

// Visible records the page coming back and reports whether it was away
// longer than the threshold.
func (t *IdleTracker) Visible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	stale := now.Sub(t.last) > t.threshold
	t.last = now
	return stale
}
