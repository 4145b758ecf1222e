// Package scancache counts barcode scans per (customer, barcode) pair inside
// a sliding one hour window. The cache lives only in process memory: every
// counter starts cold after a restart, and nothing is shared across
// replicas. That is an accepted limitation of this deployment, not something
// to paper over with extra global state.
package scancache

import (
	"fmt"
	"sync"
	"time"
)

// Window is the inactivity span after which a counter resets. Independent of
// the warning row validity window, even though both are currently one hour.
const Window = time.Hour

type counter struct {
	count       int
	windowStart time.Time
}

// Tracker is a mutex-guarded in-memory scan counter.
type Tracker struct {
	mu    sync.Mutex
	scans map[string]*counter
	now   func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{
		scans: make(map[string]*counter),
		now:   time.Now,
	}
}

// SetNow overrides the tracker clock. Tests use it to step time across the
// window boundary.
func (t *Tracker) SetNow(now func() time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.now = now
}

func key(customerID uint, barcode string) string {
	return fmt.Sprintf("%d:%s", customerID, barcode)
}

// Record registers one scan of barcode by customerID and reports whether the
// running total inside the current window has reached threshold. A missing
// or expired counter restarts the window with a count of 1; prior counts
// never carry over. Threshold sanity is the caller's concern.
func (t *Tracker) Record(threshold int, customerID uint, barcode string) (suspicious bool, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	k := key(customerID, barcode)

	c, ok := t.scans[k]
	if !ok || now.Sub(c.windowStart) >= Window {
		c = &counter{count: 1, windowStart: now}
		t.scans[k] = c
		return c.count >= threshold, c.count
	}

	c.count++
	return c.count >= threshold, c.count
}
