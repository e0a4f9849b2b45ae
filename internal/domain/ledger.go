package domain

import (
	"sync"
	"time"
)

// Ledger tracks, per user, the latest activity timestamp observed during one
// organization's run. It also remembers first-insertion order so report output
// is deterministic. A Ledger is built from empty for each organization and is
// safe for concurrent use, since the per-branch sources record from separate
// goroutines.
type Ledger struct {
	mu     sync.Mutex
	latest map[string]time.Time
	order  []string
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{latest: make(map[string]time.Time)}
}

// Record folds one observation into the ledger. The stored timestamp only
// ever moves forward: re-applying the same or an older event is a no-op, so
// Record is order-independent across any sequence of events.
func (l *Ledger) Record(login string, ts time.Time) {
	if login == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	cur, ok := l.latest[login]
	if !ok {
		l.latest[login] = ts
		l.order = append(l.order, login)
		return
	}
	if ts.After(cur) {
		l.latest[login] = ts
	}
}

// Last returns the recorded timestamp for login, if any.
func (l *Ledger) Last(login string) (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ts, ok := l.latest[login]
	return ts, ok
}

// Users returns the recorded logins in first-seen order.
func (l *Ledger) Users() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	users := make([]string, len(l.order))
	copy(users, l.order)
	return users
}

// Snapshot returns a copy of the login to latest-timestamp mapping. The copy
// is detached: later Record calls do not affect it.
func (l *Ledger) Snapshot() map[string]time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	snap := make(map[string]time.Time, len(l.latest))
	for login, ts := range l.latest {
		snap[login] = ts
	}
	return snap
}

// Len reports how many distinct users have been recorded.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.latest)
}
