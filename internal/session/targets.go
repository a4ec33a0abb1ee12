// Package session holds the ephemeral reply-target state: which user the
// admin's next free-form message will be relayed to. The mapping lives only
// in process memory and is lost on restart by design.
package session

import "sync"

// Targets maps an admin session id to the single user id currently being
// replied to. At most one outstanding target per session; setting a new one
// silently replaces the old. Handlers run on separate goroutines, so access
// is guarded by a mutex.
type Targets struct {
	mu      sync.RWMutex
	targets map[int64]int64
}

// NewTargets creates an empty reply-target map.
func NewTargets() *Targets {
	return &Targets{targets: make(map[int64]int64)}
}

// Set records userID as the reply target for the given admin session,
// replacing any previous target.
func (t *Targets) Set(adminID, userID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.targets[adminID] = userID
}

// Get returns the current target for the admin session, or false when no
// target is set.
func (t *Targets) Get(adminID int64) (int64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	userID, ok := t.targets[adminID]
	return userID, ok
}

// Clear removes the target for the admin session, if any.
func (t *Targets) Clear(adminID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.targets, adminID)
}
