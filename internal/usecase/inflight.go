package usecase

import (
	"sync"

	"github.com/google/uuid"
)

// inflightTracker is the set of job identifiers with an active processing
// task. Exactly one task may be in flight per identifier; removal happens
// through a deferred release so bookkeeping survives every exit path.
type inflightTracker struct {
	mu     sync.Mutex
	active map[uuid.UUID]struct{}
}

func newInflightTracker() *inflightTracker {
	return &inflightTracker{active: make(map[uuid.UUID]struct{})}
}

// acquire claims the processing slot for id, returning false if a task is
// already in flight for it.
func (t *inflightTracker) acquire(id uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.active[id]; exists {
		return false
	}
	t.active[id] = struct{}{}
	return true
}

// release frees the processing slot for id.
func (t *inflightTracker) release(id uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.active, id)
}

// contains reports whether id currently has an active processing task.
func (t *inflightTracker) contains(id uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, exists := t.active[id]
	return exists
}
