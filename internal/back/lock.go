package back

import (
	"fmt"
	"sync"
)

// roundLocks serializes rating updates per (tenant, round). Two submissions
// for the same round of the same tenant must not interleave (the retroactive
// pass reads and rewrites every round-mate), but distinct rounds and
// distinct tenants can proceed concurrently.
type roundLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newRoundLocks() *roundLocks {
	return &roundLocks{
		locks: map[string]*sync.Mutex{},
	}
}

func (r *roundLocks) lock(tenantKey string, round int) func() {
	key := fmt.Sprintf("%s:%d", tenantKey, round)

	r.mu.Lock()
	lock, ok := r.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[key] = lock
	}
	r.mu.Unlock()

	lock.Lock()

	return lock.Unlock
}
