package pool

import "sync"

// Locker serializes read-modify-write sequences per pool. Swaps and
// liquidity changes against the same pool take its mutex for the whole
// read-compute-commit section; different pools proceed concurrently.
//
// Mutexes are created on first use and never removed: the pool set is
// small and pools are never deleted.
type Locker struct {
	mu sync.Map // pool id -> *sync.Mutex
}

// NewLocker creates a new per-pool lock registry
func NewLocker() *Locker {
	return &Locker{}
}

// Lock acquires the exclusive lock for a pool
func (l *Locker) Lock(poolID string) {
	m, _ := l.mu.LoadOrStore(poolID, &sync.Mutex{})
	m.(*sync.Mutex).Lock()
}

// Unlock releases the exclusive lock for a pool
func (l *Locker) Unlock(poolID string) {
	m, ok := l.mu.Load(poolID)
	if !ok {
		panic("pool: unlock of unheld pool lock " + poolID)
	}
	m.(*sync.Mutex).Unlock()
}
