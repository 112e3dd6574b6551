package bookingRepo

import "sync"

// providerLocks serializes conflict-checked writes per provider. Writes
// for different providers never contend; two writers for the same
// provider are forced through the check-and-write section one at a time.
type providerLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newProviderLocks() *providerLocks {
	return &providerLocks{locks: make(map[string]*sync.Mutex)}
}

// forProvider returns the mutex guarding the given provider's bookings,
// creating it on first use.
func (pl *providerLocks) forProvider(providerID string) *sync.Mutex {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	lock, ok := pl.locks[providerID]
	if !ok {
		lock = &sync.Mutex{}
		pl.locks[providerID] = lock
	}
	return lock
}
