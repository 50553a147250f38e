package catalog

import "sync"

// Store hands out the current catalog snapshot. Reloads swap the whole
// pointer, so queries already holding a snapshot are never affected.
type Store struct {
	mu   sync.RWMutex
	snap *Snapshot
}

func NewStore() *Store {
	return &Store{}
}

// Snapshot returns the current snapshot, nil before the first load.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Swap installs a freshly loaded snapshot.
func (s *Store) Swap(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
}
