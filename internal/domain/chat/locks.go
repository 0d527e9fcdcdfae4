package chat

import "sync"

// turnLocks serializes turns per conversation. A second concurrent turn for
// the same conversation waits for the first to finish; turns on different
// conversations proceed in parallel. Entries are refcounted so the map does
// not grow with conversation count.
type turnLocks struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newTurnLocks() *turnLocks {
	return &turnLocks{locks: make(map[string]*lockEntry)}
}

func (t *turnLocks) lock(key string) {
	t.mu.Lock()
	entry, ok := t.locks[key]
	if !ok {
		entry = &lockEntry{}
		t.locks[key] = entry
	}
	entry.refs++
	t.mu.Unlock()

	entry.mu.Lock()
}

func (t *turnLocks) unlock(key string) {
	t.mu.Lock()
	entry := t.locks[key]
	entry.refs--
	if entry.refs == 0 {
		delete(t.locks, key)
	}
	t.mu.Unlock()

	entry.mu.Unlock()
}
