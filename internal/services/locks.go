package services

import (
	"sync"

	"github.com/google/uuid"
)

// applicationLocks serializes mutations per application. A decision and a
// concurrent evaluation on the same application must not interleave; across
// different applications there is no ordering guarantee.
type applicationLocks struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// NewApplicationLocks builds the shared lock table. One instance is shared by
// every service that mutates applications.
func NewApplicationLocks() *applicationLocks {
	return &applicationLocks{
		entries: make(map[uuid.UUID]*lockEntry),
	}
}

func (l *applicationLocks) Lock(id uuid.UUID) {
	l.mu.Lock()
	entry, ok := l.entries[id]
	if !ok {
		entry = &lockEntry{}
		l.entries[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
}

func (l *applicationLocks) Unlock(id uuid.UUID) {
	l.mu.Lock()
	entry := l.entries[id]
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, id)
	}
	l.mu.Unlock()

	entry.mu.Unlock()
}
