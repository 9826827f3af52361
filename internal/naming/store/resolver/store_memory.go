// Package resolver stores the account address each registered name resolves
// to. Entries are governed by the owning registration's lifecycle: they are
// removed when the registration is deregistered.
package resolver

import (
	"context"
	"sync"

	"namegate/internal/naming"
	"namegate/pkg/platform/sentinel"
)

// InMemoryStore keeps resolver entries in a mutex-guarded map.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[naming.NameHash]naming.AccountID
}

// NewInMemoryStore creates an empty in-memory resolver store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[naming.NameHash]naming.AccountID)}
}

// Get returns the address a name resolves to. Returns sentinel.ErrNotFound
// when no record is set.
func (s *InMemoryStore) Get(_ context.Context, hash naming.NameHash) (naming.AccountID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if address, ok := s.entries[hash]; ok {
		return address, nil
	}
	return "", sentinel.ErrNotFound
}

// Set upserts the resolved address for a name.
func (s *InMemoryStore) Set(_ context.Context, hash naming.NameHash, address naming.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[hash] = address
	return nil
}

// Delete removes a resolver entry. Deleting an absent entry is a no-op: the
// engine clears records unconditionally when a registration is removed.
func (s *InMemoryStore) Delete(_ context.Context, hash naming.NameHash) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, hash)
	return nil
}
