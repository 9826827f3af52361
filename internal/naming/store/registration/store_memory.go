// Package registration stores active and expired name registrations keyed by
// name hash. Expired registrations stay in storage until deregistered; only
// ownership checks relax.
package registration

import (
	"context"
	"sync"

	"namegate/internal/naming"
	"namegate/pkg/platform/sentinel"
)

// InMemoryStore keeps registrations in a mutex-guarded map.
type InMemoryStore struct {
	mu            sync.RWMutex
	registrations map[naming.NameHash]naming.Registration
}

// NewInMemoryStore creates an empty in-memory registration store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{registrations: make(map[naming.NameHash]naming.Registration)}
}

// Get retrieves a registration by name hash. Returns sentinel.ErrNotFound
// when the name is not registered.
func (s *InMemoryStore) Get(_ context.Context, hash naming.NameHash) (naming.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.registrations[hash]; ok {
		return r, nil
	}
	return naming.Registration{}, sentinel.ErrNotFound
}

// Put upserts a registration keyed by its name hash.
func (s *InMemoryStore) Put(_ context.Context, r naming.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registrations[r.NameHash] = r
	return nil
}

// Delete removes a registration. Returns sentinel.ErrNotFound when absent.
func (s *InMemoryStore) Delete(_ context.Context, hash naming.NameHash) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.registrations[hash]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.registrations, hash)
	return nil
}

// List returns all stored registrations in unspecified order.
func (s *InMemoryStore) List(_ context.Context) ([]naming.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]naming.Registration, 0, len(s.registrations))
	for _, r := range s.registrations {
		out = append(out, r)
	}
	return out, nil
}
