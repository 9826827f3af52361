// Package commitment stores pending commit-reveal commitments keyed by
// commitment hash.
package commitment

import (
	"context"
	"sync"

	"namegate/internal/naming"
	"namegate/pkg/platform/sentinel"
)

// InMemoryStore keeps commitments in a mutex-guarded map. It intentionally
// favors clarity over performance.
type InMemoryStore struct {
	mu          sync.RWMutex
	commitments map[naming.CommitmentHash]naming.Commitment
}

// NewInMemoryStore creates an empty in-memory commitment store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{commitments: make(map[naming.CommitmentHash]naming.Commitment)}
}

// Get retrieves a commitment by hash. Returns sentinel.ErrNotFound when the
// hash has no pending commitment.
func (s *InMemoryStore) Get(_ context.Context, hash naming.CommitmentHash) (naming.Commitment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.commitments[hash]; ok {
		return c, nil
	}
	return naming.Commitment{}, sentinel.ErrNotFound
}

// Put upserts a commitment keyed by its hash.
func (s *InMemoryStore) Put(_ context.Context, c naming.Commitment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitments[c.Hash] = c
	return nil
}

// Delete removes a commitment. Returns sentinel.ErrNotFound when absent.
func (s *InMemoryStore) Delete(_ context.Context, hash naming.CommitmentHash) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.commitments[hash]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.commitments, hash)
	return nil
}

// List returns all pending commitments in unspecified order.
func (s *InMemoryStore) List(_ context.Context) ([]naming.Commitment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]naming.Commitment, 0, len(s.commitments))
	for _, c := range s.commitments {
		out = append(out, c)
	}
	return out, nil
}
