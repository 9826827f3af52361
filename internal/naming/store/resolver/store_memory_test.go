package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"namegate/internal/naming"
	"namegate/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) TestGetSet() {
	ctx := context.Background()
	hash := naming.HashName([]byte("alice"))

	s.Run("returns ErrNotFound before any record is set", func() {
		_, err := s.store.Get(ctx, hash)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returns the stored address", func() {
		s.Require().NoError(s.store.Set(ctx, hash, "addr-1"))
		addr, err := s.store.Get(ctx, hash)
		s.Require().NoError(err)
		s.Equal(naming.AccountID("addr-1"), addr)
	})

	s.Run("overwrites an existing record", func() {
		s.Require().NoError(s.store.Set(ctx, hash, "addr-2"))
		addr, err := s.store.Get(ctx, hash)
		s.Require().NoError(err)
		s.Equal(naming.AccountID("addr-2"), addr)
	})
}

func (s *InMemoryStoreSuite) TestDelete() {
	ctx := context.Background()
	hash := naming.HashName([]byte("alice"))
	s.Require().NoError(s.store.Set(ctx, hash, "addr-1"))

	s.Run("removes the record", func() {
		s.Require().NoError(s.store.Delete(ctx, hash))
		_, err := s.store.Get(ctx, hash)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("is a no-op for an absent record", func() {
		s.Require().NoError(s.store.Delete(ctx, hash))
	})
}
