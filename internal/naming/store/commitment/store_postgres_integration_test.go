//go:build integration

package commitment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"namegate/internal/naming"
	"namegate/internal/naming/store/commitment"
	"namegate/pkg/platform/sentinel"
	"namegate/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *commitment.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.Require().NoError(s.postgres.ExecSchema(context.Background(), commitment.Schema))
	s.store = commitment.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "name_commitments"))
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	c := naming.Commitment{
		Hash:      naming.HashCommitment([]byte("alice"), 42),
		Depositor: "depositor",
		Owner:     "owner",
		Deposit:   1_000,
		CreatedAt: 7,
	}

	s.Require().NoError(s.store.Put(ctx, c))

	found, err := s.store.Get(ctx, c.Hash)
	s.Require().NoError(err)
	s.Equal(c, found)
}

func (s *PostgresStoreSuite) TestPutUpserts() {
	ctx := context.Background()
	c := naming.Commitment{Hash: naming.HashCommitment([]byte("alice"), 42), Depositor: "a", Owner: "a", Deposit: 10, CreatedAt: 1}
	s.Require().NoError(s.store.Put(ctx, c))

	c.Owner = "b"
	c.CreatedAt = 2
	s.Require().NoError(s.store.Put(ctx, c))

	found, err := s.store.Get(ctx, c.Hash)
	s.Require().NoError(err)
	s.Equal(naming.AccountID("b"), found.Owner)
	s.Equal(naming.BlockNumber(2), found.CreatedAt)
}

func (s *PostgresStoreSuite) TestGetMissing() {
	_, err := s.store.Get(context.Background(), naming.HashCommitment([]byte("ghost"), 1))
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestDelete() {
	ctx := context.Background()
	c := naming.Commitment{Hash: naming.HashCommitment([]byte("alice"), 42), Depositor: "a", Owner: "a"}
	s.Require().NoError(s.store.Put(ctx, c))

	s.Require().NoError(s.store.Delete(ctx, c.Hash))
	_, err := s.store.Get(ctx, c.Hash)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	s.Require().ErrorIs(s.store.Delete(ctx, c.Hash), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestList() {
	ctx := context.Background()
	first := naming.Commitment{Hash: naming.HashCommitment([]byte("alice"), 1), Depositor: "a", Owner: "a"}
	second := naming.Commitment{Hash: naming.HashCommitment([]byte("bobby"), 2), Depositor: "b", Owner: "b"}
	s.Require().NoError(s.store.Put(ctx, first))
	s.Require().NoError(s.store.Put(ctx, second))

	listed, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]naming.Commitment{first, second}, listed)
}
