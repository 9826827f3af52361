package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namegate/internal/naming"
	"namegate/internal/naming/ledger"
	"namegate/internal/naming/store/commitment"
	"namegate/internal/naming/store/registration"
	"namegate/internal/naming/store/resolver"
)

const (
	commitDeposit  = naming.Balance(1_000)
	subnodeDeposit = naming.Balance(400)
	minAge         = naming.BlockNumber(10)
	maxAge         = naming.BlockNumber(100)
	periodBlocks   = naming.BlockNumber(1_000)

	treasury = naming.AccountID("treasury")
	alice    = naming.AccountID("alice")
	bob      = naming.AccountID("bob")
	carol    = naming.AccountID("carol")
)

func testParams() naming.Params {
	return naming.Params{
		CommitmentDeposit:           commitDeposit,
		SubNodeDeposit:              subnodeDeposit,
		MinCommitmentAge:            minAge,
		MaxCommitmentAge:            maxAge,
		BlocksPerRegistrationPeriod: periodBlocks,
		FeeBeneficiary:              treasury,
		Fees: naming.FeeSchedule{
			TierThreeLetters:         300,
			TierFourLetters:          200,
			TierDefault:              100,
			FeePerRegistrationPeriod: 5,
		},
	}
}

type recordingPublisher struct {
	events []naming.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event naming.Event) error {
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) kinds() []naming.EventKind {
	kinds := make([]naming.EventKind, 0, len(p.events))
	for _, event := range p.events {
		kinds = append(kinds, event.Kind)
	}
	return kinds
}

type fixture struct {
	engine        *Engine
	clock         *naming.ManualClock
	ledger        *ledger.Memory
	commitments   *commitment.InMemoryStore
	registrations *registration.InMemoryStore
	resolvers     *resolver.InMemoryStore
	published     *recordingPublisher
	params        naming.Params
}

func newFixture() *fixture {
	f := &fixture{
		clock:         naming.NewManualClock(1),
		ledger:        ledger.NewMemory(),
		commitments:   commitment.NewInMemoryStore(),
		registrations: registration.NewInMemoryStore(),
		resolvers:     resolver.NewInMemoryStore(),
		published:     &recordingPublisher{},
		params:        testParams(),
	}
	f.engine = New(
		f.params,
		f.clock,
		f.ledger,
		f.commitments,
		f.registrations,
		f.resolvers,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		WithEvents(f.published),
	)
	return f
}

func (f *fixture) fund(accounts ...naming.AccountID) {
	for _, account := range accounts {
		f.ledger.Deposit(account, 1_000_000)
	}
}

func (f *fixture) putRegistration(t *testing.T, r naming.Registration) {
	t.Helper()
	require.NoError(t, f.registrations.Put(context.Background(), r))
}

// commitAndReveal drives the full happy path for name on behalf of owner and
// returns the resulting registration.
func (f *fixture) commitAndReveal(t *testing.T, caller, owner naming.AccountID, name []byte, secret uint64, periods naming.BlockNumber) naming.Registration {
	t.Helper()
	ctx := context.Background()
	hash := naming.HashCommitment(name, secret)
	require.NoError(t, f.engine.Commit(ctx, naming.SignedOrigin(caller), owner, hash))
	f.clock.Advance(minAge)
	registered, err := f.engine.Reveal(ctx, naming.SignedOrigin(caller), name, secret, periods)
	require.NoError(t, err)
	return registered
}

func TestCommit(t *testing.T) {
	ctx := context.Background()
	name := []byte("abc")
	hash := naming.HashCommitment(name, 42)

	t.Run("stores the commitment and reserves the deposit", func(t *testing.T) {
		f := newFixture()
		f.fund(alice)

		require.NoError(t, f.engine.Commit(ctx, naming.SignedOrigin(alice), bob, hash))

		stored, err := f.engine.GetCommitment(ctx, hash)
		require.NoError(t, err)
		assert.Equal(t, alice, stored.Depositor)
		assert.Equal(t, bob, stored.Owner)
		assert.Equal(t, commitDeposit, stored.Deposit)
		assert.Equal(t, f.clock.Height(), stored.CreatedAt)
		assert.Equal(t, commitDeposit, f.ledger.ReservedBalance(alice))
		assert.Equal(t, []naming.EventKind{naming.EventCommitted}, f.published.kinds())
	})

	t.Run("rejects a duplicate hash", func(t *testing.T) {
		f := newFixture()
		f.fund(alice, bob)
		require.NoError(t, f.engine.Commit(ctx, naming.SignedOrigin(alice), alice, hash))

		err := f.engine.Commit(ctx, naming.SignedOrigin(bob), bob, hash)
		require.ErrorIs(t, err, naming.ErrAlreadyCommitted)
		assert.Zero(t, f.ledger.ReservedBalance(bob))
	})

	t.Run("requires a signed origin", func(t *testing.T) {
		f := newFixture()
		err := f.engine.Commit(ctx, naming.AdminOrigin(), alice, hash)
		require.ErrorIs(t, err, naming.ErrUnauthenticated)
	})

	t.Run("rejects an underfunded caller", func(t *testing.T) {
		f := newFixture()
		err := f.engine.Commit(ctx, naming.SignedOrigin(alice), alice, hash)
		require.ErrorIs(t, err, naming.ErrInsufficientFunds)
		_, err = f.engine.GetCommitment(ctx, hash)
		require.ErrorIs(t, err, naming.ErrCommitmentNotFound)
	})
}

func TestReveal(t *testing.T) {
	ctx := context.Background()
	name := []byte("abc")
	const secret = uint64(7)
	hash := naming.HashCommitment(name, secret)

	t.Run("registers the name after the minimum age", func(t *testing.T) {
		f := newFixture()
		f.fund(alice)
		require.NoError(t, f.engine.Commit(ctx, naming.SignedOrigin(alice), alice, hash))

		f.clock.Advance(minAge - 1)
		_, err := f.engine.Reveal(ctx, naming.SignedOrigin(alice), name, secret, 1)
		require.ErrorIs(t, err, naming.ErrTooEarlyToReveal)

		f.clock.Advance(1)
		registered, err := f.engine.Reveal(ctx, naming.SignedOrigin(alice), name, secret, 1)
		require.NoError(t, err)

		assert.Equal(t, naming.HashName(name), registered.NameHash)
		assert.Equal(t, alice, registered.Owner)
		assert.Equal(t, alice, registered.Controller)
		require.NotNil(t, registered.Expiry)
		assert.Equal(t, f.clock.Height()+periodBlocks, *registered.Expiry)
		assert.Zero(t, registered.Deposit)

		// Three-letter tier plus one period, deposit refunded in full.
		fee := naming.Balance(300 + 5)
		assert.Equal(t, fee, f.ledger.FreeBalance(treasury))
		assert.Equal(t, naming.Balance(1_000_000)-fee, f.ledger.FreeBalance(alice))
		assert.Zero(t, f.ledger.ReservedBalance(alice))

		_, err = f.engine.GetCommitment(ctx, hash)
		require.ErrorIs(t, err, naming.ErrCommitmentNotFound)
		assert.Equal(t, []naming.EventKind{naming.EventCommitted, naming.EventNameRegistered}, f.published.kinds())
	})

	t.Run("registers for the committed owner even when revealed by the depositor", func(t *testing.T) {
		f := newFixture()
		f.fund(alice)
		registered := f.commitAndReveal(t, alice, bob, name, secret, 1)
		assert.Equal(t, bob, registered.Owner)
		// The deposit goes back to the depositor, not the owner.
		assert.Zero(t, f.ledger.ReservedBalance(alice))
		assert.Zero(t, f.ledger.FreeBalance(bob))
	})

	t.Run("charges the longer-name tier", func(t *testing.T) {
		f := newFixture()
		f.fund(alice)
		long := []byte("abcdef")
		f.commitAndReveal(t, alice, alice, long, secret, 3)
		assert.Equal(t, naming.Balance(100+3*5), f.ledger.FreeBalance(treasury))
	})

	t.Run("rejects an unknown name and secret pair", func(t *testing.T) {
		f := newFixture()
		f.fund(alice)
		require.NoError(t, f.engine.Commit(ctx, naming.SignedOrigin(alice), alice, hash))
		f.clock.Advance(minAge)

		_, err := f.engine.Reveal(ctx, naming.SignedOrigin(alice), name, secret+1, 1)
		require.ErrorIs(t, err, naming.ErrCommitmentNotFound)
	})

	t.Run("rejects a short label", func(t *testing.T) {
		f := newFixture()
		f.fund(alice)
		short := []byte("ab")
		shortHash := naming.HashCommitment(short, secret)
		require.NoError(t, f.engine.Commit(ctx, naming.SignedOrigin(alice), alice, shortHash))
		f.clock.Advance(minAge)

		_, err := f.engine.Reveal(ctx, naming.SignedOrigin(alice), short, secret, 1)
		require.ErrorIs(t, err, naming.ErrLabelTooShort)
	})

	t.Run("rejects a name that is already registered", func(t *testing.T) {
		f := newFixture()
		f.fund(alice, bob)
		f.commitAndReveal(t, alice, alice, name, secret, 1)

		otherHash := naming.HashCommitment(name, secret+1)
		require.NoError(t, f.engine.Commit(ctx, naming.SignedOrigin(bob), bob, otherHash))
		f.clock.Advance(minAge)

		_, err := f.engine.Reveal(ctx, naming.SignedOrigin(bob), name, secret+1, 1)
		require.ErrorIs(t, err, naming.ErrRegistrationExists)
		// The losing commitment stays in place for later removal.
		_, err = f.engine.GetCommitment(ctx, otherHash)
		require.NoError(t, err)
	})

	t.Run("aborts before any mutation when the caller cannot pay the fee", func(t *testing.T) {
		f := newFixture()
		f.ledger.Deposit(alice, commitDeposit)
		require.NoError(t, f.engine.Commit(ctx, naming.SignedOrigin(alice), alice, hash))
		f.clock.Advance(minAge)

		_, err := f.engine.Reveal(ctx, naming.SignedOrigin(alice), name, secret, 1)
		require.ErrorIs(t, err, naming.ErrInsufficientFunds)

		_, err = f.engine.GetCommitment(ctx, hash)
		require.NoError(t, err)
		_, err = f.engine.GetRegistration(ctx, naming.HashName(name))
		require.ErrorIs(t, err, naming.ErrRegistrationNotFound)
		assert.Equal(t, commitDeposit, f.ledger.ReservedBalance(alice))
	})

	t.Run("a stale commitment stays revealable", func(t *testing.T) {
		f := newFixture()
		f.fund(alice)
		require.NoError(t, f.engine.Commit(ctx, naming.SignedOrigin(alice), alice, hash))
		f.clock.Advance(maxAge + 50)

		_, err := f.engine.Reveal(ctx, naming.SignedOrigin(alice), name, secret, 1)
		require.NoError(t, err)
	})
}

func TestRemoveCommitment(t *testing.T) {
	ctx := context.Background()
	name := []byte("abc")
	hash := naming.HashCommitment(name, 42)

	t.Run("rejects removal at or below the maximum age", func(t *testing.T) {
		f := newFixture()
		f.fund(alice)
		require.NoError(t, f.engine.Commit(ctx, naming.SignedOrigin(alice), alice, hash))
		f.clock.Advance(maxAge)

		err := f.engine.RemoveCommitment(ctx, naming.SignedOrigin(alice), hash)
		require.ErrorIs(t, err, naming.ErrCommitmentNotExpired)
	})

	t.Run("anyone may remove a stale commitment and the depositor is refunded", func(t *testing.T) {
		f := newFixture()
		f.fund(alice)
		require.NoError(t, f.engine.Commit(ctx, naming.SignedOrigin(alice), alice, hash))
		f.clock.Advance(maxAge + 1)

		require.NoError(t, f.engine.RemoveCommitment(ctx, naming.SignedOrigin(bob), hash))

		_, err := f.engine.GetCommitment(ctx, hash)
		require.ErrorIs(t, err, naming.ErrCommitmentNotFound)
		assert.Zero(t, f.ledger.ReservedBalance(alice))
		assert.Equal(t, naming.Balance(1_000_000), f.ledger.FreeBalance(alice))
	})

	t.Run("an administrator may remove without a signed account", func(t *testing.T) {
		f := newFixture()
		f.fund(alice)
		require.NoError(t, f.engine.Commit(ctx, naming.SignedOrigin(alice), alice, hash))
		f.clock.Advance(maxAge + 1)

		require.NoError(t, f.engine.RemoveCommitment(ctx, naming.AdminOrigin(), hash))
	})

	t.Run("rejects an unknown hash", func(t *testing.T) {
		f := newFixture()
		err := f.engine.RemoveCommitment(ctx, naming.SignedOrigin(alice), hash)
		require.ErrorIs(t, err, naming.ErrCommitmentNotFound)
	})

	t.Run("requires some origin", func(t *testing.T) {
		f := newFixture()
		err := f.engine.RemoveCommitment(ctx, naming.Origin{}, hash)
		require.ErrorIs(t, err, naming.ErrUnauthenticated)
	})
}
