package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namegate/internal/naming"
)

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	name := []byte("abc")
	nameHash := naming.HashName(name)

	t.Run("owner hands the registration to a new owner", func(t *testing.T) {
		f := newFixture()
		f.fund(alice)
		f.commitAndReveal(t, alice, alice, name, 1, 1)

		require.NoError(t, f.engine.Transfer(ctx, naming.SignedOrigin(alice), bob, nameHash))

		registered, err := f.engine.GetRegistration(ctx, nameHash)
		require.NoError(t, err)
		assert.Equal(t, bob, registered.Owner)
		// Controller delegation is untouched by a transfer.
		assert.Equal(t, alice, registered.Controller)
		assert.Contains(t, f.published.kinds(), naming.EventNewOwner)
	})

	t.Run("only the owner may transfer", func(t *testing.T) {
		f := newFixture()
		f.fund(alice)
		f.commitAndReveal(t, alice, alice, name, 1, 1)
		// Controller status does not grant transfer rights.
		require.NoError(t, f.engine.SetController(ctx, naming.SignedOrigin(alice), nameHash, bob))

		err := f.engine.Transfer(ctx, naming.SignedOrigin(bob), bob, nameHash)
		require.ErrorIs(t, err, naming.ErrNotRegistrationOwner)
	})

	t.Run("the deposit reservation moves with ownership", func(t *testing.T) {
		f := newFixture()
		f.fund(alice, bob)
		expiry := naming.BlockNumber(500)
		f.putRegistration(t, naming.Registration{
			NameHash:   nameHash,
			Owner:      alice,
			Controller: alice,
			Expiry:     &expiry,
			Deposit:    700,
		})
		require.NoError(t, f.ledger.Reserve(ctx, alice, 700))

		require.NoError(t, f.engine.Transfer(ctx, naming.SignedOrigin(alice), bob, nameHash))

		assert.Zero(t, f.ledger.ReservedBalance(alice))
		assert.Equal(t, naming.Balance(700), f.ledger.ReservedBalance(bob))
	})

	t.Run("rejects an unknown name", func(t *testing.T) {
		f := newFixture()
		err := f.engine.Transfer(ctx, naming.SignedOrigin(alice), bob, nameHash)
		require.ErrorIs(t, err, naming.ErrRegistrationNotFound)
	})
}

func TestSetController(t *testing.T) {
	ctx := context.Background()
	name := []byte("abc")
	nameHash := naming.HashName(name)

	t.Run("owner delegates to a controller who can re-delegate", func(t *testing.T) {
		f := newFixture()
		f.fund(alice)
		f.commitAndReveal(t, alice, alice, name, 1, 1)

		require.NoError(t, f.engine.SetController(ctx, naming.SignedOrigin(alice), nameHash, bob))
		require.NoError(t, f.engine.SetController(ctx, naming.SignedOrigin(bob), nameHash, carol))

		registered, err := f.engine.GetRegistration(ctx, nameHash)
		require.NoError(t, err)
		assert.Equal(t, carol, registered.Controller)
		assert.Equal(t, alice, registered.Owner)
	})

	t.Run("owner keeps control after delegating", func(t *testing.T) {
		f := newFixture()
		f.fund(alice)
		f.commitAndReveal(t, alice, alice, name, 1, 1)
		require.NoError(t, f.engine.SetController(ctx, naming.SignedOrigin(alice), nameHash, bob))

		require.NoError(t, f.engine.SetController(ctx, naming.SignedOrigin(alice), nameHash, alice))
	})

	t.Run("a stranger may not take control", func(t *testing.T) {
		f := newFixture()
		f.fund(alice)
		f.commitAndReveal(t, alice, alice, name, 1, 1)

		err := f.engine.SetController(ctx, naming.SignedOrigin(carol), nameHash, carol)
		require.ErrorIs(t, err, naming.ErrNotRegistrationOwner)
	})
}

func TestRenew(t *testing.T) {
	ctx := context.Background()
	name := []byte("abc")
	nameHash := naming.HashName(name)

	t.Run("extends from the current expiry, not from now", func(t *testing.T) {
		f := newFixture()
		f.fund(alice, bob)
		registered := f.commitAndReveal(t, alice, alice, name, 1, 1)
		original := *registered.Expiry

		// Renewal is permissionless: bob pays to keep alice's name alive.
		extended, err := f.engine.Renew(ctx, naming.SignedOrigin(bob), nameHash, 2)
		require.NoError(t, err)
		assert.Equal(t, original+2*periodBlocks, extended)
		// Registration fee from the reveal plus two renewal periods.
		assert.Equal(t, naming.Balance(300+5+2*5), f.ledger.FreeBalance(treasury))

		stored, err := f.engine.GetRegistration(ctx, nameHash)
		require.NoError(t, err)
		assert.Equal(t, extended, *stored.Expiry)
		assert.Contains(t, f.published.kinds(), naming.EventNameRenewed)
	})

	t.Run("a lapsed registration cannot be renewed", func(t *testing.T) {
		f := newFixture()
		f.fund(alice)
		registered := f.commitAndReveal(t, alice, alice, name, 1, 1)
		f.clock.Set(*registered.Expiry)

		_, err := f.engine.Renew(ctx, naming.SignedOrigin(alice), nameHash, 1)
		require.ErrorIs(t, err, naming.ErrRegistrationExpired)
	})

	t.Run("a permanent registration has nothing to renew", func(t *testing.T) {
		f := newFixture()
		f.fund(alice)
		f.putRegistration(t, naming.Registration{NameHash: nameHash, Owner: alice, Controller: alice})

		_, err := f.engine.Renew(ctx, naming.SignedOrigin(alice), nameHash, 1)
		require.ErrorIs(t, err, naming.ErrRegistrationHasNoExpiry)
	})
}

func TestDeregister(t *testing.T) {
	ctx := context.Background()
	name := []byte("abc")
	nameHash := naming.HashName(name)

	t.Run("owner removes a live registration and its record", func(t *testing.T) {
		f := newFixture()
		f.fund(alice)
		f.commitAndReveal(t, alice, alice, name, 1, 1)
		require.NoError(t, f.engine.SetRecord(ctx, naming.SignedOrigin(alice), nameHash, bob))

		require.NoError(t, f.engine.Deregister(ctx, naming.SignedOrigin(alice), nameHash))

		_, err := f.engine.GetRegistration(ctx, nameHash)
		require.ErrorIs(t, err, naming.ErrRegistrationNotFound)
		_, err = f.engine.Resolve(ctx, nameHash)
		require.ErrorIs(t, err, naming.ErrRegistrationRegistrantNotFound)
		assert.Contains(t, f.published.kinds(), naming.EventAddressDeregistered)
	})

	t.Run("a stranger may not remove a live registration", func(t *testing.T) {
		f := newFixture()
		f.fund(alice)
		f.commitAndReveal(t, alice, alice, name, 1, 1)

		err := f.engine.Deregister(ctx, naming.SignedOrigin(bob), nameHash)
		require.ErrorIs(t, err, naming.ErrNotRegistrationOwner)
	})

	t.Run("anyone may clean up an expired registration", func(t *testing.T) {
		f := newFixture()
		f.fund(alice)
		registered := f.commitAndReveal(t, alice, alice, name, 1, 1)
		f.clock.Set(*registered.Expiry)

		require.NoError(t, f.engine.Deregister(ctx, naming.SignedOrigin(bob), nameHash))
	})

	t.Run("refunds the deposit to the owner", func(t *testing.T) {
		f := newFixture()
		f.fund(alice)
		f.putRegistration(t, naming.Registration{NameHash: nameHash, Owner: alice, Controller: alice, Deposit: 700})
		require.NoError(t, f.ledger.Reserve(ctx, alice, 700))

		require.NoError(t, f.engine.Deregister(ctx, naming.SignedOrigin(alice), nameHash))
		assert.Zero(t, f.ledger.ReservedBalance(alice))
	})
}

func TestForceRegister(t *testing.T) {
	ctx := context.Background()
	name := []byte("abc")
	nameHash := naming.HashName(name)

	t.Run("requires a privileged origin", func(t *testing.T) {
		f := newFixture()
		err := f.engine.ForceRegister(ctx, naming.SignedOrigin(alice), nameHash, alice, nil)
		require.ErrorIs(t, err, naming.ErrNotAdmin)
	})

	t.Run("installs a permanent registration", func(t *testing.T) {
		f := newFixture()
		require.NoError(t, f.engine.ForceRegister(ctx, naming.AdminOrigin(), nameHash, alice, nil))

		registered, err := f.engine.GetRegistration(ctx, nameHash)
		require.NoError(t, err)
		assert.Equal(t, alice, registered.Owner)
		assert.Equal(t, alice, registered.Controller)
		assert.Nil(t, registered.Expiry)
	})

	t.Run("overwrites an existing registration and refunds its deposit", func(t *testing.T) {
		f := newFixture()
		f.fund(alice)
		f.putRegistration(t, naming.Registration{NameHash: nameHash, Owner: alice, Controller: alice, Deposit: 700})
		require.NoError(t, f.ledger.Reserve(ctx, alice, 700))
		require.NoError(t, f.resolvers.Set(ctx, nameHash, alice))

		expiry := naming.BlockNumber(900)
		require.NoError(t, f.engine.ForceRegister(ctx, naming.AdminOrigin(), nameHash, bob, &expiry))

		registered, err := f.engine.GetRegistration(ctx, nameHash)
		require.NoError(t, err)
		assert.Equal(t, bob, registered.Owner)
		require.NotNil(t, registered.Expiry)
		assert.Equal(t, expiry, *registered.Expiry)
		assert.Zero(t, f.ledger.ReservedBalance(alice))
		// The previous owner's resolver record does not survive the takeover.
		_, err = f.engine.Resolve(ctx, nameHash)
		require.ErrorIs(t, err, naming.ErrRegistrationRegistrantNotFound)
	})
}

func TestForceDeregister(t *testing.T) {
	ctx := context.Background()
	nameHash := naming.HashName([]byte("abc"))

	t.Run("requires a privileged origin", func(t *testing.T) {
		f := newFixture()
		err := f.engine.ForceDeregister(ctx, naming.SignedOrigin(alice), nameHash)
		require.ErrorIs(t, err, naming.ErrNotAdmin)
	})

	t.Run("removes a live registration regardless of expiry", func(t *testing.T) {
		f := newFixture()
		f.fund(alice)
		f.commitAndReveal(t, alice, alice, []byte("abc"), 1, 1)

		require.NoError(t, f.engine.ForceDeregister(ctx, naming.AdminOrigin(), nameHash))
		_, err := f.engine.GetRegistration(ctx, nameHash)
		require.ErrorIs(t, err, naming.ErrRegistrationNotFound)
	})

	t.Run("rejects an unknown name", func(t *testing.T) {
		f := newFixture()
		err := f.engine.ForceDeregister(ctx, naming.AdminOrigin(), nameHash)
		require.ErrorIs(t, err, naming.ErrRegistrationNotFound)
	})
}
