package service

import (
	"context"
	"testing"

	"pgregory.net/rapid"

	"namegate/internal/naming"
)

// TestDepositConservation drives the engine with random operation sequences
// and checks after every call that the ledger's total reserved balance equals
// the sum of deposits held by live commitments and registrations. Failed
// operations must not move reservations at all.
func TestDepositConservation(t *testing.T) {
	accounts := []naming.AccountID{alice, bob, carol}
	names := [][]byte{[]byte("abc"), []byte("wxyz"), []byte("longname")}
	labels := [][]byte{[]byte("www"), []byte("api")}

	rapid.Check(t, func(t *rapid.T) {
		f := newFixture()
		ctx := context.Background()
		for _, account := range accounts {
			f.ledger.Deposit(account, 1_000_000)
		}

		account := rapid.SampledFrom(accounts)
		name := rapid.SampledFrom(names)
		label := rapid.SampledFrom(labels)
		secret := rapid.Uint64Range(0, 3)
		periods := rapid.Custom(func(t *rapid.T) naming.BlockNumber {
			return naming.BlockNumber(rapid.Uint64Range(1, 3).Draw(t, "periods"))
		})

		steps := rapid.IntRange(1, 60).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 9).Draw(t, "op") {
			case 0:
				hash := naming.HashCommitment(name.Draw(t, "name"), secret.Draw(t, "secret"))
				_ = f.engine.Commit(ctx, naming.SignedOrigin(account.Draw(t, "caller")), account.Draw(t, "owner"), hash)
			case 1:
				_, _ = f.engine.Reveal(ctx, naming.SignedOrigin(account.Draw(t, "caller")), name.Draw(t, "name"), secret.Draw(t, "secret"), periods.Draw(t, "periods"))
			case 2:
				hash := naming.HashCommitment(name.Draw(t, "name"), secret.Draw(t, "secret"))
				_ = f.engine.RemoveCommitment(ctx, naming.SignedOrigin(account.Draw(t, "caller")), hash)
			case 3:
				_ = f.engine.Transfer(ctx, naming.SignedOrigin(account.Draw(t, "caller")), account.Draw(t, "to"), naming.HashName(name.Draw(t, "name")))
			case 4:
				_, _ = f.engine.Renew(ctx, naming.SignedOrigin(account.Draw(t, "caller")), naming.HashName(name.Draw(t, "name")), periods.Draw(t, "periods"))
			case 5:
				_ = f.engine.Deregister(ctx, naming.SignedOrigin(account.Draw(t, "caller")), naming.HashName(name.Draw(t, "name")))
			case 6:
				_, _ = f.engine.SetSubnodeRecord(ctx, naming.SignedOrigin(account.Draw(t, "caller")), naming.HashName(name.Draw(t, "name")), label.Draw(t, "label"))
			case 7:
				_ = f.engine.SetSubnodeOwner(ctx, naming.SignedOrigin(account.Draw(t, "caller")), naming.HashName(name.Draw(t, "name")), naming.HashName(label.Draw(t, "label")), account.Draw(t, "to"))
			case 8:
				_ = f.engine.DeregisterSubnode(ctx, naming.SignedOrigin(account.Draw(t, "caller")), naming.HashName(name.Draw(t, "name")), naming.HashName(label.Draw(t, "label")))
			case 9:
				f.clock.Advance(naming.BlockNumber(rapid.Uint64Range(1, 200).Draw(t, "blocks")))
			}

			if got, want := f.ledger.TotalReserved(), liveDeposits(t, f); got != want {
				t.Fatalf("reserved %d does not match live deposits %d after step %d", got, want, i)
			}
		}
	})
}

func liveDeposits(t *rapid.T, f *fixture) naming.Balance {
	ctx := context.Background()
	total := naming.Balance(0)
	commitments, err := f.commitments.List(ctx)
	if err != nil {
		t.Fatalf("list commitments: %v", err)
	}
	for _, c := range commitments {
		total += c.Deposit
	}
	registrations, err := f.registrations.List(ctx)
	if err != nil {
		t.Fatalf("list registrations: %v", err)
	}
	for _, r := range registrations {
		total += r.Deposit
	}
	return total
}
