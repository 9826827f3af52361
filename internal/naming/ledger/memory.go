// Package ledger provides balance backends for the engine's Ledger
// collaborator. Production deployments plug in the platform ledger; the
// in-memory implementation backs tests and single-node development.
package ledger

import (
	"context"
	"fmt"
	"sync"

	"namegate/internal/naming"
)

type account struct {
	free     naming.Balance
	reserved naming.Balance
}

// Memory is an in-memory ledger. It favors clarity over performance, the way
// the in-memory stores do.
type Memory struct {
	mu       sync.Mutex
	faucet   naming.Balance
	accounts map[naming.AccountID]*account
}

// Option configures a Memory ledger.
type Option func(*Memory)

// WithFaucet credits every account its first time it is touched. Development
// convenience only; a production deployment plugs in the platform ledger.
func WithFaucet(amount naming.Balance) Option {
	return func(l *Memory) { l.faucet = amount }
}

// NewMemory creates an empty in-memory ledger.
func NewMemory(opts ...Option) *Memory {
	l := &Memory{accounts: make(map[naming.AccountID]*account)}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Deposit credits free balance. It exists for seeding tests and development
// environments; the engine itself never mints.
func (l *Memory) Deposit(account naming.AccountID, amount naming.Balance) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.get(account).free += amount
}

// Reserve locks amount of the account's free balance.
func (l *Memory) Reserve(_ context.Context, id naming.AccountID, amount naming.Balance) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	acct := l.get(id)
	if acct.free < amount {
		return fmt.Errorf("reserve %d from %s: %w", amount, id, naming.ErrInsufficientFunds)
	}
	acct.free -= amount
	acct.reserved += amount
	return nil
}

// Unreserve releases a previously reserved amount back to free balance. An
// amount exceeding the reservation indicates a caller bug and is rejected
// outright so deposit accounting stays balanced.
func (l *Memory) Unreserve(_ context.Context, id naming.AccountID, amount naming.Balance) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	acct := l.get(id)
	if acct.reserved < amount {
		return fmt.Errorf("unreserve %d from %s exceeds reserved %d", amount, id, acct.reserved)
	}
	acct.reserved -= amount
	acct.free += amount
	return nil
}

// Pay transfers amount of free balance from the account to the beneficiary.
func (l *Memory) Pay(_ context.Context, id naming.AccountID, beneficiary naming.AccountID, amount naming.Balance) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	from := l.get(id)
	if from.free < amount {
		return fmt.Errorf("pay %d from %s: %w", amount, id, naming.ErrInsufficientFunds)
	}
	from.free -= amount
	l.get(beneficiary).free += amount
	return nil
}

// FreeBalance returns the account's spendable balance.
func (l *Memory) FreeBalance(id naming.AccountID) naming.Balance {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.get(id).free
}

// ReservedBalance returns the account's locked balance.
func (l *Memory) ReservedBalance(id naming.AccountID) naming.Balance {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.get(id).reserved
}

// TotalReserved sums reserved balance across all accounts.
func (l *Memory) TotalReserved() naming.Balance {
	l.mu.Lock()
	defer l.mu.Unlock()
	var total naming.Balance
	for _, acct := range l.accounts {
		total += acct.reserved
	}
	return total
}

func (l *Memory) get(id naming.AccountID) *account {
	acct, ok := l.accounts[id]
	if !ok {
		acct = &account{free: l.faucet}
		l.accounts[id] = acct
	}
	return acct
}
