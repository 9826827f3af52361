package naming

import "context"

// Ledger is the account-balance collaborator. The engine never holds funds
// itself: deposits are reserved against the depositor's balance and released
// back, fees are transferred to the beneficiary outright. Implementations
// must return ErrInsufficientFunds (possibly wrapped) when the free balance
// cannot cover the requested amount.
type Ledger interface {
	// Reserve locks amount of account's free balance.
	Reserve(ctx context.Context, account AccountID, amount Balance) error
	// Unreserve releases a previously reserved amount back to free balance.
	Unreserve(ctx context.Context, account AccountID, amount Balance) error
	// Pay transfers amount of account's free balance to beneficiary. The
	// transfer is non-refundable.
	Pay(ctx context.Context, account AccountID, beneficiary AccountID, amount Balance) error
}
