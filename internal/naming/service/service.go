// Package service implements the registration engine: the commit-reveal
// protocol, the name lifecycle, resolver records, and subnode management.
//
// The engine is the sole mutator of the three stores. Operations run
// call-at-a-time behind a single mutex; each call either fully applies or
// leaves stores and ledger untouched, with explicit compensation when a late
// step fails after an earlier reservation.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"namegate/internal/naming"
	"namegate/internal/naming/metrics"
	domerrors "namegate/pkg/domain-errors"
	"namegate/pkg/platform/sentinel"
)

// CommitmentStore is the keyed store of pending commitments.
type CommitmentStore interface {
	Get(ctx context.Context, hash naming.CommitmentHash) (naming.Commitment, error)
	Put(ctx context.Context, c naming.Commitment) error
	Delete(ctx context.Context, hash naming.CommitmentHash) error
}

// RegistrationStore is the keyed store of active and expired registrations.
type RegistrationStore interface {
	Get(ctx context.Context, hash naming.NameHash) (naming.Registration, error)
	Put(ctx context.Context, r naming.Registration) error
	Delete(ctx context.Context, hash naming.NameHash) error
}

// ResolverStore maps a name hash to the account it resolves to.
type ResolverStore interface {
	Get(ctx context.Context, hash naming.NameHash) (naming.AccountID, error)
	Set(ctx context.Context, hash naming.NameHash, address naming.AccountID) error
	Delete(ctx context.Context, hash naming.NameHash) error
}

// Engine orchestrates the name registration state machine.
type Engine struct {
	mu sync.Mutex

	params        naming.Params
	clock         naming.Clock
	ledger        naming.Ledger
	commitments   CommitmentStore
	registrations RegistrationStore
	resolvers     ResolverStore
	events        naming.Publisher
	metrics       *metrics.Metrics
	logger        *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithEvents wires an event publisher. Without it events are discarded.
func WithEvents(publisher naming.Publisher) Option {
	return func(e *Engine) {
		if publisher != nil {
			e.events = publisher
		}
	}
}

// WithMetrics wires domain metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// New creates the engine with its collaborators.
func New(
	params naming.Params,
	clock naming.Clock,
	ledger naming.Ledger,
	commitments CommitmentStore,
	registrations RegistrationStore,
	resolvers ResolverStore,
	logger *slog.Logger,
	opts ...Option,
) *Engine {
	e := &Engine{
		params:        params,
		clock:         clock,
		ledger:        ledger,
		commitments:   commitments,
		registrations: registrations,
		resolvers:     resolvers,
		events:        naming.NopPublisher{},
		logger:        logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Commit stores a commitment to a future name registration on behalf of
// owner, reserving the commitment deposit from the caller.
func (e *Engine) Commit(ctx context.Context, origin naming.Origin, owner naming.AccountID, hash naming.CommitmentHash) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.observe("commit", time.Now())

	caller, err := signedAccount(origin)
	if err != nil {
		return err
	}
	if _, err := e.commitments.Get(ctx, hash); err == nil {
		return naming.ErrAlreadyCommitted
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return domerrors.Wrap(err, domerrors.CodeInternal, "load commitment")
	}

	deposit := e.params.CommitmentDeposit
	if err := e.ledger.Reserve(ctx, caller, deposit); err != nil {
		return err
	}
	commitment := naming.Commitment{
		Hash:      hash,
		Depositor: caller,
		Owner:     owner,
		Deposit:   deposit,
		CreatedAt: e.clock.Height(),
	}
	if err := e.commitments.Put(ctx, commitment); err != nil {
		e.compensate(ctx, "commit", e.ledger.Unreserve(ctx, caller, deposit))
		return domerrors.Wrap(err, domerrors.CodeInternal, "store commitment")
	}

	e.metrics.IncCommitmentsCreated()
	e.publish(ctx, naming.Event{
		Kind:           naming.EventCommitted,
		CommitmentHash: &hash,
		Depositor:      caller,
		Owner:          owner,
	})
	e.logger.InfoContext(ctx, "commitment stored",
		"hash", hash,
		"depositor", caller,
		"owner", owner,
	)
	return nil
}

// Reveal completes a commitment: it validates the (name, secret) pair against
// the stored hash, charges the registration fee from the caller, creates the
// registration for the committed owner, and refunds the commitment deposit.
//
// A commitment past MaxCommitmentAge stays revealable until someone removes
// it with RemoveCommitment; staleness only opens the permissionless cleanup
// path, it does not close the reveal path.
func (e *Engine) Reveal(ctx context.Context, origin naming.Origin, name []byte, secret uint64, periods naming.BlockNumber) (naming.Registration, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.observe("reveal", time.Now())

	caller, err := signedAccount(origin)
	if err != nil {
		return naming.Registration{}, err
	}

	hash := naming.HashCommitment(name, secret)
	commitment, err := e.commitments.Get(ctx, hash)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return naming.Registration{}, naming.ErrCommitmentNotFound
		}
		return naming.Registration{}, domerrors.Wrap(err, domerrors.CodeInternal, "load commitment")
	}

	now := e.clock.Height()
	if now-commitment.CreatedAt < e.params.MinCommitmentAge {
		return naming.Registration{}, naming.ErrTooEarlyToReveal
	}
	if len(name) < naming.MinNameLength {
		return naming.Registration{}, naming.ErrLabelTooShort
	}

	nameHash := naming.HashName(name)
	if _, err := e.registrations.Get(ctx, nameHash); err == nil {
		return naming.Registration{}, naming.ErrRegistrationExists
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return naming.Registration{}, domerrors.Wrap(err, domerrors.CodeInternal, "load registration")
	}

	fee, err := e.params.Fees.RegistrationFee(len(name), periods)
	if err != nil {
		return naming.Registration{}, err
	}
	expiry, err := e.params.ExpiryAfter(now, periods)
	if err != nil {
		return naming.Registration{}, err
	}

	// The fee is charged first so an underfunded caller aborts the call
	// before any store mutation.
	if err := e.ledger.Pay(ctx, caller, e.params.FeeBeneficiary, fee); err != nil {
		return naming.Registration{}, err
	}

	registration := naming.Registration{
		NameHash:   nameHash,
		Owner:      commitment.Owner,
		Controller: commitment.Owner,
		Expiry:     &expiry,
	}
	if err := e.registrations.Put(ctx, registration); err != nil {
		e.compensate(ctx, "reveal", e.ledger.Pay(ctx, e.params.FeeBeneficiary, caller, fee))
		return naming.Registration{}, domerrors.Wrap(err, domerrors.CodeInternal, "store registration")
	}
	if err := e.commitments.Delete(ctx, hash); err != nil {
		e.compensate(ctx, "reveal", e.registrations.Delete(ctx, nameHash))
		e.compensate(ctx, "reveal", e.ledger.Pay(ctx, e.params.FeeBeneficiary, caller, fee))
		return naming.Registration{}, domerrors.Wrap(err, domerrors.CodeInternal, "consume commitment")
	}
	e.refund(ctx, commitment.Depositor, commitment.Deposit)

	e.metrics.IncNamesRegistered()
	e.publish(ctx, naming.Event{
		Kind:     naming.EventNameRegistered,
		NameHash: &nameHash,
		Owner:    commitment.Owner,
		Expiry:   &expiry,
	})
	e.logger.InfoContext(ctx, "name registered",
		"name_hash", nameHash,
		"owner", commitment.Owner,
		"expiry", expiry,
		"fee", fee,
	)
	return registration, nil
}

// RemoveCommitment deletes a commitment past its maximum age and refunds the
// depositor. Callable by any signed account or an administrator:
// permissionless garbage collection.
func (e *Engine) RemoveCommitment(ctx context.Context, origin naming.Origin, hash naming.CommitmentHash) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.observe("remove_commitment", time.Now())

	if err := signedOrAdmin(origin); err != nil {
		return err
	}
	commitment, err := e.commitments.Get(ctx, hash)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return naming.ErrCommitmentNotFound
		}
		return domerrors.Wrap(err, domerrors.CodeInternal, "load commitment")
	}
	if e.clock.Height()-commitment.CreatedAt <= e.params.MaxCommitmentAge {
		return naming.ErrCommitmentNotExpired
	}
	if err := e.commitments.Delete(ctx, hash); err != nil {
		return domerrors.Wrap(err, domerrors.CodeInternal, "delete commitment")
	}
	e.refund(ctx, commitment.Depositor, commitment.Deposit)

	e.metrics.IncCommitmentsRemoved()
	e.logger.InfoContext(ctx, "stale commitment removed",
		"hash", hash,
		"depositor", commitment.Depositor,
	)
	return nil
}

// GetCommitment returns the pending commitment for a hash.
func (e *Engine) GetCommitment(ctx context.Context, hash naming.CommitmentHash) (naming.Commitment, error) {
	commitment, err := e.commitments.Get(ctx, hash)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return naming.Commitment{}, naming.ErrCommitmentNotFound
		}
		return naming.Commitment{}, domerrors.Wrap(err, domerrors.CodeInternal, "load commitment")
	}
	return commitment, nil
}

// GetRegistration returns the stored registration for a name hash, expired or
// not.
func (e *Engine) GetRegistration(ctx context.Context, hash naming.NameHash) (naming.Registration, error) {
	registration, err := e.registrations.Get(ctx, hash)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return naming.Registration{}, naming.ErrRegistrationNotFound
		}
		return naming.Registration{}, domerrors.Wrap(err, domerrors.CodeInternal, "load registration")
	}
	return registration, nil
}

func signedAccount(origin naming.Origin) (naming.AccountID, error) {
	if origin.Account == "" {
		return "", naming.ErrUnauthenticated
	}
	return origin.Account, nil
}

func signedOrAdmin(origin naming.Origin) error {
	if origin.Account == "" && !origin.Admin {
		return naming.ErrUnauthenticated
	}
	return nil
}

func adminOnly(origin naming.Origin) error {
	if !origin.Admin {
		return naming.ErrNotAdmin
	}
	return nil
}

func (e *Engine) publish(ctx context.Context, event naming.Event) {
	if err := e.events.Publish(ctx, event); err != nil {
		e.logger.WarnContext(ctx, "failed to publish event",
			"kind", event.Kind,
			"error", err,
		)
	}
}

// refund releases a reserved deposit back to its holder. A failure here means
// the reservation outlived its entity; there is nothing left to do but make
// the imbalance visible.
func (e *Engine) refund(ctx context.Context, account naming.AccountID, deposit naming.Balance) {
	if deposit == 0 {
		return
	}
	if err := e.ledger.Unreserve(ctx, account, deposit); err != nil {
		e.logger.ErrorContext(ctx, "failed to refund deposit",
			"account", account,
			"deposit", deposit,
			"error", err,
		)
	}
}

// compensate logs a failed rollback step. Rollbacks run after a later step
// already failed, so there is nothing left to do but make the inconsistency
// visible.
func (e *Engine) compensate(ctx context.Context, operation string, err error) {
	if err != nil {
		e.logger.ErrorContext(ctx, "compensation step failed",
			"operation", operation,
			"error", err,
		)
	}
}

func (e *Engine) observe(operation string, start time.Time) {
	e.metrics.ObserveOperation(operation, time.Since(start).Seconds())
}
