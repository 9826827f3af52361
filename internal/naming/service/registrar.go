package service

import (
	"context"
	"errors"
	"time"

	"namegate/internal/naming"
	domerrors "namegate/pkg/domain-errors"
	"namegate/pkg/platform/sentinel"
)

// Transfer hands a registration to a new owner. The deposit backing the
// registration moves with ownership: the old owner's reservation is released
// and the same amount is reserved from the new owner, so the deregistration
// refund always goes to whoever owns the name at that point.
func (e *Engine) Transfer(ctx context.Context, origin naming.Origin, newOwner naming.AccountID, nameHash naming.NameHash) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.observe("transfer", time.Now())

	caller, err := signedAccount(origin)
	if err != nil {
		return err
	}
	registration, err := e.loadRegistration(ctx, nameHash)
	if err != nil {
		return err
	}
	if !registration.IsOwner(caller) {
		return naming.ErrNotRegistrationOwner
	}

	if registration.Deposit > 0 && newOwner != registration.Owner {
		if err := e.ledger.Reserve(ctx, newOwner, registration.Deposit); err != nil {
			return err
		}
		e.refund(ctx, registration.Owner, registration.Deposit)
	}

	previous := registration.Owner
	registration.Owner = newOwner
	if err := e.registrations.Put(ctx, registration); err != nil {
		if registration.Deposit > 0 && newOwner != previous {
			e.compensate(ctx, "transfer", e.ledger.Unreserve(ctx, newOwner, registration.Deposit))
			e.compensate(ctx, "transfer", e.ledger.Reserve(ctx, previous, registration.Deposit))
		}
		return domerrors.Wrap(err, domerrors.CodeInternal, "store registration")
	}

	e.metrics.IncNamesTransferred()
	e.publish(ctx, naming.Event{
		Kind:     naming.EventNewOwner,
		NameHash: &nameHash,
		From:     previous,
		To:       newOwner,
	})
	e.logger.InfoContext(ctx, "registration transferred",
		"name_hash", nameHash,
		"from", previous,
		"to", newOwner,
	)
	return nil
}

// SetController delegates record management to another account. Callable by
// the current controller or the owner.
func (e *Engine) SetController(ctx context.Context, origin naming.Origin, nameHash naming.NameHash, to naming.AccountID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.observe("set_controller", time.Now())

	caller, err := signedAccount(origin)
	if err != nil {
		return err
	}
	registration, err := e.loadRegistration(ctx, nameHash)
	if err != nil {
		return err
	}
	if !registration.IsController(caller) {
		return naming.ErrNotRegistrationOwner
	}

	registration.Controller = to
	if err := e.registrations.Put(ctx, registration); err != nil {
		return domerrors.Wrap(err, domerrors.CodeInternal, "store registration")
	}

	e.publish(ctx, naming.Event{
		Kind:     naming.EventNewOwner,
		NameHash: &nameHash,
		From:     caller,
		To:       to,
	})
	e.logger.InfoContext(ctx, "controller updated",
		"name_hash", nameHash,
		"controller", to,
	)
	return nil
}

// Renew extends a registration's expiry by the given number of periods,
// charging the per-period fee from the caller. Anyone may pay to keep a name
// alive, but a lapsed registration cannot be renewed and permanent
// registrations have nothing to renew.
func (e *Engine) Renew(ctx context.Context, origin naming.Origin, nameHash naming.NameHash, periods naming.BlockNumber) (naming.BlockNumber, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.observe("renew", time.Now())

	caller, err := signedAccount(origin)
	if err != nil {
		return 0, err
	}
	registration, err := e.loadRegistration(ctx, nameHash)
	if err != nil {
		return 0, err
	}
	if registration.Expiry == nil {
		return 0, naming.ErrRegistrationHasNoExpiry
	}
	now := e.clock.Height()
	if registration.IsExpired(now) {
		return 0, naming.ErrRegistrationExpired
	}

	fee, err := e.params.Fees.PeriodFee(periods)
	if err != nil {
		return 0, err
	}
	blocks, err := e.params.PeriodBlocks(periods)
	if err != nil {
		return 0, err
	}
	extended, err := checkedAddExpiry(*registration.Expiry, blocks)
	if err != nil {
		return 0, err
	}

	if err := e.ledger.Pay(ctx, caller, e.params.FeeBeneficiary, fee); err != nil {
		return 0, err
	}
	registration.Expiry = &extended
	if err := e.registrations.Put(ctx, registration); err != nil {
		e.compensate(ctx, "renew", e.ledger.Pay(ctx, e.params.FeeBeneficiary, caller, fee))
		return 0, domerrors.Wrap(err, domerrors.CodeInternal, "store registration")
	}

	e.metrics.IncNamesRenewed()
	e.publish(ctx, naming.Event{
		Kind:     naming.EventNameRenewed,
		NameHash: &nameHash,
		Expiry:   &extended,
	})
	e.logger.InfoContext(ctx, "registration renewed",
		"name_hash", nameHash,
		"expiry", extended,
		"fee", fee,
	)
	return extended, nil
}

// Deregister removes a registration and its resolver record, refunding the
// deposit to the owner. While the registration is live only the owner may
// call it; once it has expired anyone may clean it up.
func (e *Engine) Deregister(ctx context.Context, origin naming.Origin, nameHash naming.NameHash) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.observe("deregister", time.Now())

	caller, err := signedAccount(origin)
	if err != nil {
		return err
	}
	registration, err := e.loadRegistration(ctx, nameHash)
	if err != nil {
		return err
	}
	if !registration.IsExpired(e.clock.Height()) && !registration.IsOwner(caller) {
		return naming.ErrNotRegistrationOwner
	}
	return e.deregister(ctx, registration)
}

// ForceRegister installs a registration without commit-reveal, overwriting
// any existing one. The previous owner's deposit is returned before the new
// registration is written. A nil expiry makes the registration permanent.
// Privileged origin only.
func (e *Engine) ForceRegister(ctx context.Context, origin naming.Origin, nameHash naming.NameHash, who naming.AccountID, expiry *naming.BlockNumber) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.observe("force_register", time.Now())

	if err := adminOnly(origin); err != nil {
		return err
	}
	previous, err := e.registrations.Get(ctx, nameHash)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return domerrors.Wrap(err, domerrors.CodeInternal, "load registration")
	}
	if err == nil {
		e.refund(ctx, previous.Owner, previous.Deposit)
		if err := e.resolvers.Delete(ctx, nameHash); err != nil {
			return domerrors.Wrap(err, domerrors.CodeInternal, "clear resolver record")
		}
	}

	registration := naming.Registration{
		NameHash:   nameHash,
		Owner:      who,
		Controller: who,
		Expiry:     expiry,
	}
	if err := e.registrations.Put(ctx, registration); err != nil {
		return domerrors.Wrap(err, domerrors.CodeInternal, "store registration")
	}

	e.metrics.IncNamesRegistered()
	e.publish(ctx, naming.Event{
		Kind:     naming.EventNameRegistered,
		NameHash: &nameHash,
		Owner:    who,
		Expiry:   expiry,
	})
	e.logger.InfoContext(ctx, "registration forced",
		"name_hash", nameHash,
		"owner", who,
	)
	return nil
}

// ForceDeregister removes a registration regardless of ownership or expiry,
// refunding the deposit to the current owner. Privileged origin only.
func (e *Engine) ForceDeregister(ctx context.Context, origin naming.Origin, nameHash naming.NameHash) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.observe("force_deregister", time.Now())

	if err := adminOnly(origin); err != nil {
		return err
	}
	registration, err := e.loadRegistration(ctx, nameHash)
	if err != nil {
		return err
	}
	return e.deregister(ctx, registration)
}

// deregister clears a registration and its resolver entry and refunds the
// deposit. Callers have already authorized the removal.
func (e *Engine) deregister(ctx context.Context, registration naming.Registration) error {
	if err := e.registrations.Delete(ctx, registration.NameHash); err != nil {
		return domerrors.Wrap(err, domerrors.CodeInternal, "delete registration")
	}
	if err := e.resolvers.Delete(ctx, registration.NameHash); err != nil {
		e.compensate(ctx, "deregister", e.registrations.Put(ctx, registration))
		return domerrors.Wrap(err, domerrors.CodeInternal, "clear resolver record")
	}
	e.refund(ctx, registration.Owner, registration.Deposit)

	e.metrics.IncNamesDeregistered()
	e.publish(ctx, naming.Event{
		Kind:     naming.EventAddressDeregistered,
		NameHash: &registration.NameHash,
		Owner:    registration.Owner,
	})
	e.logger.InfoContext(ctx, "registration removed",
		"name_hash", registration.NameHash,
		"owner", registration.Owner,
	)
	return nil
}

func (e *Engine) loadRegistration(ctx context.Context, nameHash naming.NameHash) (naming.Registration, error) {
	registration, err := e.registrations.Get(ctx, nameHash)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return naming.Registration{}, naming.ErrRegistrationNotFound
		}
		return naming.Registration{}, domerrors.Wrap(err, domerrors.CodeInternal, "load registration")
	}
	return registration, nil
}

func checkedAddExpiry(a, b naming.BlockNumber) (naming.BlockNumber, error) {
	sum := a + b
	if sum < a {
		return 0, naming.ErrArithmeticOverflow
	}
	return sum, nil
}
