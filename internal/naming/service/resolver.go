package service

import (
	"context"
	"errors"
	"time"

	"namegate/internal/naming"
	domerrors "namegate/pkg/domain-errors"
	"namegate/pkg/platform/sentinel"
)

// SetRecord points a name at an account address. Callable by the
// registration's controller or owner. Re-setting the identical address is
// rejected to avoid redundant state writes.
func (e *Engine) SetRecord(ctx context.Context, origin naming.Origin, nameHash naming.NameHash, address naming.AccountID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.observe("set_record", time.Now())

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

	current, err := e.resolvers.Get(ctx, nameHash)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return domerrors.Wrap(err, domerrors.CodeInternal, "load resolver record")
	}
	if err == nil && current == address {
		return naming.ErrAlreadySet
	}

	if err := e.resolvers.Set(ctx, nameHash, address); err != nil {
		return domerrors.Wrap(err, domerrors.CodeInternal, "store resolver record")
	}

	e.metrics.IncRecordsSet()
	e.publish(ctx, naming.Event{
		Kind:     naming.EventAddressSet,
		NameHash: &nameHash,
		Address:  address,
	})
	e.logger.InfoContext(ctx, "resolver record set",
		"name_hash", nameHash,
		"address", address,
	)
	return nil
}

// Resolve returns the account a name resolves to.
func (e *Engine) Resolve(ctx context.Context, nameHash naming.NameHash) (naming.AccountID, error) {
	address, err := e.resolvers.Get(ctx, nameHash)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", naming.ErrRegistrationRegistrantNotFound
		}
		return "", domerrors.Wrap(err, domerrors.CodeInternal, "load resolver record")
	}
	return address, nil
}
