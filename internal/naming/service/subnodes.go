package service

import (
	"context"
	"errors"
	"time"

	"namegate/internal/naming"
	domerrors "namegate/pkg/domain-errors"
	"namegate/pkg/platform/sentinel"
)

// SetSubnodeRecord creates a child name under a parent registration. The
// caller must control the parent; the subnode deposit is reserved from the
// caller, who becomes the subnode's owner and controller, and the subnode
// resolves to the caller until its record is changed. Subnodes carry no own
// expiry: their lifecycle hangs off the parent.
func (e *Engine) SetSubnodeRecord(ctx context.Context, origin naming.Origin, parentHash naming.NameHash, label []byte) (naming.Registration, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.observe("set_subnode_record", time.Now())

	caller, err := signedAccount(origin)
	if err != nil {
		return naming.Registration{}, err
	}
	if len(label) < naming.MinNameLength {
		return naming.Registration{}, naming.ErrLabelTooShort
	}
	parent, err := e.loadRegistration(ctx, parentHash)
	if err != nil {
		return naming.Registration{}, err
	}
	if !parent.IsController(caller) {
		return naming.Registration{}, naming.ErrNotRegistrationOwner
	}

	subnodeHash := naming.SubnodeHash(parentHash, naming.HashName(label))
	if _, err := e.registrations.Get(ctx, subnodeHash); err == nil {
		return naming.Registration{}, naming.ErrRegistrationExists
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return naming.Registration{}, domerrors.Wrap(err, domerrors.CodeInternal, "load registration")
	}

	deposit := e.params.SubNodeDeposit
	if err := e.ledger.Reserve(ctx, caller, deposit); err != nil {
		return naming.Registration{}, err
	}
	registration := naming.Registration{
		NameHash:   subnodeHash,
		Owner:      caller,
		Controller: caller,
		Deposit:    deposit,
	}
	if err := e.registrations.Put(ctx, registration); err != nil {
		e.compensate(ctx, "set_subnode_record", e.ledger.Unreserve(ctx, caller, deposit))
		return naming.Registration{}, domerrors.Wrap(err, domerrors.CodeInternal, "store registration")
	}
	if err := e.resolvers.Set(ctx, subnodeHash, caller); err != nil {
		e.compensate(ctx, "set_subnode_record", e.registrations.Delete(ctx, subnodeHash))
		e.compensate(ctx, "set_subnode_record", e.ledger.Unreserve(ctx, caller, deposit))
		return naming.Registration{}, domerrors.Wrap(err, domerrors.CodeInternal, "store resolver record")
	}

	e.metrics.IncSubnodesRegistered()
	e.publish(ctx, naming.Event{
		Kind:     naming.EventNameRegistered,
		NameHash: &subnodeHash,
		Owner:    caller,
	})
	e.logger.InfoContext(ctx, "subnode registered",
		"parent_hash", parentHash,
		"subnode_hash", subnodeHash,
		"owner", caller,
	)
	return registration, nil
}

// SetSubnodeOwner assigns a subnode to a new owner, creating the subnode if
// it does not exist yet. The caller must control the parent. Deposits follow
// ownership: on creation the deposit is reserved from the new owner, on
// reassignment the reservation moves from the old owner to the new one.
func (e *Engine) SetSubnodeOwner(ctx context.Context, origin naming.Origin, parentHash naming.NameHash, labelHash naming.NameHash, newOwner naming.AccountID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.observe("set_subnode_owner", time.Now())

	caller, err := signedAccount(origin)
	if err != nil {
		return err
	}
	parent, err := e.loadRegistration(ctx, parentHash)
	if err != nil {
		return err
	}
	if !parent.IsController(caller) {
		return naming.ErrNotRegistrationOwner
	}

	subnodeHash := naming.SubnodeHash(parentHash, labelHash)
	subnode, err := e.registrations.Get(ctx, subnodeHash)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return domerrors.Wrap(err, domerrors.CodeInternal, "load registration")
	}

	if errors.Is(err, sentinel.ErrNotFound) {
		deposit := e.params.SubNodeDeposit
		if err := e.ledger.Reserve(ctx, newOwner, deposit); err != nil {
			return err
		}
		subnode = naming.Registration{
			NameHash:   subnodeHash,
			Owner:      newOwner,
			Controller: newOwner,
			Deposit:    deposit,
		}
		if err := e.registrations.Put(ctx, subnode); err != nil {
			e.compensate(ctx, "set_subnode_owner", e.ledger.Unreserve(ctx, newOwner, deposit))
			return domerrors.Wrap(err, domerrors.CodeInternal, "store registration")
		}
		e.metrics.IncSubnodesRegistered()
		e.publish(ctx, naming.Event{
			Kind:     naming.EventNameRegistered,
			NameHash: &subnodeHash,
			Owner:    newOwner,
		})
		e.logger.InfoContext(ctx, "subnode registered",
			"parent_hash", parentHash,
			"subnode_hash", subnodeHash,
			"owner", newOwner,
		)
		return nil
	}

	previous := subnode.Owner
	if subnode.Deposit > 0 && newOwner != previous {
		if err := e.ledger.Reserve(ctx, newOwner, subnode.Deposit); err != nil {
			return err
		}
		e.refund(ctx, previous, subnode.Deposit)
	}
	subnode.Owner = newOwner
	if err := e.registrations.Put(ctx, subnode); err != nil {
		if subnode.Deposit > 0 && newOwner != previous {
			e.compensate(ctx, "set_subnode_owner", e.ledger.Unreserve(ctx, newOwner, subnode.Deposit))
			e.compensate(ctx, "set_subnode_owner", e.ledger.Reserve(ctx, previous, subnode.Deposit))
		}
		return domerrors.Wrap(err, domerrors.CodeInternal, "store registration")
	}

	e.publish(ctx, naming.Event{
		Kind:     naming.EventNewOwner,
		NameHash: &subnodeHash,
		From:     previous,
		To:       newOwner,
	})
	e.logger.InfoContext(ctx, "subnode owner updated",
		"subnode_hash", subnodeHash,
		"from", previous,
		"to", newOwner,
	)
	return nil
}

// DeregisterSubnode removes a subnode, refunding its deposit to the owner.
// The owner may always remove their subnode; anyone else may only clean it up
// after the parent registration has lapsed out of storage.
func (e *Engine) DeregisterSubnode(ctx context.Context, origin naming.Origin, parentHash naming.NameHash, labelHash naming.NameHash) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.observe("deregister_subnode", time.Now())

	caller, err := signedAccount(origin)
	if err != nil {
		return err
	}
	subnodeHash := naming.SubnodeHash(parentHash, labelHash)
	subnode, err := e.loadRegistration(ctx, subnodeHash)
	if err != nil {
		return err
	}
	if !subnode.IsOwner(caller) {
		// Cleanup by a non-owner is only legitimate abandonment collection:
		// the parent must already be gone.
		if _, err := e.registrations.Get(ctx, parentHash); err == nil {
			return naming.ErrRegistrationNotExpired
		} else if !errors.Is(err, sentinel.ErrNotFound) {
			return domerrors.Wrap(err, domerrors.CodeInternal, "load registration")
		}
	}
	return e.deregister(ctx, subnode)
}
