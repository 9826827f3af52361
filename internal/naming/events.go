package naming

import "context"

// EventKind enumerates the notifications the engine emits. Events are
// consumed by external observers and are not required for correctness.
type EventKind string

const (
	// EventCommitted: a new commitment has been stored.
	EventCommitted EventKind = "committed"
	// EventNameRegistered: a reveal or force-register created a registration.
	EventNameRegistered EventKind = "name_registered"
	// EventNewOwner: a registration changed hands or controller.
	EventNewOwner EventKind = "new_owner"
	// EventNameRenewed: a registration's expiry was extended.
	EventNameRenewed EventKind = "name_renewed"
	// EventAddressSet: a resolver record was set.
	EventAddressSet EventKind = "address_set"
	// EventAddressDeregistered: a registration and its resolver record were
	// removed.
	EventAddressDeregistered EventKind = "address_deregistered"
)

// Event is a single engine notification. Only the fields relevant to the
// kind are populated.
type Event struct {
	ID   string    `json:"id"`
	Kind EventKind `json:"kind"`

	CommitmentHash *CommitmentHash `json:"commitment_hash,omitempty"`
	NameHash       *NameHash       `json:"name_hash,omitempty"`
	Depositor      AccountID       `json:"depositor,omitempty"`
	Owner          AccountID       `json:"owner,omitempty"`
	From           AccountID       `json:"from,omitempty"`
	To             AccountID       `json:"to,omitempty"`
	Address        AccountID       `json:"address,omitempty"`
	Expiry         *BlockNumber    `json:"expiry,omitempty"`
}

// Publisher delivers engine events to observers. Publishing is best-effort:
// the engine logs failures and never fails an operation over one.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher discards events.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
