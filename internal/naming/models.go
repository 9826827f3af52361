// Package naming holds the core types of the name-registration engine: the
// commit-reveal commitment, the registration record, the resolver entry, and
// the collaborator interfaces (ledger, clock, event publisher) the engine is
// built against.
package naming

import (
	"encoding/hex"
	"fmt"
)

// AccountID identifies an external account. Accounts are referenced, never
// owned, by commitments and registrations.
type AccountID string

// Balance is an amount of currency in the ledger's smallest unit.
type Balance uint64

// BlockNumber is a logical point in time. One block is one time unit.
type BlockNumber uint64

// HashSize is the width of all digests used by the engine.
const HashSize = 32

// NameHash identifies a registration: the digest of the canonical name, or,
// for subnodes, of the parent hash concatenated with the label hash.
type NameHash [HashSize]byte

// CommitmentHash identifies a pending commitment: the digest of the plaintext
// name concatenated with the caller-chosen secret.
type CommitmentHash [HashSize]byte

func (h NameHash) String() string { return hex.EncodeToString(h[:]) }

func (h NameHash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *NameHash) UnmarshalText(text []byte) error {
	return decodeHash((*[HashSize]byte)(h), text)
}

func (h CommitmentHash) String() string { return hex.EncodeToString(h[:]) }

func (h CommitmentHash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *CommitmentHash) UnmarshalText(text []byte) error {
	return decodeHash((*[HashSize]byte)(h), text)
}

func decodeHash(dst *[HashSize]byte, text []byte) error {
	raw, err := hex.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("decode hash: %w", err)
	}
	if len(raw) != HashSize {
		return fmt.Errorf("decode hash: want %d bytes, got %d", HashSize, len(raw))
	}
	copy(dst[:], raw)
	return nil
}

// ParseNameHash decodes a hex-encoded name hash.
func ParseNameHash(s string) (NameHash, error) {
	var h NameHash
	err := h.UnmarshalText([]byte(s))
	return h, err
}

// ParseCommitmentHash decodes a hex-encoded commitment hash.
func ParseCommitmentHash(s string) (CommitmentHash, error) {
	var h CommitmentHash
	err := h.UnmarshalText([]byte(s))
	return h, err
}

// Commitment is a pending, not-yet-revealed name registration. The depositor
// pays the commitment deposit and reclaims it when the commitment is consumed
// by reveal or removed after expiry; the owner is the account the eventual
// registration will belong to.
type Commitment struct {
	Hash      CommitmentHash `json:"hash"`
	Depositor AccountID      `json:"depositor"`
	Owner     AccountID      `json:"owner"`
	Deposit   Balance        `json:"deposit"`
	CreatedAt BlockNumber    `json:"created_at"`
}

// Registration is the durable record that a name is owned. A nil Expiry marks
// a permanent registration, creatable only through the privileged
// force-register path and not renewable.
type Registration struct {
	NameHash   NameHash     `json:"name_hash"`
	Owner      AccountID    `json:"owner"`
	Controller AccountID    `json:"controller"`
	Expiry     *BlockNumber `json:"expiry,omitempty"`
	Deposit    Balance      `json:"deposit"`
}

// IsExpired reports whether the registration lapsed at the given block.
// Permanent registrations never expire.
func (r Registration) IsExpired(now BlockNumber) bool {
	return r.Expiry != nil && now >= *r.Expiry
}

// IsOwner reports whether the account owns the registration.
func (r Registration) IsOwner(account AccountID) bool {
	return r.Owner == account
}

// IsController reports whether the account may update the resolved record:
// the controller, or the owner acting as its own controller.
func (r Registration) IsController(account AccountID) bool {
	return r.Controller == account || r.Owner == account
}

// ResolverEntry maps a registered name to the account it resolves to.
type ResolverEntry struct {
	NameHash NameHash  `json:"name_hash"`
	Address  AccountID `json:"address"`
}

// Origin is the authentication result for a single engine call: a signed
// account, a privileged administrator, or both.
type Origin struct {
	Account AccountID
	Admin   bool
}

// SignedOrigin builds an origin for a regular authenticated account.
func SignedOrigin(account AccountID) Origin {
	return Origin{Account: account}
}

// AdminOrigin builds a privileged administrator origin.
func AdminOrigin() Origin {
	return Origin{Admin: true}
}
