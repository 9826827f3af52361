package naming

import domerrors "namegate/pkg/domain-errors"

// The engine's closed error set. Every mutating operation returns either nil
// or one of these values (possibly wrapped); callers match with errors.Is and
// transports map the attached code to a presentation.
var (
	// Conflict.
	ErrAlreadyCommitted   = domerrors.New(domerrors.CodeConflict, "commitment hash already exists")
	ErrRegistrationExists = domerrors.New(domerrors.CodeConflict, "registration of this name already exists")
	ErrAlreadySet         = domerrors.New(domerrors.CodeConflict, "address has already been set to this")

	// Not found.
	ErrCommitmentNotFound             = domerrors.New(domerrors.CodeNotFound, "commitment does not exist")
	ErrRegistrationNotFound           = domerrors.New(domerrors.CodeNotFound, "registration does not exist")
	ErrRegistrationRegistrantNotFound = domerrors.New(domerrors.CodeNotFound, "registration registrant does not exist")

	// Timing.
	ErrTooEarlyToReveal        = domerrors.New(domerrors.CodeFailedPrecondition, "minimum commitment age has not passed")
	ErrCommitmentNotExpired    = domerrors.New(domerrors.CodeFailedPrecondition, "commitment has not expired")
	ErrRegistrationExpired     = domerrors.New(domerrors.CodeFailedPrecondition, "registration has expired")
	ErrRegistrationNotExpired  = domerrors.New(domerrors.CodeFailedPrecondition, "registration has not yet expired")
	ErrRegistrationHasNoExpiry = domerrors.New(domerrors.CodeFailedPrecondition, "registration has no expiry")

	// Authorization.
	ErrNotRegistrationRegistrant        = domerrors.New(domerrors.CodeForbidden, "account is not the registration registrant")
	ErrNotRegistrationOwner             = domerrors.New(domerrors.CodeForbidden, "account is not the registration owner")
	ErrNotRegistrationRegistrantOrOwner = domerrors.New(domerrors.CodeForbidden, "account is not the registration registrant or owner")

	// Validation.
	ErrLabelTooShort = domerrors.New(domerrors.CodeValidation, "label is too short")

	// Origin.
	ErrUnauthenticated = domerrors.New(domerrors.CodeUnauthorized, "signed origin required")
	ErrNotAdmin        = domerrors.New(domerrors.CodeForbidden, "privileged origin required")

	// Ledger / arithmetic.
	ErrInsufficientFunds  = domerrors.New(domerrors.CodePayment, "insufficient funds")
	ErrArithmeticOverflow = domerrors.New(domerrors.CodeInternal, "arithmetic overflow")
)
