// Package domerrors defines code-tagged domain errors. Services return these
// so transport layers can translate them into user-visible responses without
// inspecting error strings.
package domerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for transport mapping.
type Code string

const (
	CodeValidation         Code = "validation"
	CodeConflict           Code = "conflict"
	CodeNotFound           Code = "not_found"
	CodeForbidden          Code = "forbidden"
	CodeFailedPrecondition Code = "failed_precondition"
	CodePayment            Code = "payment"
	CodeUnauthorized       Code = "unauthorized"
	CodeInternal           Code = "internal"
)

// Error is a domain error with a stable code and a human-readable message.
type Error struct {
	code Code
	msg  string
	err  error
}

// New creates a domain error with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{code: code, msg: msg}
}

// Wrap annotates err with a code and message while keeping it unwrappable.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{code: code, msg: msg, err: err}
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

// Code returns the error's classification code.
func (e *Error) Code() Code { return e.code }

// Is reports whether target is a domain error with the same code and message.
// This lets packages export sentinel *Error values and match them with
// errors.Is across wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.code == t.code && e.msg == t.msg
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.code == code
}

// CodeOf extracts the code from err, defaulting to CodeInternal for errors
// that did not originate in a domain package.
func CodeOf(err error) Code {
	var e *Error
	if !errors.As(err, &e) {
		return CodeInternal
	}
	return e.code
}
