package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every domain error unwraps to exactly one of these, so callers
// classify with errors.Is and render with Error().
var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicate    = errors.New("resource already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
)

var (
	ErrEmailTaken         = &Error{kind: ErrDuplicate, msg: "email already taken"}
	ErrNoDataChanges      = &Error{kind: ErrValidation, msg: "no data changes"}
	ErrNegativeAge        = &Error{kind: ErrValidation, msg: "age must not be negative"}
	ErrInvalidCredentials = &Error{kind: ErrUnauthorized, msg: "invalid credentials"}
)

// Error is a domain error carrying a caller-facing message.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }
func (e *Error) Unwrap() error { return e.kind }

// CustomerNotFound reports a missing customer id.
func CustomerNotFound(id int64) error {
	return &Error{kind: ErrNotFound, msg: fmt.Sprintf("customer id [%d] not found", id)}
}

// CustomerEmailNotFound reports a missing customer email.
func CustomerEmailNotFound(email string) error {
	return &Error{kind: ErrNotFound, msg: fmt.Sprintf("customer email [%s] not found", email)}
}

// Validationf builds a validation error with a formatted message.
func Validationf(format string, args ...any) error {
	return &Error{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}
