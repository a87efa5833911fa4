package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// ErrorKind classifies the errors raised by the register and metric engines.
type ErrorKind string

const (
	KindNotFound    ErrorKind = "not_found"
	KindInvariant   ErrorKind = "invariant_violation"
	KindPersistence ErrorKind = "persistence"
	KindUnknown     ErrorKind = "unknown"
)

// NotFoundError is raised when an operation targets a member that is not part of a register.
// After a reconciliation every roster member is present, so this points at a stale context.
type NotFoundError struct {
	What string
	ID   string
}

func NewNotFoundError(what, id string) error {
	return &NotFoundError{What: what, ID: id}
}

func (err NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", err.What, err.ID)
}

// InvariantViolation is a programmer error: malformed rosters or record streams,
// classifiers returning undeclared categories, or derivation inputs out of domain.
type InvariantViolation struct {
	Msg string
}

func NewInvariantViolation(format string, args ...interface{}) error {
	return &InvariantViolation{Msg: fmt.Sprintf(format, args...)}
}

func (err InvariantViolation) Error() string {
	return "invariant violation: " + err.Msg
}

// PersistenceError wraps any failure coming from a store.
type PersistenceError struct {
	Err error
}

func NewPersistenceError(err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Err: err}
}

func (err PersistenceError) Error() string {
	return "persistence: " + err.Err.Error()
}

func (err PersistenceError) Unwrap() error { return err.Err }

// KindOf returns the ErrorKind of err, looking through wrapped errors.
func KindOf(err error) ErrorKind {
	var (
		nf  *NotFoundError
		inv *InvariantViolation
		pe  *PersistenceError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &nf):
		return KindNotFound
	case errors.As(err, &inv):
		return KindInvariant
	case errors.As(err, &pe):
		return KindPersistence
	default:
		return KindUnknown
	}
}

func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

func IsInvariantViolation(err error) bool { return KindOf(err) == KindInvariant }

func IsPersistence(err error) bool { return KindOf(err) == KindPersistence }

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
