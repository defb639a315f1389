package core

import "github.com/pkg/errors"

// Kind classifies the failures surfaced by the lifecycle services.
type Kind string

const (
	KindNotFound            Kind = "not_found"
	KindAlreadyExists       Kind = "already_exists"
	KindInvalidField        Kind = "invalid_field"
	KindInvalidDate         Kind = "invalid_date"
	KindInvalidUserType     Kind = "invalid_user_type"
	KindOperationNotAllowed Kind = "operation_not_allowed"
	KindExpired             Kind = "expired"
)

// Error is a classified domain error.
// Domain packages declare their sentinels with NewError and compare them with errors.Cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error

	storage bool
}

func NewError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// NewStorageError reports an unexpected persistence failure.
// The cause is kept for logging but never shown to API clients.
func NewStorageError(err error, msg string) error {
	return &Error{Kind: KindOperationNotAllowed, Message: msg, Err: err, storage: true}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of the first *Error found in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsStorage reports whether err was raised by NewStorageError.
func IsStorage(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.storage
}

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
