package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers and for HTTP mapping.
type Kind string

const (
	KindValidation     Kind = "validation_error"
	KindNotFound       Kind = "not_found"
	KindAlreadyPaid    Kind = "already_paid"
	KindAmountMismatch Kind = "amount_mismatch"
	KindNotEligible    Kind = "not_eligible"
	KindStorage        Kind = "storage_error"
	KindInternal       Kind = "internal_error"
)

// Error is a domain error with a stable code and a human message.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func (e *Error) Error() string {
	return e.Code
}

// StorageError wraps a driver or connectivity failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("storage: %v", e.Err)
	}
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Storage wraps err as a StorageError. Domain errors pass through unchanged.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return err
	}
	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// KindOf reports the kind of err. Unclassified errors are KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return KindStorage
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// CodeOf returns the stable code of a domain error, or the kind for other errors.
func CodeOf(err error) string {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return string(KindOf(err))
}

// MessageOf returns a message that is safe to show to API clients.
func MessageOf(err error) string {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	switch KindOf(err) {
	case KindStorage:
		return "storage unavailable"
	default:
		return "internal server error"
	}
}
