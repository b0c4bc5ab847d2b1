package core

import (
	"errors"
	"fmt"
)

// Error kinds. Every typed error below matches one of these with errors.Is.
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrPersistence = errors.New("persistence error")
	ErrSync        = errors.New("sync error")
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidPeriod      = errors.New("invalid period")
	ErrEmptyID            = errors.New("empty id")
	ErrEmptyCategory      = errors.New("empty category")
	ErrMissingField       = errors.New("missing required field")
	ErrNonPositiveLimit   = errors.New("limit must be positive")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrZeroCreatedAt      = errors.New("createdAt not set")
	ErrDuplicateID        = errors.New("duplicate id")
)

// ValidationError reports malformed input rejected before the store is touched.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, value string, err error) error {
	return &ValidationError{Field: field, Value: value, Err: err}
}

// NotFoundError reports an update or delete of an unknown id.
type NotFoundError struct {
	Kind string // "transaction" or "budget"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// PersistenceError reports a durable save or load failure. In-memory state
// is left as it was when the failure happened.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// CorruptDocumentError reports a persisted document that could not be
// decoded or failed validation. The backend has already set it aside, so the
// next save of that collection starts a fresh document.
type CorruptDocumentError struct {
	Document string
	Err      error
}

func (e *CorruptDocumentError) Error() string {
	return fmt.Sprintf("corrupt document %s: %v", e.Document, e.Err)
}

func (e *CorruptDocumentError) Unwrap() error { return e.Err }

// SyncError reports a failed remote upload or download. Local state is
// never mutated by a failed sync.
type SyncError struct {
	Op  string
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

func (e *SyncError) Is(target error) bool { return target == ErrSync }
