package repositories

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by every "target must exist" failure.
var ErrNotFound = errors.New("not found")

var ErrProjectNotFound = fmt.Errorf("project %w", ErrNotFound)

// ValidationError is returned before any write is attempted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// StorageIOError describes a failed blob cleanup. It is logged, never
// returned from a store operation.
type StorageIOError struct {
	Name string
	Err  error
}

func (e *StorageIOError) Error() string {
	return fmt.Sprintf("blob %q: %v", e.Name, e.Err)
}

func (e *StorageIOError) Unwrap() error { return e.Err }

// PersistenceError wraps an unexpected database failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}
