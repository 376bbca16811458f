package incidents

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrStorage matches every StorageError.
	ErrStorage = errors.New("storage failure")
	// ErrNotFound is returned by repositories when no row matches the id.
	ErrNotFound = errors.New("not found")
)

// ValidationError is a user-correctable input problem. Message is safe to show as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// StorageError wraps a persistence failure. Op names the failed operation, e.g. "save log".
// The wrapped driver error is for logs only.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// PublicMessage is the generic text returned to API callers.
func (e *StorageError) PublicMessage() string {
	return "Failed to " + e.Op
}
