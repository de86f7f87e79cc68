package tasks

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested task id does not exist.
	ErrNotFound = errors.New("task not found")
	// ErrForbidden is returned when the task exists but belongs to another user.
	ErrForbidden = errors.New("not authorized to access this task")
)

// ValidationError reports a user-correctable problem with task fields.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// StoreError wraps a persistence failure that is neither not-found nor an
// ownership problem.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
