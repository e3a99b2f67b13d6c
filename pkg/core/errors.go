package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrEmptyInput     = errors.New("props cannot be empty")
	ErrInvalidJSON    = errors.New("props must be a valid JSON object")
	ErrEmptyAdapterID = errors.New("adapter id cannot be empty")
	ErrUnknownTarget  = errors.New("unknown target")
	ErrNotFound       = errors.New("record not found")
	ErrReadOnly       = errors.New("storage is in read-only mode")
	ErrBackend        = errors.New("storage backend failure")
)

// BackendError reports a failed storage operation.
// It matches ErrBackend with errors.Is and unwraps to the cause.
type BackendError struct {
	Op   string
	Kind string
	ID   string
	Err  error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s %s/%s: %v", e.Op, e.Kind, e.ID, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

func (e *BackendError) Is(target error) bool { return target == ErrBackend }
