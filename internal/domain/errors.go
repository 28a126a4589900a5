package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound covers both a missing record and a record owned by someone
	// else. Callers must not be able to tell the two apart.
	ErrNotFound = errors.New("not found or not authorized")

	ErrUnauthenticated = errors.New("unauthenticated")
	ErrConflict        = errors.New("already exists")
	ErrUnavailable     = errors.New("service not configured")
)

// FieldError is one violated input rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every violation found in a payload, not just the
// first one.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) add(field, msg string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: msg})
}

// err returns nil when nothing was recorded so Validate methods can end with
// `return v.err()`.
func (e *ValidationError) err() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// StoreError is returned when the backing store rejects an operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// UpstreamError reports a failed call to the PDF rendering service. Record
// holds the composite inspection so the caller can render it locally.
type UpstreamError struct {
	Record *InspectionRecord
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("pdf service failed: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// BatchError reports the failed part of a batch whose other operations may
// have gone through. Err is a multierr combination of the failures.
type BatchError struct {
	Op  string
	Err error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }
