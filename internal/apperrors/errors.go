// Package apperrors defines the failures the product layers hand to each other.
// Handlers translate them to HTTP status codes: InvalidArgumentError to 422,
// NotFoundError to 404 and StoreError to 500.
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound matches every NotFoundError via errors.Is.
var ErrNotFound = errors.New("not found")

// Violation is a single rejected field of a request.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// InvalidArgumentError reports client supplied data that failed validation.
type InvalidArgumentError struct {
	Violations []Violation
}

// InvalidArgument builds an InvalidArgumentError with a single violation.
func InvalidArgument(field, message string) *InvalidArgumentError {
	return &InvalidArgumentError{Violations: []Violation{{Field: field, Message: message}}}
}

func (e *InvalidArgumentError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return strings.Join(msgs, "; ")
}

// NotFoundError reports that no record exists for the given id.
type NotFoundError struct {
	Resource string
	ID       int64
}

// NotFound builds a NotFoundError.
func NotFound(resource string, id int64) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %d not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// StoreError wraps an underlying persistence failure.
type StoreError struct {
	Op  string
	Err error
}

// Store wraps err as a StoreError for operation op.
func Store(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsInvalidArgument reports whether err carries an InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	var target *InvalidArgumentError
	return errors.As(err, &target)
}

// IsStoreError reports whether err carries a StoreError.
func IsStoreError(err error) bool {
	var target *StoreError
	return errors.As(err, &target)
}
