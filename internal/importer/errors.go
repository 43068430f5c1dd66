package importer

import (
	"errors"
	"fmt"
)

// ErrorKind discriminates the three failure classes of the pipeline.
// Validation and conflict errors are author errors detected before any write;
// storage errors are raised only after the transaction has been rolled back.
type ErrorKind string

const (
	ErrorKindValidation ErrorKind = "validation"
	ErrorKindConflict   ErrorKind = "conflict"
	ErrorKindStorage    ErrorKind = "storage"
)

// Error is the structured failure returned by the pipeline.
type Error struct {
	Kind       ErrorKind   `json:"kind"`
	Message    string      `json:"message"`
	Violations []Violation `json:"violations,omitempty"` // validation only
	Slug       string      `json:"slug,omitempty"`       // conflict only

	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("import %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// AsError unwraps err into a pipeline *Error if it is one.
func AsError(err error) (*Error, bool) {
	var ie *Error
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

func newValidationError(violations []Violation) *Error {
	return &Error{
		Kind:       ErrorKindValidation,
		Message:    fmt.Sprintf("bundle is invalid (%d violation(s))", len(violations)),
		Violations: violations,
	}
}

func newConflictError(slug string) *Error {
	return &Error{
		Kind:    ErrorKindConflict,
		Message: fmt.Sprintf("a quiz with slug %q already exists; re-run with overwrite to replace it", slug),
		Slug:    slug,
	}
}

func newStorageError(op string, err error) *Error {
	return &Error{
		Kind:    ErrorKindStorage,
		Message: fmt.Sprintf("%s: %v", op, err),
		cause:   err,
	}
}
