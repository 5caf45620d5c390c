package errs

import (
	"fmt"
	"strings"
)

// Sentinel errors for the four error kinds surfaced by the order aggregate.
// Callers classify failures with errors.Is against these values.
var (
	ErrValidation    = fmt.Errorf("validation failed")
	ErrNotFound      = fmt.Errorf("not found")
	ErrInvalidState  = fmt.Errorf("invalid state")
	ErrAlreadyExists = fmt.Errorf("already exists")
)

// sanitize flattens newlines so error messages stay single-line in logs.
func sanitize(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

// ValidationError reports malformed input rejected before any state mutation.
// Safe to retry after the caller corrects the offending parameter.
type ValidationError struct {
	ParamName string
	Cause     error
}

// NewValidationError creates a ValidationError for the named parameter.
func NewValidationError(paramName string) *ValidationError {
	return &ValidationError{ParamName: paramName}
}

// NewValidationErrorWithCause creates a ValidationError carrying the underlying cause.
func NewValidationErrorWithCause(paramName string, cause error) *ValidationError {
	return &ValidationError{ParamName: paramName, Cause: cause}
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrValidation, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValidation, e.ParamName))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NotFoundError reports that a referenced line, payment or order does not
// exist in the current state.
type NotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewNotFoundError creates a NotFoundError for the named object and identifier.
func NewNotFoundError(paramName string, id any) *NotFoundError {
	return &NotFoundError{ParamName: paramName, ID: id}
}

// NewNotFoundErrorWithCause creates a NotFoundError carrying the underlying cause.
func NewNotFoundErrorWithCause(paramName string, id any, cause error) *NotFoundError {
	return &NotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *NotFoundError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)", ErrNotFound, e.ParamName, e.ID, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrNotFound, e.ID))
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// InvalidStateError reports an operation that is not permitted given the
// current status of the aggregate. The reason is a stable, human-readable
// explanation of which rule blocked the operation.
type InvalidStateError struct {
	Reason string
	Cause  error
}

// NewInvalidStateError creates an InvalidStateError with the given reason.
func NewInvalidStateError(reason string) *InvalidStateError {
	return &InvalidStateError{Reason: reason}
}

// NewInvalidStateErrorWithCause creates an InvalidStateError carrying the underlying cause.
func NewInvalidStateErrorWithCause(reason string, cause error) *InvalidStateError {
	return &InvalidStateError{Reason: reason, Cause: cause}
}

func (e *InvalidStateError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrInvalidState, e.Reason, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrInvalidState, e.Reason))
}

func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}

// AlreadyExistsError reports an attempt to initialize an identity that is
// already initialized (idempotent-create semantics).
type AlreadyExistsError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewAlreadyExistsError creates an AlreadyExistsError for the named object and identifier.
func NewAlreadyExistsError(paramName string, id any) *AlreadyExistsError {
	return &AlreadyExistsError{ParamName: paramName, ID: id}
}

// NewAlreadyExistsErrorWithCause creates an AlreadyExistsError carrying the underlying cause.
func NewAlreadyExistsErrorWithCause(paramName string, id any, cause error) *AlreadyExistsError {
	return &AlreadyExistsError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *AlreadyExistsError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)", ErrAlreadyExists, e.ParamName, e.ID, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrAlreadyExists, e.ID))
}

func (e *AlreadyExistsError) Unwrap() error {
	return ErrAlreadyExists
}
