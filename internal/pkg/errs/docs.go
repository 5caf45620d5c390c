// Package errs provides standardized error types for the order management
// application. It implements a consistent pattern for error creation,
// formatting, and unwrapping that is used throughout the application.
//
// The package defines the four error kinds the order aggregate surfaces:
//   - ValidationError: malformed input, rejected before any state mutation
//   - NotFoundError: a referenced line/payment/order id does not exist
//   - InvalidStateError: operation not permitted given the current status
//   - AlreadyExistsError: identity already initialized (idempotent create)
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrValidation)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is matches the sentinel
//
// All errors are synchronous, non-retryable-as-is failures: the aggregate
// never retries internally and a failed command leaves state unchanged.
package errs
