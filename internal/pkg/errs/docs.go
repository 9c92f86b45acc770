// Package errs provides standardized error types for the storefront application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid
//   - ValueIsOutOfRangeError: For when a value falls outside its allowed bounds
//   - ObjectNotFoundError: For when an object cannot be found
//   - UnauthorizedError / ForbiddenError: For authentication and authorization failures
//   - InvalidTransitionError: For order status changes outside the legality graph
//   - VersionConflictError: For optimistic concurrency failures
//   - TransportError: For notification delivery failures on the dispatch path
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// Callers classify errors with errors.Is against the sentinels and with errors.As
// when they need the details (for example the current and requested status of an
// InvalidTransitionError).
package errs
