// Package errs provides standardized error types for the freight service.
//
// Each error type follows the same pattern:
//   - a sentinel error variable (e.g., ErrConflict)
//   - a struct type carrying the details
//   - constructor functions with and without cause
//   - Error() for formatting and Unwrap() returning the sentinel
//
// The assignment engine reports its outcomes through this taxonomy:
//   - ObjectNotFoundError: a referenced driver or cargo does not exist
//   - ConflictError: a concurrent claim won the race for a load
//   - InvalidStateError: an operation does not fit the current lifecycle state
//   - CapacityViolationError: a load is outside the vehicle's capacity bounds
//   - TransientError: storage or network failure, retryable by the caller
//
// Validation failures during construction use ValueIsRequiredError,
// ValueIsInvalidError and ValueIsOutOfRangeError.
package errs
