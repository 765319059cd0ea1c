// Package errs provides standardized error types for the fulfillment service.
// It implements a consistent pattern for error creation, formatting, and
// unwrapping that is used throughout the application.
//
// The package covers the generic validation failures (required, invalid,
// out-of-range values, missing objects) plus the store-facing taxonomy of the
// fulfillment core:
//   - VersionConflictError: optimistic-concurrency rejection from the entity store
//   - UnknownStateError: a pipeline state key with no catalog definition
//   - IllegalTransitionError: a transition not reachable from the current stage
//   - TransientNetworkError: store timeouts and connection failures
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrVersionConflict)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, so errors.Is classifies errors
//
// Entity-level failures inside a batch are aggregated by the orchestrators into
// per-item results rather than propagated; the taxonomy here is what those
// per-item results carry.
package errs
