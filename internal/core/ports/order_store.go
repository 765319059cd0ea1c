// Package ports defines the entity-store interfaces for the fulfillment core.
// The backing commerce platform is the system of record; every interface here
// is an abstraction over its versioned, optimistic-concurrency API. These
// contracts establish the boundary between the application layer and the
// store adapters, enabling dependency inversion and testability.
package ports

import (
	"context"

	"pizzatools/internal/core/domain/model/kernel"
	"pizzatools/internal/core/domain/model/order"
)

// OrderFilter narrows an order query. StateIDs are ORed together; OrderState
// is the platform's coarse status ("Open"). Results are sorted createdAt
// descending, newest first, as the boards display them.
type OrderFilter struct {
	StateIDs   []kernel.UUID
	OrderState string
}

// OrderStore is the entity-store contract for orders. Every mutation carries
// the version read immediately before the write; a stale version fails with a
// VersionConflictError and is never retried internally.
type OrderStore interface {
	// Get retrieves an order with its current version.
	// Fails with an ObjectNotFoundError when the id does not resolve.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// TransitionState issues a single conditional update setting the order's
	// state reference. The returned order carries the incremented version.
	TransitionState(ctx context.Context, id kernel.UUID, version int64, stateID kernel.UUID) (*order.Order, error)

	// TransitionStateAndAssignDriver transitions the order and sets its
	// Driver custom field in one conditional update — atomic at the
	// single-order level, the unit the dispatch orchestration relies on.
	TransitionStateAndAssignDriver(
		ctx context.Context,
		id kernel.UUID,
		version int64,
		stateID kernel.UUID,
		driverID kernel.UUID,
	) (*order.Order, error)

	// Query returns the store's current orders matching the filter, scoped to
	// the configured store.
	Query(ctx context.Context, filter OrderFilter) ([]*order.Order, error)
}
