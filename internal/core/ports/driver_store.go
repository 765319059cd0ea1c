package ports

import (
	"context"

	"pizzatools/internal/core/domain/model/driver"
	"pizzatools/internal/core/domain/model/kernel"
)

// DriverStore is the entity-store contract for the driver assignment ledger.
// Drivers are platform customers with the "driver" custom type; the ledger
// lives in their custom fields and is updated read-modify-write so unrelated
// fields are never clobbered.
type DriverStore interface {
	// Get retrieves a driver with its current version and ledger.
	// Fails with an ObjectNotFoundError when the id does not resolve.
	Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error)

	// SetDispatched reads the driver's current version and custom fields,
	// merges Dispatched=true and the given orders into the delivery ledger
	// (preserving unrelated fields and prior history), and writes the result
	// conditionally. Fails with a VersionConflictError on a stale version.
	SetDispatched(ctx context.Context, id kernel.UUID, orderIDs []kernel.UUID) (*driver.Driver, error)

	// ClearDispatched flips Dispatched to false only. The delivery ledger is
	// deliberately left untouched: history is append-only.
	ClearDispatched(ctx context.Context, id kernel.UUID) (*driver.Driver, error)

	// Query returns all customers carrying the driver custom type.
	Query(ctx context.Context) ([]*driver.Driver, error)
}
