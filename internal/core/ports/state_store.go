package ports

import (
	"context"

	"pizzatools/internal/core/domain/model/state"
)

// StateStore loads the pipeline state definitions from the entity store.
type StateStore interface {
	// Load fetches the full order-state definition set and builds the id/key
	// catalog for the current operation batch. A fetch failure yields an
	// empty catalog and a nil error: state names are cosmetic, so callers
	// degrade to unknown display info instead of failing the request.
	// Operations that need a specific key to exist (the transition engine)
	// still fail with an UnknownStateError when the key is not in the catalog.
	Load(ctx context.Context) (state.Catalog, error)
}
