// Package commands contains the write-side use cases of the fulfillment
// pipeline: single-order state transitions and the dispatch and return
// orchestrations. Each command is an immutable value created via its
// constructor; each handler talks to the entity store through ports and
// returns a per-item result report instead of failing the whole batch.
package commands

import (
	"errors"

	"pizzatools/internal/core/domain/model/kernel"
	"pizzatools/internal/core/domain/model/order"
	"pizzatools/internal/core/domain/model/state"
	"pizzatools/internal/pkg/errs"
)

// OrderResult is the outcome of one order mutation inside a batch.
// Skipped marks an order deliberately left untouched, either already past the
// requested stage or terminal; it still counts as success.
type OrderResult struct {
	OrderID kernel.UUID `json:"orderId"`
	Success bool        `json:"success"`
	Skipped bool        `json:"skipped,omitempty"`
	Error   string      `json:"error,omitempty"`
	Err     error       `json:"-"`
}

func succeededOrder(id kernel.UUID) OrderResult {
	return OrderResult{OrderID: id, Success: true}
}

func skippedOrder(id kernel.UUID) OrderResult {
	return OrderResult{OrderID: id, Success: true, Skipped: true}
}

func failedOrder(id kernel.UUID, err error) OrderResult {
	return OrderResult{OrderID: id, Error: err.Error(), Err: err}
}

// errorKind buckets an error for the audit trail.
func errorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, errs.ErrVersionConflict):
		return "version_conflict"
	case errors.Is(err, errs.ErrObjectNotFound):
		return "not_found"
	case errors.Is(err, errs.ErrIllegalTransition):
		return "illegal_transition"
	case errors.Is(err, errs.ErrUnknownState):
		return "unknown_state"
	case errors.Is(err, errs.ErrTransientNetwork):
		return "transient_network"
	default:
		return "error"
	}
}

// currentStage resolves an order's pipeline stage through the state catalog.
// Returns false when the catalog is degraded or the order sits in a state
// outside the pipeline vocabulary; callers then skip adjacency checks.
func currentStage(catalog state.Catalog, o *order.Order) (order.Stage, bool) {
	def, ok := catalog.ByID(o.StateID())
	if !ok {
		return "", false
	}
	stage, err := order.ParseStage(def.Key)
	if err != nil {
		return "", false
	}
	return stage, true
}
