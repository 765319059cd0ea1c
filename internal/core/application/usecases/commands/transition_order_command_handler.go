package commands

import (
	"context"

	"pizzatools/internal/core/domain/model/kernel"
	"pizzatools/internal/core/ports"
	"pizzatools/internal/pkg/errs"
)

// TransitionResult describes a completed single-order transition.
type TransitionResult struct {
	OrderID   kernel.UUID `json:"orderId"`
	FromState string      `json:"fromState"`
	ToState   string      `json:"toState"`
	Version   int64       `json:"version"`
}

// TransitionOrderCommandHandler applies one pipeline transition to one order.
// The order's version is read immediately before the conditional write, so a
// concurrent mutation surfaces as a VersionConflictError instead of a lost
// update. Conflicts are never retried here; the caller decides.
//
// Example:
//
//	handler := NewTransitionOrderCommandHandler(orderStore, stateStore)
//	cmd, _ := NewTransitionOrderCommand(orderID, "delivered")
//	result, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrVersionConflict) {
//	    // someone else moved the order first
//	}
type TransitionOrderCommandHandler struct {
	orders ports.OrderStore
	states ports.StateStore
}

// NewTransitionOrderCommandHandler creates a handler backed by the given
// order and state stores.
func NewTransitionOrderCommandHandler(orders ports.OrderStore, states ports.StateStore) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		orders: orders,
		states: states,
	}
}

// Handle resolves the target state, checks the hop against the pipeline
// adjacency when the current stage is known, and issues the conditional
// update. An identity hop (order already in the target stage) succeeds
// without touching the store, which makes retried transitions idempotent.
func (h TransitionOrderCommandHandler) Handle(
	ctx context.Context,
	command TransitionOrderCommand,
) (TransitionResult, error) {
	if err := command.Validate(); err != nil {
		return TransitionResult{}, err
	}

	catalog, err := h.states.Load(ctx)
	if err != nil {
		return TransitionResult{}, err
	}

	target, ok := catalog.ByKey(command.TargetStage().String())
	if !ok {
		return TransitionResult{}, errs.NewUnknownStateError(command.TargetStage().String())
	}

	o, err := h.orders.Get(ctx, command.OrderID())
	if err != nil {
		return TransitionResult{}, err
	}

	fromKey := catalog.InfoFor(o.StateID()).Key
	if from, known := currentStage(catalog, o); known {
		if _, err := from.TransitionTo(command.TargetStage()); err != nil {
			return TransitionResult{}, err
		}
		if from == command.TargetStage() {
			return TransitionResult{
				OrderID:   o.ID(),
				FromState: fromKey,
				ToState:   target.Key,
				Version:   o.Version(),
			}, nil
		}
	}

	updated, err := h.orders.TransitionState(ctx, o.ID(), o.Version(), target.ID)
	if err != nil {
		return TransitionResult{}, err
	}

	return TransitionResult{
		OrderID:   updated.ID(),
		FromState: fromKey,
		ToState:   target.Key,
		Version:   updated.Version(),
	}, nil
}
