package commands

import (
	"errors"

	"pizzatools/internal/core/domain/model/kernel"
	"pizzatools/internal/core/domain/model/order"
	"pizzatools/internal/pkg/errs"
	"pizzatools/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand moves a single order to a target pipeline stage.
// The target is named by its stable state key; keys outside the pipeline
// vocabulary are rejected at construction time.
//
// Example:
//
//	cmd, err := NewTransitionOrderCommand(orderID, "in-oven")
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
type TransitionOrderCommand struct {
	orderID kernel.UUID
	target  order.Stage
	guard   guard.ConstructorGuard
}

// NewTransitionOrderCommand creates a transition command for the given order.
// Fails with an UnknownStateError when targetKey is not a pipeline stage key.
func NewTransitionOrderCommand(orderID kernel.UUID, targetKey string) (TransitionOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return TransitionOrderCommand{}, errs.NewValueIsRequiredErrorWithCause("orderID", err)
	}

	target, err := order.ParseStage(targetKey)
	if err != nil {
		return TransitionOrderCommand{}, err
	}

	return TransitionOrderCommand{
		orderID: orderID,
		target:  target,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the order to transition.
func (c *TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// TargetStage returns the requested pipeline stage.
func (c *TransitionOrderCommand) TargetStage() order.Stage {
	return c.target
}

// Validate ensures the command was created through the constructor.
func (c *TransitionOrderCommand) Validate() error {
	return c.guard.Validate(
		ErrTransitionOrderCommandIsNotConstructed,
	)
}
