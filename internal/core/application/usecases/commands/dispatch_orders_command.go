package commands

import (
	"errors"

	"pizzatools/internal/core/domain/model/kernel"
	"pizzatools/internal/core/domain/services"
	"pizzatools/internal/pkg/guard"
)

var ErrDispatchOrdersCommandIsNotConstructed = errors.New(
	"DispatchOrdersCommand must be created via NewDispatchOrdersCommand constructor",
)

// DispatchOrdersCommand carries a dispatch plan: which orders go out with
// which drivers. The plan is validated structurally at construction time so
// the handler never sees an empty assignment or an order claimed by two
// drivers.
//
// Example:
//
//	cmd, err := NewDispatchOrdersCommand(map[kernel.UUID][]kernel.UUID{
//	    driverID: {orderA, orderB},
//	})
//	if err != nil {
//	    return err
//	}
//	report, err := handler.Handle(ctx, cmd)
type DispatchOrdersCommand struct {
	assignments map[kernel.UUID][]kernel.UUID
	guard       guard.ConstructorGuard
}

// NewDispatchOrdersCommand creates a dispatch command from driver-to-orders
// assignments. The map is deep copied; callers may reuse their input.
func NewDispatchOrdersCommand(assignments map[kernel.UUID][]kernel.UUID) (DispatchOrdersCommand, error) {
	if err := services.NewAssignmentPlanner().Validate(assignments); err != nil {
		return DispatchOrdersCommand{}, err
	}

	copied := make(map[kernel.UUID][]kernel.UUID, len(assignments))
	for driverID, orderIDs := range assignments {
		copied[driverID] = append([]kernel.UUID(nil), orderIDs...)
	}

	return DispatchOrdersCommand{
		assignments: copied,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Assignments returns a copy of the dispatch plan.
func (c *DispatchOrdersCommand) Assignments() map[kernel.UUID][]kernel.UUID {
	copied := make(map[kernel.UUID][]kernel.UUID, len(c.assignments))
	for driverID, orderIDs := range c.assignments {
		copied[driverID] = append([]kernel.UUID(nil), orderIDs...)
	}
	return copied
}

// Validate ensures the command was created through the constructor.
func (c *DispatchOrdersCommand) Validate() error {
	return c.guard.Validate(
		ErrDispatchOrdersCommandIsNotConstructed,
	)
}
