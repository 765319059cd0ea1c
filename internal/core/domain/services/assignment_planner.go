package services

import (
	"sort"

	"pizzatools/internal/core/domain/model/kernel"
	"pizzatools/internal/pkg/errs"
)

// Assignment errors surfaced before any store call is made. Once the plan
// passes, all further failures are per-item and aggregated, never batch-fatal.
var (
	// ErrNoAssignments is returned when a dispatch batch contains no drivers.
	ErrNoAssignments = errs.NewValueIsRequiredError("assignments")

	// ErrEmptyAssignment is returned when a driver appears with no orders.
	ErrEmptyAssignment = errs.NewValueIsRequiredError("orderIDs")
)

// AssignmentPlanner is a domain service that validates a dispatch plan — the
// ephemeral {driver -> orders} mapping submitted by the dispatch board —
// before the orchestrator starts mutating entities. The plan itself has no
// identity or persistence; on success it collapses into the drivers' ledgers
// and the orders' states.
//
// Validation is structural only: driver availability and order stages are
// checked against live store reads inside the orchestration, where per-item
// failure reporting applies.
type AssignmentPlanner struct{}

// NewAssignmentPlanner creates a new AssignmentPlanner instance.
func NewAssignmentPlanner() AssignmentPlanner {
	return AssignmentPlanner{}
}

// Validate checks a dispatch plan for structural problems:
//   - at least one driver with at least one order each
//   - all ids valid
//   - no order assigned to two drivers in the same batch
func (p AssignmentPlanner) Validate(assignments map[kernel.UUID][]kernel.UUID) error {
	if len(assignments) == 0 {
		return ErrNoAssignments
	}

	claimed := make(map[kernel.UUID]struct{})
	for driverID, orderIDs := range assignments {
		if err := driverID.Validate(); err != nil {
			return err
		}
		if len(orderIDs) == 0 {
			return ErrEmptyAssignment
		}
		for _, orderID := range orderIDs {
			if err := orderID.Validate(); err != nil {
				return err
			}
			if _, dup := claimed[orderID]; dup {
				return errs.NewValueIsInvalidErrorWithCause(
					"assignments",
					errs.NewValueIsInvalidError("order "+orderID.String()+" assigned to multiple drivers"),
				)
			}
			claimed[orderID] = struct{}{}
		}
	}

	return nil
}

// OrderUnion returns the deduplicated union of all order ids across the plan,
// in a stable order. The dispatch orchestrator stages this union out of the
// oven before any driver mutation begins.
func (p AssignmentPlanner) OrderUnion(assignments map[kernel.UUID][]kernel.UUID) []kernel.UUID {
	driverIDs := make([]kernel.UUID, 0, len(assignments))
	for driverID := range assignments {
		driverIDs = append(driverIDs, driverID)
	}
	sort.Slice(driverIDs, func(i, j int) bool {
		return driverIDs[i].String() < driverIDs[j].String()
	})

	seen := make(map[kernel.UUID]struct{})
	union := make([]kernel.UUID, 0)
	for _, driverID := range driverIDs {
		for _, orderID := range assignments[driverID] {
			if _, ok := seen[orderID]; ok {
				continue
			}
			seen[orderID] = struct{}{}
			union = append(union, orderID)
		}
	}
	return union
}
