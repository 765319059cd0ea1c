// Package services provides domain services that validate business operations
// spanning multiple domain entities in the fulfillment system.
//
// The package includes:
//   - AssignmentPlanner: validates a batch of driver-to-orders assignments
//     before the dispatch orchestration touches the entity store
//
// Domain services coordinate between aggregates, implementing business logic
// that doesn't naturally belong to a single aggregate root.
package services
