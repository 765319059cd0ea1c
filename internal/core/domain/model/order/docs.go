// Package order provides the domain model for orders moving through the
// fulfillment pipeline. The commerce platform is the system of record; this
// package carries the client-side projection plus the pipeline state machine.
//
// The package includes:
//   - Order: the projection entity carrying identity, version, and state reference
//   - Stage: the pipeline finite state machine with an explicit adjacency table
//
// Key business rules:
//   - The pipeline is one-directional: prep-pending -> in-oven ->
//     pending-delivery -> out-for-delivery -> delivered
//   - cancelled is terminal and reachable from every non-terminal stage
//   - Re-requesting the current stage is legal (retry idempotence); the store
//     still increments the version
//   - Every mutation carries the version read immediately before writing
package order
