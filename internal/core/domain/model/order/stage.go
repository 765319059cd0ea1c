package order

import (
	"pizzatools/internal/pkg/errs"
)

// Stage is a point in the order fulfillment pipeline, identified by its stable
// state key. It implements the pipeline as an explicit finite state machine
// with an adjacency table, so transition requests that skip stages are
// rejected instead of silently applied.
//
// Pipeline:
//
//	prep-pending ──> in-oven ──> pending-delivery ──> out-for-delivery ──> delivered
//	      │             │               │                     │
//	      └─────────────┴───────────────┴─────────────────────┴──> cancelled
//
// delivered and cancelled are terminal. Re-requesting the current stage is a
// no-op transition and always legal: the store still accepts it (and bumps the
// entity version), which is what makes orchestrator retries idempotent.
type Stage string

const (
	// StagePrepPending is the initial stage assigned at checkout.
	StagePrepPending Stage = "prep-pending"

	// StageInOven marks orders currently being baked on the makeline.
	StageInOven Stage = "in-oven"

	// StagePendingDelivery marks baked orders staged for driver assignment.
	StagePendingDelivery Stage = "pending-delivery"

	// StageOutForDelivery marks orders on a dispatched driver's run.
	StageOutForDelivery Stage = "out-for-delivery"

	// StageDelivered is the terminal success stage. Orders are retained for audit.
	StageDelivered Stage = "delivered"

	// StageCancelled is the terminal failure stage, reachable from any
	// non-terminal stage.
	StageCancelled Stage = "cancelled"
)

// stageNext is the adjacency table of the pipeline. Cancellation edges are
// handled in CanTransitionTo since every non-terminal stage has one.
var stageNext = map[Stage]Stage{
	StagePrepPending:     StageInOven,
	StageInOven:          StagePendingDelivery,
	StagePendingDelivery: StageOutForDelivery,
	StageOutForDelivery:  StageDelivered,
}

// ParseStage resolves a state key to its pipeline stage. Keys outside the
// fixed pipeline vocabulary fail with an UnknownStateError.
func ParseStage(key string) (Stage, error) {
	switch s := Stage(key); s {
	case StagePrepPending, StageInOven, StagePendingDelivery, StageOutForDelivery, StageDelivered, StageCancelled:
		return s, nil
	default:
		return "", errs.NewUnknownStateError(key)
	}
}

// String returns the stable state key.
func (s Stage) String() string {
	return string(s)
}

// IsTerminal reports whether the stage ends the pipeline. Terminal orders are
// never transitioned again; return cycles skip them.
func (s Stage) IsTerminal() bool {
	return s == StageDelivered || s == StageCancelled
}

// CanTransitionTo reports whether next is reachable from s in one hop.
// Legal hops are the forward pipeline edge, cancellation from any non-terminal
// stage, and the identity hop (retry idempotence).
func (s Stage) CanTransitionTo(next Stage) bool {
	if next == s {
		return true
	}
	if s.IsTerminal() {
		return false
	}
	if next == StageCancelled {
		return true
	}
	return stageNext[s] == next
}

// TransitionTo validates the hop from s to next, returning an
// IllegalTransitionError when next is not reachable.
func (s Stage) TransitionTo(next Stage) (Stage, error) {
	if !s.CanTransitionTo(next) {
		return "", errs.NewIllegalTransitionError(s.String(), next.String())
	}
	return next, nil
}
