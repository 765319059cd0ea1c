package commands

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"pizzatools/internal/core/domain/model/kernel"
	"pizzatools/internal/core/domain/model/order"
	"pizzatools/internal/core/domain/model/state"
	"pizzatools/internal/core/domain/services"
	"pizzatools/internal/core/ports"
	"pizzatools/internal/pkg/errs"
)

// dispatchConcurrency caps parallel store calls within one batch. The entity
// store rate-limits per project; eight in flight stays well under it.
const dispatchConcurrency = 8

// DriverDispatchResult is the outcome for one driver in a dispatch batch.
// Success reflects the ledger write only; order outcomes are reported
// separately because a driver can leave with a partial load.
type DriverDispatchResult struct {
	DriverID kernel.UUID   `json:"driverId"`
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
	Err      error         `json:"-"`
	Orders   []OrderResult `json:"orders"`
}

// DispatchReport aggregates everything a dispatch batch did. Staging holds
// the phase-one oven results for the order union; Results holds the
// per-driver phase-two outcomes.
type DispatchReport struct {
	BatchID kernel.UUID            `json:"batchId"`
	Staging []OrderResult          `json:"staging"`
	Results []DriverDispatchResult `json:"results"`
}

// DispatchOrdersCommandHandler runs the two-phase dispatch orchestration.
//
// Phase one stages the union of all assigned orders out of the oven: every
// order still in "in-oven" is moved to "pending-delivery". Phase two then
// handles each driver: the delivery ledger is written first, and each of the
// driver's orders is moved to "out-for-delivery" with the driver reference
// set in one conditional update per order.
//
// There is no rollback. A failed item is recorded in the report and the rest
// of the batch proceeds; re-submitting the same plan converges because
// identity hops and ledger merges are idempotent.
type DispatchOrdersCommandHandler struct {
	orders  ports.OrderStore
	drivers ports.DriverStore
	states  ports.StateStore
	audit   ports.AuditLog
}

// NewDispatchOrdersCommandHandler creates the dispatch handler. A nil audit
// log falls back to the no-op implementation.
func NewDispatchOrdersCommandHandler(
	orders ports.OrderStore,
	drivers ports.DriverStore,
	states ports.StateStore,
	audit ports.AuditLog,
) DispatchOrdersCommandHandler {
	if audit == nil {
		audit = ports.NoopAuditLog{}
	}
	return DispatchOrdersCommandHandler{
		orders:  orders,
		drivers: drivers,
		states:  states,
		audit:   audit,
	}
}

// Handle executes the dispatch plan and returns the per-item report. The
// returned error covers batch-fatal conditions only: an invalid command or a
// pipeline state key missing from the catalog.
func (h DispatchOrdersCommandHandler) Handle(
	ctx context.Context,
	command DispatchOrdersCommand,
) (DispatchReport, error) {
	if err := command.Validate(); err != nil {
		return DispatchReport{}, err
	}

	catalog, err := h.states.Load(ctx)
	if err != nil {
		return DispatchReport{}, err
	}

	pendingDelivery, ok := catalog.ByKey(order.StagePendingDelivery.String())
	if !ok {
		return DispatchReport{}, errs.NewUnknownStateError(order.StagePendingDelivery.String())
	}
	outForDelivery, ok := catalog.ByKey(order.StageOutForDelivery.String())
	if !ok {
		return DispatchReport{}, errs.NewUnknownStateError(order.StageOutForDelivery.String())
	}

	assignments := command.Assignments()
	report := DispatchReport{
		BatchID: kernel.NewUUID(),
		Staging: h.stageOrders(ctx, catalog, pendingDelivery, services.NewAssignmentPlanner().OrderUnion(assignments)),
		Results: h.dispatchDrivers(ctx, catalog, outForDelivery, assignments),
	}

	// Operational history only; the report is the caller-facing truth.
	_ = h.audit.RecordBatch(ctx, dispatchAuditRecords(report))

	return report, nil
}

// stageOrders moves every in-oven order of the union to pending-delivery.
// Orders already past the oven are left alone and count as staged.
func (h DispatchOrdersCommandHandler) stageOrders(
	ctx context.Context,
	catalog state.Catalog,
	pendingDelivery state.State,
	union []kernel.UUID,
) []OrderResult {
	results := make([]OrderResult, len(union))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(dispatchConcurrency)
	for i, orderID := range union {
		g.Go(func() error {
			results[i] = h.stageOrder(ctx, catalog, pendingDelivery, orderID)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (h DispatchOrdersCommandHandler) stageOrder(
	ctx context.Context,
	catalog state.Catalog,
	pendingDelivery state.State,
	orderID kernel.UUID,
) OrderResult {
	o, err := h.orders.Get(ctx, orderID)
	if err != nil {
		return failedOrder(orderID, err)
	}

	stage, known := currentStage(catalog, o)
	if known && stage != order.StageInOven {
		return skippedOrder(orderID)
	}

	if _, err := h.orders.TransitionState(ctx, o.ID(), o.Version(), pendingDelivery.ID); err != nil {
		return failedOrder(orderID, err)
	}
	return succeededOrder(orderID)
}

// dispatchDrivers runs phase two for every driver in the plan, drivers in
// parallel, each driver's orders in sequence after its ledger write.
func (h DispatchOrdersCommandHandler) dispatchDrivers(
	ctx context.Context,
	catalog state.Catalog,
	outForDelivery state.State,
	assignments map[kernel.UUID][]kernel.UUID,
) []DriverDispatchResult {
	driverIDs := make([]kernel.UUID, 0, len(assignments))
	for driverID := range assignments {
		driverIDs = append(driverIDs, driverID)
	}
	sort.Slice(driverIDs, func(i, j int) bool {
		return driverIDs[i].String() < driverIDs[j].String()
	})

	results := make([]DriverDispatchResult, len(driverIDs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(dispatchConcurrency)
	for i, driverID := range driverIDs {
		g.Go(func() error {
			results[i] = h.dispatchDriver(ctx, catalog, outForDelivery, driverID, assignments[driverID])
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (h DispatchOrdersCommandHandler) dispatchDriver(
	ctx context.Context,
	catalog state.Catalog,
	outForDelivery state.State,
	driverID kernel.UUID,
	orderIDs []kernel.UUID,
) DriverDispatchResult {
	result := DriverDispatchResult{
		DriverID: driverID,
		Orders:   make([]OrderResult, 0, len(orderIDs)),
	}

	if _, err := h.drivers.SetDispatched(ctx, driverID, orderIDs); err != nil {
		result.Error = err.Error()
		result.Err = err
	} else {
		result.Success = true
	}

	// Order handoff continues even when the ledger write failed: the orders
	// are physically leaving either way, and the report shows both outcomes.
	for _, orderID := range orderIDs {
		result.Orders = append(result.Orders, h.handOffOrder(ctx, catalog, outForDelivery, driverID, orderID))
	}

	return result
}

// handOffOrder re-reads the order for a fresh version, then transitions it to
// out-for-delivery and sets the driver reference in a single conditional
// update.
func (h DispatchOrdersCommandHandler) handOffOrder(
	ctx context.Context,
	catalog state.Catalog,
	outForDelivery state.State,
	driverID kernel.UUID,
	orderID kernel.UUID,
) OrderResult {
	o, err := h.orders.Get(ctx, orderID)
	if err != nil {
		return failedOrder(orderID, err)
	}

	if stage, known := currentStage(catalog, o); known {
		if stage == order.StageOutForDelivery {
			return skippedOrder(orderID)
		}
		if _, err := stage.TransitionTo(order.StageOutForDelivery); err != nil {
			return failedOrder(orderID, err)
		}
	}

	if _, err := h.orders.TransitionStateAndAssignDriver(ctx, o.ID(), o.Version(), outForDelivery.ID, driverID); err != nil {
		return failedOrder(orderID, err)
	}
	return succeededOrder(orderID)
}

func dispatchAuditRecords(report DispatchReport) []ports.AuditRecord {
	now := time.Now().UTC()
	records := make([]ports.AuditRecord, 0, len(report.Results))

	for _, dr := range report.Results {
		records = append(records, ports.AuditRecord{
			BatchID:   report.BatchID,
			Action:    ports.AuditActionDispatch,
			DriverID:  dr.DriverID,
			Success:   dr.Success,
			ErrorKind: errorKind(dr.Err),
			CreatedAt: now,
		})
		for _, or := range dr.Orders {
			records = append(records, ports.AuditRecord{
				BatchID:   report.BatchID,
				Action:    ports.AuditActionDispatch,
				DriverID:  dr.DriverID,
				OrderID:   or.OrderID,
				Success:   or.Success,
				ErrorKind: errorKind(or.Err),
				CreatedAt: now,
			})
		}
	}

	return records
}
