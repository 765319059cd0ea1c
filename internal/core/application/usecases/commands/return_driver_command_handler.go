package commands

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"pizzatools/internal/core/domain/model/kernel"
	"pizzatools/internal/core/domain/model/order"
	"pizzatools/internal/core/domain/model/state"
	"pizzatools/internal/core/ports"
	"pizzatools/internal/pkg/errs"
)

// ReturnReport aggregates the outcome of one driver return. Success reflects
// the ledger flag write; Orders holds the settlement result for every order
// in the driver's delivery history.
type ReturnReport struct {
	BatchID  kernel.UUID   `json:"batchId"`
	DriverID kernel.UUID   `json:"driverId"`
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
	Err      error         `json:"-"`
	Orders   []OrderResult `json:"orders"`
}

// ReturnDriverCommandHandler settles a driver's delivery run. The driver's
// Dispatched flag is cleared (the delivery ledger itself is append-only and
// stays intact) and every order in the ledger is transitioned to "delivered".
// Orders already terminal are skipped: the ledger accumulates across runs, so
// most entries from earlier cycles are long since delivered or cancelled.
//
// Failures are per-order; one stuck order never blocks the driver's return.
type ReturnDriverCommandHandler struct {
	orders  ports.OrderStore
	drivers ports.DriverStore
	states  ports.StateStore
	audit   ports.AuditLog
}

// NewReturnDriverCommandHandler creates the return handler. A nil audit log
// falls back to the no-op implementation.
func NewReturnDriverCommandHandler(
	orders ports.OrderStore,
	drivers ports.DriverStore,
	states ports.StateStore,
	audit ports.AuditLog,
) ReturnDriverCommandHandler {
	if audit == nil {
		audit = ports.NoopAuditLog{}
	}
	return ReturnDriverCommandHandler{
		orders:  orders,
		drivers: drivers,
		states:  states,
		audit:   audit,
	}
}

// Handle clears the driver's dispatched flag and settles the ledger orders.
// The returned error covers batch-fatal conditions only: an invalid command,
// an unresolvable driver, or the "delivered" state missing from the catalog.
func (h ReturnDriverCommandHandler) Handle(
	ctx context.Context,
	command ReturnDriverCommand,
) (ReturnReport, error) {
	if err := command.Validate(); err != nil {
		return ReturnReport{}, err
	}

	catalog, err := h.states.Load(ctx)
	if err != nil {
		return ReturnReport{}, err
	}

	delivered, ok := catalog.ByKey(order.StageDelivered.String())
	if !ok {
		return ReturnReport{}, errs.NewUnknownStateError(order.StageDelivered.String())
	}

	d, err := h.drivers.Get(ctx, command.DriverID())
	if err != nil {
		return ReturnReport{}, err
	}

	report := ReturnReport{
		BatchID:  kernel.NewUUID(),
		DriverID: d.ID(),
	}

	if _, err := h.drivers.ClearDispatched(ctx, d.ID()); err != nil {
		report.Error = err.Error()
		report.Err = err
	} else {
		report.Success = true
	}

	report.Orders = h.settleOrders(ctx, catalog, delivered, d.Deliveries())

	_ = h.audit.RecordBatch(ctx, returnAuditRecords(report))

	return report, nil
}

// settleOrders transitions every ledger order to delivered, skipping orders
// already in a terminal stage.
func (h ReturnDriverCommandHandler) settleOrders(
	ctx context.Context,
	catalog state.Catalog,
	delivered state.State,
	orderIDs []kernel.UUID,
) []OrderResult {
	results := make([]OrderResult, len(orderIDs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(dispatchConcurrency)
	for i, orderID := range orderIDs {
		g.Go(func() error {
			results[i] = h.settleOrder(ctx, catalog, delivered, orderID)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (h ReturnDriverCommandHandler) settleOrder(
	ctx context.Context,
	catalog state.Catalog,
	delivered state.State,
	orderID kernel.UUID,
) OrderResult {
	o, err := h.orders.Get(ctx, orderID)
	if err != nil {
		return failedOrder(orderID, err)
	}

	if stage, known := currentStage(catalog, o); known {
		if stage.IsTerminal() {
			return skippedOrder(orderID)
		}
		if _, err := stage.TransitionTo(order.StageDelivered); err != nil {
			return failedOrder(orderID, err)
		}
	}

	if _, err := h.orders.TransitionState(ctx, o.ID(), o.Version(), delivered.ID); err != nil {
		return failedOrder(orderID, err)
	}
	return succeededOrder(orderID)
}

func returnAuditRecords(report ReturnReport) []ports.AuditRecord {
	now := time.Now().UTC()
	records := make([]ports.AuditRecord, 0, len(report.Orders)+1)

	records = append(records, ports.AuditRecord{
		BatchID:   report.BatchID,
		Action:    ports.AuditActionReturn,
		DriverID:  report.DriverID,
		Success:   report.Success,
		ErrorKind: errorKind(report.Err),
		CreatedAt: now,
	})
	for _, or := range report.Orders {
		records = append(records, ports.AuditRecord{
			BatchID:   report.BatchID,
			Action:    ports.AuditActionReturn,
			DriverID:  report.DriverID,
			OrderID:   or.OrderID,
			Success:   or.Success,
			ErrorKind: errorKind(or.Err),
			CreatedAt: now,
		})
	}

	return records
}
