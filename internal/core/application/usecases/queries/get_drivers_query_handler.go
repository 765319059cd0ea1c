package queries

import (
	"context"
	"sort"

	"pizzatools/internal/core/domain/model/driver"
	"pizzatools/internal/core/domain/model/order"
	"pizzatools/internal/core/domain/model/state"
	"pizzatools/internal/core/ports"
)

// GetDriversQueryHandler builds the driver roster read model. Dispatched
// drivers' ledgers accumulate across runs, so the expanded deliveries are
// narrowed to open, non-terminal orders before display.
type GetDriversQueryHandler struct {
	drivers ports.DriverStore
	orders  ports.OrderStore
	states  ports.StateStore
}

// NewGetDriversQueryHandler creates a handler backed by the given stores.
func NewGetDriversQueryHandler(
	drivers ports.DriverStore,
	orders ports.OrderStore,
	states ports.StateStore,
) GetDriversQueryHandler {
	return GetDriversQueryHandler{
		drivers: drivers,
		orders:  orders,
		states:  states,
	}
}

// Handle executes the roster query, sorted by driver name for stable display.
func (h GetDriversQueryHandler) Handle(
	ctx context.Context,
	query GetDriversQuery,
) ([]RosterDriver, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	all, err := h.drivers.Query(ctx)
	if err != nil {
		return nil, err
	}

	var catalog state.Catalog
	if query.IncludeDispatched() {
		catalog, err = h.states.Load(ctx)
		if err != nil {
			return nil, err
		}
	}

	roster := make([]RosterDriver, 0, len(all))
	for _, d := range all {
		if !query.IncludeDispatched() && !d.IsAvailable() {
			continue
		}

		entry := RosterDriver{
			ID:         d.ID(),
			Name:       d.FullName(),
			Phone:      d.Phone(),
			Working:    d.IsWorking(),
			Dispatched: d.IsDispatched(),
		}
		if query.IncludeDispatched() && d.IsDispatched() {
			entry.Deliveries = h.openDeliveries(ctx, catalog, d)
		}
		roster = append(roster, entry)
	}

	sort.Slice(roster, func(i, j int) bool {
		return roster[i].Name < roster[j].Name
	})

	return roster, nil
}

// openDeliveries expands a dispatched driver's ledger to the orders still on
// the road. Orders that cannot be read are left out of the display rather
// than failing the roster.
func (h GetDriversQueryHandler) openDeliveries(
	ctx context.Context,
	catalog state.Catalog,
	d *driver.Driver,
) []DriverDelivery {
	deliveries := make([]DriverDelivery, 0)
	for _, orderID := range d.Deliveries() {
		o, err := h.orders.Get(ctx, orderID)
		if err != nil {
			continue
		}
		if o.OrderState() != "Open" {
			continue
		}

		info := catalog.InfoFor(o.StateID())
		if stage, err := order.ParseStage(info.Key); err == nil && stage.IsTerminal() {
			continue
		}

		deliveries = append(deliveries, DriverDelivery{
			OrderID:      o.ID(),
			OrderNumber:  o.OrderNumber(),
			Stage:        info.Key,
			CustomerName: customerDisplayName(o.Details()),
		})
	}
	return deliveries
}
