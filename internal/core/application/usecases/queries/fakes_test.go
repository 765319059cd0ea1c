package queries_test

import (
	"context"
	"sort"
	"time"

	"pizzatools/internal/core/domain/model/driver"
	"pizzatools/internal/core/domain/model/kernel"
	"pizzatools/internal/core/domain/model/order"
	"pizzatools/internal/core/domain/model/state"
	"pizzatools/internal/core/ports"
	"pizzatools/internal/pkg/errs"
)

func pipelineCatalog() (state.Catalog, map[order.Stage]kernel.UUID) {
	stages := []order.Stage{
		order.StagePrepPending,
		order.StageInOven,
		order.StagePendingDelivery,
		order.StageOutForDelivery,
		order.StageDelivered,
		order.StageCancelled,
	}
	names := map[order.Stage]string{
		order.StagePrepPending:     "Prep Pending",
		order.StageInOven:          "In Oven",
		order.StagePendingDelivery: "Pending Delivery",
		order.StageOutForDelivery:  "Out For Delivery",
		order.StageDelivered:       "Delivered",
		order.StageCancelled:       "Cancelled",
	}

	ids := make(map[order.Stage]kernel.UUID, len(stages))
	defs := make([]state.State, 0, len(stages))
	for i, stage := range stages {
		id := kernel.NewUUID()
		ids[stage] = id
		defs = append(defs, state.State{
			ID:      id,
			Key:     stage.String(),
			Name:    names[stage],
			Initial: i == 0,
		})
	}
	return state.NewCatalog(defs), ids
}

type fakeStateStore struct {
	catalog state.Catalog
}

func (s *fakeStateStore) Load(context.Context) (state.Catalog, error) {
	return s.catalog, nil
}

// fakeOrderStore serves canned order projections and answers queries with
// in-memory filtering by state reference and coarse status, newest first.
type fakeOrderStore struct {
	orders []*order.Order
}

func (s *fakeOrderStore) add(o *order.Order) {
	s.orders = append(s.orders, o)
}

func (s *fakeOrderStore) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	for _, o := range s.orders {
		if o.ID().IsEqual(id) {
			return o, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("order", id.String())
}

func (s *fakeOrderStore) TransitionState(
	_ context.Context, id kernel.UUID, _ int64, _ kernel.UUID,
) (*order.Order, error) {
	return nil, errs.NewObjectNotFoundError("order", id.String())
}

func (s *fakeOrderStore) TransitionStateAndAssignDriver(
	_ context.Context, id kernel.UUID, _ int64, _ kernel.UUID, _ kernel.UUID,
) (*order.Order, error) {
	return nil, errs.NewObjectNotFoundError("order", id.String())
}

func (s *fakeOrderStore) Query(_ context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	matched := make([]*order.Order, 0)
	for _, o := range s.orders {
		if filter.OrderState != "" && o.OrderState() != filter.OrderState {
			continue
		}
		if len(filter.StateIDs) > 0 && !containsID(filter.StateIDs, o.StateID()) {
			continue
		}
		matched = append(matched, o)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Details().CreatedAt.After(matched[j].Details().CreatedAt)
	})
	return matched, nil
}

func containsID(ids []kernel.UUID, id kernel.UUID) bool {
	for _, candidate := range ids {
		if candidate.IsEqual(id) {
			return true
		}
	}
	return false
}

type fakeDriverStore struct {
	drivers []*driver.Driver
}

func (s *fakeDriverStore) add(d *driver.Driver) {
	s.drivers = append(s.drivers, d)
}

func (s *fakeDriverStore) Get(_ context.Context, id kernel.UUID) (*driver.Driver, error) {
	for _, d := range s.drivers {
		if d.ID().IsEqual(id) {
			return d, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("driver", id.String())
}

func (s *fakeDriverStore) SetDispatched(
	_ context.Context, id kernel.UUID, _ []kernel.UUID,
) (*driver.Driver, error) {
	return nil, errs.NewObjectNotFoundError("driver", id.String())
}

func (s *fakeDriverStore) ClearDispatched(_ context.Context, id kernel.UUID) (*driver.Driver, error) {
	return nil, errs.NewObjectNotFoundError("driver", id.String())
}

func (s *fakeDriverStore) Query(context.Context) ([]*driver.Driver, error) {
	return append([]*driver.Driver(nil), s.drivers...), nil
}

func mustOrder(
	stateID kernel.UUID,
	orderState string,
	number string,
	details order.Details,
) *order.Order {
	o, err := order.NewOrder(kernel.NewUUID(), number, 1, stateID, orderState)
	if err != nil {
		panic(err)
	}
	o.SetDetails(details)
	return o
}

func mustDriver(first, last string, working, dispatched bool, deliveries ...kernel.UUID) *driver.Driver {
	d, err := driver.NewDriver(kernel.NewUUID(), 1, first, last)
	if err != nil {
		panic(err)
	}
	d.SetStatus(working, dispatched, deliveries)
	return d
}

func at(minutesAgo int) time.Time {
	return time.Now().Add(-time.Duration(minutesAgo) * time.Minute)
}
