package commands_test

import (
	"context"
	"sync"

	"pizzatools/internal/core/domain/model/driver"
	"pizzatools/internal/core/domain/model/kernel"
	"pizzatools/internal/core/domain/model/order"
	"pizzatools/internal/core/domain/model/state"
	"pizzatools/internal/core/ports"
	"pizzatools/internal/pkg/errs"
)

// pipelineCatalog builds a state catalog with one definition per pipeline
// stage and returns the id lookup used to seed orders.
func pipelineCatalog() (state.Catalog, map[order.Stage]kernel.UUID) {
	stages := []order.Stage{
		order.StagePrepPending,
		order.StageInOven,
		order.StagePendingDelivery,
		order.StageOutForDelivery,
		order.StageDelivered,
		order.StageCancelled,
	}

	ids := make(map[order.Stage]kernel.UUID, len(stages))
	defs := make([]state.State, 0, len(stages))
	for i, stage := range stages {
		id := kernel.NewUUID()
		ids[stage] = id
		defs = append(defs, state.State{
			ID:      id,
			Key:     stage.String(),
			Name:    stage.String(),
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

type orderRecord struct {
	version  int64
	stateID  kernel.UUID
	driverID *kernel.UUID
}

// fakeOrderStore is a thread-safe in-memory order store with real optimistic
// concurrency: a transition with a stale version fails, a successful one
// bumps the version.
type fakeOrderStore struct {
	mu       sync.Mutex
	orders   map[kernel.UUID]*orderRecord
	failOnce map[kernel.UUID]error
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		orders:   make(map[kernel.UUID]*orderRecord),
		failOnce: make(map[kernel.UUID]error),
	}
}

func (s *fakeOrderStore) add(id kernel.UUID, stateID kernel.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[id] = &orderRecord{version: 1, stateID: stateID}
}

// failNextTransition makes the next transition of the given order fail once.
func (s *fakeOrderStore) failNextTransition(id kernel.UUID, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOnce[id] = err
}

func (s *fakeOrderStore) stateOf(id kernel.UUID) kernel.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[id].stateID
}

func (s *fakeOrderStore) driverOf(id kernel.UUID) *kernel.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[id].driverID
}

func (s *fakeOrderStore) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	o, err := order.NewOrder(id, "PZ-1001", rec.version, rec.stateID, "Open")
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (s *fakeOrderStore) TransitionState(
	_ context.Context,
	id kernel.UUID,
	version int64,
	stateID kernel.UUID,
) (*order.Order, error) {
	return s.transition(id, version, stateID, nil)
}

func (s *fakeOrderStore) TransitionStateAndAssignDriver(
	_ context.Context,
	id kernel.UUID,
	version int64,
	stateID kernel.UUID,
	driverID kernel.UUID,
) (*order.Order, error) {
	return s.transition(id, version, stateID, &driverID)
}

func (s *fakeOrderStore) transition(
	id kernel.UUID,
	version int64,
	stateID kernel.UUID,
	driverID *kernel.UUID,
) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	if err, ok := s.failOnce[id]; ok {
		delete(s.failOnce, id)
		return nil, err
	}
	if rec.version != version {
		return nil, errs.NewVersionConflictError("order", id.String(), version)
	}

	rec.version++
	rec.stateID = stateID
	if driverID != nil {
		rec.driverID = driverID
	}
	return order.NewOrder(id, "PZ-1001", rec.version, rec.stateID, "Open")
}

func (s *fakeOrderStore) Query(context.Context, ports.OrderFilter) ([]*order.Order, error) {
	return nil, nil
}

type driverRecord struct {
	version    int64
	working    bool
	dispatched bool
	deliveries []kernel.UUID
}

type fakeDriverStore struct {
	mu          sync.Mutex
	drivers     map[kernel.UUID]*driverRecord
	setErr      map[kernel.UUID]error
	setDispatch int
}

func newFakeDriverStore() *fakeDriverStore {
	return &fakeDriverStore{
		drivers: make(map[kernel.UUID]*driverRecord),
		setErr:  make(map[kernel.UUID]error),
	}
}

func (s *fakeDriverStore) add(id kernel.UUID, deliveries ...kernel.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drivers[id] = &driverRecord{version: 1, working: true, deliveries: deliveries}
}

func (s *fakeDriverStore) record(id kernel.UUID) driverRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.drivers[id]
}

func (s *fakeDriverStore) build(id kernel.UUID, rec *driverRecord) (*driver.Driver, error) {
	d, err := driver.NewDriver(id, rec.version, "jane", "doe")
	if err != nil {
		return nil, err
	}
	d.SetStatus(rec.working, rec.dispatched, rec.deliveries)
	return d, nil
}

func (s *fakeDriverStore) Get(_ context.Context, id kernel.UUID) (*driver.Driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.drivers[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("driver", id.String())
	}
	return s.build(id, rec)
}

func (s *fakeDriverStore) SetDispatched(
	_ context.Context,
	id kernel.UUID,
	orderIDs []kernel.UUID,
) (*driver.Driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setDispatch++
	if err, ok := s.setErr[id]; ok {
		return nil, err
	}
	rec, ok := s.drivers[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("driver", id.String())
	}

	d, err := s.build(id, rec)
	if err != nil {
		return nil, err
	}
	if err := d.MarkDispatched(orderIDs); err != nil {
		return nil, err
	}

	rec.version++
	rec.dispatched = d.IsDispatched()
	rec.deliveries = d.Deliveries()
	return s.build(id, rec)
}

func (s *fakeDriverStore) ClearDispatched(_ context.Context, id kernel.UUID) (*driver.Driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.setErr[id]; ok {
		return nil, err
	}
	rec, ok := s.drivers[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("driver", id.String())
	}

	rec.version++
	rec.dispatched = false
	return s.build(id, rec)
}

func (s *fakeDriverStore) Query(context.Context) ([]*driver.Driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*driver.Driver, 0, len(s.drivers))
	for id, rec := range s.drivers {
		d, err := s.build(id, rec)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

type captureAuditLog struct {
	mu      sync.Mutex
	records []ports.AuditRecord
}

func (l *captureAuditLog) RecordBatch(_ context.Context, records []ports.AuditRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, records...)
	return nil
}

func (l *captureAuditLog) all() []ports.AuditRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]ports.AuditRecord(nil), l.records...)
}
