package queries

import (
	"errors"

	"pizzatools/internal/core/domain/model/kernel"
	"pizzatools/internal/pkg/guard"
)

var ErrGetDriversQueryIsNotConstructed = errors.New(
	"GetDriversQuery must be created via NewGetDriversQuery constructor",
)

// GetDriversQuery retrieves the driver roster. By default only available
// drivers (working and not dispatched) are returned, which is what the
// dispatch board offers for assignment. With includeDispatched the roster
// also lists drivers currently on the road, each with their open deliveries
// expanded for the tracking view.
type GetDriversQuery struct {
	includeDispatched bool
	guard             guard.ConstructorGuard
}

// NewGetDriversQuery creates a roster query.
func NewGetDriversQuery(includeDispatched bool) GetDriversQuery {
	return GetDriversQuery{
		includeDispatched: includeDispatched,
		guard:             guard.NewConstructorGuard(),
	}
}

// IncludeDispatched reports whether on-the-road drivers are included.
func (q GetDriversQuery) IncludeDispatched() bool {
	return q.includeDispatched
}

// Validate ensures the query was created through the constructor.
func (q GetDriversQuery) Validate() error {
	return q.guard.Validate(ErrGetDriversQueryIsNotConstructed)
}

// DriverDelivery is one open order a dispatched driver is carrying.
type DriverDelivery struct {
	OrderID      kernel.UUID `json:"orderId"`
	OrderNumber  string      `json:"orderNumber"`
	Stage        string      `json:"stage"`
	CustomerName string      `json:"customerName"`
}

// RosterDriver is the roster read model for one driver.
type RosterDriver struct {
	ID         kernel.UUID      `json:"id"`
	Name       string           `json:"name"`
	Phone      string           `json:"phone"`
	Working    bool             `json:"working"`
	Dispatched bool             `json:"dispatched"`
	Deliveries []DriverDelivery `json:"deliveries,omitempty"`
}
