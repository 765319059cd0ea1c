package commercetools

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"pizzatools/internal/core/domain/model/driver"
	"pizzatools/internal/core/domain/model/kernel"
)

// DriverAdapter implements ports.DriverStore against the platform customer
// API. Drivers are customers carrying the driver custom type; the assignment
// ledger lives in their custom fields.
//
// Writes are read-modify-write: the current customer is fetched, the ledger
// merge happens on the domain type, and only the touched fields go back as
// setCustomField actions with the version just read. Unrelated custom fields
// are never part of the update, so they cannot be clobbered.
type DriverAdapter struct {
	client *Client
}

// NewDriverAdapter creates the driver store adapter.
func NewDriverAdapter(client *Client) *DriverAdapter {
	return &DriverAdapter{client: client}
}

// Get retrieves a driver by customer id.
func (a *DriverAdapter) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	dto, err := a.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.toDomain()
}

// SetDispatched merges the given orders into the driver's delivery ledger
// and marks the driver dispatched.
func (a *DriverAdapter) SetDispatched(
	ctx context.Context,
	id kernel.UUID,
	orderIDs []kernel.UUID,
) (*driver.Driver, error) {
	dto, err := a.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	d, err := dto.toDomain()
	if err != nil {
		return nil, err
	}

	if err := d.MarkDispatched(orderIDs); err != nil {
		return nil, err
	}

	deliveries := make([]string, 0, len(d.Deliveries()))
	for _, orderID := range d.Deliveries() {
		deliveries = append(deliveries, orderID.String())
	}

	// A customer without the driver type yet cannot take setCustomField;
	// establish the type and the ledger fields in one action instead.
	if dto.Custom == nil || dto.Custom.Type.key() != driverTypeKey {
		return a.update(ctx, id, dto.Version, []updateActionDTO{{
			Action: "setCustomType",
			Type:   &referenceDTO{TypeID: "type", Key: driverTypeKey},
			Fields: map[string]any{
				fieldDispatched: true,
				fieldDeliveries: deliveries,
			},
		}})
	}

	return a.update(ctx, id, dto.Version, []updateActionDTO{
		{Action: "setCustomField", Name: fieldDispatched, Value: true},
		{Action: "setCustomField", Name: fieldDeliveries, Value: deliveries},
	})
}

// ClearDispatched flips the dispatched flag off. The delivery ledger stays
// untouched; it is the driver's append-only history.
func (a *DriverAdapter) ClearDispatched(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	dto, err := a.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	return a.update(ctx, id, dto.Version, []updateActionDTO{
		{Action: "setCustomField", Name: fieldDispatched, Value: false},
	})
}

// Query lists all customers carrying the driver custom type.
func (a *DriverAdapter) Query(ctx context.Context) ([]*driver.Driver, error) {
	query := url.Values{}
	query.Set("limit", fmt.Sprintf("%d", queryLimit))
	query.Set("where", fmt.Sprintf("custom(type(key = %q))", driverTypeKey))

	var page pagedDTO[customerDTO]
	err := a.client.do(ctx, call{
		method:   http.MethodGet,
		path:     "/customers",
		query:    query,
		out:      &page,
		resource: "driver",
	})
	if err != nil {
		return nil, err
	}

	drivers := make([]*driver.Driver, 0, len(page.Results))
	for _, dto := range page.Results {
		d, err := dto.toDomain()
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, nil
}

func (a *DriverAdapter) fetch(ctx context.Context, id kernel.UUID) (customerDTO, error) {
	if err := id.Validate(); err != nil {
		return customerDTO{}, err
	}

	var dto customerDTO
	err := a.client.do(ctx, call{
		method:     http.MethodGet,
		path:       "/customers/" + id.String(),
		out:        &dto,
		resource:   "driver",
		resourceID: id.String(),
	})
	if err != nil {
		return customerDTO{}, err
	}
	return dto, nil
}

func (a *DriverAdapter) update(
	ctx context.Context,
	id kernel.UUID,
	version int64,
	actions []updateActionDTO,
) (*driver.Driver, error) {
	var dto customerDTO
	err := a.client.do(ctx, call{
		method:     http.MethodPost,
		path:       "/customers/" + id.String(),
		body:       updateRequestDTO{Version: version, Actions: actions},
		out:        &dto,
		resource:   "driver",
		resourceID: id.String(),
		version:    version,
	})
	if err != nil {
		return nil, err
	}
	return dto.toDomain()
}
