package commercetools

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"pizzatools/internal/core/domain/model/kernel"
	"pizzatools/internal/core/domain/model/order"
	"pizzatools/internal/core/ports"
)

// OrderAdapter implements ports.OrderStore against the platform order API.
// Single-order reads and writes go through the project-wide endpoint; list
// queries are scoped to the configured store.
type OrderAdapter struct {
	client *Client
}

// NewOrderAdapter creates the order store adapter.
func NewOrderAdapter(client *Client) *OrderAdapter {
	return &OrderAdapter{client: client}
}

type updateActionDTO struct {
	Action string         `json:"action"`
	State  *referenceDTO  `json:"state,omitempty"`
	Name   string         `json:"name,omitempty"`
	Value  any            `json:"value,omitempty"`
	Type   *referenceDTO  `json:"type,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

type updateRequestDTO struct {
	Version int64             `json:"version"`
	Actions []updateActionDTO `json:"actions"`
}

// Get retrieves an order by id.
func (a *OrderAdapter) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto orderDTO
	err := a.client.do(ctx, call{
		method:     http.MethodGet,
		path:       "/orders/" + id.String(),
		out:        &dto,
		resource:   "order",
		resourceID: id.String(),
	})
	if err != nil {
		return nil, err
	}
	return dto.toDomain()
}

// TransitionState moves the order to the given state in one conditional
// update.
func (a *OrderAdapter) TransitionState(
	ctx context.Context,
	id kernel.UUID,
	version int64,
	stateID kernel.UUID,
) (*order.Order, error) {
	return a.update(ctx, id, version, []updateActionDTO{
		transitionAction(stateID),
	})
}

// TransitionStateAndAssignDriver moves the order and sets its Driver custom
// field in the same conditional update. The platform applies all actions of
// one request atomically, which is the per-order guarantee the dispatch
// orchestration builds on.
func (a *OrderAdapter) TransitionStateAndAssignDriver(
	ctx context.Context,
	id kernel.UUID,
	version int64,
	stateID kernel.UUID,
	driverID kernel.UUID,
) (*order.Order, error) {
	return a.update(ctx, id, version, []updateActionDTO{
		transitionAction(stateID),
		{Action: "setCustomField", Name: fieldDriver, Value: driverID.String()},
	})
}

func (a *OrderAdapter) update(
	ctx context.Context,
	id kernel.UUID,
	version int64,
	actions []updateActionDTO,
) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto orderDTO
	err := a.client.do(ctx, call{
		method:     http.MethodPost,
		path:       "/orders/" + id.String(),
		body:       updateRequestDTO{Version: version, Actions: actions},
		out:        &dto,
		resource:   "order",
		resourceID: id.String(),
		version:    version,
	})
	if err != nil {
		return nil, err
	}
	return dto.toDomain()
}

func transitionAction(stateID kernel.UUID) updateActionDTO {
	return updateActionDTO{
		Action: "transitionState",
		State:  &referenceDTO{TypeID: "state", ID: stateID.String()},
	}
}

// Query lists the store's orders matching the filter, newest first.
func (a *OrderAdapter) Query(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	query := url.Values{}
	query.Set("limit", fmt.Sprintf("%d", queryLimit))
	query.Set("sort", "createdAt desc")
	for _, clause := range whereClauses(filter) {
		query.Add("where", clause)
	}

	var page pagedDTO[orderDTO]
	err := a.client.do(ctx, call{
		method:   http.MethodGet,
		path:     "/in-store/key=" + a.client.storeKey + "/orders",
		query:    query,
		out:      &page,
		resource: "order",
	})
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(page.Results))
	for _, dto := range page.Results {
		o, err := dto.toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// whereClauses renders the filter in the platform's predicate language.
func whereClauses(filter ports.OrderFilter) []string {
	clauses := make([]string, 0, 2)
	if filter.OrderState != "" {
		clauses = append(clauses, fmt.Sprintf("orderState = %q", filter.OrderState))
	}
	if len(filter.StateIDs) > 0 {
		quoted := make([]string, 0, len(filter.StateIDs))
		for _, id := range filter.StateIDs {
			quoted = append(quoted, fmt.Sprintf("%q", id.String()))
		}
		clauses = append(clauses, fmt.Sprintf("state(id in (%s))", strings.Join(quoted, ", ")))
	}
	return clauses
}
