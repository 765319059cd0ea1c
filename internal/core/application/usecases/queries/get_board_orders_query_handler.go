package queries

import (
	"context"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"pizzatools/internal/core/domain/model/order"
	"pizzatools/internal/core/domain/model/state"
	"pizzatools/internal/core/ports"
)

// GetBoardOrdersQueryHandler builds the board read model. The entity store
// query filters by state reference and coarse order status; stage names come
// from the state catalog, with unknown states rendered as "Unknown" instead
// of failing the board.
type GetBoardOrdersQueryHandler struct {
	orders ports.OrderStore
	states ports.StateStore
}

// NewGetBoardOrdersQueryHandler creates a handler backed by the given order
// and state stores.
func NewGetBoardOrdersQueryHandler(orders ports.OrderStore, states ports.StateStore) GetBoardOrdersQueryHandler {
	return GetBoardOrdersQueryHandler{
		orders: orders,
		states: states,
	}
}

// Handle executes the board query. Results arrive newest first from the
// store; the method filter is applied client-side because the fulfillment
// method lives in a custom field the store cannot index.
func (h GetBoardOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetBoardOrdersQuery,
) ([]BoardOrder, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	catalog, err := h.states.Load(ctx)
	if err != nil {
		return nil, err
	}

	filter := ports.OrderFilter{OrderState: "Open"}
	for _, stage := range query.Stages() {
		if def, ok := catalog.ByKey(stage.String()); ok {
			filter.StateIDs = append(filter.StateIDs, def.ID)
		}
	}
	// requested stages exist but the catalog has none of them: nothing to show
	if len(filter.StateIDs) == 0 && len(query.Stages()) > 0 {
		return []BoardOrder{}, nil
	}

	found, err := h.orders.Query(ctx, filter)
	if err != nil {
		return nil, err
	}

	board := make([]BoardOrder, 0, len(found))
	for _, o := range found {
		if query.Method() != "" && !strings.EqualFold(o.Method(), query.Method()) {
			continue
		}
		board = append(board, toBoardOrder(catalog, o))
	}

	return board, nil
}

func toBoardOrder(catalog state.Catalog, o *order.Order) BoardOrder {
	info := catalog.InfoFor(o.StateID())
	details := o.Details()

	items := make([]BoardLineItem, 0, len(details.LineItems))
	for _, li := range details.LineItems {
		items = append(items, BoardLineItem{
			Name:        li.Name,
			Quantity:    li.Quantity,
			Ingredients: li.Ingredients,
			UnitPrice:   dollars(li.UnitPrice),
			TotalPrice:  dollars(li.TotalPrice),
		})
	}

	return BoardOrder{
		ID:           o.ID(),
		OrderNumber:  o.OrderNumber(),
		Stage:        info.Key,
		StageName:    info.Name,
		Method:       o.Method(),
		CustomerName: customerDisplayName(details),
		DriverID:     o.DriverID(),
		CreatedAt:    details.CreatedAt,
		TotalPrice:   dollars(details.TotalPrice),
		LineItems:    items,
	}
}

// customerDisplayName renders the shipping address names capitalized, falling
// back to the account email when the address carries no name.
func customerDisplayName(details order.Details) string {
	first := capitalize(details.ShippingAddress.FirstName)
	last := capitalize(details.ShippingAddress.LastName)

	name := strings.TrimSpace(first + " " + last)
	if name == "" {
		return details.CustomerEmail
	}
	return name
}

func capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// dollars converts platform cent amounts to decimal dollar values.
func dollars(m order.Money) decimal.Decimal {
	return decimal.New(m.CentAmount, -2)
}
