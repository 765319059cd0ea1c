// Package queries contains the read side of the fulfillment core: board
// read models for the makeline and dispatch views and the driver roster.
// Queries go straight to the entity store through ports and enrich the raw
// projections with catalog names and display formatting.
package queries

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"pizzatools/internal/core/domain/model/kernel"
	"pizzatools/internal/core/domain/model/order"
	"pizzatools/internal/pkg/guard"
)

var ErrGetBoardOrdersQueryIsNotConstructed = errors.New(
	"GetBoardOrdersQuery must be created via NewGetBoardOrdersQuery constructor",
)

// GetBoardOrdersQuery retrieves open orders for a fulfillment board, filtered
// by pipeline stage and optionally by fulfillment method. The makeline board
// asks for "prep-pending", the dispatch board for the delivery stages.
//
// Example:
//
//	query, err := NewGetBoardOrdersQuery([]string{"in-oven", "pending-delivery"}, "delivery")
//	if err != nil {
//	    return err
//	}
//	orders, err := handler.Handle(ctx, query)
type GetBoardOrdersQuery struct {
	stages []order.Stage
	method string
	guard  guard.ConstructorGuard
}

// NewGetBoardOrdersQuery creates a board query. Every stage key must belong
// to the pipeline vocabulary; an empty stage list means all open orders.
// method filters by fulfillment method ("delivery", "pickup"); empty means
// all methods.
func NewGetBoardOrdersQuery(stageKeys []string, method string) (GetBoardOrdersQuery, error) {
	stages := make([]order.Stage, 0, len(stageKeys))
	for _, key := range stageKeys {
		stage, err := order.ParseStage(key)
		if err != nil {
			return GetBoardOrdersQuery{}, err
		}
		stages = append(stages, stage)
	}

	return GetBoardOrdersQuery{
		stages: stages,
		method: method,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Stages returns the requested pipeline stages.
func (q GetBoardOrdersQuery) Stages() []order.Stage {
	return append([]order.Stage(nil), q.stages...)
}

// Method returns the fulfillment method filter, empty for all.
func (q GetBoardOrdersQuery) Method() string {
	return q.method
}

// Validate ensures the query was created through the constructor.
func (q GetBoardOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetBoardOrdersQueryIsNotConstructed)
}

// BoardLineItem is one ordered product as the boards render it, with the
// topping composition the makeline needs and prices in decimal dollars.
type BoardLineItem struct {
	Name        string          `json:"name"`
	Quantity    int             `json:"quantity"`
	Ingredients []string        `json:"ingredients"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
}

// BoardOrder is the board read model for one open order.
type BoardOrder struct {
	ID           kernel.UUID     `json:"id"`
	OrderNumber  string          `json:"orderNumber"`
	Stage        string          `json:"stage"`
	StageName    string          `json:"stageName"`
	Method       string          `json:"method"`
	CustomerName string          `json:"customerName"`
	DriverID     *kernel.UUID    `json:"driverId,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
	LineItems    []BoardLineItem `json:"lineItems"`
}
