// Package http exposes the fulfillment operations over REST. Handlers stay
// thin: they parse and validate input, call the command or query handler, and
// translate the error taxonomy to status codes. Orchestration reports are
// returned verbatim so callers see per-item outcomes, never a single boolean
// collapsed over a multi-entity batch.
package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"pizzatools/internal/core/application/usecases/commands"
	"pizzatools/internal/core/application/usecases/queries"
	"pizzatools/internal/core/domain/model/kernel"
	"pizzatools/internal/core/domain/model/order"
	"pizzatools/internal/pkg/errs"
)

// Server wires the HTTP routes to the application layer.
type Server struct {
	transitionOrderHandler commands.TransitionOrderCommandHandler
	dispatchOrdersHandler  commands.DispatchOrdersCommandHandler
	returnDriverHandler    commands.ReturnDriverCommandHandler

	getBoardOrdersHandler queries.GetBoardOrdersQueryHandler
	getDriversHandler     queries.GetDriversQueryHandler
}

// NewServer creates the HTTP server with the required command and query
// handlers.
func NewServer(
	transitionOrderHandler commands.TransitionOrderCommandHandler,
	dispatchOrdersHandler commands.DispatchOrdersCommandHandler,
	returnDriverHandler commands.ReturnDriverCommandHandler,
	getBoardOrdersHandler queries.GetBoardOrdersQueryHandler,
	getDriversHandler queries.GetDriversQueryHandler,
) *Server {
	return &Server{
		transitionOrderHandler: transitionOrderHandler,
		dispatchOrdersHandler:  dispatchOrdersHandler,
		returnDriverHandler:    returnDriverHandler,
		getBoardOrdersHandler:  getBoardOrdersHandler,
		getDriversHandler:      getDriversHandler,
	}
}

// RegisterRoutes attaches all fulfillment routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.GET("/orders", s.GetMakelineOrders)
	e.POST("/orders/:id/state", s.TransitionOrder)
	e.GET("/api/orders", s.GetBoardOrders)
	e.POST("/api/dispatch", s.DispatchOrders)
	e.POST("/api/drivers/:id/return", s.ReturnDriver)
	e.GET("/api/drivers", s.GetDrivers)
}

// errorDTO is the error envelope for all failure responses.
type errorDTO struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// GetMakelineOrders handles GET /orders - the makeline board, open orders
// waiting for prep.
func (s *Server) GetMakelineOrders(ctx echo.Context) error {
	query, err := queries.NewGetBoardOrdersQuery([]string{order.StagePrepPending.String()}, "")
	if err != nil {
		return s.fail(ctx, err)
	}

	board, err := s.getBoardOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, board)
}

// GetBoardOrders handles GET /api/orders?stage=&method= - the dispatch board
// query. stage may repeat for multiple pipeline stages.
func (s *Server) GetBoardOrders(ctx echo.Context) error {
	stages := ctx.QueryParams()["stage"]
	method := ctx.QueryParam("method")

	query, err := queries.NewGetBoardOrdersQuery(stages, method)
	if err != nil {
		return s.fail(ctx, err)
	}

	board, err := s.getBoardOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, board)
}

type transitionRequestDTO struct {
	State string `json:"state"`
}

// TransitionOrder handles POST /orders/:id/state - a single pipeline
// transition.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorDTO{
			Code:    http.StatusBadRequest,
			Message: "invalid order id",
		})
	}

	var body transitionRequestDTO
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorDTO{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, body.State)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.transitionOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, result)
}

type dispatchRequestDTO struct {
	Assignments map[string][]string `json:"assignments"`
}

// DispatchOrders handles POST /api/dispatch - the two-phase dispatch batch.
func (s *Server) DispatchOrders(ctx echo.Context) error {
	var body dispatchRequestDTO
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorDTO{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	assignments := make(map[kernel.UUID][]kernel.UUID, len(body.Assignments))
	for rawDriver, rawOrders := range body.Assignments {
		driverID, err := kernel.UUIDFromString(rawDriver)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, errorDTO{
				Code:    http.StatusBadRequest,
				Message: "invalid driver id: " + rawDriver,
			})
		}
		orderIDs := make([]kernel.UUID, 0, len(rawOrders))
		for _, rawOrder := range rawOrders {
			orderID, err := kernel.UUIDFromString(rawOrder)
			if err != nil {
				return ctx.JSON(http.StatusBadRequest, errorDTO{
					Code:    http.StatusBadRequest,
					Message: "invalid order id: " + rawOrder,
				})
			}
			orderIDs = append(orderIDs, orderID)
		}
		assignments[driverID] = orderIDs
	}

	cmd, err := commands.NewDispatchOrdersCommand(assignments)
	if err != nil {
		return s.fail(ctx, err)
	}

	report, err := s.dispatchOrdersHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, report)
}

// ReturnDriver handles POST /api/drivers/:id/return - settles a driver's
// delivery run.
func (s *Server) ReturnDriver(ctx echo.Context) error {
	driverID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorDTO{
			Code:    http.StatusBadRequest,
			Message: "invalid driver id",
		})
	}

	cmd, err := commands.NewReturnDriverCommand(driverID)
	if err != nil {
		return s.fail(ctx, err)
	}

	report, err := s.returnDriverHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, report)
}

// GetDrivers handles GET /api/drivers?includeDispatched= - the driver roster.
func (s *Server) GetDrivers(ctx echo.Context) error {
	includeDispatched := ctx.QueryParam("includeDispatched") == "true"

	roster, err := s.getDriversHandler.Handle(
		ctx.Request().Context(),
		queries.NewGetDriversQuery(includeDispatched),
	)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, roster)
}

// fail maps the fulfillment error taxonomy to HTTP status codes.
func (s *Server) fail(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrUnknownState),
		errors.Is(err, errs.ErrIllegalTransition),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		status = http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrVersionConflict):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrTransientNetwork):
		status = http.StatusBadGateway
	}

	return ctx.JSON(status, errorDTO{Code: status, Message: err.Error()})
}
