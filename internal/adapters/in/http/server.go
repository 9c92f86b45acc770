package http

import (
	"log/slog"
	"net/http"

	"storefront/internal/core/application/authgate"
	"storefront/internal/core/application/notifications"
	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/generated/servers"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const replayAction = "replay order events"

var _ servers.ServerInterface = (*Server)(nil)

// Dependencies are the use cases the HTTP server fronts.
type Dependencies struct {
	// Command handlers
	CreateOrder     *commands.CreateOrderCommandHandler
	TransitionOrder *commands.TransitionOrderCommandHandler

	// Query handlers
	GetOrder          queries.GetOrderQueryHandler
	GetOrdersByStatus queries.GetOrdersByStatusQueryHandler

	// Notifications
	Registry  *notifications.Registry
	Publisher *notifications.Publisher
	Gate      *authgate.Gate

	// WSOriginPatterns lists extra origins allowed to open the push channel,
	// in path.Match syntax. Same-origin upgrades are always accepted.
	WSOriginPatterns []string
}

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	createOrderHandler     *commands.CreateOrderCommandHandler
	transitionOrderHandler *commands.TransitionOrderCommandHandler

	getOrderHandler          queries.GetOrderQueryHandler
	getOrdersByStatusHandler queries.GetOrdersByStatusQueryHandler

	registry  *notifications.Registry
	publisher *notifications.Publisher
	gate      *authgate.Gate
	wsOrigins []string
	logger    *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(deps Dependencies, logger *slog.Logger) *Server {
	return &Server{
		createOrderHandler:       deps.CreateOrder,
		transitionOrderHandler:   deps.TransitionOrder,
		getOrderHandler:          deps.GetOrder,
		getOrdersByStatusHandler: deps.GetOrdersByStatus,
		registry:                 deps.Registry,
		publisher:                deps.Publisher,
		gate:                     deps.Gate,
		wsOrigins:                deps.WSOriginPatterns,
		logger:                   logger.With("component", "http_server"),
	}
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// CreateOrder handles POST /orders - places a new PENDING order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	var newOrder servers.NewOrder
	if err = ctx.Bind(&newOrder); err != nil {
		return writeError(ctx, http.StatusBadRequest, "Invalid request body")
	}

	orderID := kernel.NewOrderID()
	if newOrder.Id != nil {
		if orderID, err = kernel.OrderIDFromString(*newOrder.Id); err != nil {
			return s.errorResponse(ctx, err)
		}
	}
	customerID := actor.ID()
	if newOrder.CustomerId != nil {
		customerID = *newOrder.CustomerId
	}
	total, err := kernel.MoneyFromString(newOrder.TotalAmount)
	if err != nil {
		return s.errorResponse(ctx, err)
	}
	method, err := order.ParsePaymentMethod(string(newOrder.PaymentMethod))
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	cmd, err := commands.NewCreateOrderCommand(orderID, actor, customerID, total, method)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	o, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toOrderResponse(o))
}

// GetOrder handles GET /orders/{id}. Customers only see their own orders;
// anything else is reported as not found.
func (s *Server) GetOrder(ctx echo.Context, id servers.OrderId) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	orderID, err := kernel.OrderIDFromString(id)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(orderID, actor)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	o, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(o))
}

// ListOrders handles GET /orders?status=... - the operator view of one status.
// With count=true only the count is returned.
func (s *Server) ListOrders(ctx echo.Context, params servers.ListOrdersParams) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	status, err := order.ParseStatus(string(params.Status))
	if err != nil {
		return s.errorResponse(ctx, err)
	}
	limit := 0
	if params.Limit != nil {
		limit = *params.Limit
	}
	countOnly := params.Count != nil && *params.Count

	query, err := queries.NewGetOrdersByStatusQuery(actor, status, limit, countOnly)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	res, err := s.getOrdersByStatusHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	response := servers.OrdersByStatus{Count: res.Count}
	if !countOnly {
		orders := toOrdersResponse(res.Orders)
		response.Orders = &orders
	}
	return ctx.JSON(http.StatusOK, response)
}

// ProcessOrder handles PATCH /orders/{id}/process.
func (s *Server) ProcessOrder(ctx echo.Context, id servers.OrderId) error {
	return s.transition(ctx, id, order.Processing)
}

// ShipOrder handles PATCH /orders/{id}/ship.
func (s *Server) ShipOrder(ctx echo.Context, id servers.OrderId) error {
	return s.transition(ctx, id, order.Shipped)
}

// ConfirmDelivery handles PATCH /orders/{id}/confirm-delivery.
func (s *Server) ConfirmDelivery(ctx echo.Context, id servers.OrderId) error {
	return s.transition(ctx, id, order.Delivered)
}

// CancelOrder handles PATCH /orders/{id}/cancel.
func (s *Server) CancelOrder(ctx echo.Context, id servers.OrderId) error {
	return s.transition(ctx, id, order.Cancelled)
}

func (s *Server) transition(ctx echo.Context, id string, requested order.Status) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	var body servers.TransitionRequest
	if err = ctx.Bind(&body); err != nil {
		return writeError(ctx, http.StatusBadRequest, "Invalid request body")
	}

	orderID, err := kernel.OrderIDFromString(id)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, requested, actor, body.ExpectedVersion, body.TrackingCode)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	o, err := s.transitionOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(o))
}

// CreateNotificationSession handles POST /notifications/sessions - registers
// a poll-fallback session for the calling operator.
func (s *Server) CreateNotificationSession(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	info, err := s.registry.Register(ctx.Request().Context(), notifications.RegisterRequest{
		ConnectionID: uuid.NewString(),
		Actor:        actor,
		Transport:    notifications.Poll,
	})
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, servers.SessionCreated{
		ConnectionId: info.ConnectionID,
		PendingCount: info.LastSeenPendingCount,
	})
}

// PollNotificationSession handles GET /notifications/sessions/{id}/poll.
func (s *Server) PollNotificationSession(ctx echo.Context, id servers.SessionId) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	res, err := s.registry.Poll(ctx.Request().Context(), actor, id)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, servers.PollResult{
		PendingCount:  res.PendingCount,
		PreviousCount: res.PreviousCount,
		NewOrders:     res.NewOrders,
	})
}

// DeleteNotificationSession handles DELETE /notifications/sessions/{id}.
func (s *Server) DeleteNotificationSession(ctx echo.Context, id servers.SessionId) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	if err = s.registry.UnregisterOwned(actor, id); err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ReplayEvents handles GET /notifications/events?since=N. When events after
// since were already evicted the response is 410 with a ResyncRequired body.
func (s *Server) ReplayEvents(ctx echo.Context, params servers.ReplayEventsParams) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.errorResponse(ctx, err)
	}
	if err = s.gate.RequireOperator(actor, replayAction); err != nil {
		return s.errorResponse(ctx, err)
	}

	var since uint64
	if params.Since != nil {
		since = *params.Since
	}

	replay := s.publisher.ReplaySince(since)
	if replay.Gap {
		return ctx.JSON(http.StatusGone, resyncMessage(replay.OldestAvailable))
	}

	events := make([]servers.EventMessage, len(replay.Events))
	last := since
	for i, e := range replay.Events {
		events[i] = toEventMessage(e)
		last = e.SequenceID()
	}

	return ctx.JSON(http.StatusOK, servers.Replay{
		Events:         events,
		LastSequenceId: last,
	})
}
