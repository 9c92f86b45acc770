package servers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {

	// (GET /health)
	GetHealth(ctx echo.Context) error

	// (GET /notifications/events)
	ReplayEvents(ctx echo.Context, params ReplayEventsParams) error

	// (POST /notifications/sessions)
	CreateNotificationSession(ctx echo.Context) error

	// (DELETE /notifications/sessions/{id})
	DeleteNotificationSession(ctx echo.Context, id SessionId) error

	// (GET /notifications/sessions/{id}/poll)
	PollNotificationSession(ctx echo.Context, id SessionId) error

	// (GET /orders)
	ListOrders(ctx echo.Context, params ListOrdersParams) error

	// (POST /orders)
	CreateOrder(ctx echo.Context) error

	// (GET /orders/{id})
	GetOrder(ctx echo.Context, id OrderId) error

	// (PATCH /orders/{id}/cancel)
	CancelOrder(ctx echo.Context, id OrderId) error

	// (PATCH /orders/{id}/confirm-delivery)
	ConfirmDelivery(ctx echo.Context, id OrderId) error

	// (PATCH /orders/{id}/process)
	ProcessOrder(ctx echo.Context, id OrderId) error

	// (PATCH /orders/{id}/ship)
	ShipOrder(ctx echo.Context, id OrderId) error

	// (GET /ws/orders)
	StreamOrderEvents(ctx echo.Context, params StreamOrderEventsParams) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// GetHealth converts echo context to params.
func (w *ServerInterfaceWrapper) GetHealth(ctx echo.Context) error {
	return w.Handler.GetHealth(ctx)
}

// ReplayEvents converts echo context to params.
func (w *ServerInterfaceWrapper) ReplayEvents(ctx echo.Context) error {
	var err error

	ctx.Set(BearerAuthScopes, []string{})

	var params ReplayEventsParams
	// ------------- Optional query parameter "since" -------------

	err = runtime.BindQueryParameter("form", true, false, "since", ctx.QueryParams(), &params.Since)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter since: %s", err))
	}

	return w.Handler.ReplayEvents(ctx, params)
}

// CreateNotificationSession converts echo context to params.
func (w *ServerInterfaceWrapper) CreateNotificationSession(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})

	return w.Handler.CreateNotificationSession(ctx)
}

// DeleteNotificationSession converts echo context to params.
func (w *ServerInterfaceWrapper) DeleteNotificationSession(ctx echo.Context) error {
	id, err := bindPathID(ctx)
	if err != nil {
		return err
	}

	ctx.Set(BearerAuthScopes, []string{})

	return w.Handler.DeleteNotificationSession(ctx, id)
}

// PollNotificationSession converts echo context to params.
func (w *ServerInterfaceWrapper) PollNotificationSession(ctx echo.Context) error {
	id, err := bindPathID(ctx)
	if err != nil {
		return err
	}

	ctx.Set(BearerAuthScopes, []string{})

	return w.Handler.PollNotificationSession(ctx, id)
}

// ListOrders converts echo context to params.
func (w *ServerInterfaceWrapper) ListOrders(ctx echo.Context) error {
	var err error

	ctx.Set(BearerAuthScopes, []string{})

	var params ListOrdersParams
	// ------------- Required query parameter "status" -------------

	err = runtime.BindQueryParameter("form", true, true, "status", ctx.QueryParams(), &params.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter status: %s", err))
	}

	// ------------- Optional query parameter "count" -------------

	err = runtime.BindQueryParameter("form", true, false, "count", ctx.QueryParams(), &params.Count)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter count: %s", err))
	}

	// ------------- Optional query parameter "limit" -------------

	err = runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter limit: %s", err))
	}

	return w.Handler.ListOrders(ctx, params)
}

// CreateOrder converts echo context to params.
func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})

	return w.Handler.CreateOrder(ctx)
}

// GetOrder converts echo context to params.
func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	id, err := bindPathID(ctx)
	if err != nil {
		return err
	}

	ctx.Set(BearerAuthScopes, []string{})

	return w.Handler.GetOrder(ctx, id)
}

// CancelOrder converts echo context to params.
func (w *ServerInterfaceWrapper) CancelOrder(ctx echo.Context) error {
	id, err := bindPathID(ctx)
	if err != nil {
		return err
	}

	ctx.Set(BearerAuthScopes, []string{})

	return w.Handler.CancelOrder(ctx, id)
}

// ConfirmDelivery converts echo context to params.
func (w *ServerInterfaceWrapper) ConfirmDelivery(ctx echo.Context) error {
	id, err := bindPathID(ctx)
	if err != nil {
		return err
	}

	ctx.Set(BearerAuthScopes, []string{})

	return w.Handler.ConfirmDelivery(ctx, id)
}

// ProcessOrder converts echo context to params.
func (w *ServerInterfaceWrapper) ProcessOrder(ctx echo.Context) error {
	id, err := bindPathID(ctx)
	if err != nil {
		return err
	}

	ctx.Set(BearerAuthScopes, []string{})

	return w.Handler.ProcessOrder(ctx, id)
}

// ShipOrder converts echo context to params.
func (w *ServerInterfaceWrapper) ShipOrder(ctx echo.Context) error {
	id, err := bindPathID(ctx)
	if err != nil {
		return err
	}

	ctx.Set(BearerAuthScopes, []string{})

	return w.Handler.ShipOrder(ctx, id)
}

// StreamOrderEvents converts echo context to params.
func (w *ServerInterfaceWrapper) StreamOrderEvents(ctx echo.Context) error {
	var err error

	var params StreamOrderEventsParams
	// ------------- Optional query parameter "lastAckedSequenceId" -------------

	err = runtime.BindQueryParameter("form", true, false, "lastAckedSequenceId", ctx.QueryParams(), &params.LastAckedSequenceId)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter lastAckedSequenceId: %s", err))
	}

	// ------------- Optional query parameter "access_token" -------------

	err = runtime.BindQueryParameter("form", true, false, "access_token", ctx.QueryParams(), &params.AccessToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter access_token: %s", err))
	}

	return w.Handler.StreamOrderEvents(ctx, params)
}

// ------------- Path parameter "id" -------------
func bindPathID(ctx echo.Context) (string, error) {
	var id string

	err := runtime.BindStyledParameterWithOptions("simple", "id", ctx.Param("id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter id: %s", err))
	}
	return id, nil
}

// EchoRouter is the subset of echo.Echo and echo.Group the handlers are
// registered on.
type EchoRouter interface {
	CONNECT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	HEAD(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	OPTIONS(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	TRACE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers handlers, and prepends BaseURL to the
// paths, so that the paths can be served under a prefix.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.GET(baseURL+"/health", wrapper.GetHealth)
	router.GET(baseURL+"/notifications/events", wrapper.ReplayEvents)
	router.POST(baseURL+"/notifications/sessions", wrapper.CreateNotificationSession)
	router.DELETE(baseURL+"/notifications/sessions/:id", wrapper.DeleteNotificationSession)
	router.GET(baseURL+"/notifications/sessions/:id/poll", wrapper.PollNotificationSession)
	router.GET(baseURL+"/orders", wrapper.ListOrders)
	router.POST(baseURL+"/orders", wrapper.CreateOrder)
	router.GET(baseURL+"/orders/:id", wrapper.GetOrder)
	router.PATCH(baseURL+"/orders/:id/cancel", wrapper.CancelOrder)
	router.PATCH(baseURL+"/orders/:id/confirm-delivery", wrapper.ConfirmDelivery)
	router.PATCH(baseURL+"/orders/:id/process", wrapper.ProcessOrder)
	router.PATCH(baseURL+"/orders/:id/ship", wrapper.ShipOrder)
	router.GET(baseURL+"/ws/orders", wrapper.StreamOrderEvents)
}
