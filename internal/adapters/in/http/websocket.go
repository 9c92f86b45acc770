package http

import (
	"context"
	"sync"

	"storefront/internal/core/application/notifications"
	"storefront/internal/core/domain/model/notification"
	"storefront/internal/core/ports"
	"storefront/internal/generated/servers"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	subscribeAction = "subscribe to order notifications"

	// maxCloseReason is the longest close reason a websocket control frame carries.
	maxCloseReason = 123
)

var _ ports.SessionTransport = (*wsTransport)(nil)

// wsTransport is a push session transport over one websocket connection.
// Writes honour the caller's context, so a stalled console cannot hold a
// dispatch worker past its attempt timeout.
type wsTransport struct {
	conn      *websocket.Conn
	closeOnce sync.Once
	closed    chan struct{}
}

func newWSTransport(conn *websocket.Conn) *wsTransport {
	return &wsTransport{
		conn:   conn,
		closed: make(chan struct{}),
	}
}

func (t *wsTransport) Send(ctx context.Context, msg notification.Message) error {
	return wsjson.Write(ctx, t.conn, toWireMessage(msg))
}

// Ping needs a concurrent reader to see the pong; StreamOrderEvents starts
// one with CloseRead.
func (t *wsTransport) Ping(ctx context.Context) error {
	return t.conn.Ping(ctx)
}

func (t *wsTransport) Close(reason string) error {
	var err error
	t.closeOnce.Do(func() {
		close(t.closed)
		if len(reason) > maxCloseReason {
			reason = reason[:maxCloseReason]
		}
		err = t.conn.Close(websocket.StatusNormalClosure, reason)
	})
	return err
}

// Done is closed once the transport has been closed by either side.
func (t *wsTransport) Done() <-chan struct{} {
	return t.closed
}

// StreamOrderEvents handles GET /ws/orders - the operator push channel.
//
// The credential is checked before the upgrade so that a rejected handshake
// is a plain 401 or 403. After the upgrade the session is registered for the
// actor resolved here, with the client's last acknowledged sequence id, and
// the handler stays on the connection until either the client goes away or
// the registry evicts it.
func (s *Server) StreamOrderEvents(ctx echo.Context, params servers.StreamOrderEventsParams) error {
	reqCtx := ctx.Request().Context()

	credential := ctx.Request().Header.Get(echo.HeaderAuthorization)
	if credential == "" && params.AccessToken != nil {
		credential = *params.AccessToken
	}

	actor, err := s.gate.Authenticate(reqCtx, credential)
	if err != nil {
		return s.errorResponse(ctx, err)
	}
	if err = s.gate.RequireOperator(actor, subscribeAction); err != nil {
		return s.errorResponse(ctx, err)
	}

	var lastAcked uint64
	if params.LastAckedSequenceId != nil {
		lastAcked = *params.LastAckedSequenceId
	}

	conn, err := websocket.Accept(ctx.Response(), ctx.Request(), &websocket.AcceptOptions{
		OriginPatterns: s.wsOrigins,
	})
	if err != nil {
		// Accept has already written the HTTP error.
		s.logger.WarnContext(reqCtx, "websocket upgrade failed", "operator", actor.String(), "error", err)
		return nil
	}

	transport := newWSTransport(conn)
	connectionID := uuid.NewString()

	_, err = s.registry.Register(reqCtx, notifications.RegisterRequest{
		ConnectionID:        connectionID,
		Actor:               actor,
		Transport:           notifications.Push,
		Conn:                transport,
		LastAckedSequenceID: lastAcked,
	})
	if err != nil {
		s.logger.WarnContext(reqCtx, "push session rejected", "operator", actor.String(), "error", err)
		_ = transport.Close("registration failed")
		return nil
	}

	readCtx := conn.CloseRead(context.WithoutCancel(reqCtx))
	select {
	case <-readCtx.Done():
		if err = s.registry.Unregister(connectionID, notifications.ReasonClientClosed); err != nil {
			s.logger.DebugContext(reqCtx, "session already gone", "connection_id", connectionID)
		}
		_ = transport.Close(notifications.ReasonClientClosed)
	case <-transport.Done():
	}
	return nil
}
