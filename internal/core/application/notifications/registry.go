package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"storefront/internal/core/domain/model/identity"
	"storefront/internal/core/domain/model/notification"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"
)

const (
	// DefaultSessionQueueSize is the live-event headroom of a push session queue.
	DefaultSessionQueueSize = 64

	// DefaultMaxMissedHeartbeats is how many pings in a row a push session may
	// miss before it is reaped.
	DefaultMaxMissedHeartbeats = 3

	// DefaultPollSessionTTL is how long a poll session may go without polling.
	DefaultPollSessionTTL = 2 * time.Minute

	subscribeAction = "subscribe to order notifications"
)

// Authenticator is the Auth Gate as seen by the registry.
type Authenticator interface {
	Authenticate(ctx context.Context, credential string) (identity.Actor, error)
	RequireOperator(actor identity.Actor, action string) error
}

// PendingCounter reports how many orders are PENDING.
type PendingCounter interface {
	CountPending(ctx context.Context) (int, error)
}

// RegistryConfig tunes a Registry. Zero values take the defaults.
type RegistryConfig struct {
	QueueSize           int
	MaxMissedHeartbeats int
	HeartbeatTimeout    time.Duration
	PollSessionTTL      time.Duration
	Clock               func() time.Time
	Metrics             Metrics
}

// RegisterRequest describes a subscription handshake. Actor, when set, is an
// identity the caller has already authenticated and Credential is ignored;
// otherwise Credential goes through the gate. The operator check runs either way.
type RegisterRequest struct {
	ConnectionID        string
	Actor               identity.Actor
	Credential          string
	Transport           TransportKind
	Conn                ports.SessionTransport
	LastAckedSequenceID uint64
}

// PollResult is the poll-fallback view for one session.
type PollResult struct {
	PendingCount  int
	PreviousCount int
	NewOrders     bool
}

// Registry owns the lifecycle of operator sessions. It is the only component
// that creates or destroys sessions; the dispatcher only updates counters and
// asks for evictions.
//
// Example:
//
//	dispatcher := notifications.NewDispatcher(notifications.DispatcherConfig{}, logger)
//	publisher := notifications.NewPublisher(dispatcher, notifications.PublisherConfig{}, logger)
//	registry := notifications.NewRegistry(gate, publisher, dispatcher, pending, notifications.RegistryConfig{}, logger)
//
//	info, err := registry.Register(ctx, notifications.RegisterRequest{
//	    ConnectionID: uuid.NewString(),
//	    Credential:   bearer,
//	    Transport:    notifications.Push,
//	    Conn:         wsTransport,
//	})
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	gate       Authenticator
	publisher  *Publisher
	dispatcher *Dispatcher
	pending    PendingCounter

	queueSize        int
	maxMissed        int
	heartbeatTimeout time.Duration
	pollTTL          time.Duration
	clock            func() time.Time
	metrics          Metrics
	logger           *slog.Logger
}

// NewRegistry wires the registry to the publisher and dispatcher.
func NewRegistry(
	gate Authenticator,
	publisher *Publisher,
	dispatcher *Dispatcher,
	pending PendingCounter,
	cfg RegistryConfig,
	logger *slog.Logger,
) *Registry {
	r := &Registry{
		sessions:         make(map[string]*Session),
		gate:             gate,
		publisher:        publisher,
		dispatcher:       dispatcher,
		pending:          pending,
		queueSize:        cfg.QueueSize,
		maxMissed:        cfg.MaxMissedHeartbeats,
		heartbeatTimeout: cfg.HeartbeatTimeout,
		pollTTL:          cfg.PollSessionTTL,
		clock:            cfg.Clock,
		metrics:          cfg.Metrics,
		logger:           logger.With("component", "session_registry"),
	}
	if r.queueSize <= 0 {
		r.queueSize = DefaultSessionQueueSize
	}
	if r.maxMissed <= 0 {
		r.maxMissed = DefaultMaxMissedHeartbeats
	}
	if r.heartbeatTimeout <= 0 {
		r.heartbeatTimeout = DefaultDispatchTimeout
	}
	if r.pollTTL <= 0 {
		r.pollTTL = DefaultPollSessionTTL
	}
	if r.clock == nil {
		r.clock = time.Now
	}
	if r.metrics == nil {
		r.metrics = nopMetrics{}
	}

	dispatcher.attach(r)
	return r
}

// Register authenticates the handshake and creates the session.
//
// Push sessions first receive every retained event after
// LastAckedSequenceID (or a ResyncRequired message when those were evicted)
// and then live events, with nothing lost or repeated in between. Poll
// sessions start with the current pending count as their baseline.
//
// Returns *errs.UnauthorizedError for a bad credential and
// *errs.ForbiddenError when the subject is not an operator.
func (r *Registry) Register(ctx context.Context, req RegisterRequest) (SessionInfo, error) {
	actor, err := r.authenticate(ctx, req)
	if err != nil {
		return SessionInfo{}, err
	}
	if err = r.gate.RequireOperator(actor, subscribeAction); err != nil {
		return SessionInfo{}, err
	}
	if err = r.validate(req); err != nil {
		return SessionInfo{}, err
	}

	var s *Session
	switch req.Transport {
	case Push:
		s, err = r.registerPush(req, actor)
	case Poll:
		s, err = r.registerPoll(ctx, req, actor)
	}
	if err != nil {
		return SessionInfo{}, err
	}

	r.metrics.SessionOpened(req.Transport)
	r.logger.InfoContext(ctx, "session registered",
		"connection_id", req.ConnectionID,
		"operator", actor.String(),
		"transport", req.Transport,
		"last_acked_sequence_id", req.LastAckedSequenceID,
	)
	return s.Info(), nil
}

func (r *Registry) authenticate(ctx context.Context, req RegisterRequest) (identity.Actor, error) {
	if req.Actor.Validate() == nil {
		return req.Actor, nil
	}
	return r.gate.Authenticate(ctx, req.Credential)
}

func (r *Registry) validate(req RegisterRequest) error {
	if strings.TrimSpace(req.ConnectionID) == "" {
		return errs.NewValueIsRequiredError("connection id")
	}
	if err := req.Transport.Validate(); err != nil {
		return err
	}
	if req.Transport == Push && req.Conn == nil {
		return errs.NewValueIsRequiredError("push transport")
	}
	return nil
}

func (r *Registry) registerPush(req RegisterRequest, actor identity.Actor) (*Session, error) {
	var (
		s   *Session
		err error
	)

	r.publisher.Attach(req.LastAckedSequenceID, func(replay Replay) {
		s = newSession(
			req.ConnectionID, actor, Push, req.Conn,
			req.LastAckedSequenceID, len(replay.Events)+1+r.queueSize, r.clock(),
		)

		if replay.Gap {
			s.enqueue(notification.ResyncMessage(replay.OldestAvailable))
		}
		for _, e := range replay.Events {
			s.enqueue(notification.EventMessage(e))
		}

		if err = r.add(s); err != nil {
			s.cancel()
			return
		}
		r.dispatcher.start(s)
	})

	return s, err
}

func (r *Registry) registerPoll(ctx context.Context, req RegisterRequest, actor identity.Actor) (*Session, error) {
	count, err := r.PendingCount(ctx)
	if err != nil {
		return nil, err
	}

	s := newSession(req.ConnectionID, actor, Poll, nil, req.LastAckedSequenceID, 0, r.clock())
	s.observePending(count, r.clock())

	if err = r.add(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *Registry) add(s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[s.connectionID]; exists {
		return errs.NewValueIsInvalidErrorWithCause(
			"connection id",
			fmt.Errorf("%s is already registered", s.connectionID),
		)
	}
	r.sessions[s.connectionID] = s
	return nil
}

// Unregister removes the session and cancels any delivery in flight to it.
// Returns *errs.ObjectNotFoundError if the connection is unknown.
func (r *Registry) Unregister(connectionID, reason string) error {
	r.mu.Lock()
	s, ok := r.sessions[connectionID]
	if ok {
		delete(r.sessions, connectionID)
	}
	r.mu.Unlock()

	if !ok {
		return errs.NewObjectNotFoundError("session", connectionID)
	}

	s.stop(reason)
	r.metrics.SessionClosed(s.transport, reason)
	r.logger.Info("session unregistered",
		"connection_id", connectionID,
		"operator", s.actor.String(),
		"reason", reason,
	)
	return nil
}

// UnregisterOwned is Unregister restricted to sessions opened by actor.
func (r *Registry) UnregisterOwned(actor identity.Actor, connectionID string) error {
	s, err := r.owned(actor, connectionID)
	if err != nil {
		return err
	}
	return r.Unregister(s.connectionID, ReasonClientClosed)
}

func (r *Registry) evict(connectionID, reason string) {
	if err := r.Unregister(connectionID, reason); err != nil {
		r.logger.Debug("session already gone", "connection_id", connectionID, "reason", reason)
	}
}

func (r *Registry) pushSessions() []*Session {
	return r.sessionsOf(Push)
}

func (r *Registry) sessionsOf(kind TransportKind) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		if s.transport == kind {
			out = append(out, s)
		}
	}
	return out
}

// Session returns the state of one session.
func (r *Registry) Session(connectionID string) (SessionInfo, error) {
	r.mu.RLock()
	s, ok := r.sessions[connectionID]
	r.mu.RUnlock()

	if !ok {
		return SessionInfo{}, errs.NewObjectNotFoundError("session", connectionID)
	}
	return s.Info(), nil
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// PendingCount returns the number of orders currently PENDING. It backs the
// poll fallback: the baseline taken at registration and every Poll.
func (r *Registry) PendingCount(ctx context.Context) (int, error) {
	return r.pending.CountPending(ctx)
}

// Poll compares the current pending count with the count this session saw on
// its previous poll. NewOrders is set only when the count grew, so a
// cancellation offsetting a new order in the same interval goes unnoticed.
func (r *Registry) Poll(ctx context.Context, actor identity.Actor, connectionID string) (PollResult, error) {
	s, err := r.owned(actor, connectionID)
	if err != nil {
		return PollResult{}, err
	}
	if s.transport != Poll {
		return PollResult{}, errs.NewValueIsInvalidErrorWithCause(
			"session",
			fmt.Errorf("%s is a %s session", connectionID, s.transport),
		)
	}

	count, err := r.PendingCount(ctx)
	if err != nil {
		return PollResult{}, err
	}

	previous := s.observePending(count, r.clock())
	return PollResult{
		PendingCount:  count,
		PreviousCount: previous,
		NewOrders:     count > previous,
	}, nil
}

func (r *Registry) owned(actor identity.Actor, connectionID string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[connectionID]
	r.mu.RUnlock()

	if !ok || s.actor.ID() != actor.ID() {
		return nil, errs.NewObjectNotFoundError("session", connectionID)
	}
	return s, nil
}

// Heartbeat pings every push session concurrently. A session that misses
// MaxMissedHeartbeats pings in a row is reaped. It returns the number of
// sessions reaped.
func (r *Registry) Heartbeat(ctx context.Context) int {
	sessions := r.sessionsOf(Push)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		reaped int
	)
	for _, s := range sessions {
		wg.Add(1)
		go func(s *Session) {
			defer wg.Done()

			pingCtx, cancel := context.WithTimeout(s.ctx, r.heartbeatTimeout)
			err := s.conn.Ping(pingCtx)
			cancel()
			if ctx.Err() != nil || s.ctx.Err() != nil {
				return
			}

			missed := s.recordHeartbeat(err == nil)
			if err == nil {
				return
			}

			r.logger.WarnContext(ctx, "heartbeat missed",
				"connection_id", s.connectionID,
				"missed", missed,
				"error", errs.NewTransportError(s.connectionID, err),
			)
			if missed >= r.maxMissed {
				r.evict(s.connectionID, ReasonHeartbeat)
				mu.Lock()
				reaped++
				mu.Unlock()
			}
		}(s)
	}
	wg.Wait()

	return reaped
}

// ReapIdlePolls removes poll sessions that have not polled within the TTL and
// returns how many were removed.
func (r *Registry) ReapIdlePolls() int {
	cutoff := r.clock().Add(-r.pollTTL)

	reaped := 0
	for _, s := range r.sessionsOf(Poll) {
		if s.idleSince().Before(cutoff) {
			r.evict(s.connectionID, ReasonIdlePoll)
			reaped++
		}
	}
	return reaped
}

// Close unregisters every session and waits for their workers to finish
// or ctx to end.
func (r *Registry) Close(ctx context.Context) {
	r.mu.RLock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	for _, s := range sessions {
		r.evict(s.connectionID, ReasonShutdown)
	}
	for _, s := range sessions {
		select {
		case <-s.Done():
		case <-ctx.Done():
			return
		}
	}
}
