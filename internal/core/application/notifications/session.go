package notifications

import (
	"context"
	"fmt"
	"sync"
	"time"

	"storefront/internal/core/domain/model/identity"
	"storefront/internal/core/domain/model/notification"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"
)

// TransportKind is the delivery capability a session negotiated at registration.
type TransportKind string

const (
	// Push sessions get every event as it is published.
	Push TransportKind = "push"

	// Poll sessions only get pending-count snapshots on request.
	Poll TransportKind = "poll"
)

func (k TransportKind) Validate() error {
	if k != Push && k != Poll {
		return errs.NewValueIsInvalidErrorWithCause("transport kind", fmt.Errorf("%q is not push or poll", string(k)))
	}
	return nil
}

// Session is one authenticated operator subscription. Identity fields never
// change after registration; the counters are guarded by mu.
type Session struct {
	connectionID string
	actor        identity.Actor
	transport    TransportKind
	conn         ports.SessionTransport
	connectedAt  time.Time

	// queue is the FIFO of messages waiting for the worker, push sessions only.
	queue chan notification.Message

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu                   sync.Mutex
	lastAcked            uint64
	consecutiveFailures  int
	missedHeartbeats     int
	lastSeenPendingCount int
	lastPolledAt         time.Time
	closeReason          string
}

func newSession(
	connectionID string,
	actor identity.Actor,
	transport TransportKind,
	conn ports.SessionTransport,
	lastAcked uint64,
	queueSize int,
	now time.Time,
) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		connectionID: connectionID,
		actor:        actor,
		transport:    transport,
		conn:         conn,
		connectedAt:  now,
		ctx:          ctx,
		cancel:       cancel,
		done:         make(chan struct{}),
		lastAcked:    lastAcked,
		lastPolledAt: now,
	}
	if transport == Push {
		s.queue = make(chan notification.Message, queueSize)
	} else {
		close(s.done)
	}
	return s
}

// enqueue adds msg to the session FIFO without blocking. It reports false
// when the queue is full or the session is gone.
func (s *Session) enqueue(msg notification.Message) bool {
	if s.queue == nil || s.ctx.Err() != nil {
		return false
	}
	select {
	case s.queue <- msg:
		return true
	default:
		return false
	}
}

// stop cancels in-flight attempts. The worker closes the transport on exit.
func (s *Session) stop(reason string) {
	s.mu.Lock()
	if s.closeReason == "" {
		s.closeReason = reason
	}
	s.mu.Unlock()
	s.cancel()
}

func (s *Session) recordFailure() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consecutiveFailures++
	return s.consecutiveFailures
}

func (s *Session) recordSuccess(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consecutiveFailures = 0
	if seq > s.lastAcked {
		s.lastAcked = seq
	}
}

func (s *Session) recordHeartbeat(ok bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ok {
		s.missedHeartbeats = 0
	} else {
		s.missedHeartbeats++
	}
	return s.missedHeartbeats
}

// observePending swaps in the latest pending count and returns the previous one.
func (s *Session) observePending(count int, now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	previous := s.lastSeenPendingCount
	s.lastSeenPendingCount = count
	s.lastPolledAt = now
	return previous
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPolledAt
}

func (s *Session) reason() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeReason
}

// Info returns a point-in-time copy of the session state.
func (s *Session) Info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionInfo{
		ConnectionID:         s.connectionID,
		OperatorID:           s.actor.ID(),
		Role:                 s.actor.Role(),
		Transport:            s.transport,
		LastAckedSequenceID:  s.lastAcked,
		ConsecutiveFailures:  s.consecutiveFailures,
		MissedHeartbeats:     s.missedHeartbeats,
		LastSeenPendingCount: s.lastSeenPendingCount,
		ConnectedAt:          s.connectedAt,
	}
}

// Done is closed once the session worker has exited and the transport is closed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// SessionInfo is a read-only view of an operator session.
type SessionInfo struct {
	ConnectionID         string
	OperatorID           string
	Role                 identity.Role
	Transport            TransportKind
	LastAckedSequenceID  uint64
	ConsecutiveFailures  int
	MissedHeartbeats     int
	LastSeenPendingCount int
	ConnectedAt          time.Time
}
