package notifications

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"storefront/internal/core/domain/model/notification"
	"storefront/internal/pkg/errs"
)

const (
	// DefaultDispatchTimeout bounds one delivery attempt.
	DefaultDispatchTimeout = 5 * time.Second

	// DefaultFailureThreshold is the number of consecutive failed deliveries
	// after which a session is evicted.
	DefaultFailureThreshold = 3
)

var errQueueFull = errors.New("session queue is full")

// sessionSource is the part of the Registry the Dispatcher relies on.
type sessionSource interface {
	pushSessions() []*Session
	evict(connectionID, reason string)
}

// DispatcherConfig tunes delivery. Zero values take the defaults.
type DispatcherConfig struct {
	Timeout          time.Duration
	FailureThreshold int
	Metrics          Metrics
}

// Dispatcher fans published events out to every push session.
//
// Broadcast never blocks: it only appends to each session's FIFO queue. Each
// session has one worker goroutine draining that queue, so delivery to one
// console is never held up by another. An attempt that fails or exceeds the
// timeout counts against the session; FailureThreshold consecutive failures
// evict it. A successful attempt resets the count and advances the session's
// lastAckedSequenceId.
//
// A session whose queue is full is evicted on the spot. Dropping the event and
// carrying on would let later successes move lastAckedSequenceId past it, and
// the console could no longer recover it by reconnecting.
type Dispatcher struct {
	sessions  sessionSource
	timeout   time.Duration
	threshold int
	metrics   Metrics
	logger    *slog.Logger
}

// NewDispatcher creates a dispatcher. It starts delivering once a Registry is
// built on top of it.
func NewDispatcher(cfg DispatcherConfig, logger *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		timeout:   cfg.Timeout,
		threshold: cfg.FailureThreshold,
		metrics:   cfg.Metrics,
		logger:    logger.With("component", "notification_dispatcher"),
	}
	if d.timeout <= 0 {
		d.timeout = DefaultDispatchTimeout
	}
	if d.threshold <= 0 {
		d.threshold = DefaultFailureThreshold
	}
	if d.metrics == nil {
		d.metrics = nopMetrics{}
	}
	return d
}

func (d *Dispatcher) attach(sessions sessionSource) {
	d.sessions = sessions
}

// Broadcast queues e for every push session registered right now.
func (d *Dispatcher) Broadcast(e notification.Event) {
	if d.sessions == nil {
		return
	}

	msg := notification.EventMessage(e)
	for _, s := range d.sessions.pushSessions() {
		if !s.enqueue(msg) {
			d.overflow(s, msg)
		}
	}
}

// overflow evicts s before any later event reaches it. The client reconnects
// from its last acknowledged id and gets the rest from the replay buffer.
func (d *Dispatcher) overflow(s *Session, msg notification.Message) {
	if s.ctx.Err() != nil {
		// already stopped, the registry is removing it
		return
	}
	d.metrics.DeliveryFailed()
	d.logger.Warn("session queue overflowed, evicting",
		"connection_id", s.connectionID,
		"operator_id", s.actor.ID(),
		"sequence_id", msg.SequenceID(),
		"last_acked_sequence_id", s.Info().LastAckedSequenceID,
		"error", errs.NewTransportError(s.connectionID, errQueueFull),
	)
	d.sessions.evict(s.connectionID, ReasonQueueOverflow)
}

// start launches the session worker. The worker exits when the session is
// stopped, and closes the transport on the way out.
func (d *Dispatcher) start(s *Session) {
	go d.run(s)
}

func (d *Dispatcher) run(s *Session) {
	defer close(s.done)
	defer func() {
		if err := s.conn.Close(s.reason()); err != nil {
			d.logger.Debug("transport close failed", "connection_id", s.connectionID, "error", err)
		}
	}()

	for {
		select {
		case <-s.ctx.Done():
			return
		case msg := <-s.queue:
			if s.ctx.Err() != nil {
				return
			}
			d.deliver(s, msg)
		}
	}
}

func (d *Dispatcher) deliver(s *Session, msg notification.Message) {
	ctx, cancel := context.WithTimeout(s.ctx, d.timeout)
	defer cancel()

	if err := s.conn.Send(ctx, msg); err != nil {
		if s.ctx.Err() != nil {
			return
		}
		d.fail(s, msg, err)
		return
	}

	s.recordSuccess(msg.SequenceID())
	d.metrics.DeliverySucceeded()
}

func (d *Dispatcher) fail(s *Session, msg notification.Message, cause error) {
	failures := s.recordFailure()
	d.metrics.DeliveryFailed()

	d.logger.Warn("notification delivery failed",
		"connection_id", s.connectionID,
		"operator_id", s.actor.ID(),
		"sequence_id", msg.SequenceID(),
		"consecutive_failures", failures,
		"error", errs.NewTransportError(s.connectionID, cause),
	)

	if failures >= d.threshold {
		d.sessions.evict(s.connectionID, ReasonDeliveryFailures)
	}
}
