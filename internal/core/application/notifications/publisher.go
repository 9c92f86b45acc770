package notifications

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"storefront/internal/core/domain/model/notification"
	"storefront/internal/core/ports"
)

const (
	relayQueueSize = 256
	relayTimeout   = 2 * time.Second
)

// broadcaster receives every sequenced event. Dispatcher implements it.
type broadcaster interface {
	Broadcast(e notification.Event)
}

// Publisher owns the "order-events" topic: the sequence counter and the
// replay buffer. Publish is safe for concurrent use and never blocks on
// delivery.
//
// Example:
//
//	publisher := notifications.NewPublisher(dispatcher, notifications.PublisherConfig{BufferSize: 500}, logger)
//	event, err := publisher.Publish(notification.NewOrderCreated(id, "PENDING", time.Now()))
type Publisher struct {
	mu      sync.Mutex
	seq     uint64
	buffer  *ReplayBuffer
	fanout  broadcaster
	relay   ports.EventRelay
	relayCh chan notification.Event
	metrics Metrics
	logger  *slog.Logger
}

// PublisherConfig tunes a Publisher. Relay and Metrics are optional.
type PublisherConfig struct {
	BufferSize int
	Relay      ports.EventRelay
	Metrics    Metrics
}

// NewPublisher creates a publisher handing events to fanout.
func NewPublisher(fanout broadcaster, cfg PublisherConfig, logger *slog.Logger) *Publisher {
	p := &Publisher{
		buffer:  NewReplayBuffer(cfg.BufferSize),
		fanout:  fanout,
		relay:   cfg.Relay,
		metrics: cfg.Metrics,
		logger:  logger.With("component", "event_publisher", "topic", notification.Topic),
	}
	if p.metrics == nil {
		p.metrics = nopMetrics{}
	}
	if p.relay != nil {
		p.relayCh = make(chan notification.Event, relayQueueSize)
	}
	return p
}

// Publish assigns the next sequence id, retains the event for replay and
// hands it to the dispatcher. The returned event is immutable.
func (p *Publisher) Publish(draft notification.Draft) (notification.Event, error) {
	if err := draft.Validate(); err != nil {
		return notification.Event{}, err
	}

	p.mu.Lock()
	p.seq++
	event := draft.Sequence(p.seq)
	p.buffer.Append(event)
	p.fanout.Broadcast(event)
	p.mu.Unlock()

	p.metrics.EventPublished(event.Kind())
	p.forward(event)

	p.logger.Debug("event published",
		"sequence_id", event.SequenceID(),
		"kind", event.Kind(),
		"order_id", event.OrderID(),
		"new_status", event.NewStatus(),
	)
	return event, nil
}

// ReplaySince returns the retained events after since, or a gap result.
func (p *Publisher) ReplaySince(since uint64) Replay {
	p.mu.Lock()
	defer p.mu.Unlock()

	replay := p.buffer.Since(since)
	if replay.Gap {
		p.metrics.ReplayGap()
	}
	return replay
}

// Attach runs join with the replay for since while publishing is paused.
// Anything join subscribes to live delivery sees every event after the
// replayed ones and none of them twice.
func (p *Publisher) Attach(since uint64, join func(Replay)) {
	p.mu.Lock()
	defer p.mu.Unlock()

	replay := p.buffer.Since(since)
	if replay.Gap {
		p.metrics.ReplayGap()
	}
	join(replay)
}

// LastSequenceID returns the id of the most recent event, 0 before the first.
func (p *Publisher) LastSequenceID() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seq
}

// RunRelay forwards published events to the external relay until ctx ends.
// It returns immediately when no relay is configured.
func (p *Publisher) RunRelay(ctx context.Context) {
	if p.relay == nil {
		return
	}

	p.logger.InfoContext(ctx, "event relay started")
	for {
		select {
		case <-ctx.Done():
			p.logger.InfoContext(context.WithoutCancel(ctx), "event relay stopped")
			return
		case event := <-p.relayCh:
			relayCtx, cancel := context.WithTimeout(ctx, relayTimeout)
			if err := p.relay.Relay(relayCtx, event); err != nil {
				p.logger.WarnContext(ctx, "event relay failed", "sequence_id", event.SequenceID(), "error", err)
			}
			cancel()
		}
	}
}

func (p *Publisher) forward(event notification.Event) {
	if p.relayCh == nil {
		return
	}
	select {
	case p.relayCh <- event:
	default:
		p.logger.Warn("event relay queue full, dropping event", "sequence_id", event.SequenceID())
	}
}
