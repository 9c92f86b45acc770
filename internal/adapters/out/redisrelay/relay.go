// Package redisrelay mirrors published order events to a Redis pub/sub
// channel so consumers outside this process can follow the stream.
package redisrelay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/core/domain/model/notification"

	"github.com/redis/go-redis/v9"
)

// DefaultChannel is used when no channel is configured.
const DefaultChannel = notification.Topic

// Message is the JSON payload published for every event.
type Message struct {
	SequenceID uint64    `json:"sequenceId"`
	Kind       string    `json:"kind"`
	OrderID    string    `json:"orderId"`
	NewStatus  string    `json:"newStatus"`
	Timestamp  time.Time `json:"timestamp"`
}

// Relay publishes events with PUBLISH.
type Relay struct {
	client  redis.UniversalClient
	channel string
}

// Connect opens a client for a redis:// URL and checks it answers PING.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err = client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// NewRelay creates a relay publishing to channel.
func NewRelay(client redis.UniversalClient, channel string) *Relay {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Relay{client: client, channel: channel}
}

// Relay publishes e. Subscribers that are not connected miss it.
func (r *Relay) Relay(ctx context.Context, e notification.Event) error {
	payload, err := json.Marshal(Message{
		SequenceID: e.SequenceID(),
		Kind:       string(e.Kind()),
		OrderID:    e.OrderID(),
		NewStatus:  e.NewStatus(),
		Timestamp:  e.Timestamp(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err = r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event %d: %w", e.SequenceID(), err)
	}
	return nil
}

// Channel returns the channel events are published to.
func (r *Relay) Channel() string {
	return r.channel
}
