package notifications

import (
	"storefront/internal/core/domain/model/notification"
)

// DefaultReplayBufferSize is the number of events kept for reconnect catch-up.
const DefaultReplayBufferSize = 500

// Replay is the answer to a catch-up request.
type Replay struct {
	// Events holds every retained event after the requested id, oldest first.
	Events []notification.Event

	// Gap is set when events after the requested id were already evicted, or
	// the id is ahead of anything published. Events is empty in that case.
	Gap bool

	// OldestAvailable is the oldest retained sequence id, 0 when the buffer is empty.
	OldestAvailable uint64
}

// ReplayBuffer is a fixed-size ring of the most recent events. It is not safe
// for concurrent use; Publisher serializes access.
type ReplayBuffer struct {
	ring  []notification.Event
	head  int
	count int
	last  uint64
}

// NewReplayBuffer creates a buffer retaining capacity events. Capacities
// below 1 fall back to DefaultReplayBufferSize.
func NewReplayBuffer(capacity int) *ReplayBuffer {
	if capacity < 1 {
		capacity = DefaultReplayBufferSize
	}
	return &ReplayBuffer{ring: make([]notification.Event, capacity)}
}

// Append stores e, evicting the oldest event when full. Events must be
// appended in sequence order.
func (b *ReplayBuffer) Append(e notification.Event) {
	idx := (b.head + b.count) % len(b.ring)
	if b.count == len(b.ring) {
		b.ring[b.head] = e
		b.head = (b.head + 1) % len(b.ring)
	} else {
		b.ring[idx] = e
		b.count++
	}
	b.last = e.SequenceID()
}

// Since returns the events with a sequence id greater than since.
func (b *ReplayBuffer) Since(since uint64) Replay {
	replay := Replay{OldestAvailable: b.Oldest()}

	switch {
	case since == b.last:
		return replay
	case since > b.last:
		replay.Gap = true
		return replay
	case since+1 < replay.OldestAvailable:
		replay.Gap = true
		return replay
	}

	skip := int(since + 1 - replay.OldestAvailable)
	replay.Events = make([]notification.Event, 0, b.count-skip)
	for i := skip; i < b.count; i++ {
		replay.Events = append(replay.Events, b.ring[(b.head+i)%len(b.ring)])
	}
	return replay
}

// Oldest returns the oldest retained sequence id, 0 when empty.
func (b *ReplayBuffer) Oldest() uint64 {
	if b.count == 0 {
		return 0
	}
	return b.ring[b.head].SequenceID()
}

// Len returns the number of retained events.
func (b *ReplayBuffer) Len() int {
	return b.count
}

// Cap returns the retention bound.
func (b *ReplayBuffer) Cap() int {
	return len(b.ring)
}
