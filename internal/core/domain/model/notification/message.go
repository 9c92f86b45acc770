package notification

// MessageKind distinguishes event deliveries from control messages.
type MessageKind string

const (
	// MessageEvent carries one published Event.
	MessageEvent MessageKind = "Event"

	// MessageResyncRequired reports that the requested catch-up point was
	// evicted from the replay buffer.
	MessageResyncRequired MessageKind = "ResyncRequired"
)

// Message is the unit queued to a session and written to its transport.
type Message struct {
	Kind MessageKind

	// Event is set for MessageEvent.
	Event Event

	// OldestAvailable is the oldest sequence id still buffered, set for
	// MessageResyncRequired.
	OldestAvailable uint64
}

// EventMessage wraps e for delivery.
func EventMessage(e Event) Message {
	return Message{Kind: MessageEvent, Event: e}
}

// ResyncMessage tells the client to refetch state; oldest is the first id
// the client could still replay from.
func ResyncMessage(oldest uint64) Message {
	return Message{Kind: MessageResyncRequired, OldestAvailable: oldest}
}

// SequenceID returns the id a successful delivery acknowledges. Control
// messages acknowledge nothing and return 0.
func (m Message) SequenceID() uint64 {
	if m.Kind != MessageEvent {
		return 0
	}
	return m.Event.SequenceID()
}
