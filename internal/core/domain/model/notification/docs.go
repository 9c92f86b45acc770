// Package notification holds the immutable events published on the
// "order-events" topic and the messages delivered to operator sessions.
//
// Event is created by the publisher from a Draft once a sequence id is
// assigned; after that it never changes. Message wraps either an Event or a
// control signal such as ResyncRequired, which tells a reconnecting client
// that its lastAckedSequenceId fell out of the replay window and a full
// resync against the order store is needed.
package notification
