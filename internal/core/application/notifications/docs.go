// Package notifications implements the operator notification fan-out: the
// event publisher with its bounded replay buffer, the session registry and
// the dispatcher that delivers events to every connected operator console.
//
// # Flow
//
//	TransitionOrderCommandHandler ──commit──> Publisher.Publish
//	                                              │ assigns sequence id
//	                                              │ appends to ReplayBuffer
//	                                              ▼
//	                                        Dispatcher.Broadcast
//	                                              │ non-blocking enqueue
//	                          ┌───────────────────┼───────────────────┐
//	                          ▼                   ▼                   ▼
//	                   session queue        session queue       session queue
//	                   (worker, 5s)         (worker, 5s)        (worker, 5s)
//
// Every push session owns a FIFO channel drained by its own goroutine, so a
// stalled console only delays itself. Three consecutive failed deliveries
// evict the session.
//
// # Catch-up
//
// Registry.Register replays everything after the client's lastAckedSequenceId
// into the new session's queue and joins it to live dispatch while holding the
// publisher lock, so no event can fall between catch-up and live delivery.
// When the requested id was already evicted from the buffer the session gets
// a ResyncRequired message instead and must refetch from the order store.
//
// # Poll fallback
//
// Poll sessions receive no pushes. Registry.Poll compares the current number
// of PENDING orders with the count the same session saw last time. A
// cancellation and a new order landing between two polls leave the count
// unchanged, so that pair is not reported; clients needing exact changes use
// the push channel or the replay endpoint.
package notifications
