package notifications_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"storefront/internal/core/application/notifications"
	"storefront/internal/core/domain/model/identity"
	"storefront/internal/core/domain/model/notification"
	"storefront/internal/core/domain/services"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errPeerGone = errors.New("peer gone")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubGate resolves fixed tokens and defers role checks to the real policy.
type stubGate struct {
	actors    map[string]identity.Actor
	policy    services.AccessPolicy
	authCalls atomic.Int32
}

func newStubGate(t *testing.T) *stubGate {
	t.Helper()

	mk := func(id string, role identity.Role) identity.Actor {
		a, err := identity.NewActor(id, role)
		require.NoError(t, err)
		return a
	}

	return &stubGate{
		actors: map[string]identity.Actor{
			"admin-token":    mk("root", identity.RoleAdmin),
			"ops-token":      mk("ops-1", identity.RoleOperator),
			"ops2-token":     mk("ops-2", identity.RoleOperator),
			"customer-token": mk("cust-1", identity.RoleCustomer),
		},
		policy: services.NewAccessPolicy(),
	}
}

func (g *stubGate) Authenticate(_ context.Context, credential string) (identity.Actor, error) {
	g.authCalls.Add(1)
	actor, ok := g.actors[credential]
	if !ok {
		return identity.Actor{}, errs.NewUnauthorizedError("invalid token")
	}
	return actor, nil
}

func (g *stubGate) RequireOperator(actor identity.Actor, action string) error {
	return g.policy.RequireOperator(actor, action)
}

func (g *stubGate) actor(token string) identity.Actor {
	return g.actors[token]
}

// mockPendingCounter is a testify mock of notifications.PendingCounter.
type mockPendingCounter struct {
	mock.Mock
}

func (m *mockPendingCounter) CountPending(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// fakeTransport records deliveries. Failures and stalls are scripted.
type fakeTransport struct {
	mu       sync.Mutex
	sent     []notification.Message
	attempts int
	failN    int           // fail the first failN sends
	failAll  bool          // fail every send
	stall    bool          // block sends until ctx ends
	gate     chan struct{} // when set, each send waits for one value
	pingErr  error
	pings    int
	closed   bool
	reason   string
}

func (f *fakeTransport) Send(ctx context.Context, msg notification.Message) error {
	f.mu.Lock()
	f.attempts++
	attempt := f.attempts
	stall, failAll, failN, gate := f.stall, f.failAll, f.failN, f.gate
	f.mu.Unlock()

	if stall {
		<-ctx.Done()
		return ctx.Err()
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if failAll || attempt <= failN {
		return errPeerGone
	}

	f.mu.Lock()
	f.sent = append(f.sent, msg)
	f.mu.Unlock()
	return nil
}

func (f *fakeTransport) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	return f.pingErr
}

func (f *fakeTransport) Close(reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.reason = reason
	return nil
}

func (f *fakeTransport) messages() []notification.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]notification.Message, len(f.sent))
	copy(out, f.sent)
	return out
}

func (f *fakeTransport) sequenceIDs() []uint64 {
	ids := make([]uint64, 0)
	for _, m := range f.messages() {
		ids = append(ids, m.SequenceID())
	}
	return ids
}

func (f *fakeTransport) attemptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts
}

func (f *fakeTransport) isClosed() (bool, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed, f.reason
}

// recordingBroadcaster captures what the publisher hands to fan-out.
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []notification.Event
}

func (b *recordingBroadcaster) Broadcast(e notification.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *recordingBroadcaster) all() []notification.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]notification.Event, len(b.events))
	copy(out, b.events)
	return out
}

// pipeline is a publisher, dispatcher and registry wired like production.
type pipeline struct {
	gate       *stubGate
	pending    *mockPendingCounter
	dispatcher *notifications.Dispatcher
	publisher  *notifications.Publisher
	registry   *notifications.Registry
}

func newPipeline(
	t *testing.T,
	bufferSize int,
	dcfg notifications.DispatcherConfig,
	rcfg notifications.RegistryConfig,
) *pipeline {
	t.Helper()

	logger := discardLogger()
	p := &pipeline{
		gate:    newStubGate(t),
		pending: &mockPendingCounter{},
	}
	p.dispatcher = notifications.NewDispatcher(dcfg, logger)
	p.publisher = notifications.NewPublisher(p.dispatcher, notifications.PublisherConfig{BufferSize: bufferSize}, logger)
	p.registry = notifications.NewRegistry(p.gate, p.publisher, p.dispatcher, p.pending, rcfg, logger)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		p.registry.Close(ctx)
	})
	return p
}

func (p *pipeline) publish(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := p.publisher.Publish(notification.NewOrderCreated("order", "PENDING", time.Now()))
		require.NoError(t, err)
	}
}

func (p *pipeline) registerPush(t *testing.T, id string, conn *fakeTransport, lastAcked uint64) {
	t.Helper()
	_, err := p.registry.Register(context.Background(), notifications.RegisterRequest{
		ConnectionID:        id,
		Credential:          "ops-token",
		Transport:           notifications.Push,
		Conn:                conn,
		LastAckedSequenceID: lastAcked,
	})
	require.NoError(t, err)
}

func seq(from, to uint64) []uint64 {
	out := make([]uint64, 0)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}
