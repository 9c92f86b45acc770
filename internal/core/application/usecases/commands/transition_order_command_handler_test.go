package commands_test

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/domain/model/identity"
	"storefront/internal/core/domain/model/notification"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/keyedmutex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type transitionFixture struct {
	repo      *MockOrderRepository
	uow       *MockOrderUoW
	factory   *MockOrderUoWFactory
	publisher *MockEventPublisher
	handler   *commands.TransitionOrderCommandHandler
}

func newTransitionFixture(t *testing.T, stored *order.Order) *transitionFixture {
	t.Helper()

	f := &transitionFixture{
		repo:      new(MockOrderRepository),
		uow:       new(MockOrderUoW),
		factory:   new(MockOrderUoWFactory),
		publisher: new(MockEventPublisher),
	}
	f.factory.On("Create").Return(f.uow).Once()
	f.uow.On("Begin", mock.Anything).Return(nil).Once()
	f.uow.On("OrderRepository").Return(f.repo).Once()
	f.uow.On("Rollback", mock.Anything).Return(nil).Once()
	f.repo.On("GetForUpdate", mock.Anything, stored.ID()).Return(stored, nil).Once()

	f.handler = commands.NewTransitionOrderCommandHandler(
		f.factory, keyedmutex.New(), services.NewAccessPolicy(), f.publisher, discardLogger(),
		commands.WithClock(fixedClock),
	)
	return f
}

func (f *transitionFixture) assertNothingWritten(t *testing.T) {
	t.Helper()
	f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func newTransitionCmd(
	t *testing.T,
	o *order.Order,
	to order.Status,
	actor identity.Actor,
	expected int,
) commands.TransitionOrderCommand {
	t.Helper()
	cmd, err := commands.NewTransitionOrderCommand(o.ID(), to, actor, expected, nil)
	require.NoError(t, err)
	return cmd
}

func TestTransitionOrderCommandHandler_Success(t *testing.T) {
	stored := newPendingOrder(t, "cust-1")
	f := newTransitionFixture(t, stored)
	admin := newActor(t, "root", identity.RoleAdmin)

	mock.InOrder(
		f.repo.On("Update", mock.Anything, mock.AnythingOfType("*order.Order"), 1).Return(nil).Once(),
		f.uow.On("Commit", mock.Anything).Return(nil).Once(),
		f.publisher.On("Publish", mock.MatchedBy(func(d notification.Draft) bool {
			return d.Kind == notification.OrderStatusChanged &&
				d.OrderID == stored.ID().String() &&
				d.NewStatus == "PROCESSING" &&
				d.Timestamp.Equal(fixedNow)
		})).Return(notification.Event{}, nil).Once(),
	)

	o, err := f.handler.Handle(t.Context(), newTransitionCmd(t, stored, order.Processing, admin, 1))

	require.NoError(t, err)
	assert.Equal(t, order.Processing, o.Status())
	assert.Equal(t, 2, o.Version())
	assert.Equal(t, identity.RoleAdmin, o.History()[1].ActorRole())
	f.repo.AssertExpectations(t)
	f.uow.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_NotFound(t *testing.T) {
	stored := newPendingOrder(t, "cust-1")
	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)
	publisher := new(MockEventPublisher)
	factory.On("Create").Return(uow).Once()
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", mock.Anything).Return(nil).Once()
	repo.On("GetForUpdate", mock.Anything, stored.ID()).
		Return(nil, errs.NewObjectNotFoundError("order", stored.ID().String())).Once()

	handler := commands.NewTransitionOrderCommandHandler(
		factory, keyedmutex.New(), services.NewAccessPolicy(), publisher, discardLogger(),
	)
	_, err := handler.Handle(t.Context(), newTransitionCmd(t, stored, order.Processing, newActor(t, "root", identity.RoleAdmin), 1))

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	publisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestTransitionOrderCommandHandler_CheckOrder(t *testing.T) {
	testCases := []struct {
		name     string
		actor    func(t *testing.T) identity.Actor
		to       order.Status
		expected int
		want     error
	}{
		{
			name:     "foreign customer is forbidden before the version is compared",
			actor:    func(t *testing.T) identity.Actor { return newActor(t, "cust-2", identity.RoleCustomer) },
			to:       order.Cancelled,
			expected: 9,
			want:     errs.ErrForbidden,
		},
		{
			name:     "stale version conflicts before legality is checked",
			actor:    func(t *testing.T) identity.Actor { return newActor(t, "root", identity.RoleAdmin) },
			to:       order.Delivered,
			expected: 9,
			want:     errs.ErrVersionConflict,
		},
		{
			name:     "illegal edge is reported before the role is checked",
			actor:    func(t *testing.T) identity.Actor { return newActor(t, "ops-1", identity.RoleOperator) },
			to:       order.Delivered,
			expected: 1,
			want:     errs.ErrInvalidTransition,
		},
		{
			name:     "role not granted on a legal edge is forbidden",
			actor:    func(t *testing.T) identity.Actor { return newActor(t, "cust-1", identity.RoleCustomer) },
			to:       order.Processing,
			expected: 1,
			want:     errs.ErrForbidden,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stored := newPendingOrder(t, "cust-1")
			f := newTransitionFixture(t, stored)

			_, err := f.handler.Handle(t.Context(), newTransitionCmd(t, stored, tc.to, tc.actor(t), tc.expected))

			require.ErrorIs(t, err, tc.want)
			f.assertNothingWritten(t)
		})
	}
}

func TestTransitionOrderCommandHandler_ConflictCarriesVersions(t *testing.T) {
	stored := newPendingOrder(t, "cust-1")
	f := newTransitionFixture(t, stored)

	_, err := f.handler.Handle(t.Context(), newTransitionCmd(t, stored, order.Processing, newActor(t, "root", identity.RoleAdmin), 3))

	var conflict *errs.VersionConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, 3, conflict.Expected)
	assert.Equal(t, 1, conflict.Actual)
}

func TestTransitionOrderCommandHandler_InvalidTransitionCarriesStatuses(t *testing.T) {
	stored := newPendingOrder(t, "cust-1")
	f := newTransitionFixture(t, stored)

	_, err := f.handler.Handle(t.Context(), newTransitionCmd(t, stored, order.Shipped, newActor(t, "root", identity.RoleAdmin), 1))

	var invalid *errs.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "PENDING", invalid.Current)
	assert.Equal(t, "SHIPPED", invalid.Requested)
}

func TestTransitionOrderCommandHandler_CommitErrorPublishesNothing(t *testing.T) {
	stored := newPendingOrder(t, "cust-1")
	f := newTransitionFixture(t, stored)
	f.repo.On("Update", mock.Anything, mock.Anything, 1).Return(nil).Once()
	f.uow.On("Commit", mock.Anything).Return(errors.New("connection reset")).Once()

	_, err := f.handler.Handle(t.Context(), newTransitionCmd(t, stored, order.Cancelled, newActor(t, "cust-1", identity.RoleCustomer), 1))

	require.Error(t, err)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestTransitionOrderCommandHandler_UpdateConflictIsReturned(t *testing.T) {
	stored := newPendingOrder(t, "cust-1")
	f := newTransitionFixture(t, stored)
	f.repo.On("Update", mock.Anything, mock.Anything, 1).
		Return(errs.NewVersionConflictError(stored.ID().String(), 1, 2)).Once()

	_, err := f.handler.Handle(t.Context(), newTransitionCmd(t, stored, order.Processing, newActor(t, "root", identity.RoleAdmin), 1))

	require.ErrorIs(t, err, errs.ErrVersionConflict)
	f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestTransitionOrderCommandHandler_PublishFailureDoesNotFailTransition(t *testing.T) {
	stored := newPendingOrder(t, "cust-1")
	f := newTransitionFixture(t, stored)
	f.repo.On("Update", mock.Anything, mock.Anything, 1).Return(nil).Once()
	f.uow.On("Commit", mock.Anything).Return(nil).Once()
	f.publisher.On("Publish", mock.Anything).Return(notification.Event{}, errors.New("boom")).Once()

	o, err := f.handler.Handle(t.Context(), newTransitionCmd(t, stored, order.Processing, newActor(t, "root", identity.RoleAdmin), 1))

	require.NoError(t, err)
	assert.Equal(t, order.Processing, o.Status())
}

func TestTransitionOrderCommandHandler_IgnoresCallerCancellation(t *testing.T) {
	stored := newPendingOrder(t, "cust-1")
	f := newTransitionFixture(t, stored)
	f.repo.On("Update", mock.Anything, mock.Anything, 1).Return(nil).Once()
	f.uow.On("Commit", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	})).Return(nil).Once()
	f.publisher.On("Publish", mock.Anything).Return(notification.Event{}, nil).Once()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := f.handler.Handle(ctx, newTransitionCmd(t, stored, order.Processing, newActor(t, "root", identity.RoleAdmin), 1))

	require.NoError(t, err)
	f.uow.AssertExpectations(t)
}
