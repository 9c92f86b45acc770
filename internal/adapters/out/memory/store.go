// Package memory provides an in-process order store with the same
// transactional contract as the postgres adapter: writes staged in a unit of
// work become visible atomically on Commit, and a version-guarded Update
// fails with a version conflict when the stored order moved. It backs local
// runs (STORE_DRIVER=memory) and tests of the core.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"
)

// Store holds committed orders.
type Store struct {
	mu     sync.RWMutex
	orders map[string]*order.Order
	// sequence keeps insertion order for listings.
	sequence []string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{orders: make(map[string]*order.Order)}
}

// UnitOfWorkFactory creates units of work over one Store.
type UnitOfWorkFactory struct {
	store *Store
}

// NewUnitOfWorkFactory creates a factory for store.
func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

// Create returns a fresh unit of work.
func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// OrderRepository returns a repository reading and writing committed state
// directly, for queries outside any unit of work.
func (s *Store) OrderRepository() ports.OrderRepository {
	return &Repository{store: s}
}

type stagedWrite struct {
	aggregate *order.Order
	expected  int
	isNew     bool
}

type txn struct {
	writes map[string]stagedWrite
	order  []string
}

// UnitOfWork stages writes until Commit.
type UnitOfWork struct {
	store *Store
	tx    *txn
}

// Begin starts staging. Calling Begin twice is a no-op.
func (u *UnitOfWork) Begin(_ context.Context) error {
	if u.tx == nil {
		u.tx = &txn{writes: make(map[string]stagedWrite)}
	}
	return nil
}

// Commit applies every staged write, or none if any version guard fails.
func (u *UnitOfWork) Commit(_ context.Context) error {
	if u.tx == nil {
		return errs.NewValueIsRequiredError("active transaction")
	}
	tx := u.tx
	u.tx = nil

	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	for _, id := range tx.order {
		if err := u.store.check(id, tx.writes[id]); err != nil {
			return err
		}
	}
	for _, id := range tx.order {
		w := tx.writes[id]
		if w.isNew {
			u.store.sequence = append(u.store.sequence, id)
		}
		u.store.orders[id] = w.aggregate
	}
	return nil
}

// Rollback drops staged writes.
func (u *UnitOfWork) Rollback(_ context.Context) error {
	if u.tx == nil {
		return errs.NewValueIsRequiredError("active transaction")
	}
	u.tx = nil
	return nil
}

// OrderRepository returns a repository bound to the current unit of work.
func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &Repository{store: u.store, tx: u.tx}
}

// check must be called with s.mu held.
func (s *Store) check(id string, w stagedWrite) error {
	stored, exists := s.orders[id]
	if w.isNew {
		if exists {
			return errs.NewValueIsInvalidErrorWithCause("order id", fmt.Errorf("%s already exists", id))
		}
		return nil
	}
	if !exists {
		return errs.NewObjectNotFoundError("order", id)
	}
	if stored.Version() != w.expected {
		return errs.NewVersionConflictError(id, w.expected, stored.Version())
	}
	return nil
}

// Repository implements ports.OrderRepository over a Store.
type Repository struct {
	store *Store
	tx    *txn
}

func (r *Repository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.write(ctx, stagedWrite{aggregate: clone(aggregate), isNew: true})
}

func (r *Repository) Update(ctx context.Context, aggregate *order.Order, expectedVersion int) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.write(ctx, stagedWrite{aggregate: clone(aggregate), expected: expectedVersion})
}

func (r *Repository) write(_ context.Context, w stagedWrite) error {
	id := w.aggregate.ID().String()

	if r.tx == nil {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
		if err := r.store.check(id, w); err != nil {
			return err
		}
		if w.isNew {
			r.store.sequence = append(r.store.sequence, id)
		}
		r.store.orders[id] = w.aggregate
		return nil
	}

	if staged, ok := r.tx.writes[id]; ok {
		if staged.aggregate.Version() != w.expected {
			return errs.NewVersionConflictError(id, w.expected, staged.aggregate.Version())
		}
		w.isNew = staged.isNew
		w.expected = staged.expected
		r.tx.writes[id] = w
		return nil
	}

	r.store.mu.RLock()
	err := r.store.check(id, w)
	r.store.mu.RUnlock()
	if err != nil {
		return err
	}

	r.tx.writes[id] = w
	r.tx.order = append(r.tx.order, id)
	return nil
}

func (r *Repository) Get(_ context.Context, id kernel.OrderID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	if r.tx != nil {
		if staged, ok := r.tx.writes[id.String()]; ok {
			return clone(staged.aggregate), nil
		}
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	o, ok := r.store.orders[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return clone(o), nil
}

// GetForUpdate reads like Get. Callers serialize per order before reading;
// the version guard in Commit catches anything else.
func (r *Repository) GetForUpdate(ctx context.Context, id kernel.OrderID) (*order.Order, error) {
	return r.Get(ctx, id)
}

func (r *Repository) CountByStatus(_ context.Context, status order.Status) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, o := range r.store.orders {
		if o.Status() == status {
			count++
		}
	}
	return count, nil
}

func (r *Repository) ListByStatus(_ context.Context, status order.Status, limit int) ([]*order.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*order.Order, 0)
	for _, id := range r.store.sequence {
		o := r.store.orders[id]
		if o.Status() != status {
			continue
		}
		out = append(out, clone(o))
	}

	slices.SortStableFunc(out, func(a, b *order.Order) int {
		return a.CreatedAt().Compare(b.CreatedAt())
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// clone copies an aggregate so callers never share state with the store.
func clone(o *order.Order) *order.Order {
	c, err := order.RestoreOrder(
		o.ID(), o.CustomerID(), o.TotalAmount(), o.PaymentMethod(), o.TrackingCode(), o.History(), o.Version(),
	)
	if err != nil {
		// o already satisfied every invariant RestoreOrder checks.
		panic(err)
	}
	return c
}
