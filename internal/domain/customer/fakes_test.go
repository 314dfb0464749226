package customer

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/creditbook/creditbook-api/internal/domain/balance"
)

type memoryRepo struct {
	customers map[uuid.UUID]*Customer
	createErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{customers: map[uuid.UUID]*Customer{}}
}

func (m *memoryRepo) Create(ctx context.Context, c *Customer) error {
	if m.createErr != nil {
		return m.createErr
	}
	c.ID = uuid.New()
	c.CreatedAt = time.Now().UTC()
	cp := *c
	m.customers[c.ID] = &cp
	return nil
}

func (m *memoryRepo) List(ctx context.Context, limit int) ([]*Customer, error) {
	out := make([]*Customer, 0, len(m.customers))
	for _, c := range m.customers {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memoryRepo) Update(ctx context.Context, c *Customer) error {
	stored, ok := m.customers[c.ID]
	if !ok {
		return ErrCustomerNotFound
	}
	stored.Name = c.Name
	stored.Phone = c.Phone
	stored.Address = c.Address
	*c = *stored
	return nil
}

func (m *memoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.customers[id]; !ok {
		return ErrCustomerNotFound
	}
	delete(m.customers, id)
	return nil
}

type fakeEntries struct {
	count   map[uuid.UUID]int64
	deleted []uuid.UUID
	err     error
}

func (f *fakeEntries) DeleteByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.deleted = append(f.deleted, customerID)
	return f.count[customerID], nil
}

// fakeRecalc writes fixed totals into the memory repo.
type fakeRecalc struct {
	repo   *memoryRepo
	totals balance.Totals
	calls  int
}

func (f *fakeRecalc) Recalculate(ctx context.Context, customerID uuid.UUID) (balance.Totals, error) {
	f.calls++
	c, ok := f.repo.customers[customerID]
	if !ok {
		return balance.Totals{}, balance.ErrCustomerNotFound
	}
	c.TotalCredit = f.totals.TotalCredit
	c.TotalPaid = f.totals.TotalPaid
	c.OutstandingBalance = f.totals.OutstandingBalance
	return f.totals, nil
}

// inlineTx runs fn directly. rollbackErr records the error a real
// transaction would have rolled back on.
type inlineTx struct {
	calls       int
	rollbackErr error
}

func (t *inlineTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	err := fn(ctx)
	if err != nil {
		t.rollbackErr = err
	}
	return err
}

type countingStats struct {
	invalidations int
}

func (c *countingStats) Invalidate(ctx context.Context) {
	c.invalidations++
}

var errStore = errors.New("store unavailable")

func ptr[T any](v T) *T {
	return &v
}
