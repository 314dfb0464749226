package entry

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/creditbook/creditbook-api/internal/domain/balance"
	"github.com/creditbook/creditbook-api/internal/pkg/money"
)

// memoryStore holds customers and entries and implements every store
// interface the service and the real recalculator need.
type memoryStore struct {
	customers map[uuid.UUID]balance.Totals
	entries   map[uuid.UUID]*Entry
	updateErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		customers: map[uuid.UUID]balance.Totals{},
		entries:   map[uuid.UUID]*Entry{},
	}
}

func (m *memoryStore) addCustomer() uuid.UUID {
	id := uuid.New()
	m.customers[id] = balance.Totals{}
	return id
}

func (m *memoryStore) snapshot() *memoryStore {
	cp := newMemoryStore()
	for id, t := range m.customers {
		cp.customers[id] = t
	}
	for id, e := range m.entries {
		ec := *e
		cp.entries[id] = &ec
	}
	return cp
}

func (m *memoryStore) restore(from *memoryStore) {
	m.customers = from.customers
	m.entries = from.entries
}

func (m *memoryStore) Create(ctx context.Context, e *Entry) error {
	if _, ok := m.customers[e.CustomerID]; !ok {
		return ErrCustomerNotFound
	}
	e.ID = uuid.New()
	e.CreatedAt = time.Now().UTC()
	cp := *e
	m.entries[e.ID] = &cp
	return nil
}

func (m *memoryStore) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit int) ([]*Entry, error) {
	out := make([]*Entry, 0)
	for _, e := range m.entries {
		if e.CustomerID == customerID {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*Entry, error) {
	e, ok := m.entries[id]
	if !ok {
		return nil, ErrEntryNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memoryStore) Update(ctx context.Context, e *Entry) error {
	if _, ok := m.entries[e.ID]; !ok {
		return ErrEntryNotFound
	}
	cp := *e
	m.entries[e.ID] = &cp
	return nil
}

func (m *memoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.entries[id]; !ok {
		return ErrEntryNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *memoryStore) ListLines(ctx context.Context, customerID uuid.UUID, limit int) ([]balance.Line, error) {
	entries, _ := m.ListByCustomer(ctx, customerID, limit)
	lines := make([]balance.Line, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, balance.Line{Amount: e.Amount, PaidAmount: e.PaidAmount})
	}
	return lines, nil
}

func (m *memoryStore) LockForUpdate(ctx context.Context, customerID uuid.UUID) (bool, error) {
	_, ok := m.customers[customerID]
	return ok, nil
}

func (m *memoryStore) UpdateTotals(ctx context.Context, customerID uuid.UUID, t balance.Totals) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.customers[customerID] = t
	return nil
}

// snapshotTx restores the store when fn fails, like a rollback.
type snapshotTx struct {
	store *memoryStore
	calls int
}

func (s *snapshotTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.calls++
	saved := s.store.snapshot()
	if err := fn(ctx); err != nil {
		s.store.restore(saved)
		return err
	}
	return nil
}

type countingStats struct {
	invalidations int
}

func (c *countingStats) Invalidate(ctx context.Context) {
	c.invalidations++
}

func newTestService() (*Service, *memoryStore, *countingStats) {
	store := newMemoryStore()
	stats := &countingStats{}
	recalc := balance.NewRecalculator(store, store)
	return NewService(store, store, recalc, &snapshotTx{store: store}, stats), store, stats
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func amt(s string) *money.Amount {
	return money.New(s)
}

func ptr[T any](v T) *T {
	return &v
}
