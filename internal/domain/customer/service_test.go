package customer

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creditbook/creditbook-api/internal/domain/balance"
)

type serviceDeps struct {
	repo    *memoryRepo
	entries *fakeEntries
	recalc  *fakeRecalc
	tx      *inlineTx
	stats   *countingStats
}

func newTestService() (*Service, *serviceDeps) {
	repo := newMemoryRepo()
	d := &serviceDeps{
		repo:    repo,
		entries: &fakeEntries{count: map[uuid.UUID]int64{}},
		recalc:  &fakeRecalc{repo: repo},
		tx:      &inlineTx{},
		stats:   &countingStats{},
	}
	return NewService(d.repo, d.entries, d.recalc, d.tx, d.stats), d
}

func TestServiceCreateStartsWithZeroTotals(t *testing.T) {
	svc, deps := newTestService()

	c, err := svc.Create(context.Background(), &CreateRequest{Name: "Rajesh Kumar", Phone: ptr("9876543210")})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, c.ID)
	assert.False(t, c.CreatedAt.IsZero())
	assert.True(t, c.TotalCredit.IsZero())
	assert.True(t, c.TotalPaid.IsZero())
	assert.True(t, c.OutstandingBalance.IsZero())
	assert.Nil(t, c.Address)
	assert.Equal(t, 1, deps.stats.invalidations)
}

func TestServiceCreatePropagatesStoreError(t *testing.T) {
	svc, deps := newTestService()
	deps.repo.createErr = errStore

	_, err := svc.Create(context.Background(), &CreateRequest{Name: "A"})
	require.ErrorIs(t, err, errStore)
	assert.Zero(t, deps.stats.invalidations)
}

func TestServiceUpdateKeepsTotals(t *testing.T) {
	svc, deps := newTestService()
	ctx := context.Background()

	c, err := svc.Create(ctx, &CreateRequest{Name: "Old", Phone: ptr("1")})
	require.NoError(t, err)
	deps.repo.customers[c.ID].TotalCredit = decimal.NewFromInt(7500)
	deps.repo.customers[c.ID].OutstandingBalance = decimal.NewFromInt(7500)

	got, err := svc.Update(ctx, c.ID, &UpdateRequest{Name: "New"})
	require.NoError(t, err)

	assert.Equal(t, "New", got.Name)
	assert.Nil(t, got.Phone, "full replace clears omitted optional fields")
	assert.True(t, got.TotalCredit.Equal(decimal.NewFromInt(7500)))
	assert.Equal(t, c.CreatedAt, got.CreatedAt)
}

func TestServiceUpdateUnknown(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Update(context.Background(), uuid.New(), &UpdateRequest{Name: "X"})
	require.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestServiceDeleteCascadesInOneTransaction(t *testing.T) {
	svc, deps := newTestService()
	ctx := context.Background()

	c, err := svc.Create(ctx, &CreateRequest{Name: "Gone"})
	require.NoError(t, err)
	deps.entries.count[c.ID] = 3

	require.NoError(t, svc.Delete(ctx, c.ID))

	assert.Equal(t, 1, deps.tx.calls)
	assert.Equal(t, []uuid.UUID{c.ID}, deps.entries.deleted)
	_, err = svc.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
	assert.Equal(t, 2, deps.stats.invalidations)
}

func TestServiceDeleteUnknownRollsBack(t *testing.T) {
	svc, deps := newTestService()

	err := svc.Delete(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrCustomerNotFound)
	assert.ErrorIs(t, deps.tx.rollbackErr, ErrCustomerNotFound)
	assert.Zero(t, deps.stats.invalidations)
}

func TestServiceDeleteEntryFailureKeepsCustomer(t *testing.T) {
	svc, deps := newTestService()
	ctx := context.Background()

	c, err := svc.Create(ctx, &CreateRequest{Name: "Kept"})
	require.NoError(t, err)
	deps.entries.err = errStore

	require.ErrorIs(t, svc.Delete(ctx, c.ID), errStore)
	_, err = svc.GetByID(ctx, c.ID)
	assert.NoError(t, err)
}

func TestServiceRecalculate(t *testing.T) {
	svc, deps := newTestService()
	ctx := context.Background()

	c, err := svc.Create(ctx, &CreateRequest{Name: "Rajesh Kumar"})
	require.NoError(t, err)
	deps.recalc.totals = balance.Totals{
		TotalCredit:        decimal.NewFromInt(7500),
		TotalPaid:          decimal.NewFromInt(500),
		OutstandingBalance: decimal.NewFromInt(7000),
	}

	got, err := svc.Recalculate(ctx, c.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, deps.recalc.calls)
	assert.True(t, got.TotalCredit.Equal(decimal.NewFromInt(7500)))
	assert.True(t, got.OutstandingBalance.Equal(decimal.NewFromInt(7000)))
}

func TestServiceRecalculateUnknown(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Recalculate(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestServiceListNewestFirst(t *testing.T) {
	svc, deps := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, &CreateRequest{Name: "first"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, &CreateRequest{Name: "second"})
	require.NoError(t, err)
	deps.repo.customers[second.ID].CreatedAt = first.CreatedAt.Add(1)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Name)
}
