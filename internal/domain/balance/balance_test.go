package balance

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLines struct {
	byCustomer map[uuid.UUID][]Line
	err        error
	lastLimit  int
}

func (f *fakeLines) ListLines(_ context.Context, customerID uuid.UUID, limit int) ([]Line, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.byCustomer[customerID], nil
}

type fakeTotals struct {
	known   map[uuid.UUID]bool
	written map[uuid.UUID]Totals
	locked  []uuid.UUID
	writes  int
}

func (f *fakeTotals) LockForUpdate(_ context.Context, customerID uuid.UUID) (bool, error) {
	f.locked = append(f.locked, customerID)
	return f.known[customerID], nil
}

func (f *fakeTotals) UpdateTotals(_ context.Context, customerID uuid.UUID, totals Totals) error {
	f.writes++
	f.written[customerID] = totals
	return nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSum(t *testing.T) {
	tests := []struct {
		name    string
		lines   []Line
		credit  string
		paid    string
		balance string
	}{
		{name: "no entries", credit: "0", paid: "0", balance: "0"},
		{
			name:    "two unpaid",
			lines:   []Line{{Amount: dec("5000")}, {Amount: dec("2500")}},
			credit:  "7500",
			paid:    "0",
			balance: "7500",
		},
		{
			name:    "partial payment",
			lines:   []Line{{Amount: dec("1000"), PaidAmount: dec("400")}, {Amount: dec("250.50")}},
			credit:  "1250.50",
			paid:    "400",
			balance: "850.50",
		},
		{
			name:    "overpaid goes negative",
			lines:   []Line{{Amount: dec("100"), PaidAmount: dec("150")}},
			credit:  "100",
			paid:    "150",
			balance: "-50",
		},
		{
			name:    "decimal cents stay exact",
			lines:   []Line{{Amount: dec("0.1")}, {Amount: dec("0.2")}},
			credit:  "0.3",
			paid:    "0",
			balance: "0.3",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Sum(tc.lines)
			assert.True(t, got.TotalCredit.Equal(dec(tc.credit)), "credit %s", got.TotalCredit)
			assert.True(t, got.TotalPaid.Equal(dec(tc.paid)), "paid %s", got.TotalPaid)
			assert.True(t, got.OutstandingBalance.Equal(dec(tc.balance)), "balance %s", got.OutstandingBalance)
		})
	}
}

func TestRecalculatePersistsTotals(t *testing.T) {
	id := uuid.New()
	lines := &fakeLines{byCustomer: map[uuid.UUID][]Line{
		id: {{Amount: dec("5000")}, {Amount: dec("2500"), PaidAmount: dec("500")}},
	}}
	store := &fakeTotals{known: map[uuid.UUID]bool{id: true}, written: map[uuid.UUID]Totals{}}

	got, err := NewRecalculator(lines, store).Recalculate(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{id}, store.locked)
	assert.Equal(t, 1000, lines.lastLimit)
	assert.True(t, got.TotalCredit.Equal(dec("7500")))
	assert.True(t, got.OutstandingBalance.Equal(dec("7000")))
	assert.True(t, store.written[id].TotalPaid.Equal(dec("500")))
}

func TestRecalculateIsIdempotent(t *testing.T) {
	id := uuid.New()
	lines := &fakeLines{byCustomer: map[uuid.UUID][]Line{id: {{Amount: dec("42")}}}}
	store := &fakeTotals{known: map[uuid.UUID]bool{id: true}, written: map[uuid.UUID]Totals{}}
	r := NewRecalculator(lines, store)

	first, err := r.Recalculate(context.Background(), id)
	require.NoError(t, err)
	second, err := r.Recalculate(context.Background(), id)
	require.NoError(t, err)

	assert.True(t, first.TotalCredit.Equal(second.TotalCredit))
	assert.True(t, first.OutstandingBalance.Equal(second.OutstandingBalance))
	assert.Equal(t, 2, store.writes)
}

func TestRecalculateUnknownCustomer(t *testing.T) {
	store := &fakeTotals{known: map[uuid.UUID]bool{}, written: map[uuid.UUID]Totals{}}
	_, err := NewRecalculator(&fakeLines{}, store).Recalculate(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrCustomerNotFound)
	assert.Zero(t, store.writes)
}

func TestRecalculateListFailureDoesNotWrite(t *testing.T) {
	id := uuid.New()
	boom := errors.New("connection reset")
	store := &fakeTotals{known: map[uuid.UUID]bool{id: true}, written: map[uuid.UUID]Totals{}}

	_, err := NewRecalculator(&fakeLines{err: boom}, store).Recalculate(context.Background(), id)
	require.ErrorIs(t, err, boom)
	assert.Zero(t, store.writes)
}
