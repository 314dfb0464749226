// Package balance derives a customer's cached totals from its credit entries.
package balance

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/creditbook/creditbook-api/internal/pkg/database"
)

var ErrCustomerNotFound = errors.New("customer not found")

// Line is the part of a credit entry that feeds the totals.
type Line struct {
	Amount     decimal.Decimal `db:"amount"`
	PaidAmount decimal.Decimal `db:"paid_amount"`
}

// Totals are the three cached columns of a customer.
type Totals struct {
	TotalCredit        decimal.Decimal `db:"total_credit" json:"total_credit"`
	TotalPaid          decimal.Decimal `db:"total_paid" json:"total_paid"`
	OutstandingBalance decimal.Decimal `db:"outstanding_balance" json:"outstanding_balance"`
}

// LineSource lists the entry lines of one customer.
type LineSource interface {
	ListLines(ctx context.Context, customerID uuid.UUID, limit int) ([]Line, error)
}

// TotalsStore locks and writes the cached totals of one customer.
type TotalsStore interface {
	LockForUpdate(ctx context.Context, customerID uuid.UUID) (bool, error)
	UpdateTotals(ctx context.Context, customerID uuid.UUID, totals Totals) error
}

// Sum folds lines into totals.
func Sum(lines []Line) Totals {
	var t Totals
	for _, l := range lines {
		t.TotalCredit = t.TotalCredit.Add(l.Amount)
		t.TotalPaid = t.TotalPaid.Add(l.PaidAmount)
	}
	t.OutstandingBalance = t.TotalCredit.Sub(t.TotalPaid)
	return t
}

type Recalculator struct {
	lines  LineSource
	totals TotalsStore
}

func NewRecalculator(lines LineSource, totals TotalsStore) *Recalculator {
	return &Recalculator{lines: lines, totals: totals}
}

// Recalculate recomputes and persists the totals of customerID.
// Callers run it inside the transaction of the mutation that triggered it;
// the customer row stays locked until that transaction ends.
func (r *Recalculator) Recalculate(ctx context.Context, customerID uuid.UUID) (Totals, error) {
	found, err := r.totals.LockForUpdate(ctx, customerID)
	if err != nil {
		return Totals{}, fmt.Errorf("lock customer: %w", err)
	}
	if !found {
		return Totals{}, ErrCustomerNotFound
	}

	lines, err := r.lines.ListLines(ctx, customerID, database.FetchLimit)
	if err != nil {
		return Totals{}, fmt.Errorf("list entry lines: %w", err)
	}

	totals := Sum(lines)
	if err := r.totals.UpdateTotals(ctx, customerID, totals); err != nil {
		return Totals{}, fmt.Errorf("update totals: %w", err)
	}
	return totals, nil
}
