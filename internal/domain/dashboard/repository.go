package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/creditbook/creditbook-api/internal/domain/balance"
)

const queryTimeout = 3 * time.Second

type Repository interface {
	CountCustomers(ctx context.Context) (int64, error)
	CountEntries(ctx context.Context) (int64, error)
	ListTotals(ctx context.Context, limit int) ([]balance.Totals, error)
}

// StatsRepository reads dashboard figures from Postgres
type StatsRepository struct {
	db *sqlx.DB
}

// NewRepository creates dashboard repository
func NewRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) CountCustomers(ctx context.Context) (int64, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var n int64
	if err := r.db.GetContext(ctx2, &n, `SELECT COUNT(*) FROM customers`); err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return n, nil
}

func (r *StatsRepository) CountEntries(ctx context.Context) (int64, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var n int64
	if err := r.db.GetContext(ctx2, &n, `SELECT COUNT(*) FROM credit_entries`); err != nil {
		return 0, fmt.Errorf("count credit entries: %w", err)
	}
	return n, nil
}

// ListTotals returns the cached totals of up to limit customers
func (r *StatsRepository) ListTotals(ctx context.Context, limit int) ([]balance.Totals, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	totals := make([]balance.Totals, 0)
	err := r.db.SelectContext(ctx2, &totals, `
		SELECT total_credit, total_paid, outstanding_balance
		FROM customers
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list customer totals: %w", err)
	}
	return totals, nil
}
