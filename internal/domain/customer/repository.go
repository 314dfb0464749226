package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/creditbook/creditbook-api/internal/domain/balance"
	"github.com/creditbook/creditbook-api/internal/pkg/database"
)

const queryTimeout = 3 * time.Second

const columns = `id, name, phone, address, total_credit, total_paid, outstanding_balance, created_at`

type Repository interface {
	Create(ctx context.Context, c *Customer) error
	List(ctx context.Context, limit int) ([]*Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CustomerRepository stores customers in Postgres.
// Every query joins the transaction carried by ctx, if any.
type CustomerRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create assigns the id and created_at, then inserts c with zero totals.
func (r *CustomerRepository) Create(ctx context.Context, c *Customer) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	c.ID = uuid.New()
	c.CreatedAt = database.Timestamp(time.Now())

	_, err := database.Conn(ctx, r.db).ExecContext(ctx2, `
		INSERT INTO customers (id, name, phone, address, total_credit, total_paid, outstanding_balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.ID, c.Name, c.Phone, c.Address, c.TotalCredit, c.TotalPaid, c.OutstandingBalance, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) List(ctx context.Context, limit int) ([]*Customer, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	customers := make([]*Customer, 0)
	err := database.Conn(ctx, r.db).SelectContext(ctx2, &customers, `
		SELECT `+columns+`
		FROM customers
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*Customer, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var c Customer
	err := database.Conn(ctx, r.db).GetContext(ctx2, &c, `SELECT `+columns+` FROM customers WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

// Update writes name, phone and address, then reloads c from the row.
func (r *CustomerRepository) Update(ctx context.Context, c *Customer) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := database.Conn(ctx, r.db).GetContext(ctx2, c, `
		UPDATE customers
		SET name = $2, phone = $3, address = $4
		WHERE id = $1
		RETURNING `+columns,
		c.ID, c.Name, c.Phone, c.Address)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCustomerNotFound
		}
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := database.Conn(ctx, r.db).ExecContext(ctx2, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

// LockForUpdate takes a row lock on the customer for the rest of the
// surrounding transaction. It reports false when the customer is missing.
func (r *CustomerRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var locked uuid.UUID
	err := database.Conn(ctx, r.db).GetContext(ctx2, &locked, `SELECT id FROM customers WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lock customer: %w", err)
	}
	return true, nil
}

// UpdateTotals writes the three cached totals and nothing else.
func (r *CustomerRepository) UpdateTotals(ctx context.Context, id uuid.UUID, t balance.Totals) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := database.Conn(ctx, r.db).ExecContext(ctx2, `
		UPDATE customers
		SET total_credit = $2, total_paid = $3, outstanding_balance = $4
		WHERE id = $1
	`, id, t.TotalCredit, t.TotalPaid, t.OutstandingBalance)
	if err != nil {
		return fmt.Errorf("update customer totals: %w", err)
	}
	return nil
}

// ListIDsAfter returns up to limit customer ids greater than after, ascending.
func (r *CustomerRepository) ListIDsAfter(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	ids := make([]uuid.UUID, 0, limit)
	err := database.Conn(ctx, r.db).SelectContext(ctx2, &ids, `
		SELECT id FROM customers
		WHERE id > $1
		ORDER BY id
		LIMIT $2
	`, after, limit)
	if err != nil {
		return nil, fmt.Errorf("list customer ids: %w", err)
	}
	return ids, nil
}
