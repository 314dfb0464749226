package entry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/creditbook/creditbook-api/internal/domain/balance"
	"github.com/creditbook/creditbook-api/internal/pkg/database"
	"github.com/creditbook/creditbook-api/internal/pkg/logger"
)

const queryTimeout = 3 * time.Second

const columns = `id, customer_id, amount, description, date, image_data, is_paid, paid_amount, created_at`

type Repository interface {
	Create(ctx context.Context, e *Entry) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit int) ([]*Entry, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*Entry, error)
	Update(ctx context.Context, e *Entry) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// EntryRepository stores credit entries in Postgres.
type EntryRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// Create assigns id and created_at and inserts e.
func (r *EntryRepository) Create(ctx context.Context, e *Entry) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	e.ID = uuid.New()
	e.CreatedAt = database.Timestamp(time.Now())
	e.Date = database.Timestamp(e.Date)

	_, err := database.Conn(ctx, r.db).ExecContext(ctx2, `
		INSERT INTO credit_entries (id, customer_id, amount, description, date, image_data, is_paid, paid_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, e.ID, e.CustomerID, e.Amount, e.Description, e.Date, e.ImageData, e.IsPaid, e.PaidAmount, e.CreatedAt)
	if err != nil {
		evt := logger.FromContext(ctx).Error().
			Str("query", "credit_entries.create").
			Str("entry_id", e.ID.String()).
			Str("customer_id", e.CustomerID.String()).
			Err(err)

		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			evt = evt.
				Str("pg_code", string(pqErr.Code)).
				Str("pg_constraint", pqErr.Constraint)
		}

		evt.Msg("credit entry insert failed")
		return mapCreateDBError(err)
	}
	return nil
}

func mapCreateDBError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return fmt.Errorf("insert credit entry: %w", err)
	}

	switch pqErr.Code {
	case "23503":
		// the customer was deleted after it was checked
		return fmt.Errorf("%w: %w", ErrCustomerNotFound, err)
	default:
		return fmt.Errorf("insert credit entry: %w", err)
	}
}

func (r *EntryRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit int) ([]*Entry, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	entries := make([]*Entry, 0)
	err := database.Conn(ctx, r.db).SelectContext(ctx2, &entries, `
		SELECT `+columns+`
		FROM credit_entries
		WHERE customer_id = $1
		ORDER BY date DESC
		LIMIT $2
	`, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list credit entries: %w", err)
	}
	return entries, nil
}

// GetForUpdate reads an entry and locks its row until the surrounding
// transaction ends.
func (r *EntryRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*Entry, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var e Entry
	err := database.Conn(ctx, r.db).GetContext(ctx2, &e, `SELECT `+columns+` FROM credit_entries WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("get credit entry: %w", err)
	}
	return &e, nil
}

// Update writes the mutable fields of e. customer_id, image_data and
// created_at never change.
func (r *EntryRepository) Update(ctx context.Context, e *Entry) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	e.Date = database.Timestamp(e.Date)

	result, err := database.Conn(ctx, r.db).ExecContext(ctx2, `
		UPDATE credit_entries
		SET amount = $2, description = $3, date = $4, is_paid = $5, paid_amount = $6
		WHERE id = $1
	`, e.ID, e.Amount, e.Description, e.Date, e.IsPaid, e.PaidAmount)
	if err != nil {
		return fmt.Errorf("update credit entry: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *EntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := database.Conn(ctx, r.db).ExecContext(ctx2, `DELETE FROM credit_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete credit entry: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// DeleteByCustomer removes every entry of a customer and reports how many
// rows went.
func (r *EntryRepository) DeleteByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := database.Conn(ctx, r.db).ExecContext(ctx2, `DELETE FROM credit_entries WHERE customer_id = $1`, customerID)
	if err != nil {
		return 0, fmt.Errorf("delete customer entries: %w", err)
	}
	return result.RowsAffected()
}

// ListLines returns the amounts that feed a customer's totals.
func (r *EntryRepository) ListLines(ctx context.Context, customerID uuid.UUID, limit int) ([]balance.Line, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	lines := make([]balance.Line, 0)
	err := database.Conn(ctx, r.db).SelectContext(ctx2, &lines, `
		SELECT amount, paid_amount
		FROM credit_entries
		WHERE customer_id = $1
		ORDER BY date DESC
		LIMIT $2
	`, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list entry lines: %w", err)
	}
	return lines, nil
}
