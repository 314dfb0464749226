package customer

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/creditbook/creditbook-api/internal/domain/balance"
	"github.com/creditbook/creditbook-api/internal/pkg/database"
	"github.com/creditbook/creditbook-api/internal/pkg/logger"
)

// TxRunner runs fn inside one database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// EntryRemover deletes every credit entry of a customer.
type EntryRemover interface {
	DeleteByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
}

// Recalculator recomputes a customer's cached totals.
type Recalculator interface {
	Recalculate(ctx context.Context, customerID uuid.UUID) (balance.Totals, error)
}

// StatsInvalidator drops cached dashboard figures.
type StatsInvalidator interface {
	Invalidate(ctx context.Context)
}

type Service struct {
	repo    Repository
	entries EntryRemover
	recalc  Recalculator
	tx      TxRunner
	stats   StatsInvalidator
}

func NewService(repo Repository, entries EntryRemover, recalc Recalculator, tx TxRunner, stats StatsInvalidator) *Service {
	return &Service{
		repo:    repo,
		entries: entries,
		recalc:  recalc,
		tx:      tx,
		stats:   stats,
	}
}

func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Customer, error) {
	c := &Customer{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.stats.Invalidate(ctx)
	logger.FromContext(ctx).Info().Str("customer_id", c.ID.String()).Msg("customer created")
	return c, nil
}

func (s *Service) List(ctx context.Context) ([]*Customer, error) {
	return s.repo.List(ctx, database.FetchLimit)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Customer, error) {
	return s.repo.GetByID(ctx, id)
}

// Update replaces name, phone and address. Totals are left alone.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateRequest) (*Customer, error) {
	c := &Customer{
		ID:      id,
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info().Str("customer_id", id.String()).Msg("customer updated")
	return c, nil
}

// Delete removes the customer together with all of its credit entries.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	var removed int64
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		n, err := s.entries.DeleteByCustomer(ctx, id)
		if err != nil {
			return err
		}
		removed = n
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.stats.Invalidate(ctx)
	logger.FromContext(ctx).Info().
		Str("customer_id", id.String()).
		Int64("entries_removed", removed).
		Msg("customer deleted")
	return nil
}

// Recalculate recomputes the customer's totals from its entries and
// returns the refreshed customer.
func (s *Service) Recalculate(ctx context.Context, id uuid.UUID) (*Customer, error) {
	var c *Customer
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.recalc.Recalculate(ctx, id); err != nil {
			if errors.Is(err, balance.ErrCustomerNotFound) {
				return ErrCustomerNotFound
			}
			return err
		}
		var err error
		c, err = s.repo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.stats.Invalidate(ctx)
	logger.FromContext(ctx).Info().
		Str("customer_id", id.String()).
		Str("outstanding_balance", c.OutstandingBalance.String()).
		Msg("customer totals recalculated")
	return c, nil
}
