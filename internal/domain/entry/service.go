package entry

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/creditbook/creditbook-api/internal/domain/balance"
	"github.com/creditbook/creditbook-api/internal/pkg/database"
	"github.com/creditbook/creditbook-api/internal/pkg/logger"
)

type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// CustomerLocker checks that a customer exists and locks it for the rest
// of the transaction.
type CustomerLocker interface {
	LockForUpdate(ctx context.Context, customerID uuid.UUID) (bool, error)
}

type Recalculator interface {
	Recalculate(ctx context.Context, customerID uuid.UUID) (balance.Totals, error)
}

type StatsInvalidator interface {
	Invalidate(ctx context.Context)
}

// Service applies entry mutations. Each mutation and the recalculation of
// the owning customer's totals commit or roll back together.
type Service struct {
	repo      Repository
	customers CustomerLocker
	recalc    Recalculator
	tx        TxRunner
	stats     StatsInvalidator
}

func NewService(repo Repository, customers CustomerLocker, recalc Recalculator, tx TxRunner, stats StatsInvalidator) *Service {
	return &Service{
		repo:      repo,
		customers: customers,
		recalc:    recalc,
		tx:        tx,
		stats:     stats,
	}
}

func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Entry, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, ErrCustomerNotFound
	}

	e := &Entry{
		CustomerID:  customerID,
		Amount:      req.Amount.Decimal,
		Description: req.Description,
		Date:        req.Date.Time,
		ImageData:   req.ImageData,
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		found, err := s.customers.LockForUpdate(ctx, customerID)
		if err != nil {
			return err
		}
		if !found {
			return ErrCustomerNotFound
		}
		if err := s.repo.Create(ctx, e); err != nil {
			return err
		}
		return s.recalculate(ctx, customerID)
	})
	if err != nil {
		return nil, err
	}

	s.stats.Invalidate(ctx)
	logger.FromContext(ctx).Info().
		Str("entry_id", e.ID.String()).
		Str("customer_id", customerID.String()).
		Str("amount", e.Amount.String()).
		Msg("credit entry created")
	return e, nil
}

// ListByCustomer returns the customer's entries, newest date first.
// An unknown or malformed customer id gives an empty list.
func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]*Entry, error) {
	id, err := uuid.Parse(customerID)
	if err != nil {
		return []*Entry{}, nil
	}
	return s.repo.ListByCustomer(ctx, id, database.FetchLimit)
}

// Update applies a sparse patch to an entry.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateRequest) (*Entry, error) {
	e, err := s.mutate(ctx, id, req.ApplyTo)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info().
		Str("entry_id", id.String()).
		Str("customer_id", e.CustomerID.String()).
		Msg("credit entry updated")
	return e, nil
}

// UpdatePayment sets is_paid and paid_amount.
func (s *Service) UpdatePayment(ctx context.Context, id uuid.UUID, req *PaymentRequest) (*Entry, error) {
	e, err := s.mutate(ctx, id, func(e *Entry) {
		e.IsPaid = *req.IsPaid
		e.PaidAmount = req.PaidAmount.Decimal
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info().
		Str("entry_id", id.String()).
		Bool("is_paid", e.IsPaid).
		Str("paid_amount", e.PaidAmount.String()).
		Msg("credit entry payment updated")
	return e, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	var customerID uuid.UUID
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		e, err := s.repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		customerID = e.CustomerID
		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
		return s.recalculate(ctx, customerID)
	})
	if err != nil {
		return err
	}

	s.stats.Invalidate(ctx)
	logger.FromContext(ctx).Info().
		Str("entry_id", id.String()).
		Str("customer_id", customerID.String()).
		Msg("credit entry deleted")
	return nil
}

// mutate locks the entry, applies change, writes it back and recalculates
// the owner, all in one transaction.
func (s *Service) mutate(ctx context.Context, id uuid.UUID, change func(*Entry)) (*Entry, error) {
	var e *Entry
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		e, err = s.repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		change(e)
		if err := s.repo.Update(ctx, e); err != nil {
			return err
		}
		return s.recalculate(ctx, e.CustomerID)
	})
	if err != nil {
		return nil, err
	}

	s.stats.Invalidate(ctx)
	return e, nil
}

func (s *Service) recalculate(ctx context.Context, customerID uuid.UUID) error {
	if _, err := s.recalc.Recalculate(ctx, customerID); err != nil {
		return fmt.Errorf("recalculate customer %s: %w", customerID, err)
	}
	return nil
}
