package dashboard

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/creditbook/creditbook-api/internal/pkg/cache"
	"github.com/creditbook/creditbook-api/internal/pkg/database"
	"github.com/creditbook/creditbook-api/internal/pkg/logger"
)

// Stats represents dashboard statistics
type Stats struct {
	TotalCustomers     int64           `json:"total_customers"`
	TotalCreditEntries int64           `json:"total_credit_entries"`
	TotalOutstanding   decimal.Decimal `json:"total_outstanding"`
	TotalCredit        decimal.Decimal `json:"total_credit"`
	TotalPaid          decimal.Decimal `json:"total_paid"`
}

// Service provides dashboard statistics.
// Sums are taken over the customers' cached totals, never over entries.
type Service struct {
	repo  Repository
	cache *cache.Cache
}

// NewService creates dashboard service
func NewService(repo Repository, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

// GetStats returns the dashboard figures, from cache when possible.
// When the cache itself fails the figures are read straight from the store.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	key, err := s.cache.BuildKey(ctx, "dashboard", "stats")
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("dashboard cache unavailable")
		return s.load(ctx)
	}

	var (
		stats   Stats
		loadErr error
	)
	err = s.cache.FetchJSON(ctx, key, &stats, func(ctx context.Context) (interface{}, error) {
		st, err := s.load(ctx)
		loadErr = err
		return st, err
	})
	if loadErr != nil {
		return nil, loadErr
	}
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("key", key).Msg("dashboard cache read failed")
		return s.load(ctx)
	}
	return &stats, nil
}

// Invalidate drops cached stats. A failure is logged; cached figures then
// live until the TTL runs out.
func (s *Service) Invalidate(ctx context.Context) {
	if err := s.cache.Bump(ctx); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("dashboard cache invalidation failed")
	}
}

func (s *Service) load(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	var err error
	if stats.TotalCustomers, err = s.repo.CountCustomers(ctx); err != nil {
		return nil, err
	}
	if stats.TotalCreditEntries, err = s.repo.CountEntries(ctx); err != nil {
		return nil, err
	}

	totals, err := s.repo.ListTotals(ctx, database.FetchLimit)
	if err != nil {
		return nil, err
	}
	for _, t := range totals {
		stats.TotalCredit = stats.TotalCredit.Add(t.TotalCredit)
		stats.TotalPaid = stats.TotalPaid.Add(t.TotalPaid)
		stats.TotalOutstanding = stats.TotalOutstanding.Add(t.OutstandingBalance)
	}

	return stats, nil
}
