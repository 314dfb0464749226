package balance

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// sweepPageSize is how many customer ids one page of a sweep reads.
const sweepPageSize = 200

// IDLister pages through customer ids in ascending order.
type IDLister interface {
	ListIDsAfter(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error)
}

// TxRunner runs fn inside one database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SweepResult counts the outcome of one sweep.
type SweepResult struct {
	Recalculated int
	Failed       int
}

// Sweep recalculates every customer, each in its own transaction.
// A failing customer is logged and skipped; only a listing failure or
// ctx cancellation stops the sweep.
func (r *Recalculator) Sweep(ctx context.Context, ids IDLister, tx TxRunner) (SweepResult, error) {
	var (
		res   SweepResult
		after uuid.UUID
	)
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		page, err := ids.ListIDsAfter(ctx, after, sweepPageSize)
		if err != nil {
			return res, fmt.Errorf("list customer ids: %w", err)
		}

		for _, id := range page {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			err := tx.WithTx(ctx, func(ctx context.Context) error {
				_, err := r.Recalculate(ctx, id)
				return err
			})
			if err != nil {
				res.Failed++
				log.Error().Err(err).Str("customer_id", id.String()).Msg("recalculation failed")
				continue
			}
			res.Recalculated++
		}

		if len(page) < sweepPageSize {
			return res, nil
		}
		after = page[len(page)-1]
	}
}
