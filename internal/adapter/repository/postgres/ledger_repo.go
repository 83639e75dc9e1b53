package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/giftledger/internal/domain"
	"github.com/iho/giftledger/internal/infrastructure/postgres/generated"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return newLedgerRepository(pool)
}

func newLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// CheckConsistency lists cards whose stored balance differs from the sum
// of their active entries (domain.BalanceStatuses).
func (r *LedgerRepository) CheckConsistency(ctx context.Context) ([]domain.BalanceDrift, error) {
	rows, err := r.queries.ListBalanceDrifts(ctx)
	if err != nil {
		return nil, err
	}

	drifts := make([]domain.BalanceDrift, 0, len(rows))
	for _, row := range rows {
		drifts = append(drifts, domain.BalanceDrift{
			CardID:     row.ID,
			ExternalID: row.ExternalID,
			Recorded:   numericToDecimal(row.Balance),
			Calculated: numericToDecimal(row.Calculated),
		})
	}

	return drifts, nil
}
