package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/giftledger/internal/domain"
	"github.com/iho/giftledger/internal/infrastructure/postgres/generated"
)

// OwnerRepository implements usecase.OwnerRepository.
type OwnerRepository struct {
	queries *generated.Queries
}

// NewOwnerRepository creates a new OwnerRepository.
func NewOwnerRepository(pool *pgxpool.Pool) *OwnerRepository {
	return &OwnerRepository{queries: generated.New(pool)}
}

func (r *OwnerRepository) Create(ctx context.Context, owner *domain.Owner) error {
	return r.queries.CreateOwner(ctx, generated.CreateOwnerParams{
		ID:        owner.ID,
		Name:      owner.Name,
		CreatedAt: timeToPgTimestamptz(owner.CreatedAt),
	})
}

func (r *OwnerRepository) GetByID(ctx context.Context, id string) (*domain.Owner, error) {
	row, err := r.queries.GetOwnerByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrOwnerNotFound
		}
		return nil, err
	}

	return &domain.Owner{ID: row.ID, Name: row.Name, CreatedAt: row.CreatedAt.Time}, nil
}
