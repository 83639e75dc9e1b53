package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/giftledger/internal/domain"
	"github.com/iho/giftledger/internal/infrastructure/postgres/generated"
)

// LocationRepository implements usecase.LocationRepository.
type LocationRepository struct {
	queries *generated.Queries
}

// NewLocationRepository creates a new LocationRepository.
func NewLocationRepository(pool *pgxpool.Pool) *LocationRepository {
	return newLocationRepository(pool)
}

func newLocationRepository(db generated.DBTX) *LocationRepository {
	return &LocationRepository{queries: generated.New(db)}
}

// Create inserts a new location.
func (r *LocationRepository) Create(ctx context.Context, location *domain.Location) error {
	err := r.queries.CreateLocation(ctx, generated.CreateLocationParams{
		ID:        location.ID,
		Name:      location.Name,
		CreatedAt: timeToPgTimestamptz(location.CreatedAt),
	})
	if name, ok := pgConstraintError(err, pgErrUniqueViolation); ok && name == constraintLocationName {
		return domain.ErrDuplicateLocationName
	}

	return err
}

// GetByID retrieves a location by ID.
func (r *LocationRepository) GetByID(ctx context.Context, id string) (*domain.Location, error) {
	row, err := r.queries.GetLocationByID(ctx, id)
	if err != nil {
		return nil, mapLocationError(err)
	}

	return rowToLocation(row), nil
}

// FindByNameOrID prefers an exact name match over an id match.
func (r *LocationRepository) FindByNameOrID(ctx context.Context, ref string) (*domain.Location, error) {
	row, err := r.queries.FindLocationByNameOrID(ctx, ref)
	if err != nil {
		return nil, mapLocationError(err)
	}

	return rowToLocation(row), nil
}

// List returns locations ordered by name.
func (r *LocationRepository) List(ctx context.Context, limit, offset int) ([]*domain.Location, error) {
	lim, off := pageBounds(limit, offset)

	rows, err := r.queries.ListLocations(ctx, generated.ListLocationsParams{Limit: lim, Offset: off})
	if err != nil {
		return nil, err
	}

	locations := make([]*domain.Location, 0, len(rows))
	for _, row := range rows {
		locations = append(locations, rowToLocation(row))
	}

	return locations, nil
}

func mapLocationError(err error) error {
	if isNoRows(err) {
		return domain.ErrLocationNotFound
	}
	return err
}

func rowToLocation(row generated.Location) *domain.Location {
	return &domain.Location{
		ID:        row.ID,
		Name:      row.Name,
		CreatedAt: row.CreatedAt.Time,
	}
}
