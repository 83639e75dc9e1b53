package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/iho/giftledger/internal/domain"
)

// LocationUseCase handles location business logic.
type LocationUseCase struct {
	locationRepo LocationRepository
	idGen        IDGenerator
}

// NewLocationUseCase creates a new LocationUseCase.
func NewLocationUseCase(locationRepo LocationRepository, idGen IDGenerator) *LocationUseCase {
	return &LocationUseCase{
		locationRepo: locationRepo,
		idGen:        idGen,
	}
}

// CreateLocation creates a location with a unique name.
func (uc *LocationUseCase) CreateLocation(ctx context.Context, name string) (*domain.Location, error) {
	name = strings.TrimSpace(name)
	if err := domain.ValidateLocationName(name); err != nil {
		return nil, err
	}

	location := &domain.Location{
		ID:        uc.idGen.Generate(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.locationRepo.Create(ctx, location); err != nil {
		return nil, err
	}

	return location, nil
}

// GetLocation retrieves a location by ID.
func (uc *LocationUseCase) GetLocation(ctx context.Context, id string) (*domain.Location, error) {
	return uc.locationRepo.GetByID(ctx, id)
}

// FindLocation resolves a location by exact name or ID.
func (uc *LocationUseCase) FindLocation(ctx context.Context, ref string) (*domain.Location, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, domain.ErrLocationNotFound
	}
	return uc.locationRepo.FindByNameOrID(ctx, ref)
}

// ListLocations lists locations ordered by name.
func (uc *LocationUseCase) ListLocations(ctx context.Context, limit, offset int) ([]*domain.Location, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.locationRepo.List(ctx, limit, offset)
}
