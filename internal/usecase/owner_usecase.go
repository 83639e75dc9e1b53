package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/iho/giftledger/internal/domain"
)

// OwnerUseCase manages the directory of card owners.
type OwnerUseCase struct {
	ownerRepo OwnerRepository
	idGen     IDGenerator
}

func NewOwnerUseCase(ownerRepo OwnerRepository, idGen IDGenerator) *OwnerUseCase {
	return &OwnerUseCase{ownerRepo: ownerRepo, idGen: idGen}
}

func (uc *OwnerUseCase) CreateOwner(ctx context.Context, name string) (*domain.Owner, error) {
	name = strings.TrimSpace(name)
	if err := domain.ValidateOwnerName(name); err != nil {
		return nil, err
	}

	owner := &domain.Owner{
		ID:        uc.idGen.Generate(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.ownerRepo.Create(ctx, owner); err != nil {
		return nil, err
	}
	return owner, nil
}

func (uc *OwnerUseCase) GetOwner(ctx context.Context, id string) (*domain.Owner, error) {
	return uc.ownerRepo.GetByID(ctx, id)
}
