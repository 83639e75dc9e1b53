package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/giftledger/internal/domain"
	"github.com/iho/giftledger/internal/infrastructure/postgres/generated"
	"github.com/iho/giftledger/internal/usecase"
)

// CardRepository implements usecase.CardRepository.
type CardRepository struct {
	queries *generated.Queries
}

// NewCardRepository creates a new CardRepository.
func NewCardRepository(pool *pgxpool.Pool) *CardRepository {
	return newCardRepository(pool)
}

func newCardRepository(db generated.DBTX) *CardRepository {
	return &CardRepository{queries: generated.New(db)}
}

// Create inserts a new gift card.
func (r *CardRepository) Create(ctx context.Context, card *domain.GiftCard) error {
	err := r.queries.CreateCard(ctx, generated.CreateCardParams{
		ID:         card.ID,
		ExternalID: card.ExternalID,
		OwnerID:    textFromPtr(card.OwnerID),
		Active:     card.Active,
		Balance:    decimalToNumeric(card.Balance),
		ExpiresAt:  optionalTimestamptz(card.ExpiresAt),
		Status:     string(card.Status),
		Version:    card.Version,
		CreatedAt:  timeToPgTimestamptz(card.CreatedAt),
		UpdatedAt:  timeToPgTimestamptz(card.UpdatedAt),
	})

	return mapCardError(err)
}

// GetByID retrieves a card by its UUID.
func (r *CardRepository) GetByID(ctx context.Context, id string) (*domain.GiftCard, error) {
	row, err := r.queries.GetCardByID(ctx, id)
	if err != nil {
		return nil, mapCardError(err)
	}

	return viewToCard(row), nil
}

// GetByReference resolves a card by UUID first and by external id otherwise.
func (r *CardRepository) GetByReference(ctx context.Context, ref string) (*domain.GiftCard, error) {
	if _, err := uuid.Parse(ref); err == nil {
		card, err := r.GetByID(ctx, ref)
		if !errors.Is(err, domain.ErrCardNotFound) {
			return card, err
		}
	}

	row, err := r.queries.GetCardByExternalID(ctx, ref)
	if err != nil {
		return nil, mapCardError(err)
	}

	return viewToCard(row), nil
}

// GetByIDForUpdate locks the card row for the rest of tx.
func (r *CardRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.GiftCard, error) {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return nil, err
	}

	row, err := generated.New(pgxTx).GetCardByIDForUpdate(ctx, id)
	if err != nil {
		return nil, mapCardError(err)
	}

	return rowToCard(row), nil
}

// UpdateBalance stores the card's new balance within tx.
func (r *CardRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return err
	}

	affected, err := generated.New(pgxTx).UpdateCardBalance(ctx, generated.UpdateCardBalanceParams{
		ID:        id,
		Balance:   decimalToNumeric(balance),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})

	return expectAffected(affected, mapCardError(err))
}

// UpdateExternalID changes the card's human-facing reference.
func (r *CardRepository) UpdateExternalID(ctx context.Context, id, externalID string, updatedAt time.Time) error {
	affected, err := r.queries.UpdateCardExternalID(ctx, generated.UpdateCardExternalIDParams{
		ID:         id,
		ExternalID: externalID,
		UpdatedAt:  timeToPgTimestamptz(updatedAt),
	})

	return expectAffected(affected, mapCardError(err))
}

// SetActive toggles the card's active flag.
func (r *CardRepository) SetActive(ctx context.Context, id string, active bool, updatedAt time.Time) error {
	affected, err := r.queries.SetCardActive(ctx, generated.SetCardActiveParams{
		ID:        id,
		Active:    active,
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})

	return expectAffected(affected, mapCardError(err))
}

// SetStatus moves the card to another lifecycle status.
func (r *CardRepository) SetStatus(ctx context.Context, id string, status domain.RecordStatus, updatedAt time.Time) error {
	affected, err := r.queries.SetCardStatus(ctx, generated.SetCardStatusParams{
		ID:        id,
		Status:    string(status),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})

	return expectAffected(affected, mapCardError(err))
}

// List returns cards in creation order.
func (r *CardRepository) List(ctx context.Context, filter domain.StatusFilter, limit, offset int) ([]*domain.GiftCard, error) {
	lim, off := pageBounds(limit, offset)

	rows, err := r.queries.ListCards(ctx, generated.ListCardsParams{
		Statuses: filter.Resolve(),
		Limit:    lim,
		Offset:   off,
	})
	if err != nil {
		return nil, err
	}

	cards := make([]*domain.GiftCard, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, viewToCard(row))
	}

	return cards, nil
}

func expectAffected(affected int64, err error) error {
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrCardNotFound
	}
	return nil
}

func mapCardError(err error) error {
	if err == nil {
		return nil
	}
	if isNoRows(err) {
		return domain.ErrCardNotFound
	}
	if name, ok := pgConstraintError(err, pgErrUniqueViolation); ok && name == constraintCardExternalID {
		return domain.ErrDuplicateExternalID
	}
	if name, ok := pgConstraintError(err, pgErrForeignKeyViolation); ok && name == constraintCardOwner {
		return domain.ErrOwnerNotFound
	}
	if _, ok := pgConstraintError(err, pgErrCheckViolation); ok {
		return fmt.Errorf("%w: %w", domain.ErrNegativeBalanceRejected, err)
	}
	return err
}

func rowToCard(row generated.GiftCard) *domain.GiftCard {
	return &domain.GiftCard{
		ID:         row.ID,
		ExternalID: row.ExternalID,
		OwnerID:    textToPtr(row.OwnerID),
		Active:     row.Active,
		Balance:    numericToDecimal(row.Balance),
		ExpiresAt:  timestamptzToPtr(row.ExpiresAt),
		Status:     domain.RecordStatus(row.Status),
		Version:    row.Version,
		CreatedAt:  row.CreatedAt.Time,
		UpdatedAt:  row.UpdatedAt.Time,
	}
}

func viewToCard(row generated.GiftCardsView) *domain.GiftCard {
	return &domain.GiftCard{
		ID:         row.ID,
		ExternalID: row.ExternalID,
		OwnerID:    textToPtr(row.OwnerID),
		OwnerName:  textToPtr(row.OwnerName),
		Active:     row.Active,
		Balance:    numericToDecimal(row.Balance),
		ExpiresAt:  timestamptzToPtr(row.ExpiresAt),
		Status:     domain.RecordStatus(row.Status),
		Version:    row.Version,
		CreatedAt:  row.CreatedAt.Time,
		UpdatedAt:  row.UpdatedAt.Time,
	}
}
