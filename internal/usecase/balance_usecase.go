package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/giftledger/internal/domain"
)

// BalanceUseCase is the only writer of card balances and ledger entries.
type BalanceUseCase struct {
	txManager TransactionManager
	cardRepo  CardRepository
	entryRepo EntryRepository
	idGen     IDGenerator
	retrier   Retrier
	notifier  Notifier
	metrics   MetricsRecorder
	logger    zerolog.Logger
}

// NewBalanceUseCase creates a new BalanceUseCase. Nil retrier, notifier and
// metrics fall back to no-op implementations.
func NewBalanceUseCase(
	txManager TransactionManager,
	cardRepo CardRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
	retrier Retrier,
	notifier Notifier,
	metrics MetricsRecorder,
	logger zerolog.Logger,
) *BalanceUseCase {
	if retrier == nil {
		retrier = NoopRetrier{}
	}
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	if metrics == nil {
		metrics = NoopMetrics{}
	}

	return &BalanceUseCase{
		txManager: txManager,
		cardRepo:  cardRepo,
		entryRepo: entryRepo,
		idGen:     idGen,
		retrier:   retrier,
		notifier:  notifier,
		metrics:   metrics,
		logger:    logger,
	}
}

// MutationInput represents input for a balance mutation.
type MutationInput struct {
	Description *string
	ActorID     *string
	LocationID  *string
	CardID      string
	Amount      decimal.Decimal
}

// Credit increases the card balance.
func (uc *BalanceUseCase) Credit(ctx context.Context, input MutationInput) (*domain.LedgerEntry, error) {
	return uc.mutate(ctx, domain.KindCredit, input)
}

// Debit decreases the card balance. A location is required.
func (uc *BalanceUseCase) Debit(ctx context.Context, input MutationInput) (*domain.LedgerEntry, error) {
	return uc.mutate(ctx, domain.KindDebit, input)
}

// Adjust applies a signed manual correction. Negative adjustments require a
// location.
func (uc *BalanceUseCase) Adjust(ctx context.Context, input MutationInput) (*domain.LedgerEntry, error) {
	return uc.mutate(ctx, domain.KindAdjustment, input)
}

func (uc *BalanceUseCase) mutate(ctx context.Context, kind domain.EntryKind, input MutationInput) (*domain.LedgerEntry, error) {
	start := time.Now()
	amount := domain.NormalizeAmount(input.Amount)

	if err := domain.ValidateMutation(kind, amount, input.LocationID); err != nil {
		uc.metrics.RecordMutationError(string(kind), errorReason(err))
		return nil, err
	}

	var entry *domain.LedgerEntry
	err := uc.retrier.Retry(ctx, func() error {
		e, err := uc.apply(ctx, kind, amount, input)
		if err != nil {
			return err
		}
		entry = e
		return nil
	})
	if err != nil {
		uc.metrics.RecordMutationError(string(kind), errorReason(err))
		return nil, err
	}

	uc.metrics.RecordMutation(string(kind), amount, time.Since(start))

	notify(ctx, uc.notifier, uc.logger, entry.CardID, domain.EventTypeCardBalanceChanged, domain.NewBalanceChangedEvent(entry))

	return entry, nil
}

// apply runs one atomic unit: lock the card, validate, write the entry and
// the new balance.
func (uc *BalanceUseCase) apply(ctx context.Context, kind domain.EntryKind, amount decimal.Decimal, input MutationInput) (*domain.LedgerEntry, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	card, err := uc.cardRepo.GetByIDForUpdate(txCtx, tx, input.CardID)
	if err != nil {
		return nil, err
	}

	if err := card.CheckMutable(); err != nil {
		return nil, err
	}

	after, err := card.Apply(kind, amount)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := &domain.LedgerEntry{
		ID:            uc.idGen.Generate(),
		CardID:        card.ID,
		Kind:          kind,
		Status:        domain.StatusActive,
		Amount:        amount,
		BalanceBefore: card.Balance,
		BalanceAfter:  after,
		Description:   trimmed(input.Description),
		ActorID:       trimmed(input.ActorID),
		LocationID:    trimmed(input.LocationID),
		CreatedAt:     now,
	}

	if err := uc.entryRepo.Create(txCtx, tx, entry); err != nil {
		return nil, err
	}

	if err := uc.cardRepo.UpdateBalance(txCtx, tx, card.ID, after, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return entry, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}

	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// errorReason maps an error to a metrics label.
func errorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, domain.ErrLocationRequired):
		return "location_required"
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, domain.ErrNegativeBalanceRejected):
		return "negative_balance"
	case errors.Is(err, domain.ErrCardNotFound), errors.Is(err, domain.ErrCardArchived), errors.Is(err, domain.ErrCardPurged):
		return "card_not_found"
	case errors.Is(err, domain.ErrCardInactive):
		return "card_inactive"
	case errors.Is(err, domain.ErrLocationNotFound):
		return "location_not_found"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	default:
		return "internal"
	}
}
