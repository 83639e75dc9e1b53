package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/giftledger/internal/domain"
)

// ReconciliationUseCase handles balance reconciliation operations
type ReconciliationUseCase struct {
	cardRepo   CardRepository
	entryRepo  EntryRepository
	ledgerRepo LedgerRepository
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(
	cardRepo CardRepository,
	entryRepo EntryRepository,
	ledgerRepo LedgerRepository,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		cardRepo:   cardRepo,
		entryRepo:  entryRepo,
		ledgerRepo: ledgerRepo,
	}
}

// ChainBreak is an entry whose snapshots do not follow from its predecessor.
type ChainBreak struct {
	EntryID  string
	Reason   string
	Expected decimal.Decimal
	Actual   decimal.Decimal
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	LastChecked       time.Time
	CardID            string
	Breaks            []ChainBreak
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	EntryCount        int
	IsReconciled      bool
}

// ReconcileCard replays the card's entries from zero in ledger order and
// compares the result with the stored balance.
func (uc *ReconciliationUseCase) ReconcileCard(ctx context.Context, cardID string) (*ReconciliationResult, error) {
	card, err := uc.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}

	entries, err := uc.entryRepo.ListByCard(ctx, card.ID, domain.EntryFilter{Status: domain.BalanceStatuses})
	if err != nil {
		return nil, err
	}

	calculated := domain.Replay(entries)
	breaks := chainBreaks(entries)
	diff := card.Balance.Sub(calculated)

	return &ReconciliationResult{
		CardID:            card.ID,
		RecordedBalance:   card.Balance,
		CalculatedBalance: calculated,
		Difference:        diff,
		EntryCount:        len(entries),
		Breaks:            breaks,
		IsReconciled:      diff.IsZero() && len(breaks) == 0,
		LastChecked:       time.Now().UTC(),
	}, nil
}

func chainBreaks(entries []*domain.LedgerEntry) []ChainBreak {
	var breaks []ChainBreak

	prev := decimal.Zero
	for _, e := range entries {
		if !e.BalanceBefore.Equal(prev) {
			breaks = append(breaks, ChainBreak{
				EntryID:  e.ID,
				Reason:   "balance_before does not match the previous balance_after",
				Expected: prev,
				Actual:   e.BalanceBefore,
			})
		}
		if !e.Consistent() {
			breaks = append(breaks, ChainBreak{
				EntryID:  e.ID,
				Reason:   "balance_after does not equal balance_before plus amount",
				Expected: e.BalanceBefore.Add(e.SignedAmount()),
				Actual:   e.BalanceAfter,
			})
		}
		prev = e.BalanceAfter
	}

	return breaks
}

// ReconcileAllCards reconciles every active card.
func (uc *ReconciliationUseCase) ReconcileAllCards(ctx context.Context) ([]*ReconciliationResult, error) {
	const pageSize = 1000

	var results []*ReconciliationResult
	for offset := 0; ; offset += pageSize {
		cards, err := uc.cardRepo.List(ctx, domain.StatusFilter{}, pageSize, offset)
		if err != nil {
			return nil, err
		}

		for _, card := range cards {
			result, err := uc.ReconcileCard(ctx, card.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to reconcile card %s: %w", card.ID, err)
			}
			results = append(results, result)
		}

		if len(cards) < pageSize {
			return results, nil
		}
	}
}

// CheckLedgerConsistency compares every stored balance with its entry sum.
func (uc *ReconciliationUseCase) CheckLedgerConsistency(ctx context.Context) ([]domain.BalanceDrift, error) {
	drifts, err := uc.ledgerRepo.CheckConsistency(ctx)
	if err != nil {
		return nil, err
	}

	if len(drifts) > 0 {
		return drifts, fmt.Errorf("%w: %d card(s) drifted", domain.ErrInconsistentLedger, len(drifts))
	}

	return nil, nil
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	CheckedAt        time.Time
	Discrepancies    []*ReconciliationResult
	Drifts           []domain.BalanceDrift
	TotalCards       int
	ReconciledCards  int
	LedgerConsistent bool
}

// GenerateReconciliationReport generates a comprehensive reconciliation report
func (uc *ReconciliationUseCase) GenerateReconciliationReport(ctx context.Context) (*ReconciliationReport, error) {
	results, err := uc.ReconcileAllCards(ctx)
	if err != nil {
		return nil, err
	}

	drifts, ledgerErr := uc.CheckLedgerConsistency(ctx)
	if ledgerErr != nil && len(drifts) == 0 {
		return nil, ledgerErr
	}

	report := &ReconciliationReport{
		TotalCards:       len(results),
		Discrepancies:    make([]*ReconciliationResult, 0),
		Drifts:           drifts,
		LedgerConsistent: ledgerErr == nil,
		CheckedAt:        time.Now().UTC(),
	}

	for _, result := range results {
		if result.IsReconciled {
			report.ReconciledCards++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	return report, nil
}
