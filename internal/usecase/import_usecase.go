package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/giftledger/internal/domain"
)

// BalanceMutator is the part of the balance engine used by imports.
type BalanceMutator interface {
	Credit(ctx context.Context, input MutationInput) (*domain.LedgerEntry, error)
	Debit(ctx context.Context, input MutationInput) (*domain.LedgerEntry, error)
}

// ImportRow is one data row of an import file. Number is the row number as
// shown in the source file.
type ImportRow struct {
	Raw         map[string]string
	CardRef     string
	Amount      string
	Description string
	Location    string
	Number      int
}

// RowSource yields import rows in chunks. Next returns io.EOF when the
// source is exhausted.
type RowSource interface {
	Next(ctx context.Context) ([]ImportRow, error)
}

// ImportInput represents input for a bulk import.
type ImportInput struct {
	Source               RowSource
	ActorID              string
	AllowMultiplePerCard bool
}

// Import row directions.
const (
	DirectionCredit = "Credit"
	DirectionDebit  = "Debit"
)

// ProcessedRow describes a row that produced a ledger entry.
type ProcessedRow struct {
	CardRef       string          `json:"card_ref"`
	CardID        string          `json:"card_id"`
	DisplayID     string          `json:"display_id"`
	OwnerName     string          `json:"owner_name"`
	Direction     string          `json:"direction"`
	Location      string          `json:"location"`
	EntryID       string          `json:"entry_id"`
	Folio         string          `json:"folio"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Row           int             `json:"row"`
}

// RowError describes a rejected row.
type RowError struct {
	Err     error             `json:"-"`
	Data    map[string]string `json:"data,omitempty"`
	CardRef string            `json:"card_ref"`
	Message string            `json:"message"`
	Row     int               `json:"row"`
}

// ImportStats summarizes an import run.
type ImportStats struct {
	TotalCredited decimal.Decimal `json:"total_credited"`
	TotalDebited  decimal.Decimal `json:"total_debited"`
	NetChange     decimal.Decimal `json:"net_change"`
	Processed     int             `json:"processed"`
	Errors        int             `json:"errors"`
	TotalRows     int             `json:"total_rows"`
}

// ImportResult is the outcome of an import run.
type ImportResult struct {
	Processed []ProcessedRow `json:"processed"`
	Errors    []RowError     `json:"errors"`
	Stats     ImportStats    `json:"stats"`
}

// ImportUseCase applies spreadsheet rows to card balances, one atomic
// mutation per row. A failing row never affects the others.
type ImportUseCase struct {
	balances     BalanceMutator
	cardRepo     CardRepository
	locationRepo LocationRepository
	metrics      MetricsRecorder
	logger       zerolog.Logger
	now          func() time.Time
}

// NewImportUseCase creates a new ImportUseCase.
func NewImportUseCase(
	balances BalanceMutator,
	cardRepo CardRepository,
	locationRepo LocationRepository,
	metrics MetricsRecorder,
	logger zerolog.Logger,
) *ImportUseCase {
	if metrics == nil {
		metrics = NoopMetrics{}
	}

	return &ImportUseCase{
		balances:     balances,
		cardRepo:     cardRepo,
		locationRepo: locationRepo,
		metrics:      metrics,
		logger:       logger,
		now:          time.Now,
	}
}

// RunRows imports an in-memory set of rows.
func (uc *ImportUseCase) RunRows(ctx context.Context, rows []ImportRow, actorID string, allowMultiplePerCard bool) (*ImportResult, error) {
	return uc.Run(ctx, ImportInput{
		Source:               NewSliceSource(rows, DefaultImportChunkSize),
		ActorID:              actorID,
		AllowMultiplePerCard: allowMultiplePerCard,
	})
}

// Run imports every row of the source. Row failures are collected in the
// result. Infrastructure failures and cancellation stop the run; the partial
// result is returned together with an error wrapping domain.ErrImportAborted.
func (uc *ImportUseCase) Run(ctx context.Context, input ImportInput) (*ImportResult, error) {
	start := time.Now()
	run := &importRun{
		uc:      uc,
		input:   input,
		seen:    make(map[string]struct{}),
		tally:   domain.NewTally(),
		result:  &ImportResult{Processed: []ProcessedRow{}, Errors: []RowError{}},
		started: uc.now(),
	}

	err := run.consume(ctx)
	run.finish()

	uc.metrics.RecordImport(run.result.Stats.Processed, run.result.Stats.Errors, time.Since(start))

	event := uc.logger.Info()
	if err != nil {
		event = uc.logger.Error().Err(err)
	}
	event.
		Str("actor_id", input.ActorID).
		Int("processed", run.result.Stats.Processed).
		Int("errors", run.result.Stats.Errors).
		Str("net_change", run.result.Stats.NetChange.StringFixed(domain.AmountScale)).
		Dur("duration", time.Since(start)).
		Msg("import finished")

	return run.result, err
}

type importRun struct {
	uc      *ImportUseCase
	input   ImportInput
	seen    map[string]struct{}
	tally   *domain.Tally
	result  *ImportResult
	started time.Time
}

func (r *importRun) consume(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrImportAborted, err)
		}

		rows, err := r.input.Source.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: reading rows: %w", domain.ErrImportAborted, err)
		}

		for _, row := range rows {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("%w: %w", domain.ErrImportAborted, err)
			}

			processed, err := r.processRow(ctx, row)
			if err != nil {
				if !domain.IsBusinessError(err) {
					return fmt.Errorf("%w at row %d: %w", domain.ErrImportAborted, row.Number, err)
				}
				r.reject(row, err)
				continue
			}

			r.result.Processed = append(r.result.Processed, *processed)
			if processed.Amount.IsNegative() {
				r.tally.AddDebit(processed.Amount)
			} else {
				r.tally.AddCredit(processed.Amount)
			}
			r.seen[processed.CardID] = struct{}{}
		}

		r.uc.logger.Debug().Int("rows", len(rows)).Msg("import chunk processed")
	}
}

func (r *importRun) processRow(ctx context.Context, row ImportRow) (*ProcessedRow, error) {
	ref := strings.TrimSpace(row.CardRef)
	if ref == "" || strings.TrimSpace(row.Amount) == "" {
		return nil, domain.ErrReferenceRequired
	}

	card, err := r.uc.cardRepo.GetByReference(ctx, ref)
	if err != nil {
		if errors.Is(err, domain.ErrCardNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrCardNotFound, ref)
		}
		return nil, err
	}
	if card.Status == domain.StatusArchived || card.Status == domain.StatusPurged {
		return nil, fmt.Errorf("%w: %s", domain.ErrCardNotFound, ref)
	}

	// Keyed by card id so a UUID and an external id for the same card collide.
	if !r.input.AllowMultiplePerCard {
		if _, dup := r.seen[card.ID]; dup {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateReference, displayID(card))
		}
	}

	if !card.Active {
		return nil, fmt.Errorf("%w: %s", domain.ErrCardInactive, displayID(card))
	}

	amount, err := ParseImportAmount(row.Amount)
	if err != nil {
		return nil, err
	}

	location, err := r.resolveLocation(ctx, row.Location, amount.IsNegative())
	if err != nil {
		return nil, err
	}

	input := MutationInput{
		CardID:      card.ID,
		Amount:      amount.Abs(),
		Description: r.description(row.Description),
	}
	if r.input.ActorID != "" {
		actor := r.input.ActorID
		input.ActorID = &actor
	}
	if location != nil {
		input.LocationID = &location.ID
	}

	direction := DirectionCredit
	mutate := r.uc.balances.Credit
	if amount.IsNegative() {
		direction = DirectionDebit
		mutate = r.uc.balances.Debit
	}

	entry, err := mutate(ctx, input)
	if err != nil {
		return nil, err
	}

	locationName := NotAvailable
	if location != nil {
		locationName = location.Name
	}

	return &ProcessedRow{
		Row:           row.Number,
		CardRef:       ref,
		CardID:        card.ID,
		DisplayID:     displayID(card),
		OwnerName:     card.DisplayOwner(),
		Direction:     direction,
		Amount:        amount,
		BalanceBefore: entry.BalanceBefore,
		BalanceAfter:  entry.BalanceAfter,
		Location:      locationName,
		EntryID:       entry.ID,
		Folio:         entry.Folio(),
	}, nil
}

// resolveLocation looks the location up by exact name or id. Reductions
// require one. Credits attach it when it resolves and otherwise go through
// without a location.
func (r *importRun) resolveLocation(ctx context.Context, ref string, required bool) (*domain.Location, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		if required {
			return nil, domain.ErrLocationRequired
		}
		return nil, nil
	}

	location, err := r.uc.locationRepo.FindByNameOrID(ctx, ref)
	if err != nil {
		if errors.Is(err, domain.ErrLocationNotFound) {
			if !required {
				r.uc.logger.Debug().Str("location", ref).Msg("unknown location on credit row ignored")
				return nil, nil
			}
			return nil, fmt.Errorf("%w: %s", domain.ErrLocationNotFound, ref)
		}
		return nil, err
	}
	return location, nil
}

func (r *importRun) description(text string) *string {
	text = strings.TrimSpace(text)

	var d string
	if text != "" {
		d = ImportDescriptionPrefix + ": " + text
	} else {
		d = ImportDescriptionPrefix + " " + r.started.Format("02/01/2006")
	}

	if runes := []rune(d); len(runes) > domain.MaxDescriptionLength {
		d = string(runes[:domain.MaxDescriptionLength])
	}
	return &d
}

func (r *importRun) reject(row ImportRow, err error) {
	ref := strings.TrimSpace(row.CardRef)
	if ref == "" {
		ref = NotAvailable
	}

	r.result.Errors = append(r.result.Errors, RowError{
		Row:     row.Number,
		CardRef: ref,
		Message: err.Error(),
		Err:     err,
		Data:    row.Raw,
	})
}

func (r *importRun) finish() {
	processed := len(r.result.Processed)
	failed := len(r.result.Errors)

	r.result.Stats = ImportStats{
		Processed:     processed,
		Errors:        failed,
		TotalCredited: r.tally.Credits(),
		TotalDebited:  r.tally.Debits(),
		NetChange:     r.tally.Net(),
		TotalRows:     processed + failed,
	}
}

func displayID(card *domain.GiftCard) string {
	if card.ExternalID != "" {
		return card.ExternalID
	}
	return card.ID
}

// SliceSource serves in-memory rows in fixed size chunks.
type SliceSource struct {
	rows  []ImportRow
	chunk int
	pos   int
}

// NewSliceSource creates a SliceSource. Non-positive chunk sizes use
// DefaultImportChunkSize.
func NewSliceSource(rows []ImportRow, chunk int) *SliceSource {
	if chunk <= 0 {
		chunk = DefaultImportChunkSize
	}
	return &SliceSource{rows: rows, chunk: chunk}
}

// Next returns the next chunk or io.EOF.
func (s *SliceSource) Next(_ context.Context) ([]ImportRow, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}

	end := min(s.pos+s.chunk, len(s.rows))
	out := s.rows[s.pos:end]
	s.pos = end
	return out, nil
}
