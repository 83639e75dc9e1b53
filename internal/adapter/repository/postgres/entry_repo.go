package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/giftledger/internal/domain"
	"github.com/iho/giftledger/internal/infrastructure/postgres/generated"
	"github.com/iho/giftledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return newEntryRepository(pool)
}

func newEntryRepository(db generated.DBTX) *EntryRepository {
	return &EntryRepository{queries: generated.New(db)}
}

// Create appends an entry within tx and records its ledger sequence.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return err
	}

	status := entry.Status
	if status == "" {
		status = domain.StatusActive
	}

	seq, err := generated.New(pgxTx).CreateEntry(ctx, generated.CreateEntryParams{
		ID:            entry.ID,
		CardID:        entry.CardID,
		Kind:          string(entry.Kind),
		Amount:        decimalToNumeric(entry.Amount),
		BalanceBefore: decimalToNumeric(entry.BalanceBefore),
		BalanceAfter:  decimalToNumeric(entry.BalanceAfter),
		Description:   textFromPtr(entry.Description),
		ActorID:       textFromPtr(entry.ActorID),
		LocationID:    textFromPtr(entry.LocationID),
		Status:        string(status),
		CreatedAt:     timeToPgTimestamptz(entry.CreatedAt),
	})
	if err != nil {
		return mapEntryError(err)
	}

	entry.Sequence = seq
	entry.Status = status
	return nil
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	row, err := r.queries.GetEntryByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}

	return viewToEntry(row), nil
}

// ListByCard returns a card's entries in ledger order.
func (r *EntryRepository) ListByCard(ctx context.Context, cardID string, filter domain.EntryFilter) ([]*domain.LedgerEntry, error) {
	p := entryFilterParams(filter)

	rows, err := r.queries.ListEntriesByCard(ctx, generated.ListEntriesByCardParams{
		CardID:    cardID,
		Statuses:  p.statuses,
		FromTime:  p.from,
		ToTime:    p.to,
		Kind:      p.kind,
		ActorID:   p.actorID,
		MaxRows:   p.maxRows,
		RowOffset: p.offset,
	})
	if err != nil {
		return nil, err
	}

	return viewsToEntries(rows), nil
}

// ListByLocation returns entries booked at a location in ledger order.
func (r *EntryRepository) ListByLocation(ctx context.Context, locationID string, filter domain.EntryFilter) ([]*domain.LedgerEntry, error) {
	p := entryFilterParams(filter)

	rows, err := r.queries.ListEntriesByLocation(ctx, generated.ListEntriesByLocationParams{
		LocationID: locationID,
		Statuses:   p.statuses,
		FromTime:   p.from,
		ToTime:     p.to,
		Kind:       p.kind,
		ActorID:    p.actorID,
		MaxRows:    p.maxRows,
		RowOffset:  p.offset,
	})
	if err != nil {
		return nil, err
	}

	return viewsToEntries(rows), nil
}

type entryQueryParams struct {
	statuses []string
	from     pgtype.Timestamptz
	to       pgtype.Timestamptz
	kind     pgtype.Text
	actorID  pgtype.Text
	maxRows  pgtype.Int4
	offset   int32
}

func entryFilterParams(f domain.EntryFilter) entryQueryParams {
	p := entryQueryParams{
		statuses: f.Status.Resolve(),
		from:     optionalTimestamptz(f.From),
		to:       optionalTimestamptz(f.To),
		actorID:  textFromPtr(f.ActorID),
	}
	if f.Kind != nil {
		p.kind = pgtype.Text{String: string(*f.Kind), Valid: true}
	}
	if f.Limit > 0 {
		limit, _ := pageBounds(f.Limit, 0)
		p.maxRows = pgtype.Int4{Int32: limit, Valid: true}
	}
	_, p.offset = pageBounds(0, f.Offset)
	return p
}

func mapEntryError(err error) error {
	if name, ok := pgConstraintError(err, pgErrForeignKeyViolation); ok {
		switch name {
		case constraintEntryLocation:
			return domain.ErrLocationNotFound
		case constraintEntryCard:
			return domain.ErrCardNotFound
		}
	}
	return err
}

func viewsToEntries(rows []generated.LedgerEntriesView) []*domain.LedgerEntry {
	entries := make([]*domain.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, viewToEntry(row))
	}
	return entries
}

func viewToEntry(row generated.LedgerEntriesView) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		ID:            row.ID,
		Sequence:      row.Seq,
		CardID:        row.CardID,
		Kind:          domain.EntryKind(row.Kind),
		Amount:        numericToDecimal(row.Amount),
		BalanceBefore: numericToDecimal(row.BalanceBefore),
		BalanceAfter:  numericToDecimal(row.BalanceAfter),
		Description:   textToPtr(row.Description),
		ActorID:       textToPtr(row.ActorID),
		LocationID:    textToPtr(row.LocationID),
		LocationName:  textToPtr(row.LocationName),
		Status:        domain.RecordStatus(row.Status),
		CreatedAt:     row.CreatedAt.Time,
	}
}
