package postgres

import (
	"errors"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/giftledger/internal/usecase"
)

const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
	pgErrCheckViolation      = "23514"
)

const (
	constraintCardExternalID = "gift_cards_external_id_key"
	constraintCardOwner      = "gift_cards_owner_id_fkey"
	constraintLocationName   = "locations_name_key"
	constraintEntryLocation  = "ledger_entries_location_id_fkey"
	constraintEntryCard      = "ledger_entries_card_id_fkey"
)

// pgConstraintError returns the violated constraint name when err is a
// PostgreSQL error with the given SQLSTATE.
func pgConstraintError(err error, code string) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr.ConstraintName, true
	}
	return "", false
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// pgxTxFrom unwraps the pgx transaction behind a usecase.Transaction.
func pgxTxFrom(tx usecase.Transaction) (pgx.Tx, error) {
	t, ok := tx.(*Tx)
	if !ok {
		return nil, errors.New("postgres: foreign transaction type")
	}
	return t.PgxTx(), nil
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func optionalTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return timeToPgTimestamptz(*t)
}

func timestamptzToPtr(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}

func textFromPtr(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func textToPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

// pageBounds converts a limit/offset pair to query parameters. A limit of
// zero or less means no limit.
func pageBounds(limit, offset int) (int32, int32) {
	if limit <= 0 || limit > math.MaxInt32 {
		limit = math.MaxInt32
	}
	if offset < 0 {
		offset = 0
	}
	return int32(limit), int32(offset)
}
