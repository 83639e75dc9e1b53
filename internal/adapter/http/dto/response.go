package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/giftledger/internal/domain"
	"github.com/iho/giftledger/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// OwnerResponse represents an owner in API responses.
type OwnerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnerFromDomain converts a domain owner to response.
func OwnerFromDomain(o *domain.Owner) *OwnerResponse {
	return &OwnerResponse{ID: o.ID, Name: o.Name, CreatedAt: o.CreatedAt}
}

// LocationResponse represents a branch in API responses.
type LocationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// LocationFromDomain converts a domain location to response.
func LocationFromDomain(l *domain.Location) *LocationResponse {
	return &LocationResponse{ID: l.ID, Name: l.Name, CreatedAt: l.CreatedAt}
}

// LocationsFromDomain converts domain locations to responses.
func LocationsFromDomain(locations []*domain.Location) []*LocationResponse {
	result := make([]*LocationResponse, len(locations))
	for i, l := range locations {
		result[i] = LocationFromDomain(l)
	}
	return result
}

// ListLocationsResponse represents a page of locations.
type ListLocationsResponse struct {
	Locations []*LocationResponse `json:"locations"`
	Total     int64               `json:"total"`
}

// CardResponse represents a gift card in API responses.
type CardResponse struct {
	ID         string          `json:"id"`
	ExternalID string          `json:"external_id"`
	OwnerID    *string         `json:"owner_id,omitempty"`
	OwnerName  string          `json:"owner_name"`
	Balance    decimal.Decimal `json:"balance"`
	Active     bool            `json:"active"`
	Status     string          `json:"status"`
	ExpiresAt  *time.Time      `json:"expires_at,omitempty"`
	Version    int64           `json:"version"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// CardFromDomain converts a domain card to response.
func CardFromDomain(c *domain.GiftCard) *CardResponse {
	return &CardResponse{
		ID:         c.ID,
		ExternalID: c.ExternalID,
		OwnerID:    c.OwnerID,
		OwnerName:  c.DisplayOwner(),
		Balance:    c.Balance,
		Active:     c.Active,
		Status:     string(c.Status),
		ExpiresAt:  c.ExpiresAt,
		Version:    c.Version,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// CardsFromDomain converts domain cards to responses.
func CardsFromDomain(cards []*domain.GiftCard) []*CardResponse {
	result := make([]*CardResponse, len(cards))
	for i, c := range cards {
		result[i] = CardFromDomain(c)
	}
	return result
}

// ListCardsResponse represents a page of cards.
type ListCardsResponse struct {
	Cards []*CardResponse `json:"cards"`
	Total int64           `json:"total"`
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID            string          `json:"id"`
	Folio         string          `json:"folio"`
	Sequence      int64           `json:"sequence"`
	CardID        string          `json:"card_id"`
	Kind          string          `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	SignedAmount  decimal.Decimal `json:"signed_amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Description   *string         `json:"description,omitempty"`
	ActorID       *string         `json:"actor_id,omitempty"`
	LocationID    *string         `json:"location_id,omitempty"`
	LocationName  *string         `json:"location_name,omitempty"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// EntryFromDomain converts a domain entry to response.
func EntryFromDomain(e *domain.LedgerEntry) *EntryResponse {
	return &EntryResponse{
		ID:            e.ID,
		Folio:         e.Folio(),
		Sequence:      e.Sequence,
		CardID:        e.CardID,
		Kind:          string(e.Kind),
		Amount:        e.Amount,
		SignedAmount:  e.SignedAmount(),
		BalanceBefore: e.BalanceBefore,
		BalanceAfter:  e.BalanceAfter,
		Description:   e.Description,
		ActorID:       e.ActorID,
		LocationID:    e.LocationID,
		LocationName:  e.LocationName,
		Status:        string(e.Status),
		CreatedAt:     e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.LedgerEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// ListEntriesResponse represents a page of entries.
type ListEntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Total   int64            `json:"total"`
}

// KindTotalResponse is the count and sum of one entry kind.
type KindTotalResponse struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// SummaryResponse represents aggregated totals.
type SummaryResponse struct {
	ByKind        map[string]KindTotalResponse `json:"by_kind"`
	TotalCredits  decimal.Decimal              `json:"total_credits"`
	TotalDebits   decimal.Decimal              `json:"total_debits"`
	NetDifference decimal.Decimal              `json:"net_difference"`
	TotalEntries  int                          `json:"total_entries"`
	UniqueCards   int                          `json:"unique_cards"`
}

// SummaryFromDomain converts a domain summary to response.
func SummaryFromDomain(s domain.Summary) SummaryResponse {
	byKind := make(map[string]KindTotalResponse, len(s.ByKind))
	for kind, total := range s.ByKind {
		byKind[string(kind)] = KindTotalResponse{Count: total.Count, Amount: total.Amount}
	}

	return SummaryResponse{
		ByKind:        byKind,
		TotalCredits:  s.TotalCredits,
		TotalDebits:   s.TotalDebits,
		NetDifference: s.NetDifference,
		TotalEntries:  s.TotalEntries,
		UniqueCards:   s.UniqueCards,
	}
}

// ClosureResponse represents a branch closure report.
type ClosureResponse struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Location    *LocationResponse `json:"location"`
	From        *time.Time        `json:"from,omitempty"`
	To          *time.Time        `json:"to,omitempty"`
	Kind        *string           `json:"kind,omitempty"`
	ActorID     *string           `json:"actor_id,omitempty"`
	Entries     []*EntryResponse  `json:"entries"`
	Summary     SummaryResponse   `json:"summary"`
}

// ClosureFromUseCase converts a closure report to response.
func ClosureFromUseCase(r *usecase.ClosureReport) *ClosureResponse {
	resp := &ClosureResponse{
		GeneratedAt: r.GeneratedAt,
		Location:    LocationFromDomain(r.Location),
		From:        r.Filter.From,
		To:          r.Filter.To,
		ActorID:     r.Filter.ActorID,
		Entries:     EntriesFromDomain(r.Entries),
		Summary:     SummaryFromDomain(r.Summary),
	}
	if r.Filter.Kind != nil {
		kind := string(*r.Filter.Kind)
		resp.Kind = &kind
	}
	return resp
}

// StatementResponse represents a card statement.
type StatementResponse struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Card        *CardResponse    `json:"card"`
	From        *time.Time       `json:"from,omitempty"`
	To          *time.Time       `json:"to,omitempty"`
	Entries     []*EntryResponse `json:"entries"`
	Summary     SummaryResponse  `json:"summary"`
}

// StatementFromUseCase converts a card statement to response.
func StatementFromUseCase(s *usecase.CardStatement) *StatementResponse {
	return &StatementResponse{
		GeneratedAt: s.GeneratedAt,
		Card:        CardFromDomain(s.Card),
		From:        s.From,
		To:          s.To,
		Entries:     EntriesFromDomain(s.Entries),
		Summary:     SummaryFromDomain(s.Summary),
	}
}

// ChainBreakResponse describes an entry whose snapshots do not chain.
type ChainBreakResponse struct {
	EntryID  string          `json:"entry_id"`
	Reason   string          `json:"reason"`
	Expected decimal.Decimal `json:"expected"`
	Actual   decimal.Decimal `json:"actual"`
}

// ReconciliationResponse represents the replay check of one card.
type ReconciliationResponse struct {
	CardID            string               `json:"card_id"`
	RecordedBalance   decimal.Decimal      `json:"recorded_balance"`
	CalculatedBalance decimal.Decimal      `json:"calculated_balance"`
	Difference        decimal.Decimal      `json:"difference"`
	EntryCount        int                  `json:"entry_count"`
	IsReconciled      bool                 `json:"is_reconciled"`
	Breaks            []ChainBreakResponse `json:"breaks,omitempty"`
	LastChecked       time.Time            `json:"last_checked"`
}

// ReconciliationFromUseCase converts a reconciliation result to response.
func ReconciliationFromUseCase(r *usecase.ReconciliationResult) *ReconciliationResponse {
	breaks := make([]ChainBreakResponse, len(r.Breaks))
	for i, b := range r.Breaks {
		breaks[i] = ChainBreakResponse{EntryID: b.EntryID, Reason: b.Reason, Expected: b.Expected, Actual: b.Actual}
	}

	return &ReconciliationResponse{
		CardID:            r.CardID,
		RecordedBalance:   r.RecordedBalance,
		CalculatedBalance: r.CalculatedBalance,
		Difference:        r.Difference,
		EntryCount:        r.EntryCount,
		IsReconciled:      r.IsReconciled,
		Breaks:            breaks,
		LastChecked:       r.LastChecked,
	}
}

// DriftResponse is a card whose balance differs from its entries.
type DriftResponse struct {
	CardID     string          `json:"card_id"`
	ExternalID string          `json:"external_id"`
	Recorded   decimal.Decimal `json:"recorded"`
	Calculated decimal.Decimal `json:"calculated"`
	Difference decimal.Decimal `json:"difference"`
}

// ConsistencyResponse represents the ledger-wide balance check.
type ConsistencyResponse struct {
	Consistent bool            `json:"consistent"`
	Drifts     []DriftResponse `json:"drifts"`
}

// ConsistencyFromDomain converts balance drifts to response.
func ConsistencyFromDomain(drifts []domain.BalanceDrift) *ConsistencyResponse {
	out := make([]DriftResponse, len(drifts))
	for i, d := range drifts {
		out[i] = DriftResponse{
			CardID:     d.CardID,
			ExternalID: d.ExternalID,
			Recorded:   d.Recorded,
			Calculated: d.Calculated,
			Difference: d.Difference(),
		}
	}
	return &ConsistencyResponse{Consistent: len(drifts) == 0, Drifts: out}
}

// ReconciliationReportResponse summarizes a reconciliation pass over all cards.
type ReconciliationReportResponse struct {
	CheckedAt        time.Time                 `json:"checked_at"`
	TotalCards       int                       `json:"total_cards"`
	ReconciledCards  int                       `json:"reconciled_cards"`
	LedgerConsistent bool                      `json:"ledger_consistent"`
	Discrepancies    []*ReconciliationResponse `json:"discrepancies"`
	Drifts           []DriftResponse           `json:"drifts"`
}

// ReconciliationReportFromUseCase converts a reconciliation report to response.
func ReconciliationReportFromUseCase(r *usecase.ReconciliationReport) *ReconciliationReportResponse {
	discrepancies := make([]*ReconciliationResponse, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		discrepancies[i] = ReconciliationFromUseCase(d)
	}

	return &ReconciliationReportResponse{
		CheckedAt:        r.CheckedAt,
		TotalCards:       r.TotalCards,
		ReconciledCards:  r.ReconciledCards,
		LedgerConsistent: r.LedgerConsistent,
		Discrepancies:    discrepancies,
		Drifts:           ConsistencyFromDomain(r.Drifts).Drifts,
	}
}

// ImportResponse represents the outcome of an import upload. Aborted runs
// carry the rows applied before the failure.
type ImportResponse struct {
	*usecase.ImportResult
	Filename string `json:"filename"`
	Aborted  bool   `json:"aborted"`
	Message  string `json:"message,omitempty"`
}
