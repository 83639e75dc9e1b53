package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/giftledger/internal/adapter/http/dto"
	"github.com/iho/giftledger/internal/domain"
	"github.com/iho/giftledger/internal/usecase"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	LocationClosure(ctx context.Context, filter usecase.ClosureFilter) (*usecase.ClosureReport, error)
	CardStatement(ctx context.Context, cardID string, from, to *time.Time) (*usecase.CardStatement, error)
}

// ReconciliationService defines the reconciliation behavior exposed over HTTP.
type ReconciliationService interface {
	ReconcileCard(ctx context.Context, cardID string) (*usecase.ReconciliationResult, error)
	CheckLedgerConsistency(ctx context.Context) ([]domain.BalanceDrift, error)
	GenerateReconciliationReport(ctx context.Context) (*usecase.ReconciliationReport, error)
}

// ReportHandler serves closures, statements and ledger checks.
type ReportHandler struct {
	reportUC ReportService
	reconUC  ReconciliationService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService, reconUC ReconciliationService) *ReportHandler {
	return &ReportHandler{reportUC: reportUC, reconUC: reconUC}
}

// Closure summarizes a branch over a period.
func (h *ReportHandler) Closure(w http.ResponseWriter, r *http.Request) {
	from, to, err := parsePeriod(r)
	if err != nil {
		writeDomainError(w, "invalid period", err)
		return
	}
	kind, err := parseKindQuery(r)
	if err != nil {
		writeDomainError(w, "invalid kind", err)
		return
	}

	filter := usecase.ClosureFilter{
		From:       from,
		To:         to,
		Kind:       kind,
		LocationID: chi.URLParam(r, "id"),
	}
	if actor := r.URL.Query().Get("actor_id"); actor != "" {
		filter.ActorID = &actor
	}

	report, err := h.reportUC.LocationClosure(r.Context(), filter)
	if err != nil {
		writeDomainError(w, "failed to build closure", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ClosureFromUseCase(report))
}

// Statement lists a card's entries over a period with their totals.
func (h *ReportHandler) Statement(w http.ResponseWriter, r *http.Request) {
	from, to, err := parsePeriod(r)
	if err != nil {
		writeDomainError(w, "invalid period", err)
		return
	}

	statement, err := h.reportUC.CardStatement(r.Context(), chi.URLParam(r, "id"), from, to)
	if err != nil {
		writeDomainError(w, "failed to build statement", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementFromUseCase(statement))
}

// Reconcile replays a card's entries and compares them with its balance.
func (h *ReportHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	result, err := h.reconUC.ReconcileCard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to reconcile card", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromUseCase(result))
}

// CheckConsistency checks every stored balance against its entries.
func (h *ReportHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	drifts, err := h.reconUC.CheckLedgerConsistency(r.Context())
	if err != nil && len(drifts) == 0 {
		writeDomainError(w, "failed to check consistency", err)
		return
	}

	status := http.StatusOK
	if len(drifts) > 0 {
		status = http.StatusConflict
	}
	writeJSON(w, status, dto.ConsistencyFromDomain(drifts))
}

// ReconciliationReport replays every active card and runs the ledger-wide
// balance check.
func (h *ReportHandler) ReconciliationReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconUC.GenerateReconciliationReport(r.Context())
	if err != nil {
		writeDomainError(w, "failed to build reconciliation report", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationReportFromUseCase(report))
}
