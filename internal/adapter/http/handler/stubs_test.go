package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/giftledger/internal/domain"
	"github.com/iho/giftledger/internal/usecase"
)

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

type cardServiceStub struct {
	createFn    func(ctx context.Context, input usecase.CreateCardInput) (*domain.GiftCard, error)
	getFn       func(ctx context.Context, id string) (*domain.GiftCard, error)
	lookupFn    func(ctx context.Context, ref string) (*domain.GiftCard, error)
	listFn      func(ctx context.Context, input usecase.ListCardsInput) ([]*domain.GiftCard, error)
	changeFn    func(ctx context.Context, id, externalID string) (*domain.GiftCard, error)
	setActiveFn func(ctx context.Context, id string, active bool) (*domain.GiftCard, error)
	archiveFn   func(ctx context.Context, id string) (*domain.GiftCard, error)
	restoreFn   func(ctx context.Context, id string) (*domain.GiftCard, error)
	purgeFn     func(ctx context.Context, id string) error
}

func (s *cardServiceStub) CreateCard(ctx context.Context, input usecase.CreateCardInput) (*domain.GiftCard, error) {
	return s.createFn(ctx, input)
}

func (s *cardServiceStub) GetCard(ctx context.Context, id string) (*domain.GiftCard, error) {
	return s.getFn(ctx, id)
}

func (s *cardServiceStub) LookupCard(ctx context.Context, ref string) (*domain.GiftCard, error) {
	return s.lookupFn(ctx, ref)
}

func (s *cardServiceStub) ListCards(ctx context.Context, input usecase.ListCardsInput) ([]*domain.GiftCard, error) {
	return s.listFn(ctx, input)
}

func (s *cardServiceStub) ChangeExternalID(ctx context.Context, id, externalID string) (*domain.GiftCard, error) {
	return s.changeFn(ctx, id, externalID)
}

func (s *cardServiceStub) SetActive(ctx context.Context, id string, active bool) (*domain.GiftCard, error) {
	return s.setActiveFn(ctx, id, active)
}

func (s *cardServiceStub) ArchiveCard(ctx context.Context, id string) (*domain.GiftCard, error) {
	return s.archiveFn(ctx, id)
}

func (s *cardServiceStub) RestoreCard(ctx context.Context, id string) (*domain.GiftCard, error) {
	return s.restoreFn(ctx, id)
}

func (s *cardServiceStub) PurgeCard(ctx context.Context, id string) error {
	return s.purgeFn(ctx, id)
}

type balanceServiceStub struct {
	creditFn func(ctx context.Context, input usecase.MutationInput) (*domain.LedgerEntry, error)
	debitFn  func(ctx context.Context, input usecase.MutationInput) (*domain.LedgerEntry, error)
	adjustFn func(ctx context.Context, input usecase.MutationInput) (*domain.LedgerEntry, error)
}

func (s *balanceServiceStub) Credit(ctx context.Context, input usecase.MutationInput) (*domain.LedgerEntry, error) {
	return s.creditFn(ctx, input)
}

func (s *balanceServiceStub) Debit(ctx context.Context, input usecase.MutationInput) (*domain.LedgerEntry, error) {
	return s.debitFn(ctx, input)
}

func (s *balanceServiceStub) Adjust(ctx context.Context, input usecase.MutationInput) (*domain.LedgerEntry, error) {
	return s.adjustFn(ctx, input)
}

type entryServiceStub struct {
	getFn            func(ctx context.Context, id string) (*domain.LedgerEntry, error)
	listByCardFn     func(ctx context.Context, cardID string, filter domain.EntryFilter) ([]*domain.LedgerEntry, error)
	listByLocationFn func(ctx context.Context, locationID string, filter domain.EntryFilter) ([]*domain.LedgerEntry, error)
}

func (s *entryServiceStub) GetEntry(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	return s.getFn(ctx, id)
}

func (s *entryServiceStub) ListByCard(ctx context.Context, cardID string, filter domain.EntryFilter) ([]*domain.LedgerEntry, error) {
	return s.listByCardFn(ctx, cardID, filter)
}

func (s *entryServiceStub) ListByLocation(ctx context.Context, locationID string, filter domain.EntryFilter) ([]*domain.LedgerEntry, error) {
	return s.listByLocationFn(ctx, locationID, filter)
}

type reportServiceStub struct {
	closureFn   func(ctx context.Context, filter usecase.ClosureFilter) (*usecase.ClosureReport, error)
	statementFn func(ctx context.Context, cardID string, from, to *time.Time) (*usecase.CardStatement, error)
}

func (s *reportServiceStub) LocationClosure(ctx context.Context, filter usecase.ClosureFilter) (*usecase.ClosureReport, error) {
	return s.closureFn(ctx, filter)
}

func (s *reportServiceStub) CardStatement(ctx context.Context, cardID string, from, to *time.Time) (*usecase.CardStatement, error) {
	return s.statementFn(ctx, cardID, from, to)
}

type reconciliationServiceStub struct {
	reconcileFn   func(ctx context.Context, cardID string) (*usecase.ReconciliationResult, error)
	consistencyFn func(ctx context.Context) ([]domain.BalanceDrift, error)
	reportFn      func(ctx context.Context) (*usecase.ReconciliationReport, error)
}

func (s *reconciliationServiceStub) ReconcileCard(ctx context.Context, cardID string) (*usecase.ReconciliationResult, error) {
	return s.reconcileFn(ctx, cardID)
}

func (s *reconciliationServiceStub) CheckLedgerConsistency(ctx context.Context) ([]domain.BalanceDrift, error) {
	return s.consistencyFn(ctx)
}

func (s *reconciliationServiceStub) GenerateReconciliationReport(ctx context.Context) (*usecase.ReconciliationReport, error) {
	return s.reportFn(ctx)
}

type importServiceStub struct {
	runFn func(ctx context.Context, input usecase.ImportInput) (*usecase.ImportResult, error)
}

func (s *importServiceStub) Run(ctx context.Context, input usecase.ImportInput) (*usecase.ImportResult, error) {
	return s.runFn(ctx, input)
}
