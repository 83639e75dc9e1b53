package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/giftledger/internal/adapter/http/dto"
	"github.com/iho/giftledger/internal/domain"
	"github.com/iho/giftledger/internal/usecase"
)

func sampleCard() *domain.GiftCard {
	return &domain.GiftCard{
		ID:         "0b6f4c1e-2f7a-4a55-9c1d-1f8f0d1e2a3b",
		ExternalID: "GC-0001",
		Balance:    decimal.NewFromInt(250),
		Active:     true,
		Status:     domain.StatusActive,
	}
}

func TestCardHandler_Create_Success(t *testing.T) {
	var captured usecase.CreateCardInput
	handler := NewCardHandler(&cardServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateCardInput) (*domain.GiftCard, error) {
			captured = input
			return sampleCard(), nil
		},
	})

	body, _ := json.Marshal(dto.CreateCardRequest{ExternalID: "GC-0001"})
	req := httptest.NewRequest(http.MethodPost, "/cards", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.ExternalID != "GC-0001" {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.CardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.OwnerName != domain.UnassignedOwner {
		t.Fatalf("expected unassigned owner, got %q", resp.OwnerName)
	}
}

func TestCardHandler_Create_ValidationError(t *testing.T) {
	handler := NewCardHandler(&cardServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateCardInput) (*domain.GiftCard, error) {
			t.Fatal("CreateCard should not be called for invalid payload")
			return nil, nil
		},
	})

	for _, body := range []string{"{invalid json", `{"external_id":""}`} {
		req := httptest.NewRequest(http.MethodPost, "/cards", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %q, got %d", body, rec.Code)
		}
	}
}

func TestCardHandler_Create_DuplicateExternalID(t *testing.T) {
	handler := NewCardHandler(&cardServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateCardInput) (*domain.GiftCard, error) {
			return nil, domain.ErrDuplicateExternalID
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/cards", bytes.NewBufferString(`{"external_id":"GC-0001"}`))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestCardHandler_Lookup(t *testing.T) {
	var gotRef string
	handler := NewCardHandler(&cardServiceStub{
		lookupFn: func(ctx context.Context, ref string) (*domain.GiftCard, error) {
			gotRef = ref
			if ref == "GC-0001" {
				return sampleCard(), nil
			}
			return nil, domain.ErrCardNotFound
		},
	})

	rec := httptest.NewRecorder()
	handler.Lookup(rec, httptest.NewRequest(http.MethodGet, "/cards/lookup?ref=GC-0001", nil))
	if rec.Code != http.StatusOK || gotRef != "GC-0001" {
		t.Fatalf("expected 200 for known ref, got %d (ref %q)", rec.Code, gotRef)
	}

	rec = httptest.NewRecorder()
	handler.Lookup(rec, httptest.NewRequest(http.MethodGet, "/cards/lookup?ref=nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown ref, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.Lookup(rec, httptest.NewRequest(http.MethodGet, "/cards/lookup", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without ref, got %d", rec.Code)
	}
}

func TestCardHandler_List_StatusFilter(t *testing.T) {
	var captured usecase.ListCardsInput
	handler := NewCardHandler(&cardServiceStub{
		listFn: func(ctx context.Context, input usecase.ListCardsInput) ([]*domain.GiftCard, error) {
			captured = input
			return []*domain.GiftCard{sampleCard()}, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/cards?status=archived&limit=5", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(captured.Status.Statuses) != 1 || captured.Status.Statuses[0] != domain.StatusArchived {
		t.Fatalf("expected archived filter, got %+v", captured.Status)
	}
	if captured.Limit != 5 {
		t.Fatalf("expected limit 5, got %d", captured.Limit)
	}

	var resp dto.ListCardsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("expected one card, got %d", resp.Total)
	}

	rec = httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/cards?status=gone", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", rec.Code)
	}
}

func TestCardHandler_Lifecycle(t *testing.T) {
	var activeArg *bool
	handler := NewCardHandler(&cardServiceStub{
		setActiveFn: func(ctx context.Context, id string, active bool) (*domain.GiftCard, error) {
			activeArg = &active
			card := sampleCard()
			card.Active = active
			return card, nil
		},
		archiveFn: func(ctx context.Context, id string) (*domain.GiftCard, error) {
			return nil, domain.ErrCardArchived
		},
		purgeFn: func(ctx context.Context, id string) error {
			if id != "c1" {
				return domain.ErrCardNotFound
			}
			return nil
		},
	})

	rec := httptest.NewRecorder()
	handler.Deactivate(rec, withURLParam(httptest.NewRequest(http.MethodPost, "/cards/c1/deactivate", nil), "id", "c1"))
	if rec.Code != http.StatusOK || activeArg == nil || *activeArg {
		t.Fatalf("expected deactivate to call SetActive(false), got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.Archive(rec, withURLParam(httptest.NewRequest(http.MethodPost, "/cards/c1/archive", nil), "id", "c1"))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for already archived card, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.Purge(rec, withURLParam(httptest.NewRequest(http.MethodDelete, "/cards/c1", nil), "id", "c1"))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.Purge(rec, withURLParam(httptest.NewRequest(http.MethodDelete, "/cards/c2", nil), "id", "c2"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCardHandler_ChangeExternalID(t *testing.T) {
	handler := NewCardHandler(&cardServiceStub{
		changeFn: func(ctx context.Context, id, externalID string) (*domain.GiftCard, error) {
			card := sampleCard()
			card.ID = id
			card.ExternalID = externalID
			return card, nil
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodPatch, "/cards/c1/external-id", bytes.NewBufferString(`{"external_id":"GC-0099"}`)), "id", "c1")
	rec := httptest.NewRecorder()

	handler.ChangeExternalID(rec, req)

	var resp dto.CardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "c1" || resp.ExternalID != "GC-0099" {
		t.Fatalf("unexpected card %+v", resp)
	}
}
