package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/giftledger/internal/adapter/http/dto"
	"github.com/iho/giftledger/internal/adapter/sheet"
	"github.com/iho/giftledger/internal/domain"
	"github.com/iho/giftledger/internal/usecase"
)

func multipartUpload(t *testing.T, filename, content string, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		io.WriteString(part, content)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/imports", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func drain(ctx context.Context, src usecase.RowSource) ([]usecase.ImportRow, error) {
	var rows []usecase.ImportRow
	for {
		chunk, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		rows = append(rows, chunk...)
	}
}

func TestImportHandler_Upload_CSV(t *testing.T) {
	var (
		captured usecase.ImportInput
		rows     []usecase.ImportRow
	)
	handler := NewImportHandler(&importServiceStub{
		runFn: func(ctx context.Context, input usecase.ImportInput) (*usecase.ImportResult, error) {
			captured = input
			var err error
			rows, err = drain(ctx, input.Source)
			if err != nil {
				return nil, err
			}
			return &usecase.ImportResult{
				Processed: []usecase.ProcessedRow{{CardRef: "GC-1", Direction: usecase.DirectionCredit, Amount: decimal.NewFromInt(100), Row: 2}},
				Errors:    []usecase.RowError{},
				Stats:     usecase.ImportStats{Processed: 1, TotalRows: len(rows)},
			}, nil
		},
	}, ImportConfig{Sheet: sheet.DefaultOptions()})

	csv := "card,monto,sucursal\nGC-1,100,\nGC-2,-30,Centro\n"
	req := multipartUpload(t, "carga.csv", csv, map[string]string{"allow_multiple": "true"})
	req.Header.Set(ActorHeader, "admin-1")
	rec := httptest.NewRecorder()

	handler.Upload(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !captured.AllowMultiplePerCard {
		t.Fatal("expected allow_multiple form field to be honored")
	}
	if captured.ActorID != "admin-1" {
		t.Fatalf("expected actor from header, got %q", captured.ActorID)
	}
	if len(rows) != 2 || rows[1].CardRef != "GC-2" || rows[1].Location != "Centro" || rows[1].Number != 3 {
		t.Fatalf("unexpected rows %+v", rows)
	}

	var resp dto.ImportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Filename != "carga.csv" || resp.Aborted || resp.Stats.TotalRows != 2 {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestImportHandler_Upload_UnsupportedFormat(t *testing.T) {
	handler := NewImportHandler(&importServiceStub{
		runFn: func(ctx context.Context, input usecase.ImportInput) (*usecase.ImportResult, error) {
			t.Fatal("Run should not be called for unsupported files")
			return nil, nil
		},
	}, ImportConfig{Sheet: sheet.DefaultOptions()})

	rec := httptest.NewRecorder()
	handler.Upload(rec, multipartUpload(t, "carga.pdf", "%PDF", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestImportHandler_Upload_MissingFile(t *testing.T) {
	handler := NewImportHandler(&importServiceStub{}, ImportConfig{})

	rec := httptest.NewRecorder()
	handler.Upload(rec, multipartUpload(t, "", "", map[string]string{"allow_multiple": "false"}))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestImportHandler_Upload_TooLarge(t *testing.T) {
	handler := NewImportHandler(&importServiceStub{}, ImportConfig{Sheet: sheet.DefaultOptions(), MaxUploadBytes: 64})

	big := "card,amount\n"
	for i := 0; i < 50; i++ {
		big += fmt.Sprintf("GC-%d,10\n", i)
	}

	rec := httptest.NewRecorder()
	handler.Upload(rec, multipartUpload(t, "big.csv", big, nil))

	if rec.Code != http.StatusRequestEntityTooLarge && rec.Code != http.StatusBadRequest {
		t.Fatalf("expected upload to be rejected, got %d", rec.Code)
	}
}

func TestImportHandler_Upload_AbortedRunReturnsPartialResult(t *testing.T) {
	handler := NewImportHandler(&importServiceStub{
		runFn: func(ctx context.Context, input usecase.ImportInput) (*usecase.ImportResult, error) {
			return &usecase.ImportResult{
				Processed: []usecase.ProcessedRow{{CardRef: "GC-1", Row: 2}},
				Errors:    []usecase.RowError{},
				Stats:     usecase.ImportStats{Processed: 1},
			}, fmt.Errorf("%w at row 3: %w", domain.ErrImportAborted, errors.New("connection reset"))
		},
	}, ImportConfig{Sheet: sheet.DefaultOptions()})

	rec := httptest.NewRecorder()
	handler.Upload(rec, multipartUpload(t, "carga.csv", "card,amount\nGC-1,10\nGC-2,5\n", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var resp dto.ImportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Aborted || len(resp.Processed) != 1 {
		t.Fatalf("expected partial aborted result, got %+v", resp)
	}
}
