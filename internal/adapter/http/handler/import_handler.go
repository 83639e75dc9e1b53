package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/iho/giftledger/internal/adapter/http/dto"
	"github.com/iho/giftledger/internal/adapter/sheet"
	"github.com/iho/giftledger/internal/usecase"
)

const defaultMaxUploadBytes = 10 << 20

// ImportService defines the behavior needed by ImportHandler.
type ImportService interface {
	Run(ctx context.Context, input usecase.ImportInput) (*usecase.ImportResult, error)
}

// ImportConfig holds upload limits and spreadsheet defaults.
type ImportConfig struct {
	Sheet          sheet.Options
	MaxUploadBytes int64
	AllowMultiple  bool
}

// ImportHandler handles spreadsheet uploads.
type ImportHandler struct {
	importUC ImportService
	cfg      ImportConfig
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importUC ImportService, cfg ImportConfig) *ImportHandler {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}
	return &ImportHandler{importUC: importUC, cfg: cfg}
}

// Upload applies every row of the uploaded file, one mutation per row.
// Form fields: file (.csv or .xlsx), allow_multiple, heading_row, start_row.
func (h *ImportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.cfg.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large", err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form", err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file", err.Error())
		return
	}
	defer file.Close()

	allowMultiple := h.cfg.AllowMultiple
	if val := r.FormValue("allow_multiple"); val != "" {
		allowMultiple, err = strconv.ParseBool(val)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid allow_multiple", err.Error())
			return
		}
	}

	opts := h.cfg.Sheet
	opts.HeadingRow = formInt(r, "heading_row", opts.HeadingRow)
	opts.StartRow = formInt(r, "start_row", opts.StartRow)

	source, err := sheet.Open(header.Filename, file, opts)
	if err != nil {
		writeDomainError(w, "failed to read file", err)
		return
	}
	defer source.Close()

	input := usecase.ImportInput{
		Source:               source,
		AllowMultiplePerCard: allowMultiple,
	}
	if actor := actorID(r); actor != nil {
		input.ActorID = *actor
	}

	result, err := h.importUC.Run(r.Context(), input)
	if err != nil && result == nil {
		writeDomainError(w, "import failed", err)
		return
	}

	resp := dto.ImportResponse{ImportResult: result, Filename: header.Filename}
	if err != nil {
		resp.Aborted = true
		resp.Message = err.Error()
		writeJSON(w, mapDomainError(err), resp)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func formInt(r *http.Request, key string, defaultValue int) int {
	val := r.FormValue(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
