package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iho/giftledger/internal/adapter/http/dto"
	"github.com/iho/giftledger/internal/adapter/sheet"
	"github.com/iho/giftledger/internal/domain"
)

// ActorHeader carries the operator reference recorded on ledger entries.
const ActorHeader = "X-Actor-ID"

var errInvalidQuery = errors.New("invalid query parameter")

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError writes err with the status mapped from its domain error.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	writeError(w, mapDomainError(err), message, err.Error())
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrCardNotFound),
		errors.Is(err, domain.ErrLocationNotFound),
		errors.Is(err, domain.ErrOwnerNotFound),
		errors.Is(err, domain.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateExternalID),
		errors.Is(err, domain.ErrDuplicateLocationName),
		errors.Is(err, domain.ErrCardInactive),
		errors.Is(err, domain.ErrCardArchived),
		errors.Is(err, domain.ErrCardPurged),
		errors.Is(err, domain.ErrInconsistentLedger):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrNegativeBalanceRejected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrLocationRequired),
		errors.Is(err, domain.ErrMalformedAmount),
		errors.Is(err, domain.ErrZeroAmount),
		errors.Is(err, domain.ErrReferenceRequired),
		errors.Is(err, domain.ErrDuplicateReference),
		errors.Is(err, domain.ErrInvalidExternalID),
		errors.Is(err, domain.ErrInvalidLocationName),
		errors.Is(err, domain.ErrInvalidOwnerName),
		errors.Is(err, domain.ErrInvalidEntryKind),
		errors.Is(err, domain.ErrInvalidPeriod),
		errors.Is(err, sheet.ErrUnsupportedFormat),
		errors.Is(err, sheet.ErrMissingColumn),
		errors.Is(err, sheet.ErrNoHeading),
		errors.Is(err, errInvalidQuery):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type validatable interface {
	Validate() error
}

// decodeRequest decodes a JSON body into req and validates it.
func decodeRequest(w http.ResponseWriter, r *http.Request, req validatable) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed", err.Error())
		return false
	}
	return true
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// actorID returns the operator reference of the request, if any.
func actorID(r *http.Request) *string {
	actor := strings.TrimSpace(r.Header.Get(ActorHeader))
	if actor == "" {
		return nil
	}
	return &actor
}

// parseTimeQuery accepts RFC 3339 timestamps and plain dates. A plain date
// used as an upper bound covers the whole day.
func parseTimeQuery(r *http.Request, key string, endOfDay bool) (*time.Time, error) {
	val := strings.TrimSpace(r.URL.Query().Get(key))
	if val == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return &t, nil
	}

	day, err := time.Parse(time.DateOnly, val)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q", errInvalidQuery, key, val)
	}
	if endOfDay {
		day = day.Add(24*time.Hour - time.Nanosecond)
	}
	return &day, nil
}

// parsePeriod reads the from/to query parameters.
func parsePeriod(r *http.Request) (*time.Time, *time.Time, error) {
	from, err := parseTimeQuery(r, "from", false)
	if err != nil {
		return nil, nil, err
	}
	to, err := parseTimeQuery(r, "to", true)
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

// parseKindQuery reads the optional kind parameter.
func parseKindQuery(r *http.Request) (*domain.EntryKind, error) {
	val := strings.TrimSpace(r.URL.Query().Get("kind"))
	if val == "" {
		return nil, nil
	}
	kind, err := domain.ParseEntryKind(strings.ToLower(val))
	if err != nil {
		return nil, err
	}
	return &kind, nil
}

// parseStatusQuery reads a comma separated status list, e.g.
// status=active,archived.
func parseStatusQuery(r *http.Request) (domain.StatusFilter, error) {
	val := strings.TrimSpace(r.URL.Query().Get("status"))
	if val == "" {
		return domain.StatusFilter{}, nil
	}

	var filter domain.StatusFilter
	for _, part := range strings.Split(val, ",") {
		s := domain.RecordStatus(strings.ToLower(strings.TrimSpace(part)))
		if !s.Valid() {
			return domain.StatusFilter{}, fmt.Errorf("%w: status=%q", errInvalidQuery, part)
		}
		filter.Statuses = append(filter.Statuses, s)
	}
	return filter, nil
}

// parseEntryFilter reads the entry list query parameters.
func parseEntryFilter(r *http.Request) (domain.EntryFilter, error) {
	from, to, err := parsePeriod(r)
	if err != nil {
		return domain.EntryFilter{}, err
	}
	kind, err := parseKindQuery(r)
	if err != nil {
		return domain.EntryFilter{}, err
	}
	status, err := parseStatusQuery(r)
	if err != nil {
		return domain.EntryFilter{}, err
	}

	var actor *string
	if val := strings.TrimSpace(r.URL.Query().Get("actor_id")); val != "" {
		actor = &val
	}

	return domain.EntryFilter{
		From:    from,
		To:      to,
		Kind:    kind,
		ActorID: actor,
		Status:  status,
		Limit:   parseIntQuery(r, "limit", 100),
		Offset:  parseIntQuery(r, "offset", 0),
	}, nil
}
