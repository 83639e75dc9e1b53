package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/giftledger/internal/adapter/http/dto"
	"github.com/iho/giftledger/internal/domain"
)

// LocationService defines the behavior needed by LocationHandler.
type LocationService interface {
	CreateLocation(ctx context.Context, name string) (*domain.Location, error)
	GetLocation(ctx context.Context, id string) (*domain.Location, error)
	FindLocation(ctx context.Context, ref string) (*domain.Location, error)
	ListLocations(ctx context.Context, limit, offset int) ([]*domain.Location, error)
}

// OwnerService defines the behavior needed by OwnerHandler.
type OwnerService interface {
	CreateOwner(ctx context.Context, name string) (*domain.Owner, error)
	GetOwner(ctx context.Context, id string) (*domain.Owner, error)
}

// LocationHandler handles branch requests.
type LocationHandler struct {
	locationUC LocationService
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(locationUC LocationService) *LocationHandler {
	return &LocationHandler{locationUC: locationUC}
}

// Create registers a branch.
func (h *LocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLocationRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	location, err := h.locationUC.CreateLocation(r.Context(), req.Name)
	if err != nil {
		writeDomainError(w, "failed to create location", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.LocationFromDomain(location))
}

// Get retrieves a branch by ID.
func (h *LocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	location, err := h.locationUC.GetLocation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get location", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LocationFromDomain(location))
}

// Lookup resolves a branch by exact name or ID from the ref query parameter.
func (h *LocationHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	location, err := h.locationUC.FindLocation(r.Context(), r.URL.Query().Get("ref"))
	if err != nil {
		writeDomainError(w, "failed to find location", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LocationFromDomain(location))
}

// List lists branches by name.
func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	locations, err := h.locationUC.ListLocations(r.Context(), parseIntQuery(r, "limit", 100), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeDomainError(w, "failed to list locations", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListLocationsResponse{
		Locations: dto.LocationsFromDomain(locations),
		Total:     int64(len(locations)),
	})
}

// OwnerHandler handles card owner requests.
type OwnerHandler struct {
	ownerUC OwnerService
}

// NewOwnerHandler creates a new OwnerHandler.
func NewOwnerHandler(ownerUC OwnerService) *OwnerHandler {
	return &OwnerHandler{ownerUC: ownerUC}
}

// Create registers an owner.
func (h *OwnerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOwnerRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	owner, err := h.ownerUC.CreateOwner(r.Context(), req.Name)
	if err != nil {
		writeDomainError(w, "failed to create owner", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.OwnerFromDomain(owner))
}

// Get retrieves an owner by ID.
func (h *OwnerHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, err := h.ownerUC.GetOwner(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get owner", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OwnerFromDomain(owner))
}
