package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/wassalni/covoiturage-backend/internal/apperr"
	"github.com/wassalni/covoiturage-backend/internal/middleware"
	"github.com/wassalni/covoiturage-backend/internal/models"
	"github.com/wassalni/covoiturage-backend/internal/pricing"
)

// TripLifecycle is the trip service surface the handler depends on.
type TripLifecycle interface {
	Create(ctx context.Context, driverID string, trip models.Trip) (*models.Trip, error)
	Get(ctx context.Context, id string) (*models.Trip, error)
	ListActive(ctx context.Context) ([]models.Trip, error)
	ListByDriver(ctx context.Context, driverID string) ([]models.Trip, error)
	Update(ctx context.Context, tripID, actorID string, patch models.TripPatch) (*models.Trip, error)
	Delete(ctx context.Context, tripID, actorID string) error
}

// TripHandler exposes trip lifecycle operations over HTTP.
type TripHandler struct {
	trips TripLifecycle
}

// NewTripHandler creates a trip handler.
func NewTripHandler(trips TripLifecycle) *TripHandler {
	return &TripHandler{trips: trips}
}

// Create handles POST /api/trips. The authenticated user becomes the
// driver.
func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	var trip models.Trip
	if err := decodeJSON(r, &trip); err != nil {
		writeError(w, err)
		return
	}
	created, err := h.trips.Create(r.Context(), claims.UserID, trip)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Get handles GET /api/trips/{id}.
func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	trip, err := h.trips.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// List handles GET /api/trips. Archived trips are hidden.
func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	trips, err := h.trips.ListActive(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if trips == nil {
		trips = []models.Trip{}
	}
	writeJSON(w, http.StatusOK, trips)
}

// ListByDriver handles GET /api/drivers/{id}/trips.
func (h *TripHandler) ListByDriver(w http.ResponseWriter, r *http.Request) {
	trips, err := h.trips.ListByDriver(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if trips == nil {
		trips = []models.Trip{}
	}
	writeJSON(w, http.StatusOK, trips)
}

// Update handles PATCH /api/trips/{id}.
func (h *TripHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	var patch models.TripPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	updated, err := h.trips.Update(r.Context(), r.PathValue("id"), claims.UserID, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/trips/{id}. Trips with reservations are
// archived and their reservations cancelled instead of being removed.
func (h *TripHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	if err := h.trips.Delete(r.Context(), r.PathValue("id"), claims.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "trip deleted"})
}

// Estimate handles GET /api/trips/estimate?distance=..&duration=..
func (h *TripHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	distance, err := strconv.ParseFloat(r.URL.Query().Get("distance"), 64)
	if err != nil {
		writeError(w, apperr.Validationf("distance query parameter is required"))
		return
	}
	duration, err := strconv.ParseFloat(r.URL.Query().Get("duration"), 64)
	if err != nil {
		writeError(w, apperr.Validationf("duration query parameter is required"))
		return
	}
	estimate, err := pricing.ForTrip(distance, duration)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, estimate)
}
