package handlers

import (
	"context"
	"net/http"

	"github.com/wassalni/covoiturage-backend/internal/middleware"
	"github.com/wassalni/covoiturage-backend/internal/models"
	"github.com/wassalni/covoiturage-backend/internal/service"
)

// ReservationLifecycle is the reservation service surface the handler
// depends on.
type ReservationLifecycle interface {
	Create(ctx context.Context, tripID, passengerID string, seats int, totalPrice float64, message string) (*models.Reservation, error)
	Get(ctx context.Context, id string) (*models.Reservation, error)
	Accept(ctx context.Context, id string) (*models.Reservation, error)
	Refuse(ctx context.Context, id string) (*models.Reservation, error)
	Cancel(ctx context.Context, id string) (*models.Reservation, error)
	ListByTrip(ctx context.Context, tripID string) ([]models.Reservation, error)
	ListByDriver(ctx context.Context, driverID string) ([]models.Reservation, error)
	ListByPassenger(ctx context.Context, passengerID string) ([]service.PassengerReservation, error)
}

// ReservationHandler exposes reservation lifecycle operations over HTTP.
type ReservationHandler struct {
	reservations ReservationLifecycle
}

// NewReservationHandler creates a reservation handler.
func NewReservationHandler(reservations ReservationLifecycle) *ReservationHandler {
	return &ReservationHandler{reservations: reservations}
}

type createReservationRequest struct {
	TripID     string  `json:"trip_id"`
	Seats      int     `json:"seats"`
	TotalPrice float64 `json:"total_price"`
	Message    string  `json:"message"`
}

// Create handles POST /api/reservations. The authenticated user becomes
// the passenger.
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	var req createReservationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	created, err := h.reservations.Create(r.Context(), req.TripID, claims.UserID, req.Seats, req.TotalPrice, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Get handles GET /api/reservations/{id}.
func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	reservation, err := h.reservations.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

// Accept handles POST /api/reservations/{id}/accept.
func (h *ReservationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	reservation, err := h.reservations.Accept(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

// Refuse handles POST /api/reservations/{id}/refuse.
func (h *ReservationHandler) Refuse(w http.ResponseWriter, r *http.Request) {
	reservation, err := h.reservations.Refuse(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

// Cancel handles POST /api/reservations/{id}/cancel.
func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	reservation, err := h.reservations.Cancel(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

// ListByTrip handles GET /api/trips/{id}/reservations.
func (h *ReservationHandler) ListByTrip(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.reservations.ListByTrip(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if reservations == nil {
		reservations = []models.Reservation{}
	}
	writeJSON(w, http.StatusOK, reservations)
}

// ListByDriver handles GET /api/drivers/{id}/reservations.
func (h *ReservationHandler) ListByDriver(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.reservations.ListByDriver(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if reservations == nil {
		reservations = []models.Reservation{}
	}
	writeJSON(w, http.StatusOK, reservations)
}

// ListByPassenger handles GET /api/passengers/{id}/reservations.
func (h *ReservationHandler) ListByPassenger(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.reservations.ListByPassenger(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if reservations == nil {
		reservations = []service.PassengerReservation{}
	}
	writeJSON(w, http.StatusOK, reservations)
}
