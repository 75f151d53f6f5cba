package handlers

import (
	"context"
	"net/http"

	"github.com/wassalni/covoiturage-backend/internal/middleware"
	"github.com/wassalni/covoiturage-backend/internal/models"
)

// FeedbackLifecycle is the feedback service surface the handler depends
// on.
type FeedbackLifecycle interface {
	Create(ctx context.Context, tripID, passengerID string, rating int, comment string) (*models.Feedback, error)
	Get(ctx context.Context, id string) (*models.Feedback, error)
	ListByTrip(ctx context.Context, tripID string) ([]models.Feedback, error)
	ListByPassenger(ctx context.Context, passengerID string) ([]models.Feedback, error)
	ListByDriver(ctx context.Context, driverID string) ([]models.Feedback, error)
	AverageForDriver(ctx context.Context, driverID string) (float64, error)
	Delete(ctx context.Context, id string) error
}

// FeedbackHandler exposes feedback operations over HTTP.
type FeedbackHandler struct {
	feedbacks FeedbackLifecycle
}

// NewFeedbackHandler creates a feedback handler.
func NewFeedbackHandler(feedbacks FeedbackLifecycle) *FeedbackHandler {
	return &FeedbackHandler{feedbacks: feedbacks}
}

type createFeedbackRequest struct {
	TripID  string `json:"trip_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Create handles POST /api/feedbacks. The authenticated user is the
// rating passenger.
func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	var req createFeedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	created, err := h.feedbacks.Create(r.Context(), req.TripID, claims.UserID, req.Rating, req.Comment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Get handles GET /api/feedbacks/{id}.
func (h *FeedbackHandler) Get(w http.ResponseWriter, r *http.Request) {
	feedback, err := h.feedbacks.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, feedback)
}

// ListByTrip handles GET /api/trips/{id}/feedbacks.
func (h *FeedbackHandler) ListByTrip(w http.ResponseWriter, r *http.Request) {
	feedbacks, err := h.feedbacks.ListByTrip(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if feedbacks == nil {
		feedbacks = []models.Feedback{}
	}
	writeJSON(w, http.StatusOK, feedbacks)
}

// ListByPassenger handles GET /api/passengers/{id}/feedbacks.
func (h *FeedbackHandler) ListByPassenger(w http.ResponseWriter, r *http.Request) {
	feedbacks, err := h.feedbacks.ListByPassenger(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if feedbacks == nil {
		feedbacks = []models.Feedback{}
	}
	writeJSON(w, http.StatusOK, feedbacks)
}

// ListByDriver handles GET /api/drivers/{id}/feedbacks.
func (h *FeedbackHandler) ListByDriver(w http.ResponseWriter, r *http.Request) {
	feedbacks, err := h.feedbacks.ListByDriver(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if feedbacks == nil {
		feedbacks = []models.Feedback{}
	}
	writeJSON(w, http.StatusOK, feedbacks)
}

// AverageForDriver handles GET /api/drivers/{id}/rating.
func (h *FeedbackHandler) AverageForDriver(w http.ResponseWriter, r *http.Request) {
	average, err := h.feedbacks.AverageForDriver(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"average_rating": average})
}

// Delete handles DELETE /api/feedbacks/{id}.
func (h *FeedbackHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.feedbacks.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "feedback deleted"})
}
