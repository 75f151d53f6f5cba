package handlers

import (
	"context"
	"net/http"

	"github.com/wassalni/covoiturage-backend/internal/middleware"
	"github.com/wassalni/covoiturage-backend/internal/models"
)

// ReclamationLifecycle is the dispute service surface the handler
// depends on.
type ReclamationLifecycle interface {
	Create(ctx context.Context, complainantID, reportedID, reason string) (*models.Reclamation, error)
	Get(ctx context.Context, id string) (*models.Reclamation, error)
	Resolve(ctx context.Context, id, response string) (*models.Reclamation, error)
	Reject(ctx context.Context, id, response string) (*models.Reclamation, error)
	ListAll(ctx context.Context) ([]models.Reclamation, error)
	ListByComplainant(ctx context.Context, userID string) ([]models.Reclamation, error)
	ListByReported(ctx context.Context, userID string) ([]models.Reclamation, error)
	ListByStatus(ctx context.Context, status models.ReclamationStatus) ([]models.Reclamation, error)
	Delete(ctx context.Context, id string) error
}

// ReclamationHandler exposes dispute operations over HTTP.
type ReclamationHandler struct {
	reclamations ReclamationLifecycle
}

// NewReclamationHandler creates a dispute handler.
func NewReclamationHandler(reclamations ReclamationLifecycle) *ReclamationHandler {
	return &ReclamationHandler{reclamations: reclamations}
}

type createReclamationRequest struct {
	ReportedID string `json:"reported_id"`
	Reason     string `json:"reason"`
}

type closeReclamationRequest struct {
	Response string `json:"response"`
}

// Create handles POST /api/reclamations. The authenticated user is the
// complainant.
func (h *ReclamationHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	var req createReclamationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	created, err := h.reclamations.Create(r.Context(), claims.UserID, req.ReportedID, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Get handles GET /api/reclamations/{id}.
func (h *ReclamationHandler) Get(w http.ResponseWriter, r *http.Request) {
	reclamation, err := h.reclamations.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reclamation)
}

// List handles GET /api/reclamations with optional filters: ?status=,
// ?complainant=, ?reported=.
func (h *ReclamationHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		reclamations []models.Reclamation
		err          error
	)
	q := r.URL.Query()
	switch {
	case q.Get("status") != "":
		reclamations, err = h.reclamations.ListByStatus(r.Context(), models.ReclamationStatus(q.Get("status")))
	case q.Get("complainant") != "":
		reclamations, err = h.reclamations.ListByComplainant(r.Context(), q.Get("complainant"))
	case q.Get("reported") != "":
		reclamations, err = h.reclamations.ListByReported(r.Context(), q.Get("reported"))
	default:
		reclamations, err = h.reclamations.ListAll(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if reclamations == nil {
		reclamations = []models.Reclamation{}
	}
	writeJSON(w, http.StatusOK, reclamations)
}

// Resolve handles POST /api/reclamations/{id}/resolve.
func (h *ReclamationHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req closeReclamationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	reclamation, err := h.reclamations.Resolve(r.Context(), r.PathValue("id"), req.Response)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reclamation)
}

// Reject handles POST /api/reclamations/{id}/reject.
func (h *ReclamationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var req closeReclamationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	reclamation, err := h.reclamations.Reject(r.Context(), r.PathValue("id"), req.Response)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reclamation)
}

// Delete handles DELETE /api/reclamations/{id}.
func (h *ReclamationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.reclamations.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "reclamation deleted"})
}
