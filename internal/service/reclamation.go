package service

import (
	"context"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wassalni/covoiturage-backend/internal/apperr"
	"github.com/wassalni/covoiturage-backend/internal/db"
	"github.com/wassalni/covoiturage-backend/internal/models"
)

const (
	reasonMinLen = 5
	reasonMaxLen = 500
)

// ReclamationService manages user-filed disputes.
type ReclamationService struct {
	reclamations db.ReclamationCollection
	users        db.UserCollection
}

// NewReclamationService creates a dispute service.
func NewReclamationService(reclamations db.ReclamationCollection, users db.UserCollection) *ReclamationService {
	return &ReclamationService{reclamations: reclamations, users: users}
}

// Create files a dispute by complainantID against reportedID. Both
// users must exist.
func (s *ReclamationService) Create(ctx context.Context, complainantID, reportedID, reason string) (*models.Reclamation, error) {
	reason = strings.TrimSpace(reason)
	if len(reason) < reasonMinLen || len(reason) > reasonMaxLen {
		return nil, apperr.Validationf("reason must be between %d and %d characters", reasonMinLen, reasonMaxLen)
	}
	if _, err := s.users.FindUserByID(ctx, complainantID); err != nil {
		return nil, err
	}
	if _, err := s.users.FindUserByID(ctx, reportedID); err != nil {
		return nil, err
	}

	r := models.Reclamation{
		ComplainantID: complainantID,
		ReportedID:    reportedID,
		Reason:        reason,
		Status:        models.ReclamationOpen,
	}
	id, err := s.reclamations.InsertReclamation(ctx, r)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"reclamation_id": id,
		"complainant_id": complainantID,
		"reported_id":    reportedID,
	}).Info("Reclamation filed")
	return s.reclamations.FindReclamationByID(ctx, id)
}

// Resolve closes an open dispute with a resolution text.
func (s *ReclamationService) Resolve(ctx context.Context, id, response string) (*models.Reclamation, error) {
	return s.close(ctx, id, response, models.ReclamationResolved)
}

// Reject closes an open dispute as unfounded, with a resolution text.
func (s *ReclamationService) Reject(ctx context.Context, id, response string) (*models.Reclamation, error) {
	return s.close(ctx, id, response, models.ReclamationRejected)
}

func (s *ReclamationService) close(ctx context.Context, id, response string, to models.ReclamationStatus) (*models.Reclamation, error) {
	if strings.TrimSpace(response) == "" {
		return nil, apperr.Validationf("a resolution text is required")
	}
	r, err := s.reclamations.FindReclamationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status != models.ReclamationOpen {
		return nil, apperr.Conflictf("reclamation %s is already %s", id, r.Status)
	}

	now := time.Now()
	r.Status = to
	r.Response = response
	r.ResolvedAt = &now
	if err := s.reclamations.UpdateReclamation(ctx, id, *r); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"reclamation_id": id,
		"status":         to,
	}).Info("Reclamation closed")
	return s.reclamations.FindReclamationByID(ctx, id)
}

// Get returns a dispute by id.
func (s *ReclamationService) Get(ctx context.Context, id string) (*models.Reclamation, error) {
	return s.reclamations.FindReclamationByID(ctx, id)
}

// ListAll returns every dispute.
func (s *ReclamationService) ListAll(ctx context.Context) ([]models.Reclamation, error) {
	return s.reclamations.FindReclamations(ctx)
}

// ListByComplainant returns the disputes filed by a user.
func (s *ReclamationService) ListByComplainant(ctx context.Context, userID string) ([]models.Reclamation, error) {
	return s.reclamations.FindReclamationsByComplainant(ctx, userID)
}

// ListByReported returns the disputes filed against a user.
func (s *ReclamationService) ListByReported(ctx context.Context, userID string) ([]models.Reclamation, error) {
	return s.reclamations.FindReclamationsByReported(ctx, userID)
}

// ListByStatus returns the disputes in a given state.
func (s *ReclamationService) ListByStatus(ctx context.Context, status models.ReclamationStatus) ([]models.Reclamation, error) {
	return s.reclamations.FindReclamationsByStatus(ctx, status)
}

// Delete removes a dispute by id.
func (s *ReclamationService) Delete(ctx context.Context, id string) error {
	return s.reclamations.DeleteReclamation(ctx, id)
}
