package service

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/wassalni/covoiturage-backend/internal/apperr"
	"github.com/wassalni/covoiturage-backend/internal/db"
	"github.com/wassalni/covoiturage-backend/internal/models"
)

// FeedbackService manages passenger ratings on trips.
type FeedbackService struct {
	feedbacks db.FeedbackCollection
	trips     db.TripCollection
	users     db.UserCollection
}

// NewFeedbackService creates a feedback service.
func NewFeedbackService(feedbacks db.FeedbackCollection, trips db.TripCollection, users db.UserCollection) *FeedbackService {
	return &FeedbackService{feedbacks: feedbacks, trips: trips, users: users}
}

// Create records a passenger's rating of a trip. At most one feedback
// per (trip, passenger) pair.
func (s *FeedbackService) Create(ctx context.Context, tripID, passengerID string, rating int, comment string) (*models.Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, apperr.Validationf("rating must be between 1 and 5, got %d", rating)
	}
	if _, err := s.trips.FindTripByID(ctx, tripID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrValidation) {
			return nil, apperr.Validationf("trip %s does not exist", tripID)
		}
		return nil, err
	}
	if _, err := s.users.FindUserByID(ctx, passengerID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrValidation) {
			return nil, apperr.Validationf("passenger %s does not exist", passengerID)
		}
		return nil, err
	}
	existing, err := s.feedbacks.FindFeedbackByTripAndPassenger(ctx, tripID, passengerID)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Duplicatef("passenger %s already left feedback on trip %s", passengerID, tripID)
	}

	f := models.Feedback{
		TripID:      tripID,
		PassengerID: passengerID,
		Rating:      rating,
		Comment:     comment,
	}
	id, err := s.feedbacks.InsertFeedback(ctx, f)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"feedback_id":  id,
		"trip_id":      tripID,
		"passenger_id": passengerID,
		"rating":       rating,
	}).Info("Feedback created")
	return s.feedbacks.FindFeedbackByID(ctx, id)
}

// Get returns a feedback by id.
func (s *FeedbackService) Get(ctx context.Context, id string) (*models.Feedback, error) {
	return s.feedbacks.FindFeedbackByID(ctx, id)
}

// ListByTrip returns the feedbacks on a trip. The trip must exist.
func (s *FeedbackService) ListByTrip(ctx context.Context, tripID string) ([]models.Feedback, error) {
	if _, err := s.trips.FindTripByID(ctx, tripID); err != nil {
		return nil, err
	}
	return s.feedbacks.FindFeedbacksByTrip(ctx, tripID)
}

// ListByPassenger returns the feedbacks a passenger left.
func (s *FeedbackService) ListByPassenger(ctx context.Context, passengerID string) ([]models.Feedback, error) {
	return s.feedbacks.FindFeedbacksByPassenger(ctx, passengerID)
}

// ListByDriver returns the feedbacks on all of a driver's trips.
func (s *FeedbackService) ListByDriver(ctx context.Context, driverID string) ([]models.Feedback, error) {
	feedbacks, _, err := s.driverFeedbacks(ctx, driverID)
	return feedbacks, err
}

// AverageForDriver aggregates ratings across all feedbacks on all of
// the driver's trips. A driver without trips or without feedback scores
// an explicit zero.
func (s *FeedbackService) AverageForDriver(ctx context.Context, driverID string) (float64, error) {
	feedbacks, _, err := s.driverFeedbacks(ctx, driverID)
	if err != nil {
		return 0, err
	}
	if len(feedbacks) == 0 {
		return 0, nil
	}
	total := 0
	for _, f := range feedbacks {
		total += f.Rating
	}
	return float64(total) / float64(len(feedbacks)), nil
}

func (s *FeedbackService) driverFeedbacks(ctx context.Context, driverID string) ([]models.Feedback, []models.Trip, error) {
	trips, err := s.trips.FindTripsByDriver(ctx, driverID)
	if err != nil {
		return nil, nil, err
	}
	tripIDs := make([]string, 0, len(trips))
	for _, t := range trips {
		tripIDs = append(tripIDs, t.ID.Hex())
	}
	feedbacks, err := s.feedbacks.FindFeedbacksByTrips(ctx, tripIDs)
	if err != nil {
		return nil, nil, err
	}
	return feedbacks, trips, nil
}

// Delete removes a feedback by id.
func (s *FeedbackService) Delete(ctx context.Context, id string) error {
	if _, err := s.feedbacks.FindFeedbackByID(ctx, id); err != nil {
		return err
	}
	return s.feedbacks.DeleteFeedback(ctx, id)
}
