package service

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/wassalni/covoiturage-backend/internal/apperr"
	"github.com/wassalni/covoiturage-backend/internal/db"
	"github.com/wassalni/covoiturage-backend/internal/models"
	"github.com/wassalni/covoiturage-backend/internal/notify"
	"github.com/wassalni/covoiturage-backend/internal/seats"
)

// ReservationService drives reservation state transitions, including
// the accept-time merge rule, and keeps the no-overbooking invariant.
type ReservationService struct {
	reservations db.ReservationCollection
	trips        db.TripCollection
	users        db.UserCollection
	notifier     notify.Publisher
	locks        *TripLocks
}

// NewReservationService creates a reservation lifecycle service. locks
// must be the same registry handed to the trip service.
func NewReservationService(reservations db.ReservationCollection, trips db.TripCollection, users db.UserCollection, notifier notify.Publisher, locks *TripLocks) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		trips:        trips,
		users:        users,
		notifier:     notifier,
		locks:        locks,
	}
}

// Create persists a new pending reservation after the capacity gate.
// The whole check-then-insert sequence runs under the trip's lock so
// two concurrent requests cannot jointly overbook.
func (s *ReservationService) Create(ctx context.Context, tripID, passengerID string, seatCount int, totalPrice float64, message string) (*models.Reservation, error) {
	// Reject before any store access.
	if seatCount <= 0 {
		return nil, apperr.Validationf("requested seat count must be positive, got %d", seatCount)
	}
	if totalPrice < 0 {
		return nil, apperr.Validationf("total price must not be negative, got %g", totalPrice)
	}

	unlock := s.locks.Lock(tripID)
	defer unlock()

	trip, err := s.trips.FindTripByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.Archived {
		return nil, apperr.Conflictf("trip %s is archived", tripID)
	}
	existing, err := s.reservations.FindReservationsByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if err := seats.CanReserve(trip, existing, seatCount); err != nil {
		return nil, err
	}

	r := models.Reservation{
		TripID:      tripID,
		PassengerID: passengerID,
		Seats:       seatCount,
		TotalPrice:  totalPrice,
		Message:     message,
		Status:      models.ReservationPending,
	}
	id, err := s.reservations.InsertReservation(ctx, r)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"reservation_id": id,
		"trip_id":        tripID,
		"passenger_id":   passengerID,
		"seats":          seatCount,
	}).Info("Reservation created")
	return s.reservations.FindReservationByID(ctx, id)
}

// Get returns a reservation by id.
func (s *ReservationService) Get(ctx context.Context, id string) (*models.Reservation, error) {
	return s.reservations.FindReservationByID(ctx, id)
}

// Accept transitions a reservation to accepted. If the same passenger
// already holds an accepted reservation on the same trip, the two are
// consolidated: seats and price fold into this reservation and the
// other record is deleted, so capacity is never double-counted.
func (s *ReservationService) Accept(ctx context.Context, id string) (*models.Reservation, error) {
	r, err := s.reservations.FindReservationByID(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(r.TripID)
	defer unlock()

	// Reload under the lock: a concurrent cascade or merge may have
	// moved the reservation since the first read.
	r, err = s.reservations.FindReservationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status.Terminal() {
		return nil, apperr.Conflictf("reservation %s is %s and cannot be accepted", id, r.Status)
	}

	other, err := s.reservations.FindAcceptedByTripAndPassenger(ctx, r.TripID, r.PassengerID, id)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	if other != nil {
		r.Seats += other.Seats
		r.TotalPrice += other.TotalPrice
		// Delete before saving the merged record: losing the other
		// reservation undercounts capacity, the reverse overbooks.
		if err := s.reservations.DeleteReservation(ctx, other.ID.Hex()); err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{
			"reservation_id": id,
			"merged_id":      other.ID.Hex(),
			"trip_id":        r.TripID,
		}).Info("Merged accepted reservations")
	}

	r.Status = models.ReservationAccepted
	if err := s.reservations.UpdateReservation(ctx, id, *r); err != nil {
		return nil, err
	}
	s.notifier.Publish(notify.TopicReservationAccepted, notify.Event{
		TripID:        r.TripID,
		ReservationID: id,
		PassengerID:   r.PassengerID,
	})
	return s.reservations.FindReservationByID(ctx, id)
}

// Refuse transitions a reservation to refused. Legal only from pending
// or accepted; a second refusal fails with a conflict.
func (s *ReservationService) Refuse(ctx context.Context, id string) (*models.Reservation, error) {
	return s.transition(ctx, id, models.ReservationRefused, notify.TopicReservationRefused)
}

// Cancel transitions a reservation to cancelled. Legal only from
// pending or accepted.
func (s *ReservationService) Cancel(ctx context.Context, id string) (*models.Reservation, error) {
	return s.transition(ctx, id, models.ReservationCancelled, notify.TopicReservationCancelled)
}

func (s *ReservationService) transition(ctx context.Context, id string, to models.ReservationStatus, topic string) (*models.Reservation, error) {
	r, err := s.reservations.FindReservationByID(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(r.TripID)
	defer unlock()

	r, err = s.reservations.FindReservationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status.Terminal() {
		return nil, apperr.Conflictf("reservation %s is already %s", id, r.Status)
	}

	r.Status = to
	if err := s.reservations.UpdateReservation(ctx, id, *r); err != nil {
		return nil, err
	}
	s.notifier.Publish(topic, notify.Event{
		TripID:        r.TripID,
		ReservationID: id,
		PassengerID:   r.PassengerID,
	})
	log.WithFields(log.Fields{
		"reservation_id": id,
		"status":         to,
	}).Info("Reservation transitioned")
	return s.reservations.FindReservationByID(ctx, id)
}

// ListByTrip returns all reservations on a trip.
func (s *ReservationService) ListByTrip(ctx context.Context, tripID string) ([]models.Reservation, error) {
	return s.reservations.FindReservationsByTrip(ctx, tripID)
}

// ListByDriver returns all reservations on any trip published by the
// driver.
func (s *ReservationService) ListByDriver(ctx context.Context, driverID string) ([]models.Reservation, error) {
	trips, err := s.trips.FindTripsByDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	tripIDs := make([]string, 0, len(trips))
	for _, t := range trips {
		tripIDs = append(tripIDs, t.ID.Hex())
	}
	return s.reservations.FindReservationsByTrips(ctx, tripIDs)
}

// PassengerReservation is a passenger's reservation joined with its trip
// and the other passengers holding an accepted reservation on it.
type PassengerReservation struct {
	Reservation  models.Reservation   `json:"reservation"`
	Trip         *models.Trip         `json:"trip,omitempty"`
	CoPassengers []models.UserSummary `json:"co_passengers"`
}

// ListByPassenger returns the passenger's reservations. For every
// reservation whose trip still resolves, the other passengers with an
// accepted reservation on the same trip are attached for ride-sharing
// visibility.
func (s *ReservationService) ListByPassenger(ctx context.Context, passengerID string) ([]PassengerReservation, error) {
	reservations, err := s.reservations.FindReservationsByPassenger(ctx, passengerID)
	if err != nil {
		return nil, err
	}
	out := make([]PassengerReservation, 0, len(reservations))
	for _, r := range reservations {
		entry := PassengerReservation{Reservation: r, CoPassengers: []models.UserSummary{}}
		trip, err := s.trips.FindTripByID(ctx, r.TripID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrValidation) {
				out = append(out, entry)
				continue
			}
			return nil, err
		}
		entry.Trip = trip

		onTrip, err := s.reservations.FindReservationsByTrip(ctx, r.TripID)
		if err != nil {
			return nil, err
		}
		for _, o := range onTrip {
			if o.Status != models.ReservationAccepted || o.PassengerID == passengerID {
				continue
			}
			user, err := s.users.FindUserByID(ctx, o.PassengerID)
			if err != nil {
				if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrValidation) {
					continue
				}
				return nil, err
			}
			entry.CoPassengers = append(entry.CoPassengers, user.Summary())
		}
		out = append(out, entry)
	}
	return out, nil
}
