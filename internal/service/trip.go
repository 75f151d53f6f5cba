package service

import (
	"context"
	"reflect"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wassalni/covoiturage-backend/internal/apperr"
	"github.com/wassalni/covoiturage-backend/internal/db"
	"github.com/wassalni/covoiturage-backend/internal/models"
	"github.com/wassalni/covoiturage-backend/internal/notify"
	"github.com/wassalni/covoiturage-backend/internal/seats"
)

// TripService drives trip creation, mutation and deletion, including
// the archive-instead-of-delete rule when reservations exist.
type TripService struct {
	trips        db.TripCollection
	reservations db.ReservationCollection
	notifier     notify.Publisher
	locks        *TripLocks
}

// NewTripService creates a trip lifecycle service. locks must be the
// same registry handed to the reservation service.
func NewTripService(trips db.TripCollection, reservations db.ReservationCollection, notifier notify.Publisher, locks *TripLocks) *TripService {
	return &TripService{trips: trips, reservations: reservations, notifier: notifier, locks: locks}
}

// Create publishes a new trip owned by driverID.
func (s *TripService) Create(ctx context.Context, driverID string, trip models.Trip) (*models.Trip, error) {
	if strings.TrimSpace(trip.Departure.Description) == "" {
		return nil, apperr.Validationf("departure place is required")
	}
	if strings.TrimSpace(trip.Arrival.Description) == "" {
		return nil, apperr.Validationf("arrival place is required")
	}
	if trip.DepartureDate.IsZero() {
		return nil, apperr.Validationf("departure date is required")
	}
	if strings.TrimSpace(trip.DepartureTime) == "" {
		return nil, apperr.Validationf("departure time is required")
	}
	if trip.TotalSeats < 0 {
		return nil, apperr.Validationf("total seats must not be negative, got %d", trip.TotalSeats)
	}
	if trip.PricePerSeat < 0 {
		return nil, apperr.Validationf("price per seat must not be negative, got %g", trip.PricePerSeat)
	}

	trip.DriverID = driverID
	trip.Archived = false
	trip.CreatedAt = time.Now()

	id, err := s.trips.InsertTrip(ctx, trip)
	if err != nil {
		return nil, err
	}
	created, err := s.trips.FindTripByID(ctx, id)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"trip_id":   id,
		"driver_id": driverID,
		"seats":     trip.TotalSeats,
	}).Info("Trip published")
	return created, nil
}

// Get returns a trip by id.
func (s *TripService) Get(ctx context.Context, id string) (*models.Trip, error) {
	return s.trips.FindTripByID(ctx, id)
}

// ListActive returns all trips that are not archived.
func (s *TripService) ListActive(ctx context.Context) ([]models.Trip, error) {
	return s.trips.FindActiveTrips(ctx)
}

// ListByDriver returns all trips published by a driver.
func (s *TripService) ListByDriver(ctx context.Context, driverID string) ([]models.Trip, error) {
	return s.trips.FindTripsByDriver(ctx, driverID)
}

// Update patches the driver-editable fields of a trip. Once a
// reservation has been accepted, price, departure time and route
// endpoints are frozen; seat capacity can never drop below the seats
// already committed to accepted reservations.
func (s *TripService) Update(ctx context.Context, tripID, actorID string, patch models.TripPatch) (*models.Trip, error) {
	unlock := s.locks.Lock(tripID)
	defer unlock()

	trip, err := s.trips.FindTripByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if err := authorizeTripOwner(actorID, trip); err != nil {
		return nil, err
	}

	reservations, err := s.reservations.FindReservationsByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	committed := seats.AcceptedSeats(reservations)
	hasAccepted := committed > 0

	if hasAccepted {
		if patch.PricePerSeat != nil && *patch.PricePerSeat != trip.PricePerSeat {
			return nil, apperr.Conflictf("price is locked on trip %s: accepted reservations exist", tripID)
		}
		if patch.DepartureTime != nil && *patch.DepartureTime != trip.DepartureTime {
			return nil, apperr.Conflictf("departure time is locked on trip %s: accepted reservations exist", tripID)
		}
		if patch.Departure != nil && !reflect.DeepEqual(*patch.Departure, trip.Departure) {
			return nil, apperr.Conflictf("departure place is locked on trip %s: accepted reservations exist", tripID)
		}
		if patch.Arrival != nil && !reflect.DeepEqual(*patch.Arrival, trip.Arrival) {
			return nil, apperr.Conflictf("arrival place is locked on trip %s: accepted reservations exist", tripID)
		}
	}
	if patch.TotalSeats != nil {
		if *patch.TotalSeats < 0 {
			return nil, apperr.Validationf("total seats must not be negative, got %d", *patch.TotalSeats)
		}
		if *patch.TotalSeats < committed {
			return nil, apperr.Validationf("total seats %d is below the %d seats already committed on trip %s", *patch.TotalSeats, committed, tripID)
		}
		trip.TotalSeats = *patch.TotalSeats
	}
	if patch.PricePerSeat != nil {
		if *patch.PricePerSeat < 0 {
			return nil, apperr.Validationf("price per seat must not be negative, got %g", *patch.PricePerSeat)
		}
		trip.PricePerSeat = *patch.PricePerSeat
	}
	if patch.DepartureTime != nil {
		trip.DepartureTime = *patch.DepartureTime
	}
	if patch.Departure != nil {
		trip.Departure = *patch.Departure
	}
	if patch.Arrival != nil {
		trip.Arrival = *patch.Arrival
	}
	if patch.Smoker != nil {
		trip.Smoker = *patch.Smoker
	}
	if patch.Pets != nil {
		trip.Pets = *patch.Pets
	}
	if patch.WomenOnly != nil {
		trip.WomenOnly = *patch.WomenOnly
	}
	if patch.MaxRearPassengers != nil {
		trip.MaxRearPassengers = *patch.MaxRearPassengers
	}

	if err := s.trips.UpdateTrip(ctx, tripID, *trip); err != nil {
		return nil, err
	}
	return s.trips.FindTripByID(ctx, tripID)
}

// Delete removes a trip. Without reservations the trip is hard-deleted;
// otherwise it is archived and every pending or accepted reservation is
// cancelled. The trip is archived only after all cancel writes landed,
// so a partial cascade is reported, never silently committed.
func (s *TripService) Delete(ctx context.Context, tripID, actorID string) error {
	unlock := s.locks.Lock(tripID)
	defer unlock()

	trip, err := s.trips.FindTripByID(ctx, tripID)
	if err != nil {
		return err
	}
	if err := authorizeTripOwner(actorID, trip); err != nil {
		return err
	}

	reservations, err := s.reservations.FindReservationsByTrip(ctx, tripID)
	if err != nil {
		return err
	}
	if len(reservations) == 0 {
		if err := s.trips.DeleteTrip(ctx, tripID); err != nil {
			return err
		}
		log.WithField("trip_id", tripID).Info("Trip deleted")
		return nil
	}

	cancelled := 0
	affected := 0
	for _, r := range reservations {
		if r.Status.Terminal() {
			continue
		}
		affected++
		r.Status = models.ReservationCancelled
		if err := s.reservations.UpdateReservation(ctx, r.ID.Hex(), r); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"trip_id":        tripID,
				"reservation_id": r.ID.Hex(),
			}).Error("Cascade cancellation write failed")
			continue
		}
		cancelled++
		s.notifier.Publish(notify.TopicReservationCancelled, notify.Event{
			TripID:        tripID,
			ReservationID: r.ID.Hex(),
			PassengerID:   r.PassengerID,
		})
	}
	if cancelled != affected {
		return apperr.Storef("archive of trip %s aborted: cancelled %d of %d reservations", tripID, cancelled, affected)
	}

	trip.Archived = true
	if err := s.trips.UpdateTrip(ctx, tripID, *trip); err != nil {
		return err
	}
	s.notifier.Publish(notify.TopicTripArchived, notify.Event{TripID: tripID})
	log.WithFields(log.Fields{
		"trip_id":   tripID,
		"cancelled": cancelled,
	}).Info("Trip archived, reservations cancelled")
	return nil
}
