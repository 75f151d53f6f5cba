// Package seats computes remaining capacity on a trip and gates
// reservation creation against it.
package seats

import (
	"github.com/wassalni/covoiturage-backend/internal/apperr"
	"github.com/wassalni/covoiturage-backend/internal/models"
)

// Remaining returns the number of seats still available on the trip.
// Pending and accepted reservations both hold seats; refused and
// cancelled ones do not. A stored state that already overbooks the trip
// yields a negative result so callers can detect the inconsistency; the
// value is never clamped.
func Remaining(trip *models.Trip, reservations []models.Reservation) int {
	held := 0
	for _, r := range reservations {
		if r.TripID == trip.ID.Hex() && r.Status.HoldsSeats() {
			held += r.Seats
		}
	}
	return trip.TotalSeats - held
}

// AcceptedSeats returns the number of seats committed to accepted
// reservations.
func AcceptedSeats(reservations []models.Reservation) int {
	committed := 0
	for _, r := range reservations {
		if r.Status == models.ReservationAccepted {
			committed += r.Seats
		}
	}
	return committed
}

// CanReserve reports whether requested seats can be taken on the trip
// given its existing reservations.
func CanReserve(trip *models.Trip, reservations []models.Reservation, requested int) error {
	if requested <= 0 {
		return apperr.Validationf("requested seat count must be positive, got %d", requested)
	}
	remaining := Remaining(trip, reservations)
	if requested > remaining {
		return apperr.Capacityf("requested %d seats but only %d remain on trip %s", requested, remaining, trip.ID.Hex())
	}
	return nil
}
