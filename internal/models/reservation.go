package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationAccepted  ReservationStatus = "accepted"
	ReservationRefused   ReservationStatus = "refused"
	ReservationCancelled ReservationStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed from s.
func (s ReservationStatus) Terminal() bool {
	return s == ReservationRefused || s == ReservationCancelled
}

// HoldsSeats reports whether a reservation in state s counts against the
// trip's capacity. Pending requests hold seats so that a burst of
// requests cannot jointly overbook once accepted.
func (s ReservationStatus) HoldsSeats() bool {
	return s == ReservationPending || s == ReservationAccepted
}

// Reservation is a passenger's request to occupy seats on a trip.
type Reservation struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TripID      string             `json:"trip_id" bson:"trip_id"`
	PassengerID string             `json:"passenger_id" bson:"passenger_id"`
	Seats       int                `json:"seats" bson:"seats"`
	TotalPrice  float64            `json:"total_price" bson:"total_price"`
	Message     string             `json:"message" bson:"message"`
	Status      ReservationStatus  `json:"status" bson:"status"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}
