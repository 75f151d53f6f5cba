package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Feedback is a passenger's rating of a trip. At most one feedback per
// (trip, passenger) pair.
type Feedback struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TripID      string             `json:"trip_id" bson:"trip_id"`
	PassengerID string             `json:"passenger_id" bson:"passenger_id"`
	Rating      int                `json:"rating" bson:"rating"` // 1-5
	Comment     string             `json:"comment" bson:"comment"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}
