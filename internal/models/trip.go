package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Place is a geocoded place descriptor as returned by the mobile app's
// autocomplete: a display string, the provider's place reference and the
// ordered name components ("12 Rue du Parc", "Soukra", "Tunisia").
type Place struct {
	Description string   `json:"description" bson:"description"`
	PlaceRef    string   `json:"place_ref" bson:"place_ref"`
	Terms       []string `json:"terms" bson:"terms"`
}

// Trip represents a published ride offer with a route, schedule, price
// and seat capacity.
type Trip struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	DriverID          string             `json:"driver_id" bson:"driver_id"`
	Departure         Place              `json:"departure" bson:"departure"`
	Arrival           Place              `json:"arrival" bson:"arrival"`
	DepartureDate     time.Time          `json:"departure_date" bson:"departure_date"`
	DepartureTime     string             `json:"departure_time" bson:"departure_time"` // "08:30"
	Distance          float64            `json:"distance" bson:"distance"`             // kilometers
	Duration          float64            `json:"duration" bson:"duration"`             // minutes
	TotalSeats        int                `json:"total_seats" bson:"total_seats"`
	PricePerSeat      float64            `json:"price_per_seat" bson:"price_per_seat"`
	Smoker            bool               `json:"smoker" bson:"smoker"`
	Pets              bool               `json:"pets" bson:"pets"`
	WomenOnly         bool               `json:"women_only" bson:"women_only"`
	MaxRearPassengers int                `json:"max_rear_passengers" bson:"max_rear_passengers"`
	CarMake           string             `json:"car_make" bson:"car_make"`
	CarColor          string             `json:"car_color" bson:"car_color"`
	Archived          bool               `json:"archived" bson:"archived"`
	CreatedAt         time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at" bson:"updated_at"`
}

// TripPatch carries the driver-editable trip fields. Nil means "leave
// unchanged".
type TripPatch struct {
	PricePerSeat      *float64 `json:"price_per_seat,omitempty"`
	TotalSeats        *int     `json:"total_seats,omitempty"`
	DepartureTime     *string  `json:"departure_time,omitempty"`
	Departure         *Place   `json:"departure,omitempty"`
	Arrival           *Place   `json:"arrival,omitempty"`
	Smoker            *bool    `json:"smoker,omitempty"`
	Pets              *bool    `json:"pets,omitempty"`
	WomenOnly         *bool    `json:"women_only,omitempty"`
	MaxRearPassengers *int     `json:"max_rear_passengers,omitempty"`
}
