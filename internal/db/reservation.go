package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wassalni/covoiturage-backend/internal/apperr"
	"github.com/wassalni/covoiturage-backend/internal/models"
)

// ReservationCollection defines the interface for reservation database
// operations.
type ReservationCollection interface {
	InsertReservation(ctx context.Context, r models.Reservation) (string, error)
	FindReservationByID(ctx context.Context, id string) (*models.Reservation, error)
	FindReservationsByTrip(ctx context.Context, tripID string) ([]models.Reservation, error)
	FindReservationsByTrips(ctx context.Context, tripIDs []string) ([]models.Reservation, error)
	FindReservationsByPassenger(ctx context.Context, passengerID string) ([]models.Reservation, error)
	FindAcceptedByTripAndPassenger(ctx context.Context, tripID, passengerID, excludeID string) (*models.Reservation, error)
	UpdateReservation(ctx context.Context, id string, r models.Reservation) error
	DeleteReservation(ctx context.Context, id string) error
}

// MongoReservationCollection implements ReservationCollection for MongoDB.
type MongoReservationCollection struct {
	Collection *mongo.Collection
}

// InsertReservation inserts a reservation record and returns its id.
func (c *MongoReservationCollection) InsertReservation(ctx context.Context, r models.Reservation) (string, error) {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	r.CreatedAt = time.Now()
	r.UpdatedAt = time.Now()
	if _, err := c.Collection.InsertOne(ctx, r); err != nil {
		return "", apperr.Storef("insert reservation: %v", err)
	}
	return r.ID.Hex(), nil
}

// FindReservationByID finds a reservation by its id.
func (c *MongoReservationCollection) FindReservationByID(ctx context.Context, id string) (*models.Reservation, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Validationf("invalid reservation id %q", id)
	}
	var r models.Reservation
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&r)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFoundf("reservation %s not found", id)
		}
		return nil, apperr.Storef("find reservation %s: %v", id, err)
	}
	return &r, nil
}

// FindReservationsByTrip returns all reservations referencing a trip,
// whatever their state.
func (c *MongoReservationCollection) FindReservationsByTrip(ctx context.Context, tripID string) ([]models.Reservation, error) {
	return c.findReservations(ctx, bson.M{"trip_id": tripID})
}

// FindReservationsByTrips returns all reservations referencing any of
// the given trips.
func (c *MongoReservationCollection) FindReservationsByTrips(ctx context.Context, tripIDs []string) ([]models.Reservation, error) {
	if len(tripIDs) == 0 {
		return nil, nil
	}
	return c.findReservations(ctx, bson.M{"trip_id": bson.M{"$in": tripIDs}})
}

// FindReservationsByPassenger returns all reservations made by a passenger.
func (c *MongoReservationCollection) FindReservationsByPassenger(ctx context.Context, passengerID string) ([]models.Reservation, error) {
	return c.findReservations(ctx, bson.M{"passenger_id": passengerID})
}

// FindAcceptedByTripAndPassenger returns another accepted reservation by
// the same passenger on the same trip, excluding excludeID. Absence
// surfaces as apperr.ErrNotFound.
func (c *MongoReservationCollection) FindAcceptedByTripAndPassenger(ctx context.Context, tripID, passengerID, excludeID string) (*models.Reservation, error) {
	filter := bson.M{
		"trip_id":      tripID,
		"passenger_id": passengerID,
		"status":       models.ReservationAccepted,
	}
	if excludeID != "" {
		objectID, err := primitive.ObjectIDFromHex(excludeID)
		if err != nil {
			return nil, apperr.Validationf("invalid reservation id %q", excludeID)
		}
		filter["_id"] = bson.M{"$ne": objectID}
	}
	var r models.Reservation
	err := c.Collection.FindOne(ctx, filter).Decode(&r)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFoundf("no accepted reservation for passenger %s on trip %s", passengerID, tripID)
		}
		return nil, apperr.Storef("find accepted reservation: %v", err)
	}
	return &r, nil
}

func (c *MongoReservationCollection) findReservations(ctx context.Context, filter bson.M) ([]models.Reservation, error) {
	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, apperr.Storef("find reservations: %v", err)
	}
	defer cursor.Close(ctx)
	var reservations []models.Reservation
	if err := cursor.All(ctx, &reservations); err != nil {
		return nil, apperr.Storef("decode reservations: %v", err)
	}
	return reservations, nil
}

// UpdateReservation replaces the stored fields of a reservation by its id.
func (c *MongoReservationCollection) UpdateReservation(ctx context.Context, id string, r models.Reservation) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Validationf("invalid reservation id %q", id)
	}
	r.UpdatedAt = time.Now()
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": r})
	if err != nil {
		return apperr.Storef("update reservation %s: %v", id, err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFoundf("reservation %s not found", id)
	}
	return nil
}

// DeleteReservation removes a reservation by its id.
func (c *MongoReservationCollection) DeleteReservation(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Validationf("invalid reservation id %q", id)
	}
	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return apperr.Storef("delete reservation %s: %v", id, err)
	}
	if result.DeletedCount == 0 {
		return apperr.NotFoundf("reservation %s not found", id)
	}
	return nil
}
