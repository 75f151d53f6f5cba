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

// TripCollection defines the interface for trip database operations.
type TripCollection interface {
	InsertTrip(ctx context.Context, trip models.Trip) (string, error)
	FindTripByID(ctx context.Context, id string) (*models.Trip, error)
	FindActiveTrips(ctx context.Context) ([]models.Trip, error)
	FindTripsByDriver(ctx context.Context, driverID string) ([]models.Trip, error)
	UpdateTrip(ctx context.Context, id string, trip models.Trip) error
	DeleteTrip(ctx context.Context, id string) error
}

// MongoTripCollection implements TripCollection for MongoDB.
type MongoTripCollection struct {
	Collection *mongo.Collection
}

// InsertTrip inserts a trip record and returns its id.
func (c *MongoTripCollection) InsertTrip(ctx context.Context, trip models.Trip) (string, error) {
	if trip.ID.IsZero() {
		trip.ID = primitive.NewObjectID()
	}
	trip.CreatedAt = time.Now()
	trip.UpdatedAt = time.Now()
	if _, err := c.Collection.InsertOne(ctx, trip); err != nil {
		return "", apperr.Storef("insert trip: %v", err)
	}
	return trip.ID.Hex(), nil
}

// FindTripByID finds a trip by its id.
func (c *MongoTripCollection) FindTripByID(ctx context.Context, id string) (*models.Trip, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Validationf("invalid trip id %q", id)
	}
	var trip models.Trip
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&trip)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFoundf("trip %s not found", id)
		}
		return nil, apperr.Storef("find trip %s: %v", id, err)
	}
	return &trip, nil
}

// FindActiveTrips returns all trips that are not archived.
func (c *MongoTripCollection) FindActiveTrips(ctx context.Context) ([]models.Trip, error) {
	return c.findTrips(ctx, bson.M{"archived": false})
}

// FindTripsByDriver returns all trips published by a driver.
func (c *MongoTripCollection) FindTripsByDriver(ctx context.Context, driverID string) ([]models.Trip, error) {
	return c.findTrips(ctx, bson.M{"driver_id": driverID})
}

func (c *MongoTripCollection) findTrips(ctx context.Context, filter bson.M) ([]models.Trip, error) {
	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, apperr.Storef("find trips: %v", err)
	}
	defer cursor.Close(ctx)
	var trips []models.Trip
	if err := cursor.All(ctx, &trips); err != nil {
		return nil, apperr.Storef("decode trips: %v", err)
	}
	return trips, nil
}

// UpdateTrip replaces the stored fields of a trip by its id.
func (c *MongoTripCollection) UpdateTrip(ctx context.Context, id string, trip models.Trip) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Validationf("invalid trip id %q", id)
	}
	trip.UpdatedAt = time.Now()
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": trip})
	if err != nil {
		return apperr.Storef("update trip %s: %v", id, err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFoundf("trip %s not found", id)
	}
	return nil
}

// DeleteTrip removes a trip by its id.
func (c *MongoTripCollection) DeleteTrip(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Validationf("invalid trip id %q", id)
	}
	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return apperr.Storef("delete trip %s: %v", id, err)
	}
	if result.DeletedCount == 0 {
		return apperr.NotFoundf("trip %s not found", id)
	}
	return nil
}
