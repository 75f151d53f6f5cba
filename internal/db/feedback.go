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

// FeedbackCollection defines the interface for feedback database operations.
type FeedbackCollection interface {
	InsertFeedback(ctx context.Context, f models.Feedback) (string, error)
	FindFeedbackByID(ctx context.Context, id string) (*models.Feedback, error)
	FindFeedbackByTripAndPassenger(ctx context.Context, tripID, passengerID string) (*models.Feedback, error)
	FindFeedbacksByTrip(ctx context.Context, tripID string) ([]models.Feedback, error)
	FindFeedbacksByTrips(ctx context.Context, tripIDs []string) ([]models.Feedback, error)
	FindFeedbacksByPassenger(ctx context.Context, passengerID string) ([]models.Feedback, error)
	DeleteFeedback(ctx context.Context, id string) error
}

// MongoFeedbackCollection implements FeedbackCollection for MongoDB.
type MongoFeedbackCollection struct {
	Collection *mongo.Collection
}

// InsertFeedback inserts a feedback record and returns its id.
func (c *MongoFeedbackCollection) InsertFeedback(ctx context.Context, f models.Feedback) (string, error) {
	if f.ID.IsZero() {
		f.ID = primitive.NewObjectID()
	}
	f.CreatedAt = time.Now()
	f.UpdatedAt = time.Now()
	if _, err := c.Collection.InsertOne(ctx, f); err != nil {
		return "", apperr.Storef("insert feedback: %v", err)
	}
	return f.ID.Hex(), nil
}

// FindFeedbackByID finds a feedback by its id.
func (c *MongoFeedbackCollection) FindFeedbackByID(ctx context.Context, id string) (*models.Feedback, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Validationf("invalid feedback id %q", id)
	}
	var f models.Feedback
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&f)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFoundf("feedback %s not found", id)
		}
		return nil, apperr.Storef("find feedback %s: %v", id, err)
	}
	return &f, nil
}

// FindFeedbackByTripAndPassenger finds the feedback left by a passenger
// on a trip. Absence surfaces as apperr.ErrNotFound.
func (c *MongoFeedbackCollection) FindFeedbackByTripAndPassenger(ctx context.Context, tripID, passengerID string) (*models.Feedback, error) {
	var f models.Feedback
	err := c.Collection.FindOne(ctx, bson.M{"trip_id": tripID, "passenger_id": passengerID}).Decode(&f)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFoundf("no feedback by passenger %s on trip %s", passengerID, tripID)
		}
		return nil, apperr.Storef("find feedback: %v", err)
	}
	return &f, nil
}

// FindFeedbacksByTrip returns all feedbacks for a trip.
func (c *MongoFeedbackCollection) FindFeedbacksByTrip(ctx context.Context, tripID string) ([]models.Feedback, error) {
	return c.findFeedbacks(ctx, bson.M{"trip_id": tripID})
}

// FindFeedbacksByTrips returns all feedbacks for any of the given trips.
func (c *MongoFeedbackCollection) FindFeedbacksByTrips(ctx context.Context, tripIDs []string) ([]models.Feedback, error) {
	if len(tripIDs) == 0 {
		return nil, nil
	}
	return c.findFeedbacks(ctx, bson.M{"trip_id": bson.M{"$in": tripIDs}})
}

// FindFeedbacksByPassenger returns all feedbacks left by a passenger.
func (c *MongoFeedbackCollection) FindFeedbacksByPassenger(ctx context.Context, passengerID string) ([]models.Feedback, error) {
	return c.findFeedbacks(ctx, bson.M{"passenger_id": passengerID})
}

func (c *MongoFeedbackCollection) findFeedbacks(ctx context.Context, filter bson.M) ([]models.Feedback, error) {
	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, apperr.Storef("find feedbacks: %v", err)
	}
	defer cursor.Close(ctx)
	var feedbacks []models.Feedback
	if err := cursor.All(ctx, &feedbacks); err != nil {
		return nil, apperr.Storef("decode feedbacks: %v", err)
	}
	return feedbacks, nil
}

// DeleteFeedback removes a feedback by its id.
func (c *MongoFeedbackCollection) DeleteFeedback(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Validationf("invalid feedback id %q", id)
	}
	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return apperr.Storef("delete feedback %s: %v", id, err)
	}
	if result.DeletedCount == 0 {
		return apperr.NotFoundf("feedback %s not found", id)
	}
	return nil
}
