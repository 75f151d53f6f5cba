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

// ReclamationCollection defines the interface for dispute database
// operations.
type ReclamationCollection interface {
	InsertReclamation(ctx context.Context, r models.Reclamation) (string, error)
	FindReclamationByID(ctx context.Context, id string) (*models.Reclamation, error)
	FindReclamations(ctx context.Context) ([]models.Reclamation, error)
	FindReclamationsByComplainant(ctx context.Context, userID string) ([]models.Reclamation, error)
	FindReclamationsByReported(ctx context.Context, userID string) ([]models.Reclamation, error)
	FindReclamationsByStatus(ctx context.Context, status models.ReclamationStatus) ([]models.Reclamation, error)
	UpdateReclamation(ctx context.Context, id string, r models.Reclamation) error
	DeleteReclamation(ctx context.Context, id string) error
}

// MongoReclamationCollection implements ReclamationCollection for MongoDB.
type MongoReclamationCollection struct {
	Collection *mongo.Collection
}

// InsertReclamation inserts a dispute record and returns its id.
func (c *MongoReclamationCollection) InsertReclamation(ctx context.Context, r models.Reclamation) (string, error) {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	r.CreatedAt = time.Now()
	r.UpdatedAt = time.Now()
	if _, err := c.Collection.InsertOne(ctx, r); err != nil {
		return "", apperr.Storef("insert reclamation: %v", err)
	}
	return r.ID.Hex(), nil
}

// FindReclamationByID finds a dispute by its id.
func (c *MongoReclamationCollection) FindReclamationByID(ctx context.Context, id string) (*models.Reclamation, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Validationf("invalid reclamation id %q", id)
	}
	var r models.Reclamation
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&r)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFoundf("reclamation %s not found", id)
		}
		return nil, apperr.Storef("find reclamation %s: %v", id, err)
	}
	return &r, nil
}

// FindReclamations returns all disputes.
func (c *MongoReclamationCollection) FindReclamations(ctx context.Context) ([]models.Reclamation, error) {
	return c.findReclamations(ctx, bson.M{})
}

// FindReclamationsByComplainant returns the disputes filed by a user.
func (c *MongoReclamationCollection) FindReclamationsByComplainant(ctx context.Context, userID string) ([]models.Reclamation, error) {
	return c.findReclamations(ctx, bson.M{"complainant_id": userID})
}

// FindReclamationsByReported returns the disputes filed against a user.
func (c *MongoReclamationCollection) FindReclamationsByReported(ctx context.Context, userID string) ([]models.Reclamation, error) {
	return c.findReclamations(ctx, bson.M{"reported_id": userID})
}

// FindReclamationsByStatus returns the disputes in a given state.
func (c *MongoReclamationCollection) FindReclamationsByStatus(ctx context.Context, status models.ReclamationStatus) ([]models.Reclamation, error) {
	return c.findReclamations(ctx, bson.M{"status": status})
}

func (c *MongoReclamationCollection) findReclamations(ctx context.Context, filter bson.M) ([]models.Reclamation, error) {
	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, apperr.Storef("find reclamations: %v", err)
	}
	defer cursor.Close(ctx)
	var reclamations []models.Reclamation
	if err := cursor.All(ctx, &reclamations); err != nil {
		return nil, apperr.Storef("decode reclamations: %v", err)
	}
	return reclamations, nil
}

// UpdateReclamation replaces the stored fields of a dispute by its id.
func (c *MongoReclamationCollection) UpdateReclamation(ctx context.Context, id string, r models.Reclamation) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Validationf("invalid reclamation id %q", id)
	}
	r.UpdatedAt = time.Now()
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": r})
	if err != nil {
		return apperr.Storef("update reclamation %s: %v", id, err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFoundf("reclamation %s not found", id)
	}
	return nil
}

// DeleteReclamation removes a dispute by its id.
func (c *MongoReclamationCollection) DeleteReclamation(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Validationf("invalid reclamation id %q", id)
	}
	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return apperr.Storef("delete reclamation %s: %v", id, err)
	}
	if result.DeletedCount == 0 {
		return apperr.NotFoundf("reclamation %s not found", id)
	}
	return nil
}
