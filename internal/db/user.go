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

// UserCollection defines the interface for user database operations.
// Lifecycle services use it as the user directory: existence checks by
// opaque id.
type UserCollection interface {
	InsertUser(ctx context.Context, user models.User) (string, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, user models.User) error
	DeleteUser(ctx context.Context, id string) error
}

// MongoUserCollection implements UserCollection for MongoDB.
type MongoUserCollection struct {
	Collection *mongo.Collection
}

// InsertUser inserts a new user and returns its id.
func (c *MongoUserCollection) InsertUser(ctx context.Context, user models.User) (string, error) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	user.IsActive = true
	if _, err := c.Collection.InsertOne(ctx, user); err != nil {
		return "", apperr.Storef("insert user: %v", err)
	}
	return user.ID.Hex(), nil
}

// FindUserByID finds a user by their id.
func (c *MongoUserCollection) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Validationf("invalid user id %q", id)
	}
	var user models.User
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFoundf("user %s not found", id)
		}
		return nil, apperr.Storef("find user %s: %v", id, err)
	}
	return &user, nil
}

// FindUserByEmail finds a user by their email.
func (c *MongoUserCollection) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := c.Collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFoundf("user with email %s not found", email)
		}
		return nil, apperr.Storef("find user by email: %v", err)
	}
	return &user, nil
}

// UpdateUser replaces the stored fields of a user by their id.
func (c *MongoUserCollection) UpdateUser(ctx context.Context, id string, user models.User) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Validationf("invalid user id %q", id)
	}
	user.UpdatedAt = time.Now()
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": user})
	if err != nil {
		return apperr.Storef("update user %s: %v", id, err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFoundf("user %s not found", id)
	}
	return nil
}

// DeleteUser removes a user by their id.
func (c *MongoUserCollection) DeleteUser(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Validationf("invalid user id %q", id)
	}
	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return apperr.Storef("delete user %s: %v", id, err)
	}
	if result.DeletedCount == 0 {
		return apperr.NotFoundf("user %s not found", id)
	}
	return nil
}
