package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go-storefront/models"
	"go-storefront/stores"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserPatch is the closed set of profile fields a user may change.
type UserPatch struct {
	Name    *string         `json:"name,omitempty"`
	Address *models.Address `json:"address,omitempty"`
}

// UserRepo backs registration, login and profile updates.
type UserRepo struct {
	collection *mongo.Collection
}

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{collection: db.Collection("users")}
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, fmt.Errorf("user: %w", stores.ErrNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (r *UserRepo) Insert(ctx context.Context, user models.User) (models.User, error) {
	result, err := r.collection.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return models.User{}, fmt.Errorf("user %s: %w", user.Email, stores.ErrConflict)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	user.ID = result.InsertedID.(primitive.ObjectID)
	return user, nil
}

func (r *UserRepo) MarkVerified(ctx context.Context, token string) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"verification_token": token},
		bson.M{"$set": bson.M{"is_verified": true}, "$unset": bson.M{"verification_token": ""}},
	)
	if err != nil {
		return fmt.Errorf("verify user: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("verification token: %w", stores.ErrNotFound)
	}
	return nil
}

func (r *UserRepo) Update(ctx context.Context, id primitive.ObjectID, patch UserPatch) error {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Address != nil {
		set["address"] = *patch.Address
	}
	if len(set) == 0 {
		return nil
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", id.Hex(), stores.ErrNotFound)
	}
	return nil
}
