package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-storefront/models"
	"go-storefront/stores"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CartRepo implements stores.CartStore on a Mongo collection. All writes
// that can race are conditional updates checked by matched count.
type CartRepo struct {
	collection *mongo.Collection
}

func NewCartRepo(db *mongo.Database) *CartRepo {
	return &CartRepo{collection: db.Collection("carts")}
}

var _ stores.CartStore = (*CartRepo)(nil)

func (r *CartRepo) FindActive(ctx context.Context, id, userID primitive.ObjectID) (models.Cart, error) {
	return r.findOne(ctx, bson.M{"_id": id, "user_id": userID, "is_active": true})
}

func (r *CartRepo) FindActiveByUser(ctx context.Context, userID primitive.ObjectID) (models.Cart, error) {
	return r.findOne(ctx, bson.M{"user_id": userID, "is_active": true})
}

func (r *CartRepo) findOne(ctx context.Context, filter bson.M) (models.Cart, error) {
	var cart models.Cart
	err := r.collection.FindOne(ctx, filter).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Cart{}, fmt.Errorf("cart: %w", stores.ErrNotFound)
	}
	if err != nil {
		return models.Cart{}, fmt.Errorf("find cart: %w", err)
	}
	return cart, nil
}

func (r *CartRepo) DeactivateAll(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_active": true},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("deactivate carts: %w", err)
	}
	return nil
}

func (r *CartRepo) Insert(ctx context.Context, cart models.Cart) (models.Cart, error) {
	result, err := r.collection.InsertOne(ctx, cart)
	if err != nil {
		return models.Cart{}, fmt.Errorf("insert cart: %w", err)
	}
	cart.ID = result.InsertedID.(primitive.ObjectID)
	return cart, nil
}

// Update is a compare-and-set on the cart's version. A concurrent writer
// bumps the version first and this write matches nothing.
func (r *CartRepo) Update(ctx context.Context, cart models.Cart) (models.Cart, error) {
	now := time.Now()
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": cart.ID, "version": cart.Version},
		bson.M{
			"$set": bson.M{
				"items":      cart.Items,
				"user_id":    cart.UserID,
				"updated_at": now,
			},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return models.Cart{}, fmt.Errorf("update cart: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.Cart{}, fmt.Errorf("cart %s version %d: %w", cart.ID.Hex(), cart.Version, stores.ErrConflict)
	}
	cart.Version++
	cart.UpdatedAt = now
	return cart, nil
}

// Deactivate flips the active flag off only if it is still on, making the
// flip the single serialization point for order placement.
func (r *CartRepo) Deactivate(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID, "is_active": true},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("deactivate cart: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("cart %s not active: %w", id.Hex(), stores.ErrConflict)
	}
	return nil
}

func (r *CartRepo) Reactivate(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "is_active": false},
		bson.M{"$set": bson.M{"is_active": true, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("reactivate cart: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("cart %s: %w", id.Hex(), stores.ErrNotFound)
	}
	return nil
}
