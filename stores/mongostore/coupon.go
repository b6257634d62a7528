package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go-storefront/models"
	"go-storefront/stores"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CouponRepo implements stores.CouponStore on a Mongo collection.
type CouponRepo struct {
	collection *mongo.Collection
}

func NewCouponRepo(db *mongo.Database) *CouponRepo {
	return &CouponRepo{collection: db.Collection("coupons")}
}

var _ stores.CouponStore = (*CouponRepo)(nil)

func (r *CouponRepo) FindByName(ctx context.Context, name string) (models.Coupon, error) {
	var coupon models.Coupon
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&coupon)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Coupon{}, fmt.Errorf("coupon %q: %w", name, stores.ErrNotFound)
	}
	if err != nil {
		return models.Coupon{}, fmt.Errorf("find coupon: %w", err)
	}
	return coupon, nil
}

func (r *CouponRepo) Insert(ctx context.Context, coupon models.Coupon) error {
	_, err := r.collection.InsertOne(ctx, coupon)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("coupon %q: %w", coupon.Name, stores.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("insert coupon: %w", err)
	}
	return nil
}
