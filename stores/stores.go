package stores

import (
	"context"
	"errors"
	"time"

	"go-storefront/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when no record matches the given filter.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a conditional write matched nothing:
	// either a compare-and-set lost against a concurrent writer, or the
	// target was already consumed.
	ErrConflict = errors.New("conflict")

	// ErrCacheMiss is returned by Cache.Get when the key is absent.
	ErrCacheMiss = errors.New("cache miss")
)

// ProductPatch is the closed set of product fields a merchant may change.
// Nil fields are left untouched.
type ProductPatch struct {
	Name         *string  `json:"name,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Category     *string  `json:"category,omitempty"`
	Availability *bool    `json:"availability,omitempty"`
}

// ProductCatalog is the durable store of products.
type ProductCatalog interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
	FindByCategory(ctx context.Context, category string) ([]models.Product, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	Search(ctx context.Context, query string) ([]models.Product, error)
	Insert(ctx context.Context, p models.Product) (models.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, patch ProductPatch) (models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CartStore is the durable store of carts.
type CartStore interface {
	// FindActive matches {id, userID, isActive: true}.
	FindActive(ctx context.Context, id, userID primitive.ObjectID) (models.Cart, error)

	// FindActiveByUser matches {userID, isActive: true}.
	FindActiveByUser(ctx context.Context, userID primitive.ObjectID) (models.Cart, error)

	// DeactivateAll marks every active cart of the user inactive.
	DeactivateAll(ctx context.Context, userID primitive.ObjectID) error

	Insert(ctx context.Context, cart models.Cart) (models.Cart, error)

	// Update persists the cart's items and owner under compare-and-set on
	// Version; ErrConflict when the stored version moved or the cart is gone.
	Update(ctx context.Context, cart models.Cart) (models.Cart, error)

	// Deactivate flips {id, userID, isActive: true} to inactive as a single
	// conditional write; ErrConflict when nothing matched.
	Deactivate(ctx context.Context, id, userID primitive.ObjectID) error

	// Reactivate undoes a Deactivate. Only placement rollback may call it.
	Reactivate(ctx context.Context, id primitive.ObjectID) error
}

// OrderStore is the durable store of orders.
type OrderStore interface {
	Insert(ctx context.Context, order models.Order) (models.Order, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
}

// CouponStore is the durable store of discount coupons. The checkout core
// only reads it; writes come from the admin surface.
type CouponStore interface {
	FindByName(ctx context.Context, name string) (models.Coupon, error)
	Insert(ctx context.Context, coupon models.Coupon) error
}

// Cache is a key-value cache. Get returns ErrCacheMiss on absent keys;
// a zero ttl stores the value without expiration.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
