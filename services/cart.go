package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-storefront/models"
	"go-storefront/stores"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// casRetries bounds the read-merge-write loop when a concurrent add bumps
// the cart version between our read and our save.
const casRetries = 3

// AddItemRequest is the single line being added. Quantity acts as a delta
// when the cart already holds the product and as an absolute set otherwise.
type AddItemRequest struct {
	ProductID primitive.ObjectID
	Quantity  int
}

// CartService owns the single-active-cart-per-user invariant and the
// merge-on-add rule.
type CartService struct {
	carts   stores.CartStore
	catalog stores.ProductCatalog
}

func NewCartService(carts stores.CartStore, catalog stores.ProductCatalog) *CartService {
	return &CartService{carts: carts, catalog: catalog}
}

// AddToCart adds an item to the cart with id cartID, or opens a fresh cart
// for the user when cartID is the zero id. Opening a fresh cart first marks
// every other active cart of the user inactive.
func (s *CartService) AddToCart(ctx context.Context, userID primitive.ObjectID, cartID primitive.ObjectID, item AddItemRequest) (models.Cart, error) {
	// Verify the product before touching any cart state, so a bad id
	// cannot deactivate the user's other carts as a side effect.
	if _, err := s.catalog.FindByID(ctx, item.ProductID); err != nil {
		return models.Cart{}, err
	}

	if cartID.IsZero() {
		return s.addToFreshCart(ctx, userID, item)
	}

	var lastErr error
	for attempt := 0; attempt < casRetries; attempt++ {
		cart, err := s.carts.FindActive(ctx, cartID, userID)
		if err != nil {
			return models.Cart{}, err
		}

		cart.Items = mergeItem(cart.Items, item.ProductID, item.Quantity)
		cart.UserID = userID

		updated, err := s.carts.Update(ctx, cart)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, stores.ErrConflict) {
			return models.Cart{}, err
		}
		lastErr = err
	}
	return models.Cart{}, fmt.Errorf("add to cart contended: %w", lastErr)
}

func (s *CartService) addToFreshCart(ctx context.Context, userID primitive.ObjectID, item AddItemRequest) (models.Cart, error) {
	if err := s.carts.DeactivateAll(ctx, userID); err != nil {
		return models.Cart{}, err
	}

	now := time.Now()
	cart := models.Cart{
		UserID:    userID,
		Items:     mergeItem(nil, item.ProductID, item.Quantity),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.carts.Insert(ctx, cart)
}

// GetActiveCart returns the user's active cart, or nil when there is none.
func (s *CartService) GetActiveCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.carts.FindActiveByUser(ctx, userID)
	if errors.Is(err, stores.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// mergeItem folds a quantity delta for productID into items, keeping at
// most one entry per product. A non-positive resulting quantity drops the
// entry entirely.
func mergeItem(items []models.CartItem, productID primitive.ObjectID, quantity int) []models.CartItem {
	merged := quantity
	out := make([]models.CartItem, 0, len(items)+1)
	for _, it := range items {
		if it.ProductID == productID {
			merged += it.Quantity
			continue
		}
		out = append(out, it)
	}
	if merged < 0 {
		merged = 0
	}
	if merged > 0 {
		out = append(out, models.CartItem{ProductID: productID, Quantity: merged})
	}
	return out
}
