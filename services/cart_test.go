package services

import (
	"context"
	"errors"
	"testing"

	"go-storefront/models"
	"go-storefront/stores"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedProduct(catalog *fakeCatalog, price float64) models.Product {
	p := models.Product{
		ID:           primitive.NewObjectID(),
		Name:         "Keyboard",
		Price:        price,
		Category:     "electronics",
		Availability: true,
	}
	catalog.mu.Lock()
	catalog.products[p.ID] = p
	catalog.mu.Unlock()
	return p
}

func TestAddToCart_FreshCartRetiresPrevious(t *testing.T) {
	carts := newFakeCartStore()
	catalog := newFakeCatalog()
	product := seedProduct(catalog, 10)
	svc := NewCartService(carts, catalog)
	userID := primitive.NewObjectID()

	first, err := svc.AddToCart(context.Background(), userID, primitive.NilObjectID, AddItemRequest{ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("first add: %v", err)
	}

	second, err := svc.AddToCart(context.Background(), userID, primitive.NilObjectID, AddItemRequest{ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if first.ID == second.ID {
		t.Fatal("expected a new cart, got the same one")
	}
	if got := carts.activeCount(userID); got != 1 {
		t.Fatalf("active carts = %d, want 1", got)
	}
	if _, err := carts.FindActive(context.Background(), first.ID, userID); !errors.Is(err, stores.ErrNotFound) {
		t.Fatalf("first cart should be inactive, got err %v", err)
	}
}

func TestAddToCart_MergeSumsQuantities(t *testing.T) {
	carts := newFakeCartStore()
	catalog := newFakeCatalog()
	product := seedProduct(catalog, 10)
	svc := NewCartService(carts, catalog)
	userID := primitive.NewObjectID()

	cart, err := svc.AddToCart(context.Background(), userID, primitive.NilObjectID, AddItemRequest{ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	cart, err = svc.AddToCart(context.Background(), userID, cart.ID, AddItemRequest{ProductID: product.ID, Quantity: 3})
	if err != nil {
		t.Fatalf("merge add: %v", err)
	}

	if len(cart.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(cart.Items))
	}
	if cart.Items[0].Quantity != 5 {
		t.Fatalf("quantity = %d, want 5", cart.Items[0].Quantity)
	}
}

func TestAddToCart_NegativeQuantityClampsToNothing(t *testing.T) {
	carts := newFakeCartStore()
	catalog := newFakeCatalog()
	product := seedProduct(catalog, 10)
	svc := NewCartService(carts, catalog)
	userID := primitive.NewObjectID()

	cart, err := svc.AddToCart(context.Background(), userID, primitive.NilObjectID, AddItemRequest{ProductID: product.ID, Quantity: -5})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("items = %d, want 0", len(cart.Items))
	}
}

func TestAddToCart_NegativeDeltaRemovesLine(t *testing.T) {
	carts := newFakeCartStore()
	catalog := newFakeCatalog()
	product := seedProduct(catalog, 10)
	svc := NewCartService(carts, catalog)
	userID := primitive.NewObjectID()

	cart, err := svc.AddToCart(context.Background(), userID, primitive.NilObjectID, AddItemRequest{ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	cart, err = svc.AddToCart(context.Background(), userID, cart.ID, AddItemRequest{ProductID: product.ID, Quantity: -2})
	if err != nil {
		t.Fatalf("removal add: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("items = %d, want 0 after quantity reached zero", len(cart.Items))
	}
}

func TestAddToCart_UnknownProductLeavesCartsAlone(t *testing.T) {
	carts := newFakeCartStore()
	catalog := newFakeCatalog()
	product := seedProduct(catalog, 10)
	svc := NewCartService(carts, catalog)
	userID := primitive.NewObjectID()

	cart, err := svc.AddToCart(context.Background(), userID, primitive.NilObjectID, AddItemRequest{ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	// A fresh-cart add with a bogus product must not retire the active cart.
	_, err = svc.AddToCart(context.Background(), userID, primitive.NilObjectID, AddItemRequest{ProductID: primitive.NewObjectID(), Quantity: 1})
	if !errors.Is(err, stores.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	got, err := carts.FindActive(context.Background(), cart.ID, userID)
	if err != nil {
		t.Fatalf("cart should still be active: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].Quantity != 1 {
		t.Fatalf("cart mutated: %+v", got.Items)
	}
}

func TestAddToCart_InactiveCartNotFound(t *testing.T) {
	carts := newFakeCartStore()
	catalog := newFakeCatalog()
	product := seedProduct(catalog, 10)
	svc := NewCartService(carts, catalog)
	userID := primitive.NewObjectID()

	cart, err := svc.AddToCart(context.Background(), userID, primitive.NilObjectID, AddItemRequest{ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := carts.Deactivate(context.Background(), cart.ID, userID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	_, err = svc.AddToCart(context.Background(), userID, cart.ID, AddItemRequest{ProductID: product.ID, Quantity: 1})
	if !errors.Is(err, stores.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddToCart_RetriesVersionConflict(t *testing.T) {
	carts := newFakeCartStore()
	catalog := newFakeCatalog()
	product := seedProduct(catalog, 10)
	svc := NewCartService(carts, catalog)
	userID := primitive.NewObjectID()

	cart, err := svc.AddToCart(context.Background(), userID, primitive.NilObjectID, AddItemRequest{ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	t.Run("transient conflict retried", func(t *testing.T) {
		carts.forceUpdateConflicts = 1
		got, err := svc.AddToCart(context.Background(), userID, cart.ID, AddItemRequest{ProductID: product.ID, Quantity: 1})
		if err != nil {
			t.Fatalf("expected retry to succeed, got %v", err)
		}
		if got.Items[0].Quantity != 2 {
			t.Fatalf("quantity = %d, want 2", got.Items[0].Quantity)
		}
	})

	t.Run("persistent conflict surfaces", func(t *testing.T) {
		carts.forceUpdateConflicts = casRetries
		_, err := svc.AddToCart(context.Background(), userID, cart.ID, AddItemRequest{ProductID: product.ID, Quantity: 1})
		if !errors.Is(err, stores.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})
}

func TestGetActiveCart_NoneIsNil(t *testing.T) {
	svc := NewCartService(newFakeCartStore(), newFakeCatalog())

	cart, err := svc.GetActiveCart(context.Background(), primitive.NewObjectID())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart != nil {
		t.Fatalf("expected nil cart, got %+v", cart)
	}
}
