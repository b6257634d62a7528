package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go-storefront/models"
	"go-storefront/stores"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrValidation is returned when required checkout fields are missing or
// malformed. Controllers map it to a client error distinct from NotFound
// and Conflict.
var ErrValidation = errors.New("validation failed")

// PlaceOrderRequest carries the checkout inputs. PaymentInfo is opaque and
// persisted as received; CouponName and PaymentMethod are optional.
type PlaceOrderRequest struct {
	CartID          primitive.ObjectID
	ShippingAddress models.Address
	PaymentInfo     map[string]any
	PaymentMethod   string
	CouponName      string
}

// OrderService turns an active cart into an immutable order: it is the
// transaction boundary between the cart, catalog, coupon and order stores.
type OrderService struct {
	carts   stores.CartStore
	catalog stores.ProductCatalog
	orders  stores.OrderStore
	coupons *CouponService
	pricer  Pricer
}

func NewOrderService(carts stores.CartStore, catalog stores.ProductCatalog, orders stores.OrderStore, coupons *CouponService) *OrderService {
	return &OrderService{
		carts:   carts,
		catalog: catalog,
		orders:  orders,
		coupons: coupons,
	}
}

// PlaceOrder prices the active cart identified by req.CartID, applies the
// optional coupon, persists the order and consumes the cart. The cart's
// active→inactive flip is a conditional write and doubles as the lock: of
// two concurrent placements exactly one wins, the other gets Conflict.
// Pricing reads the catalog directly, never the product cache.
func (s *OrderService) PlaceOrder(ctx context.Context, userID primitive.ObjectID, req PlaceOrderRequest) (models.Order, error) {
	if err := validatePlacement(req); err != nil {
		return models.Order{}, err
	}

	cart, err := s.carts.FindActive(ctx, req.CartID, userID)
	if err != nil {
		return models.Order{}, err
	}

	products, err := s.catalog.FindByIDs(ctx, distinctProductIDs(cart.Items))
	if err != nil {
		return models.Order{}, err
	}
	amount := s.pricer.Total(cart.Items, products)

	if req.CouponName != "" {
		amount, err = s.coupons.ApplyDiscount(ctx, amount, req.CouponName)
		if err != nil {
			// Hard failure: no order, cart untouched and still active.
			return models.Order{}, err
		}
	}

	// Claim the cart. From here on the cart is consumed unless the order
	// write fails and the claim is rolled back.
	if err := s.carts.Deactivate(ctx, cart.ID, userID); err != nil {
		return models.Order{}, err
	}

	order := models.Order{
		UserID:          userID,
		Amount:          amount,
		Items:           snapshotItems(cart.Items),
		ShippingAddress: req.ShippingAddress,
		PaymentInfo:     req.PaymentInfo,
		PaymentMethod:   req.PaymentMethod,
		Status:          models.OrderStatusPending,
		CreatedAt:       time.Now(),
	}

	created, err := s.orders.Insert(ctx, order)
	if err != nil {
		// Compensate so the shopper keeps a checkout-able cart. The order
		// insert is never retried here: a blind retry risks duplicates.
		if rbErr := s.carts.Reactivate(ctx, cart.ID); rbErr != nil {
			slog.Error("order rollback failed, cart left inactive without order",
				"cart_id", cart.ID.Hex(), "user_id", userID.Hex(), "error", rbErr)
		}
		return models.Order{}, fmt.Errorf("persist order: %w", err)
	}

	return created, nil
}

// OrderHistory returns the user's orders, newest first.
func (s *OrderService) OrderHistory(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	orders, err := s.orders.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("no orders for user: %w", stores.ErrNotFound)
	}
	return orders, nil
}

// OrderDetails returns one order, scoped to its owner.
func (s *OrderService) OrderDetails(ctx context.Context, orderID, userID primitive.ObjectID) (models.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return models.Order{}, err
	}
	if order.UserID != userID {
		return models.Order{}, fmt.Errorf("order %s: %w", orderID.Hex(), stores.ErrNotFound)
	}
	return order, nil
}

func validatePlacement(req PlaceOrderRequest) error {
	if req.CartID.IsZero() {
		return fmt.Errorf("cart id required: %w", ErrValidation)
	}
	if req.ShippingAddress == (models.Address{}) {
		return fmt.Errorf("shipping address required: %w", ErrValidation)
	}
	if len(req.PaymentInfo) == 0 {
		return fmt.Errorf("payment info required: %w", ErrValidation)
	}
	return nil
}

func distinctProductIDs(items []models.CartItem) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(items))
	ids := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

// snapshotItems copies the cart lines so the order never aliases the live
// cart slice.
func snapshotItems(items []models.CartItem) []models.CartItem {
	snapshot := make([]models.CartItem, len(items))
	copy(snapshot, items)
	return snapshot
}
