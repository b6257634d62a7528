package controllers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"go-storefront/models"
	"go-storefront/services"
	"go-storefront/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderController handles order-related requests
type OrderController struct {
	orders *services.OrderService
	users  userResolver
	email  *utils.EmailService
}

// NewOrderController creates a new OrderController
func NewOrderController(orders *services.OrderService, users userResolver, email *utils.EmailService) *OrderController {
	return &OrderController{orders: orders, users: users, email: email}
}

type placeOrderRequest struct {
	CartID          string         `json:"cart_id"`
	ShippingAddress models.Address `json:"shipping_address"`
	PaymentInfo     map[string]any `json:"payment_info"`
	PaymentMethod   string         `json:"payment_method,omitempty"`
	CouponName      string         `json:"coupon_name,omitempty"`
}

// PlaceOrder turns the referenced active cart into an order.
func (oc *OrderController) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, oc.users)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	cartID, err := primitive.ObjectIDFromHex(req.CartID)
	if err != nil {
		http.Error(w, "Invalid cart ID", http.StatusBadRequest)
		return
	}

	order, err := oc.orders.PlaceOrder(r.Context(), user.ID, services.PlaceOrderRequest{
		CartID:          cartID,
		ShippingAddress: req.ShippingAddress,
		PaymentInfo:     req.PaymentInfo,
		PaymentMethod:   req.PaymentMethod,
		CouponName:      req.CouponName,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Confirmation mail must not block or fail the placement.
	if oc.email != nil {
		go func(email string, order models.Order) {
			if err := oc.email.SendOrderConfirmationEmail(email, order); err != nil {
				slog.Warn("order confirmation email failed",
					"order_id", order.ID.Hex(), "error", err)
			}
		}(user.Email, order)
	}

	writeJSON(w, http.StatusCreated, order)
}

// GetOrders retrieves the order history for the authenticated user
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, oc.users)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	orders, err := oc.orders.OrderHistory(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// GetOrderByID retrieves a single order owned by the authenticated user
func (oc *OrderController) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, oc.users)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	params := mux.Vars(r)
	orderID, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	order, err := oc.orders.OrderDetails(r.Context(), orderID, user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}
