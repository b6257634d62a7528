package controllers

import (
	"encoding/json"
	"net/http"

	"go-storefront/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartController handles cart-related requests
type CartController struct {
	carts *services.CartService
	users userResolver
}

// NewCartController creates a new CartController
func NewCartController(carts *services.CartService, users userResolver) *CartController {
	return &CartController{carts: carts, users: users}
}

type addToCartRequest struct {
	CartID  string `json:"cart_id,omitempty"`
	Product struct {
		ID       string `json:"id"`
		Quantity int    `json:"quantity"`
	} `json:"product"`
}

// AddToCart adds a product to a cart. Without a cart_id a fresh cart is
// opened and any previous active cart of the user is retired.
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, cc.users)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	productID, err := primitive.ObjectIDFromHex(req.Product.ID)
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	var cartID primitive.ObjectID
	if req.CartID != "" {
		cartID, err = primitive.ObjectIDFromHex(req.CartID)
		if err != nil {
			http.Error(w, "Invalid cart ID", http.StatusBadRequest)
			return
		}
	}

	cart, err := cc.carts.AddToCart(r.Context(), user.ID, cartID, services.AddItemRequest{
		ProductID: productID,
		Quantity:  req.Product.Quantity,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// GetActiveCart retrieves the user's active cart; the body is null when
// there is none.
func (cc *CartController) GetActiveCart(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, cc.users)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	cart, err := cc.carts.GetActiveCart(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}
