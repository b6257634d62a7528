package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go-storefront/models"
	"go-storefront/services"
	"go-storefront/stores"
)

// CouponController exposes admin-side coupon creation. The checkout core
// only ever reads coupons.
type CouponController struct {
	coupons stores.CouponStore
}

func NewCouponController(coupons stores.CouponStore) *CouponController {
	return &CouponController{coupons: coupons}
}

// CreateCoupon registers a named discount with its validity window (Admin only)
func (cc *CouponController) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var coupon models.Coupon
	if err := json.NewDecoder(r.Body).Decode(&coupon); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(coupon.Name) == "" {
		writeError(w, r, fmt.Errorf("coupon name required: %w", services.ErrValidation))
		return
	}
	if coupon.ValidTo.Before(coupon.ValidFrom) {
		writeError(w, r, fmt.Errorf("validity window ends before it starts: %w", services.ErrValidation))
		return
	}

	if err := cc.coupons.Insert(r.Context(), coupon); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, coupon)
}
