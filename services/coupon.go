package services

import (
	"context"
	"errors"
	"time"

	"go-storefront/models"
	"go-storefront/stores"
)

// ErrCouponInvalid is returned when the coupon exists but the current
// instant falls outside its validity window.
var ErrCouponInvalid = errors.New("coupon expired or not yet valid")

// CouponService evaluates temporal coupon validity and computes the
// discounted amount.
type CouponService struct {
	coupons stores.CouponStore
	now     func() time.Time
}

func NewCouponService(coupons stores.CouponStore) *CouponService {
	return &CouponService{coupons: coupons, now: time.Now}
}

// ApplyDiscount resolves the coupon by exact name and, when the current
// instant lies within [ValidFrom, ValidTo] inclusive, returns the reduced
// amount. Any error is a hard failure; callers must abort, not fall back
// to the undiscounted amount.
func (s *CouponService) ApplyDiscount(ctx context.Context, amount float64, couponName string) (float64, error) {
	coupon, err := s.coupons.FindByName(ctx, couponName)
	if err != nil {
		return 0, err
	}

	now := s.now()
	if now.Before(coupon.ValidFrom) || now.After(coupon.ValidTo) {
		return 0, ErrCouponInvalid
	}

	return discountedAmount(amount, coupon), nil
}

// discountedAmount preserves the discount formula observed in production:
// discount = (amount - discountPercentage) / 10. Despite the field name it
// is not a percentage-of-amount reduction; keep as is unless the business
// owner confirms different semantics.
func discountedAmount(amount float64, coupon models.Coupon) float64 {
	discount := (amount - coupon.DiscountPercentage) / 10
	return amount - discount
}
