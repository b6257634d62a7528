package models

import (
	"time"
)

// Coupon is a named, time-bounded discount. Valid when the current instant
// lies within [ValidFrom, ValidTo] inclusive.
type Coupon struct {
	Name               string    `bson:"name" json:"name"`
	DiscountPercentage float64   `bson:"discount_percentage" json:"discount_percentage"`
	ValidFrom          time.Time `bson:"valid_from" json:"valid_from"`
	ValidTo            time.Time `bson:"valid_to" json:"valid_to"`
}
