package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order is the immutable record produced from a cart at placement time.
// Items is a snapshot copy of the cart's lines, immune to later cart or
// catalog changes. PaymentInfo is opaque and passed through unvalidated.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id"`
	Amount          float64            `bson:"amount" json:"amount"`
	Items           []CartItem         `bson:"items" json:"items"`
	ShippingAddress Address            `bson:"shipping_address" json:"shipping_address"`
	PaymentInfo     map[string]any     `bson:"payment_info" json:"payment_info"`
	PaymentMethod   string             `bson:"payment_method,omitempty" json:"payment_method,omitempty"`
	Status          string             `bson:"status" json:"status"` // "pending" on creation
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
}

// OrderStatusPending is the status every order is created with.
const OrderStatusPending = "pending"
