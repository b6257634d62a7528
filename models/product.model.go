package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry. Owned by the product catalog; carts and order
// snapshots reference it by id only.
type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name         string             `bson:"name" json:"name"`
	Price        float64            `bson:"price" json:"price"`
	Description  string             `bson:"description" json:"description"`
	Category     string             `bson:"category" json:"category"`
	Availability bool               `bson:"availability" json:"availability"`
}
