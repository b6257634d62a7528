package services

import (
	"go-storefront/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pricer aggregates line-item price × quantity into an order total.
type Pricer struct{}

// Total sums price × quantity over the cart lines. A line whose product is
// not in the fetched set contributes nothing: a product deleted after it
// was carted must never block checkout.
func (Pricer) Total(items []models.CartItem, products []models.Product) float64 {
	byID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	total := 0.0
	for _, item := range items {
		if product, ok := byID[item.ProductID]; ok {
			total += product.Price * float64(item.Quantity)
		}
	}
	return total
}
