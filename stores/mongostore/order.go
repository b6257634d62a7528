package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go-storefront/models"
	"go-storefront/stores"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderRepo implements stores.OrderStore on a Mongo collection. Orders are
// insert-only; nothing here mutates an existing record.
type OrderRepo struct {
	collection *mongo.Collection
}

func NewOrderRepo(db *mongo.Database) *OrderRepo {
	return &OrderRepo{collection: db.Collection("orders")}
}

var _ stores.OrderStore = (*OrderRepo)(nil)

func (r *OrderRepo) Insert(ctx context.Context, order models.Order) (models.Order, error) {
	result, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		return models.Order{}, fmt.Errorf("insert order: %w", err)
	}
	order.ID = result.InsertedID.(primitive.ObjectID)
	return order, nil
}

func (r *OrderRepo) FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, fmt.Errorf("order %s: %w", id.Hex(), stores.ErrNotFound)
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("find order: %w", err)
	}
	return order, nil
}

func (r *OrderRepo) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	for cursor.Next(ctx) {
		var order models.Order
		if err := cursor.Decode(&order); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("order cursor: %w", err)
	}
	return orders, nil
}
