package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go-storefront/models"
	"go-storefront/stores"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Catalog implements stores.ProductCatalog on a Mongo collection.
type Catalog struct {
	collection *mongo.Collection
}

func NewCatalog(db *mongo.Database) *Catalog {
	return &Catalog{collection: db.Collection("products")}
}

var _ stores.ProductCatalog = (*Catalog)(nil)

func (c *Catalog) FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	var product models.Product
	err := c.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, fmt.Errorf("product %s: %w", id.Hex(), stores.ErrNotFound)
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("find product: %w", err)
	}
	return product, nil
}

func (c *Catalog) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := c.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	return decodeProducts(ctx, cursor)
}

func (c *Catalog) FindByCategory(ctx context.Context, category string) ([]models.Product, error) {
	cursor, err := c.collection.Find(ctx, bson.M{"category": category})
	if err != nil {
		return nil, fmt.Errorf("find products by category: %w", err)
	}
	return decodeProducts(ctx, cursor)
}

func (c *Catalog) DistinctCategories(ctx context.Context) ([]string, error) {
	values, err := c.collection.Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("distinct categories: %w", err)
	}
	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			categories = append(categories, s)
		}
	}
	return categories, nil
}

// Search is a case-insensitive free-text match over name, description and
// category. No ranking.
func (c *Catalog) Search(ctx context.Context, query string) ([]models.Product, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"name": pattern},
		bson.M{"description": pattern},
		bson.M{"category": pattern},
	}}
	cursor, err := c.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return decodeProducts(ctx, cursor)
}

func (c *Catalog) Insert(ctx context.Context, p models.Product) (models.Product, error) {
	result, err := c.collection.InsertOne(ctx, p)
	if err != nil {
		return models.Product{}, fmt.Errorf("insert product: %w", err)
	}
	p.ID = result.InsertedID.(primitive.ObjectID)
	return p, nil
}

func (c *Catalog) Update(ctx context.Context, id primitive.ObjectID, patch stores.ProductPatch) (models.Product, error) {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Availability != nil {
		set["availability"] = *patch.Availability
	}
	if len(set) == 0 {
		return c.FindByID(ctx, id)
	}

	var product models.Product
	after := options.After
	err := c.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, fmt.Errorf("product %s: %w", id.Hex(), stores.ErrNotFound)
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

func (c *Catalog) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := c.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("product %s: %w", id.Hex(), stores.ErrNotFound)
	}
	return nil
}

func decodeProducts(ctx context.Context, cursor *mongo.Cursor) ([]models.Product, error) {
	defer cursor.Close(ctx)
	var products []models.Product
	for cursor.Next(ctx) {
		var product models.Product
		if err := cursor.Decode(&product); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		products = append(products, product)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("product cursor: %w", err)
	}
	return products, nil
}
