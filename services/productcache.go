package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go-storefront/models"
	"go-storefront/stores"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const productKeyPrefix = "product:"

// DefaultProductTTL bounds staleness of cached product details. Merchant
// updates and deletes additionally invalidate the key outright.
const DefaultProductTTL = 15 * time.Minute

// ProductCacheService is a read-through cache in front of the product
// catalog. It serves customer-facing detail reads only; order pricing
// always reads the catalog directly.
type ProductCacheService struct {
	catalog stores.ProductCatalog
	cache   stores.Cache
	ttl     time.Duration
}

func NewProductCacheService(catalog stores.ProductCatalog, cache stores.Cache, ttl time.Duration) *ProductCacheService {
	if ttl <= 0 {
		ttl = DefaultProductTTL
	}
	return &ProductCacheService{catalog: catalog, cache: cache, ttl: ttl}
}

// GetProductDetail returns the cached product when present, otherwise
// fetches it from the catalog and populates the cache. A missing product
// fails with NotFound and caches nothing.
func (s *ProductCacheService) GetProductDetail(ctx context.Context, productID primitive.ObjectID) (models.Product, error) {
	key := productKeyPrefix + productID.Hex()

	payload, err := s.cache.Get(ctx, key)
	if err == nil {
		var product models.Product
		if err := json.Unmarshal(payload, &product); err == nil {
			return product, nil
		}
		// Undecodable entry: fall through and repopulate from the catalog.
		slog.Warn("dropping corrupt cache entry", "key", key)
	} else if !errors.Is(err, stores.ErrCacheMiss) {
		// A broken cache degrades to a plain catalog read.
		slog.Warn("product cache read failed", "key", key, "error", err)
	}

	product, err := s.catalog.FindByID(ctx, productID)
	if err != nil {
		return models.Product{}, err
	}

	payload, err = json.Marshal(product)
	if err != nil {
		return models.Product{}, fmt.Errorf("encode product for cache: %w", err)
	}
	if err := s.cache.Set(ctx, key, payload, s.ttl); err != nil {
		// The read already succeeded against the authoritative store.
		slog.Warn("product cache populate failed", "key", key, "error", err)
	}
	return product, nil
}

// Invalidate drops the cached entry for a product. The merchant update and
// delete paths call this so detail reads never serve a changed product
// beyond the TTL window.
func (s *ProductCacheService) Invalidate(ctx context.Context, productID primitive.ObjectID) error {
	return s.cache.Del(ctx, productKeyPrefix+productID.Hex())
}
