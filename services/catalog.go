package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go-storefront/models"
	"go-storefront/stores"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// bulkImportConcurrency caps parallel inserts during a bulk import.
const bulkImportConcurrency = 8

// CatalogService covers merchant-side product management and customer
// browsing. Mutations invalidate the product detail cache so stale entries
// do not outlive the change by more than an in-flight read.
type CatalogService struct {
	catalog stores.ProductCatalog
	cache   *ProductCacheService
}

func NewCatalogService(catalog stores.ProductCatalog, cache *ProductCacheService) *CatalogService {
	return &CatalogService{catalog: catalog, cache: cache}
}

func (s *CatalogService) CategoryListing(ctx context.Context) ([]string, error) {
	return s.catalog.DistinctCategories(ctx)
}

func (s *CatalogService) ProductListing(ctx context.Context, category string) ([]models.Product, error) {
	if strings.TrimSpace(category) == "" {
		return nil, fmt.Errorf("category required: %w", ErrValidation)
	}
	return s.catalog.FindByCategory(ctx, category)
}

func (s *CatalogService) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query required: %w", ErrValidation)
	}
	return s.catalog.Search(ctx, query)
}

func (s *CatalogService) AddProduct(ctx context.Context, product models.Product) (models.Product, error) {
	if err := validateProduct(product); err != nil {
		return models.Product{}, err
	}
	return s.catalog.Insert(ctx, product)
}

// BulkImport inserts products concurrently with bounded parallelism. The
// whole batch is validated up front; a failed insert cancels the rest.
func (s *CatalogService) BulkImport(ctx context.Context, products []models.Product) ([]models.Product, error) {
	if len(products) == 0 {
		return nil, fmt.Errorf("empty import batch: %w", ErrValidation)
	}
	for i, p := range products {
		if err := validateProduct(p); err != nil {
			return nil, fmt.Errorf("product %d: %w", i, err)
		}
	}

	imported := make([]models.Product, len(products))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkImportConcurrency)

	for idx := range products {
		idx := idx
		g.Go(func() error {
			created, err := s.catalog.Insert(ctx, products[idx])
			if err != nil {
				return err
			}
			imported[idx] = created
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return imported, nil
}

// UpdateProduct applies a closed, typed patch. Arbitrary field updates are
// deliberately impossible: ids and unknown fields never reach the store.
func (s *CatalogService) UpdateProduct(ctx context.Context, id primitive.ObjectID, patch stores.ProductPatch) (models.Product, error) {
	if patch.Price != nil && *patch.Price < 0 {
		return models.Product{}, fmt.Errorf("price must be non-negative: %w", ErrValidation)
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return models.Product{}, fmt.Errorf("name must not be blank: %w", ErrValidation)
	}

	product, err := s.catalog.Update(ctx, id, patch)
	if err != nil {
		return models.Product{}, err
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		slog.Warn("product cache invalidation failed", "product_id", id.Hex(), "error", err)
	}
	return product, nil
}

func (s *CatalogService) RemoveProduct(ctx context.Context, id primitive.ObjectID) error {
	if err := s.catalog.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		slog.Warn("product cache invalidation failed", "product_id", id.Hex(), "error", err)
	}
	return nil
}

func validateProduct(p models.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("product name required: %w", ErrValidation)
	}
	if strings.TrimSpace(p.Category) == "" {
		return fmt.Errorf("product category required: %w", ErrValidation)
	}
	if p.Price < 0 {
		return fmt.Errorf("price must be non-negative: %w", ErrValidation)
	}
	return nil
}
