package controllers

import (
	"encoding/json"
	"net/http"

	"go-storefront/models"
	"go-storefront/services"
	"go-storefront/stores"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductController handles catalog browsing and merchant product management
type ProductController struct {
	catalog *services.CatalogService
	cache   *services.ProductCacheService
}

// NewProductController creates a new ProductController
func NewProductController(catalog *services.CatalogService, cache *services.ProductCacheService) *ProductController {
	return &ProductController{catalog: catalog, cache: cache}
}

// GetCategories lists every distinct category in the catalog
func (pc *ProductController) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := pc.catalog.CategoryListing(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// GetProducts lists products in the requested category
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := pc.catalog.ProductListing(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// SearchProducts does a free-text match over name, description and category
func (pc *ProductController) SearchProducts(w http.ResponseWriter, r *http.Request) {
	products, err := pc.catalog.SearchProducts(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProductByID retrieves a single product through the read-through cache
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	product, err := pc.cache.GetProductDetail(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// CreateProduct handles adding a new product (Admin only)
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	created, err := pc.catalog.AddProduct(r.Context(), product)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// BulkImportProducts inserts a batch of products (Admin only)
func (pc *ProductController) BulkImportProducts(w http.ResponseWriter, r *http.Request) {
	var products []models.Product
	if err := json.NewDecoder(r.Body).Decode(&products); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	imported, err := pc.catalog.BulkImport(r.Context(), products)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, imported)
}

// UpdateProduct applies a typed patch to a product (Admin only)
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	var patch stores.ProductPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	product, err := pc.catalog.UpdateProduct(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// DeleteProduct removes a product (Admin only)
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	if err := pc.catalog.RemoveProduct(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}
