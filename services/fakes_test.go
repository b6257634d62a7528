package services

import (
	"context"
	"sync"
	"time"

	"go-storefront/models"
	"go-storefront/stores"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes for the store ports. Mutex-guarded so concurrency tests
// can hammer them.

type fakeCatalog struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]models.Product
	reads    int
}

func newFakeCatalog(products ...models.Product) *fakeCatalog {
	m := make(map[primitive.ObjectID]models.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return &fakeCatalog{products: m}
}

func (f *fakeCatalog) FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	p, ok := f.products[id]
	if !ok {
		return models.Product{}, stores.ErrNotFound
	}
	return p, nil
}

func (f *fakeCatalog) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) FindByCategory(ctx context.Context, category string) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Product
	for _, p := range f.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) DistinctCategories(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, p := range f.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out, nil
}

func (f *fakeCatalog) Search(ctx context.Context, query string) ([]models.Product, error) {
	return nil, nil
}

func (f *fakeCatalog) Insert(ctx context.Context, p models.Product) (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = primitive.NewObjectID()
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeCatalog) Update(ctx context.Context, id primitive.ObjectID, patch stores.ProductPatch) (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return models.Product{}, stores.ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Availability != nil {
		p.Availability = *patch.Availability
	}
	f.products[id] = p
	return p, nil
}

func (f *fakeCatalog) Delete(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		return stores.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

type fakeCartStore struct {
	mu    sync.Mutex
	carts map[primitive.ObjectID]models.Cart

	// forceUpdateConflicts makes the next N Update calls lose the CAS.
	forceUpdateConflicts int
	// forceDeactivateConflict makes the next Deactivate lose the race.
	forceDeactivateConflict bool
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: make(map[primitive.ObjectID]models.Cart)}
}

func (f *fakeCartStore) FindActive(ctx context.Context, id, userID primitive.ObjectID) (models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart, ok := f.carts[id]
	if !ok || !cart.IsActive || cart.UserID != userID {
		return models.Cart{}, stores.ErrNotFound
	}
	return cart, nil
}

func (f *fakeCartStore) FindActiveByUser(ctx context.Context, userID primitive.ObjectID) (models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cart := range f.carts {
		if cart.UserID == userID && cart.IsActive {
			return cart, nil
		}
	}
	return models.Cart{}, stores.ErrNotFound
}

func (f *fakeCartStore) DeactivateAll(ctx context.Context, userID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, cart := range f.carts {
		if cart.UserID == userID && cart.IsActive {
			cart.IsActive = false
			f.carts[id] = cart
		}
	}
	return nil
}

func (f *fakeCartStore) Insert(ctx context.Context, cart models.Cart) (models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart.ID = primitive.NewObjectID()
	f.carts[cart.ID] = cart
	return cart, nil
}

func (f *fakeCartStore) Update(ctx context.Context, cart models.Cart) (models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.forceUpdateConflicts > 0 {
		f.forceUpdateConflicts--
		return models.Cart{}, stores.ErrConflict
	}
	stored, ok := f.carts[cart.ID]
	if !ok || stored.Version != cart.Version {
		return models.Cart{}, stores.ErrConflict
	}
	cart.Version++
	cart.UpdatedAt = time.Now()
	f.carts[cart.ID] = cart
	return cart, nil
}

func (f *fakeCartStore) Deactivate(ctx context.Context, id, userID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.forceDeactivateConflict {
		f.forceDeactivateConflict = false
		return stores.ErrConflict
	}
	cart, ok := f.carts[id]
	if !ok || !cart.IsActive || cart.UserID != userID {
		return stores.ErrConflict
	}
	cart.IsActive = false
	f.carts[id] = cart
	return nil
}

func (f *fakeCartStore) Reactivate(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart, ok := f.carts[id]
	if !ok {
		return stores.ErrNotFound
	}
	cart.IsActive = true
	f.carts[id] = cart
	return nil
}

func (f *fakeCartStore) activeCount(userID primitive.ObjectID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, cart := range f.carts {
		if cart.UserID == userID && cart.IsActive {
			n++
		}
	}
	return n
}

type fakeOrderStore struct {
	mu         sync.Mutex
	orders     map[primitive.ObjectID]models.Order
	failInsert bool
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[primitive.ObjectID]models.Order)}
}

func (f *fakeOrderStore) Insert(ctx context.Context, order models.Order) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failInsert {
		return models.Order{}, context.DeadlineExceeded
	}
	order.ID = primitive.NewObjectID()
	f.orders[order.ID] = order
	return order, nil
}

func (f *fakeOrderStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return models.Order{}, stores.ErrNotFound
	}
	return order, nil
}

func (f *fakeOrderStore) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, order := range f.orders {
		if order.UserID == userID {
			out = append(out, order)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

type fakeCouponStore struct {
	mu      sync.Mutex
	coupons map[string]models.Coupon
}

func newFakeCouponStore(coupons ...models.Coupon) *fakeCouponStore {
	m := make(map[string]models.Coupon, len(coupons))
	for _, c := range coupons {
		m[c.Name] = c
	}
	return &fakeCouponStore{coupons: m}
}

func (f *fakeCouponStore) FindByName(ctx context.Context, name string) (models.Coupon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	coupon, ok := f.coupons[name]
	if !ok {
		return models.Coupon{}, stores.ErrNotFound
	}
	return coupon, nil
}

func (f *fakeCouponStore) Insert(ctx context.Context, coupon models.Coupon) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.coupons[coupon.Name]; ok {
		return stores.ErrConflict
	}
	f.coupons[coupon.Name] = coupon
	return nil
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries: make(map[string][]byte),
		ttls:    make(map[string]time.Duration),
	}
}

func (f *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.entries[key]
	if !ok {
		return nil, stores.ErrCacheMiss
	}
	return value, nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = value
	f.ttls[key] = ttl
	return nil
}

func (f *fakeCache) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.entries, key)
		delete(f.ttls, key)
	}
	return nil
}

func (f *fakeCache) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}
