package repo

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rogerio-castellano/catalog-manager/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
// Soft deleted products stay in the slice so tests can inspect them.
type InMemoryProductRepository struct {
	mu         sync.RWMutex
	products   []models.Product
	nextID     int
	categories *InMemoryCategoryRepository
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
// categories is used to attach the category to returned products and may be nil.
func NewInMemoryProductRepository(categories *InMemoryCategoryRepository) *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products:   []models.Product{},
		nextID:     1,
		categories: categories,
	}
}

func matchesFilter(p models.Product, pf ProductFilter) bool {
	if !p.IsLive() {
		return false
	}
	if pf.CategoryID != nil && p.CategoryID != *pf.CategoryID {
		return false
	}
	if pf.Enabled != nil && p.Enabled != *pf.Enabled {
		return false
	}
	return true
}

func (r *InMemoryProductRepository) withCategory(p models.Product) models.Product {
	p.Category = nil
	if r.categories == nil {
		return p
	}
	if c, err := r.categories.GetByID(context.Background(), p.CategoryID); err == nil {
		p.Category = &c
	}
	return p
}

func (r *InMemoryProductRepository) Filter(_ context.Context, pf ProductFilter) ([]models.Product, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filtered := []models.Product{}
	for _, p := range r.products {
		if matchesFilter(p, pf) {
			filtered = append(filtered, r.withCategory(p))
		}
	}

	total := len(filtered)
	start := clamp(pf.Offset, 0, total)
	end := total
	if pf.Limit > 0 {
		end = clamp(start+pf.Limit, start, total)
	}

	return filtered[start:end], total, nil
}

// Create adds a new product to the repository.
func (r *InMemoryProductRepository) Create(_ context.Context, product models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	product.ID = r.nextID
	product.Status = models.StatusActive
	product.DeletedAt = nil
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	if product.UpdatedAt.IsZero() {
		product.UpdatedAt = now
	}
	r.nextID++
	r.products = append(r.products, product)
	return r.withCategory(product), nil
}

// GetByID retrieves a live product by its ID.
func (r *InMemoryProductRepository) GetByID(_ context.Context, id int) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.ID == id && p.IsLive() {
			return r.withCategory(p), nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

func (r *InMemoryProductRepository) GetByName(_ context.Context, name string) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.Name == name && p.IsLive() {
			return r.withCategory(p), nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

func (r *InMemoryProductRepository) NameExists(_ context.Context, name string, exceptID int) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.Name == name && p.IsLive() && p.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

// Update modifies an existing live product in the repository.
func (r *InMemoryProductRepository) Update(_ context.Context, product models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID == product.ID && p.IsLive() {
			product.Status = p.Status
			product.CreatedAt = p.CreatedAt
			product.DeletedAt = nil
			product.UpdatedAt = time.Now().UTC()
			r.products[i] = product
			return r.withCategory(product), nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

// AdjustStock implements ProductRepository.
func (r *InMemoryProductRepository) AdjustStock(_ context.Context, id, delta, max int) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID != id || !p.IsLive() {
			continue
		}
		next := p.Stock + delta
		if next < 0 || next > max {
			return models.Product{}, ErrInvalidQuantityChange
		}
		p.Stock = next
		p.UpdatedAt = time.Now().UTC()
		r.products[i] = p
		return r.withCategory(p), nil
	}
	return models.Product{}, ErrProductNotFound
}

func (r *InMemoryProductRepository) SoftDelete(_ context.Context, ids []int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	deleted := 0
	for i, p := range r.products {
		if p.IsLive() && slices.Contains(ids, p.ID) {
			p.Status = models.StatusDeleted
			p.DeletedAt = &now
			p.UpdatedAt = now
			r.products[i] = p
			deleted++
		}
	}
	return deleted, nil
}

func (r *InMemoryProductRepository) ListByIDs(_ context.Context, ids []int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := []models.Product{}
	for _, p := range r.products {
		if !p.IsLive() {
			continue
		}
		if ids != nil && !slices.Contains(ids, p.ID) {
			continue
		}
		products = append(products, r.withCategory(p))
	}
	return products, nil
}

// Stored returns a product by id regardless of its status, bypassing the live-row scope.
func (r *InMemoryProductRepository) Stored(id int) (models.Product, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

func (r *InMemoryProductRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = []models.Product{}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
