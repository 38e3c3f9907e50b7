package repo

import (
	"context"
	"sync"
	"time"

	"github.com/rogerio-castellano/catalog-manager/internal/models"
)

type InMemoryCategoryRepository struct {
	mu         sync.RWMutex
	categories []models.Category
	nextID     int
}

func NewInMemoryCategoryRepository() *InMemoryCategoryRepository {
	return &InMemoryCategoryRepository{
		categories: []models.Category{},
		nextID:     1,
	}
}

func (r *InMemoryCategoryRepository) Create(_ context.Context, c models.Category) (models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	c.ID = r.nextID
	c.CreatedAt = now
	c.UpdatedAt = now
	r.nextID++
	r.categories = append(r.categories, c)
	return c, nil
}

func (r *InMemoryCategoryRepository) GetAll(_ context.Context) ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Category, len(r.categories))
	copy(out, r.categories)
	return out, nil
}

func (r *InMemoryCategoryRepository) GetByID(_ context.Context, id int) (models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Category{}, ErrCategoryNotFound
}

func (r *InMemoryCategoryRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories = []models.Category{}
}
