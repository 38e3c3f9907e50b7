package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/rogerio-castellano/catalog-manager/internal/models"
)

type PostgresCategoryRepository struct {
	db *gorm.DB
}

func NewPostgresCategoryRepository(db *gorm.DB) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{db: db}
}

func (r *PostgresCategoryRepository) Create(ctx context.Context, c models.Category) (models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	c.ID = 0
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return models.Category{}, err
	}
	return c, nil
}

func (r *PostgresCategoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	categories := []models.Category{}
	if err := r.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *PostgresCategoryRepository) GetByID(ctx context.Context, id int) (models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var c models.Category
	err := r.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Category{}, ErrCategoryNotFound
	}
	return c, err
}
