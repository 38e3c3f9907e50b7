package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rogerio-castellano/catalog-manager/internal/models"
)

const queryTimeout = 3 * time.Second

type PostgresProductRepository struct {
	db *gorm.DB
}

func NewPostgresProductRepository(db *gorm.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

// liveProducts restricts a query to products that are not soft deleted.
func liveProducts(db *gorm.DB) *gorm.DB {
	return db.Where("products.status = ?", models.StatusActive)
}

func (r *PostgresProductRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p.ID = 0
	p.Category = nil
	p.Status = models.StatusActive
	p.DeletedAt = nil

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Product{}, ErrDuplicatedValueUnique
		}
		return models.Product{}, err
	}
	return r.getLive(ctx, "products.id = ?", p.ID)
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id int) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return r.getLive(ctx, "products.id = ?", id)
}

func (r *PostgresProductRepository) GetByName(ctx context.Context, name string) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return r.getLive(ctx, "products.name = ?", name)
}

func (r *PostgresProductRepository) getLive(ctx context.Context, cond string, arg any) (models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).
		Scopes(liveProducts).
		Preload("Category").
		Where(cond, arg).
		Order("products.id").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *PostgresProductRepository) NameExists(ctx context.Context, name string, exceptID int) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Scopes(liveProducts).
		Where("products.name = ? AND products.id <> ?", name, exceptID).
		Count(&count).Error
	return count > 0, err
}

func (r *PostgresProductRepository) Update(ctx context.Context, p models.Product) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Scopes(liveProducts).
		Where("products.id = ?", p.ID).
		Updates(map[string]any{
			"name":        p.Name,
			"category_id": p.CategoryID,
			"description": p.Description,
			"price":       p.Price,
			"stock":       p.Stock,
			"enabled":     p.Enabled,
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return models.Product{}, ErrDuplicatedValueUnique
		}
		return models.Product{}, res.Error
	}
	if res.RowsAffected == 0 {
		return models.Product{}, ErrProductNotFound
	}
	return r.getLive(ctx, "products.id = ?", p.ID)
}

func (r *PostgresProductRepository) AdjustStock(ctx context.Context, id, delta, max int) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Scopes(liveProducts).
		Where("products.id = ? AND products.stock + ? BETWEEN 0 AND ?", id, delta, max).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock + ?", delta),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return models.Product{}, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.getLive(ctx, "products.id = ?", id); err != nil {
			return models.Product{}, err
		}
		return models.Product{}, ErrInvalidQuantityChange
	}
	return r.getLive(ctx, "products.id = ?", id)
}

// SoftDelete runs as a single UPDATE so a bulk delete either applies to every live id or to none.
func (r *PostgresProductRepository) SoftDelete(ctx context.Context, ids []int) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Scopes(liveProducts).
		Where("products.id IN ?", ids).
		Updates(map[string]any{
			"status":     models.StatusDeleted,
			"deleted_at": now,
			"updated_at": now,
		})
	return int(res.RowsAffected), res.Error
}

func (r *PostgresProductRepository) Filter(ctx context.Context, pf ProductFilter) ([]models.Product, int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := r.db.WithContext(ctx).Model(&models.Product{}).Scopes(liveProducts)
	if pf.CategoryID != nil {
		query = query.Where("products.category_id = ?", *pf.CategoryID)
	}
	if pf.Enabled != nil {
		query = query.Where("products.enabled = ?", *pf.Enabled)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := query.Session(&gorm.Session{}).Preload("Category").Order("products.id").Offset(pf.Offset)
	if pf.Limit > 0 {
		page = page.Limit(pf.Limit)
	}

	products := []models.Product{}
	if err := page.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, int(total), nil
}

func (r *PostgresProductRepository) ListByIDs(ctx context.Context, ids []int) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := r.db.WithContext(ctx).Scopes(liveProducts).Preload("Category").Order("products.id")
	if ids != nil {
		if len(ids) == 0 {
			return []models.Product{}, nil
		}
		query = query.Where("products.id IN ?", ids)
	}

	products := []models.Product{}
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
