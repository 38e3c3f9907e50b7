package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/rogerio-castellano/catalog-manager/internal/models"
)

type PostgresMetricsRepository struct {
	db *gorm.DB
}

func NewPostgresMetricsRepository(db *gorm.DB) *PostgresMetricsRepository {
	return &PostgresMetricsRepository{db: db}
}

func (r *PostgresMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var totals struct {
		TotalProducts   int
		EnabledProducts int
		LowStockCount   int
		OutOfStockCount int
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) AS total_products,
		       COUNT(*) FILTER (WHERE enabled) AS enabled_products,
		       COUNT(*) FILTER (WHERE stock > 0 AND stock <= ?) AS low_stock_count,
		       COUNT(*) FILTER (WHERE stock = 0) AS out_of_stock_count
		FROM products
		WHERE status = ?
	`, models.LowStockThreshold, models.StatusActive).Scan(&totals).Error
	if err != nil {
		return Metrics{}, err
	}

	categories := []CategoryCount{}
	err = r.db.WithContext(ctx).Raw(`
		SELECT c.id, c.name,
		       COUNT(p.id) AS products_count,
		       COUNT(p.id) FILTER (WHERE p.enabled) AS active_products_count
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id AND p.status = ?
		GROUP BY c.id, c.name
		ORDER BY c.id
	`, models.StatusActive).Scan(&categories).Error
	if err != nil {
		return Metrics{}, err
	}

	return Metrics{
		TotalProducts:   totals.TotalProducts,
		EnabledProducts: totals.EnabledProducts,
		LowStockCount:   totals.LowStockCount,
		OutOfStockCount: totals.OutOfStockCount,
		Categories:      categories,
	}, nil
}
