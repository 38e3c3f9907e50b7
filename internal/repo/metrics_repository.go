package repo

import "context"

type CategoryCount struct {
	ID                  int    `json:"id"`
	Name                string `json:"name"`
	ProductsCount       int    `json:"products_count"`
	ActiveProductsCount int    `json:"active_products_count"`
}

type Metrics struct {
	TotalProducts   int             `json:"total_products"`
	EnabledProducts int             `json:"enabled_products"`
	LowStockCount   int             `json:"low_stock_count"`
	OutOfStockCount int             `json:"out_of_stock_count"`
	Categories      []CategoryCount `json:"categories"`
}

// MetricsRepository aggregates live products for the dashboard.
type MetricsRepository interface {
	GetDashboardMetrics(ctx context.Context) (Metrics, error)
}
