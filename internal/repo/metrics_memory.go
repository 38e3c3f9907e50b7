package repo

import "context"

type InMemoryMetricsRepository struct {
	products   *InMemoryProductRepository
	categories *InMemoryCategoryRepository
}

func NewInMemoryMetricsRepository() *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{}
}

func (r *InMemoryMetricsRepository) SetRepositories(products *InMemoryProductRepository, categories *InMemoryCategoryRepository) {
	r.products = products
	r.categories = categories
}

func (r *InMemoryMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	m := Metrics{Categories: []CategoryCount{}}

	products, err := r.products.ListByIDs(ctx, nil)
	if err != nil {
		return Metrics{}, err
	}
	categories, err := r.categories.GetAll(ctx)
	if err != nil {
		return Metrics{}, err
	}

	byCategory := make(map[int]*CategoryCount, len(categories))
	for _, c := range categories {
		m.Categories = append(m.Categories, CategoryCount{ID: c.ID, Name: c.Name})
	}
	for i := range m.Categories {
		byCategory[m.Categories[i].ID] = &m.Categories[i]
	}

	for _, p := range products {
		m.TotalProducts++
		if p.Enabled {
			m.EnabledProducts++
		}
		if p.IsLowStock() {
			m.LowStockCount++
		}
		if p.Stock == 0 {
			m.OutOfStockCount++
		}
		if c, ok := byCategory[p.CategoryID]; ok {
			c.ProductsCount++
			if p.Enabled {
				c.ActiveProductsCount++
			}
		}
	}
	return m, nil
}
