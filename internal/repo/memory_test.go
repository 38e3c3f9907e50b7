package repo_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/catalog-manager/internal/models"
	"github.com/rogerio-castellano/catalog-manager/internal/repo"
)

func seedMemory(t *testing.T) (*repo.InMemoryProductRepository, *repo.InMemoryCategoryRepository, []models.Product) {
	t.Helper()
	ctx := context.Background()
	categories := repo.NewInMemoryCategoryRepository()
	products := repo.NewInMemoryProductRepository(categories)

	tools, err := categories.Create(ctx, models.Category{Name: "Tools"})
	require.NoError(t, err)
	garden, err := categories.Create(ctx, models.Category{Name: "Garden"})
	require.NoError(t, err)

	var created []models.Product
	for i, seed := range []struct {
		name     string
		category int
		enabled  bool
		stock    int
	}{
		{"Hammer", tools.ID, true, 5},
		{"Saw", tools.ID, false, 0},
		{"Rake", garden.ID, true, 50},
		{"Hose", garden.ID, true, 8},
	} {
		p, err := products.Create(ctx, models.Product{
			Name:       seed.name,
			CategoryID: seed.category,
			Price:      decimal.NewFromInt(int64(i + 1)),
			Stock:      seed.stock,
			Enabled:    seed.enabled,
		})
		require.NoError(t, err)
		created = append(created, p)
	}
	return products, categories, created
}

func TestInMemoryProductRepository_CreateAttachesCategory(t *testing.T) {
	_, _, created := seedMemory(t)

	assert.Equal(t, 1, created[0].ID)
	assert.Equal(t, models.StatusActive, created[0].Status)
	require.NotNil(t, created[0].Category)
	assert.Equal(t, "Tools", created[0].Category.Name)
	assert.False(t, created[0].CreatedAt.IsZero())
}

func TestInMemoryProductRepository_Filter(t *testing.T) {
	products, _, created := seedMemory(t)
	ctx := context.Background()
	enabled := true
	garden := created[2].CategoryID

	tests := []struct {
		name      string
		filter    repo.ProductFilter
		wantNames []string
		wantTotal int
	}{
		{"no filter", repo.ProductFilter{}, []string{"Hammer", "Saw", "Rake", "Hose"}, 4},
		{"enabled", repo.ProductFilter{Enabled: &enabled}, []string{"Hammer", "Rake", "Hose"}, 3},
		{"category and enabled", repo.ProductFilter{CategoryID: &garden, Enabled: &enabled}, []string{"Rake", "Hose"}, 2},
		{"window", repo.ProductFilter{Offset: 1, Limit: 2}, []string{"Saw", "Rake"}, 4},
		{"offset past end", repo.ProductFilter{Offset: 10, Limit: 2}, []string{}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := products.Filter(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)

			names := []string{}
			for _, p := range got {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestInMemoryProductRepository_SoftDeleteHidesRows(t *testing.T) {
	products, _, created := seedMemory(t)
	ctx := context.Background()
	hammer := created[0]

	n, err := products.SoftDelete(ctx, []int{hammer.ID, 999})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = products.SoftDelete(ctx, []int{hammer.ID})
	require.NoError(t, err)
	assert.Zero(t, n, "already deleted rows are not counted")

	_, err = products.GetByID(ctx, hammer.ID)
	assert.ErrorIs(t, err, repo.ErrProductNotFound)
	_, err = products.GetByName(ctx, "Hammer")
	assert.ErrorIs(t, err, repo.ErrProductNotFound)

	taken, err := products.NameExists(ctx, "Hammer", 0)
	require.NoError(t, err)
	assert.False(t, taken)

	_, total, err := products.Filter(ctx, repo.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	all, err := products.ListByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = products.Update(ctx, hammer)
	assert.ErrorIs(t, err, repo.ErrProductNotFound)
	_, err = products.AdjustStock(ctx, hammer.ID, 1, 10)
	assert.ErrorIs(t, err, repo.ErrProductNotFound)

	stored, ok := products.Stored(hammer.ID)
	require.True(t, ok)
	assert.Equal(t, models.StatusDeleted, stored.Status)
	require.NotNil(t, stored.DeletedAt)
}

func TestInMemoryProductRepository_NameExistsExcludesSelf(t *testing.T) {
	products, _, created := seedMemory(t)
	ctx := context.Background()

	taken, err := products.NameExists(ctx, "Hammer", created[0].ID)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = products.NameExists(ctx, "Hammer", created[1].ID)
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestInMemoryProductRepository_AdjustStockBounds(t *testing.T) {
	products, _, created := seedMemory(t)
	ctx := context.Background()
	hammer := created[0]

	p, err := products.AdjustStock(ctx, hammer.ID, -5, 100)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)

	_, err = products.AdjustStock(ctx, hammer.ID, -1, 100)
	assert.ErrorIs(t, err, repo.ErrInvalidQuantityChange)
	_, err = products.AdjustStock(ctx, hammer.ID, 101, 100)
	assert.ErrorIs(t, err, repo.ErrInvalidQuantityChange)

	p, err = products.GetByID(ctx, hammer.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)
}

func TestInMemoryProductRepository_ListByIDs(t *testing.T) {
	products, _, created := seedMemory(t)
	ctx := context.Background()

	got, err := products.ListByIDs(ctx, []int{created[3].ID, created[1].ID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, created[1].ID, got[0].ID, "ordered by id")
	assert.Equal(t, created[3].ID, got[1].ID)

	got, err = products.ListByIDs(ctx, []int{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestInMemoryMetricsRepository(t *testing.T) {
	products, categories, created := seedMemory(t)
	ctx := context.Background()
	_, err := products.SoftDelete(ctx, []int{created[3].ID})
	require.NoError(t, err)

	metrics := repo.NewInMemoryMetricsRepository()
	metrics.SetRepositories(products, categories)

	m, err := metrics.GetDashboardMetrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, repo.Metrics{
		TotalProducts:   3,
		EnabledProducts: 2,
		LowStockCount:   1,
		OutOfStockCount: 1,
		Categories: []repo.CategoryCount{
			{ID: 1, Name: "Tools", ProductsCount: 2, ActiveProductsCount: 1},
			{ID: 2, Name: "Garden", ProductsCount: 1, ActiveProductsCount: 1},
		},
	}, m)
}

func TestInMemoryUserRepository(t *testing.T) {
	users := repo.NewInMemoryUserRepository()
	ctx := context.Background()

	u, err := users.CreateUser(ctx, models.User{Name: "Ann", Email: "ann@example.com", PasswordHash: "x"})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)

	_, err = users.CreateUser(ctx, models.User{Name: "Ann 2", Email: "ann@example.com"})
	assert.ErrorIs(t, err, repo.ErrDuplicatedValueUnique)

	got, err := users.GetByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = users.GetByID(ctx, 42)
	assert.ErrorIs(t, err, repo.ErrUserNotFound)
}
