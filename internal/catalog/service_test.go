package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/catalog-manager/internal/models"
	"github.com/rogerio-castellano/catalog-manager/internal/repo"
	"github.com/rogerio-castellano/catalog-manager/internal/validation"
)

type fixture struct {
	svc        *Service
	products   *repo.InMemoryProductRepository
	categories *repo.InMemoryCategoryRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	categories := repo.NewInMemoryCategoryRepository()
	products := repo.NewInMemoryProductRepository(categories)
	return fixture{
		svc:        NewService(products, categories, logger),
		products:   products,
		categories: categories,
	}
}

func (f fixture) category(t *testing.T, name string) models.Category {
	t.Helper()
	c, err := f.svc.CreateCategory(context.Background(), CategoryInput{Name: name})
	require.NoError(t, err)
	return c
}

func (f fixture) product(t *testing.T, in ProductInput) models.Product {
	t.Helper()
	p, err := f.svc.CreateProduct(context.Background(), in)
	require.NoError(t, err)
	return p
}

func str(s string) *string { return &s }

func num(v any) *json.Number {
	n := json.Number(fmt.Sprint(v))
	return &n
}

func boolean(b bool) *bool { return &b }

func input(name string, categoryID int, price string, stock int) ProductInput {
	return ProductInput{
		Name:       str(name),
		CategoryID: num(categoryID),
		Price:      num(price),
		Stock:      num(stock),
	}
}

func fieldErrors(t *testing.T, err error) validation.Errors {
	t.Helper()
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs), "expected validation errors, got %v", err)
	return verrs
}

func TestCreateProduct_AppliesDefaultsAndIsFetchableByName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tools := f.category(t, "Tools")

	created := f.product(t, input("Hammer", tools.ID, "9.99", 5))

	assert.NotZero(t, created.ID)
	assert.Equal(t, "Hammer", created.Name)
	assert.Equal(t, tools.ID, created.CategoryID)
	assert.Equal(t, "Tools", created.CategoryName())
	assert.True(t, created.Price.Equal(decimal.RequireFromString("9.99")))
	assert.Equal(t, 5, created.Stock)
	assert.True(t, created.Enabled, "enabled defaults to true")
	assert.Equal(t, "", created.Description)

	fetched, err := f.svc.GetProductByName(ctx, "Hammer")
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, created.Name, fetched.Name)
	assert.True(t, created.Price.Equal(fetched.Price))
}

func TestCreateProduct_NameIsTrimmed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tools := f.category(t, "Tools")

	created := f.product(t, input("  Hammer ", tools.ID, "1", 1))
	assert.Equal(t, "Hammer", created.Name)

	fetched, err := f.svc.GetProductByName(ctx, "Hammer")
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)

	_, err = f.svc.CreateProduct(ctx, input("Hammer", tools.ID, "1", 1))
	assert.Equal(t, "A product with this name already exists.", fieldErrors(t, err)["name"])
}

func TestCreateProduct_ExplicitDisabled(t *testing.T) {
	f := newFixture(t)
	c := f.category(t, "Tools")

	in := input("Saw", c.ID, "12.50", 1)
	in.Enabled = boolean(false)
	in.Description = str("sharp")

	p := f.product(t, in)
	assert.False(t, p.Enabled)
	assert.Equal(t, "sharp", p.Description)
}

func TestCreateProduct_Validation(t *testing.T) {
	f := newFixture(t)
	c := f.category(t, "Tools")
	f.product(t, input("Hammer", c.ID, "1", 1))

	long := make([]byte, 5001)
	for i := range long {
		long[i] = 'x'
	}

	tests := []struct {
		name   string
		in     ProductInput
		fields map[string]string
	}{
		{
			name: "empty payload",
			in:   ProductInput{},
			fields: map[string]string{
				"name":        "The product name is required.",
				"category_id": "Please select a category.",
				"price":       "The product price is required.",
				"stock":       "The stock quantity is required.",
			},
		},
		{
			name:   "duplicate name",
			in:     input("Hammer", c.ID, "1", 1),
			fields: map[string]string{"name": "A product with this name already exists."},
		},
		{
			name:   "unknown category",
			in:     input("Drill", 999, "1", 1),
			fields: map[string]string{"category_id": "The selected category does not exist."},
		},
		{
			name:   "negative price",
			in:     input("Drill", c.ID, "-1", 1),
			fields: map[string]string{"price": "The product price must be at least $0.00."},
		},
		{
			name:   "price too high",
			in:     input("Drill", c.ID, "1000000", 1),
			fields: map[string]string{"price": "The product price cannot exceed $999,999.99."},
		},
		{
			name:   "price below one cent",
			in:     input("Drill", c.ID, "0.005", 1),
			fields: map[string]string{"price": "Product price must be at least $0.01"},
		},
		{
			name:   "zero stock accepted",
			in:     input("Drill", c.ID, "1", 0),
			fields: nil,
		},
		{
			name: "stock out of range",
			in: ProductInput{
				Name: str("Drill"), CategoryID: num(c.ID), Price: num("1"), Stock: num(1000000),
			},
			fields: map[string]string{"stock": "The stock quantity cannot exceed 999,999."},
		},
		{
			name: "non integer stock",
			in: ProductInput{
				Name: str("Drill"), CategoryID: num(c.ID), Price: num("1"), Stock: num("1.5"),
			},
			fields: map[string]string{"stock": "The stock quantity must be an integer."},
		},
		{
			name: "description too long",
			in: ProductInput{
				Name: str("Drill"), CategoryID: num(c.ID), Price: num("1"), Stock: num(1), Description: str(string(long)),
			},
			fields: map[string]string{"description": "The product description may not be greater than 5000 characters."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateProduct(context.Background(), tt.in)
			if tt.fields == nil {
				require.NoError(t, err)
				_, _ = f.svc.DeleteProducts(context.Background(), idsOf(t, f, "Drill"))
				return
			}
			assert.Equal(t, validation.Errors(tt.fields), fieldErrors(t, err))
		})
	}

	page, err := f.svc.ListProducts(context.Background(), ListQuery{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total, "failed validations must not write")
}

func idsOf(t *testing.T, f fixture, name string) []int {
	t.Helper()
	p, err := f.svc.GetProductByName(context.Background(), name)
	require.NoError(t, err)
	return []int{p.ID}
}

func TestUpdateProduct_PartialKeepsOmittedFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tools := f.category(t, "Tools")
	garden := f.category(t, "Garden")

	in := input("Hammer", tools.ID, "9.99", 5)
	in.Description = str("steel head")
	created := f.product(t, in)

	updated, err := f.svc.UpdateProduct(ctx, created.ID, ProductInput{Price: num("19.90"), CategoryID: num(garden.ID)})
	require.NoError(t, err)

	assert.Equal(t, "Hammer", updated.Name)
	assert.Equal(t, "steel head", updated.Description)
	assert.Equal(t, 5, updated.Stock)
	assert.True(t, updated.Enabled)
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("19.9")))
	assert.Equal(t, garden.ID, updated.CategoryID)
	assert.Equal(t, "Garden", updated.CategoryName())
}

func TestUpdateProduct_NameUniquenessExcludesSelf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.category(t, "Tools")
	hammer := f.product(t, input("Hammer", c.ID, "1", 1))
	f.product(t, input("Saw", c.ID, "1", 1))

	_, err := f.svc.UpdateProduct(ctx, hammer.ID, ProductInput{Name: str("Hammer")})
	require.NoError(t, err)

	_, err = f.svc.UpdateProduct(ctx, hammer.ID, ProductInput{Name: str("Saw")})
	assert.Equal(t, validation.Errors{"name": "A product with this name already exists."}, fieldErrors(t, err))
}

func TestUpdateProduct_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.category(t, "Tools")
	p := f.product(t, input("Hammer", c.ID, "1", 1))

	_, err := f.svc.UpdateProduct(ctx, 999, ProductInput{Name: str("Ghost")})
	assert.ErrorIs(t, err, repo.ErrProductNotFound)

	_, err = f.svc.DeleteProducts(ctx, []int{p.ID})
	require.NoError(t, err)

	_, err = f.svc.UpdateProduct(ctx, p.ID, ProductInput{Name: str("Revived")})
	assert.ErrorIs(t, err, repo.ErrProductNotFound, "soft deleted products cannot be updated")
}

func TestDeleteProducts_SoftDeletes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.category(t, "Tools")
	hammer := f.product(t, input("Hammer", c.ID, "9.99", 5))
	saw := f.product(t, input("Saw", c.ID, "5", 1))

	deleted, err := f.svc.DeleteProducts(ctx, []int{hammer.ID, 4242})
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	page, err := f.svc.ListProducts(ctx, ListQuery{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, saw.ID, page.Items[0].ID)

	_, err = f.svc.GetProductByName(ctx, "Hammer")
	assert.ErrorIs(t, err, repo.ErrProductNotFound)

	stored, ok := f.products.Stored(hammer.ID)
	require.True(t, ok, "soft deleted row must remain in the store")
	assert.Equal(t, models.StatusDeleted, stored.Status)
	require.NotNil(t, stored.DeletedAt)

	_, err = f.svc.DeleteProducts(ctx, []int{hammer.ID})
	assert.ErrorIs(t, err, repo.ErrProductNotFound)

	_, err = f.svc.DeleteProducts(ctx, nil)
	assert.ErrorIs(t, err, repo.ErrProductNotFound)
}

func TestDeletedNameCanBeReused(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.category(t, "Tools")
	p := f.product(t, input("Hammer", c.ID, "1", 1))

	_, err := f.svc.DeleteProducts(ctx, []int{p.ID})
	require.NoError(t, err)

	again := f.product(t, input("Hammer", c.ID, "2", 2))
	assert.NotEqual(t, p.ID, again.ID)
}

func TestListProducts_Pagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.category(t, "Tools")
	for i := 1; i <= 23; i++ {
		f.product(t, input(fmt.Sprintf("Item %02d", i), c.ID, "1", i))
	}

	page, err := f.svc.ListProducts(ctx, ListQuery{Page: 3, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 23, page.Total)
	assert.Equal(t, 3, page.LastPage)
	assert.Equal(t, 3, page.CurrentPage)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "Item 21", page.Items[0].Name)
	require.NotNil(t, page.From)
	require.NotNil(t, page.To)
	assert.Equal(t, 21, *page.From)
	assert.Equal(t, 23, *page.To)

	beyond, err := f.svc.ListProducts(ctx, ListQuery{Page: 4, PerPage: 10})
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.Equal(t, 23, beyond.Total)
	assert.Equal(t, 3, beyond.LastPage)
	assert.Nil(t, beyond.From)
	assert.Nil(t, beyond.To)

	for _, perPage := range []int{1, 2, 5, 7, 23, 50} {
		p, err := f.svc.ListProducts(ctx, ListQuery{Page: 1, PerPage: perPage})
		require.NoError(t, err)
		assert.Equal(t, (23+perPage-1)/perPage, p.LastPage, "per_page=%d", perPage)
	}
}

func TestListProducts_HugePageIsPastTheEnd(t *testing.T) {
	f := newFixture(t)
	c := f.category(t, "Tools")
	f.product(t, input("Only", c.ID, "1", 1))

	q, err := ParseListQuery(url.Values{"page": {"4611686018427387905"}, "per_page": {"10"}})
	require.NoError(t, err)

	page, err := f.svc.ListProducts(context.Background(), q)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 1, page.LastPage)
	assert.Nil(t, page.From)
	assert.Nil(t, page.To)

	page, err = f.svc.ListProducts(context.Background(), ListQuery{Page: math.MaxInt, PerPage: MaxPerPage})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestListProducts_EmptyStore(t *testing.T) {
	f := newFixture(t)
	page, err := f.svc.ListProducts(context.Background(), ListQuery{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Zero(t, page.LastPage)
	assert.Empty(t, page.Items)
}

func TestListProducts_FilterConjunction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tools := f.category(t, "Tools")
	garden := f.category(t, "Garden")

	mk := func(name string, categoryID int, enabled bool) {
		in := input(name, categoryID, "1", 1)
		in.Enabled = boolean(enabled)
		f.product(t, in)
	}
	mk("A", tools.ID, true)
	mk("B", tools.ID, false)
	mk("C", garden.ID, true)
	mk("D", garden.ID, false)
	mk("E", tools.ID, true)

	names := func(q ListQuery) map[string]bool {
		q.Page, q.PerPage = 1, 100
		page, err := f.svc.ListProducts(ctx, q)
		require.NoError(t, err)
		out := map[string]bool{}
		for _, p := range page.Items {
			out[p.Name] = true
		}
		return out
	}

	byCategory := names(ListQuery{CategoryID: &tools.ID})
	byEnabled := names(ListQuery{Enabled: boolean(true)})
	both := names(ListQuery{CategoryID: &tools.ID, Enabled: boolean(true)})

	intersection := map[string]bool{}
	for n := range byCategory {
		if byEnabled[n] {
			intersection[n] = true
		}
	}
	assert.Equal(t, intersection, both)
	assert.Equal(t, map[string]bool{"A": true, "E": true}, both)
	assert.Len(t, names(ListQuery{}), 5)
}

func TestParseListQuery(t *testing.T) {
	q, err := ParseListQuery(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, ListQuery{Page: 1, PerPage: DefaultPerPage}, q)

	q, err = ParseListQuery(url.Values{"category_id": {"3"}, "enabled": {"false"}, "page": {"2"}, "per_page": {"500"}})
	require.NoError(t, err)
	require.NotNil(t, q.CategoryID)
	require.NotNil(t, q.Enabled)
	assert.Equal(t, 3, *q.CategoryID)
	assert.False(t, *q.Enabled)
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, MaxPerPage, q.PerPage)

	_, err = ParseListQuery(url.Values{"per_page": {"0"}, "page": {"-1"}, "enabled": {"maybe"}, "category_id": {"x"}})
	verrs := fieldErrors(t, err)
	assert.Equal(t, "The per page value must be at least 1.", verrs["per_page"])
	assert.Equal(t, "The page must be at least 1.", verrs["page"])
	assert.Contains(t, verrs, "enabled")
	assert.Contains(t, verrs, "category_id")
}

func TestCreateCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateCategory(ctx, CategoryInput{Name: "   "})
	assert.Equal(t, validation.Errors{"name": "The category name is required."}, fieldErrors(t, err))

	c, err := f.svc.CreateCategory(ctx, CategoryInput{Name: " Tools "})
	require.NoError(t, err)
	assert.Equal(t, "Tools", c.Name)

	got, err := f.svc.GetCategory(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)

	_, err = f.svc.GetCategory(ctx, 99)
	assert.ErrorIs(t, err, repo.ErrCategoryNotFound)
}

func TestAdjustStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.category(t, "Tools")
	p := f.product(t, input("Hammer", c.ID, "1", 5))

	adjusted, err := f.svc.AdjustStock(ctx, p.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 15, adjusted.Stock)

	_, err = f.svc.AdjustStock(ctx, p.ID, -16)
	assert.Contains(t, fieldErrors(t, err), "delta")

	_, err = f.svc.AdjustStock(ctx, 999, 1)
	assert.ErrorIs(t, err, repo.ErrProductNotFound)
}

func TestExportRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.category(t, "Tools")
	a := f.product(t, input("A", c.ID, "10", 1))
	in := input("B", c.ID, "2.5", 2)
	in.Enabled = boolean(false)
	b := f.product(t, in)
	deleted := f.product(t, input("C", c.ID, "3", 3))
	_, err := f.svc.DeleteProducts(ctx, []int{deleted.ID})
	require.NoError(t, err)

	rows, err := f.svc.ExportRows(ctx, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, a.ID, rows[0].ID)
	assert.Equal(t, "10.00", rows[0].Price)
	assert.Equal(t, "Tools", rows[0].Category)
	assert.Equal(t, "Enabled", rows[0].Status)
	assert.Equal(t, "2.50", rows[1].Price)
	assert.Equal(t, "Disabled", rows[1].Status)

	rows, err = f.svc.ExportRows(ctx, []int{b.ID, deleted.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, b.ID, rows[0].ID)
}

func TestNewExportRow_NoCategory(t *testing.T) {
	ts := time.Date(2024, 3, 1, 14, 5, 9, 0, time.UTC)
	row := NewExportRow(models.Product{
		ID: 7, Name: "Orphan", Price: decimal.RequireFromString("3"), Stock: 2,
		Enabled: true, CreatedAt: ts, UpdatedAt: ts,
	})
	assert.Equal(t, "No Category", row.Category)
	assert.Equal(t, "3.00", row.Price)
	assert.Equal(t, "2024-03-01 14:05:09", row.CreatedAt)
	assert.Equal(t, []string{"7", "Orphan", "No Category", "", "3.00", "2", "Enabled", "2024-03-01 14:05:09", "2024-03-01 14:05:09"}, row.Strings())
}

func TestImportProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.category(t, "Tools")
	f.product(t, input("Hammer", c.ID, "1", 1))

	rows := []ImportRow{
		{Line: 2, Input: input("Saw", c.ID, "4", 4)},
		{Line: 3, Input: ProductInput{Name: str("Hammer"), Stock: num(50)}},
		{Line: 4, Input: ProductInput{Name: str("")}},
	}

	res, err := f.svc.ImportProducts(ctx, rows, ImportSkip)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	require.NotEmpty(t, res.Errors)
	assert.Equal(t, 3, res.Errors[0].Row)
	assert.Equal(t, "name", res.Errors[0].Field)

	res, err = f.svc.ImportProducts(ctx, rows[1:2], ImportUpdate)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Empty(t, res.Errors)

	hammer, err := f.svc.GetProductByName(ctx, "Hammer")
	require.NoError(t, err)
	assert.Equal(t, 50, hammer.Stock)
}
