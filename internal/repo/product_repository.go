package repo

import (
	"context"

	"github.com/rogerio-castellano/catalog-manager/internal/models"
)

// ProductRepository defines the interface for product data operations.
// Every read only sees live (not soft deleted) products.
type ProductRepository interface {
	Create(ctx context.Context, product models.Product) (models.Product, error)
	GetByID(ctx context.Context, id int) (models.Product, error)
	GetByName(ctx context.Context, name string) (models.Product, error)
	// NameExists reports whether a live product other than exceptID uses name.
	NameExists(ctx context.Context, name string, exceptID int) (bool, error)
	Update(ctx context.Context, product models.Product) (models.Product, error)
	// AdjustStock adds delta to the stock of a live product as long as the result stays within [0, max].
	AdjustStock(ctx context.Context, id, delta, max int) (models.Product, error)
	// SoftDelete marks the live products in ids as deleted and returns how many rows changed.
	SoftDelete(ctx context.Context, ids []int) (int, error)
	Filter(ctx context.Context, filter ProductFilter) ([]models.Product, int, error)
	// ListByIDs returns live products ordered by id. A nil ids slice means all of them.
	ListByIDs(ctx context.Context, ids []int) ([]models.Product, error)
}
