package repo

import (
	"context"

	"github.com/rogerio-castellano/catalog-manager/internal/models"
)

type CategoryRepository interface {
	Create(ctx context.Context, category models.Category) (models.Category, error)
	GetAll(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id int) (models.Category, error)
}
