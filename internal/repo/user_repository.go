package repo

import (
	"context"

	"github.com/rogerio-castellano/catalog-manager/internal/models"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id int) (models.User, error)
	CreateUser(ctx context.Context, u models.User) (models.User, error)
}
