// Package catalog holds the product listing engine and the mutation gateway.
//
// Handlers and the CSV importer talk to Service only; Service talks to the
// repositories and never sees HTTP types. Validation failures are returned as
// validation.Errors, missing rows as the repo sentinel errors.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rogerio-castellano/catalog-manager/internal/models"
	"github.com/rogerio-castellano/catalog-manager/internal/repo"
	"github.com/rogerio-castellano/catalog-manager/internal/validation"
)

type Service struct {
	products   repo.ProductRepository
	categories repo.CategoryRepository
	log        logrus.FieldLogger
}

func NewService(products repo.ProductRepository, categories repo.CategoryRepository, logger logrus.FieldLogger) *Service {
	return &Service{
		products:   products,
		categories: categories,
		log:        logger,
	}
}

func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categories.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *Service) GetCategory(ctx context.Context, id int) (models.Category, error) {
	return s.categories.GetByID(ctx, id)
}

type CategoryInput struct {
	Name string `json:"name"`
}

func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (models.Category, error) {
	name := strings.TrimSpace(in.Name)

	var rules validation.Rules
	rules.Add("name", "The category name is required.", func() bool { return name != "" })
	rules.Add("name", "The category name may not be greater than 255 characters.", func() bool { return len([]rune(name)) <= maxNameLength })
	if err := rules.Validate(); err != nil {
		return models.Category{}, err
	}

	created, err := s.categories.Create(ctx, models.Category{Name: name})
	if err != nil {
		return models.Category{}, fmt.Errorf("create category: %w", err)
	}
	s.log.WithFields(logrus.Fields{"category_id": created.ID, "name": created.Name}).Info("category created")
	return created, nil
}

// GetProductByName looks a live product up by its exact name.
func (s *Service) GetProductByName(ctx context.Context, name string) (models.Product, error) {
	return s.products.GetByName(ctx, name)
}
