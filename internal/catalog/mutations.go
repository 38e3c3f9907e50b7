package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rogerio-castellano/catalog-manager/internal/models"
	"github.com/rogerio-castellano/catalog-manager/internal/repo"
	"github.com/rogerio-castellano/catalog-manager/internal/validation"
)

// CreateProduct validates in and stores a new product. Enabled defaults to true
// and description to "" when omitted. Nothing is written when validation fails.
func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (models.Product, error) {
	if err := s.validateProduct(ctx, in, true, 0); err != nil {
		return models.Product{}, err
	}

	product := models.Product{Enabled: true}
	applyInput(&product, in)

	created, err := s.products.Create(ctx, product)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			return models.Product{}, validation.Single("name", "A product with this name already exists.")
		}
		return models.Product{}, fmt.Errorf("create product: %w", err)
	}

	s.log.WithFields(logrus.Fields{"product_id": created.ID, "name": created.Name}).Info("product created")
	return created, nil
}

// UpdateProduct applies the fields present in in to the live product id.
// Absent fields keep their stored values.
func (s *Service) UpdateProduct(ctx context.Context, id int, in ProductInput) (models.Product, error) {
	current, err := s.products.GetByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	if err := s.validateProduct(ctx, in, false, id); err != nil {
		return models.Product{}, err
	}

	applyInput(&current, in)
	current.Category = nil

	updated, err := s.products.Update(ctx, current)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			return models.Product{}, validation.Single("name", "A product with this name already exists.")
		}
		if errors.Is(err, repo.ErrProductNotFound) {
			return models.Product{}, err
		}
		return models.Product{}, fmt.Errorf("update product %d: %w", id, err)
	}

	s.log.WithField("product_id", id).Info("product updated")
	return updated, nil
}

// applyInput copies the present fields of an already validated input onto p.
func applyInput(p *models.Product, in ProductInput) {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if id, ok := asInt(in.CategoryID); ok {
		p.CategoryID = id
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if price, ok := asDecimal(in.Price); ok {
		p.Price = price.Round(2)
	}
	if stock, ok := asInt(in.Stock); ok {
		p.Stock = stock
	}
	if in.Enabled != nil {
		p.Enabled = *in.Enabled
	}
}

// DeleteProducts soft deletes the live products in ids and returns how many were deleted.
// repo.ErrProductNotFound is returned when none matched.
func (s *Service) DeleteProducts(ctx context.Context, ids []int) (int, error) {
	if len(ids) == 0 {
		return 0, repo.ErrProductNotFound
	}

	deleted, err := s.products.SoftDelete(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("delete products: %w", err)
	}
	if deleted == 0 {
		return 0, repo.ErrProductNotFound
	}

	s.log.WithFields(logrus.Fields{"requested": len(ids), "deleted": deleted}).Info("products soft deleted")
	return deleted, nil
}

// AdjustStock adds delta to the stock of product id. The result must stay within [0, MaxStock].
func (s *Service) AdjustStock(ctx context.Context, id, delta int) (models.Product, error) {
	product, err := s.products.AdjustStock(ctx, id, delta, MaxStock)
	if err != nil {
		if errors.Is(err, repo.ErrInvalidQuantityChange) {
			return models.Product{}, validation.Single("delta", "The stock quantity must stay between 0 and 999,999.")
		}
		if errors.Is(err, repo.ErrProductNotFound) {
			return models.Product{}, err
		}
		return models.Product{}, fmt.Errorf("adjust stock of product %d: %w", id, err)
	}

	if product.IsLowStock() {
		s.log.WithFields(logrus.Fields{"product_id": product.ID, "stock": product.Stock}).Warn("product is low on stock")
	}
	return product, nil
}
