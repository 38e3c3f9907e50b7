package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/rogerio-castellano/catalog-manager/internal/repo"
	"github.com/rogerio-castellano/catalog-manager/internal/validation"
)

const (
	maxNameLength        = 255
	maxDescriptionLength = 5000
	MaxStock             = 999999
)

var (
	MaxPrice = decimal.RequireFromString("999999.99")
	minPrice = decimal.RequireFromString("0.01")
)

// ProductInput is the create/update payload. A nil field was not sent:
// create requires name, category_id, price and stock, update keeps the stored value.
type ProductInput struct {
	Name        *string      `json:"name"`
	CategoryID  *json.Number `json:"category_id" swaggertype:"integer"`
	Description *string      `json:"description"`
	Price       *json.Number `json:"price" swaggertype:"number"`
	Stock       *json.Number `json:"stock" swaggertype:"integer"`
	Enabled     *bool        `json:"enabled"`
}

func asInt(n *json.Number) (int, bool) {
	if n == nil {
		return 0, false
	}
	v, err := strconv.Atoi(n.String())
	return v, err == nil
}

func asDecimal(n *json.Number) (decimal.Decimal, bool) {
	if n == nil {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(n.String())
	return d, err == nil
}

// productRules builds the rule list for in. With create set, the required fields
// must be present; otherwise only the fields that were sent are checked.
// selfID is excluded from the name uniqueness check. Store failures hit while
// evaluating a rule are reported through storeErr and make the rule pass.
func (s *Service) productRules(ctx context.Context, in ProductInput, create bool, selfID int, storeErr *error) validation.Rules {
	var rules validation.Rules

	if create || in.Name != nil {
		name := ""
		if in.Name != nil {
			name = strings.TrimSpace(*in.Name)
		}
		rules.Add("name", "The product name is required.", func() bool { return name != "" })
		rules.Add("name", "The product name may not be greater than 255 characters.", func() bool {
			return utf8.RuneCountInString(name) <= maxNameLength
		})
		rules.Add("name", "A product with this name already exists.", func() bool {
			taken, err := s.products.NameExists(ctx, name, selfID)
			if err != nil {
				*storeErr = err
				return true
			}
			return !taken
		})
	}

	if create || in.CategoryID != nil {
		rules.Add("category_id", "Please select a category.", func() bool {
			return in.CategoryID != nil && in.CategoryID.String() != ""
		})
		rules.Add("category_id", "The category must be an integer.", func() bool {
			_, ok := asInt(in.CategoryID)
			return ok
		})
		rules.Add("category_id", "The selected category does not exist.", func() bool {
			id, _ := asInt(in.CategoryID)
			_, err := s.categories.GetByID(ctx, id)
			if err != nil && !errors.Is(err, repo.ErrCategoryNotFound) {
				*storeErr = err
				return true
			}
			return err == nil
		})
	}

	if in.Description != nil {
		rules.Add("description", "The product description may not be greater than 5000 characters.", func() bool {
			return utf8.RuneCountInString(*in.Description) <= maxDescriptionLength
		})
	}

	if create || in.Price != nil {
		price, numeric := asDecimal(in.Price)
		rules.Add("price", "The product price is required.", func() bool {
			return in.Price != nil && in.Price.String() != ""
		})
		rules.Add("price", "The product price must be a number.", func() bool { return numeric })
		rules.Add("price", "The product price must be at least $0.00.", func() bool { return !price.IsNegative() })
		rules.Add("price", "The product price cannot exceed $999,999.99.", func() bool { return price.LessThanOrEqual(MaxPrice) })
		rules.Add("price", "Product price must be at least $0.01", func() bool {
			return price.IsZero() || price.GreaterThanOrEqual(minPrice)
		})
		rules.Add("price", "The product price may not have more than 2 decimal places.", func() bool {
			return price.Equal(price.Round(2))
		})
	}

	if create || in.Stock != nil {
		stock, integer := asInt(in.Stock)
		rules.Add("stock", "The stock quantity is required.", func() bool {
			return in.Stock != nil && in.Stock.String() != ""
		})
		rules.Add("stock", "The stock quantity must be an integer.", func() bool { return integer })
		rules.Add("stock", "The stock quantity cannot be negative.", func() bool { return stock >= 0 })
		rules.Add("stock", "The stock quantity cannot exceed 999,999.", func() bool { return stock <= MaxStock })
	}

	return rules
}

func (s *Service) validateProduct(ctx context.Context, in ProductInput, create bool, selfID int) error {
	var storeErr error
	err := s.productRules(ctx, in, create, selfID, &storeErr).Validate()
	if storeErr != nil {
		return storeErr
	}
	return err
}
