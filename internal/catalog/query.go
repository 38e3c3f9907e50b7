package catalog

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/catalog-manager/internal/models"
	"github.com/rogerio-castellano/catalog-manager/internal/repo"
	"github.com/rogerio-castellano/catalog-manager/internal/validation"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// ListQuery selects one page of live products. Nil filters are not applied.
type ListQuery struct {
	CategoryID *int
	Enabled    *bool
	Page       int
	PerPage    int
}

// Page is one window of the filtered product list plus its pagination metadata.
// From and To are 1-based positions of the first and last row, nil when Items is empty.
type Page struct {
	Items       []models.Product
	CurrentPage int
	PerPage     int
	Total       int
	LastPage    int
	From        *int
	To          *int
}

// ParseListQuery reads category_id, enabled, page and per_page from query string values.
// Missing page and per_page default to 1 and DefaultPerPage; per_page above MaxPerPage is clamped.
func ParseListQuery(values url.Values) (ListQuery, error) {
	q := ListQuery{Page: 1, PerPage: DefaultPerPage}
	var rules validation.Rules

	if raw := strings.TrimSpace(values.Get("category_id")); raw != "" {
		id, err := strconv.Atoi(raw)
		rules.Add("category_id", "The category must be an integer.", func() bool { return err == nil })
		if err == nil {
			q.CategoryID = &id
		}
	}

	if raw := strings.TrimSpace(values.Get("enabled")); raw != "" {
		enabled, err := parseBool(raw)
		rules.Add("enabled", "The enabled filter must be true or false.", func() bool { return err == nil })
		if err == nil {
			q.Enabled = &enabled
		}
	}

	if raw := strings.TrimSpace(values.Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		rules.Add("page", "The page must be an integer.", func() bool { return err == nil })
		rules.Add("page", "The page must be at least 1.", func() bool { return page >= 1 })
		q.Page = page
	}

	if raw := strings.TrimSpace(values.Get("per_page")); raw != "" {
		perPage, err := strconv.Atoi(raw)
		rules.Add("per_page", "The per page value must be an integer.", func() bool { return err == nil })
		rules.Add("per_page", "The per page value must be at least 1.", func() bool { return perPage >= 1 })
		q.PerPage = min(perPage, MaxPerPage)
	}

	if err := rules.Validate(); err != nil {
		return ListQuery{}, err
	}
	return q, nil
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", raw)
}

// ListProducts returns the requested page of live products ordered by id.
// A page past the last one yields no items but keeps the totals.
func (s *Service) ListProducts(ctx context.Context, q ListQuery) (Page, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = DefaultPerPage
	}

	products, total, err := s.products.Filter(ctx, repo.ProductFilter{
		CategoryID: q.CategoryID,
		Enabled:    q.Enabled,
		Offset:     pageOffset(q.Page, q.PerPage),
		Limit:      q.PerPage,
	})
	if err != nil {
		return Page{}, fmt.Errorf("filter products: %w", err)
	}

	page := Page{
		Items:       products,
		CurrentPage: q.Page,
		PerPage:     q.PerPage,
		Total:       total,
		LastPage:    lastPage(total, q.PerPage),
	}
	if len(products) > 0 {
		from := pageOffset(q.Page, q.PerPage) + 1
		to := from + len(products) - 1
		page.From = &from
		page.To = &to
	}
	return page, nil
}

// pageOffset saturates at math.MaxInt so a huge page lands past the end
// instead of wrapping around to a negative offset.
func pageOffset(page, perPage int) int {
	if page-1 > math.MaxInt/perPage {
		return math.MaxInt
	}
	return (page - 1) * perPage
}

func lastPage(total, perPage int) int {
	return (total + perPage - 1) / perPage
}
