package catalog

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rogerio-castellano/catalog-manager/internal/models"
)

// ExportTimeLayout is the timestamp format used in exported rows.
const ExportTimeLayout = "2006-01-02 15:04:05"

// ExportRow is one product flattened for spreadsheet encoding.
type ExportRow struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// Strings returns the row cells in column order.
func (r ExportRow) Strings() []string {
	return []string{
		strconv.Itoa(r.ID),
		r.Name,
		r.Category,
		r.Description,
		r.Price,
		strconv.Itoa(r.Stock),
		r.Status,
		r.CreatedAt,
		r.UpdatedAt,
	}
}

func NewExportRow(p models.Product) ExportRow {
	category := p.CategoryName()
	if category == "" {
		category = "No Category"
	}
	status := "Disabled"
	if p.Enabled {
		status = "Enabled"
	}
	return ExportRow{
		ID:          p.ID,
		Name:        p.Name,
		Category:    category,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Stock:       p.Stock,
		Status:      status,
		CreatedAt:   p.CreatedAt.Format(ExportTimeLayout),
		UpdatedAt:   p.UpdatedAt.Format(ExportTimeLayout),
	}
}

// ExportRows returns live products ordered by id, restricted to ids when ids is not nil.
func (s *Service) ExportRows(ctx context.Context, ids []int) ([]ExportRow, error) {
	products, err := s.products.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list products for export: %w", err)
	}

	rows := make([]ExportRow, len(products))
	for i, p := range products {
		rows[i] = NewExportRow(p)
	}
	return rows, nil
}
