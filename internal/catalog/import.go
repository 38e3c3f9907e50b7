package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rogerio-castellano/catalog-manager/internal/repo"
	"github.com/rogerio-castellano/catalog-manager/internal/validation"
)

type ImportMode string

const (
	// ImportSkip reports rows whose name already exists.
	ImportSkip ImportMode = "skip"
	// ImportUpdate applies rows whose name already exists as partial updates.
	ImportUpdate ImportMode = "update"
)

// ImportRow is one parsed line of an import file. Line is the 1-based line number in the file.
type ImportRow struct {
	Line  int
	Input ProductInput
}

type ImportError struct {
	Row         int    `json:"row"`
	Field       string `json:"field,omitempty"`
	Description string `json:"description"`
}

type ImportResult struct {
	Imported int           `json:"imported"`
	Errors   []ImportError `json:"errors"`
}

// ImportProducts pushes every row through CreateProduct or UpdateProduct.
// Rows fail independently; store errors abort the import.
func (s *Service) ImportProducts(ctx context.Context, rows []ImportRow, mode ImportMode) (ImportResult, error) {
	result := ImportResult{Errors: []ImportError{}}

	for _, row := range rows {
		err := s.importRow(ctx, row, mode)
		if err == nil {
			result.Imported++
			continue
		}

		var verrs validation.Errors
		if !errors.As(err, &verrs) {
			return result, fmt.Errorf("import row %d: %w", row.Line, err)
		}
		fields := make([]string, 0, len(verrs))
		for f := range verrs {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			result.Errors = append(result.Errors, ImportError{Row: row.Line, Field: f, Description: verrs[f]})
		}
	}

	s.log.WithFields(logrus.Fields{"imported": result.Imported, "rejected_fields": len(result.Errors), "mode": mode}).Info("products imported")
	return result, nil
}

func (s *Service) importRow(ctx context.Context, row ImportRow, mode ImportMode) error {
	if row.Input.Name != nil {
		existing, err := s.products.GetByName(ctx, strings.TrimSpace(*row.Input.Name))
		switch {
		case err == nil:
			if mode != ImportUpdate {
				return validation.Single("name", fmt.Sprintf("product '%s' already exists", existing.Name))
			}
			_, err = s.UpdateProduct(ctx, existing.ID, row.Input)
			return err
		case !errors.Is(err, repo.ErrProductNotFound):
			return err
		}
	}

	_, err := s.CreateProduct(ctx, row.Input)
	return err
}
