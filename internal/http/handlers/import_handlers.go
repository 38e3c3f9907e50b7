package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/rogerio-castellano/catalog-manager/internal/catalog"
)

var importColumns = []string{"name", "category_id", "description", "price", "stock", "enabled"}

// parseCSV reads an import file. Empty cells and missing columns leave the
// corresponding input field unset. Cells that cannot be represented at all
// are reported as row errors instead of rows.
func parseCSV(file io.Reader) ([]catalog.ImportRow, []catalog.ImportError, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := index["name"]; !ok {
		return nil, nil, fmt.Errorf("CSV header must include a name column, known columns: %s", strings.Join(importColumns, ","))
	}

	var rows []catalog.ImportRow
	var rowErrors []catalog.ImportError
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, nil, fmt.Errorf("CSV read error: %v", err)
		}

		cell := func(column string) (string, bool) {
			i, ok := index[column]
			if !ok || i >= len(record) {
				return "", false
			}
			v := strings.TrimSpace(record[i])
			return v, v != ""
		}

		var in catalog.ProductInput
		if v, ok := cell("name"); ok {
			in.Name = &v
		}
		if v, ok := cell("description"); ok {
			in.Description = &v
		}
		for column, target := range map[string]**json.Number{"category_id": &in.CategoryID, "price": &in.Price, "stock": &in.Stock} {
			if v, ok := cell(column); ok {
				n := json.Number(v)
				*target = &n
			}
		}
		if v, ok := cell("enabled"); ok {
			enabled, ok := parseCSVBool(v)
			if !ok {
				rowErrors = append(rowErrors, catalog.ImportError{Row: line, Field: "enabled", Description: "The enabled field must be true or false."})
				continue
			}
			in.Enabled = &enabled
		}

		rows = append(rows, catalog.ImportRow{Line: line, Input: in})
	}
	return rows, rowErrors, nil
}

func parseCSVBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "1", "true", "yes":
		return true, true
	case "0", "false", "no":
		return false, true
	}
	return false, false
}

// ImportProductsHandler godoc
// @Summary Import products via CSV
// @Description Header: name,category_id,description,price,stock,enabled. Rows go through the same validation as create/update.
// @Tags products
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file"
// @Param mode query string false "Import mode (skip|update)"
// @Success 200 {object} catalog.ImportResult
// @Failure 400 {object} ErrorResponse "Invalid file"
// @Failure 401 {object} ErrorResponse
// @Router /products/import [post]
func ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	mode := catalog.ImportMode(strings.ToLower(r.URL.Query().Get("mode")))
	if mode != catalog.ImportUpdate {
		mode = catalog.ImportSkip // default
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond(w, r, http.StatusBadRequest, ErrorResponse{Message: "missing file"})
		return
	}
	defer file.Close()

	rows, rowErrors, err := parseCSV(file)
	if err != nil {
		respond(w, r, http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	result, err := catalogService.ImportProducts(r.Context(), rows, mode)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result.Errors = append(result.Errors, rowErrors...)
	sort.SliceStable(result.Errors, func(i, j int) bool { return result.Errors[i].Row < result.Errors[j].Row })

	respond(w, r, http.StatusOK, result)
}
