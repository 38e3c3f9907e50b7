// Package export encodes catalog export rows as xlsx, csv or json documents.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rogerio-castellano/catalog-manager/internal/catalog"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// SheetName is the worksheet holding the rows in xlsx documents.
const SheetName = "Products"

// Headings is the header row shared by the xlsx and csv encodings.
var Headings = []string{"ID", "Name", "Category", "Description", "Price", "Stock", "Status", "Created At", "Updated At"}

var ErrUnknownFormat = errors.New("format must be 'xlsx', 'csv' or 'json'")

// ParseFormat maps a format query value to a Format. An empty value selects xlsx.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", ErrUnknownFormat
}

func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatJSON:
		return "application/json"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}

// Filename is the attachment name offered to clients, e.g. products.xlsx.
func (f Format) Filename() string {
	return "products." + string(f)
}

// Write encodes rows to w in format f.
func Write(w io.Writer, f Format, rows []catalog.ExportRow) error {
	switch f {
	case FormatXLSX:
		return WriteXLSX(w, rows)
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatJSON:
		return WriteJSON(w, rows)
	}
	return ErrUnknownFormat
}

func WriteXLSX(w io.Writer, rows []catalog.ExportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(Headings))
	for i, h := range Headings {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{r.ID, r.Name, r.Category, r.Description, r.Price, r.Stock, r.Status, r.CreatedAt, r.UpdatedAt}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", r.ID, err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "I", 20); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func WriteCSV(w io.Writer, rows []catalog.ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Headings); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.Strings()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteJSON(w io.Writer, rows []catalog.ExportRow) error {
	if rows == nil {
		rows = []catalog.ExportRow{}
	}
	return json.NewEncoder(w).Encode(rows)
}
