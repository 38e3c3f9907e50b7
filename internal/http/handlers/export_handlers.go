package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/rogerio-castellano/catalog-manager/internal/export"
	"github.com/rogerio-castellano/catalog-manager/internal/validation"
)

// ExportProductsHandler godoc
// @Summary Export products
// @Description Spreadsheet of live products ordered by id, optionally restricted to ids
// @Tags products
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet, text/csv, application/json
// @Security BearerAuth
// @Param ids query string false "Comma separated product ids"
// @Param format query string false "Export format (xlsx, csv or json; default xlsx)"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /products-export [get]
func ExportProductsHandler(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		respond(w, r, http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	ids, err := parseIDList(r.URL.Query().Get("ids"))
	if err != nil {
		writeError(w, r, validation.Single("ids", "The ids must be a comma separated list of integers."))
		return
	}

	rows, err := catalogService.ExportRows(r.Context(), ids)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, rows); err != nil {
		writeError(w, r, fmt.Errorf("encode %s export: %w", format, err))
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, format.Filename()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.WithError(err).Warn("failed to stream export")
	}
}
