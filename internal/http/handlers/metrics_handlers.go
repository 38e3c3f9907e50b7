package handlers

import (
	"fmt"
	"net/http"
)

// GetDashboardMetricsHandler godoc
// @Summary Dashboard metrics for admin view
// @Description Counts over live products: totals, enabled, low stock (1..10), out of stock, and per-category counts
// @Tags metrics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} repo.Metrics
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /metrics/dashboard [get]
func GetDashboardMetricsHandler(w http.ResponseWriter, r *http.Request) {
	m, err := metricsRepo.GetDashboardMetrics(r.Context())
	if err != nil {
		writeError(w, r, fmt.Errorf("fetch dashboard metrics: %w", err))
		return
	}
	respond(w, r, http.StatusOK, m)
}
