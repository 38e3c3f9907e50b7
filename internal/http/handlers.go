package http

import (
	"encoding/json"
	"net/http"
)

func writeStatus(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.WithError(err).Error("failed to write JSON response")
	}
}

// HealthHandler godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, http.StatusOK, map[string]string{"status": "ok"})
}

func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
}

func MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, http.StatusMethodNotAllowed, map[string]string{"message": "Method Not Allowed"})
}
