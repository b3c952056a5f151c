package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Health handles GET /api/health. The ping failure cause is logged, not returned.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := h.db.Ping(r.Context()); err != nil {
		slog.Error("health check: database ping failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(healthResponse{
			Status:  "unhealthy",
			Message: "database unavailable",
		})
		return
	}

	_ = json.NewEncoder(w).Encode(healthResponse{
		Status:  "ok",
		Message: "nexaweb API",
	})
}
