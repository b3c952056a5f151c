package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SnoopySong/nexaweb/internal/model"
	"github.com/SnoopySong/nexaweb/internal/service"
)

// AnalyticsHandler handles page-view tracking and the traffic dashboard.
type AnalyticsHandler struct {
	analytics service.AnalyticsService
}

// NewAnalyticsHandler creates an AnalyticsHandler.
func NewAnalyticsHandler(analytics service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

type pageViewRequest struct {
	Path string `json:"path" validate:"required,max=255"`
}

func headerPtr(r *http.Request, name string) *string {
	v := r.Header.Get(name)
	if v == "" {
		return nil
	}
	return &v
}

// RecordPageView handles POST /api/analytics/pageview (public).
// Tracking is best effort: every failure is logged and the client still gets 201.
func (h *AnalyticsHandler) RecordPageView(w http.ResponseWriter, r *http.Request) {
	var req pageViewRequest
	switch err := json.NewDecoder(r.Body).Decode(&req); {
	case err != nil:
		slog.Debug("pageview: undecodable body", "error", err)
	case validate.Struct(&req) != nil:
		slog.Debug("pageview: invalid path", "path", req.Path)
	default:
		if _, err := h.analytics.RecordPageView(r.Context(), req.Path, headerPtr(r, "User-Agent"), headerPtr(r, "Referer")); err != nil {
			slog.Error("record page view failed", "path", req.Path, "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// Stats handles GET /api/analytics/stats (admin). ?days=N sets the month window.
func (h *AnalyticsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	days := model.DefaultStatsWindowDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_days"})
			return
		}
		days = service.ClampWindowDays(n)
	}

	stats, err := h.analytics.Stats(r.Context(), days)
	if err != nil {
		slog.Error("page view stats failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "stats_failed"})
		return
	}
	_ = json.NewEncoder(w).Encode(stats)
}
