package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/models"
	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/utils"
)

// Store defines the read operations backing the admin endpoints.
type Store interface {
	RecentAlerts(ctx context.Context, limit int, category, severity string) ([]models.Alert, error)
	RecentAggregates(ctx context.Context, since time.Time, limit int) ([]models.AggregatedMetrics, error)
}

type handlers struct {
	store  Store
	logger *slog.Logger
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// alerts returns recent system_alerts records, newest first.
// Query params: limit, category, severity.
func (h *handlers) alerts(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	category := r.URL.Query().Get("category")
	severity := r.URL.Query().Get("severity")

	alerts, err := h.store.RecentAlerts(r.Context(), limit, category, severity)
	if err != nil {
		h.logger.Error("list alerts failed", slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list alerts"})
		return
	}
	if alerts == nil {
		alerts = []models.Alert{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts})
}

// aggregates returns aggregation snapshots for trend charts.
// Query params: since (RFC3339, default one hour back), limit.
func (h *handlers) aggregates(w http.ResponseWriter, r *http.Request) {
	since := time.Now().Add(-time.Hour)
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := utils.ParseRFC3339(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "since must be RFC3339"})
			return
		}
		since = parsed
	}
	limit := queryInt(r, "limit", 100)

	aggregates, err := h.store.RecentAggregates(r.Context(), since, limit)
	if err != nil {
		h.logger.Error("list aggregated metrics failed", slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list aggregated metrics"})
		return
	}
	if aggregates == nil {
		aggregates = []models.AggregatedMetrics{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"aggregates": aggregates})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
