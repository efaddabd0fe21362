package handlers

import (
	"net/http"

	"github.com/wonny/marketboard/internal/dashboard"
)

// DashboardHandler serves the demo chart datasets
type DashboardHandler struct {
	samples *dashboard.Samples
	auto    *dashboard.AutoFeed
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(samples *dashboard.Samples, auto *dashboard.AutoFeed) *DashboardHandler {
	return &DashboardHandler{samples: samples, auto: auto}
}

// GET /api/metrics
func (h *DashboardHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.samples.Metrics())
}

// GET /api/market_overview
func (h *DashboardHandler) MarketOverview(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.samples.MarketOverview())
}

// GET /api/weekly
func (h *DashboardHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.samples.Weekly())
}

// GET /api/random_timeseries
func (h *DashboardHandler) RandomTimeseries(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.samples.RandomTimeseries())
}

// AutoData returns the auto-sector table, forwarding the query upstream
// GET /api/auto_data
func (h *DashboardHandler) AutoData(w http.ResponseWriter, r *http.Request) {
	rows := h.auto.Rows(r.Context(), r.URL.Query())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"data": rows,
	})
}
