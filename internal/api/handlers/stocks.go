package handlers

import (
	"net/http"
	"strconv"

	"github.com/wonny/marketboard/internal/stocks"
	"github.com/wonny/marketboard/pkg/logger"
	"github.com/wonny/marketboard/pkg/metrics"
)

// StocksHandler serves ranked stock summaries from the current CSV snapshot
// ⭐ SSOT: 종목 요약 API 핸들러는 이 구조체에서만
type StocksHandler struct {
	store   *stocks.Store
	builder *stocks.Builder
	metrics *metrics.Recorder
	logger  *logger.Logger
}

// NewStocksHandler creates a new stocks handler
func NewStocksHandler(store *stocks.Store, builder *stocks.Builder, rec *metrics.Recorder, log *logger.Logger) *StocksHandler {
	return &StocksHandler{
		store:   store,
		builder: builder,
		metrics: rec,
		logger:  log,
	}
}

// GetStocks returns the summary payload
// GET /api/stocks?tickers=TCS,INFY&n=10
func (h *StocksHandler) GetStocks(w http.ResponseWriter, r *http.Request) {
	q := stocks.Query{
		Tickers: r.URL.Query().Get("tickers"),
		Limit:   parseLimit(r.URL.Query().Get("n")),
	}

	snap := h.store.Current()
	payload := h.builder.Build(snap.Dataset, snap.Source, q)
	h.metrics.RecordPayload(payload.Error != "")

	respondJSON(w, http.StatusOK, payload)
}

// Reload re-reads the CSV. The old snapshot keeps serving when it fails.
// POST /api/stocks/reload
func (h *StocksHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Reload(r.Context()); err != nil {
		h.logger.WithError(err).Error("Failed to reload stocks CSV")
		respondError(w, http.StatusInternalServerError, "Failed to reload stocks CSV")
		return
	}

	snap := h.store.Current()
	h.metrics.SetDatasetRows(snap.Dataset.Len())

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "reloaded",
		"source":    snap.Source,
		"rows":      snap.Dataset.Len(),
		"loaded_at": snap.LoadedAt,
	})
}

// parseLimit reads n; missing, invalid or non-positive values mean no limit
func parseLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
