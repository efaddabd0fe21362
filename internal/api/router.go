package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"

	"github.com/wonny/marketboard/internal/api/handlers"
	"github.com/wonny/marketboard/pkg/logger"
	"github.com/wonny/marketboard/pkg/metrics"
)

// Handlers groups every endpoint handler the router mounts
type Handlers struct {
	Page      *handlers.PageHandler
	Stocks    *handlers.StocksHandler
	Dashboard *handlers.DashboardHandler
	Proxy     *handlers.ProxyHandler
	Watchlist *handlers.WatchlistHandler
	Flows     *handlers.FlowsHandler
	Jobs      *handlers.JobsHandler
}

// RouterConfig controls cross-cutting router behaviour
type RouterConfig struct {
	AllowedOrigins []string
	ExposeMetrics  bool
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(h Handlers, cfg RouterConfig, rec *metrics.Recorder, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthCheckHandler).Methods("GET")
	r.HandleFunc("/", h.Page.Index).Methods("GET")

	if cfg.ExposeMetrics {
		r.Handle("/metrics", rec.Handler()).Methods("GET")
	}

	api := r.PathPrefix("/api").Subrouter()

	// Stocks
	api.HandleFunc("/stocks", h.Stocks.GetStocks).Methods("GET")
	api.HandleFunc("/stocks/reload", h.Stocks.Reload).Methods("POST")

	// Dashboard samples
	api.HandleFunc("/metrics", h.Dashboard.Metrics).Methods("GET")
	api.HandleFunc("/market_overview", h.Dashboard.MarketOverview).Methods("GET")
	api.HandleFunc("/weekly", h.Dashboard.Weekly).Methods("GET")
	api.HandleFunc("/random_timeseries", h.Dashboard.RandomTimeseries).Methods("GET")
	api.HandleFunc("/auto_data", h.Dashboard.AutoData).Methods("GET")

	// External API
	api.HandleFunc("/external_proxy", h.Proxy.Forward).Methods("GET")

	// Watchlist
	api.HandleFunc("/watchlist", h.Watchlist.List).Methods("GET")
	api.HandleFunc("/watchlist", h.Watchlist.Add).Methods("POST")
	api.HandleFunc("/watchlist/{symbol}", h.Watchlist.Remove).Methods("DELETE")

	// Flows and jobs
	api.HandleFunc("/fiidii", h.Flows.GetFlows).Methods("GET")
	api.HandleFunc("/jobs", h.Jobs.List).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(metricsMiddleware(rec))
	r.Use(recoveryMiddleware(log))

	// CORS wraps the whole router so preflight requests never reach method matching
	return corsMiddleware(cfg.AllowedOrigins)(r)
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "marketboard-api",
	})
}

func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	})
}
