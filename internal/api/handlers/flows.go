package handlers

import (
	"context"
	"net/http"

	"github.com/wonny/marketboard/internal/flows"
	"github.com/wonny/marketboard/pkg/logger"
)

// FlowsProvider is satisfied by flows.Service
type FlowsProvider interface {
	Get(ctx context.Context, refresh bool) (*flows.Report, error)
}

// FlowsHandler serves FII/DII activity
type FlowsHandler struct {
	flows  FlowsProvider
	logger *logger.Logger
}

// NewFlowsHandler creates a new flows handler
func NewFlowsHandler(p FlowsProvider, log *logger.Logger) *FlowsHandler {
	return &FlowsHandler{flows: p, logger: log}
}

// GetFlows returns cached flows; refresh=1 forces a fetch
// GET /api/fiidii
func (h *FlowsHandler) GetFlows(w http.ResponseWriter, r *http.Request) {
	refresh := r.URL.Query().Get("refresh")
	report, err := h.flows.Get(r.Context(), refresh == "1" || refresh == "true")
	if err != nil {
		h.logger.WithError(err).Error("Failed to get FII/DII flows")
		respondError(w, http.StatusBadGateway, "FII/DII data unavailable")
		return
	}

	respondJSON(w, http.StatusOK, report)
}
