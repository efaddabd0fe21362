package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/marketboard/internal/watchlist"
	"github.com/wonny/marketboard/pkg/logger"
)

// WatchlistHandler manages the saved symbols
type WatchlistHandler struct {
	store  *watchlist.Store
	logger *logger.Logger
}

// NewWatchlistHandler creates a new watchlist handler
func NewWatchlistHandler(store *watchlist.Store, log *logger.Logger) *WatchlistHandler {
	return &WatchlistHandler{store: store, logger: log}
}

// AddRequest is the body of POST /api/watchlist
type AddRequest struct {
	Symbol string `json:"symbol" validate:"required,max=32"`
	Note   string `json:"note" validate:"max=200"`
}

// GET /api/watchlist
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List()
	if err != nil {
		h.logger.WithError(err).Error("Failed to read watchlist")
		respondError(w, http.StatusInternalServerError, "Failed to read watchlist")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(items),
		"items": items,
	})
}

// POST /api/watchlist
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.store.Add(req.Symbol, req.Note)
	switch {
	case errors.Is(err, watchlist.ErrDuplicate):
		respondError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, watchlist.ErrInvalid):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.logger.WithError(err).Error("Failed to add watchlist item")
		respondError(w, http.StatusInternalServerError, "Failed to update watchlist")
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

// DELETE /api/watchlist/{symbol}
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	err := h.store.Remove(symbol)
	if errors.Is(err, watchlist.ErrNotFound) {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to remove watchlist item")
		respondError(w, http.StatusInternalServerError, "Failed to update watchlist")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
