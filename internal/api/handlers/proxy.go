package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/wonny/marketboard/pkg/httputil"
	"github.com/wonny/marketboard/pkg/logger"
)

// ProxyHandler forwards GET requests to the configured external API
type ProxyHandler struct {
	client   *httputil.Client
	upstream string
	logger   *logger.Logger
}

// NewProxyHandler creates a proxy. An empty upstream answers 500.
func NewProxyHandler(client *httputil.Client, upstream string, log *logger.Logger) *ProxyHandler {
	return &ProxyHandler{client: client, upstream: upstream, logger: log}
}

// Forward relays the query string and passes status and body through
// GET /api/external_proxy
func (h *ProxyHandler) Forward(w http.ResponseWriter, r *http.Request) {
	if h.upstream == "" {
		respondError(w, http.StatusInternalServerError, "NEW_API_URL not configured on server")
		return
	}

	resp, err := h.client.GetWithParams(r.Context(), h.upstream, r.URL.Query(), nil)
	if err != nil {
		h.logger.WithError(err).Warn("External proxy request failed")
		respondJSON(w, http.StatusBadGateway, map[string]string{
			"error":   "failed to fetch external API",
			"details": err.Error(),
		})
		return
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	switch {
	case strings.Contains(contentType, "application/json"):
		contentType = "application/json"
	case contentType == "":
		contentType = "text/plain"
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		h.logger.WithError(err).Debug("Proxy body copy interrupted")
	}
}
