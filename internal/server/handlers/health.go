package handlers

import (
	"net/http"

	"github.com/agentstation/docsite/internal/server/response"
)

// HandleHealth handles GET /health and GET /api/v1/health (liveness).
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "docsite",
		"version": "v1",
	})
}

// HandleReady handles GET /api/v1/ready. The server is ready once the site
// configuration loads and validates.
func (h *Handlers) HandleReady(w http.ResponseWriter, _ *http.Request) {
	cfg, err := h.backend.Config()
	if err != nil {
		response.ServiceUnavailable(w, err.Error())
		return
	}

	response.OK(w, map[string]any{
		"status": "ready",
		"site":   cfg.Title,
		"cache": map[string]any{
			"items": h.cache.ItemCount(),
		},
		"websocket_clients": h.wsHub.ClientCount(),
		"sse_clients":       h.sseBroadcaster.ClientCount(),
	})
}
