package handlers

import (
	"net/http"

	"github.com/agentstation/docsite/internal/server/response"
)

// HandleConfig handles GET /api/v1/config.
func (h *Handlers) HandleConfig(w http.ResponseWriter, _ *http.Request) {
	cfg, err := h.backend.Config()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, cfg)
}
