package handlers

import (
	"net/http"

	"github.com/agentstation/docsite/internal/server/metrics"
	"github.com/agentstation/docsite/internal/server/response"
)

// HandleModules handles GET /api/v1/modules.
func (h *Handlers) HandleModules(w http.ResponseWriter, _ *http.Request) {
	host, err := h.backend.Host()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, host.Modules())
}

// HandleModule handles GET /@modules/{id}, responding with the generated
// ES module source.
func (h *Handlers) HandleModule(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	host, err := h.backend.Host()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	src, err := host.Load(r.Context(), id)
	if h.metrics != nil {
		label := id
		if _, _, ok := host.Resolve(id); !ok {
			label = "unresolved"
		}
		h.metrics.ModuleLoadsTotal.WithLabelValues(label, metrics.Result(err)).Inc()
	}
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	response.JavaScript(w, src.Code)
}
