package handlers

import (
	"net/http"
	"strconv"

	"github.com/agentstation/docsite/internal/server/response"
	"github.com/agentstation/docsite/pkg/images"
)

// HandleImages handles GET /api/v1/images. The manifest is rebuilt from
// disk on every request. With ?base=true each URL carries the site base.
func (h *Handlers) HandleImages(w http.ResponseWriter, r *http.Request) {
	withBase := false
	if v := r.URL.Query().Get("base"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			response.BadRequest(w, "Invalid base parameter", "base must be a boolean")
			return
		}
		withBase = b
	}

	cfg, err := h.backend.Config()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	manifest := cfg.ImageProvider(images.WithLogger(h.logger)).Manifest(r.Context())
	if h.metrics != nil {
		h.metrics.ImagesTotal.Set(float64(len(manifest)))
	}
	if withBase {
		manifest = cfg.WithBaseAll(manifest)
	}

	response.OK(w, manifest)
}
