package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/agentstation/docsite/internal/server/response"
)

// HandleBuild handles POST /api/v1/build: regenerate the site now. A build
// already in flight answers 409 rather than queueing another.
func (h *Handlers) HandleBuild(w http.ResponseWriter, r *http.Request) {
	result, err := h.backend.TryBuild(r.Context())
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	response.OK(w, map[string]any{
		"status":      "completed",
		"output_dir":  result.OutputDir,
		"duration_ms": result.Duration.Milliseconds(),
	})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, _ *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := map[string]any{
		"runtime": map[string]any{
			"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
			"goroutines":     runtime.NumGoroutine(),
			"memory_mb":      memStats.Alloc / 1024 / 1024,
			"memory_sys_mb":  memStats.Sys / 1024 / 1024,
		},
		"events": map[string]any{
			"published_total": h.broker.EventsPublished(),
			"dropped_total":   h.broker.EventsDropped(),
			"queue_depth":     h.broker.QueueDepth(),
		},
		"realtime": map[string]any{
			"websocket_clients": h.wsHub.ClientCount(),
			"sse_clients":       h.sseBroadcaster.ClientCount(),
		},
		"cache": h.cache.GetStats(),
	}

	if host, err := h.backend.Host(); err == nil {
		stats["modules"] = host.Modules()
	}

	response.OK(w, stats)
}
