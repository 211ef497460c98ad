package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/docsite/internal/server/metrics"
	"github.com/agentstation/docsite/pkg/constants"
)

// Instrument records request counts and latency. A nil m disables it.
func Instrument(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rec, r)

			path := sanitizePath(r.URL.Path)
			status := strconv.Itoa(rec.statusCode)
			m.RequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			m.RequestDurationSeconds.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
		})
	}
}

// sanitizePath collapses unbounded paths into fixed labels:
//
//	/@modules/virtual:image-list -> /@modules/:id
//	/docs/guide/intro/           -> /site
func sanitizePath(path string) string {
	switch {
	case strings.HasPrefix(path, constants.ModulesPrefix):
		return constants.ModulesPrefix + ":id"
	case path == "/metrics", path == "/health":
		return path
	case strings.HasPrefix(path, constants.APIPrefix+"/"):
		return strings.TrimRight(path, "/")
	default:
		return "/site"
	}
}
