package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/agentstation/docsite/internal/server/handlers"
	"github.com/agentstation/docsite/internal/server/middleware"
	"github.com/agentstation/docsite/internal/server/response"
	"github.com/agentstation/docsite/pkg/constants"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(handlers.Options{
		Backend:        s,
		Cache:          s.cache,
		Broker:         s.broker,
		WSHub:          s.wsHub,
		SSEBroadcaster: s.sseBroadcaster,
		Upgrader:       s.upgrader,
		Metrics:        s.metrics,
		Logger:         s.logger,
	})

	s.registerRoutes(mux, h)

	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	// Public health endpoints
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("GET "+prefix+"/health", h.HandleHealth)
	mux.HandleFunc("GET "+prefix+"/ready", h.HandleReady)

	// Site data
	mux.HandleFunc("GET "+prefix+"/images", h.HandleImages)
	mux.HandleFunc("GET "+prefix+"/modules", h.HandleModules)
	mux.HandleFunc("GET "+prefix+"/config", h.HandleConfig)
	mux.HandleFunc("GET "+strings.TrimSuffix(constants.ModulesPrefix, "/")+"/{id...}", h.HandleModule)

	// Admin
	mux.HandleFunc("POST "+prefix+"/build", h.HandleBuild)
	mux.HandleFunc("GET "+prefix+"/stats", h.HandleStats)

	// Live updates
	mux.HandleFunc("GET "+prefix+"/updates/ws", h.HandleWebSocket)
	mux.HandleFunc("GET "+prefix+"/updates/stream", h.HandleSSE)

	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	// Unknown API paths get a JSON 404 rather than the site's 404 page.
	mux.HandleFunc(prefix+"/", func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Endpoint not found", r.URL.Path)
	})

	mux.Handle("/", s.staticHandler())
}

// applyMiddleware wraps handler with the middleware chain. Recovery is
// outermost so it also covers the other middleware.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config
	chain := []func(http.Handler) http.Handler{
		middleware.Recovery(s.logger),
		middleware.Logger(s.logger),
		middleware.Instrument(s.metrics),
	}

	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
		} else {
			corsConfig.AllowAll = true
		}
		chain = append(chain, middleware.CORS(corsConfig))
	}

	if cfg.AuthEnabled {
		authConfig := middleware.DefaultAuthConfig()
		authConfig.Enabled = true
		authConfig.APIKey = cfg.APIKey
		if cfg.AuthHeader != "" {
			authConfig.HeaderName = cfg.AuthHeader
		}
		chain = append(chain, middleware.Auth(authConfig, s.logger))
	}

	if s.rateLimiter != nil {
		chain = append(chain, middleware.RateLimit(s.rateLimiter))
	}

	return middleware.Chain(chain...)(handler)
}

// staticHandler serves the built site under the configured base path.
func (s *Server) staticHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			response.MethodNotAllowed(w, r.Method)
			return
		}

		base := "/"
		if cfg, err := s.Config(); err == nil {
			base = cfg.Base
		}

		if base != "/" {
			if r.URL.Path == "/" {
				http.Redirect(w, r, base, http.StatusFound)
				return
			}
			if !strings.HasPrefix(r.URL.Path, base) && r.URL.Path+"/" != base {
				http.NotFound(w, r)
				return
			}
		}

		dir := s.site.OutputDir()
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			response.ServiceUnavailable(w, "Site not built yet; run docsite build or serve with --rebuild")
			return
		}

		fs := http.FileServer(http.Dir(dir))
		http.StripPrefix(strings.TrimSuffix(base, "/"), fs).ServeHTTP(w, r)
	})
}
