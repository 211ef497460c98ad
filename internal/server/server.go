// Package server is the docsite dev server: it serves the built site, the
// live image manifest, virtual modules and change notifications.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/docsite/internal/server/cache"
	"github.com/agentstation/docsite/internal/server/events"
	"github.com/agentstation/docsite/internal/server/events/adapters"
	"github.com/agentstation/docsite/internal/server/metrics"
	"github.com/agentstation/docsite/internal/server/middleware"
	"github.com/agentstation/docsite/internal/server/sse"
	ws "github.com/agentstation/docsite/internal/server/websocket"
	"github.com/agentstation/docsite/internal/tools/site"
	"github.com/agentstation/docsite/internal/watch"
	"github.com/agentstation/docsite/pkg/constants"
	"github.com/agentstation/docsite/pkg/errors"
	"github.com/agentstation/docsite/pkg/images"
	"github.com/agentstation/docsite/pkg/logging"
	"github.com/agentstation/docsite/pkg/siteconfig"
	"github.com/agentstation/docsite/pkg/vmodule"
)

// stateKey is the cache key of the loaded site state.
const stateKey = "site"

// Site is the part of *site.Site the server drives.
type Site interface {
	LoadConfig() (*siteconfig.Config, error)
	Host(cfg *siteconfig.Config) (*vmodule.Host, error)
	ConfigPath() string
	OutputDir() string
	Generate(ctx context.Context) (*site.BuildResult, error)
}

// state is what a successful configuration load produces.
type state struct {
	config *siteconfig.Config
	host   *vmodule.Host
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	site           Site
	cache          *cache.Cache
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	rateLimiter    *middleware.RateLimiter
	metrics        *metrics.Metrics
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
	config         Config
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	buildMu        sync.Mutex
	startTime      time.Time
}

// New creates a server for s. Background services start with Start.
func New(s Site, cfg Config, logger *zerolog.Logger) (*Server, error) {
	if s == nil {
		return nil, errors.NewValidationError("site", nil, "is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = constants.ConfigCacheTTL
	}
	if cfg.PathPrefix == "" {
		cfg.PathPrefix = constants.APIPrefix
	}

	broker := events.NewBroker(logger)
	wsHub := ws.NewHub(logger)
	sseBroadcaster := sse.NewBroadcaster(logger)

	// Subscribe is buffered, so this does not wait for the broker to run.
	broker.Subscribe(adapters.NewWebSocketSubscriber(wsHub))
	broker.Subscribe(adapters.NewSSESubscriber(sseBroadcaster))

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New(cfg.Version, runtime.Version())
		m.TrackLiveClients("websocket", wsHub.ClientCount)
		m.TrackLiveClients("sse", sseBroadcaster.ClientCount)
	}

	var rl *middleware.RateLimiter
	if cfg.RateLimit > 0 {
		rl = middleware.NewRateLimiter(cfg.RateLimit, logger)
	}

	ctx, cancel := context.WithCancel(context.Background())

	srv := &Server{
		site:           s,
		cache:          cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
		broker:         broker,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		rateLimiter:    rl,
		metrics:        m,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Local dev server; pages may be opened from any host alias.
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		logger:    logger,
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}

	logger.Debug().
		Str("config", s.ConfigPath()).
		Bool("rebuild", cfg.Rebuild).
		Bool("metrics", cfg.MetricsEnabled).
		Msg("Server instance created")

	return srv, nil
}

// Start runs the background services (broker, WebSocket hub, SSE
// broadcaster, rate limiter cleanup) until Shutdown.
func (s *Server) Start() {
	services := []func(context.Context){s.broker.Run, s.wsHub.Run, s.sseBroadcaster.Run}
	if s.rateLimiter != nil {
		services = append(services, s.rateLimiter.Run)
	}
	for _, run := range services {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			run(s.ctx)
		}()
	}
	s.logger.Debug().Int("services", len(services)).Msg("Background services started")
}

// Handler returns the configured http.Handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

// ListenAndServe starts the background services, serves HTTP until ctx is
// cancelled, then shuts everything down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.Start()

	httpServer := &http.Server{
		Addr:         s.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", "http://"+s.Addr()).Msg("Dev server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		_ = s.Shutdown(context.Background())
		if ok {
			return errors.WrapIO("listen", s.Addr(), err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	// Stop live streams first so Shutdown does not wait on them.
	bgErr := s.Shutdown(shutdownCtx)
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return bgErr
}

// Shutdown stops the background services and waits for them to exit.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Debug().Msg("Background services shut down")
		return nil
	case <-ctx.Done():
		s.logger.Warn().Msg("Background services shutdown timed out")
		return ctx.Err()
	}
}

// Config returns the cached site configuration, loading it on a miss.
func (s *Server) Config() (*siteconfig.Config, error) {
	st, err := s.state()
	if err != nil {
		return nil, err
	}
	return st.config, nil
}

// Host returns the virtual module host for the cached configuration.
func (s *Server) Host() (*vmodule.Host, error) {
	st, err := s.state()
	if err != nil {
		return nil, err
	}
	return st.host, nil
}

func (s *Server) state() (*state, error) {
	v, err := s.cache.GetOrLoad(stateKey, func() (any, error) {
		cfg, err := s.site.LoadConfig()
		if err != nil {
			return nil, err
		}
		host, err := s.site.Host(cfg)
		if err != nil {
			return nil, err
		}
		s.logger.Debug().Str("title", cfg.Title).Msg("Site configuration loaded")
		return &state{config: cfg, host: host}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*state), nil
}

// Build regenerates the site, one build at a time, and publishes the
// outcome. It waits for a running build to finish first.
func (s *Server) Build(ctx context.Context) (*site.BuildResult, error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()
	return s.build(ctx)
}

// TryBuild is Build without the wait: while another build runs it fails
// with errors.ErrInProgress.
func (s *Server) TryBuild(ctx context.Context) (*site.BuildResult, error) {
	if !s.buildMu.TryLock() {
		return nil, fmt.Errorf("site build: %w", errors.ErrInProgress)
	}
	defer s.buildMu.Unlock()
	return s.build(ctx)
}

func (s *Server) build(ctx context.Context) (*site.BuildResult, error) {
	s.publish(events.BuildStarted, nil)
	start := time.Now()

	result, err := s.site.Generate(ctx)

	if s.metrics != nil {
		s.metrics.BuildsTotal.WithLabelValues(metrics.Result(err)).Inc()
		s.metrics.BuildDurationSeconds.WithLabelValues(metrics.Result(err)).Observe(time.Since(start).Seconds())
	}

	if err != nil {
		s.logger.Error().Err(err).Msg("Site build failed")
		s.publish(events.BuildFailed, map[string]any{"error": err.Error()})
		return nil, err
	}

	s.logger.Info().
		Dur("duration", result.Duration).
		Str("output", result.OutputDir).
		Msg("Site built")
	s.publish(events.BuildCompleted, map[string]any{
		"output_dir":  result.OutputDir,
		"duration_ms": result.Duration.Milliseconds(),
	})
	return result, nil
}

// HandleChange reacts to a watcher change: it drops stale state, tells
// connected browsers, and rebuilds when configured to.
func (s *Server) HandleChange(ctx context.Context, change watch.Change) {
	if s.metrics != nil {
		s.metrics.WatchEventsTotal.WithLabelValues(string(change.Kind)).Inc()
	}

	switch change.Kind {
	case watch.KindConfig:
		s.cache.Clear()
		if _, err := s.Config(); err != nil {
			s.logger.Warn().Err(err).Msg("Site configuration invalid after change")
			s.publish(events.ConfigChanged, map[string]any{"paths": change.Paths, "error": err.Error()})
			return
		}
		s.publish(events.ConfigChanged, map[string]any{"paths": change.Paths})

	case watch.KindImages:
		cfg, err := s.Config()
		if err != nil {
			s.logger.Warn().Err(err).Msg("Images changed but site configuration is invalid")
			return
		}
		manifest := cfg.ImageProvider(images.WithLogger(s.logger)).Manifest(ctx)
		if s.metrics != nil {
			s.metrics.ImagesTotal.Set(float64(len(manifest)))
		}
		s.publish(events.ImagesChanged, map[string]any{
			"module": images.ModuleID,
			"images": manifest,
			"paths":  change.Paths,
		})
	}

	if s.config.Rebuild {
		// Failures are already logged and published.
		_, _ = s.Build(ctx)
	}
}

// ImagesDir returns the images directory of the current configuration,
// falling back to the default location when the configuration is invalid.
func (s *Server) ImagesDir() string {
	if cfg, err := s.Config(); err == nil {
		return cfg.ImagesDir()
	}
	return images.DirFor(s.site.ConfigPath())
}

func (s *Server) publish(eventType events.EventType, data any) {
	if s.broker.Publish(eventType, data) && s.metrics != nil {
		s.metrics.EventsPublishedTotal.WithLabelValues(string(eventType)).Inc()
	}
}

// Cache returns the server's cache instance.
func (s *Server) Cache() *cache.Cache {
	return s.cache
}

// Broker returns the event broker.
func (s *Server) Broker() *events.Broker {
	return s.broker
}

// Metrics returns the metrics, or nil when disabled.
func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}

// StartTime returns when the server was created.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
