// Package handlers implements the dev server's HTTP endpoints.
package handlers

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/docsite/internal/server/cache"
	"github.com/agentstation/docsite/internal/server/events"
	"github.com/agentstation/docsite/internal/server/metrics"
	"github.com/agentstation/docsite/internal/server/sse"
	ws "github.com/agentstation/docsite/internal/server/websocket"
	"github.com/agentstation/docsite/internal/tools/site"
	"github.com/agentstation/docsite/pkg/siteconfig"
	"github.com/agentstation/docsite/pkg/vmodule"
)

// Backend is the site state the handlers read from.
type Backend interface {
	// Config returns the current, validated site configuration.
	Config() (*siteconfig.Config, error)
	// Host returns the virtual module host for the current configuration.
	Host() (*vmodule.Host, error)
	// TryBuild regenerates the site unless a build is already running.
	TryBuild(ctx context.Context) (*site.BuildResult, error)
}

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	backend        Backend
	cache          *cache.Cache
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	upgrader       websocket.Upgrader
	metrics        *metrics.Metrics
	logger         *zerolog.Logger
	startTime      time.Time
}

// Options carries the collaborators of a Handlers value.
type Options struct {
	Backend        Backend
	Cache          *cache.Cache
	Broker         *events.Broker
	WSHub          *ws.Hub
	SSEBroadcaster *sse.Broadcaster
	Upgrader       websocket.Upgrader
	Metrics        *metrics.Metrics // optional
	Logger         *zerolog.Logger
}

// New creates a new Handlers instance.
func New(opts Options) *Handlers {
	return &Handlers{
		backend:        opts.Backend,
		cache:          opts.Cache,
		broker:         opts.Broker,
		wsHub:          opts.WSHub,
		sseBroadcaster: opts.SSEBroadcaster,
		upgrader:       opts.Upgrader,
		metrics:        opts.Metrics,
		logger:         opts.Logger,
		startTime:      time.Now(),
	}
}
