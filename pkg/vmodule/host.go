package vmodule

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/docsite/pkg/errors"
	"github.com/agentstation/docsite/pkg/logging"
)

// Host dispatches imports to registered plugins.
// It is safe for concurrent use.
type Host struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *zerolog.Logger
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the logger used for resolution tracing.
func WithLogger(logger *zerolog.Logger) Option {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHost creates an empty host.
func NewHost(opts ...Option) *Host {
	h := &Host{logger: logging.Default()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register appends a plugin. Plugin names must be unique.
func (h *Host) Register(p Plugin) error {
	if p == nil {
		return errors.NewValidationError("plugin", nil, "cannot register a nil plugin")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, existing := range h.plugins {
		if existing.Name() == p.Name() {
			return errors.NewAlreadyExistsError("plugin", p.Name())
		}
	}
	h.plugins = append(h.plugins, p)

	h.logger.Debug().Str("plugin", p.Name()).Msg("Registered virtual module plugin")
	return nil
}

// Resolve asks each plugin in registration order to claim id.
func (h *Host) Resolve(id string) (ResolvedID, Plugin, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, p := range h.plugins {
		if resolved, ok := p.Resolve(id); ok {
			return resolved, p, true
		}
	}
	return "", nil, false
}

// Load resolves id and loads it with the claiming plugin.
func (h *Host) Load(ctx context.Context, id string) (Source, error) {
	resolved, plugin, ok := h.Resolve(id)
	if !ok {
		return Source{}, errors.NewNotFoundError("module", id)
	}

	logger := logging.FromContext(logging.WithModule(ctx, id))
	logger.Debug().Str("plugin", plugin.Name()).Msg("Loading virtual module")

	src, ok, err := plugin.Load(ctx, resolved)
	if err != nil {
		return Source{}, errors.WrapResource("load", "module", id, err)
	}
	if !ok {
		return Source{}, errors.NewNotFoundError("module", id)
	}
	return src, nil
}

// Plugins returns the registered plugin names in order.
func (h *Host) Plugins() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.plugins))
	for _, p := range h.plugins {
		names = append(names, p.Name())
	}
	return names
}

// Module pairs a well-known id with the plugin that serves it.
type Module struct {
	ID     string `json:"id" yaml:"id"`
	Plugin string `json:"plugin" yaml:"plugin"`
}

// Modules lists the well-known ids of every plugin that implements Lister.
func (h *Host) Modules() []Module {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var modules []Module
	for _, p := range h.plugins {
		l, ok := p.(Lister)
		if !ok {
			continue
		}
		for _, id := range l.IDs() {
			modules = append(modules, Module{ID: id, Plugin: p.Name()})
		}
	}
	return modules
}

// IDs returns the well-known ids of every plugin that implements Lister.
func (h *Host) IDs() []string {
	var ids []string
	for _, m := range h.Modules() {
		ids = append(ids, m.ID)
	}
	return ids
}
