// Package app provides the application context and dependency management
// for the docsite CLI: configuration, logging and site construction live
// here so commands only depend on the application.Application interface.
package app

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/agentstation/docsite/cmd/application"
	"github.com/agentstation/docsite/internal/server"
	"github.com/agentstation/docsite/internal/tools/site"
	"github.com/agentstation/docsite/pkg/errors"
)

// App represents the docsite application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
	// fixedLogger is set when WithLogger supplied the logger, which then
	// survives flag parsing.
	fixedLogger bool

	stdout io.Writer
	stderr io.Writer
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Site returns the documentation site under the configured root.
func (a *App) Site(opts ...application.SiteOption) (*site.Site, error) {
	cfg := &site.Config{
		RootDir: a.config.Root,
		Stdout:  a.stdout,
		Stderr:  a.stderr,
		Logger:  a.logger,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s, err := site.New(cfg)
	if err != nil {
		return nil, errors.WrapResource("create", "site", cfg.RootDir, err)
	}
	return s, nil
}

// ServerConfig returns the dev server defaults with configured overrides.
func (a *App) ServerConfig() server.Config {
	cfg := server.DefaultConfig()
	if a.config.HTTPHost != "" {
		cfg.Host = a.config.HTTPHost
	}
	if a.config.HTTPPort > 0 {
		cfg.Port = a.config.HTTPPort
	}
	if a.config.APIKey != "" {
		cfg.APIKey = a.config.APIKey
	}
	cfg.Version = a.version
	return cfg
}

// Shutdown performs graceful shutdown of the application.
func (a *App) Shutdown(_ context.Context) error {
	a.logger.Debug().Msg("Application shutdown")
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		a.fixedLogger = true
		return nil
	}
}

// WithOutput redirects command and Hugo process output.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *App) error {
		a.stdout = stdout
		a.stderr = stderr
		return nil
	}
}

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)
