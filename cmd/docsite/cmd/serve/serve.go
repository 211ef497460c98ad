// Package serve provides the serve command, the docsite dev server.
package serve

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/agentstation/docsite/cmd/application"
	"github.com/agentstation/docsite/internal/cmd/emoji"
	"github.com/agentstation/docsite/internal/server"
	"github.com/agentstation/docsite/internal/watch"
	"github.com/agentstation/docsite/pkg/errors"
	"github.com/agentstation/docsite/pkg/logging"
)

// NewCommand creates the serve command.
func NewCommand(app application.Application) *cobra.Command {
	defaults := app.ServerConfig()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dev server with live image manifest updates",
		Long: `Serve runs the docsite dev server. It watches site.yaml and the images
directory, regenerates the image manifest on every change and pushes update
events to connected pages.

Endpoints:
  /@modules/{id}               generated source of a virtual module
  /api/v1/images               the image manifest as JSON
  /api/v1/modules              the virtual modules served
  /api/v1/config               the parsed site configuration
  /api/v1/build                POST to rebuild the site with Hugo
  /api/v1/updates/ws           WebSocket update feed
  /api/v1/updates/stream       Server-Sent Events update feed
  /metrics                     Prometheus metrics
  /                            the built site from dist/, under the base path`,
		Example: `  docsite serve
  docsite serve --port 3000 --rebuild
  docsite serve --cors-origins http://localhost:1313`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := serverConfig(cmd, app.ServerConfig())
			if err != nil {
				return err
			}
			return run(cmd, app, cfg)
		},
	}

	cmd.Flags().IntP("port", "p", defaults.Port, "server port (env HTTP_PORT)")
	cmd.Flags().String("host", defaults.Host, "bind address (env HTTP_HOST)")
	cmd.Flags().Bool("rebuild", false, "rebuild the site with Hugo on start and after every change")

	cmd.Flags().Bool("cors", false, "enable CORS for all origins")
	cmd.Flags().StringSlice("cors-origins", nil, "allowed CORS origins (comma-separated)")

	cmd.Flags().Bool("auth", false, "require an API key on API and metrics endpoints (env DOCSITE_API_KEY)")
	cmd.Flags().String("auth-header", defaults.AuthHeader, "authentication header name")

	cmd.Flags().Int("rate-limit", defaults.RateLimit, "requests per minute per IP (0 to disable)")
	cmd.Flags().Duration("cache-ttl", defaults.CacheTTL, "how long the parsed site configuration stays cached")
	cmd.Flags().Duration("read-timeout", defaults.ReadTimeout, "HTTP read timeout")
	cmd.Flags().Duration("idle-timeout", defaults.IdleTimeout, "HTTP idle timeout")
	cmd.Flags().Bool("metrics", defaults.MetricsEnabled, "enable the /metrics endpoint")
	cmd.Flags().String("prefix", defaults.PathPrefix, "API path prefix")

	return cmd
}

// serverConfig overlays the flags the user set on the application's
// server settings.
func serverConfig(cmd *cobra.Command, cfg server.Config) (server.Config, error) {
	flags := cmd.Flags()

	if flags.Changed("port") {
		cfg.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("host") {
		cfg.Host, _ = flags.GetString("host")
	}
	if flags.Changed("auth-header") {
		cfg.AuthHeader, _ = flags.GetString("auth-header")
	}
	if flags.Changed("rate-limit") {
		cfg.RateLimit, _ = flags.GetInt("rate-limit")
	}
	if flags.Changed("cache-ttl") {
		cfg.CacheTTL, _ = flags.GetDuration("cache-ttl")
	}
	if flags.Changed("read-timeout") {
		cfg.ReadTimeout, _ = flags.GetDuration("read-timeout")
	}
	if flags.Changed("idle-timeout") {
		cfg.IdleTimeout, _ = flags.GetDuration("idle-timeout")
	}
	if flags.Changed("metrics") {
		cfg.MetricsEnabled, _ = flags.GetBool("metrics")
	}
	if flags.Changed("prefix") {
		cfg.PathPrefix, _ = flags.GetString("prefix")
	}

	cfg.Rebuild, _ = flags.GetBool("rebuild")
	cfg.AuthEnabled, _ = flags.GetBool("auth")
	cfg.CORSOrigins, _ = flags.GetStringSlice("cors-origins")
	cors, _ := flags.GetBool("cors")
	cfg.CORSEnabled = cors || len(cfg.CORSOrigins) > 0

	if cfg.AuthEnabled && cfg.APIKey == "" {
		return cfg, errors.NewValidationError("auth", nil, "--auth requires DOCSITE_API_KEY to be set")
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return cfg, errors.NewValidationError("port", cfg.Port, "must be between 0 and 65535")
	}
	return cfg, nil
}

// run serves HTTP and watches the site until the command context is done.
func run(cmd *cobra.Command, app application.Application, cfg server.Config) error {
	logger := app.Logger()

	s, err := app.Site()
	if err != nil {
		return err
	}
	srv, err := server.New(s, cfg, logger)
	if err != nil {
		return err
	}

	watcher, err := watch.New(watch.Config{
		ConfigPath: s.ConfigPath(),
		ImagesDir:  srv.ImagesDir(),
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	ctx := logging.WithLogger(cmd.Context(), logger)

	if cfg.Rebuild {
		start := time.Now()
		if _, err := srv.Build(ctx); err != nil {
			// The server still serves the API; the next change retries.
			logger.Warn().Err(err).Msg("Initial build failed")
		} else {
			logger.Info().Dur("duration", time.Since(start)).Msg("Initial build finished")
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s docsite dev server on http://%s\n", emoji.Info, srv.Addr())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(ctx)
	})
	g.Go(func() error {
		return watcher.Run(ctx, srv.HandleChange)
	})
	return g.Wait()
}
