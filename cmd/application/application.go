// Package application provides the application interface for docsite commands.
//
// Commands accept an Application rather than the concrete App type so they
// can be exercised in tests with a mock.
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            s, err := app.Site()
//	            if err != nil {
//	                return err
//	            }
//	            cfg, err := s.LoadConfig()
//	            // ...
//	        },
//	    }
//	}
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/docsite/internal/server"
	"github.com/agentstation/docsite/internal/tools/site"
)

// Application provides the application interface that commands need.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Site returns the documentation site rooted at the configured root.
	// Options adjust the site configuration for a single command, for
	// example to override the base URL of one build.
	Site(opts ...SiteOption) (*site.Site, error)

	// ServerConfig returns dev server settings with environment overrides
	// (HTTP_HOST, HTTP_PORT, DOCSITE_API_KEY) applied.
	ServerConfig() server.Config

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}

// SiteOption adjusts a site configuration before the site is created.
type SiteOption func(*site.Config)

// WithBaseURL overrides the base URL Hugo builds the site for.
func WithBaseURL(url string) SiteOption {
	return func(c *site.Config) {
		c.BaseURL = url
	}
}
