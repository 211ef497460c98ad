// Package constants provides shared constants used throughout the docsite codebase.
// This includes timeouts, file permissions, default paths and the names of
// the files docsite reads and writes inside a site root.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultTimeout is the standard timeout for general operations
	DefaultTimeout = 10 * time.Second

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute

	// BuildTimeout bounds a single Hugo build
	BuildTimeout = 5 * time.Minute

	// ShutdownTimeout is how long the dev server waits for connections to drain
	ShutdownTimeout = 30 * time.Second

	// WatchDebounce is how long the watcher waits for a burst of file events to settle
	WatchDebounce = 200 * time.Millisecond
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Site layout constants
const (
	// DefaultSiteRoot is the directory holding the documentation site
	DefaultSiteRoot = "./site"

	// SiteConfigFile is the site configuration file name inside the site root
	SiteConfigFile = "site.yaml"

	// HugoConfigFile is the generated Hugo configuration file
	HugoConfigFile = "hugo.yaml"

	// PublicDir holds static files copied verbatim to the site root
	PublicDir = "public"

	// ImagesDir is the images directory relative to the site configuration
	ImagesDir = "public/images"

	// ImagesURLPrefix is the root-relative URL prefix for image files
	ImagesURLPrefix = "/images"

	// PublishDir is where Hugo writes the built site
	PublishDir = "dist"

	// DataDir is the Hugo data directory virtual modules are written to
	DataDir = "data"

	// VirtualAssetsDir is where generated virtual module sources are written
	VirtualAssetsDir = "assets/virtual"
)

// Server constants
const (
	// DefaultPort is the dev server port
	DefaultPort = 5173

	// DefaultHugoPort is the Hugo development server port
	DefaultHugoPort = 1313

	// DefaultHost is the dev server bind address
	DefaultHost = "localhost"

	// APIPrefix is the path prefix for dev server API endpoints
	APIPrefix = "/api/v1"

	// ModulesPrefix is the path prefix virtual modules are served under
	ModulesPrefix = "/@modules/"

	// ConfigCacheTTL is how long the parsed site configuration stays cached
	ConfigCacheTTL = 5 * time.Minute

	// ChannelBufferSize is the default buffer size for event channels
	ChannelBufferSize = 256
)
