package images

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/agentstation/docsite/pkg/constants"
	"github.com/agentstation/docsite/pkg/logging"
)

// Provider produces the image manifest for one directory.
type Provider struct {
	dir       string
	urlPrefix string
	sortOpts  []SortOption
	logger    *zerolog.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithURLPrefix sets the URL prefix prepended to file names (default /images).
func WithURLPrefix(prefix string) Option {
	return func(p *Provider) {
		p.urlPrefix = prefix
	}
}

// WithSortOptions sets the collation used to order the manifest.
func WithSortOptions(opts ...SortOption) Option {
	return func(p *Provider) {
		p.sortOpts = append(p.sortOpts, opts...)
	}
}

// WithLogger sets the provider logger. Without one the provider logs to the
// logger carried by the call's context.
func WithLogger(logger *zerolog.Logger) Option {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewProvider creates a provider for dir.
func NewProvider(dir string, opts ...Option) *Provider {
	p := &Provider{
		dir:       dir,
		urlPrefix: constants.ImagesURLPrefix,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Dir returns the scanned directory.
func (p *Provider) Dir() string {
	return p.dir
}

// URLPrefix returns the prefix applied to file names.
func (p *Provider) URLPrefix() string {
	return p.urlPrefix
}

// Manifest reads the directory and returns the sorted image URLs.
// It never fails: an unreadable directory produces an empty, non-nil list.
func (p *Provider) Manifest(ctx context.Context) []string {
	logger := p.loggerFor(ctx)

	names, err := Scan(p.dir, p.sortOpts...)
	if err != nil {
		logger.Debug().
			Err(err).
			Str("dir", p.dir).
			Msg("Images directory unreadable, using empty manifest")
		return []string{}
	}

	logger.Debug().
		Str("dir", p.dir).
		Int("images", len(names)).
		Msg("Image manifest built")

	return URLs(names, p.urlPrefix)
}

func (p *Provider) loggerFor(ctx context.Context) *zerolog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return logging.FromContext(ctx)
}

// ManifestJSON returns the manifest as a JSON array.
func (p *Provider) ManifestJSON(ctx context.Context) ([]byte, error) {
	return json.Marshal(p.Manifest(ctx))
}
