// Package siteconfig loads and validates site.yaml, the file declaring a
// documentation site's title, navigation, sidebar, social links, image
// manifest settings and theme customization, and maps it onto Hugo's
// configuration.
package siteconfig

import (
	"path/filepath"
	"strings"

	"github.com/agentstation/docsite/pkg/constants"
	"github.com/agentstation/docsite/pkg/images"
	"github.com/agentstation/docsite/pkg/theme"
)

// Defaults for unset fields.
const (
	DefaultBase   = "/"
	DefaultLang   = "en-US"
	DefaultLocale = "en"
)

// Config is the parsed site configuration.
type Config struct {
	Title       string       `yaml:"title" json:"title"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	Lang        string       `yaml:"lang" json:"lang"`
	Base        string       `yaml:"base" json:"base"`
	Nav         []NavItem    `yaml:"nav,omitempty" json:"nav,omitempty"`
	Sidebar     []NavItem    `yaml:"sidebar,omitempty" json:"sidebar,omitempty"`
	SocialLinks []SocialLink `yaml:"socialLinks,omitempty" json:"socialLinks,omitempty"`
	Images      Images       `yaml:"images" json:"images"`
	Theme       theme.Config `yaml:"theme" json:"theme"`

	path string
}

// NavItem is a navigation or sidebar entry. An entry either links somewhere
// or groups child entries.
type NavItem struct {
	Text      string    `yaml:"text" json:"text"`
	Link      string    `yaml:"link,omitempty" json:"link,omitempty"`
	Collapsed bool      `yaml:"collapsed,omitempty" json:"collapsed,omitempty"`
	Items     []NavItem `yaml:"items,omitempty" json:"items,omitempty"`
}

// SocialLink is an icon link shown in the site header.
type SocialLink struct {
	Icon string `yaml:"icon" json:"icon"`
	Link string `yaml:"link" json:"link"`
}

// Images configures the image manifest.
type Images struct {
	// Dir is the images directory, relative to the configuration file.
	Dir string `yaml:"dir" json:"dir"`
	// URLPrefix is the root-relative prefix of image URLs.
	URLPrefix string `yaml:"urlPrefix" json:"urlPrefix"`
	// Locale is the BCP 47 tag whose collation orders the manifest.
	Locale string `yaml:"locale" json:"locale"`
	// Numeric orders digit runs by value.
	Numeric bool `yaml:"numeric,omitempty" json:"numeric,omitempty"`
}

// Defaults returns a configuration with every default applied and no title.
func Defaults() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.Base == "" {
		c.Base = DefaultBase
	}
	if c.Lang == "" {
		c.Lang = DefaultLang
	}
	if c.Images.Dir == "" {
		c.Images.Dir = constants.ImagesDir
	}
	if c.Images.URLPrefix == "" {
		c.Images.URLPrefix = constants.ImagesURLPrefix
	}
	if c.Images.Locale == "" {
		c.Images.Locale = DefaultLocale
	}
	c.Theme.ApplyDefaults()
}

// Path returns the file the configuration was loaded from, if any.
func (c *Config) Path() string {
	return c.path
}

// Dir returns the directory holding the configuration file. Relative paths
// in the configuration resolve against it.
func (c *Config) Dir() string {
	if c.path == "" {
		return "."
	}
	return filepath.Dir(c.path)
}

// ImagesDir returns the images directory resolved against Dir.
func (c *Config) ImagesDir() string {
	if filepath.IsAbs(c.Images.Dir) {
		return c.Images.Dir
	}
	return filepath.Join(c.Dir(), filepath.FromSlash(c.Images.Dir))
}

// ImageProvider returns the image manifest provider described by the configuration.
func (c *Config) ImageProvider(opts ...images.Option) *images.Provider {
	sortOpts := []images.SortOption{images.WithLocale(images.ParseLocale(c.Images.Locale))}
	if c.Images.Numeric {
		sortOpts = append(sortOpts, images.WithNumeric())
	}

	all := append([]images.Option{
		images.WithURLPrefix(c.Images.URLPrefix),
		images.WithSortOptions(sortOpts...),
	}, opts...)
	return images.NewProvider(c.ImagesDir(), all...)
}

// WithBase prefixes a root-relative URL with the site base path.
// Absolute and protocol-relative URLs are returned unchanged.
func (c *Config) WithBase(link string) string {
	if isExternal(link) || strings.HasPrefix(link, "//") {
		return link
	}
	base := c.Base
	if base == "" {
		base = DefaultBase
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(link, "/")
}

// WithBaseAll applies WithBase to every link.
func (c *Config) WithBaseAll(links []string) []string {
	out := make([]string, len(links))
	for i, link := range links {
		out[i] = c.WithBase(link)
	}
	return out
}

func isExternal(link string) bool {
	return strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://")
}
