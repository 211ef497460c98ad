// Package theme declares how a docsite site customizes its base Hugo theme:
// which theme it extends, extra stylesheets, carousel components exposed as
// shortcodes, image lazy loading, and partials injected into layout slots.
//
// Nothing here renders pages. The package only produces the files and
// params Hugo and the base theme consume.
package theme

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agentstation/docsite/pkg/errors"
)

// DefaultExtends is the base theme used when none is configured.
const DefaultExtends = "hugo-book"

// DefaultStylesheet is the custom stylesheet injected by default, relative to
// the site's static directory.
const DefaultStylesheet = "css/custom.css"

// Built-in component names.
const (
	ComponentSwiper      = "Swiper"
	ComponentSwiperSlide = "SwiperSlide"
)

// Carousel modules understood by the generated carousel setup.
const (
	ModuleNavigation = "navigation"
	ModulePagination = "pagination"
	ModuleAutoplay   = "autoplay"
	ModuleScrollbar  = "scrollbar"
	ModuleKeyboard   = "keyboard"
	ModuleMousewheel = "mousewheel"
)

// KnownModules lists every accepted carousel module.
var KnownModules = []string{
	ModuleNavigation,
	ModulePagination,
	ModuleAutoplay,
	ModuleScrollbar,
	ModuleKeyboard,
	ModuleMousewheel,
}

// Slots are the base theme's inject points, each backed by
// layouts/partials/docs/inject/<slot>.html.
var Slots = []string{
	"head",
	"body",
	"footer",
	"menu-before",
	"menu-after",
	"toc-before",
	"toc-after",
	"content-before",
	"content-after",
}

// knownThemes maps short theme names onto their Hugo module paths.
var knownThemes = map[string]string{
	"hugo-book": "github.com/alex-shpak/hugo-book",
}

// Config is the theme section of a site configuration.
type Config struct {
	// Extends names the base theme, either a short name or a Hugo module path.
	Extends string `yaml:"extends" json:"extends"`
	// Stylesheets are injected into every page head. Relative paths resolve
	// against the site's static directory.
	Stylesheets []string `yaml:"stylesheets" json:"stylesheets"`
	// Components are the registered component names exposed as shortcodes.
	Components []string `yaml:"components" json:"components"`
	Carousel   Carousel `yaml:"carousel" json:"carousel"`
	Markdown   Markdown `yaml:"markdown" json:"markdown"`
	// Slots maps an inject point onto the partials rendered there.
	Slots map[string][]string `yaml:"slots,omitempty" json:"slots,omitempty"`
}

// Carousel configures the carousel library.
type Carousel struct {
	Modules []string `yaml:"modules" json:"modules"`
}

// Markdown configures Markdown rendering options passed to Hugo.
type Markdown struct {
	Image ImageOptions `yaml:"image" json:"image"`
}

// ImageOptions configures Markdown images.
type ImageOptions struct {
	LazyLoading *bool `yaml:"lazyLoading,omitempty" json:"lazyLoading,omitempty"`
}

// Defaults returns the default theme configuration.
func Defaults() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.Extends == "" {
		c.Extends = DefaultExtends
	}
	if c.Stylesheets == nil {
		c.Stylesheets = []string{DefaultStylesheet}
	}
	if c.Components == nil {
		c.Components = []string{ComponentSwiper, ComponentSwiperSlide}
	}
	if c.Carousel.Modules == nil {
		c.Carousel.Modules = []string{ModuleNavigation, ModulePagination, ModuleAutoplay}
	}
	if c.Markdown.Image.LazyLoading == nil {
		lazy := true
		c.Markdown.Image.LazyLoading = &lazy
	}
}

// LazyLoading reports whether Markdown images load lazily. Unset means true.
func (c Config) LazyLoading() bool {
	return c.Markdown.Image.LazyLoading == nil || *c.Markdown.Image.LazyLoading
}

// ModulePath returns the Hugo module path of the base theme.
func (c Config) ModulePath() string {
	if path, ok := knownThemes[c.Extends]; ok {
		return path
	}
	return c.Extends
}

// HasComponent reports whether name is enabled.
func (c Config) HasComponent(name string) bool {
	return slices.Contains(c.Components, name)
}

// Validate checks the configuration against reg. Every problem found is
// reported; the result matches errors.ErrInvalidInput.
func (c Config) Validate(reg *Registry) error {
	var errs []error

	if strings.TrimSpace(c.Extends) == "" {
		errs = append(errs, errors.NewValidationError("theme.extends", c.Extends, "base theme is required"))
	}

	for i, sheet := range c.Stylesheets {
		field := fmt.Sprintf("theme.stylesheets[%d]", i)
		if strings.TrimSpace(sheet) == "" {
			errs = append(errs, errors.NewValidationError(field, sheet, "stylesheet path is empty"))
		}
	}

	if reg != nil {
		for i, name := range c.Components {
			if _, ok := reg.Get(name); !ok {
				field := fmt.Sprintf("theme.components[%d]", i)
				errs = append(errs, errors.NewValidationError(field, name, fmt.Sprintf("unknown component %q", name)))
			}
		}
	}

	for i, module := range c.Carousel.Modules {
		if !slices.Contains(KnownModules, module) {
			field := fmt.Sprintf("theme.carousel.modules[%d]", i)
			errs = append(errs, errors.NewValidationError(field, module,
				fmt.Sprintf("unknown carousel module %q (known: %s)", module, strings.Join(KnownModules, ", "))))
		}
	}

	for slot, partials := range c.Slots {
		field := "theme.slots." + slot
		if !slices.Contains(Slots, slot) {
			errs = append(errs, errors.NewValidationError(field, slot, fmt.Sprintf("unknown slot %q", slot)))
			continue
		}
		for _, partial := range partials {
			if strings.TrimSpace(partial) == "" {
				errs = append(errs, errors.NewValidationError(field, partial, "partial name is empty"))
			}
		}
	}

	return errors.Join(errs...)
}

// Params returns the Hugo site params contributed by the theme.
func (c Config) Params() map[string]any {
	modules := c.Carousel.Modules
	if modules == nil {
		modules = []string{}
	}
	return map[string]any{
		"carousel": map[string]any{
			"modules": modules,
		},
		"markdown": map[string]any{
			"image": map[string]any{
				"lazyLoading": c.LazyLoading(),
			},
		},
	}
}
