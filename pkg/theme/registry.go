package theme

import (
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/docsite/pkg/errors"
)

// Component is a UI component exposed to Markdown as a Hugo shortcode.
type Component struct {
	// Name is the component name used in configuration, e.g. "SwiperSlide".
	Name string
	// Shortcode is the shortcode file name without extension, e.g. "swiper-slide".
	Shortcode string
	// Template is the shortcode's Hugo template source.
	Template []byte
}

// Registry holds the components a site can enable.
type Registry struct {
	mu         sync.RWMutex
	components map[string]Component
	order      []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{components: make(map[string]Component)}
}

// DefaultRegistry returns a registry holding the built-in carousel components.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, c := range builtins() {
		// built-in names are distinct
		_ = r.Register(c)
	}
	return r
}

func builtins() []Component {
	return []Component{
		{Name: ComponentSwiper, Shortcode: "swiper", Template: mustTemplate("templates/shortcodes/swiper.html")},
		{Name: ComponentSwiperSlide, Shortcode: "swiper-slide", Template: mustTemplate("templates/shortcodes/swiper-slide.html")},
	}
}

func mustTemplate(name string) []byte {
	data, err := templatesFS.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return data
}

// Register adds a component. Names must be non-empty and unique.
func (r *Registry) Register(c Component) error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.NewValidationError("name", c.Name, "component name is required")
	}
	if c.Shortcode == "" {
		c.Shortcode = ShortcodeName(c.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.components[c.Name]; exists {
		return errors.NewAlreadyExistsError("component", c.Name)
	}
	r.components[c.Name] = c
	r.order = append(r.order, c.Name)
	return nil
}

// Get returns the component registered under name.
func (r *Registry) Get(name string) (Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.components[name]
	return c, ok
}

// Names returns the registered component names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// LoadDir registers every *.html file at the top of fsys as a component.
// "home-sponsors.html" becomes component HomeSponsors with shortcode
// home-sponsors.
func (r *Registry) LoadDir(fsys fs.FS) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return errors.WrapIO("list", "components", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".html" {
			continue
		}
		data, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return errors.WrapIO("read", entry.Name(), err)
		}
		shortcode := strings.TrimSuffix(entry.Name(), ".html")
		if err := r.Register(Component{
			Name:      ComponentName(shortcode),
			Shortcode: shortcode,
			Template:  data,
		}); err != nil {
			return err
		}
	}
	return nil
}

// ComponentName converts a shortcode name into a component name:
// "home-sponsors" becomes "HomeSponsors".
func ComponentName(shortcode string) string {
	caser := cases.Title(language.English)
	parts := strings.FieldsFunc(shortcode, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, p := range parts {
		parts[i] = caser.String(p)
	}
	return strings.Join(parts, "")
}

// ShortcodeName converts a component name into a shortcode name:
// "SwiperSlide" becomes "swiper-slide".
func ShortcodeName(component string) string {
	var b strings.Builder
	for i, r := range component {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
