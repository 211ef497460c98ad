package theme

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/docsite/pkg/errors"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "hugo-book", cfg.Extends)
	assert.Equal(t, "github.com/alex-shpak/hugo-book", cfg.ModulePath())
	assert.Equal(t, []string{"css/custom.css"}, cfg.Stylesheets)
	assert.Equal(t, []string{"Swiper", "SwiperSlide"}, cfg.Components)
	assert.Equal(t, []string{"navigation", "pagination", "autoplay"}, cfg.Carousel.Modules)
	assert.True(t, cfg.LazyLoading())
	assert.NoError(t, cfg.Validate(DefaultRegistry()))
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	lazy := false
	cfg := Config{
		Extends:     "github.com/example/theme",
		Stylesheets: []string{},
		Components:  []string{},
		Markdown:    Markdown{Image: ImageOptions{LazyLoading: &lazy}},
	}
	cfg.ApplyDefaults()

	assert.Equal(t, "github.com/example/theme", cfg.ModulePath())
	assert.Empty(t, cfg.Stylesheets)
	assert.Empty(t, cfg.Components)
	assert.False(t, cfg.LazyLoading())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		fields []string
	}{
		{
			name:   "missing extends",
			modify: func(c *Config) { c.Extends = " " },
			fields: []string{"theme.extends"},
		},
		{
			name:   "unknown component",
			modify: func(c *Config) { c.Components = append(c.Components, "Gallery") },
			fields: []string{"theme.components[2]"},
		},
		{
			name:   "unknown carousel module",
			modify: func(c *Config) { c.Carousel.Modules = []string{"parallax"} },
			fields: []string{"theme.carousel.modules[0]"},
		},
		{
			name:   "unknown slot",
			modify: func(c *Config) { c.Slots = map[string][]string{"sidebar": {"x.html"}} },
			fields: []string{"theme.slots.sidebar"},
		},
		{
			name: "several problems",
			modify: func(c *Config) {
				c.Stylesheets = []string{""}
				c.Carousel.Modules = []string{"fade"}
			},
			fields: []string{"theme.stylesheets[0]", "theme.carousel.modules[0]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)

			err := cfg.Validate(DefaultRegistry())
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
			for _, field := range tt.fields {
				assert.Contains(t, err.Error(), field)
			}
		})
	}
}

func TestParams(t *testing.T) {
	params := Defaults().Params()

	carousel := params["carousel"].(map[string]any)
	assert.Equal(t, []string{"navigation", "pagination", "autoplay"}, carousel["modules"])

	image := params["markdown"].(map[string]any)["image"].(map[string]any)
	assert.Equal(t, true, image["lazyLoading"])
}

func TestRegistry(t *testing.T) {
	t.Run("built-ins", func(t *testing.T) {
		reg := DefaultRegistry()
		assert.Equal(t, []string{"Swiper", "SwiperSlide"}, reg.Names())

		c, ok := reg.Get("SwiperSlide")
		require.True(t, ok)
		assert.Equal(t, "swiper-slide", c.Shortcode)
		assert.Contains(t, string(c.Template), `class="swiper-slide"`)
	})

	t.Run("duplicate", func(t *testing.T) {
		reg := DefaultRegistry()
		err := reg.Register(Component{Name: "Swiper"})
		assert.True(t, errors.IsAlreadyExists(err))
	})

	t.Run("empty name", func(t *testing.T) {
		err := NewRegistry().Register(Component{Name: ""})
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("derived shortcode", func(t *testing.T) {
		reg := NewRegistry()
		require.NoError(t, reg.Register(Component{Name: "HomeSponsors", Template: []byte("x")}))
		c, _ := reg.Get("HomeSponsors")
		assert.Equal(t, "home-sponsors", c.Shortcode)
	})

	t.Run("load dir", func(t *testing.T) {
		fsys := fstest.MapFS{
			"home-sponsors.html": {Data: []byte("<div>sponsors</div>")},
			"notes.txt":          {Data: []byte("ignored")},
			"nested/inner.html":  {Data: []byte("ignored")},
		}
		reg := DefaultRegistry()
		require.NoError(t, reg.LoadDir(fsys))

		c, ok := reg.Get("HomeSponsors")
		require.True(t, ok)
		assert.Equal(t, "home-sponsors", c.Shortcode)
		assert.Equal(t, []string{"Swiper", "SwiperSlide", "HomeSponsors"}, reg.Names())
	})
}

func TestNameConversion(t *testing.T) {
	assert.Equal(t, "HomeSponsors", ComponentName("home-sponsors"))
	assert.Equal(t, "FeatureGrid", ComponentName("feature_grid"))
	assert.Equal(t, "swiper-slide", ShortcodeName("SwiperSlide"))
	assert.Equal(t, "swiper", ShortcodeName("Swiper"))
}

func assetMap(t *testing.T, assets []Asset) map[string]string {
	t.Helper()
	m := make(map[string]string, len(assets))
	for _, a := range assets {
		m[a.Path] = string(a.Data)
	}
	return m
}

func TestAssets(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		assets, err := Assets(Defaults(), DefaultRegistry())
		require.NoError(t, err)
		files := assetMap(t, assets)

		require.Contains(t, files, "layouts/shortcodes/swiper.html")
		require.Contains(t, files, "layouts/shortcodes/swiper-slide.html")
		require.Contains(t, files, "layouts/_default/_markup/render-image.html")

		head := files["layouts/partials/docs/inject/head.html"]
		assert.Contains(t, head, `href="https://cdn.jsdelivr.net/npm/swiper@11/swiper.min.css"`)
		assert.Contains(t, head, "modules/navigation.min.css")
		assert.Contains(t, head, "modules/pagination.min.css")
		assert.NotContains(t, head, "autoplay")
		assert.Contains(t, head, `{{ "css/custom.css" | relURL }}`)

		body := files["layouts/partials/docs/inject/body.html"]
		assert.Contains(t, body, "swiper-bundle.min.js")
		assert.Contains(t, body, `"autoplay":{"delay":3000,"disableOnInteraction":false}`)
		assert.Contains(t, body, `"nextEl":".swiper-button-next"`)
	})

	t.Run("swiper shortcode prefixes base path", func(t *testing.T) {
		assets, err := Assets(Defaults(), nil)
		require.NoError(t, err)
		swiper := assetMap(t, assets)["layouts/shortcodes/swiper.html"]

		assert.Contains(t, swiper, `"image-list"`)
		assert.Contains(t, swiper, `strings.TrimPrefix "/" . | relURL`)
	})

	t.Run("no carousel", func(t *testing.T) {
		cfg := Defaults()
		cfg.Components = []string{}
		cfg.Stylesheets = []string{"https://example.com/site.css", "/css/extra.css"}

		assets, err := Assets(cfg, DefaultRegistry())
		require.NoError(t, err)
		files := assetMap(t, assets)

		assert.NotContains(t, files, "layouts/shortcodes/swiper.html")
		head := files["layouts/partials/docs/inject/head.html"]
		assert.NotContains(t, head, "swiper")
		assert.Contains(t, head, `href="https://example.com/site.css"`)
		assert.Contains(t, head, `{{ "css/extra.css" | relURL }}`)
		assert.NotContains(t, files["layouts/partials/docs/inject/body.html"], "<script")
	})

	t.Run("slots", func(t *testing.T) {
		cfg := Defaults()
		cfg.Slots = map[string][]string{
			"head":          {"analytics.html"},
			"content-after": {"sponsors.html", "feedback.html"},
		}

		assets, err := Assets(cfg, DefaultRegistry())
		require.NoError(t, err)
		files := assetMap(t, assets)

		assert.Contains(t, files["layouts/partials/docs/inject/head.html"], `{{ partial "analytics.html" . }}`)
		after := files["layouts/partials/docs/inject/content-after.html"]
		assert.Equal(t, 2, strings.Count(after, "{{ partial"))
		assert.True(t, strings.Index(after, "sponsors.html") < strings.Index(after, "feedback.html"))
		assert.NotContains(t, files, "layouts/partials/docs/inject/footer.html")
	})

	t.Run("unregistered component", func(t *testing.T) {
		cfg := Defaults()
		cfg.Components = []string{"Gallery"}

		_, err := Assets(cfg, DefaultRegistry())
		assert.Error(t, err)
	})

	t.Run("stable order", func(t *testing.T) {
		first, err := Assets(Defaults(), DefaultRegistry())
		require.NoError(t, err)
		second, err := Assets(Defaults(), DefaultRegistry())
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}
